package mot

// DefaultClockCeiling is the last frame number before the clock wraps to 0
const DefaultClockCeiling = 1000

// FrameClock counts processed frames. Once the counter exceeds ceiling it wraps to 0,
// so frame numbers stay in [0, ceiling].
type FrameClock struct {
	current int
	ceiling int
}

// NewFrameClockDefault creates default instance of FrameClock
func NewFrameClockDefault() *FrameClock {
	return NewFrameClock(DefaultClockCeiling)
}

// NewFrameClock creates new instance of FrameClock. Non-positive ceiling falls back to DefaultClockCeiling
func NewFrameClock(ceiling int) *FrameClock {
	if ceiling <= 0 {
		ceiling = DefaultClockCeiling
	}
	return &FrameClock{
		ceiling: ceiling,
	}
}

// Tick advances the clock by one frame and returns the new frame number
func (clock *FrameClock) Tick() int {
	clock.current++
	if clock.current > clock.ceiling {
		clock.current = 0
	}
	return clock.current
}

// Current returns current frame number
func (clock *FrameClock) Current() int {
	return clock.current
}

// Ceiling returns wrap point
func (clock *FrameClock) Ceiling() int {
	return clock.ceiling
}

// Reset sets the clock back to frame 0
func (clock *FrameClock) Reset() {
	clock.current = 0
}
