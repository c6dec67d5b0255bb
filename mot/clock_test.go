package mot

import (
	"testing"
)

func TestFrameClockWraps(t *testing.T) {
	clock := NewFrameClock(3)
	expected := []int{1, 2, 3, 0, 1}
	for i, want := range expected {
		got := clock.Tick()
		if got != want {
			t.Errorf("tick %d: %d, expected: %d", i, got, want)
		}
		if clock.Current() != got {
			t.Errorf("current after tick %d: %d, expected: %d", i, clock.Current(), got)
		}
	}
}

func TestFrameClockDefaultCeiling(t *testing.T) {
	clock := NewFrameClockDefault()
	for i := 0; i < DefaultClockCeiling; i++ {
		clock.Tick()
	}
	if clock.Current() != DefaultClockCeiling {
		t.Errorf("frame before wrap: %d, expected: %d", clock.Current(), DefaultClockCeiling)
	}
	if clock.Tick() != 0 {
		t.Errorf("clock did not wrap after ceiling")
	}
	if NewFrameClock(-5).Ceiling() != DefaultClockCeiling {
		t.Errorf("non-positive ceiling should fall back to default")
	}
}

func TestFrameClockReset(t *testing.T) {
	clock := NewFrameClockDefault()
	clock.Tick()
	clock.Tick()
	clock.Reset()
	if clock.Current() != 0 {
		t.Errorf("frame after reset: %d, expected: 0", clock.Current())
	}
}
