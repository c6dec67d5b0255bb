package mot

import (
	"github.com/pkg/errors"
)

// ClassParams holds matching parameters of a class of object types
type ClassParams struct {
	// Max distance (pixels) between observation and slot to consider them the same object
	DistThreshold int
	// Number of frames a slot stays matchable after it was seen last time
	MemoryFrames int
}

// TrackerConfig describes SlotTracker. See DefaultTrackerConfig for values used by coin counting
type TrackerConfig struct {
	// Number of slots in the table. Never grows
	Capacity int
	// Frame number after which the clock wraps to 0
	ClockCeiling int
	// Parameters of types not listed in FarTypes
	Near ClassParams
	// Parameters of types listed in FarTypes
	Far      ClassParams
	FarTypes []int
	// Types which replace inferior types observed at the same place
	SupersedingTypes []int
	InferiorTypes    []int
	// Radius in which superseding observation clears an inferior slot
	EvictionRadius int
	// Radius used by CorrectInferior
	CorrectionRadius int
	// Radius used by TypeAt
	LookupRadius int
	// Number of smoothed positions remembered per slot
	MaxTrackLen int
}

// DefaultTrackerConfig returns parameters tuned for coins: 1€ and 2€ (types 7, 8) are matched loosely,
// remembered longer and supersede gold coins (types 4, 5, 6) detected at the same place.
func DefaultTrackerConfig() TrackerConfig {
	return TrackerConfig{
		Capacity:         150,
		ClockCeiling:     DefaultClockCeiling,
		Near:             ClassParams{DistThreshold: 50, MemoryFrames: 60},
		Far:              ClassParams{DistThreshold: 75, MemoryFrames: 120},
		FarTypes:         []int{7, 8},
		SupersedingTypes: []int{7, 8},
		InferiorTypes:    []int{4, 5, 6},
		EvictionRadius:   85,
		CorrectionRadius: 80,
		LookupRadius:     50,
		MaxTrackLen:      DefaultMaxTrackLen,
	}
}

// Validate checks that sizes and radii are positive
func (cfg TrackerConfig) Validate() error {
	if cfg.Capacity <= 0 {
		return errors.Errorf("capacity must be positive, got %d", cfg.Capacity)
	}
	if cfg.ClockCeiling <= 0 {
		return errors.Errorf("clock ceiling must be positive, got %d", cfg.ClockCeiling)
	}
	if cfg.Near.DistThreshold <= 0 || cfg.Near.MemoryFrames <= 0 {
		return errors.Errorf("near class parameters must be positive, got %+v", cfg.Near)
	}
	if cfg.Far.DistThreshold <= 0 || cfg.Far.MemoryFrames <= 0 {
		return errors.Errorf("far class parameters must be positive, got %+v", cfg.Far)
	}
	if cfg.EvictionRadius < 0 || cfg.CorrectionRadius < 0 || cfg.LookupRadius < 0 {
		return errors.Errorf("radii must not be negative")
	}
	if cfg.MaxTrackLen <= 0 {
		return errors.Errorf("max track length must be positive, got %d", cfg.MaxTrackLen)
	}
	return nil
}

type classThresholds struct {
	distSq int
	window int
}

// SlotTracker deduplicates observations of slowly moving objects across frames.
//
// It keeps fixed-capacity table of slots and a FrameClock. Observation is matched against
// slots by squared distance and age; the first matching slot in table order wins.
// SlotTracker is not safe for concurrent use.
type SlotTracker struct {
	slots []Slot
	clock *FrameClock

	near        classThresholds
	far         classThresholds
	farTypes    map[int]struct{}
	superseding map[int]struct{}
	inferior    map[int]struct{}

	evictionRadiusSq   int
	correctionRadiusSq int
	lookupRadiusSq     int
	maxTrackLen        int
}

// NewSlotTrackerDefault creates default instance of SlotTracker
func NewSlotTrackerDefault() *SlotTracker {
	tracker, _ := NewSlotTracker(DefaultTrackerConfig())
	return tracker
}

// NewSlotTracker creates new instance of SlotTracker
func NewSlotTracker(cfg TrackerConfig) (*SlotTracker, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "Can't create slot tracker")
	}
	return &SlotTracker{
		slots:              make([]Slot, cfg.Capacity),
		clock:              NewFrameClock(cfg.ClockCeiling),
		near:               classThresholds{distSq: cfg.Near.DistThreshold * cfg.Near.DistThreshold, window: cfg.Near.MemoryFrames},
		far:                classThresholds{distSq: cfg.Far.DistThreshold * cfg.Far.DistThreshold, window: cfg.Far.MemoryFrames},
		farTypes:           typeSet(cfg.FarTypes),
		superseding:        typeSet(cfg.SupersedingTypes),
		inferior:           typeSet(cfg.InferiorTypes),
		evictionRadiusSq:   cfg.EvictionRadius * cfg.EvictionRadius,
		correctionRadiusSq: cfg.CorrectionRadius * cfg.CorrectionRadius,
		lookupRadiusSq:     cfg.LookupRadius * cfg.LookupRadius,
		maxTrackLen:        cfg.MaxTrackLen,
	}, nil
}

func typeSet(types []int) map[int]struct{} {
	set := make(map[int]struct{}, len(types))
	for _, t := range types {
		set[t] = struct{}{}
	}
	return set
}

// Clock returns frame clock used to timestamp slots
func (tracker *SlotTracker) Clock() *FrameClock {
	return tracker.clock
}

// Capacity returns size of the table
func (tracker *SlotTracker) Capacity() int {
	return len(tracker.slots)
}

// IsSuperseding returns true if objects of given type replace inferior ones
func (tracker *SlotTracker) IsSuperseding(objectType int) bool {
	_, ok := tracker.superseding[objectType]
	return ok
}

// IsInferior returns true if objects of given type are replaced by superseding ones
func (tracker *SlotTracker) IsInferior(objectType int) bool {
	_, ok := tracker.inferior[objectType]
	return ok
}

func (tracker *SlotTracker) thresholds(objectType int) classThresholds {
	if _, ok := tracker.farTypes[objectType]; ok {
		return tracker.far
	}
	return tracker.near
}

// withinMemory tolerates wraparound of the frame clock: slot stamped after current frame is treated as recent
func withinMemory(current, lastSeen, window int) bool {
	return current-lastSeen < window || lastSeen > current
}

// Observe registers observation of an object of objectType at (x, y) on the current frame.
//
// It returns true only when the observation matched a slot which had already been counted,
// meaning the caller must not count the object again. When shouldCount is true the matched
// slot becomes counted. New objects are never reported as counted. If the table is full and
// nothing matches, the observation is dropped.
func (tracker *SlotTracker) Observe(x, y, objectType int, shouldCount bool) bool {
	_, alreadyCounted := tracker.ObserveSlot(x, y, objectType, shouldCount)
	return alreadyCounted
}

// ObserveSlot is Observe which also returns snapshot of the matched or inserted slot.
// Dropped observation yields unoccupied zero Slot.
func (tracker *SlotTracker) ObserveSlot(x, y, objectType int, shouldCount bool) (Slot, bool) {
	current := tracker.clock.Current()
	superseding := tracker.IsSuperseding(objectType)

	if superseding {
		tracker.clearFirstInferior(x, y, tracker.evictionRadiusSq)
	}

	class := tracker.thresholds(objectType)
	matchIdx := -1
	emptyIdx := -1
	for i := range tracker.slots {
		slot := &tracker.slots[i]
		if !slot.occupied {
			if emptyIdx < 0 {
				emptyIdx = i
			}
			continue
		}
		if distanceSquared(slot.X, slot.Y, x, y) > class.distSq {
			continue
		}
		if !withinMemory(current, slot.LastSeen, class.window) {
			continue
		}
		matchIdx = i
		if superseding && tracker.IsInferior(slot.Type) {
			slot.Type = objectType
		}
		break
	}

	if matchIdx >= 0 {
		slot := &tracker.slots[matchIdx]
		if err := slot.moveTo(x, y, current); err != nil {
			slot.reseed()
		}
		if shouldCount && !slot.Counted {
			slot.Counted = true
			return slot.snapshot(), false
		}
		return slot.snapshot(), slot.Counted
	}

	if emptyIdx < 0 {
		return Slot{}, false
	}
	tracker.slots[emptyIdx] = newSlot(x, y, objectType, current, shouldCount, tracker.maxTrackLen)
	return tracker.slots[emptyIdx].snapshot(), false
}

// clearFirstInferior empties the first occupied slot of inferior type within radiusSq of (x, y)
func (tracker *SlotTracker) clearFirstInferior(x, y, radiusSq int) (Slot, bool) {
	for i := range tracker.slots {
		slot := &tracker.slots[i]
		if !slot.occupied || !tracker.IsInferior(slot.Type) {
			continue
		}
		if distanceSquared(slot.X, slot.Y, x, y) <= radiusSq {
			evicted := slot.snapshot()
			tracker.slots[i] = Slot{}
			return evicted, true
		}
	}
	return Slot{}, false
}

// CorrectInferior clears the first inferior slot within correction radius of (x, y).
// It returns the cleared slot so the caller can revert its tally for that type.
func (tracker *SlotTracker) CorrectInferior(x, y int) (Slot, bool) {
	return tracker.clearFirstInferior(x, y, tracker.correctionRadiusSq)
}

// TypeAt returns type of the nearest occupied slot within lookup radius of (x, y), or 0 if there is none
func (tracker *SlotTracker) TypeAt(x, y int) int {
	bestType := 0
	bestDistSq := tracker.lookupRadiusSq + 1
	for i := range tracker.slots {
		slot := &tracker.slots[i]
		if !slot.occupied {
			continue
		}
		distSq := distanceSquared(slot.X, slot.Y, x, y)
		if distSq < bestDistSq {
			bestDistSq = distSq
			bestType = slot.Type
		}
	}
	return bestType
}

// Slots returns copies of occupied slots in table order
func (tracker *SlotTracker) Slots() []Slot {
	slots := make([]Slot, 0, len(tracker.slots))
	for i := range tracker.slots {
		if tracker.slots[i].occupied {
			slots = append(slots, tracker.slots[i].snapshot())
		}
	}
	return slots
}

// Len returns number of occupied slots
func (tracker *SlotTracker) Len() int {
	n := 0
	for i := range tracker.slots {
		if tracker.slots[i].occupied {
			n++
		}
	}
	return n
}

// Reset empties every slot and rewinds the clock
func (tracker *SlotTracker) Reset() {
	for i := range tracker.slots {
		tracker.slots[i] = Slot{}
	}
	tracker.clock.Reset()
}
