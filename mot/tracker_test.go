package mot

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	typeCopper = 1
	typeGold   = 5
	typeEuro   = 8
)

func tickN(tracker *SlotTracker, n int) {
	for i := 0; i < n; i++ {
		tracker.Clock().Tick()
	}
}

func TestObserveDeduplicates(t *testing.T) {
	tracker := NewSlotTrackerDefault()
	assert.False(t, tracker.Observe(100, 100, typeCopper, true), "first observation is never counted")
	assert.True(t, tracker.Observe(100, 100, typeCopper, true), "second observation must be reported as counted")
	assert.Equal(t, 1, tracker.Len())
}

func TestObserveDeferredCounting(t *testing.T) {
	tracker := NewSlotTrackerDefault()
	assert.False(t, tracker.Observe(200, 150, typeCopper, false))
	assert.False(t, tracker.Observe(200, 150, typeCopper, false), "uncounted slot stays uncounted")
	assert.False(t, tracker.Observe(200, 150, typeCopper, true), "first counting observation of known slot")
	assert.True(t, tracker.Observe(200, 150, typeCopper, true))
	assert.True(t, tracker.Observe(200, 150, typeCopper, false), "counted flag is reported regardless of shouldCount")
}

func TestObserveSpatialTolerance(t *testing.T) {
	tests := []struct {
		name       string
		objectType int
		shift      int
		counted    bool
	}{
		{"near class inside threshold", typeCopper, 30, true},
		{"near class on threshold", typeCopper, 50, true},
		{"near class outside threshold", typeCopper, 51, false},
		{"far class inside its threshold", typeEuro, 70, true},
		{"far class on threshold", typeEuro, 75, true},
		{"far class outside threshold", typeEuro, 90, false},
		{"near class with far-class distance", typeCopper, 70, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracker := NewSlotTrackerDefault()
			require.False(t, tracker.Observe(300, 200, tt.objectType, true))
			assert.Equal(t, tt.counted, tracker.Observe(300+tt.shift, 200, tt.objectType, true))
		})
	}
}

func TestObserveFollowsMovingObject(t *testing.T) {
	tracker := NewSlotTrackerDefault()
	require.False(t, tracker.Observe(100, 100, typeCopper, true))
	for step := 1; step <= 10; step++ {
		tracker.Clock().Tick()
		assert.True(t, tracker.Observe(100, 100+step*30, typeCopper, true), "step %d", step)
	}
	slots := tracker.Slots()
	require.Len(t, slots, 1)
	assert.Equal(t, 400, slots[0].Y)
	assert.Len(t, slots[0].Track(), 11)
	assert.InDelta(t, 100.0, slots[0].Estimate().X, 5.0)
}

func TestObserveTemporalExpiry(t *testing.T) {
	tracker := NewSlotTrackerDefault()
	require.False(t, tracker.Observe(100, 100, typeCopper, true))
	tickN(tracker, 59)
	assert.True(t, tracker.Observe(100, 100, typeCopper, true), "still remembered inside the window")

	tickN(tracker, 60)
	assert.False(t, tracker.Observe(100, 100, typeCopper, true), "expired slot must not match")
	assert.Equal(t, 2, tracker.Len(), "expired slot is not reused")
}

func TestObserveFarClassRemembersLonger(t *testing.T) {
	tracker := NewSlotTrackerDefault()
	require.False(t, tracker.Observe(100, 100, typeEuro, true))
	tickN(tracker, 100)
	assert.True(t, tracker.Observe(100, 100, typeEuro, true))
}

func TestObserveClockWraparound(t *testing.T) {
	cfg := DefaultTrackerConfig()
	cfg.ClockCeiling = 100
	tracker, err := NewSlotTracker(cfg)
	require.NoError(t, err)

	tickN(tracker, 95)
	require.False(t, tracker.Observe(100, 100, typeCopper, true))
	tickN(tracker, 10)
	require.Equal(t, 4, tracker.Clock().Current())
	assert.True(t, tracker.Observe(100, 100, typeCopper, true), "slot stamped before wraparound is still recent")
}

func TestObserveCapacity(t *testing.T) {
	cfg := DefaultTrackerConfig()
	cfg.Capacity = 3
	tracker, err := NewSlotTracker(cfg)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		assert.False(t, tracker.Observe(100+i*200, 100, typeCopper, true))
	}
	assert.Equal(t, 3, tracker.Len())
	assert.Equal(t, 3, tracker.Capacity())

	// overflow observations were dropped, so they are never reported as counted
	assert.False(t, tracker.Observe(900, 100, typeCopper, true))
	assert.False(t, tracker.Observe(900, 100, typeCopper, true))
	// tracked ones still deduplicate
	assert.True(t, tracker.Observe(100, 100, typeCopper, true))
}

func TestObserveOriginIsLegitimate(t *testing.T) {
	tracker := NewSlotTrackerDefault()
	assert.False(t, tracker.Observe(0, 0, typeCopper, true))
	assert.True(t, tracker.Observe(0, 0, typeCopper, true))
	assert.Equal(t, 1, tracker.Len())
}

func TestObserveSupersedingEvictsInferior(t *testing.T) {
	tracker := NewSlotTrackerDefault()
	require.False(t, tracker.Observe(100, 100, typeGold, true))
	require.False(t, tracker.Observe(500, 100, typeGold, true))

	// 60 px away: inside eviction radius, outside near threshold of the gold slot
	assert.False(t, tracker.Observe(160, 100, typeEuro, true))

	slots := tracker.Slots()
	require.Len(t, slots, 2)
	assert.Equal(t, typeEuro, slots[0].Type, "euro takes the freed slot")
	assert.Equal(t, 160, slots[0].X)
	assert.Equal(t, 500, slots[1].X, "far gold slot is kept")
	assert.Equal(t, typeGold, slots[1].Type)
}

func TestObserveSupersedingUpgradesMatchedSlot(t *testing.T) {
	tracker := NewSlotTrackerDefault()
	// two gold detections of one euro coin: 110 px apart, so both are kept as separate slots
	require.False(t, tracker.Observe(70, 100, typeGold, true))
	require.False(t, tracker.Observe(180, 100, typeGold, true))

	// eviction clears only the first slot in table order (80 px away), the second (30 px) is matched
	assert.True(t, tracker.Observe(150, 100, typeEuro, true), "matched slot was counted as gold already")

	slots := tracker.Slots()
	require.Len(t, slots, 1)
	assert.Equal(t, typeEuro, slots[0].Type)
	assert.Equal(t, 150, slots[0].X)
}

func TestObserveNonSupersedingKeepsType(t *testing.T) {
	tracker := NewSlotTrackerDefault()
	require.False(t, tracker.Observe(100, 100, typeGold, true))
	assert.True(t, tracker.Observe(110, 100, typeCopper, true))
	slots := tracker.Slots()
	require.Len(t, slots, 1)
	assert.Equal(t, typeGold, slots[0].Type)
}

func TestTypeAt(t *testing.T) {
	tracker := NewSlotTrackerDefault()
	assert.Equal(t, 0, tracker.TypeAt(100, 100))

	tracker.Observe(100, 100, typeCopper, true)
	tracker.Observe(170, 100, typeGold, true)

	assert.Equal(t, typeCopper, tracker.TypeAt(120, 100))
	assert.Equal(t, typeGold, tracker.TypeAt(150, 100))
	assert.Equal(t, typeGold, tracker.TypeAt(220, 100), "exactly on lookup radius")
	assert.Equal(t, 0, tracker.TypeAt(400, 400))
}

func TestCorrectInferior(t *testing.T) {
	tracker := NewSlotTrackerDefault()
	tracker.Observe(100, 100, typeCopper, true)
	tracker.Observe(300, 100, typeGold, true)

	_, ok := tracker.CorrectInferior(100, 100)
	assert.False(t, ok, "copper is not inferior")

	_, ok = tracker.CorrectInferior(390, 100)
	assert.False(t, ok, "outside correction radius")

	evicted, ok := tracker.CorrectInferior(370, 100)
	require.True(t, ok)
	assert.Equal(t, typeGold, evicted.Type)
	assert.True(t, evicted.Counted)
	assert.True(t, evicted.Occupied(), "snapshot keeps occupied flag")
	assert.Equal(t, 1, tracker.Len())
	assert.Equal(t, 0, tracker.TypeAt(300, 100))
}

func TestTrackerReset(t *testing.T) {
	tracker := NewSlotTrackerDefault()
	tracker.Observe(100, 100, typeCopper, true)
	tickN(tracker, 5)
	tracker.Reset()
	assert.Equal(t, 0, tracker.Len())
	assert.Equal(t, 0, tracker.Clock().Current())
	assert.False(t, tracker.Observe(100, 100, typeCopper, true))
}

func TestSlotsAreSnapshots(t *testing.T) {
	tracker := NewSlotTrackerDefault()
	tracker.Observe(100, 100, typeCopper, true)
	slots := tracker.Slots()
	require.Len(t, slots, 1)
	slots[0].X = 999
	assert.Equal(t, 100, tracker.Slots()[0].X)
	assert.NotEqual(t, uuid.Nil, slots[0].ID)
}

func TestObserveSlotReturnsMatchedSlot(t *testing.T) {
	tracker := NewSlotTrackerDefault()
	inserted, counted := tracker.ObserveSlot(100, 100, typeCopper, true)
	require.False(t, counted)
	require.True(t, inserted.Occupied())
	assert.NotEqual(t, uuid.Nil, inserted.ID)
	assert.True(t, inserted.Counted)
	assert.Len(t, inserted.Track(), 1)

	tracker.Clock().Tick()
	matched, counted := tracker.ObserveSlot(110, 100, typeCopper, true)
	assert.True(t, counted)
	assert.Equal(t, inserted.ID, matched.ID)
	assert.Equal(t, 110, matched.X)
	assert.Len(t, matched.Track(), 2)
	assert.InDelta(t, 110.0, matched.Estimate().X, 10.0)

	other, counted := tracker.ObserveSlot(400, 100, typeCopper, false)
	assert.False(t, counted)
	assert.False(t, other.Counted)
	assert.NotEqual(t, inserted.ID, other.ID)
}

func TestObserveSlotDropped(t *testing.T) {
	cfg := DefaultTrackerConfig()
	cfg.Capacity = 1
	tracker, err := NewSlotTracker(cfg)
	require.NoError(t, err)

	tracker.ObserveSlot(100, 100, typeCopper, true)
	dropped, counted := tracker.ObserveSlot(500, 100, typeCopper, true)
	assert.False(t, counted)
	assert.False(t, dropped.Occupied())
	assert.Equal(t, uuid.Nil, dropped.ID)
}

func TestNewSlotTrackerInvalid(t *testing.T) {
	cfg := DefaultTrackerConfig()
	cfg.Capacity = 0
	_, err := NewSlotTracker(cfg)
	assert.Error(t, err)

	cfg = DefaultTrackerConfig()
	cfg.Near.MemoryFrames = 0
	_, err = NewSlotTracker(cfg)
	assert.Error(t, err)
}
