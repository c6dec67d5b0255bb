package mot

import (
	kalman_filter "github.com/LdDl/kalman-filter"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// DefaultMaxTrackLen is default number of remembered positions per slot
const DefaultMaxTrackLen = 150

// Slot is single record of the tracker's table.
// It associates last observed position and type of an object with the frame it was seen on
// and whether it has been counted already.
type Slot struct {
	ID       uuid.UUID
	X        int
	Y        int
	Type     int
	LastSeen int
	Counted  bool

	occupied    bool
	estimate    Point
	track       []Point
	maxTrackLen int
	filter      *kalman_filter.Kalman2D
}

// newSlot creates occupied slot at observed position
func newSlot(x, y, objectType, frame int, counted bool, maxTrackLen int) Slot {
	center := NewPoint(float64(x), float64(y))
	slot := Slot{
		ID:          uuid.New(),
		X:           x,
		Y:           y,
		Type:        objectType,
		LastSeen:    frame,
		Counted:     counted,
		occupied:    true,
		estimate:    center,
		track:       make([]Point, 0, maxTrackLen),
		maxTrackLen: maxTrackLen,
		filter:      newPositionFilter(center),
	}
	slot.track = append(slot.track, center)
	return slot
}

func newPositionFilter(center Point) *kalman_filter.Kalman2D {
	/* Kalman filter props */
	dt := 1.0
	ux := 1.0
	uy := 1.0
	stdDevA := 2.0
	stdDevMx := 0.1
	stdDevMy := 0.1
	return kalman_filter.NewKalman2D(dt, ux, uy, stdDevA, stdDevMx, stdDevMy, kalman_filter.WithState2D(center.X, center.Y))
}

// Occupied returns true if slot holds an object
func (slot *Slot) Occupied() bool {
	return slot.occupied
}

// Estimate returns smoothed position of the object
func (slot *Slot) Estimate() Point {
	return slot.estimate
}

// Track returns copy of remembered smoothed positions, oldest first
func (slot *Slot) Track() []Point {
	track := make([]Point, len(slot.track))
	copy(track, slot.track)
	return track
}

// moveTo updates position and frame and executes both Kalman filter steps
func (slot *Slot) moveTo(x, y, frame int) error {
	slot.X = x
	slot.Y = y
	slot.LastSeen = frame

	slot.filter.Predict()
	err := slot.filter.Update(float64(x), float64(y))
	if err != nil {
		return errors.Wrapf(err, "Can't update position filter of slot %s", slot.ID.String())
	}
	stateX, stateY := slot.filter.GetState()
	slot.estimate = NewPoint(stateX, stateY)
	slot.track = append(slot.track, slot.estimate)
	if len(slot.track) > slot.maxTrackLen {
		slot.track = slot.track[1:]
	}
	return nil
}

// reseed restarts smoothing from the raw position
func (slot *Slot) reseed() {
	center := NewPoint(float64(slot.X), float64(slot.Y))
	slot.filter = newPositionFilter(center)
	slot.estimate = center
	slot.track = append(slot.track, center)
	if len(slot.track) > slot.maxTrackLen {
		slot.track = slot.track[1:]
	}
}

// snapshot returns copy of the slot which does not share mutable state with the table
func (slot *Slot) snapshot() Slot {
	cp := *slot
	cp.track = slot.Track()
	cp.filter = nil
	return cp
}
