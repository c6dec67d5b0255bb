package mot

const (
	// DefaultExclusionCapacity is default number of exclusion zones
	DefaultExclusionCapacity = 50
	// DefaultExclusionRadius is default proximity radius of exclusion zones in pixels
	DefaultExclusionRadius = 30
)

type zone struct {
	x    int
	y    int
	used bool
}

// ExclusionZones is fixed-capacity list of positions where detections must be skipped
type ExclusionZones struct {
	zones    []zone
	radiusSq int
}

// NewExclusionZonesDefault creates default instance of ExclusionZones
func NewExclusionZonesDefault() *ExclusionZones {
	return NewExclusionZones(DefaultExclusionCapacity, DefaultExclusionRadius)
}

// NewExclusionZones creates new instance of ExclusionZones
func NewExclusionZones(capacity, radius int) *ExclusionZones {
	if capacity < 0 {
		capacity = 0
	}
	return &ExclusionZones{
		zones:    make([]zone, capacity),
		radiusSq: radius * radius,
	}
}

// Add stores position in the first free entry. Returns false when the list is full
func (ez *ExclusionZones) Add(x, y int) bool {
	for i := range ez.zones {
		if !ez.zones[i].used {
			ez.zones[i] = zone{x: x, y: y, used: true}
			return true
		}
	}
	return false
}

// Remove frees every entry within radius of (x, y) and returns how many were freed
func (ez *ExclusionZones) Remove(x, y int) int {
	removed := 0
	for i := range ez.zones {
		if !ez.zones[i].used {
			continue
		}
		if distanceSquared(ez.zones[i].x, ez.zones[i].y, x, y) <= ez.radiusSq {
			ez.zones[i] = zone{}
			removed++
		}
	}
	return removed
}

// Contains returns true if (x, y) is within radius of any entry
func (ez *ExclusionZones) Contains(x, y int) bool {
	for i := range ez.zones {
		if ez.zones[i].used && distanceSquared(ez.zones[i].x, ez.zones[i].y, x, y) <= ez.radiusSq {
			return true
		}
	}
	return false
}

// Len returns number of used entries
func (ez *ExclusionZones) Len() int {
	n := 0
	for i := range ez.zones {
		if ez.zones[i].used {
			n++
		}
	}
	return n
}

// Reset frees every entry
func (ez *ExclusionZones) Reset() {
	for i := range ez.zones {
		ez.zones[i] = zone{}
	}
}
