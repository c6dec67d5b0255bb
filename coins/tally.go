package coins

import (
	"fmt"
	"strings"

	"github.com/LdDl/coin-counter/mot"
	"github.com/google/uuid"
	"gonum.org/v1/gonum/stat"
)

// Tally counts coins per denomination
type Tally struct {
	counts [len(denominations)]int
}

// NewTally creates empty tally
func NewTally() *Tally {
	return &Tally{}
}

// Add counts one coin of given type. Unknown types are ignored
func (t *Tally) Add(coinType int) {
	if coinType < Type1Cent || coinType > Type2Euro {
		return
	}
	t.counts[coinType-1]++
}

// Remove uncounts one coin of given type. Counts never go below zero
func (t *Tally) Remove(coinType int) {
	if coinType < Type1Cent || coinType > Type2Euro {
		return
	}
	if t.counts[coinType-1] > 0 {
		t.counts[coinType-1]--
	}
}

// Count returns number of coins of given type
func (t *Tally) Count(coinType int) int {
	if coinType < Type1Cent || coinType > Type2Euro {
		return 0
	}
	return t.counts[coinType-1]
}

// Total returns number of counted coins
func (t *Tally) Total() int {
	total := 0
	for _, n := range t.counts {
		total += n
	}
	return total
}

// Cents returns value of counted coins in cents
func (t *Tally) Cents() int {
	cents := 0
	for i, n := range t.counts {
		cents += n * denominations[i].Cents
	}
	return cents
}

// Snapshot returns counts keyed by denomination code
func (t *Tally) Snapshot() map[string]int {
	out := make(map[string]int, len(t.counts))
	for i, n := range t.counts {
		out[denominations[i].Code] = n
	}
	return out
}

// String formats tally as "1c: 2, 2c: 0, ... | total 5 | 3.12 EUR"
func (t *Tally) String() string {
	parts := make([]string, 0, len(t.counts))
	for i, n := range t.counts {
		parts = append(parts, fmt.Sprintf("%s: %d", denominations[i].Code, n))
	}
	return fmt.Sprintf("%s | total %d | %s EUR", strings.Join(parts, ", "), t.Total(), formatCents(t.Cents()))
}

func formatCents(cents int) string {
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}

// DiameterStats summarizes measured diameters of counted coins of one denomination
type DiameterStats struct {
	Denomination Denomination
	Count        int
	Mean         float64
	StdDev       float64
}

// CountedCoin is a coin which is currently in the tally
type CountedCoin struct {
	// ID of the tracker slot. uuid.Nil when the tracker table was full
	ID           uuid.UUID
	Denomination Denomination
	Frame        int
	Diameter     float64
	// Tracked is false when the tracker has forgotten the slot
	Tracked bool
	// Smoothed last position and trail of smoothed positions, oldest first
	Estimate mot.Point
	Trail    []mot.Point
}

// Report is the outcome of a processing session
type Report struct {
	Frames    int
	Counts    map[string]int
	Total     int
	Cents     int
	Diameters []DiameterStats
	Coins     []CountedCoin
}

// Value returns formatted value in euros
func (r Report) Value() string {
	return formatCents(r.Cents)
}

// coinLog keeps counted coins in counting order
type coinLog struct {
	coins []CountedCoin
}

func (cl *coinLog) add(slot mot.Slot, d Denomination, frame int, diameter float32) {
	cl.coins = append(cl.coins, CountedCoin{
		ID:           slot.ID,
		Denomination: d,
		Frame:        frame,
		Diameter:     float64(diameter),
		Tracked:      slot.Occupied(),
		Estimate:     slot.Estimate(),
		Trail:        slot.Track(),
	})
}

// remove drops the coin counted for the slot. Returns false when the slot has no counted coin
func (cl *coinLog) remove(id uuid.UUID) bool {
	if id == uuid.Nil {
		return false
	}
	for i := range cl.coins {
		if cl.coins[i].ID == id {
			cl.coins = append(cl.coins[:i], cl.coins[i+1:]...)
			return true
		}
	}
	return false
}

// stats returns per-denomination mean and standard deviation, skipping denominations without samples
func (cl *coinLog) stats() []DiameterStats {
	samples := make(map[int][]float64, len(denominations))
	for _, c := range cl.coins {
		samples[c.Denomination.Type] = append(samples[c.Denomination.Type], c.Diameter)
	}
	var out []DiameterStats
	for _, d := range denominations {
		values := samples[d.Type]
		if len(values) == 0 {
			continue
		}
		entry := DiameterStats{
			Denomination: d,
			Count:        len(values),
		}
		if len(values) == 1 {
			entry.Mean = values[0]
		} else {
			entry.Mean, entry.StdDev = stat.MeanStdDev(values, nil)
		}
		out = append(out, entry)
	}
	return out
}

// snapshot returns copies of counted coins refreshed with slots the tracker still holds
func (cl *coinLog) snapshot(slots []mot.Slot) []CountedCoin {
	live := make(map[uuid.UUID]mot.Slot, len(slots))
	for _, slot := range slots {
		live[slot.ID] = slot
	}
	out := make([]CountedCoin, len(cl.coins))
	for i, c := range cl.coins {
		c.Trail = append([]mot.Point(nil), c.Trail...)
		if slot, ok := live[c.ID]; ok && c.ID != uuid.Nil {
			c.Tracked = true
			c.Estimate = slot.Estimate()
			c.Trail = slot.Track()
		} else {
			c.Tracked = false
		}
		out[i] = c
	}
	return out
}
