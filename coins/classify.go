package coins

import (
	"math"

	"github.com/LdDl/coin-counter/blobs"
)

// AdaptTolerance widens relative diameter tolerance for coins close to the frame border,
// where they are often cut off. Up to +50% of base tolerance at the border itself.
func AdaptTolerance(cfg ToleranceConfig, xc, yc, frameWidth, frameHeight int) float32 {
	tolerance := cfg.Base
	if cfg.EdgeMargin <= 0 {
		return tolerance
	}
	minDist := float32(min(xc, frameWidth-xc, yc, frameHeight-yc))
	margin := float32(cfg.EdgeMargin)
	if minDist < margin {
		tolerance *= 1.0 + 0.5*(1.0-minDist/margin)
	}
	return tolerance
}

// nearEdge reports whether centroid is closer than margin to any frame border
func nearEdge(xc, yc, frameWidth, frameHeight, margin int) bool {
	return xc < margin || yc < margin || xc > frameWidth-margin || yc > frameHeight-margin
}

// matchDiameter returns the first denomination whose reference diameter is within relative tolerance
func matchDiameter(candidates []Denomination, diameter, tolerance float32) (Denomination, bool) {
	for _, d := range candidates {
		lower := d.Diameter * (1.0 - tolerance)
		upper := d.Diameter * (1.0 + tolerance)
		if diameter >= lower && diameter <= upper {
			return d, true
		}
	}
	return Denomination{}, false
}

// nearestDiameter returns denomination with strictly smallest relative diameter difference.
// Without a strict winner the last candidate is returned.
func nearestDiameter(candidates []Denomination, diameter float32) Denomination {
	diffs := make([]float32, len(candidates))
	for i, d := range candidates {
		diffs[i] = float32(math.Abs(float64(diameter/d.Diameter - 1.0)))
	}
	for i := 0; i < len(candidates)-1; i++ {
		strict := true
		for j := range candidates {
			if j != i && diffs[i] >= diffs[j] {
				strict = false
				break
			}
		}
		if strict {
			return candidates[i]
		}
	}
	return candidates[len(candidates)-1]
}

// bimetalCandidate is the best 1€/2€ component found around a general candidate
type bimetalCandidate struct {
	component   blobs.Component
	diameter    float32
	circularity float32
	partial     bool
}

// selectBimetal picks the most circular complete coin or, failing that, the largest partial one
func selectBimetal(cfg BimetalConfig, components []blobs.Component) (bimetalCandidate, bool) {
	var complete, partial bimetalCandidate
	hasComplete, hasPartial := false, false
	for _, c := range components {
		if c.Area < cfg.MinArea || c.Area > cfg.MaxArea {
			continue
		}
		diameter := c.Diameter()
		circularity := c.Circularity()
		if diameter >= cfg.MinDiameter && diameter <= cfg.MaxDiameter && circularity > cfg.MinCircularity {
			if !hasComplete || circularity > complete.circularity {
				complete = bimetalCandidate{component: c, diameter: diameter, circularity: circularity}
				hasComplete = true
			}
			continue
		}
		if circularity > cfg.PartialCircularity && c.Width >= cfg.PartialMinSide && c.Height >= cfg.PartialMinSide {
			if !hasPartial || c.Area > partial.component.Area {
				partial = bimetalCandidate{component: c, diameter: diameter, circularity: circularity, partial: true}
				hasPartial = true
			}
		}
	}
	if hasComplete {
		return complete, true
	}
	if hasPartial && partial.component.Area >= cfg.PartialMinArea {
		return partial, true
	}
	return bimetalCandidate{}, false
}

// bimetalDenomination decides between 1€ and 2€. Partial coins are always 2€
func bimetalDenomination(cfg BimetalConfig, candidate bimetalCandidate) Denomination {
	if candidate.partial || candidate.diameter >= cfg.TwoEuroDiameter {
		return denominations[Type2Euro-1]
	}
	return denominations[Type1Euro-1]
}
