package blobs

import (
	"github.com/LdDl/coin-counter/raster"
	"github.com/pkg/errors"
)

// accumulator gathers per-label statistics during the single raster pass
type accumulator struct {
	area      int
	perimeter int
	sumX      int
	sumY      int
	xmin      int
	ymin      int
	xmax      int
	ymax      int
}

// ComputeMetrics fills bounding box, area, perimeter and centroid of every component in place.
//
// Only interior pixels are visited. A pixel is counted in the perimeter when any of its
// left, right, upper or lower neighbours carries a different label.
// Centroid is truncated mean of pixel coordinates.
func ComputeMetrics(labels *raster.LabelRaster, components []Component) error {
	if err := labels.Validate(); err != nil {
		return errors.Wrap(err, "Can't compute metrics")
	}
	if len(components) == 0 {
		return nil
	}
	width, height := labels.Width, labels.Height

	maxID := 0
	for i := range components {
		maxID = max(maxID, components[i].ID)
	}
	// index 0 stays unused: background
	slots := make([]int, maxID+1)
	for i := range slots {
		slots[i] = -1
	}
	acc := make([]accumulator, len(components))
	for i := range components {
		if components[i].ID > 0 {
			slots[components[i].ID] = i
		}
		acc[i] = accumulator{
			xmin: width - 1,
			ymin: height - 1,
			xmax: 0,
			ymax: 0,
		}
	}

	for y := 1; y < height-1; y++ {
		for x := 1; x < width-1; x++ {
			pos := y*width + x
			label := labels.Labels[pos]
			if label <= 0 || label > maxID || slots[label] < 0 {
				continue
			}
			a := &acc[slots[label]]
			a.area++
			a.sumX += x
			a.sumY += y
			a.xmin = min(a.xmin, x)
			a.ymin = min(a.ymin, y)
			a.xmax = max(a.xmax, x)
			a.ymax = max(a.ymax, y)
			if labels.Labels[pos-1] != label || labels.Labels[pos+1] != label ||
				labels.Labels[pos-width] != label || labels.Labels[pos+width] != label {
				a.perimeter++
			}
		}
	}

	for i := range components {
		c := &components[i]
		a := acc[i]
		if c.ID > 0 {
			// repeated ids share statistics of the same pixels
			a = acc[slots[c.ID]]
		}
		c.Area = a.area
		c.Perimeter = a.perimeter
		c.X = a.xmin
		c.Y = a.ymin
		c.Width = a.xmax - a.xmin + 1
		c.Height = a.ymax - a.ymin + 1
		c.XC = a.sumX / max(a.area, 1)
		c.YC = a.sumY / max(a.area, 1)
	}
	return nil
}
