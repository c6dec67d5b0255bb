package blobs

import (
	"math"

	"github.com/LdDl/coin-counter/raster"
	"github.com/pkg/errors"
)

// minLabelCapacity is lower bound of equivalence table size for tiny rasters
const minLabelCapacity = 256

// LabelImage labels binary raster into freshly allocated label raster
func LabelImage(src *raster.Raster) (*raster.LabelRaster, []Component, error) {
	if err := validateBinary(src); err != nil {
		return nil, nil, err
	}
	dst, err := raster.NewLabelRaster(src.Width, src.Height)
	if err != nil {
		return nil, nil, err
	}
	components, err := Label(src, dst)
	if err != nil {
		return nil, nil, err
	}
	return dst, components, nil
}

// Label finds connected components of binary raster src and writes their labels into dst.
//
// Nonzero samples are foreground. Outer border of the raster is always treated as background.
// Pixels are joined through the causal neighbourhood {north-west, north, north-east, west},
// so diagonal contact connects pixels as well.
//
// Returned slice holds one Component per label (only ID is set, see ComputeMetrics);
// number of components is the slice length and empty foreground gives nil slice.
func Label(src *raster.Raster, dst *raster.LabelRaster) ([]Component, error) {
	if err := validateBinary(src); err != nil {
		return nil, err
	}
	if err := dst.Validate(); err != nil {
		return nil, errors.Wrap(err, "Can't label into destination")
	}
	if src.Width != dst.Width || src.Height != dst.Height {
		return nil, errors.Wrapf(raster.ErrInvalidInput, "source %dx%d and destination %dx%d differ", src.Width, src.Height, dst.Width, dst.Height)
	}
	// In the worst case every second pixel of every second row starts new label
	capacity := max(src.Width*src.Height/4+1, minLabelCapacity)
	return label(src, dst, capacity)
}

// label runs both passes with equivalence table limited to capacity provisional labels
func label(src *raster.Raster, dst *raster.LabelRaster, capacity int) ([]Component, error) {
	width, height := src.Width, src.Height
	labels := dst.Labels

	// Normalize: any nonzero sample is foreground, border is background
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			pos := y*width + x
			if y == 0 || y == height-1 || x == 0 || x == width-1 || src.Data[pos] == raster.Background {
				labels[pos] = 0
				continue
			}
			labels[pos] = -1
		}
	}

	table := make([]int, capacity+1)
	nextLabel := 1

	neighbours := [4]int{-width - 1, -width, -width + 1, -1}
	for y := 1; y < height-1; y++ {
		for x := 1; x < width-1; x++ {
			pos := y*width + x
			if labels[pos] == 0 {
				continue
			}
			minLabel := math.MaxInt
			found := false
			for _, offset := range neighbours {
				neighbour := labels[pos+offset]
				if neighbour == 0 {
					continue
				}
				found = true
				if table[neighbour] < minLabel {
					minLabel = table[neighbour]
				}
			}
			if !found {
				if nextLabel > capacity {
					return nil, errors.Wrapf(raster.ErrOutOfMemory, "more than %d provisional labels", capacity)
				}
				labels[pos] = nextLabel
				table[nextLabel] = nextLabel
				nextLabel++
				continue
			}
			labels[pos] = minLabel
			for _, offset := range neighbours {
				neighbour := labels[pos+offset]
				if neighbour == 0 {
					continue
				}
				stale := table[neighbour]
				if stale == minLabel {
					continue
				}
				// Whole equivalence class of the neighbour joins minLabel
				for a := 1; a < nextLabel; a++ {
					if table[a] == stale {
						table[a] = minLabel
					}
				}
			}
		}
	}

	// Resolve provisional labels
	for y := 1; y < height-1; y++ {
		for x := 1; x < width-1; x++ {
			pos := y*width + x
			if labels[pos] != 0 {
				labels[pos] = table[labels[pos]]
			}
		}
	}

	// Keep first occurrence of every final label
	seen := make(map[int]struct{}, nextLabel)
	var components []Component
	for a := 1; a < nextLabel; a++ {
		final := table[a]
		if final == 0 {
			continue
		}
		if _, ok := seen[final]; ok {
			continue
		}
		seen[final] = struct{}{}
		components = append(components, Component{ID: final})
	}
	return components, nil
}

func validateBinary(src *raster.Raster) error {
	if err := src.Validate(); err != nil {
		return errors.Wrap(err, "Can't label source")
	}
	if src.Channels != 1 {
		return errors.Wrapf(raster.ErrInvalidInput, "expected single channel, got %d", src.Channels)
	}
	return nil
}
