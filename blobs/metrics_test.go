package blobs

import (
	"math/rand"
	"testing"

	"github.com/LdDl/coin-counter/raster"
	"github.com/pkg/errors"
)

func TestComputeMetricsShapes(t *testing.T) {
	src := binaryFromRows([]string{
		"............",
		".#####......",
		".#####...#..",
		".#####..###.",
		".#####...#..",
		".#####......",
		"............",
	})
	labels, components, err := LabelImage(src)
	if err != nil {
		t.Error(err)
		return
	}
	if len(components) != 2 {
		t.Errorf("incorrect number of components: %d, expected: %d", len(components), 2)
		return
	}
	if err := ComputeMetrics(labels, components); err != nil {
		t.Error(err)
		return
	}
	square, cross := components[0], components[1]
	if square.Area != 25 || square.Perimeter != 16 {
		t.Errorf("square area/perimeter: %d/%d, expected: %d/%d", square.Area, square.Perimeter, 25, 16)
	}
	if square.Rect() != (Rect{X: 1, Y: 1, Width: 5, Height: 5}) {
		t.Errorf("square bbox: %+v, expected: %+v", square.Rect(), Rect{X: 1, Y: 1, Width: 5, Height: 5})
	}
	if square.XC != 3 || square.YC != 3 {
		t.Errorf("square centroid: (%d, %d), expected: (3, 3)", square.XC, square.YC)
	}
	if cross.Area != 5 || cross.Perimeter != 4 {
		t.Errorf("cross area/perimeter: %d/%d, expected: %d/%d", cross.Area, cross.Perimeter, 5, 4)
	}
	if cross.XC != 9 || cross.YC != 3 {
		t.Errorf("cross centroid: (%d, %d), expected: (9, 3)", cross.XC, cross.YC)
	}
}

func TestComputeMetricsTruncatedCentroid(t *testing.T) {
	src := binaryFromRows([]string{
		".....",
		".##..",
		".....",
	})
	labels, components, err := LabelImage(src)
	if err != nil {
		t.Error(err)
		return
	}
	if err := ComputeMetrics(labels, components); err != nil {
		t.Error(err)
		return
	}
	// mean x is 1.5
	if components[0].XC != 1 {
		t.Errorf("centroid x: %d, expected: %d", components[0].XC, 1)
	}
}

func TestComputeMetricsInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for iter := 0; iter < 30; iter++ {
		w, h := 10+rng.Intn(50), 10+rng.Intn(50)
		src, _ := raster.NewBinary(w, h)
		for i := range src.Data {
			if rng.Float64() < 0.45 {
				src.Data[i] = 255
			}
		}
		labels, components, err := LabelImage(src)
		if err != nil {
			t.Error(err)
			return
		}
		if err := ComputeMetrics(labels, components); err != nil {
			t.Error(err)
			return
		}
		total := 0
		for _, c := range components {
			total += c.Area
			if c.Area <= 0 {
				t.Errorf("component %d has non-positive area %d", c.ID, c.Area)
			}
			if c.Perimeter > c.Area {
				t.Errorf("component %d perimeter %d exceeds area %d", c.ID, c.Perimeter, c.Area)
			}
			if c.XC < c.X || c.XC >= c.X+c.Width || c.YC < c.Y || c.YC >= c.Y+c.Height {
				t.Errorf("component %d centroid (%d, %d) outside bbox %+v", c.ID, c.XC, c.YC, c.Rect())
			}
			for y := 0; y < h; y++ {
				for x := 0; x < w; x++ {
					if labels.At(x, y) != c.ID {
						continue
					}
					if x < c.X || x >= c.X+c.Width || y < c.Y || y >= c.Y+c.Height {
						t.Errorf("pixel (%d, %d) of component %d outside bbox %+v", x, y, c.ID, c.Rect())
					}
				}
			}
		}
		foreground := 0
		for _, l := range labels.Labels {
			if l != 0 {
				foreground++
			}
		}
		if total != foreground {
			t.Errorf("iteration %d: total area %d, expected: %d", iter, total, foreground)
		}
	}
}

func TestComputeMetricsInvalid(t *testing.T) {
	broken := &raster.LabelRaster{Width: 3, Height: 3, Labels: make([]int, 4)}
	components := []Component{{ID: 1}}
	if err := ComputeMetrics(broken, components); !errors.Is(err, raster.ErrInvalidInput) {
		t.Errorf("invalid raster error: %v, expected: %v", err, raster.ErrInvalidInput)
	}
	if components[0] != (Component{ID: 1}) {
		t.Errorf("component mutated on invalid input: %+v", components[0])
	}
}

func TestComputeMetricsUnknownLabel(t *testing.T) {
	labels, _ := raster.NewLabelRaster(5, 5)
	components := []Component{{ID: 3}}
	if err := ComputeMetrics(labels, components); err != nil {
		t.Error(err)
		return
	}
	c := components[0]
	if c.Area != 0 || c.XC != 0 || c.YC != 0 {
		t.Errorf("absent component should stay empty: %+v", c)
	}
}
