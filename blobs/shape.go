package blobs

import (
	"math"
)

// pi is kept in single precision so derived measures match reference numbers
const pi float32 = 3.14159

// Rect is axis-aligned box in pixel units
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Circularity calculates 4·π·area / perimeter², capped at 1.
// Non-positive perimeter gives 0.
func Circularity(area, perimeter int) float32 {
	if perimeter <= 0 {
		return 0
	}
	circularity := 4 * pi * float32(area) / float32(perimeter*perimeter)
	if circularity > 1 {
		return 1
	}
	return circularity
}

// EquivalentDiameter calculates diameter of the disk whose area equals given one
func EquivalentDiameter(area int) float32 {
	return 2 * float32(math.Sqrt(float64(float32(area)/pi)))
}

// IoU calculates Intersection over Union between two rectangles.
// Degenerate union gives 0.
func IoU(r1, r2 Rect) float32 {
	xA := max(r1.X, r2.X)
	yA := max(r1.Y, r2.Y)
	xB := min(r1.X+r1.Width, r2.X+r2.Width)
	yB := min(r1.Y+r1.Height, r2.Y+r2.Height)

	interArea := max(0, xB-xA) * max(0, yB-yA)
	unionArea := r1.Width*r1.Height + r2.Width*r2.Height - interArea
	if unionArea <= 0 {
		return 0
	}
	return float32(interArea) / float32(unionArea)
}
