package blobs

// Component is connected group of foreground pixels found on a single frame.
// ID is the value carried by the component's pixels in the label raster.
type Component struct {
	ID        int
	X         int
	Y         int
	Width     int
	Height    int
	Area      int
	Perimeter int
	XC        int
	YC        int
}

// Rect returns component's bounding box
func (c Component) Rect() Rect {
	return Rect{X: c.X, Y: c.Y, Width: c.Width, Height: c.Height}
}

// Circularity returns roundness score of the component in [0, 1]
func (c Component) Circularity() float32 {
	return Circularity(c.Area, c.Perimeter)
}

// Diameter returns diameter of the disk with the same area
func (c Component) Diameter() float32 {
	return EquivalentDiameter(c.Area)
}
