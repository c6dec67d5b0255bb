package mot

// Point is position in pixel units. Fractional values come from smoothed estimates
type Point struct {
	X float64
	Y float64
}

func NewPoint(x, y float64) Point {
	return Point{
		X: x,
		Y: y,
	}
}

// distanceSquared is squared euclidean distance between integer positions
func distanceSquared(x1, y1, x2, y2 int) int {
	dx := x1 - x2
	dy := y1 - y2
	return dx*dx + dy*dy
}
