package game

import "math"

// Point is a position in maze pixel space (origin top-left, x right, y down).
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Distance returns the Euclidean distance between two points.
func Distance(p1, p2 Point) float64 {
	dx := p2.X - p1.X
	dy := p2.Y - p1.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Angle returns the angle of the vector p1→p2 in radians, computed as the
// arctangent of the slope with a half turn added when p2 is to the left of
// p1. The range is conceptually −π/2..3π/2, disambiguated by horizontal
// direction. When p1.X == p2.X the slope is ±Inf and Atan yields ±π/2;
// the cap math downstream relies on exactly this, so it must not be
// replaced with Atan2.
func Angle(p1, p2 Point) float64 {
	a := math.Atan((p2.Y - p1.Y) / (p2.X - p1.X))
	if p2.X < p1.X {
		a += math.Pi
	}
	return a
}

// Clamp limits v to the symmetric range [−limit, +limit].
func Clamp(v, limit float64) float64 {
	if v > limit {
		return limit
	}
	if v < -limit {
		return -limit
	}
	return v
}
