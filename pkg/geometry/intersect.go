package geometry

import "math"

// RayRectEdge returns the point where a ray starting at the center of
// bounds b and aimed at toward crosses the boundary of b. If toward equals
// the center, the center itself is returned.
//
// This is the edge test used to attach arrows and message endpoints to
// rectangular shapes: the result is always on the perimeter, on the side
// facing the target.
func RayRectEdge(b Bounds, toward Point) Point {
	c := b.Center()
	dx := toward.X - c.X
	dy := toward.Y - c.Y
	if dx == 0 && dy == 0 {
		return c
	}

	hw := b.Width() / 2
	hh := b.Height() / 2

	// Scale the direction so the longer normalized component touches the
	// perimeter first.
	tx := math.Inf(1)
	if dx != 0 {
		tx = hw / math.Abs(dx)
	}
	ty := math.Inf(1)
	if dy != 0 {
		ty = hh / math.Abs(dy)
	}
	t := math.Min(tx, ty)

	return Point{c.X + dx*t, c.Y + dy*t}
}

// RayEllipseEdge returns the point where a ray starting at the center of
// bounds b and aimed at toward crosses the ellipse inscribed in b. If
// toward equals the center, the center itself is returned.
func RayEllipseEdge(b Bounds, toward Point) Point {
	c := b.Center()
	dx := toward.X - c.X
	dy := toward.Y - c.Y
	if dx == 0 && dy == 0 {
		return c
	}

	rx := b.Width() / 2
	ry := b.Height() / 2
	if rx == 0 || ry == 0 {
		return c
	}

	// Solve (dx*t/rx)^2 + (dy*t/ry)^2 = 1 for t > 0.
	k := math.Sqrt((dx*dx)/(rx*rx) + (dy*dy)/(ry*ry))
	return Point{c.X + dx/k, c.Y + dy/k}
}
