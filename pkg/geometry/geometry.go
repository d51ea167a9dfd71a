// Package geometry provides the 2-D primitives shared by all layout
// algorithms: points, sizes, rectangular bounds and insets.
//
// All values are plain float64 value types. Coordinates follow the SVG
// convention: X grows rightward, Y grows downward. Bounds are always
// derived from a center point plus a size, which keeps every drawable
// symmetric around its anchor.
package geometry

import "math"

// Point is a position in 2-D space.
type Point struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// Add returns the component-wise sum of p and q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Sub returns the component-wise difference of p and q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Scale returns p with both components multiplied by f.
func (p Point) Scale(f float64) Point { return Point{p.X * f, p.Y * f} }

// Distance returns the Euclidean distance between p and q.
func (p Point) Distance(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Size is a non-negative width/height pair.
type Size struct {
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`
}

// Max returns the component-wise maximum of s and o.
func (s Size) Max(o Size) Size {
	return Size{math.Max(s.Width, o.Width), math.Max(s.Height, o.Height)}
}

// Grow returns s enlarged by the given insets on all four sides.
func (s Size) Grow(i Insets) Size {
	return Size{s.Width + i.Horizontal(), s.Height + i.Vertical()}
}

// IsZero reports whether both dimensions are zero.
func (s Size) IsZero() bool { return s.Width == 0 && s.Height == 0 }

// Insets describes padding applied inside a rectangular region.
type Insets struct {
	Top    float64 `json:"top" bson:"top"`
	Right  float64 `json:"right" bson:"right"`
	Bottom float64 `json:"bottom" bson:"bottom"`
	Left   float64 `json:"left" bson:"left"`
}

// UniformInsets returns insets with the same value on all four sides.
func UniformInsets(v float64) Insets {
	return Insets{Top: v, Right: v, Bottom: v, Left: v}
}

// Horizontal returns the combined left and right inset.
func (i Insets) Horizontal() float64 { return i.Left + i.Right }

// Vertical returns the combined top and bottom inset.
func (i Insets) Vertical() float64 { return i.Top + i.Bottom }

// Add returns the side-wise sum of i and o. Padding accumulates when a
// shape wraps another padded region.
func (i Insets) Add(o Insets) Insets {
	return Insets{
		Top:    i.Top + o.Top,
		Right:  i.Right + o.Right,
		Bottom: i.Bottom + o.Bottom,
		Left:   i.Left + o.Left,
	}
}

// TopLeft returns the offset from an outer corner to the inset interior
// corner.
func (i Insets) TopLeft() Point { return Point{i.Left, i.Top} }

// Bounds is an axis-aligned rectangle identified by its min and max
// corners. Use Around to construct bounds from a center and size.
type Bounds struct {
	Min Point `json:"min" bson:"min"`
	Max Point `json:"max" bson:"max"`
}

// Around returns the bounds of a rectangle of the given size centered at
// center.
func Around(center Point, size Size) Bounds {
	half := Point{size.Width / 2, size.Height / 2}
	return Bounds{Min: center.Sub(half), Max: center.Add(half)}
}

// Width returns the horizontal extent of b.
func (b Bounds) Width() float64 { return b.Max.X - b.Min.X }

// Height returns the vertical extent of b.
func (b Bounds) Height() float64 { return b.Max.Y - b.Min.Y }

// Size returns the extent of b as a Size.
func (b Bounds) Size() Size { return Size{b.Width(), b.Height()} }

// Center returns the midpoint of b.
func (b Bounds) Center() Point {
	return Point{(b.Min.X + b.Max.X) / 2, (b.Min.Y + b.Max.Y) / 2}
}

// Translate returns b shifted by offset.
func (b Bounds) Translate(offset Point) Bounds {
	return Bounds{Min: b.Min.Add(offset), Max: b.Max.Add(offset)}
}

// Inset returns b shrunk inward by the given insets.
func (b Bounds) Inset(i Insets) Bounds {
	return Bounds{
		Min: Point{b.Min.X + i.Left, b.Min.Y + i.Top},
		Max: Point{b.Max.X - i.Right, b.Max.Y - i.Bottom},
	}
}

// Union returns the smallest bounds containing both b and o.
func (b Bounds) Union(o Bounds) Bounds {
	return Bounds{
		Min: Point{math.Min(b.Min.X, o.Min.X), math.Min(b.Min.Y, o.Min.Y)},
		Max: Point{math.Max(b.Max.X, o.Max.X), math.Max(b.Max.Y, o.Max.Y)},
	}
}

// Contains reports whether p lies inside b (edges inclusive).
func (b Bounds) Contains(p Point) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X && p.Y >= b.Min.Y && p.Y <= b.Max.Y
}

// ContainsY reports whether the vertical coordinate y falls within b's
// vertical range (edges inclusive).
func (b Bounds) ContainsY(y float64) bool {
	return y >= b.Min.Y && y <= b.Max.Y
}
