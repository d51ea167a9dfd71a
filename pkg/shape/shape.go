// Package shape defines the drawable boundary kinds used by the layout
// engine and the sizing rules that turn label text, nested content and
// padding into concrete outer dimensions.
//
// A shape never draws itself. It answers three questions for the layout
// algorithms: how big must I be to wrap this content, where does my
// interior content box sit, and where does a ray from my center cross my
// boundary. Rendering is the export backend's job.
package shape

import (
	"errors"
	"fmt"

	"github.com/orreryworks/orrery/pkg/geometry"
)

// ErrNoContent is returned when a content-free shape is asked for its
// interior content box. Elaboration guarantees such shapes never carry
// nested elements, so hitting this error indicates an upstream bug.
var ErrNoContent = errors.New("shape cannot contain content")

// Definition is the capability set of one shape kind. Implementations are
// a closed set: Rectangle, RoundedRectangle, Ellipse and Document.
type Definition interface {
	// Name returns the serialized identifier of the shape kind.
	Name() string

	// CalculateSize returns the outer size needed to wrap content of the
	// given size with the given padding on every side.
	CalculateSize(content geometry.Size, padding geometry.Insets) geometry.Size

	// ContentInsets returns the insets from the shape's outer bounds to
	// its interior content box, given the shape's final outer size.
	// Returns ErrNoContent for shapes that cannot hold nested elements.
	ContentInsets(size geometry.Size, padding geometry.Insets) (geometry.Insets, error)

	// Intersect returns the point where a ray from the center of bounds
	// toward the given point crosses the shape boundary.
	Intersect(bounds geometry.Bounds, toward geometry.Point) geometry.Point
}

// Shape kind names as they appear in serialized diagrams.
const (
	KindRectangle        = "rectangle"
	KindRoundedRectangle = "rounded"
	KindEllipse          = "ellipse"
	KindDocument         = "document"
)

// FromKind returns the definition for a serialized shape kind name.
// An empty name selects Rectangle, the default for component nodes.
func FromKind(name string) (Definition, error) {
	switch name {
	case "", KindRectangle:
		return Rectangle{}, nil
	case KindRoundedRectangle:
		return RoundedRectangle{}, nil
	case KindEllipse:
		return Ellipse{}, nil
	case KindDocument:
		return Document{}, nil
	default:
		return nil, fmt.Errorf("unknown shape kind %q", name)
	}
}

// Rectangle is the default component shape.
type Rectangle struct{}

// Name returns the serialized shape kind.
func (Rectangle) Name() string { return KindRectangle }

// CalculateSize returns the content size grown by padding.
func (Rectangle) CalculateSize(content geometry.Size, padding geometry.Insets) geometry.Size {
	return content.Grow(padding)
}

// ContentInsets returns the padding unchanged; a rectangle's content box
// is its outer box minus padding.
func (Rectangle) ContentInsets(_ geometry.Size, padding geometry.Insets) (geometry.Insets, error) {
	return padding, nil
}

// Intersect returns the rectangle edge crossing.
func (Rectangle) Intersect(bounds geometry.Bounds, toward geometry.Point) geometry.Point {
	return geometry.RayRectEdge(bounds, toward)
}

// RoundedRectangle behaves like Rectangle for sizing; the rounding only
// affects rendering. Corner radius is fixed relative to padding by the
// export backend.
type RoundedRectangle struct{}

// Name returns the serialized shape kind.
func (RoundedRectangle) Name() string { return KindRoundedRectangle }

// CalculateSize returns the content size grown by padding.
func (RoundedRectangle) CalculateSize(content geometry.Size, padding geometry.Insets) geometry.Size {
	return content.Grow(padding)
}

// ContentInsets returns the padding unchanged.
func (RoundedRectangle) ContentInsets(_ geometry.Size, padding geometry.Insets) (geometry.Insets, error) {
	return padding, nil
}

// Intersect returns the rectangle edge crossing. The corner rounding is
// small enough that arrows attach to the straight edge segments.
func (RoundedRectangle) Intersect(bounds geometry.Bounds, toward geometry.Point) geometry.Point {
	return geometry.RayRectEdge(bounds, toward)
}

// ellipseAxisFactor is sqrt(2): an ellipse must have axes sqrt(2) times
// the inscribed content box so the box's corners stay inside the curve.
const ellipseAxisFactor = 1.4142135623730951

// Ellipse wraps content in the inscribed axis-aligned box of an ellipse.
type Ellipse struct{}

// Name returns the serialized shape kind.
func (Ellipse) Name() string { return KindEllipse }

// CalculateSize returns an ellipse large enough that the padded content
// box fits entirely inside the curve.
func (Ellipse) CalculateSize(content geometry.Size, padding geometry.Insets) geometry.Size {
	inner := content.Grow(padding)
	return geometry.Size{
		Width:  inner.Width * ellipseAxisFactor,
		Height: inner.Height * ellipseAxisFactor,
	}
}

// ContentInsets returns insets placing the content box at the inscribed
// rectangle of the ellipse, further shrunk by padding. The inscribed box
// of an ellipse with axes (w, h) spans w/sqrt(2) by h/sqrt(2); the
// remainder splits evenly between the two sides, so content placed at
// the inset top-left corner stays inside the curve.
func (Ellipse) ContentInsets(size geometry.Size, padding geometry.Insets) (geometry.Insets, error) {
	dx := size.Width * (1 - 1/ellipseAxisFactor) / 2
	dy := size.Height * (1 - 1/ellipseAxisFactor) / 2
	return geometry.Insets{
		Top:    dy + padding.Top,
		Right:  dx + padding.Right,
		Bottom: dy + padding.Bottom,
		Left:   dx + padding.Left,
	}, nil
}

// Intersect returns the ellipse boundary crossing.
func (Ellipse) Intersect(bounds geometry.Bounds, toward geometry.Point) geometry.Point {
	return geometry.RayEllipseEdge(bounds, toward)
}

// documentWaveHeight is the extra bottom margin reserved for the wavy
// bottom edge of a document shape.
const documentWaveHeight = 8.0

// Document is a rectangle with a wavy bottom edge, used for artifact
// nodes. Documents cannot contain nested elements.
type Document struct{}

// Name returns the serialized shape kind.
func (Document) Name() string { return KindDocument }

// CalculateSize returns the content size grown by padding plus the wave
// margin at the bottom.
func (Document) CalculateSize(content geometry.Size, padding geometry.Insets) geometry.Size {
	s := content.Grow(padding)
	s.Height += documentWaveHeight
	return s
}

// ContentInsets reports that documents are content-free.
func (Document) ContentInsets(geometry.Size, geometry.Insets) (geometry.Insets, error) {
	return geometry.Insets{}, ErrNoContent
}

// Intersect returns the rectangle edge crossing; the wave is a rendering
// detail.
func (Document) Intersect(bounds geometry.Bounds, toward geometry.Point) geometry.Point {
	return geometry.RayRectEdge(bounds, toward)
}
