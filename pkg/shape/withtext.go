package shape

import "github.com/orreryworks/orrery/pkg/geometry"

// WithText combines a shape definition with its label text, accumulated
// padding and the inner content size required by nested elements.
//
// A WithText is built once per node per layout pass. The only permitted
// mutation afterwards is ExpandContentSizeTo, which ratchets the content
// size upward as nested scopes and embedded diagrams report their extents.
type WithText struct {
	def     Definition
	text    string
	textMin geometry.Size
	padding geometry.Insets
	content geometry.Size
}

// New creates a WithText for a definition, measuring text with m.
func New(def Definition, text string, padding geometry.Insets, m Measurer) *WithText {
	return &WithText{
		def:     def,
		text:    text,
		textMin: m.Measure(text),
		padding: padding,
	}
}

// Definition returns the underlying shape kind.
func (s *WithText) Definition() Definition { return s.def }

// Text returns the label text.
func (s *WithText) Text() string { return s.text }

// ExpandContentSizeTo grows the inner content size to at least sz. The
// size never shrinks; repeated calls keep the component-wise maximum.
func (s *WithText) ExpandContentSizeTo(sz geometry.Size) {
	s.content = s.content.Max(sz)
}

// ContentSize returns the accumulated inner content size.
func (s *WithText) ContentSize() geometry.Size { return s.content }

// Size returns the outer size of the shape: the larger of label text and
// inner content, wrapped by the definition with the accumulated padding.
func (s *WithText) Size() geometry.Size {
	inner := s.textMin.Max(s.content)
	return s.def.CalculateSize(inner, s.padding)
}

// ContentInsets returns the insets from the outer bounds to the interior
// content box, or ErrNoContent for content-free definitions. The insets
// are derived from the current Size, so they are only meaningful once the
// content size has stopped growing.
func (s *WithText) ContentInsets() (geometry.Insets, error) {
	return s.def.ContentInsets(s.Size(), s.padding)
}

// Intersect returns the point where a ray from the center of bounds
// toward the given point crosses this shape's boundary.
func (s *WithText) Intersect(bounds geometry.Bounds, toward geometry.Point) geometry.Point {
	return s.def.Intersect(bounds, toward)
}
