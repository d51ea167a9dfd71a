package layout

import (
	"github.com/orreryworks/orrery/pkg/geometry"
	"github.com/orreryworks/orrery/pkg/layout/sequence"
)

// LayerKind discriminates a layer's content.
type LayerKind string

// Layer content kinds.
const (
	LayerComponent LayerKind = "component"
	LayerSequence  LayerKind = "sequence"
)

// Layer is one diagram's positioned content within the final stack.
// Exactly one of Component and Sequence is set, per Kind.
type Layer struct {
	// Diagram is the source diagram's name.
	Diagram string

	// Z orders layers bottom-to-top; embedded diagrams get a higher Z
	// than the diagram embedding them.
	Z int

	// Offset places the layer's local origin on the global canvas. It is
	// zero for the root layer and derived from the embedding node for
	// embedded layers.
	Offset geometry.Point

	// Clip restricts drawing to the embedding node's content box, in
	// global coordinates. Nil for the root layer.
	Clip *geometry.Bounds

	Kind      LayerKind
	Component *ContentStack
	Sequence  *sequence.Layout
}

// Size returns the layer's local extent.
func (l *Layer) Size() geometry.Size {
	switch l.Kind {
	case LayerSequence:
		return l.Sequence.Size()
	default:
		return l.Component.Size()
	}
}

// Bounds returns the layer's extent in global coordinates, clipped if a
// clip rectangle is set.
func (l *Layer) Bounds() geometry.Bounds {
	sz := l.Size()
	b := geometry.Bounds{
		Min: l.Offset,
		Max: geometry.Point{X: l.Offset.X + sz.Width, Y: l.Offset.Y + sz.Height},
	}
	if l.Clip != nil {
		return intersectBounds(b, *l.Clip)
	}
	return b
}

// LayeredLayout is the final result of a build: one layer per diagram in
// the tree, ordered bottom-to-top.
type LayeredLayout struct {
	Layers []*Layer
}

// Bounds returns the union of all layer bounds.
func (ll *LayeredLayout) Bounds() geometry.Bounds {
	var b geometry.Bounds
	for i, l := range ll.Layers {
		if i == 0 {
			b = l.Bounds()
			continue
		}
		b = b.Union(l.Bounds())
	}
	return b
}

// Size returns the canvas extent needed to draw every layer.
func (ll *LayeredLayout) Size() geometry.Size {
	return ll.Bounds().Size()
}

func intersectBounds(a, b geometry.Bounds) geometry.Bounds {
	out := geometry.Bounds{
		Min: geometry.Point{X: max(a.Min.X, b.Min.X), Y: max(a.Min.Y, b.Min.Y)},
		Max: geometry.Point{X: min(a.Max.X, b.Max.X), Y: min(a.Max.Y, b.Max.Y)},
	}
	if out.Max.X < out.Min.X {
		out.Max.X = out.Min.X
	}
	if out.Max.Y < out.Min.Y {
		out.Max.Y = out.Min.Y
	}
	return out
}
