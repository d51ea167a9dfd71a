// Package component lays out component/box diagrams. It provides three
// interchangeable engines — Basic (layered/BFS), Force (force-directed
// simulation) and Hierarchical (Sugiyama-style via an external oracle) —
// that each produce a center position for every node of one containment
// scope. The shared sizing and assembly steps live here too, so engines
// only ever decide positions.
package component

import (
	"fmt"

	"github.com/orreryworks/orrery/pkg/diagram"
	orrerr "github.com/orreryworks/orrery/pkg/errors"
	"github.com/orreryworks/orrery/pkg/geometry"
	"github.com/orreryworks/orrery/pkg/shape"
)

// Component is one positioned node: the node it renders, its sized shape
// and its center position in scope-local coordinates.
type Component struct {
	Node   *diagram.Node
	Shape  *shape.WithText
	Center geometry.Point
}

// Bounds returns the component's outer bounds around its center.
func (c *Component) Bounds() geometry.Bounds {
	return geometry.Around(c.Center, c.Shape.Size())
}

// Relation is one positioned edge. From and To index into the owning
// layout's Components slice; Source carries the arrow and label drawables
// for the export backend. FromPoint and ToPoint are the boundary
// attachment points on the two shapes.
type Relation struct {
	From      int
	To        int
	Source    diagram.Relation
	FromPoint geometry.Point
	ToPoint   geometry.Point
}

// Layout is one containment scope's positioned components and relations.
// Coordinates are scope-local and normalized so the bounding box's min
// corner sits at the origin.
type Layout struct {
	Components []Component
	Relations  []Relation

	index map[string]int
}

// ComponentIndex returns the index of the component rendering the node
// with the given ID.
func (l *Layout) ComponentIndex(id string) (int, bool) {
	i, ok := l.index[id]
	return i, ok
}

// Bounds returns the union of all component bounds. The zero bounds are
// returned for an empty layout.
func (l *Layout) Bounds() geometry.Bounds {
	if len(l.Components) == 0 {
		return geometry.Bounds{}
	}
	b := l.Components[0].Bounds()
	for _, c := range l.Components[1:] {
		b = b.Union(c.Bounds())
	}
	return b
}

// Size returns the extent of the layout's bounding box.
func (l *Layout) Size() geometry.Size {
	return l.Bounds().Size()
}

// Assemble builds a Layout from engine positions. Components keep the
// scope's node iteration order. The whole scope is translated so its
// bounding box starts at the origin, which gives the composition layer a
// uniform coordinate base regardless of the engine used.
//
// A relation whose endpoint is missing from positions indicates an
// inconsistency between the scope and the engine output and fails fast
// with an INVALID_GRAPH error.
func Assemble(scope *diagram.Scope, shapes map[string]*shape.WithText, positions map[string]geometry.Point) (*Layout, error) {
	l := &Layout{index: make(map[string]int, len(scope.Nodes()))}

	for _, n := range scope.Nodes() {
		pos, ok := positions[n.ID]
		if !ok {
			return nil, orrerr.New(orrerr.ErrCodeInvalidGraph, "engine produced no position for node %s", n.ID)
		}
		s, ok := shapes[n.ID]
		if !ok {
			return nil, orrerr.New(orrerr.ErrCodeInvalidGraph, "no shape for node %s", n.ID)
		}
		l.index[n.ID] = len(l.Components)
		l.Components = append(l.Components, Component{Node: n, Shape: s, Center: pos})
	}

	if len(l.Components) > 0 {
		min := l.Bounds().Min
		for i := range l.Components {
			l.Components[i].Center = l.Components[i].Center.Sub(min)
		}
	}

	for _, r := range scope.Relations() {
		from, ok := l.index[r.From]
		if !ok {
			return nil, orrerr.New(orrerr.ErrCodeInvalidGraph, "relation source %s not in scope", r.From)
		}
		to, ok := l.index[r.To]
		if !ok {
			return nil, orrerr.New(orrerr.ErrCodeInvalidGraph, "relation target %s not in scope", r.To)
		}

		src := &l.Components[from]
		dst := &l.Components[to]
		l.Relations = append(l.Relations, Relation{
			From:      from,
			To:        to,
			Source:    r,
			FromPoint: src.Shape.Intersect(src.Bounds(), dst.Center),
			ToPoint:   dst.Shape.Intersect(dst.Bounds(), src.Center),
		})
	}

	return l, nil
}

// Engine computes a center position for every node of one containment
// scope. Shapes carry the already-computed outer sizes; engines must not
// mutate them.
type Engine interface {
	Name() string
	Positions(scope *diagram.Scope, shapes map[string]*shape.WithText) (map[string]geometry.Point, error)
}

// Layout runs an engine over a scope and assembles the result.
func LayoutScope(e Engine, scope *diagram.Scope, shapes map[string]*shape.WithText) (*Layout, error) {
	positions, err := e.Positions(scope, shapes)
	if err != nil {
		return nil, fmt.Errorf("%s layout: %w", e.Name(), err)
	}
	return Assemble(scope, shapes, positions)
}
