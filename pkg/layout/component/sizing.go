package component

import (
	"errors"

	"github.com/orreryworks/orrery/pkg/diagram"
	orrerr "github.com/orreryworks/orrery/pkg/errors"
	"github.com/orreryworks/orrery/pkg/geometry"
	"github.com/orreryworks/orrery/pkg/shape"
)

// InnerSizeFunc supplies the content size a node must wrap: a container's
// child scope extent, or an embedded diagram's laid-out extent. It returns
// false when the node has no inner content.
type InnerSizeFunc func(nodeID string) (geometry.Size, bool)

// Sizer builds content-aware shapes for the nodes of a scope. It is the
// shared first step of every component engine: once sized, a shape's
// outer dimensions are fixed for the rest of the pass.
type Sizer struct {
	Padding geometry.Insets
	Measure shape.Measurer
}

// Shapes returns a sized shape.WithText per node ID. Container and
// embedded nodes have their inner content expanded via inner; asking a
// content-free shape to wrap content fails with UNSUPPORTED_SHAPE.
func (z *Sizer) Shapes(scope *diagram.Scope, inner InnerSizeFunc) (map[string]*shape.WithText, error) {
	shapes := make(map[string]*shape.WithText, len(scope.Nodes()))
	for _, n := range scope.Nodes() {
		def, err := shape.FromKind(n.Shape)
		if err != nil {
			return nil, orrerr.Wrap(orrerr.ErrCodeInvalidDiagram, err, "node %s", n.ID)
		}

		s := shape.New(def, n.DisplayText(), z.Padding, z.Measure)

		if n.Block != diagram.BlockNone {
			sz, ok := inner(n.ID)
			if !ok {
				return nil, orrerr.New(orrerr.ErrCodeInvalidGraph, "no inner layout for container %s", n.ID)
			}
			if _, err := s.ContentInsets(); err != nil {
				if errors.Is(err, shape.ErrNoContent) {
					return nil, orrerr.Wrap(orrerr.ErrCodeUnsupportedShape, err, "node %s (%s)", n.ID, def.Name())
				}
				return nil, err
			}
			s.ExpandContentSizeTo(sz)
		}

		shapes[n.ID] = s
	}
	return shapes, nil
}
