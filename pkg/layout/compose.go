package layout

import (
	"github.com/orreryworks/orrery/pkg/diagram"
	orrerr "github.com/orreryworks/orrery/pkg/errors"
)

// Compose places every nested scope inside its container node.
//
// The walk runs outermost-to-innermost so a scope's own offset is final
// before it is propagated into the scopes nested below it. For each
// container component the nested scope's offset becomes:
//
//	nested.Local + containing scope offset + container bounds min corner
//	+ container shape content inset
//
// Offsets are recomputed from Local every time, so calling Compose again
// on an already-composed stack is a no-op.
func (s *ContentStack) Compose() error {
	// Contents are innermost-first; iterate backwards for outer-to-inner.
	for i := len(s.Contents) - 1; i >= 0; i-- {
		sc := s.Contents[i]
		if sc.Container == "" {
			sc.Offset = sc.Local
		}

		for j := range sc.Layout.Components {
			c := &sc.Layout.Components[j]
			if c.Node.Block != diagram.BlockNested {
				continue
			}
			nested, ok := s.ScopeFor(c.Node.ID)
			if !ok {
				return orrerr.New(orrerr.ErrCodeInvalidGraph, "container %s has no nested scope", c.Node.ID)
			}
			insets, err := c.Shape.ContentInsets()
			if err != nil {
				return orrerr.Wrap(orrerr.ErrCodeUnsupportedShape, err, "container %s", c.Node.ID)
			}
			nested.Offset = nested.Local.
				Add(sc.Offset).
				Add(c.Bounds().Min).
				Add(insets.TopLeft())
		}
	}
	return nil
}
