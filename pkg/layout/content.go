package layout

import (
	"github.com/orreryworks/orrery/pkg/geometry"
	"github.com/orreryworks/orrery/pkg/layout/component"
)

// ScopeContent is one containment scope's layout plus its placement
// within the diagram.
//
// Local is the scope's own placement before composition, almost always
// zero. Offset is recomputed from Local on every composition pass, never
// accumulated into it, so composing a stack twice yields the same result
// as composing it once.
type ScopeContent struct {
	// Container is the ID of the node whose content this scope is, or ""
	// for the diagram's root scope.
	Container string

	Local  geometry.Point
	Offset geometry.Point

	Layout *component.Layout
}

// ContentStack holds every containment scope of one component diagram,
// innermost-first, mirroring the diagram's scope order.
type ContentStack struct {
	Contents []*ScopeContent

	byContainer map[string]*ScopeContent
}

// NewContentStack creates an empty stack.
func NewContentStack() *ContentStack {
	return &ContentStack{byContainer: make(map[string]*ScopeContent)}
}

// Add appends a scope's content. Callers append in the diagram's
// innermost-first scope order.
func (s *ContentStack) Add(c *ScopeContent) {
	s.Contents = append(s.Contents, c)
	s.byContainer[c.Container] = c
}

// Root returns the root scope's content, or nil if absent.
func (s *ContentStack) Root() *ScopeContent {
	return s.byContainer[""]
}

// ScopeFor returns the content of the scope nested inside the given
// container node.
func (s *ContentStack) ScopeFor(container string) (*ScopeContent, bool) {
	c, ok := s.byContainer[container]
	return c, ok
}

// Size returns the diagram's total extent: the root scope's layout size.
// Nested scopes sit inside container nodes the root scope already wraps.
func (s *ContentStack) Size() geometry.Size {
	root := s.Root()
	if root == nil {
		return geometry.Size{}
	}
	return root.Layout.Size()
}
