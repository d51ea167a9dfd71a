// Package diagram models the elaborated, semantically valid diagram tree
// consumed by the layout engine.
//
// A diagram is either a component diagram (nodes, relations, containment
// scopes) or a sequence diagram (participants plus an ordered event
// stream). The layout engine only reads this model; it is produced by the
// front end's elaboration phase, which guarantees referential consistency
// between relations, events and nodes.
//
// Two orderings matter and are preserved by construction:
//
//   - Scopes iterate innermost-first, so a container's content is always
//     laid out before the scope that must size the container itself.
//   - PostOrder walks the whole diagram tree with embedded diagrams before
//     the diagrams that embed them.
package diagram

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidNodeID is returned by AddNode when the node ID is empty.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by AddNode when a node with the same
	// ID already exists in the scope.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownEndpoint is returned by AddRelation when an endpoint does
	// not name a node in the scope.
	ErrUnknownEndpoint = errors.New("relation endpoint references unknown node")
)

// Kind distinguishes the two diagram families.
type Kind string

// Diagram kinds.
const (
	KindComponent Kind = "component"
	KindSequence  Kind = "sequence"
)

// BlockKind describes what a node's block contains.
type BlockKind int

const (
	// BlockNone marks a plain node without nested content.
	BlockNone BlockKind = iota
	// BlockNested marks a container whose content is a nested scope of
	// the same diagram.
	BlockNested
	// BlockEmbedded marks a node whose block is a full embedded diagram,
	// possibly of a different kind.
	BlockEmbedded
)

// Node is one drawable element: a component, or a sequence participant.
type Node struct {
	ID    string
	Text  string
	Shape string // shape kind name; empty selects the default rectangle
	Block BlockKind

	// Embedded is the full sub-diagram when Block is BlockEmbedded.
	Embedded *Diagram
}

// DisplayText returns the label if set, otherwise the ID.
func (n *Node) DisplayText() string {
	if n.Text != "" {
		return n.Text
	}
	return n.ID
}

// Relation is a directed edge between two nodes of one scope.
type Relation struct {
	From  string
	To    string
	Label string
	Arrow string // arrow head kind, passed through to the export backend
}

// Scope is the flat node/relation set of one nesting level: a container
// node's direct children, or the diagram root when Container is empty.
type Scope struct {
	container string
	nodes     []*Node
	byID      map[string]*Node
	relations []Relation
	outgoing  map[string][]string
}

// Container returns the ID of the node whose content this scope lays out,
// or the empty string for the diagram root scope.
func (s *Scope) Container() string { return s.container }

// Nodes returns the scope's nodes in declaration order. The slice is the
// scope's own storage and must not be modified.
func (s *Scope) Nodes() []*Node { return s.nodes }

// Relations returns the scope's relations in declaration order.
func (s *Scope) Relations() []Relation { return s.relations }

// Node returns the node with the given ID, or nil and false.
func (s *Scope) Node(id string) (*Node, bool) {
	n, ok := s.byID[id]
	return n, ok
}

// Outgoing returns the IDs of nodes this node has relations to, in
// declaration order.
func (s *Scope) Outgoing(id string) []string { return s.outgoing[id] }

// AddNode appends a node to the scope.
func (s *Scope) AddNode(n Node) (*Node, error) {
	if n.ID == "" {
		return nil, ErrInvalidNodeID
	}
	if _, exists := s.byID[n.ID]; exists {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateNodeID, n.ID)
	}
	node := &n
	s.nodes = append(s.nodes, node)
	s.byID[node.ID] = node
	return node, nil
}

// AddRelation appends a relation between two existing nodes of the scope.
func (s *Scope) AddRelation(r Relation) error {
	if _, ok := s.byID[r.From]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownEndpoint, r.From)
	}
	if _, ok := s.byID[r.To]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownEndpoint, r.To)
	}
	s.relations = append(s.relations, r)
	s.outgoing[r.From] = append(s.outgoing[r.From], r.To)
	return nil
}

// Diagram is one diagram of the tree: scopes for component diagrams, an
// event stream for sequence diagrams.
type Diagram struct {
	Name      string
	Kind      Kind
	Algorithm string // layout algorithm name; empty selects the configured default

	scopes []*Scope
	events []Event
}

// New creates an empty diagram of the given kind.
func New(name string, kind Kind) *Diagram {
	return &Diagram{Name: name, Kind: kind}
}

// AddScope appends a containment scope. Callers must append scopes in
// innermost-first order; Scopes preserves insertion order.
func (d *Diagram) AddScope(container string) *Scope {
	s := &Scope{
		container: container,
		byID:      make(map[string]*Node),
		outgoing:  make(map[string][]string),
	}
	d.scopes = append(d.scopes, s)
	return s
}

// Scopes returns the containment scopes in innermost-first order.
func (d *Diagram) Scopes() []*Scope { return d.scopes }

// RootScope returns the scope with no container, or nil if absent.
func (d *Diagram) RootScope() *Scope {
	for _, s := range d.scopes {
		if s.container == "" {
			return s
		}
	}
	return nil
}

// ScopeFor returns the scope whose container is the given node ID.
func (d *Diagram) ScopeFor(containerID string) (*Scope, bool) {
	for _, s := range d.scopes {
		if s.container == containerID {
			return s, true
		}
	}
	return nil, false
}

// AppendEvent appends a sequence event. Events preserve source order.
func (d *Diagram) AppendEvent(e Event) {
	d.events = append(d.events, e)
}

// Events returns the ordered sequence event stream.
func (d *Diagram) Events() []Event { return d.events }

// Participants returns the sequence diagram's participants: the nodes of
// the root scope in declaration order.
func (d *Diagram) Participants() []*Node {
	root := d.RootScope()
	if root == nil {
		return nil
	}
	return root.Nodes()
}

// PostOrder returns the diagram tree rooted at d in post-order: every
// embedded diagram precedes the diagram that embeds it, so an embedding
// node can query the embedded diagram's laid-out size.
func PostOrder(d *Diagram) []*Diagram {
	var out []*Diagram
	var walk func(*Diagram)
	walk = func(cur *Diagram) {
		for _, s := range cur.scopes {
			for _, n := range s.nodes {
				if n.Block == BlockEmbedded && n.Embedded != nil {
					walk(n.Embedded)
				}
			}
		}
		out = append(out, cur)
	}
	walk(d)
	return out
}
