package diagram

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// =============================================================================
// Serialization Format
// =============================================================================

// DiagramJSON is the canonical serialization format for elaborated
// diagram trees. It is the contract between the front end (which produces
// it) and the layout stage (which consumes it), and doubles as the wire
// format of the HTTP layout service.
//
// Scope order in the Scopes slice is significant: innermost-first, the
// same order Diagram.Scopes exposes.
type DiagramJSON struct {
	Name      string       `json:"name,omitempty" bson:"name,omitempty"`
	Kind      Kind         `json:"kind" bson:"kind"`
	Algorithm string       `json:"algorithm,omitempty" bson:"algorithm,omitempty"`
	Scopes    []ScopeJSON  `json:"scopes" bson:"scopes"`
	Events    []EventJSON  `json:"events,omitempty" bson:"events,omitempty"`
}

// ScopeJSON serializes one containment scope.
type ScopeJSON struct {
	Container string         `json:"container,omitempty" bson:"container,omitempty"`
	Nodes     []NodeJSON     `json:"nodes" bson:"nodes"`
	Relations []RelationJSON `json:"relations,omitempty" bson:"relations,omitempty"`
}

// NodeJSON serializes one node.
type NodeJSON struct {
	ID       string       `json:"id" bson:"id"`
	Text     string       `json:"text,omitempty" bson:"text,omitempty"`
	Shape    string       `json:"shape,omitempty" bson:"shape,omitempty"`
	Nested   bool         `json:"nested,omitempty" bson:"nested,omitempty"`
	Embedded *DiagramJSON `json:"embedded,omitempty" bson:"embedded,omitempty"`
}

// RelationJSON serializes one relation.
type RelationJSON struct {
	From  string `json:"from" bson:"from"`
	To    string `json:"to" bson:"to"`
	Label string `json:"label,omitempty" bson:"label,omitempty"`
	Arrow string `json:"arrow,omitempty" bson:"arrow,omitempty"`
}

// EventJSON serializes one sequence event.
type EventJSON struct {
	Kind         EventKind `json:"kind" bson:"kind"`
	Participant  string    `json:"participant,omitempty" bson:"participant,omitempty"`
	From         string    `json:"from,omitempty" bson:"from,omitempty"`
	To           string    `json:"to,omitempty" bson:"to,omitempty"`
	Label        string    `json:"label,omitempty" bson:"label,omitempty"`
	Arrow        string    `json:"arrow,omitempty" bson:"arrow,omitempty"`
	Title        string    `json:"title,omitempty" bson:"title,omitempty"`
	Text         string    `json:"text,omitempty" bson:"text,omitempty"`
	Align        NoteAlign `json:"align,omitempty" bson:"align,omitempty"`
	Participants []string  `json:"participants,omitempty" bson:"participants,omitempty"`
}

// =============================================================================
// Diagram ↔ JSON Conversion
// =============================================================================

// Export converts a diagram tree to its serialization format.
func Export(d *Diagram) DiagramJSON {
	out := DiagramJSON{
		Name:      d.Name,
		Kind:      d.Kind,
		Algorithm: d.Algorithm,
	}
	for _, s := range d.scopes {
		sj := ScopeJSON{Container: s.container}
		for _, n := range s.nodes {
			nj := NodeJSON{
				ID:     n.ID,
				Text:   n.Text,
				Shape:  n.Shape,
				Nested: n.Block == BlockNested,
			}
			if n.Block == BlockEmbedded && n.Embedded != nil {
				embedded := Export(n.Embedded)
				nj.Embedded = &embedded
			}
			sj.Nodes = append(sj.Nodes, nj)
		}
		for _, r := range s.relations {
			sj.Relations = append(sj.Relations, RelationJSON(r))
		}
		out.Scopes = append(out.Scopes, sj)
	}
	for _, e := range d.events {
		ej := EventJSON{
			Kind:        e.Kind,
			Participant: e.Participant,
			From:        e.From,
			To:          e.To,
			Label:       e.Label,
			Arrow:       e.Arrow,
			Title:       e.Title,
		}
		if e.Note != nil {
			ej.Text = e.Note.Text
			ej.Align = e.Note.Align
			ej.Participants = e.Note.Participants
		}
		out.Events = append(out.Events, ej)
	}
	return out
}

// Import converts the serialization format back to a diagram tree.
// Returns an error if the structure violates model constraints (duplicate
// node IDs, relations referencing unknown nodes, unknown diagram kind).
func Import(dj DiagramJSON) (*Diagram, error) {
	switch dj.Kind {
	case KindComponent, KindSequence:
	default:
		return nil, fmt.Errorf("unknown diagram kind %q", dj.Kind)
	}

	d := New(dj.Name, dj.Kind)
	d.Algorithm = dj.Algorithm

	for _, sj := range dj.Scopes {
		s := d.AddScope(sj.Container)
		for _, nj := range sj.Nodes {
			n := Node{ID: nj.ID, Text: nj.Text, Shape: nj.Shape}
			switch {
			case nj.Embedded != nil:
				embedded, err := Import(*nj.Embedded)
				if err != nil {
					return nil, fmt.Errorf("embedded diagram in node %s: %w", nj.ID, err)
				}
				n.Block = BlockEmbedded
				n.Embedded = embedded
			case nj.Nested:
				n.Block = BlockNested
			}
			if _, err := s.AddNode(n); err != nil {
				return nil, fmt.Errorf("add node %s: %w", nj.ID, err)
			}
		}
		for _, rj := range sj.Relations {
			if err := s.AddRelation(Relation(rj)); err != nil {
				return nil, fmt.Errorf("add relation %s→%s: %w", rj.From, rj.To, err)
			}
		}
	}

	for _, ej := range dj.Events {
		e := Event{
			Kind:        ej.Kind,
			Participant: ej.Participant,
			From:        ej.From,
			To:          ej.To,
			Label:       ej.Label,
			Arrow:       ej.Arrow,
			Title:       ej.Title,
		}
		if ej.Kind == EventNote {
			e.Note = &NoteSpec{
				Text:         ej.Text,
				Align:        ej.Align,
				Participants: ej.Participants,
			}
		}
		d.AppendEvent(e)
	}

	return d, nil
}

// =============================================================================
// Serialization API
// =============================================================================

// Marshal converts a diagram tree to pretty-printed JSON bytes.
func Marshal(d *Diagram) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(d, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write writes a diagram tree as JSON to an io.Writer.
func Write(d *Diagram, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(Export(d)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// Read decodes a JSON diagram tree from an io.Reader.
func Read(r io.Reader) (*Diagram, error) {
	var dj DiagramJSON
	if err := json.NewDecoder(r).Decode(&dj); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return Import(dj)
}

// ReadFile reads a JSON file and returns the decoded diagram tree.
func ReadFile(path string) (*Diagram, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}

// WriteFile writes a diagram tree to a JSON file.
func WriteFile(d *Diagram, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return Write(d, f)
}
