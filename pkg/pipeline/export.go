package pipeline

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/orreryworks/orrery/pkg/geometry"
	"github.com/orreryworks/orrery/pkg/layout"
)

// =============================================================================
// Layout Document
// =============================================================================

// Document is the serializable form of a computed layout: everything a
// rendering backend needs, with no references back into the diagram tree.
// The same structure is stored by pkg/store and returned by the HTTP API.
type Document struct {
	ID          string    `json:"id" bson:"_id"`
	Diagram     string    `json:"diagram" bson:"diagram"`
	DiagramHash string    `json:"diagram_hash" bson:"diagram_hash"`
	Algorithm   string    `json:"algorithm" bson:"algorithm"`
	Seed        int64     `json:"seed" bson:"seed"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`

	Size   geometry.Size `json:"size" bson:"size"`
	Layers []LayerDoc    `json:"layers" bson:"layers"`
}

// LayerDoc is one layer of the stack, bottom-to-top by Z.
type LayerDoc struct {
	Diagram string           `json:"diagram" bson:"diagram"`
	Z       int              `json:"z" bson:"z"`
	Kind    string           `json:"kind" bson:"kind"`
	Offset  geometry.Point   `json:"offset" bson:"offset"`
	Clip    *geometry.Bounds `json:"clip,omitempty" bson:"clip,omitempty"`

	Scopes   []ScopeDoc   `json:"scopes,omitempty" bson:"scopes,omitempty"`
	Sequence *SequenceDoc `json:"sequence,omitempty" bson:"sequence,omitempty"`
}

// ScopeDoc is one containment scope of a component layer.
type ScopeDoc struct {
	Container  string         `json:"container,omitempty" bson:"container,omitempty"`
	Offset     geometry.Point `json:"offset" bson:"offset"`
	Components []ComponentDoc `json:"components" bson:"components"`
	Relations  []RelationDoc  `json:"relations,omitempty" bson:"relations,omitempty"`
}

// ComponentDoc is one positioned component.
type ComponentDoc struct {
	ID     string         `json:"id" bson:"id"`
	Text   string         `json:"text" bson:"text"`
	Shape  string         `json:"shape" bson:"shape"`
	Center geometry.Point `json:"center" bson:"center"`
	Size   geometry.Size  `json:"size" bson:"size"`
}

// RelationDoc is one positioned edge; From and To index the scope's
// components.
type RelationDoc struct {
	From      int            `json:"from" bson:"from"`
	To        int            `json:"to" bson:"to"`
	Label     string         `json:"label,omitempty" bson:"label,omitempty"`
	Arrow     string         `json:"arrow,omitempty" bson:"arrow,omitempty"`
	FromPoint geometry.Point `json:"from_point" bson:"from_point"`
	ToPoint   geometry.Point `json:"to_point" bson:"to_point"`
}

// SequenceDoc is the positioned content of a sequence layer.
type SequenceDoc struct {
	Participants []ParticipantDoc `json:"participants" bson:"participants"`
	Messages     []MessageDoc     `json:"messages,omitempty" bson:"messages,omitempty"`
	Activations  []ActivationDoc  `json:"activations,omitempty" bson:"activations,omitempty"`
	Fragments    []FragmentDoc    `json:"fragments,omitempty" bson:"fragments,omitempty"`
	Notes        []NoteDoc        `json:"notes,omitempty" bson:"notes,omitempty"`
}

// ParticipantDoc is one positioned participant head plus its lifeline.
type ParticipantDoc struct {
	ID          string         `json:"id" bson:"id"`
	Text        string         `json:"text" bson:"text"`
	Shape       string         `json:"shape" bson:"shape"`
	Center      geometry.Point `json:"center" bson:"center"`
	Size        geometry.Size  `json:"size" bson:"size"`
	LifelineEnd float64        `json:"lifeline_end" bson:"lifeline_end"`
}

// MessageDoc is one positioned message arrow.
type MessageDoc struct {
	From  string  `json:"from" bson:"from"`
	To    string  `json:"to" bson:"to"`
	Label string  `json:"label,omitempty" bson:"label,omitempty"`
	Arrow string  `json:"arrow,omitempty" bson:"arrow,omitempty"`
	Y     float64 `json:"y" bson:"y"`
	FromX float64 `json:"from_x" bson:"from_x"`
	ToX   float64 `json:"to_x" bson:"to_x"`
}

// ActivationDoc is one activation box.
type ActivationDoc struct {
	Participant string          `json:"participant" bson:"participant"`
	Level       int             `json:"level" bson:"level"`
	Bounds      geometry.Bounds `json:"bounds" bson:"bounds"`
}

// FragmentDoc is one combined fragment with its sections.
type FragmentDoc struct {
	Title    string          `json:"title,omitempty" bson:"title,omitempty"`
	Bounds   geometry.Bounds `json:"bounds" bson:"bounds"`
	Sections []SectionDoc    `json:"sections,omitempty" bson:"sections,omitempty"`
}

// SectionDoc is one fragment section.
type SectionDoc struct {
	Title  string          `json:"title,omitempty" bson:"title,omitempty"`
	Bounds geometry.Bounds `json:"bounds" bson:"bounds"`
}

// NoteDoc is one positioned note.
type NoteDoc struct {
	Text   string          `json:"text" bson:"text"`
	Align  string          `json:"align" bson:"align"`
	Bounds geometry.Bounds `json:"bounds" bson:"bounds"`
}

// =============================================================================
// Export
// =============================================================================

// Export converts a layered layout into its serializable document.
func Export(ll *layout.LayeredLayout, diagramName, diagramHash string, cfg *layout.Config) *Document {
	doc := &Document{
		ID:          uuid.NewString(),
		Diagram:     diagramName,
		DiagramHash: diagramHash,
		Algorithm:   cfg.Algorithm,
		Seed:        cfg.Force.Seed,
		CreatedAt:   time.Now().UTC(),
		Size:        ll.Size(),
	}
	for _, l := range ll.Layers {
		doc.Layers = append(doc.Layers, exportLayer(l))
	}
	return doc
}

func exportLayer(l *layout.Layer) LayerDoc {
	ld := LayerDoc{
		Diagram: l.Diagram,
		Z:       l.Z,
		Kind:    string(l.Kind),
		Offset:  l.Offset,
		Clip:    l.Clip,
	}
	switch l.Kind {
	case layout.LayerSequence:
		ld.Sequence = exportSequence(l)
	default:
		for _, sc := range l.Component.Contents {
			ld.Scopes = append(ld.Scopes, exportScope(sc))
		}
	}
	return ld
}

func exportScope(sc *layout.ScopeContent) ScopeDoc {
	sd := ScopeDoc{Container: sc.Container, Offset: sc.Offset}
	for _, c := range sc.Layout.Components {
		sd.Components = append(sd.Components, ComponentDoc{
			ID:     c.Node.ID,
			Text:   c.Node.DisplayText(),
			Shape:  c.Shape.Definition().Name(),
			Center: c.Center,
			Size:   c.Shape.Size(),
		})
	}
	for _, r := range sc.Layout.Relations {
		sd.Relations = append(sd.Relations, RelationDoc{
			From:      r.From,
			To:        r.To,
			Label:     r.Source.Label,
			Arrow:     r.Source.Arrow,
			FromPoint: r.FromPoint,
			ToPoint:   r.ToPoint,
		})
	}
	return sd
}

func exportSequence(l *layout.Layer) *SequenceDoc {
	s := l.Sequence
	sd := &SequenceDoc{}
	for _, p := range s.Participants {
		sd.Participants = append(sd.Participants, ParticipantDoc{
			ID:          p.Node.ID,
			Text:        p.Node.DisplayText(),
			Shape:       p.Shape.Definition().Name(),
			Center:      p.Center,
			Size:        p.Shape.Size(),
			LifelineEnd: p.LifelineEnd,
		})
	}
	for _, m := range s.Messages {
		sd.Messages = append(sd.Messages, MessageDoc{
			From:  m.From,
			To:    m.To,
			Label: m.Label,
			Arrow: m.Arrow,
			Y:     m.Y,
			FromX: m.FromX,
			ToX:   m.ToX,
		})
	}
	for _, a := range s.Activations {
		sd.Activations = append(sd.Activations, ActivationDoc{
			Participant: a.Participant,
			Level:       a.Level,
			Bounds:      a.Bounds,
		})
	}
	for _, f := range s.Fragments {
		fd := FragmentDoc{Title: f.Title, Bounds: f.Bounds}
		for _, sec := range f.Sections {
			fd.Sections = append(fd.Sections, SectionDoc{Title: sec.Title, Bounds: sec.Bounds})
		}
		sd.Fragments = append(sd.Fragments, fd)
	}
	for _, n := range s.Notes {
		sd.Notes = append(sd.Notes, NoteDoc{Text: n.Text, Align: string(n.Align), Bounds: n.Bounds})
	}
	return sd
}

// =============================================================================
// Serialization
// =============================================================================

// MarshalDocument serializes a document to indented JSON.
func MarshalDocument(doc *Document) ([]byte, error) {
	return json.MarshalIndent(doc, "", "  ")
}

// UnmarshalDocument deserializes a document from JSON.
func UnmarshalDocument(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}
