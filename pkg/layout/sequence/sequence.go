// Package sequence lays out sequence diagrams in a single forward pass
// over the ordered event stream.
//
// Participants are positioned left-to-right once at the top; everything
// below them is driven by a monotonically increasing Y cursor that each
// message, note and fragment advances. Activations and fragments are
// tracked on LIFO stacks while open and emitted as positioned drawables
// when they close.
package sequence

import (
	"github.com/orreryworks/orrery/pkg/diagram"
	"github.com/orreryworks/orrery/pkg/geometry"
	"github.com/orreryworks/orrery/pkg/shape"
)

// Participant is one positioned actor: its head shape at the top and a
// lifeline running down to LifelineEnd.
type Participant struct {
	Node  *diagram.Node
	Shape *shape.WithText

	// Center is the head shape's center. The lifeline is the vertical
	// segment from the head's bottom edge down to LifelineEnd at Center.X.
	Center      geometry.Point
	LifelineEnd float64
}

// HeadBounds returns the bounding box of the participant's head shape.
func (p *Participant) HeadBounds() geometry.Bounds {
	return geometry.Around(p.Center, p.Shape.Size())
}

// Message is one positioned arrow between two participants' lifelines.
type Message struct {
	From  string
	To    string
	Label string
	Arrow string

	// Y is the arrow's horizontal line; FromX and ToX are its endpoints,
	// attached to activation box edges where one is open.
	Y     float64
	FromX float64
	ToX   float64
}

// ActivationBox is the rectangle on a participant's lifeline marking a
// period of control focus. Level is the number of activations, on any
// lifeline, that were already open when this one started.
type ActivationBox struct {
	Participant string
	Level       int
	Bounds      geometry.Bounds
}

// Section is one guard-separated region of a fragment. Bounds shares the
// fragment's X range and covers the section's own Y span.
type Section struct {
	Title  string
	Bounds geometry.Bounds
}

// Fragment is a positioned combined fragment (alt, loop, opt, ...) with
// its sections top to bottom.
type Fragment struct {
	Title    string
	Bounds   geometry.Bounds
	Sections []Section
}

// Note is a positioned note box.
type Note struct {
	Text   string
	Align  diagram.NoteAlign
	Bounds geometry.Bounds
}

// Layout is the positioned result for one sequence diagram, translated so
// its bounding box's minimum corner sits at the origin.
type Layout struct {
	Participants []*Participant
	Messages     []Message
	Activations  []ActivationBox
	Fragments    []Fragment
	Notes        []Note

	index map[string]int
}

// Participant returns the positioned participant with the given node ID.
func (l *Layout) Participant(id string) (*Participant, bool) {
	i, ok := l.index[id]
	if !ok {
		return nil, false
	}
	return l.Participants[i], true
}

// Bounds returns the bounding box of every drawable in the layout.
func (l *Layout) Bounds() geometry.Bounds {
	var b geometry.Bounds
	first := true
	add := func(x geometry.Bounds) {
		if first {
			b = x
			first = false
			return
		}
		b = b.Union(x)
	}
	for _, p := range l.Participants {
		add(p.HeadBounds())
		add(geometry.Bounds{
			Min: geometry.Point{X: p.Center.X, Y: p.Center.Y},
			Max: geometry.Point{X: p.Center.X, Y: p.LifelineEnd},
		})
	}
	for _, m := range l.Messages {
		lo, hi := m.FromX, m.ToX
		if lo > hi {
			lo, hi = hi, lo
		}
		add(geometry.Bounds{
			Min: geometry.Point{X: lo, Y: m.Y},
			Max: geometry.Point{X: hi, Y: m.Y},
		})
	}
	for _, a := range l.Activations {
		add(a.Bounds)
	}
	for _, f := range l.Fragments {
		add(f.Bounds)
	}
	for _, n := range l.Notes {
		add(n.Bounds)
	}
	return b
}

// Size returns the layout's total size.
func (l *Layout) Size() geometry.Size {
	return l.Bounds().Size()
}

// translate shifts every drawable by delta.
func (l *Layout) translate(delta geometry.Point) {
	for _, p := range l.Participants {
		p.Center = p.Center.Add(delta)
		p.LifelineEnd += delta.Y
	}
	for i := range l.Messages {
		l.Messages[i].Y += delta.Y
		l.Messages[i].FromX += delta.X
		l.Messages[i].ToX += delta.X
	}
	for i := range l.Activations {
		l.Activations[i].Bounds = l.Activations[i].Bounds.Translate(delta)
	}
	for i := range l.Fragments {
		l.Fragments[i].Bounds = l.Fragments[i].Bounds.Translate(delta)
		for j := range l.Fragments[i].Sections {
			l.Fragments[i].Sections[j].Bounds = l.Fragments[i].Sections[j].Bounds.Translate(delta)
		}
	}
	for i := range l.Notes {
		l.Notes[i].Bounds = l.Notes[i].Bounds.Translate(delta)
	}
}
