package sequence

import (
	"testing"

	"github.com/orreryworks/orrery/pkg/diagram"
	"github.com/orreryworks/orrery/pkg/geometry"
	"github.com/orreryworks/orrery/pkg/shape"
)

var testMeasurer = shape.CharMeasurer{RuneWidth: 8, LineHeight: 16}

func testConfig() Config {
	return Config{
		ParticipantSpacing: 60,
		MessageSpacing:     40,
		ActivationWidth:    12,
		FragmentPadding:    10,
		NoteMargin:         8,
		NotePadding:        6,
		LabelMargin:        12,
		Measure:            testMeasurer,
	}
}

func buildSequence(t *testing.T, ids []string, events []diagram.Event) (*diagram.Diagram, map[string]*shape.WithText) {
	t.Helper()
	d := diagram.New("test", diagram.KindSequence)
	s := d.AddScope("")
	shapes := make(map[string]*shape.WithText, len(ids))
	for _, id := range ids {
		n, err := s.AddNode(diagram.Node{ID: id})
		if err != nil {
			t.Fatalf("AddNode(%s): %v", id, err)
		}
		shapes[id] = shape.New(shape.Rectangle{}, n.DisplayText(), geometry.UniformInsets(10), testMeasurer)
	}
	for _, ev := range events {
		d.AppendEvent(ev)
	}
	return d, shapes
}

func msg(from, to, label string) diagram.Event {
	return diagram.Event{Kind: diagram.EventMessage, From: from, To: to, Label: label}
}

func activate(id string) diagram.Event {
	return diagram.Event{Kind: diagram.EventActivate, Participant: id}
}

func deactivate(id string) diagram.Event {
	return diagram.Event{Kind: diagram.EventDeactivate, Participant: id}
}

func TestActivationPairing(t *testing.T) {
	d, shapes := buildSequence(t, []string{"A", "B"}, []diagram.Event{
		activate("A"), msg("A", "B", ""), deactivate("A"),
		activate("A"), msg("A", "B", ""), deactivate("A"),
	})

	l, err := NewEngine(testConfig()).Layout(d, shapes)
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}

	if len(l.Activations) != 2 {
		t.Fatalf("len(Activations) = %d, want 2", len(l.Activations))
	}
	for i, a := range l.Activations {
		if a.Participant != "A" {
			t.Errorf("Activations[%d].Participant = %s, want A", i, a.Participant)
		}
		if a.Level != 0 {
			t.Errorf("Activations[%d].Level = %d, want 0", i, a.Level)
		}
	}
	if l.Activations[0].Bounds.Max.Y > l.Activations[1].Bounds.Min.Y {
		t.Errorf("sequential activations overlap: %v then %v",
			l.Activations[0].Bounds, l.Activations[1].Bounds)
	}
}

func TestNestedActivations(t *testing.T) {
	// activate A; A->B; activate B; B->C; deactivate B; deactivate A
	d, shapes := buildSequence(t, []string{"A", "B", "C"}, []diagram.Event{
		activate("A"),
		msg("A", "B", ""),
		activate("B"),
		msg("B", "C", ""),
		deactivate("B"),
		deactivate("A"),
	})

	l, err := NewEngine(testConfig()).Layout(d, shapes)
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}

	if len(l.Activations) != 2 {
		t.Fatalf("len(Activations) = %d, want 2", len(l.Activations))
	}
	var boxA, boxB *ActivationBox
	for i := range l.Activations {
		switch l.Activations[i].Participant {
		case "A":
			boxA = &l.Activations[i]
		case "B":
			boxB = &l.Activations[i]
		}
	}
	if boxA == nil || boxB == nil {
		t.Fatalf("missing activation boxes: %+v", l.Activations)
	}
	if boxA.Level != 0 {
		t.Errorf("A box level = %d, want 0", boxA.Level)
	}
	if boxB.Level != 1 {
		t.Errorf("B box level = %d, want 1", boxB.Level)
	}
	if boxB.Bounds.Min.Y < boxA.Bounds.Min.Y || boxB.Bounds.Max.Y > boxA.Bounds.Max.Y {
		t.Errorf("B box Y range %v not inside A box Y range %v", boxB.Bounds, boxA.Bounds)
	}
}

func TestMessageEndpointFallback(t *testing.T) {
	// No activations: endpoints sit exactly on the lifelines.
	d, shapes := buildSequence(t, []string{"A", "B"}, []diagram.Event{
		msg("A", "B", "hello"),
		msg("B", "A", "reply"),
	})

	l, err := NewEngine(testConfig()).Layout(d, shapes)
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}

	for _, m := range l.Messages {
		from, _ := l.Participant(m.From)
		to, _ := l.Participant(m.To)
		if m.FromX != from.Center.X || m.ToX != to.Center.X {
			t.Errorf("message %s->%s endpoints (%v, %v), want centers (%v, %v)",
				m.From, m.To, m.FromX, m.ToX, from.Center.X, to.Center.X)
		}
	}
	if l.Messages[0].Y >= l.Messages[1].Y {
		t.Errorf("cursor did not advance between messages: %v then %v",
			l.Messages[0].Y, l.Messages[1].Y)
	}
}

func TestMessageAttachesToActivationEdge(t *testing.T) {
	cfg := testConfig()
	d, shapes := buildSequence(t, []string{"A", "B"}, []diagram.Event{
		activate("A"),
		msg("A", "B", ""),
		deactivate("A"),
	})

	l, err := NewEngine(cfg).Layout(d, shapes)
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}

	a, _ := l.Participant("A")
	m := l.Messages[0]
	if want := a.Center.X + cfg.ActivationWidth/2; m.FromX != want {
		t.Errorf("FromX = %v, want activation right edge %v", m.FromX, want)
	}
}

func TestLabelWidensParticipantSpacing(t *testing.T) {
	plain, plainShapes := buildSequence(t, []string{"A", "B"}, []diagram.Event{
		msg("A", "B", ""),
	})
	labeled, labeledShapes := buildSequence(t, []string{"A", "B"}, []diagram.Event{
		msg("A", "B", "a rather long message label"),
	})
	e := NewEngine(testConfig())

	lp, err := e.Layout(plain, plainShapes)
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}
	ll, err := e.Layout(labeled, labeledShapes)
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}

	gap := func(l *Layout) float64 {
		a, _ := l.Participant("A")
		b, _ := l.Participant("B")
		return b.Center.X - a.Center.X
	}
	if gap(ll) <= gap(lp) {
		t.Errorf("label did not widen spacing: plain=%v labeled=%v", gap(lp), gap(ll))
	}
	want := testMeasurer.Measure("a rather long message label").Width + 2*testConfig().LabelMargin +
		labeledShapes["A"].Size().Width/2 + labeledShapes["B"].Size().Width/2
	if gap(ll) != want {
		t.Errorf("labeled gap = %v, want %v", gap(ll), want)
	}
}

func TestFragmentEnclosesMessages(t *testing.T) {
	d, shapes := buildSequence(t, []string{"A", "B"}, []diagram.Event{
		{Kind: diagram.EventFragmentStart, Title: "loop"},
		{Kind: diagram.EventSectionStart, Title: "while pending"},
		msg("A", "B", ""),
		{Kind: diagram.EventFragmentEnd},
	})

	l, err := NewEngine(testConfig()).Layout(d, shapes)
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}

	if len(l.Fragments) != 1 {
		t.Fatalf("len(Fragments) = %d, want 1", len(l.Fragments))
	}
	f := l.Fragments[0]
	if f.Title != "loop" {
		t.Errorf("Title = %q, want loop", f.Title)
	}
	if len(f.Sections) != 1 || f.Sections[0].Title != "while pending" {
		t.Fatalf("Sections = %+v, want one section titled 'while pending'", f.Sections)
	}

	m := l.Messages[0]
	if f.Bounds.Min.X >= m.FromX || f.Bounds.Max.X <= m.ToX {
		t.Errorf("fragment X range %v does not enclose message (%v, %v)", f.Bounds, m.FromX, m.ToX)
	}
	if !f.Bounds.ContainsY(m.Y) {
		t.Errorf("fragment Y range %v does not contain message at %v", f.Bounds, m.Y)
	}
	if f.Sections[0].Bounds.Min.X != f.Bounds.Min.X || f.Sections[0].Bounds.Max.X != f.Bounds.Max.X {
		t.Errorf("section does not share the fragment X range: %v vs %v", f.Sections[0].Bounds, f.Bounds)
	}
}

func TestNestedFragmentWidensOuter(t *testing.T) {
	d, shapes := buildSequence(t, []string{"A", "B", "C"}, []diagram.Event{
		{Kind: diagram.EventFragmentStart, Title: "alt"},
		msg("A", "B", ""),
		{Kind: diagram.EventFragmentStart, Title: "opt"},
		msg("B", "C", ""),
		{Kind: diagram.EventFragmentEnd},
		{Kind: diagram.EventFragmentEnd},
	})

	l, err := NewEngine(testConfig()).Layout(d, shapes)
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}
	if len(l.Fragments) != 2 {
		t.Fatalf("len(Fragments) = %d, want 2", len(l.Fragments))
	}
	inner, outer := l.Fragments[0], l.Fragments[1]
	if inner.Title != "opt" || outer.Title != "alt" {
		t.Fatalf("fragments emitted out of order: %q then %q", inner.Title, outer.Title)
	}
	if outer.Bounds.Min.X >= inner.Bounds.Min.X || outer.Bounds.Max.X <= inner.Bounds.Max.X {
		t.Errorf("outer fragment %v does not enclose inner %v horizontally", outer.Bounds, inner.Bounds)
	}
	if outer.Bounds.Min.Y >= inner.Bounds.Min.Y || outer.Bounds.Max.Y <= inner.Bounds.Max.Y {
		t.Errorf("outer fragment %v does not enclose inner %v vertically", outer.Bounds, inner.Bounds)
	}
}

func TestNoteAlignments(t *testing.T) {
	cfg := testConfig()
	d, shapes := buildSequence(t, []string{"A", "B"}, []diagram.Event{
		{Kind: diagram.EventNote, Note: &diagram.NoteSpec{Text: "over", Align: diagram.NoteOver}},
		{Kind: diagram.EventNote, Note: &diagram.NoteSpec{Text: "left", Align: diagram.NoteLeft, Participants: []string{"A"}}},
		{Kind: diagram.EventNote, Note: &diagram.NoteSpec{Text: "right", Align: diagram.NoteRight, Participants: []string{"B"}}},
	})

	l, err := NewEngine(cfg).Layout(d, shapes)
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}
	if len(l.Notes) != 3 {
		t.Fatalf("len(Notes) = %d, want 3", len(l.Notes))
	}

	a, _ := l.Participant("A")
	b, _ := l.Participant("B")
	over, left, right := l.Notes[0], l.Notes[1], l.Notes[2]

	if over.Bounds.Min.X > a.HeadBounds().Min.X || over.Bounds.Max.X < b.HeadBounds().Max.X {
		t.Errorf("over note %v does not span both heads", over.Bounds)
	}
	if want := a.HeadBounds().Min.X - cfg.NoteMargin; left.Bounds.Max.X != want {
		t.Errorf("left note right edge = %v, want %v", left.Bounds.Max.X, want)
	}
	if want := b.HeadBounds().Max.X + cfg.NoteMargin; right.Bounds.Min.X != want {
		t.Errorf("right note left edge = %v, want %v", right.Bounds.Min.X, want)
	}

	if over.Bounds.Max.Y > left.Bounds.Min.Y || left.Bounds.Max.Y > right.Bounds.Min.Y {
		t.Errorf("notes do not stack downward: %v, %v, %v", over.Bounds, left.Bounds, right.Bounds)
	}
}

func TestLifelineEndIsFinalCursor(t *testing.T) {
	d, shapes := buildSequence(t, []string{"A", "B"}, []diagram.Event{
		msg("A", "B", ""),
		msg("B", "A", ""),
	})

	l, err := NewEngine(testConfig()).Layout(d, shapes)
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}

	a, _ := l.Participant("A")
	b, _ := l.Participant("B")
	if a.LifelineEnd != b.LifelineEnd {
		t.Errorf("lifelines end at different Y: %v vs %v", a.LifelineEnd, b.LifelineEnd)
	}
	if a.LifelineEnd <= l.Messages[1].Y {
		t.Errorf("lifeline end %v not past the last message at %v", a.LifelineEnd, l.Messages[1].Y)
	}
}

func TestLayoutNormalizedToOrigin(t *testing.T) {
	d, shapes := buildSequence(t, []string{"A", "B"}, []diagram.Event{
		{Kind: diagram.EventNote, Note: &diagram.NoteSpec{Text: "way out left", Align: diagram.NoteLeft, Participants: []string{"A"}}},
		msg("A", "B", ""),
	})

	l, err := NewEngine(testConfig()).Layout(d, shapes)
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}
	if min := l.Bounds().Min; min != (geometry.Point{}) {
		t.Errorf("Bounds().Min = %v, want origin", min)
	}
}
