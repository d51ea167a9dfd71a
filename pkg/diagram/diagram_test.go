package diagram

import (
	"bytes"
	"errors"
	"testing"
)

func TestScopeAddNode(t *testing.T) {
	d := New("demo", KindComponent)
	s := d.AddScope("")

	if _, err := s.AddNode(Node{ID: "a"}); err != nil {
		t.Fatalf("AddNode(a) error: %v", err)
	}
	if _, err := s.AddNode(Node{ID: ""}); !errors.Is(err, ErrInvalidNodeID) {
		t.Errorf("AddNode(empty) error = %v, want ErrInvalidNodeID", err)
	}
	if _, err := s.AddNode(Node{ID: "a"}); !errors.Is(err, ErrDuplicateNodeID) {
		t.Errorf("AddNode(dup) error = %v, want ErrDuplicateNodeID", err)
	}
}

func TestScopeAddRelation(t *testing.T) {
	d := New("demo", KindComponent)
	s := d.AddScope("")
	s.AddNode(Node{ID: "a"})
	s.AddNode(Node{ID: "b"})

	if err := s.AddRelation(Relation{From: "a", To: "b"}); err != nil {
		t.Fatalf("AddRelation error: %v", err)
	}
	if err := s.AddRelation(Relation{From: "a", To: "missing"}); !errors.Is(err, ErrUnknownEndpoint) {
		t.Errorf("AddRelation(missing) error = %v, want ErrUnknownEndpoint", err)
	}

	got := s.Outgoing("a")
	if len(got) != 1 || got[0] != "b" {
		t.Errorf("Outgoing(a) = %v, want [b]", got)
	}
}

func TestScopesInnerFirstOrder(t *testing.T) {
	d := New("demo", KindComponent)
	inner := d.AddScope("parent")
	inner.AddNode(Node{ID: "child"})
	root := d.AddScope("")
	root.AddNode(Node{ID: "parent", Block: BlockNested})

	scopes := d.Scopes()
	if len(scopes) != 2 {
		t.Fatalf("len(Scopes()) = %d, want 2", len(scopes))
	}
	if scopes[0].Container() != "parent" || scopes[1].Container() != "" {
		t.Errorf("scope order = [%q %q], want [parent \"\"]", scopes[0].Container(), scopes[1].Container())
	}

	if got, ok := d.ScopeFor("parent"); !ok || got != inner {
		t.Error("ScopeFor(parent) did not return the inner scope")
	}
	if d.RootScope() != root {
		t.Error("RootScope() did not return the container-free scope")
	}
}

func TestPostOrder(t *testing.T) {
	// outer embeds mid, mid embeds leaf: post-order is leaf, mid, outer.
	leaf := New("leaf", KindSequence)
	mid := New("mid", KindComponent)
	ms := mid.AddScope("")
	ms.AddNode(Node{ID: "holder", Block: BlockEmbedded, Embedded: leaf})
	outer := New("outer", KindComponent)
	os := outer.AddScope("")
	os.AddNode(Node{ID: "box", Block: BlockEmbedded, Embedded: mid})
	os.AddNode(Node{ID: "plain"})

	order := PostOrder(outer)

	want := []*Diagram{leaf, mid, outer}
	if len(order) != len(want) {
		t.Fatalf("len(PostOrder()) = %d, want %d", len(order), len(want))
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("PostOrder()[%d] = %s, want %s", i, order[i].Name, want[i].Name)
		}
	}
}

func TestSerializationRoundTrip(t *testing.T) {
	inner := New("inner", KindSequence)
	is := inner.AddScope("")
	is.AddNode(Node{ID: "A"})
	is.AddNode(Node{ID: "B"})
	inner.AppendEvent(Event{Kind: EventActivate, Participant: "A"})
	inner.AppendEvent(Event{Kind: EventMessage, From: "A", To: "B", Label: "hello"})
	inner.AppendEvent(Event{Kind: EventDeactivate, Participant: "A"})
	inner.AppendEvent(Event{Kind: EventNote, Note: &NoteSpec{
		Text: "done", Align: NoteOver, Participants: []string{"A", "B"},
	}})

	d := New("demo", KindComponent)
	d.Algorithm = "basic"
	nested := d.AddScope("parent")
	nested.AddNode(Node{ID: "child", Shape: "ellipse"})
	root := d.AddScope("")
	root.AddNode(Node{ID: "parent", Block: BlockNested})
	root.AddNode(Node{ID: "seq", Block: BlockEmbedded, Embedded: inner})
	root.AddRelation(Relation{From: "parent", To: "seq", Label: "uses"})

	data, err := Marshal(d)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}

	got, err := Read(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Read error: %v", err)
	}

	if got.Algorithm != "basic" || got.Kind != KindComponent {
		t.Errorf("round trip lost header: %+v", got)
	}
	if len(got.Scopes()) != 2 {
		t.Fatalf("len(Scopes()) = %d, want 2", len(got.Scopes()))
	}
	seq, ok := got.RootScope().Node("seq")
	if !ok || seq.Block != BlockEmbedded || seq.Embedded == nil {
		t.Fatal("round trip lost embedded diagram")
	}
	if len(seq.Embedded.Events()) != 4 {
		t.Errorf("embedded events = %d, want 4", len(seq.Embedded.Events()))
	}
	note := seq.Embedded.Events()[3]
	if note.Note == nil || note.Note.Align != NoteOver || len(note.Note.Participants) != 2 {
		t.Errorf("round trip lost note payload: %+v", note)
	}
}

func TestImportRejectsUnknownKind(t *testing.T) {
	_, err := Import(DiagramJSON{Kind: "flowchart"})
	if err == nil {
		t.Error("Import(flowchart) = nil error, want error")
	}
}
