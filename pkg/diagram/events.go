package diagram

// EventKind enumerates the sequence diagram event stream entries.
type EventKind string

// Sequence event kinds, in the vocabulary of the source language.
const (
	// EventActivate marks a participant gaining control focus.
	EventActivate EventKind = "activate"
	// EventDeactivate marks a participant releasing control focus.
	EventDeactivate EventKind = "deactivate"
	// EventMessage is an arrow between two participants.
	EventMessage EventKind = "message"
	// EventFragmentStart opens a combined fragment (alt, loop, opt, ...).
	EventFragmentStart EventKind = "fragment_start"
	// EventSectionStart opens the next section of the innermost fragment.
	EventSectionStart EventKind = "section_start"
	// EventFragmentEnd closes the innermost fragment.
	EventFragmentEnd EventKind = "fragment_end"
	// EventNote places a note over or beside participants.
	EventNote EventKind = "note"
)

// NoteAlign selects where a note sits relative to its participants.
type NoteAlign string

// Note alignment modes.
const (
	// NoteOver spans from the leftmost to the rightmost referenced
	// participant, centered on that span.
	NoteOver NoteAlign = "over"
	// NoteLeft anchors the note left of the leftmost referenced
	// participant.
	NoteLeft NoteAlign = "left"
	// NoteRight anchors the note right of the rightmost referenced
	// participant.
	NoteRight NoteAlign = "right"
)

// Event is one entry of a sequence diagram's ordered event stream. The
// populated fields depend on Kind.
type Event struct {
	Kind EventKind

	// Participant names the target of activate/deactivate events.
	Participant string

	// From, To and Label describe message events. Arrow is the arrow head
	// kind passed through to the export backend.
	From  string
	To    string
	Label string
	Arrow string

	// Title labels fragment_start (operator, e.g. "alt") and
	// section_start (guard, e.g. "else") events.
	Title string

	// Note describes note events.
	Note *NoteSpec
}

// NoteSpec is the payload of a note event.
type NoteSpec struct {
	Text         string
	Align        NoteAlign
	Participants []string // empty references all participants
}
