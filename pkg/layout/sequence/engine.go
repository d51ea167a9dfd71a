package sequence

import (
	"math"

	"github.com/orreryworks/orrery/pkg/diagram"
	orrerr "github.com/orreryworks/orrery/pkg/errors"
	"github.com/orreryworks/orrery/pkg/geometry"
	"github.com/orreryworks/orrery/pkg/shape"
)

// Config tunes the event-driven sequence engine.
type Config struct {
	// ParticipantSpacing is the minimum horizontal gap between adjacent
	// participant heads. The gap widens to fit the widest message label
	// exchanged between exactly that pair.
	ParticipantSpacing float64
	// MessageSpacing is the vertical distance the cursor advances per
	// message, and the row height reserved for fragment title bars.
	MessageSpacing float64
	// ActivationWidth is the width of an activation box; each nesting
	// level shifts the box right by half this width.
	ActivationWidth float64
	// FragmentPadding is the horizontal slack between a fragment's frame
	// and the message extents it encloses.
	FragmentPadding float64
	// NoteMargin separates a side-aligned note from its participant.
	NoteMargin float64
	// NotePadding is the text inset inside a note box.
	NotePadding float64
	// LabelMargin is the slack reserved on each side of a message label
	// when it drives participant spacing.
	LabelMargin float64
	// Measure estimates rendered text extents.
	Measure shape.Measurer
}

// Engine lays out a sequence diagram from its event stream.
type Engine struct {
	cfg Config
}

// NewEngine creates a sequence engine.
func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// Name returns the engine identifier.
func (e *Engine) Name() string { return "basic" }

// activationTiming is an open activation on the per-participant stack.
// level counts every activation open anywhere when this one started;
// slot counts only those on the same lifeline and drives the rightward
// shift that keeps stacked boxes visible.
type activationTiming struct {
	startY float64
	level  int
	slot   int
}

// fragmentTiming is an open fragment on the fragment stack.
type fragmentTiming struct {
	title  string
	startY float64

	minX, maxX float64
	hasExtent  bool

	sections     []Section
	sectionTitle string
	sectionStart float64
	sectionOpen  bool
}

func (f *fragmentTiming) widen(lo, hi float64) {
	if !f.hasExtent {
		f.minX, f.maxX = lo, hi
		f.hasExtent = true
		return
	}
	f.minX = math.Min(f.minX, lo)
	f.maxX = math.Max(f.maxX, hi)
}

// Layout runs the single forward event pass. Shapes must contain a sized
// head shape for every participant; a missing entry means the upstream
// elaboration produced an inconsistent diagram.
func (e *Engine) Layout(d *diagram.Diagram, shapes map[string]*shape.WithText) (*Layout, error) {
	l := &Layout{index: make(map[string]int)}

	for i, n := range d.Participants() {
		ws, ok := shapes[n.ID]
		if !ok {
			return nil, orrerr.New(orrerr.ErrCodeInvalidGraph, "no shape for participant %s", n.ID)
		}
		l.Participants = append(l.Participants, &Participant{Node: n, Shape: ws})
		l.index[n.ID] = i
	}
	e.placeParticipants(l, d.Events())

	maxHead := 0.0
	for _, p := range l.Participants {
		maxHead = math.Max(maxHead, p.Shape.Size().Height)
	}
	cursor := maxHead + e.cfg.MessageSpacing
	lastMessageY := cursor

	active := make(map[string][]activationTiming)
	openCount := 0
	var fragments []fragmentTiming
	bleed := e.cfg.MessageSpacing / 4

	closeActivation := func(id string) {
		stack := active[id]
		t := stack[len(stack)-1]
		active[id] = stack[:len(stack)-1]
		openCount--
		endY := math.Max(lastMessageY, t.startY)
		cx := l.Participants[l.index[id]].Center.X + float64(t.slot)*e.cfg.ActivationWidth/2
		l.Activations = append(l.Activations, ActivationBox{
			Participant: id,
			Level:       t.level,
			Bounds: geometry.Bounds{
				Min: geometry.Point{X: cx - e.cfg.ActivationWidth/2, Y: t.startY - bleed},
				Max: geometry.Point{X: cx + e.cfg.ActivationWidth/2, Y: endY + bleed},
			},
		})
	}

	closeSection := func(f *fragmentTiming, y float64) {
		if !f.sectionOpen {
			return
		}
		f.sections = append(f.sections, Section{
			Title: f.sectionTitle,
			Bounds: geometry.Bounds{
				Min: geometry.Point{Y: f.sectionStart},
				Max: geometry.Point{Y: y},
			},
		})
		f.sectionOpen = false
	}

	for _, ev := range d.Events() {
		switch ev.Kind {
		case diagram.EventActivate:
			if _, ok := l.index[ev.Participant]; !ok {
				return nil, orrerr.New(orrerr.ErrCodeInvalidGraph, "activate references unknown participant %s", ev.Participant)
			}
			active[ev.Participant] = append(active[ev.Participant], activationTiming{
				startY: cursor,
				level:  openCount,
				slot:   len(active[ev.Participant]),
			})
			openCount++

		case diagram.EventDeactivate:
			if len(active[ev.Participant]) == 0 {
				return nil, orrerr.New(orrerr.ErrCodeInvalidGraph, "deactivate without matching activate for %s", ev.Participant)
			}
			closeActivation(ev.Participant)

		case diagram.EventMessage:
			from, okFrom := l.index[ev.From]
			to, okTo := l.index[ev.To]
			if !okFrom || !okTo {
				return nil, orrerr.New(orrerr.ErrCodeInvalidGraph, "message references unknown participant %s -> %s", ev.From, ev.To)
			}
			fromX := e.endpointX(l, active, ev.From, cursor, l.Participants[to].Center.X)
			toX := e.endpointX(l, active, ev.To, cursor, l.Participants[from].Center.X)
			l.Messages = append(l.Messages, Message{
				From:  ev.From,
				To:    ev.To,
				Label: ev.Label,
				Arrow: ev.Arrow,
				Y:     cursor,
				FromX: fromX,
				ToX:   toX,
			})
			for i := range fragments {
				fragments[i].widen(math.Min(fromX, toX), math.Max(fromX, toX))
			}
			lastMessageY = cursor
			cursor += e.cfg.MessageSpacing

		case diagram.EventFragmentStart:
			fragments = append(fragments, fragmentTiming{title: ev.Title, startY: cursor})
			cursor += e.cfg.MessageSpacing // title bar row

		case diagram.EventSectionStart:
			if len(fragments) == 0 {
				return nil, orrerr.New(orrerr.ErrCodeInvalidGraph, "section outside a fragment")
			}
			f := &fragments[len(fragments)-1]
			closeSection(f, cursor)
			f.sectionTitle = ev.Title
			f.sectionStart = cursor
			f.sectionOpen = true
			cursor += e.cfg.MessageSpacing // guard label row

		case diagram.EventFragmentEnd:
			if len(fragments) == 0 {
				return nil, orrerr.New(orrerr.ErrCodeInvalidGraph, "fragment end without matching start")
			}
			f := fragments[len(fragments)-1]
			fragments = fragments[:len(fragments)-1]
			closeSection(&f, cursor)
			frag := e.closeFragment(l, &f, cursor)
			if len(fragments) > 0 {
				fragments[len(fragments)-1].widen(frag.Bounds.Min.X, frag.Bounds.Max.X)
			}
			l.Fragments = append(l.Fragments, frag)
			cursor += e.cfg.MessageSpacing

		case diagram.EventNote:
			note, err := e.placeNote(l, ev.Note, cursor)
			if err != nil {
				return nil, err
			}
			l.Notes = append(l.Notes, note)
			cursor = note.Bounds.Max.Y + e.cfg.MessageSpacing

		default:
			return nil, orrerr.New(orrerr.ErrCodeInvalidGraph, "unknown sequence event kind %q", ev.Kind)
		}
	}

	// Events guarantee balanced pairs upstream, but close anything still
	// open so the output stays drawable.
	for id := range active {
		for len(active[id]) > 0 {
			closeActivation(id)
		}
	}
	for len(fragments) > 0 {
		f := fragments[len(fragments)-1]
		fragments = fragments[:len(fragments)-1]
		closeSection(&f, cursor)
		l.Fragments = append(l.Fragments, e.closeFragment(l, &f, cursor))
	}

	for _, p := range l.Participants {
		p.LifelineEnd = cursor
	}

	if len(l.Participants) > 0 {
		min := l.Bounds().Min
		l.translate(geometry.Point{X: -min.X, Y: -min.Y})
	}
	return l, nil
}

// placeParticipants assigns head centers left to right. The gap between
// two adjacent participants grows to fit the widest message label
// exchanged between exactly that pair.
func (e *Engine) placeParticipants(l *Layout, events []diagram.Event) {
	if len(l.Participants) == 0 {
		return
	}

	pairLabel := make([]float64, len(l.Participants)-1)
	for _, ev := range events {
		if ev.Kind != diagram.EventMessage || ev.Label == "" {
			continue
		}
		i, okFrom := l.index[ev.From]
		j, okTo := l.index[ev.To]
		if !okFrom || !okTo {
			continue
		}
		if i > j {
			i, j = j, i
		}
		if j-i != 1 {
			continue
		}
		w := e.cfg.Measure.Measure(ev.Label).Width + 2*e.cfg.LabelMargin
		pairLabel[i] = math.Max(pairLabel[i], w)
	}

	maxHead := 0.0
	for _, p := range l.Participants {
		maxHead = math.Max(maxHead, p.Shape.Size().Height)
	}

	x := l.Participants[0].Shape.Size().Width / 2
	for i, p := range l.Participants {
		if i > 0 {
			prev := l.Participants[i-1]
			gap := math.Max(e.cfg.ParticipantSpacing, pairLabel[i-1])
			x += prev.Shape.Size().Width/2 + gap + p.Shape.Size().Width/2
		}
		p.Center = geometry.Point{X: x, Y: maxHead / 2}
	}
}

// endpointX computes a message endpoint on a participant's lifeline: the
// near edge of the most nested open activation box, or the lifeline
// itself when none is open.
func (e *Engine) endpointX(l *Layout, active map[string][]activationTiming, id string, y, towardX float64) float64 {
	cx := l.Participants[l.index[id]].Center.X
	stack := active[id]
	if len(stack) == 0 {
		return cx
	}
	t := stack[len(stack)-1]
	boxCX := cx + float64(t.slot)*e.cfg.ActivationWidth/2
	box := geometry.Around(
		geometry.Point{X: boxCX, Y: y},
		geometry.Size{Width: e.cfg.ActivationWidth, Height: e.cfg.MessageSpacing},
	)
	return geometry.RayRectEdge(box, geometry.Point{X: towardX, Y: y}).X
}

// closeFragment converts an open fragment timing into a positioned
// Fragment ending at y. Fragments that saw no messages span all
// participants.
func (e *Engine) closeFragment(l *Layout, f *fragmentTiming, y float64) Fragment {
	if !f.hasExtent {
		f.minX, f.maxX = e.participantSpan(l, nil)
		f.hasExtent = true
	}
	bounds := geometry.Bounds{
		Min: geometry.Point{X: f.minX - e.cfg.FragmentPadding, Y: f.startY},
		Max: geometry.Point{X: f.maxX + e.cfg.FragmentPadding, Y: y},
	}
	sections := make([]Section, len(f.sections))
	for i, s := range f.sections {
		sections[i] = Section{
			Title: s.Title,
			Bounds: geometry.Bounds{
				Min: geometry.Point{X: bounds.Min.X, Y: s.Bounds.Min.Y},
				Max: geometry.Point{X: bounds.Max.X, Y: s.Bounds.Max.Y},
			},
		}
	}
	return Fragment{Title: f.title, Bounds: bounds, Sections: sections}
}

// participantSpan returns the X range covered by the referenced
// participants' heads; ids == nil means all participants.
func (e *Engine) participantSpan(l *Layout, ids []string) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	span := func(p *Participant) {
		b := p.HeadBounds()
		lo = math.Min(lo, b.Min.X)
		hi = math.Max(hi, b.Max.X)
	}
	if len(ids) == 0 {
		for _, p := range l.Participants {
			span(p)
		}
		return lo, hi
	}
	for _, id := range ids {
		if i, ok := l.index[id]; ok {
			span(l.Participants[i])
		}
	}
	return lo, hi
}

// placeNote positions a note at the cursor under one of the three
// alignment modes.
func (e *Engine) placeNote(l *Layout, spec *diagram.NoteSpec, cursor float64) (Note, error) {
	if spec == nil {
		return Note{}, orrerr.New(orrerr.ErrCodeInvalidGraph, "note event without payload")
	}
	for _, id := range spec.Participants {
		if _, ok := l.index[id]; !ok {
			return Note{}, orrerr.New(orrerr.ErrCodeInvalidGraph, "note references unknown participant %s", id)
		}
	}

	text := e.cfg.Measure.Measure(spec.Text)
	w := text.Width + 2*e.cfg.NotePadding
	h := text.Height + 2*e.cfg.NotePadding
	lo, hi := e.participantSpan(l, spec.Participants)

	var minX, maxX float64
	switch spec.Align {
	case diagram.NoteLeft:
		maxX = lo - e.cfg.NoteMargin
		minX = maxX - w
	case diagram.NoteRight:
		minX = hi + e.cfg.NoteMargin
		maxX = minX + w
	default: // NoteOver
		width := math.Max(w, hi-lo)
		center := (lo + hi) / 2
		minX = center - width/2
		maxX = center + width/2
	}

	return Note{
		Text:  spec.Text,
		Align: spec.Align,
		Bounds: geometry.Bounds{
			Min: geometry.Point{X: minX, Y: cursor},
			Max: geometry.Point{X: maxX, Y: cursor + h},
		},
	}, nil
}
