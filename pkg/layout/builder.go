package layout

import (
	"math/rand"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/orreryworks/orrery/pkg/diagram"
	orrerr "github.com/orreryworks/orrery/pkg/errors"
	"github.com/orreryworks/orrery/pkg/geometry"
	"github.com/orreryworks/orrery/pkg/layout/component"
	"github.com/orreryworks/orrery/pkg/layout/sequence"
	"github.com/orreryworks/orrery/pkg/shape"
)

// Builder turns diagram trees into layered layouts. A Builder is cheap,
// immutable after construction and safe for concurrent Build calls: all
// per-build state (engine cache, layer registry, embedding links) lives
// in the build itself.
type Builder struct {
	cfg     Config
	logger  *log.Logger
	measure shape.Measurer
	custom  map[string]component.Engine
	oracle  component.Oracle
}

// Option customizes a Builder.
type Option func(*Builder)

// WithEngine registers a component engine under a name, shadowing the
// built-in of the same name.
func WithEngine(name string, e component.Engine) Option {
	return func(b *Builder) { b.custom[name] = e }
}

// WithOracle replaces the hierarchical engine's layout oracle.
func WithOracle(o component.Oracle) Option {
	return func(b *Builder) { b.oracle = o }
}

// NewBuilder validates the configuration and creates a Builder.
func NewBuilder(cfg Config, logger *log.Logger, opts ...Option) (*Builder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	b := &Builder{
		cfg:     cfg,
		logger:  logger,
		measure: shape.CharMeasurer{RuneWidth: cfg.Text.RuneWidth, LineHeight: cfg.Text.LineHeight},
		custom:  make(map[string]component.Engine),
		oracle:  component.GraphvizOracle{},
	}
	for _, o := range opts {
		o(b)
	}
	return b, nil
}

// Build lays out the whole diagram tree rooted at root.
//
// Diagrams are processed in post-order so an embedded diagram's extent is
// known when the node embedding it is sized. After every layer exists,
// embedding links are applied in reverse build order, which guarantees a
// layer's own offset is final before it serves as the base for the layers
// embedded inside it.
func (b *Builder) Build(root *diagram.Diagram) (*LayeredLayout, error) {
	r := &build{
		b:       b,
		id:      uuid.New(),
		engines: make(map[string]component.Engine),
		layers:  make(map[*diagram.Diagram]*Layer),
	}

	out := &LayeredLayout{}
	for _, d := range diagram.PostOrder(root) {
		var layer *Layer
		var err error
		switch d.Kind {
		case diagram.KindSequence:
			layer, err = r.sequenceLayer(d)
		case diagram.KindComponent:
			layer, err = r.componentLayer(d)
		default:
			err = orrerr.New(orrerr.ErrCodeInvalidDiagram, "unknown diagram kind %q", d.Kind)
		}
		if err != nil {
			return nil, orrerr.Wrap(orrerr.GetCode(err), err, "diagram %s", d.Name)
		}
		layer.Diagram = d.Name
		r.layers[d] = layer
		out.Layers = append(out.Layers, layer)
	}

	// Post-order builds the deepest diagram first, but it must draw on
	// top of everything embedding it: reverse into bottom-to-top order.
	slices.Reverse(out.Layers)
	for z, layer := range out.Layers {
		layer.Z = z
	}

	for i := len(r.links) - 1; i >= 0; i-- {
		r.applyLink(r.links[i])
	}

	b.logger.Debug("layout built",
		"build", r.id,
		"diagram", root.Name,
		"layers", len(out.Layers))
	return out, nil
}

// build is the state of one Build call.
type build struct {
	b       *Builder
	id      uuid.UUID
	engines map[string]component.Engine
	seq     *sequence.Engine
	layers  map[*diagram.Diagram]*Layer
	links   []embedLink
}

// embedLink records one embedded-diagram placement to be resolved after
// all layers exist: where the embedding node sits (scope is nil for
// sequence layers, whose coordinates are already diagram-global).
type embedLink struct {
	embedding *Layer
	scope     *ScopeContent
	bounds    geometry.Bounds
	insets    geometry.Insets
	embedded  *Layer
}

// applyLink places an embedded layer inside its embedding node's content
// box and clips it there.
func (r *build) applyLink(l embedLink) {
	base := l.embedding.Offset
	if l.scope != nil {
		base = base.Add(l.scope.Offset)
	}
	content := l.bounds.Inset(l.insets)
	l.embedded.Offset = base.Add(content.Min)
	clip := content.Translate(base).Inset(geometry.UniformInsets(r.b.cfg.ClipPadding))
	l.embedded.Clip = &clip
}

// componentLayer lays out one component diagram: every containment scope
// through the selected engine (innermost-first, so containers know their
// content extent), then one composition pass over the stack.
func (r *build) componentLayer(d *diagram.Diagram) (*Layer, error) {
	engine, err := r.engineFor(r.algorithm(d))
	if err != nil {
		return nil, err
	}

	stack := NewContentStack()
	sizer := r.sizer()
	for _, scope := range d.Scopes() {
		shapes, err := sizer.Shapes(scope, r.innerSize(stack, scope))
		if err != nil {
			return nil, err
		}
		lay, err := component.LayoutScope(engine, scope, shapes)
		if err != nil {
			return nil, err
		}
		stack.Add(&ScopeContent{Container: scope.Container(), Layout: lay})
	}
	if err := stack.Compose(); err != nil {
		return nil, err
	}

	layer := &Layer{Kind: LayerComponent, Component: stack}
	for _, sc := range stack.Contents {
		for j := range sc.Layout.Components {
			c := &sc.Layout.Components[j]
			if c.Node.Block != diagram.BlockEmbedded || c.Node.Embedded == nil {
				continue
			}
			if err := r.linkEmbedded(layer, sc, c.Node, c.Bounds(), c.Shape); err != nil {
				return nil, err
			}
		}
	}
	return layer, nil
}

// sequenceLayer lays out one sequence diagram through the event-driven
// engine.
func (r *build) sequenceLayer(d *diagram.Diagram) (*Layer, error) {
	root := d.RootScope()
	if root == nil {
		return nil, orrerr.New(orrerr.ErrCodeInvalidDiagram, "sequence diagram has no participants")
	}

	shapes, err := r.sizer().Shapes(root, r.innerSize(nil, root))
	if err != nil {
		return nil, err
	}
	if r.seq == nil {
		s := r.b.cfg.Sequence
		r.seq = sequence.NewEngine(sequence.Config{
			ParticipantSpacing: s.ParticipantSpacing,
			MessageSpacing:     s.MessageSpacing,
			ActivationWidth:    s.ActivationWidth,
			FragmentPadding:    s.FragmentPadding,
			NoteMargin:         s.NoteMargin,
			NotePadding:        s.NotePadding,
			LabelMargin:        s.LabelMargin,
			Measure:            r.b.measure,
		})
	}
	lay, err := r.seq.Layout(d, shapes)
	if err != nil {
		return nil, err
	}

	layer := &Layer{Kind: LayerSequence, Sequence: lay}
	for _, p := range lay.Participants {
		if p.Node.Block != diagram.BlockEmbedded || p.Node.Embedded == nil {
			continue
		}
		if err := r.linkEmbedded(layer, nil, p.Node, p.HeadBounds(), p.Shape); err != nil {
			return nil, err
		}
	}
	return layer, nil
}

func (r *build) linkEmbedded(layer *Layer, sc *ScopeContent, n *diagram.Node, bounds geometry.Bounds, ws *shape.WithText) error {
	insets, err := ws.ContentInsets()
	if err != nil {
		return orrerr.Wrap(orrerr.ErrCodeUnsupportedShape, err, "embedding node %s", n.ID)
	}
	embedded, ok := r.layers[n.Embedded]
	if !ok {
		return orrerr.New(orrerr.ErrCodeInvalidGraph, "embedded diagram %s not yet built", n.Embedded.Name)
	}
	r.links = append(r.links, embedLink{
		embedding: layer,
		scope:     sc,
		bounds:    bounds,
		insets:    insets,
		embedded:  embedded,
	})
	return nil
}

func (r *build) sizer() *component.Sizer {
	return &component.Sizer{
		Padding: geometry.UniformInsets(r.b.cfg.Padding),
		Measure: r.b.measure,
	}
}

// innerSize supplies node content extents during sizing: a container gets
// its already-laid-out child scope, an embedding node gets the embedded
// diagram's layer extent.
func (r *build) innerSize(stack *ContentStack, scope *diagram.Scope) component.InnerSizeFunc {
	return func(id string) (geometry.Size, bool) {
		if stack != nil {
			if sc, ok := stack.ScopeFor(id); ok && sc.Container != "" {
				return sc.Layout.Size(), true
			}
		}
		if n, ok := scope.Node(id); ok && n.Block == diagram.BlockEmbedded && n.Embedded != nil {
			if layer, ok := r.layers[n.Embedded]; ok {
				return layer.Size(), true
			}
		}
		return geometry.Size{}, false
	}
}

// algorithm returns the engine name for a diagram: its own choice, or
// the configured default.
func (r *build) algorithm(d *diagram.Diagram) string {
	if d.Algorithm != "" {
		return d.Algorithm
	}
	return r.b.cfg.Algorithm
}

// engineFor returns the engine for a name, constructing it at most once
// per build. Several diagrams sharing an algorithm share the instance,
// which also means the force engine's random source advances across them
// instead of restarting.
func (r *build) engineFor(name string) (component.Engine, error) {
	if e, ok := r.engines[name]; ok {
		return e, nil
	}
	e, err := r.newEngine(name)
	if err != nil {
		return nil, err
	}
	r.engines[name] = e
	return e, nil
}

func (r *build) newEngine(name string) (component.Engine, error) {
	if e, ok := r.b.custom[name]; ok {
		return e, nil
	}

	cfg := r.b.cfg
	switch name {
	case AlgorithmBasic:
		return component.NewBasicEngine(component.BasicConfig{
			Padding:     cfg.Basic.Padding,
			LabelMargin: cfg.Basic.LabelMargin,
			Measure:     r.b.measure,
		}), nil

	case AlgorithmForce:
		return component.NewForceEngine(component.ForceConfig{
			Iterations:  cfg.Force.Iterations,
			MinDistance: cfg.Force.MinDistance,
			Repulsion:   cfg.Force.Repulsion,
			Spring:      cfg.Force.Spring,
			Damping:     cfg.Force.Damping,
			MaxExtent:   cfg.Force.MaxExtent,
		}, rand.New(rand.NewSource(cfg.Force.Seed))), nil

	case AlgorithmHierarchical:
		basic, err := r.engineFor(AlgorithmBasic)
		if err != nil {
			return nil, err
		}
		return &component.Fallback{
			Primary: component.NewHierarchicalEngine(component.HierarchicalConfig{
				SpacingX: cfg.Hierarchical.SpacingX,
				SpacingY: cfg.Hierarchical.SpacingY,
				Padding:  cfg.Hierarchical.Padding,
				Margin:   cfg.Hierarchical.Margin,
			}, r.b.oracle),
			Secondary: basic,
			Logger:    r.b.logger,
		}, nil
	}
	return nil, orrerr.New(orrerr.ErrCodeInvalidAlgorithm, "unknown layout algorithm %q", name)
}
