package component

import (
	"math"
	"math/rand"

	"github.com/orreryworks/orrery/pkg/diagram"
	"github.com/orreryworks/orrery/pkg/geometry"
	"github.com/orreryworks/orrery/pkg/shape"
)

// ForceConfig tunes the force-directed engine.
type ForceConfig struct {
	// Iterations is the fixed number of simulation steps.
	Iterations int
	// MinDistance is the preferred clearance between node boundaries.
	MinDistance float64
	// Repulsion scales the pairwise repulsive force.
	Repulsion float64
	// Spring scales the attractive force along relations.
	Spring float64
	// Damping multiplies velocities each step; must be in (0, 1).
	Damping float64
	// MaxExtent caps the final bounding box; larger layouts are scaled
	// down uniformly.
	MaxExtent float64
}

// ForceEngine positions nodes with a spring/repulsion simulation. The
// result depends on the injected random source: seed it to make layouts
// reproducible, which the builder does from Config.Seed.
type ForceEngine struct {
	cfg ForceConfig
	rng *rand.Rand
}

// NewForceEngine creates a force-directed engine drawing jitter from rng.
func NewForceEngine(cfg ForceConfig, rng *rand.Rand) *ForceEngine {
	return &ForceEngine{cfg: cfg, rng: rng}
}

// Name returns the engine identifier.
func (e *ForceEngine) Name() string { return "force" }

// Positions implements Engine.
func (e *ForceEngine) Positions(scope *diagram.Scope, shapes map[string]*shape.WithText) (map[string]geometry.Point, error) {
	nodes := scope.Nodes()
	n := len(nodes)
	positions := make(map[string]geometry.Point, n)
	if n == 0 {
		return positions, nil
	}

	pos := e.seedGrid(n)
	vel := make([]geometry.Point, n)

	index := make(map[string]int, n)
	half := make([]float64, n)
	for i, node := range nodes {
		index[node.ID] = i
		sz := shapes[node.ID].Size()
		half[i] = math.Max(sz.Width, sz.Height) / 2
	}

	type edge struct{ a, b int }
	var edges []edge
	for _, r := range scope.Relations() {
		a, b := index[r.From], index[r.To]
		if a != b {
			edges = append(edges, edge{a, b})
		}
	}

	for iter := 0; iter < e.cfg.Iterations; iter++ {
		force := make([]geometry.Point, n)

		// Pairwise repulsion. Each ordered pair contributes independently,
		// so the inner sums are order-insensitive up to float rounding.
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				if i == j {
					continue
				}
				d := pos[i].Sub(pos[j])
				dist := math.Hypot(d.X, d.Y)
				if dist < 1e-6 {
					// Coincident nodes repel along a stable pseudo-random
					// direction instead of dividing by zero.
					angle := float64(i*31+j) * 0.7
					d = geometry.Point{X: math.Cos(angle), Y: math.Sin(angle)}
					dist = 1e-6
				}
				strength := e.cfg.Repulsion / dist
				if clearance := half[i] + half[j] + e.cfg.MinDistance; dist < clearance {
					ratio := clearance / dist
					strength *= ratio * ratio
				}
				force[i] = force[i].Add(d.Scale(strength / dist))
			}
		}

		// Spring attraction along relations.
		for _, ed := range edges {
			d := pos[ed.b].Sub(pos[ed.a])
			pull := d.Scale(e.cfg.Spring)
			force[ed.a] = force[ed.a].Add(pull)
			force[ed.b] = force[ed.b].Sub(pull)
		}

		for i := 0; i < n; i++ {
			vel[i] = vel[i].Add(force[i]).Scale(e.cfg.Damping)
			pos[i] = pos[i].Add(vel[i])
		}
	}

	e.normalize(pos, half)

	for i, node := range nodes {
		positions[node.ID] = pos[i]
	}
	return positions, nil
}

// seedGrid places n nodes on a near-square grid with a small random
// jitter per node, so the simulation never starts from a degenerate
// all-coincident state.
func (e *ForceEngine) seedGrid(n int) []geometry.Point {
	cols := int(math.Ceil(math.Sqrt(float64(n))))
	cell := 1.5 * e.cfg.MinDistance
	jitter := e.cfg.MinDistance / 4

	pos := make([]geometry.Point, n)
	for i := range pos {
		row := i / cols
		col := i % cols
		pos[i] = geometry.Point{
			X: float64(col)*cell + (e.rng.Float64()-0.5)*jitter,
			Y: float64(row)*cell + (e.rng.Float64()-0.5)*jitter,
		}
	}
	return pos
}

// normalize centers the bounding box of all node extents at the origin
// and scales the whole scope down uniformly when it exceeds MaxExtent.
func (e *ForceEngine) normalize(pos []geometry.Point, half []float64) {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for i, p := range pos {
		minX = math.Min(minX, p.X-half[i])
		minY = math.Min(minY, p.Y-half[i])
		maxX = math.Max(maxX, p.X+half[i])
		maxY = math.Max(maxY, p.Y+half[i])
	}

	center := geometry.Point{X: (minX + maxX) / 2, Y: (minY + maxY) / 2}
	for i := range pos {
		pos[i] = pos[i].Sub(center)
	}

	if e.cfg.MaxExtent <= 0 {
		return
	}
	w, h := maxX-minX, maxY-minY
	if w <= e.cfg.MaxExtent && h <= e.cfg.MaxExtent {
		return
	}
	scale := e.cfg.MaxExtent / math.Max(w, h)
	for i := range pos {
		pos[i] = pos[i].Scale(scale)
	}
}
