package component

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/orreryworks/orrery/pkg/diagram"
	orrerr "github.com/orreryworks/orrery/pkg/errors"
	"github.com/orreryworks/orrery/pkg/geometry"
	"github.com/orreryworks/orrery/pkg/shape"
)

// HierarchicalConfig tunes the Sugiyama-style adapter.
type HierarchicalConfig struct {
	// SpacingX and SpacingY scale the oracle's unit coordinates into user
	// units.
	SpacingX float64
	SpacingY float64
	// Padding separates nodes when the edge-free shortcut arranges them
	// in a single row.
	Padding float64
	// Margin keeps the re-centered result away from the origin.
	Margin float64
}

// HierarchicalEngine adapts an external hierarchical layout oracle to the
// scope model: it renumbers nodes, strips self-loops, invokes the oracle
// and maps the coordinates back, scaled and offset to be non-negative.
//
// Oracle failures surface as ORACLE_FAILURE errors; the builder wraps
// this engine in a Fallback so a failed oracle degrades to the Basic
// layout instead of aborting the build.
type HierarchicalEngine struct {
	cfg    HierarchicalConfig
	oracle Oracle
}

// NewHierarchicalEngine creates the adapter around the given oracle.
func NewHierarchicalEngine(cfg HierarchicalConfig, oracle Oracle) *HierarchicalEngine {
	return &HierarchicalEngine{cfg: cfg, oracle: oracle}
}

// Name returns the engine identifier.
func (e *HierarchicalEngine) Name() string { return "hierarchical" }

// Positions implements Engine.
func (e *HierarchicalEngine) Positions(scope *diagram.Scope, shapes map[string]*shape.WithText) (map[string]geometry.Point, error) {
	nodes := scope.Nodes()
	positions := make(map[string]geometry.Point, len(nodes))
	if len(nodes) == 0 {
		return positions, nil
	}

	index := make(map[string]int, len(nodes))
	for i, n := range nodes {
		index[n.ID] = i
	}

	var edges [][2]int
	for _, r := range scope.Relations() {
		if r.From == r.To {
			continue // self-loops carry no ordering information
		}
		edges = append(edges, [2]int{index[r.From], index[r.To]})
	}

	// Edge-free scopes need no oracle: one horizontal row.
	if len(edges) == 0 {
		x := e.cfg.Margin
		for _, n := range nodes {
			sz := shapes[n.ID].Size()
			positions[n.ID] = geometry.Point{X: x + sz.Width/2, Y: e.cfg.Margin + sz.Height/2}
			x += sz.Width + e.cfg.Padding
		}
		return positions, nil
	}

	coords, err := e.oracle.Coordinates(context.Background(), len(nodes), edges)
	if err != nil {
		return nil, err
	}

	// Remap, scale and flip Y (the oracle's Y axis points up).
	seen := make(map[int]bool, len(coords))
	minX, minY := 0.0, 0.0
	raw := make([]geometry.Point, len(nodes))
	for _, c := range coords {
		if c.Node < 0 || c.Node >= len(nodes) {
			return nil, orrerr.New(orrerr.ErrCodeOracleFailure, "oracle returned out-of-range node %d", c.Node)
		}
		p := geometry.Point{X: c.X * e.cfg.SpacingX, Y: -c.Y * e.cfg.SpacingY}
		raw[c.Node] = p
		if !seen[c.Node] {
			seen[c.Node] = true
			if len(seen) == 1 || p.X < minX {
				minX = p.X
			}
			if len(seen) == 1 || p.Y < minY {
				minY = p.Y
			}
		}
	}
	for i, n := range nodes {
		if !seen[i] {
			return nil, orrerr.New(orrerr.ErrCodeOracleFailure, "oracle returned no coordinate for node %s", n.ID)
		}
		positions[n.ID] = geometry.Point{
			X: raw[i].X - minX + e.cfg.Margin,
			Y: raw[i].Y - minY + e.cfg.Margin,
		}
	}

	return positions, nil
}

// Fallback runs a primary engine and degrades to a secondary one when the
// primary fails, logging a warning. It exists for the hierarchical
// engine, whose external oracle can fail at runtime in ways the caller
// cannot prevent; aborting a whole build over it would be worse than a
// coarser layout.
type Fallback struct {
	Primary   Engine
	Secondary Engine
	Logger    *log.Logger
}

// Name returns the primary engine's identifier.
func (f *Fallback) Name() string { return f.Primary.Name() }

// Positions implements Engine.
func (f *Fallback) Positions(scope *diagram.Scope, shapes map[string]*shape.WithText) (map[string]geometry.Point, error) {
	positions, err := f.Primary.Positions(scope, shapes)
	if err == nil {
		return positions, nil
	}
	f.Logger.Warn("layout engine failed, falling back",
		"engine", f.Primary.Name(),
		"fallback", f.Secondary.Name(),
		"err", err)
	return f.Secondary.Positions(scope, shapes)
}
