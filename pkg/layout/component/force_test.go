package component

import (
	"math"
	"math/rand"
	"testing"

	"github.com/orreryworks/orrery/pkg/diagram"
)

func testForceConfig() ForceConfig {
	return ForceConfig{
		Iterations:  50,
		MinDistance: 40,
		Repulsion:   500,
		Spring:      0.02,
		Damping:     0.85,
		MaxExtent:   2000,
	}
}

func TestForceSeededDeterminism(t *testing.T) {
	scope, shapes := buildScope(t, []string{"A", "B", "C", "D"}, []diagram.Relation{
		{From: "A", To: "B"},
		{From: "B", To: "C"},
		{From: "C", To: "D"},
		{From: "D", To: "A"},
	})

	first, err := NewForceEngine(testForceConfig(), rand.New(rand.NewSource(42))).Positions(scope, shapes)
	if err != nil {
		t.Fatalf("Positions: %v", err)
	}
	second, err := NewForceEngine(testForceConfig(), rand.New(rand.NewSource(42))).Positions(scope, shapes)
	if err != nil {
		t.Fatalf("Positions: %v", err)
	}

	for id, p := range first {
		if second[id] != p {
			t.Errorf("position of %s differs for identical seeds: %v vs %v", id, p, second[id])
		}
	}
}

func TestForceCentersAtOrigin(t *testing.T) {
	scope, shapes := buildScope(t, []string{"A", "B", "C"}, []diagram.Relation{
		{From: "A", To: "B"},
	})

	pos, err := NewForceEngine(testForceConfig(), rand.New(rand.NewSource(7))).Positions(scope, shapes)
	if err != nil {
		t.Fatalf("Positions: %v", err)
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for id, p := range pos {
		sz := shapes[id].Size()
		half := math.Max(sz.Width, sz.Height) / 2
		minX = math.Min(minX, p.X-half)
		minY = math.Min(minY, p.Y-half)
		maxX = math.Max(maxX, p.X+half)
		maxY = math.Max(maxY, p.Y+half)
	}

	if cx := (minX + maxX) / 2; math.Abs(cx) > 1e-6 {
		t.Errorf("bounding box x center = %v, want 0", cx)
	}
	if cy := (minY + maxY) / 2; math.Abs(cy) > 1e-6 {
		t.Errorf("bounding box y center = %v, want 0", cy)
	}
}

func TestForceRespectsMaxExtent(t *testing.T) {
	ids := []string{"A", "B", "C", "D", "E", "F", "G", "H"}
	scope, shapes := buildScope(t, ids, nil)

	cfg := testForceConfig()
	cfg.MaxExtent = 100 // Tight cap forces the scale-down path.
	cfg.Repulsion = 5000

	pos, err := NewForceEngine(cfg, rand.New(rand.NewSource(3))).Positions(scope, shapes)
	if err != nil {
		t.Fatalf("Positions: %v", err)
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range pos {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}

	if maxX-minX > cfg.MaxExtent || maxY-minY > cfg.MaxExtent {
		t.Errorf("center spread %vx%v exceeds max extent %v", maxX-minX, maxY-minY, cfg.MaxExtent)
	}
}

func TestForceSeparatesNodes(t *testing.T) {
	scope, shapes := buildScope(t, []string{"A", "B"}, nil)

	pos, err := NewForceEngine(testForceConfig(), rand.New(rand.NewSource(1))).Positions(scope, shapes)
	if err != nil {
		t.Fatalf("Positions: %v", err)
	}

	if d := pos["A"].Distance(pos["B"]); d < 1 {
		t.Errorf("repulsion left nodes nearly coincident: distance %v", d)
	}
}
