package component

import (
	"github.com/orreryworks/orrery/pkg/diagram"
	"github.com/orreryworks/orrery/pkg/geometry"
	"github.com/orreryworks/orrery/pkg/shape"
)

// BasicConfig tunes the layered BFS engine.
type BasicConfig struct {
	// Padding is the minimum gap between layers and between stacked nodes
	// within one layer.
	Padding float64
	// LabelMargin is added around a relation label when it widens the gap
	// between two layers.
	LabelMargin float64
	// Measure estimates relation label widths.
	Measure shape.Measurer
}

// BasicEngine assigns nodes to vertical layers by breadth-first traversal
// and stacks each layer's nodes top to bottom. It is fully deterministic:
// BFS visits neighbors in the scope's declaration order, and nodes within
// a layer keep declaration order.
type BasicEngine struct {
	cfg BasicConfig
}

// NewBasicEngine creates a layered BFS engine.
func NewBasicEngine(cfg BasicConfig) *BasicEngine {
	return &BasicEngine{cfg: cfg}
}

// Name returns the engine identifier.
func (e *BasicEngine) Name() string { return "basic" }

// Positions implements Engine.
func (e *BasicEngine) Positions(scope *diagram.Scope, shapes map[string]*shape.WithText) (map[string]geometry.Point, error) {
	nodes := scope.Nodes()
	positions := make(map[string]geometry.Point, len(nodes))
	if len(nodes) == 0 {
		return positions, nil
	}

	layers := e.assignLayers(scope)

	layerCount := 0
	for _, l := range layers {
		if l+1 > layerCount {
			layerCount = l + 1
		}
	}

	// Group nodes per layer, preserving declaration order.
	grouped := make([][]*diagram.Node, layerCount)
	for _, n := range nodes {
		l := layers[n.ID]
		grouped[l] = append(grouped[l], n)
	}

	// Layer width is the widest node in it.
	widths := make([]float64, layerCount)
	for l, group := range grouped {
		for _, n := range group {
			if w := shapes[n.ID].Size().Width; w > widths[l] {
				widths[l] = w
			}
		}
	}

	gaps := e.layerGaps(scope, layers, layerCount)

	// X slot per layer: cumulative centers.
	slots := make([]float64, layerCount)
	x := widths[0] / 2
	slots[0] = x
	for l := 1; l < layerCount; l++ {
		x += widths[l-1]/2 + gaps[l-1] + widths[l]/2
		slots[l] = x
	}

	// Stack nodes vertically within each layer.
	for l, group := range grouped {
		y := 0.0
		for _, n := range group {
			h := shapes[n.ID].Size().Height
			positions[n.ID] = geometry.Point{X: slots[l], Y: y + h/2}
			y += h + e.cfg.Padding
		}
	}

	return positions, nil
}

// assignLayers computes the BFS depth of every node. Roots are the nodes
// without incoming relations in the scope; when a BFS wave leaves nodes
// unreached (cycles, disconnected parts), the first unreached node in
// declaration order seeds the next wave.
func (e *BasicEngine) assignLayers(scope *diagram.Scope) map[string]int {
	nodes := scope.Nodes()
	layers := make(map[string]int, len(nodes))

	hasIncoming := make(map[string]bool)
	for _, r := range scope.Relations() {
		if r.From != r.To {
			hasIncoming[r.To] = true
		}
	}

	var roots []*diagram.Node
	for _, n := range nodes {
		if !hasIncoming[n.ID] {
			roots = append(roots, n)
		}
	}

	visited := make(map[string]bool, len(nodes))
	bfs := func(root *diagram.Node) {
		queue := []*diagram.Node{root}
		visited[root.ID] = true
		layers[root.ID] = 0
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			for _, next := range scope.Outgoing(cur.ID) {
				if visited[next] {
					continue
				}
				visited[next] = true
				layers[next] = layers[cur.ID] + 1
				n, _ := scope.Node(next)
				queue = append(queue, n)
			}
		}
	}

	for _, root := range roots {
		if !visited[root.ID] {
			bfs(root)
		}
	}
	// Remaining nodes (no roots at all, or unreachable from every root)
	// seed fresh BFS components in declaration order.
	for _, n := range nodes {
		if !visited[n.ID] {
			bfs(n)
		}
	}

	return layers
}

// layerGaps computes the horizontal gap after each layer: the configured
// padding, enlarged to fit the widest relation label crossing that layer
// boundary.
func (e *BasicEngine) layerGaps(scope *diagram.Scope, layers map[string]int, layerCount int) []float64 {
	if layerCount == 0 {
		return nil
	}
	gaps := make([]float64, layerCount-1)
	for i := range gaps {
		gaps[i] = e.cfg.Padding
	}
	for _, r := range scope.Relations() {
		if r.Label == "" {
			continue
		}
		lo, hi := layers[r.From], layers[r.To]
		if lo > hi {
			lo, hi = hi, lo
		}
		need := e.cfg.Measure.Measure(r.Label).Width + e.cfg.LabelMargin
		for b := lo; b < hi; b++ {
			if need > gaps[b] {
				gaps[b] = need
			}
		}
	}
	return gaps
}
