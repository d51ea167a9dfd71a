package component

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	orrerr "github.com/orreryworks/orrery/pkg/errors"
)

// OracleCoord is one node coordinate returned by a layout oracle.
type OracleCoord struct {
	Node int
	X    float64
	Y    float64
}

// Oracle computes hierarchical coordinates for a directed graph whose
// nodes are renumbered 0..n-1. The edge list never contains self-loops.
// Implementations are opaque: the adapter only relies on the returned
// coordinates covering every node.
type Oracle interface {
	Coordinates(ctx context.Context, nodeCount int, edges [][2]int) ([]OracleCoord, error)
}

// GraphvizOracle delegates hierarchical layout to Graphviz's dot engine.
// The graph is emitted as DOT, rendered to Graphviz's line-oriented
// "plain" output format, and node coordinates are parsed back.
type GraphvizOracle struct{}

// formatPlain is Graphviz's parseable text output: one line per graph,
// node and edge, with positions in inches and the Y axis pointing up.
const formatPlain graphviz.Format = "plain"

// Coordinates implements Oracle.
func (GraphvizOracle) Coordinates(ctx context.Context, nodeCount int, edges [][2]int) ([]OracleCoord, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, orrerr.Wrap(orrerr.ErrCodeOracleFailure, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes(toDOT(nodeCount, edges))
	if err != nil {
		return nil, orrerr.Wrap(orrerr.ErrCodeOracleFailure, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, formatPlain, &buf); err != nil {
		return nil, orrerr.Wrap(orrerr.ErrCodeOracleFailure, err, "render plain")
	}

	return parsePlain(buf.Bytes())
}

// toDOT emits the renumbered graph as DOT. Node names are n0..n{count-1}
// so the plain output needs no unquoting.
func toDOT(nodeCount int, edges [][2]int) []byte {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  node [shape=box];\n")
	for i := 0; i < nodeCount; i++ {
		fmt.Fprintf(&buf, "  n%d;\n", i)
	}
	for _, e := range edges {
		fmt.Fprintf(&buf, "  n%d -> n%d;\n", e[0], e[1])
	}
	buf.WriteString("}\n")
	return buf.Bytes()
}

// parsePlain extracts node coordinates from Graphviz plain output.
// Relevant lines have the form:
//
//	node <name> <x> <y> <width> <height> ...
func parsePlain(out []byte) ([]OracleCoord, error) {
	var coords []OracleCoord
	for _, line := range strings.Split(string(out), "\n") {
		fields := strings.Fields(line)
		if len(fields) < 4 || fields[0] != "node" {
			continue
		}
		id, err := strconv.Atoi(strings.TrimPrefix(fields[1], "n"))
		if err != nil {
			return nil, orrerr.New(orrerr.ErrCodeOracleFailure, "unexpected node name %q in plain output", fields[1])
		}
		x, errX := strconv.ParseFloat(fields[2], 64)
		y, errY := strconv.ParseFloat(fields[3], 64)
		if errX != nil || errY != nil {
			return nil, orrerr.New(orrerr.ErrCodeOracleFailure, "malformed coordinates for %q", fields[1])
		}
		coords = append(coords, OracleCoord{Node: id, X: x, Y: y})
	}
	if len(coords) == 0 {
		return nil, orrerr.New(orrerr.ErrCodeOracleFailure, "plain output contained no node coordinates")
	}
	return coords, nil
}
