// Package rulegraph draws an L-system grammar as a directed graph.
//
// The axiom and each production become nodes. An edge from A to B means B's
// symbol occurs in A's body, so B is rewritten after A introduces it. Cycles
// in the graph are the recursion that makes a grammar grow.
package rulegraph

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/lsaver/pkg/lsystem"
	"github.com/matzehuels/lsaver/pkg/render"
)

const axiomID = "axiom"

// ToDOT converts a grammar to Graphviz DOT format.
func ToDOT(g *lsystem.Grammar) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontname=\"monospace\"];\n")
	buf.WriteString("\n")

	fmt.Fprintf(&buf, "  %q [label=%q, shape=ellipse, fillcolor=lightgrey];\n", axiomID, "axiom\n"+g.Axiom)
	for _, r := range g.Rules {
		label := fmt.Sprintf("%c → %s", r.Symbol, r.Body)
		attrs := []string{fmt.Sprintf("label=%q", label)}
		if strings.IndexByte(r.Body, lsystem.Forward) >= 0 {
			attrs = append(attrs, "penwidth=2")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", nodeID(r.Symbol), strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	writeEdges(&buf, g, axiomID, g.Axiom)
	for _, r := range g.Rules {
		writeEdges(&buf, g, nodeID(r.Symbol), r.Body)
	}

	fmt.Fprintf(&buf, "\n  label=%q;\n", fmt.Sprintf("angle %.4f rad", g.Angle))
	buf.WriteString("}\n")
	return buf.String()
}

// writeEdges links from to every rule whose symbol occurs in s, once each,
// in rule order.
func writeEdges(buf *bytes.Buffer, g *lsystem.Grammar, from, s string) {
	for _, r := range g.Rules {
		if strings.IndexByte(s, r.Symbol) >= 0 {
			fmt.Fprintf(buf, "  %q -> %q;\n", from, nodeID(r.Symbol))
		}
	}
}

func nodeID(symbol byte) string {
	return "rule_" + string(symbol)
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	graph, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer graph.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, graph, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(svg, scale)
}
