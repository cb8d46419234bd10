package rulegraph

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/lsaver/pkg/lsystem"
)

func TestToDOT(t *testing.T) {
	g := &lsystem.Grammar{
		Axiom: "A+",
		Rules: []lsystem.Rule{
			{Symbol: 'A', Body: "F[B]A"},
			{Symbol: 'B', Body: "-A"},
			{Symbol: '+', Body: "+-"},
		},
		Angle: 0.5,
	}
	dot := ToDOT(g)

	for _, want := range []string{
		"digraph G {",
		`"axiom" -> "rule_A";`,
		`"axiom" -> "rule_+";`,
		`"rule_A" -> "rule_A";`,
		`"rule_A" -> "rule_B";`,
		`"rule_B" -> "rule_A";`,
		`"rule_+" -> "rule_+";`,
		`label="angle 0.5000 rad"`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
	for _, unwanted := range []string{`"axiom" -> "rule_B"`, `"rule_B" -> "rule_B"`} {
		if strings.Contains(dot, unwanted) {
			t.Errorf("DOT should not contain %q", unwanted)
		}
	}
	if n := strings.Count(dot, "->"); n != 6 {
		t.Errorf("got %d edges, want 6", n)
	}
}

func TestRenderSVG(t *testing.T) {
	g, err := lsystem.NewGenerator(lsystem.DefaultParams(), lsystem.NewRand(4)).Generate()
	if err != nil {
		t.Fatal(err)
	}
	svg, err := RenderSVG(context.Background(), ToDOT(g))
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Error("output is not SVG")
	}
}
