package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/lsaver/pkg/animate"
	"github.com/matzehuels/lsaver/pkg/lsystem"
	"github.com/matzehuels/lsaver/pkg/render/rulegraph"
	"github.com/matzehuels/lsaver/pkg/turtle"
)

// maxPreview caps how much of the expanded string is printed.
const maxPreview = 120

type grammarOpts struct {
	seed        seedFlag
	generations int
	dot         bool
	svgPath     string
	pngPath     string
	asJSON      bool
}

// grammarCommand creates the grammar command, which shows the grammars a seed produces.
func (c *CLI) grammarCommand() *cobra.Command {
	opts := grammarOpts{generations: 1}

	cmd := &cobra.Command{
		Use:   "grammar",
		Short: "Print the grammars generated for a seed",
		Long: `Print the L-system grammars a seed produces, in the order the screensaver
would draw them, together with their expansion. With --dot, --svg or --png
the rule dependency diagram of the first grammar is emitted instead.`,
		Example: `  lsaver grammar --seed 42
  lsaver grammar --seed 42 -n 3
  lsaver grammar --seed 42 --svg rules.svg`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGrammar(cmd.Context(), cmd, &opts)
		},
	}

	opts.seed.register(cmd)
	cmd.Flags().IntVarP(&opts.generations, "generations", "n", opts.generations, "number of successive grammars to show")
	cmd.Flags().BoolVar(&opts.dot, "dot", false, "print the rule diagram as Graphviz DOT")
	cmd.Flags().StringVar(&opts.svgPath, "svg", "", "write the rule diagram as SVG")
	cmd.Flags().StringVar(&opts.pngPath, "png", "", "write the rule diagram as PNG")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print grammars as JSON")

	return cmd
}

// generation is one grammar in a seed's sequence.
type generation struct {
	Index     int               `json:"generation"`
	Grammar   *lsystem.Grammar  `json:"grammar"`
	Expansion lsystem.Expansion `json:"-"`
	Length    int               `json:"expanded_length"`
	Stop      string            `json:"stop"`
	Color     turtle.Color      `json:"color"`
}

func (c *CLI) runGrammar(ctx context.Context, cmd *cobra.Command, opts *grammarOpts) error {
	if opts.generations < 1 {
		return fmt.Errorf("--generations must be at least 1")
	}
	params, err := c.loadParams()
	if err != nil {
		return err
	}
	seed := opts.seed.resolve(cmd)

	sched, err := params.NewScheduler(seed, animate.WithLogger(c.Logger))
	if err != nil {
		return err
	}
	gens, err := collectGenerations(ctx, sched, opts.generations)
	if err != nil {
		return err
	}

	if opts.dot || opts.svgPath != "" || opts.pngPath != "" {
		return writeRuleGraph(ctx, gens[0].Grammar, opts)
	}
	if opts.asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Seed        uint64       `json:"seed"`
			Generations []generation `json:"generations"`
		}{seed, gens})
	}

	printSuccess("Seed %s", StyleNumber.Render(fmt.Sprint(seed)))
	for _, g := range gens {
		printNewline()
		printGeneration(g)
	}
	return nil
}

// collectGenerations ticks sched until it has produced n grammars.
func collectGenerations(ctx context.Context, sched *animate.Scheduler, n int) ([]generation, error) {
	snapshot := func() generation {
		exp := sched.Expansion()
		return generation{
			Index:     sched.Generation(),
			Grammar:   sched.Grammar(),
			Expansion: exp,
			Length:    len(exp.String),
			Stop:      exp.Stop.String(),
			Color:     sched.Pen().Color,
		}
	}

	gens := []generation{snapshot()}
	dt := sched.Params().MoveInterval
	for len(gens) < n {
		f, err := sched.Tick(ctx, dt)
		if err != nil {
			return nil, err
		}
		if f.Regenerated {
			gens = append(gens, snapshot())
		}
	}
	return gens, nil
}

func printGeneration(g generation) {
	fmt.Println(StyleTitle.Render(fmt.Sprintf("Generation %d", g.Index)) + "  " + swatch(g.Color))
	printKeyValue("axiom", g.Grammar.Axiom)
	for _, r := range g.Grammar.Rules {
		printKeyValue("rule", ruleLine(r))
	}
	printKeyValue("angle", fmt.Sprintf("%.2f° (%.4f rad)", g.Grammar.Angle*180/math.Pi, g.Grammar.Angle))
	printKeyValue("expansion", fmt.Sprintf("%d chars, %d cycles, %s", g.Length, g.Expansion.Cycles, g.Stop))
	printDetail("%s", preview(g.Expansion.String))
}

// swatch renders a small block in c.
func swatch(c turtle.Color) string {
	return StyleValue.Foreground(lipglossColor(c)).Render("██") + " " + StyleDim.Render(c.HexA())
}

func preview(s string) string {
	if len(s) <= maxPreview {
		return s
	}
	return s[:maxPreview] + "…"
}

func writeRuleGraph(ctx context.Context, g *lsystem.Grammar, opts *grammarOpts) error {
	dot := rulegraph.ToDOT(g)
	if opts.dot {
		fmt.Print(dot)
	}
	if opts.svgPath != "" {
		data, err := rulegraph.RenderSVG(ctx, dot)
		if err != nil {
			return err
		}
		if err := os.WriteFile(opts.svgPath, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", opts.svgPath, err)
		}
		printFile(opts.svgPath)
	}
	if opts.pngPath != "" {
		data, err := rulegraph.RenderPNG(ctx, dot, 1)
		if err != nil {
			return err
		}
		if err := os.WriteFile(opts.pngPath, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", opts.pngPath, err)
		}
		printFile(opts.pngPath)
	}
	return nil
}

// ruleLine formats a rule the way the grammar listing shows it.
func ruleLine(r lsystem.Rule) string {
	return strings.Join([]string{string(r.Symbol), r.Body}, " → ")
}
