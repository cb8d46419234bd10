package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/lsaver/pkg/pipeline"
	"github.com/matzehuels/lsaver/pkg/render"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	seed       seedFlag
	output     string  // output file (single format) or base path
	formats    string  // comma-separated output formats
	duration   float64 // simulated seconds
	tickRate   int     // ticks per simulated second
	noPreviews bool    // drop edge-wrap preview lines
	noCache    bool    // disable the artifact cache
	refresh    bool    // ignore cached artifacts
}

// renderCommand creates the render command for headless sessions.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{
		duration: pipeline.DefaultDuration,
		tickRate: pipeline.DefaultTickRate,
	}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Simulate a session headlessly and write it to image files",
		Long: `Simulate a screensaver session without a window and write the accumulated
drawing to files. The same seed and config always produce the same output.`,
		Example: `  lsaver render --seed 42
  lsaver render --seed 42 --duration 120 -f svg,png -o out/forest`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), cmd, &opts)
		},
	}

	opts.seed.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (default: lsaver-<seed>)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): svg (default), json, png, pdf (comma-separated)")
	cmd.Flags().Float64VarP(&opts.duration, "duration", "d", opts.duration, "simulated seconds")
	cmd.Flags().IntVar(&opts.tickRate, "tick-rate", opts.tickRate, "ticks per simulated second")
	cmd.Flags().BoolVar(&opts.noPreviews, "no-previews", false, "omit edge-wrap preview lines")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-render even if cached")
	_ = cmd.RegisterFlagCompletionFunc("format", completeFormats)

	return cmd
}

func (c *CLI) runRender(ctx context.Context, cmd *cobra.Command, opts *renderOpts) error {
	params, err := c.loadParams()
	if err != nil {
		return err
	}

	popts := pipeline.Options{
		Seed:       opts.seed.resolve(cmd),
		Duration:   opts.duration,
		TickRate:   opts.tickRate,
		Formats:    pipeline.ParseFormats(opts.formats),
		Params:     &params,
		NoPreviews: opts.noPreviews,
		Refresh:    opts.refresh,
	}
	if err := popts.ValidateAndSetDefaults(); err != nil {
		return err
	}
	if needsConverter(popts.Formats) && !render.Available() {
		printWarning("rsvg-convert not found; png and pdf output will fail")
	}

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, os.Stderr, fmt.Sprintf("Simulating seed %d", popts.Seed))
	popts.Progress = func(done, total int) {
		spinner.SetMessage("Simulating seed %d: %d/%d ticks", popts.Seed, done, total)
	}
	spinner.Start()
	prog := newProgress(c.Logger)
	result, err := runner.Execute(ctx, popts)
	spinner.Stop()
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Rendered seed %d", popts.Seed))

	paths, err := writeArtifacts(result.Artifacts, outputBase(opts.output, popts), opts.output, popts.Formats)
	if err != nil {
		return err
	}

	printSuccess("Seed %s", StyleNumber.Render(fmt.Sprint(popts.Seed)))
	printRunStats(result.Stats, result.CacheInfo.RenderHit)
	for _, p := range paths {
		printFile(p)
	}
	return nil
}

func needsConverter(formats []string) bool {
	for _, f := range formats {
		if f == pipeline.FormatPNG || f == pipeline.FormatPDF {
			return true
		}
	}
	return false
}

// outputBase derives the base output path. Known format extensions on
// output are stripped; an empty output falls back to lsaver-<seed>.
func outputBase(output string, opts pipeline.Options) string {
	if output == "" {
		return fmt.Sprintf("%s-%d", appName, opts.Seed)
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// writeArtifacts writes each artifact to base.<ext>. A single format with an
// explicit output path that already has an extension is written there as is.
func writeArtifacts(artifacts map[string][]byte, base, output string, formats []string) ([]string, error) {
	if dir := filepath.Dir(base); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create output dir: %w", err)
		}
	}

	var paths []string
	for _, format := range formats {
		path := base + render.Ext(format)
		if len(formats) == 1 && output != "" && filepath.Ext(output) != "" {
			path = output
		}
		if err := os.WriteFile(path, artifacts[format], 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths, nil
}

// completeFormats offers the output formats for --format.
func completeFormats(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	formats := make([]string, 0, len(pipeline.ValidFormats))
	for f := range pipeline.ValidFormats {
		formats = append(formats, f)
	}
	sort.Strings(formats)
	return formats, cobra.ShellCompDirectiveNoFileComp
}
