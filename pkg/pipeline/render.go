package pipeline

import (
	"fmt"

	"github.com/matzehuels/lsaver/pkg/animate"
	"github.com/matzehuels/lsaver/pkg/render/sink"
)

// Render generates output artifacts in the requested formats.
func Render(frames []animate.Frame, runID string, opts Options) (map[string][]byte, error) {
	opts.SetDefaults()
	svgOpts := buildSVGOptions(opts)
	artifacts := make(map[string][]byte, len(opts.Formats))

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = sink.RenderSVG(frames, svgOpts...)
		case FormatPNG:
			data, err = sink.RenderPNG(frames, sink.WithPNGSVGOptions(svgOpts...))
		case FormatPDF:
			data, err = sink.RenderPDF(frames, sink.WithPDFSVGOptions(svgOpts...))
		case FormatJSON:
			data, err = sink.RenderJSON(frames,
				sink.WithRunID(runID),
				sink.WithSeed(opts.Seed),
				sink.WithJSONViewport(opts.Params.Viewport))
		default:
			return nil, ValidateFormat(format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func buildSVGOptions(opts Options) []sink.SVGOption {
	svgOpts := []sink.SVGOption{
		sink.WithViewport(opts.Params.Viewport),
		sink.WithFadeColor(opts.Params.Animation.Fade()),
		sink.WithTitle(fmt.Sprintf("lsaver seed %d", opts.Seed)),
	}
	if opts.NoPreviews {
		svgOpts = append(svgOpts, sink.WithoutPreviews())
	}
	return svgOpts
}
