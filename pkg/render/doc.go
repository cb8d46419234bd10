// Package render turns simulated animation frames into files.
//
// # Overview
//
// This package contains format conversion shared by the renderers:
//
//   - Generic format conversion (SVG to PDF/PNG)
//   - Frame sinks for SVG, JSON, PNG and PDF (in [sink] subpackage)
//   - Grammar dependency diagrams (in [rulegraph] subpackage)
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg).
//
//	svg := sink.RenderSVG(frames, sink.WithViewport(vp))
//	pdf, err := render.ToPDF(svg)
//	png, err := render.ToPNG(svg, 0.5)  // half scale
//
// # Rule Graphs
//
// The [rulegraph] subpackage draws which productions introduce which symbols,
// using Graphviz:
//
//	dot := rulegraph.ToDOT(g)
//	svg, err := rulegraph.RenderSVG(ctx, dot)
//
// [sink]: github.com/matzehuels/lsaver/pkg/render/sink
// [rulegraph]: github.com/matzehuels/lsaver/pkg/render/rulegraph
package render
