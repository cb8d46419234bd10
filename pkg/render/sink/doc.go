// Package sink writes simulated animation frames to output formats.
//
// # Overview
//
// A "sink" transforms the [animate.Frame] sequence of a headless run into a
// final output format:
//
//   - SVG: every frame layered in tick order
//   - JSON: the raw frame log for external tools
//   - PDF: Print-ready output (requires rsvg-convert)
//   - PNG: Raster image output (requires rsvg-convert)
//
// # SVG Output
//
// [RenderSVG] replays the frames onto a black canvas. A fading frame becomes
// a translucent rectangle over everything drawn before it, so the final
// image shows the same trails a live screen would at the end of the run:
//
//	svg := sink.RenderSVG(frames,
//	    sink.WithViewport(vp),
//	    sink.WithFadeColor(params.Animation.Fade()),
//	)
//
// # JSON Output
//
// [RenderJSON] exports the frames with a run identifier and the seed that
// reproduces them. Frames that neither fade nor draw are omitted.
//
// # PDF and PNG Output
//
// [RenderPDF] and [RenderPNG] generate SVG, then convert via [render.ToPDF]
// and [render.ToPNG]. These require librsvg to be installed:
//   - macOS: brew install librsvg
//   - Linux: apt install librsvg2-bin
//
// [render.ToPDF]: github.com/matzehuels/lsaver/pkg/render.ToPDF
// [render.ToPNG]: github.com/matzehuels/lsaver/pkg/render.ToPNG
package sink
