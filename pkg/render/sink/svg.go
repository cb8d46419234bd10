package sink

import (
	"bytes"
	"fmt"
	"math"

	svg "github.com/ajstarks/svgo"

	"github.com/matzehuels/lsaver/pkg/animate"
	"github.com/matzehuels/lsaver/pkg/turtle"
)

// unit is the number of integer SVG units per viewport pixel. svgo only takes
// integer coordinates, so geometry is drawn scaled up inside a group that
// scales it back down.
const unit = 100

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	viewport   turtle.Viewport
	fade       turtle.Color
	background string
	title      string
	previews   bool
}

// WithViewport sets the canvas size.
func WithViewport(vp turtle.Viewport) SVGOption { return func(r *svgRenderer) { r.viewport = vp } }

// WithFadeColor sets the translucent fill painted on fade ticks.
func WithFadeColor(c turtle.Color) SVGOption { return func(r *svgRenderer) { r.fade = c } }

// WithBackground sets the CSS colour of the initial background.
func WithBackground(css string) SVGOption { return func(r *svgRenderer) { r.background = css } }

// WithTitle adds a <title> element.
func WithTitle(s string) SVGOption { return func(r *svgRenderer) { r.title = s } }

// WithoutPreviews drops the thin lines drawn across viewport edges.
func WithoutPreviews() SVGOption { return func(r *svgRenderer) { r.previews = false } }

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{
		viewport:   turtle.DefaultViewport,
		fade:       animate.DefaultParams().Fade(),
		background: "black",
		previews:   true,
	}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// RenderSVG draws frames in tick order.
func RenderSVG(frames []animate.Frame, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)
	w := int(math.Ceil(r.viewport.Width))
	h := int(math.Ceil(r.viewport.Height))

	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Start(w, h, fmt.Sprintf(`viewBox="0 0 %d %d"`, w, h))
	if r.title != "" {
		canvas.Title(r.title)
	}
	canvas.Rect(0, 0, w, h, "fill:"+r.background)

	canvas.Gtransform(fmt.Sprintf("scale(%g)", 1.0/unit))
	fadeStyle := fillStyle(r.fade)
	for _, f := range frames {
		if f.Fade {
			canvas.Rect(0, 0, w*unit, h*unit, fadeStyle)
		}
		for _, s := range f.Segments {
			if s.Preview && !r.previews {
				continue
			}
			canvas.Line(scaled(s.From.X), scaled(s.From.Y), scaled(s.To.X), scaled(s.To.Y), strokeStyle(s))
		}
	}
	canvas.Gend()
	canvas.End()
	return buf.Bytes()
}

func scaled(v float64) int {
	return int(math.Round(v * unit))
}

func strokeStyle(s turtle.Segment) string {
	return fmt.Sprintf("stroke:%s;stroke-opacity:%.3g;stroke-width:%g;stroke-linecap:round",
		s.Color.Hex(), s.Color.A, s.Width*unit)
}

func fillStyle(c turtle.Color) string {
	return fmt.Sprintf("fill:%s;fill-opacity:%.3g", c.Hex(), c.A)
}
