package turtle

import (
	"github.com/matzehuels/lsaver/pkg/errors"
	"github.com/matzehuels/lsaver/pkg/lsystem"
)

// Point is a position in viewport coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pose is the pen's position and heading in radians.
type Pose struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Heading float64 `json:"heading"`
}

// Point returns the pose's position.
func (p Pose) Point() Point { return Point{X: p.X, Y: p.Y} }

// Pen is the mutable interpreter state that persists between command strings.
type Pen struct {
	Pose
	Stack []Pose
	Color Color
}

// Segment is one drawn line.
type Segment struct {
	From    Point   `json:"from"`
	To      Point   `json:"to"`
	Width   float64 `json:"width"`
	Color   Color   `json:"color"`
	Preview bool    `json:"preview,omitempty"`
}

// Viewport is the drawing area. Both dimensions are fixed for a session.
type Viewport struct {
	Width  float64 `toml:"width" mapstructure:"width" json:"width"`
	Height float64 `toml:"height" mapstructure:"height" json:"height"`
}

// DefaultViewport is the screen size the screensaver was tuned for.
var DefaultViewport = Viewport{Width: 2560, Height: 1440}

// Validate rejects empty or negative viewports.
func (v Viewport) Validate() error {
	if v.Width <= 0 || v.Height <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "viewport must be positive, got %gx%g", v.Width, v.Height)
	}
	return nil
}

// Params controls how forward moves are drawn.
type Params struct {
	Distance     float64 `toml:"distance" mapstructure:"distance" json:"distance"`
	StrokeWidth  float64 `toml:"stroke_width" mapstructure:"stroke_width" json:"stroke_width"`
	PreviewWidth float64 `toml:"preview_width" mapstructure:"preview_width" json:"preview_width"`
}

// DefaultParams returns the stroke settings used for the default viewport.
func DefaultParams() Params {
	return Params{Distance: 10, StrokeWidth: 0.75, PreviewWidth: 1}
}

// Validate checks the settings on their own; use [Params.ValidateFor] to
// also bound the distance by a viewport.
func (p Params) Validate() error {
	if p.Distance <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "distance must be positive, got %g", p.Distance)
	}
	if p.StrokeWidth <= 0 || p.PreviewWidth <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "stroke widths must be positive")
	}
	return nil
}

// Interpreter executes command strings. It holds no per-pen state and may be
// shared between pens.
type Interpreter struct {
	Viewport Viewport
	Params   Params
}

// ValidateFor runs Validate and rejects a distance longer than
// MaxDistanceRatio times the shorter side of vp.
func (p Params) ValidateFor(vp Viewport) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if limit := MaxDistanceRatio * min(vp.Width, vp.Height); p.Distance > limit {
		return errors.New(errors.ErrCodeInvalidConfig, "distance %g too long for a %gx%g viewport (max %g)",
			p.Distance, vp.Width, vp.Height, limit)
	}
	return nil
}

// NewInterpreter returns an interpreter drawing into vp.
func NewInterpreter(vp Viewport, p Params) *Interpreter {
	return &Interpreter{Viewport: vp, Params: p}
}

// Interpret executes cmds against pen and returns the segments drawn, in order.
// Unknown symbols are ignored and a pop on an empty stack does nothing.
func (in *Interpreter) Interpret(cmds string, angle float64, pen *Pen) []Segment {
	var segs []Segment
	for i := 0; i < len(cmds); i++ {
		switch cmds[i] {
		case lsystem.Forward:
			segs = in.forward(pen, segs)
		case lsystem.TurnLeft:
			pen.Heading += angle
		case lsystem.TurnRight:
			pen.Heading -= angle
		case lsystem.Push:
			pen.Stack = append(pen.Stack, pen.Pose)
		case lsystem.Pop:
			if n := len(pen.Stack); n > 0 {
				pen.Pose = pen.Stack[n-1]
				pen.Stack = pen.Stack[:n-1]
			}
		}
	}
	return segs
}

// InterpretChunks runs each chunk in turn with its own angle.
func (in *Interpreter) InterpretChunks(chunks []lsystem.Chunk, pen *Pen) []Segment {
	var segs []Segment
	for _, c := range chunks {
		segs = append(segs, in.Interpret(c.Commands, c.Angle, pen)...)
	}
	return segs
}
