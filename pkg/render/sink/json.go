package sink

import (
	"encoding/json"

	"github.com/google/uuid"

	"github.com/matzehuels/lsaver/pkg/animate"
	"github.com/matzehuels/lsaver/pkg/turtle"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	runID    string
	seed     uint64
	viewport turtle.Viewport
}

// WithRunID sets the run identifier. A random UUID is used otherwise.
func WithRunID(id string) JSONOption { return func(r *jsonRenderer) { r.runID = id } }

// WithSeed records the seed that reproduces the frames.
func WithSeed(seed uint64) JSONOption { return func(r *jsonRenderer) { r.seed = seed } }

// WithJSONViewport records the viewport the frames were drawn in.
func WithJSONViewport(vp turtle.Viewport) JSONOption {
	return func(r *jsonRenderer) { r.viewport = vp }
}

type jsonOutput struct {
	RunID  string      `json:"run_id"`
	Seed   uint64      `json:"seed"`
	Width  float64     `json:"width"`
	Height float64     `json:"height"`
	Frames []jsonFrame `json:"frames"`
}

type jsonFrame struct {
	Tick       int              `json:"tick"`
	Generation int              `json:"generation"`
	Fade       bool             `json:"fade,omitempty"`
	Segments   []turtle.Segment `json:"segments,omitempty"`
}

// RenderJSON exports frames that fade or draw something.
func RenderJSON(frames []animate.Frame, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{viewport: turtle.DefaultViewport}
	for _, opt := range opts {
		opt(&r)
	}
	if r.runID == "" {
		r.runID = uuid.NewString()
	}

	out := jsonOutput{
		RunID:  r.runID,
		Seed:   r.seed,
		Width:  r.viewport.Width,
		Height: r.viewport.Height,
		Frames: make([]jsonFrame, 0, len(frames)),
	}
	for _, f := range frames {
		if !f.Fade && len(f.Segments) == 0 {
			continue
		}
		out.Frames = append(out.Frames, jsonFrame{
			Tick:       f.Tick,
			Generation: f.Generation,
			Fade:       f.Fade,
			Segments:   f.Segments,
		})
	}
	return json.MarshalIndent(out, "", "  ")
}
