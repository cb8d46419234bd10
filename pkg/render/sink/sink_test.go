package sink

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/matzehuels/lsaver/pkg/animate"
	"github.com/matzehuels/lsaver/pkg/turtle"
)

func testFrames() []animate.Frame {
	white := turtle.RGBA(1, 1, 1, 1)
	return []animate.Frame{
		{Tick: 1, Fade: true, Generation: 1, Segments: []turtle.Segment{
			{From: turtle.Point{X: 0, Y: 0}, To: turtle.Point{X: 10, Y: 0}, Width: 0.75, Color: white},
		}},
		{Tick: 2, Generation: 1},
		{Tick: 3, Generation: 1, Segments: []turtle.Segment{
			{From: turtle.Point{X: 95, Y: 5}, To: turtle.Point{X: 100, Y: 5}, Width: 1, Color: white, Preview: true},
			{From: turtle.Point{X: 0, Y: 5}, To: turtle.Point{X: 5, Y: 5}, Width: 0.75, Color: white},
		}},
	}
}

func TestRenderSVG(t *testing.T) {
	vp := turtle.Viewport{Width: 100, Height: 50}
	out := string(RenderSVG(testFrames(), WithViewport(vp), WithTitle("seed 1")))

	for _, want := range []string{
		`width="100"`,
		`height="50"`,
		`<title>seed 1</title>`,
		`scale(0.01)`,
		`x2="1000"`,
		`stroke-width:75`,
		`fill:#000000;fill-opacity:0.188`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("SVG missing %q:\n%s", want, out)
		}
	}
	if n := strings.Count(out, "<line"); n != 3 {
		t.Errorf("got %d lines, want 3", n)
	}
	// Background plus one fade.
	if n := strings.Count(out, "<rect"); n != 2 {
		t.Errorf("got %d rects, want 2", n)
	}
}

func TestRenderSVGWithoutPreviews(t *testing.T) {
	out := string(RenderSVG(testFrames(), WithoutPreviews()))
	if n := strings.Count(out, "<line"); n != 2 {
		t.Errorf("got %d lines, want 2", n)
	}
}

func TestRenderSVGOrdersFadeBeforeSegments(t *testing.T) {
	out := string(RenderSVG(testFrames()))
	fade := strings.Index(out, "fill-opacity")
	line := strings.Index(out, "<line")
	if fade < 0 || line < 0 || fade > line {
		t.Error("a frame's fade should be drawn before its segments")
	}
}

func TestRenderJSON(t *testing.T) {
	vp := turtle.Viewport{Width: 100, Height: 50}
	data, err := RenderJSON(testFrames(), WithRunID("run-1"), WithSeed(42), WithJSONViewport(vp))
	if err != nil {
		t.Fatalf("RenderJSON() error: %v", err)
	}

	var out jsonOutput
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("json.Unmarshal() error: %v", err)
	}
	if out.RunID != "run-1" || out.Seed != 42 {
		t.Errorf("run_id = %q seed = %d", out.RunID, out.Seed)
	}
	if out.Width != 100 || out.Height != 50 {
		t.Errorf("size = %gx%g", out.Width, out.Height)
	}
	if len(out.Frames) != 2 {
		t.Fatalf("frames = %d, want 2 (empty frame dropped)", len(out.Frames))
	}
	if out.Frames[1].Tick != 3 || len(out.Frames[1].Segments) != 2 || !out.Frames[1].Segments[0].Preview {
		t.Errorf("frame = %+v", out.Frames[1])
	}
	if got := out.Frames[0].Segments[0].Color.HexA(); got != "#ffffffff" {
		t.Errorf("colour = %s", got)
	}
}

func TestRenderJSONGeneratesRunID(t *testing.T) {
	a, err := RenderJSON(nil)
	if err != nil {
		t.Fatal(err)
	}
	b, err := RenderJSON(nil)
	if err != nil {
		t.Fatal(err)
	}

	var oa, ob jsonOutput
	if err := json.Unmarshal(a, &oa); err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal(b, &ob); err != nil {
		t.Fatal(err)
	}
	if oa.RunID == "" || oa.RunID == ob.RunID {
		t.Errorf("run ids %q and %q should be distinct UUIDs", oa.RunID, ob.RunID)
	}
	if oa.Frames == nil {
		t.Error("frames should encode as an empty list, not null")
	}
}

func TestRenderSimulatedFrames(t *testing.T) {
	s, err := animate.New(animate.DefaultParams(), 11)
	if err != nil {
		t.Fatal(err)
	}
	var frames []animate.Frame
	for range 50 {
		f, err := s.Tick(context.Background(), 0.04)
		if err != nil {
			t.Fatal(err)
		}
		frames = append(frames, f)
	}

	total := 0
	for _, f := range frames {
		total += len(f.Segments)
	}
	out := string(RenderSVG(frames))
	if n := strings.Count(out, "<line"); n != total {
		t.Errorf("SVG has %d lines, frames have %d segments", n, total)
	}
}
