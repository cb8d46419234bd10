package animate

import (
	"context"
	"math/rand/v2"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/lsaver/pkg/errors"
	"github.com/matzehuels/lsaver/pkg/lsystem"
	"github.com/matzehuels/lsaver/pkg/observability"
	"github.com/matzehuels/lsaver/pkg/turtle"
)

// maxEmptyGenerations bounds regeneration within a single tick. Generated
// grammars always expand to a non-empty string, so one pass normally suffices.
const maxEmptyGenerations = 8

// Frame is what a single tick asks the renderer to do: optionally dim the
// viewport, then draw Segments in order.
type Frame struct {
	Tick        int              `json:"tick"`
	Fade        bool             `json:"fade"`
	Segments    []turtle.Segment `json:"segments"`
	Regenerated bool             `json:"regenerated,omitempty"`
	Generation  int              `json:"generation"`
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithGrammarParams sets the grammar synthesis parameters.
func WithGrammarParams(p lsystem.Params) Option {
	return func(s *Scheduler) { s.grammarParams = p }
}

// WithInterpreter sets the turtle interpreter, and with it the viewport.
func WithInterpreter(in *turtle.Interpreter) Option {
	return func(s *Scheduler) { s.interp = in }
}

// WithLogger sets the logger. Regeneration is logged at debug level.
func WithLogger(l *log.Logger) Option {
	return func(s *Scheduler) { s.logger = l }
}

// Scheduler animates one endless sequence of grammars.
type Scheduler struct {
	params        Params
	grammarParams lsystem.Params
	interp        *turtle.Interpreter
	logger        *log.Logger

	rng *rand.Rand
	gen *lsystem.Generator

	pen        turtle.Pen
	grammar    *lsystem.Grammar
	expansion  lsystem.Expansion
	seg        *lsystem.Segmenter
	generation int

	moveTimer float64
	fadeTimer float64
	tick      int
}

// New creates a scheduler seeded with seed. The pen starts at the origin
// facing +x with a random colour, and the first grammar is generated eagerly.
func New(p Params, seed uint64, opts ...Option) (*Scheduler, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	s := &Scheduler{
		params:        p,
		grammarParams: lsystem.DefaultParams(),
		rng:           lsystem.NewRand(seed),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.interp == nil {
		s.interp = turtle.NewInterpreter(turtle.DefaultViewport, turtle.DefaultParams())
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	if err := s.grammarParams.Validate(); err != nil {
		return nil, err
	}

	s.gen = lsystem.NewGenerator(s.grammarParams, s.rng)
	s.pen.Color = RandomColor(s.rng)
	if err := s.regenerate(context.Background()); err != nil {
		return nil, err
	}
	return s, nil
}

// RandomColor returns an opaque colour with every channel in [0.5, 1).
func RandomColor(rng *rand.Rand) turtle.Color {
	r := 0.5 + rng.Float64()*0.5
	g := 0.5 + rng.Float64()*0.5
	b := 0.5 + rng.Float64()*0.5
	return turtle.RGBA(r, g, b, 1)
}

// Tick advances both timers by dt seconds and returns the resulting frame.
// Errors only occur when grammar generation gives up; the scheduler stays
// usable and the next tick retries.
func (s *Scheduler) Tick(ctx context.Context, dt float64) (Frame, error) {
	if err := ctx.Err(); err != nil {
		return Frame{}, err
	}

	s.tick++
	s.moveTimer -= dt
	s.fadeTimer -= dt
	frame := Frame{Tick: s.tick}

	if s.moveTimer <= 0 {
		batch, regenerated, err := s.nextBatch(ctx)
		if err != nil {
			frame.Generation = s.generation
			return frame, err
		}
		frame.Regenerated = regenerated
		frame.Segments = s.interp.InterpretChunks(batch, &s.pen)
		s.moveTimer = s.params.MoveInterval
		observability.Animation().OnBatchDrawn(ctx, s.generation, len(frame.Segments))
	}

	if s.fadeTimer <= 0 {
		s.fadeTimer = s.params.FadeInterval
		frame.Fade = true
		observability.Animation().OnFade(ctx)
	}

	frame.Generation = s.generation
	return frame, nil
}

// nextBatch pulls from the segmenter, replacing the grammar when it runs dry.
func (s *Scheduler) nextBatch(ctx context.Context) ([]lsystem.Chunk, bool, error) {
	regenerated := false
	for range maxEmptyGenerations {
		if batch, ok := s.seg.Next(); ok {
			return batch, regenerated, nil
		}
		s.logger.Debug("expansion drawn", "generation", s.generation, "length", len(s.expansion.String))
		s.pen.Color = RandomColor(s.rng)
		if err := s.regenerate(ctx); err != nil {
			return nil, regenerated, err
		}
		regenerated = true
	}
	return nil, regenerated, errors.New(errors.ErrCodeGenerationExhausted,
		"%d consecutive grammars expanded to nothing", maxEmptyGenerations)
}

func (s *Scheduler) regenerate(ctx context.Context) error {
	g, err := s.gen.Generate()
	if err != nil {
		return err
	}

	s.grammar = g
	s.expansion = lsystem.Rewrite(g, s.grammarParams.MaxLength)
	s.seg = lsystem.NewSegmenter(s.expansion.String, g.Angle)
	s.generation++

	s.logger.Debug("generated grammar",
		"generation", s.generation,
		"axiom", g.Axiom,
		"rules", len(g.Rules),
		"angle", g.Angle,
		"length", len(s.expansion.String),
		"cycles", s.expansion.Cycles,
		"stop", s.expansion.Stop,
		"attempts", s.gen.Attempts())
	observability.Animation().OnGrammarGenerated(ctx, s.generation, len(g.Rules), len(s.expansion.String), s.gen.Attempts())
	return nil
}

// Pen returns a copy of the pen, including its branch stack.
func (s *Scheduler) Pen() turtle.Pen {
	pen := s.pen
	pen.Stack = append([]turtle.Pose(nil), s.pen.Stack...)
	return pen
}

// Grammar returns the grammar currently being drawn.
func (s *Scheduler) Grammar() *lsystem.Grammar { return s.grammar }

// Expansion returns the expanded string of the current grammar.
func (s *Scheduler) Expansion() lsystem.Expansion { return s.expansion }

// Remaining is the number of commands of the current expansion not yet drawn.
func (s *Scheduler) Remaining() int {
	if s.seg.Exhausted() {
		return 0
	}
	return s.seg.Remaining()
}

// Generation counts grammars generated so far, starting at 1.
func (s *Scheduler) Generation() int { return s.generation }

// Viewport returns the drawing area.
func (s *Scheduler) Viewport() turtle.Viewport { return s.interp.Viewport }

// Params returns the scheduler's timing parameters.
func (s *Scheduler) Params() Params { return s.params }
