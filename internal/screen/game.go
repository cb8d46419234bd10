package screen

import (
	"context"
	"image/color"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/matzehuels/lsaver/pkg/animate"
	"github.com/matzehuels/lsaver/pkg/turtle"
)

// game adapts a scheduler to ebiten.Game. Update ticks the scheduler and
// queues the resulting frames; Draw paints everything queued since the last
// draw onto the uncleared screen.
type game struct {
	ctx    context.Context
	sched  *animate.Scheduler
	logger *log.Logger

	viewport   turtle.Viewport
	fade       color.Color
	background color.Color
	exit       *exitWatcher

	pending []animate.Frame
	cleared bool
	ticks   int
	keys    []ebiten.Key
}

func newGame(ctx context.Context, sched *animate.Scheduler, opts Options) *game {
	g := &game{
		ctx:        ctx,
		sched:      sched,
		logger:     opts.Logger,
		viewport:   sched.Viewport(),
		fade:       sched.Params().Fade(),
		background: color.Black,
	}
	if !opts.NoExit {
		g.exit = newExitWatcher()
	}
	return g
}

// step advances the scheduler by one update interval and queues the frame.
// Generation failures are logged and retried on the next step.
func (g *game) step() error {
	if err := g.ctx.Err(); err != nil {
		return ebiten.Termination
	}
	frame, err := g.sched.Tick(g.ctx, 1.0/TPS)
	g.ticks++
	if err != nil {
		if g.ctx.Err() != nil {
			return ebiten.Termination
		}
		g.logger.Warn("grammar generation failed", "tick", frame.Tick, "error", err)
		return nil
	}
	if frame.Fade || len(frame.Segments) > 0 {
		g.pending = append(g.pending, frame)
	}
	return nil
}

func (g *game) Update() error {
	if g.exit != nil {
		x, y := ebiten.CursorPosition()
		g.keys = inpututil.AppendJustPressedKeys(g.keys[:0])
		if g.exit.observe(x, y, len(g.keys)) {
			return ebiten.Termination
		}
	}
	return g.step()
}

func (g *game) Draw(screen *ebiten.Image) {
	if !g.cleared {
		screen.Fill(g.background)
		g.cleared = true
	}
	w, h := float32(g.viewport.Width), float32(g.viewport.Height)
	for _, f := range g.pending {
		if f.Fade {
			vector.DrawFilledRect(screen, 0, 0, w, h, g.fade, false)
		}
		for _, s := range f.Segments {
			vector.StrokeLine(screen,
				float32(s.From.X), float32(s.From.Y),
				float32(s.To.X), float32(s.To.Y),
				float32(s.Width), s.Color, true)
		}
	}
	g.pending = g.pending[:0]
}

// Layout pins the logical screen to the viewport so turtle coordinates map
// one to one; ebiten scales to the window.
func (g *game) Layout(_, _ int) (int, int) {
	return int(g.viewport.Width), int(g.viewport.Height)
}
