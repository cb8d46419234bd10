// Package screen runs the animation in a native window.
//
// The window is never cleared between frames: strokes accumulate and the
// periodic translucent fade overlay makes older ones dim away. The window
// closes once the user moves the pointer or types, like a screensaver.
package screen

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/matzehuels/lsaver/pkg/animate"
	"github.com/matzehuels/lsaver/pkg/config"
)

// TPS is the fixed update rate. Each update advances the scheduler by 1/TPS seconds.
const TPS = 60

// Default window size when not fullscreen.
const (
	DefaultWindowWidth  = 1280
	DefaultWindowHeight = 720
)

// Options configures a window session.
type Options struct {
	Params     config.Params
	Seed       uint64
	Fullscreen bool

	// WindowWidth and WindowHeight size the window; the drawing is scaled
	// from the configured viewport.
	WindowWidth  int
	WindowHeight int

	// NoExit keeps the window open on pointer and key activity.
	NoExit bool

	Logger *log.Logger
}

// Run opens the window and blocks until it is closed, the user interrupts
// it, or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.WindowWidth <= 0 || opts.WindowHeight <= 0 {
		opts.WindowWidth, opts.WindowHeight = DefaultWindowWidth, DefaultWindowHeight
	}

	sched, err := opts.Params.NewScheduler(opts.Seed, animate.WithLogger(opts.Logger))
	if err != nil {
		return err
	}
	g := newGame(ctx, sched, opts)

	ebiten.SetWindowSize(opts.WindowWidth, opts.WindowHeight)
	ebiten.SetWindowTitle("lsaver")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetFullscreen(opts.Fullscreen)
	ebiten.SetTPS(TPS)
	ebiten.SetScreenClearedEveryFrame(false)
	if opts.Fullscreen {
		ebiten.SetCursorMode(ebiten.CursorModeHidden)
	}

	opts.Logger.Info("opening window", "seed", opts.Seed, "fullscreen", opts.Fullscreen)
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	opts.Logger.Info("window closed", "ticks", g.ticks, "generations", sched.Generation())
	return ctx.Err()
}
