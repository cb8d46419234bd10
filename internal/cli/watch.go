package cli

import (
	"context"
	"fmt"
	"math"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/lsaver/pkg/animate"
	"github.com/matzehuels/lsaver/pkg/config"
)

// statusLines is the height reserved below the canvas.
const statusLines = 2

// watchCommand creates the watch command, which animates in the terminal.
func (c *CLI) watchCommand() *cobra.Command {
	var seed seedFlag
	var fps int

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Animate in the terminal",
		Long: `Run the screensaver in the terminal, drawing strokes with shaded characters.

Keys: space pause, n next seed, q quit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if fps < 1 || fps > 120 {
				return fmt.Errorf("--fps must be between 1 and 120")
			}
			params, err := c.loadParams()
			if err != nil {
				return err
			}
			m, err := newWatchModel(cmd.Context(), params, seed.resolve(cmd), fps, c.Logger)
			if err != nil {
				return err
			}
			// The logger would corrupt the alt screen; silence it while running.
			level := c.Logger.GetLevel()
			c.Logger.SetLevel(log.FatalLevel)
			defer c.Logger.SetLevel(level)

			_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}

	seed.register(cmd)
	cmd.Flags().IntVar(&fps, "fps", 30, "frames per second")
	return cmd
}

type tickMsg time.Time

// watchModel is the bubbletea model driving a scheduler in the terminal.
type watchModel struct {
	ctx    context.Context
	params config.Params
	logger *log.Logger

	seed     uint64
	sched    *animate.Scheduler
	canvas   *canvas
	fade     float64
	interval time.Duration

	paused bool
	err    error
	width  int
	height int
}

func newWatchModel(ctx context.Context, params config.Params, seed uint64, fps int, logger *log.Logger) (*watchModel, error) {
	m := &watchModel{
		ctx:      ctx,
		params:   params,
		logger:   logger,
		interval: time.Second / time.Duration(fps),
		width:    80,
		height:   24,
		fade:     params.Animation.Fade().A,
	}
	if err := m.reset(seed); err != nil {
		return nil, err
	}
	return m, nil
}

// reset starts a fresh scheduler and blank canvas for seed.
func (m *watchModel) reset(seed uint64) error {
	sched, err := m.params.NewScheduler(seed, animate.WithLogger(m.logger))
	if err != nil {
		return err
	}
	m.seed, m.sched = seed, sched
	m.canvas = newCanvas(m.width, m.height-statusLines, sched.Viewport())
	return nil
}

func (m *watchModel) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m *watchModel) Init() tea.Cmd {
	return m.tick()
}

func (m *watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ":
			m.paused = !m.paused
		case "n":
			if err := m.reset(m.seed + 1); err != nil {
				m.err = err
			}
		}
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.canvas.resize(m.width, max(m.height-statusLines, 1))
	case tickMsg:
		if !m.paused {
			m.advance()
		}
		return m, m.tick()
	}
	return m, nil
}

// advance steps the scheduler by one frame interval.
func (m *watchModel) advance() {
	frame, err := m.sched.Tick(m.ctx, m.interval.Seconds())
	if err != nil {
		m.err = err
		return
	}
	m.err = nil
	m.apply(frame)
}

// apply paints a frame: the fade comes first, as in the other renderers.
func (m *watchModel) apply(f animate.Frame) {
	if f.Fade {
		m.canvas.fade(m.fade)
	}
	for _, s := range f.Segments {
		m.canvas.stroke(s)
	}
}

func (m *watchModel) View() string {
	g := m.sched.Grammar()
	status := fmt.Sprintf("seed %d · generation %d · %d rules · %.1f° · %d left",
		m.seed, m.sched.Generation(), len(g.Rules), g.Angle*180/math.Pi, m.sched.Remaining())
	if m.paused {
		status += " · " + StyleWarning.Render("paused")
	}
	if m.err != nil {
		status += " · " + StyleWarning.Render(m.err.Error())
	}
	help := StyleDim.Render("space pause  n next seed  q quit")
	return m.canvas.render() + "\n" + StyleDim.Render(status) + "\n" + help
}
