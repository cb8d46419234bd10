package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/lsaver/internal/screen"
)

// screenCommand creates the screen command, which opens the screensaver window.
func (c *CLI) screenCommand() *cobra.Command {
	var seed seedFlag
	opts := screen.Options{
		WindowWidth:  screen.DefaultWindowWidth,
		WindowHeight: screen.DefaultWindowHeight,
	}

	cmd := &cobra.Command{
		Use:   "screen",
		Short: "Run the screensaver in a window",
		Long: `Open a window and draw random L-systems until interrupted. The window closes
after the pointer moves or a key is pressed, unless --no-exit is set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := c.loadParams()
			if err != nil {
				return err
			}
			opts.Params = params
			opts.Seed = seed.resolve(cmd)
			opts.Logger = c.Logger
			return screen.Run(cmd.Context(), opts)
		},
	}

	seed.register(cmd)
	cmd.Flags().BoolVar(&opts.Fullscreen, "fullscreen", false, "run fullscreen")
	cmd.Flags().IntVar(&opts.WindowWidth, "width", opts.WindowWidth, "window width")
	cmd.Flags().IntVar(&opts.WindowHeight, "height", opts.WindowHeight, "window height")
	cmd.Flags().BoolVar(&opts.NoExit, "no-exit", false, "ignore pointer and keyboard activity")
	return cmd
}
