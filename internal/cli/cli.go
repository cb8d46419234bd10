// Package cli implements the lsaver command-line interface.
package cli

import (
	"io"
	"math/rand/v2"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/lsaver/pkg/buildinfo"
	"github.com/matzehuels/lsaver/pkg/cache"
	"github.com/matzehuels/lsaver/pkg/config"
	"github.com/matzehuels/lsaver/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "lsaver"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// configPath is the --config flag; empty means the default location.
	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "lsaver draws random L-systems",
		Long:         `lsaver is a screensaver that invents random Lindenmayer systems, expands them, and draws them with a wrapping turtle. It can run in a window, in the terminal, headless to image files, or as an HTTP render service.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: user config dir)")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.grammarCommand())
	root.AddCommand(c.watchCommand())
	root.AddCommand(c.screenCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Shared Helpers
// =============================================================================

// loadParams reads the configuration selected by --config.
func (c *CLI) loadParams() (config.Params, error) {
	p, err := config.Load(c.configPath)
	if err != nil {
		return config.Params{}, err
	}
	c.Logger.Debug("loaded config", "path", c.configPath, "hash", p.Hash()[:12])
	return p, nil
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	cache, err := newCache(noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cache, nil, c.Logger), nil
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cache.DefaultDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// seedFlag holds a --seed value.
type seedFlag struct {
	value uint64
}

func (s *seedFlag) register(cmd *cobra.Command) {
	cmd.Flags().Uint64Var(&s.value, "seed", 0, "random seed (default: random)")
}

// resolve returns the flag value, or a fresh random seed when unset.
func (s *seedFlag) resolve(cmd *cobra.Command) uint64 {
	if cmd.Flags().Changed("seed") {
		return s.value
	}
	s.value = rand.Uint64()
	return s.value
}
