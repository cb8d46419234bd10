package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/lsaver/internal/server"
	"github.com/matzehuels/lsaver/pkg/cache"
	"github.com/matzehuels/lsaver/pkg/pipeline"
)

// envRedisURL supplies --redis when the flag is not given.
const envRedisURL = "LSAVER_REDIS_URL"

// serveCommand creates the serve command, which runs the HTTP render service.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr     string
		redisURL string
		noCache  bool
		prefix   string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve renders over HTTP",
		Long: `Run an HTTP service that renders sessions on demand.

  GET /healthz
  GET /v1/render?seed=42&duration=30&format=svg
  GET /v1/grammar?seed=42

Artifacts are cached on disk, or in Redis when --redis (or ` + envRedisURL + `) is set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := c.loadParams()
			if err != nil {
				return err
			}
			if redisURL == "" {
				redisURL = os.Getenv(envRedisURL)
			}

			runner, err := c.serveRunner(cmd, redisURL, prefix, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			printInfo("Listening on %s", StyleHighlight.Render(addr))
			return server.New(runner, params, c.Logger).ListenAndServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&redisURL, "redis", "", "redis URL for a shared cache (e.g. redis://localhost:6379/0)")
	cmd.Flags().StringVar(&prefix, "key-prefix", "", "namespace for cache keys shared with other services")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	return cmd
}

// serveRunner picks the cache backend: none, redis, or the local file cache.
func (c *CLI) serveRunner(cmd *cobra.Command, redisURL, prefix string, noCache bool) (*pipeline.Runner, error) {
	var keyer cache.Keyer = cache.NewDefaultKeyer()
	if prefix != "" {
		keyer = cache.NewScopedKeyer(keyer, prefix)
	}

	switch {
	case noCache:
		return pipeline.NewRunner(cache.NewNullCache(), keyer, c.Logger), nil
	case redisURL != "":
		rc, err := cache.NewRedisCache(redisURL)
		if err != nil {
			return nil, err
		}
		if err := rc.Ping(cmd.Context()); err != nil {
			rc.Close()
			return nil, err
		}
		c.Logger.Info("using redis cache", "url", redisURL)
		return pipeline.NewRunner(rc, keyer, c.Logger), nil
	default:
		fc, err := newCache(false)
		if err != nil {
			return nil, err
		}
		return pipeline.NewRunner(fc, keyer, c.Logger), nil
	}
}
