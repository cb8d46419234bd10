package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/lsaver/pkg/animate"
	"github.com/matzehuels/lsaver/pkg/cache"
	"github.com/matzehuels/lsaver/pkg/observability"
)

// progressEvery is how many ticks pass between Progress callbacks.
const progressEvery = 50

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete simulate → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{
		RunID:     uuid.NewString(),
		RunHash:   cache.RunHash(opts.RunKeyOpts()),
		Artifacts: make(map[string][]byte),
	}

	if !opts.Refresh {
		if artifacts, ok := r.cached(ctx, result.RunHash, opts); ok {
			result.Artifacts = artifacts
			result.CacheInfo.RenderHit = true
			opts.Logger.Info("artifacts from cache", "run", result.RunHash[:12], "formats", opts.Formats)
			return result, nil
		}
	}

	// Stage 1: Simulate
	frames, stats, err := r.Simulate(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("simulate: %w", err)
	}
	result.Stats = stats

	opts.Logger.Info("simulated session",
		"seed", opts.Seed,
		"ticks", stats.Ticks,
		"segments", stats.Segments,
		"generations", stats.Generations,
		"duration", stats.SimulateTime)

	// Stage 2: Render
	renderStart := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	artifacts, err := Render(frames, result.RunID, opts)
	result.Stats.RenderTime = time.Since(renderStart)
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, result.Stats.RenderTime, err)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts

	opts.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	for format, data := range artifacts {
		key := r.Keyer.ArtifactKey(result.RunHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
			opts.Logger.Warn("cache write failed", "format", format, "error", err)
			continue
		}
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}
	return result, nil
}

// cached returns every requested format from the cache, or false if any is missing.
func (r *Runner) cached(ctx context.Context, runHash string, opts Options) (map[string][]byte, bool) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(runHash, opts.ArtifactKeyOpts(format))
		data, hit, err := r.Cache.Get(ctx, key)
		if err != nil || !hit {
			if err != nil {
				opts.Logger.Debug("cache read failed", "format", format, "error", err)
			}
			observability.Cache().OnCacheMiss(ctx, "artifact")
			return nil, false
		}
		observability.Cache().OnCacheHit(ctx, "artifact")
		artifacts[format] = data
	}
	return artifacts, true
}

// Simulate drives a scheduler for opts.Ticks() ticks and returns every frame.
func (r *Runner) Simulate(ctx context.Context, opts Options) ([]animate.Frame, Stats, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, Stats{}, err
	}

	ticks := opts.Ticks()
	start := time.Now()
	observability.Pipeline().OnSimulateStart(ctx, opts.Seed, ticks)

	frames, stats, err := simulate(ctx, opts, ticks)
	stats.SimulateTime = time.Since(start)
	observability.Pipeline().OnSimulateComplete(ctx, opts.Seed, len(frames), stats.SimulateTime, err)
	return frames, stats, err
}

func simulate(ctx context.Context, opts Options, ticks int) ([]animate.Frame, Stats, error) {
	var stats Stats
	s, err := opts.Params.NewScheduler(opts.Seed, animate.WithLogger(opts.Logger))
	if err != nil {
		return nil, stats, err
	}

	dt := opts.DT()
	frames := make([]animate.Frame, 0, ticks)
	for i := range ticks {
		f, err := s.Tick(ctx, dt)
		if err != nil {
			return frames, stats, err
		}
		frames = append(frames, f)

		stats.Ticks++
		stats.Segments += len(f.Segments)
		if f.Fade {
			stats.Fades++
		}
		if opts.Progress != nil && ((i+1)%progressEvery == 0 || i+1 == ticks) {
			opts.Progress(i+1, ticks)
		}
	}
	stats.Generations = s.Generation()
	return frames, stats, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
