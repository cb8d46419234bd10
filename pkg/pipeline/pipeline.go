// Package pipeline runs headless screensaver sessions and renders them.
//
// This package implements the simulate → render pipeline shared by the CLI
// and the HTTP service. By centralizing this logic, both entry points cache
// and name artifacts identically.
//
// # Architecture
//
// The pipeline consists of two stages:
//
//  1. Simulate: Drive an [animate.Scheduler] at a fixed tick rate for a
//     fixed duration, collecting every frame
//  2. Render: Write the frames as SVG, PNG, PDF or JSON
//
// A run is fully determined by its seed, duration, tick rate and
// configuration, so artifacts are cached under a hash of those inputs.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Seed:     7,
//	    Duration: 20,
//	    Formats:  []string{"svg", "json"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/lsaver/pkg/cache"
	"github.com/matzehuels/lsaver/pkg/config"
	"github.com/matzehuels/lsaver/pkg/errors"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultDuration is the simulated session length in seconds.
	DefaultDuration = 30.0

	// DefaultTickRate is the number of ticks per simulated second. At 25 the
	// tick interval equals the default move interval of 0.04 s.
	DefaultTickRate = 25

	// MaxTickRate bounds the tick rate so runs stay cheap to simulate.
	MaxTickRate = 240
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one run.
type Options struct {
	Seed     uint64   `json:"seed"`
	Duration float64  `json:"duration,omitempty"`
	TickRate int      `json:"tick_rate,omitempty"`
	Formats  []string `json:"formats,omitempty"`

	// Params defaults to config.Default() when nil.
	Params *config.Params `json:"params,omitempty"`

	// NoPreviews drops edge-wrap preview lines from image output.
	NoPreviews bool `json:"no_previews,omitempty"`

	// Refresh skips cache lookups; results are still written back.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger   *log.Logger          `json:"-"`
	Progress func(done, total int) `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID uniquely identifies this execution.
	RunID string

	// RunHash is the content hash of the run inputs; identical inputs
	// always produce identical artifacts.
	RunHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Ticks        int
	Segments     int
	Fades        int
	Generations  int
	SimulateTime time.Duration
	RenderTime   time.Duration
}

// CacheInfo tracks cache hits.
type CacheInfo struct {
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: svg, png, pdf, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ParseFormats splits a comma-separated format list, dropping blanks.
func ParseFormats(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks fields and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetDefaults()

	if err := errors.ValidateDuration(o.Duration); err != nil {
		return err
	}
	if o.TickRate < 1 || o.TickRate > MaxTickRate {
		return errors.New(errors.ErrCodeInvalidInput, "tick rate must be within [1, %d], got %d", MaxTickRate, o.TickRate)
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if err := o.Params.Validate(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetDefaults fills unset fields.
func (o *Options) SetDefaults() {
	if o.Duration == 0 {
		o.Duration = DefaultDuration
	}
	if o.TickRate == 0 {
		o.TickRate = DefaultTickRate
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Params == nil {
		p := config.Default()
		o.Params = &p
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Ticks is the number of scheduler ticks the run simulates.
func (o *Options) Ticks() int {
	return int(math.Round(o.Duration * float64(o.TickRate)))
}

// DT is the simulated seconds per tick.
func (o *Options) DT() float64 {
	return 1 / float64(o.TickRate)
}

// RunKeyOpts returns the cache key inputs of the run.
func (o *Options) RunKeyOpts() cache.RunKeyOpts {
	return cache.RunKeyOpts{
		Seed:       o.Seed,
		Duration:   o.Duration,
		TickRate:   o.TickRate,
		ParamsHash: o.Params.Hash(),
	}
}

// ArtifactKeyOpts returns cache key options for one rendered format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	if o.NoPreviews && format != FormatJSON {
		format += "+nopreview"
	}
	return cache.ArtifactKeyOpts{Format: format}
}
