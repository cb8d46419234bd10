// Package config aggregates every tunable of the screensaver and loads it
// from TOML files and LSAVER_* environment variables.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/viper"

	"github.com/matzehuels/lsaver/pkg/animate"
	"github.com/matzehuels/lsaver/pkg/cache"
	"github.com/matzehuels/lsaver/pkg/lsystem"
	"github.com/matzehuels/lsaver/pkg/turtle"
)

// EnvPrefix prefixes environment overrides, e.g. LSAVER_TURTLE_DISTANCE.
const EnvPrefix = "LSAVER"

// Params is the complete configuration.
type Params struct {
	Grammar   lsystem.Params  `toml:"grammar" mapstructure:"grammar" json:"grammar"`
	Turtle    turtle.Params   `toml:"turtle" mapstructure:"turtle" json:"turtle"`
	Animation animate.Params  `toml:"animation" mapstructure:"animation" json:"animation"`
	Viewport  turtle.Viewport `toml:"viewport" mapstructure:"viewport" json:"viewport"`
}

// Default returns the built-in configuration.
func Default() Params {
	return Params{
		Grammar:   lsystem.DefaultParams(),
		Turtle:    turtle.DefaultParams(),
		Animation: animate.DefaultParams(),
		Viewport:  turtle.DefaultViewport,
	}
}

// Validate checks every section.
func (p Params) Validate() error {
	if err := p.Grammar.Validate(); err != nil {
		return err
	}
	if err := p.Viewport.Validate(); err != nil {
		return err
	}
	if err := p.Turtle.ValidateFor(p.Viewport); err != nil {
		return err
	}
	return p.Animation.Validate()
}

// Hash is a stable content hash of the configuration, used in cache keys.
func (p Params) Hash() string {
	data, _ := json.Marshal(p)
	return cache.Hash(data)
}

// Interpreter builds a turtle interpreter for the configured viewport.
func (p Params) Interpreter() *turtle.Interpreter {
	return turtle.NewInterpreter(p.Viewport, p.Turtle)
}

// NewScheduler builds an animation scheduler from the configuration.
func (p Params) NewScheduler(seed uint64, opts ...animate.Option) (*animate.Scheduler, error) {
	opts = append([]animate.Option{
		animate.WithGrammarParams(p.Grammar),
		animate.WithInterpreter(p.Interpreter()),
	}, opts...)
	return animate.New(p.Animation, seed, opts...)
}

// DefaultPath returns the per-user config file location.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "lsaver", "config.toml"), nil
}

// Load reads configuration from path, or from the default location when path
// is empty, then applies LSAVER_* environment overrides. A missing default
// file is not an error; a missing explicit file is.
func Load(path string) (Params, error) {
	v := viper.New()
	setDefaults(v, Default())

	v.SetConfigType("toml")
	if path != "" {
		v.SetConfigFile(path)
	} else if def, err := DefaultPath(); err == nil {
		v.AddConfigPath(filepath.Dir(def))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Params{}, fmt.Errorf("read config: %w", err)
		}
	}

	var p Params
	if err := v.Unmarshal(&p); err != nil {
		return Params{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := p.Validate(); err != nil {
		return Params{}, err
	}
	return p, nil
}

// setDefaults registers every key so that environment overrides apply even
// when no config file sets them.
func setDefaults(v *viper.Viper, d Params) {
	g := d.Grammar
	v.SetDefault("grammar.rules.min", g.Rules.Min)
	v.SetDefault("grammar.rules.max", g.Rules.Max)
	v.SetDefault("grammar.axiom_length.min", g.AxiomLength.Min)
	v.SetDefault("grammar.axiom_length.max", g.AxiomLength.Max)
	v.SetDefault("grammar.rule_length.min", g.RuleLength.Min)
	v.SetDefault("grammar.rule_length.max", g.RuleLength.Max)
	v.SetDefault("grammar.max_length", g.MaxLength)
	v.SetDefault("grammar.random_angle_chance", g.RandomAngleChance)
	v.SetDefault("grammar.angle_min", g.AngleMin)
	v.SetDefault("grammar.angle_max", g.AngleMax)
	v.SetDefault("grammar.preset_angles", g.PresetAngles)
	v.SetDefault("grammar.max_attempts", g.MaxAttempts)

	v.SetDefault("turtle.distance", d.Turtle.Distance)
	v.SetDefault("turtle.stroke_width", d.Turtle.StrokeWidth)
	v.SetDefault("turtle.preview_width", d.Turtle.PreviewWidth)

	v.SetDefault("animation.move_interval", d.Animation.MoveInterval)
	v.SetDefault("animation.fade_interval", d.Animation.FadeInterval)
	v.SetDefault("animation.fade_color", d.Animation.FadeColor)

	v.SetDefault("viewport.width", d.Viewport.Width)
	v.SetDefault("viewport.height", d.Viewport.Height)
}

// Encode writes p as TOML.
func Encode(w io.Writer, p Params) error {
	return toml.NewEncoder(w).Encode(p)
}

// Write saves p to path, creating parent directories. It refuses to replace
// an existing file unless overwrite is set.
func Write(path string, p Params, overwrite bool) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}
	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !overwrite {
		flags |= os.O_EXCL
	}
	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	if err := Encode(f, p); err != nil {
		f.Close()
		return fmt.Errorf("encode config: %w", err)
	}
	return f.Close()
}
