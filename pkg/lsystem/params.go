package lsystem

import (
	"math/rand/v2"

	"github.com/matzehuels/lsaver/pkg/errors"
)

// Angle defaults, in radians.
const (
	DefaultAngleMin = 0.08726646 // 5°
	DefaultAngleMax = 3.124139   // 179°
)

// DefaultPresetAngles are the "pleasing" angles picked when no random angle is drawn:
// 20°, 30°, 36°, 45°, 60°, 90° and 135°.
var DefaultPresetAngles = []float64{
	0.3490659, 0.5235988, 0.6283185, 0.7853982, 1.047198, 1.570796, 2.356194,
}

// DefaultMaxAttempts bounds how many times [Generator.Generate] restarts
// after running out of symbols to assign.
const DefaultMaxAttempts = 10000

// Range is an inclusive integer interval.
type Range struct {
	Min int `toml:"min" mapstructure:"min" json:"min"`
	Max int `toml:"max" mapstructure:"max" json:"max"`
}

func (r Range) pick(rng *rand.Rand) int {
	if r.Max <= r.Min {
		return r.Min
	}
	return r.Min + rng.IntN(r.Max-r.Min+1)
}

func (r Range) validate(name string, floor int) error {
	if r.Min < floor {
		return errors.New(errors.ErrCodeInvalidConfig, "%s: min must be at least %d, got %d", name, floor, r.Min)
	}
	if r.Min > r.Max {
		return errors.New(errors.ErrCodeInvalidConfig, "%s: min %d > max %d", name, r.Min, r.Max)
	}
	return nil
}

// Params controls grammar synthesis and expansion.
type Params struct {
	Rules       Range `toml:"rules" mapstructure:"rules" json:"rules"`
	AxiomLength Range `toml:"axiom_length" mapstructure:"axiom_length" json:"axiom_length"`
	RuleLength  Range `toml:"rule_length" mapstructure:"rule_length" json:"rule_length"`

	// MaxLength is the expansion threshold handed to [Rewrite].
	MaxLength int `toml:"max_length" mapstructure:"max_length" json:"max_length"`

	// RandomAngleChance is the probability of drawing the angle uniformly from
	// [AngleMin, AngleMax) instead of picking one of PresetAngles.
	RandomAngleChance float64   `toml:"random_angle_chance" mapstructure:"random_angle_chance" json:"random_angle_chance"`
	AngleMin          float64   `toml:"angle_min" mapstructure:"angle_min" json:"angle_min"`
	AngleMax          float64   `toml:"angle_max" mapstructure:"angle_max" json:"angle_max"`
	PresetAngles      []float64 `toml:"preset_angles" mapstructure:"preset_angles" json:"preset_angles"`

	MaxAttempts int `toml:"max_attempts" mapstructure:"max_attempts" json:"max_attempts"`
}

// DefaultParams returns the tuning used by the screensaver.
func DefaultParams() Params {
	return Params{
		Rules:             Range{Min: 2, Max: 4},
		AxiomLength:       Range{Min: 1, Max: 4},
		RuleLength:        Range{Min: 2, Max: 9},
		MaxLength:         2000,
		RandomAngleChance: 0.5,
		AngleMin:          DefaultAngleMin,
		AngleMax:          DefaultAngleMax,
		PresetAngles:      append([]float64(nil), DefaultPresetAngles...),
		MaxAttempts:       DefaultMaxAttempts,
	}
}

// Validate rejects parameters the generator cannot satisfy.
func (p Params) Validate() error {
	if err := p.Rules.validate("rules", 1); err != nil {
		return err
	}
	if p.Rules.Max > len(Alphabet) {
		return errors.New(errors.ErrCodeInvalidConfig,
			"rules: max %d exceeds the %d assignable symbols", p.Rules.Max, len(Alphabet))
	}
	if err := p.AxiomLength.validate("axiom_length", 1); err != nil {
		return err
	}
	if err := p.RuleLength.validate("rule_length", 1); err != nil {
		return err
	}
	if p.MaxLength < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "max_length must be positive, got %d", p.MaxLength)
	}
	if p.RandomAngleChance < 0 || p.RandomAngleChance > 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "random_angle_chance must be within [0, 1], got %g", p.RandomAngleChance)
	}
	if p.AngleMin > p.AngleMax {
		return errors.New(errors.ErrCodeInvalidConfig, "angle: min %g > max %g", p.AngleMin, p.AngleMax)
	}
	if len(p.PresetAngles) == 0 && p.RandomAngleChance < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "preset_angles cannot be empty unless random_angle_chance is 1")
	}
	if p.MaxAttempts < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "max_attempts must be positive, got %d", p.MaxAttempts)
	}
	return nil
}
