package animate

import (
	"github.com/matzehuels/lsaver/pkg/errors"
	"github.com/matzehuels/lsaver/pkg/turtle"
)

// DefaultFadeColor is the translucent black laid over the viewport on each fade.
const DefaultFadeColor = "#00000030"

// Params holds the scheduler's timing, in seconds.
type Params struct {
	MoveInterval float64 `toml:"move_interval" mapstructure:"move_interval" json:"move_interval"`
	FadeInterval float64 `toml:"fade_interval" mapstructure:"fade_interval" json:"fade_interval"`
	FadeColor    string  `toml:"fade_color" mapstructure:"fade_color" json:"fade_color"`
}

func DefaultParams() Params {
	return Params{
		MoveInterval: 0.04,
		FadeInterval: 0.04,
		FadeColor:    DefaultFadeColor,
	}
}

func (p Params) Validate() error {
	if p.MoveInterval <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "move_interval must be positive, got %g", p.MoveInterval)
	}
	if p.FadeInterval <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "fade_interval must be positive, got %g", p.FadeInterval)
	}
	if _, err := turtle.ParseHex(p.FadeColor); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "fade_color")
	}
	return nil
}

// Fade returns the parsed fade colour, falling back to DefaultFadeColor.
func (p Params) Fade() turtle.Color {
	if c, err := turtle.ParseHex(p.FadeColor); err == nil {
		return c
	}
	c, _ := turtle.ParseHex(DefaultFadeColor)
	return c
}
