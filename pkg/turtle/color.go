package turtle

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is an sRGB colour with straight (non-premultiplied) alpha.
// It implements [image/color.Color].
type Color struct {
	colorful.Color
	A float64
}

// RGBA builds a colour from channels in [0, 1].
func RGBA(r, g, b, a float64) Color {
	return Color{Color: colorful.Color{R: r, G: g, B: b}, A: a}
}

// ParseHex parses "#rrggbb" or "#rrggbbaa".
func ParseHex(s string) (Color, error) {
	s = strings.TrimSpace(s)
	alpha := 1.0
	if len(s) == 9 {
		v, err := strconv.ParseUint(s[7:], 16, 8)
		if err != nil {
			return Color{}, fmt.Errorf("parse alpha %q: %w", s, err)
		}
		alpha = float64(v) / 255
		s = s[:7]
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, fmt.Errorf("parse colour %q: %w", s, err)
	}
	return Color{Color: c, A: alpha}, nil
}

// HexA formats the colour as "#rrggbbaa".
func (c Color) HexA() string {
	r, g, b := c.Clamped().RGB255()
	return fmt.Sprintf("#%02x%02x%02x%02x", r, g, b, uint8(clamp01(c.A)*255+0.5))
}

// RGBA returns alpha-premultiplied 16-bit channels.
func (c Color) RGBA() (r, g, b, a uint32) {
	cc := c.Clamped()
	alpha := clamp01(c.A)
	a = uint32(alpha*0xffff + 0.5)
	r = uint32(cc.R*alpha*0xffff + 0.5)
	g = uint32(cc.G*alpha*0xffff + 0.5)
	b = uint32(cc.B*alpha*0xffff + 0.5)
	return r, g, b, a
}

// MarshalJSON encodes the colour as a #rrggbbaa string.
func (c Color) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.HexA())
}

// UnmarshalJSON accepts #rrggbb or #rrggbbaa strings.
func (c *Color) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseHex(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func clamp01(v float64) float64 {
	return min(max(v, 0), 1)
}
