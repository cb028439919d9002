package pdftour

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Color is an RGB colour with components in [0, 1].
type Color struct {
	R, G, B float64
}

// Named colours.
var (
	White      = Color{R: 1, G: 1, B: 1}
	Black      = Color{}
	Red        = Color{R: 1}
	Green      = Color{G: 128.0 / 255}
	WhiteSmoke = Color{R: 245.0 / 255, G: 245.0 / 255, B: 245.0 / 255}
	LightGreen = Color{R: 144.0 / 255, G: 238.0 / 255, B: 144.0 / 255}
	LightGrey  = Color{R: 211.0 / 255, G: 211.0 / 255, B: 211.0 / 255}
)

var namedColors = map[string]Color{
	"white":      White,
	"black":      Black,
	"red":        Red,
	"green":      Green,
	"whitesmoke": WhiteSmoke,
	"lightgreen": LightGreen,
	"lightgrey":  LightGrey,
	"lightgray":  LightGrey,
}

// CMYKGrey returns the colour of k percent black ink (k in [0, 1]) on white.
func CMYKGrey(k float64) Color {
	v := 1 - clamp01(k)
	return Color{R: v, G: v, B: v}
}

// Hex parses "#rrggbb", "rrggbb" or "0xrrggbb".
func Hex(s string) (Color, error) {
	h := strings.TrimPrefix(strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "#"), "0x")
	if len(h) != 6 {
		return Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	return Color{
		R: float64(v>>16&0xff) / 255,
		G: float64(v>>8&0xff) / 255,
		B: float64(v&0xff) / 255,
	}, nil
}

// ParseColor accepts a colour name or a hex value.
func ParseColor(s string) (Color, error) {
	if c, ok := namedColors[strings.ToLower(strings.TrimSpace(s))]; ok {
		return c, nil
	}
	return Hex(s)
}

// Lerp interpolates linearly between a (at x0) and b (at x1). Values of x
// outside [x0, x1] are clamped.
func Lerp(a, b Color, x0, x1, x float64) Color {
	if x1 == x0 {
		if x < x0 {
			return a
		}
		return b
	}
	t := clamp01((x - x0) / (x1 - x0))
	return Color{
		R: a.R + (b.R-a.R)*t,
		G: a.G + (b.G-a.G)*t,
		B: a.B + (b.B-a.B)*t,
	}
}

// RGB255 returns the components scaled to 0..255.
func (c Color) RGB255() (r, g, b int) {
	return to255(c.R), to255(c.G), to255(c.B)
}

// Hex formats the colour as "#rrggbb".
func (c Color) Hex() string {
	r, g, b := c.RGB255()
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

func (c Color) String() string {
	return c.Hex()
}

func to255(v float64) int {
	return int(math.Round(clamp01(v) * 255))
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
