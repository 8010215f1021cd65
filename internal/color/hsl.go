// Package color provides the HSL and sRGB arithmetic used to synthesise palettes.
package color

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

var (
	hexPattern      = regexp.MustCompile(`^#[0-9A-F]{6}$`)
	shortHexPattern = regexp.MustCompile(`^#(?i:[0-9a-f]{3}|[0-9a-f]{6})$`)
)

// HSLToHex converts a hue in degrees and saturation/lightness in [0,100] to an
// uppercase "#RRGGBB" string.
//
// The conversion is the standard chroma form: a = s*min(l, 1-l) and
// f(n) = l - a*max(-1, min(k-3, 9-k, 1)) with k = (n + h/30) mod 12.
func HSLToHex(h, s, l float64) string {
	h = NormalizeHue(h)
	s = clampUnit(s / 100)
	l = clampUnit(l / 100)

	a := s * math.Min(l, 1-l)
	f := func(n float64) int {
		k := math.Mod(n+h/30, 12)
		v := l - a*math.Max(-1, math.Min(math.Min(k-3, 9-k), 1))
		return int(math.Round(255 * v))
	}

	return fmt.Sprintf("#%02X%02X%02X", f(0), f(8), f(4))
}

// NormalizeHue wraps any real hue into [0,360).
func NormalizeHue(h float64) float64 {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	return h
}

// IsHex reports whether s is an uppercase "#RRGGBB" string.
func IsHex(s string) bool {
	return hexPattern.MatchString(s)
}

// NormalizeHex accepts "#rgb", "rgb", "#rrggbb" or "rrggbb" in any case and
// returns the canonical uppercase "#RRGGBB" form.
func NormalizeHex(s string) (string, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	if !shortHexPattern.MatchString(s) {
		return "", fmt.Errorf("invalid hex color %q", s)
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return "", fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return fmt.Sprintf("#%02X%02X%02X", r, g, b), nil
}

// Hue returns the HSL hue in [0,360) of a hex color. Invalid input yields 0.
func Hue(hex string) float64 {
	c, err := colorful.Hex(hex)
	if err != nil {
		return 0
	}
	h, _, _ := c.Hsl()
	if math.IsNaN(h) {
		return 0
	}
	return h
}

// Luma returns the perceptual lightness 0.299R + 0.587G + 0.114B of a hex
// color, normalised to [0,1]. Invalid input yields 0.
func Luma(hex string) float64 {
	c, err := colorful.Hex(hex)
	if err != nil {
		return 0
	}
	r, g, b := c.RGB255()
	return (0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)) / 255
}

// RGB returns the 8-bit channels of a hex color.
func RGB(hex string) (r, g, b uint8, err error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return 0, 0, 0, err
	}
	r, g, b = c.RGB255()
	return r, g, b, nil
}

func clampUnit(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
