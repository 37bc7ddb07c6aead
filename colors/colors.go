// Package colors - shared color utilities for the overlay renderer.
package colors

import (
	"fmt"
	"image/color"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"
)

// Common overlay colors used throughout the renderer.
var (
	Black = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	White = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Green = color.RGBA{R: 0, G: 255, B: 0, A: 255}
)

// ParseHex converts a "#RRGGBB" or "#RGB" string into an opaque color.RGBA.
//
// Arguments:
//   - s: The hex string, with or without the leading "#".
//
// Returns:
//   - color.RGBA: The parsed color with alpha 255.
//   - error: An error if the string is not a valid hex color.
func ParseHex(s string) (color.RGBA, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return color.RGBA{}, errors.Errorf("invalid hex color %q", s)
	}

	var r, g, b uint8
	if _, err := fmt.Sscanf(strings.ToLower(h), "%02x%02x%02x", &r, &g, &b); err != nil {
		return color.RGBA{}, errors.Wrapf(err, "invalid hex color %q", s)
	}
	return color.RGBA{R: r, G: g, B: b, A: 255}, nil
}

// MustParseHex is ParseHex for compile-time constant colors (preset tables).
// It panics on malformed input.
func MustParseHex(s string) color.RGBA {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Hex formats a color as "#rrggbb". Alpha is dropped.
func Hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Positional derives a color from a point's position within the canvas:
// hue sweeps 0-360 across X, saturation ramps 70-100% down Y, lightness is
// fixed at 50%. Every detection gets a color that varies smoothly across the
// frame.
//
// Arguments:
//   - cx, cy: The point (typically a box center) in canvas coordinates.
//   - width, height: The canvas dimensions.
//
// Returns:
//   - color.RGBA: The derived opaque color.
func Positional(cx, cy, width, height float64) color.RGBA {
	if width <= 0 || height <= 0 {
		return Green
	}

	hue := 360.0 * clamp01(cx/width)
	sat := (70.0 + 30.0*clamp01(cy/height)) / 100.0

	r, g, b := colorful.Hsl(hue, sat, 0.5).Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// Contrast picks black or white, whichever reads better over the given
// backing color. Uses the Rec. 601 luma weights.
func Contrast(c color.RGBA) color.RGBA {
	luma := 0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B)
	if luma > 140 {
		return Black
	}
	return White
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
