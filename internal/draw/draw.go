// Package draw renders logical playfield shapes to a terminal using colored
// half-block characters.
package draw

import "math"

// Point represents a 2D coordinate.
type Point struct {
	X, Y float64
}

// Block characters for drawing.
const (
	BlockFull      = '█'
	BlockEmpty     = ' '
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
)

// ANSI SGR sequences used by text overlays.
const (
	ColorReset       = "\033[0m"
	ColorBold        = "\033[1m"
	ColorDim         = "\033[2m"
	ColorBrightGreen = "\033[92m"
	ColorYellow      = "\033[93m"
	ColorInverse     = "\033[7m"
)

// Color is an xterm-256 palette index. NoColor marks an unset pixel; palette
// entry 0 (black) is never drawn.
type Color uint8

// NoColor is the zero value of an empty pixel.
const NoColor Color = 0

// Fixed palette entries for shapes that are not hue-driven.
const (
	ColorWhite Color = 231
	ColorGray  Color = 245
	ColorDark  Color = 238
)

// HueColor maps an HSL hue (degrees) at high saturation and medium lightness
// onto the 6x6x6 xterm color cube.
func HueColor(hue float64) Color {
	return HSLColor(hue, 0.9, 0.6)
}

// HSLColor maps an HSL color onto the 6x6x6 xterm color cube.
func HSLColor(hue, sat, light float64) Color {
	hue = math.Mod(hue, 360)
	if hue < 0 {
		hue += 360
	}
	c := (1 - math.Abs(2*light-1)) * sat
	x := c * (1 - math.Abs(math.Mod(hue/60, 2)-1))
	m := light - c/2

	var r, g, b float64
	switch {
	case hue < 60:
		r, g, b = c, x, 0
	case hue < 120:
		r, g, b = x, c, 0
	case hue < 180:
		r, g, b = 0, c, x
	case hue < 240:
		r, g, b = 0, x, c
	case hue < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}

	level := func(v float64) int {
		return int(math.Round((v + m) * 5))
	}
	return Color(16 + 36*level(r) + 6*level(g) + level(b))
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
