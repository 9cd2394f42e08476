// Package core provides the grid simulation and matching engine for the
// Bubble Pop shooter. This package is UI-agnostic and deterministic for a
// given random source.
package core

import "strings"

// Color is the kind of a bubble.
type Color uint8

const (
	ColorRed Color = iota
	ColorBlue
	ColorGreen
	ColorYellow
	ColorPurple
	ColorOrange
	ColorBomb    // Special marker, never generated by the spawner
	ColorRainbow // Special marker, wildcard when used as a match color
)

// String returns the string representation of a color.
func (c Color) String() string {
	switch c {
	case ColorRed:
		return "red"
	case ColorBlue:
		return "blue"
	case ColorGreen:
		return "green"
	case ColorYellow:
		return "yellow"
	case ColorPurple:
		return "purple"
	case ColorOrange:
		return "orange"
	case ColorBomb:
		return "bomb"
	case ColorRainbow:
		return "rainbow"
	default:
		return "unknown"
	}
}

// Char returns a single character representation of the color for ASCII rendering.
func (c Color) Char() rune {
	switch c {
	case ColorRed:
		return 'R'
	case ColorBlue:
		return 'B'
	case ColorGreen:
		return 'G'
	case ColorYellow:
		return 'Y'
	case ColorPurple:
		return 'P'
	case ColorOrange:
		return 'O'
	case ColorBomb:
		return '*'
	case ColorRainbow:
		return '~'
	default:
		return '?'
	}
}

// IsNormal reports whether the color is one the spawner generates.
func (c Color) IsNormal() bool {
	return c <= ColorOrange
}

// ParseColor converts a string to a Color.
// Returns ColorRed and false if the string is not recognized.
func ParseColor(s string) (Color, bool) {
	switch strings.ToLower(s) {
	case "red", "r":
		return ColorRed, true
	case "blue", "b":
		return ColorBlue, true
	case "green", "g":
		return ColorGreen, true
	case "yellow", "y":
		return ColorYellow, true
	case "purple", "p":
		return ColorPurple, true
	case "orange", "o":
		return ColorOrange, true
	case "bomb", "*":
		return ColorBomb, true
	case "rainbow", "~":
		return ColorRainbow, true
	default:
		return ColorRed, false
	}
}

// NormalColors returns the colors used for generated bubbles.
func NormalColors() []Color {
	return []Color{ColorRed, ColorBlue, ColorGreen, ColorYellow, ColorPurple, ColorOrange}
}
