package liveterm

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/muesli/termenv"
)

// ColorType distinguishes between color representations.
type ColorType uint8

const (
	// ColorDefault represents the terminal's default color (no color set).
	ColorDefault ColorType = iota
	// ColorANSI represents an ANSI 256 palette color (0-255).
	ColorANSI
	// ColorRGB represents a true color (24-bit RGB).
	ColorRGB
)

// Color is a terminal color. The zero value is the terminal default.
// Colors are comparable, which is how deferred and applied attribute state
// are told apart.
type Color struct {
	typ ColorType
	// For ANSI: r holds the palette index (0-255)
	// For RGB: r, g, b hold the color components
	r, g, b uint8
}

// The 16 standard palette entries.
var (
	Black         = ANSIColor(0)
	Red           = ANSIColor(1)
	Green         = ANSIColor(2)
	Yellow        = ANSIColor(3)
	Blue          = ANSIColor(4)
	Magenta       = ANSIColor(5)
	Cyan          = ANSIColor(6)
	White         = ANSIColor(7)
	BrightBlack   = ANSIColor(8)
	BrightRed     = ANSIColor(9)
	BrightGreen   = ANSIColor(10)
	BrightYellow  = ANSIColor(11)
	BrightBlue    = ANSIColor(12)
	BrightMagenta = ANSIColor(13)
	BrightCyan    = ANSIColor(14)
	BrightWhite   = ANSIColor(15)
)

// DefaultColor returns the terminal's default color.
func DefaultColor() Color {
	return Color{typ: ColorDefault}
}

// ANSIColor returns a color from the ANSI 256 palette.
func ANSIColor(index uint8) Color {
	return Color{typ: ColorANSI, r: index}
}

// RGBColor returns a true color (24-bit RGB) color.
func RGBColor(r, g, b uint8) Color {
	return Color{typ: ColorRGB, r: r, g: g, b: b}
}

// HexColor parses "#RRGGBB" or "#RGB".
func HexColor(hex string) (Color, error) {
	hex = strings.TrimPrefix(hex, "#")
	switch len(hex) {
	case 3:
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	case 6:
	default:
		return Color{}, errors.New("hex color must be #RGB or #RRGGBB")
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("parse hex color %q: %w", hex, err)
	}
	return RGBColor(uint8(v>>16), uint8(v>>8), uint8(v)), nil
}

// Type returns the color's representation.
func (c Color) Type() ColorType { return c.typ }

// ANSI returns the palette index of an ANSI color, or 0 for other types.
func (c Color) ANSI() uint8 {
	if c.typ != ColorANSI {
		return 0
	}
	return c.r
}

// RGB returns the components of an RGB color, or zeros for other types.
func (c Color) RGB() (r, g, b uint8) {
	if c.typ != ColorRGB {
		return 0, 0, 0
	}
	return c.r, c.g, c.b
}

// IsDefault reports whether c is the terminal default.
func (c Color) IsDefault() bool { return c.typ == ColorDefault }

// String returns a debug representation of the color.
func (c Color) String() string {
	switch c.typ {
	case ColorANSI:
		return fmt.Sprintf("ansi(%d)", c.r)
	case ColorRGB:
		return fmt.Sprintf("#%02x%02x%02x", c.r, c.g, c.b)
	default:
		return "default"
	}
}

func (c Color) termenv() termenv.Color {
	switch c.typ {
	case ColorANSI:
		if c.r < 16 {
			return termenv.ANSIColor(c.r)
		}
		return termenv.ANSI256Color(c.r)
	case ColorRGB:
		return termenv.RGBColor(c.String())
	default:
		return termenv.NoColor{}
	}
}

// sgr returns the SGR parameters selecting c as foreground or background
// under profile. It is empty when the profile cannot show the color.
func (c Color) sgr(profile termenv.Profile, background bool) string {
	if c.IsDefault() {
		if background {
			return "49"
		}
		return "39"
	}
	return profile.Convert(c.termenv()).Sequence(background)
}
