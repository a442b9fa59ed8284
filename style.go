package liveterm

import (
	"strings"

	"github.com/muesli/termenv"
)

// Attr represents text attributes as a bitfield for efficient comparison and storage.
type Attr uint8

const (
	// AttrNone represents no text attributes.
	AttrNone Attr = 0
	// AttrBold makes text bold/bright.
	AttrBold Attr = 1 << iota
	// AttrUnderline underlines the text.
	AttrUnderline
	// AttrStrikethrough draws a line through the text.
	AttrStrikethrough
	// AttrInverted swaps foreground and background colors.
	AttrInverted
)

// attrCodes lists each attribute with its SGR on and off parameters, in the
// order they are emitted.
var attrCodes = []struct {
	attr    Attr
	on, off string
}{
	{AttrBold, termenv.BoldSeq, "22"},
	{AttrUnderline, termenv.UnderlineSeq, "24"},
	{AttrStrikethrough, termenv.CrossOutSeq, "29"},
	{AttrInverted, termenv.ReverseSeq, "27"},
}

// Style combines text attributes with foreground and background colors.
// Zero value represents default styling (no attributes, default colors).
type Style struct {
	Fg    Color
	Bg    Color
	Attrs Attr
}

// HasAttr reports whether the style has the attribute set.
func (s Style) HasAttr(a Attr) bool {
	return s.Attrs&a != 0
}

func (s Style) withAttr(a Attr, on bool) Style {
	if on {
		s.Attrs |= a
	} else {
		s.Attrs &^= a
	}
	return s
}

// sgr returns the SGR parameters that move a terminal showing from to
// showing s, in the order foreground, background, bold, underline,
// strikethrough, inverted.
func (s Style) sgr(from Style, profile termenv.Profile) []string {
	var params []string
	if s.Fg != from.Fg {
		if p := s.Fg.sgr(profile, false); p != "" {
			params = append(params, p)
		}
	}
	if s.Bg != from.Bg {
		if p := s.Bg.sgr(profile, true); p != "" {
			params = append(params, p)
		}
	}
	for _, c := range attrCodes {
		switch {
		case s.HasAttr(c.attr) && !from.HasAttr(c.attr):
			params = append(params, c.on)
		case !s.HasAttr(c.attr) && from.HasAttr(c.attr):
			params = append(params, c.off)
		}
	}
	return params
}

// String returns a debug representation of the style.
func (s Style) String() string {
	parts := []string{"fg=" + s.Fg.String(), "bg=" + s.Bg.String()}
	names := map[Attr]string{
		AttrBold:          "bold",
		AttrUnderline:     "underline",
		AttrStrikethrough: "strikethrough",
		AttrInverted:      "inverted",
	}
	for _, c := range attrCodes {
		if s.HasAttr(c.attr) {
			parts = append(parts, names[c.attr])
		}
	}
	return strings.Join(parts, " ")
}
