package liveterm

import (
	"strings"

	"github.com/muesli/termenv"
)

// CommandKind is the category a command belongs to for line accounting.
type CommandKind uint8

const (
	// CommandText is literal text with no embedded newline.
	CommandText CommandKind = iota
	// CommandNewline ends the current line.
	CommandNewline
	// CommandDirective is anything else: attribute requests and the SGR
	// sequences that realize them.
	CommandDirective
)

// Command is one unit of section output.
type Command interface {
	Kind() CommandKind
	// Apply mutates state. Attribute requests change only the deferred side.
	Apply(state *SectionState)
	// AppendTo writes the command's terminal representation.
	AppendTo(b *strings.Builder, profile termenv.Profile)
}

// TextCommand is literal text. It never contains a newline.
type TextCommand string

// Text returns a text command. Use Lines to split text that may hold newlines.
func Text(s string) TextCommand {
	if strings.ContainsRune(s, '\n') {
		panic("liveterm: text command contains a newline")
	}
	return TextCommand(s)
}

// Lines splits s into text commands separated by newline commands.
func Lines(s string) []Command {
	parts := strings.Split(s, "\n")
	cmds := make([]Command, 0, len(parts)*2)
	for i, p := range parts {
		if i > 0 {
			cmds = append(cmds, Newline)
		}
		if p != "" {
			cmds = append(cmds, TextCommand(p))
		}
	}
	return cmds
}

func (TextCommand) Kind() CommandKind   { return CommandText }
func (TextCommand) Apply(*SectionState) {}
func (c TextCommand) AppendTo(b *strings.Builder, _ termenv.Profile) {
	b.WriteString(string(c))
}

type newlineCommand struct{}

// Newline ends the current line.
var Newline Command = newlineCommand{}

func (newlineCommand) Kind() CommandKind   { return CommandNewline }
func (newlineCommand) Apply(*SectionState) {}
func (newlineCommand) AppendTo(b *strings.Builder, _ termenv.Profile) {
	b.WriteByte('\n')
}

// StyleCommand requests an attribute change. It produces no output itself;
// the change reaches the terminal when the next text is written.
type StyleCommand struct {
	name   string
	modify func(Style) Style
}

func (c StyleCommand) Kind() CommandKind { return CommandDirective }

func (c StyleCommand) Apply(state *SectionState) {
	state.deferred = c.modify(state.deferred)
}

func (StyleCommand) AppendTo(*strings.Builder, termenv.Profile) {}

func (c StyleCommand) String() string { return c.name }

// SetColor requests foreground color c.
func SetColor(c Color) StyleCommand {
	return StyleCommand{name: "color " + c.String(), modify: func(s Style) Style { s.Fg = c; return s }}
}

// SetBackground requests background color c.
func SetBackground(c Color) StyleCommand {
	return StyleCommand{name: "background " + c.String(), modify: func(s Style) Style { s.Bg = c; return s }}
}

// SetAttr turns attr on or off.
func SetAttr(attr Attr, on bool) StyleCommand {
	return StyleCommand{name: "attr", modify: func(s Style) Style { return s.withAttr(attr, on) }}
}

// ResetStyle requests the default style.
func ResetStyle() StyleCommand {
	return StyleCommand{name: "reset", modify: func(Style) Style { return Style{} }}
}

// sgrCommand moves the terminal from one style to another. The renderer
// emits it when reconciling deferred attributes ahead of text.
type sgrCommand struct {
	from, to Style
	reset    bool
}

func (sgrCommand) Kind() CommandKind { return CommandDirective }

// Apply records that the terminal now shows the target style.
func (c sgrCommand) Apply(state *SectionState) {
	*state.applied = c.to
}

func (c sgrCommand) AppendTo(b *strings.Builder, profile termenv.Profile) {
	if profile == termenv.Ascii {
		return
	}
	var params []string
	if c.reset {
		params = []string{termenv.ResetSeq}
	} else {
		params = c.to.sgr(c.from, profile)
	}
	if len(params) == 0 {
		return
	}
	b.WriteString(termenv.CSI)
	b.WriteString(strings.Join(params, ";"))
	b.WriteByte('m')
}
