package liveterm

import (
	"fmt"
	"time"
)

// RenderScope is handed to a section's render function. Text and style
// calls append to the current pass; styles apply to text written after them
// until changed or until the enclosing Scoped block ends.
type RenderScope struct {
	section *Section
	r       *Renderer
	aside   bool
}

// Append adds a raw command to the pass.
func (s *RenderScope) Append(cmds ...Command) {
	for _, cmd := range cmds {
		s.r.Append(cmd)
	}
}

// Text writes text. Embedded newlines end lines.
func (s *RenderScope) Text(text string) {
	s.Append(Lines(text)...)
}

// Textf writes formatted text.
func (s *RenderScope) Textf(format string, args ...any) {
	s.Text(fmt.Sprintf(format, args...))
}

// Textln writes text followed by a newline.
func (s *RenderScope) Textln(text string) {
	s.Text(text)
	s.Newline()
}

// Newline ends the current line.
func (s *RenderScope) Newline() {
	s.r.Append(Newline)
}

// Color sets the foreground color.
func (s *RenderScope) Color(c Color) { s.r.Append(SetColor(c)) }

// ClearColor restores the default foreground color.
func (s *RenderScope) ClearColor() { s.r.Append(SetColor(Color{})) }

// Background sets the background color.
func (s *RenderScope) Background(c Color) { s.r.Append(SetBackground(c)) }

// ClearBackground restores the default background color.
func (s *RenderScope) ClearBackground() { s.r.Append(SetBackground(Color{})) }

func (s *RenderScope) Bold()               { s.r.Append(SetAttr(AttrBold, true)) }
func (s *RenderScope) ClearBold()          { s.r.Append(SetAttr(AttrBold, false)) }
func (s *RenderScope) Underline()          { s.r.Append(SetAttr(AttrUnderline, true)) }
func (s *RenderScope) ClearUnderline()     { s.r.Append(SetAttr(AttrUnderline, false)) }
func (s *RenderScope) Strikethrough()      { s.r.Append(SetAttr(AttrStrikethrough, true)) }
func (s *RenderScope) ClearStrikethrough() { s.r.Append(SetAttr(AttrStrikethrough, false)) }
func (s *RenderScope) Invert()             { s.r.Append(SetAttr(AttrInverted, true)) }
func (s *RenderScope) ClearInvert()        { s.r.Append(SetAttr(AttrInverted, false)) }

// Reset restores default styling.
func (s *RenderScope) Reset() { s.r.Append(ResetStyle()) }

// Scoped runs fn in a nested attribute scope. Styles set inside fn do not
// outlive it.
func (s *RenderScope) Scoped(fn func()) {
	s.r.PushState()
	defer s.r.PopState()
	fn()
}

// Width returns the terminal width in cells.
func (s *RenderScope) Width() int {
	w, _ := s.section.session.terminal.Size()
	return w
}

// Data returns the session store.
func (s *RenderScope) Data() *Store { return s.section.session.data }

// AddTimer schedules a timer on the section's run, as RunScope.AddTimer
// does. Pass a key so repeated passes do not stack timers.
func (s *RenderScope) AddTimer(d time.Duration, repeat bool, key any, fn func(t *TimerScope)) {
	addTimer(s.section.session, d, repeat, key, fn)
}

// Input renders the section's editable input line. While the section runs,
// the cursor is drawn as an inverted cell.
func (s *RenderScope) Input() {
	text, cursor, ok := snapshotInput(s.section)
	if !ok {
		return
	}
	if s.aside || !s.section.session.data.IsActive(RunLifecycle) {
		s.Text(string(text))
		return
	}

	visible, at := visibleInput(text, cursor, s.Width())
	s.Text(string(visible[:at]))
	s.Scoped(func() {
		s.Invert()
		if at < len(visible) {
			s.Text(string(visible[at]))
		} else {
			s.Text(" ")
		}
	})
	if at+1 < len(visible) {
		s.Text(string(visible[at+1:]))
	}
}
