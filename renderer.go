package liveterm

import (
	"fmt"
	"runtime/debug"
	"strings"

	"github.com/muesli/termenv"
)

// Renderer runs render callbacks into an ordered command list. A Renderer
// is used by one render pass at a time.
type Renderer struct {
	profile  termenv.Profile
	state    *SectionState
	commands []Command
}

// NewRenderer creates a renderer that encodes colors for profile.
func NewRenderer(profile termenv.Profile) *Renderer {
	return &Renderer{profile: profile, state: NewSectionState()}
}

// RenderError wraps a panic recovered from a render callback.
type RenderError struct {
	Value any
	Stack []byte
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("liveterm: render panicked: %v", e.Value)
}

// Render clears the previous output, runs fn, and terminates the output with
// a full reset followed by a newline. A panic in fn discards whatever fn
// emitted and is returned as a *RenderError; the reset and newline are still
// written so a failed pass leaves the terminal sane.
func (r *Renderer) Render(fn func(r *Renderer)) (err error) {
	r.commands = r.commands[:0]
	r.state = NewSectionState()

	defer r.finish()
	defer func() {
		if v := recover(); v != nil {
			r.commands = r.commands[:0]
			r.state = NewSectionState()
			err = &RenderError{Value: v, Stack: debug.Stack()}
		}
	}()

	fn(r)
	return nil
}

func (r *Renderer) finish() {
	reset := sgrCommand{from: r.state.Applied(), reset: true}
	if n := len(r.commands); n > 0 && r.commands[n-1].Kind() == CommandNewline {
		r.commands = append(r.commands[:n-1], reset, Newline)
	} else {
		r.commands = append(r.commands, reset, Newline)
	}
	reset.Apply(r.state)
	for r.state.parent != nil {
		r.state = r.state.parent
	}
	r.state.deferred = Style{}
}

// Append adds cmd to the pass. Style requests are folded into the current
// state; text first flushes any pending attribute change, and a newline
// first clears an applied background so it does not bleed past the line.
func (r *Renderer) Append(cmd Command) {
	switch cmd.Kind() {
	case CommandText:
		if t, ok := cmd.(TextCommand); ok && t == "" {
			return
		}
		if r.state.dirty() {
			r.emit(sgrCommand{from: r.state.Applied(), to: r.state.Deferred()})
		}
		r.emit(cmd)
	case CommandNewline:
		if applied := r.state.Applied(); !applied.Bg.IsDefault() {
			cleared := applied
			cleared.Bg = Color{}
			r.emit(sgrCommand{from: applied, to: cleared})
		}
		r.emit(cmd)
	default:
		cmd.Apply(r.state)
	}
}

func (r *Renderer) emit(cmd Command) {
	cmd.Apply(r.state)
	r.commands = append(r.commands, cmd)
}

// PushState opens an attribute scope.
func (r *Renderer) PushState() { r.state = r.state.Push() }

// PopState closes the innermost attribute scope.
func (r *Renderer) PopState() { r.state = r.state.Pop() }

// State returns the current attribute state.
func (r *Renderer) State() *SectionState { return r.state }

// Commands returns the commands of the last pass.
func (r *Renderer) Commands() []Command { return r.commands }

// Profile returns the color profile commands are encoded for.
func (r *Renderer) Profile() termenv.Profile { return r.profile }

// String encodes the last pass for the terminal.
func (r *Renderer) String() string {
	var b strings.Builder
	for _, cmd := range r.commands {
		cmd.AppendTo(&b, r.profile)
	}
	return b.String()
}
