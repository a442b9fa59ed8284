package liveterm

import (
	"slices"

	"github.com/grindlemire/liveterm/internal/scoped"
	"github.com/mattn/go-runewidth"
)

// inputKey holds the section's single-line input. It lives for the whole
// section so the final frame still shows what was typed.
var inputKey = NewKey[*inputState]("input", SectionLifecycle)

type inputState struct {
	text   []rune
	cursor int
}

// InputChangedScope describes an edit of the section's input.
type InputChangedScope struct {
	Input    string
	Previous string
	rejected bool
}

// Reject undoes the edit.
func (s *InputChangedScope) Reject() { s.rejected = true }

// InputEnteredScope describes Enter pressed on the section's input.
type InputEnteredScope struct {
	Input    string
	clear    bool
	rejected bool
}

// Clear empties the input after the handler returns.
func (s *InputEnteredScope) Clear() { s.clear = true }

// Reject marks the entry as refused. The text is kept for further editing
// and the handler will be called again on the next Enter.
func (s *InputEnteredScope) Reject() { s.rejected = true }

// Rejected reports whether Reject was called.
func (s *InputEnteredScope) Rejected() bool { return s.rejected }

// editInput applies ev to the section's input if the section rendered one.
// It reports whether the input changed.
func editInput(sec *Section, ev KeyEvent, changed []func(*InputChangedScope), entered func(*InputEnteredScope)) bool {
	data := sec.session.data

	var (
		present bool
		before  []rune
		after   []rune
		cursor  int
	)
	data.Write(func(tx *Tx) {
		st, ok := scoped.Get(tx, inputKey)
		if !ok {
			return
		}
		present = true
		before = slices.Clone(st.text)
		applyKey(st, ev)
		after = slices.Clone(st.text)
		cursor = st.cursor
	})
	if !present {
		return false
	}

	if ev.Key == KeyEnter {
		if entered == nil {
			return false
		}
		scope := &InputEnteredScope{Input: string(before)}
		entered(scope)
		if scope.clear && !scope.rejected {
			setInput(sec, nil, 0)
			return true
		}
		return false
	}

	if slices.Equal(before, after) {
		// Cursor movement only.
		return true
	}
	scope := &InputChangedScope{Input: string(after), Previous: string(before)}
	for _, fn := range changed {
		fn(scope)
		if scope.rejected {
			setInput(sec, before, min(cursor, len(before)))
			return true
		}
	}
	return true
}

// applyKey edits st in place. Enter leaves it unchanged.
func applyKey(st *inputState, ev KeyEvent) {
	switch ev.Key {
	case KeyRune:
		if ev.Mod.Has(ModAlt) {
			return
		}
		st.text = slices.Insert(st.text, st.cursor, ev.Rune)
		st.cursor++
	case KeyBackspace:
		if st.cursor > 0 {
			st.text = slices.Delete(st.text, st.cursor-1, st.cursor)
			st.cursor--
		}
	case KeyDelete:
		if st.cursor < len(st.text) {
			st.text = slices.Delete(st.text, st.cursor, st.cursor+1)
		}
	case KeyLeft:
		st.cursor = max(0, st.cursor-1)
	case KeyRight:
		st.cursor = min(len(st.text), st.cursor+1)
	case KeyHome:
		st.cursor = 0
	case KeyEnd:
		st.cursor = len(st.text)
	case KeyCtrl:
		switch ev.Rune {
		case 'a':
			st.cursor = 0
		case 'e':
			st.cursor = len(st.text)
		case 'u':
			st.text = slices.Delete(st.text, 0, st.cursor)
			st.cursor = 0
		}
	}
}

func setInput(sec *Section, text []rune, cursor int) {
	sec.session.data.Write(func(tx *Tx) {
		if st, ok := scoped.Get(tx, inputKey); ok {
			st.text = slices.Clone(text)
			st.cursor = cursor
		}
	})
}

// snapshotInput returns the input's text and cursor, creating the input if
// the section has none yet.
func snapshotInput(sec *Section) ([]rune, int, bool) {
	var (
		text   []rune
		cursor int
	)
	st, ok := scoped.GetOrPut(sec.session.data, inputKey, func() *inputState { return &inputState{} }, nil)
	if !ok {
		return nil, 0, false
	}
	sec.session.data.Read(func(*Tx) {
		text = slices.Clone(st.text)
		cursor = st.cursor
	})
	return text, cursor, true
}

// visibleInput trims text from the left so the cursor stays within width
// columns. It returns the visible runes and the cursor's index into them.
func visibleInput(text []rune, cursor, width int) ([]rune, int) {
	if width <= 1 {
		return text, cursor
	}
	// Leave a column for the cursor block past the end.
	budget := width - 1
	start := 0
	used := 0
	for i := 0; i < cursor; i++ {
		used += runewidth.RuneWidth(text[i])
	}
	for used > budget && start < cursor {
		used -= runewidth.RuneWidth(text[start])
		start++
	}
	return text[start:], cursor - start
}
