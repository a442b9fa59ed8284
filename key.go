package liveterm

import (
	"strings"
	"unicode/utf8"
)

// Key represents a keyboard key.
type Key uint16

const (
	// KeyNone represents no key (zero value).
	KeyNone Key = iota

	// KeyRune represents a printable character. Check KeyEvent.Rune for the character.
	KeyRune

	// Special keys
	KeyEscape
	KeyEnter
	KeyTab
	KeyBackspace
	KeyDelete
	KeyInsert

	// Arrow keys
	KeyUp
	KeyDown
	KeyLeft
	KeyRight

	// Navigation keys
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown

	// Function keys
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12

	// KeyCtrl is a control chord; KeyEvent.Rune holds the lowercase letter.
	KeyCtrl
)

var keyNames = map[Key]string{
	KeyNone:      "None",
	KeyRune:      "Rune",
	KeyEscape:    "Escape",
	KeyEnter:     "Enter",
	KeyTab:       "Tab",
	KeyBackspace: "Backspace",
	KeyDelete:    "Delete",
	KeyInsert:    "Insert",
	KeyUp:        "Up",
	KeyDown:      "Down",
	KeyLeft:      "Left",
	KeyRight:     "Right",
	KeyHome:      "Home",
	KeyEnd:       "End",
	KeyPageUp:    "PageUp",
	KeyPageDown:  "PageDown",
	KeyF1:        "F1",
	KeyF2:        "F2",
	KeyF3:        "F3",
	KeyF4:        "F4",
	KeyF5:        "F5",
	KeyF6:        "F6",
	KeyF7:        "F7",
	KeyF8:        "F8",
	KeyF9:        "F9",
	KeyF10:       "F10",
	KeyF11:       "F11",
	KeyF12:       "F12",
	KeyCtrl:      "Ctrl",
}

// String returns a human-readable representation of the key.
func (k Key) String() string {
	if name, ok := keyNames[k]; ok {
		return name
	}
	return "Unknown"
}

// Modifier represents keyboard modifier flags.
type Modifier uint8

const (
	// ModNone represents no modifiers.
	ModNone Modifier = 0
	// ModCtrl represents the Ctrl modifier.
	ModCtrl Modifier = 1 << iota
	// ModAlt represents the Alt modifier.
	ModAlt
	// ModShift represents the Shift modifier.
	ModShift
)

// Has checks if the modifier set includes the given modifier.
func (m Modifier) Has(mod Modifier) bool {
	return m&mod != 0
}

// String returns a human-readable representation of the modifiers.
func (m Modifier) String() string {
	if m == ModNone {
		return "None"
	}

	var parts []string
	if m.Has(ModCtrl) {
		parts = append(parts, "Ctrl")
	}
	if m.Has(ModAlt) {
		parts = append(parts, "Alt")
	}
	if m.Has(ModShift) {
		parts = append(parts, "Shift")
	}
	return strings.Join(parts, "+")
}

// KeyEvent is one decoded key press.
type KeyEvent struct {
	Key  Key
	Rune rune
	Mod  Modifier
}

// RuneKey returns the event for typing r.
func RuneKey(r rune) KeyEvent {
	return KeyEvent{Key: KeyRune, Rune: r}
}

// CtrlKey returns the event for Ctrl plus the letter r.
func CtrlKey(r rune) KeyEvent {
	return KeyEvent{Key: KeyCtrl, Rune: r, Mod: ModCtrl}
}

// IsRune reports whether the event is the printable character r.
func (e KeyEvent) IsRune(r rune) bool {
	return e.Key == KeyRune && e.Rune == r
}

// IsCtrl reports whether the event is Ctrl plus the letter r.
func (e KeyEvent) IsCtrl(r rune) bool {
	return e.Key == KeyCtrl && e.Rune == r
}

// String returns a human-readable representation of the event.
func (e KeyEvent) String() string {
	var b strings.Builder
	if e.Mod != ModNone && e.Key != KeyCtrl {
		b.WriteString(e.Mod.String())
		b.WriteByte('+')
	}
	switch e.Key {
	case KeyRune:
		b.WriteRune(e.Rune)
	case KeyCtrl:
		b.WriteString("Ctrl+")
		b.WriteString(strings.ToUpper(string(e.Rune)))
	default:
		b.WriteString(e.Key.String())
	}
	return b.String()
}

// stringToKeys converts typed text into rune events. Newlines become Enter
// and backspace characters become Backspace.
func stringToKeys(s string) []KeyEvent {
	events := make([]KeyEvent, 0, utf8.RuneCountInString(s))
	for _, r := range s {
		switch r {
		case '\n':
			events = append(events, KeyEvent{Key: KeyEnter})
		case '\b':
			events = append(events, KeyEvent{Key: KeyBackspace})
		default:
			events = append(events, RuneKey(r))
		}
	}
	return events
}
