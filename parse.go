package liveterm

import "unicode/utf8"

// parseInput decodes raw terminal bytes into key events.
// Handles:
// - printable characters (including multi-byte UTF-8) -> KeyRune
// - control characters (0x00-0x1F) -> Enter/Tab/Backspace/Escape or KeyCtrl
// - CSI sequences (\x1b[...) -> arrows, navigation and function keys with modifiers
// - SS3 sequences (\x1bO...) -> arrows and F1-F4
// - Alt+key: \x1b + printable -> KeyRune with ModAlt
func parseInput(data []byte) []KeyEvent {
	var events []KeyEvent
	i := 0

	for i < len(data) {
		b := data[i]

		if b == 0x1b {
			if i+1 >= len(data) {
				// Lone escape at end of the read.
				events = append(events, KeyEvent{Key: KeyEscape})
				i++
				continue
			}

			switch next := data[i+1]; next {
			case '[':
				key, mod, consumed := parseCSISequence(data[i:])
				if consumed > 0 {
					if key != KeyNone {
						events = append(events, KeyEvent{Key: key, Mod: mod})
					}
					i += consumed
					continue
				}
			case 'O':
				if i+2 < len(data) {
					if key := parseSS3(data[i+2]); key != KeyNone {
						events = append(events, KeyEvent{Key: key})
						i += 3
						continue
					}
				}
			default:
				if next >= 0x20 && next < 0x7f {
					events = append(events, KeyEvent{Key: KeyRune, Rune: rune(next), Mod: ModAlt})
					i += 2
					continue
				}
			}
			events = append(events, KeyEvent{Key: KeyEscape})
			i++
			continue
		}

		if b < 0x20 {
			if ev, ok := controlToKey(b); ok {
				events = append(events, ev)
			}
			i++
			continue
		}

		// DEL is backspace on most terminals
		if b == 0x7f {
			events = append(events, KeyEvent{Key: KeyBackspace})
			i++
			continue
		}

		r, size := utf8.DecodeRune(data[i:])
		if r == utf8.RuneError && size == 1 {
			i++
			continue
		}
		events = append(events, RuneKey(r))
		i += size
	}

	return events
}

// controlToKey converts a control character (0x00-0x1F) to a key event.
func controlToKey(b byte) (KeyEvent, bool) {
	switch b {
	case 0x00: // Ctrl+Space
		return CtrlKey(' '), true
	case 0x08: // Ctrl+H, backspace on some terminals
		return KeyEvent{Key: KeyBackspace}, true
	case 0x09:
		return KeyEvent{Key: KeyTab}, true
	case 0x0a, 0x0d:
		return KeyEvent{Key: KeyEnter}, true
	case 0x1b:
		return KeyEvent{Key: KeyEscape}, true
	}
	if b >= 0x01 && b <= 0x1a {
		return CtrlKey(rune('a' + b - 1)), true
	}
	return KeyEvent{}, false
}

// parseCSISequence parses a CSI escape sequence starting at data[0].
// Returns the key, modifier, and number of bytes consumed, or a zero
// consumed count if the sequence is malformed or incomplete.
func parseCSISequence(data []byte) (Key, Modifier, int) {
	if len(data) < 3 || data[0] != 0x1b || data[1] != '[' {
		return KeyNone, ModNone, 0
	}

	var params []int
	current := 0
	hasParam := false

	for i := 2; i < len(data); i++ {
		b := data[i]
		switch {
		case b >= '0' && b <= '9':
			current = current*10 + int(b-'0')
			hasParam = true
		case b == ';':
			params = append(params, current)
			current = 0
			hasParam = false
		case b >= 0x40 && b <= 0x7e:
			if hasParam {
				params = append(params, current)
			}
			key, mod := parseCSI(params, b)
			return key, mod, i + 1
		default:
			return KeyNone, ModNone, 0
		}
	}
	return KeyNone, ModNone, 0
}

var csiFinalKeys = map[byte]Key{
	'A': KeyUp,
	'B': KeyDown,
	'C': KeyRight,
	'D': KeyLeft,
	'H': KeyHome,
	'F': KeyEnd,
	'P': KeyF1,
	'Q': KeyF2,
	'R': KeyF3,
	'S': KeyF4,
}

var csiTildeKeys = map[int]Key{
	1:  KeyHome,
	2:  KeyInsert,
	3:  KeyDelete,
	4:  KeyEnd,
	5:  KeyPageUp,
	6:  KeyPageDown,
	11: KeyF1,
	12: KeyF2,
	13: KeyF3,
	14: KeyF4,
	15: KeyF5,
	17: KeyF6,
	18: KeyF7,
	19: KeyF8,
	20: KeyF9,
	21: KeyF10,
	23: KeyF11,
	24: KeyF12,
}

// parseCSI maps a complete CSI sequence to a key.
func parseCSI(params []int, final byte) (Key, Modifier) {
	mod := ModNone
	// xterm style: CSI 1;mod X
	if len(params) >= 2 {
		mod = decodeModifier(params[1])
	}

	switch final {
	case '~':
		if len(params) == 0 {
			return KeyNone, ModNone
		}
		if key, ok := csiTildeKeys[params[0]]; ok {
			return key, mod
		}
		return KeyNone, ModNone
	case 'Z':
		// Backtab
		return KeyTab, ModShift
	}
	if key, ok := csiFinalKeys[final]; ok {
		return key, mod
	}
	return KeyNone, ModNone
}

// parseSS3 maps the final byte of an SS3 sequence to a key.
func parseSS3(b byte) Key {
	switch b {
	case 'A', 'B', 'C', 'D', 'H', 'F', 'P', 'Q', 'R', 'S':
		return csiFinalKeys[b]
	}
	return KeyNone
}

// decodeModifier decodes the xterm modifier parameter:
// 1 + (shift ? 1 : 0) + (alt ? 2 : 0) + (ctrl ? 4 : 0).
func decodeModifier(param int) Modifier {
	if param <= 1 {
		return ModNone
	}

	flags := param - 1
	var mod Modifier
	if flags&1 != 0 {
		mod |= ModShift
	}
	if flags&2 != 0 {
		mod |= ModAlt
	}
	if flags&4 != 0 {
		mod |= ModCtrl
	}
	return mod
}
