package liveterm

import "testing"

func TestApplyKey(t *testing.T) {
	type tc struct {
		text       string
		cursor     int
		keys       []KeyEvent
		wantText   string
		wantCursor int
	}

	key := func(k Key) KeyEvent { return KeyEvent{Key: k} }

	tests := map[string]tc{
		"insert at end": {
			keys:       stringToKeys("ab"),
			wantText:   "ab",
			wantCursor: 2,
		},
		"insert in middle": {
			text: "ac", cursor: 1,
			keys:       []KeyEvent{RuneKey('b')},
			wantText:   "abc",
			wantCursor: 2,
		},
		"backspace": {
			text: "abc", cursor: 3,
			keys:       []KeyEvent{key(KeyBackspace)},
			wantText:   "ab",
			wantCursor: 2,
		},
		"backspace at start": {
			text: "abc", cursor: 0,
			keys:       []KeyEvent{key(KeyBackspace)},
			wantText:   "abc",
			wantCursor: 0,
		},
		"delete": {
			text: "abc", cursor: 1,
			keys:       []KeyEvent{key(KeyDelete)},
			wantText:   "ac",
			wantCursor: 1,
		},
		"delete at end": {
			text: "abc", cursor: 3,
			keys:       []KeyEvent{key(KeyDelete)},
			wantText:   "abc",
			wantCursor: 3,
		},
		"arrows clamp": {
			text: "ab", cursor: 1,
			keys:       []KeyEvent{key(KeyLeft), key(KeyLeft), key(KeyRight), key(KeyRight), key(KeyRight)},
			wantText:   "ab",
			wantCursor: 2,
		},
		"home and end": {
			text: "abc", cursor: 1,
			keys:       []KeyEvent{key(KeyEnd), RuneKey('d'), key(KeyHome), RuneKey('_')},
			wantText:   "_abcd",
			wantCursor: 1,
		},
		"ctrl a and e": {
			text: "abc", cursor: 1,
			keys:       []KeyEvent{CtrlKey('a'), RuneKey('>'), CtrlKey('e')},
			wantText:   ">abc",
			wantCursor: 4,
		},
		"ctrl u kills to start": {
			text: "hello world", cursor: 6,
			keys:       []KeyEvent{CtrlKey('u')},
			wantText:   "world",
			wantCursor: 0,
		},
		"alt runes ignored": {
			text: "a", cursor: 1,
			keys:       []KeyEvent{{Key: KeyRune, Rune: 'x', Mod: ModAlt}},
			wantText:   "a",
			wantCursor: 1,
		},
		"enter leaves text": {
			text: "a", cursor: 1,
			keys:       []KeyEvent{key(KeyEnter)},
			wantText:   "a",
			wantCursor: 1,
		},
		"wide runes": {
			keys:       stringToKeys("日本"),
			wantText:   "日本",
			wantCursor: 2,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			st := &inputState{text: []rune(tt.text), cursor: tt.cursor}
			for _, ev := range tt.keys {
				applyKey(st, ev)
			}
			if got := string(st.text); got != tt.wantText {
				t.Errorf("text = %q, want %q", got, tt.wantText)
			}
			if st.cursor != tt.wantCursor {
				t.Errorf("cursor = %d, want %d", st.cursor, tt.wantCursor)
			}
		})
	}
}

func TestVisibleInput(t *testing.T) {
	type tc struct {
		text       string
		cursor     int
		width      int
		wantText   string
		wantCursor int
	}

	tests := map[string]tc{
		"fits": {
			text: "abc", cursor: 3, width: 10,
			wantText: "abc", wantCursor: 3,
		},
		"scrolls to keep cursor cell": {
			text: "abcdef", cursor: 6, width: 4,
			wantText: "def", wantCursor: 3,
		},
		"cursor near start keeps head": {
			text: "abcdef", cursor: 1, width: 4,
			wantText: "abcdef", wantCursor: 1,
		},
		"wide runes count two columns": {
			text: "日本語", cursor: 3, width: 5,
			wantText: "本語", wantCursor: 2,
		},
		"wide rune straddling the edge is dropped whole": {
			text: "日本語", cursor: 3, width: 4,
			wantText: "語", wantCursor: 1,
		},
		"narrow rune after a dropped wide rune": {
			text: "a日b", cursor: 3, width: 3,
			wantText: "b", wantCursor: 1,
		},
		"unknown width": {
			text: "abc", cursor: 2, width: 0,
			wantText: "abc", wantCursor: 2,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			visible, at := visibleInput([]rune(tt.text), tt.cursor, tt.width)
			if string(visible) != tt.wantText || at != tt.wantCursor {
				t.Errorf("visibleInput() = %q, %d, want %q, %d", string(visible), at, tt.wantText, tt.wantCursor)
			}
		})
	}
}
