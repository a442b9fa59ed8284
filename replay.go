package liveterm

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// ResolveScreen replays captured terminal output and returns the lines left
// visible, top to bottom. It understands the subset of sequences sections
// emit: carriage return, newline, erase in line, and cursor movement to
// previous lines. Styling sequences are ignored, and lines never wrap.
//
// Trailing blank rows, including the one the cursor rests on after a final
// newline, are not part of the result.
func ResolveScreen(output string) []string {
	s := screenReplay{rows: [][]string{nil}}
	s.write(output)
	return s.lines()
}

type screenReplay struct {
	rows     [][]string
	row, col int
}

func (s *screenReplay) write(output string) {
	var state byte
	for len(output) > 0 {
		seq, width, n, newState := ansi.DecodeSequence(output, state, nil)
		state = newState
		output = output[n:]

		if width > 0 {
			s.put(seq, width)
			continue
		}
		switch {
		case seq == "\r":
			s.col = 0
		case seq == "\n":
			s.row++
			s.col = 0
			if s.row == len(s.rows) {
				s.rows = append(s.rows, nil)
			}
		case strings.HasPrefix(seq, "\x1b["):
			s.csi(seq[2:])
		}
	}
}

// put writes a grapheme of the given cell width at the cursor.
func (s *screenReplay) put(g string, width int) {
	line := s.rows[s.row]
	end := s.col + width
	for len(line) < end {
		line = append(line, " ")
	}
	line[s.col] = g
	for i := s.col + 1; i < end; i++ {
		line[i] = ""
	}
	s.rows[s.row] = line
	s.col = end
}

func (s *screenReplay) csi(body string) {
	if body == "" {
		return
	}
	final := body[len(body)-1]
	param := body[:len(body)-1]
	count := 1
	if v, err := strconv.Atoi(param); err == nil && v > 0 {
		count = v
	}

	line := s.rows[s.row]
	switch final {
	case 'K':
		switch param {
		case "", "0":
			if s.col < len(line) {
				s.rows[s.row] = line[:s.col]
			}
		case "1":
			for i := 0; i <= s.col && i < len(line); i++ {
				line[i] = " "
			}
		case "2":
			s.rows[s.row] = nil
		}
	case 'F':
		s.row = max(0, s.row-count)
		s.col = 0
	case 'A':
		s.row = max(0, s.row-count)
	case 'G':
		s.col = count - 1
	}
}

func (s *screenReplay) lines() []string {
	out := make([]string, 0, len(s.rows))
	for _, cells := range s.rows {
		out = append(out, strings.TrimRight(strings.Join(cells, ""), " "))
	}
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return out
}
