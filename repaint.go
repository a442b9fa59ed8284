package liveterm

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// paintRegion tracks the rows a section's last pass occupies, ending with
// the row the cursor was left on after the trailing newline.
type paintRegion struct {
	rows int
}

// erase appends the sequence that blanks the region and leaves the cursor
// at its top-left corner. It writes nothing before the first pass.
func (p *paintRegion) erase(b *strings.Builder) {
	if p.rows == 0 {
		return
	}
	b.WriteByte('\r')
	b.WriteString(ansi.EraseLineRight)
	for i := 1; i < p.rows; i++ {
		b.WriteString(ansi.CursorPreviousLine(1))
		b.WriteString(ansi.EraseLineRight)
	}
}

// record remembers the footprint of text, written at width columns.
func (p *paintRegion) record(text string, width int) {
	p.rows = countRows(text, width)
}

// countRows returns the physical rows text occupies once written, counting
// terminal wrapping of long lines and the row holding the cursor. Text that
// renders nothing still occupies the cursor row.
func countRows(text string, width int) int {
	lines := strings.Split(text, "\n")
	rows := 0
	for _, line := range lines[:len(lines)-1] {
		rows += wrappedRows(ansi.StringWidth(line), width)
	}
	// The final segment is where the cursor rests.
	last := lines[len(lines)-1]
	return rows + wrappedRows(ansi.StringWidth(last), width)
}

func wrappedRows(cells, width int) int {
	if width <= 0 || cells <= width {
		return 1
	}
	return (cells + width - 1) / width
}
