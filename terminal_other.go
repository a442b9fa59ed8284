//go:build !unix

package liveterm

// NewSystemTerminal is only available on unix platforms. Elsewhere it
// reports ErrNotATerminal; use a VirtualTerminal instead.
func NewSystemTerminal() (Terminal, error) {
	return nil, ErrNotATerminal
}
