package liveterm

import (
	"context"
	"strings"
	"sync"
)

// VirtualTerminal is an in-memory Terminal. It records everything written
// and lets callers inject key presses, which makes it the backend for tests
// and for rendering sections without a tty.
type VirtualTerminal struct {
	mu            sync.Mutex
	width, height int
	output        strings.Builder
	writes        int
	closed        bool
	keys          keyFanout
}

// Ensure VirtualTerminal implements Terminal.
var _ Terminal = (*VirtualTerminal)(nil)

// NewVirtualTerminal creates a virtual terminal with the given dimensions.
func NewVirtualTerminal(width, height int) *VirtualTerminal {
	return &VirtualTerminal{width: width, height: height}
}

// Write appends text to the captured output.
func (v *VirtualTerminal) Write(text string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed {
		return ErrTerminalClosed
	}
	v.output.WriteString(text)
	v.writes++
	return nil
}

// Keys subscribes to injected key presses.
func (v *VirtualTerminal) Keys(ctx context.Context) <-chan KeyEvent {
	return v.keys.subscribe(ctx)
}

// Clear discards the captured output.
func (v *VirtualTerminal) Clear() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed {
		return ErrTerminalClosed
	}
	v.output.Reset()
	return nil
}

// Close stops key delivery. Further writes fail.
func (v *VirtualTerminal) Close() error {
	v.mu.Lock()
	v.closed = true
	v.mu.Unlock()

	v.keys.close()
	return nil
}

// Size returns the terminal dimensions.
func (v *VirtualTerminal) Size() (width, height int) {
	return v.width, v.height
}

// SendKeys delivers key presses to every subscriber. It blocks until each
// subscriber has buffered them.
func (v *VirtualTerminal) SendKeys(keys ...KeyEvent) {
	v.keys.publish(keys...)
}

// Type sends s one rune at a time. A newline is sent as Enter and a
// backspace character as Backspace.
func (v *VirtualTerminal) Type(s string) {
	v.SendKeys(stringToKeys(s)...)
}

// Output returns everything written since creation or the last Clear.
func (v *VirtualTerminal) Output() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.output.String()
}

// Screen returns the visible lines after replaying the captured output.
func (v *VirtualTerminal) Screen() []string {
	return ResolveScreen(v.Output())
}

// Writes returns the number of Write calls so far.
func (v *VirtualTerminal) Writes() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.writes
}

// Subscribers returns the number of live key subscriptions.
func (v *VirtualTerminal) Subscribers() int {
	return v.keys.subscribers()
}
