package liveterm

import (
	"log/slog"
	"testing"
	"time"

	"github.com/muesli/termenv"
)

// newTestSession returns a session rendering to a fresh 80x24 virtual
// terminal with 256-color output and a discarding logger.
func newTestSession(t *testing.T, opts ...SessionOption) (*Session, *VirtualTerminal) {
	t.Helper()
	term := NewVirtualTerminal(80, 24)
	base := []SessionOption{
		WithTerminal(term),
		WithColorProfile(termenv.ANSI256),
		WithLogger(slog.New(slog.DiscardHandler)),
	}
	s, err := NewSession(append(base, opts...)...)
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s, term
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(time.Millisecond)
	}
}

// returnsWithin runs fn on its own goroutine and fails the test if fn has
// not returned after two seconds.
func returnsWithin(t *testing.T, what string, fn func()) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		defer close(done)
		fn()
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("%s did not return", what)
	}
}

func equalLines(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
