package liveterm

import "errors"

var (
	// ErrStopRun ends a section's run early. Returning it from a run block
	// or a background job is treated as normal completion.
	ErrStopRun = errors.New("liveterm: stop run")

	// ErrInterrupted is returned by Run when the user presses Ctrl+C.
	ErrInterrupted = errors.New("liveterm: interrupted")

	// ErrSessionClosed is returned when running a section of a closed session.
	ErrSessionClosed = errors.New("liveterm: session closed")

	// ErrNotATerminal is returned when stdin is not a terminal.
	ErrNotATerminal = errors.New("liveterm: not a terminal")
)
