package liveterm

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/grindlemire/liveterm/internal/clock"
	"github.com/muesli/termenv"
)

// SessionOption is a functional option for configuring a Session.
type SessionOption func(*Session) error

// WithTerminal renders to term instead of the system terminal. The session
// does not close a terminal it was given.
func WithTerminal(term Terminal) SessionOption {
	return func(s *Session) error {
		if term == nil {
			return errors.New("terminal must not be nil")
		}
		s.terminal = term
		return nil
	}
}

// WithFrameRate caps how often a running section repaints. Writes that land
// within one frame share a single pass.
// Default is 60 fps. Valid range is 1-240 fps.
func WithFrameRate(fps int) SessionOption {
	return func(s *Session) error {
		if fps < 1 {
			return fmt.Errorf("frame rate must be at least 1 fps")
		}
		if fps > 240 {
			return fmt.Errorf("frame rate cannot exceed 240 fps")
		}
		s.frameDuration = time.Second / time.Duration(fps)
		return nil
	}
}

// WithTimerInterval sets how often timers are checked. Default is 10ms.
func WithTimerInterval(d time.Duration) SessionOption {
	return func(s *Session) error {
		if d <= 0 {
			return fmt.Errorf("timer interval must be positive")
		}
		s.timerInterval = d
		return nil
	}
}

// WithColorProfile overrides the color profile detected from the
// environment.
func WithColorProfile(p termenv.Profile) SessionOption {
	return func(s *Session) error {
		s.profile = p
		s.profileSet = true
		return nil
	}
}

// WithLogger sets the logger for session diagnostics.
func WithLogger(l *slog.Logger) SessionOption {
	return func(s *Session) error {
		if l == nil {
			return errors.New("logger must not be nil")
		}
		s.logger = l
		return nil
	}
}

// withClock drives timers from c. Tests use a fake clock.
func withClock(c clock.Clock) SessionOption {
	return func(s *Session) error {
		s.clock = c
		return nil
	}
}
