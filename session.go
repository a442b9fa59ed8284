package liveterm

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/grindlemire/liveterm/internal/clock"
	"github.com/grindlemire/liveterm/internal/debug"
	"github.com/grindlemire/liveterm/internal/scoped"
	"github.com/muesli/termenv"
)

const (
	defaultFrameDuration = time.Second / 60
	defaultTimerInterval = 10 * time.Millisecond
)

// Session owns a terminal and the sections rendered to it. At most one
// section is active at a time; starting another supersedes it, leaving the
// old one's output on screen as history.
type Session struct {
	terminal     Terminal
	ownsTerminal bool

	profile       termenv.Profile
	profileSet    bool
	frameDuration time.Duration
	timerInterval time.Duration
	clock         clock.Clock
	logger        *slog.Logger

	data *scoped.Store

	// activateMu serializes sections becoming active.
	activateMu sync.Mutex

	// mu guards sections and closed. It is never held while acquiring the
	// store lock.
	mu       sync.Mutex
	sections sectionRegistry
	closed   bool

	// active is the packed handle of the active section, or 0.
	active atomic.Uint64
}

// NewSession creates a session. Without WithTerminal it opens the system
// terminal in raw mode, which Close restores.
func NewSession(opts ...SessionOption) (*Session, error) {
	s := &Session{
		frameDuration: defaultFrameDuration,
		timerInterval: defaultTimerInterval,
		clock:         clock.Real(),
		logger:        debug.Logger(),
		data:          scoped.New(),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	if s.terminal == nil {
		term, err := NewSystemTerminal()
		if err != nil {
			return nil, fmt.Errorf("open system terminal: %w", err)
		}
		s.terminal = term
		s.ownsTerminal = true
	}
	if !s.profileSet {
		s.profile = termenv.EnvColorProfile()
	}

	s.data.Start(SessionLifecycle)
	s.logger.Debug("session started", "profile", s.profile, "frame", s.frameDuration)
	return s, nil
}

// Terminal returns the session's terminal.
func (s *Session) Terminal() Terminal { return s.terminal }

// Data returns the session's store. Values under SessionLifecycle live until
// Close.
func (s *Session) Data() *Store { return s.data }

// Logger returns the session's logger.
func (s *Session) Logger() *slog.Logger { return s.logger }

// Section creates a section that renders with render. The section does
// nothing until it is run.
func (s *Session) Section(render func(r *RenderScope)) *Section {
	if render == nil {
		render = func(*RenderScope) {}
	}
	return newSection(s, render)
}

// Run is shorthand for s.Section(render).Run(block).
func (s *Session) Run(render func(r *RenderScope), block func(rs *RunScope) error) error {
	return s.Section(render).Run(block)
}

// Close finishes the session: every lifecycle is stopped and, if the
// session opened the terminal itself, the terminal is restored and closed.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	prev := s.sections.get(unpackHandle(s.active.Load()))
	s.mu.Unlock()

	if prev != nil {
		prev.supersede()
	}
	s.data.StopAll()
	s.logger.Debug("session closed")

	if !s.ownsTerminal {
		return nil
	}
	if err := s.terminal.Close(); err != nil {
		return fmt.Errorf("close terminal: %w", err)
	}
	return nil
}

// activeHandle returns the handle of the active section, which is invalid
// when no section is running.
func (s *Session) activeHandle() sectionHandle {
	return unpackHandle(s.active.Load())
}

// activate makes sec the active section, superseding the previous one, and
// starts the section and run lifecycles for it.
func (s *Session) activate(sec *Section) error {
	s.activateMu.Lock()
	defer s.activateMu.Unlock()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	prevHandle := s.activeHandle()
	prev := s.sections.get(prevHandle)
	s.mu.Unlock()

	if prev != nil {
		prev.supersede()
		s.logger.Debug("section superseded", "section", prevHandle.index)
	}
	// Stopping the section lifecycle also stops the previous run.
	s.data.Stop(SectionLifecycle)

	s.mu.Lock()
	s.sections.remove(prevHandle)
	h := s.sections.add(sec)
	sec.handle = h
	s.active.Store(h.pack())
	s.mu.Unlock()

	s.data.Write(func(tx *Tx) {
		tx.Start(SectionLifecycle)
		tx.Start(RunLifecycle)
	})
	s.logger.Debug("section active", "section", h.index)
	return nil
}

// deactivate releases sec if it is still the active section.
func (s *Session) deactivate(sec *Section) {
	s.activateMu.Lock()
	defer s.activateMu.Unlock()

	s.mu.Lock()
	if s.activeHandle() != sec.handle {
		s.mu.Unlock()
		return
	}
	s.sections.remove(sec.handle)
	s.active.Store(0)
	s.mu.Unlock()

	s.data.Stop(SectionLifecycle)
	s.logger.Debug("section finished", "section", sec.handle.index)
}

// stopRun stops the run lifecycle if sec still owns it. A superseded
// section's run data was already released when it lost the session.
func (s *Session) stopRun(sec *Section) {
	s.activateMu.Lock()
	defer s.activateMu.Unlock()

	if s.activeHandle() != sec.handle {
		return
	}
	s.data.Stop(RunLifecycle)
}

// requestRepaint asks the section behind h to repaint. It reports false
// when h no longer names the active section.
func (s *Session) requestRepaint(h sectionHandle) bool {
	if !h.valid() {
		return false
	}
	s.mu.Lock()
	sec := s.sections.get(h)
	active := s.activeHandle() == h
	s.mu.Unlock()

	if sec == nil || !active {
		return false
	}
	sec.requestRepaint()
	return true
}

// isStopRun reports whether err is a cooperative stop rather than a failure.
func isStopRun(err error) bool {
	return errors.Is(err, ErrStopRun)
}
