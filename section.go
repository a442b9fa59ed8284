package liveterm

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/grindlemire/liveterm/internal/scoped"
	"golang.org/x/sync/errgroup"
)

// runCancelKey holds the function that ends the current run. Stopping the
// run lifecycle, which superseding a section does, calls it.
var runCancelKey = NewKey[context.CancelCauseFunc]("run-cancel", RunLifecycle)

// Section is one repaintable region of terminal output. Its render function
// is rerun whenever state it read changes, and the new output replaces the
// old in place.
type Section struct {
	session  *Session
	render   func(r *RenderScope)
	renderer *Renderer
	region   paintRegion
	handle   sectionHandle

	ran atomic.Bool

	// renderMu serializes render passes and the writes they produce.
	renderMu   sync.Mutex
	superseded bool

	asideMu sync.Mutex
	asides  []string

	hookMu    sync.Mutex
	finishing []func()

	// pending is set while a repaint has been requested but not started.
	pending atomic.Bool
	wake    chan struct{}
}

func newSection(s *Session, render func(r *RenderScope)) *Section {
	return &Section{
		session:  s,
		render:   render,
		renderer: NewRenderer(s.profile),
		wake:     make(chan struct{}, 1),
	}
}

// OnFinishing registers fn to run after the run block returns and before the
// final render, so it can update state the last frame shows.
func (s *Section) OnFinishing(fn func()) *Section {
	s.hookMu.Lock()
	defer s.hookMu.Unlock()
	s.finishing = append(s.finishing, fn)
	return s
}

// Run renders the section, then runs block while the section repaints in
// response to state changes. A nil block renders once and returns.
//
// Errors from block or its background jobs are returned, except ErrStopRun
// and cancellation, which count as normal completion. ErrInterrupted is
// returned if the user pressed Ctrl+C. Running a section twice panics.
func (s *Section) Run(block func(rs *RunScope) error) error {
	if !s.ran.CompareAndSwap(false, true) {
		panic("liveterm: section run twice")
	}
	if err := s.session.activate(s); err != nil {
		return err
	}

	ctx, cancel := context.WithCancelCause(context.Background())
	group, groupCtx := errgroup.WithContext(ctx)
	rs := newRunScope(s, groupCtx, cancel, group)
	scoped.TryPut(s.session.data, runCancelKey,
		func() context.CancelCauseFunc { return cancel },
		func(c context.CancelCauseFunc) { c(nil) })

	s.renderPass()

	stop := make(chan struct{})
	done := make(chan struct{})
	go s.repaintLoop(stop, done)
	rs.listenKeys()

	finished := false
	defer func() {
		// Only reached without finishing when block panicked.
		if !finished {
			cancel(nil)
			s.finish(stop, done)
		}
	}()

	var err error
	if block != nil {
		err = block(rs)
	}
	cancel(nil)
	if werr := group.Wait(); err == nil {
		err = werr
	}
	if errors.Is(context.Cause(ctx), ErrInterrupted) {
		err = ErrInterrupted
	}

	finished = true
	s.finish(stop, done)

	switch {
	case err == nil, isStopRun(err):
		return nil
	case errors.Is(err, context.Canceled) && !errors.Is(err, ErrInterrupted):
		return nil
	}
	return err
}

// RunUntilSignal runs block, then keeps the run going until the run scope
// is signalled.
func (s *Section) RunUntilSignal(block func(rs *RunScope) error) error {
	return s.Run(func(rs *RunScope) error {
		if block != nil {
			if err := block(rs); err != nil {
				return err
			}
		}
		return rs.WaitForSignal()
	})
}

// finish tears the run down and renders the last frame if anything changed
// since the previous one.
func (s *Section) finish(stop, done chan struct{}) {
	s.session.stopRun(s)
	close(stop)
	<-done

	s.hookMu.Lock()
	hooks := s.finishing
	s.hookMu.Unlock()
	for _, fn := range hooks {
		fn()
	}

	if s.pending.Load() || s.hasAsides() || len(hooks) > 0 {
		s.renderPass()
	}
	s.session.deactivate(s)
}

// supersede freezes the section's output. It waits for an in-flight pass so
// no write lands after the next section starts.
func (s *Section) supersede() {
	s.renderMu.Lock()
	defer s.renderMu.Unlock()
	s.superseded = true
}

// requestRepaint schedules a pass. Requests made while one is already
// pending are absorbed by it.
func (s *Section) requestRepaint() {
	if s.pending.CompareAndSwap(false, true) {
		select {
		case s.wake <- struct{}{}:
		default:
		}
	}
}

// repaintLoop renders once per wake-up, waiting one frame first so a burst
// of requests shares a single pass.
func (s *Section) repaintLoop(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	frame := time.NewTimer(s.session.frameDuration)
	frame.Stop()
	defer frame.Stop()

	for {
		select {
		case <-stop:
			return
		case <-s.wake:
		}

		frame.Reset(s.session.frameDuration)
		select {
		case <-stop:
			return
		case <-frame.C:
		}
		s.renderPass()
	}
}

// renderPass runs the render function and repaints the section's region
// with the result, preceded by any queued asides.
func (s *Section) renderPass() {
	s.renderMu.Lock()
	defer s.renderMu.Unlock()

	if s.superseded {
		return
	}
	s.pending.Store(false)
	asides := s.takeAsides()

	scope := &RenderScope{section: s, r: s.renderer}
	if err := s.renderer.Render(func(*Renderer) { s.render(scope) }); err != nil {
		var re *RenderError
		if errors.As(err, &re) {
			s.session.logger.Error("render failed", "panic", re.Value, "stack", string(re.Stack))
		}
	}
	text := s.renderer.String()

	var b strings.Builder
	s.region.erase(&b)
	for _, a := range asides {
		b.WriteString(a)
	}
	b.WriteString(text)

	if err := s.session.terminal.Write(b.String()); err != nil {
		s.session.logger.Warn("write section", "err", err)
	}
	width, _ := s.session.terminal.Size()
	s.region.record(text, width)
}

func (s *Section) queueAside(text string) {
	s.asideMu.Lock()
	defer s.asideMu.Unlock()
	s.asides = append(s.asides, text)
}

func (s *Section) takeAsides() []string {
	s.asideMu.Lock()
	defer s.asideMu.Unlock()
	asides := s.asides
	s.asides = nil
	return asides
}

func (s *Section) hasAsides() bool {
	s.asideMu.Lock()
	defer s.asideMu.Unlock()
	return len(s.asides) > 0
}
