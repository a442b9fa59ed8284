package liveterm

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// RunScope is handed to a section's run block. It registers timers, input
// callbacks, asides and background jobs, all of which end with the run.
type RunScope struct {
	section *Section
	ctx     context.Context
	cancel  context.CancelCauseFunc
	group   *errgroup.Group

	signalOnce sync.Once
	signal     chan struct{}

	mu          sync.Mutex
	keyHandlers []func(KeyEvent)
	changed     []func(*InputChangedScope)
	entered     func(*InputEnteredScope)
}

func newRunScope(s *Section, ctx context.Context, cancel context.CancelCauseFunc, group *errgroup.Group) *RunScope {
	return &RunScope{
		section: s,
		ctx:     ctx,
		cancel:  cancel,
		group:   group,
		signal:  make(chan struct{}),
	}
}

// Context is cancelled when the run ends, when the section is superseded,
// and when a background job fails.
func (rs *RunScope) Context() context.Context { return rs.ctx }

// Data returns the session store.
func (rs *RunScope) Data() *Store { return rs.section.session.data }

// Signal releases WaitForSignal. Calling it more than once is harmless.
func (rs *RunScope) Signal() {
	rs.signalOnce.Do(func() { close(rs.signal) })
}

// WaitForSignal blocks until Signal is called or the run is cancelled. It
// returns nil when signalled and the cancellation cause otherwise.
func (rs *RunScope) WaitForSignal() error {
	select {
	case <-rs.signal:
		return nil
	case <-rs.ctx.Done():
		return context.Cause(rs.ctx)
	}
}

// Stop ends the run early as if the block had returned ErrStopRun.
func (rs *RunScope) Stop() {
	rs.cancel(ErrStopRun)
}

// Rerender requests a repaint of the section.
func (rs *RunScope) Rerender() {
	rs.section.requestRepaint()
}

// Go runs fn in the background. The run waits for every job before it
// finishes, and the first job error cancels the others and is returned from
// Run. Jobs must watch ctx.
func (rs *RunScope) Go(fn func(ctx context.Context) error) {
	rs.group.Go(func() error { return fn(rs.ctx) })
}

// AddTimer calls fn after d, and every d after that if repeat is set. See
// TimerScope for rescheduling. A non-nil key suppresses the call while a
// timer with that key is still scheduled.
func (rs *RunScope) AddTimer(d time.Duration, repeat bool, key any, fn func(t *TimerScope)) {
	addTimer(rs.section.session, d, repeat, key, fn)
}

// Aside renders fn once and writes it above the section. Asides scroll into
// terminal history and are never repainted.
func (rs *RunScope) Aside(fn func(r *RenderScope)) {
	s := rs.section
	r := NewRenderer(s.session.profile)
	if err := r.Render(func(r *Renderer) { fn(&RenderScope{section: s, r: r, aside: true}) }); err != nil {
		s.session.logger.Error("aside render failed", "err", err)
	}
	s.queueAside(r.String())
	s.requestRepaint()
}

// OnKeyPressed registers fn for every key press during the run.
func (rs *RunScope) OnKeyPressed(fn func(key KeyEvent)) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.keyHandlers = append(rs.keyHandlers, fn)
}

// OnInputChanged registers fn for every edit of the section's input.
func (rs *RunScope) OnInputChanged(fn func(s *InputChangedScope)) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.changed = append(rs.changed, fn)
}

// OnInputEntered registers fn for Enter on the section's input. Only one
// handler may be registered per run.
func (rs *RunScope) OnInputEntered(fn func(s *InputEnteredScope)) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	if rs.entered != nil {
		panic("liveterm: OnInputEntered registered twice")
	}
	rs.entered = fn
}

// listenKeys subscribes to the terminal before the block starts, so keys
// sent from the block are never missed.
func (rs *RunScope) listenKeys() {
	keys := rs.section.session.terminal.Keys(rs.ctx)
	rs.group.Go(func() error {
		for {
			select {
			case <-rs.ctx.Done():
				return nil
			case ev, ok := <-keys:
				if !ok {
					return nil
				}
				rs.handleKey(ev)
			}
		}
	})
}

func (rs *RunScope) handleKey(ev KeyEvent) {
	if ev.IsCtrl('c') {
		rs.cancel(ErrInterrupted)
		return
	}

	rs.mu.Lock()
	handlers := rs.keyHandlers
	changed := rs.changed
	entered := rs.entered
	rs.mu.Unlock()

	for _, fn := range handlers {
		fn(ev)
	}
	if editInput(rs.section, ev, changed, entered) {
		rs.section.requestRepaint()
	}
}
