package liveterm

import (
	"cmp"
	"log/slog"
	"slices"
	"time"

	"github.com/grindlemire/liveterm/internal/clock"
	"github.com/grindlemire/liveterm/internal/scoped"
)

// TimerScope is passed to timer callbacks. The callback may change Duration
// to reschedule a repeating timer, or clear Repeat to stop it.
type TimerScope struct {
	// Duration is the delay before the next call of a repeating timer. A
	// value of zero or less fires it again on the next driver tick.
	Duration time.Duration
	Repeat   bool
	// Elapsed is the time since the timer was last scheduled.
	Elapsed time.Duration
	// TotalElapsed is the time since the timer was added.
	TotalElapsed time.Duration
}

var timersKey = NewKey[*timerManager]("timers", RunLifecycle)

type timer struct {
	seq        uint64
	duration   time.Duration
	repeat     bool
	key        any
	callback   func(*TimerScope)
	createdAt  time.Time
	enqueuedAt time.Time
	wakeAt     time.Time
}

// timerManager schedules the timers of one run. Its state is guarded by the
// session store's lock. Stopping the run lifecycle disposes it.
type timerManager struct {
	store  *scoped.Store
	clock  clock.Clock
	logger *slog.Logger

	queue    []*timer // ordered by wakeAt, then seq
	keys     map[any]*timer
	nextSeq  uint64
	disposed bool
	stop     chan struct{}
}

func newTimerManager(store *scoped.Store, c clock.Clock, logger *slog.Logger) *timerManager {
	return &timerManager{
		store:  store,
		clock:  c,
		logger: logger,
		keys:   make(map[any]*timer),
		stop:   make(chan struct{}),
	}
}

// addTimer schedules fn after d on the session's current run. A non-nil key
// makes the call a no-op while a timer with the same key is still scheduled,
// which lets render functions add timers on every pass. Keys must be
// comparable. Without an active run nothing is scheduled.
func addTimer(s *Session, d time.Duration, repeat bool, key any, fn func(*TimerScope)) {
	scoped.PutIfAbsent(s.data, timersKey,
		func() *timerManager {
			tm := newTimerManager(s.data, s.clock, s.logger)
			go tm.run(s.timerInterval)
			return tm
		},
		(*timerManager).dispose,
		func(_ *Tx, tm *timerManager) { tm.addLocked(d, repeat, key, fn) })
}

// addLocked inserts a timer. Caller holds the store's write lock.
func (tm *timerManager) addLocked(d time.Duration, repeat bool, key any, fn func(*TimerScope)) {
	if tm.disposed {
		return
	}
	if key != nil {
		if _, ok := tm.keys[key]; ok {
			return
		}
	}
	now := tm.clock.Now()
	t := &timer{
		seq:        tm.nextSeq,
		duration:   d,
		repeat:     repeat,
		key:        key,
		callback:   fn,
		createdAt:  now,
		enqueuedAt: now,
		wakeAt:     now.Add(d),
	}
	tm.nextSeq++
	if key != nil {
		tm.keys[key] = t
	}
	tm.insertLocked(t)
}

func (tm *timerManager) insertLocked(t *timer) {
	i, _ := slices.BinarySearchFunc(tm.queue, t, compareTimers)
	tm.queue = slices.Insert(tm.queue, i, t)
}

func compareTimers(a, b *timer) int {
	if c := a.wakeAt.Compare(b.wakeAt); c != 0 {
		return c
	}
	return cmp.Compare(a.seq, b.seq)
}

// run ticks the manager until it is disposed.
func (tm *timerManager) run(interval time.Duration) {
	ticker := tm.clock.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-tm.stop:
			return
		case <-ticker.Chan():
			tm.tick()
		}
	}
}

// tick fires every timer that is due, earliest first. A repeating timer is
// rescheduled relative to this tick, so a long pause yields one call rather
// than a burst of catch-up calls. Callbacks run without the store lock held.
func (tm *timerManager) tick() {
	now := tm.clock.Now()

	var due []*timer
	tm.store.Write(func(*Tx) {
		if tm.disposed {
			return
		}
		n := 0
		for n < len(tm.queue) && !tm.queue[n].wakeAt.After(now) {
			n++
		}
		due = slices.Clone(tm.queue[:n])
		tm.queue = slices.Delete(tm.queue, 0, n)
	})

	for _, t := range due {
		if tm.isDisposed() {
			return
		}
		scope := &TimerScope{
			Duration:     t.duration,
			Repeat:       t.repeat,
			Elapsed:      now.Sub(t.enqueuedAt),
			TotalElapsed: now.Sub(t.createdAt),
		}
		t.callback(scope)

		tm.store.Write(func(*Tx) {
			if tm.disposed {
				return
			}
			if scope.Repeat {
				t.duration = max(scope.Duration, 0)
				t.repeat = true
				t.enqueuedAt = now
				t.wakeAt = now.Add(t.duration)
				tm.insertLocked(t)
				return
			}
			if t.key != nil && tm.keys[t.key] == t {
				delete(tm.keys, t.key)
			}
		})
	}
}

func (tm *timerManager) isDisposed() bool {
	var disposed bool
	tm.store.Read(func(*Tx) { disposed = tm.disposed })
	return disposed
}

// pending returns the number of scheduled timers.
func (tm *timerManager) pending() int {
	var n int
	tm.store.Read(func(*Tx) { n = len(tm.queue) })
	return n
}

// dispose drops every timer and stops the driver without waiting for a
// callback in flight. It runs with the store write-locked.
func (tm *timerManager) dispose() {
	if tm.disposed {
		return
	}
	tm.disposed = true
	tm.queue = nil
	clear(tm.keys)
	close(tm.stop)
	tm.logger.Debug("timers disposed")
}
