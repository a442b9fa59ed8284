package liveterm

import (
	"log/slog"
	"testing"
	"time"

	"github.com/grindlemire/liveterm/internal/clock"
	"github.com/grindlemire/liveterm/internal/scoped"
)

// newTestTimers returns a manager registered under an active run lifecycle
// without a driver goroutine, so tests tick it by hand.
func newTestTimers(t *testing.T) (*timerManager, *clock.FakeClock, *Store) {
	t.Helper()
	store := scoped.New()
	store.Start(SessionLifecycle)
	store.Start(SectionLifecycle)
	store.Start(RunLifecycle)

	clk := clock.Fake(time.Unix(0, 0))
	tm := newTimerManager(store, clk, slog.New(slog.DiscardHandler))
	scoped.TryPut(store, timersKey, func() *timerManager { return tm }, (*timerManager).dispose)
	return tm, clk, store
}

func (tm *timerManager) add(d time.Duration, repeat bool, key any, fn func(*TimerScope)) {
	tm.store.Write(func(*Tx) { tm.addLocked(d, repeat, key, fn) })
}

func TestTimers_RepeatingFiresOncePerPeriod(t *testing.T) {
	tm, clk, _ := newTestTimers(t)

	calls := 0
	tm.add(5*time.Millisecond, true, nil, func(*TimerScope) { calls++ })

	for range 3 {
		clk.Advance(5 * time.Millisecond)
		tm.tick()
	}

	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
	if n := tm.pending(); n != 1 {
		t.Errorf("pending() = %d, want 1", n)
	}
}

func TestTimers_NoCatchUp(t *testing.T) {
	tm, clk, _ := newTestTimers(t)

	var scopes []TimerScope
	tm.add(5*time.Millisecond, true, nil, func(ts *TimerScope) { scopes = append(scopes, *ts) })

	clk.Advance(50 * time.Millisecond)
	tm.tick()
	if len(scopes) != 1 {
		t.Fatalf("calls after long pause = %d, want 1", len(scopes))
	}
	if scopes[0].Elapsed != 50*time.Millisecond {
		t.Errorf("Elapsed = %v, want 50ms", scopes[0].Elapsed)
	}

	// Rescheduled from the tick, not from the missed deadlines.
	clk.Advance(4 * time.Millisecond)
	tm.tick()
	if len(scopes) != 1 {
		t.Errorf("fired before a full period passed")
	}
	clk.Advance(time.Millisecond)
	tm.tick()
	if len(scopes) != 2 {
		t.Fatalf("calls = %d, want 2", len(scopes))
	}
	if scopes[1].TotalElapsed != 55*time.Millisecond {
		t.Errorf("TotalElapsed = %v, want 55ms", scopes[1].TotalElapsed)
	}
}

func TestTimers_Scheduling(t *testing.T) {
	type tc struct {
		add   func(tm *timerManager, log *[]string)
		steps []time.Duration
		want  []string
		left  int
	}

	record := func(log *[]string, name string) func(*TimerScope) {
		return func(*TimerScope) { *log = append(*log, name) }
	}

	tests := map[string]tc{
		"earliest first": {
			add: func(tm *timerManager, log *[]string) {
				tm.add(3*time.Millisecond, false, nil, record(log, "late"))
				tm.add(1*time.Millisecond, false, nil, record(log, "early"))
			},
			steps: []time.Duration{5 * time.Millisecond},
			want:  []string{"early", "late"},
		},
		"ties keep insertion order": {
			add: func(tm *timerManager, log *[]string) {
				tm.add(time.Millisecond, false, nil, record(log, "a"))
				tm.add(time.Millisecond, false, nil, record(log, "b"))
			},
			steps: []time.Duration{time.Millisecond},
			want:  []string{"a", "b"},
		},
		"not yet due": {
			add: func(tm *timerManager, log *[]string) {
				tm.add(10*time.Millisecond, false, nil, record(log, "x"))
			},
			steps: []time.Duration{9 * time.Millisecond},
			want:  nil,
			left:  1,
		},
		"duplicate key ignored while scheduled": {
			add: func(tm *timerManager, log *[]string) {
				tm.add(time.Millisecond, false, "k", record(log, "first"))
				tm.add(time.Millisecond, false, "k", record(log, "second"))
			},
			steps: []time.Duration{time.Millisecond},
			want:  []string{"first"},
		},
		"clearing repeat stops": {
			add: func(tm *timerManager, log *[]string) {
				n := 0
				tm.add(time.Millisecond, true, nil, func(ts *TimerScope) {
					n++
					*log = append(*log, "tick")
					if n == 2 {
						ts.Repeat = false
					}
				})
			},
			steps: []time.Duration{time.Millisecond, time.Millisecond, time.Millisecond},
			want:  []string{"tick", "tick"},
		},
		"one-shot can become repeating": {
			add: func(tm *timerManager, log *[]string) {
				tm.add(time.Millisecond, false, nil, func(ts *TimerScope) {
					*log = append(*log, "tick")
					ts.Repeat = true
				})
			},
			steps: []time.Duration{time.Millisecond, time.Millisecond},
			want:  []string{"tick", "tick"},
			left:  1,
		},
		"duration change reschedules": {
			add: func(tm *timerManager, log *[]string) {
				tm.add(time.Millisecond, true, nil, func(ts *TimerScope) {
					*log = append(*log, "tick")
					ts.Duration = 10 * time.Millisecond
				})
			},
			steps: []time.Duration{time.Millisecond, 5 * time.Millisecond, 5 * time.Millisecond},
			want:  []string{"tick", "tick"},
			left:  1,
		},
		"zero duration fires on the next tick": {
			add: func(tm *timerManager, log *[]string) {
				tm.add(time.Millisecond, true, nil, func(ts *TimerScope) {
					*log = append(*log, "tick")
					ts.Duration = 0
				})
			},
			steps: []time.Duration{time.Millisecond, time.Microsecond, time.Microsecond},
			want:  []string{"tick", "tick", "tick"},
			left:  1,
		},
		"negative duration still repeats": {
			add: func(tm *timerManager, log *[]string) {
				tm.add(time.Millisecond, true, nil, func(ts *TimerScope) {
					*log = append(*log, "tick")
					ts.Duration = -time.Second
				})
			},
			steps: []time.Duration{time.Millisecond, time.Microsecond},
			want:  []string{"tick", "tick"},
			left:  1,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			tm, clk, _ := newTestTimers(t)
			var log []string
			tt.add(tm, &log)

			for _, d := range tt.steps {
				clk.Advance(d)
				tm.tick()
			}

			if !equalLines(log, tt.want) {
				t.Errorf("fired %q, want %q", log, tt.want)
			}
			if n := tm.pending(); n != tt.left {
				t.Errorf("pending() = %d, want %d", n, tt.left)
			}
		})
	}
}

func TestTimers_KeyReleasedAfterFiring(t *testing.T) {
	tm, clk, _ := newTestTimers(t)

	calls := 0
	tm.add(time.Millisecond, false, "k", func(*TimerScope) { calls++ })
	clk.Advance(time.Millisecond)
	tm.tick()

	tm.add(time.Millisecond, false, "k", func(*TimerScope) { calls++ })
	if n := tm.pending(); n != 1 {
		t.Fatalf("pending() = %d, want 1", n)
	}
	clk.Advance(time.Millisecond)
	tm.tick()
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}

func TestTimers_DisposedWithRun(t *testing.T) {
	tm, clk, store := newTestTimers(t)

	calls := 0
	tm.add(time.Millisecond, true, "k", func(*TimerScope) { calls++ })
	store.Stop(RunLifecycle)

	if n := tm.pending(); n != 0 {
		t.Errorf("pending() after stop = %d, want 0", n)
	}
	clk.Advance(time.Millisecond)
	tm.tick()
	if calls != 0 {
		t.Errorf("calls after stop = %d, want 0", calls)
	}

	tm.add(time.Millisecond, false, nil, func(*TimerScope) { calls++ })
	if n := tm.pending(); n != 0 {
		t.Errorf("timer added after dispose: pending() = %d", n)
	}
	select {
	case <-tm.stop:
	default:
		t.Error("driver not stopped")
	}
}

func TestTimers_DisposedMidTick(t *testing.T) {
	tm, clk, store := newTestTimers(t)

	var fired []string
	tm.add(time.Millisecond, false, nil, func(*TimerScope) {
		fired = append(fired, "a")
		store.Stop(RunLifecycle)
	})
	tm.add(time.Millisecond, false, nil, func(*TimerScope) { fired = append(fired, "b") })

	clk.Advance(time.Millisecond)
	tm.tick()

	if want := []string{"a"}; !equalLines(fired, want) {
		t.Errorf("fired %q, want %q", fired, want)
	}
}

func TestAddTimer_WithoutRunIsNoop(t *testing.T) {
	s, _ := newTestSession(t)

	called := false
	addTimer(s, time.Millisecond, false, nil, func(*TimerScope) { called = true })

	if scoped.Contains(s.Data(), timersKey) {
		t.Error("timer manager created without an active run")
	}
	if called {
		t.Error("callback ran")
	}
}
