package main

import (
	"time"

	"github.com/grindlemire/liveterm"
	"github.com/spf13/pflag"
)

func runCounter(args []string) error {
	var (
		target   int
		interval time.Duration
	)
	sf, err := parse("counter", args, func(fs *pflag.FlagSet) {
		fs.IntVarP(&target, "target", "n", 50, "count to reach")
		fs.DurationVarP(&interval, "interval", "i", 50*time.Millisecond, "time between increments")
	})
	if err != nil {
		return err
	}

	s, err := sf.open()
	if err != nil {
		return err
	}
	defer s.Close()

	count := liveterm.NewLiveVar(s, 0)
	paused := liveterm.NewLiveVar(s, false)

	return s.Section(func(r *liveterm.RenderScope) {
		r.Bold()
		r.Text("Counting")
		r.ClearBold()
		if paused.Get() {
			r.Color(liveterm.Yellow)
			r.Text(" (paused)")
			r.ClearColor()
		}
		r.Newline()
		bar(r, count.Get(), target, 40)
		r.Newline()
		r.Scoped(func() {
			r.Color(liveterm.BrightBlack)
			r.Text("space: pause  q: quit")
		})
	}).RunUntilSignal(func(rs *liveterm.RunScope) error {
		rs.AddTimer(interval, true, nil, func(t *liveterm.TimerScope) {
			if paused.Get() {
				return
			}
			count.Update(func(n int) int { return n + 1 })
			if count.Get() >= target {
				t.Repeat = false
				rs.Signal()
			}
		})
		rs.OnKeyPressed(func(key liveterm.KeyEvent) {
			switch {
			case key.IsRune(' '):
				paused.Update(func(p bool) bool { return !p })
			case key.IsRune('q'):
				rs.Stop()
			}
		})
		return nil
	})
}
