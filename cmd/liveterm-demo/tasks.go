package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/grindlemire/liveterm"
	"github.com/spf13/pflag"
)

type taskStatus struct {
	progress int
	done     bool
}

func runTasks(args []string) error {
	var (
		jobs  int
		steps int
	)
	sf, err := parse("tasks", args, func(fs *pflag.FlagSet) {
		fs.IntVarP(&jobs, "jobs", "j", 4, "number of background jobs")
		fs.IntVar(&steps, "steps", 20, "steps per job")
	})
	if err != nil {
		return err
	}

	s, err := sf.open()
	if err != nil {
		return err
	}
	defer s.Close()

	status := liveterm.NewLiveMap[string, taskStatus](s)
	finished := liveterm.NewLiveSet[string](s)
	spinner := liveterm.NewLiveVar(s, 0)
	frames := []rune("⠋⠙⠹⠸⠼⠴⠦⠧⠇⠏")

	return s.Run(func(r *liveterm.RenderScope) {
		r.AddTimer(80*time.Millisecond, true, "spinner", func(*liveterm.TimerScope) {
			spinner.Update(func(n int) int { return n + 1 })
		})
		frame := frames[spinner.Get()%len(frames)]

		status.Range(func(name string, st taskStatus) bool {
			if st.done {
				r.Color(liveterm.Green)
				r.Text("✓ ")
			} else {
				r.Color(liveterm.Yellow)
				r.Textf("%c ", frame)
			}
			r.ClearColor()
			r.Textf("%-8s ", name)
			bar(r, st.progress, steps, 20)
			r.Newline()
			return true
		})
		r.Textf("%d of %d finished", finished.Len(), jobs)
	}, func(rs *liveterm.RunScope) error {
		// The run cancels its jobs once the block returns, so wait for them.
		var wg sync.WaitGroup
		for i := range jobs {
			name := fmt.Sprintf("job-%d", i+1)
			status.Put(name, taskStatus{})
			wg.Add(1)
			rs.Go(func(ctx context.Context) error {
				defer wg.Done()
				return runJob(ctx, name, steps, status, finished)
			})
		}
		wg.Wait()
		return nil
	})
}

func runJob(ctx context.Context, name string, steps int, status *liveterm.LiveMap[string, taskStatus], finished *liveterm.LiveSet[string]) error {
	for step := 1; step <= steps; step++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(50+rand.IntN(150)) * time.Millisecond):
		}
		status.Put(name, taskStatus{progress: step, done: step == steps})
	}
	finished.Add(name)
	return nil
}
