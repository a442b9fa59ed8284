package main

import (
	"strings"
	"unicode"

	"github.com/grindlemire/liveterm"
	"github.com/spf13/pflag"
)

func runPrompt(args []string) error {
	var maxLen int
	sf, err := parse("prompt", args, func(fs *pflag.FlagSet) {
		fs.IntVar(&maxLen, "max", 40, "longest accepted entry")
	})
	if err != nil {
		return err
	}

	s, err := sf.open()
	if err != nil {
		return err
	}
	defer s.Close()

	entries := liveterm.NewLiveList[string](s)
	warning := liveterm.NewLiveVar(s, "")

	err = s.Section(func(r *liveterm.RenderScope) {
		r.Color(liveterm.Cyan)
		r.Text("> ")
		r.ClearColor()
		r.Input()
		r.Newline()
		if w := warning.Get(); w != "" {
			r.Color(liveterm.Red)
			r.Textln(w)
			r.ClearColor()
		}
		r.Scoped(func() {
			r.Color(liveterm.BrightBlack)
			r.Textf("%d entries. Type quit to leave.", entries.Len())
		})
	}).RunUntilSignal(func(rs *liveterm.RunScope) error {
		rs.OnInputChanged(func(in *liveterm.InputChangedScope) {
			if len([]rune(in.Input)) > maxLen {
				in.Reject()
				warning.Set("entry too long")
				return
			}
			warning.Set("")
		})
		rs.OnInputEntered(func(in *liveterm.InputEnteredScope) {
			text := strings.TrimSpace(in.Input)
			switch {
			case text == "":
				in.Reject()
				warning.Set("entry is empty")
				return
			case text == "quit":
				rs.Signal()
				return
			}
			entries.Add(text)
			in.Clear()
			rs.Aside(func(r *liveterm.RenderScope) {
				r.Color(liveterm.Green)
				r.Text("✓ ")
				r.ClearColor()
				if strings.IndexFunc(text, unicode.IsUpper) >= 0 {
					r.Bold()
				}
				r.Text(text)
			})
		})
		return nil
	})
	if err != nil {
		return err
	}

	return s.Run(func(r *liveterm.RenderScope) {
		r.Textf("Recorded %d entries.", entries.Len())
	}, nil)
}
