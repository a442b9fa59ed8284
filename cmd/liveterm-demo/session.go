package main

import (
	"fmt"
	"strings"

	"github.com/grindlemire/liveterm"
	"github.com/muesli/termenv"
	"github.com/spf13/pflag"
)

// sessionFlags are shared by every demo.
type sessionFlags struct {
	fps     int
	profile string
}

func (f *sessionFlags) register(fs *pflag.FlagSet) {
	fs.IntVar(&f.fps, "fps", 60, "maximum repaints per second")
	fs.StringVar(&f.profile, "profile", "auto", "color profile: auto, ascii, ansi, ansi256, truecolor")
}

func (f *sessionFlags) open() (*liveterm.Session, error) {
	opts := []liveterm.SessionOption{liveterm.WithFrameRate(f.fps)}

	switch strings.ToLower(f.profile) {
	case "auto", "":
	case "ascii":
		opts = append(opts, liveterm.WithColorProfile(termenv.Ascii))
	case "ansi":
		opts = append(opts, liveterm.WithColorProfile(termenv.ANSI))
	case "ansi256":
		opts = append(opts, liveterm.WithColorProfile(termenv.ANSI256))
	case "truecolor":
		opts = append(opts, liveterm.WithColorProfile(termenv.TrueColor))
	default:
		return nil, fmt.Errorf("unknown color profile %q", f.profile)
	}

	s, err := liveterm.NewSession(opts...)
	if err != nil {
		return nil, fmt.Errorf("start session: %w", err)
	}
	return s, nil
}

// parse builds a flag set for name, lets extra register demo flags, and
// parses args.
func parse(name string, args []string, extra func(fs *pflag.FlagSet)) (*sessionFlags, error) {
	var sf sessionFlags
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	sf.register(fs)
	if extra != nil {
		extra(fs)
	}
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return &sf, nil
}

// bar renders a progress bar width cells wide.
func bar(r *liveterm.RenderScope, done, total, width int) {
	filled := 0
	if total > 0 {
		filled = min(width, done*width/total)
	}
	r.Text("[")
	r.Scoped(func() {
		r.Color(liveterm.Green)
		r.Text(strings.Repeat("█", filled))
	})
	r.Text(strings.Repeat("·", width-filled))
	r.Textf("] %d/%d", done, total)
}
