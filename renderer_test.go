package liveterm

import (
	"errors"
	"strings"
	"testing"

	"github.com/muesli/termenv"
)

func TestRenderer_Output(t *testing.T) {
	type tc struct {
		profile termenv.Profile
		render  func(s *RenderScope)
		want    string
	}

	tests := map[string]tc{
		"empty pass is reset and newline": {
			profile: termenv.ANSI256,
			render:  func(s *RenderScope) {},
			want:    "\x1b[0m\n",
		},
		"plain text": {
			profile: termenv.ANSI256,
			render:  func(s *RenderScope) { s.Text("hi") },
			want:    "hi\x1b[0m\n",
		},
		"trailing newline is not doubled": {
			profile: termenv.ANSI256,
			render:  func(s *RenderScope) { s.Textln("hi") },
			want:    "hi\x1b[0m\n",
		},
		"multi-line text": {
			profile: termenv.ANSI256,
			render:  func(s *RenderScope) { s.Text("a\nb") },
			want:    "a\nb\x1b[0m\n",
		},
		"style without text emits nothing": {
			profile: termenv.ANSI256,
			render:  func(s *RenderScope) { s.Color(Red) },
			want:    "\x1b[0m\n",
		},
		"toggles coalesce before text": {
			profile: termenv.ANSI256,
			render:  func(s *RenderScope) {
				s.Bold()
				s.ClearBold()
				s.Underline()
				s.Bold()
				s.Text("x")
			},
			want: "\x1b[1;4mx\x1b[0m\n",
		},
		"foreground then default": {
			profile: termenv.ANSI256,
			render:  func(s *RenderScope) {
				s.Color(Red)
				s.Text("r")
				s.ClearColor()
				s.Text("d")
			},
			want: "\x1b[31mr\x1b[39md\x1b[0m\n",
		},
		"scoped attribute is undone": {
			profile: termenv.ANSI256,
			render:  func(s *RenderScope) {
				s.Scoped(func() {
					s.Bold()
					s.Text("a")
				})
				s.Text("b")
			},
			want: "\x1b[1ma\x1b[22mb\x1b[0m\n",
		},
		"background cleared before newline and restored": {
			profile: termenv.ANSI256,
			render:  func(s *RenderScope) {
				s.Background(Blue)
				s.Textln("a")
				s.Text("b")
			},
			want: "\x1b[44ma\x1b[49m\n\x1b[44mb\x1b[0m\n",
		},
		"true color": {
			profile: termenv.TrueColor,
			render:  func(s *RenderScope) {
				s.Color(RGBColor(255, 0, 0))
				s.Text("x")
			},
			want: "\x1b[38;2;255;0;0mx\x1b[0m\n",
		},
		"ascii drops escapes": {
			profile: termenv.Ascii,
			render:  func(s *RenderScope) {
				s.Bold()
				s.Color(Red)
				s.Text("x")
			},
			want: "x\n",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			r := NewRenderer(tt.profile)
			if err := r.Render(func(r *Renderer) { tt.render(&RenderScope{r: r}) }); err != nil {
				t.Fatalf("Render() error = %v", err)
			}
			if got := r.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderer_EndsWithResetAndNewline(t *testing.T) {
	type tc struct {
		render func(s *RenderScope)
	}

	tests := map[string]tc{
		"empty":          {render: func(s *RenderScope) {}},
		"text":           {render: func(s *RenderScope) { s.Text("x") }},
		"textln":         {render: func(s *RenderScope) { s.Textln("x") }},
		"styled":         {render: func(s *RenderScope) { s.Bold(); s.Background(Red); s.Textln("x") }},
		"dangling style": {render: func(s *RenderScope) { s.Textln("x"); s.Invert() }},
		"panics":         {render: func(s *RenderScope) { s.Bold(); s.Text("x"); panic("boom") }},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			r := NewRenderer(termenv.ANSI256)
			_ = r.Render(func(r *Renderer) { tt.render(&RenderScope{r: r}) })

			cmds := r.Commands()
			if len(cmds) < 2 {
				t.Fatalf("got %d commands, want at least 2", len(cmds))
			}
			reset, ok := cmds[len(cmds)-2].(sgrCommand)
			if !ok || !reset.reset {
				t.Errorf("second to last command = %#v, want reset", cmds[len(cmds)-2])
			}
			if cmds[len(cmds)-1].Kind() != CommandNewline {
				t.Errorf("last command kind = %v, want newline", cmds[len(cmds)-1].Kind())
			}
			if r.State().Applied() != (Style{}) {
				t.Errorf("applied after pass = %v, want default", r.State().Applied())
			}
		})
	}
}

func TestRenderer_PanicDiscardsOutput(t *testing.T) {
	r := NewRenderer(termenv.ANSI256)
	err := r.Render(func(r *Renderer) {
		r.Append(Text("partial"))
		panic("boom")
	})

	var re *RenderError
	if !errors.As(err, &re) {
		t.Fatalf("Render() error = %v, want *RenderError", err)
	}
	if re.Value != "boom" {
		t.Errorf("RenderError.Value = %v, want boom", re.Value)
	}
	if got := r.String(); got != "\x1b[0m\n" {
		t.Errorf("String() = %q, want bare reset", got)
	}
}

func TestRenderer_UnbalancedPopPanics(t *testing.T) {
	r := NewRenderer(termenv.ANSI256)
	err := r.Render(func(r *Renderer) { r.PopState() })
	if err == nil || !strings.Contains(err.Error(), "pop of root") {
		t.Errorf("Render() error = %v, want pop of root", err)
	}
}

func TestText_RejectsNewline(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Text() with newline did not panic")
		}
	}()
	Text("a\nb")
}
