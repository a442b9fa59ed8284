package liveterm

import (
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func TestLiveList_BatchRepaintsOnce(t *testing.T) {
	s, term := newTestSession(t, WithFrameRate(1))
	list := NewLiveList[string](s)

	var passes atomic.Int32
	err := s.Run(func(r *RenderScope) {
		passes.Add(1)
		list.WithReadLock(func(items []string) {
			r.Text(strings.Join(items, ","))
		})
	}, func(rs *RunScope) error {
		list.WithWriteLock(func(e *ListEditor[string]) {
			for _, item := range []string{"a", "b", "c", "d"} {
				e.Add(item)
			}
			e.RemoveAt(1)
			e.Insert(0, "z")
		})
		return nil
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if got := list.Version(); got != 1 {
		t.Errorf("Version() = %d, want 1", got)
	}
	if got := passes.Load(); got != 2 {
		t.Errorf("render passes = %d, want 2", got)
	}
	if got, want := term.Screen(), []string{"z,a,c,d"}; !equalLines(got, want) {
		t.Errorf("Screen() = %q, want %q", got, want)
	}
}

func TestLiveList_Operations(t *testing.T) {
	type tc struct {
		initial     []int
		edit        func(l *LiveList[int])
		want        []int
		wantVersion uint64
	}

	tests := map[string]tc{
		"add": {
			edit:        func(l *LiveList[int]) { l.Add(1, 2) },
			want:        []int{1, 2},
			wantVersion: 1,
		},
		"insert": {
			initial:     []int{1, 3},
			edit:        func(l *LiveList[int]) { l.Insert(1, 2) },
			want:        []int{1, 2, 3},
			wantVersion: 1,
		},
		"set": {
			initial:     []int{1, 2},
			edit:        func(l *LiveList[int]) { l.Set(0, 9) },
			want:        []int{9, 2},
			wantVersion: 1,
		},
		"remove at": {
			initial:     []int{1, 2, 3},
			edit:        func(l *LiveList[int]) { l.RemoveAt(0) },
			want:        []int{2, 3},
			wantVersion: 1,
		},
		"remove func": {
			initial: []int{1, 2, 3, 4},
			edit: func(l *LiveList[int]) {
				l.WithWriteLock(func(e *ListEditor[int]) {
					e.RemoveFunc(func(n int) bool { return n%2 == 0 })
				})
			},
			want:        []int{1, 3},
			wantVersion: 1,
		},
		"remove func matching nothing": {
			initial: []int{1, 3},
			edit: func(l *LiveList[int]) {
				l.WithWriteLock(func(e *ListEditor[int]) {
					e.RemoveFunc(func(n int) bool { return n > 10 })
				})
			},
			want:        []int{1, 3},
			wantVersion: 0,
		},
		"clear": {
			initial:     []int{1},
			edit:        func(l *LiveList[int]) { l.Clear() },
			want:        nil,
			wantVersion: 1,
		},
		"clear empty": {
			edit:        func(l *LiveList[int]) { l.Clear() },
			want:        nil,
			wantVersion: 0,
		},
		"separate calls bump separately": {
			edit: func(l *LiveList[int]) {
				l.Add(1)
				l.Add(2)
			},
			want:        []int{1, 2},
			wantVersion: 2,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			s, _ := newTestSession(t)
			l := NewLiveList(s, tt.initial...)
			tt.edit(l)

			got := l.Items()
			if len(got) != len(tt.want) {
				t.Fatalf("Items() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Items()[%d] = %d, want %d", i, got[i], tt.want[i])
				}
			}
			if l.Len() != len(tt.want) {
				t.Errorf("Len() = %d, want %d", l.Len(), len(tt.want))
			}
			if v := l.Version(); v != tt.wantVersion {
				t.Errorf("Version() = %d, want %d", v, tt.wantVersion)
			}
		})
	}
}

func TestLiveSet(t *testing.T) {
	s, _ := newTestSession(t)
	set := NewLiveSet(s, "a", "b", "a", "c")

	if got, want := set.Items(), []string{"a", "b", "c"}; !equalLines(got, want) {
		t.Errorf("Items() = %q, want %q", got, want)
	}
	if set.Add("b") {
		t.Error("Add() of present item reported true")
	}
	if set.Version() != 0 {
		t.Errorf("Version() after no-op = %d, want 0", set.Version())
	}
	if !set.Remove("b") {
		t.Error("Remove() of present item reported false")
	}
	if set.Remove("b") {
		t.Error("Remove() of absent item reported true")
	}
	if !set.Add("d") {
		t.Error("Add() of new item reported false")
	}

	if got, want := set.Items(), []string{"a", "c", "d"}; !equalLines(got, want) {
		t.Errorf("Items() = %q, want %q", got, want)
	}
	// Indexes stay consistent after removal from the middle.
	if !set.Remove("c") || !set.Contains("d") || set.Contains("c") {
		t.Errorf("inconsistent set after removals: %q", set.Items())
	}
	if set.Version() != 3 {
		t.Errorf("Version() = %d, want 3", set.Version())
	}

	set.WithWriteLock(func(e *SetEditor[string]) {
		e.Clear()
		e.Add("x")
	})
	if got, want := set.Items(), []string{"x"}; !equalLines(got, want) {
		t.Errorf("Items() = %q, want %q", got, want)
	}
	if set.Version() != 4 {
		t.Errorf("Version() after batch = %d, want 4", set.Version())
	}
}

func TestLiveMap(t *testing.T) {
	s, _ := newTestSession(t)
	m := NewLiveMap[string, int](s)

	m.Put("b", 1)
	m.Put("a", 2)
	m.Put("b", 3)

	if got, want := m.Keys(), []string{"b", "a"}; !equalLines(got, want) {
		t.Errorf("Keys() = %q, want %q", got, want)
	}
	if v, ok := m.Get("b"); !ok || v != 3 {
		t.Errorf("Get(b) = %d, %v, want 3, true", v, ok)
	}
	if m.Delete("missing") {
		t.Error("Delete() of absent key reported true")
	}
	if !m.Delete("b") {
		t.Error("Delete() of present key reported false")
	}
	if _, ok := m.Get("b"); ok {
		t.Error("deleted key still present")
	}

	m.WithWriteLock(func(e *MapEditor[string, int]) {
		for i, k := range []string{"c", "d", "e"} {
			e.Put(k, i)
		}
	})
	var seen []string
	m.Range(func(k string, v int) bool {
		seen = append(seen, k)
		return k != "c"
	})
	if want := []string{"a", "c"}; !equalLines(seen, want) {
		t.Errorf("Range() visited %q, want %q", seen, want)
	}
	if m.Len() != 4 {
		t.Errorf("Len() = %d, want 4", m.Len())
	}
	if m.Version() != 5 {
		t.Errorf("Version() = %d, want 5", m.Version())
	}

	m.Clear()
	if m.Len() != 0 {
		t.Errorf("Len() after Clear = %d, want 0", m.Len())
	}
}

func TestLiveList_BatchWritesOtherVarThroughTx(t *testing.T) {
	s, term := newTestSession(t)
	list := NewLiveList[int](s)
	count := NewLiveVar(s, 0)

	var err error
	returnsWithin(t, "run with a batch writing another var", func() {
		err = s.Run(func(r *RenderScope) {
			r.Textf("count %d", count.Get())
		}, func(rs *RunScope) error {
			list.WithWriteLock(func(e *ListEditor[int]) {
				e.Add(1)
				count.SetTx(e.Tx(), e.Len())
			})
			return nil
		})
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if got := count.Get(); got != 1 {
		t.Errorf("count = %d, want 1", got)
	}
	if got, want := term.Screen(), []string{"count 1"}; !equalLines(got, want) {
		t.Errorf("Screen() = %q, want %q", got, want)
	}
}

func TestLiveCollections_ReadCallbackReadsVarWhileWriterWaits(t *testing.T) {
	type tc struct {
		read func(s *Session, inner func())
	}

	tests := map[string]tc{
		"list WithReadLock": {
			read: func(s *Session, inner func()) {
				list := NewLiveList(s, 1, 2)
				list.WithReadLock(func([]int) { inner() })
			},
		},
		"map Range": {
			read: func(s *Session, inner func()) {
				m := NewLiveMap[string, int](s)
				m.Put("k", 1)
				m.Range(func(string, int) bool {
					inner()
					return false
				})
			},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			s, _ := newTestSession(t)
			v := NewLiveVar(s, 0)

			writerDone := make(chan struct{})
			returnsWithin(t, "read callback", func() {
				tt.read(s, func() {
					go func() {
						defer close(writerDone)
						v.Set(5)
					}()
					// Let the writer queue behind the held read.
					time.Sleep(20 * time.Millisecond)
					if got := v.Get(); got != 0 {
						t.Errorf("Get() inside read callback = %d, want 0", got)
					}
				})
			})
			<-writerDone
			if got := v.Get(); got != 5 {
				t.Errorf("Get() after writer = %d, want 5", got)
			}
		})
	}
}
