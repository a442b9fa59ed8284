package liveterm

import (
	"context"
	"errors"
	"sync"
)

// ErrTerminalClosed is returned by operations on a closed terminal.
var ErrTerminalClosed = errors.New("liveterm: terminal closed")

// Terminal is the backend a session writes sections to and reads keys from.
// Writes must reach the screen in the order they are issued.
type Terminal interface {
	// Write sends text, which may hold ANSI sequences, to the terminal.
	Write(text string) error

	// Keys returns a channel of key presses. Every caller gets its own
	// channel, closed when ctx ends or the terminal closes.
	Keys(ctx context.Context) <-chan KeyEvent

	// Clear blanks the screen.
	Clear() error

	// Close releases the terminal. It is safe to call more than once.
	Close() error

	// Size returns the terminal dimensions in cells.
	Size() (width, height int)
}

const keyBuffer = 64

// keyFanout delivers key events to every live subscriber in order.
type keyFanout struct {
	mu     sync.Mutex
	subs   map[*keySub]struct{}
	closed bool
}

type keySub struct {
	ch   chan KeyEvent
	ctx  context.Context
	stop func() bool
}

func (f *keyFanout) subscribe(ctx context.Context) <-chan KeyEvent {
	f.mu.Lock()
	defer f.mu.Unlock()

	sub := &keySub{ch: make(chan KeyEvent, keyBuffer), ctx: ctx}
	if f.closed {
		close(sub.ch)
		return sub.ch
	}
	if f.subs == nil {
		f.subs = make(map[*keySub]struct{})
	}
	f.subs[sub] = struct{}{}

	sub.stop = context.AfterFunc(ctx, func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		if _, ok := f.subs[sub]; ok {
			delete(f.subs, sub)
			close(sub.ch)
		}
	})
	return sub.ch
}

// publish blocks until every subscriber has taken the events or gone away.
func (f *keyFanout) publish(events ...KeyEvent) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, ev := range events {
		for sub := range f.subs {
			select {
			case sub.ch <- ev:
			case <-sub.ctx.Done():
			}
		}
	}
}

func (f *keyFanout) subscribers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}

func (f *keyFanout) close() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return
	}
	f.closed = true
	for sub := range f.subs {
		sub.stop()
		close(sub.ch)
	}
	f.subs = nil
}
