//go:build unix

package liveterm

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/x/ansi"
	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// pollInterval bounds how long the input loop waits before checking for
// shutdown.
const pollInterval = 50 * time.Millisecond

// systemTerminal drives the process's controlling terminal in raw mode.
type systemTerminal struct {
	in, out  *os.File
	inFd     int
	outFd    int
	oldState *term.State

	writeMu sync.Mutex
	keys    keyFanout

	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
	closeErr  error
}

// NewSystemTerminal puts stdin into raw mode and hides the cursor. The
// returned terminal must be closed to restore the previous mode.
func NewSystemTerminal() (Terminal, error) {
	return newSystemTerminal(os.Stdin, os.Stdout)
}

func newSystemTerminal(in, out *os.File) (*systemTerminal, error) {
	inFd := int(in.Fd())
	if !term.IsTerminal(inFd) {
		return nil, ErrNotATerminal
	}
	oldState, err := term.MakeRaw(inFd)
	if err != nil {
		return nil, fmt.Errorf("enter raw mode: %w", err)
	}

	t := &systemTerminal{
		in:       in,
		out:      out,
		inFd:     inFd,
		outFd:    int(out.Fd()),
		oldState: oldState,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	if err := t.writeRaw(ansi.HideCursor); err != nil {
		_ = term.Restore(inFd, oldState)
		return nil, err
	}
	go t.readLoop()
	return t, nil
}

// Write sends text to the terminal. Raw mode turns off output processing,
// so newlines are expanded to CRLF here.
func (t *systemTerminal) Write(text string) error {
	return t.writeRaw(strings.ReplaceAll(text, "\n", "\r\n"))
}

func (t *systemTerminal) writeRaw(text string) error {
	t.writeMu.Lock()
	defer t.writeMu.Unlock()

	select {
	case <-t.done:
		return ErrTerminalClosed
	default:
	}
	if _, err := t.out.WriteString(text); err != nil {
		return fmt.Errorf("write terminal: %w", err)
	}
	return nil
}

func (t *systemTerminal) Keys(ctx context.Context) <-chan KeyEvent {
	return t.keys.subscribe(ctx)
}

func (t *systemTerminal) Clear() error {
	return t.writeRaw(ansi.EraseEntireScreen + ansi.CursorHomePosition)
}

// Size returns the terminal dimensions, falling back to 80x24.
func (t *systemTerminal) Size() (width, height int) {
	w, h, err := term.GetSize(t.outFd)
	if err != nil || w <= 0 {
		return 80, 24
	}
	return w, h
}

// Close stops the input loop, shows the cursor and restores the terminal
// mode it found.
func (t *systemTerminal) Close() error {
	t.closeOnce.Do(func() {
		close(t.stop)
		<-t.done
		t.keys.close()

		t.writeMu.Lock()
		_, werr := t.out.WriteString(ansi.ShowCursor)
		t.writeMu.Unlock()
		t.closeErr = errors.Join(werr, term.Restore(t.inFd, t.oldState))
	})
	return t.closeErr
}

func (t *systemTerminal) readLoop() {
	defer close(t.done)

	buf := make([]byte, 256)
	for {
		select {
		case <-t.stop:
			return
		default:
		}

		ready, err := pollReadable(t.inFd, pollInterval)
		if err != nil {
			return
		}
		if !ready {
			continue
		}
		n, err := t.in.Read(buf)
		if err != nil {
			return
		}
		if events := parseInput(buf[:n]); len(events) > 0 {
			t.keys.publish(events...)
		}
	}
}

// pollReadable waits up to timeout for fd to become readable. An interrupted
// wait reports not ready.
func pollReadable(fd int, timeout time.Duration) (bool, error) {
	fds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}
	n, err := unix.Poll(fds, int(timeout/time.Millisecond))
	if err != nil {
		if errors.Is(err, unix.EINTR) {
			return false, nil
		}
		return false, err
	}
	return n > 0 && fds[0].Revents&unix.POLLIN != 0, nil
}
