// Package clock abstracts the time source used by timers so tests can drive
// time explicitly. It is a thin layer over clockwork.
package clock

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
)

// Clock supplies the current time and periodic tickers.
type Clock = clockwork.Clock

// Ticker delivers ticks on Chan until Stop is called. Ticks are dropped
// while the consumer is behind.
type Ticker = clockwork.Ticker

// Real returns a Clock backed by the time package.
func Real() Clock { return clockwork.NewRealClock() }

type fake interface {
	clockwork.Clock
	Advance(d time.Duration)
	BlockUntilContext(ctx context.Context, n int) error
}

// FakeClock is a Clock whose time only moves when Advance is called.
// It is safe for concurrent use.
type FakeClock struct {
	fake
}

// Fake returns a FakeClock set to initial.
func Fake(initial time.Time) *FakeClock {
	return &FakeClock{fake: clockwork.NewFakeClockAt(initial)}
}

// WaitForTickers blocks until at least n tickers or timers are waiting on
// the clock.
func (c *FakeClock) WaitForTickers(n int) {
	_ = c.BlockUntilContext(context.Background(), n)
}
