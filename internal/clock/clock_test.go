package clock

import (
	"testing"
	"time"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func TestFake_AdvanceMovesNow(t *testing.T) {
	c := Fake(epoch)
	c.Advance(3 * time.Second)
	if got := c.Now(); !got.Equal(epoch.Add(3 * time.Second)) {
		t.Errorf("Now() = %v, want %v", got, epoch.Add(3*time.Second))
	}
}

func TestFake_TickerFiresOncePerAdvance(t *testing.T) {
	type tc struct {
		advance time.Duration
		want    int
	}

	tests := map[string]tc{
		"before deadline": {advance: 5 * time.Millisecond, want: 0},
		"at deadline":     {advance: 10 * time.Millisecond, want: 1},
		"many intervals":  {advance: 100 * time.Millisecond, want: 1},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			c := Fake(epoch)
			ticker := c.NewTicker(10 * time.Millisecond)
			defer ticker.Stop()

			c.Advance(tt.advance)

			got := 0
			for {
				select {
				case <-ticker.Chan():
					got++
					continue
				default:
				}
				break
			}
			if got != tt.want {
				t.Errorf("ticks = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestFake_StoppedTickerIsSilent(t *testing.T) {
	c := Fake(epoch)
	ticker := c.NewTicker(time.Millisecond)
	c.WaitForTickers(1)
	ticker.Stop()
	c.Advance(time.Second)

	select {
	case <-ticker.Chan():
		t.Error("stopped ticker delivered a tick")
	default:
	}
}
