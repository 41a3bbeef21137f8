package timing

import "time"

// TickerLimiter waits on a time.Ticker. The ticker period is rounded to
// whole nanoseconds and drops ticks the loop is too slow to take.
type TickerLimiter struct {
	ticker *time.Ticker
	period time.Duration
}

func NewTickerLimiter(fps float64) *TickerLimiter {
	period := FrameDuration(fps)
	return &TickerLimiter{
		ticker: time.NewTicker(period),
		period: period,
	}
}

func (t *TickerLimiter) WaitForNextFrame() {
	<-t.ticker.C
}

// Reset restarts the period and throws away a tick left over from a pause.
func (t *TickerLimiter) Reset() {
	t.ticker.Reset(t.period)
	select {
	case <-t.ticker.C:
	default:
	}
}

func (t *TickerLimiter) Stop() {
	t.ticker.Stop()
}
