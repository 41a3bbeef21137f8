package timing

import (
	"log/slog"
	"time"
)

// maxLag is how many frames the loop may fall behind before the schedule
// is restarted instead of caught up.
const maxLag = 5

// reportInterval is how often, in frames, the measured rate is logged.
const reportInterval = 300

// AdaptiveLimiter schedules frame n at start + n*period, so rounding of a
// fractional period never accumulates. Most of the wait is a sleep and the
// last millisecond is spun.
type AdaptiveLimiter struct {
	fps    float64
	period time.Duration
	start  time.Time
	frames int64
	now    func() time.Time
	sleep  func(time.Duration)
}

func NewAdaptiveLimiter(fps float64) *AdaptiveLimiter {
	if fps <= 0 {
		fps = NTSCFrameRate
	}
	a := &AdaptiveLimiter{
		fps:    fps,
		period: FrameDuration(fps),
		now:    time.Now,
		sleep:  time.Sleep,
	}
	a.Reset()
	return a
}

// deadline is when frame n is due.
func (a *AdaptiveLimiter) deadline(n int64) time.Time {
	return a.start.Add(time.Duration(float64(n) * float64(time.Second) / a.fps))
}

func (a *AdaptiveLimiter) WaitForNextFrame() {
	a.frames++
	due := a.deadline(a.frames)
	wait := due.Sub(a.now())

	switch {
	case wait > 0:
		if wait >= 2*time.Millisecond {
			a.sleep(wait - time.Millisecond)
		}
		for a.now().Before(due) {
			// spin
		}
	case wait < -maxLag*a.period:
		slog.Debug("Frame pacing fell behind, restarting schedule", "late", -wait, "frames", a.frames)
		a.Reset()
		return
	}

	if a.frames%reportInterval == 0 {
		elapsed := a.now().Sub(a.start)
		slog.Debug("Frame pacing",
			"frames", a.frames,
			"target_fps", a.fps,
			"fps", float64(a.frames)/elapsed.Seconds())
	}
}

func (a *AdaptiveLimiter) Reset() {
	a.start = a.now()
	a.frames = 0
}
