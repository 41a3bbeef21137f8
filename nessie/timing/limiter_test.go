package timing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameRates(t *testing.T) {
	assert.InDelta(t, 60.0988, NTSCFrameRate, 0.0001)
	assert.InDelta(t, 50.0070, PALFrameRate, 0.0001)
}

func TestFrameDuration(t *testing.T) {
	testCases := []struct {
		desc string
		fps  float64
		want time.Duration
	}{
		{desc: "ntsc", fps: NTSCFrameRate, want: 16639264 * time.Nanosecond},
		{desc: "pal", fps: PALFrameRate, want: 19997209 * time.Nanosecond},
		{desc: "round rate", fps: 50, want: 20 * time.Millisecond},
		{desc: "invalid rate falls back to ntsc", fps: 0, want: 16639264 * time.Nanosecond},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			assert.InDelta(t, int64(tC.want), int64(FrameDuration(tC.fps)), 2)
		})
	}
}

func TestNew(t *testing.T) {
	testCases := []struct {
		desc    string
		mode    Mode
		want    Limiter
		wantErr bool
	}{
		{desc: "adaptive", mode: ModeAdaptive, want: &AdaptiveLimiter{}},
		{desc: "default is adaptive", mode: "", want: &AdaptiveLimiter{}},
		{desc: "ticker", mode: ModeTicker, want: &TickerLimiter{}},
		{desc: "off", mode: ModeOff, want: noOpLimiter{}},
		{desc: "unknown", mode: "vsync", wantErr: true},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			l, err := New(tC.mode, PALFrameRate)
			if tC.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tC.want, l)
			if tl, ok := l.(*TickerLimiter); ok {
				tl.Stop()
			}
		})
	}
}

func TestNoOpLimiter(t *testing.T) {
	l := NewNoOpLimiter()
	start := time.Now()
	for i := 0; i < 100; i++ {
		l.WaitForNextFrame()
	}
	l.Reset()
	assert.Less(t, time.Since(start), 50*time.Millisecond)
}

// fakeClock moves forward a little on every read, so spinning ends.
type fakeClock struct {
	t     time.Time
	slept time.Duration
}

func (c *fakeClock) now() time.Time {
	c.t = c.t.Add(100 * time.Microsecond)
	return c.t
}

func (c *fakeClock) sleep(d time.Duration) {
	c.slept += d
	c.t = c.t.Add(d)
}

func newFakeLimiter(fps float64) (*AdaptiveLimiter, *fakeClock) {
	c := &fakeClock{t: time.Unix(0, 0)}
	l := NewAdaptiveLimiter(fps)
	l.now = c.now
	l.sleep = c.sleep
	l.Reset()
	return l, c
}

func TestAdaptiveLimiterSchedule(t *testing.T) {
	testCases := []struct {
		desc string
		fps  float64
	}{
		{desc: "ntsc", fps: NTSCFrameRate},
		{desc: "pal", fps: PALFrameRate},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			l, c := newFakeLimiter(tC.fps)
			start := c.t

			for n := 1; n <= 600; n++ {
				l.WaitForNextFrame()
				due := l.deadline(int64(n))
				require.False(t, c.t.Before(due), "frame %d ran early", n)
				require.Less(t, c.t.Sub(due), time.Millisecond, "frame %d ran late", n)
			}

			// ten seconds of frames, with no drift from the fractional period
			want := time.Duration(600 / tC.fps * float64(time.Second))
			assert.InDelta(t, int64(want), int64(c.t.Sub(start)), float64(time.Millisecond))
			assert.Greater(t, c.slept, 9*time.Second)
		})
	}
}

func TestAdaptiveLimiterCatchesUp(t *testing.T) {
	l, c := newFakeLimiter(50)

	// two and a half frames late: the next two frames run back to back
	c.t = c.t.Add(50 * time.Millisecond)
	l.WaitForNextFrame()
	l.WaitForNextFrame()
	assert.Zero(t, c.slept)
	assert.EqualValues(t, 2, l.frames)

	l.WaitForNextFrame()
	assert.NotZero(t, c.slept)
	assert.EqualValues(t, 3, l.frames)
}

func TestAdaptiveLimiterRestartsWhenFarBehind(t *testing.T) {
	l, c := newFakeLimiter(50)
	l.WaitForNextFrame()
	l.WaitForNextFrame()

	c.t = c.t.Add(time.Second)
	l.WaitForNextFrame()
	assert.EqualValues(t, 0, l.frames)
	assert.Equal(t, c.t, l.start)
}

func TestTickerLimiter(t *testing.T) {
	l := NewTickerLimiter(500)
	defer l.Stop()

	start := time.Now()
	l.WaitForNextFrame()
	l.WaitForNextFrame()
	assert.GreaterOrEqual(t, time.Since(start), 3*time.Millisecond)

	// a pause leaves a tick behind, Reset drops it
	time.Sleep(5 * time.Millisecond)
	l.Reset()
	start = time.Now()
	l.WaitForNextFrame()
	assert.GreaterOrEqual(t, time.Since(start), time.Millisecond)
}
