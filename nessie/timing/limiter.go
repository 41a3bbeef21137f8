package timing

import (
	"fmt"
	"time"
)

// Limiter paces the emulation loop to the console's frame rate.
type Limiter interface {
	// WaitForNextFrame blocks until the next frame is due. It returns right
	// away when the loop is running late.
	WaitForNextFrame()

	// Reset drops the schedule, so a pause is not made up for afterwards.
	Reset()
}

// Both video standards derive every clock from one crystal. The PPU divides
// it by 4 on NTSC and by 5 on PAL, and draws 341 dots per scanline.
const (
	ntscMasterClock = 21477272.0
	palMasterClock  = 26601712.0

	// NTSC skips a dot on every other rendered frame.
	ntscDotsPerFrame = 341*262 - 0.5
	palDotsPerFrame  = 341 * 312
)

// Frame rates of the two video standards, about 60.0988 and 50.0070.
const (
	NTSCFrameRate = ntscMasterClock / 4 / ntscDotsPerFrame
	PALFrameRate  = palMasterClock / 5 / palDotsPerFrame
)

// FrameDuration is the length of one frame at fps frames per second.
// Non-positive rates fall back to NTSC.
func FrameDuration(fps float64) time.Duration {
	if fps <= 0 {
		fps = NTSCFrameRate
	}
	return time.Duration(float64(time.Second) / fps)
}

// Mode selects how frames are paced.
type Mode string

const (
	// ModeAdaptive sleeps, then spins for the last millisecond.
	ModeAdaptive Mode = "adaptive"
	// ModeTicker waits on a time.Ticker. It uses less CPU and jitters more.
	ModeTicker Mode = "ticker"
	// ModeOff runs as fast as the host allows.
	ModeOff Mode = "off"
)

// New returns the limiter for mode running at fps frames per second.
func New(mode Mode, fps float64) (Limiter, error) {
	switch mode {
	case ModeAdaptive, "":
		return NewAdaptiveLimiter(fps), nil
	case ModeTicker:
		return NewTickerLimiter(fps), nil
	case ModeOff:
		return NewNoOpLimiter(), nil
	}
	return nil, fmt.Errorf("unknown pacing mode %q", mode)
}

// NewNoOpLimiter returns a limiter that never waits, for headless runs.
func NewNoOpLimiter() Limiter {
	return noOpLimiter{}
}

type noOpLimiter struct{}

func (noOpLimiter) WaitForNextFrame() {}
func (noOpLimiter) Reset()            {}
