package render

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogBufferRing(t *testing.T) {
	lb := NewLogBuffer(3)
	lb.Add(LogEntry{Level: slog.LevelDebug, Message: "a"})
	lb.Add(LogEntry{Level: slog.LevelInfo, Message: "b"})
	lb.Add(LogEntry{Level: slog.LevelDebug, Message: "c"})
	lb.Add(LogEntry{Level: slog.LevelInfo, Message: "d"})

	assert.Equal(t, 3, lb.Len())

	all := lb.Recent(0, slog.LevelDebug)
	require.Len(t, all, 3)
	assert.Equal(t, "d", all[0].Message)
	assert.Equal(t, "b", all[2].Message)

	// b and d are Info, c is Debug
	info := lb.Recent(0, slog.LevelInfo)
	require.Len(t, info, 2)
	assert.Equal(t, "d", info[0].Message)

	assert.Len(t, lb.Recent(1, slog.LevelDebug), 1)

	lb.Clear()
	assert.Empty(t, lb.Recent(0, slog.LevelDebug))
}

func TestLogBufferHandler(t *testing.T) {
	lb := NewLogBuffer(10)
	var level slog.LevelVar
	level.Set(slog.LevelInfo)
	logger := slog.New(NewLogBufferHandler(lb, &level))

	logger.Debug("hidden")
	logger.With("rom", "smb.nes").WithGroup("cpu").Info("crash", "pc", 0x8000)

	entries := lb.Recent(0, slog.LevelDebug)
	require.Len(t, entries, 1)
	assert.Equal(t, "crash rom=smb.nes cpu.pc=32768", entries[0].Message)

	level.Set(slog.LevelDebug)
	assert.True(t, logger.Handler().Enabled(context.Background(), slog.LevelDebug))
}

func TestFormatLogEntry(t *testing.T) {
	ts := time.Date(2024, 1, 1, 13, 4, 5, 0, time.UTC)
	assert.Equal(t, "13:04:05 [WRN] low", FormatLogEntry(LogEntry{Time: ts, Level: slog.LevelWarn, Message: "low"}))
}

func TestStepLevel(t *testing.T) {
	testCases := []struct {
		desc      string
		current   slog.Level
		direction int
		want      slog.Level
	}{
		{desc: "more verbose", current: slog.LevelInfo, direction: 1, want: slog.LevelDebug},
		{desc: "less verbose", current: slog.LevelInfo, direction: -1, want: slog.LevelWarn},
		{desc: "debug is the floor", current: slog.LevelDebug, direction: 1, want: slog.LevelDebug},
		{desc: "error is the ceiling", current: slog.LevelError, direction: -1, want: slog.LevelError},
		{desc: "unknown level unchanged", current: slog.Level(2), direction: 1, want: slog.Level(2)},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			assert.Equal(t, tC.want, StepLevel(tC.current, tC.direction))
		})
	}
}

func TestHalfBlock(t *testing.T) {
	r, style := HalfBlock(0xFFFF0000, 0xFF0000FF)
	assert.Equal(t, UpperHalf, r)
	fg, bg, _ := style.Decompose()
	assert.Equal(t, tcell.NewRGBColor(255, 0, 0), fg)
	assert.Equal(t, tcell.NewRGBColor(0, 0, 255), bg)

	r, _ = HalfBlock(0xFF101010, 0xFF101010)
	assert.Equal(t, FullBlock, r)
}

func TestScale(t *testing.T) {
	testCases := []struct {
		desc       string
		cols, rows int
		want       int
	}{
		{desc: "full size", cols: 300, rows: 130, want: 1},
		{desc: "half size", cols: 200, rows: 70, want: 2},
		{desc: "quarter size", cols: 64, rows: 30, want: 4},
		{desc: "too small", cols: 40, rows: 20, want: 0},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			assert.Equal(t, tC.want, Scale(256, 240, tC.cols, tC.rows, 4))
		})
	}
}
