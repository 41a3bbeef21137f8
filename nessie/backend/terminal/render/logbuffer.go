package render

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// LogEntry is one captured log record, already flattened for display.
type LogEntry struct {
	Time    time.Time
	Level   slog.Level
	Message string
}

// LogBuffer is a fixed size ring of log entries, safe for concurrent use.
type LogBuffer struct {
	mu      sync.RWMutex
	entries []LogEntry
	next    int
	count   int
}

func NewLogBuffer(size int) *LogBuffer {
	if size < 1 {
		size = 1
	}
	return &LogBuffer{entries: make([]LogEntry, size)}
}

// Add stores an entry, overwriting the oldest one when the ring is full.
func (lb *LogBuffer) Add(entry LogEntry) {
	lb.mu.Lock()
	defer lb.mu.Unlock()

	lb.entries[lb.next] = entry
	lb.next = (lb.next + 1) % len(lb.entries)
	if lb.count < len(lb.entries) {
		lb.count++
	}
}

// Recent returns up to limit entries at or above level, newest first.
// A limit of zero or less returns every matching entry.
func (lb *LogBuffer) Recent(limit int, level slog.Level) []LogEntry {
	lb.mu.RLock()
	defer lb.mu.RUnlock()

	var out []LogEntry
	for i := 0; i < lb.count; i++ {
		if limit > 0 && len(out) == limit {
			break
		}
		e := lb.entries[(lb.next-1-i+len(lb.entries))%len(lb.entries)]
		if e.Level >= level {
			out = append(out, e)
		}
	}
	return out
}

func (lb *LogBuffer) Len() int {
	lb.mu.RLock()
	defer lb.mu.RUnlock()
	return lb.count
}

func (lb *LogBuffer) Clear() {
	lb.mu.Lock()
	defer lb.mu.Unlock()
	lb.count = 0
	lb.next = 0
}

// LogBufferHandler is a slog.Handler writing into a LogBuffer.
type LogBufferHandler struct {
	buffer *LogBuffer
	level  slog.Leveler
	// attrs are preformatted by WithAttrs, under the group active then
	attrs string
	group string
}

func NewLogBufferHandler(buffer *LogBuffer, level slog.Leveler) *LogBufferHandler {
	return &LogBufferHandler{buffer: buffer, level: level}
}

func (h *LogBufferHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *LogBufferHandler) Handle(_ context.Context, record slog.Record) error {
	var sb strings.Builder
	sb.WriteString(record.Message)
	sb.WriteString(h.attrs)
	record.Attrs(func(a slog.Attr) bool {
		h.writeAttr(&sb, a)
		return true
	})

	h.buffer.Add(LogEntry{Time: record.Time, Level: record.Level, Message: sb.String()})
	return nil
}

func (h *LogBufferHandler) writeAttr(sb *strings.Builder, a slog.Attr) {
	key := a.Key
	if h.group != "" {
		key = h.group + "." + key
	}
	fmt.Fprintf(sb, " %s=%v", key, a.Value)
}

func (h *LogBufferHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	var sb strings.Builder
	for _, a := range attrs {
		h.writeAttr(&sb, a)
	}
	clone := *h
	clone.attrs += sb.String()
	return &clone
}

func (h *LogBufferHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	if clone.group != "" {
		clone.group += "." + name
	} else {
		clone.group = name
	}
	return &clone
}

// FormatLogEntry renders an entry as "15:04:05 [INF] message".
func FormatLogEntry(entry LogEntry) string {
	var level string
	switch entry.Level {
	case slog.LevelDebug:
		level = "DBG"
	case slog.LevelInfo:
		level = "INF"
	case slog.LevelWarn:
		level = "WRN"
	case slog.LevelError:
		level = "ERR"
	default:
		level = "???"
	}
	return fmt.Sprintf("%s [%s] %s", entry.Time.Format("15:04:05"), level, entry.Message)
}

var levels = []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError}

// StepLevel moves the display filter one level. A positive direction shows
// more (towards debug), a negative one shows less. The ends are sticky.
func StepLevel(current slog.Level, direction int) slog.Level {
	idx := -1
	for i, l := range levels {
		if l == current {
			idx = i
		}
	}
	if idx < 0 {
		return current
	}
	switch {
	case direction > 0 && idx > 0:
		idx--
	case direction < 0 && idx < len(levels)-1:
		idx++
	}
	return levels[idx]
}
