// Package headless runs the console without any display, for batch runs and
// tests. It stops after a fixed number of frames, optionally saving PNG
// snapshots along the way, and keeps a digest of the last frame so runs can
// be compared.
package headless

import (
	"crypto/md5"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/valerio/go-nessie/nessie/audio"
	"github.com/valerio/go-nessie/nessie/backend"
	"github.com/valerio/go-nessie/nessie/debug"
	"github.com/valerio/go-nessie/nessie/input/action"
	"github.com/valerio/go-nessie/nessie/input/event"
	"github.com/valerio/go-nessie/nessie/video"
)

// progressInterval is how often, in frames, progress is logged.
const progressInterval = 60

// SnapshotConfig holds configuration for frame snapshots
type SnapshotConfig struct {
	Enabled   bool
	Interval  int    // Save snapshot every N frames
	Directory string // Directory to save snapshots
	ROMName   string // ROM name for snapshot filenames
}

// due reports whether frame n gets a snapshot. The last frame always does.
func (c SnapshotConfig) due(n, last int) bool {
	return c.Enabled && (n%c.Interval == 0 || n == last)
}

// Backend presents frames nowhere. It asks to quit once the frame budget
// is spent.
type Backend struct {
	title     string
	frames    int
	budget    int
	snapshots SnapshotConfig
	saved     []string
	digest    [md5.Size]byte
	scratch   []byte
	samples   sampleCounter
}

func New(frames int, snapshots SnapshotConfig) *Backend {
	return &Backend{
		budget:    frames,
		snapshots: snapshots,
	}
}

func (h *Backend) Init(config backend.BackendConfig) error {
	h.title = config.Title

	args := []any{"title", h.title, "frames", h.budget}
	if h.snapshots.Enabled {
		args = append(args, "snapshot_interval", h.snapshots.Interval, "snapshot_dir", h.snapshots.Directory)
	}
	slog.Info("Running headless", args...)
	return nil
}

// Update counts the frame, saves a snapshot when one is due and returns a
// quit press once the budget is reached.
func (h *Backend) Update(frame *video.FrameBuffer) ([]backend.InputEvent, error) {
	h.frames++
	h.hash(frame)

	if h.snapshots.due(h.frames, h.budget) {
		h.saveSnapshot(frame)
	}

	if h.frames%progressInterval == 0 && h.frames < h.budget {
		slog.Info("Frame progress", "completed", h.frames, "total", h.budget)
	}

	if h.frames < h.budget {
		return nil, nil
	}

	slog.Info("Headless run completed",
		"frames", h.frames,
		"audio_frames", h.samples.frames,
		"frame_md5", h.FrameDigest(),
		"snapshots", len(h.saved))
	return []backend.InputEvent{{Action: action.EmulatorQuit, Type: event.Press}}, nil
}

func (h *Backend) Cleanup() error {
	return nil
}

// AudioSink counts the audio delivered during the run and drops it.
func (h *Backend) AudioSink() audio.Sink {
	return &h.samples
}

// AudioFrames is the number of stereo frames the console produced so far.
func (h *Backend) AudioFrames() int {
	return h.samples.frames
}

// Snapshots returns the paths of the snapshots written so far.
func (h *Backend) Snapshots() []string {
	return h.saved
}

// FrameDigest is the hex MD5 of the last frame's pixels, little-endian
// 0xAARRGGBB words. Empty before the first frame.
func (h *Backend) FrameDigest() string {
	if h.frames == 0 {
		return ""
	}
	return hex.EncodeToString(h.digest[:])
}

// FrameDigest hashes a frame the same way Backend does.
func FrameDigest(frame *video.FrameBuffer) string {
	sum := md5.Sum(framePixels(frame, nil))
	return hex.EncodeToString(sum[:])
}

func (h *Backend) hash(frame *video.FrameBuffer) {
	h.scratch = framePixels(frame, h.scratch)
	h.digest = md5.Sum(h.scratch)
}

func framePixels(frame *video.FrameBuffer, dst []byte) []byte {
	dst = dst[:0]
	for _, px := range frame.ToSlice() {
		dst = binary.LittleEndian.AppendUint32(dst, px)
	}
	return dst
}

type sampleCounter struct {
	frames int
}

func (s *sampleCounter) WriteSamples(samples []int16) error {
	s.frames += len(samples) / 2
	return nil
}

// InstallLogger sends debug level logs to stderr, used for batch runs.
func InstallLogger() {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})
	slog.SetDefault(slog.New(handler))
}

// CreateSnapshotConfig builds the snapshot settings from the command line.
// An interval of 0 disables snapshots. Without a directory a temporary one
// is created.
func CreateSnapshotConfig(interval int, directory, romPath string) (SnapshotConfig, error) {
	if interval <= 0 {
		return SnapshotConfig{}, nil
	}

	var err error
	if directory == "" {
		directory, err = os.MkdirTemp("", "nessie-snapshots-*")
	} else {
		err = os.MkdirAll(directory, 0o755)
	}
	if err != nil {
		return SnapshotConfig{}, fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	name := filepath.Base(romPath)
	return SnapshotConfig{
		Enabled:   true,
		Interval:  interval,
		Directory: directory,
		ROMName:   strings.TrimSuffix(name, filepath.Ext(name)),
	}, nil
}

func (h *Backend) saveSnapshot(frame *video.FrameBuffer) {
	base := fmt.Sprintf("%s_frame_%d", h.snapshots.ROMName, h.frames)

	path, err := debug.SaveFramePNGToDir(frame, base, h.snapshots.Directory)
	if err != nil {
		slog.Error("Failed to save PNG snapshot", "frame", h.frames, "error", err)
		return
	}
	h.saved = append(h.saved, path)
}
