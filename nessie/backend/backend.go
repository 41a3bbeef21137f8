package backend

import (
	"github.com/valerio/go-nessie/nessie/audio"
	"github.com/valerio/go-nessie/nessie/debug"
	"github.com/valerio/go-nessie/nessie/input"
	"github.com/valerio/go-nessie/nessie/input/action"
	"github.com/valerio/go-nessie/nessie/input/event"
	"github.com/valerio/go-nessie/nessie/video"
)

// Backend represents a complete emulator platform (rendering + input + audio)
// Backends are responsible for:
// - Rendering frames to their specific output (terminal, SDL window, etc.)
// - Translating platform-specific input events to Actions
// - Handling backend-specific features (snapshots, debug panels)
type Backend interface {
	// Init configures the backend with the provided configuration.
	// This is a required step before calling Update.
	Init(config BackendConfig) error

	// Update renders the frame and returns the input events collected
	// since the previous call.
	Update(frame *video.FrameBuffer) ([]InputEvent, error)

	// Cleanup resources when shutting down
	Cleanup() error
}

// InputEvent is a platform event already translated to an action.
type InputEvent struct {
	Action action.Action
	Type   event.Type
}

// BackendConfig holds configuration for backends
type BackendConfig struct {
	Title      string
	Scale      int
	VSync      bool
	Fullscreen bool
	ShowDebug  bool // Backends may ignore unsupported features
	// SampleRate of the audio the backend plays, 0 disables audio output.
	SampleRate int
	// DebugProvider feeds debug panels. May be nil.
	DebugProvider DebugProvider
}

// DebugProvider is implemented by emulators that can describe their state.
type DebugProvider interface {
	ExtractDebugData() *debug.CompleteDebugData
}

// ActionHandler is implemented by backends that react to some emulator
// actions themselves, such as snapshots or toggling their debug panels.
type ActionHandler interface {
	HandleAction(act action.Action)
}

// BackendActions are the actions routed to an ActionHandler.
var BackendActions = []action.Action{
	action.EmulatorSnapshot,
	action.EmulatorDebugToggle,
	action.DebugLogLevelIncrease,
	action.DebugLogLevelDecrease,
}

// RegisterActions routes presses of BackendActions to h.
func RegisterActions(m *input.Manager, h ActionHandler) {
	for _, act := range BackendActions {
		m.On(act, event.Press, func() { h.HandleAction(act) })
	}
}

// AudioProvider is implemented by backends that play the console's audio.
type AudioProvider interface {
	AudioSink() audio.Sink
}
