package debug

import "github.com/valerio/go-nessie/nessie/video"

// CPUState contains all CPU register information for debugging
type CPUState struct {
	A  uint8
	X  uint8
	Y  uint8
	SP uint16
	PC uint16
	P  uint8

	Cycles           uint64
	InterruptPending bool
	Interrupt        string
	Halted           int
}

// MemorySnapshot contains a snapshot of memory for disassembly
type MemorySnapshot struct {
	StartAddr uint16
	Bytes     []uint8
}

// DebuggerState represents the current debugger state
type DebuggerState int

const (
	DebuggerRunning DebuggerState = iota
	DebuggerPaused
	DebuggerStepInstruction
	DebuggerStepFrame
)

func (s DebuggerState) String() string {
	switch s {
	case DebuggerRunning:
		return "running"
	case DebuggerPaused:
		return "paused"
	case DebuggerStepInstruction:
		return "step instruction"
	case DebuggerStepFrame:
		return "step frame"
	}
	return "unknown"
}

// CompleteDebugData contains all debug information needed by debug displays
type CompleteDebugData struct {
	CPU           *CPUState
	PPU           *video.State
	OAM           *OAMData
	Palettes      *PaletteData
	Audio         *AudioData
	Memory        *MemorySnapshot
	DebuggerState DebuggerState
	Cartridge     string
}
