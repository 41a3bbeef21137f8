package nessie

import (
	"log/slog"

	"github.com/valerio/go-nessie/nessie/audio"
	"github.com/valerio/go-nessie/nessie/debug"
	"github.com/valerio/go-nessie/nessie/input"
	"github.com/valerio/go-nessie/nessie/input/action"
	"github.com/valerio/go-nessie/nessie/input/event"
	"github.com/valerio/go-nessie/nessie/video"
)

// snapshotSize is the memory window captured around PC for disassembly.
const snapshotSize = 96

// RunUntilFrame runs one frame while the debugger is running. When paused it
// returns immediately, and a pending step request runs one instruction or
// one frame before pausing again.
func (c *Console) RunUntilFrame() error {
	switch c.debuggerState {
	case debug.DebuggerPaused:
		return nil
	case debug.DebuggerStepInstruction:
		c.debuggerState = debug.DebuggerPaused
		return c.StepInstruction()
	case debug.DebuggerStepFrame:
		c.debuggerState = debug.DebuggerPaused
		return c.RunFrame()
	}
	return c.RunFrame()
}

// DebuggerState returns the current debugger mode.
func (c *Console) DebuggerState() debug.DebuggerState {
	return c.debuggerState
}

// HandleAction applies an input action. Controller buttons follow pressed,
// the other actions fire on press only.
func (c *Console) HandleAction(act action.Action, pressed bool) {
	if act.IsController() {
		pad := c.pad1
		if act >= action.NES2ButtonA {
			pad = c.pad2
		}
		if pressed {
			pad.Press(input.JoypadKey(act))
		} else {
			pad.Release(input.JoypadKey(act))
		}
		return
	}
	if !pressed {
		return
	}

	switch act {
	case action.EmulatorPauseToggle:
		if c.debuggerState == debug.DebuggerRunning {
			c.debuggerState = debug.DebuggerPaused
		} else {
			c.debuggerState = debug.DebuggerRunning
		}
		slog.Info("Debugger", "state", c.debuggerState)
	case action.EmulatorStepInstruction:
		c.debuggerState = debug.DebuggerStepInstruction
	case action.EmulatorStepFrame:
		c.debuggerState = debug.DebuggerStepFrame
	case action.EmulatorReset:
		if err := c.Reset(); err != nil {
			slog.Warn("Reset failed", "error", err)
		}
	case action.AudioToggleSquare1, action.AudioToggleSquare2, action.AudioToggleTriangle,
		action.AudioToggleNoise, action.AudioToggleDMC:
		c.apu.ToggleChannel(audio.Channel(act - action.AudioToggleSquare1))
	case action.AudioSoloSquare1, action.AudioSoloSquare2, action.AudioSoloTriangle,
		action.AudioSoloNoise, action.AudioSoloDMC:
		c.apu.SoloChannel(audio.Channel(act - action.AudioSoloSquare1))
	case action.AudioUnmuteAll:
		c.apu.UnmuteAll()
	case action.AudioShowStatus:
		data := debug.ExtractAudioData(c.apu, c.opts.SampleRate)
		slog.Info("Audio channels", "status", data.FormatChannels(), "volume", data.MasterVolume)
	case action.DebugPatternDump:
		c.dumpPatterns("")
	}
}

// consoleActions are the actions the console handles itself.
var consoleActions = []action.Action{
	action.EmulatorPauseToggle,
	action.EmulatorStepInstruction,
	action.EmulatorStepFrame,
	action.EmulatorReset,
	action.AudioToggleSquare1,
	action.AudioToggleSquare2,
	action.AudioToggleTriangle,
	action.AudioToggleNoise,
	action.AudioToggleDMC,
	action.AudioSoloSquare1,
	action.AudioSoloSquare2,
	action.AudioSoloTriangle,
	action.AudioSoloNoise,
	action.AudioSoloDMC,
	action.AudioUnmuteAll,
	action.AudioShowStatus,
	action.DebugPatternDump,
}

// RegisterActions hooks the console actions to an input manager. Controller
// buttons reach the pads through the manager directly.
func (c *Console) RegisterActions(m *input.Manager) {
	for _, act := range consoleActions {
		m.On(act, event.Press, func() { c.HandleAction(act, true) })
	}
}

// ExtractDebugData snapshots the state shown by debug panels. It returns
// nil when no cartridge is loaded.
func (c *Console) ExtractDebugData() *debug.CompleteDebugData {
	if c.mapper == nil {
		return nil
	}

	regs := c.cpu.Registers()
	pending, kind := c.cpu.InterruptPending()
	cpuState := &debug.CPUState{
		A:                regs.A,
		X:                regs.X,
		Y:                regs.Y,
		SP:               regs.SP,
		PC:               regs.PC,
		P:                regs.Status,
		Cycles:           regs.Cycles,
		InterruptPending: pending,
		Halted:           c.cpu.Halted(),
	}
	if pending {
		cpuState.Interrupt = kind.String()
	}

	ppuState := c.ppu.State()
	spriteHeight := 8
	if ppuState.Ctrl&0x20 != 0 {
		spriteHeight = 16
	}
	line := ppuState.Scanline - 20
	if line < 0 {
		line = 0
	}

	return &debug.CompleteDebugData{
		CPU:           cpuState,
		PPU:           &ppuState,
		OAM:           debug.ExtractOAMData(c.ppu.OAM(), line, spriteHeight),
		Palettes:      debug.ExtractPaletteData(c.ppu),
		Audio:         debug.ExtractAudioData(c.apu, c.opts.SampleRate),
		Memory:        debug.SnapshotAround(peekReader{c: c}, regs.PC, snapshotSize),
		DebuggerState: c.debuggerState,
		Cartridge:     c.cart.String(),
	}
}

// dumpPatterns saves both pattern tables coloured with the first
// background palette.
func (c *Console) dumpPatterns(directory string) string {
	if c.mapper == nil {
		slog.Warn("No cartridge loaded, nothing to dump")
		return ""
	}

	bg, _ := c.ppu.Palette()
	path, err := debug.SavePatternTablesPNG(c.ppu, [4]uint32{bg[0], bg[1], bg[2], bg[3]}, directory)
	if err != nil {
		slog.Error("Failed to dump pattern tables", "error", err)
		return ""
	}
	return path
}

var (
	_ debug.PaletteSource = (*video.PPU)(nil)
	_ debug.PatternSource = (*video.PPU)(nil)
)
