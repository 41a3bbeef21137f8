package input

import "github.com/valerio/go-nessie/nessie/input/action"

// DefaultKeyMap provides default key mappings that work across backends.
// Backends can use these mappings as a base and override/extend as needed.
var DefaultKeyMap = map[string]action.Action{
	// controller 1
	"z":     action.NESButtonA,
	"x":     action.NESButtonB,
	"Enter": action.NESButtonStart,
	"Shift": action.NESButtonSelect,
	"Tab":   action.NESButtonSelect,
	"Up":    action.NESDPadUp,
	"Down":  action.NESDPadDown,
	"Left":  action.NESDPadLeft,
	"Right": action.NESDPadRight,

	"w": action.NESDPadUp,
	"s": action.NESDPadDown,
	"a": action.NESDPadLeft,
	"d": action.NESDPadRight,

	// controller 2
	"k": action.NES2ButtonA,
	"l": action.NES2ButtonB,
	"u": action.NES2ButtonSelect,
	"y": action.NES2ButtonStart,
	"t": action.NES2DPadUp,
	"g": action.NES2DPadDown,
	"v": action.NES2DPadLeft,
	"b": action.NES2DPadRight,

	// Emulator controls
	"Space":  action.EmulatorPauseToggle,
	"p":      action.EmulatorPauseToggle,
	"o":      action.EmulatorStepFrame,
	"f":      action.EmulatorStepFrame,
	"i":      action.EmulatorStepInstruction,
	"n":      action.EmulatorStepInstruction,
	"F8":     action.EmulatorReset,
	"F9":     action.EmulatorSnapshot,
	"F10":    action.EmulatorDebugToggle,
	"Escape": action.EmulatorQuit,
	"q":      action.EmulatorQuit,

	// Audio debug controls
	"F1": action.AudioToggleSquare1,
	"F2": action.AudioToggleSquare2,
	"F3": action.AudioToggleTriangle,
	"F4": action.AudioToggleNoise,
	"F5": action.AudioToggleDMC,
	"1":  action.AudioSoloSquare1,
	"2":  action.AudioSoloSquare2,
	"3":  action.AudioSoloTriangle,
	"4":  action.AudioSoloNoise,
	"5":  action.AudioSoloDMC,
	"0":  action.AudioUnmuteAll,
	"F6": action.AudioShowStatus,

	// Debug controls
	"+": action.DebugLogLevelIncrease,
	"=": action.DebugLogLevelIncrease,
	"-": action.DebugLogLevelDecrease,
	"_": action.DebugLogLevelDecrease,
	"F7": action.DebugPatternDump,
}

// GetDefaultMapping returns the default action for a key, if one exists
func GetDefaultMapping(key string) (action.Action, bool) {
	act, ok := DefaultKeyMap[key]
	return act, ok
}
