package action

// Action represents input actions that can be performed in the emulator
type Action int

const (
	// NES controller 1
	NESButtonA Action = iota
	NESButtonB
	NESButtonSelect
	NESButtonStart
	NESDPadUp
	NESDPadDown
	NESDPadLeft
	NESDPadRight

	// NES controller 2
	NES2ButtonA
	NES2ButtonB
	NES2ButtonSelect
	NES2ButtonStart
	NES2DPadUp
	NES2DPadDown
	NES2DPadLeft
	NES2DPadRight

	// Emulator features
	EmulatorDebugToggle
	EmulatorSnapshot
	EmulatorPauseToggle
	EmulatorStepFrame
	EmulatorStepInstruction
	EmulatorReset
	EmulatorQuit

	// Audio debug
	AudioToggleSquare1
	AudioToggleSquare2
	AudioToggleTriangle
	AudioToggleNoise
	AudioToggleDMC
	AudioSoloSquare1
	AudioSoloSquare2
	AudioSoloTriangle
	AudioSoloNoise
	AudioSoloDMC
	AudioUnmuteAll
	AudioShowStatus

	DebugLogLevelIncrease
	DebugLogLevelDecrease
	DebugPatternDump
)

// IsController reports whether the action is a controller button.
func (a Action) IsController() bool {
	return a >= NESButtonA && a <= NES2DPadRight
}
