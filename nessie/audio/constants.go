package audio

import "math"

// Output buffer and timing constants.
const (
	// BufferFrames is the number of stereo frames handed to the sink at once.
	BufferFrames = 4096

	// frameTime is the frame sequencer period in half CPU cycles. The
	// sequencer ticks at 240Hz on NTSC and about 213Hz on PAL.
	frameTimeNTSC = 14915
	frameTimePAL  = 16626

	// initCycles is how long the hardware ignores the channels after the
	// first non-zero write to $4015.
	initCycles = 2048

	maxVolume = 256
)

// panning holds the left share (out of 256) of each channel in stereo.
var panning = [ChannelCount]int{80, 170, 100, 150, 128}

// lengthTable is indexed by bits 3-7 of the length counter load register.
var lengthTable = [32]int{
	0x0A, 0xFE, 0x14, 0x02, 0x28, 0x04, 0x50, 0x06,
	0xA0, 0x08, 0x3C, 0x0A, 0x0E, 0x0C, 0x1A, 0x0E,
	0x0C, 0x10, 0x18, 0x12, 0x30, 0x14, 0x60, 0x16,
	0xC0, 0x18, 0x48, 0x1A, 0x10, 0x1C, 0x20, 0x1E,
}

// dmcPeriods are in eighths of a CPU cycle.
var dmcPeriods = [16]int{
	0xD60, 0xBE0, 0xAA0, 0xA00, 0x8F0, 0x7F0, 0x710, 0x6B0,
	0x5F0, 0x500, 0x470, 0x400, 0x350, 0x2A0, 0x240, 0x1B0,
}

var noisePeriods = [16]int{
	0x004, 0x008, 0x010, 0x020, 0x040, 0x060, 0x080, 0x0A0,
	0x0CA, 0x0FE, 0x17C, 0x1FC, 0x2FA, 0x3F8, 0x7F2, 0xFE4,
}

var dutyTable = [4][8]int{
	{0, 1, 0, 0, 0, 0, 0, 0},
	{0, 1, 1, 0, 0, 0, 0, 0},
	{0, 1, 1, 1, 1, 0, 0, 0},
	{1, 0, 0, 1, 1, 1, 1, 1},
}

// The DAC tables approximate the non-linear mixer of the 2A03, indexed in
// sixteenths of a channel level.
//
// Reference: https://www.nesdev.org/wiki/APU_Mixer
var (
	squareTable [32 * 16]int
	tndTable    [204 * 16]int
	dcValue     int
)

func init() {
	maxSquare, maxTND := 0, 0
	for i := range squareTable {
		v := dacLevel(95.52, 8128.0, float64(i)/16.0)
		squareTable[i] = v
		maxSquare = max(maxSquare, v)
	}
	for i := range tndTable {
		v := dacLevel(163.67, 24329.0, float64(i)/16.0)
		tndTable[i] = v
		maxTND = max(maxTND, v)
	}
	dcValue = (maxSquare + maxTND) / 2
}

func dacLevel(numerator, divisor, level float64) int {
	// level 0 divides by zero and yields +Inf, which the formula maps to 0
	v := numerator / (divisor/level + 100.0)
	return int(math.Floor(v * 0.98411 * 50000.0))
}
