package audio

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/valerio/go-nessie/nessie/addr"
)

// Bus is what the APU needs from the rest of the console: memory for DMC
// fetches and the CPU interrupt and stall lines.
type Bus interface {
	Read(address uint16) uint8
	RequestInterrupt(kind addr.Interrupt)
	HaltCycles(n int)
}

// Sink receives full buffers of interleaved stereo samples. The APU does
// not touch a buffer after handing it over.
type Sink interface {
	WriteSamples(samples []int16) error
}

// Channel identifies one of the five sound generators.
type Channel int

const (
	Square1 Channel = iota
	Square2
	Triangle
	Noise
	DMC

	ChannelCount = 5
)

func (c Channel) String() string {
	switch c {
	case Square1:
		return "square 1"
	case Square2:
		return "square 2"
	case Triangle:
		return "triangle"
	case Noise:
		return "noise"
	case DMC:
		return "dmc"
	}
	return "unknown"
}

// Config sets the clocks the APU derives its timing from.
type Config struct {
	SampleRate   int
	CPUFrequency float64
	PAL          bool
}

// APU implements the 2A03 audio unit: two pulse channels, a triangle, a
// noise generator and the delta modulation channel.
// Reference: https://www.nesdev.org/wiki/APU
type APU struct {
	bus  Bus
	sink Sink
	cfg  Config

	square1  square
	square2  square
	triangle triangle
	noise    noise
	dmc      dmc

	// frame sequencer
	fiveStep          bool
	frameIRQEnabled   bool
	frameIRQActive    bool
	masterFrameCount  int
	derivedFrameCount int
	frameTime         int

	initCounter    int
	initInProgress bool

	sampleTimer    int
	sampleTimerMax int
	extraCycles    int

	// accumulated channel output since the last sample
	accSquare1  int
	accSquare2  int
	accTriangle int
	accDMC      int
	accCount    int

	// DC removal
	prevLeft, prevRight   int
	accumLeft, accumRight int

	masterVolume int
	leftPos      [ChannelCount]int
	rightPos     [ChannelCount]int

	buffer      []int16
	bufferIndex int

	// debug mutes, set through input actions on the emulation goroutine
	muted [ChannelCount]bool
}

// New creates an APU. A nil sink discards samples.
func New(bus Bus, sink Sink, cfg Config) *APU {
	if sink == nil {
		sink = Discard
	}
	a := &APU{
		bus:          bus,
		sink:         sink,
		cfg:          cfg,
		masterVolume: maxVolume,
	}
	a.dmc.bus = bus
	a.square1.first = true
	a.updateStereo()

	for reg := addr.AudioStart; reg < addr.DMCLength+1; reg++ {
		if reg == addr.DMCControl {
			a.WriteRegister(reg, 0x10)
		} else {
			a.WriteRegister(reg, 0)
		}
	}

	a.Reset()
	return a
}

// Reset returns the APU to its power-on state.
func (a *APU) Reset() {
	rate := a.cfg.SampleRate
	if rate <= 0 {
		rate = 44100
	}
	a.sampleTimerMax = int(math.Floor(1024.0 * a.cfg.CPUFrequency / float64(rate)))
	a.frameTime = frameTimeNTSC
	if a.cfg.PAL {
		a.frameTime = frameTimePAL
	}

	a.sampleTimer = 0
	a.extraCycles = 0
	a.setChannelEnable(0)
	a.masterFrameCount = 0
	a.fiveStep = false
	a.derivedFrameCount = 4
	a.initCounter = initCycles
	a.initInProgress = false
	a.frameIRQEnabled = false
	a.frameIRQActive = false

	a.square1.reset()
	a.square2.reset()
	a.triangle.reset()
	a.noise.reset()
	a.dmc.reset()

	a.accSquare1, a.accSquare2, a.accTriangle, a.accDMC, a.accCount = 0, 0, 0, 0, 0
	a.prevLeft, a.prevRight, a.accumLeft, a.accumRight = 0, 0, 0, 0

	a.buffer = make([]int16, BufferFrames*2)
	a.bufferIndex = 0
}

// ReadRegister reads $4015. The other registers are write only and read
// as zero. Reading clears the frame interrupt.
func (a *APU) ReadRegister(address uint16) uint8 {
	if address != addr.APUStatus {
		return 0
	}

	var status uint8
	if a.square1.active() {
		status |= 0x01
	}
	if a.square2.active() {
		status |= 0x02
	}
	if a.triangle.active() {
		status |= 0x04
	}
	if a.noise.active() {
		status |= 0x08
	}
	if a.dmc.active() {
		status |= 0x10
	}
	if a.frameIRQActive && a.frameIRQEnabled {
		status |= 0x40
	}
	if a.dmc.irq {
		status |= 0x80
	}

	a.frameIRQActive = false
	return status
}

func (a *APU) WriteRegister(address uint16, value uint8) {
	switch {
	case address >= addr.Pulse1Control && address <= addr.Pulse1TimerHi:
		a.square1.write(address-addr.Pulse1Control, value)
	case address >= addr.Pulse2Control && address <= addr.Pulse2TimerHi:
		a.square2.write(address-addr.Pulse2Control, value)
	case address >= addr.TriangleLinear && address <= addr.TriangleTimerHi:
		a.triangle.write(address-addr.TriangleLinear, value)
	case address >= addr.NoiseControl && address <= addr.NoiseLength:
		a.noise.write(address-addr.NoiseControl, value)
	case address >= addr.DMCControl && address <= addr.DMCLength:
		a.dmc.write(address, value)
	case address == addr.APUStatus:
		a.setChannelEnable(value)
		if value != 0 && a.initCounter > 0 {
			a.initInProgress = true
		}
		a.dmc.write(address, value)
	case address == addr.FrameCounter:
		a.fiveStep = value&0x80 != 0
		a.masterFrameCount = 0
		a.frameIRQActive = false
		a.frameIRQEnabled = value&0x40 == 0
		if a.fiveStep {
			a.derivedFrameCount = 0
			a.frameCounterTick()
		} else {
			a.derivedFrameCount = 4
		}
	default:
		slog.Debug("unhandled apu write", "addr", fmt.Sprintf("0x%04X", address), "value", value)
	}
}

func (a *APU) setChannelEnable(value uint8) {
	a.square1.setEnabled(value&0x01 != 0)
	a.square2.setEnabled(value&0x02 != 0)
	a.triangle.setEnabled(value&0x04 != 0)
	a.noise.setEnabled(value&0x08 != 0)
	a.dmc.setEnabled(value&0x10 != 0)
}

// Tick advances the APU by a number of CPU cycles.
func (a *APU) Tick(cycles int) {
	if a.initCounter > 0 && a.initInProgress {
		a.initCounter -= cycles
		if a.initCounter <= 0 {
			a.initInProgress = false
		}
		return
	}

	// never run past the next sample point, carry the rest over
	cycles += a.extraCycles
	maxCycles := a.sampleTimerMax - a.sampleTimer
	if cycles<<10 > maxCycles {
		a.extraCycles = (cycles<<10 - maxCycles) >> 10
		cycles -= a.extraCycles
	} else {
		a.extraCycles = 0
	}

	a.dmc.clockTimer(cycles)
	a.triangle.clockTimer(cycles)
	a.square1.clockTimer(cycles)
	a.square2.clockTimer(cycles)
	a.noise.clockTimer(cycles)

	if a.frameIRQEnabled && a.frameIRQActive {
		a.bus.RequestInterrupt(addr.Normal)
	}

	a.masterFrameCount += cycles << 1
	if a.masterFrameCount >= a.frameTime {
		a.masterFrameCount -= a.frameTime
		a.frameCounterTick()
	}

	a.accumulate(cycles)

	a.sampleTimer += cycles << 10
	if a.sampleTimer >= a.sampleTimerMax {
		a.sample()
		a.sampleTimer -= a.sampleTimerMax
	}
}

// frameCounterTick runs one step of the frame sequencer.
//
//	step   length/sweep  envelope/linear  irq (4-step only)
//	0      -             clock            -
//	1      clock         clock            -
//	2      -             clock            -
//	3      clock         clock            set
//	4      -             -                -       (5-step only)
func (a *APU) frameCounterTick() {
	steps := 4
	if a.fiveStep {
		steps = 5
	}
	a.derivedFrameCount++
	if a.derivedFrameCount >= steps {
		a.derivedFrameCount = 0
	}

	step := a.derivedFrameCount
	if step == 1 || step == 3 {
		a.triangle.clockLength()
		a.square1.clockLength()
		a.square2.clockLength()
		a.noise.clockLength()
		a.square1.clockSweep()
		a.square2.clockSweep()
	}
	if step <= 3 {
		a.square1.clockEnvelope()
		a.square2.clockEnvelope()
		a.noise.clockEnvelope()
		a.triangle.clockLinear()
	}
	if step == 3 && !a.fiveStep {
		a.frameIRQActive = true
	}
}

func (a *APU) accumulate(cycles int) {
	a.triangle.interpolate()

	a.accTriangle += cycles * a.triangle.level
	a.accDMC += cycles * a.dmc.sample
	a.accSquare1 += cycles * a.square1.sample
	a.accSquare2 += cycles * a.square2.sample
	a.accCount += cycles
}

// sample mixes the accumulated channel output into one stereo frame.
func (a *APU) sample() {
	var sq1, sq2, tri, dm int
	if a.accCount > 0 {
		sq1 = (a.accSquare1 << 4) / a.accCount
		sq2 = (a.accSquare2 << 4) / a.accCount
		tri = a.accTriangle / a.accCount
		dm = (a.accDMC << 4) / a.accCount
		a.accCount = 0
	} else {
		sq1 = a.square1.sample << 4
		sq2 = a.square2.sample << 4
		tri = a.triangle.sample
		dm = a.dmc.sample << 4
	}
	nz := a.noise.level()

	levels := [ChannelCount]int{sq1, sq2, tri * 3, nz << 1, dm}
	for ch := range levels {
		if a.muted[ch] {
			levels[ch] = 0
		}
	}

	left := mix(levels, &a.leftPos)
	right := mix(levels, &a.rightPos)

	diff := left - a.prevLeft
	a.prevLeft += diff
	a.accumLeft += diff - a.accumLeft>>10

	diff = right - a.prevRight
	a.prevRight += diff
	a.accumRight += diff - a.accumRight>>10

	a.buffer[a.bufferIndex] = clamp16(a.accumLeft)
	a.buffer[a.bufferIndex+1] = clamp16(a.accumRight)
	a.bufferIndex += 2

	if a.bufferIndex == len(a.buffer) {
		if err := a.sink.WriteSamples(a.buffer); err != nil {
			slog.Warn("audio sink failed", "error", err)
		}
		a.buffer = make([]int16, BufferFrames*2)
		a.bufferIndex = 0
	}

	a.accSquare1, a.accSquare2, a.accTriangle, a.accDMC = 0, 0, 0, 0
}

// mix runs one side of the stereo output through the DAC tables.
func mix(levels [ChannelCount]int, pos *[ChannelCount]int) int {
	sq := (levels[Square1]*pos[Square1] + levels[Square2]*pos[Square2]) >> 8
	tnd := (levels[Triangle]*pos[Triangle] + levels[Noise]*pos[Noise] + levels[DMC]*pos[DMC]) >> 8
	sq = min(sq, len(squareTable)-1)
	tnd = min(tnd, len(tndTable)-1)
	return squareTable[sq] + tndTable[tnd] - dcValue
}

func clamp16(v int) int16 {
	return int16(max(math.MinInt16, min(math.MaxInt16, v)))
}

// SetMasterVolume sets the output volume, 0 to 256.
func (a *APU) SetMasterVolume(volume int) {
	a.masterVolume = max(0, min(maxVolume, volume))
	a.updateStereo()
}

func (a *APU) MasterVolume() int {
	return a.masterVolume
}

func (a *APU) updateStereo() {
	for ch := range panning {
		a.leftPos[ch] = panning[ch] * a.masterVolume >> 8
		a.rightPos[ch] = a.masterVolume - a.leftPos[ch]
	}
}

// Flush hands a partially filled buffer to the sink, used when emulation
// stops.
func (a *APU) Flush() error {
	if a.bufferIndex == 0 {
		return nil
	}
	err := a.sink.WriteSamples(a.buffer[:a.bufferIndex])
	a.buffer = make([]int16, BufferFrames*2)
	a.bufferIndex = 0
	return err
}
