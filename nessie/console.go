package nessie

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/valerio/go-nessie/nessie/addr"
	"github.com/valerio/go-nessie/nessie/audio"
	"github.com/valerio/go-nessie/nessie/cartridge"
	"github.com/valerio/go-nessie/nessie/cpu"
	"github.com/valerio/go-nessie/nessie/debug"
	"github.com/valerio/go-nessie/nessie/memory"
	"github.com/valerio/go-nessie/nessie/video"
)

var (
	// ErrNoCartridge is returned when running a console with nothing loaded.
	ErrNoCartridge = errors.New("no cartridge loaded")
	// ErrStopped is returned when running a console that was stopped or has
	// crashed. Loading a cartridge clears it.
	ErrStopped = errors.New("emulation stopped")
)

const (
	// dotsPerCycle is the number of PPU dots per CPU cycle.
	dotsPerCycle = 3
	// haltChunk is how many stalled CPU cycles are consumed at a time.
	haltChunk = 8
)

// Console owns every chip of the system and schedules them. It is not safe
// for concurrent use: all methods must be called from the goroutine that
// drives emulation.
type Console struct {
	opts Options

	cpu    *cpu.CPU
	ppu    *video.PPU
	apu    *audio.APU
	pad1   *memory.Joypad
	pad2   *memory.Joypad
	mapper memory.Mapper
	cart   *cartridge.Cartridge

	frameStarted bool
	stopped      bool
	crash        string
	frames       uint64

	debuggerState debug.DebuggerState
}

// New creates a powered-on console with no cartridge.
func New(opts Options) *Console {
	c := &Console{
		opts: opts,
		pad1: memory.NewJoypad(),
		pad2: memory.NewJoypad(),
	}
	b := bus{c: c}
	c.cpu = cpu.New(b)
	c.ppu = video.New(b)
	c.ppu.ClipToTVSize = opts.ClipToTVSize
	c.apu = audio.New(b, opts.AudioSink, opts.audioConfig())
	c.apu.SetMasterVolume(opts.MasterVolume)
	return c
}

// NewWithFile creates a console and loads the iNES file at path into it.
func NewWithFile(path string, opts Options) (*Console, error) {
	c := New(opts)
	if err := c.LoadFile(path); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadFile reads an iNES image from disk and loads it.
func (c *Console) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read rom: %w", err)
	}
	slog.Info("Read ROM file", "path", path, "bytes", len(data))
	return c.LoadROM(data)
}

// LoadROM parses an iNES image and, when it is valid and its mapper is
// supported, replaces the running cartridge and resets the console. On error
// the previous state is left untouched.
func (c *Console) LoadROM(data []byte) error {
	cart, err := cartridge.Parse(data)
	if err != nil {
		slog.Warn("Cartridge rejected", "reason", err)
		return fmt.Errorf("load rom: %w", err)
	}

	mapper, err := memory.NewMapper(cart, c.devices())
	if err != nil {
		slog.Warn("Cartridge rejected", "reason", err)
		return fmt.Errorf("load rom: %w", err)
	}

	c.install(cart, mapper)
	slog.Info("Cartridge loaded",
		"mapper", mapper.Name(),
		"prg_banks", cart.PRGCount(),
		"chr_banks", cart.CHRCount(),
		"mirroring", cart.Mirroring(),
		"battery", cart.Battery)
	return nil
}

// Reset restarts the loaded cartridge as if the console was power cycled.
// Battery-backed RAM survives.
func (c *Console) Reset() error {
	if c.cart == nil {
		return ErrNoCartridge
	}

	saved := c.mapper.BatteryRAM()
	mapper, err := memory.NewMapper(c.cart, c.devices())
	if err != nil {
		return err
	}
	if saved != nil {
		mapper.LoadBatteryRAM(saved)
	}
	c.install(c.cart, mapper)
	slog.Info("Console reset")
	return nil
}

func (c *Console) devices() memory.Devices {
	return memory.Devices{
		CPU:  c.cpu,
		PPU:  c.ppu,
		APU:  c.apu,
		Pad1: c.pad1,
		Pad2: c.pad2,
	}
}

// install swaps in a new cartridge and brings every chip to its power-on
// state. The reset vector is read once the mapper has mapped its banks.
func (c *Console) install(cart *cartridge.Cartridge, mapper memory.Mapper) {
	c.cart = cart
	c.mapper = mapper

	c.cpu.Reset()
	c.ppu.Reset()
	c.apu.Reset()
	c.pad1.ResetStrobe()
	c.pad2.ResetStrobe()

	mapper.LoadROM()
	c.cpu.RequestInterrupt(addr.Reset)

	c.frameStarted = false
	c.stopped = false
	c.crash = ""
	c.frames = 0
}

// RunFrame runs the console until the PPU finishes the current frame.
func (c *Console) RunFrame() error {
	if err := c.ready(); err != nil {
		return err
	}

	for {
		done, err := c.advance()
		if err != nil || done {
			return err
		}
	}
}

// StepInstruction runs a single CPU instruction, or one chunk of stall
// cycles when the CPU is halted, with the matching PPU and APU time.
func (c *Console) StepInstruction() error {
	if err := c.ready(); err != nil {
		return err
	}
	_, err := c.advance()
	return err
}

func (c *Console) ready() error {
	if c.mapper == nil {
		return ErrNoCartridge
	}
	if c.stopped {
		return ErrStopped
	}
	return nil
}

// advance executes one CPU step and the 3 dots per CPU cycle the PPU runs
// meanwhile. It reports whether the frame ended; dots left after the end of
// the frame are dropped.
func (c *Console) advance() (bool, error) {
	if !c.frameStarted {
		c.ppu.StartFrame()
		c.frameStarted = true
	}

	var cycles int
	if c.cpu.Halted() > 0 {
		cycles = c.cpu.ConsumeHalt(haltChunk)
	} else {
		var err error
		cycles, err = c.cpu.Step()
		if err != nil {
			c.fail(err)
			return false, err
		}
	}

	if c.opts.EmulateSound {
		c.apu.Tick(cycles)
	}

	for dots := cycles * dotsPerCycle; dots > 0; dots-- {
		if c.ppu.Tick() {
			c.frameStarted = false
			c.frames++
			return true, nil
		}
	}
	return false, nil
}

func (c *Console) fail(err error) {
	c.stopped = true
	c.crash = err.Error()

	var crash *cpu.CrashError
	if errors.As(err, &crash) {
		c.crash = fmt.Sprintf("Game crashed, invalid opcode at address $%04X", crash.Address)
	}
	slog.Error("Emulation stopped", "reason", c.crash)
}

// Stop ends emulation between frames and flushes pending audio.
func (c *Console) Stop() {
	if c.stopped {
		return
	}
	c.stopped = true
	if err := c.apu.Flush(); err != nil {
		slog.Warn("Failed to flush audio", "error", err)
	}
	slog.Info("Emulation stopped", "frames", c.frames)
}

// Running reports whether RunFrame can make progress.
func (c *Console) Running() bool {
	return c.ready() == nil
}

// CrashMessage describes why emulation stopped on its own, or is empty.
func (c *Console) CrashMessage() string {
	return c.crash
}

// Frames returns the number of frames completed since the last load.
func (c *Console) Frames() uint64 {
	return c.frames
}

// GetCurrentFrame returns the last finished frame.
func (c *Console) GetCurrentFrame() *video.FrameBuffer {
	return c.ppu.Frame()
}

// GetPreviousFrame returns the frame before the current one, for backends
// that redraw only what changed.
func (c *Console) GetPreviousFrame() *video.FrameBuffer {
	return c.ppu.PrevFrame()
}

// Cartridge returns the loaded cartridge, or nil.
func (c *Console) Cartridge() *cartridge.Cartridge {
	return c.cart
}

// Pads returns the two controllers.
func (c *Console) Pads() (*memory.Joypad, *memory.Joypad) {
	return c.pad1, c.pad2
}

// APU exposes the audio chip for debug controls.
func (c *Console) APU() *audio.APU {
	return c.apu
}

// Options returns the options the console was created with.
func (c *Console) Options() Options {
	return c.opts
}

// BatteryRAM returns a copy of the battery-backed RAM of the cartridge, or
// nil when it has none.
func (c *Console) BatteryRAM() []byte {
	if c.mapper == nil {
		return nil
	}
	return c.mapper.BatteryRAM()
}

// LoadBatteryRAM restores battery-backed RAM saved by a previous session.
func (c *Console) LoadBatteryRAM(data []byte) error {
	if c.mapper == nil {
		return ErrNoCartridge
	}
	c.mapper.LoadBatteryRAM(data)
	return nil
}

// Peek reads CPU memory without side effects. PPU, APU and expansion
// registers read as zero.
func (c *Console) Peek(address uint16) uint8 {
	return peekReader{c: c}.Read(address)
}

// SetPC moves the CPU to address, for test ROMs with a fixed automation
// entry point. A pending reset still wins, so call it once the first
// instruction has run.
func (c *Console) SetPC(address uint16) {
	c.cpu.SetPC(address)
}
