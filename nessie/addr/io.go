package addr

// ppu registers, mirrored every 8 bytes up to 0x3FFF
const (
	// PPU control register (write only).
	PPUCTRL uint16 = 0x2000
	// PPU mask register (write only).
	PPUMASK uint16 = 0x2001
	// PPU status register (read only).
	PPUSTATUS uint16 = 0x2002
	// OAM address register.
	OAMADDR uint16 = 0x2003
	// OAM data register.
	OAMDATA uint16 = 0x2004
	// Scroll register, written twice (x then y).
	PPUSCROLL uint16 = 0x2005
	// VRAM address register, written twice (high then low).
	PPUADDR uint16 = 0x2006
	// VRAM data register.
	PPUDATA uint16 = 0x2007
)

// Audio registers - APU
// Reference: https://www.nesdev.org/wiki/APU_registers
const (
	// Audio register range
	AudioStart uint16 = 0x4000
	AudioEnd   uint16 = 0x4017

	Pulse1Control uint16 = 0x4000 // duty, envelope
	Pulse1Sweep   uint16 = 0x4001
	Pulse1TimerLo uint16 = 0x4002
	Pulse1TimerHi uint16 = 0x4003 // timer high, length counter load

	Pulse2Control uint16 = 0x4004
	Pulse2Sweep   uint16 = 0x4005
	Pulse2TimerLo uint16 = 0x4006
	Pulse2TimerHi uint16 = 0x4007

	TriangleLinear  uint16 = 0x4008
	TriangleTimerLo uint16 = 0x400A
	TriangleTimerHi uint16 = 0x400B

	NoiseControl uint16 = 0x400C
	NoisePeriod  uint16 = 0x400E
	NoiseLength  uint16 = 0x400F

	DMCControl   uint16 = 0x4010 // irq, loop, frequency
	DMCLoad      uint16 = 0x4011 // direct load of the delta counter
	DMCAddress   uint16 = 0x4012
	DMCLength    uint16 = 0x4013
	OAMDMA       uint16 = 0x4014 // sprite DMA, not an APU register
	APUStatus    uint16 = 0x4015
	FrameCounter uint16 = 0x4017 // write side, the read side is JOY2
)

// Controller ports.
const (
	JOY1 uint16 = 0x4016
	JOY2 uint16 = 0x4017
)

// Address space boundaries.
const (
	// RAMEnd is the last address of the internal RAM mirrors.
	RAMEnd uint16 = 0x1FFF
	// RAMSize is the size of the internal work RAM, mirrored up to RAMEnd.
	RAMSize = 0x800
	// PPURegEnd is the last address of the PPU register mirrors.
	PPURegEnd uint16 = 0x3FFF
	// IOEnd is the last address of the APU and controller registers.
	IOEnd uint16 = 0x4017
	// PRGRAMStart is the start of cartridge work RAM.
	PRGRAMStart uint16 = 0x6000
	// PRGROMStart is the start of the cartridge program ROM window.
	PRGROMStart uint16 = 0x8000
)

// Interrupt vectors.
const (
	NMIVector   uint16 = 0xFFFA
	ResetVector uint16 = 0xFFFC
	IRQVector   uint16 = 0xFFFE
)
