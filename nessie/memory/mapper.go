package memory

import (
	"errors"
	"fmt"

	"github.com/valerio/go-nessie/nessie/addr"
	"github.com/valerio/go-nessie/nessie/cartridge"
	"github.com/valerio/go-nessie/nessie/video"
)

var ErrUnsupportedMapper = errors.New("unsupported mapper")

// PPU is the part of the video chip reachable from the CPU bus.
type PPU interface {
	ReadRegister(address uint16) uint8
	WriteRegister(address uint16, value uint8)
	SpriteDMA(page []byte)
	SetMirroring(m video.Mirroring)
	LoadPatterns(address uint16, data []byte, tiles []video.Tile)
}

// APU is the part of the audio chip reachable from the CPU bus.
type APU interface {
	ReadRegister(address uint16) uint8
	WriteRegister(address uint16, value uint8)
}

// CPU is what bus devices may ask of the processor.
type CPU interface {
	RequestInterrupt(kind addr.Interrupt)
	HaltCycles(n int)
}

// Devices are the chips a mapper dispatches register accesses to.
type Devices struct {
	CPU  CPU
	PPU  PPU
	APU  APU
	Pad1 *Joypad
	Pad2 *Joypad
}

// Mapper is a cartridge board: it owns the CPU address space and decides
// which PRG and CHR banks are visible.
//
// Bank loaders take the bank number in units of the loader size, and the
// destination address in CPU space (PRG) or pattern space (CHR). Bank
// numbers wrap around the banks the cartridge has.
type Mapper interface {
	Read(address uint16) uint8
	Write(address uint16, value uint8)
	RegRead(address uint16) uint8
	RegWrite(address uint16, value uint8)

	// LoadROM maps the power-on banks.
	LoadROM()
	// ClockIRQCounter is called by the PPU once per rendered scanline.
	ClockIRQCounter()
	// LatchAccess is called when the PPU accesses pattern memory through
	// $2006/$2007.
	LatchAccess(address uint16)

	LoadPRGBank(bank int, address uint16)
	Load8kPRGBank(bank int, address uint16)
	Load32kPRGBank(bank int, address uint16)
	LoadCHRBank(bank int, address uint16)
	Load8kCHRBank(bank int, address uint16)
	Load2kCHRBank(bank int, address uint16)
	Load1kCHRBank(bank int, address uint16)

	// BatteryRAM returns PRG-RAM for saving, or nil without a battery.
	BatteryRAM() []byte
	LoadBatteryRAM(data []byte)

	Name() string
}

type constructor func(cart *cartridge.Cartridge, dev Devices) Mapper

var registry = map[int]constructor{
	0: func(cart *cartridge.Cartridge, dev Devices) Mapper { return NewDirect(cart, dev) },
	1: func(cart *cartridge.Cartridge, dev Devices) Mapper { return NewMMC1(cart, dev) },
	2: func(cart *cartridge.Cartridge, dev Devices) Mapper { return NewUNROM(cart, dev) },
	4: func(cart *cartridge.Cartridge, dev Devices) Mapper { return NewMMC3(cart, dev) },
}

// NewMapper builds the board for a cartridge. No state is touched until
// LoadROM is called, so a failed lookup leaves the console as it was.
func NewMapper(cart *cartridge.Cartridge, dev Devices) (Mapper, error) {
	ctor, ok := registry[cart.MapperID]
	if !ok {
		return nil, fmt.Errorf("%w: %d (%s)", ErrUnsupportedMapper, cart.MapperID, cart.MapperName())
	}
	return ctor(cart, dev), nil
}

// Supported reports whether a mapper number has an implementation.
func Supported(id int) bool {
	_, ok := registry[id]
	return ok
}
