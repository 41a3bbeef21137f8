package memory

import (
	"github.com/valerio/go-nessie/nessie/cartridge"
	"github.com/valerio/go-nessie/nessie/video"
)

// MMC1 (mapper 1) is programmed through a 5-bit shift register: ROM writes
// shift in bit 0, LSB first, and the fifth write commits the value to one of
// four registers picked by the address of that write. Any write with bit 7
// set clears the shift register.
//
//	$8000-$9FFF  control: mirroring, PRG area and size, CHR size
//	$A000-$BFFF  CHR bank for $0000
//	$C000-$DFFF  CHR bank for $1000 (4KB mode only)
//	$E000-$FFFF  PRG bank
//
// Reference: https://www.nesdev.org/wiki/MMC1
type MMC1 struct {
	base

	shift      uint8
	shiftCount int

	mirroring uint8
	// prgArea 1 switches $8000 and fixes $C000, 0 the opposite.
	prgArea uint8
	// prgSize 0 switches 32KB at once.
	prgSize uint8
	// chrSize 0 switches 8KB at once.
	chrSize uint8

	chrHigh0 uint8
	chrHigh1 uint8
}

func NewMMC1(cart *cartridge.Cartridge, dev Devices) *MMC1 {
	return &MMC1{
		base:    newBase(cart, dev),
		prgArea: 1,
		prgSize: 1,
	}
}

func (m *MMC1) Write(address uint16, value uint8) {
	if address < 0x8000 {
		m.base.Write(address, value)
		return
	}

	if value&0x80 != 0 {
		m.shift = 0
		m.shiftCount = 0
		m.setPRGMode(1, 1)
		return
	}

	m.shift |= (value & 1) << m.shiftCount
	m.shiftCount++
	if m.shiftCount == 5 {
		m.setRegister(registerNumber(address), m.shift)
		m.shift = 0
		m.shiftCount = 0
	}
}

func registerNumber(address uint16) int {
	return int(address-0x8000) >> 13
}

func (m *MMC1) setRegister(reg int, value uint8) {
	switch reg {
	case 0:
		m.setMirroring(value & 3)
		m.chrSize = (value >> 4) & 1
		m.setPRGMode((value>>2)&1, (value>>3)&1)

	case 1:
		m.chrHigh0 = (value >> 4) & 1
		if m.cart.HasCHRRAM() {
			return
		}
		bank := m.chrBank(value, m.chrHigh0)
		if m.chrSize == 0 {
			m.Load8kCHRBank(bank&^1, 0x0000)
		} else {
			m.LoadCHRBank(bank, 0x0000)
		}

	case 2:
		m.chrHigh1 = (value >> 4) & 1
		if m.cart.HasCHRRAM() || m.chrSize == 0 {
			return
		}
		m.LoadCHRBank(m.chrBank(value, m.chrHigh1), 0x1000)

	default:
		outer := m.prgBase()
		if m.prgSize == 0 {
			m.Load32kPRGBank(outer+int(value&0xF)>>1, 0x8000)
			return
		}
		bank := outer*2 + int(value&0xF)
		if m.prgArea == 0 {
			m.LoadPRGBank(bank, 0xC000)
		} else {
			m.LoadPRGBank(bank, 0x8000)
		}
	}
}

// chrBank picks a 4KB bank. Bit 4 selects the upper half of CHR.
func (m *MMC1) chrBank(value, high uint8) int {
	bank := int(value & 0xF)
	if high == 1 {
		bank += m.cart.CHRCount() / 2
	}
	return bank
}

// prgBase is the outer bank, in 32KB units, on boards with more than
// 256KB of PRG.
func (m *MMC1) prgBase() int {
	switch count := m.cart.PRGCount(); {
	case count >= 32:
		if m.chrSize == 0 {
			return int(m.chrHigh0) * 16
		}
		return int(m.chrHigh0|m.chrHigh1<<1) << 3
	case count >= 16:
		return int(m.chrHigh0) * 8
	}
	return 0
}

func (m *MMC1) setMirroring(mode uint8) {
	m.mirroring = mode
	if m.cart.FourScreen {
		return
	}
	switch mode {
	case 0:
		m.dev.PPU.SetMirroring(video.SingleScreenA)
	case 1:
		m.dev.PPU.SetMirroring(video.SingleScreenB)
	case 2:
		m.dev.PPU.SetMirroring(video.Vertical)
	default:
		m.dev.PPU.SetMirroring(video.Horizontal)
	}
}

// setPRGMode maps the fixed 16KB bank when switching into a 16KB mode.
func (m *MMC1) setPRGMode(area, size uint8) {
	changed := area != m.prgArea || size != m.prgSize
	m.prgArea = area
	m.prgSize = size
	if !changed || size == 0 {
		return
	}
	if area == 1 {
		m.LoadPRGBank(m.cart.PRGCount()-1, 0xC000)
	} else {
		m.LoadPRGBank(0, 0x8000)
	}
}

func (m *MMC1) LoadROM() {
	m.loadCommon()
	m.LoadPRGBank(0, 0x8000)
	m.LoadPRGBank(m.cart.PRGCount()-1, 0xC000)
	m.loadCHR()
}

func (m *MMC1) Name() string { return cartridge.MapperName(1) }
