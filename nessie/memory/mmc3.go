package memory

import (
	"fmt"
	"log/slog"

	"github.com/valerio/go-nessie/nessie/addr"
	"github.com/valerio/go-nessie/nessie/cartridge"
	"github.com/valerio/go-nessie/nessie/video"
)

// MMC3 (mapper 4) has eight bank registers written through a select/data
// pair and a scanline counter that raises IRQs.
//
//	$8000  bank select: bits 0-2 register, bit 6 PRG mode, bit 7 CHR mode
//	$8001  bank data for the selected register
//	$A000  mirroring, bit 0 set for horizontal
//	$A001  PRG-RAM protect (ignored)
//	$C000  IRQ counter
//	$C001  IRQ latch
//	$E000  IRQ disable
//	$E001  IRQ enable
//
// Registers are decoded on A0 and the top three address bits, so each one
// is mirrored across its 8KB range.
//
// Reference: https://www.nesdev.org/wiki/MMC3
type MMC3 struct {
	base

	// banks 0-1 are 2KB CHR, 2-5 are 1KB CHR, 6-7 are 8KB PRG
	banks    [8]int
	selected uint8
	prgMode  uint8
	chrMode  uint8

	irqCounter int
	irqLatch   int
	irqEnabled bool
}

func NewMMC3(cart *cartridge.Cartridge, dev Devices) *MMC3 {
	return &MMC3{
		base:  newBase(cart, dev),
		banks: [8]int{0, 2, 4, 5, 6, 7, 0, 1},
	}
}

func (m *MMC3) Write(address uint16, value uint8) {
	if address < 0x8000 {
		m.base.Write(address, value)
		return
	}

	switch address & 0xE001 {
	case 0x8000:
		m.selected = value & 7
		prgMode := (value >> 6) & 1
		chrMode := (value >> 7) & 1
		if prgMode != m.prgMode {
			m.prgMode = prgMode
			m.updatePRG()
		}
		if chrMode != m.chrMode {
			m.chrMode = chrMode
			m.updateCHR()
		}
	case 0x8001:
		m.banks[m.selected] = int(value)
		if m.selected >= 6 {
			m.updatePRG()
		} else {
			m.updateCHR()
		}
	case 0xA000:
		if m.cart.FourScreen {
			return
		}
		if value&1 != 0 {
			m.dev.PPU.SetMirroring(video.Horizontal)
		} else {
			m.dev.PPU.SetMirroring(video.Vertical)
		}
	case 0xC000:
		m.irqCounter = int(value)
	case 0xC001:
		m.irqLatch = int(value)
	case 0xE000:
		m.irqEnabled = false
	case 0xE001:
		m.irqEnabled = true
	default:
		slog.Debug("ignored mmc3 write", "addr", fmt.Sprintf("0x%04X", address), "value", value)
	}
}

// updatePRG maps R6 and R7 plus the two fixed banks. The second-to-last
// bank swaps places with R6 in PRG mode 1.
func (m *MMC3) updatePRG() {
	last := m.cart.PRGCount()*2 - 1
	if m.prgMode == 0 {
		m.Load8kPRGBank(m.banks[6], 0x8000)
		m.Load8kPRGBank(last-1, 0xC000)
	} else {
		m.Load8kPRGBank(last-1, 0x8000)
		m.Load8kPRGBank(m.banks[6], 0xC000)
	}
	m.Load8kPRGBank(m.banks[7], 0xA000)
	m.Load8kPRGBank(last, 0xE000)
}

// updateCHR maps the 2KB pair and the four 1KB banks. CHR mode 1 swaps the
// two pattern tables.
func (m *MMC3) updateCHR() {
	if m.cart.HasCHRRAM() {
		return
	}
	var invert uint16
	if m.chrMode == 1 {
		invert = 0x1000
	}
	m.Load1kCHRBank(m.banks[0]&^1, 0x0000^invert)
	m.Load1kCHRBank(m.banks[0]|1, 0x0400^invert)
	m.Load1kCHRBank(m.banks[1]&^1, 0x0800^invert)
	m.Load1kCHRBank(m.banks[1]|1, 0x0C00^invert)
	m.Load1kCHRBank(m.banks[2], 0x1000^invert)
	m.Load1kCHRBank(m.banks[3], 0x1400^invert)
	m.Load1kCHRBank(m.banks[4], 0x1800^invert)
	m.Load1kCHRBank(m.banks[5], 0x1C00^invert)
}

// ClockIRQCounter counts one scanline. The counter requests an IRQ when it
// drops below zero and then reloads from the latch.
func (m *MMC3) ClockIRQCounter() {
	if !m.irqEnabled {
		return
	}
	m.irqCounter--
	if m.irqCounter < 0 {
		m.dev.CPU.RequestInterrupt(addr.Normal)
		m.irqCounter = m.irqLatch
	}
}

func (m *MMC3) LoadROM() {
	m.loadCommon()
	m.updatePRG()
	m.loadCHR()
}

func (m *MMC3) Name() string { return cartridge.MapperName(4) }
