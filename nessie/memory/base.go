package memory

import (
	"fmt"
	"log/slog"

	"github.com/valerio/go-nessie/nessie/addr"
	"github.com/valerio/go-nessie/nessie/cartridge"
)

type memRegion uint8

const (
	regionRAM memRegion = iota
	regionPPU
	regionIO
	regionExpansion
	regionPRGRAM
	regionROM
)

const (
	ramSize    = 0x800
	prgRAMSize = 0x2000
	prgWindow  = 0x2000

	// DMACycles is how long the CPU is stalled by a sprite DMA.
	DMACycles = 513
)

var regionMap = func() (m [256]memRegion) {
	for i := range m {
		a := uint16(i) << 8
		switch {
		case a < 0x2000:
			m[i] = regionRAM
		case a < 0x4000:
			m[i] = regionPPU
		case a < 0x4100:
			m[i] = regionIO
		case a < 0x6000:
			m[i] = regionExpansion
		case a < 0x8000:
			m[i] = regionPRGRAM
		default:
			m[i] = regionROM
		}
	}
	return m
}()

// base is the board behaviour shared by every mapper: internal RAM, the
// register dispatch for $2000-$4017, PRG-RAM and the bank loaders.
type base struct {
	cart *cartridge.Cartridge
	dev  Devices

	ram    [ramSize]byte
	prgRAM [prgRAMSize]byte
	// prg holds the 8KB views mapped at $8000, $A000, $C000 and $E000.
	prg [4][]byte

	padLastWrite uint8
}

func newBase(cart *cartridge.Cartridge, dev Devices) base {
	b := base{cart: cart, dev: dev}
	empty := make([]byte, prgWindow)
	for i := range b.prg {
		b.prg[i] = empty
	}
	b.powerOnRAM()
	return b
}

// powerOnRAM fills internal RAM with the pattern found after power-up.
func (b *base) powerOnRAM() {
	for i := range b.ram {
		b.ram[i] = 0xFF
	}
	b.ram[0x008] = 0xF7
	b.ram[0x009] = 0xEF
	b.ram[0x00A] = 0xDF
	b.ram[0x00F] = 0xBF
}

func (b *base) Read(address uint16) uint8 {
	switch regionMap[address>>8] {
	case regionRAM:
		return b.ram[address&0x7FF]
	case regionPPU, regionIO:
		return b.RegRead(address)
	case regionPRGRAM:
		return b.prgRAM[address-0x6000]
	case regionROM:
		return b.prg[(address-0x8000)/prgWindow][address&(prgWindow-1)]
	}
	return 0
}

// Write handles every address below $8000. Mappers intercept the ROM range
// and fall back to this.
func (b *base) Write(address uint16, value uint8) {
	switch regionMap[address>>8] {
	case regionRAM:
		b.ram[address&0x7FF] = value
	case regionPPU, regionIO:
		b.RegWrite(address, value)
	case regionExpansion:
		slog.Debug("ignored expansion write", "addr", fmt.Sprintf("0x%04X", address), "value", value)
	case regionPRGRAM:
		b.prgRAM[address-0x6000] = value
	case regionROM:
		slog.Debug("ignored ROM write", "addr", fmt.Sprintf("0x%04X", address), "value", value)
	}
}

// RegRead reads a memory-mapped register. Addresses in $2000-$3FFF are
// folded onto the eight PPU registers.
func (b *base) RegRead(address uint16) uint8 {
	if address < 0x4000 {
		return b.dev.PPU.ReadRegister(0x2000 | address&7)
	}

	switch address {
	case addr.APUStatus:
		return b.dev.APU.ReadRegister(address)
	case addr.JOY1:
		return b.dev.Pad1.Read()
	case addr.JOY2:
		return b.dev.Pad2.Read()
	}
	// the rest of the APU block is write only
	return 0
}

func (b *base) RegWrite(address uint16, value uint8) {
	if address < 0x4000 {
		b.dev.PPU.WriteRegister(0x2000|address&7, value)
		return
	}

	switch {
	case address == addr.OAMDMA:
		b.spriteDMA(value)
	case address == addr.JOY1:
		if value&1 == 0 && b.padLastWrite&1 == 1 {
			b.dev.Pad1.ResetStrobe()
			b.dev.Pad2.ResetStrobe()
		}
		b.padLastWrite = value
	case address <= addr.AudioEnd:
		b.dev.APU.WriteRegister(address, value)
	default:
		slog.Debug("ignored io write", "addr", fmt.Sprintf("0x%04X", address), "value", value)
	}
}

// spriteDMA copies the page value<<8 into OAM and stalls the CPU.
func (b *base) spriteDMA(value uint8) {
	var page [256]byte
	start := uint16(value) << 8
	for i := range page {
		page[i] = b.Read(start + uint16(i))
	}
	b.dev.PPU.SpriteDMA(page[:])
	b.dev.CPU.HaltCycles(DMACycles)
}

// loadCommon applies the cartridge-wide state every board starts from.
func (b *base) loadCommon() {
	b.dev.PPU.SetMirroring(b.cart.Mirroring())
}

// loadCHR maps the first 8KB of pattern data, repeating a lone bank.
func (b *base) loadCHR() {
	switch b.cart.CHRCount() {
	case 0:
	case 1:
		b.LoadCHRBank(0, 0x0000)
		b.LoadCHRBank(0, 0x1000)
	default:
		b.LoadCHRBank(0, 0x0000)
		b.LoadCHRBank(1, 0x1000)
	}
}

func (b *base) ClockIRQCounter()           {}
func (b *base) LatchAccess(address uint16) {}

func (b *base) LoadPRGBank(bank int, address uint16) {
	if address != 0x8000 && address != 0xC000 {
		b.badWindow("16k PRG", address)
		return
	}
	data := b.cart.PRG[wrap(bank, b.cart.PRGCount())]
	slot := (address - 0x8000) / prgWindow
	b.prg[slot] = data[:prgWindow]
	b.prg[slot+1] = data[prgWindow:]
}

func (b *base) Load8kPRGBank(bank int, address uint16) {
	if address < 0x8000 || address&(prgWindow-1) != 0 {
		b.badWindow("8k PRG", address)
		return
	}
	data := b.cart.PRG[wrap(bank/2, b.cart.PRGCount())]
	offset := (bank % 2) * prgWindow
	b.prg[(address-0x8000)/prgWindow] = data[offset : offset+prgWindow]
}

func (b *base) Load32kPRGBank(bank int, address uint16) {
	if address != 0x8000 {
		b.badWindow("32k PRG", address)
		return
	}
	b.LoadPRGBank(wrap(bank*2, b.cart.PRGCount()), 0x8000)
	b.LoadPRGBank(wrap(bank*2+1, b.cart.PRGCount()), 0xC000)
}

func (b *base) LoadCHRBank(bank int, address uint16) {
	if b.cart.HasCHRRAM() {
		return
	}
	if address != 0x0000 && address != 0x1000 {
		b.badWindow("4k CHR", address)
		return
	}
	i := wrap(bank, b.cart.CHRCount())
	b.dev.PPU.LoadPatterns(address, b.cart.CHR[i], b.cart.Tiles[i])
}

func (b *base) Load8kCHRBank(bank int, address uint16) {
	if b.cart.HasCHRRAM() {
		return
	}
	if address != 0x0000 {
		b.badWindow("8k CHR", address)
		return
	}
	b.LoadCHRBank(wrap(bank, b.cart.CHRCount()), 0x0000)
	b.LoadCHRBank(wrap(bank+1, b.cart.CHRCount()), 0x1000)
}

func (b *base) Load2kCHRBank(bank int, address uint16) {
	b.loadCHRSlice(bank, address, 0x800, "2k CHR")
}

func (b *base) Load1kCHRBank(bank int, address uint16) {
	b.loadCHRSlice(bank, address, 0x400, "1k CHR")
}

// loadCHRSlice maps a part of a 4KB bank. bank counts units of size.
func (b *base) loadCHRSlice(bank int, address uint16, size int, kind string) {
	if b.cart.HasCHRRAM() {
		return
	}
	if address >= 0x2000 || int(address)%size != 0 {
		b.badWindow(kind, address)
		return
	}
	perBank := cartridge.CHRBankSize / size
	i := wrap(bank/perBank, b.cart.CHRCount())
	offset := (bank % perBank) * size
	tile := offset / 16
	b.dev.PPU.LoadPatterns(address, b.cart.CHR[i][offset:offset+size], b.cart.Tiles[i][tile:tile+size/16])
}

func (b *base) badWindow(kind string, address uint16) {
	slog.Debug("bank load outside window", "kind", kind, "addr", fmt.Sprintf("0x%04X", address))
}

func (b *base) BatteryRAM() []byte {
	if !b.cart.Battery {
		return nil
	}
	ram := make([]byte, prgRAMSize)
	copy(ram, b.prgRAM[:])
	return ram
}

func (b *base) LoadBatteryRAM(data []byte) {
	copy(b.prgRAM[:], data)
}

// wrap folds a bank number onto the banks that exist.
func wrap(bank, count int) int {
	if count == 0 {
		return 0
	}
	bank %= count
	if bank < 0 {
		bank += count
	}
	return bank
}
