package memory

import "github.com/valerio/go-nessie/nessie/cartridge"

// UNROM (mapper 2) switches the 16KB bank at $8000 with any ROM write. The
// last bank stays at $C000.
type UNROM struct {
	base
}

func NewUNROM(cart *cartridge.Cartridge, dev Devices) *UNROM {
	return &UNROM{base: newBase(cart, dev)}
}

func (m *UNROM) Write(address uint16, value uint8) {
	if address < 0x8000 {
		m.base.Write(address, value)
		return
	}
	m.LoadPRGBank(int(value), 0x8000)
}

func (m *UNROM) LoadROM() {
	m.loadCommon()
	m.LoadPRGBank(0, 0x8000)
	m.LoadPRGBank(m.cart.PRGCount()-1, 0xC000)
	m.loadCHR()
}

func (m *UNROM) Name() string { return cartridge.MapperName(2) }
