package memory

import "github.com/valerio/go-nessie/nessie/cartridge"

// Direct is the board without bank switching (mapper 0, NROM). One PRG bank
// is mirrored at $C000, otherwise the first two are mapped.
type Direct struct {
	base
}

func NewDirect(cart *cartridge.Cartridge, dev Devices) *Direct {
	return &Direct{base: newBase(cart, dev)}
}

func (m *Direct) LoadROM() {
	m.loadCommon()
	if m.cart.PRGCount() > 1 {
		m.LoadPRGBank(0, 0x8000)
		m.LoadPRGBank(1, 0xC000)
	} else {
		m.LoadPRGBank(0, 0x8000)
		m.LoadPRGBank(0, 0xC000)
	}
	m.loadCHR()
}

func (m *Direct) Name() string { return cartridge.MapperName(0) }
