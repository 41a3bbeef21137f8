package nessie

import "github.com/valerio/go-nessie/nessie/addr"

// bus connects the chips through the console, so each one only sees the
// narrow interface it declares. Memory accesses go to the mapper, which the
// console guarantees is present before any chip runs.
type bus struct {
	c *Console
}

func (b bus) Read(address uint16) byte {
	return b.c.mapper.Read(address)
}

func (b bus) Write(address uint16, value byte) {
	b.c.mapper.Write(address, value)
}

func (b bus) RequestInterrupt(kind addr.Interrupt) {
	b.c.cpu.RequestInterrupt(kind)
}

func (b bus) HaltCycles(n int) {
	b.c.cpu.HaltCycles(n)
}

func (b bus) ClockIRQCounter() {
	if b.c.mapper != nil {
		b.c.mapper.ClockIRQCounter()
	}
}

func (b bus) LatchAccess(address uint16) {
	if b.c.mapper != nil {
		b.c.mapper.LatchAccess(address)
	}
}

// peekReader reads memory for debug views without touching registers:
// anything between $2000 and $5FFF reads as zero.
type peekReader struct {
	c *Console
}

func (p peekReader) Read(address uint16) uint8 {
	if p.c.mapper == nil || (address >= 0x2000 && address < 0x6000) {
		return 0
	}
	return p.c.mapper.Read(address)
}
