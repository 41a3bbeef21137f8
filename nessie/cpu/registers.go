package cpu

import "github.com/valerio/go-nessie/nessie/addr"

// Registers is a snapshot of the CPU registers, used by debug views.
type Registers struct {
	A, X, Y uint8
	SP      uint16
	PC      uint16 // address of the next opcode
	Status  uint8
	Cycles  uint64
}

// Registers returns the current register values.
func (c *CPU) Registers() Registers {
	return Registers{
		A:      c.a,
		X:      c.x,
		Y:      c.y,
		SP:     c.sp,
		PC:     c.pc + 1,
		Status: c.status(),
		Cycles: c.cycles,
	}
}

// PC returns the address of the next opcode to execute.
func (c *CPU) PC() uint16 {
	return c.pc + 1
}

// SetPC moves execution to the given address.
func (c *CPU) SetPC(address uint16) {
	c.pc = address - 1
}

// InterruptPending reports whether a request is latched, and its kind.
func (c *CPU) InterruptPending() (bool, addr.Interrupt) {
	return c.irqRequested, c.irqType
}
