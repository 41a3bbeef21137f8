package cpu

import "github.com/valerio/go-nessie/nessie/bit"

// operand is the effective address an instruction works on.
type operand struct {
	mode    Mode
	address uint16
	// crossed is 1 when indexing moved the address to another page.
	crossed int
}

// resolve computes the effective address for an instruction whose opcode
// sits at opaddr+1. The program counter has already been moved past the
// operand bytes.
func (c *CPU) resolve(mode Mode, opaddr uint16) operand {
	op := operand{mode: mode}

	switch mode {
	case ZeroPage:
		op.address = uint16(c.read(opaddr + 2))
	case Relative:
		offset := c.read(opaddr + 2)
		op.address = c.pc + uint16(int8(offset))
	case Implied, Accumulator:
	case Absolute:
		op.address = c.read16(opaddr + 2)
	case Immediate:
		op.address = c.pc
	case ZeroPageX:
		op.address = uint16(c.read(opaddr+2) + c.x)
	case ZeroPageY:
		op.address = uint16(c.read(opaddr+2) + c.y)
	case AbsoluteX:
		base := c.read16(opaddr + 2)
		op.address = base + uint16(c.x)
		op.crossed = pageCost(base, op.address)
	case AbsoluteY:
		base := c.read16(opaddr + 2)
		op.address = base + uint16(c.y)
		op.crossed = pageCost(base, op.address)
	case IndexedIndirect:
		op.address = c.readZeroPage16(c.read(opaddr+2) + c.x)
	case IndirectIndexed:
		base := c.readZeroPage16(c.read(opaddr + 2))
		op.address = base + uint16(c.y)
		op.crossed = pageCost(base, op.address)
	case Indirect:
		// the high byte is fetched without carrying into the next page
		pointer := c.read16(opaddr + 2)
		low := c.read(pointer)
		high := c.read(pointer&0xFF00 | uint16(uint8(pointer)+1))
		op.address = bit.Combine(high, low)
	}

	return op
}

func pageCost(a, b uint16) int {
	if bit.PageCrossed(a, b) {
		return 1
	}
	return 0
}

// load reads the operand value, from the accumulator in accumulator mode.
func (c *CPU) load(op operand) uint8 {
	if op.mode == Accumulator {
		return c.a
	}
	return c.read(op.address)
}

// store writes back the result of a read-modify-write instruction.
func (c *CPU) store(op operand, value uint8) {
	if op.mode == Accumulator {
		c.a = value
		return
	}
	c.write(op.address, value)
}
