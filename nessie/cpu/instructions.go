package cpu

import (
	"github.com/valerio/go-nessie/nessie/addr"
	"github.com/valerio/go-nessie/nessie/bit"
)

// readBonus is the page crossing penalty of read instructions.
func readBonus(op operand) int {
	return op.crossed
}

// logicBonus skips the penalty for post-indexed operands, as AND, ORA and
// SBC have always been timed that way in this core.
func logicBonus(op operand) int {
	if op.mode == IndirectIndexed {
		return 0
	}
	return op.crossed
}

func adc(c *CPU, op operand) int {
	value := c.read(op.address)
	sum := uint16(c.a) + uint16(value) + uint16(bit.Bool(c.carry))
	result := uint8(sum)

	c.overflow = (c.a^value)&0x80 == 0 && (c.a^result)&0x80 != 0
	c.carry = sum > 0xFF
	c.a = result
	c.setZN(result)

	return readBonus(op)
}

func sbc(c *CPU, op operand) int {
	value := c.read(op.address)
	diff := int(c.a) - int(value) - int(1-bit.Bool(c.carry))
	result := uint8(diff)

	c.overflow = (c.a^result)&0x80 != 0 && (c.a^value)&0x80 != 0
	c.carry = diff >= 0
	c.a = result
	c.setZN(result)

	return logicBonus(op)
}

func and(c *CPU, op operand) int {
	c.a &= c.read(op.address)
	c.setZN(c.a)
	return logicBonus(op)
}

func ora(c *CPU, op operand) int {
	c.a |= c.read(op.address)
	c.setZN(c.a)
	return logicBonus(op)
}

func eor(c *CPU, op operand) int {
	c.a ^= c.read(op.address)
	c.setZN(c.a)
	return readBonus(op)
}

func asl(c *CPU, op operand) int {
	value := c.load(op)
	c.carry = value&0x80 != 0
	value <<= 1
	c.setZN(value)
	c.store(op, value)
	return 0
}

func lsr(c *CPU, op operand) int {
	value := c.load(op)
	c.carry = value&0x01 != 0
	value >>= 1
	c.setZN(value)
	c.store(op, value)
	return 0
}

func rol(c *CPU, op operand) int {
	value := c.load(op)
	carryIn := bit.Bool(c.carry)
	c.carry = value&0x80 != 0
	value = value<<1 | carryIn
	c.setZN(value)
	c.store(op, value)
	return 0
}

func ror(c *CPU, op operand) int {
	value := c.load(op)
	carryIn := bit.Bool(c.carry) << 7
	c.carry = value&0x01 != 0
	value = value>>1 | carryIn
	c.setZN(value)
	c.store(op, value)
	return 0
}

// branch jumps to the operand when taken: one extra cycle, two when the
// destination lies in another page.
func branch(c *CPU, op operand, taken bool) int {
	if !taken {
		return 0
	}
	extra := 1 + pageCost(c.pc+1, op.address+1)
	c.pc = op.address
	return extra
}

func bcc(c *CPU, op operand) int { return branch(c, op, !c.carry) }
func bcs(c *CPU, op operand) int { return branch(c, op, c.carry) }
func beq(c *CPU, op operand) int { return branch(c, op, c.zero) }
func bne(c *CPU, op operand) int { return branch(c, op, !c.zero) }
func bmi(c *CPU, op operand) int { return branch(c, op, c.negative) }
func bpl(c *CPU, op operand) int { return branch(c, op, !c.negative) }
func bvc(c *CPU, op operand) int { return branch(c, op, !c.overflow) }
func bvs(c *CPU, op operand) int { return branch(c, op, c.overflow) }

func bitTest(c *CPU, op operand) int {
	value := c.read(op.address)
	c.negative = value&0x80 != 0
	c.overflow = value&0x40 != 0
	c.zero = value&c.a == 0
	return 0
}

func brk(c *CPU, op operand) int {
	c.pc += 2
	c.pushWord(c.pc)
	c.brk = true
	c.push(c.status())
	c.interruptDisable = true
	c.pc = c.read16(addr.IRQVector) - 1
	return 0
}

func clc(c *CPU, op operand) int { c.carry = false; return 0 }
func cld(c *CPU, op operand) int { c.decimal = false; return 0 }
func cli(c *CPU, op operand) int { c.interruptDisable = false; return 0 }
func clv(c *CPU, op operand) int { c.overflow = false; return 0 }
func sec(c *CPU, op operand) int { c.carry = true; return 0 }
func sed(c *CPU, op operand) int { c.decimal = true; return 0 }
func sei(c *CPU, op operand) int { c.interruptDisable = true; return 0 }

func compare(c *CPU, register, value uint8) {
	diff := int(register) - int(value)
	c.carry = diff >= 0
	c.setZN(uint8(diff))
}

func cmp(c *CPU, op operand) int {
	compare(c, c.a, c.read(op.address))
	return readBonus(op)
}

func cpx(c *CPU, op operand) int {
	compare(c, c.x, c.read(op.address))
	return 0
}

func cpy(c *CPU, op operand) int {
	compare(c, c.y, c.read(op.address))
	return 0
}

func dec(c *CPU, op operand) int {
	value := c.read(op.address) - 1
	c.setZN(value)
	c.write(op.address, value)
	return 0
}

func inc(c *CPU, op operand) int {
	value := c.read(op.address) + 1
	c.setZN(value)
	c.write(op.address, value)
	return 0
}

func dex(c *CPU, op operand) int { c.x--; c.setZN(c.x); return 0 }
func dey(c *CPU, op operand) int { c.y--; c.setZN(c.y); return 0 }
func inx(c *CPU, op operand) int { c.x++; c.setZN(c.x); return 0 }
func iny(c *CPU, op operand) int { c.y++; c.setZN(c.y); return 0 }

func jmp(c *CPU, op operand) int {
	c.pc = op.address - 1
	return 0
}

func jsr(c *CPU, op operand) int {
	c.pushWord(c.pc)
	c.pc = op.address - 1
	return 0
}

func lda(c *CPU, op operand) int {
	c.a = c.read(op.address)
	c.setZN(c.a)
	return readBonus(op)
}

func ldx(c *CPU, op operand) int {
	c.x = c.read(op.address)
	c.setZN(c.x)
	return readBonus(op)
}

func ldy(c *CPU, op operand) int {
	c.y = c.read(op.address)
	c.setZN(c.y)
	return readBonus(op)
}

func nop(c *CPU, op operand) int { return 0 }

func pha(c *CPU, op operand) int {
	c.push(c.a)
	return 0
}

func php(c *CPU, op operand) int {
	c.brk = true
	c.push(c.status())
	return 0
}

func pla(c *CPU, op operand) int {
	c.a = c.pull()
	c.setZN(c.a)
	return 0
}

func plp(c *CPU, op operand) int {
	c.setStatus(c.pull())
	c.unused = true
	return 0
}

func rti(c *CPU, op operand) int {
	c.setStatus(c.pull())
	c.unused = true
	c.pc = c.pullWord()
	if c.pc == 0xFFFF {
		return 0
	}
	c.pc--
	return 0
}

func rts(c *CPU, op operand) int {
	c.pc = c.pullWord()
	return 0
}

func sta(c *CPU, op operand) int { c.write(op.address, c.a); return 0 }
func stx(c *CPU, op operand) int { c.write(op.address, c.x); return 0 }
func sty(c *CPU, op operand) int { c.write(op.address, c.y); return 0 }

func tax(c *CPU, op operand) int { c.x = c.a; c.setZN(c.x); return 0 }
func tay(c *CPU, op operand) int { c.y = c.a; c.setZN(c.y); return 0 }
func txa(c *CPU, op operand) int { c.a = c.x; c.setZN(c.a); return 0 }
func tya(c *CPU, op operand) int { c.a = c.y; c.setZN(c.a); return 0 }

func tsx(c *CPU, op operand) int {
	c.x = uint8(c.sp)
	c.setZN(c.x)
	return 0
}

func txs(c *CPU, op operand) int {
	c.sp = 0x0100 | uint16(c.x)
	return 0
}
