package cpu

import (
	"fmt"
	"log/slog"

	"github.com/valerio/go-nessie/nessie/addr"
	"github.com/valerio/go-nessie/nessie/bit"
)

// Bus is the CPU view of the address space. Every read and write, including
// zero page and stack accesses, goes through it.
type Bus interface {
	Read(address uint16) byte
	Write(address uint16, value byte)
}

// status register bit positions
const (
	carryBit     uint8 = 0
	zeroBit      uint8 = 1
	interruptBit uint8 = 2
	decimalBit   uint8 = 3
	breakBit     uint8 = 4
	unusedBit    uint8 = 5
	overflowBit  uint8 = 6
	negativeBit  uint8 = 7
)

// CrashError is returned once the CPU fetched an opcode it cannot execute.
// The CPU stays crashed until the next Reset.
type CrashError struct {
	Address uint16
	Opcode  uint8
}

func (e *CrashError) Error() string {
	return fmt.Sprintf("game crashed, invalid opcode 0x%02X at address 0x%04X", e.Opcode, e.Address)
}

// CPU is a 6502 core without decimal mode, as found in the NES 2A03.
//
// The program counter follows a pre-increment convention: pc holds the
// address of the last byte consumed and the next opcode is fetched at pc+1.
type CPU struct {
	// registers
	a  uint8
	x  uint8
	y  uint8
	sp uint16 // always within page 1
	pc uint16

	// flags, kept apart from each other
	carry            bool
	zero             bool
	interruptDisable bool
	decimal          bool
	brk              bool
	unused           bool
	overflow         bool
	negative         bool

	irqRequested bool
	irqType      addr.Interrupt
	haltCycles   int

	cycles uint64
	crash  *CrashError

	bus Bus
}

// New returns a CPU in its power-on state.
func New(bus Bus) *CPU {
	c := &CPU{bus: bus}
	c.Reset()
	return c
}

// Reset puts registers and flags in their power-on state. The reset vector is
// not read here: callers request an addr.Reset interrupt once the cartridge is
// mapped in.
func (c *CPU) Reset() {
	c.a, c.x, c.y = 0, 0, 0
	c.sp = 0x01FF
	c.pc = 0x8000 - 1

	c.carry = false
	c.zero = false
	c.interruptDisable = true
	c.decimal = false
	c.brk = true
	c.unused = true
	c.overflow = false
	c.negative = false

	c.irqRequested = false
	c.haltCycles = 0
	c.cycles = 0
	c.crash = nil
}

// Step executes a single instruction, servicing a pending interrupt first.
// Returns the amount of cycles the instruction has taken.
func (c *CPU) Step() (int, error) {
	if c.crash != nil {
		return 0, c.crash
	}

	if c.irqRequested {
		c.handleInterrupts()
	}

	opaddr := c.pc
	opcode := c.read(opaddr + 1)
	instruction := instructions[opcode]
	if instruction.exec == nil {
		c.crash = &CrashError{Address: opaddr + 1, Opcode: opcode}
		slog.Error("CPU crashed", "opcode", fmt.Sprintf("0x%02X", opcode), "address", fmt.Sprintf("0x%04X", opaddr+1))
		return 0, c.crash
	}

	c.pc += uint16(instruction.Size)
	operand := c.resolve(instruction.Mode, opaddr)

	cycles := int(instruction.Cycles) + instruction.exec(c, operand)
	c.cycles += uint64(cycles)

	return cycles, nil
}

// RequestInterrupt latches an interrupt request, serviced before the next
// instruction. A pending normal IRQ is never replaced by another normal IRQ,
// while NMI and reset replace whatever is pending.
func (c *CPU) RequestInterrupt(kind addr.Interrupt) {
	if c.irqRequested && kind == addr.Normal {
		return
	}
	c.irqRequested = true
	c.irqType = kind
}

// HaltCycles stalls the CPU for n more cycles (sprite DMA, DMC fetches).
func (c *CPU) HaltCycles(n int) {
	c.haltCycles += n
}

// Halted returns the amount of stall cycles still to be consumed.
func (c *CPU) Halted() int {
	return c.haltCycles
}

// ConsumeHalt drains at most max stall cycles and returns how many were taken.
func (c *CPU) ConsumeHalt(max int) int {
	n := c.haltCycles
	if n > max {
		n = max
	}
	c.haltCycles -= n
	return n
}

// Crashed returns the fatal error that stopped the CPU, if any.
func (c *CPU) Crashed() *CrashError {
	return c.crash
}

// Cycles returns the total amount of cycles executed since the last reset.
func (c *CPU) Cycles() uint64 {
	return c.cycles
}

func (c *CPU) handleInterrupts() {
	switch c.irqType {
	case addr.Normal:
		// masked requests stay latched until the flag clears
		if c.interruptDisable {
			return
		}
		c.enterHandler(addr.IRQVector)
	case addr.NMI:
		c.enterHandler(addr.NMIVector)
	case addr.Reset:
		c.pc = c.read16(addr.ResetVector) - 1
	}
	c.irqRequested = false
}

func (c *CPU) enterHandler(vector uint16) {
	c.pushWord(c.pc + 1)
	c.push(c.status() | 1<<breakBit)
	c.interruptDisable = true
	c.pc = c.read16(vector) - 1
}

func (c *CPU) status() uint8 {
	var s uint8
	s = bit.SetTo(carryBit, s, c.carry)
	s = bit.SetTo(zeroBit, s, c.zero)
	s = bit.SetTo(interruptBit, s, c.interruptDisable)
	s = bit.SetTo(decimalBit, s, c.decimal)
	s = bit.SetTo(breakBit, s, c.brk)
	s = bit.SetTo(unusedBit, s, c.unused)
	s = bit.SetTo(overflowBit, s, c.overflow)
	s = bit.SetTo(negativeBit, s, c.negative)
	return s
}

func (c *CPU) setStatus(s uint8) {
	c.carry = bit.IsSet(carryBit, s)
	c.zero = bit.IsSet(zeroBit, s)
	c.interruptDisable = bit.IsSet(interruptBit, s)
	c.decimal = bit.IsSet(decimalBit, s)
	c.brk = bit.IsSet(breakBit, s)
	c.unused = bit.IsSet(unusedBit, s)
	c.overflow = bit.IsSet(overflowBit, s)
	c.negative = bit.IsSet(negativeBit, s)
}

func (c *CPU) setZN(value uint8) {
	c.zero = value == 0
	c.negative = value&0x80 != 0
}

func (c *CPU) read(address uint16) uint8 {
	return c.bus.Read(address)
}

func (c *CPU) read16(address uint16) uint16 {
	return bit.Combine(c.read(address+1), c.read(address))
}

// readZeroPage16 reads a pointer stored in zero page, wrapping within it.
func (c *CPU) readZeroPage16(address uint8) uint16 {
	return bit.Combine(c.read(uint16(address+1)), c.read(uint16(address)))
}

func (c *CPU) write(address uint16, value uint8) {
	c.bus.Write(address, value)
}

func (c *CPU) push(value uint8) {
	c.write(c.sp, value)
	c.sp = 0x0100 | ((c.sp - 1) & 0xFF)
}

func (c *CPU) pull() uint8 {
	c.sp = 0x0100 | ((c.sp + 1) & 0xFF)
	return c.read(c.sp)
}

func (c *CPU) pushWord(value uint16) {
	c.push(bit.High(value))
	c.push(bit.Low(value))
}

func (c *CPU) pullWord() uint16 {
	low := c.pull()
	high := c.pull()
	return bit.Combine(high, low)
}
