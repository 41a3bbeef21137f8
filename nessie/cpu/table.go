package cpu

// Mode is one of the 13 6502 addressing modes.
type Mode uint8

const (
	ZeroPage Mode = iota
	Relative
	Implied
	Absolute
	Accumulator
	Immediate
	ZeroPageX
	ZeroPageY
	AbsoluteX
	AbsoluteY
	IndexedIndirect // (zp,X)
	IndirectIndexed // (zp),Y
	Indirect        // JMP (abs)
)

var modeNames = [...]string{
	ZeroPage:        "zp",
	Relative:        "rel",
	Implied:         "imp",
	Absolute:        "abs",
	Accumulator:     "acc",
	Immediate:       "imm",
	ZeroPageX:       "zp,x",
	ZeroPageY:       "zp,y",
	AbsoluteX:       "abs,x",
	AbsoluteY:       "abs,y",
	IndexedIndirect: "(zp,x)",
	IndirectIndexed: "(zp),y",
	Indirect:        "(abs)",
}

func (m Mode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return "?"
}

// Opcode executes an instruction against a resolved operand and returns the
// extra cycles it consumed on top of the base cycle count.
type Opcode func(c *CPU, op operand) int

// Instruction describes a single entry of the opcode table.
type Instruction struct {
	Mnemonic string
	Mode     Mode
	Size     uint8
	Cycles   uint8

	exec Opcode
}

// Valid reports whether the entry is an official opcode.
func (i Instruction) Valid() bool {
	return i.exec != nil
}

var instructions [256]Instruction

// Lookup returns the table entry for an opcode byte.
func Lookup(opcode uint8) Instruction {
	return instructions[opcode]
}

func define(opcode uint8, mnemonic string, exec Opcode, mode Mode, size, cycles uint8) {
	instructions[opcode] = Instruction{
		Mnemonic: mnemonic,
		Mode:     mode,
		Size:     size,
		Cycles:   cycles,
		exec:     exec,
	}
}

func init() {
	define(0x69, "ADC", adc, Immediate, 2, 2)
	define(0x65, "ADC", adc, ZeroPage, 2, 3)
	define(0x75, "ADC", adc, ZeroPageX, 2, 4)
	define(0x6D, "ADC", adc, Absolute, 3, 4)
	define(0x7D, "ADC", adc, AbsoluteX, 3, 4)
	define(0x79, "ADC", adc, AbsoluteY, 3, 4)
	define(0x61, "ADC", adc, IndexedIndirect, 2, 6)
	define(0x71, "ADC", adc, IndirectIndexed, 2, 5)

	define(0x29, "AND", and, Immediate, 2, 2)
	define(0x25, "AND", and, ZeroPage, 2, 3)
	define(0x35, "AND", and, ZeroPageX, 2, 4)
	define(0x2D, "AND", and, Absolute, 3, 4)
	define(0x3D, "AND", and, AbsoluteX, 3, 4)
	define(0x39, "AND", and, AbsoluteY, 3, 4)
	define(0x21, "AND", and, IndexedIndirect, 2, 6)
	define(0x31, "AND", and, IndirectIndexed, 2, 5)

	define(0x0A, "ASL", asl, Accumulator, 1, 2)
	define(0x06, "ASL", asl, ZeroPage, 2, 5)
	define(0x16, "ASL", asl, ZeroPageX, 2, 6)
	define(0x0E, "ASL", asl, Absolute, 3, 6)
	define(0x1E, "ASL", asl, AbsoluteX, 3, 7)

	define(0x90, "BCC", bcc, Relative, 2, 2)
	define(0xB0, "BCS", bcs, Relative, 2, 2)
	define(0xF0, "BEQ", beq, Relative, 2, 2)
	define(0x30, "BMI", bmi, Relative, 2, 2)
	define(0xD0, "BNE", bne, Relative, 2, 2)
	define(0x10, "BPL", bpl, Relative, 2, 2)
	define(0x50, "BVC", bvc, Relative, 2, 2)
	define(0x70, "BVS", bvs, Relative, 2, 2)

	define(0x24, "BIT", bitTest, ZeroPage, 2, 3)
	define(0x2C, "BIT", bitTest, Absolute, 3, 4)

	define(0x00, "BRK", brk, Implied, 1, 7)

	define(0x18, "CLC", clc, Implied, 1, 2)
	define(0xD8, "CLD", cld, Implied, 1, 2)
	define(0x58, "CLI", cli, Implied, 1, 2)
	define(0xB8, "CLV", clv, Implied, 1, 2)

	define(0xC9, "CMP", cmp, Immediate, 2, 2)
	define(0xC5, "CMP", cmp, ZeroPage, 2, 3)
	define(0xD5, "CMP", cmp, ZeroPageX, 2, 4)
	define(0xCD, "CMP", cmp, Absolute, 3, 4)
	define(0xDD, "CMP", cmp, AbsoluteX, 3, 4)
	define(0xD9, "CMP", cmp, AbsoluteY, 3, 4)
	define(0xC1, "CMP", cmp, IndexedIndirect, 2, 6)
	define(0xD1, "CMP", cmp, IndirectIndexed, 2, 5)

	define(0xE0, "CPX", cpx, Immediate, 2, 2)
	define(0xE4, "CPX", cpx, ZeroPage, 2, 3)
	define(0xEC, "CPX", cpx, Absolute, 3, 4)

	define(0xC0, "CPY", cpy, Immediate, 2, 2)
	define(0xC4, "CPY", cpy, ZeroPage, 2, 3)
	define(0xCC, "CPY", cpy, Absolute, 3, 4)

	define(0xC6, "DEC", dec, ZeroPage, 2, 5)
	define(0xD6, "DEC", dec, ZeroPageX, 2, 6)
	define(0xCE, "DEC", dec, Absolute, 3, 6)
	define(0xDE, "DEC", dec, AbsoluteX, 3, 7)
	define(0xCA, "DEX", dex, Implied, 1, 2)
	define(0x88, "DEY", dey, Implied, 1, 2)

	define(0x49, "EOR", eor, Immediate, 2, 2)
	define(0x45, "EOR", eor, ZeroPage, 2, 3)
	define(0x55, "EOR", eor, ZeroPageX, 2, 4)
	define(0x4D, "EOR", eor, Absolute, 3, 4)
	define(0x5D, "EOR", eor, AbsoluteX, 3, 4)
	define(0x59, "EOR", eor, AbsoluteY, 3, 4)
	define(0x41, "EOR", eor, IndexedIndirect, 2, 6)
	define(0x51, "EOR", eor, IndirectIndexed, 2, 5)

	define(0xE6, "INC", inc, ZeroPage, 2, 5)
	define(0xF6, "INC", inc, ZeroPageX, 2, 6)
	define(0xEE, "INC", inc, Absolute, 3, 6)
	define(0xFE, "INC", inc, AbsoluteX, 3, 7)
	define(0xE8, "INX", inx, Implied, 1, 2)
	define(0xC8, "INY", iny, Implied, 1, 2)

	define(0x4C, "JMP", jmp, Absolute, 3, 3)
	define(0x6C, "JMP", jmp, Indirect, 3, 5)
	define(0x20, "JSR", jsr, Absolute, 3, 6)

	define(0xA9, "LDA", lda, Immediate, 2, 2)
	define(0xA5, "LDA", lda, ZeroPage, 2, 3)
	define(0xB5, "LDA", lda, ZeroPageX, 2, 4)
	define(0xAD, "LDA", lda, Absolute, 3, 4)
	define(0xBD, "LDA", lda, AbsoluteX, 3, 4)
	define(0xB9, "LDA", lda, AbsoluteY, 3, 4)
	define(0xA1, "LDA", lda, IndexedIndirect, 2, 6)
	define(0xB1, "LDA", lda, IndirectIndexed, 2, 5)

	define(0xA2, "LDX", ldx, Immediate, 2, 2)
	define(0xA6, "LDX", ldx, ZeroPage, 2, 3)
	define(0xB6, "LDX", ldx, ZeroPageY, 2, 4)
	define(0xAE, "LDX", ldx, Absolute, 3, 4)
	define(0xBE, "LDX", ldx, AbsoluteY, 3, 4)

	define(0xA0, "LDY", ldy, Immediate, 2, 2)
	define(0xA4, "LDY", ldy, ZeroPage, 2, 3)
	define(0xB4, "LDY", ldy, ZeroPageX, 2, 4)
	define(0xAC, "LDY", ldy, Absolute, 3, 4)
	define(0xBC, "LDY", ldy, AbsoluteX, 3, 4)

	define(0x4A, "LSR", lsr, Accumulator, 1, 2)
	define(0x46, "LSR", lsr, ZeroPage, 2, 5)
	define(0x56, "LSR", lsr, ZeroPageX, 2, 6)
	define(0x4E, "LSR", lsr, Absolute, 3, 6)
	define(0x5E, "LSR", lsr, AbsoluteX, 3, 7)

	define(0xEA, "NOP", nop, Implied, 1, 2)

	define(0x09, "ORA", ora, Immediate, 2, 2)
	define(0x05, "ORA", ora, ZeroPage, 2, 3)
	define(0x15, "ORA", ora, ZeroPageX, 2, 4)
	define(0x0D, "ORA", ora, Absolute, 3, 4)
	define(0x1D, "ORA", ora, AbsoluteX, 3, 4)
	define(0x19, "ORA", ora, AbsoluteY, 3, 4)
	define(0x01, "ORA", ora, IndexedIndirect, 2, 6)
	define(0x11, "ORA", ora, IndirectIndexed, 2, 5)

	define(0x48, "PHA", pha, Implied, 1, 3)
	define(0x08, "PHP", php, Implied, 1, 3)
	define(0x68, "PLA", pla, Implied, 1, 4)
	define(0x28, "PLP", plp, Implied, 1, 4)

	define(0x2A, "ROL", rol, Accumulator, 1, 2)
	define(0x26, "ROL", rol, ZeroPage, 2, 5)
	define(0x36, "ROL", rol, ZeroPageX, 2, 6)
	define(0x2E, "ROL", rol, Absolute, 3, 6)
	define(0x3E, "ROL", rol, AbsoluteX, 3, 7)

	define(0x6A, "ROR", ror, Accumulator, 1, 2)
	define(0x66, "ROR", ror, ZeroPage, 2, 5)
	define(0x76, "ROR", ror, ZeroPageX, 2, 6)
	define(0x6E, "ROR", ror, Absolute, 3, 6)
	define(0x7E, "ROR", ror, AbsoluteX, 3, 7)

	define(0x40, "RTI", rti, Implied, 1, 6)
	define(0x60, "RTS", rts, Implied, 1, 6)

	define(0xE9, "SBC", sbc, Immediate, 2, 2)
	define(0xE5, "SBC", sbc, ZeroPage, 2, 3)
	define(0xF5, "SBC", sbc, ZeroPageX, 2, 4)
	define(0xED, "SBC", sbc, Absolute, 3, 4)
	define(0xFD, "SBC", sbc, AbsoluteX, 3, 4)
	define(0xF9, "SBC", sbc, AbsoluteY, 3, 4)
	define(0xE1, "SBC", sbc, IndexedIndirect, 2, 6)
	define(0xF1, "SBC", sbc, IndirectIndexed, 2, 5)

	define(0x38, "SEC", sec, Implied, 1, 2)
	define(0xF8, "SED", sed, Implied, 1, 2)
	define(0x78, "SEI", sei, Implied, 1, 2)

	define(0x85, "STA", sta, ZeroPage, 2, 3)
	define(0x95, "STA", sta, ZeroPageX, 2, 4)
	define(0x8D, "STA", sta, Absolute, 3, 4)
	define(0x9D, "STA", sta, AbsoluteX, 3, 5)
	define(0x99, "STA", sta, AbsoluteY, 3, 5)
	define(0x81, "STA", sta, IndexedIndirect, 2, 6)
	define(0x91, "STA", sta, IndirectIndexed, 2, 6)

	define(0x86, "STX", stx, ZeroPage, 2, 3)
	define(0x96, "STX", stx, ZeroPageY, 2, 4)
	define(0x8E, "STX", stx, Absolute, 3, 4)

	define(0x84, "STY", sty, ZeroPage, 2, 3)
	define(0x94, "STY", sty, ZeroPageX, 2, 4)
	define(0x8C, "STY", sty, Absolute, 3, 4)

	define(0xAA, "TAX", tax, Implied, 1, 2)
	define(0xA8, "TAY", tay, Implied, 1, 2)
	define(0xBA, "TSX", tsx, Implied, 1, 2)
	define(0x8A, "TXA", txa, Implied, 1, 2)
	define(0x9A, "TXS", txs, Implied, 1, 2)
	define(0x98, "TYA", tya, Implied, 1, 2)
}
