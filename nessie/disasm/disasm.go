package disasm

import (
	"fmt"

	"github.com/valerio/go-nessie/nessie/bit"
	"github.com/valerio/go-nessie/nessie/cpu"
)

// Reader gives the disassembler side-effect free access to memory.
type Reader interface {
	Read(address uint16) uint8
}

// DisassemblyLine represents a single disassembled instruction
type DisassemblyLine struct {
	Address     uint16
	Instruction string
	Length      int
}

// DisassembleAt disassembles the instruction at the given program counter
func DisassembleAt(pc uint16, mem Reader) DisassemblyLine {
	opcode := mem.Read(pc)
	ins := cpu.Lookup(opcode)
	if !ins.Valid() {
		return DisassemblyLine{Address: pc, Instruction: fmt.Sprintf(".db $%02X", opcode), Length: 1}
	}

	var lo, hi uint8
	if ins.Size > 1 {
		lo = mem.Read(pc + 1)
	}
	if ins.Size > 2 {
		hi = mem.Read(pc + 2)
	}

	return DisassemblyLine{
		Address:     pc,
		Instruction: format(ins, pc, lo, hi),
		Length:      int(ins.Size),
	}
}

// DisassembleBytes decodes the instruction at offset within data, as found in
// a memory snapshot. Operand bytes past the end of data read as zero.
func DisassembleBytes(data []byte, offset int) (string, int) {
	return DisassembleBytesAt(data, offset, 0)
}

// DisassembleBytesAt is DisassembleBytes for a snapshot starting at base, so
// branch targets resolve to absolute addresses.
func DisassembleBytesAt(data []byte, offset int, base uint16) (string, int) {
	if offset < 0 || offset >= len(data) {
		return "??", 1
	}
	ins := cpu.Lookup(data[offset])
	if !ins.Valid() {
		return fmt.Sprintf(".db $%02X", data[offset]), 1
	}

	operand := func(i int) uint8 {
		if offset+i < len(data) {
			return data[offset+i]
		}
		return 0
	}
	var lo, hi uint8
	if ins.Size > 1 {
		lo = operand(1)
	}
	if ins.Size > 2 {
		hi = operand(2)
	}
	return format(ins, base+uint16(offset), lo, hi), int(ins.Size)
}

func format(ins cpu.Instruction, pc uint16, lo, hi uint8) string {
	abs := bit.Combine(hi, lo)

	switch ins.Mode {
	case cpu.Implied:
		return ins.Mnemonic
	case cpu.Accumulator:
		return ins.Mnemonic + " A"
	case cpu.Immediate:
		return fmt.Sprintf("%s #$%02X", ins.Mnemonic, lo)
	case cpu.ZeroPage:
		return fmt.Sprintf("%s $%02X", ins.Mnemonic, lo)
	case cpu.ZeroPageX:
		return fmt.Sprintf("%s $%02X,X", ins.Mnemonic, lo)
	case cpu.ZeroPageY:
		return fmt.Sprintf("%s $%02X,Y", ins.Mnemonic, lo)
	case cpu.Absolute:
		return fmt.Sprintf("%s $%04X", ins.Mnemonic, abs)
	case cpu.AbsoluteX:
		return fmt.Sprintf("%s $%04X,X", ins.Mnemonic, abs)
	case cpu.AbsoluteY:
		return fmt.Sprintf("%s $%04X,Y", ins.Mnemonic, abs)
	case cpu.IndexedIndirect:
		return fmt.Sprintf("%s ($%02X,X)", ins.Mnemonic, lo)
	case cpu.IndirectIndexed:
		return fmt.Sprintf("%s ($%02X),Y", ins.Mnemonic, lo)
	case cpu.Indirect:
		return fmt.Sprintf("%s ($%04X)", ins.Mnemonic, abs)
	case cpu.Relative:
		target := pc + 2 + uint16(int8(lo))
		return fmt.Sprintf("%s $%04X", ins.Mnemonic, target)
	}
	return ins.Mnemonic
}

// DisassembleRange disassembles multiple instructions starting from the given PC
func DisassembleRange(startPC uint16, count int, mem Reader) []DisassemblyLine {
	lines := make([]DisassemblyLine, 0, count)
	pc := startPC

	for i := 0; i < count; i++ {
		line := DisassembleAt(pc, mem)
		lines = append(lines, line)
		next := pc + uint16(line.Length)
		if next < pc {
			break
		}
		pc = next
	}

	return lines
}

// DisassembleAround disassembles instructions around the given PC.
// Instructions have variable length, so it searches for the furthest start
// address that decodes exactly beforeCount instructions before currentPC.
func DisassembleAround(currentPC uint16, beforeCount, afterCount int, mem Reader) []DisassemblyLine {
	for offset := beforeCount * 3; offset > 0; offset-- {
		if int(currentPC) < offset {
			continue
		}
		start := currentPC - uint16(offset)

		pc := start
		count := 0
		for pc < currentPC {
			pc += uint16(DisassembleAt(pc, mem).Length)
			count++
		}
		if pc == currentPC && count == beforeCount {
			return DisassembleRange(start, count+1+afterCount, mem)
		}
	}

	return DisassembleRange(currentPC, 1+afterCount, mem)
}

// FormatDisassemblyLine formats a disassembly line for display
func FormatDisassemblyLine(line DisassemblyLine, isCurrentPC bool) string {
	prefix := " "
	if isCurrentPC {
		prefix = "→"
	}

	return fmt.Sprintf("%s0x%04X: %s", prefix, line.Address, line.Instruction)
}
