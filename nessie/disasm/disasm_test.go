package disasm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type flatMemory [0x10000]uint8

func (m *flatMemory) Read(address uint16) uint8 { return m[address] }

func TestDisassembleAt(t *testing.T) {
	testCases := []struct {
		desc   string
		bytes  []uint8
		want   string
		length int
	}{
		{desc: "implied", bytes: []uint8{0xEA}, want: "NOP", length: 1},
		{desc: "accumulator", bytes: []uint8{0x0A}, want: "ASL A", length: 1},
		{desc: "immediate", bytes: []uint8{0xA9, 0x42}, want: "LDA #$42", length: 2},
		{desc: "absolute", bytes: []uint8{0x8D, 0x00, 0x20}, want: "STA $2000", length: 3},
		{desc: "indirect", bytes: []uint8{0x6C, 0xFC, 0xFF}, want: "JMP ($FFFC)", length: 3},
		{desc: "post-indexed", bytes: []uint8{0xB1, 0x10}, want: "LDA ($10),Y", length: 2},
		{desc: "branch forward", bytes: []uint8{0xD0, 0x05}, want: "BNE $8007", length: 2},
		{desc: "branch backward", bytes: []uint8{0xD0, 0xFE}, want: "BNE $8000", length: 2},
		{desc: "invalid opcode", bytes: []uint8{0x02}, want: ".db $02", length: 1},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			var mem flatMemory
			copy(mem[0x8000:], tC.bytes)

			line := DisassembleAt(0x8000, &mem)
			assert.Equal(t, uint16(0x8000), line.Address)
			assert.Equal(t, tC.want, line.Instruction)
			assert.Equal(t, tC.length, line.Length)
		})
	}
}

func TestDisassembleRange(t *testing.T) {
	var mem flatMemory
	copy(mem[0xC000:], []uint8{0xA2, 0x00, 0xE8, 0x8E, 0x00, 0x02, 0x4C, 0x02, 0xC0})

	lines := DisassembleRange(0xC000, 4, &mem)
	if assert.Len(t, lines, 4) {
		assert.Equal(t, "LDX #$00", lines[0].Instruction)
		assert.Equal(t, uint16(0xC002), lines[1].Address)
		assert.Equal(t, "INX", lines[1].Instruction)
		assert.Equal(t, "STX $0200", lines[2].Instruction)
		assert.Equal(t, "JMP $C002", lines[3].Instruction)
	}
}

func TestDisassembleAround(t *testing.T) {
	var mem flatMemory
	// LDX #0; INX; STX $0200; JMP $C002
	copy(mem[0xC000:], []uint8{0xA2, 0x00, 0xE8, 0x8E, 0x00, 0x02, 0x4C, 0x02, 0xC0})

	lines := DisassembleAround(0xC003, 2, 1, &mem)
	if assert.Len(t, lines, 4) {
		assert.Equal(t, uint16(0xC000), lines[0].Address)
		assert.Equal(t, uint16(0xC003), lines[2].Address)
		assert.Equal(t, uint16(0xC006), lines[3].Address)
	}
}

func TestDisassembleBytes(t *testing.T) {
	data := []byte{0xA9, 0x01, 0x8D}

	text, n := DisassembleBytes(data, 0)
	assert.Equal(t, "LDA #$01", text)
	assert.Equal(t, 2, n)

	// truncated operand reads as zero
	text, n = DisassembleBytes(data, 2)
	assert.Equal(t, "STA $0000", text)
	assert.Equal(t, 3, n)

	text, n = DisassembleBytes(data, 5)
	assert.Equal(t, "??", text)
	assert.Equal(t, 1, n)
}
