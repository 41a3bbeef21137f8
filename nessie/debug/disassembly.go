package debug

import "github.com/valerio/go-nessie/nessie/disasm"

type DisasmLine struct {
	Address     uint16
	Instruction string
	IsCurrent   bool
}

// DisasmBuffer holds pre-allocated buffers for disassembly lines
type DisasmBuffer struct {
	Lines    []DisasmLine
	AllLines []DisasmLine
}

func NewDisasmBuffer(maxLines int) *DisasmBuffer {
	return &DisasmBuffer{
		Lines:    make([]DisasmLine, 0, maxLines),
		AllLines: make([]DisasmLine, 0, maxLines*3),
	}
}

func CreateDisassembly(snapshot *MemorySnapshot, pc uint16, maxLines int) []DisasmLine {
	buf := NewDisasmBuffer(maxLines)
	return CreateDisassemblyWithBuffer(snapshot, pc, maxLines, buf)
}

// CreateDisassemblyWithBuffer decodes the snapshot and returns at most
// maxLines lines centred on pc.
//
// Decoding restarts at pc so the current instruction is always aligned, even
// when the bytes before it decode to a different instruction stream.
func CreateDisassemblyWithBuffer(snapshot *MemorySnapshot, pc uint16, maxLines int, buf *DisasmBuffer) []DisasmLine {
	if snapshot == nil || maxLines <= 0 {
		return nil
	}

	buf.AllLines = buf.AllLines[:0]
	buf.Lines = buf.Lines[:0]

	end := int(snapshot.StartAddr) + len(snapshot.Bytes)
	if int(pc) < int(snapshot.StartAddr) || int(pc) >= end {
		for i := 0; i < len(snapshot.Bytes) && len(buf.Lines) < maxLines-1; {
			text, length := disasm.DisassembleBytesAt(snapshot.Bytes, i, snapshot.StartAddr)
			buf.Lines = append(buf.Lines, DisasmLine{Address: snapshot.StartAddr + uint16(i), Instruction: text})
			i += length
		}
		buf.Lines = append(buf.Lines, DisasmLine{
			Address:     pc,
			Instruction: "[PC outside snapshot range]",
			IsCurrent:   true,
		})
		return buf.Lines
	}

	pcOffset := int(pc - snapshot.StartAddr)

	// lines before pc: decode from the snapshot start, keeping only those
	// that end exactly at or before pc
	for i := 0; i < pcOffset; {
		text, length := disasm.DisassembleBytesAt(snapshot.Bytes, i, snapshot.StartAddr)
		if i+length > pcOffset {
			break
		}
		buf.AllLines = append(buf.AllLines, DisasmLine{Address: snapshot.StartAddr + uint16(i), Instruction: text})
		i += length
	}
	pcIndex := len(buf.AllLines)

	for i := pcOffset; i < len(snapshot.Bytes) && len(buf.AllLines) < pcIndex+maxLines; {
		text, length := disasm.DisassembleBytesAt(snapshot.Bytes, i, snapshot.StartAddr)
		addr := snapshot.StartAddr + uint16(i)
		buf.AllLines = append(buf.AllLines, DisasmLine{Address: addr, Instruction: text, IsCurrent: addr == pc})
		i += length
	}

	halfHeight := maxLines / 2
	startIdx := pcIndex - halfHeight
	if startIdx < 0 {
		startIdx = 0
	}
	endIdx := startIdx + maxLines
	if endIdx > len(buf.AllLines) {
		endIdx = len(buf.AllLines)
		startIdx = endIdx - maxLines
		if startIdx < 0 {
			startIdx = 0
		}
	}

	buf.Lines = append(buf.Lines, buf.AllLines[startIdx:endIdx]...)
	return buf.Lines
}
