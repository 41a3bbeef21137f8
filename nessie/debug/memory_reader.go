package debug

// MemoryReader provides read-only access to emulator memory for debug tools.
// Implementations must not trigger register side effects.
type MemoryReader interface {
	Read(addr uint16) uint8
}

// SnapshotMemory copies size bytes starting at start. The window is
// truncated at the end of the address space instead of wrapping.
func SnapshotMemory(reader MemoryReader, start uint16, size int) *MemorySnapshot {
	if size <= 0 {
		return &MemorySnapshot{StartAddr: start}
	}
	if int(start)+size > 0x10000 {
		size = 0x10000 - int(start)
	}

	snapshot := &MemorySnapshot{
		StartAddr: start,
		Bytes:     make([]uint8, size),
	}
	for i := range snapshot.Bytes {
		snapshot.Bytes[i] = reader.Read(start + uint16(i))
	}
	return snapshot
}

// SnapshotAround captures a window of size bytes positioned so pc sits
// roughly a third of the way in, leaving room for the instructions before it.
func SnapshotAround(reader MemoryReader, pc uint16, size int) *MemorySnapshot {
	before := uint16(size / 3)
	start := uint16(0)
	if pc > before {
		start = pc - before
	}
	return SnapshotMemory(reader, start, size)
}
