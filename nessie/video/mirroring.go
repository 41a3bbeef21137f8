package video

// Mirroring selects how the four logical nametables map onto physical ones.
type Mirroring uint8

const (
	// Horizontal: $2000=$2400, $2800=$2C00.
	Horizontal Mirroring = iota
	// Vertical: $2000=$2800, $2400=$2C00.
	Vertical
	// FourScreen uses four distinct nametables (extra cartridge RAM).
	FourScreen
	// SingleScreenA maps all four to the first nametable.
	SingleScreenA
	// SingleScreenB maps all four to the second nametable.
	SingleScreenB
)

func (m Mirroring) String() string {
	switch m {
	case Horizontal:
		return "horizontal"
	case Vertical:
		return "vertical"
	case FourScreen:
		return "four-screen"
	case SingleScreenA:
		return "single-screen A"
	case SingleScreenB:
		return "single-screen B"
	}
	return "unknown"
}

// SetMirroring rebuilds the VRAM mirroring lookup table. Nothing happens when
// the mode is already active.
func (p *PPU) SetMirroring(m Mirroring) {
	if p.mirroringSet && m == p.mirroring {
		return
	}
	p.mirroring = m
	p.mirroringSet = true
	p.triggerRendering()

	for i := range p.mirrorTable {
		p.mirrorTable[i] = uint16(i)
	}

	// the 32 palette bytes repeat up to 0x3FFF
	for a := uint16(0x3F20); a < 0x4000; a += 0x20 {
		p.defineMirrorRegion(a, 0x3F00, 0x20)
	}

	p.defineMirrorRegion(0x3000, 0x2000, 0xF00)
	p.defineMirrorRegion(0x4000, 0x0000, 0x4000)

	switch m {
	case Horizontal:
		p.ntable = [4]int{0, 0, 1, 1}
		p.defineMirrorRegion(0x2400, 0x2000, 0x400)
		p.defineMirrorRegion(0x2C00, 0x2800, 0x400)
	case Vertical:
		p.ntable = [4]int{0, 1, 0, 1}
		p.defineMirrorRegion(0x2800, 0x2000, 0x400)
		p.defineMirrorRegion(0x2C00, 0x2400, 0x400)
	case SingleScreenA:
		p.ntable = [4]int{0, 0, 0, 0}
		p.defineMirrorRegion(0x2400, 0x2000, 0x400)
		p.defineMirrorRegion(0x2800, 0x2000, 0x400)
		p.defineMirrorRegion(0x2C00, 0x2000, 0x400)
	case SingleScreenB:
		p.ntable = [4]int{1, 1, 1, 1}
		p.defineMirrorRegion(0x2000, 0x2400, 0x400)
		p.defineMirrorRegion(0x2800, 0x2400, 0x400)
		p.defineMirrorRegion(0x2C00, 0x2400, 0x400)
	default:
		p.ntable = [4]int{0, 1, 2, 3}
	}
}

// Mirroring returns the active mirroring mode.
func (p *PPU) Mirroring() Mirroring {
	return p.mirroring
}

// defineMirrorRegion maps size bytes starting at from onto the physical
// region starting at to. Regions are assumed not to overlap.
func (p *PPU) defineMirrorRegion(from, to uint16, size int) {
	for i := 0; i < size; i++ {
		p.mirrorTable[int(from)+i] = to + uint16(i)
	}
}
