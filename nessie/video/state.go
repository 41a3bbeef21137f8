package video

// State is a snapshot of the PPU registers for debug views.
type State struct {
	Ctrl        uint8
	Mask        uint8
	Status      uint8
	OAMAddress  uint8
	VRAMAddress uint16
	FineX       int
	Scanline    int
	Dot         int
	Mirroring   Mirroring
	Sprite0HitX int
	Sprite0HitY int
}

// State returns the current register snapshot.
func (p *PPU) State() State {
	return State{
		Ctrl:        p.ctrl,
		Mask:        p.mask,
		Status:      p.status,
		OAMAddress:  p.oamAddress,
		VRAMAddress: p.cnt.address(),
		FineX:       p.fineX,
		Scanline:    p.scanline,
		Dot:         p.curX,
		Mirroring:   p.mirroring,
		Sprite0HitX: p.spr0HitX,
		Sprite0HitY: p.spr0HitY,
	}
}

// OAM returns a copy of sprite memory.
func (p *PPU) OAM() [256]uint8 {
	return p.oam
}

// PeekVRAM reads VRAM through the mirroring table without side effects.
func (p *PPU) PeekVRAM(address uint16) uint8 {
	return p.mirroredLoad(address)
}

// Palette returns the resolved background and sprite palettes.
func (p *PPU) Palette() (background, sprites [16]uint32) {
	return p.imgPalette, p.sprPalette
}

// PatternTile returns decoded tile index of pattern memory, 0-255 from the
// table at $0000 and 256-511 from $1000.
func (p *PPU) PatternTile(index int) *Tile {
	return &p.tiles[index&0x1FF]
}
