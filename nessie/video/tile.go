package video

// Tile is an 8x8 pattern decoded into per-pixel palette indices.
//
// NES patterns use 16 bytes in two bit planes: bytes 0-7 hold bit 0 of each
// row and bytes 8-15 hold bit 1. Bit 7 is the leftmost pixel:
//
//	Plane 0 (0x3C): 0 0 1 1 1 1 0 0
//	Plane 1 (0x7E): 0 1 1 1 1 1 1 0
//	               -----------------
//	Index:          0 2 3 3 3 3 2 0
//
// Index 0 is transparent for both sprites and background, the other three
// select a colour inside the 4-entry sub-palette picked by the attribute.
//
// Reference: https://www.nesdev.org/wiki/PPU_pattern_tables
type Tile struct {
	pix    [64]uint8
	opaque [8]bool
}

// SetRow decodes one row from the two bit planes.
func (t *Tile) SetRow(row int, low, high uint8) {
	base := row << 3
	opaque := true
	for x := 0; x < 8; x++ {
		shift := uint(7 - x)
		p := (low>>shift)&1 | ((high>>shift)&1)<<1
		t.pix[base+x] = p
		if p == 0 {
			opaque = false
		}
	}
	t.opaque[row] = opaque
}

// Decode fills the tile from a 16 byte pattern.
func (t *Tile) Decode(pattern []byte) {
	for row := 0; row < 8; row++ {
		t.SetRow(row, pattern[row], pattern[row+8])
	}
}

// Pixel returns the palette index of the pixel at (x, y).
func (t *Tile) Pixel(x, y int) uint8 {
	return t.pix[y<<3+x]
}

// Transparent reports whether the pixel at (x, y) is transparent.
func (t *Tile) Transparent(x, y int) bool {
	return t.pix[y<<3+x] == 0
}

// OpaqueRow reports whether every pixel of a row is opaque.
func (t *Tile) OpaqueRow(row int) bool {
	return t.opaque[row]
}

// DecodeTiles decodes a block of pattern memory, 16 bytes per tile.
func DecodeTiles(data []byte) []Tile {
	tiles := make([]Tile, len(data)/16)
	for i := range tiles {
		tiles[i].Decode(data[i*16 : i*16+16])
	}
	return tiles
}

// render draws the rows [srcY1, srcY2) of the tile at (dx, dy) into buffer as
// a sprite with OAM index pri. A pixel is only drawn when no sprite with a
// lower index got there first.
func (t *Tile) render(buffer []uint32, srcY1, srcY2, dx, dy int, palAdd uint8, palette *[16]uint32,
	flipH, flipV bool, pri int, priority *PriorityBuffer) {
	if dx < -7 || dx >= ScreenWidth || dy < -7 || dy >= ScreenHeight {
		return
	}

	srcX1, srcX2 := 0, 8
	if dx < 0 {
		srcX1 -= dx
	}
	if dx+srcX2 >= ScreenWidth {
		srcX2 = ScreenWidth - dx
	}
	if dy < 0 {
		srcY1 -= dy
	}
	if dy+srcY2 >= ScreenHeight {
		srcY2 = ScreenHeight - dy
	}

	for y := 0; y < 8; y++ {
		if y < srcY1 || y >= srcY2 {
			continue
		}
		ty := y
		if flipV {
			ty = 7 - y
		}
		fbIndex := (dy+y)<<8 + dx
		for x := srcX1; x < srcX2; x++ {
			tx := x
			if flipH {
				tx = 7 - x
			}
			index := t.pix[ty<<3+tx]
			if index != 0 && priority.claim(fbIndex+x, pri) {
				buffer[fbIndex+x] = palette[index+palAdd]
			}
		}
	}
}
