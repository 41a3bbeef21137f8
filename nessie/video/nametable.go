package video

const (
	nameTableWidth  = 32
	nameTableHeight = 32
)

// NameTable caches one 1KB nametable: tile indices plus the attribute bits
// already expanded to one value per tile.
type NameTable struct {
	tile   [nameTableWidth * nameTableHeight]uint8
	attrib [nameTableWidth * nameTableHeight]uint8
}

// TileIndex returns the pattern index of the tile at (x, y).
func (n *NameTable) TileIndex(x, y int) uint8 {
	return n.tile[y*nameTableWidth+x]
}

// Attrib returns the palette offset (0, 4, 8 or 12) of the tile at (x, y).
func (n *NameTable) Attrib(x, y int) uint8 {
	return n.attrib[y*nameTableWidth+x]
}

// WriteAttrib expands an attribute byte into the 4x4 tiles it covers. Each
// pair of bits picks the palette of a 2x2 quadrant.
func (n *NameTable) WriteAttrib(index int, value uint8) {
	baseX := (index % 8) * 4
	baseY := (index / 8) * 4

	for sqy := 0; sqy < 2; sqy++ {
		for sqx := 0; sqx < 2; sqx++ {
			add := (value >> (2 * (sqy*2 + sqx))) & 3
			for y := 0; y < 2; y++ {
				for x := 0; x < 2; x++ {
					tx := baseX + sqx*2 + x
					ty := baseY + sqy*2 + y
					if ty >= nameTableHeight {
						continue
					}
					n.attrib[ty*nameTableWidth+tx] = (add << 2) & 12
				}
			}
		}
	}
}
