package video

// systemPalette is the 2C02 master palette as 0xRRGGBB.
// Reference: http://www.thealmightyguru.com/Games/Hacking/Wiki/index.php/NES_Palette
var systemPalette = [64]uint32{
	0x7C7C7C, 0x0000FC, 0x0000BC, 0x4428BC, 0x940084, 0xA80020, 0xA81000, 0x881400,
	0x503000, 0x007800, 0x006800, 0x005800, 0x004058, 0x000000, 0x000000, 0x000000,
	0xBCBCBC, 0x0078F8, 0x0058F8, 0x6844FC, 0xD800CC, 0xE40058, 0xF83800, 0xE45C10,
	0xAC7C00, 0x00B800, 0x00A800, 0x00A844, 0x008888, 0x000000, 0x000000, 0x000000,
	0xF8F8F8, 0x3CBCFC, 0x6888FC, 0x9878F8, 0xF878F8, 0xF85898, 0xF87858, 0xFCA044,
	0xF8B800, 0xB8F818, 0x58D854, 0x58F898, 0x00E8D8, 0x787878, 0x000000, 0x000000,
	0xFCFCFC, 0xA4E4FC, 0xB8B8F8, 0xD8B8F8, 0xF8B8F8, 0xF8A4C0, 0xF0D0B0, 0xFCE0A8,
	0xF8D878, 0xD8F878, 0xB8F8B8, 0xB8F8D8, 0x00FCFC, 0xF8D8F8, 0x000000, 0x000000,
}

// emphasisTables holds the master palette for the 8 combinations of the
// colour emphasis bits in PPUMASK (bit 0 red, bit 1 green, bit 2 blue).
// Emphasising a component dims the other two.
var emphasisTables [8][64]uint32

func init() {
	for emph := 0; emph < 8; emph++ {
		r, g, b := 1.0, 1.0, 1.0
		if emph&1 != 0 {
			g, b = 0.75, 0.75
		}
		if emph&2 != 0 {
			r, b = 0.75, 0.75
		}
		if emph&4 != 0 {
			r, g = 0.75, 0.75
		}
		for i, c := range systemPalette {
			cr := uint32(float64((c>>16)&0xFF) * r)
			cg := uint32(float64((c>>8)&0xFF) * g)
			cb := uint32(float64(c&0xFF) * b)
			emphasisTables[emph][i] = 0xFF000000 | cr<<16 | cg<<8 | cb
		}
	}
}

// Color converts a 6-bit palette value to an ARGB colour, without emphasis.
func Color(index uint8) uint32 {
	return emphasisTables[0][index&0x3F]
}

// monochromeColor returns the backdrop used in monochrome mode for the
// colour bits of PPUMASK.
func monochromeColor(colorBits uint8) uint32 {
	switch colorBits {
	case 1:
		return 0xFF00FF00
	case 2:
		return 0xFF0000FF
	case 4:
		return 0xFFFF0000
	}
	return 0xFF000000
}
