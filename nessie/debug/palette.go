package debug

// PaletteData holds the resolved colours currently loaded in palette RAM.
type PaletteData struct {
	Background [16]uint32
	Sprites    [16]uint32
}

// PaletteSource is the PPU view needed to extract palettes.
type PaletteSource interface {
	Palette() (background, sprites [16]uint32)
}

func ExtractPaletteData(src PaletteSource) *PaletteData {
	bg, spr := src.Palette()
	return &PaletteData{Background: bg, Sprites: spr}
}
