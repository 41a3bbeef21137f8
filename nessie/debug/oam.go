package debug

import "fmt"

const (
	OAMSpriteCount    = 64
	OAMBytesPerSprite = 4
	MaxSpritesPerLine = 8
)

// Sprite attribute bit positions
const (
	AttrFlipV    = 7
	AttrFlipH    = 6
	AttrPriority = 5
)

type SpriteInfo struct {
	Index      int
	Y          int
	X          int
	TileIndex  uint8
	Attributes uint8
	IsVisible  bool
}

type SpriteAttributes struct {
	FlipV        bool
	FlipH        bool
	BehindBG     bool
	PaletteIndex int
}

type OAMData struct {
	Sprites       []SpriteInfo
	CurrentLine   int
	ActiveSprites int
	SpriteHeight  int
}

// ExtractOAMData decodes sprite memory. A sprite is visible when it covers
// currentLine; OAM Y holds the row above the sprite's first line.
func ExtractOAMData(oam [256]uint8, currentLine int, spriteHeight int) *OAMData {
	data := &OAMData{
		Sprites:      make([]SpriteInfo, OAMSpriteCount),
		CurrentLine:  currentLine,
		SpriteHeight: spriteHeight,
	}

	for i := 0; i < OAMSpriteCount; i++ {
		base := i * OAMBytesPerSprite
		y := int(oam[base]) + 1

		info := SpriteInfo{
			Index:      i,
			Y:          y,
			TileIndex:  oam[base+1],
			Attributes: oam[base+2],
			X:          int(oam[base+3]),
			IsVisible:  y <= currentLine && y+spriteHeight > currentLine,
		}
		if info.IsVisible {
			data.ActiveSprites++
		}
		data.Sprites[i] = info
	}

	return data
}

func (s *SpriteInfo) DecodeAttributes() SpriteAttributes {
	return SpriteAttributes{
		FlipV:        s.Attributes&(1<<AttrFlipV) != 0,
		FlipH:        s.Attributes&(1<<AttrFlipH) != 0,
		BehindBG:     s.Attributes&(1<<AttrPriority) != 0,
		PaletteIndex: int(s.Attributes & 0x03),
	}
}

func (s *SpriteInfo) String() string {
	status := "OFF"
	if s.IsVisible {
		status = "ACTIVE"
	}
	return fmt.Sprintf("Sprite %2d: Y=%3d X=%3d  Tile=0x%02X Flags=0x%02X [%s]",
		s.Index, s.Y, s.X, s.TileIndex, s.Attributes, status)
}

func (data *OAMData) GetVisibleSprites() []SpriteInfo {
	visible := make([]SpriteInfo, 0, data.ActiveSprites)
	for _, sprite := range data.Sprites {
		if sprite.IsVisible {
			visible = append(visible, sprite)
		}
	}
	return visible
}

func (data *OAMData) FormatSummary() string {
	return fmt.Sprintf("Current Line: %d | Active Sprites: %d/%d | Height: %dpx",
		data.CurrentLine, data.ActiveSprites, MaxSpritesPerLine, data.SpriteHeight)
}
