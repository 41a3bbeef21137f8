package video

const (
	// noSprite marks a pixel no sprite has drawn yet. It is higher than any
	// OAM index so every sprite wins against it.
	noSprite = 65
	// backgroundDrawn is set once an opaque background pixel was rendered.
	backgroundDrawn = 0x100
)

// PriorityBuffer keeps per-pixel ownership for one frame.
//
// Each entry packs two things:
//
//	bits 0-7: OAM index of the sprite that drew the pixel (noSprite if none)
//	bit 8:    an opaque background pixel was rendered here
//
// Sprites are drawn in two passes (behind-background first, then in front),
// and within a pass in OAM order. A sprite may only draw where its index is
// lower than or equal to the one already stored, so lower OAM indices win no
// matter in which order sprites are drawn:
//
//	Pixels:     0  1  2  3  4  5  6  7  8  9
//	Sprite 3:         [--------C--------]
//	Sprite 1:                  [--------A--------]
//	Result:           [--C--][------A-----------]
//
// The background bit is used to combine the background plane with the
// sprites, and by sprite 0 hit detection.
type PriorityBuffer struct {
	pixels [screenPixels]int
}

// Clear resets every pixel for a new frame.
func (b *PriorityBuffer) Clear() {
	for i := range b.pixels {
		b.pixels[i] = noSprite
	}
}

// claim tries to draw sprite pri at index. Returns true if the sprite wins.
func (b *PriorityBuffer) claim(index, pri int) bool {
	if index < 0 || index >= screenPixels {
		return false
	}
	current := b.pixels[index]
	if pri > current&0xFF {
		return false
	}
	b.pixels[index] = current&0xF00 | pri
	return true
}

func (b *PriorityBuffer) markBackground(index int) {
	b.pixels[index] |= backgroundDrawn
}

// Background reports whether an opaque background pixel was drawn at index.
func (b *PriorityBuffer) Background(index int) bool {
	if index < 0 || index >= screenPixels {
		return false
	}
	return b.pixels[index]&backgroundDrawn != 0
}

// Owner returns the OAM index of the sprite owning a pixel, or -1.
func (b *PriorityBuffer) Owner(index int) int {
	if index < 0 || index >= screenPixels {
		return -1
	}
	owner := b.pixels[index] & 0xFF
	if owner == noSprite {
		return -1
	}
	return owner
}
