package video

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/valerio/go-nessie/nessie/addr"
)

const (
	transparentTile uint8 = 0
	solidTile       uint8 = 1
)

type scene struct {
	ctrl       uint8
	mask       uint8
	bgTile     uint8
	spriteTile uint8
	spriteAttr uint8
	spriteX    uint8
	spriteY    uint8
}

// newScene builds a PPU whose nametable is filled with one tile and whose
// sprite 0 is placed as requested. Tile 0 is transparent, tile 1 is solid
// colour 3.
func newScene(sc scene) (*PPU, *testBus) {
	p, bus := newTestPPU(Horizontal)
	p.ClipToTVSize = false

	patterns := make([]byte, 32)
	for i := 16; i < 32; i++ {
		patterns[i] = 0xFF
	}
	p.LoadPatterns(0x0000, patterns, DecodeTiles(patterns))

	names := make([]uint8, 960)
	for i := range names {
		names[i] = sc.bgTile
	}
	writeVRAM(p, 0x2000, names...)
	writeVRAM(p, 0x3F00, 0x0F, 0x01, 0x02, 0x16)
	writeVRAM(p, 0x3F13, 0x2A)

	p.WriteRegister(addr.OAMADDR, 0)
	for _, v := range []uint8{sc.spriteY, sc.spriteTile, sc.spriteAttr, sc.spriteX} {
		p.WriteRegister(addr.OAMDATA, v)
	}

	resetScroll(p)
	p.WriteRegister(addr.PPUCTRL, sc.ctrl)
	p.WriteRegister(addr.PPUMASK, sc.mask)
	return p, bus
}

func TestSprite0Hit(t *testing.T) {
	testCases := []struct {
		desc       string
		bgTile     uint8
		spriteTile uint8
		hit        bool
	}{
		{desc: "opaque sprite over opaque background", bgTile: solidTile, spriteTile: solidTile, hit: true},
		{desc: "transparent sprite over opaque background", bgTile: solidTile, spriteTile: transparentTile, hit: false},
		{desc: "opaque sprite over transparent background", bgTile: transparentTile, spriteTile: solidTile, hit: false},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			p, _ := newScene(scene{
				mask:       0x1E,
				bgTile:     tC.bgTile,
				spriteTile: tC.spriteTile,
				spriteX:    100,
				spriteY:    49,
			})

			p.StartFrame()
			hitScanline, hitDot := -1, -1
			for i := 0; i < 262*dotsPerScanline+nmiDelay; i++ {
				done := p.Tick()
				if hitScanline < 0 && p.status&statusSprite0Hit != 0 {
					hitScanline, hitDot = p.scanline, p.curX
				}
				if done {
					break
				}
			}

			if !tC.hit {
				assert.Equal(t, -1, hitScanline, "sprite 0 hit must stay clear for the whole frame")
				return
			}
			// sprite row 50 is produced by scanline 71, the flag is raised on
			// the dot of the first overlapping pixel
			assert.Equal(t, 71, hitScanline)
			assert.Equal(t, 101, hitDot)
			assert.Equal(t, 100, p.State().Sprite0HitX)
			assert.Equal(t, 50, p.State().Sprite0HitY)
		})
	}
}

func TestSprite0HitClearedOnNextFrame(t *testing.T) {
	p, _ := newScene(scene{mask: 0x1E, bgTile: solidTile, spriteTile: solidTile, spriteX: 100, spriteY: 49})
	runFrame(t, p)
	assert.NotZero(t, p.status&statusSprite0Hit)

	// move sprite 0 off screen
	p.WriteRegister(addr.OAMADDR, 0)
	p.WriteRegister(addr.OAMDATA, 0xF8)
	runFrame(t, p)

	assert.Zero(t, p.status&statusSprite0Hit)
	assert.NotZero(t, p.status&statusVBlank)
}

func TestFrameComposition(t *testing.T) {
	testCases := []struct {
		desc       string
		bgTile     uint8
		spriteAttr uint8
		atSprite   uint32
		elsewhere  uint32
	}{
		{
			desc:       "front sprite over background",
			bgTile:     solidTile,
			spriteAttr: 0x00,
			atSprite:   Color(0x2A),
			elsewhere:  Color(0x16),
		},
		{
			desc:       "sprite behind opaque background",
			bgTile:     solidTile,
			spriteAttr: 0x20,
			atSprite:   Color(0x16),
			elsewhere:  Color(0x16),
		},
		{
			desc:       "sprite behind transparent background",
			bgTile:     transparentTile,
			spriteAttr: 0x20,
			atSprite:   Color(0x2A),
			elsewhere:  Color(0x0F),
		},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			p, _ := newScene(scene{
				mask:       0x1E,
				bgTile:     tC.bgTile,
				spriteTile: solidTile,
				spriteAttr: tC.spriteAttr,
				spriteX:    100,
				spriteY:    49,
			})

			runFrame(t, p)

			frame := p.Frame()
			assert.Equal(t, tC.atSprite, frame.GetPixel(103, 52))
			assert.Equal(t, tC.elsewhere, frame.GetPixel(10, 120))
			// the sprite covers rows 50-57 only
			assert.Equal(t, tC.elsewhere, frame.GetPixel(103, 58))
		})
	}
}

func TestFrameClipping(t *testing.T) {
	testCases := []struct {
		desc      string
		mask      uint8
		clipToTV  bool
		blackened [][2]uint
		visible   [][2]uint
	}{
		{
			desc:      "no clipping",
			mask:      0x1E,
			visible:   [][2]uint{{3, 120}, {252, 120}, {128, 4}, {128, 236}},
			blackened: nil,
		},
		{
			desc:      "left column hidden by mask",
			mask:      0x18,
			visible:   [][2]uint{{8, 120}, {252, 120}, {128, 4}},
			blackened: [][2]uint{{0, 120}, {7, 120}},
		},
		{
			desc:      "tv size",
			mask:      0x1E,
			clipToTV:  true,
			visible:   [][2]uint{{8, 8}, {247, 231}},
			blackened: [][2]uint{{3, 120}, {252, 120}, {128, 4}, {128, 236}},
		},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			p, _ := newScene(scene{mask: tC.mask, bgTile: solidTile, spriteY: 0xF8})
			p.ClipToTVSize = tC.clipToTV

			runFrame(t, p)

			for _, xy := range tC.visible {
				assert.Equal(t, Color(0x16), p.Frame().GetPixel(xy[0], xy[1]), "(%d, %d)", xy[0], xy[1])
			}
			for _, xy := range tC.blackened {
				assert.Equal(t, Black, p.Frame().GetPixel(xy[0], xy[1]), "(%d, %d)", xy[0], xy[1])
			}
		})
	}
}

func TestPreviousFrameIsKept(t *testing.T) {
	p, _ := newScene(scene{mask: 0x1E, bgTile: solidTile, spriteY: 0xF8})
	runFrame(t, p)

	writeVRAM(p, 0x3F03, 0x21)
	resetScroll(p)
	p.WriteRegister(addr.PPUCTRL, 0)
	runFrame(t, p)

	assert.Equal(t, Color(0x16), p.PrevFrame().GetPixel(128, 120))
	assert.Equal(t, Color(0x21), p.Frame().GetPixel(128, 120))
}

func TestVBlankInterrupt(t *testing.T) {
	testCases := []struct {
		desc       string
		ctrl       uint8
		interrupts []addr.Interrupt
	}{
		{desc: "nmi enabled", ctrl: 0x80, interrupts: []addr.Interrupt{addr.NMI}},
		{desc: "nmi disabled", ctrl: 0x00, interrupts: nil},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			p, bus := newTestPPU(Horizontal)
			p.WriteRegister(addr.PPUCTRL, tC.ctrl)

			runFrame(t, p)

			assert.Equal(t, tC.interrupts, bus.interrupts)
			assert.NotZero(t, p.status&statusVBlank)
		})
	}
}

func TestMapperClockedOncePerRenderedLine(t *testing.T) {
	testCases := []struct {
		desc   string
		mask   uint8
		clocks int
	}{
		{desc: "rendering enabled", mask: 0x18, clocks: 241},
		{desc: "sprites only", mask: 0x10, clocks: 241},
		{desc: "rendering disabled", mask: 0x00, clocks: 0},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			p, bus := newTestPPU(Horizontal)
			p.WriteRegister(addr.PPUMASK, tC.mask)

			runFrame(t, p)

			assert.Equal(t, tC.clocks, bus.irqClocks)
		})
	}
}

func TestColorEmphasis(t *testing.T) {
	p, _ := newTestPPU(Horizontal)
	writeVRAM(p, 0x3F01, 0x30)

	p.WriteRegister(addr.PPUMASK, 0x20)

	bg, _ := p.Palette()
	assert.Equal(t, uint32(0xFFFCBDBD), bg[1])
}
