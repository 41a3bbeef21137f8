package integration

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valerio/go-nessie/nessie"
	"github.com/valerio/go-nessie/nessie/backend"
	"github.com/valerio/go-nessie/nessie/backend/headless"
	"github.com/valerio/go-nessie/nessie/cartridge"
	"github.com/valerio/go-nessie/nessie/debug"
	"github.com/valerio/go-nessie/nessie/input"
	"github.com/valerio/go-nessie/nessie/video"
)

const (
	tileX = 10
	tileY = 10

	backdrop    = 0x0F
	bgColor     = 0x30
	spriteColor = 0x16
)

// sceneProgram waits two vblanks, sets up the palettes, one background tile
// at (tileX, tileY) and sprite 0 on top of it, writes mask to $2001 and
// spins.
func sceneProgram(mask byte) []byte {
	code := []byte{
		0x78,             // SEI
		0xD8,             // CLD
		0xA2, 0xFF,       // LDX #$FF
		0x9A,             // TXS
		0xA9, 0x00,       // LDA #$00
		0x8D, 0x00, 0x20, // STA $2000
		0x8D, 0x01, 0x20, // STA $2001
		0x2C, 0x02, 0x20, // BIT $2002
		0x10, 0xFB, // BPL -5
		0x2C, 0x02, 0x20, // BIT $2002
		0x10, 0xFB, // BPL -5
	}

	setAddress := func(address uint16) {
		code = append(code,
			0xA9, byte(address>>8), 0x8D, 0x06, 0x20,
			0xA9, byte(address), 0x8D, 0x06, 0x20)
	}
	store := func(register uint16, values ...byte) {
		for _, v := range values {
			code = append(code, 0xA9, v, 0x8D, byte(register), byte(register>>8))
		}
	}

	setAddress(0x3F00)
	store(0x2007, backdrop, bgColor)
	setAddress(0x3F11)
	store(0x2007, spriteColor)
	setAddress(0x2000 + tileY*32 + tileX)
	store(0x2007, 0x01)

	// sprite 0: Y is one row above the first line drawn
	store(0x2003, 0x00)
	store(0x2004, tileY*8-1, 0x01, 0x00, tileX*8)

	store(0x2005, 0x00, 0x00)
	store(0x2000, 0x00)
	store(0x2001, mask)

	loop := 0x8000 + len(code)
	return append(code, 0x4C, byte(loop), byte(loop>>8))
}

func sceneROM(mask byte) []byte {
	prg := make([]byte, cartridge.PRGBankSize)
	copy(prg, sceneProgram(mask))
	binary.LittleEndian.PutUint16(prg[0x3FFA:], 0x8000)
	binary.LittleEndian.PutUint16(prg[0x3FFC:], 0x8000)
	binary.LittleEndian.PutUint16(prg[0x3FFE:], 0x8000)

	// tile 1 is solid colour 1
	chr := make([]byte, 2*cartridge.CHRBankSize)
	for i := 16; i < 24; i++ {
		chr[i] = 0xFF
	}
	return cartridge.Build(cartridge.Image{PRG: prg, CHR: chr})
}

func runScene(t *testing.T, mask byte, frames int) *nessie.Console {
	t.Helper()
	c := nessie.New(nessie.DefaultOptions())
	require.NoError(t, c.LoadROM(sceneROM(mask)))
	for i := 0; i < frames; i++ {
		require.NoError(t, c.RunFrame())
	}
	return c
}

func TestBackgroundTile(t *testing.T) {
	c := runScene(t, 0x0A, 5)
	frame := c.GetCurrentFrame()

	testCases := []struct {
		desc string
		x, y uint
		want uint8
	}{
		{desc: "tile top left", x: tileX * 8, y: tileY * 8, want: bgColor},
		{desc: "tile centre", x: tileX*8 + 4, y: tileY*8 + 4, want: bgColor},
		{desc: "tile bottom right", x: tileX*8 + 7, y: tileY*8 + 7, want: bgColor},
		{desc: "right of tile", x: tileX*8 + 8, y: tileY * 8, want: backdrop},
		{desc: "below tile", x: tileX * 8, y: tileY*8 + 8, want: backdrop},
		{desc: "elsewhere", x: 200, y: 150, want: backdrop},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			assert.Equal(t, video.Color(tC.want), frame.GetPixel(tC.x, tC.y))
		})
	}

	state := c.ExtractDebugData().PPU
	assert.Zero(t, state.Status&0x40, "sprite 0 hit without sprites")
}

func TestSpriteZeroHit(t *testing.T) {
	c := runScene(t, 0x1E, 5)
	frame := c.GetCurrentFrame()

	assert.Equal(t, video.Color(spriteColor), frame.GetPixel(tileX*8+4, tileY*8+4))
	assert.Equal(t, video.Color(backdrop), frame.GetPixel(200, 150))

	state := c.ExtractDebugData().PPU
	assert.NotZero(t, state.Status&0x40)
	assert.Equal(t, tileX*8, state.Sprite0HitX)
	assert.Equal(t, tileY*8, state.Sprite0HitY)
}

func TestClipToTVSize(t *testing.T) {
	c := runScene(t, 0x0A, 5)
	frame := c.GetCurrentFrame()

	for _, p := range [][2]uint{{0, 0}, {255, 100}, {100, 0}, {100, 239}} {
		assert.Equal(t, video.Black, frame.GetPixel(p[0], p[1]), "pixel %v", p)
	}
}

// TestHeadlessRun drives the scene through the same loop the command line
// uses and checks the snapshots it leaves behind.
func TestHeadlessRun(t *testing.T) {
	c := nessie.New(nessie.DefaultOptions())
	require.NoError(t, c.LoadROM(sceneROM(0x1E)))

	dir := t.TempDir()
	h := headless.New(10, headless.SnapshotConfig{Enabled: true, Interval: 5, Directory: dir, ROMName: "scene"})
	require.NoError(t, h.Init(backend.BackendConfig{Title: "scene"}))

	m := input.NewManager(c.Pads())
	require.NoError(t, backend.Run(c, h, m, nil))
	require.NoError(t, h.Cleanup())

	assert.EqualValues(t, 10, c.Frames())
	assert.Equal(t, headless.FrameDigest(c.GetCurrentFrame()), h.FrameDigest())
	assert.NotEmpty(t, h.Snapshots())
	for _, path := range h.Snapshots() {
		assert.FileExists(t, path)
		assert.Equal(t, dir, filepath.Dir(path))
	}
}

// golden frames of real ROMs, only checked when the ROM is present
var goldenROMs = []struct {
	name   string
	path   string
	frames int
}{
	{name: "nestest", path: "../../test-roms/nestest.nes", frames: 60},
	{name: "palette", path: "../../test-roms/palette.nes", frames: 30},
}

func TestGoldenFrames(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping golden frames in short mode")
	}

	for _, rom := range goldenROMs {
		t.Run(rom.name, func(t *testing.T) {
			if _, err := os.Stat(rom.path); os.IsNotExist(err) {
				t.Skipf("Test ROM not found: %s", rom.path)
			}

			c, err := nessie.NewWithFile(rom.path, nessie.DefaultOptions())
			require.NoError(t, err)
			for i := 0; i < rom.frames; i++ {
				require.NoError(t, c.RunFrame())
			}

			frame := c.GetCurrentFrame()
			hash := headless.FrameDigest(frame)
			hashPath := filepath.Join("testdata", rom.name+".md5")

			if os.Getenv("NESSIE_GENERATE_GOLDEN") == "true" {
				require.NoError(t, os.MkdirAll(filepath.Join("testdata", "snapshots"), 0o755))
				require.NoError(t, os.WriteFile(hashPath, []byte(hash), 0o644))
				require.NoError(t, debug.SaveFramePNG(frame, filepath.Join("testdata", "snapshots", rom.name+".png")))
				t.Logf("Reference generated - hash: %s", hash)
				return
			}

			expected, err := os.ReadFile(hashPath)
			if os.IsNotExist(err) {
				t.Skipf("No reference for %s, run with NESSIE_GENERATE_GOLDEN=true first", rom.name)
			}
			require.NoError(t, err)

			if hash != string(expected) {
				actual := filepath.Join("testdata", "snapshots", rom.name+"_actual.png")
				_ = debug.SaveFramePNG(frame, actual)
				t.Errorf("Frame differs from reference\n  Expected hash: %s\n  Actual hash:   %s\n  Saved: %s", expected, hash, actual)
			}
		})
	}
}
