package video

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTileDecode(t *testing.T) {
	pattern := []byte{
		0x3C, 0xFF, 0x00, 0x80, 0, 0, 0, 0,
		0x7E, 0xFF, 0x00, 0x01, 0, 0, 0, 0,
	}
	var tile Tile
	tile.Decode(pattern)

	testCases := []struct {
		desc   string
		row    int
		pixels []uint8
		opaque bool
	}{
		{desc: "mixed planes", row: 0, pixels: []uint8{0, 2, 3, 3, 3, 3, 2, 0}, opaque: false},
		{desc: "both planes set", row: 1, pixels: []uint8{3, 3, 3, 3, 3, 3, 3, 3}, opaque: true},
		{desc: "empty row", row: 2, pixels: []uint8{0, 0, 0, 0, 0, 0, 0, 0}, opaque: false},
		{desc: "edges", row: 3, pixels: []uint8{1, 0, 0, 0, 0, 0, 0, 2}, opaque: false},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			for x, want := range tC.pixels {
				assert.Equal(t, want, tile.Pixel(x, tC.row), "x=%d", x)
				assert.Equal(t, want == 0, tile.Transparent(x, tC.row))
			}
			assert.Equal(t, tC.opaque, tile.OpaqueRow(tC.row))
		})
	}
}

func TestDecodeTiles(t *testing.T) {
	data := make([]byte, 48)
	data[16] = 0x80 // tile 1, row 0, leftmost pixel
	data[32+15] = 0x01

	tiles := DecodeTiles(data)

	assert.Len(t, tiles, 3)
	assert.Equal(t, uint8(1), tiles[1].Pixel(0, 0))
	assert.Equal(t, uint8(2), tiles[2].Pixel(7, 7))
	assert.Equal(t, uint8(0), tiles[0].Pixel(0, 0))
}

func TestTileRenderFlipAndPriority(t *testing.T) {
	var tile Tile
	// only the top-left pixel is opaque
	tile.SetRow(0, 0x80, 0x00)

	var palette [16]uint32
	palette[5] = 0xFF112233

	testCases := []struct {
		desc         string
		flipH, flipV bool
		x, y         int
	}{
		{desc: "no flip", x: 10, y: 20},
		{desc: "horizontal flip", flipH: true, x: 17, y: 20},
		{desc: "vertical flip", flipV: true, x: 10, y: 27},
		{desc: "both", flipH: true, flipV: true, x: 17, y: 27},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			buffer := make([]uint32, screenPixels)
			var priority PriorityBuffer
			priority.Clear()

			tile.render(buffer, 0, 8, 10, 20, 4, &palette, tC.flipH, tC.flipV, 3, &priority)

			assert.Equal(t, uint32(0xFF112233), buffer[tC.y*ScreenWidth+tC.x])
			assert.Equal(t, 3, priority.Owner(tC.y*ScreenWidth+tC.x))
		})
	}
}

func TestTileRenderClipsRows(t *testing.T) {
	var tile Tile
	for row := 0; row < 8; row++ {
		tile.SetRow(row, 0xFF, 0x00)
	}
	var palette [16]uint32
	palette[1] = 0xFFFFFFFF

	buffer := make([]uint32, screenPixels)
	var priority PriorityBuffer
	priority.Clear()

	// draw rows 2 and 3 only
	tile.render(buffer, 2, 4, 0, 0, 0, &palette, false, false, 0, &priority)

	assert.Equal(t, uint32(0), buffer[1*ScreenWidth])
	assert.Equal(t, uint32(0xFFFFFFFF), buffer[2*ScreenWidth])
	assert.Equal(t, uint32(0xFFFFFFFF), buffer[3*ScreenWidth+7])
	assert.Equal(t, uint32(0), buffer[4*ScreenWidth])
}
