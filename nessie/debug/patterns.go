package debug

import (
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/valerio/go-nessie/nessie/display"
	"github.com/valerio/go-nessie/nessie/video"
)

// Pattern table layout: two 16x16 grids of 8x8 tiles, side by side.
const (
	PatternTables      = 2
	PatternTableTiles  = 256
	PatternTilesPerRow = 16
	PatternImageWidth  = PatternTables * PatternTilesPerRow * 8
	PatternImageHeight = PatternTilesPerRow * 8
)

// PatternSource gives access to the decoded pattern memory.
type PatternSource interface {
	PatternTile(index int) *video.Tile
}

// RenderPatternTables draws both pattern tables, $0000 on the left, using
// colours for the four pixel values.
func RenderPatternTables(src PatternSource, colors [4]uint32) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, PatternImageWidth, PatternImageHeight))

	for i := 0; i < PatternTables*PatternTableTiles; i++ {
		tile := src.PatternTile(i)
		table, n := i/PatternTableTiles, i%PatternTableTiles
		originX := table*PatternTilesPerRow*8 + (n%PatternTilesPerRow)*8
		originY := (n / PatternTilesPerRow) * 8

		for y := 0; y < 8; y++ {
			for x := 0; x < 8; x++ {
				r, g, b, a := display.Unpack(colors[tile.Pixel(x, y)])
				off := img.PixOffset(originX+x, originY+y)
				img.Pix[off] = r
				img.Pix[off+1] = g
				img.Pix[off+2] = b
				img.Pix[off+3] = a
			}
		}
	}
	return img
}

// SavePatternTablesPNG renders the pattern tables to a timestamped PNG in
// directory, the working directory when empty, and returns its path.
func SavePatternTablesPNG(src PatternSource, colors [4]uint32, directory string) (string, error) {
	if directory == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get current directory: %w", err)
		}
		directory = cwd
	}

	path := filepath.Join(directory, fmt.Sprintf("nessie_patterns_%s.png", time.Now().Format("20060102_150405")))
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create file %s: %w", path, err)
	}
	defer file.Close()

	if err := png.Encode(file, RenderPatternTables(src, colors)); err != nil {
		return "", fmt.Errorf("failed to encode PNG: %w", err)
	}

	slog.Info("Pattern tables saved", "path", path)
	return path, nil
}
