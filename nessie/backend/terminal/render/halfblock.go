package render

import (
	"github.com/gdamore/tcell/v2"
	"github.com/valerio/go-nessie/nessie/display"
)

const (
	UpperHalf = '▀'
	FullBlock = '█'
)

// Color converts an ARGB pixel to a true color tcell value.
func Color(pixel uint32) tcell.Color {
	r, g, b, _ := display.Unpack(pixel)
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

// HalfBlock packs two vertically stacked pixels into one cell: the top pixel
// is the foreground of an upper half block, the bottom one the background.
func HalfBlock(top, bottom uint32) (rune, tcell.Style) {
	if top == bottom {
		return FullBlock, tcell.StyleDefault.Foreground(Color(top)).Background(Color(top))
	}
	return UpperHalf, tcell.StyleDefault.Foreground(Color(top)).Background(Color(bottom))
}

// Scale picks the smallest integer downscale factor that fits a w x h frame
// into cols x rows cells, two pixel rows per cell. Zero means it does not fit
// even at maxScale.
func Scale(w, h, cols, rows, maxScale int) int {
	for s := 1; s <= maxScale; s++ {
		if w/s <= cols && (h/s+1)/2 <= rows {
			return s
		}
	}
	return 0
}
