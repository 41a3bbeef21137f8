package display

import "github.com/valerio/go-nessie/nessie/video"

// Pixel format constants. Frames hold 0xAARRGGBB words.
const (
	// RGBABytesPerPixel is the number of bytes per pixel in RGBA format
	RGBABytesPerPixel = 4
	ARGBAShift        = 24
	ARGBRShift        = 16
	ARGBGShift        = 8
	ARGBBShift        = 0
	ColorMask         = 0xFF
)

// Backend scaling and window constants
const (
	// DefaultPixelScale is the default scaling factor for NES pixels
	DefaultPixelScale   = 3
	DefaultWindowWidth  = video.ScreenWidth * DefaultPixelScale
	DefaultWindowHeight = video.ScreenHeight * DefaultPixelScale
)

// Unpack splits a frame pixel into its components.
func Unpack(c uint32) (r, g, b, a uint8) {
	return uint8(c >> ARGBRShift & ColorMask),
		uint8(c >> ARGBGShift & ColorMask),
		uint8(c >> ARGBBShift & ColorMask),
		uint8(c >> ARGBAShift & ColorMask)
}

// ToRGBA converts a frame into tightly packed RGBA bytes, reusing dst when
// it is large enough.
func ToRGBA(frame *video.FrameBuffer, dst []byte) []byte {
	pixels := frame.ToSlice()
	need := len(pixels) * RGBABytesPerPixel
	if cap(dst) < need {
		dst = make([]byte, need)
	}
	dst = dst[:need]

	for i, c := range pixels {
		idx := i * RGBABytesPerPixel
		dst[idx], dst[idx+1], dst[idx+2], dst[idx+3] = Unpack(c)
	}
	return dst
}
