package video

const (
	// ScreenWidth is the width of a frame in pixels.
	ScreenWidth = 256
	// ScreenHeight is the height of a frame in pixels.
	ScreenHeight = 240

	screenPixels = ScreenWidth * ScreenHeight
)

// Black is the colour of clipped borders.
const Black uint32 = 0xFF000000

// FrameBuffer is a finished 256x240 frame of 0xAARRGGBB pixels.
type FrameBuffer struct {
	width  uint
	height uint
	buffer []uint32
}

// NewFrameBuffer creates a frame buffer sized for the NES screen.
func NewFrameBuffer() *FrameBuffer {
	return &FrameBuffer{
		width:  ScreenWidth,
		height: ScreenHeight,
		buffer: make([]uint32, screenPixels),
	}
}

func (fb *FrameBuffer) Width() uint  { return fb.width }
func (fb *FrameBuffer) Height() uint { return fb.height }

func (fb *FrameBuffer) GetPixel(x, y uint) uint32 {
	return fb.buffer[y*fb.width+x]
}

func (fb *FrameBuffer) SetPixel(x, y uint, color uint32) {
	fb.buffer[y*fb.width+x] = color
}

// ToSlice exposes the pixels. Callers must treat the slice as read only.
func (fb *FrameBuffer) ToSlice() []uint32 {
	return fb.buffer
}

// CopyFrom overwrites the frame with the given pixels.
func (fb *FrameBuffer) CopyFrom(pixels []uint32) {
	copy(fb.buffer, pixels)
}
