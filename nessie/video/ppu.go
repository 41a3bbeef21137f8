package video

import (
	"fmt"
	"log/slog"

	"github.com/valerio/go-nessie/nessie/addr"
)

// Bus is what the PPU needs from the rest of the console.
type Bus interface {
	RequestInterrupt(kind addr.Interrupt)
	// ClockIRQCounter is called once per rendered scanline.
	ClockIRQCounter()
	// LatchAccess reports a pattern table access through PPUADDR/PPUDATA.
	LatchAccess(address uint16)
}

// PPUSTATUS bits.
const (
	statusSpriteOverflow uint8 = 1 << 5
	statusSprite0Hit     uint8 = 1 << 6
	statusVBlank         uint8 = 1 << 7
)

const (
	dotsPerScanline = 341
	// vblankScanline sets the vblank flag and wraps the frame.
	vblankScanline = 261
	// firstVisibleScanline is the scanline producing the first frame row.
	firstVisibleScanline = 21
	lastVisibleScanline  = 260
	// nmiDelay is the number of dots between setting vblank and ending the
	// frame.
	nmiDelay = 9
)

// counters is one set of scroll fields, either the temporary registers
// written by PPUCTRL/PPUSCROLL/PPUADDR or the live counters used while
// rendering. Together they form a 15-bit VRAM address:
//
//	0yyy NNYY YYYX XXXX
//	 |   ||     +------ coarseX
//	 |   |+------------ coarseY
//	 |   +------------- nameY, nameX
//	 +----------------- fineY
type counters struct {
	fineY   int
	nameY   int
	nameX   int
	coarseY int
	coarseX int
}

func (c *counters) address() uint16 {
	hi := (c.fineY&7)<<4 | (c.nameY&1)<<3 | (c.nameX&1)<<2 | (c.coarseY>>3)&3
	lo := (c.coarseY&7)<<5 | c.coarseX&31
	return uint16(hi<<8|lo) & 0x7FFF
}

// setAddress decomposes a 14-bit VRAM address into the counters.
func (c *counters) setAddress(address uint16) {
	hi := int(address>>8) & 0xFF
	c.fineY = (hi >> 4) & 3
	c.nameY = (hi >> 3) & 1
	c.nameX = (hi >> 2) & 1
	c.coarseY = (c.coarseY & 7) | (hi&3)<<3

	lo := int(address) & 0xFF
	c.coarseY = (c.coarseY & 24) | (lo>>5)&7
	c.coarseX = lo & 31
}

// sprite is the decoded form of one OAM entry.
type sprite struct {
	x, y    int
	tile    int
	palette uint8
	flipV   bool
	flipH   bool
	behind  bool
}

// PPU emulates the 2C02 picture processing unit.
//
// Rendering happens a scanline at a time: the background of each line is
// drawn into a shadow buffer when the scanline ends, and sprites are
// composited over it lazily, whenever a register write could change the
// picture or when the frame ends.
type PPU struct {
	bus Bus

	vram [0x8000]uint8
	oam  [256]uint8

	ctrl   uint8
	mask   uint8
	status uint8

	// decoded PPUCTRL
	nmiOnVBlank  bool
	spriteSize16 bool
	bgTable      int
	spTable      int
	addrInc32    bool

	// decoded PPUMASK
	colorBits  uint8
	spVisible  bool
	bgVisible  bool
	spClip     bool
	bgClip     bool
	monochrome bool
	emphasis   uint8

	vramAddress    uint16
	vramTmpAddress uint16
	readBuffer     uint8
	firstWrite     bool
	oamAddress     uint8

	reg   counters
	cnt   counters
	fineX int
	curNt int

	mirroring    Mirroring
	mirroringSet bool
	mirrorTable  [0x8000]uint16
	ntable       [4]int
	nameTables   [4]NameTable
	tiles        [512]Tile

	scantile      [32]*Tile
	attrib        [32]uint8
	validTileData bool

	buffer   []uint32
	bgBuffer []uint32
	priority PriorityBuffer

	frame     *FrameBuffer
	prevFrame *FrameBuffer

	scanline             int
	lastRenderedScanline int
	curX                 int
	requestEndFrame      bool
	nmiCounter           int
	oddFrame             bool

	sprites  [64]sprite
	spr0HitX int
	spr0HitY int
	hitSpr0  bool

	imgPalette [16]uint32
	sprPalette [16]uint32

	// ClipToTVSize blanks the 8 pixel border most TVs did not show.
	ClipToTVSize bool
}

// New creates a PPU in its power-on state.
func New(bus Bus) *PPU {
	p := &PPU{
		bus:          bus,
		buffer:       make([]uint32, screenPixels),
		bgBuffer:     make([]uint32, screenPixels),
		frame:        NewFrameBuffer(),
		prevFrame:    NewFrameBuffer(),
		ClipToTVSize: true,
	}
	p.Reset()
	return p
}

// Reset clears memory and registers. The mirroring mode is forgotten, so
// the next SetMirroring always rebuilds the lookup table.
func (p *PPU) Reset() {
	p.vram = [0x8000]uint8{}
	p.oam = [256]uint8{}
	p.vramAddress = 0
	p.vramTmpAddress = 0
	p.readBuffer = 0
	p.firstWrite = true
	p.oamAddress = 0

	p.mirroringSet = false
	p.requestEndFrame = false
	p.nmiCounter = 0
	p.oddFrame = false
	p.validTileData = false

	p.reg = counters{}
	p.cnt = counters{}
	p.fineX = 0
	p.curNt = 0
	p.status = 0

	for i := range p.buffer {
		p.buffer[i] = 0
		p.bgBuffer[i] = 0
	}
	p.priority.Clear()
	for i := range p.scantile {
		p.scantile[i] = &p.tiles[0]
	}
	p.attrib = [32]uint8{}

	p.scanline = 0
	p.lastRenderedScanline = -1
	p.curX = 0

	p.sprites = [64]sprite{}
	p.spr0HitX = 0
	p.spr0HitY = 0
	p.hitSpr0 = false

	p.tiles = [512]Tile{}
	p.nameTables = [4]NameTable{}
	p.ntable = [4]int{}
	for i := range p.mirrorTable {
		p.mirrorTable[i] = uint16(i)
	}

	p.writeCtrl(0)
	p.writeMask(0)
}

// ReadRegister handles a CPU read of $2000-$2007 (and mirrors).
func (p *PPU) ReadRegister(address uint16) uint8 {
	switch address & 7 {
	case 0:
		return p.ctrl
	case 1:
		return p.mask
	case 2:
		return p.readStatus()
	case 4:
		return p.oam[p.oamAddress]
	case 7:
		return p.readData()
	}
	return 0
}

// WriteRegister handles a CPU write of $2000-$2007 (and mirrors).
func (p *PPU) WriteRegister(address uint16, value uint8) {
	switch address & 7 {
	case 0:
		p.writeCtrl(value)
	case 1:
		p.writeMask(value)
	case 3:
		p.oamAddress = value
	case 4:
		p.oam[p.oamAddress] = value
		p.updateSprite(int(p.oamAddress), value)
		p.oamAddress++
	case 5:
		p.writeScroll(value)
	case 6:
		p.writeAddress(value)
	case 7:
		p.writeData(value)
	default:
		slog.Debug("Ignored write to read-only PPU register",
			"address", fmt.Sprintf("0x%04X", address), "value", fmt.Sprintf("0x%02X", value))
	}
}

// SpriteDMA copies a page of CPU memory into OAM, starting at the current
// OAM address.
func (p *PPU) SpriteDMA(page []byte) {
	for i := int(p.oamAddress); i < 256 && i < len(page); i++ {
		p.oam[i] = page[i]
		p.updateSprite(i, page[i])
	}
}

// LoadPatterns replaces pattern memory at address with a CHR bank slice and
// its decoded tiles.
func (p *PPU) LoadPatterns(address uint16, data []byte, tiles []Tile) {
	p.triggerRendering()
	copy(p.vram[address:0x2000], data)
	copy(p.tiles[address>>4:], tiles)
}

// Frame returns the last finished frame.
func (p *PPU) Frame() *FrameBuffer {
	return p.frame
}

// PrevFrame returns the frame finished before the last one.
func (p *PPU) PrevFrame() *FrameBuffer {
	return p.prevFrame
}

// StartFrame clears the working buffer to the backdrop colour.
func (p *PPU) StartFrame() {
	var backdrop uint32
	if p.monochrome {
		backdrop = monochromeColor(p.colorBits)
	} else {
		backdrop = p.imgPalette[0]
	}
	for i := range p.buffer {
		p.buffer[i] = backdrop
	}
	p.priority.Clear()
}

// Tick advances the PPU by one dot. Returns true when the frame has ended.
func (p *PPU) Tick() bool {
	if p.curX == p.spr0HitX && p.spVisible && p.scanline-firstVisibleScanline == p.spr0HitY {
		p.status |= statusSprite0Hit
	}

	if p.requestEndFrame {
		p.nmiCounter--
		if p.nmiCounter == 0 {
			p.requestEndFrame = false
			p.startVBlank()
			return true
		}
	}

	p.curX++
	if p.curX == dotsPerScanline {
		p.curX = 0
		p.endScanline()
	}
	return false
}

func (p *PPU) readStatus() uint8 {
	value := p.status
	p.firstWrite = true
	p.status &^= statusVBlank
	return value
}

func (p *PPU) writeCtrl(value uint8) {
	p.triggerRendering()

	p.ctrl = value
	p.nmiOnVBlank = value&0x80 != 0
	p.spriteSize16 = value&0x20 != 0
	p.bgTable = int(value>>4) & 1
	p.spTable = int(value>>3) & 1
	p.addrInc32 = value&0x04 != 0
	p.reg.nameY = int(value>>1) & 1
	p.reg.nameX = int(value) & 1
}

func (p *PPU) writeMask(value uint8) {
	p.triggerRendering()

	p.mask = value
	p.colorBits = value >> 5
	p.spVisible = value&0x10 != 0
	p.bgVisible = value&0x08 != 0
	p.spClip = value&0x04 != 0
	p.bgClip = value&0x02 != 0
	p.monochrome = value&0x01 != 0

	if !p.monochrome {
		p.emphasis = p.colorBits
	}
	p.updatePalettes()
}

func (p *PPU) writeScroll(value uint8) {
	p.triggerRendering()

	if p.firstWrite {
		p.reg.coarseX = int(value>>3) & 31
		p.fineX = int(value) & 7
	} else {
		p.reg.fineY = int(value) & 7
		p.reg.coarseY = int(value>>3) & 31
	}
	p.firstWrite = !p.firstWrite
}

func (p *PPU) writeAddress(value uint8) {
	if p.firstWrite {
		p.reg.fineY = int(value>>4) & 3
		p.reg.nameY = int(value>>3) & 1
		p.reg.nameX = int(value>>2) & 1
		p.reg.coarseY = (p.reg.coarseY & 7) | (int(value)&3)<<3
	} else {
		p.triggerRendering()

		p.reg.coarseY = (p.reg.coarseY & 24) | int(value>>5)&7
		p.reg.coarseX = int(value) & 31
		p.cnt = p.reg
		p.checkSprite0(p.scanline - 20)
	}
	p.firstWrite = !p.firstWrite

	p.vramAddress = p.cnt.address()
	if p.vramAddress < 0x2000 {
		p.bus.LatchAccess(p.vramAddress)
	}
}

func (p *PPU) readData() uint8 {
	p.vramAddress = p.cnt.address()
	p.vramTmpAddress = p.reg.address()

	var value uint8
	if p.vramAddress <= 0x3EFF {
		value = p.readBuffer
		if p.vramAddress < 0x2000 {
			p.readBuffer = p.vram[p.vramAddress]
			p.bus.LatchAccess(p.vramAddress)
		} else {
			p.readBuffer = p.mirroredLoad(p.vramAddress)
		}
	} else {
		// palette reads are not buffered
		value = p.mirroredLoad(p.vramAddress)
	}

	p.incrementAddress()
	return value
}

func (p *PPU) writeData(value uint8) {
	p.triggerRendering()
	p.vramAddress = p.cnt.address()
	p.vramTmpAddress = p.reg.address()

	if p.vramAddress >= 0x2000 {
		p.mirroredWrite(p.vramAddress, value)
	} else {
		p.writeMem(p.vramAddress, value)
		p.bus.LatchAccess(p.vramAddress)
	}

	p.incrementAddress()
}

func (p *PPU) incrementAddress() {
	if p.addrInc32 {
		p.vramAddress += 32
	} else {
		p.vramAddress++
	}
	p.cnt.setAddress(p.vramAddress)
}

func (p *PPU) mirroredLoad(address uint16) uint8 {
	return p.vram[p.mirrorTable[address&0x7FFF]]
}

// mirroredWrite writes through the mirroring table. The backdrop entries of
// the sprite palette alias those of the background palette.
func (p *PPU) mirroredWrite(address uint16, value uint8) {
	if address&0x3FFF >= 0x3F00 {
		address = 0x3F00 | address&0x1F
		if address&3 == 0 {
			p.writeMem(0x3F00|address&0x0F, value)
			p.writeMem(0x3F10|address&0x0F, value)
			return
		}
		p.writeMem(address, value)
		return
	}
	p.writeMem(p.mirrorTable[address&0x7FFF], value)
}

// writeMem stores a byte of VRAM and refreshes the caches derived from it.
func (p *PPU) writeMem(address uint16, value uint8) {
	p.vram[address] = value

	switch {
	case address < 0x2000:
		p.patternWrite(address, value)
	case address < 0x3000:
		offset := int(address-0x2000) % 0x400
		table := p.ntable[(address-0x2000)/0x400]
		if offset < 0x3C0 {
			p.nameTables[table].tile[offset] = value
			p.checkSprite0(p.scanline - 20)
		} else {
			p.nameTables[table].WriteAttrib(offset-0x3C0, value)
		}
	case address >= 0x3F00 && address <= 0x3F1F:
		p.updatePalettes()
	}
}

func (p *PPU) patternWrite(address uint16, value uint8) {
	tile := &p.tiles[address>>4]
	row := int(address & 15)
	if row < 8 {
		tile.SetRow(row, value, p.vram[address+8])
	} else {
		tile.SetRow(row-8, p.vram[address-8], value)
	}
}

func (p *PPU) updatePalettes() {
	var mask uint8 = 0x3F
	if p.monochrome {
		mask = 0x30
	}
	table := &emphasisTables[p.emphasis&7]
	for i := 0; i < 16; i++ {
		p.imgPalette[i] = table[p.vram[0x3F00+i]&mask]
		p.sprPalette[i] = table[p.vram[0x3F10+i]&mask]
	}
}

// updateSprite refreshes the decoded sprite cache after an OAM write.
func (p *PPU) updateSprite(address int, value uint8) {
	index := address / 4
	if index == 0 {
		p.checkSprite0(p.scanline - 20)
	}

	s := &p.sprites[index]
	switch address % 4 {
	case 0:
		s.y = int(value)
	case 1:
		s.tile = int(value)
	case 2:
		s.flipV = value&0x80 != 0
		s.flipH = value&0x40 != 0
		s.behind = value&0x20 != 0
		s.palette = (value & 3) << 2
	case 3:
		s.x = int(value)
	}
}
