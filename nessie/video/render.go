package video

import "github.com/valerio/go-nessie/nessie/addr"

// endScanline runs the work attached to the end of the current scanline and
// moves to the next one.
//
// Scanline numbering: 0-19 are idle (vblank), 20 is the pre-render line,
// 21-260 produce the 240 visible rows and 261 sets vblank.
func (p *PPU) endScanline() {
	switch {
	case p.scanline == 19:
		// odd frames are one dot shorter while rendering
		if p.oddFrame && p.bgVisible {
			p.curX = 1
		}

	case p.scanline == 20:
		p.status &^= statusVBlank | statusSprite0Hit
		p.hitSpr0 = false
		p.spr0HitX = -1
		p.spr0HitY = -1

		if p.bgVisible || p.spVisible {
			p.cnt = p.reg
			if p.bgVisible {
				p.renderBgScanline(0)
			}
		}
		if p.bgVisible && p.spVisible {
			p.checkSprite0(0)
		}
		if p.bgVisible || p.spVisible {
			p.bus.ClockIRQCounter()
		}

	case p.scanline == vblankScanline:
		p.status |= statusVBlank
		p.requestEndFrame = true
		p.nmiCounter = nmiDelay
		p.scanline = -1

	case p.scanline >= firstVisibleScanline && p.scanline <= lastVisibleScanline:
		if p.bgVisible {
			p.cnt.coarseX = p.reg.coarseX
			p.cnt.nameX = p.reg.nameX
			line := p.scanline - 20
			p.renderBgScanline(line)

			// sprite 0 is checked against the line just rendered
			if !p.hitSpr0 && p.spVisible {
				s := &p.sprites[0]
				if s.x >= -7 && s.x < ScreenWidth && s.y+1 <= line && s.y+1+p.spriteHeight() >= line {
					if p.checkSprite0(line) {
						p.hitSpr0 = true
					}
				}
			}
		}
		if p.bgVisible || p.spVisible {
			p.bus.ClockIRQCounter()
		}
	}

	p.scanline++
	p.vramTmpAddress = p.reg.address()
	p.vramAddress = p.cnt.address()
}

func (p *PPU) startVBlank() {
	if p.nmiOnVBlank {
		p.bus.RequestInterrupt(addr.NMI)
	}

	if p.lastRenderedScanline < ScreenHeight-1 {
		p.renderFramePartially(p.lastRenderedScanline+1, ScreenHeight-p.lastRenderedScanline)
	}

	p.endFrame()
	p.lastRenderedScanline = -1
	p.oddFrame = !p.oddFrame
}

// endFrame applies clipping and publishes the working buffer.
func (p *PPU) endFrame() {
	if p.ClipToTVSize || !p.bgClip || !p.spClip {
		for y := 0; y < ScreenHeight; y++ {
			for x := 0; x < 8; x++ {
				p.buffer[y<<8+x] = Black
			}
		}
	}

	if p.ClipToTVSize {
		for y := 0; y < ScreenHeight; y++ {
			for x := 0; x < 8; x++ {
				p.buffer[y<<8+255-x] = Black
			}
		}
		for y := 0; y < 8; y++ {
			for x := 0; x < ScreenWidth; x++ {
				p.buffer[y<<8+x] = Black
				p.buffer[(ScreenHeight-1-y)<<8+x] = Black
			}
		}
	}

	p.frame, p.prevFrame = p.prevFrame, p.frame
	p.frame.CopyFrom(p.buffer)
}

// triggerRendering brings the frame up to date with the current scanline
// before state that affects the picture changes.
func (p *PPU) triggerRendering() {
	if p.scanline < firstVisibleScanline || p.scanline > lastVisibleScanline {
		return
	}
	p.renderFramePartially(p.lastRenderedScanline+1, p.scanline-firstVisibleScanline-p.lastRenderedScanline)
	p.lastRenderedScanline = p.scanline - firstVisibleScanline
}

// renderFramePartially composites count rows starting at start: sprites
// behind the background, then the background itself, then sprites in front.
func (p *PPU) renderFramePartially(start, count int) {
	if p.spVisible {
		p.renderSprites(start, count, true)
	}

	if p.bgVisible {
		si := start << 8
		ei := (start + count) << 8
		if ei > screenPixels {
			ei = screenPixels
		}
		for i := si; i < ei; i++ {
			if p.priority.Background(i) {
				p.buffer[i] = p.bgBuffer[i]
			}
		}
	}

	if p.spVisible {
		p.renderSprites(start, count, false)
	}

	p.validTileData = false
}

// renderBgScanline draws one row of background tiles into the shadow
// buffer, then advances the vertical scroll counters.
func (p *PPU) renderBgScanline(scan int) {
	baseTile := p.bgTable * 256
	dest := scan<<8 - p.fineX

	p.cnt.coarseX = p.reg.coarseX
	p.cnt.nameX = p.reg.nameX
	p.curNt = p.ntable[p.cnt.nameY<<1+p.cnt.nameX]

	if scan < ScreenHeight && scan-p.cnt.fineY >= 0 {
		row := p.cnt.fineY
		target := p.bgBuffer

		for tile := 0; tile < 32; tile++ {
			var t *Tile
			var att uint8
			if p.validTileData {
				t = p.scantile[tile]
				att = p.attrib[tile]
			} else {
				nt := &p.nameTables[p.curNt]
				t = &p.tiles[baseTile+int(nt.TileIndex(p.cnt.coarseX, p.cnt.coarseY))]
				att = nt.Attrib(p.cnt.coarseX, p.cnt.coarseY)
				p.scantile[tile] = t
				p.attrib[tile] = att
			}

			if x := tile<<3 - p.fineX; x > -8 {
				sx := 0
				if x < 0 {
					dest -= x
					sx = -x
				}
				if t.OpaqueRow(row) {
					for ; sx < 8; sx++ {
						target[dest] = p.imgPalette[t.Pixel(sx, row)+att]
						p.priority.markBackground(dest)
						dest++
					}
				} else {
					for ; sx < 8; sx++ {
						if col := t.Pixel(sx, row); col != 0 {
							target[dest] = p.imgPalette[col+att]
							p.priority.markBackground(dest)
						}
						dest++
					}
				}
			}

			p.cnt.coarseX++
			if p.cnt.coarseX == 32 {
				p.cnt.coarseX = 0
				p.cnt.nameX ^= 1
				p.curNt = p.ntable[p.cnt.nameY<<1+p.cnt.nameX]
			}
		}

		p.validTileData = true
	}

	p.cnt.fineY++
	if p.cnt.fineY == 8 {
		p.cnt.fineY = 0
		p.cnt.coarseY++
		if p.cnt.coarseY == 30 {
			p.cnt.coarseY = 0
			p.cnt.nameY ^= 1
			p.curNt = p.ntable[p.cnt.nameY<<1+p.cnt.nameX]
		} else if p.cnt.coarseY == 32 {
			p.cnt.coarseY = 0
		}
		p.validTileData = false
	}
}

// renderSprites draws the sprites with the given priority that overlap rows
// [start, start+count).
func (p *PPU) renderSprites(start, count int, behind bool) {
	height := p.spriteHeight()
	end := start + count

	for i := range p.sprites {
		s := &p.sprites[i]
		if s.behind != behind || s.x < 0 || s.x >= ScreenWidth || s.y+height < start || s.y >= end {
			continue
		}

		// OAM Y is one less than the first row of the sprite
		dy := s.y + 1
		if !p.spriteSize16 {
			t := &p.tiles[s.tile+p.spTable*256]
			t.render(p.buffer, start-dy, end-dy, s.x, dy, s.palette, &p.sprPalette, s.flipH, s.flipV, i, &p.priority)
			continue
		}

		first := spriteTopTile(s.tile)
		second := first + 1
		if s.flipV {
			first, second = second, first
		}
		p.tiles[first].render(p.buffer, start-dy, end-dy, s.x, dy, s.palette, &p.sprPalette, s.flipH, s.flipV, i, &p.priority)
		dy += 8
		p.tiles[second].render(p.buffer, start-dy, end-dy, s.x, dy, s.palette, &p.sprPalette, s.flipH, s.flipV, i, &p.priority)
	}
}

// checkSprite0 looks for the first opaque pixel of sprite 0 on row scan that
// lands on an opaque background pixel. The position is latched so the status
// flag can be raised on the matching dot.
func (p *PPU) checkSprite0(scan int) bool {
	p.spr0HitX = -1
	p.spr0HitY = -1

	s := &p.sprites[0]
	x := s.x
	y := s.y + 1
	height := p.spriteHeight()
	if y > scan || y+height <= scan || x < -7 || x >= ScreenWidth {
		return false
	}

	row := scan - y
	if s.flipV {
		row = height - 1 - row
	}

	var t *Tile
	if !p.spriteSize16 {
		t = &p.tiles[s.tile+p.spTable*256]
	} else {
		top := spriteTopTile(s.tile)
		if row < 8 {
			t = &p.tiles[top]
		} else {
			t = &p.tiles[top+1]
			row -= 8
		}
	}

	index := scan<<8 + x
	for i := 0; i < 8; i++ {
		px := x + i
		if px < 0 || px >= ScreenWidth {
			continue
		}
		tx := i
		if s.flipH {
			tx = 7 - i
		}
		if p.priority.Background(index+i) && !t.Transparent(tx, row) {
			p.spr0HitX = px
			p.spr0HitY = scan
			return true
		}
	}
	return false
}

func (p *PPU) spriteHeight() int {
	if p.spriteSize16 {
		return 16
	}
	return 8
}

// spriteTopTile returns the tile index of the upper half of an 8x16 sprite.
// Bit 0 of the OAM tile byte selects the pattern table.
func spriteTopTile(tile int) int {
	if tile&1 != 0 {
		return tile - 1 + 256
	}
	return tile
}
