package cartridge

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"

	"github.com/valerio/go-nessie/nessie/video"
)

const (
	headerSize  = 16
	trainerSize = 512

	// PRGBankSize is the size of one program ROM bank.
	PRGBankSize = 0x4000
	// CHRBankSize is the size of one pattern bank. Headers count CHR in 8KB
	// units, which are split in two banks.
	CHRBankSize = 0x1000
	// TilesPerBank is the number of 8x8 tiles in a CHR bank.
	TilesPerBank = CHRBankSize / 16
)

var magic = []byte{'N', 'E', 'S', 0x1A}

var (
	ErrInvalidMagic = errors.New("not an iNES image")
	ErrTruncated    = errors.New("iNES image is truncated")
	ErrNoPRG        = errors.New("iNES image has no PRG-ROM")
)

// Cartridge is a parsed iNES image.
type Cartridge struct {
	PRG   [][]byte
	CHR   [][]byte
	Tiles [][]video.Tile

	MapperID   int
	Battery    bool
	Trainer    bool
	FourScreen bool
	// VerticalMirroring is bit 0 of flags 6.
	VerticalMirroring bool
}

// Parse decodes an iNES image.
//
// Header layout:
//
//	0-3   "NES" 0x1A
//	4     PRG-ROM size in 16KB units
//	5     CHR-ROM size in 8KB units (0 means CHR-RAM)
//	6     flags: bit 0 mirroring, bit 1 battery, bit 2 trainer,
//	      bit 3 four-screen, bits 4-7 mapper low nibble
//	7     bits 4-7 mapper high nibble
//	8-15  unused, should be zero
//
// Reference: https://www.nesdev.org/wiki/INES
func Parse(data []byte) (*Cartridge, error) {
	if len(data) < headerSize || !bytes.Equal(data[:4], magic) {
		return nil, ErrInvalidMagic
	}

	header := data[:headerSize]
	prgCount := int(header[4])
	chrCount := int(header[5]) * 2

	cart := &Cartridge{
		VerticalMirroring: header[6]&0x01 != 0,
		Battery:           header[6]&0x02 != 0,
		Trainer:           header[6]&0x04 != 0,
		FourScreen:        header[6]&0x08 != 0,
		MapperID:          int(header[6]>>4) | int(header[7]&0xF0),
	}

	// Old dumping tools wrote their name over bytes 7-15. When that
	// happened byte 7 can't be trusted either.
	for _, b := range header[8:] {
		if b != 0 {
			slog.Debug("iNES header has data in reserved bytes, ignoring mapper high nibble")
			cart.MapperID &= 0x0F
			break
		}
	}

	if prgCount == 0 {
		return nil, ErrNoPRG
	}

	offset := headerSize
	if cart.Trainer {
		offset += trainerSize
	}

	need := offset + prgCount*PRGBankSize + chrCount*CHRBankSize
	if len(data) < need {
		return nil, fmt.Errorf("%w: need %d bytes, got %d", ErrTruncated, need, len(data))
	}

	cart.PRG = make([][]byte, prgCount)
	for i := range cart.PRG {
		cart.PRG[i] = make([]byte, PRGBankSize)
		copy(cart.PRG[i], data[offset:])
		offset += PRGBankSize
	}

	cart.CHR = make([][]byte, chrCount)
	cart.Tiles = make([][]video.Tile, chrCount)
	for i := range cart.CHR {
		cart.CHR[i] = make([]byte, CHRBankSize)
		copy(cart.CHR[i], data[offset:])
		cart.Tiles[i] = video.DecodeTiles(cart.CHR[i])
		offset += CHRBankSize
	}

	return cart, nil
}

// Mirroring returns the nametable arrangement requested by the header.
func (c *Cartridge) Mirroring() video.Mirroring {
	switch {
	case c.FourScreen:
		return video.FourScreen
	case c.VerticalMirroring:
		return video.Vertical
	}
	return video.Horizontal
}

// PRGCount returns the number of 16KB PRG banks.
func (c *Cartridge) PRGCount() int {
	return len(c.PRG)
}

// CHRCount returns the number of 4KB CHR banks.
func (c *Cartridge) CHRCount() int {
	return len(c.CHR)
}

// HasCHRRAM reports whether pattern memory is writable RAM instead of ROM.
func (c *Cartridge) HasCHRRAM() bool {
	return len(c.CHR) == 0
}

// MapperName returns the common name of the cartridge board.
func (c *Cartridge) MapperName() string {
	return MapperName(c.MapperID)
}

func (c *Cartridge) String() string {
	return fmt.Sprintf("mapper %d (%s), %d PRG banks, %d CHR banks, %s mirroring",
		c.MapperID, c.MapperName(), c.PRGCount(), c.CHRCount(), c.Mirroring())
}
