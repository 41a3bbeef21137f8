package cartridge

// Image describes a synthetic iNES image for Build.
type Image struct {
	Mapper     int
	PRG        []byte // padded to a multiple of 16KB, at least one bank
	CHR        []byte // padded to a multiple of 8KB, empty for CHR-RAM
	Vertical   bool
	Battery    bool
	Trainer    bool
	FourScreen bool
}

// Build assembles an iNES image in memory. It exists for tests that need a
// cartridge without shipping ROM files.
func Build(img Image) []byte {
	prgBanks := (len(img.PRG) + PRGBankSize - 1) / PRGBankSize
	if prgBanks == 0 {
		prgBanks = 1
	}
	chrBanks := (len(img.CHR) + 2*CHRBankSize - 1) / (2 * CHRBankSize)

	header := make([]byte, headerSize)
	copy(header, magic)
	header[4] = byte(prgBanks)
	header[5] = byte(chrBanks)
	header[6] = byte(img.Mapper&0x0F) << 4
	header[7] = byte(img.Mapper & 0xF0)
	if img.Vertical {
		header[6] |= 0x01
	}
	if img.Battery {
		header[6] |= 0x02
	}
	if img.Trainer {
		header[6] |= 0x04
	}
	if img.FourScreen {
		header[6] |= 0x08
	}

	out := header
	if img.Trainer {
		out = append(out, make([]byte, trainerSize)...)
	}

	prg := make([]byte, prgBanks*PRGBankSize)
	copy(prg, img.PRG)
	out = append(out, prg...)

	chr := make([]byte, chrBanks*2*CHRBankSize)
	copy(chr, img.CHR)
	return append(out, chr...)
}
