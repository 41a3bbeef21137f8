package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/valerio/go-nessie/nessie/addr"
	"github.com/valerio/go-nessie/nessie/cartridge"
	"github.com/valerio/go-nessie/nessie/video"
)

func TestDirect(t *testing.T) {
	testCases := []struct {
		desc      string
		img       cartridge.Image
		wantLow   uint8
		wantHigh  uint8
		mirroring video.Mirroring
	}{
		{
			desc:      "one bank is mirrored",
			img:       cartridge.Image{PRG: numberedPRG(1), CHR: numberedCHR(1)},
			wantLow:   0,
			wantHigh:  0,
			mirroring: video.Horizontal,
		},
		{
			desc:      "two banks",
			img:       cartridge.Image{PRG: numberedPRG(2), CHR: numberedCHR(1), Vertical: true},
			wantLow:   0,
			wantHigh:  2,
			mirroring: video.Vertical,
		},
		{
			desc:      "four screen wins over vertical",
			img:       cartridge.Image{PRG: numberedPRG(1), Vertical: true, FourScreen: true},
			mirroring: video.FourScreen,
		},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			r := newRig(t, tC.img)
			assert.Equal(t, tC.wantLow, r.mapper.Read(0x8000))
			assert.Equal(t, tC.wantHigh, r.mapper.Read(0xC000))
			assert.Equal(t, tC.mirroring, r.ppu.mirroring)
		})
	}

	t.Run("chr banks", func(t *testing.T) {
		r := newRig(t, cartridge.Image{PRG: numberedPRG(1), CHR: numberedCHR(1)})
		assert.Equal(t, byte(0), r.ppu.patterns[0x0000])
		assert.Equal(t, byte(4), r.ppu.patterns[0x1000])
	})

	t.Run("rom writes are ignored", func(t *testing.T) {
		r := newRig(t, cartridge.Image{PRG: numberedPRG(2)})
		r.mapper.Write(0x8000, 0xFF)
		r.mapper.Write(0xC000, 0x01)
		assert.Equal(t, uint8(0), r.mapper.Read(0x8000))
		assert.Equal(t, uint8(2), r.mapper.Read(0xC000))
	})

	t.Run("irq clocks are ignored", func(t *testing.T) {
		r := newRig(t, cartridge.Image{PRG: numberedPRG(1)})
		for i := 0; i < 300; i++ {
			r.mapper.ClockIRQCounter()
		}
		assert.Empty(t, r.cpu.interrupts)
	})
}

func TestUNROM(t *testing.T) {
	r := newRig(t, cartridge.Image{Mapper: 2, PRG: numberedPRG(8)})

	assert.Equal(t, uint8(0), r.mapper.Read(0x8000))
	assert.Equal(t, uint8(14), r.mapper.Read(0xC000), "last bank is fixed")

	testCases := []struct {
		desc    string
		address uint16
		value   uint8
		want    uint8
	}{
		{desc: "select bank 3", address: 0x8000, value: 3, want: 6},
		{desc: "any rom address", address: 0xFFF0, value: 5, want: 10},
		{desc: "wraps", address: 0xA000, value: 9, want: 2},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			r.mapper.Write(tC.address, tC.value)
			assert.Equal(t, tC.want, r.mapper.Read(0x8000))
			assert.Equal(t, uint8(14), r.mapper.Read(0xC000))
		})
	}

	t.Run("ram writes still work", func(t *testing.T) {
		r.mapper.Write(0x0010, 0x77)
		assert.Equal(t, uint8(0x77), r.mapper.Read(0x0010))
	})
}

// writeMMC1 shifts value into the MMC1 serial port, LSB first.
func writeMMC1(m Mapper, address uint16, value uint8) {
	for i := 0; i < 5; i++ {
		m.Write(address, (value>>i)&1)
	}
}

func TestMMC1ShiftRegister(t *testing.T) {
	t.Run("commits on the fifth write", func(t *testing.T) {
		r := newRig(t, cartridge.Image{Mapper: 1, PRG: numberedPRG(8)})

		// bank 5, LSB first: 1, 0, 1, 0, 0
		bits := []uint8{1, 0, 1, 0}
		for _, b := range bits {
			r.mapper.Write(0xE000, b)
			assert.Equal(t, uint8(0), r.mapper.Read(0x8000))
		}
		r.mapper.Write(0xE000, 0)
		assert.Equal(t, uint8(10), r.mapper.Read(0x8000))
	})

	t.Run("only bit 0 is shifted", func(t *testing.T) {
		r := newRig(t, cartridge.Image{Mapper: 1, PRG: numberedPRG(8)})
		for _, v := range []uint8{0x7F, 0x7E, 0x01, 0x00, 0x00} {
			r.mapper.Write(0xE000, v)
		}
		assert.Equal(t, uint8(10), r.mapper.Read(0x8000))
	})

	t.Run("bit 7 resets the buffer", func(t *testing.T) {
		r := newRig(t, cartridge.Image{Mapper: 1, PRG: numberedPRG(8)})
		mmc1 := r.mapper.(*MMC1)

		r.mapper.Write(0xE000, 1)
		r.mapper.Write(0xE000, 1)
		r.mapper.Write(0xE000, 0x80)
		assert.Equal(t, 0, mmc1.shiftCount)
		assert.Equal(t, uint8(0), mmc1.shift)
		assert.Equal(t, uint8(0), r.mapper.Read(0x8000), "nothing committed")

		writeMMC1(r.mapper, 0xE000, 1)
		assert.Equal(t, uint8(2), r.mapper.Read(0x8000))
	})

	t.Run("register picked by the last write", func(t *testing.T) {
		r := newRig(t, cartridge.Image{Mapper: 1, PRG: numberedPRG(8)})
		for i := 0; i < 4; i++ {
			r.mapper.Write(0x8000, 1)
		}
		r.mapper.Write(0xE000, 0)
		// bank 15 wraps to 7 on a 128KB board
		assert.Equal(t, uint8(14), r.mapper.Read(0x8000))
	})
}

func TestMMC1Control(t *testing.T) {
	testCases := []struct {
		desc string
		ctrl uint8
		want video.Mirroring
	}{
		{desc: "single screen A", ctrl: 0x0C, want: video.SingleScreenA},
		{desc: "single screen B", ctrl: 0x0D, want: video.SingleScreenB},
		{desc: "vertical", ctrl: 0x0E, want: video.Vertical},
		{desc: "horizontal", ctrl: 0x0F, want: video.Horizontal},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			r := newRig(t, cartridge.Image{Mapper: 1, PRG: numberedPRG(8)})
			writeMMC1(r.mapper, 0x8000, tC.ctrl)
			assert.Equal(t, tC.want, r.ppu.mirroring)
		})
	}

	t.Run("four screen ignores mirroring writes", func(t *testing.T) {
		r := newRig(t, cartridge.Image{Mapper: 1, PRG: numberedPRG(8), FourScreen: true})
		writeMMC1(r.mapper, 0x8000, 0x0E)
		assert.Equal(t, video.FourScreen, r.ppu.mirroring)
	})
}

func TestMMC1PRG(t *testing.T) {
	testCases := []struct {
		desc     string
		ctrl     uint8
		bank     uint8
		want8000 uint8
		wantC000 uint8
	}{
		{desc: "16k at $8000, last fixed", ctrl: 0x0C, bank: 3, want8000: 6, wantC000: 14},
		{desc: "16k at $C000, first fixed", ctrl: 0x08, bank: 5, want8000: 0, wantC000: 10},
		{desc: "32k", ctrl: 0x00, bank: 2, want8000: 4, wantC000: 6},
		{desc: "32k ignores bit 0", ctrl: 0x00, bank: 5, want8000: 8, wantC000: 10},
		{desc: "16k wraps", ctrl: 0x0C, bank: 9, want8000: 2, wantC000: 14},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			r := newRig(t, cartridge.Image{Mapper: 1, PRG: numberedPRG(8)})
			writeMMC1(r.mapper, 0x8000, tC.ctrl)
			writeMMC1(r.mapper, 0xE000, tC.bank)
			assert.Equal(t, tC.want8000, r.mapper.Read(0x8000))
			assert.Equal(t, tC.wantC000, r.mapper.Read(0xC000))
		})
	}

	t.Run("reset write restores the fixed last bank", func(t *testing.T) {
		r := newRig(t, cartridge.Image{Mapper: 1, PRG: numberedPRG(8)})
		writeMMC1(r.mapper, 0x8000, 0x08)
		writeMMC1(r.mapper, 0xE000, 2)
		assert.Equal(t, uint8(4), r.mapper.Read(0xC000))

		r.mapper.Write(0xA000, 0x80)
		assert.Equal(t, uint8(14), r.mapper.Read(0xC000))
	})
}

func TestMMC1CHR(t *testing.T) {
	testCases := []struct {
		desc     string
		ctrl     uint8
		reg1     uint8
		reg2     uint8
		want0000 byte
		want1000 byte
	}{
		{desc: "4k banks", ctrl: 0x1C, reg1: 3, reg2: 5, want0000: 12, want1000: 20},
		{desc: "4k upper half", ctrl: 0x1C, reg1: 0x11, reg2: 0x10, want0000: 20, want1000: 16},
		{desc: "8k uses an even start", ctrl: 0x0C, reg1: 3, reg2: 7, want0000: 8, want1000: 12},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			r := newRig(t, cartridge.Image{Mapper: 1, PRG: numberedPRG(2), CHR: numberedCHR(4)})
			writeMMC1(r.mapper, 0x8000, tC.ctrl)
			writeMMC1(r.mapper, 0xA000, tC.reg1)
			writeMMC1(r.mapper, 0xC000, tC.reg2)
			assert.Equal(t, tC.want0000, r.ppu.patterns[0x0000])
			assert.Equal(t, tC.want1000, r.ppu.patterns[0x1000])
		})
	}
}

func TestMMC3Banking(t *testing.T) {
	newMMC3 := func(t *testing.T) *rig {
		return newRig(t, cartridge.Image{Mapper: 4, PRG: numberedPRG(4), CHR: numberedCHR(2)})
	}

	t.Run("power-on layout", func(t *testing.T) {
		r := newMMC3(t)
		assert.Equal(t, uint8(0), r.mapper.Read(0x8000))
		assert.Equal(t, uint8(1), r.mapper.Read(0xA000))
		assert.Equal(t, uint8(6), r.mapper.Read(0xC000))
		assert.Equal(t, uint8(7), r.mapper.Read(0xE000))
		assert.Equal(t, byte(0), r.ppu.patterns[0x0000])
		assert.Equal(t, byte(4), r.ppu.patterns[0x1000])
	})

	prgCases := []struct {
		desc   string
		writes [][2]uint16
		want   [4]uint8
	}{
		{
			desc:   "r6 in mode 0",
			writes: [][2]uint16{{0x8000, 6}, {0x8001, 3}},
			want:   [4]uint8{3, 1, 6, 7},
		},
		{
			desc:   "r7",
			writes: [][2]uint16{{0x8000, 7}, {0x8001, 5}},
			want:   [4]uint8{0, 5, 6, 7},
		},
		{
			desc:   "mode 1 swaps r6 and the fixed bank",
			writes: [][2]uint16{{0x8000, 6}, {0x8001, 3}, {0x8000, 0x46}},
			want:   [4]uint8{6, 1, 3, 7},
		},
		{
			desc:   "registers mirrored across their range",
			writes: [][2]uint16{{0x9FFE, 7}, {0x9FFF, 2}},
			want:   [4]uint8{0, 2, 6, 7},
		},
		{
			desc:   "bank numbers wrap",
			writes: [][2]uint16{{0x8000, 6}, {0x8001, 10}},
			want:   [4]uint8{2, 1, 6, 7},
		},
	}
	for _, tC := range prgCases {
		t.Run(tC.desc, func(t *testing.T) {
			r := newMMC3(t)
			for _, w := range tC.writes {
				r.mapper.Write(w[0], uint8(w[1]))
			}
			for i, a := range []uint16{0x8000, 0xA000, 0xC000, 0xE000} {
				assert.Equal(t, tC.want[i], r.mapper.Read(a), "window 0x%04X", a)
			}
		})
	}

	t.Run("chr banks", func(t *testing.T) {
		r := newMMC3(t)
		r.mapper.Write(0x8000, 0)
		r.mapper.Write(0x8001, 5)
		assert.Equal(t, byte(4), r.ppu.patterns[0x0000], "2k banks ignore bit 0")
		assert.Equal(t, byte(5), r.ppu.patterns[0x0400])

		r.mapper.Write(0x8000, 2)
		r.mapper.Write(0x8001, 9)
		assert.Equal(t, byte(9), r.ppu.patterns[0x1000])

		r.mapper.Write(0x8000, 0x80)
		assert.Equal(t, byte(9), r.ppu.patterns[0x0000])
		assert.Equal(t, byte(4), r.ppu.patterns[0x1000])
		assert.Equal(t, byte(5), r.ppu.patterns[0x1400])
	})

	t.Run("mirroring", func(t *testing.T) {
		r := newMMC3(t)
		r.mapper.Write(0xA000, 1)
		assert.Equal(t, video.Horizontal, r.ppu.mirroring)
		r.mapper.Write(0xBFFE, 0)
		assert.Equal(t, video.Vertical, r.ppu.mirroring)
	})
}

func TestMMC3IRQ(t *testing.T) {
	setup := func(t *testing.T, latch uint8) (*rig, *MMC3) {
		r := newRig(t, cartridge.Image{Mapper: 4, PRG: numberedPRG(2)})
		r.mapper.Write(0xC001, latch)
		r.mapper.Write(0xC000, 0)
		r.mapper.Write(0xE001, 0)
		return r, r.mapper.(*MMC3)
	}

	t.Run("underflow requests exactly one irq and reloads", func(t *testing.T) {
		r, m := setup(t, 3)

		m.ClockIRQCounter()
		assert.Equal(t, []addr.Interrupt{addr.Normal}, r.cpu.interrupts)
		assert.Equal(t, 3, m.irqCounter)

		for i := 0; i < 3; i++ {
			m.ClockIRQCounter()
		}
		assert.Len(t, r.cpu.interrupts, 1)
		assert.Equal(t, 0, m.irqCounter)

		m.ClockIRQCounter()
		assert.Len(t, r.cpu.interrupts, 2)
	})

	t.Run("disabled counter does not move", func(t *testing.T) {
		r, m := setup(t, 3)
		r.mapper.Write(0xE000, 0)
		for i := 0; i < 10; i++ {
			m.ClockIRQCounter()
		}
		assert.Empty(t, r.cpu.interrupts)
		assert.Equal(t, 0, m.irqCounter)
	})

	t.Run("counter write", func(t *testing.T) {
		r, m := setup(t, 0)
		r.mapper.Write(0xC000, 2)
		m.ClockIRQCounter()
		m.ClockIRQCounter()
		assert.Empty(t, r.cpu.interrupts)
		m.ClockIRQCounter()
		assert.Len(t, r.cpu.interrupts, 1)
	})
}
