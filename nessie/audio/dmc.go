package audio

import "github.com/valerio/go-nessie/nessie/addr"

type dmcMode uint8

const (
	dmcNormal dmcMode = iota
	dmcLoop
	dmcIRQ
)

// DMCFetchCycles is how long the CPU is stalled for each sample byte.
const DMCFetchCycles = 4

// dmc plays 1-bit delta samples fetched from CPU memory.
type dmc struct {
	bus Bus

	enabled bool
	mode    dmcMode
	irq     bool

	period       int
	shiftCounter int
	bitsLeft     int
	hasSample    bool
	data         uint8

	delta  int
	dacLSB int
	sample int

	startAddress  uint16
	address       uint16
	length        int
	lengthCounter int
}

func (d *dmc) reset() {
	*d = dmc{bus: d.bus}
}

func (d *dmc) setEnabled(on bool) {
	if !d.enabled && on {
		d.lengthCounter = d.length
	}
	d.enabled = on
}

func (d *dmc) write(address uint16, value uint8) {
	switch address {
	case addr.DMCControl:
		switch {
		case value>>6 == 0:
			d.mode = dmcNormal
		case (value>>6)&1 == 1:
			d.mode = dmcLoop
		default:
			d.mode = dmcIRQ
		}
		if value&0x80 == 0 {
			d.irq = false
		}
		d.period = dmcPeriods[value&0xF]
	case addr.DMCLoad:
		d.delta = int(value>>1) & 0x3F
		d.dacLSB = int(value & 1)
		d.sample = d.delta<<1 + d.dacLSB
	case addr.DMCAddress:
		d.startAddress = uint16(value)<<6 | 0xC000
		d.address = d.startAddress
	case addr.DMCLength:
		d.length = int(value)<<4 + 1
		d.lengthCounter = d.length
	case addr.APUStatus:
		if value&0x10 == 0 {
			d.lengthCounter = 0
		} else {
			d.address = d.startAddress
			d.lengthCounter = d.length
		}
		d.irq = false
	}
}

// clockTimer runs the output unit for a batch of CPU cycles. The period is
// kept in eighths of a cycle.
func (d *dmc) clockTimer(cycles int) {
	if !d.enabled {
		return
	}
	d.shiftCounter -= cycles << 3
	for d.shiftCounter <= 0 && d.period > 0 {
		d.shiftCounter += d.period
		d.clock()
	}
}

func (d *dmc) clock() {
	if d.hasSample {
		if d.data&1 == 0 {
			if d.delta > 0 {
				d.delta--
			}
		} else if d.delta < 63 {
			d.delta++
		}
		if d.enabled {
			d.sample = d.delta<<1 + d.dacLSB
		} else {
			d.sample = 0
		}
		d.data >>= 1
	}

	d.bitsLeft--
	if d.bitsLeft <= 0 {
		d.hasSample = false
		d.endOfSample()
		d.bitsLeft = 8
	}

	if d.irq {
		d.bus.RequestInterrupt(addr.Normal)
	}
}

func (d *dmc) endOfSample() {
	if d.lengthCounter == 0 && d.mode == dmcLoop {
		d.address = d.startAddress
		d.lengthCounter = d.length
	}
	if d.lengthCounter == 0 {
		return
	}

	d.fetch()
	if d.lengthCounter == 0 && d.mode == dmcIRQ {
		d.irq = true
	}
}

// fetch reads the next sample byte, stalling the CPU. The address wraps
// from $FFFF to $8000.
func (d *dmc) fetch() {
	d.data = d.bus.Read(d.address)
	d.bus.HaltCycles(DMCFetchCycles)

	d.lengthCounter--
	if d.address == 0xFFFF {
		d.address = 0x8000
	} else {
		d.address++
	}
	d.hasSample = true
}

func (d *dmc) active() bool {
	return d.enabled && d.lengthCounter > 0
}
