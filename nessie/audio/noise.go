package audio

type noise struct {
	enabled       bool
	lengthEnabled bool
	lengthCounter int

	env envelope

	timerCount int
	timerMax   int
	shortMode  bool
	shift      int
	randomBit  int

	sample int
	// accumulated output between two samples
	accValue int
	accCount int
}

func (n *noise) reset() {
	*n = noise{shift: 1, accCount: 1}
}

func (n *noise) setEnabled(on bool) {
	n.enabled = on
	if !on {
		n.lengthCounter = 0
	}
	n.updateSample()
}

func (n *noise) write(reg uint16, value uint8) {
	switch reg {
	case 0:
		n.env.write(value)
		n.lengthEnabled = value&0x20 == 0
	case 2:
		n.timerMax = noisePeriods[value&0xF]
		n.shortMode = value&0x80 != 0
	case 3:
		if n.enabled {
			n.lengthCounter = lengthTable[value>>3]
		}
		n.env.reset = true
	}
}

// clockTimer runs the shift register one cycle at a time when it is due
// within this batch, otherwise it only accumulates the current output.
func (n *noise) clockTimer(cycles int) {
	if n.timerCount-cycles > 0 {
		n.timerCount -= cycles
		n.accCount += cycles
		n.accValue += cycles * n.sample
		return
	}

	for ; cycles > 0; cycles-- {
		n.timerCount--
		if n.timerCount <= 0 && n.timerMax > 0 {
			n.clockShift()
			n.timerCount += n.timerMax
		}
		n.accValue += n.sample
		n.accCount++
	}
}

func (n *noise) clockShift() {
	tap := 1
	if n.shortMode {
		tap = 6
	}
	n.shift = (n.shift << 1) & 0xFFFF
	if ((n.shift<<tap)^n.shift)&0x8000 != 0 {
		n.shift |= 1
		n.randomBit = 0
		n.sample = 0
		return
	}
	n.randomBit = 1
	if n.enabled && n.lengthCounter > 0 {
		n.sample = n.env.output
	} else {
		n.sample = 0
	}
}

func (n *noise) clockLength() {
	if n.lengthEnabled && n.lengthCounter > 0 {
		n.lengthCounter--
		if n.lengthCounter == 0 {
			n.updateSample()
		}
	}
}

func (n *noise) clockEnvelope() {
	n.env.clock()
	n.updateSample()
}

func (n *noise) updateSample() {
	if n.enabled && n.lengthCounter > 0 {
		n.sample = n.randomBit * n.env.output
	} else {
		n.sample = 0
	}
}

// level returns the average output since the last call, in sixteenths.
func (n *noise) level() int {
	v := (n.accValue << 4) / n.accCount
	n.accValue = v >> 4
	n.accCount = 1
	return v
}

func (n *noise) active() bool {
	return n.enabled && n.lengthCounter > 0
}
