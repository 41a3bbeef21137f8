package audio

// envelope is the volume unit shared by the square and noise channels.
type envelope struct {
	disabled bool
	loop     bool
	reset    bool
	rate     int
	counter  int
	volume   int
	// output is the constant volume or the decaying envelope level
	output int
}

func (e *envelope) write(value uint8) {
	e.disabled = value&0x10 != 0
	e.rate = int(value & 0xF)
	e.loop = value&0x20 != 0
	e.updateOutput()
}

func (e *envelope) clock() {
	if e.reset {
		e.reset = false
		e.counter = e.rate + 1
		e.volume = 0xF
	} else {
		e.counter--
		if e.counter <= 0 {
			e.counter = e.rate + 1
			if e.volume > 0 {
				e.volume--
			} else if e.loop {
				e.volume = 0xF
			}
		}
	}
	e.updateOutput()
}

func (e *envelope) updateOutput() {
	if e.disabled {
		e.output = e.rate
	} else {
		e.output = e.volume
	}
}
