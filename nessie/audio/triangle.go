package audio

type triangle struct {
	enabled       bool
	lengthEnabled bool
	lengthCounter int

	linearCounter int
	linearReload  int
	// linearHalt reloads the linear counter on the next clock
	linearHalt    bool
	linearControl bool

	timerCount int
	timerMax   int
	step       int

	// audible is true when the waveform advances and is interpolated
	audible bool
	sample  int
	// level is the interpolated output kept between sample periods
	level int
}

func (t *triangle) reset() {
	*t = triangle{linearHalt: true, sample: 0xF}
}

func (t *triangle) setEnabled(on bool) {
	t.enabled = on
	if !on {
		t.lengthCounter = 0
	}
	t.updateAudible()
}

func (t *triangle) write(reg uint16, value uint8) {
	switch reg {
	case 0:
		t.linearControl = value&0x80 != 0
		t.linearReload = int(value & 0x7F)
		t.lengthEnabled = !t.linearControl
	case 2:
		t.timerMax = t.timerMax&0x700 | int(value)
	case 3:
		t.timerMax = t.timerMax&0xFF | int(value&7)<<8
		if t.enabled {
			t.lengthCounter = lengthTable[value>>3]
		}
		t.linearHalt = true
	}
	t.updateAudible()
}

// clockTimer steps the 32-entry sequence. Output counts down from 15 to 0
// and back up.
func (t *triangle) clockTimer(cycles int) {
	if t.timerMax == 0 {
		return
	}
	t.timerCount -= cycles
	for t.timerCount <= 0 {
		t.timerCount += t.timerMax + 1
		if t.linearCounter > 0 && t.lengthCounter > 0 {
			t.step = (t.step + 1) & 0x1F
			if t.enabled {
				if t.step >= 0x10 {
					t.sample = t.step & 0xF
				} else {
					t.sample = 0xF - t.step&0xF
				}
				t.sample <<= 4
			}
		}
	}
}

func (t *triangle) clockLength() {
	if t.lengthEnabled && t.lengthCounter > 0 {
		t.lengthCounter--
		if t.lengthCounter == 0 {
			t.updateAudible()
		}
	}
}

func (t *triangle) clockLinear() {
	if t.linearHalt {
		t.linearCounter = t.linearReload
		t.updateAudible()
	} else if t.linearCounter > 0 {
		t.linearCounter--
		t.updateAudible()
	}
	if !t.linearControl {
		t.linearHalt = false
	}
}

// interpolate smooths the step between two sequence positions using the
// progress of the timer.
func (t *triangle) interpolate() {
	if !t.audible {
		return
	}
	v := (t.timerCount << 4) / (t.timerMax + 1)
	if v > 16 {
		v = 16
	}
	if t.step >= 16 {
		v = 16 - v
	}
	t.level = v + t.sample
}

func (t *triangle) updateAudible() {
	t.audible = t.enabled && t.timerMax > 7 && t.linearCounter > 0 && t.lengthCounter > 0
}

func (t *triangle) active() bool {
	return t.enabled && t.lengthCounter > 0
}
