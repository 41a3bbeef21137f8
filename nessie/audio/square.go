package audio

// square is one of the two pulse channels.
type square struct {
	first bool

	enabled       bool
	lengthEnabled bool
	lengthCounter int

	env  envelope
	duty int
	step int

	timerCount int
	timerMax   int

	sweepActive  bool
	sweepReload  bool
	sweepCounter int
	sweepPeriod  int
	sweepNegate  bool
	sweepShift   int

	sample int
}

func (s *square) reset() {
	*s = square{first: s.first}
}

func (s *square) setEnabled(on bool) {
	s.enabled = on
	if !on {
		s.lengthCounter = 0
	}
	s.updateSample()
}

// write handles the four registers of the channel, reg being 0-3.
func (s *square) write(reg uint16, value uint8) {
	switch reg {
	case 0:
		s.env.write(value)
		s.duty = int(value>>6) & 3
		s.lengthEnabled = value&0x20 == 0
		s.updateSample()
	case 1:
		s.sweepActive = value&0x80 != 0
		s.sweepPeriod = int(value>>4) & 7
		s.sweepNegate = value&0x08 != 0
		s.sweepShift = int(value & 7)
		s.sweepReload = true
	case 2:
		s.timerMax = s.timerMax&0x700 | int(value)
	case 3:
		s.timerMax = s.timerMax&0xFF | int(value&7)<<8
		if s.enabled {
			s.lengthCounter = lengthTable[value>>3]
		}
		s.env.reset = true
	}
}

func (s *square) clockTimer(cycles int) {
	s.timerCount -= cycles
	if s.timerCount <= 0 {
		s.timerCount += (s.timerMax + 1) << 1
		s.step = (s.step + 1) & 7
		s.updateSample()
	}
}

func (s *square) clockLength() {
	if s.lengthEnabled && s.lengthCounter > 0 {
		s.lengthCounter--
		if s.lengthCounter == 0 {
			s.updateSample()
		}
	}
}

func (s *square) clockEnvelope() {
	s.env.clock()
	s.updateSample()
}

// clockSweep adjusts the period. The first channel negates with one's
// complement, so it subtracts one more than the second.
func (s *square) clockSweep() {
	s.sweepCounter--
	if s.sweepCounter <= 0 {
		s.sweepCounter = s.sweepPeriod + 1
		if s.sweepActive && s.sweepShift > 0 && s.timerMax > 7 {
			change := s.timerMax >> s.sweepShift
			if !s.sweepNegate {
				s.timerMax += change
				if s.timerMax > 0x7FF {
					s.timerMax = 0x7FF
				}
			} else {
				s.timerMax -= change
				if s.first {
					s.timerMax--
				}
			}
		}
	}

	if s.sweepReload {
		s.sweepReload = false
		s.sweepCounter = s.sweepPeriod + 1
	}
}

// updateSample silences the channel when the period is too short or the
// sweep target overflows.
func (s *square) updateSample() {
	if !s.enabled || s.lengthCounter == 0 || s.timerMax <= 7 {
		s.sample = 0
		return
	}
	if !s.sweepNegate && s.timerMax+s.timerMax>>s.sweepShift > 0x7FF {
		s.sample = 0
		return
	}
	s.sample = s.env.output * dutyTable[s.duty][s.step]
}

func (s *square) active() bool {
	return s.enabled && s.lengthCounter > 0
}
