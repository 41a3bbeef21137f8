package memory

// JoypadKey is a button of a standard NES controller, in the order the
// controller shifts them out.
type JoypadKey uint8

const (
	JoypadA JoypadKey = iota
	JoypadB
	JoypadSelect
	JoypadStart
	JoypadUp
	JoypadDown
	JoypadLeft
	JoypadRight
)

const (
	keyPressed  uint8 = 0x41
	keyReleased uint8 = 0x40
)

// Joypad is a controller read one bit at a time through $4016/$4017.
//
// Reads 0-7 return the buttons, reads 8-18 return 0, read 19 returns 1 (the
// signature bit), and the sequence restarts after 24 reads or when the
// strobe is released.
type Joypad struct {
	state  [8]uint8
	strobe int
}

// NewJoypad creates a controller with no buttons pressed.
func NewJoypad() *Joypad {
	j := &Joypad{}
	for i := range j.state {
		j.state[i] = keyReleased
	}
	return j
}

// Read returns the next value of the serial read sequence.
func (j *Joypad) Read() uint8 {
	var value uint8
	switch {
	case j.strobe < 8:
		value = j.state[j.strobe]
	case j.strobe == 19:
		value = 1
	}

	j.strobe++
	if j.strobe == 24 {
		j.strobe = 0
	}
	return value
}

// ResetStrobe restarts the read sequence from button A.
func (j *Joypad) ResetStrobe() {
	j.strobe = 0
}

// Press updates the joypad state when a key is pressed
func (j *Joypad) Press(key JoypadKey) {
	j.state[key&7] = keyPressed
}

// Release updates the joypad state when a key is released
func (j *Joypad) Release(key JoypadKey) {
	j.state[key&7] = keyReleased
}

// Pressed reports whether a key is currently held.
func (j *Joypad) Pressed(key JoypadKey) bool {
	return j.state[key&7] == keyPressed
}
