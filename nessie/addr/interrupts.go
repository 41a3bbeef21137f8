package addr

// Interrupt is the kind of interrupt a component can request from the CPU.
type Interrupt uint8

const (
	// Normal is a maskable IRQ (mappers, APU frame counter, DMC).
	Normal Interrupt = iota
	// NMI is raised by the PPU when vblank begins.
	NMI
	// Reset restarts execution at the reset vector.
	Reset
)

func (i Interrupt) String() string {
	switch i {
	case Normal:
		return "IRQ"
	case NMI:
		return "NMI"
	case Reset:
		return "RESET"
	}
	return "unknown"
}
