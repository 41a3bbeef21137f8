package bit

// Combine combines two 8 bit values into a single 16 bit value.
// The high byte will be the most significant one.
func Combine(high, low uint8) uint16 {
	return (uint16(high) << 8) | uint16(low)
}

// IsSet will check if the bit at the specified index is Set to 1 or not.
func IsSet(index, byte uint8) bool {
	return ((byte >> index) & 1) == 1
}

// Clear will return the passed byte with the bit at the specified index Set to 0.
func Clear(index, byte uint8) uint8 {
	return byte & ^(1 << index)
}

// Set will return the passed byte with the bit at the specified index Set to 1.
func Set(index, byte uint8) uint8 {
	return byte | (1 << index)
}

// SetTo sets or clears the bit at index depending on on.
func SetTo(index, byte uint8, on bool) uint8 {
	if on {
		return Set(index, byte)
	}
	return Clear(index, byte)
}

// Value returns a byte set to the value of the bit at the specified index.
func Value(index, byte uint8) uint8 {
	return (byte >> index) & 1
}

// Low returns the low (LSB) part of a 16 bit number.
func Low(value uint16) uint8 {
	return uint8(value)
}

// High returns the high (MSB) part of a 16 bit number.
func High(value uint16) uint8 {
	return uint8(value >> 8)
}

// PageCrossed reports whether two addresses live in different 256 byte pages.
func PageCrossed(a, b uint16) bool {
	return a&0xFF00 != b&0xFF00
}

// ExtractBits extracts bits from highBit to lowBit (inclusive)
// Example: ExtractBits(0b11010110, 6, 4) -> 0b101 (extracts bits 6, 5, 4)
func ExtractBits(value uint8, highBit, lowBit uint8) uint8 {
	shift := lowBit
	width := highBit - lowBit + 1
	mask := uint8((1 << width) - 1)
	return (value >> shift) & mask
}

// Bool converts a flag to 0 or 1.
func Bool(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
