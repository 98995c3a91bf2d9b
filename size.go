package m68k

// Size represents the operand width of a memory access or ALU operation.
type Size int

const (
	Byte Size = 1
	Word Size = 2
	Long Size = 4
)

// Mask returns a bitmask covering the valid bits for this size.
func (s Size) Mask() uint32 {
	switch s {
	case Byte:
		return 0xFF
	case Word:
		return 0xFFFF
	case Long:
		return 0xFFFFFFFF
	default:
		return 0
	}
}

// MSB returns the most-significant bit for this size.
func (s Size) MSB() uint32 {
	switch s {
	case Byte:
		return 0x80
	case Word:
		return 0x8000
	case Long:
		return 0x80000000
	default:
		return 0
	}
}

// Bits returns the number of bits for this size.
func (s Size) Bits() uint32 {
	return uint32(s) * 8
}

// step is how far a stack push, pop or A7 increment moves for this size.
// Bytes still consume a full word so the stack stays word aligned.
func (s Size) step() uint32 {
	if s == Byte {
		return uint32(Word)
	}
	return uint32(s)
}

// String returns a human-readable name for this size.
func (s Size) String() string {
	switch s {
	case Byte:
		return "byte"
	case Word:
		return "word"
	case Long:
		return "long"
	default:
		return "unknown"
	}
}

// signExtend widens the low sz bits of v to 32 bits.
func signExtend(v uint32, sz Size) uint32 {
	switch sz {
	case Byte:
		return uint32(int32(int8(v)))
	case Word:
		return uint32(int32(int16(v)))
	}
	return v
}

// sizeEncoding maps the common 2-bit size field (00/01/10) to Size.
// The reserved encoding 11 yields 0.
func sizeEncoding(bits uint16) Size {
	switch bits & 3 {
	case 0:
		return Byte
	case 1:
		return Word
	case 2:
		return Long
	}
	return 0
}

// moveSizeMap maps the MOVE size encoding to Size.
// MOVE uses a different encoding: 01=Byte, 11=Word, 10=Long.
var moveSizeMap = [4]Size{0, Byte, Long, Word}
