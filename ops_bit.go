package m68k

// Bit operation types from bits 7-6.
const (
	bitTST = iota
	bitCHG
	bitCLR
	bitSET
)

// bitTiming holds totals per type for {Dn, memory} targets. Memory costs
// add the EA fetch.
var (
	bitDynamicTiming = [4][2]int{{6, 4}, {8, 8}, {10, 8}, {8, 8}}
	bitStaticTiming  = [4][2]int{{10, 8}, {12, 12}, {14, 12}, {12, 12}}
)

// opBitDynamic handles BTST/BCHG/BCLR/BSET with the bit number in Dn.
// Encoding: 0000 DDD1 TTee eeee
func opBitDynamic(c *CPU, op uint16) (execResult, error) {
	bit := c.reg.D[op>>9&7]
	return bitOp(c, op, bit, 2, bitDynamicTiming)
}

// opBitStatic handles BTST/BCHG/BCLR/BSET with an immediate bit number.
// Encoding: 0000 1000 TTee eeee + bit number word
func opBitStatic(c *CPU, op uint16) (execResult, error) {
	bit, err := c.readImmediate(2, Byte, false)
	if err != nil {
		return execResult{}, err
	}
	return bitOp(c, op, bit, 4, bitStaticTiming)
}

// bitOp tests and optionally modifies one bit. Data register targets are
// long (bit modulo 32); memory targets are a byte (bit modulo 8).
func bitOp(c *CPU, op uint16, bit uint32, offset uint32, timing [4][2]int) (execResult, error) {
	typ := int(op>>6) & 3
	field := op & 0x3F

	sz := Byte
	if decodeMode(field) == modeDn {
		sz = Long
	}
	bit %= sz.Bits()

	dst, err := c.resolve(field, sz, offset)
	if err != nil {
		return execResult{}, err
	}
	m := uint32(1) << bit
	c.reg.setFlag(flagZ, dst.value&m == 0)

	v := dst.value
	switch typ {
	case bitCHG:
		v ^= m
	case bitCLR:
		v &^= m
	case bitSET:
		v |= m
	}
	if typ != bitTST {
		if err := c.store(dst, v, sz); err != nil {
			return execResult{}, err
		}
	}

	length := offset + dst.ext
	if dst.mode == modeDn {
		return execResult{length: length, cycles: timing[typ][0], total: true}, nil
	}
	return execResult{length: length, cycles: timing[typ][1] + dst.cycles, total: true}, nil
}
