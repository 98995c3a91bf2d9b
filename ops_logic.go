package m68k

// --- AND / OR ---

// opAND handles AND <ea>,Dn and AND Dn,<ea>.
// Encoding: 1100 DDD O SS eee eee
func opAND(c *CPU, op uint16) (execResult, error) {
	return logic(c, op, func(a, b uint32) uint32 { return a & b })
}

// opOR handles OR <ea>,Dn and OR Dn,<ea>.
// Encoding: 1000 DDD O SS eee eee
func opOR(c *CPU, op uint16) (execResult, error) {
	return logic(c, op, func(a, b uint32) uint32 { return a | b })
}

func logic(c *CPU, op uint16, fn func(a, b uint32) uint32) (execResult, error) {
	dn := int(op>>9) & 7
	sz := sizeEncoding((op >> 6) & 3)

	if op&0x0100 == 0 {
		src, err := c.resolve(op&0x3F, sz, 2)
		if err != nil {
			return execResult{}, err
		}
		r := fn(src.value, c.reg.ReadD(dn, sz)) & sz.Mask()
		c.reg.WriteD(dn, r, sz)
		c.reg.flagsLogical(r, sz)

		cycles := src.cycles
		if sz == Long {
			if src.mode >= modeInd && src.mode != modeImm {
				cycles += 2
			} else {
				cycles += 4
			}
		}
		return execResult{length: 2 + src.ext, cycles: cycles}, nil
	}

	dst, err := c.resolve(op&0x3F, sz, 2)
	if err != nil {
		return execResult{}, err
	}
	r := fn(c.reg.ReadD(dn, sz), dst.value) & sz.Mask()
	if err := c.store(dst, r, sz); err != nil {
		return execResult{}, err
	}
	c.reg.flagsLogical(r, sz)
	return execResult{length: 2 + dst.ext, cycles: rmwCycles(sz) + dst.cycles}, nil
}

// --- EOR ---

// opEOR exclusive-ors Dn into <ea>.
// Encoding: 1011 DDD1 SSee eeee
func opEOR(c *CPU, op uint16) (execResult, error) {
	sz := sizeEncoding((op >> 6) & 3)
	dst, err := c.resolve(op&0x3F, sz, 2)
	if err != nil {
		return execResult{}, err
	}
	r := (dst.value ^ c.reg.ReadD(int(op>>9)&7, sz)) & sz.Mask()
	if err := c.store(dst, r, sz); err != nil {
		return execResult{}, err
	}
	c.reg.flagsLogical(r, sz)
	if dst.mode == modeDn {
		if sz == Long {
			return execResult{length: 2, cycles: 4}, nil
		}
		return execResult{length: 2}, nil
	}
	return execResult{length: 2 + dst.ext, cycles: rmwCycles(sz) + dst.cycles}, nil
}

// --- ORI / ANDI / EORI ---

// opLogicImm handles ORI, ANDI and EORI to <ea>.
// Encoding: 0000 0000 SSee eeee (ORI), 0000 0010 (ANDI), 0000 1010 (EORI)
func opLogicImm(c *CPU, op uint16) (execResult, error) {
	sz := sizeEncoding((op >> 6) & 3)
	imm, err := c.readImmediate(2, sz, false)
	if err != nil {
		return execResult{}, err
	}
	n := 2 + immSize(sz)
	dst, err := c.resolve(op&0x3F, sz, n)
	if err != nil {
		return execResult{}, err
	}
	r := immLogic(op, imm, dst.value) & sz.Mask()
	if err := c.store(dst, r, sz); err != nil {
		return execResult{}, err
	}
	c.reg.flagsLogical(r, sz)
	return execResult{length: n + dst.ext, cycles: immCycles(dst, sz)}, nil
}

// immLogic selects the operation from bits 11-9 of an immediate opcode.
func immLogic(op uint16, imm, v uint32) uint32 {
	switch (op >> 9) & 7 {
	case 1:
		return v & imm
	case 5:
		return v ^ imm
	}
	return v | imm
}

// opToCCR handles ORI/ANDI/EORI to CCR.
func opToCCR(c *CPU, op uint16) (execResult, error) {
	imm, err := c.readImmediate(2, Byte, false)
	if err != nil {
		return execResult{}, err
	}
	c.reg.SetCCR(uint8(immLogic(op, imm, uint32(c.reg.CCR()))))
	return execResult{length: 4, cycles: 20, total: true}, nil
}

// opToSR handles ORI/ANDI/EORI to SR. Privileged.
func opToSR(c *CPU, op uint16) (execResult, error) {
	if !c.reg.Supervisor() {
		return execResult{}, privilegeViolation()
	}
	imm, err := c.readImmediate(2, Word, false)
	if err != nil {
		return execResult{}, err
	}
	c.reg.SetSR(uint16(immLogic(op, imm, uint32(c.reg.SR))))
	return execResult{length: 4, cycles: 20, total: true}, nil
}

// --- NOT / TAS ---

// opNOT complements <ea>.
// Encoding: 0100 0110 SSee eeee
func opNOT(c *CPU, op uint16) (execResult, error) {
	return unary(c, op, func(v uint32, sz Size) uint32 {
		r := ^v & sz.Mask()
		c.reg.flagsLogical(r, sz)
		return r
	})
}

// opTAS tests a byte and sets its high bit.
// Encoding: 0100 1010 11ee eeee
func opTAS(c *CPU, op uint16) (execResult, error) {
	dst, err := c.resolve(op&0x3F, Byte, 2)
	if err != nil {
		return execResult{}, err
	}
	c.reg.flagsLogical(dst.value, Byte)
	if err := c.store(dst, dst.value|0x80, Byte); err != nil {
		return execResult{}, err
	}
	if dst.mode == modeDn {
		return execResult{length: 2}, nil
	}
	return execResult{length: 2 + dst.ext, cycles: 10 + dst.cycles}, nil
}

// --- Shifts and rotates ---

// Shift types from bits 4-3 (register form) or 10-9 (memory form).
const (
	shiftAS = iota
	shiftLS
	shiftROX
	shiftRO
)

// opShiftReg shifts or rotates Dn.
// Encoding: 1110 CCCD SSIT TRRR
//
//	CCC: count (0 = 8) or count register when I=1; D: 0 right, 1 left
func opShiftReg(c *CPU, op uint16) (execResult, error) {
	cnt := (op >> 9) & 7
	left := op&0x0100 != 0
	sz := sizeEncoding((op >> 6) & 3)
	typ := int(op>>3) & 3
	dn := int(op & 7)

	var count uint32
	if op&0x0020 != 0 {
		count = c.reg.D[cnt] & 63
	} else {
		count = uint32(cnt)
		if count == 0 {
			count = 8
		}
	}

	r := c.reg.shift(typ, left, c.reg.ReadD(dn, sz), count, sz)
	c.reg.WriteD(dn, r, sz)

	cycles := 2 + 2*int(count)
	if sz == Long {
		cycles += 2
	}
	return execResult{length: 2, cycles: cycles}, nil
}

// opShiftMem shifts or rotates a memory word by one bit.
// Encoding: 1110 0TTD 11ee eeee
func opShiftMem(c *CPU, op uint16) (execResult, error) {
	left := op&0x0100 != 0
	typ := int(op>>9) & 3

	dst, err := c.resolve(op&0x3F, Word, 2)
	if err != nil {
		return execResult{}, err
	}
	r := c.reg.shift(typ, left, dst.value, 1, Word)
	if err := c.store(dst, r, Word); err != nil {
		return execResult{}, err
	}
	return execResult{length: 2 + dst.ext, cycles: 4 + dst.cycles}, nil
}

// shift performs count single-bit steps of the given type and sets the
// flags. With a zero count C is cleared (or copied from X for ROX) and X
// is unchanged. AS sets V if the sign bit changed at any point; the other
// types clear it. RO leaves X alone.
func (r *Registers) shift(typ int, left bool, v, count uint32, sz Size) uint32 {
	msb := sz.MSB()
	mask := sz.Mask()
	v &= mask

	carry := false
	overflow := false
	if typ == shiftROX {
		carry = r.X()
	}

	for i := uint32(0); i < count; i++ {
		var out bool
		if left {
			out = v&msb != 0
			v = (v << 1) & mask
			switch typ {
			case shiftROX:
				if carry {
					v |= 1
				}
			case shiftRO:
				if out {
					v |= 1
				}
			}
			if typ == shiftAS && (v&msb != 0) != out {
				overflow = true
			}
		} else {
			out = v&1 != 0
			sign := v & msb
			v >>= 1
			switch typ {
			case shiftAS:
				v |= sign
			case shiftROX:
				if carry {
					v |= msb
				}
			case shiftRO:
				if out {
					v |= msb
				}
			}
		}
		carry = out
	}

	r.alterN(v, sz)
	r.alterZ(v, sz, false)
	r.setFlag(flagV, overflow)
	r.setFlag(flagC, carry)
	if typ != shiftRO && count > 0 {
		r.setFlag(flagX, carry)
	}
	return v
}
