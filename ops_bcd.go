package m68k

// --- ABCD / SBCD ---

// opABCD adds packed BCD bytes with extend.
// Encoding: 1100 XXX1 0000 RYYY  R=0: Dy,Dx  R=1: -(Ay),-(Ax)
func opABCD(c *CPU, op uint16) (execResult, error) {
	return bcd(c, op, (*Registers).bcdAdd)
}

// opSBCD subtracts packed BCD bytes with extend.
// Encoding: 1000 XXX1 0000 RYYY
func opSBCD(c *CPU, op uint16) (execResult, error) {
	return bcd(c, op, (*Registers).bcdSub)
}

func bcd(c *CPU, op uint16, fn func(r *Registers, s, d uint32) uint32) (execResult, error) {
	rx := op >> 9 & 7
	ry := op & 7

	if op&0x0008 == 0 {
		s := c.reg.ReadD(int(ry), Byte)
		d := c.reg.ReadD(int(rx), Byte)
		c.reg.WriteD(int(rx), fn(&c.reg, s, d), Byte)
		return execResult{length: 2, cycles: 2}, nil
	}

	src, err := c.resolve(eaField(modePreDec, ry), Byte, 2)
	if err != nil {
		return execResult{}, err
	}
	dst, err := c.resolve(eaField(modePreDec, rx), Byte, 2)
	if err != nil {
		return execResult{}, err
	}
	if err := c.store(dst, fn(&c.reg, src.value, dst.value), Byte); err != nil {
		return execResult{}, err
	}
	return execResult{length: 2, cycles: 18, total: true}, nil
}

// bcdAdd returns d + s + X in packed BCD. C and X are set on a decimal
// carry; Z is sticky; V reports bit 7 going from 0 to 1 in the decimal
// adjust.
func (r *Registers) bcdAdd(s, d uint32) uint32 {
	x := r.xBit()
	binary := s + d + x

	lo := (s & 0x0F) + (d & 0x0F) + x
	hi := (s & 0xF0) + (d & 0xF0)
	if lo > 9 {
		lo += 6
	}
	res := hi + lo
	carry := res > 0x99
	if carry {
		res += 0x60
	}
	res &= 0xFF

	r.setFlag(flagC|flagX, carry)
	r.alterN(res, Byte)
	r.setFlag(flagV, binary&0x80 == 0 && res&0x80 != 0)
	r.alterZ(res, Byte, true)
	return res
}

// bcdSub returns d - s - X in packed BCD. V reports bit 7 going from 1 to
// 0 in the decimal adjust.
func (r *Registers) bcdSub(s, d uint32) uint32 {
	x := r.xBit()
	binary := d - s - x

	res := binary
	if ((d&0x0F)-(s&0x0F)-x)&0x10 != 0 {
		res -= 6
	}
	borrow := d < s+x
	if borrow {
		res -= 0x60
	}
	res &= 0xFF

	r.setFlag(flagC|flagX, borrow)
	r.alterN(res, Byte)
	r.setFlag(flagV, binary&0x80 != 0 && res&0x80 == 0)
	r.alterZ(res, Byte, true)
	return res
}

// --- NBCD ---

// opNBCD negates a packed BCD byte with extend: 0 - <ea> - X.
// Encoding: 0100 1000 00ee eeee
func opNBCD(c *CPU, op uint16) (execResult, error) {
	dst, err := c.resolve(op&0x3F, Byte, 2)
	if err != nil {
		return execResult{}, err
	}
	if err := c.store(dst, c.reg.bcdSub(dst.value, 0), Byte); err != nil {
		return execResult{}, err
	}
	if dst.mode == modeDn {
		return execResult{length: 2, cycles: 2}, nil
	}
	return execResult{length: 2 + dst.ext, cycles: 4 + dst.cycles}, nil
}
