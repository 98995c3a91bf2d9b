package m68k

// --- MOVE / MOVEA ---

// opMOVE copies <ea> to <ea>.
// Encoding: 00SS RRRM MMss ssss, SS = 01 byte, 11 word, 10 long.
func opMOVE(c *CPU, op uint16) (execResult, error) {
	sz := moveSizeMap[(op>>12)&3]

	src, err := c.resolve(op&0x3F, sz, 2)
	if err != nil {
		return execResult{}, err
	}
	dst, err := c.effectiveAddress(moveDestField(op), sz, 2+src.ext)
	if err != nil {
		return execResult{}, err
	}
	if err := c.store(dst, src.value, sz); err != nil {
		return execResult{}, err
	}
	c.reg.flagsLogical(src.value, sz)

	return execResult{
		length: 2 + src.ext + dst.ext,
		cycles: src.cycles + eaWriteCycles(dst.mode, sz),
	}, nil
}

// opMOVEA loads An. Word sources are sign extended; flags are unaffected.
func opMOVEA(c *CPU, op uint16) (execResult, error) {
	sz := moveSizeMap[(op>>12)&3]
	an := int(op>>9) & 7

	src, err := c.resolve(op&0x3F, sz, 2)
	if err != nil {
		return execResult{}, err
	}
	c.reg.WriteA(an, signExtend(src.value, sz), Long)

	return execResult{length: 2 + src.ext, cycles: src.cycles}, nil
}

// opMOVEQ sign extends an 8-bit immediate into Dn.
// Encoding: 0111 DDD0 iiii iiii
func opMOVEQ(c *CPU, op uint16) (execResult, error) {
	v := signExtend(uint32(op&0xFF), Byte)
	c.reg.D[(op>>9)&7] = v
	c.reg.flagsLogical(v, Long)
	return execResult{length: 2}, nil
}

// --- MOVEM ---

// opMOVEM transfers a register list to or from memory.
// Encoding: 0100 1D00 1Sss ssss + mask word. D=1 memory to registers,
// S=1 long.
//
// In -(An) mode the mask is reversed (bit 0 = A7 ... bit 15 = D0) and
// registers are stored from A7 down to D0 so memory ends up in ascending
// register order. All other modes use bit 0 = D0 ... bit 15 = A7.
func opMOVEM(c *CPU, op uint16) (execResult, error) {
	sz := Word
	per := 4
	if op&0x0040 != 0 {
		sz = Long
		per = 8
	}
	toReg := op&0x0400 != 0
	field := op & 0x3F
	mode := decodeMode(field)
	an := int(field & 7)

	mask, err := c.extWord(2)
	if err != nil {
		return execResult{}, err
	}

	var (
		addr uint32
		ext  uint32
	)
	switch mode {
	case modePreDec, modePostInc:
		addr = c.reg.ReadA(an, Long)
	default:
		o, err := c.effectiveAddress(field, sz, 4)
		if err != nil {
			return execResult{}, err
		}
		addr, ext = o.addr, o.ext
	}

	n := 0
	switch {
	case mode == modePreDec:
		for i := 0; i < 16; i++ {
			if mask&(1<<i) == 0 {
				continue
			}
			addr -= uint32(sz)
			if err := c.writeBus(sz, addr, c.movemReg(15-i)); err != nil {
				return execResult{}, err
			}
			n++
		}
		c.reg.WriteA(an, addr, Long)

	case toReg:
		for i := 0; i < 16; i++ {
			if mask&(1<<i) == 0 {
				continue
			}
			v, err := c.readBus(sz, addr)
			if err != nil {
				return execResult{}, err
			}
			c.setMovemReg(i, signExtend(v, sz))
			addr += uint32(sz)
			n++
		}
		if mode == modePostInc {
			c.reg.WriteA(an, addr, Long)
		}

	default:
		for i := 0; i < 16; i++ {
			if mask&(1<<i) == 0 {
				continue
			}
			if err := c.writeBus(sz, addr, c.movemReg(i)); err != nil {
				return execResult{}, err
			}
			addr += uint32(sz)
			n++
		}
	}

	var base int
	if toReg {
		base = movemToReg[mode]
	} else {
		base = movemToMem[mode]
	}
	return execResult{length: 4 + ext, cycles: base + n*per, total: true}, nil
}

// movemReg returns register i of a MOVEM list: 0-7 = D0-D7, 8-15 = A0-A7.
func (c *CPU) movemReg(i int) uint32 {
	if i < 8 {
		return c.reg.D[i]
	}
	return c.reg.ReadA(i-8, Long)
}

func (c *CPU) setMovemReg(i int, v uint32) {
	if i < 8 {
		c.reg.D[i] = v
		return
	}
	c.reg.WriteA(i-8, v, Long)
}

// --- MOVEP ---

// opMOVEP transfers a register to or from alternate bytes of memory.
// Encoding: 0000 DDD1 OO00 1AAA + displacement.
//
//	OO: 00 word mem->reg, 01 long mem->reg, 10 word reg->mem, 11 long reg->mem
func opMOVEP(c *CPU, op uint16) (execResult, error) {
	dn := int(op>>9) & 7
	an := int(op & 7)
	opmode := (op >> 6) & 3

	disp, err := c.extWord(2)
	if err != nil {
		return execResult{}, err
	}
	addr := c.reg.ReadA(an, Long) + uint32(int32(int16(disp)))

	sz, cycles := Word, 16
	if opmode&1 != 0 {
		sz, cycles = Long, 24
	}
	bytes := int(sz)

	if opmode&2 != 0 {
		v := c.reg.D[dn]
		for i := 0; i < bytes; i++ {
			shift := uint(8 * (bytes - 1 - i))
			if err := c.writeBus(Byte, addr+uint32(2*i), v>>shift); err != nil {
				return execResult{}, err
			}
		}
	} else {
		var v uint32
		for i := 0; i < bytes; i++ {
			b, err := c.readBus(Byte, addr+uint32(2*i))
			if err != nil {
				return execResult{}, err
			}
			v = v<<8 | b
		}
		c.reg.WriteD(dn, v, sz)
	}

	return execResult{length: 4, cycles: cycles, total: true}, nil
}

// --- LEA / PEA ---

// opLEA loads an effective address into An.
// Encoding: 0100 AAA1 11ss ssss
func opLEA(c *CPU, op uint16) (execResult, error) {
	ea, err := c.effectiveAddress(op&0x3F, Long, 2)
	if err != nil {
		return execResult{}, err
	}
	c.reg.WriteA(int(op>>9)&7, ea.addr, Long)
	return execResult{length: 2 + ea.ext, cycles: leaTiming.cycles(ea.mode), total: true}, nil
}

// opPEA pushes an effective address.
func opPEA(c *CPU, op uint16) (execResult, error) {
	ea, err := c.effectiveAddress(op&0x3F, Long, 2)
	if err != nil {
		return execResult{}, err
	}
	if err := c.push(ea.addr, Long); err != nil {
		return execResult{}, err
	}
	return execResult{length: 2 + ea.ext, cycles: peaTiming.cycles(ea.mode), total: true}, nil
}

// --- EXG / SWAP ---

// opEXG exchanges two registers.
// Encoding: 1100 XXX1 OOOO OYYY, opmode 01000 Dx/Dy, 01001 Ax/Ay,
// 10001 Dx/Ay.
func opEXG(c *CPU, op uint16) (execResult, error) {
	rx := int(op>>9) & 7
	ry := int(op & 7)

	switch (op >> 3) & 0x1F {
	case 0x08:
		c.reg.D[rx], c.reg.D[ry] = c.reg.D[ry], c.reg.D[rx]
	case 0x09:
		ax, ay := c.reg.ReadA(rx, Long), c.reg.ReadA(ry, Long)
		c.reg.WriteA(rx, ay, Long)
		c.reg.WriteA(ry, ax, Long)
	case 0x11:
		dx, ay := c.reg.D[rx], c.reg.ReadA(ry, Long)
		c.reg.D[rx] = ay
		c.reg.WriteA(ry, dx, Long)
	default:
		return execResult{}, illegal()
	}
	return execResult{length: 2, cycles: 6, total: true}, nil
}

// opSWAP exchanges the halves of Dn.
func opSWAP(c *CPU, op uint16) (execResult, error) {
	dn := op & 7
	v := c.reg.D[dn]
	v = v<<16 | v>>16
	c.reg.D[dn] = v
	c.reg.flagsLogical(v, Long)
	return execResult{length: 2}, nil
}

// --- LINK / UNLK ---

// opLINK pushes An, points An at the new frame and reserves space.
// Encoding: 0100 1110 0101 0AAA + displacement.
func opLINK(c *CPU, op uint16) (execResult, error) {
	an := int(op & 7)
	disp, err := c.extWord(2)
	if err != nil {
		return execResult{}, err
	}
	if err := c.push(c.reg.ReadA(an, Long), Long); err != nil {
		return execResult{}, err
	}
	sp := c.reg.SP()
	c.reg.WriteA(an, sp, Long)
	c.reg.SetSP(sp + uint32(int32(int16(disp))))
	return execResult{length: 4, cycles: 16, total: true}, nil
}

// opUNLK restores SP from An and pops An.
func opUNLK(c *CPU, op uint16) (execResult, error) {
	an := int(op & 7)
	c.reg.SetSP(c.reg.ReadA(an, Long))
	v, err := c.pop(Long)
	if err != nil {
		return execResult{}, err
	}
	c.reg.WriteA(an, v, Long)
	return execResult{length: 2, cycles: 12, total: true}, nil
}

// --- MOVE to/from SR, CCR, USP ---

// opMOVEfromSR stores SR. Not privileged on the 68000.
func opMOVEfromSR(c *CPU, op uint16) (execResult, error) {
	dst, err := c.effectiveAddress(op&0x3F, Word, 2)
	if err != nil {
		return execResult{}, err
	}
	if err := c.store(dst, uint32(c.reg.SR), Word); err != nil {
		return execResult{}, err
	}
	if dst.mode == modeDn {
		return execResult{length: 2, cycles: 6, total: true}, nil
	}
	return execResult{length: 2 + dst.ext, cycles: 8 + eaFetchCycles(dst.mode, Word), total: true}, nil
}

// opMOVEtoCCR loads the condition codes from the low byte of a word
// operand.
func opMOVEtoCCR(c *CPU, op uint16) (execResult, error) {
	src, err := c.resolve(op&0x3F, Word, 2)
	if err != nil {
		return execResult{}, err
	}
	c.reg.SetCCR(uint8(src.value))
	return execResult{length: 2 + src.ext, cycles: 12 + src.cycles, total: true}, nil
}

// opMOVEtoSR loads SR. Privileged.
func opMOVEtoSR(c *CPU, op uint16) (execResult, error) {
	if !c.reg.Supervisor() {
		return execResult{}, privilegeViolation()
	}
	src, err := c.resolve(op&0x3F, Word, 2)
	if err != nil {
		return execResult{}, err
	}
	c.reg.SetSR(uint16(src.value))
	return execResult{length: 2 + src.ext, cycles: 12 + src.cycles, total: true}, nil
}

// opMOVEUSP copies between An and USP. Privileged.
// Encoding: 0100 1110 0110 DAAA, D=1 USP->An.
func opMOVEUSP(c *CPU, op uint16) (execResult, error) {
	if !c.reg.Supervisor() {
		return execResult{}, privilegeViolation()
	}
	an := int(op & 7)
	if op&0x08 != 0 {
		c.reg.WriteA(an, c.reg.USP, Long)
	} else {
		c.reg.USP = c.reg.ReadA(an, Long)
	}
	return execResult{length: 2, cycles: 4, total: true}, nil
}
