package m68k

// --- ADD / SUB ---

// opADD handles ADD <ea>,Dn and ADD Dn,<ea>.
// Encoding: 1101 DDD O SS eee eee
//
//	O=0: <ea>+Dn->Dn  O=1: Dn+<ea>-><ea>
func opADD(c *CPU, op uint16) (execResult, error) {
	return addSub(c, op, false)
}

// opSUB handles SUB <ea>,Dn and SUB Dn,<ea>.
func opSUB(c *CPU, op uint16) (execResult, error) {
	return addSub(c, op, true)
}

func addSub(c *CPU, op uint16, sub bool) (execResult, error) {
	dn := int(op>>9) & 7
	sz := sizeEncoding((op >> 6) & 3)

	if op&0x0100 == 0 {
		src, err := c.resolve(op&0x3F, sz, 2)
		if err != nil {
			return execResult{}, err
		}
		d := c.reg.ReadD(dn, sz)
		c.reg.WriteD(dn, c.reg.addOrSub(src.value, d, sub, sz), sz)

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
	r := c.reg.addOrSub(c.reg.ReadD(dn, sz), dst.value, sub, sz)
	if err := c.store(dst, r, sz); err != nil {
		return execResult{}, err
	}
	return execResult{length: 2 + dst.ext, cycles: rmwCycles(sz) + dst.cycles}, nil
}

// addOrSub computes dst+src or dst-src and sets XNZVC.
func (r *Registers) addOrSub(src, dst uint32, sub bool, sz Size) uint32 {
	if sub {
		return r.flagsSub(src, dst, 0, sz, false)
	}
	return r.flagsAdd(src, dst, 0, sz, false)
}

// rmwCycles is the execution cost of a read-modify-write to memory,
// beyond the opcode fetch and the operand's EA cost.
func rmwCycles(sz Size) int {
	if sz == Long {
		return 8
	}
	return 4
}

// --- ADDA / SUBA ---

// opADDA adds to An. Word sources are sign extended; flags are unaffected.
// Encoding: 1101 AAA S11 eee eee, S=1 long.
func opADDA(c *CPU, op uint16) (execResult, error) {
	return addSubA(c, op, false)
}

func opSUBA(c *CPU, op uint16) (execResult, error) {
	return addSubA(c, op, true)
}

func addSubA(c *CPU, op uint16, sub bool) (execResult, error) {
	an := int(op>>9) & 7
	sz := Word
	if op&0x0100 != 0 {
		sz = Long
	}
	src, err := c.resolve(op&0x3F, sz, 2)
	if err != nil {
		return execResult{}, err
	}
	s := signExtend(src.value, sz)
	a := c.reg.ReadA(an, Long)
	if sub {
		a -= s
	} else {
		a += s
	}
	c.reg.WriteA(an, a, Long)

	cycles := 4 + src.cycles
	if sz == Long && src.mode >= modeInd && src.mode != modeImm {
		cycles = 2 + src.cycles
	}
	return execResult{length: 2 + src.ext, cycles: cycles}, nil
}

// --- ADDI / SUBI ---

// opArithImm handles ADDI and SUBI.
// Encoding: 0000 0110 SSee eeee (ADDI), 0000 0100 SSee eeee (SUBI).
func opArithImm(c *CPU, op uint16) (execResult, error) {
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
	r := c.reg.addOrSub(imm, dst.value, op&0x0200 == 0, sz)
	if err := c.store(dst, r, sz); err != nil {
		return execResult{}, err
	}
	return execResult{length: n + dst.ext, cycles: immCycles(dst, sz)}, nil
}

// immCycles is the cost of an immediate operation beyond the opcode
// fetch: 8/16 total to Dn, 12/20 plus EA to memory.
func immCycles(dst operand, sz Size) int {
	if dst.mode == modeDn {
		if sz == Long {
			return 12
		}
		return 4
	}
	return 2*rmwCycles(sz) + dst.cycles
}

// --- ADDQ / SUBQ ---

// opQuick handles ADDQ and SUBQ with a 1-8 immediate in the opcode.
// Encoding: 0101 DDD O SS eee eee, O=1 subtract. An destinations always
// operate on the full register and leave the condition codes alone.
func opQuick(c *CPU, op uint16) (execResult, error) {
	data := uint32((op >> 9) & 7)
	if data == 0 {
		data = 8
	}
	sub := op&0x0100 != 0
	sz := sizeEncoding((op >> 6) & 3)
	field := op & 0x3F

	if decodeMode(field) == modeAn {
		an := int(field & 7)
		a := c.reg.ReadA(an, Long)
		if sub {
			a -= data
		} else {
			a += data
		}
		c.reg.WriteA(an, a, Long)
		return execResult{length: 2, cycles: 4}, nil
	}

	dst, err := c.resolve(field, sz, 2)
	if err != nil {
		return execResult{}, err
	}
	r := c.reg.addOrSub(data, dst.value, sub, sz)
	if err := c.store(dst, r, sz); err != nil {
		return execResult{}, err
	}
	if dst.mode == modeDn {
		if sz == Long {
			return execResult{length: 2, cycles: 4}, nil
		}
		return execResult{length: 2}, nil
	}
	return execResult{length: 2 + dst.ext, cycles: rmwCycles(sz) + dst.cycles}, nil
}

// --- ADDX / SUBX ---

// opADDX adds with extend. Z is only ever cleared so it stays valid
// across a multi-precision chain.
// Encoding: 1101 XXX1 SS00 RYYY, R=0 Dy,Dx  R=1 -(Ay),-(Ax)
func opADDX(c *CPU, op uint16) (execResult, error) {
	return extended(c, op, false)
}

func opSUBX(c *CPU, op uint16) (execResult, error) {
	return extended(c, op, true)
}

func extended(c *CPU, op uint16, sub bool) (execResult, error) {
	rx := op >> 9 & 7
	ry := op & 7
	sz := sizeEncoding((op >> 6) & 3)
	x := c.reg.xBit()

	apply := func(s, d uint32) uint32 {
		if sub {
			return c.reg.flagsSub(s, d, x, sz, true)
		}
		return c.reg.flagsAdd(s, d, x, sz, true)
	}

	if op&0x0008 == 0 {
		s := c.reg.ReadD(int(ry), sz)
		d := c.reg.ReadD(int(rx), sz)
		c.reg.WriteD(int(rx), apply(s, d), sz)
		if sz == Long {
			return execResult{length: 2, cycles: 4}, nil
		}
		return execResult{length: 2}, nil
	}

	src, err := c.resolve(eaField(modePreDec, ry), sz, 2)
	if err != nil {
		return execResult{}, err
	}
	dst, err := c.resolve(eaField(modePreDec, rx), sz, 2)
	if err != nil {
		return execResult{}, err
	}
	if err := c.store(dst, apply(src.value, dst.value), sz); err != nil {
		return execResult{}, err
	}
	cycles := 18
	if sz == Long {
		cycles = 30
	}
	return execResult{length: 2, cycles: cycles, total: true}, nil
}

// --- CMP / CMPA / CMPI / CMPM ---

// opCMP compares <ea> with Dn.
// Encoding: 1011 DDD0 SSee eeee
func opCMP(c *CPU, op uint16) (execResult, error) {
	sz := sizeEncoding((op >> 6) & 3)
	src, err := c.resolve(op&0x3F, sz, 2)
	if err != nil {
		return execResult{}, err
	}
	c.reg.flagsCmp(src.value, c.reg.ReadD(int(op>>9)&7, sz), sz)

	cycles := src.cycles
	if sz == Long {
		cycles += 2
	}
	return execResult{length: 2 + src.ext, cycles: cycles}, nil
}

// opCMPA compares <ea> with An as a long. Word sources are sign extended.
func opCMPA(c *CPU, op uint16) (execResult, error) {
	sz := Word
	if op&0x0100 != 0 {
		sz = Long
	}
	src, err := c.resolve(op&0x3F, sz, 2)
	if err != nil {
		return execResult{}, err
	}
	c.reg.flagsCmp(signExtend(src.value, sz), c.reg.ReadA(int(op>>9)&7, Long), Long)
	return execResult{length: 2 + src.ext, cycles: 2 + src.cycles}, nil
}

// opCMPI compares an immediate with <ea>.
func opCMPI(c *CPU, op uint16) (execResult, error) {
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
	c.reg.flagsCmp(imm, dst.value, sz)

	cycles := 4 + dst.cycles
	if sz == Long {
		if dst.mode == modeDn {
			cycles = 10
		} else {
			cycles += 4
		}
	}
	return execResult{length: n + dst.ext, cycles: cycles}, nil
}

// opCMPM compares (Ay)+ with (Ax)+.
// Encoding: 1011 XXX1 SS00 1YYY
func opCMPM(c *CPU, op uint16) (execResult, error) {
	sz := sizeEncoding((op >> 6) & 3)
	src, err := c.resolve(eaField(modePostInc, op&7), sz, 2)
	if err != nil {
		return execResult{}, err
	}
	dst, err := c.resolve(eaField(modePostInc, op>>9&7), sz, 2)
	if err != nil {
		return execResult{}, err
	}
	c.reg.flagsCmp(src.value, dst.value, sz)

	cycles := 12
	if sz == Long {
		cycles = 20
	}
	return execResult{length: 2, cycles: cycles, total: true}, nil
}

// --- MULU / MULS ---

// opMULU multiplies the low words unsigned into a long Dn.
// Encoding: 1100 DDD0 11ee eeee
func opMULU(c *CPU, op uint16) (execResult, error) {
	dn := op >> 9 & 7
	src, err := c.resolve(op&0x3F, Word, 2)
	if err != nil {
		return execResult{}, err
	}
	r := (c.reg.D[dn] & 0xFFFF) * src.value
	c.reg.D[dn] = r
	c.reg.flagsLogical(r, Long)
	return execResult{length: 2 + src.ext, cycles: 66 + src.cycles}, nil
}

// opMULS multiplies the low words signed into a long Dn.
func opMULS(c *CPU, op uint16) (execResult, error) {
	dn := op >> 9 & 7
	src, err := c.resolve(op&0x3F, Word, 2)
	if err != nil {
		return execResult{}, err
	}
	r := uint32(int32(int16(c.reg.D[dn])) * int32(int16(src.value)))
	c.reg.D[dn] = r
	c.reg.flagsLogical(r, Long)
	return execResult{length: 2 + src.ext, cycles: 66 + src.cycles}, nil
}

// --- DIVU / DIVS ---

// divideByZero is raised after the divisor is fetched, so it carries the
// EA cost and returns past the instruction.
func (c *CPU) divideByZero(src operand) error {
	c.reg.SR &^= flagC
	return &Fault{Kind: DivideByZero, Length: 2 + src.ext, Cycles: src.cycles}
}

// opDIVU divides the long Dn by an unsigned word. The result is
// remainder:quotient. On overflow V is set and Dn is left unchanged.
// Encoding: 1000 DDD0 11ee eeee
func opDIVU(c *CPU, op uint16) (execResult, error) {
	dn := op >> 9 & 7
	src, err := c.resolve(op&0x3F, Word, 2)
	if err != nil {
		return execResult{}, err
	}
	if src.value == 0 {
		return execResult{}, c.divideByZero(src)
	}

	res := execResult{length: 2 + src.ext, cycles: 136 + src.cycles}
	d := c.reg.D[dn]
	q := d / src.value
	if q > 0xFFFF {
		c.reg.SR |= flagV
		c.reg.SR &^= flagC
		return res, nil
	}
	rem := d % src.value
	c.reg.D[dn] = rem<<16 | q
	c.reg.flagsLogical(q, Word)
	return res, nil
}

// opDIVS divides the long Dn by a signed word. The remainder takes the
// sign of the dividend.
func opDIVS(c *CPU, op uint16) (execResult, error) {
	dn := op >> 9 & 7
	src, err := c.resolve(op&0x3F, Word, 2)
	if err != nil {
		return execResult{}, err
	}
	if src.value == 0 {
		return execResult{}, c.divideByZero(src)
	}

	res := execResult{length: 2 + src.ext, cycles: 154 + src.cycles}
	d := int64(int32(c.reg.D[dn]))
	s := int64(int16(src.value))
	q := d / s
	if q < -32768 || q > 32767 {
		c.reg.SR |= flagV | flagN
		c.reg.SR &^= flagC | flagZ
		return res, nil
	}
	rem := d % s
	c.reg.D[dn] = uint32(rem)<<16 | uint32(q)&0xFFFF
	c.reg.flagsLogical(uint32(q), Word)
	return res, nil
}

// --- NEG / NEGX / CLR ---

// opNEG negates <ea>.
// Encoding: 0100 0100 SSee eeee
func opNEG(c *CPU, op uint16) (execResult, error) {
	return unary(c, op, func(v uint32, sz Size) uint32 {
		return c.reg.flagsSub(v, 0, 0, sz, false)
	})
}

// opNEGX negates <ea> with extend, keeping Z sticky.
func opNEGX(c *CPU, op uint16) (execResult, error) {
	x := c.reg.xBit()
	return unary(c, op, func(v uint32, sz Size) uint32 {
		return c.reg.flagsSub(v, 0, x, sz, true)
	})
}

// unary applies fn to a read-modify-write data alterable operand.
// Costs 4/6 to Dn and 8/12 plus EA to memory.
func unary(c *CPU, op uint16, fn func(v uint32, sz Size) uint32) (execResult, error) {
	sz := sizeEncoding((op >> 6) & 3)
	dst, err := c.resolve(op&0x3F, sz, 2)
	if err != nil {
		return execResult{}, err
	}
	if err := c.store(dst, fn(dst.value, sz), sz); err != nil {
		return execResult{}, err
	}
	return execResult{length: 2 + dst.ext, cycles: unaryCycles(dst, sz)}, nil
}

func unaryCycles(dst operand, sz Size) int {
	if dst.mode == modeDn {
		if sz == Long {
			return 2
		}
		return 0
	}
	return rmwCycles(sz) + dst.cycles
}

// opCLR zeroes <ea>.
func opCLR(c *CPU, op uint16) (execResult, error) {
	sz := sizeEncoding((op >> 6) & 3)
	dst, err := c.effectiveAddress(op&0x3F, sz, 2)
	if err != nil {
		return execResult{}, err
	}
	if err := c.store(dst, 0, sz); err != nil {
		return execResult{}, err
	}
	c.reg.SR = c.reg.SR&^(flagN|flagV|flagC) | flagZ

	dst.cycles = eaFetchCycles(dst.mode, sz)
	return execResult{length: 2 + dst.ext, cycles: unaryCycles(dst, sz)}, nil
}

// --- EXT ---

// opEXT sign extends Dn: byte to word (EXT.W) or word to long (EXT.L).
// Encoding: 0100 1000 1S00 0DDD
func opEXT(c *CPU, op uint16) (execResult, error) {
	dn := int(op & 7)
	if op&0x0040 != 0 {
		v := signExtend(c.reg.D[dn], Word)
		c.reg.D[dn] = v
		c.reg.flagsLogical(v, Long)
	} else {
		v := signExtend(c.reg.D[dn], Byte)
		c.reg.WriteD(dn, v, Word)
		c.reg.flagsLogical(v, Word)
	}
	return execResult{length: 2}, nil
}

// --- CHK ---

// opCHK traps if the low word of Dn is negative or above the bound.
// Encoding: 0100 DDD1 10ee eeee
func opCHK(c *CPU, op uint16) (execResult, error) {
	src, err := c.resolve(op&0x3F, Word, 2)
	if err != nil {
		return execResult{}, err
	}
	d := int16(c.reg.D[op>>9&7])
	bound := int16(src.value)

	trap := func() error {
		return &Fault{Kind: ChkTrap, Length: 2 + src.ext, Cycles: src.cycles}
	}
	switch {
	case d < 0:
		c.reg.SR |= flagN
		return execResult{}, trap()
	case d > bound:
		c.reg.SR &^= flagN
		return execResult{}, trap()
	}
	return execResult{length: 2 + src.ext, cycles: 6 + src.cycles}, nil
}

// --- TST ---

// opTST sets NZ from <ea> and clears VC.
// Encoding: 0100 1010 SSee eeee
func opTST(c *CPU, op uint16) (execResult, error) {
	sz := sizeEncoding((op >> 6) & 3)
	src, err := c.resolve(op&0x3F, sz, 2)
	if err != nil {
		return execResult{}, err
	}
	c.reg.flagsLogical(src.value, sz)
	return execResult{length: 2 + src.ext, cycles: src.cycles}, nil
}
