package m68k

// eaMode is a fully decoded addressing mode.
type eaMode uint8

const (
	modeDn      eaMode = iota // Data register direct
	modeAn                    // Address register direct
	modeInd                   // (An)
	modePostInc               // (An)+
	modePreDec                // -(An)
	modeDisp                  // d16(An)
	modeIndex                 // d8(An,Xn)
	modeAbsW                  // abs.W
	modeAbsL                  // abs.L
	modePCDisp                // d16(PC)
	modePCIndex               // d8(PC,Xn)
	modeImm                   // #imm
	modeInvalid
)

// decodeMode maps the 6-bit mode/register field to an addressing mode.
func decodeMode(field uint16) eaMode {
	mode := (field >> 3) & 7
	if mode < 7 {
		return eaMode(mode)
	}
	switch field & 7 {
	case 0:
		return modeAbsW
	case 1:
		return modeAbsL
	case 2:
		return modePCDisp
	case 3:
		return modePCIndex
	case 4:
		return modeImm
	}
	return modeInvalid
}

// eaField builds a mode/register field for callers with a fixed mode,
// such as ADDX -(Ay),-(Ax) or CMPM (Ay)+,(Ax)+.
func eaField(mode eaMode, reg uint16) uint16 {
	return uint16(mode)<<3 | reg&7
}

// operand is a resolved effective address.
type operand struct {
	value  uint32   // loaded operand (when loaded)
	addr   uint32   // memory address, or register number for Dn/An
	loc    Location // where the operand lives
	mode   eaMode
	ext    uint32 // extension bytes consumed by the addressing mode
	cycles int    // cost of resolving (and loading) the operand
}

// resolve decodes field, applies any (An)+ / -(An) side effect and loads
// the operand. offset is the number of instruction bytes that precede this
// operand's extension words.
func (c *CPU) resolve(field uint16, sz Size, offset uint32) (operand, error) {
	o, err := c.locate(field, sz, offset)
	if err != nil {
		return o, err
	}
	if o.value, err = c.read(o.loc, o.addr, sz, false); err != nil {
		return o, err
	}
	o.cycles = eaFetchCycles(o.mode, sz)
	return o, nil
}

// effectiveAddress decodes field without loading the operand, for
// instructions that only need the location (LEA, PEA, JMP, JSR, MOVEM)
// and for destinations that are written without being read.
func (c *CPU) effectiveAddress(field uint16, sz Size, offset uint32) (operand, error) {
	return c.locate(field, sz, offset)
}

// load reads the operand at a location computed by effectiveAddress.
func (c *CPU) load(o operand, sz Size) (uint32, error) {
	return c.read(o.loc, o.addr, sz, false)
}

// store writes v to a resolved operand.
func (c *CPU) store(o operand, v uint32, sz Size) error {
	if o.loc == LocImmediate {
		return illegal()
	}
	return c.write(o.loc, o.addr, v, sz)
}

func (c *CPU) locate(field uint16, sz Size, offset uint32) (operand, error) {
	reg := int(field & 7)
	o := operand{mode: decodeMode(field), loc: LocMemory}

	switch o.mode {
	case modeDn:
		o.loc, o.addr = LocDataRegister, uint32(reg)

	case modeAn:
		o.loc, o.addr = LocAddressRegister, uint32(reg)

	case modeInd:
		o.addr = c.reg.ReadA(reg, Long)

	case modePostInc:
		o.addr = c.reg.ReadA(reg, Long)
		c.reg.WriteA(reg, o.addr+incrementFor(reg, sz), Long)

	case modePreDec:
		o.addr = c.reg.ReadA(reg, Long) - incrementFor(reg, sz)
		c.reg.WriteA(reg, o.addr, Long)

	case modeDisp:
		disp, err := c.extWord(offset)
		if err != nil {
			return o, err
		}
		o.addr = c.reg.ReadA(reg, Long) + uint32(int32(int16(disp)))
		o.ext = 2

	case modeIndex:
		ext, err := c.extWord(offset)
		if err != nil {
			return o, err
		}
		o.addr = c.indexed(c.reg.ReadA(reg, Long), ext)
		o.ext = 2

	case modeAbsW:
		w, err := c.extWord(offset)
		if err != nil {
			return o, err
		}
		o.addr = uint32(int32(int16(w)))
		o.ext = 2

	case modeAbsL:
		l, err := c.readBus(Long, c.reg.PC+offset)
		if err != nil {
			return o, err
		}
		o.addr = l
		o.ext = 4

	case modePCDisp:
		base := c.reg.PC + offset // PC points at the extension word
		disp, err := c.extWord(offset)
		if err != nil {
			return o, err
		}
		o.addr = base + uint32(int32(int16(disp)))
		o.ext = 2

	case modePCIndex:
		base := c.reg.PC + offset
		ext, err := c.extWord(offset)
		if err != nil {
			return o, err
		}
		o.addr = c.indexed(base, ext)
		o.ext = 2

	case modeImm:
		o.loc = LocImmediate
		o.addr = c.reg.PC + offset
		o.ext = immSize(sz)

	default:
		return o, illegal()
	}
	return o, nil
}

// incrementFor is the (An)+ / -(An) step. A7 moves by 2 for bytes so the
// stack stays word aligned.
func incrementFor(reg int, sz Size) uint32 {
	if reg == 7 {
		return sz.step()
	}
	return uint32(sz)
}

// indexed computes base + d8 + Xn from a brief extension word.
// Format: D/A | Reg(3) | W/L | Scale(2) | 0 | Disp(8). The 68000 ignores
// the scale bits.
func (c *CPU) indexed(base uint32, ext uint16) uint32 {
	disp := int32(int8(ext & 0xFF))
	xn := int((ext >> 12) & 7)

	var idx uint32
	if ext&0x8000 != 0 {
		idx = c.reg.ReadA(xn, Long)
	} else {
		idx = c.reg.D[xn]
	}
	// Bit 11: 0 = sign-extended word index, 1 = long index
	if ext&0x0800 == 0 {
		idx = signExtend(idx, Word)
	}
	return base + idx + uint32(disp)
}
