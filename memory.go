package m68k

// addrMask limits addresses to the 68000's 24-bit external bus.
const addrMask = 0xFFFFFF

// Location is where an operand lives.
type Location int

const (
	LocDataRegister Location = iota
	LocAddressRegister
	LocMemory
	LocImmediate
	LocStatusRegister
)

func (l Location) String() string {
	switch l {
	case LocDataRegister:
		return "Dn"
	case LocAddressRegister:
		return "An"
	case LocMemory:
		return "memory"
	case LocImmediate:
		return "immediate"
	case LocStatusRegister:
		return "SR"
	}
	return "unknown"
}

// read returns the sz-bit value at addr in loc, optionally sign extended.
// For register locations addr is the register number.
func (c *CPU) read(loc Location, addr uint32, sz Size, signed bool) (uint32, error) {
	var v uint32
	switch loc {
	case LocDataRegister:
		v = c.reg.ReadD(int(addr), sz)
	case LocAddressRegister:
		v = c.reg.ReadA(int(addr), sz)
	case LocMemory:
		var err error
		if v, err = c.readBus(sz, addr); err != nil {
			return 0, err
		}
	case LocImmediate:
		var err error
		if v, err = c.readImmediateAt(addr, sz); err != nil {
			return 0, err
		}
	case LocStatusRegister:
		v = uint32(c.reg.SR) & sz.Mask()
	default:
		return 0, illegal()
	}
	if signed {
		v = signExtend(v, sz)
	}
	return v, nil
}

// write stores the low sz bits of v at addr in loc.
func (c *CPU) write(loc Location, addr, v uint32, sz Size) error {
	switch loc {
	case LocDataRegister:
		c.reg.WriteD(int(addr), v, sz)
	case LocAddressRegister:
		c.reg.WriteA(int(addr), v, sz)
	case LocMemory:
		return c.writeBus(sz, addr, v)
	case LocStatusRegister:
		switch sz {
		case Byte:
			c.reg.SetCCR(uint8(v))
		case Word:
			c.reg.SetSR(uint16(v))
		default:
			return illegal()
		}
	default:
		return illegal()
	}
	return nil
}

// readBus reads from the bus with 24-bit address masking. Word and long
// accesses to odd addresses fault before the bus is touched.
func (c *CPU) readBus(sz Size, addr uint32) (uint32, error) {
	addr &= addrMask
	if sz != Byte && addr&1 != 0 {
		return 0, addressError(addr, false)
	}
	return c.bus.Read(sz, addr) & sz.Mask(), nil
}

// writeBus writes to the bus with 24-bit address masking. Misaligned
// accesses fault without writing any byte.
func (c *CPU) writeBus(sz Size, addr, v uint32) error {
	addr &= addrMask
	if sz != Byte && addr&1 != 0 {
		return addressError(addr, true)
	}
	c.bus.Write(sz, addr, v&sz.Mask())
	return nil
}

// readImmediateAt reads an immediate operand stored at addr in the
// instruction stream. Byte immediates occupy the low half of a word.
func (c *CPU) readImmediateAt(addr uint32, sz Size) (uint32, error) {
	if sz == Byte {
		v, err := c.readBus(Word, addr)
		return v & 0xFF, err
	}
	return c.readBus(sz, addr)
}

// readImmediate reads the immediate operand located offset bytes past the
// start of the current instruction.
func (c *CPU) readImmediate(offset uint32, sz Size, signed bool) (uint32, error) {
	return c.read(LocImmediate, c.reg.PC+offset, sz, signed)
}

// extWord reads the extension word offset bytes into the instruction.
func (c *CPU) extWord(offset uint32) (uint16, error) {
	v, err := c.readBus(Word, c.reg.PC+offset)
	return uint16(v), err
}

// immSize is the number of instruction-stream bytes an immediate of size
// sz occupies.
func immSize(sz Size) uint32 {
	if sz == Long {
		return 4
	}
	return 2
}

// push decrements the active stack pointer and stores v.
func (c *CPU) push(v uint32, sz Size) error {
	sp := c.reg.SP() - sz.step()
	if err := c.writeBus(sz, sp, v); err != nil {
		return err
	}
	c.reg.SetSP(sp)
	return nil
}

// pop loads a value from the active stack and increments the stack pointer.
func (c *CPU) pop(sz Size) (uint32, error) {
	sp := c.reg.SP()
	v, err := c.readBus(sz, sp)
	if err != nil {
		return 0, err
	}
	c.reg.SetSP(sp + sz.step())
	return v, nil
}
