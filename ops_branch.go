package m68k

// branchTarget returns the destination of a Bcc/BRA/BSR and the
// instruction length. An 8-bit displacement of zero means a 16-bit
// displacement word follows. Displacements are relative to the opcode
// address plus two.
func (c *CPU) branchTarget(op uint16) (uint32, uint32, error) {
	base := c.reg.PC + 2
	if disp := op & 0xFF; disp != 0 {
		return base + signExtend(uint32(disp), Byte), 2, nil
	}
	w, err := c.extWord(2)
	if err != nil {
		return 0, 0, err
	}
	return base + signExtend(uint32(w), Word), 4, nil
}

// --- Bcc / BRA / BSR ---

// opBcc branches when the condition holds.
// Encoding: 0110 CCCC dddd dddd. Condition codes 0 and 1 are BRA and BSR.
func opBcc(c *CPU, op uint16) (execResult, error) {
	target, length, err := c.branchTarget(op)
	if err != nil {
		return execResult{}, err
	}
	if c.reg.testCondition(op >> 8) {
		c.reg.PC = target
		return execResult{cycles: 10, total: true}, nil
	}
	if length == 4 {
		return execResult{length: 4, cycles: 12, total: true}, nil
	}
	return execResult{length: 2, cycles: 8, total: true}, nil
}

// opBRA branches unconditionally.
func opBRA(c *CPU, op uint16) (execResult, error) {
	target, _, err := c.branchTarget(op)
	if err != nil {
		return execResult{}, err
	}
	c.reg.PC = target
	return execResult{cycles: 10, total: true}, nil
}

// opBSR pushes the return address and branches.
func opBSR(c *CPU, op uint16) (execResult, error) {
	target, length, err := c.branchTarget(op)
	if err != nil {
		return execResult{}, err
	}
	if err := c.push(c.reg.PC+length, Long); err != nil {
		return execResult{}, err
	}
	c.reg.PC = target
	return execResult{cycles: 18, total: true}, nil
}

// --- DBcc ---

// opDBcc decrements and branches until the condition holds or the low
// word of Dn reaches -1.
// Encoding: 0101 CCCC 1100 1DDD + displacement
func opDBcc(c *CPU, op uint16) (execResult, error) {
	disp, err := c.extWord(2)
	if err != nil {
		return execResult{}, err
	}
	if c.reg.testCondition(op >> 8) {
		return execResult{length: 4, cycles: 12, total: true}, nil
	}

	dn := int(op & 7)
	count := uint16(c.reg.D[dn]) - 1
	c.reg.WriteD(dn, uint32(count), Word)
	if count == 0xFFFF {
		return execResult{length: 4, cycles: 14, total: true}, nil
	}
	c.reg.PC += 2 + signExtend(uint32(disp), Word)
	return execResult{cycles: 10, total: true}, nil
}

// --- Scc ---

// opScc sets a byte to all ones if the condition holds, else to zero.
// Encoding: 0101 CCCC 11ee eeee
func opScc(c *CPU, op uint16) (execResult, error) {
	dst, err := c.effectiveAddress(op&0x3F, Byte, 2)
	if err != nil {
		return execResult{}, err
	}
	cond := c.reg.testCondition(op >> 8)
	var v uint32
	if cond {
		v = 0xFF
	}
	if err := c.store(dst, v, Byte); err != nil {
		return execResult{}, err
	}

	if dst.mode == modeDn {
		if cond {
			return execResult{length: 2, cycles: 6, total: true}, nil
		}
		return execResult{length: 2, cycles: 4, total: true}, nil
	}
	return execResult{length: 2 + dst.ext, cycles: 8 + eaFetchCycles(dst.mode, Byte), total: true}, nil
}

// --- JMP / JSR ---

// opJMP jumps to a control addressing mode.
// Encoding: 0100 1110 11ee eeee
func opJMP(c *CPU, op uint16) (execResult, error) {
	ea, err := c.effectiveAddress(op&0x3F, Long, 2)
	if err != nil {
		return execResult{}, err
	}
	c.reg.PC = ea.addr
	return execResult{cycles: jmpTiming.cycles(ea.mode), total: true}, nil
}

// opJSR pushes the address of the next instruction and jumps.
// Encoding: 0100 1110 10ee eeee
func opJSR(c *CPU, op uint16) (execResult, error) {
	ea, err := c.effectiveAddress(op&0x3F, Long, 2)
	if err != nil {
		return execResult{}, err
	}
	if err := c.push(c.reg.PC+2+ea.ext, Long); err != nil {
		return execResult{}, err
	}
	c.reg.PC = ea.addr
	return execResult{cycles: jsrTiming.cycles(ea.mode), total: true}, nil
}

// --- RTS / RTE / RTR ---

func opRTS(c *CPU, op uint16) (execResult, error) {
	pc, err := c.pop(Long)
	if err != nil {
		return execResult{}, err
	}
	c.reg.PC = pc
	return execResult{cycles: 16, total: true}, nil
}

// opRTE returns from an exception. Privileged.
func opRTE(c *CPU, op uint16) (execResult, error) {
	if !c.reg.Supervisor() {
		return execResult{}, privilegeViolation()
	}
	if err := c.returnFromException(); err != nil {
		return execResult{}, err
	}
	return execResult{cycles: 20, total: true}, nil
}

// opRTR restores the condition codes and returns.
func opRTR(c *CPU, op uint16) (execResult, error) {
	ccr, err := c.pop(Word)
	if err != nil {
		return execResult{}, err
	}
	pc, err := c.pop(Long)
	if err != nil {
		return execResult{}, err
	}
	c.reg.SetCCR(uint8(ccr))
	c.reg.PC = pc
	return execResult{cycles: 20, total: true}, nil
}
