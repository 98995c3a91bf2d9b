package m68k

// --- NOP ---

func opNOP(c *CPU, op uint16) (execResult, error) {
	return execResult{length: 2}, nil
}

// --- STOP ---

// opSTOP loads SR and waits for an interrupt. Privileged.
// PC moves past the instruction, so an interrupt frame returns to the
// instruction that follows STOP.
func opSTOP(c *CPU, op uint16) (execResult, error) {
	if !c.reg.Supervisor() {
		return execResult{}, privilegeViolation()
	}
	imm, err := c.readImmediate(2, Word, false)
	if err != nil {
		return execResult{}, err
	}
	c.reg.SetSR(uint16(imm))
	c.stopped = true
	return execResult{length: 4}, nil
}

// --- RESET ---

// opRESET asserts the external reset line. Only peripherals are reset;
// the processor state is unchanged. Privileged.
func opRESET(c *CPU, op uint16) (execResult, error) {
	if !c.reg.Supervisor() {
		return execResult{}, privilegeViolation()
	}
	c.bus.Reset()
	return execResult{length: 2, cycles: 132, total: true}, nil
}

// --- TRAP / TRAPV / ILLEGAL ---

// opTRAP raises one of the sixteen TRAP vectors (32-47).
// Encoding: 0100 1110 0100 VVVV
func opTRAP(c *CPU, op uint16) (execResult, error) {
	return execResult{}, &Fault{Kind: Trap, Vector: int(op & 0xF), Length: 2}
}

// opTRAPV traps if V is set.
func opTRAPV(c *CPU, op uint16) (execResult, error) {
	if c.reg.V() {
		return execResult{}, &Fault{Kind: OverflowTrap, Length: 2}
	}
	return execResult{length: 2}, nil
}

// opILLEGAL handles 0x4AFC and every word no decode list accepts.
func opILLEGAL(c *CPU, op uint16) (execResult, error) {
	return execResult{}, illegal()
}

// --- Line A / Line F ---

// opLineA traps unimplemented 1010 opcodes to their emulator vector.
func opLineA(c *CPU, op uint16) (execResult, error) {
	return execResult{}, &Fault{Kind: LineA}
}

// opLineF traps unimplemented 1111 opcodes to their emulator vector.
func opLineF(c *CPU, op uint16) (execResult, error) {
	return execResult{}, &Fault{Kind: LineF}
}
