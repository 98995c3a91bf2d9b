package m68k

import "github.com/sirupsen/logrus"

// MC68000 exception vector numbers.
const (
	vecReset              = 0 // Initial SSP; initial PC is vector 1
	vecBusError           = 2
	vecAddressError       = 3
	vecIllegalInstruction = 4
	vecDivideByZero       = 5
	vecCHK                = 6
	vecTRAPV              = 7
	vecPrivilegeViolation = 8
	vecTrace              = 9
	vecLineA              = 10
	vecLineF              = 11
	vecSpuriousInterrupt  = 24
	vecAutoVector1        = 25
	vecTrap0              = 32 // TRAP #0 through TRAP #15 = vectors 32-47
)

// Function codes reported in the address error status word.
const (
	fcUserData       = 1
	fcUserProgram    = 2
	fcSupervisorData = 5
	fcSupervisorProg = 6
)

// enterSupervisor switches to supervisor mode with tracing disabled and
// returns the SR in effect before the switch.
func (c *CPU) enterSupervisor() uint16 {
	old := c.reg.SR
	c.reg.SR = (c.reg.SR | flagS) &^ flagT
	return old
}

// raise processes an exception: enters supervisor mode, pushes the return
// frame (PC + SR) on the supervisor stack, and jumps through vector.
// It returns the entry cost. An error means the frame or the vector could
// not be accessed.
func (c *CPU) raise(vector int, returnPC uint32) (int, error) {
	oldSR := c.enterSupervisor()

	if err := c.push(returnPC, Long); err != nil {
		return 0, err
	}
	if err := c.push(uint32(oldSR), Word); err != nil {
		return 0, err
	}
	return vectorCycles(vector), c.jumpVector(vector)
}

// jumpVector loads PC from the exception vector table.
func (c *CPU) jumpVector(vector int) error {
	addr, err := c.readBus(Long, uint32(vector)*4)
	if err != nil {
		return err
	}
	c.reg.PC = addr
	return nil
}

// raiseOrHalt raises vector and halts the CPU if building the frame fails.
func (c *CPU) raiseOrHalt(vector int, returnPC uint32) int {
	n, err := c.raise(vector, returnPC)
	if err != nil {
		c.doubleFault(vector, err)
		return 0
	}
	return n
}

// raiseFault vectors a fault produced by the instruction at start and
// returns the cycles spent.
//
// Address errors, privilege violations and the line A/F emulator traps
// return to the faulting instruction so a handler can emulate or retry
// it. An illegal instruction returns past its opcode word. Divide by
// zero, CHK, TRAPV and TRAP are taken after the instruction completes, so
// they return to the next instruction.
func (c *CPU) raiseFault(f *Fault, start uint32) int {
	returnPC := start
	vector := f.Kind.vector()
	switch f.Kind {
	case IllegalInstruction:
		returnPC = start + 2
	case DivideByZero, ChkTrap, OverflowTrap:
		returnPC = start + f.Length
	case Trap:
		returnPC = start + f.Length
		vector = vecTrap0 + f.Vector
	}

	c.log.WithFields(logrus.Fields{
		"fault":  f.Kind.String(),
		"vector": vector,
		"pc":     start,
		"sr":     c.reg.SR,
	}).Debug("m68k: exception")

	var (
		n   int
		err error
	)
	if f.Kind == AddressError {
		n, err = c.raiseAddressError(f, returnPC)
	} else {
		n, err = c.raise(vector, returnPC)
	}
	if err != nil {
		c.doubleFault(vector, err)
		return f.Cycles
	}
	return n + f.Cycles
}

// raiseAddressError builds the 68000 group 0 frame. From the top of the
// stack: status word, access address, instruction register, SR, PC.
//
// Status word: bit 4 R/W (1 = read), bit 3 I/N (1 = not an instruction
// fetch), bits 2-0 function code.
func (c *CPU) raiseAddressError(f *Fault, returnPC uint32) (int, error) {
	oldSR := c.enterSupervisor()

	fc := uint16(fcUserData)
	if f.Fetch {
		fc = fcUserProgram
	}
	if oldSR&flagS != 0 {
		fc += fcSupervisorData - fcUserData
	}
	status := fc
	if !f.Write {
		status |= 1 << 4
	}
	if !f.Fetch {
		status |= 1 << 3
	}

	frame := []struct {
		v  uint32
		sz Size
	}{
		{returnPC, Long},
		{uint32(oldSR), Word},
		{uint32(c.ir), Word},
		{f.Address, Long},
		{uint32(status), Word},
	}
	for _, w := range frame {
		if err := c.push(w.v, w.sz); err != nil {
			return 0, err
		}
	}
	return vectorCycles(vecAddressError), c.jumpVector(vecAddressError)
}

// doubleFault halts the processor. A fault while stacking an exception
// frame leaves the 68000 unable to continue until it is reset externally.
func (c *CPU) doubleFault(vector int, err error) {
	c.halted = true
	c.stopped = false
	c.log.WithFields(logrus.Fields{
		"vector": vector,
		"pc":     c.reg.PC,
		"ssp":    c.reg.SSP,
	}).WithError(err).Error("m68k: double fault, CPU halted")
}

// processReset runs the reset sequence: supervisor mode, tracing off,
// interrupts masked, SSP from vector 0 and PC from vector 1. No frame is
// pushed.
func (c *CPU) processReset() {
	c.resetPending = false
	c.stopped = false
	c.halted = false
	c.pending = nil
	c.deficit = 0
	c.reg.SetSR(0x2700)

	ssp, err := c.readBus(Long, vecReset*4)
	if err == nil {
		c.reg.SSP = ssp
		err = c.jumpVector(vecReset + 1)
	}
	if err != nil {
		c.doubleFault(vecReset, err)
	}
	c.cycles += uint64(vectorCycles(vecReset))
}

// returnFromException pops SR and PC. Both are read from the supervisor
// stack before the new SR takes effect, since restoring a user-mode SR
// switches the active stack pointer.
func (c *CPU) returnFromException() error {
	sr, err := c.pop(Word)
	if err != nil {
		return err
	}
	pc, err := c.pop(Long)
	if err != nil {
		return err
	}
	c.reg.SetSR(uint16(sr))
	c.reg.PC = pc
	return nil
}
