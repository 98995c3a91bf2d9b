// Package m68k implements a Motorola 68000 CPU emulator.
//
// The register file holds D0-D7, A0-A6, both stack pointers, PC and SR.
// A7 has no storage of its own: it names USP or SSP depending on the S bit,
// so a mode change in SR swaps stacks without copying. Addresses are masked
// to the 68000's 24-bit bus before they reach the Bus.
//
// Each Step performs one fetch-decode-execute cycle, or one exception
// entry. Processor faults (address error, illegal instruction, divide by
// zero, privilege violation, traps) are vectored through the exception
// table in memory exactly as the hardware would; they are never returned
// to the caller.
package m68k

import (
	"errors"

	"github.com/sirupsen/logrus"
)

// Bus provides memory access for the CPU.
// All addresses are 24-bit (masked by the CPU before calling) and word and
// long accesses are always even.
type Bus interface {
	Read(op Size, addr uint32) uint32
	Write(op Size, addr uint32, val uint32)
	Reset()
}

// CPU is the MC68000 processor.
type CPU struct {
	reg   Registers
	bus   Bus
	log   logrus.FieldLogger
	trace func(pc uint32, op uint16)

	cycles     uint64
	lastCycles int

	// The instruction register holds the first word of the currently
	// executing instruction, latched at fetch time.
	ir uint16

	stopped      bool // Set by STOP, cleared by interrupt or reset
	halted       bool // Set by a double fault
	resetPending bool

	pending interruptQueue

	// Cycle overshoot from RunCycles when an instruction's cost exceeded
	// the budget.
	deficit int
}

// New creates a CPU wired to bus. Unless WithRegisters is given, the reset
// sequence runs immediately: SSP is loaded from address 0 and PC from
// address 4.
func New(bus Bus, opts ...Option) *CPU {
	c := &CPU{bus: bus, log: logrus.StandardLogger(), resetPending: true}
	for _, opt := range opts {
		opt(c)
	}
	if c.resetPending {
		c.processReset()
		c.cycles = 0
	}
	return c
}

// Reset schedules the reset sequence for the next Step.
func (c *CPU) Reset() {
	c.resetPending = true
}

// Halted returns true if the CPU is halted due to a double fault.
func (c *CPU) Halted() bool {
	return c.halted
}

// Stopped returns true while the CPU waits in a STOP instruction.
func (c *CPU) Stopped() bool {
	return c.stopped
}

// Step executes a single instruction, or enters a pending exception.
// It returns false when the CPU is halted or when PC lies outside a
// bounded memory image; there is nothing more to execute in either case.
// A stopped CPU still returns true so an interrupt can wake it.
func (c *CPU) Step() bool {
	if c.halted {
		c.lastCycles = 0
		return false
	}

	before := c.cycles
	switch {
	case c.resetPending:
		c.processReset()
	case c.serviceInterrupt():
	case c.stopped:
		c.cycles += stoppedCycles
	default:
		if b, ok := c.bus.(Bounded); ok && !b.Contains(c.reg.PC&addrMask, Word) {
			c.lastCycles = 0
			return false
		}
		c.execute()
	}
	c.lastCycles = int(c.cycles - before)

	return !c.halted
}

// execute runs the instruction at PC.
func (c *CPU) execute() {
	start := c.reg.PC
	tracing := c.reg.Tracing()

	op, err := c.extWord(0)
	if err != nil {
		var f *Fault
		if errors.As(err, &f) {
			f.Fetch = true
		}
		c.fault(err, start)
		return
	}
	c.ir = op
	if c.trace != nil {
		c.trace(start, op)
	}

	res, err := opcodeTable[op](c, op)
	if err != nil {
		c.fault(err, start)
		return
	}

	if res.total {
		c.cycles += uint64(res.cycles)
	} else {
		c.cycles += uint64(opcodeFetchCycles + res.cycles)
	}
	c.reg.PC += res.length

	if tracing && !c.halted {
		c.cycles += uint64(c.raiseOrHalt(vecTrace, c.reg.PC))
	}
}

// fault routes a handler error into the exception controller. Anything
// other than a modelled processor fault is a defect in the emulator.
func (c *CPU) fault(err error, start uint32) {
	var f *Fault
	if !errors.As(err, &f) {
		panic(err)
	}
	c.cycles += uint64(c.raiseFault(f, start))
}

// RunCycles executes instructions until budget cycles have been used.
// If a previous call overshot its budget, the deficit is paid down first.
// When the last instruction's cost exceeds what is left, the excess is
// stored as a deficit for the next call. Returns the cycles consumed from
// this call's budget, which is less than budget only if the CPU halted.
func (c *CPU) RunCycles(budget int) int {
	used := 0
	if c.deficit > 0 {
		if budget <= c.deficit {
			c.deficit -= budget
			return budget
		}
		used = c.deficit
		c.deficit = 0
	}

	for used < budget {
		if !c.Step() {
			return used
		}
		used += c.lastCycles
	}

	c.deficit = used - budget
	return budget
}

// Deficit returns the cycles RunCycles still owes from an overshoot.
func (c *CPU) Deficit() int {
	return c.deficit
}

// Cycles returns the total cycle count since construction.
func (c *CPU) Cycles() uint64 {
	return c.cycles
}

// LastCycles returns the cost of the most recent Step.
func (c *CPU) LastCycles() int {
	return c.lastCycles
}

// AddCycles advances the cycle counter by n without executing any
// instruction, e.g. while another bus master holds the bus.
func (c *CPU) AddCycles(n uint64) {
	c.cycles += n
}

// Registers returns a snapshot of the current register state.
func (c *CPU) Registers() Registers {
	return c.reg
}

// IR returns the first word of the most recently fetched instruction.
func (c *CPU) IR() uint16 {
	return c.ir
}

// Bus returns the memory the CPU is wired to.
func (c *CPU) Bus() Bus {
	return c.bus
}

// SetState sets all programmer-visible registers directly without
// performing a reset. This is intended for testing, where exact CPU state
// must be established before executing an instruction.
func (c *CPU) SetState(regs Registers) {
	c.reg = regs
	c.reg.SetSR(regs.SR)
	c.stopped = false
	c.halted = false
	c.resetPending = false
	c.cycles = 0
	c.lastCycles = 0
	c.deficit = 0
	c.pending = nil
}
