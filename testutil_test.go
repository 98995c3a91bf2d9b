package m68k

import (
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus"
)

// Test memory layout. Code runs from testPC in supervisor mode and every
// exception vector points at its own handler slot.
const (
	testPC      = 0x1000
	testSSP     = 0x8000
	testUSP     = 0x6000
	handlerBase = 0x4000
	testRAMSize = 0x10000
)

// vectorHandler is the address the test vector table assigns to vector.
func vectorHandler(vector int) uint32 {
	return handlerBase + uint32(vector)*0x10
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// newTestCPU returns a supervisor-mode CPU with code loaded at testPC.
func newTestCPU(t *testing.T, code ...uint16) (*CPU, *RAM) {
	t.Helper()
	ram := NewRAM(testRAMSize)
	for v := 2; v < 64; v++ {
		ram.Write(Long, uint32(v)*4, vectorHandler(v))
	}
	ram.WriteWords(testPC, code...)
	c := New(ram,
		WithLogger(quietLogger()),
		WithRegisters(Registers{PC: testPC, SR: 0x2700, SSP: testSSP, USP: testUSP}),
	)
	return c, ram
}

// newUserCPU is newTestCPU in user mode.
func newUserCPU(t *testing.T, code ...uint16) (*CPU, *RAM) {
	t.Helper()
	c, ram := newTestCPU(t, code...)
	regs := c.Registers()
	regs.SR = 0x0000
	c.SetState(regs)
	return c, ram
}

// step runs one instruction and fails the test if the CPU stopped.
func step(t *testing.T, c *CPU) {
	t.Helper()
	if !c.Step() {
		t.Fatalf("Step returned false at PC=%06X", c.Registers().PC)
	}
}

// setD sets data registers starting at D0.
func setD(c *CPU, vals ...uint32) {
	regs := c.Registers()
	copy(regs.D[:], vals)
	c.SetState(regs)
}

// setA sets address register n (0-7) without resetting other state.
func setA(c *CPU, n int, v uint32) {
	regs := c.Registers()
	regs.WriteA(n, v, Long)
	c.SetState(regs)
}

// setCCR replaces the condition codes.
func setCCR(c *CPU, ccr uint8) {
	regs := c.Registers()
	regs.SetCCR(ccr)
	c.SetState(regs)
}

// wantFlags checks XNZVC against a "XNZVC" style pattern where each
// position is '1', '0' or '-' (don't care).
func wantFlags(t *testing.T, c *CPU, pattern string) {
	t.Helper()
	bits := []uint16{flagX, flagN, flagZ, flagV, flagC}
	names := "XNZVC"
	sr := c.Registers().SR
	for i, p := range pattern {
		if p == '-' {
			continue
		}
		got := sr&bits[i] != 0
		if got != (p == '1') {
			t.Errorf("flag %c = %v, want %v (SR=%04X)", names[i], got, p == '1', sr)
		}
	}
}

// diffRegisters reports the difference between two register files.
func diffRegisters(want, got Registers) string {
	return cmp.Diff(want, got)
}

// cpuState captures the full programmer-visible state for a golden test
// case. RAM entries are [address, byte_value] pairs.
type cpuState struct {
	D      [8]uint32
	A      [7]uint32
	PC     uint32
	SR     uint16
	USP    uint32
	SSP    uint32
	RAM    [][2]uint32
	Halted bool
	Cycles int // Expected cycle count (0 = don't check)
}

func (s cpuState) registers() Registers {
	return Registers{D: s.D, A: s.A, PC: s.PC, SR: s.SR, USP: s.USP, SSP: s.SSP}
}

// prefetchOffset is the 68000 prefetch pipeline offset.
// Golden vectors model the 2-word prefetch queue, where PC is 4 bytes
// ahead of the instruction being executed. The emulator does not model
// prefetch, so PC is adjusted by -4 on load and compare.
const prefetchOffset uint32 = 4

// runTest loads init into a sparse image, executes one Step and compares
// the result against want.
func runTest(t *testing.T, init, want cpuState) {
	t.Helper()

	ram := NewSparseRAM()
	for _, entry := range init.RAM {
		ram.Poke(entry[0], byte(entry[1]))
	}

	start := init.registers()
	start.PC -= prefetchOffset
	c := New(ram, WithLogger(quietLogger()), WithRegisters(start))
	c.Step()

	if want.Halted {
		if !c.Halted() {
			t.Errorf("expected CPU to be halted, but it is not")
		}
		return
	}
	if c.Halted() {
		t.Errorf("CPU unexpectedly halted")
		return
	}

	expect := want.registers()
	expect.PC -= prefetchOffset
	if diff := diffRegisters(expect, c.Registers()); diff != "" {
		t.Errorf("registers mismatch (-want +got):\n%s", diff)
	}

	for _, entry := range want.RAM {
		addr := entry[0] & addrMask
		if got := ram.Peek(addr); got != byte(entry[1]) {
			t.Errorf("RAM[0x%06X] = 0x%02X, want 0x%02X", addr, got, byte(entry[1]))
		}
	}

	if want.Cycles > 0 && c.LastCycles() != want.Cycles {
		t.Errorf("cycles = %d, want %d", c.LastCycles(), want.Cycles)
	}
}

// recordingBus logs every write so tests can check ordering.
type recordingBus struct {
	*RAM
	writes []uint32
}

func (b *recordingBus) Write(sz Size, addr uint32, val uint32) {
	b.writes = append(b.writes, addr)
	b.RAM.Write(sz, addr, val)
}
