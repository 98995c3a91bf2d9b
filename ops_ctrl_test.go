package m68k

import "testing"

// resetCountingBus counts RESET instructions seen by the bus.
type resetCountingBus struct {
	*RAM
	resets int
}

func (b *resetCountingBus) Reset() { b.resets++ }

func TestExceptionReturnAddress(t *testing.T) {
	tests := []struct {
		name   string
		code   []uint16
		ccr    uint8
		vector int
		wantPC uint32 // stacked return address
		cycles int
	}{
		{"TRAP #15", []uint16{0x4E4F}, 0, vecTrap0 + 15, testPC + 2, 34},
		{"TRAP #0", []uint16{0x4E40}, 0, vecTrap0, testPC + 2, 34},
		{"TRAPV overflow", []uint16{0x4E76}, uint8(flagV), vecTRAPV, testPC + 2, 34},
		{"ILLEGAL", []uint16{0x4AFC}, 0, vecIllegalInstruction, testPC + 2, 34},
		{"unassigned opcode", []uint16{0x4E7F}, 0, vecIllegalInstruction, testPC + 2, 34},
		{"line A", []uint16{0xA123}, 0, vecLineA, testPC, 34},
		{"line F", []uint16{0xF000}, 0, vecLineF, testPC, 34},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ram := newTestCPU(t, tt.code...)
			setCCR(c, tt.ccr)
			step(t, c)

			regs := c.Registers()
			if regs.PC != vectorHandler(tt.vector) {
				t.Fatalf("PC = %06X, want vector %d handler %06X", regs.PC, tt.vector, vectorHandler(tt.vector))
			}
			if regs.SSP != testSSP-6 {
				t.Errorf("SSP = %06X, want a six byte frame", regs.SSP)
			}
			if pc := ram.Read(Long, regs.SSP+2); pc != tt.wantPC {
				t.Errorf("stacked PC = %06X, want %06X", pc, tt.wantPC)
			}
			if sr := ram.Read(Word, regs.SSP); sr != 0x2700|uint32(tt.ccr) {
				t.Errorf("stacked SR = %04X", sr)
			}
			if c.LastCycles() != tt.cycles {
				t.Errorf("cycles = %d, want %d", c.LastCycles(), tt.cycles)
			}
		})
	}
}

func TestTRAPVNoOverflow(t *testing.T) {
	c, _ := newTestCPU(t, 0x4E76)
	step(t, c)
	if pc := c.Registers().PC; pc != testPC+2 {
		t.Errorf("PC = %06X, want %06X", pc, testPC+2)
	}
	if c.LastCycles() != 4 {
		t.Errorf("cycles = %d, want 4", c.LastCycles())
	}
}

func TestTrapFromUserMode(t *testing.T) {
	c, ram := newUserCPU(t, 0x4E41) // TRAP #1
	step(t, c)

	regs := c.Registers()
	if !regs.Supervisor() || regs.Tracing() {
		t.Errorf("SR = %04X, want supervisor without trace", regs.SR)
	}
	if regs.USP != testUSP {
		t.Errorf("USP = %06X, want untouched", regs.USP)
	}
	if sr := ram.Read(Word, regs.SSP); sr != 0 {
		t.Errorf("stacked SR = %04X, want the user SR", sr)
	}
}

func TestSTOPPrivileged(t *testing.T) {
	c, _ := newUserCPU(t, 0x4E72, 0x2000)
	step(t, c)
	if c.Stopped() {
		t.Error("user mode STOP stopped the CPU")
	}
	if pc := c.Registers().PC; pc != vectorHandler(vecPrivilegeViolation) {
		t.Errorf("PC = %06X, want privilege violation handler", pc)
	}
}

func TestRESETInstruction(t *testing.T) {
	c, ram := newTestCPU(t, 0x4E70, 0x4E70)
	bus := &resetCountingBus{RAM: ram}
	c.bus = bus
	setD(c, 0x1234)

	step(t, c)
	if bus.resets != 1 {
		t.Errorf("bus resets = %d, want 1", bus.resets)
	}
	regs := c.Registers()
	if regs.PC != testPC+2 || regs.D[0] != 0x1234 {
		t.Errorf("RESET changed processor state: PC=%06X D0=%X", regs.PC, regs.D[0])
	}
	if c.LastCycles() != 132 {
		t.Errorf("cycles = %d, want 132", c.LastCycles())
	}

	regs.SR = 0
	c.SetState(regs)
	step(t, c)
	if bus.resets != 1 {
		t.Error("user mode RESET reached the bus")
	}
}

func TestNOP(t *testing.T) {
	c, _ := newTestCPU(t, 0x4E71)
	before := c.Registers()
	step(t, c)
	after := c.Registers()
	before.PC += 2
	if diff := diffRegisters(before, after); diff != "" {
		t.Errorf("NOP changed state (-want +got):\n%s", diff)
	}
}
