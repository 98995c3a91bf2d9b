package m68k_test

import (
	"io"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"

	m68k "github.com/user-none/go-m68k-core"
)

const (
	resetSSP  = 0x8000
	resetPC   = 0x0400
	memSize   = 0x10000
	stepLimit = 10000
)

// newSystem builds a 64 KiB machine whose reset vector starts program at
// resetPC. Extra handlers are installed with setVector.
func newSystem(program ...uint16) (*m68k.CPU, *m68k.RAM) {
	ram := m68k.NewRAM(memSize)
	ram.Write(m68k.Long, 0, resetSSP)
	ram.Write(m68k.Long, 4, resetPC)
	ram.WriteWords(resetPC, program...)

	log := logrus.New()
	log.SetOutput(io.Discard)
	return m68k.New(ram, m68k.WithLogger(log)), ram
}

func setVector(ram *m68k.RAM, vector int, handler uint32, code ...uint16) {
	ram.Write(m68k.Long, uint32(vector)*4, handler)
	ram.WriteWords(handler, code...)
}

// runUntilStopped steps until the CPU executes STOP.
func runUntilStopped(c *m68k.CPU) {
	for i := 0; i < stepLimit && !c.Stopped(); i++ {
		Expect(c.Step()).To(BeTrue())
	}
	Expect(c.Stopped()).To(BeTrue(), "program did not reach STOP")
}

var _ = Describe("CPU", func() {
	Describe("reset", func() {
		It("loads SSP and PC from the vector table", func() {
			c, _ := newSystem()
			regs := c.Registers()

			Expect(regs.SSP).To(Equal(uint32(resetSSP)))
			Expect(regs.PC).To(Equal(uint32(resetPC)))
			Expect(regs.SR).To(Equal(uint16(0x2700)))
		})

		It("runs again on the next Step after Reset", func() {
			c, _ := newSystem(0x7005, 0x4E71) // MOVEQ #5,D0; NOP
			Expect(c.Step()).To(BeTrue())
			Expect(c.Registers().PC).To(Equal(uint32(resetPC + 2)))

			c.Reset()
			Expect(c.Step()).To(BeTrue())
			Expect(c.Registers().PC).To(Equal(uint32(resetPC)))
			Expect(c.LastCycles()).To(Equal(40))
		})
	})

	Describe("running a program", func() {
		It("sums 1 to 10 with a DBF loop", func() {
			c, _ := newSystem(
				0x7000,         // MOVEQ #0,D0
				0x7209,         // MOVEQ #9,D1
				0x7401,         // MOVEQ #1,D2
				0xD082,         // loop: ADD.L D2,D0
				0x5282,         // ADDQ.L #1,D2
				0x51C9, 0xFFFA, // DBF D1,loop
				0x4E72, 0x2700, // STOP #$2700
			)
			runUntilStopped(c)

			regs := c.Registers()
			Expect(regs.D[0]).To(Equal(uint32(55)))
			Expect(regs.D[1] & 0xFFFF).To(Equal(uint32(0xFFFF)))
			Expect(regs.PC).To(Equal(uint32(resetPC + 18)))
		})

		It("calls and returns from a subroutine", func() {
			c, ram := newSystem(
				0x4EB8, 0x0500, // JSR $0500.W
				0x4E72, 0x2700, // STOP #$2700
			)
			ram.WriteWords(0x500,
				0x7C07, // MOVEQ #7,D6
				0x4E75, // RTS
			)
			runUntilStopped(c)

			regs := c.Registers()
			Expect(regs.D[6]).To(Equal(uint32(7)))
			Expect(regs.SSP).To(Equal(uint32(resetSSP)))
		})

		It("reports every instruction to the trace hook", func() {
			ram := m68k.NewRAM(memSize)
			ram.Write(m68k.Long, 0, resetSSP)
			ram.Write(m68k.Long, 4, resetPC)
			ram.WriteWords(resetPC, 0x4E71, 0x7001, 0x4E72, 0x2700)

			var seen []string
			c := m68k.New(ram, m68k.WithTraceHook(func(pc uint32, op uint16) {
				seen = append(seen, m68k.Mnemonic(op))
			}))
			runUntilStopped(c)

			Expect(seen).To(Equal([]string{"NOP", "MOVEQ", "STOP"}))
		})
	})

	Describe("interrupts", func() {
		It("wakes a stopped CPU and returns past STOP", func() {
			c, ram := newSystem(
				0x4E72, 0x2000, // STOP #$2000
				0x4E71,         // NOP
			)
			setVector(ram, 24+4, 0x600,
				0x7E2A, // MOVEQ #42,D7
				0x4E73, // RTE
			)

			Expect(c.Step()).To(BeTrue())
			Expect(c.Stopped()).To(BeTrue())

			c.RequestInterrupt(4, nil)
			Expect(c.Step()).To(BeTrue())
			Expect(c.Registers().PC).To(Equal(uint32(0x600)))
			Expect(c.Registers().IntMask()).To(Equal(uint8(4)))
			Expect(c.LastCycles()).To(Equal(44))

			Expect(c.Step()).To(BeTrue())
			Expect(c.Step()).To(BeTrue())

			regs := c.Registers()
			Expect(regs.D[7]).To(Equal(uint32(42)))
			Expect(regs.PC).To(Equal(uint32(resetPC + 4)))
			Expect(regs.SR).To(Equal(uint16(0x2000)))
			Expect(regs.SSP).To(Equal(uint32(resetSSP)))
		})

		It("holds a masked interrupt until the mask drops", func() {
			c, ram := newSystem(
				0x4E71,         // NOP
				0x46FC, 0x2000, // MOVE #$2000,SR
				0x4E71,         // NOP
			)
			setVector(ram, 24+2, 0x600, 0x4E73)

			c.RequestInterrupt(2, nil)
			Expect(c.Step()).To(BeTrue())
			Expect(c.Registers().PC).To(Equal(uint32(resetPC + 2)))
			Expect(c.PendingInterrupt()).To(Equal(uint8(2)))

			Expect(c.Step()).To(BeTrue())
			Expect(c.Step()).To(BeTrue())
			Expect(c.Registers().PC).To(Equal(uint32(0x600)))
			Expect(c.PendingInterrupt()).To(BeZero())
		})

		It("uses a supplied vector instead of the autovector", func() {
			c, ram := newSystem(0x4E71)
			setVector(ram, 0x40, 0x700, 0x4E71)

			vec := uint8(0x40)
			c.RequestInterrupt(7, &vec)
			Expect(c.Step()).To(BeTrue())
			Expect(c.Registers().PC).To(Equal(uint32(0x700)))
		})
	})

	Describe("traps", func() {
		It("enters supervisor mode from user mode and returns with RTE", func() {
			c, ram := newSystem(
				0x027C, 0xDFFF, // ANDI #$DFFF,SR
				0x4E40,         // TRAP #0
				0x4E72, 0x2700, // STOP (privileged in user mode)
			)
			setVector(ram, 32, 0x700, 0x4E73)
			setVector(ram, 8, 0x780, 0x4E72, 0x2700)

			Expect(c.Step()).To(BeTrue())
			Expect(c.Registers().Supervisor()).To(BeFalse())

			Expect(c.Step()).To(BeTrue())
			Expect(c.Registers().PC).To(Equal(uint32(0x700)))
			Expect(c.Registers().Supervisor()).To(BeTrue())

			Expect(c.Step()).To(BeTrue())
			Expect(c.Registers().PC).To(Equal(uint32(resetPC + 6)))
			Expect(c.Registers().Supervisor()).To(BeFalse())

			Expect(c.Step()).To(BeTrue())
			Expect(c.Registers().PC).To(Equal(uint32(0x780)))
		})
	})

	Describe("faults", func() {
		It("halts and logs when an exception frame cannot be stacked", func() {
			ram := m68k.NewRAM(memSize)
			ram.Write(m68k.Long, 0, 0x7001) // odd SSP
			ram.Write(m68k.Long, 4, resetPC)
			ram.WriteWords(resetPC, 0x4AFC)

			log, hook := logtest.NewNullLogger()
			c := m68k.New(ram, m68k.WithLogger(log))

			Expect(c.Step()).To(BeFalse())
			Expect(c.Halted()).To(BeTrue())
			Expect(c.Step()).To(BeFalse())

			Expect(hook.LastEntry()).NotTo(BeNil())
			Expect(hook.LastEntry().Level).To(Equal(logrus.ErrorLevel))
		})

		It("vectors an odd word access through the address error handler", func() {
			c, ram := newSystem(
				0x41F8, 0x3001, // LEA $3001.W,A0
				0x3010,         // MOVE.W (A0),D0
			)
			setVector(ram, 3, 0x600, 0x4E71)

			Expect(c.Step()).To(BeTrue())
			Expect(c.Step()).To(BeTrue())
			Expect(c.Halted()).To(BeFalse())
			Expect(c.Registers().PC).To(Equal(uint32(0x600)))
			Expect(c.Registers().SSP).To(Equal(uint32(resetSSP - 14)))
		})
	})

	Describe("RunCycles", func() {
		It("carries overshoot into the next call", func() {
			c, _ := newSystem(0x4E71, 0x4E71, 0x4E71, 0x4E71)

			Expect(c.RunCycles(6)).To(Equal(6))
			Expect(c.Deficit()).To(Equal(2))
			Expect(c.RunCycles(6)).To(Equal(6))
			Expect(c.Deficit()).To(Equal(0))
			Expect(c.Registers().PC).To(Equal(uint32(resetPC + 6)))
		})
	})

	Describe("snapshots", func() {
		It("resumes identically from a restored state", func() {
			program := []uint16{0x7000, 0x7209, 0x7401, 0xD082, 0x5282, 0x51C9, 0xFFFA, 0x4E72, 0x2700}
			a, _ := newSystem(program...)
			for i := 0; i < 8; i++ {
				Expect(a.Step()).To(BeTrue())
			}
			a.RequestInterrupt(3, nil)

			buf := make([]byte, m68k.SerializeSize)
			Expect(a.Serialize(buf)).To(Succeed())

			b, _ := newSystem(program...)
			Expect(b.Deserialize(buf)).To(Succeed())
			Expect(b.Registers()).To(Equal(a.Registers()))
			Expect(b.PendingInterrupt()).To(Equal(uint8(3)))
			Expect(b.Cycles()).To(Equal(a.Cycles()))

			runUntilStopped(a)
			runUntilStopped(b)
			Expect(b.Registers()).To(Equal(a.Registers()))
			Expect(b.Cycles()).To(Equal(a.Cycles()))
		})

		It("rejects a buffer from another layout version", func() {
			c, _ := newSystem()
			buf := make([]byte, m68k.SerializeSize)
			Expect(c.Serialize(buf)).To(Succeed())
			buf[0]++

			Expect(c.Deserialize(buf)).To(MatchError(m68k.ErrVersion))
			Expect(c.Serialize(buf[:10])).To(MatchError(m68k.ErrBufferTooSmall))
		})
	})
})

var _ = DescribeTable("Mnemonic",
	func(op uint16, want string) {
		Expect(m68k.Mnemonic(op)).To(Equal(want))
	},
	Entry("NOP", uint16(0x4E71), "NOP"),
	Entry("MOVEQ", uint16(0x7001), "MOVEQ"),
	Entry("MOVEA before MOVE", uint16(0x2040), "MOVEA"),
	Entry("ADDA before ADD", uint16(0xD1C8), "ADDA"),
	Entry("EXG inside the ABCD row", uint16(0xC141), "EXG"),
	Entry("ILLEGAL", uint16(0x4AFC), "ILLEGAL"),
	Entry("line A", uint16(0xA000), "LINEA"),
	Entry("line F", uint16(0xF123), "LINEF"),
)
