package m68k

// Status register bits.
const (
	flagC uint16 = 1 << iota // Carry
	flagV                    // Overflow
	flagZ                    // Zero
	flagN                    // Negative
	flagX                    // Extend

	flagS uint16 = 1 << 13 // Supervisor
	flagT uint16 = 1 << 15 // Trace

	// srMask covers the bits the 68000 implements: T_S__III___XNZVC.
	srMask  uint16 = 0xA71F
	ccrMask uint8  = 0x1F
)

// Registers holds the programmer-visible state of the MC68000.
//
// There is no storage for A7: the active stack pointer is USP in user mode
// and SSP in supervisor mode, selected by the S bit of SR.
type Registers struct {
	D   [8]uint32 // Data registers
	A   [7]uint32 // Address registers A0-A6
	USP uint32    // User stack pointer
	SSP uint32    // Supervisor stack pointer
	PC  uint32    // Program counter
	SR  uint16    // Status register
}

// SP returns the active stack pointer.
func (r Registers) SP() uint32 {
	if r.Supervisor() {
		return r.SSP
	}
	return r.USP
}

// SetSP writes through to whichever stack pointer is active.
func (r *Registers) SetSP(v uint32) {
	if r.Supervisor() {
		r.SSP = v
	} else {
		r.USP = v
	}
}

// ReadD returns the low sz bits of Dn.
func (r Registers) ReadD(n int, sz Size) uint32 {
	return r.D[n&7] & sz.Mask()
}

// WriteD merges v into the low sz bits of Dn, preserving the rest.
func (r *Registers) WriteD(n int, v uint32, sz Size) {
	n &= 7
	r.D[n] = merge(r.D[n], v, sz)
}

// ReadA returns the low sz bits of An. A7 is the active stack pointer.
func (r Registers) ReadA(n int, sz Size) uint32 {
	n &= 7
	if n == 7 {
		return r.SP() & sz.Mask()
	}
	return r.A[n] & sz.Mask()
}

// WriteA merges v into the low sz bits of An. A7 writes the active
// stack pointer.
func (r *Registers) WriteA(n int, v uint32, sz Size) {
	n &= 7
	if n == 7 {
		r.SetSP(merge(r.SP(), v, sz))
		return
	}
	r.A[n] = merge(r.A[n], v, sz)
}

// SetSR sets the status register. Unimplemented bits read as zero.
// Because A7 is derived from the S bit, a mode change swaps stacks
// implicitly.
func (r *Registers) SetSR(v uint16) {
	r.SR = v & srMask
}

// CCR returns the condition code register (low byte of SR).
func (r Registers) CCR() uint8 {
	return uint8(r.SR) & ccrMask
}

// SetCCR sets the condition codes. Bits 5-7 always read as zero.
func (r *Registers) SetCCR(v uint8) {
	r.SR = r.SR&0xFF00 | uint16(v&ccrMask)
}

// Supervisor reports whether the S bit is set.
func (r Registers) Supervisor() bool {
	return r.SR&flagS != 0
}

// Tracing reports whether trace mode is enabled (T1T0 = 10).
func (r Registers) Tracing() bool {
	return (r.SR>>14)&3 == 2
}

// IntMask returns the interrupt priority mask (0-7).
func (r Registers) IntMask() uint8 {
	return uint8(r.SR>>8) & 7
}

// X, N, Z, V and C report the individual condition code flags.
func (r Registers) X() bool { return r.SR&flagX != 0 }
func (r Registers) N() bool { return r.SR&flagN != 0 }
func (r Registers) Z() bool { return r.SR&flagZ != 0 }
func (r Registers) V() bool { return r.SR&flagV != 0 }
func (r Registers) C() bool { return r.SR&flagC != 0 }

// setFlag sets or clears the given SR bits.
func (r *Registers) setFlag(mask uint16, on bool) {
	if on {
		r.SR |= mask
	} else {
		r.SR &^= mask
	}
}

// xBit returns the X flag as 0 or 1 for extended arithmetic.
func (r Registers) xBit() uint32 {
	if r.X() {
		return 1
	}
	return 0
}

// merge replaces the low sz bits of dst with v.
func merge(dst, v uint32, sz Size) uint32 {
	mask := sz.Mask()
	return dst&^mask | v&mask
}
