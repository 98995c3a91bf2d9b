package m68k

// alterN sets N to the most significant bit of v for sz.
func (r *Registers) alterN(v uint32, sz Size) {
	r.setFlag(flagN, v&sz.MSB() != 0)
}

// alterZ sets Z when the low sz bits of v are zero. In sticky mode Z is
// only ever cleared, which keeps it meaningful across a chain of
// multi-precision ADDX/SUBX/NEGX/ABCD/SBCD/NBCD operations.
func (r *Registers) alterZ(v uint32, sz Size, sticky bool) {
	zero := v&sz.Mask() == 0
	if sticky {
		if !zero {
			r.SR &^= flagZ
		}
		return
	}
	r.setFlag(flagZ, zero)
}

// alterC sets C when an unsigned sum exceeds the range of sz.
func (r *Registers) alterC(sum uint64, sz Size) {
	r.setFlag(flagC, sum > uint64(sz.Mask()))
}

// alterCSub sets C (borrow) when dst - src - x underflows as unsigned sz
// values.
func (r *Registers) alterCSub(dst, src, x uint32, sz Size) {
	mask := sz.Mask()
	r.setFlag(flagC, uint64(dst&mask) < uint64(src&mask)+uint64(x))
}

// alterV sets V for an addition: both operands share a sign that the
// result does not.
func (r *Registers) alterV(src, dst, res uint32, sz Size) {
	r.setFlag(flagV, (src^res)&(dst^res)&sz.MSB() != 0)
}

// alterVSub sets V for dst - src: the operands differ in sign and the
// result's sign differs from the destination's.
func (r *Registers) alterVSub(src, dst, res uint32, sz Size) {
	r.setFlag(flagV, (src^dst)&(res^dst)&sz.MSB() != 0)
}

// alterVCmp sets V for a comparison. No result is stored, so only the
// sign relation between a positive/negative destination and the computed
// difference matters.
func (r *Registers) alterVCmp(src, dst, res uint32, sz Size) {
	msb := sz.MSB()
	d, s, m := dst&msb != 0, src&msb != 0, res&msb != 0
	r.setFlag(flagV, (!d && s && m) || (d && !s && !m))
}

// flagsAdd sets XNZVC for res = dst + src + x.
func (r *Registers) flagsAdd(src, dst, x uint32, sz Size, sticky bool) uint32 {
	mask := sz.Mask()
	sum := uint64(src&mask) + uint64(dst&mask) + uint64(x)
	res := uint32(sum) & mask
	r.alterN(res, sz)
	r.alterZ(res, sz, sticky)
	r.alterV(src, dst, res, sz)
	r.alterC(sum, sz)
	r.setFlag(flagX, r.C())
	return res
}

// flagsSub sets XNZVC for res = dst - src - x.
func (r *Registers) flagsSub(src, dst, x uint32, sz Size, sticky bool) uint32 {
	mask := sz.Mask()
	res := (dst - src - x) & mask
	r.alterN(res, sz)
	r.alterZ(res, sz, sticky)
	r.alterVSub(src, dst, res, sz)
	r.alterCSub(dst, src, x, sz)
	r.setFlag(flagX, r.C())
	return res
}

// flagsCmp sets NZVC for dst - src. X is not affected.
func (r *Registers) flagsCmp(src, dst uint32, sz Size) {
	mask := sz.Mask()
	res := (dst - src) & mask
	r.alterN(res, sz)
	r.alterZ(res, sz, false)
	r.alterVCmp(src, dst, res, sz)
	r.alterCSub(dst, src, 0, sz)
}

// flagsLogical sets NZ and clears VC after a logical operation or move.
func (r *Registers) flagsLogical(v uint32, sz Size) {
	r.alterN(v, sz)
	r.alterZ(v, sz, false)
	r.SR &^= flagV | flagC
}

// Condition codes for Bcc, DBcc and Scc.
const (
	condT  = 0x0
	condF  = 0x1
	condHI = 0x2
	condLS = 0x3
	condCC = 0x4
	condCS = 0x5
	condNE = 0x6
	condEQ = 0x7
	condVC = 0x8
	condVS = 0x9
	condPL = 0xA
	condMI = 0xB
	condGE = 0xC
	condLT = 0xD
	condGT = 0xE
	condLE = 0xF
)

// testCondition evaluates a condition code (0-15).
func (r *Registers) testCondition(cc uint16) bool {
	n, z, v, c := r.N(), r.Z(), r.V(), r.C()
	switch cc & 0xF {
	case condT:
		return true
	case condF:
		return false
	case condHI:
		return !c && !z
	case condLS:
		return c || z
	case condCC:
		return !c
	case condCS:
		return c
	case condNE:
		return !z
	case condEQ:
		return z
	case condVC:
		return !v
	case condVS:
		return v
	case condPL:
		return !n
	case condMI:
		return n
	case condGE:
		return n == v
	case condLT:
		return n != v
	case condGT:
		return n == v && !z
	}
	return z || n != v // LE
}
