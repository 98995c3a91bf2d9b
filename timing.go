package m68k

// opcodeFetchCycles is the cost of fetching the first instruction word.
// Handler cycle counts are added to it unless they report a total.
const opcodeFetchCycles = 4

// eaFetch is the source operand EA timing (PRM Table 8-1), indexed by
// eaMode. Long operands add 4 to every non-zero entry.
var eaFetch = [...]int{
	modeDn:      0,
	modeAn:      0,
	modeInd:     4,
	modePostInc: 4,
	modePreDec:  6,
	modeDisp:    8,
	modeIndex:   10,
	modeAbsW:    8,
	modeAbsL:    12,
	modePCDisp:  8,
	modePCIndex: 10,
	modeImm:     4,
}

// eaFetchCycles returns the cost of fetching an operand through mode.
func eaFetchCycles(mode eaMode, sz Size) int {
	if int(mode) >= len(eaFetch) {
		return 0
	}
	n := eaFetch[mode]
	if sz == Long && n > 0 {
		n += 4
	}
	return n
}

// eaWriteCycles returns the destination EA write timing used by MOVE.
// Same as eaFetchCycles except -(An) costs 4 (not 6).
func eaWriteCycles(mode eaMode, sz Size) int {
	if mode == modePreDec {
		mode = modeInd
	}
	if mode >= modePCDisp {
		return 0
	}
	return eaFetchCycles(mode, sz)
}

// controlTiming holds totals for the control addressing modes in the
// order (An), d16(An), d8(An,Xn), abs.W, abs.L, d16(PC), d8(PC,Xn).
type controlTiming [7]int

var (
	leaTiming = controlTiming{4, 8, 12, 8, 12, 8, 12}
	peaTiming = controlTiming{12, 16, 20, 16, 20, 16, 20}
	jmpTiming = controlTiming{8, 10, 14, 10, 12, 10, 14}
	jsrTiming = controlTiming{16, 18, 22, 18, 20, 18, 22}
)

// cycles returns the total for mode, or 0 for a non-control mode.
func (t controlTiming) cycles(mode eaMode) int {
	switch mode {
	case modeInd:
		return t[0]
	case modeDisp:
		return t[1]
	case modeIndex:
		return t[2]
	case modeAbsW:
		return t[3]
	case modeAbsL:
		return t[4]
	case modePCDisp:
		return t[5]
	case modePCIndex:
		return t[6]
	}
	return 0
}

// movemTiming gives the MOVEM base cost before per-register transfers
// (PRM Table 8-7), indexed by eaMode.
var (
	movemToMem = [...]int{
		modeInd: 8, modePreDec: 8, modeDisp: 12, modeIndex: 14,
		modeAbsW: 12, modeAbsL: 16,
	}
	movemToReg = [...]int{
		modeInd: 12, modePostInc: 12, modeDisp: 16, modeIndex: 18,
		modeAbsW: 16, modeAbsL: 20, modePCDisp: 16, modePCIndex: 18,
	}
)

// exceptionCycles is the fixed cost of entering each exception.
var exceptionCycles = map[int]int{
	vecReset:              40,
	vecBusError:           50,
	vecAddressError:       50,
	vecIllegalInstruction: 34,
	vecDivideByZero:       38,
	vecCHK:                40,
	vecTRAPV:              34,
	vecPrivilegeViolation: 34,
	vecTrace:              34,
	vecLineA:              34,
	vecLineF:              34,
}

const (
	defaultExceptionCycles = 34
	interruptCycles        = 44
	stoppedCycles          = 4
)

// vectorCycles returns the entry cost for vector.
func vectorCycles(vector int) int {
	if n, ok := exceptionCycles[vector]; ok {
		return n
	}
	return defaultExceptionCycles
}
