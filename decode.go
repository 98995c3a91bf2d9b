package m68k

import "fmt"

// execResult is returned by every instruction handler.
type execResult struct {
	// length is the number of bytes to advance PC by, including the
	// opcode word. Zero when the handler has set PC itself.
	length uint32

	// cycles is added to the opcode fetch cost, unless total is set, in
	// which case it is the complete cost of the instruction.
	cycles int
	total  bool
}

// opFunc is the handler signature for a single MC68000 instruction.
type opFunc func(c *CPU, op uint16) (execResult, error)

// eaClass is a set of addressing modes permitted for an operand.
type eaClass uint16

func modes(m ...eaMode) eaClass {
	var cl eaClass
	for _, mode := range m {
		cl |= 1 << mode
	}
	return cl
}

var (
	eaAll        = modes(modeDn, modeAn, modeInd, modePostInc, modePreDec, modeDisp, modeIndex, modeAbsW, modeAbsL, modePCDisp, modePCIndex, modeImm)
	eaData       = eaAll &^ modes(modeAn)
	eaMemAlt     = modes(modeInd, modePostInc, modePreDec, modeDisp, modeIndex, modeAbsW, modeAbsL)
	eaDataAlt    = eaMemAlt | modes(modeDn)
	eaAlterable  = eaDataAlt | modes(modeAn)
	eaControl    = modes(modeInd, modeDisp, modeIndex, modeAbsW, modeAbsL, modePCDisp, modePCIndex)
	eaDataNoImm  = eaData &^ modes(modeImm)
	eaMovemToMem = modes(modeInd, modePreDec, modeDisp, modeIndex, modeAbsW, modeAbsL)
	eaMovemToReg = eaControl | modes(modePostInc)
)

func (cl eaClass) has(field uint16) bool {
	return cl&(1<<decodeMode(field)) != 0
}

// opEntry is one row of a decode list. An opcode matches when
// op&mask == match, the source field (bits 5-0) is in src, the MOVE
// destination field (bits 11-6) is in dst, and check accepts it.
type opEntry struct {
	mask, match uint16
	name        string
	src, dst    eaClass // zero means the field is not an EA
	check       func(op uint16) bool
	exec        opFunc
}

func (e *opEntry) matches(op uint16) bool {
	if op&e.mask != e.match {
		return false
	}
	if e.src != 0 && !e.src.has(op&0x3F) {
		return false
	}
	if e.dst != 0 && !e.dst.has(moveDestField(op)) {
		return false
	}
	return e.check == nil || e.check(op)
}

// moveDestField rearranges MOVE's destination (reg 11-9, mode 8-6) into
// the usual mode/reg layout.
func moveDestField(op uint16) uint16 {
	return (op>>3)&0x38 | (op>>9)&7
}

// Size field checks shared by the decode lists.

func sizeValid(op uint16) bool { return (op>>6)&3 != 3 }

// sizeNoByteAn rejects a reserved size and byte access to an address
// register, which the 68000 does not allow as a source.
func sizeNoByteAn(op uint16) bool {
	return sizeValid(op) && !((op>>6)&3 == 0 && (op>>3)&7 == 1)
}

// opcodeTable maps every opcode word to its handler. Built once from
// decodeLists at init; unmatched words decode as illegal instructions.
var (
	opcodeTable [65536]opFunc
	opcodeNames [65536]string
)

// decodeLists holds the per high-nibble match lists, most specific
// pattern first.
var decodeLists [16][]opEntry

func init() {
	decodeLists = [16][]opEntry{
		0x0: {
			{mask: 0xFFFF, match: 0x003C, name: "ORI to CCR", exec: opToCCR},
			{mask: 0xFFFF, match: 0x007C, name: "ORI to SR", exec: opToSR},
			{mask: 0xFFFF, match: 0x023C, name: "ANDI to CCR", exec: opToCCR},
			{mask: 0xFFFF, match: 0x027C, name: "ANDI to SR", exec: opToSR},
			{mask: 0xFFFF, match: 0x0A3C, name: "EORI to CCR", exec: opToCCR},
			{mask: 0xFFFF, match: 0x0A7C, name: "EORI to SR", exec: opToSR},
			{mask: 0xF138, match: 0x0108, name: "MOVEP", exec: opMOVEP},
			{mask: 0xF1C0, match: 0x0100, name: "BTST", src: eaData, exec: opBitDynamic},
			{mask: 0xF1C0, match: 0x0140, name: "BCHG", src: eaDataAlt, exec: opBitDynamic},
			{mask: 0xF1C0, match: 0x0180, name: "BCLR", src: eaDataAlt, exec: opBitDynamic},
			{mask: 0xF1C0, match: 0x01C0, name: "BSET", src: eaDataAlt, exec: opBitDynamic},
			{mask: 0xFFC0, match: 0x0800, name: "BTST", src: eaDataNoImm, exec: opBitStatic},
			{mask: 0xFFC0, match: 0x0840, name: "BCHG", src: eaDataAlt, exec: opBitStatic},
			{mask: 0xFFC0, match: 0x0880, name: "BCLR", src: eaDataAlt, exec: opBitStatic},
			{mask: 0xFFC0, match: 0x08C0, name: "BSET", src: eaDataAlt, exec: opBitStatic},
			{mask: 0xFF00, match: 0x0000, name: "ORI", src: eaDataAlt, check: sizeValid, exec: opLogicImm},
			{mask: 0xFF00, match: 0x0200, name: "ANDI", src: eaDataAlt, check: sizeValid, exec: opLogicImm},
			{mask: 0xFF00, match: 0x0400, name: "SUBI", src: eaDataAlt, check: sizeValid, exec: opArithImm},
			{mask: 0xFF00, match: 0x0600, name: "ADDI", src: eaDataAlt, check: sizeValid, exec: opArithImm},
			{mask: 0xFF00, match: 0x0A00, name: "EORI", src: eaDataAlt, check: sizeValid, exec: opLogicImm},
			{mask: 0xFF00, match: 0x0C00, name: "CMPI", src: eaDataAlt, check: sizeValid, exec: opCMPI},
		},
		0x1: moveEntries(Byte),
		0x2: moveEntries(Long),
		0x3: moveEntries(Word),
		0x4: {
			{mask: 0xFFFF, match: 0x4AFC, name: "ILLEGAL", exec: opILLEGAL},
			{mask: 0xFFFF, match: 0x4E70, name: "RESET", exec: opRESET},
			{mask: 0xFFFF, match: 0x4E71, name: "NOP", exec: opNOP},
			{mask: 0xFFFF, match: 0x4E72, name: "STOP", exec: opSTOP},
			{mask: 0xFFFF, match: 0x4E73, name: "RTE", exec: opRTE},
			{mask: 0xFFFF, match: 0x4E75, name: "RTS", exec: opRTS},
			{mask: 0xFFFF, match: 0x4E76, name: "TRAPV", exec: opTRAPV},
			{mask: 0xFFFF, match: 0x4E77, name: "RTR", exec: opRTR},
			{mask: 0xFFF0, match: 0x4E40, name: "TRAP", exec: opTRAP},
			{mask: 0xFFF8, match: 0x4E50, name: "LINK", exec: opLINK},
			{mask: 0xFFF8, match: 0x4E58, name: "UNLK", exec: opUNLK},
			{mask: 0xFFF0, match: 0x4E60, name: "MOVE USP", exec: opMOVEUSP},
			{mask: 0xFFC0, match: 0x4E80, name: "JSR", src: eaControl, exec: opJSR},
			{mask: 0xFFC0, match: 0x4EC0, name: "JMP", src: eaControl, exec: opJMP},
			{mask: 0xFFF8, match: 0x4880, name: "EXT.W", exec: opEXT},
			{mask: 0xFFF8, match: 0x48C0, name: "EXT.L", exec: opEXT},
			{mask: 0xFFF8, match: 0x4840, name: "SWAP", exec: opSWAP},
			{mask: 0xFFC0, match: 0x4840, name: "PEA", src: eaControl, exec: opPEA},
			{mask: 0xFFC0, match: 0x4800, name: "NBCD", src: eaDataAlt, exec: opNBCD},
			{mask: 0xFF80, match: 0x4880, name: "MOVEM", src: eaMovemToMem, exec: opMOVEM},
			{mask: 0xFF80, match: 0x4C80, name: "MOVEM", src: eaMovemToReg, exec: opMOVEM},
			{mask: 0xFFC0, match: 0x4AC0, name: "TAS", src: eaDataAlt, exec: opTAS},
			{mask: 0xFF00, match: 0x4A00, name: "TST", src: eaDataAlt, check: sizeValid, exec: opTST},
			{mask: 0xFFC0, match: 0x40C0, name: "MOVE from SR", src: eaDataAlt, exec: opMOVEfromSR},
			{mask: 0xFFC0, match: 0x44C0, name: "MOVE to CCR", src: eaData, exec: opMOVEtoCCR},
			{mask: 0xFFC0, match: 0x46C0, name: "MOVE to SR", src: eaData, exec: opMOVEtoSR},
			{mask: 0xFF00, match: 0x4000, name: "NEGX", src: eaDataAlt, check: sizeValid, exec: opNEGX},
			{mask: 0xFF00, match: 0x4200, name: "CLR", src: eaDataAlt, check: sizeValid, exec: opCLR},
			{mask: 0xFF00, match: 0x4400, name: "NEG", src: eaDataAlt, check: sizeValid, exec: opNEG},
			{mask: 0xFF00, match: 0x4600, name: "NOT", src: eaDataAlt, check: sizeValid, exec: opNOT},
			{mask: 0xF1C0, match: 0x41C0, name: "LEA", src: eaControl, exec: opLEA},
			{mask: 0xF1C0, match: 0x4180, name: "CHK", src: eaData, exec: opCHK},
		},
		0x5: {
			{mask: 0xF0F8, match: 0x50C8, name: "DBcc", exec: opDBcc},
			{mask: 0xF0C0, match: 0x50C0, name: "Scc", src: eaDataAlt, exec: opScc},
			{mask: 0xF100, match: 0x5000, name: "ADDQ", src: eaAlterable, check: sizeNoByteAn, exec: opQuick},
			{mask: 0xF100, match: 0x5100, name: "SUBQ", src: eaAlterable, check: sizeNoByteAn, exec: opQuick},
		},
		0x6: {
			{mask: 0xFF00, match: 0x6000, name: "BRA", exec: opBRA},
			{mask: 0xFF00, match: 0x6100, name: "BSR", exec: opBSR},
			{mask: 0xF000, match: 0x6000, name: "Bcc", exec: opBcc},
		},
		0x7: {
			{mask: 0xF100, match: 0x7000, name: "MOVEQ", exec: opMOVEQ},
		},
		0x8: {
			{mask: 0xF1C0, match: 0x80C0, name: "DIVU", src: eaData, exec: opDIVU},
			{mask: 0xF1C0, match: 0x81C0, name: "DIVS", src: eaData, exec: opDIVS},
			{mask: 0xF1F0, match: 0x8100, name: "SBCD", exec: opSBCD},
			{mask: 0xF100, match: 0x8000, name: "OR", src: eaData, check: sizeValid, exec: opOR},
			{mask: 0xF100, match: 0x8100, name: "OR", src: eaMemAlt, check: sizeValid, exec: opOR},
		},
		0x9: {
			{mask: 0xF0C0, match: 0x90C0, name: "SUBA", src: eaAll, exec: opSUBA},
			{mask: 0xF130, match: 0x9100, name: "SUBX", check: sizeValid, exec: opSUBX},
			{mask: 0xF100, match: 0x9000, name: "SUB", src: eaAll, check: sizeNoByteAn, exec: opSUB},
			{mask: 0xF100, match: 0x9100, name: "SUB", src: eaMemAlt, check: sizeValid, exec: opSUB},
		},
		0xA: {
			{mask: 0xF000, match: 0xA000, name: "LINEA", exec: opLineA},
		},
		0xB: {
			{mask: 0xF0C0, match: 0xB0C0, name: "CMPA", src: eaAll, exec: opCMPA},
			{mask: 0xF138, match: 0xB108, name: "CMPM", check: sizeValid, exec: opCMPM},
			{mask: 0xF100, match: 0xB100, name: "EOR", src: eaDataAlt, check: sizeValid, exec: opEOR},
			{mask: 0xF100, match: 0xB000, name: "CMP", src: eaAll, check: sizeNoByteAn, exec: opCMP},
		},
		0xC: {
			{mask: 0xF1C0, match: 0xC0C0, name: "MULU", src: eaData, exec: opMULU},
			{mask: 0xF1C0, match: 0xC1C0, name: "MULS", src: eaData, exec: opMULS},
			{mask: 0xF1F0, match: 0xC100, name: "ABCD", exec: opABCD},
			{mask: 0xF1F8, match: 0xC140, name: "EXG", exec: opEXG},
			{mask: 0xF1F8, match: 0xC148, name: "EXG", exec: opEXG},
			{mask: 0xF1F8, match: 0xC188, name: "EXG", exec: opEXG},
			{mask: 0xF100, match: 0xC000, name: "AND", src: eaData, check: sizeValid, exec: opAND},
			{mask: 0xF100, match: 0xC100, name: "AND", src: eaMemAlt, check: sizeValid, exec: opAND},
		},
		0xD: {
			{mask: 0xF0C0, match: 0xD0C0, name: "ADDA", src: eaAll, exec: opADDA},
			{mask: 0xF130, match: 0xD100, name: "ADDX", check: sizeValid, exec: opADDX},
			{mask: 0xF100, match: 0xD000, name: "ADD", src: eaAll, check: sizeNoByteAn, exec: opADD},
			{mask: 0xF100, match: 0xD100, name: "ADD", src: eaMemAlt, check: sizeValid, exec: opADD},
		},
		0xE: {
			{mask: 0xF8C0, match: 0xE0C0, name: "shift memory", src: eaMemAlt, exec: opShiftMem},
			{mask: 0xF000, match: 0xE000, name: "shift register", check: sizeValid, exec: opShiftReg},
		},
		0xF: {
			{mask: 0xF000, match: 0xF000, name: "LINEF", exec: opLineF},
		},
	}

	for i := range opcodeTable {
		op := uint16(i)
		opcodeTable[i], opcodeNames[i] = opILLEGAL, "ILLEGAL"
		for j := range decodeLists[op>>12] {
			e := &decodeLists[op>>12][j]
			if e.matches(op) {
				opcodeTable[i], opcodeNames[i] = e.exec, e.name
				break
			}
		}
	}
}

// moveEntries is the decode list for one MOVE size nibble. There is no
// byte form of MOVEA.
func moveEntries(sz Size) []opEntry {
	move := opEntry{mask: 0xC000, match: 0x0000, name: "MOVE", src: eaAll, dst: eaDataAlt, exec: opMOVE}
	if sz == Byte {
		move.check = moveSizeNoByteAn
		return []opEntry{move}
	}
	return []opEntry{
		{mask: 0xC1C0, match: 0x0040, name: "MOVEA", src: eaAll, exec: opMOVEA},
		move,
	}
}

// moveSizeNoByteAn rejects MOVE.B from an address register.
func moveSizeNoByteAn(op uint16) bool {
	return (op>>3)&7 != 1
}

// Mnemonic returns the instruction family an opcode word decodes to,
// e.g. "MOVEQ" or "ILLEGAL".
func Mnemonic(op uint16) string {
	return opcodeNames[op]
}

// Disassemble returns a short description of op for trace output.
func Disassemble(pc uint32, op uint16) string {
	return fmt.Sprintf("%06X  %04X  %s", pc&addrMask, op, opcodeNames[op])
}
