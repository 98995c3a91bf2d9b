package m68k

import "fmt"

// FaultKind identifies a processor exception raised while executing an
// instruction.
type FaultKind int

const (
	AddressError FaultKind = iota
	IllegalInstruction
	DivideByZero
	PrivilegeViolation
	ChkTrap
	OverflowTrap
	Trap
	LineA
	LineF
)

var faultNames = [...]string{
	AddressError:       "address error",
	IllegalInstruction: "illegal instruction",
	DivideByZero:       "integer divide by zero",
	PrivilegeViolation: "privilege violation",
	ChkTrap:            "CHK out of bounds",
	OverflowTrap:       "TRAPV overflow",
	Trap:               "TRAP",
	LineA:              "line 1010 emulator",
	LineF:              "line 1111 emulator",
}

func (k FaultKind) String() string {
	if int(k) < len(faultNames) {
		return faultNames[k]
	}
	return fmt.Sprintf("fault(%d)", int(k))
}

// vector returns the exception vector number for the fault kind.
func (k FaultKind) vector() int {
	switch k {
	case AddressError:
		return vecAddressError
	case IllegalInstruction:
		return vecIllegalInstruction
	case DivideByZero:
		return vecDivideByZero
	case PrivilegeViolation:
		return vecPrivilegeViolation
	case ChkTrap:
		return vecCHK
	case OverflowTrap:
		return vecTRAPV
	case LineA:
		return vecLineA
	case LineF:
		return vecLineF
	}
	return vecTrap0
}

// Fault is a modelled processor exception. Handlers and the memory layer
// return it as an error; the CPU driver routes it into the exception
// controller instead of surfacing it to the caller.
type Fault struct {
	Kind FaultKind

	// Vector is the TRAP number (0-15) for Trap faults.
	Vector int

	// Address and Write describe the faulting access for AddressError.
	Address uint32
	Write   bool
	Fetch   bool

	// Length is the byte length of the faulting instruction, used when the
	// exception returns to the following instruction.
	Length uint32

	// Cycles already spent by the instruction before it faulted
	// (e.g. effective address calculation for DIVU/DIVS).
	Cycles int
}

func (f *Fault) Error() string {
	switch f.Kind {
	case AddressError:
		op := "read"
		if f.Write {
			op = "write"
		}
		return fmt.Sprintf("m68k: %s on %s at %06x", f.Kind, op, f.Address)
	case Trap:
		return fmt.Sprintf("m68k: TRAP #%d", f.Vector)
	}
	return "m68k: " + f.Kind.String()
}

func addressError(addr uint32, write bool) *Fault {
	return &Fault{Kind: AddressError, Address: addr, Write: write}
}

func illegal() *Fault {
	return &Fault{Kind: IllegalInstruction}
}

func privilegeViolation() *Fault {
	return &Fault{Kind: PrivilegeViolation}
}
