package m68k

import (
	"errors"
	"fmt"
)

// MaxMemory is the size of the 68000's 24-bit address space.
const MaxMemory = 16 * 1024 * 1024

// ErrOutOfRange is returned when a load does not fit in a memory image.
var ErrOutOfRange = errors.New("m68k: address out of range")

// Bounded is optionally implemented by a Bus that backs only part of the
// address space. The CPU stops when it would fetch outside of it.
type Bounded interface {
	Contains(addr uint32, sz Size) bool
}

// RAM is a flat big-endian memory image. Reads beyond the image return
// zero and writes beyond it are dropped.
type RAM struct {
	mem []byte
}

// NewRAM returns a zeroed image of size bytes (capped at 16 MiB).
func NewRAM(size int) *RAM {
	if size > MaxMemory {
		size = MaxMemory
	}
	return &RAM{mem: make([]byte, size)}
}

// NewRAMFrom wraps an existing buffer without copying it. The caller must
// not modify it while the CPU is stepping.
func NewRAMFrom(buf []byte) *RAM {
	if len(buf) > MaxMemory {
		buf = buf[:MaxMemory]
	}
	return &RAM{mem: buf}
}

// Bytes exposes the backing buffer.
func (m *RAM) Bytes() []byte { return m.mem }

// Contains reports whether the sz bytes at addr lie inside the image.
func (m *RAM) Contains(addr uint32, sz Size) bool {
	return uint64(addr)+uint64(sz) <= uint64(len(m.mem))
}

func (m *RAM) Read(sz Size, addr uint32) uint32 {
	var v uint32
	for i := uint32(0); i < uint32(sz); i++ {
		v = v<<8 | uint32(m.Peek(addr+i))
	}
	return v
}

func (m *RAM) Write(sz Size, addr uint32, val uint32) {
	for i := int(sz) - 1; i >= 0; i-- {
		m.Poke(addr+uint32(i), byte(val))
		val >>= 8
	}
}

// Reset is a no-op; a RESET instruction does not clear memory.
func (m *RAM) Reset() {}

// Peek returns the byte at addr, or zero outside the image.
func (m *RAM) Peek(addr uint32) byte {
	addr &= addrMask
	if int(addr) >= len(m.mem) {
		return 0
	}
	return m.mem[addr]
}

// Poke stores a byte, ignoring addresses outside the image.
func (m *RAM) Poke(addr uint32, b byte) {
	addr &= addrMask
	if int(addr) < len(m.mem) {
		m.mem[addr] = b
	}
}

// Load copies data into the image at addr.
func (m *RAM) Load(addr uint32, data []byte) error {
	if uint64(addr)+uint64(len(data)) > uint64(len(m.mem)) {
		return fmt.Errorf("load %d bytes at %06x: %w", len(data), addr, ErrOutOfRange)
	}
	copy(m.mem[addr:], data)
	return nil
}

// WriteWords stores big-endian words starting at addr, typically an
// opcode followed by its extension words.
func (m *RAM) WriteWords(addr uint32, words ...uint16) {
	for i, w := range words {
		m.Write(Word, addr+uint32(i*2), uint32(w))
	}
}

// SparseRAM is an address-indexed memory holding only the bytes that were
// populated, for golden vectors that list selected addresses.
// Unpopulated addresses read as zero.
type SparseRAM struct {
	mem map[uint32]byte
}

// NewSparseRAM returns an empty sparse image.
func NewSparseRAM() *SparseRAM {
	return &SparseRAM{mem: make(map[uint32]byte)}
}

func (m *SparseRAM) Read(sz Size, addr uint32) uint32 {
	var v uint32
	for i := uint32(0); i < uint32(sz); i++ {
		v = v<<8 | uint32(m.Peek(addr+i))
	}
	return v
}

func (m *SparseRAM) Write(sz Size, addr uint32, val uint32) {
	for i := int(sz) - 1; i >= 0; i-- {
		m.Poke(addr+uint32(i), byte(val))
		val >>= 8
	}
}

func (m *SparseRAM) Reset() {}

// Peek returns the byte at addr.
func (m *SparseRAM) Peek(addr uint32) byte {
	return m.mem[addr&addrMask]
}

// Poke stores a byte at addr.
func (m *SparseRAM) Poke(addr uint32, b byte) {
	m.mem[addr&addrMask] = b
}

// Load copies data into the image at addr.
func (m *SparseRAM) Load(addr uint32, data []byte) error {
	if uint64(addr)+uint64(len(data)) > MaxMemory {
		return fmt.Errorf("load %d bytes at %06x: %w", len(data), addr, ErrOutOfRange)
	}
	for i, b := range data {
		m.mem[addr+uint32(i)] = b
	}
	return nil
}

// WriteWords stores big-endian words starting at addr.
func (m *SparseRAM) WriteWords(addr uint32, words ...uint16) {
	for i, w := range words {
		m.Write(Word, addr+uint32(i*2), uint32(w))
	}
}

// Len returns the number of populated bytes.
func (m *SparseRAM) Len() int { return len(m.mem) }
