package m68k

import (
	"encoding/binary"
	"errors"
	"fmt"
)

var (
	// ErrBufferTooSmall is returned when a snapshot buffer is shorter than
	// SerializeSize.
	ErrBufferTooSmall = errors.New("m68k: snapshot buffer too small")

	// ErrVersion is returned when a snapshot was written by an
	// incompatible layout.
	ErrVersion = errors.New("m68k: unsupported snapshot version")
)

// cpuSerializeVersion is incremented whenever the binary layout changes.
const cpuSerializeVersion = 2

// SerializeSize is the number of bytes produced by CPU.Serialize.
// Update this constant whenever the binary layout changes.
const SerializeSize = 104

// Run state bits.
const (
	stateStopped = 1 << iota
	stateHalted
	stateResetPending
)

// Serialize writes the full CPU state into buf, which must be at least
// SerializeSize bytes. The bus is not included.
//
// Layout (big endian): version, D0-D7, A0-A6, USP, SSP, PC, SR, cycle
// count, IR, run state, RunCycles deficit, then one (flags, vector) pair
// per interrupt level 1-7.
func (c *CPU) Serialize(buf []byte) error {
	if len(buf) < SerializeSize {
		return fmt.Errorf("%w: have %d, need %d", ErrBufferTooSmall, len(buf), SerializeSize)
	}

	buf[0] = cpuSerializeVersion
	be := binary.BigEndian
	off := 1

	for _, d := range c.reg.D {
		be.PutUint32(buf[off:], d)
		off += 4
	}
	for _, a := range c.reg.A {
		be.PutUint32(buf[off:], a)
		off += 4
	}
	for _, v := range []uint32{c.reg.USP, c.reg.SSP, c.reg.PC} {
		be.PutUint32(buf[off:], v)
		off += 4
	}
	be.PutUint16(buf[off:], c.reg.SR)
	off += 2

	be.PutUint64(buf[off:], c.cycles)
	off += 8
	be.PutUint16(buf[off:], c.ir)
	off += 2

	var state uint8
	if c.stopped {
		state |= stateStopped
	}
	if c.halted {
		state |= stateHalted
	}
	if c.resetPending {
		state |= stateResetPending
	}
	buf[off] = state
	off++

	be.PutUint32(buf[off:], uint32(int32(c.deficit)))
	off += 4

	// Bit 0: pending, bit 1: explicit vector.
	levels := buf[off : off+14]
	clear(levels)
	for _, req := range c.pending {
		i := int(req.level-1) * 2
		levels[i] = 1
		if req.vector != nil {
			levels[i] |= 2
			levels[i+1] = *req.vector
		}
	}
	return nil
}

// Deserialize restores CPU state from buf. The bus, logger and trace hook
// are left unchanged.
func (c *CPU) Deserialize(buf []byte) error {
	if len(buf) < SerializeSize {
		return fmt.Errorf("%w: have %d, need %d", ErrBufferTooSmall, len(buf), SerializeSize)
	}
	if buf[0] != cpuSerializeVersion {
		return fmt.Errorf("%w: %d", ErrVersion, buf[0])
	}

	be := binary.BigEndian
	off := 1

	for i := range c.reg.D {
		c.reg.D[i] = be.Uint32(buf[off:])
		off += 4
	}
	for i := range c.reg.A {
		c.reg.A[i] = be.Uint32(buf[off:])
		off += 4
	}
	for _, p := range []*uint32{&c.reg.USP, &c.reg.SSP, &c.reg.PC} {
		*p = be.Uint32(buf[off:])
		off += 4
	}
	c.reg.SetSR(be.Uint16(buf[off:]))
	off += 2

	c.cycles = be.Uint64(buf[off:])
	off += 8
	c.ir = be.Uint16(buf[off:])
	off += 2

	state := buf[off]
	c.stopped = state&stateStopped != 0
	c.halted = state&stateHalted != 0
	c.resetPending = state&stateResetPending != 0
	off++

	c.deficit = int(int32(be.Uint32(buf[off:])))
	off += 4

	c.pending = nil
	for level := uint8(1); level <= 7; level++ {
		i := off + int(level-1)*2
		if buf[i]&1 == 0 {
			continue
		}
		var vec *uint8
		if buf[i]&2 != 0 {
			vec = &buf[i+1]
		}
		c.RequestInterrupt(level, vec)
	}
	return nil
}
