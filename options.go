package m68k

import "github.com/sirupsen/logrus"

// Option configures a CPU at construction.
type Option func(*CPU)

// WithLogger sets the logger used for fault and halt diagnostics.
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *CPU) {
		if l != nil {
			c.log = l
		}
	}
}

// WithRegisters seeds the register file and skips the reset sequence.
func WithRegisters(regs Registers) Option {
	return func(c *CPU) {
		c.SetState(regs)
	}
}

// WithTraceHook installs fn to be called with the address and first word
// of every instruction before it executes.
func WithTraceHook(fn func(pc uint32, op uint16)) Option {
	return func(c *CPU) {
		c.trace = fn
	}
}
