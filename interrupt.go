package m68k

import "container/heap"

// interruptRequest is an asserted interrupt line.
type interruptRequest struct {
	level  uint8
	vector *uint8 // nil for autovector
}

// interruptQueue holds pending requests ordered by priority, highest
// level first. There is at most one request per level.
type interruptQueue []interruptRequest

func (q interruptQueue) Len() int           { return len(q) }
func (q interruptQueue) Less(i, j int) bool { return q[i].level > q[j].level }
func (q interruptQueue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }

func (q *interruptQueue) Push(x any) {
	*q = append(*q, x.(interruptRequest))
}

func (q *interruptQueue) Pop() any {
	old := *q
	n := len(old)
	r := old[n-1]
	*q = old[:n-1]
	return r
}

// RequestInterrupt asserts an interrupt at level (1-7). A nil vector
// selects the autovector for the level (24 + level). Level 0 is ignored.
// A second request at an already pending level replaces the first.
func (c *CPU) RequestInterrupt(level uint8, vector *uint8) {
	if level == 0 || level > 7 {
		return
	}
	var vec *uint8
	if vector != nil {
		v := *vector
		vec = &v
	}
	for i := range c.pending {
		if c.pending[i].level == level {
			c.pending[i].vector = vec
			return
		}
	}
	heap.Push(&c.pending, interruptRequest{level: level, vector: vec})
}

// PendingInterrupt returns the highest pending interrupt level, or 0.
func (c *CPU) PendingInterrupt() uint8 {
	if len(c.pending) == 0 {
		return 0
	}
	return c.pending[0].level
}

// serviceInterrupt takes the highest pending interrupt if it is above the
// current mask. Level 7 is non-maskable. Reports whether an interrupt was
// taken; servicing one consumes the whole step.
func (c *CPU) serviceInterrupt() bool {
	if len(c.pending) == 0 {
		return false
	}
	top := c.pending[0]
	if top.level <= c.reg.IntMask() && top.level != 7 {
		return false
	}
	heap.Pop(&c.pending)

	vector := int(vecAutoVector1) + int(top.level) - 1
	if top.vector != nil {
		vector = int(*top.vector)
	}

	c.stopped = false
	returnPC := c.reg.PC
	oldSR := c.enterSupervisor()
	c.reg.SR = c.reg.SR&^0x0700 | uint16(top.level)<<8

	err := c.push(returnPC, Long)
	if err == nil {
		err = c.push(uint32(oldSR), Word)
	}
	if err == nil {
		err = c.jumpVector(vector)
	}
	if err != nil {
		c.doubleFault(vector, err)
		return true
	}
	c.cycles += interruptCycles
	return true
}
