package m68k

import (
	"errors"
	"testing"
)

func TestPostIncPreDecSymmetry(t *testing.T) {
	for _, sz := range []Size{Byte, Word, Long} {
		for reg := uint16(0); reg < 8; reg++ {
			c, _ := newTestCPU(t)
			setA(c, int(reg), 0x3000)

			if _, err := c.effectiveAddress(eaField(modePostInc, reg), sz, 2); err != nil {
				t.Fatalf("postinc: %v", err)
			}
			up := c.reg.ReadA(int(reg), Long)
			if _, err := c.effectiveAddress(eaField(modePreDec, reg), sz, 2); err != nil {
				t.Fatalf("predec: %v", err)
			}
			if back := c.reg.ReadA(int(reg), Long); back != 0x3000 {
				t.Errorf("A%d %s: postinc then predec = %06X", reg, sz, back)
			}

			step := uint32(sz)
			if reg == 7 && sz == Byte {
				step = 2
			}
			if up != 0x3000+step {
				t.Errorf("A%d %s: postinc = %06X, want %06X", reg, sz, up, 0x3000+step)
			}
		}
	}
}

func TestEffectiveAddressModes(t *testing.T) {
	tests := []struct {
		name  string
		field uint16
		ext   []uint16
		want  uint32
		n     uint32 // extension bytes
	}{
		{"(A0)", eaField(modeInd, 0), nil, 0x3000, 0},
		{"d16(A0)", eaField(modeDisp, 0), []uint16{0xFFFE}, 0x2FFE, 2},
		{"d8(A0,D1.W)", eaField(modeIndex, 0), []uint16{0x1004}, 0x3000 + 4 - 2, 2},
		{"d8(A0,D1.L)", eaField(modeIndex, 0), []uint16{0x1804}, 0x3000 + 4 + 0xFFFE, 2},
		{"d8(A0,A1.W)", eaField(modeIndex, 0), []uint16{0x9080}, 0x3000 + 0x10 - 0x80, 2},
		{"scale ignored", eaField(modeIndex, 0), []uint16{0x1604}, 0x3000 + 4 - 2, 2},
		{"abs.W negative", 0x38, []uint16{0x8000}, 0xFFFF8000, 2},
		{"abs.L", 0x39, []uint16{0x0012, 0x3456}, 0x123456, 4},
		{"d16(PC)", 0x3A, []uint16{0x0010}, testPC + 2 + 0x10, 2},
		{"d8(PC,D1.W)", 0x3B, []uint16{0x10FE}, testPC + 2 - 2 - 2, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ram := newTestCPU(t)
			ram.WriteWords(testPC+2, tt.ext...)
			setA(c, 0, 0x3000)
			setA(c, 1, 0x10)
			setD(c, 0, 0x0000FFFE)

			o, err := c.effectiveAddress(tt.field, Word, 2)
			if err != nil {
				t.Fatalf("effectiveAddress: %v", err)
			}
			if o.addr != tt.want {
				t.Errorf("addr = %08X, want %08X", o.addr, tt.want)
			}
			if o.ext != tt.n {
				t.Errorf("ext = %d, want %d", o.ext, tt.n)
			}
		})
	}
}

func TestResolveLoadsOperand(t *testing.T) {
	c, ram := newTestCPU(t)
	ram.Write(Long, 0x3000, 0xCAFEBABE)
	setA(c, 2, 0x3000)

	o, err := c.resolve(eaField(modeInd, 2), Word, 2)
	if err != nil {
		t.Fatal(err)
	}
	if o.value != 0xCAFE {
		t.Errorf("value = %X, want CAFE", o.value)
	}
	if o.cycles != eaFetchCycles(modeInd, Word) {
		t.Errorf("cycles = %d", o.cycles)
	}
}

func TestImmediateOperand(t *testing.T) {
	c, ram := newTestCPU(t)
	ram.WriteWords(testPC+2, 0xFF12, 0x3456)

	for _, tt := range []struct {
		sz   Size
		want uint32
		ext  uint32
	}{
		{Byte, 0x12, 2},
		{Word, 0xFF12, 2},
		{Long, 0xFF123456, 4},
	} {
		o, err := c.resolve(0x3C, tt.sz, 2)
		if err != nil {
			t.Fatal(err)
		}
		if o.value != tt.want || o.ext != tt.ext {
			t.Errorf("%s immediate = %X (+%d), want %X (+%d)", tt.sz, o.value, o.ext, tt.want, tt.ext)
		}
		var f *Fault
		if err := c.store(o, 0, tt.sz); !errors.As(err, &f) || f.Kind != IllegalInstruction {
			t.Errorf("store to immediate: %v", err)
		}
	}
}

func TestInvalidModeIsIllegal(t *testing.T) {
	c, _ := newTestCPU(t)
	_, err := c.effectiveAddress(0x3D, Word, 2)
	var f *Fault
	if !errors.As(err, &f) || f.Kind != IllegalInstruction {
		t.Fatalf("mode 7/5: err = %v, want illegal instruction", err)
	}
}
