package dasm

import "testing"

func TestImm12CheapPatterns(t *testing.T) {
	cases := []struct {
		n    uint32
		want int32
	}{
		{0, 0},
		{0xFF, 0xFF},
		{0x100, -1},
		{0x00AB00AB, 0xAB | (1 << 12)},
		{0xAB00AB00, 0xAB | (2 << 12)},
		{0xABABABAB, 0xAB | (3 << 12)},
	}
	for _, c := range cases {
		if got := imm12(c.n); got != c.want {
			t.Errorf("imm12(0x%08X) = 0x%X, want 0x%X", c.n, got, c.want)
		}
	}
}

func TestImm12Unencodable(t *testing.T) {
	if got := imm12(0xDEADBEEF); got != -1 {
		t.Errorf("imm12(0xDEADBEEF) = %d, want -1", got)
	}
	// 0x81 rotated right by 1: rotation 1 has no i:imm3:a encoding.
	if got := imm12(0x80000040); got != -1 {
		t.Errorf("imm12(0x80000040) = %d, want -1", got)
	}
}

func TestSwapHalfword(t *testing.T) {
	v := uint32(0x12345678)
	if got := swapHalfword(littleEndian, v); got != 0x56781234 {
		t.Errorf("swapHalfword(LE, 0x%08X) = 0x%08X, want 0x56781234", v, got)
	}
	if got := swapHalfword(bigEndian, v); got != v {
		t.Errorf("swapHalfword(BE, 0x%08X) = 0x%08X, want unchanged", v, got)
	}
}
