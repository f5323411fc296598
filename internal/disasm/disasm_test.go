package disasm

import (
	"fmt"
	"testing"
)

func assertf(t *testing.T, cond bool, format string, args ...any) {
	t.Helper()
	if !cond {
		t.Fatalf(fmt.Sprintf("%v %s", cond, format), args...)
	}
}

func TestInstruction(t *testing.T) {
	tests := []struct {
		op   uint16
		want string
	}{
		{0x0000, "hlt"},
		{0x01EE, "ret"},
		{0x1234, "goto 0x234"},
		{0x2456, "call 0x456"},
		{0x6010, "acr r0, 0x10"},
		{0x8014, "add r0, r1"},
		{0x801F, "xch r0, r1"},
		{0xC2FF, "bar r2, 0xFF"},
		{0xD104, "rdb dev1, 0x04"},
		{0xF104, "wrb dev1, 0x04"},
		{0xFFFF, "wrb devF, 0xFF"},
	}
	for _, tt := range tests {
		got := Instruction(tt.op)
		assertf(t, got == tt.want, "Instruction(%#04x) = %q, want %q", tt.op, got, tt.want)
	}
}

func TestProgramPrefixesAddress(t *testing.T) {
	lines := Program([]uint16{0x0000, 0x01EE})
	assertf(t, len(lines) == 2, "got %d lines, want 2", len(lines))
	assertf(t, lines[0] == "0000  hlt", "lines[0] = %q", lines[0])
	assertf(t, lines[1] == "0002  ret", "lines[1] = %q", lines[1])
}
