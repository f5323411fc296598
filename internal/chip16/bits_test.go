package chip16

import "testing"

func TestHighLowByte(t *testing.T) {
	assertf(t, HighByte(0xABCD) == 0xAB, "HighByte(0xABCD) = %#02x, want 0xAB", HighByte(0xABCD))
	assertf(t, LowByte(0xABCD) == 0xCD, "LowByte(0xABCD) = %#02x, want 0xCD", LowByte(0xABCD))
}

func TestConcat(t *testing.T) {
	got := Concat(0xAB, 0xCD)
	assertf(t, got == 0xABCD, "Concat(0xAB, 0xCD) = %#04x, want 0xABCD", got)
}

func TestNibble(t *testing.T) {
	w := Word(0x1234)
	tests := []struct {
		i    int
		want Word
	}{
		{0, 0x4},
		{1, 0x3},
		{2, 0x2},
		{3, 0x1},
	}
	for _, tt := range tests {
		got := Nibble(w, tt.i)
		assertf(t, got == tt.want, "Nibble(%#04x, %d) = %#x, want %#x", w, tt.i, got, tt.want)
	}
}
