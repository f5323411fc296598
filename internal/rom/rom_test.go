package rom

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

func TestEncodeDecodeRoundTrip(t *testing.T) {
	ops := []uint16{0x1234, 0xABCD, 0x0000, 0xFFFF}

	data := Encode(ops)
	assertf(t, len(data) == len(ops)*2, "got %d bytes, want %d", len(data), len(ops)*2)
	assertf(t, data[0] == 0x12 && data[1] == 0x34, "first word encoded as %02x%02x, want 1234", data[0], data[1])

	back, err := Decode(data)
	assertf(t, err == nil, "Decode: %v", err)
	assertf(t, len(back) == len(ops), "got %d ops back, want %d", len(back), len(ops))
	for i := range ops {
		assertf(t, back[i] == ops[i], "ops[%d] = %#04x, want %#04x", i, back[i], ops[i])
	}
}

func TestDecodeOddLength(t *testing.T) {
	_, err := Decode([]byte{0x01, 0x02, 0x03})
	assertf(t, err != nil, "expected an error for odd-length input")
}
