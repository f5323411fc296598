package chip16

import (
	"os"
	"path/filepath"
	"testing"
)

func TestMemoryDeviceReadWriteAtPtr(t *testing.T) {
	m := NewMemoryDevice()
	m.SetPtr(0x10)

	assertf(t, m.Write([]byte{0xAB, 0xCD}) == nil, "Write failed")
	m.SetPtr(0x10)
	got, err := m.Read(2)
	assertf(t, err == nil, "Read failed: %v", err)
	assertf(t, got[0] == 0xAB && got[1] == 0xCD, "got %v, want [171 205]", got)
}

func TestRomDeviceFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ext.rom")
	assertf(t, os.WriteFile(path, []byte{0x11, 0x22, 0x33}, 0o644) == nil, "WriteFile failed")

	r, err := NewRomDeviceFromFile(path)
	assertf(t, err == nil, "NewRomDeviceFromFile: %v", err)

	got, err := r.Read(3)
	assertf(t, err == nil, "Read failed: %v", err)
	assertf(t, got[0] == 0x11 && got[1] == 0x22 && got[2] == 0x33, "got %v, want [17 34 51]", got)
}

func TestRomDeviceFromFileMissing(t *testing.T) {
	_, err := NewRomDeviceFromFile(filepath.Join(t.TempDir(), "missing.rom"))
	assertf(t, err != nil, "expected an error for a missing file")
}

// TestRomDeviceRejectsWrites covers the frozen §4.2 ambiguity: RomDevice
// is read-only, unlike the source's RomDevice which silently accepted
// writes.
func TestRomDeviceRejectsWrites(t *testing.T) {
	r := NewRomDevice([]byte{0xAA})
	err := r.Write([]byte{0xFF})
	assertf(t, err == errRomReadOnly, "Write error = %v, want errRomReadOnly", err)
}
