package chip16

import "os"

// memoryDeviceSize is the capacity, in bytes, of a MemoryDevice or
// RomDevice extension buffer (64 KiB).
const memoryDeviceSize = 0x10000

// MemoryDevice is a 64 KiB flat buffer with a cursor settable via
// SetPtr. Read and Write copy from/to the cursor without advancing it,
// matching the source emulator's MemoryDevice.
type MemoryDevice struct {
	ptr Word
	mem [memoryDeviceSize]byte
}

// NewMemoryDevice returns an empty 64 KiB memory extension device.
func NewMemoryDevice() *MemoryDevice {
	return &MemoryDevice{}
}

func (m *MemoryDevice) GetPtr() Word   { return m.ptr }
func (m *MemoryDevice) SetPtr(v Word) { m.ptr = v }

func (m *MemoryDevice) Read(n byte) ([]byte, error) {
	out := make([]byte, n)
	copy(out, m.mem[m.ptr:])
	return out, nil
}

func (m *MemoryDevice) Write(data []byte) error {
	copy(m.mem[m.ptr:], data)
	return nil
}

// RomDevice is identical to MemoryDevice except it is initialized from
// a ROM file and rejects writes: a rewrite of the source's RomDevice,
// which accepted writes despite representing read-only extension ROM
// (see SPEC_FULL.md §4.2).
type RomDevice struct {
	ptr Word
	mem [memoryDeviceSize]byte
}

// NewRomDevice returns a RomDevice preloaded from data, truncated or
// zero-padded to the device's 64 KiB capacity.
func NewRomDevice(data []byte) *RomDevice {
	d := &RomDevice{}
	copy(d.mem[:], data)
	return d
}

// NewRomDeviceFromFile reads path and returns a RomDevice preloaded
// with its contents. Unlike the source emulator's RomDevice, which
// reads a hardcoded rom.crm path, the path here is an explicit
// argument supplied by the caller (see cmd/run.go's --rom-device flag).
func NewRomDeviceFromFile(path string) (*RomDevice, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return NewRomDevice(data), nil
}

func (r *RomDevice) GetPtr() Word   { return r.ptr }
func (r *RomDevice) SetPtr(v Word) { r.ptr = v }

func (r *RomDevice) Read(n byte) ([]byte, error) {
	out := make([]byte, n)
	copy(out, r.mem[r.ptr:])
	return out, nil
}

func (r *RomDevice) Write([]byte) error {
	return errRomReadOnly
}

var errRomReadOnly = romReadOnlyError{}

type romReadOnlyError struct{}

func (romReadOnlyError) Error() string { return "chip16: RomDevice is read-only" }
