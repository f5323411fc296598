package chip16

import "fmt"

// ImageTooLargeError is returned by New when a code image exceeds the
// 4096-byte address space.
type ImageTooLargeError struct {
	Size int
}

func (e *ImageTooLargeError) Error() string {
	return fmt.Sprintf("chip16: image too large: %d bytes exceeds %d-byte RAM", e.Size, memSize)
}

// AddressOutOfRangeError is returned by any memory access (directly, or
// via the I register) that would read or write outside [0, 4096).
type AddressOutOfRangeError struct {
	Address Word
	Length  int
}

func (e *AddressOutOfRangeError) Error() string {
	return fmt.Sprintf("chip16: address out of range: [%#03x, %#03x)", e.Address, int(e.Address)+e.Length)
}

// StackUnderflowError is returned by RET when the call stack is empty.
type StackUnderflowError struct{}

func (e *StackUnderflowError) Error() string {
	return "chip16: stack underflow: RET with empty call stack"
}

// StackOverflowError is returned by CALL when the call stack has
// reached its configured depth.
type StackOverflowError struct {
	Depth int
}

func (e *StackOverflowError) Error() string {
	return fmt.Sprintf("chip16: stack overflow: exceeded depth %d", e.Depth)
}

// DeviceAbsentError is returned when an instruction addresses an empty
// device slot.
type DeviceAbsentError struct {
	Slot int
}

func (e *DeviceAbsentError) Error() string {
	return fmt.Sprintf("chip16: device absent at slot %X", e.Slot)
}
