// Package chip16 is a Chip16 virtual machine: a 16-bit-register, 12-bit
// address machine with memory-mapped I/O devices in place of the
// classic CHIP-8 graphics/sound/timer instructions.
package chip16

import (
	"fmt"
	"math/rand"
)

//		Memory map
//		+---------------+= 0xFFF (4095) End of RAM
//		|               |
//		|   0x000-0xFFF |
//		|   Program /   |
//		|   Data space  |
//		|               |
//		+---------------+= 0x000 Begin RAM
//
// Unlike classic CHIP-8, Chip16 reserves no low memory for font data or
// an interpreter image: the whole 4k is available to the loaded program.

const (
	// memSize is the size, in bytes, of addressable RAM.
	memSize = 0x1000

	// numRegisters is the number of general-purpose Word registers.
	numRegisters = 16

	// carryRegister is the index of the carry/no-borrow flag register.
	carryRegister = 0xF

	// defaultStackDepth is the call-stack depth enforced when the VM is
	// constructed without an explicit limit (spec recommends 256).
	defaultStackDepth = 256
)

// Word is a 16-bit register value. All arithmetic on it wraps modulo
// 2^16, matching the semantics the source machine relies on via silent
// numeric-library overflow.
type Word = uint16

// VM is a Chip16 virtual machine.
type VM struct {
	// ram is the full addressable memory space.
	ram [memSize]byte

	// reg holds the sixteen general-purpose registers. reg[0xF] doubles
	// as the carry/no-borrow flag after any instruction that produces
	// one, but is otherwise an ordinary, freely writable register.
	reg [numRegisters]Word

	// stack is the call-return address stack, bounded by stackDepth.
	stack []Word

	// stackDepth is the maximum number of nested CALLs before
	// StackOverflow is reported.
	stackDepth int

	// pc is the code pointer: the address of the next instruction fetch.
	pc Word

	// i is the memory index register, used by SMP/MPAR/SPL/LDR and the
	// device read/write instructions.
	i Word

	// alert is raised (and stays raised) the first time the decoder
	// sees an opcode with no dispatch entry. It does not halt execution.
	alert bool

	// devices is the fixed table of sixteen memory-mapped I/O ports.
	devices *DeviceSet

	// rng backs the BAR (random) instruction. Seeded explicitly at
	// construction so that runs are reproducible in tests.
	rng *rand.Rand

	// cycles counts instructions executed since the last Reset, purely
	// for observability; it has no effect on VM semantics.
	cycles uint64

	// code is the image copied into ram by Reset; retained so Reset can
	// restore the VM to its just-loaded state.
	code []byte
}

// Option configures a VM at construction time.
type Option func(*VM)

// WithDevices attaches a device table. Without this option, slot 0 is
// populated with a ConsoleIO device and the rest are left empty, matching
// the source emulator's default device list.
func WithDevices(devices *DeviceSet) Option {
	return func(vm *VM) { vm.devices = devices }
}

// WithStackDepth overrides the default call-stack depth.
func WithStackDepth(depth int) Option {
	return func(vm *VM) { vm.stackDepth = depth }
}

// WithSeed seeds the VM's random number generator, used by the BAR
// instruction. Two VMs constructed with the same seed produce identical
// BAR sequences.
func WithSeed(seed int64) Option {
	return func(vm *VM) { vm.rng = rand.New(rand.NewSource(seed)) }
}

// New constructs a VM, copying code into ram starting at address 0.
// It fails with ImageTooLarge if code does not fit in the 4k address
// space.
func New(code []byte, opts ...Option) (*VM, error) {
	if len(code) > memSize {
		return nil, &ImageTooLargeError{Size: len(code)}
	}

	vm := &VM{
		stackDepth: defaultStackDepth,
		code:       append([]byte(nil), code...),
	}

	for _, opt := range opts {
		opt(vm)
	}

	if vm.devices == nil {
		vm.devices = NewDeviceSet()
		vm.devices.Set(0, NewConsoleIO())
	}

	if vm.rng == nil {
		vm.rng = rand.New(rand.NewSource(1))
	}

	vm.Reset()

	return vm, nil
}

// Reset restores the VM to its just-loaded state: ram holds the
// original code image zero-padded to 4k, every register and the stack
// are cleared, pc and i return to zero, and alert is lowered.
func (vm *VM) Reset() {
	vm.ram = [memSize]byte{}
	copy(vm.ram[:], vm.code)

	vm.reg = [numRegisters]Word{}
	vm.stack = vm.stack[:0]
	vm.pc = 0
	vm.i = 0
	vm.alert = false
	vm.cycles = 0
}

// Alert reports whether an unknown opcode has been decoded since the
// last Reset.
func (vm *VM) Alert() bool { return vm.alert }

// PC returns the current code pointer.
func (vm *VM) PC() Word { return vm.pc }

// I returns the current memory index register.
func (vm *VM) I() Word { return vm.i }

// Register returns the current value of register x (0-15).
func (vm *VM) Register(x int) Word { return vm.reg[x&0xF] }

// SetRegister writes v into register x (0-15). Intended for test setup
// and host-side program staging, not for use by instruction handlers.
func (vm *VM) SetRegister(x int, v Word) { vm.reg[x&0xF] = v }

// Cycles returns the number of instructions executed since the last
// Reset.
func (vm *VM) Cycles() uint64 { return vm.cycles }

// StackDepth returns the number of addresses currently on the call
// stack.
func (vm *VM) StackDepth() int { return len(vm.stack) }

// Execute runs the fetch-execute loop until either cycles instructions
// have been processed, or HLT (opcode 0x0000) is decoded. A nil cycles
// budget runs until HLT. It returns the first non-alert error the loop
// encounters, if any.
func (vm *VM) Execute(cycles *uint64) error {
	for cycles == nil || *cycles > 0 {
		halted, err := vm.step()
		if err != nil {
			return err
		}
		if halted {
			return nil
		}
		vm.cycles++
		if cycles != nil {
			*cycles--
		}
	}
	return nil
}

// step fetches and executes a single instruction, returning true if it
// was HLT.
func (vm *VM) step() (halted bool, err error) {
	op, err := vm.fetch()
	if err != nil {
		return false, err
	}
	if op == opHalt {
		return true, nil
	}

	advance := true
	if err := vm.dispatch(op, &advance); err != nil {
		return false, err
	}

	if advance {
		vm.pc = wrapAddr(vm.pc + 2)
	}

	return false, nil
}

// fetch reads the big-endian Word at ram[pc], ram[pc+1], failing with
// AddressOutOfRangeError rather than indexing past ram when pc sits at
// the last byte of the address space (e.g. a GOTO/CALL to the odd
// address 0xFFF).
func (vm *VM) fetch() (Word, error) {
	if err := checkAddr(vm.pc, 2); err != nil {
		return 0, err
	}
	return Concat(vm.ram[vm.pc], vm.ram[vm.pc+1]), nil
}

// wrapAddr reduces addr into the 12-bit address space, matching the
// spec's pc <- pc + 2 (mod 4096) step semantics.
func wrapAddr(addr Word) Word { return addr % memSize }

// checkAddr validates that [addr, addr+n) lies within ram.
func checkAddr(addr Word, n int) error {
	if int(addr)+n > memSize {
		return &AddressOutOfRangeError{Address: addr, Length: n}
	}
	return nil
}

func (vm *VM) pushStack(v Word) error {
	if len(vm.stack) >= vm.stackDepth {
		return &StackOverflowError{Depth: vm.stackDepth}
	}
	vm.stack = append(vm.stack, v)
	return nil
}

func (vm *VM) popStack() (Word, error) {
	if len(vm.stack) == 0 {
		return 0, &StackUnderflowError{}
	}
	v := vm.stack[len(vm.stack)-1]
	vm.stack = vm.stack[:len(vm.stack)-1]
	return v, nil
}

// String renders a compact, single-line register dump, useful for
// debugging a hung or misbehaving program.
func (vm *VM) String() string {
	return fmt.Sprintf(
		"pc=%03X i=%03X alert=%v v=%04X stack=%d",
		vm.pc, vm.i, vm.alert, vm.reg, len(vm.stack),
	)
}
