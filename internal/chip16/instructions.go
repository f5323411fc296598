package chip16

// Notation, matching spec: X, Y are 4-bit register indices, N a 4-bit
// literal, NN a byte, NNN a 12-bit address.

const opHalt Word = 0x0000

// dispatch decodes op by its top nibble (and, for families 8 and E, a
// nested dispatch on the low nibble/byte) and routes to a handler.
// advance is left true unless the handler fully determines the next pc
// itself (GOTO, CALL, CPAC, RET). The skip instructions leave advance
// true and bump pc by an extra 2 on top of the caller's +2.
func (vm *VM) dispatch(op Word, advance *bool) error {
	nib3 := Nibble(op, 3)
	x := int(Nibble(op, 2))
	y := int(Nibble(op, 1))
	n := Nibble(op, 0)
	nn := LowByte(op)
	nnn := op & 0x0FFF

	switch nib3 {
	case 0x0:
		if op == 0x01EE {
			*advance = false
			return vm.opRet()
		}
		vm.alert = true
	case 0x1:
		vm.opGoto(nnn)
		*advance = false
	case 0x2:
		*advance = false
		return vm.opCall(nnn)
	case 0x3:
		vm.opSkipIf(vm.reg[x] == Word(nn))
	case 0x4:
		vm.opSkipIf(vm.reg[x] != Word(nn))
	case 0x5:
		if n != 0 {
			vm.alert = true
			break
		}
		vm.opSkipIf(vm.reg[x] == vm.reg[y])
	case 0x6:
		vm.reg[x] = Word(nn)
	case 0x7:
		vm.reg[x] += Word(nn)
	case 0x8:
		return vm.dispatchALU(n, x, y)
	case 0x9:
		if n != 0 {
			vm.alert = true
			break
		}
		vm.opSkipIf(vm.reg[x] != vm.reg[y])
	case 0xA:
		vm.i = nnn
	case 0xB:
		vm.pc = wrapAddr(vm.reg[0] + nnn)
		*advance = false
	case 0xC:
		vm.reg[x] = Word(byte(vm.rng.Intn(256))) & Word(nn)
	case 0xD:
		return vm.opReadBytes(x, nn)
	case 0xE:
		return vm.dispatchE(nn, x)
	case 0xF:
		return vm.opWriteBytes(x, nn)
	default:
		vm.alert = true
	}

	return nil
}

// dispatchALU handles opcode family 8 (register-to-register ALU ops),
// keyed on the low nibble.
func (vm *VM) dispatchALU(n Word, x, y int) error {
	switch n {
	case 0x0: // AR
		vm.reg[x] = vm.reg[y]
	case 0x1: // OR
		vm.reg[x] |= vm.reg[y]
	case 0x2: // AND
		vm.reg[x] &= vm.reg[y]
	case 0x3: // XOR
		vm.reg[x] ^= vm.reg[y]
	case 0x4: // ADD
		vm.opAdd(x, y)
	case 0x5: // SUB
		vm.opSub(x, y)
	case 0x6: // SHR
		vm.opShr(x, y)
	case 0x7: // RSUB: Vy <- Vy - Vx, carry set iff Vy >= Vx
		vm.opRsub(x, y)
	case 0xE: // SHL
		vm.opShl(x, y)
	case 0xF: // XCH
		vm.reg[x], vm.reg[y] = vm.reg[y], vm.reg[x]
	default:
		vm.alert = true
	}
	return nil
}

// dispatchE handles opcode family E (device-pointer and index-register
// operations), keyed on the low byte.
func (vm *VM) dispatchE(lb byte, x int) error {
	switch lb {
	case 0x00: // DPS
		return vm.devices.SetPtr(x, vm.reg[carryRegister])
	case 0x01: // DPG
		v, err := vm.devices.GetPtr(x)
		if err != nil {
			return err
		}
		vm.reg[carryRegister] = v
	case 0x1E: // MPAR
		vm.i += vm.reg[x]
	case 0x1D: // RMP: the subtracting counterpart of MPAR, named in the
		// assembler's mnemonic table (§6.1) but left unimplemented by the
		// source VM. Given MPAR's `i += Vx`, RMP is `i -= Vx`.
		vm.i -= vm.reg[x]
	case 0x55: // SPL
		return vm.opStore(x)
	case 0x65: // LDR
		return vm.opLoad(x)
	default:
		vm.alert = true
	}
	return nil
}

func (vm *VM) opRet() error {
	addr, err := vm.popStack()
	if err != nil {
		return err
	}
	vm.pc = wrapAddr(addr)
	return nil
}

func (vm *VM) opGoto(addr Word) { vm.pc = wrapAddr(addr) }

func (vm *VM) opCall(addr Word) error {
	if err := vm.pushStack(wrapAddr(vm.pc + 2)); err != nil {
		return err
	}
	vm.pc = wrapAddr(addr)
	return nil
}

// opSkipIf advances pc an extra 2 bytes when cond holds, implementing
// every SNEC/SNUEC/SNE/SNUE-family skip.
func (vm *VM) opSkipIf(cond bool) {
	if cond {
		vm.pc = wrapAddr(vm.pc + 2)
	}
}

func (vm *VM) opAdd(x, y int) {
	before := vm.reg[x]
	sum := before + vm.reg[y]
	if sum < before {
		vm.reg[carryRegister] = 1
	} else {
		vm.reg[carryRegister] = 0
	}
	vm.reg[x] = sum
}

func (vm *VM) opSub(x, y int) {
	if vm.reg[x] >= vm.reg[y] {
		vm.reg[carryRegister] = 1
	} else {
		vm.reg[carryRegister] = 0
	}
	vm.reg[x] -= vm.reg[y]
}

// opRsub implements RSUB (8XY7) as its own handler rather than reusing
// SUB with swapped indices: Vy <- Vy - Vx, with the carry computed
// against Vy (the operand being reduced), matching spec.md's
// correction of the source's "reuses SUB" bug.
func (vm *VM) opRsub(x, y int) {
	if vm.reg[y] >= vm.reg[x] {
		vm.reg[carryRegister] = 1
	} else {
		vm.reg[carryRegister] = 0
	}
	vm.reg[y] -= vm.reg[x]
}

// opShr implements SHR (8XY6): Vx >>= shift, carry <- bit (shift-1) of
// Vx before the shift. shift == 0 clears carry and leaves Vx untouched.
func (vm *VM) opShr(x, shift int) {
	if shift == 0 {
		vm.reg[carryRegister] = 0
		return
	}
	bit := vm.reg[x] & (1 << uint(shift-1))
	if bit != 0 {
		vm.reg[carryRegister] = 1
	} else {
		vm.reg[carryRegister] = 0
	}
	vm.reg[x] >>= Word(shift)
}

// opShl implements SHL (8XYE): Vx <<= shift, carry <- bit (16-shift) of
// Vx before the shift. shift == 0 clears carry and leaves Vx untouched.
func (vm *VM) opShl(x, shift int) {
	if shift == 0 {
		vm.reg[carryRegister] = 0
		return
	}
	bit := vm.reg[x] & (1 << uint(16-shift))
	if bit != 0 {
		vm.reg[carryRegister] = 1
	} else {
		vm.reg[carryRegister] = 0
	}
	vm.reg[x] <<= Word(shift)
}

// opReadBytes implements RDB (DXNN): read n bytes from device[x] into
// ram[i:i+n].
func (vm *VM) opReadBytes(x int, n byte) error {
	if err := checkAddr(vm.i, int(n)); err != nil {
		return err
	}
	data, err := vm.devices.Read(x, n)
	if err != nil {
		return err
	}
	copy(vm.ram[vm.i:int(vm.i)+int(n)], data)
	return nil
}

// opWriteBytes implements WRB (FXNN): write n bytes from ram[i:i+n] to
// device[x].
func (vm *VM) opWriteBytes(x int, n byte) error {
	if err := checkAddr(vm.i, int(n)); err != nil {
		return err
	}
	return vm.devices.Write(x, vm.ram[vm.i:int(vm.i)+int(n)])
}

// opStore implements SPL (EX55): store Vx big-endian at ram[i], ram[i+1].
func (vm *VM) opStore(x int) error {
	if err := checkAddr(vm.i, 2); err != nil {
		return err
	}
	v := vm.reg[x]
	vm.ram[vm.i] = HighByte(v)
	vm.ram[vm.i+1] = LowByte(v)
	return nil
}

// opLoad implements LDR (EX65): load a big-endian Word from ram[i:i+2]
// into Vx.
func (vm *VM) opLoad(x int) error {
	if err := checkAddr(vm.i, 2); err != nil {
		return err
	}
	vm.reg[x] = Concat(vm.ram[vm.i], vm.ram[vm.i+1])
	return nil
}
