// Package disasm turns a Chip16 opcode stream back into mnemonic
// source text, the inverse of package asm's emitters. Grounded on the
// reference corpus's one disassembler, massung's chip8.Disassemble, in
// structure (one big-endian Word per line, an if/else-if ladder keyed
// on the masked opcode) and adapted to Chip16's opcode table.
package disasm

import "fmt"

// Instruction decodes and formats a single opcode, mirroring package
// asm's mnemonic shapes. The output reassembles to the same opcode for
// every instruction except goto and call: their targets are printed as
// 0xNNN literals, and package asm accepts only a label for those two.
func Instruction(op uint16) string {
	x := (op >> 8) & 0xF
	y := (op >> 4) & 0xF
	nn := op & 0xFF
	nnn := op & 0x0FFF

	switch {
	case op == 0x0000:
		return "hlt"
	case op == 0x01EE:
		return "ret"
	case op&0xF000 == 0x1000:
		return fmt.Sprintf("goto 0x%03X", nnn)
	case op&0xF000 == 0x2000:
		return fmt.Sprintf("call 0x%03X", nnn)
	case op&0xF000 == 0x3000:
		return fmt.Sprintf("snec r%X, 0x%02X", x, nn)
	case op&0xF000 == 0x4000:
		return fmt.Sprintf("snuec r%X, 0x%02X", x, nn)
	case op&0xF00F == 0x5000:
		return fmt.Sprintf("sne r%X, r%X", x, y)
	case op&0xF000 == 0x6000:
		return fmt.Sprintf("acr r%X, 0x%02X", x, nn)
	case op&0xF000 == 0x7000:
		return fmt.Sprintf("adc r%X, 0x%02X", x, nn)
	case op&0xF00F == 0x8000:
		return fmt.Sprintf("ar r%X, r%X", x, y)
	case op&0xF00F == 0x8001:
		return fmt.Sprintf("or r%X, r%X", x, y)
	case op&0xF00F == 0x8002:
		return fmt.Sprintf("and r%X, r%X", x, y)
	case op&0xF00F == 0x8003:
		return fmt.Sprintf("xor r%X, r%X", x, y)
	case op&0xF00F == 0x8004:
		return fmt.Sprintf("add r%X, r%X", x, y)
	case op&0xF00F == 0x8005:
		return fmt.Sprintf("sub r%X, r%X", x, y)
	case op&0xF00F == 0x8006:
		return fmt.Sprintf("shr r%X, 0x%X", x, y)
	case op&0xF00F == 0x8007:
		return fmt.Sprintf("rsub r%X, r%X", x, y)
	case op&0xF00F == 0x800E:
		return fmt.Sprintf("shl r%X, 0x%X", x, y)
	case op&0xF00F == 0x800F:
		return fmt.Sprintf("xch r%X, r%X", x, y)
	case op&0xF00F == 0x9000:
		return fmt.Sprintf("snue r%X, r%X", x, y)
	case op&0xF000 == 0xA000:
		return fmt.Sprintf("smp 0x%03X", nnn)
	case op&0xF000 == 0xB000:
		return fmt.Sprintf("cpac 0x%03X", nnn)
	case op&0xF000 == 0xC000:
		return fmt.Sprintf("bar r%X, 0x%02X", x, nn)
	case op&0xF000 == 0xD000:
		return fmt.Sprintf("rdb dev%X, 0x%02X", x, nn)
	case op&0xF0FF == 0xE000:
		return fmt.Sprintf("dps dev%X", x)
	case op&0xF0FF == 0xE001:
		return fmt.Sprintf("dpg dev%X", x)
	case op&0xF0FF == 0xE01D:
		return fmt.Sprintf("rmp r%X", x)
	case op&0xF0FF == 0xE01E:
		return fmt.Sprintf("mpar r%X", x)
	case op&0xF0FF == 0xE055:
		return fmt.Sprintf("spl r%X", x)
	case op&0xF0FF == 0xE065:
		return fmt.Sprintf("ld r%X", x)
	case op&0xF000 == 0xF000:
		return fmt.Sprintf("wrb dev%X, 0x%02X", x, nn)
	default:
		return fmt.Sprintf("?? 0x%04X", op)
	}
}

// Program disassembles a flat opcode stream, one instruction per line,
// each prefixed with its byte address.
func Program(ops []uint16) []string {
	lines := make([]string, len(ops))
	for i, op := range ops {
		lines[i] = fmt.Sprintf("%04X  %s", i*2, Instruction(op))
	}
	return lines
}
