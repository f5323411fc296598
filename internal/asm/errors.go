package asm

import "fmt"

// SyntaxError reports an unexpected token while parsing an instruction
// or label.
type SyntaxError struct {
	Line int
	Got  string
	Want string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("asm: syntax error near line %d: got %q, want %s", e.Line, e.Got, e.Want)
}

// UnresolvedLabelError reports a goto/call/smp reference with no
// matching label at end of assembly.
type UnresolvedLabelError struct {
	Label string
}

func (e *UnresolvedLabelError) Error() string {
	return fmt.Sprintf("asm: unresolved label %q", e.Label)
}

// AddressOverflowError reports an emitted image that would exceed the
// 12-bit address space (4096 bytes).
type AddressOverflowError struct {
	Address int
}

func (e *AddressOverflowError) Error() string {
	return fmt.Sprintf("asm: address overflow: %#x exceeds 12-bit address space", e.Address)
}

// NumericParseError reports an operand that was expected to be a
// numeric literal but failed to parse.
type NumericParseError struct {
	Token string
}

func (e *NumericParseError) Error() string {
	return fmt.Sprintf("asm: invalid numeric literal %q", e.Token)
}
