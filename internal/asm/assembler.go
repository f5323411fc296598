package asm

import (
	"strconv"
	"strings"
)

// pendingPatch records the index into ops (not byte offset) of a
// placeholder opcode whose low 12 bits still need a label's address.
type pendingPatch struct {
	index int
}

// Assembler is a single-pass, forward-reference-tolerant assembler: it
// walks the token stream once, emitting one Word per instruction and
// back-patching label references as they resolve. Grounded on the
// source assembler's Assembler class, restructured per the "two maps"
// design (labels/pending, rather than one symbol table conflating
// both) spec.md's design notes recommend.
type Assembler struct {
	tokens []token
	pos    int

	ops []uint16

	// labels maps a defined label to its byte address.
	labels map[string]int

	// pending maps a label not yet defined to every ops index (not byte
	// offset) of a placeholder instruction awaiting that label's address.
	pending map[string][]pendingPatch
}

// Assemble tokenizes and assembles source, returning the emitted opcode
// stream. It fails with UnresolvedLabelError if any goto/call/smp
// reference is never defined.
func Assemble(source string) ([]uint16, error) {
	a := &Assembler{
		tokens:  tokenize(source),
		labels:  map[string]int{},
		pending: map[string][]pendingPatch{},
	}

	for a.pos < len(a.tokens) {
		tok := a.tokens[a.pos]

		if emit, ok := mnemonics[tok.lit]; ok {
			if err := emit(a); err != nil {
				return nil, err
			}
			continue
		}

		if a.pos+1 < len(a.tokens) && a.tokens[a.pos+1].typ == tokenColon {
			if err := a.defineLabel(tok.lit); err != nil {
				return nil, err
			}
			a.pos += 2
			continue
		}

		return nil, &SyntaxError{Got: tok.lit, Want: "mnemonic or label definition", Line: tok.line}
	}

	for name := range a.pending {
		return nil, &UnresolvedLabelError{Label: name}
	}

	return a.ops, nil
}

func (a *Assembler) here() int { return 2 * len(a.ops) }

// defineLabel resolves any pending references to name against the
// current emission point and records name as a resolved label.
func (a *Assembler) defineLabel(name string) error {
	here := a.here()

	for _, p := range a.pending[name] {
		if here > 0xFFE {
			return &AddressOverflowError{Address: here}
		}
		a.ops[p.index] = (a.ops[p.index] & 0xF000) | uint16(here&0x0FFF)
	}
	delete(a.pending, name)

	a.labels[name] = here
	return nil
}

// emitLabelRef appends a placeholder opcode (top nibble op1, low 12
// bits 0) for a reference to name, to be patched immediately if name is
// already resolved or deferred into pending otherwise.
func (a *Assembler) emitLabelRef(op1 uint16, name string) {
	if addr, ok := a.labels[name]; ok {
		a.ops = append(a.ops, buildOpcode2(op1, uint16(addr)))
		return
	}
	a.pending[name] = append(a.pending[name], pendingPatch{index: len(a.ops)})
	a.ops = append(a.ops, buildOpcode2(op1, 0))
}

func (a *Assembler) advance() { a.pos++ }

func (a *Assembler) tokenAt(offset int) (token, bool) {
	i := a.pos + offset
	if i < 0 || i >= len(a.tokens) {
		return token{}, false
	}
	return a.tokens[i], true
}

// eofLine is the line to blame a "<eof>" SyntaxError on: the last token
// scanned, or line 1 if the source was empty.
func (a *Assembler) eofLine() int {
	if len(a.tokens) > 0 {
		return a.tokens[len(a.tokens)-1].line
	}
	return 1
}

func (a *Assembler) expectRegister(offset int) (int, error) {
	tok, ok := a.tokenAt(offset)
	if !ok {
		return 0, &SyntaxError{Got: "<eof>", Want: "register", Line: a.eofLine()}
	}
	reg, ok := registerIndex(tok.lit)
	if !ok {
		return 0, &SyntaxError{Got: tok.lit, Want: "register (r0-rF)", Line: tok.line}
	}
	return reg, nil
}

func (a *Assembler) expectDevice(offset int) (int, error) {
	tok, ok := a.tokenAt(offset)
	if !ok {
		return 0, &SyntaxError{Got: "<eof>", Want: "device", Line: a.eofLine()}
	}
	dev, ok := deviceIndex(tok.lit)
	if !ok {
		return 0, &SyntaxError{Got: tok.lit, Want: "device (dev0-devF)", Line: tok.line}
	}
	return dev, nil
}

func (a *Assembler) expectComma(offset int) error {
	tok, ok := a.tokenAt(offset)
	if !ok || tok.typ != tokenComma {
		got, line := "<eof>", a.eofLine()
		if ok {
			got, line = tok.lit, tok.line
		}
		return &SyntaxError{Got: got, Want: "','", Line: line}
	}
	return nil
}

func (a *Assembler) expectNumeric(offset int, bits int) (uint16, error) {
	tok, ok := a.tokenAt(offset)
	if !ok {
		return 0, &SyntaxError{Got: "<eof>", Want: "numeric literal", Line: a.eofLine()}
	}
	v, err := parseNumeric(tok.lit)
	if err != nil {
		return 0, err
	}
	return uint16(v) & (1<<uint(bits) - 1), nil
}

// --- token/opcode helpers ---

// registerIndex parses a register mnemonic r0-r9, rA-rF.
func registerIndex(tok string) (int, bool) {
	if len(tok) < 2 || tok[0] != 'r' {
		return 0, false
	}
	return parseHexDigits(tok[1:])
}

// deviceIndex parses a device mnemonic dev0-devF.
func deviceIndex(tok string) (int, bool) {
	const prefix = "dev"
	if len(tok) <= len(prefix) || !strings.HasPrefix(tok, prefix) {
		return 0, false
	}
	return parseHexDigits(tok[len(prefix):])
}

func parseHexDigits(s string) (int, bool) {
	v, err := strconv.ParseInt(s, 16, 32)
	if err != nil || v < 0 || v > 0xF {
		return 0, false
	}
	return int(v), true
}

// parseNumeric parses a numeric literal. Spec requires bare hexadecimal
// (no 0x prefix); this accepts an optional 0x/0X prefix too.
func parseNumeric(tok string) (uint64, error) {
	s := strings.TrimPrefix(strings.TrimPrefix(tok, "0x"), "0X")
	v, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return 0, &NumericParseError{Token: tok}
	}
	return v, nil
}

// buildOpcode4 packs four nibbles, most significant first: the r2r and
// shift instruction shape (op1, x, y, op2).
func buildOpcode4(op1, x, y, op2 uint16) uint16 {
	return (op1&0xF)<<12 | (x&0xF)<<8 | (y&0xF)<<4 | (op2 & 0xF)
}

// buildOpcode3 packs a nibble, a nibble, and a byte: the rconst/dp/drw
// instruction shape (op1, reg_or_dev, byte).
func buildOpcode3(op1, mid, nn uint16) uint16 {
	return (op1&0xF)<<12 | (mid&0xF)<<8 | (nn & 0xFF)
}

// buildOpcode2 packs a nibble and a 12-bit address: the cg/const
// instruction shape (op1, nnn).
func buildOpcode2(op1, nnn uint16) uint16 {
	return (op1&0xF)<<12 | (nnn & 0x0FFF)
}

// mnemonics is the mnemonic → emitter dispatch table, the Go analogue
// of the source assembler's opcode_mnemonics dict.
var mnemonics = map[string]func(*Assembler) error{
	"acr":   emitRconst(0x6),
	"adc":   emitRconst(0x7),
	"add":   emitR2r(0x8, 0x4),
	"and":   emitR2r(0x8, 0x2),
	"ar":    emitR2r(0x8, 0x0),
	"bar":   emitRconst(0xC),
	"call":  emitLabelInstr(0x2),
	"cpac":  emitConst(0xB),
	"db":    emitDb,
	"dpg":   emitDevicePtr(0x01),
	"dps":   emitDevicePtr(0x00),
	"goto":  emitLabelInstr(0x1),
	"hlt":   emitHlt,
	"ld":    emitMem(0xE, 0x65),
	"mpar":  emitMem(0xE, 0x1E),
	"or":    emitR2r(0x8, 0x1),
	"rdb":   emitDeviceRw(0xD),
	"ret":   emitRet,
	"rmp":   emitMem(0xE, 0x1D),
	"rsub":  emitR2r(0x8, 0x7),
	"shl":   emitShift(0x8, 0xE),
	"shr":   emitShift(0x8, 0x6),
	"smp":   emitSmp,
	"snec":  emitRconst(0x3),
	"snuec": emitRconst(0x4),
	"sne":   emitR2r(0x5, 0x0),
	"snue":  emitR2r(0x9, 0x0),
	"spl":   emitMem(0xE, 0x55),
	"sub":   emitR2r(0x8, 0x5),
	"wrb":   emitDeviceRw(0xF),
	"xch":   emitR2r(0x8, 0xF),
	"xor":   emitR2r(0x8, 0x3),
}

// emitR2r builds `mnemonic rX, rY` into nibbles (op1, X, Y, op2), e.g.
// add rX, rY -> 8XY4.
func emitR2r(op1, op2 uint16) func(*Assembler) error {
	return func(a *Assembler) error {
		x, err := a.expectRegister(1)
		if err != nil {
			return err
		}
		if err := a.expectComma(2); err != nil {
			return err
		}
		y, err := a.expectRegister(3)
		if err != nil {
			return err
		}
		a.ops = append(a.ops, buildOpcode4(op1, uint16(x), uint16(y), op2))
		a.pos += 4
		return nil
	}
}

// emitShift builds `mnemonic rX, N` into nibbles (op1, X, N, op2), e.g.
// shl rX, N -> 8XNE.
func emitShift(op1, op2 uint16) func(*Assembler) error {
	return func(a *Assembler) error {
		x, err := a.expectRegister(1)
		if err != nil {
			return err
		}
		if err := a.expectComma(2); err != nil {
			return err
		}
		n, err := a.expectNumeric(3, 4)
		if err != nil {
			return err
		}
		a.ops = append(a.ops, buildOpcode4(op1, uint16(x), n, op2))
		a.pos += 4
		return nil
	}
}

// emitRconst builds `mnemonic rX, NN` into (op1, X, NN), e.g.
// acr rX, NN -> 6XNN.
func emitRconst(op1 uint16) func(*Assembler) error {
	return func(a *Assembler) error {
		x, err := a.expectRegister(1)
		if err != nil {
			return err
		}
		if err := a.expectComma(2); err != nil {
			return err
		}
		nn, err := a.expectNumeric(3, 8)
		if err != nil {
			return err
		}
		a.ops = append(a.ops, buildOpcode3(op1, uint16(x), nn))
		a.pos += 4
		return nil
	}
}

// emitConst builds `mnemonic NNN` into (op1, NNN), e.g. cpac NNN -> BNNN.
func emitConst(op1 uint16) func(*Assembler) error {
	return func(a *Assembler) error {
		nnn, err := a.expectNumeric(1, 12)
		if err != nil {
			return err
		}
		a.ops = append(a.ops, buildOpcode2(op1, nnn))
		a.pos += 2
		return nil
	}
}

// emitMem builds `mnemonic rX` into (op1, X, op2), e.g. ld rX -> EX65.
func emitMem(op1, op2 uint16) func(*Assembler) error {
	return func(a *Assembler) error {
		x, err := a.expectRegister(1)
		if err != nil {
			return err
		}
		a.ops = append(a.ops, buildOpcode3(op1, uint16(x), op2))
		a.pos += 2
		return nil
	}
}

// emitDevicePtr builds `mnemonic devX` into (0xE, X, op), e.g.
// dps devX -> EX00, dpg devX -> EX01.
func emitDevicePtr(op uint16) func(*Assembler) error {
	return func(a *Assembler) error {
		dev, err := a.expectDevice(1)
		if err != nil {
			return err
		}
		a.ops = append(a.ops, buildOpcode3(0xE, uint16(dev), op))
		a.pos += 2
		return nil
	}
}

// emitDeviceRw builds `mnemonic devX, NN` into (op1, X, NN), e.g.
// rdb devX, NN -> DXNN, wrb devX, NN -> FXNN. The source assembler
// emits these with op1 swapped (0xF for rdb, 0xD for wrb); this
// assembler emits the nibble the VM's instruction table actually
// dispatches on, so assembled code round-trips through the VM.
func emitDeviceRw(op1 uint16) func(*Assembler) error {
	return func(a *Assembler) error {
		dev, err := a.expectDevice(1)
		if err != nil {
			return err
		}
		if err := a.expectComma(2); err != nil {
			return err
		}
		nn, err := a.expectNumeric(3, 8)
		if err != nil {
			return err
		}
		a.ops = append(a.ops, buildOpcode3(op1, uint16(dev), nn))
		a.pos += 4
		return nil
	}
}

// emitLabelInstr builds `mnemonic LABEL` into (op1, addr), back-patched
// if LABEL is a forward reference, e.g. goto LABEL -> 1NNN, call
// LABEL -> 2NNN.
func emitLabelInstr(op1 uint16) func(*Assembler) error {
	return func(a *Assembler) error {
		tok, ok := a.tokenAt(1)
		if !ok {
			return &SyntaxError{Got: "<eof>", Want: "label", Line: a.eofLine()}
		}
		a.emitLabelRef(op1, tok.lit)
		a.pos += 2
		return nil
	}
}

// emitSmp builds `smp NNN|LABEL` into (0xA, addr): a bare numeric
// literal emits ANNN immediately, an identifier is treated as a label
// reference (forward-tolerant, like goto/call).
func emitSmp(a *Assembler) error {
	tok, ok := a.tokenAt(1)
	if !ok {
		return &SyntaxError{Got: "<eof>", Want: "address or label", Line: a.eofLine()}
	}
	if v, err := parseNumeric(tok.lit); err == nil {
		a.ops = append(a.ops, buildOpcode2(0xA, uint16(v)&0x0FFF))
	} else {
		a.emitLabelRef(0xA, tok.lit)
	}
	a.pos += 2
	return nil
}

// emitDb builds `db HEX`, emitting as many big-endian Words as needed
// to hold the literal's value.
func emitDb(a *Assembler) error {
	tok, ok := a.tokenAt(1)
	if !ok {
		return &SyntaxError{Got: "<eof>", Want: "hex literal", Line: a.eofLine()}
	}
	v, err := parseNumeric(tok.lit)
	if err != nil {
		return err
	}
	a.ops = append(a.ops, toWords(v)...)
	a.pos += 2
	return nil
}

// toWords splits v into big-endian 16-bit words, at least one even if
// v is zero.
func toWords(v uint64) []uint16 {
	if v == 0 {
		return []uint16{0}
	}
	var rv []uint16
	for v > 0 {
		rv = append(rv, uint16(v&0xFFFF))
		v >>= 16
	}
	for i, j := 0, len(rv)-1; i < j; i, j = i+1, j-1 {
		rv[i], rv[j] = rv[j], rv[i]
	}
	return rv
}

func emitHlt(a *Assembler) error {
	a.ops = append(a.ops, 0x0000)
	a.advance()
	return nil
}

func emitRet(a *Assembler) error {
	a.ops = append(a.ops, 0x01EE)
	a.advance()
	return nil
}
