// Package asm is the Chip16 single-pass, back-patching assembler: a
// tokenizer, a label-resolving emitter, and the mnemonic table that
// binds source text to opcodes.
package asm

import "strings"

// tokenType classifies a scanned token.
type tokenType uint

const (
	// tokenIdent covers mnemonics, register/device names, labels, and
	// numeric literals; the parser disambiguates by context.
	tokenIdent tokenType = iota
	tokenComma
	tokenColon
)

// token is a single lexical unit produced by tokenize. line is the
// 1-based source line the token started on, used only for diagnostics.
type token struct {
	typ  tokenType
	lit  string
	line int
}

// tokenize scans source into a flat token list, grounded on the source
// assembler's tokenise(): `#` starts a line comment, `,` and `:` are
// single-character tokens, identifiers are runs of alphanumerics and
// `_`, and all other whitespace separates tokens without producing one.
func tokenize(source string) []token {
	var tokens []token
	var buf strings.Builder
	inComment := false
	line := 1
	tokenLine := 1

	flush := func() {
		if buf.Len() > 0 {
			tokens = append(tokens, token{typ: tokenIdent, lit: buf.String(), line: tokenLine})
			buf.Reset()
		}
	}

	for _, ch := range source {
		switch {
		case ch == '#':
			inComment = true
		case inComment && ch == '\n':
			inComment = false
		case inComment:
			// discarded
		case isIdentRune(ch):
			if buf.Len() == 0 {
				tokenLine = line
			}
			buf.WriteRune(ch)
		case ch == ',' || ch == ':':
			flush()
			typ := tokenComma
			if ch == ':' {
				typ = tokenColon
			}
			tokens = append(tokens, token{typ: typ, lit: string(ch), line: line})
		default:
			flush()
		}

		if ch == '\n' {
			line++
		}
	}
	flush()

	return tokens
}

func isIdentRune(ch rune) bool {
	switch {
	case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch >= '0' && ch <= '9':
		return true
	case ch == '_':
		return true
	default:
		return false
	}
}
