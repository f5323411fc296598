package chip16

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// consoleFormat selects how ConsoleIO renders and parses bytes.
type consoleFormat = Word

const (
	// consoleChar is raw character passthrough: write outputs each byte
	// unchanged, read returns the first n bytes of a line typed by the
	// user (zero-padded if the line is shorter).
	consoleChar consoleFormat = 0

	// consoleHex renders/parses bytes as whitespace-separated two-digit
	// hex pairs. This freezes the ambiguity spec.md §9 flags in the
	// source's mode-1 write (`hex(byte_list)` vs `hex(byte_list[0])`):
	// every byte is rendered consistently, so write output round-trips
	// through read.
	consoleHex consoleFormat = 1
)

// ConsoleIO is the standard terminal I/O device: format 0 is raw
// character passthrough, format 1 is whitespace-separated hex.
type ConsoleIO struct {
	format consoleFormat
	in     *bufio.Reader
	out    io.Writer
}

// NewConsoleIO returns a ConsoleIO bound to the process's stdin/stdout.
func NewConsoleIO() *ConsoleIO {
	return &ConsoleIO{in: bufio.NewReader(os.Stdin), out: os.Stdout}
}

// NewConsoleIOWith returns a ConsoleIO bound to arbitrary reader/writer,
// for testing without touching the real terminal.
func NewConsoleIOWith(in io.Reader, out io.Writer) *ConsoleIO {
	return &ConsoleIO{in: bufio.NewReader(in), out: out}
}

func (c *ConsoleIO) GetPtr() Word   { return c.format }
func (c *ConsoleIO) SetPtr(v Word) { c.format = v }

func (c *ConsoleIO) Read(n byte) ([]byte, error) {
	line, err := c.in.ReadString('\n')
	if err != nil && line == "" {
		return nil, err
	}
	line = strings.TrimRight(line, "\r\n")

	switch c.format {
	case consoleHex:
		fields := strings.Fields(line)
		out := make([]byte, 0, n)
		for _, f := range fields {
			v, err := strconv.ParseUint(strings.TrimPrefix(f, "0x"), 16, 8)
			if err != nil {
				return nil, fmt.Errorf("chip16: console: invalid numeric token %q: %w", f, err)
			}
			out = append(out, byte(v))
			if len(out) == int(n) {
				break
			}
		}
		for len(out) < int(n) {
			out = append(out, 0)
		}
		return out, nil
	default: // consoleChar
		out := make([]byte, n)
		copy(out, line)
		return out, nil
	}
}

func (c *ConsoleIO) Write(data []byte) error {
	switch c.format {
	case consoleHex:
		parts := make([]string, len(data))
		for i, b := range data {
			parts[i] = fmt.Sprintf("%02x", b)
		}
		_, err := fmt.Fprintln(c.out, strings.Join(parts, " "))
		return err
	default: // consoleChar
		_, err := c.out.Write(data)
		return err
	}
}
