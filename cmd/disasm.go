package cmd

import (
	"fmt"
	"os"

	"github.com/Jimmer1/Chip16/internal/disasm"
	"github.com/Jimmer1/Chip16/internal/rom"
	"github.com/spf13/cobra"
)

// disasmCmd prints a disassembly of a ROM to stdout.
var disasmCmd = &cobra.Command{
	Use:   "disasm <rom>",
	Short: "print a disassembly of a Chip16 ROM",
	Args:  cobra.ExactArgs(1),
	Run:   runDisasm,
}

func runDisasm(cmd *cobra.Command, args []string) {
	path := args[0]

	data, err := rom.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error reading %s: %v\n", path, err)
		os.Exit(1)
	}

	ops, err := rom.Decode(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error decoding %s: %v\n", path, err)
		os.Exit(1)
	}

	for _, line := range disasm.Program(ops) {
		fmt.Println(line)
	}
}
