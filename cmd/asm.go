package cmd

import (
	"fmt"
	"os"

	"github.com/Jimmer1/Chip16/internal/asm"
	"github.com/Jimmer1/Chip16/internal/rom"
	"github.com/spf13/cobra"
)

// asmCmd assembles a Chip16 source file into a ROM image.
var asmCmd = &cobra.Command{
	Use:   "asm <src> <out>",
	Short: "assemble a Chip16 source file into a ROM",
	Args:  cobra.ExactArgs(2),
	Run:   runAsm,
}

func runAsm(cmd *cobra.Command, args []string) {
	src, out := args[0], args[1]

	source, err := os.ReadFile(src)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error reading %s: %v\n", src, err)
		os.Exit(1)
	}

	ops, err := asm.Assemble(string(source))
	if err != nil {
		fmt.Fprintf(os.Stderr, "assembly error: %v\n", err)
		os.Exit(1)
	}

	if err := rom.WriteFile(out, ops); err != nil {
		fmt.Fprintf(os.Stderr, "error writing %s: %v\n", out, err)
		os.Exit(1)
	}
}
