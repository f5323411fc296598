package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Jimmer1/Chip16/internal/asm"
	"github.com/Jimmer1/Chip16/internal/chip16"
	"github.com/Jimmer1/Chip16/internal/rom"
	"github.com/spf13/cobra"
)

var (
	runCycles  uint64
	runSeed    int64
	runRomPath string
)

// runCmd loads a ROM (or assembles a .c16 source file in memory) and
// runs it until HLT or the cycle budget is exhausted.
var runCmd = &cobra.Command{
	Use:   "run `path/to/rom`",
	Short: "run a Chip16 ROM or source file",
	Args:  cobra.ExactArgs(1),
	Run:   runChip16,
}

func init() {
	runCmd.Flags().Uint64Var(&runCycles, "cycles", 0, "cycle budget (0 means run until HLT)")
	runCmd.Flags().Int64Var(&runSeed, "seed", 1, "seed for the BAR instruction's random source")
	runCmd.Flags().StringVar(&runRomPath, "rom-device", "", "path to a ROM image to attach as a read-only device at dev1")
}

func runChip16(cmd *cobra.Command, args []string) {
	path := args[0]

	code, err := loadImage(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading %s: %v\n", path, err)
		os.Exit(1)
	}

	opts := []chip16.Option{chip16.WithSeed(runSeed)}
	if runRomPath != "" {
		romDevice, err := chip16.NewRomDeviceFromFile(runRomPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error loading rom device %s: %v\n", runRomPath, err)
			os.Exit(1)
		}
		devices := chip16.NewDeviceSet()
		devices.Set(0, chip16.NewConsoleIO())
		devices.Set(1, romDevice)
		opts = append(opts, chip16.WithDevices(devices))
	}

	vm, err := chip16.New(code, opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error creating a new chip16 VM: %v\n", err)
		os.Exit(1)
	}

	var budget *uint64
	if runCycles > 0 {
		budget = &runCycles
	}

	if err := vm.Execute(budget); err != nil {
		fmt.Fprintf(os.Stderr, "runtime error: %v\n", err)
		os.Exit(1)
	}

	if vm.Alert() {
		fmt.Fprintln(os.Stderr, "warning: one or more unknown opcodes were decoded during execution")
	}
}

// loadImage loads path as a ROM image, auto-assembling it first if its
// extension marks it as Chip16 assembly source.
func loadImage(path string) ([]byte, error) {
	if strings.EqualFold(filepath.Ext(path), ".c16") {
		src, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		ops, err := asm.Assemble(string(src))
		if err != nil {
			return nil, err
		}
		return rom.Encode(ops), nil
	}
	return rom.ReadFile(path)
}
