package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// versionCmd returns the callers installed chip16 version
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Retrieve the currently installed chip16 version",
	Long:  "Run `chip16 version` to get your current chip16 version",
	Args:  cobra.NoArgs,
	Run:   runVersion,
}

func runVersion(cmd *cobra.Command, args []string) {
	fmt.Println(currentReleaseVersion)
}
