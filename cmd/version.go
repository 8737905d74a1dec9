package cmd

import (
	"fmt"

	"bitbackup/core/bitfiles"

	"github.com/spf13/cobra"
)

// versionCmd prints the product version.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", bitfiles.ProductName, bitfiles.DefaultVersion)
	},
}

func init() {
	RootCmd.AddCommand(versionCmd)
}
