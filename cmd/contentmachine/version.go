package main

import (
	"fmt"

	contentmachine "github.com/Moosa-Imran/Content-Machine-sub001"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of contentmachine",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "contentmachine version %s\n", contentmachine.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
