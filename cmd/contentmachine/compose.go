package main

import (
	"github.com/Moosa-Imran/Content-Machine-sub001/internal/cli"
	"github.com/Moosa-Imran/Content-Machine-sub001/pkg/composer"
	"github.com/spf13/cobra"
)

var composeCmd = &cobra.Command{
	Use:   "compose <company>",
	Short: "Compose a script from the current framework",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp(cmd.Context(), cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		brief := composer.Brief{Company: args[0]}
		brief.Tactic, _ = cmd.Flags().GetString("tactic")
		brief.UseExtraHooks, _ = cmd.Flags().GetBool("extra-hooks")
		brief.Variant, _ = cmd.Flags().GetInt("variant")
		asJSON, _ := cmd.Flags().GetBool("json")

		return cli.Compose(cmd.Context(), app.Composer, brief, cmd.OutOrStdout(), asJSON)
	},
}

func init() {
	rootCmd.AddCommand(composeCmd)
	composeCmd.Flags().StringP("tactic", "t", "", "Tactic or principle the script features")
	composeCmd.Flags().Bool("extra-hooks", false, "Mix extra hooks into the hook selection")
	composeCmd.Flags().Int("variant", 0, "Selection offset for an alternative script")
	composeCmd.Flags().Bool("json", false, "Print the script with its sections as JSON")
}
