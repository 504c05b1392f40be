package main

import (
	"github.com/Moosa-Imran/Content-Machine-sub001/internal/cli"
	"github.com/Moosa-Imran/Content-Machine-sub001/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var frameworkCmd = &cobra.Command{
	Use:     "framework",
	Aliases: []string{"fw"},
	Short:   "Inspect and edit the template framework",
}

var frameworkShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current framework",
	Long:  `Prints the current framework, initializing it from the defaults on first use.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp(cmd.Context(), cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		format, _ := cmd.Flags().GetString("format")
		out := cmd.OutOrStdout()
		return cli.ShowFramework(cmd.Context(), app.Service, out, format, tui.IsTerminal(out))
	},
}

var frameworkSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Replace the framework with a JSON or YAML document",
	Long: `Replaces the whole framework. Categories missing from the document are cleared,
templates are trimmed and blank ones dropped. Unknown category keys are rejected.
Use "-f -" to read the document from stdin.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("file")

		app, err := openApp(cmd.Context(), cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		return cli.SaveFramework(cmd.Context(), app.Service, path, cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

var frameworkResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore the default framework",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp(cmd.Context(), cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		return cli.ResetFramework(cmd.Context(), app.Service, cmd.OutOrStdout())
	},
}

var frameworkGraphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the script structure as a Mermaid diagram",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp(cmd.Context(), cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		return cli.GraphFramework(cmd.Context(), app.Service, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(frameworkCmd)
	frameworkCmd.AddCommand(frameworkShowCmd, frameworkSaveCmd, frameworkResetCmd, frameworkGraphCmd)

	frameworkShowCmd.Flags().StringP("format", "o", cli.FormatMarkdown, "Output format: json, yaml or markdown")
	frameworkSaveCmd.Flags().StringP("file", "f", "", "Framework document (.json, .yaml) or - for stdin")
	_ = frameworkSaveCmd.MarkFlagRequired("file")
}
