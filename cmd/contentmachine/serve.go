package main

import (
	"fmt"

	contentmachine "github.com/Moosa-Imran/Content-Machine-sub001"
	"github.com/Moosa-Imran/Content-Machine-sub001/internal/cli"
	"github.com/Moosa-Imran/Content-Machine-sub001/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Serves the framework API over HTTP: GET/PUT /framework, POST /framework/reset,
GET /categories, POST /scripts, the /events change stream and /metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		app, err := openApp(ctx, cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		quiet, _ := cmd.Flags().GetBool("quiet")
		if !quiet && tui.IsTerminal(cmd.OutOrStdout()) {
			tui.PrintBanner(cmd.OutOrStdout(), contentmachine.Version)
		}

		addr := fmt.Sprintf(":%d", app.Config.HTTP.Port)
		if err := cli.Serve(ctx, app, addr); err != nil {
			return err
		}
		if sig := ctx.Signal(); sig != nil {
			app.Logger.Info("server stopped", "signal", sig.String())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on (overrides config)")
	serveCmd.Flags().BoolP("quiet", "q", false, "Do not print the banner")
}
