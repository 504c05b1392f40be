package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/Moosa-Imran/Content-Machine-sub001/internal/cli"
	"github.com/Moosa-Imran/Content-Machine-sub001/internal/config"
	"github.com/Moosa-Imran/Content-Machine-sub001/pkg/domain"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "contentmachine",
	Short: "Content Machine manages the short-video script template framework",
	Long: `Content Machine keeps the categorized library of script templates (hooks, build-ups,
stories, psychology conclusions and extra hooks) used to compose short-video scripts.
It can serve the library over HTTP or MCP, or edit it directly from the command line.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", exitMessage(err))
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML or JSON config file")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error (overrides config)")
	rootCmd.PersistentFlags().String("driver", "", "Store driver: memory, file, redis or sqlite (overrides config)")
	rootCmd.PersistentFlags().String("store-path", "", "Framework file for the file driver (overrides config)")
}

// loadConfig resolves the configuration: defaults, config file, environment, then flags.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}

	if v, _ := cmd.Flags().GetString("log-level"); v != "" {
		cfg.Log.Level = v
	}
	if v, _ := cmd.Flags().GetString("driver"); v != "" {
		cfg.Store.Driver = v
	}
	if v, _ := cmd.Flags().GetString("store-path"); v != "" {
		cfg.Store.Path = v
	}
	if f := cmd.Flags().Lookup("port"); f != nil && f.Changed {
		port, _ := cmd.Flags().GetInt("port")
		cfg.HTTP.Port = port
	}
	return cfg, cfg.Validate()
}

// openApp loads the configuration and opens the store for a command.
func openApp(ctx context.Context, cmd *cobra.Command) (*cli.App, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	logger, err := cli.CreateLogger(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	return cli.NewApp(ctx, cfg, logger)
}

func exitMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return fmt.Sprintf("framework rejected: %v", err)
	case errors.Is(err, domain.ErrStorage):
		return fmt.Sprintf("storage failure: %v", err)
	default:
		return err.Error()
	}
}
