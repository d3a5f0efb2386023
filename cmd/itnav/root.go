package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/itnav"
	"github.com/aretw0/itnav/internal/cli"
	"github.com/aretw0/itnav/internal/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "itnav",
	Short: "IT Nav is a self-service troubleshooting guide",
	Long: `IT Nav walks users through yes/no decision trees until their IT problem is
resolved or handed over to the IT desk with a pre-filled ticket.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// Commands return their errors so deferred cleanup runs before the exit.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("dir", ".", "Project directory holding itnav.yaml and the .itnav store")
	rootCmd.PersistentFlags().String("config", "", "Path to the configuration file")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
}

// app bundles what most commands need.
type app struct {
	cfg     config.Config
	backend *cli.Backend
	guide   *itnav.Guide
	logger  *slog.Logger
}

func (a *app) Close() {
	if err := a.backend.Close(); err != nil {
		a.logger.Warn("failed to close backend", "error", err)
	}
}

// bootstrap loads the configuration, opens the backend and builds the guide.
func bootstrap(ctx context.Context, cmd *cobra.Command) (*app, error) {
	dir, _ := cmd.Flags().GetString("dir")
	cfgPath, _ := cmd.Flags().GetString("config")
	debug, _ := cmd.Flags().GetBool("debug")

	cfg, err := cli.LoadConfig(cfgPath, dir)
	if err != nil {
		return nil, err
	}
	logger := cli.NewLogger(cfg, debug)

	backend, err := cli.OpenBackend(cfg, dir)
	if err != nil {
		return nil, err
	}
	guide, err := cli.OpenGuide(ctx, cfg, backend, logger, debug)
	if err != nil {
		_ = backend.Close()
		return nil, err
	}
	return &app{cfg: cfg, backend: backend, guide: guide, logger: logger}, nil
}
