package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aretw0/itnav/internal/cli"
	"github.com/spf13/cobra"
)

// walkCmd represents the walk command
var walkCmd = &cobra.Command{
	Use:   "walk [category]",
	Short: "Walk through a troubleshooting flow",
	Long: `Starts an interactive walk. Without a category the list of categories is shown first.
With --session the position is saved after every answer and resumed on the next run.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cli.NewSignalContext(context.Background())
		defer ctx.Cancel()

		a, err := bootstrap(ctx, cmd)
		if err != nil {
			return fmt.Errorf("failed to init guide: %w", err)
		}
		defer a.Close()

		opts := cli.WalkOptions{
			Input:  os.Stdin,
			Output: os.Stdout,
		}
		if len(args) > 0 {
			opts.CategoryID = args[0]
		}
		opts.SessionID, _ = cmd.Flags().GetString("session")
		opts.Fresh, _ = cmd.Flags().GetBool("fresh")
		opts.Headless, _ = cmd.Flags().GetBool("headless")
		opts.Plain, _ = cmd.Flags().GetBool("plain")

		sessions := a.backend.SessionManager(a.cfg, a.logger)
		return cli.HandleExecutionError(cli.RunWalk(ctx, a.guide, sessions, a.logger, opts))
	},
}

func init() {
	rootCmd.AddCommand(walkCmd)

	walkCmd.Flags().StringP("session", "s", "", "Session ID to resume and persist the walk under")
	walkCmd.Flags().Bool("fresh", false, "Discard the saved session before starting")
	walkCmd.Flags().Bool("headless", false, "Run in headless mode (no banner, strict IO)")
	walkCmd.Flags().Bool("plain", false, "Print raw markdown instead of styled output")

	// Make 'walk' the default if no command is provided.
	rootCmd.Run = walkCmd.Run
}
