package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aretw0/itnav/pkg/session"
	"github.com/spf13/cobra"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage saved walks",
	Long:  `List, inspect, and remove walks saved with 'itnav walk --session'.`,
}

var sessionLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List all saved sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, sessions, err := sessionManager(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		ids, err := sessions.List(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list sessions: %w", err)
		}

		if len(ids) == 0 {
			fmt.Println("No saved sessions found.")
			return nil
		}

		fmt.Println("Saved Sessions:")
		for _, id := range ids {
			fmt.Println("- " + id)
		}
		return nil
	},
}

var sessionInspectCmd = &cobra.Command{
	Use:   "inspect <session-id>",
	Short: "Inspect the position of a saved walk",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sessionID := args[0]
		a, sessions, err := sessionManager(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		record, err := sessions.Inspect(cmd.Context(), sessionID)
		if err != nil {
			return fmt.Errorf("failed to load session '%s': %w", sessionID, err)
		}

		// Pretty print JSON
		data, err := json.MarshalIndent(record, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal session: %w", err)
		}

		fmt.Println(string(data))
		return nil
	},
}

var sessionRmCmd = &cobra.Command{
	Use:   "rm <session-id>...",
	Short: "Remove one or more sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, sessions, err := sessionManager(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		all, _ := cmd.Flags().GetBool("all")
		if all {
			ids, err := sessions.List(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list sessions: %w", err)
			}
			args = ids
		}
		if len(args) == 0 {
			return errors.New("nothing to remove. Pass session IDs or --all")
		}

		failed := 0
		for _, sessionID := range args {
			if err := sessions.Delete(cmd.Context(), sessionID); err != nil {
				fmt.Printf("Error removing '%s': %v\n", sessionID, err)
				failed++
			} else {
				fmt.Printf("Removed session '%s'\n", sessionID)
			}
		}

		if failed > 0 {
			return fmt.Errorf("%d session(s) could not be removed", failed)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionLsCmd)
	sessionCmd.AddCommand(sessionInspectCmd)
	sessionCmd.AddCommand(sessionRmCmd)

	sessionRmCmd.Flags().Bool("all", false, "Remove every saved session")
}

func sessionManager(cmd *cobra.Command) (*app, *session.Manager, error) {
	a, err := bootstrap(context.Background(), cmd)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to init guide: %w", err)
	}
	return a, a.backend.SessionManager(a.cfg, a.logger), nil
}
