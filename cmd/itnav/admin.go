package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/aretw0/itnav/internal/cli"
	"github.com/aretw0/itnav/internal/validator"
	"github.com/aretw0/itnav/pkg/console"
	"github.com/spf13/cobra"
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Maintain the decision tree",
	Long: `Opens the admin console on the committed tree. Every subcommand asks for the admin
secret unless --secret is given. Mutating subcommands save immediately. Validation
issues are reported but never block a save; only delete-node is guarded by them.`,
}

var adminIssuesCmd = &cobra.Command{
	Use:   "issues",
	Short: "List validation issues of the committed tree",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConsole(cmd, func(ctx context.Context, s *console.Session, secret string) error {
			issues := s.Issues()
			for _, issue := range issues {
				fmt.Println(issue.String())
			}
			summary := validator.Summarize(issues)
			fmt.Printf("%d error(s), %d warning(s)\n", summary.Errors, summary.Warnings)
			return nil
		})
	},
}

var adminStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show counts and storage information",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConsole(cmd, func(ctx context.Context, s *console.Session, secret string) error {
			data, err := json.MarshalIndent(s.Stats(), "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		})
	},
}

var adminExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the tree as a JSON document",
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("output")
		return runConsole(cmd, func(ctx context.Context, s *console.Session, secret string) error {
			data, name, err := s.Export()
			if err != nil {
				return err
			}
			if out == "" {
				fmt.Println(string(data))
				return nil
			}
			if out == "." {
				out = name
			}
			if err := os.WriteFile(out, data, 0644); err != nil {
				return err
			}
			fmt.Printf("Exported to %s\n", out)
			return nil
		})
	},
}

var adminImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace the tree with an exported JSON document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConsole(cmd, func(ctx context.Context, s *console.Session, secret string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			if err := s.Import(raw); err != nil {
				return fmt.Errorf("import rejected: %w", err)
			}
			return save(ctx, s)
		})
	},
}

var adminResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore the built-in default tree",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConsole(cmd, func(ctx context.Context, s *console.Session, secret string) error {
			s.ResetToDefault()
			return save(ctx, s)
		})
	},
}

var adminDeleteNodeCmd = &cobra.Command{
	Use:   "delete-node <node-id>",
	Short: "Delete a node that nothing references",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConsole(cmd, func(ctx context.Context, s *console.Session, secret string) error {
			if err := s.DeleteNode(args[0]); err != nil {
				return err
			}
			return save(ctx, s)
		})
	},
}

var adminSecretCmd = &cobra.Command{
	Use:   "secret",
	Short: "Change the admin secret",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConsole(cmd, func(ctx context.Context, s *console.Session, secret string) error {
			next, err := cli.ReadSecret(os.Stdin, os.Stdout, "New secret: ")
			if err != nil {
				return err
			}
			confirm, err := cli.ReadSecret(os.Stdin, os.Stdout, "Confirm new secret: ")
			if err != nil {
				return err
			}
			if err := s.ChangeSecret(ctx, secret, next, confirm); err != nil {
				return err
			}
			fmt.Println("Secret changed.")
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(adminCmd)
	adminCmd.AddCommand(adminIssuesCmd)
	adminCmd.AddCommand(adminStatsCmd)
	adminCmd.AddCommand(adminExportCmd)
	adminCmd.AddCommand(adminImportCmd)
	adminCmd.AddCommand(adminResetCmd)
	adminCmd.AddCommand(adminDeleteNodeCmd)
	adminCmd.AddCommand(adminSecretCmd)

	adminCmd.PersistentFlags().String("secret", "", "Admin secret (prompted when empty)")
	adminExportCmd.Flags().StringP("output", "o", "", "Write to this file ('.' uses the suggested file name)")
}

// runConsole authenticates, opens a console session and runs fn. The backend
// is closed before it returns.
func runConsole(cmd *cobra.Command, fn func(context.Context, *console.Session, string) error) error {
	ctx := cmd.Context()
	a, err := bootstrap(ctx, cmd)
	if err != nil {
		return fmt.Errorf("failed to init guide: %w", err)
	}
	defer a.Close()

	secret, _ := cmd.Flags().GetString("secret")
	if secret == "" {
		if secret, err = cli.ReadSecret(os.Stdin, os.Stdout, "Admin secret: "); err != nil {
			return fmt.Errorf("failed to read secret: %w", err)
		}
	}

	s, err := a.guide.OpenConsole(secret)
	if err != nil {
		return err
	}
	return fn(ctx, s, secret)
}

// save commits the draft and reports what changed.
func save(ctx context.Context, s *console.Session) error {
	diff := s.Diff()
	if summary := validator.Summarize(s.Issues()); summary.Errors > 0 {
		fmt.Printf("Warning: saving with %d error(s). Run 'itnav admin issues' for details.\n", summary.Errors)
	}
	committed, err := s.Save(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Saved: %d categories, %d nodes, %d news (nodes +%d ~%d -%d)\n",
		len(committed.Categories), committed.Nodes.Len(), len(committed.News),
		len(diff.Nodes.Added), len(diff.Nodes.Changed), len(diff.Nodes.Removed))
	return nil
}
