package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aretw0/itnav/internal/codec"
	"github.com/aretw0/itnav/internal/validator"
	"github.com/aretw0/itnav/pkg/domain"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Check the decision tree for consistency",
	Long: `Reports missing references, category start problems and unreachable nodes.
With a file argument the exported JSON document is checked instead of the stored tree.
Exits with status 1 when any error is found; warnings alone do not fail.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		issues, err := runValidate(cmd, args)
		if err != nil {
			fmt.Printf("Validation failed: %v\n", err)
			os.Exit(1)
		}

		for _, issue := range issues {
			fmt.Println(issue.String())
		}
		summary := validator.Summarize(issues)
		if summary.Errors > 0 {
			fmt.Printf("%d error(s), %d warning(s)\n", summary.Errors, summary.Warnings)
			os.Exit(1)
		}
		if summary.Warnings > 0 {
			fmt.Printf("Tree is usable with %d warning(s) ⚠️\n", summary.Warnings)
			return
		}
		fmt.Println("Tree is valid! ✅")
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) ([]domain.Issue, error) {
	a, err := bootstrap(context.Background(), cmd)
	if err != nil {
		return nil, fmt.Errorf("failed to init guide: %w", err)
	}
	defer a.Close()

	if len(args) == 0 {
		return a.guide.Issues(), nil
	}

	raw, err := os.ReadFile(args[0])
	if err != nil {
		return nil, err
	}
	state, err := codec.NewDecoder(codec.WithLogger(a.logger)).Decode(raw)
	if err != nil {
		return nil, err
	}
	locale := validator.ParseLocale(a.cfg.Locale)
	return validator.Validate(&state, validator.WithLocale(locale)), nil
}
