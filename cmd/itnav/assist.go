package main

import (
	"context"
	"fmt"

	"github.com/aretw0/itnav/internal/assist"
	"github.com/spf13/cobra"
)

var assistCmd = &cobra.Command{
	Use:   "assist",
	Short: "Print the external help links and the consultation template",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(context.Background(), cmd)
		if err != nil {
			return fmt.Errorf("failed to init guide: %w", err)
		}
		defer a.Close()

		links := assist.Build(a.cfg.Assist)
		fmt.Printf("Portal:  %s\n", links.Portal)
		fmt.Printf("Gemini:  %s\n", links.Gemini)
		fmt.Printf("ChatGPT: %s\n", links.ChatGPT)
		fmt.Println()
		fmt.Println("Paste this template into your AI assistant:")
		fmt.Println(links.Template)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(assistCmd)
}
