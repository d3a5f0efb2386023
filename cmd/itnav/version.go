package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/itnav"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of itnav",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("itnav version %s\n", strings.TrimSpace(itnav.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
