package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Set via -ldflags at release time.
var version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the crmdesk version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("crmdesk %s\n", version)
	},
}
