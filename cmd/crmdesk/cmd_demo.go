package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"crmdesk/internal/demo"
)

var demoAddr string

// demoCmd serves a small in-memory CRM API for trying the console
// without a real vtiger deployment.
var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run a local demo API server",
	Long: `Starts an in-memory CRM API with a few seeded contacts. Point the
console at it with:

  crmdesk --url http://localhost:8090

Any username and access key are accepted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("demo API listening on %s\n", demoAddr)
		return demo.New(logger).Run(demoAddr)
	},
}
