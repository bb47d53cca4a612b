package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// logoutCmd drops the stored session for the configured endpoint.
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()
		if err := store.Clear(cfg.API.BaseURL); err != nil {
			return err
		}
		fmt.Println("Logged out")
		return nil
	},
}
