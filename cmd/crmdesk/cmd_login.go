package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var loginUsername string

// loginCmd signs in non-interactively and stores the session for later
// runs of the console and the other subcommands.
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and store the session",
	Long: `Exchanges a username and access key for a session token and stores
it keyed by the API endpoint. The access key is read from stdin so it
never appears in shell history.`,
	RunE: runLogin,
}

func init() {
	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "CRM username (required)")
	loginCmd.MarkFlagRequired("username")
}

func runLogin(cmd *cobra.Command, args []string) error {
	fmt.Fprint(os.Stderr, "Access key: ")
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return fmt.Errorf("read access key: %w", err)
	}
	accessKey := strings.TrimSpace(line)
	if len(accessKey) < 6 {
		return fmt.Errorf("access key must be at least 6 characters")
	}

	client, err := newClient()
	if err != nil {
		return err
	}
	defer client.CloseIdleConnections()

	token, err := client.Login(cmd.Context(), loginUsername, accessKey)
	if err != nil {
		return err
	}
	logger.Debug("logged in", zap.String("username", loginUsername))

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()
	if err := store.Save(cfg.API.BaseURL, loginUsername, token); err != nil {
		return err
	}
	fmt.Printf("Logged in as %s\n", loginUsername)
	return nil
}
