package main

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"crmdesk/cmd/crmdesk/console"
	"crmdesk/internal/config"
	"crmdesk/internal/logging"
	"crmdesk/internal/session"
	"crmdesk/internal/vtiger"
)

var (
	// Global flags
	configPath string
	baseURL    string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd launches the interactive console when run without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "crmdesk",
	Short: "Terminal admin console for a vtiger-backed CRM",
	Long: `crmdesk is a terminal console for browsing and editing CRM contact
records. It tracks your edits field by field and submits only what
changed, including the related potentials list.

Run without arguments to start the interactive console.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if baseURL != "" {
			cfg.API.BaseURL = baseURL
		}
		// The interactive console owns the terminal, so logs go to the
		// debug file; subcommands log to stderr.
		if cmd.CalledAs() == "crmdesk" {
			logger, err = logging.New(cfg.Logging)
		} else {
			logger, err = logging.Console(verbose)
		}
		if err != nil {
			return fmt.Errorf("initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConsole()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: ~/.crmdesk/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "", "API base URL (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	contactsCmd.Flags().BoolVar(&contactDetails, "details", false, "Hydrate each contact with its full record")
	demoCmd.Flags().StringVar(&demoAddr, "addr", ":8090", "Listen address for the demo server")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(contactsCmd)
	rootCmd.AddCommand(viewCmd)
	rootCmd.AddCommand(demoCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newClient builds the API client from the resolved config.
func newClient() (*vtiger.Client, error) {
	return vtiger.New(vtiger.Options{
		BaseURL:        cfg.API.BaseURL,
		Timeout:        cfg.APITimeout(),
		AssignedUserID: cfg.API.AssignedUserID,
		Logger:         logger,
	})
}

// openStore opens the session database; callers must Close it.
func openStore() (*session.Store, error) {
	return session.Open(cfg.Session.DatabasePath)
}

func runConsole() error {
	client, err := newClient()
	if err != nil {
		return err
	}
	defer client.CloseIdleConnections()

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	// Resume a stored session when one exists for this endpoint.
	var token string
	if sess, err := store.Load(cfg.API.BaseURL); err == nil {
		token = sess.Token
	} else if !errors.Is(err, session.ErrNotFound) {
		logger.Warn("session lookup failed", zap.Error(err))
	}

	m := console.New(console.Options{
		Client:  client,
		Store:   store,
		Logger:  logger,
		Session: token,
	})
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
