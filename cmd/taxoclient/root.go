package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/biotaxa/taxoclient/internal/client"
	"github.com/biotaxa/taxoclient/internal/config"
)

var (
	flagConfigPath   string
	flagServerURL    string
	flagAPIKey       string
	flagDBPath       string
	flagSyncInterval time.Duration
)

var rootCmd = &cobra.Command{
	Use:     "taxoclient",
	Short:   "Offline-first sync client for taxonomic classification data",
	Version: Version,
	Long: `taxoclient keeps a local mirror of your organization's classification
data and reconciles local changes with the hosted backend. Writes made while
offline are queued durably and replayed when connectivity returns.`,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flagConfigPath, "config", "c", "", "path to a JSON config file")
	pf.StringVar(&flagServerURL, "server-url", "", "hosted backend base URL")
	pf.StringVar(&flagAPIKey, "api-key", "", "project API key")
	pf.StringVarP(&flagDBPath, "db", "d", "", "local SQLite database path")
	pf.DurationVar(&flagSyncInterval, "sync-interval", 0, "periodic sync interval while online")

	rootCmd.AddCommand(loginCmd, syncCmd, uploadCmd, listCmd, statusCmd)
}

// flagConfig assembles the flag-sourced configuration layer merged by the
// config builder.
func flagConfig() *config.StructuredConfig {
	cfg := &config.StructuredConfig{JSONFilePath: flagConfigPath}
	cfg.Remote.BaseURL = flagServerURL
	cfg.Remote.APIKey = flagAPIKey
	cfg.Storage.DB.DSN = flagDBPath
	cfg.Workers.SyncInterval = flagSyncInterval
	return cfg
}

// newApp builds the application runtime for a command invocation.
func newApp() (*client.App, error) {
	return client.NewApp(flagConfig())
}
