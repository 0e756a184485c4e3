// Package cli implements the filedrop command-line client: upload, list,
// rm and crop subcommands against a running file server.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/avolkov/filedrop/internal/client/config"
	"github.com/avolkov/filedrop/internal/client/transport"
	"github.com/avolkov/filedrop/internal/logging"
)

var (
	Version    = "dev"
	configPath string
	serverURL  string
)

var rootCmd = &cobra.Command{
	Use:     "filedrop",
	Short:   "File server upload client",
	Version: Version,
	Long: `filedrop is a command-line client for the filedrop server.
It uploads file selections in batches, lists stored files, deletes them
and applies server-side crops to stored images.`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a JSON config file")
	rootCmd.PersistentFlags().StringVarP(&serverURL, "server", "s", "", "server endpoint URL (or set FILEDROP_SERVER_URL)")
}

func loadConfig() *config.Config {
	cfg := config.LoadConfig(configPath)
	if serverURL != "" {
		cfg.ServerURL = serverURL
	}
	return cfg
}

func newLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))
}

func newTransport(cfg *config.Config) *transport.Client {
	return transport.New(cfg.ServerURL, cfg.Timeout, newLogger())
}
