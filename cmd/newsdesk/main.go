package main

import (
	"fmt"
	"os"

	"github.com/edvall/newsdesk/internal/api"
	"github.com/edvall/newsdesk/internal/config"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "newsdesk",
	Short: "Newsdesk - editorial operations dashboard",
	Long:  `Newsdesk is a terminal dashboard for an editorial backend: draft editing with autosave and version history, AI-assisted rewrites, and audience-impact simulations.`,
	// No RunE - defaults to showing help when no subcommand is provided
}

var (
	apiAddr  string
	apiToken string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&apiAddr, "api", "", "Backend API address (overrides NEWSDESK_API)")
	rootCmd.PersistentFlags().StringVar(&apiToken, "token", "", "Bearer token (overrides NEWSDESK_TOKEN)")

	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(articleCmd)
	rootCmd.AddCommand(versionsCmd)
	rootCmd.AddCommand(simulateCmd)
}

// loadConfig merges env configuration with flag overrides.
func loadConfig() (*config.Config, error) {
	cfg := config.Load()
	if apiAddr != "" {
		cfg.APIAddr = apiAddr
	}
	if apiToken != "" {
		cfg.APIToken = apiToken
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// newClient builds the backend client with a unique editor instance ID so
// the backend can attribute saves from concurrent sessions.
func newClient(cfg *config.Config) *api.Client {
	hostname, _ := os.Hostname()
	editorID := fmt.Sprintf("desk-%s@%s", uuid.NewString()[:8], hostname)
	return api.NewClient(cfg.APIAddr, cfg.APIToken, editorID)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
