package main

import (
	"fmt"
	"os"

	"github.com/edvall/newsdesk/internal/prefs"
	"github.com/edvall/newsdesk/internal/tui"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive dashboard",
	RunE:  runTUI,
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := prefs.Open(cfg.PrefsPath)
	if err != nil {
		// The dashboard works without local preferences; guides just
		// reappear every run.
		fmt.Fprintf(os.Stderr, "preferences unavailable: %v\n", err)
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	app := tui.New(cfg, newClient(cfg), store)
	return app.Run()
}
