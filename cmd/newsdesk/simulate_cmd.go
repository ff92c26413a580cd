package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/edvall/newsdesk/internal/sim"
	"github.com/spf13/cobra"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate [article-id]",
	Short: "Run an audience-impact simulation on the current draft",
	Args:  cobra.ExactArgs(1),
	RunE:  runSimulate,
}

var simAudience string

func init() {
	simulateCmd.Flags().StringVar(&simAudience, "audience", "general", "Audience preset (general, subscribers, first-time readers, industry)")
}

func runSimulate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client := newClient(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	draft, err := client.GetDraft(ctx, args[0])
	if err != nil {
		return err
	}

	fmt.Printf("Simulating %q for audience %q...\n", draft.Title, simAudience)

	runner := sim.NewRunner(client, cfg.PollInterval, cfg.PollMaxAttempts)
	report, err := runner.Run(ctx, sim.Request{
		ArticleID: draft.ArticleID,
		Audience:  simAudience,
		Title:     draft.Title,
		Body:      draft.Body,
	})
	if err != nil {
		return err
	}

	fmt.Printf("\n%s\n\n", report.Summary)
	for _, seg := range report.Segments {
		fmt.Printf("  %-20s engagement %.0f%%  %s\n", seg.Segment, seg.Engagement*100, seg.Sentiment)
		if seg.Notes != "" {
			fmt.Printf("  %20s %s\n", "", seg.Notes)
		}
	}
	return nil
}
