package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/edvall/newsdesk/internal/history"
	"github.com/spf13/cobra"
)

var versionsCmd = &cobra.Command{
	Use:   "versions",
	Short: "Inspect and restore draft versions",
}

var versionsListCmd = &cobra.Command{
	Use:   "list [article-id]",
	Short: "List version history, most recent first",
	Args:  cobra.ExactArgs(1),
	RunE:  runVersionsList,
}

var versionsDiffCmd = &cobra.Command{
	Use:   "diff [article-id]",
	Short: "Show the diff between two versions",
	Args:  cobra.ExactArgs(1),
	RunE:  runVersionsDiff,
}

var versionsRestoreCmd = &cobra.Command{
	Use:   "restore [article-id]",
	Short: "Restore a past version as a new current version",
	Args:  cobra.ExactArgs(1),
	RunE:  runVersionsRestore,
}

var (
	diffFrom       int
	diffTo         int
	restoreVersion int
)

func init() {
	versionsCmd.AddCommand(versionsListCmd, versionsDiffCmd, versionsRestoreCmd)

	versionsDiffCmd.Flags().IntVar(&diffFrom, "from", 0, "Base version (required)")
	versionsDiffCmd.Flags().IntVar(&diffTo, "to", 0, "Target version (required)")
	versionsDiffCmd.MarkFlagRequired("from")
	versionsDiffCmd.MarkFlagRequired("to")

	versionsRestoreCmd.Flags().IntVar(&restoreVersion, "version", 0, "Version to restore (required)")
	versionsRestoreCmd.MarkFlagRequired("version")
}

func historyService(articleID string) (*history.Service, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return history.New(articleID, newClient(cfg), nil), nil
}

func runVersionsList(cmd *cobra.Command, args []string) error {
	svc, err := historyService(args[0])
	if err != nil {
		return err
	}

	records, err := svc.List(context.Background())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "VERSION\tORIGIN\tCREATED")
	for _, r := range records {
		fmt.Fprintf(w, "v%d\t%s\t%s\n", r.Version, r.Origin, r.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	return w.Flush()
}

func runVersionsDiff(cmd *cobra.Command, args []string) error {
	svc, err := historyService(args[0])
	if err != nil {
		return err
	}

	diff, err := svc.Diff(context.Background(), diffFrom, diffTo)
	if err != nil {
		return err
	}
	fmt.Println(diff.DiffText)
	return nil
}

func runVersionsRestore(cmd *cobra.Command, args []string) error {
	svc, err := historyService(args[0])
	if err != nil {
		return err
	}

	draft, err := svc.Restore(context.Background(), restoreVersion)
	if err != nil {
		return err
	}
	fmt.Printf("Restored v%d as new version v%d\n", restoreVersion, draft.Version)
	return nil
}
