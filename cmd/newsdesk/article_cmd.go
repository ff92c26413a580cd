package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var articleCmd = &cobra.Command{
	Use:   "article",
	Short: "Browse articles",
}

var articleListCmd = &cobra.Command{
	Use:   "list",
	Short: "List articles",
	RunE:  runArticleList,
}

var articleShowCmd = &cobra.Command{
	Use:   "show [article-id]",
	Short: "Show an article's current draft",
	Args:  cobra.ExactArgs(1),
	RunE:  runArticleShow,
}

var articleStatus string

func init() {
	articleCmd.AddCommand(articleListCmd, articleShowCmd)
	articleListCmd.Flags().StringVar(&articleStatus, "status", "", "Filter by status (draft, review, published, archived)")
}

func runArticleList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client := newClient(cfg)

	articles, err := client.ListArticles(context.Background(), articleStatus)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATUS\tHEADLINE\tAUTHOR\tUPDATED")
	for _, a := range articles {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			a.ID, a.Status, a.Headline, a.Author, a.UpdatedAt.Format("2006-01-02 15:04"))
	}
	return w.Flush()
}

func runArticleShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client := newClient(cfg)

	draft, err := client.GetDraft(context.Background(), args[0])
	if err != nil {
		return err
	}

	fmt.Printf("Article: %s (v%d)\n\n", draft.ArticleID, draft.Version)
	fmt.Printf("%s\n\n%s\n", draft.Title, draft.Body)
	return nil
}
