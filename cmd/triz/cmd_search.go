package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"triz/internal/format"
)

var searchFlags struct {
	topK int
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Semantic search over the ingested case library",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchFlags.topK, "top", "k", 5, "Number of results")
}

func runSearch(cmd *cobra.Command, args []string) error {
	searcher, err := openSearcher()
	if err != nil {
		return err
	}
	if searcher == nil {
		return fmt.Errorf("semantic search is disabled; set search.backend to %q or %q in the config", "file", "weaviate")
	}
	defer searcher.Close()

	matches, err := searcher.Search(cmd.Context(), strings.Join(args, " "), searchFlags.topK)
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}
	out := cmd.OutOrStdout()
	if len(matches) == 0 {
		fmt.Fprintln(out, "no matches")
		return nil
	}
	t := format.NewTable(tableMode())
	t.Header("Score", "Source", "Content")
	t.Columns(format.ColumnConfig{Number: 1, Right: true}, format.ColumnConfig{Number: 3, MaxWidth: 72})
	for _, m := range matches {
		t.Row(fmt.Sprintf("%.3f", m.Certainty), m.Source, format.Truncate(m.Content, 160))
	}
	fmt.Fprint(out, t.String())
	return nil
}
