package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"triz/internal/ingest"
)

var ingestFlags struct {
	workers int
}

var ingestCmd = &cobra.Command{
	Use:   "ingest <dir>",
	Short: "Index a directory of case studies for semantic search",
	Long: `Walks the directory, extracts text from .txt, .md, and .rst files,
splits long files into chunks, embeds them, and writes them to the
configured search backend.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().IntVar(&ingestFlags.workers, "workers", 4, "Concurrent extraction workers")
}

func runIngest(cmd *cobra.Command, args []string) error {
	searcher, err := openSearcher()
	if err != nil {
		return err
	}
	if searcher == nil {
		return fmt.Errorf("semantic search is disabled; set search.backend to %q or %q in the config", "file", "weaviate")
	}
	defer searcher.Close()

	ing := ingest.New(searcher, nil)
	ing.Workers = ingestFlags.workers
	n, err := ing.Dir(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("ingest: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "indexed %d document(s) from %s\n", n, args[0])
	return nil
}
