// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-catalog/internal/catalog"
	"github.com/pdiddy/paper-catalog/internal/extract"
	"github.com/pdiddy/paper-catalog/internal/ingest"
	"github.com/pdiddy/paper-catalog/internal/store"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Run one synchronous collection pass against arXiv",
	Long: `Ingest fetches arXiv search results for a category, downloads PDFs the
catalog has not seen, extracts bibliographic metadata with a chat model,
and stores normalized records. It runs in the foreground and prints
per-item progress.`,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().String("category", "cs.AI", "arXiv category to collect from")
	ingestCmd.Flags().Int("limit", 100, "number of new publications to collect")
	ingestCmd.Flags().String("db", "", "SQLite database file (default catalog.db)")

	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	if db, _ := cmd.Flags().GetString("db"); db != "" {
		cfg.Store.Path = db
	}
	category, _ := cmd.Flags().GetString("category")
	limit, _ := cmd.Flags().GetInt("limit")
	if limit <= 0 {
		return fmt.Errorf("limit must be positive, got %d", limit)
	}

	st, err := store.Open(cfg.Store)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer st.Close()

	fetcher := catalog.NewArxivClient(cfg.Catalog)
	extractor := extract.New(cfg.Extraction)

	if err := extractor.Probe(cmd.Context()); err != nil {
		return fmt.Errorf("AI backend unavailable: %w", err)
	}

	downloader := ingest.NewDownloader(cfg.Ingest.DownloadTimeout, cfg.Catalog.UserAgent)
	loader := ingest.NewLoader(fetcher, extractor, st, downloader, cfg.Ingest)

	summary := loader.Run(cmd.Context(), category, limit, os.Stdout)
	if summary.Collected == 0 && summary.Total() > 0 {
		return fmt.Errorf("no new publications collected (%d considered)", summary.Total())
	}
	return nil
}
