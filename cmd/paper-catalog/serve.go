// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-catalog/internal/catalog"
	"github.com/pdiddy/paper-catalog/internal/extract"
	"github.com/pdiddy/paper-catalog/internal/ingest"
	"github.com/pdiddy/paper-catalog/internal/server"
	"github.com/pdiddy/paper-catalog/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the catalog web app",
	Long: `Serve starts the HTTP surface: an HTML listing page, a JSON
publications API, a bulk arXiv ingestion trigger, and a freshness check.
Ingestion runs triggered over HTTP execute on a bounded background queue.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default :8080)")
	serveCmd.Flags().String("db", "", "SQLite database file (default catalog.db)")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.Server.Addr = addr
	}
	if db, _ := cmd.Flags().GetString("db"); db != "" {
		cfg.Store.Path = db
	}

	st, err := store.Open(cfg.Store)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer st.Close()

	fetcher := catalog.NewArxivClient(cfg.Catalog)
	extractor := extract.New(cfg.Extraction)
	downloader := ingest.NewDownloader(cfg.Ingest.DownloadTimeout, cfg.Catalog.UserAgent)
	loader := ingest.NewLoader(fetcher, extractor, st, downloader, cfg.Ingest)

	runner := ingest.NewRunner(cfg.Ingest.QueueSize)
	defer runner.Close()

	srv := server.New(st, loader, extractor, runner, cfg.Server)
	fmt.Fprintf(os.Stderr, "Listening on %s (db: %s)\n", cfg.Server.Addr, cfg.Store.Path)
	return srv.Router().Run(cfg.Server.Addr)
}
