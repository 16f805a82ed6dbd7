// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-catalog/internal/store"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Dump the catalog to YAML and JSON files",
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().String("db", "", "SQLite database file (default catalog.db)")
	exportCmd.Flags().String("yaml", "catalog.yaml", "YAML output path (empty to skip)")
	exportCmd.Flags().String("json", "catalog.json", "JSON output path (empty to skip)")

	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	if db, _ := cmd.Flags().GetString("db"); db != "" {
		cfg.Store.Path = db
	}

	st, err := store.Open(cfg.Store)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer st.Close()

	if path, _ := cmd.Flags().GetString("yaml"); path != "" {
		if err := st.ExportYAML(cmd.Context(), path); err != nil {
			return fmt.Errorf("exporting YAML: %w", err)
		}
		fmt.Fprintln(os.Stderr, "Wrote", path)
	}
	if path, _ := cmd.Flags().GetString("json"); path != "" {
		if err := st.ExportJSON(cmd.Context(), path); err != nil {
			return fmt.Errorf("exporting JSON: %w", err)
		}
		fmt.Fprintln(os.Stderr, "Wrote", path)
	}
	return nil
}
