// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/paper-catalog/pkg/types"
)

// exportLimit caps an export query; far above any realistic catalog size.
const exportLimit = 100000

// ExportYAML writes the whole catalog to path as YAML, newest first.
func (s *Store) ExportYAML(ctx context.Context, path string) error {
	pubs, err := s.exportRecords(ctx)
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(pubs)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ExportJSON writes the whole catalog to path as indented JSON, newest first.
func (s *Store) ExportJSON(ctx context.Context, path string) error {
	pubs, err := s.exportRecords(ctx)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(pubs, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func (s *Store) exportRecords(ctx context.Context) ([]types.Publication, error) {
	pubs, err := s.List(ctx, 0, exportLimit)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}
	if pubs == nil {
		pubs = []types.Publication{}
	}
	return pubs, nil
}
