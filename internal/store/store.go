// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists publication records in SQLite.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/paper-catalog/pkg/types"
)

// ErrDuplicate reports an insert whose pdf_link already exists. The unique
// index makes the dedup-check-then-insert sequence safe even when two
// ingestion runs race on the same candidate.
var ErrDuplicate = errors.New("publication with this pdf_link already exists")

// timeFormat is how created_at is stored. Fixed-width UTC so string
// comparison in SQL matches chronological order.
const timeFormat = time.RFC3339

// Store owns the publications table. Safe for concurrent use; SQLite
// serializes writers underneath.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database at cfg.Path and ensures the
// schema exists.
func Open(cfg types.StoreConfig) (*Store, error) {
	path := cfg.Path
	if path == "" {
		path = "catalog.db"
	}
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS publications (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			summary TEXT,
			tags TEXT,
			year INTEGER,
			organization TEXT,
			country TEXT,
			language TEXT,
			pdf_link TEXT NOT NULL,
			source TEXT,
			created_at TEXT NOT NULL
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_publications_pdf_link ON publications(pdf_link)`,
		`CREATE INDEX IF NOT EXISTS idx_publications_created_at ON publications(created_at)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Create inserts a publication and returns it with the assigned ID and
// creation timestamp. Returns ErrDuplicate when a record with the same
// pdf_link is already present.
func (s *Store) Create(ctx context.Context, pub types.Publication) (types.Publication, error) {
	tags := pub.Tags
	if tags == nil {
		tags = []string{}
	}
	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return types.Publication{}, fmt.Errorf("marshaling tags: %w", err)
	}

	createdAt := time.Now().UTC().Truncate(time.Second)

	res, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO publications
			(title, summary, tags, year, organization, country, language, pdf_link, source, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		pub.Title, pub.Summary, string(tagsJSON), pub.Year,
		pub.Organization, pub.Country, pub.Language,
		pub.PDFLink, pub.Source, createdAt.Format(timeFormat),
	)
	if err != nil {
		return types.Publication{}, fmt.Errorf("inserting publication: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return types.Publication{}, fmt.Errorf("checking insert result: %w", err)
	}
	if affected == 0 {
		return types.Publication{}, ErrDuplicate
	}

	id, err := res.LastInsertId()
	if err != nil {
		return types.Publication{}, fmt.Errorf("reading inserted id: %w", err)
	}

	pub.ID = id
	pub.Tags = tags
	pub.CreatedAt = createdAt
	return pub, nil
}

// List returns publications ordered by insertion recency. offset and limit
// pass through to the query unmodified; SQLite treats a negative limit as
// "no limit".
func (s *Store) List(ctx context.Context, offset, limit int) ([]types.Publication, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, summary, tags, year, organization, country, language,
		        pdf_link, source, created_at
		 FROM publications
		 ORDER BY created_at DESC, id DESC
		 LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("querying publications: %w", err)
	}
	defer rows.Close()

	var pubs []types.Publication
	for rows.Next() {
		pub, err := scanPublication(rows)
		if err != nil {
			return nil, err
		}
		pubs = append(pubs, pub)
	}
	return pubs, rows.Err()
}

// ExistsByLink reports whether a publication with the given pdf_link is
// already stored.
func (s *Store) ExistsByLink(ctx context.Context, pdfLink string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM publications WHERE pdf_link = ?`, pdfLink).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking pdf_link: %w", err)
	}
	return true, nil
}

// Count returns the total number of publications.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx,
		`SELECT count(*) FROM publications`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting publications: %w", err)
	}
	return n, nil
}

// CountCreatedAfter returns how many publications were inserted strictly
// after t.
func (s *Store) CountCreatedAfter(ctx context.Context, t time.Time) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT count(*) FROM publications WHERE created_at > ?`,
		t.UTC().Format(timeFormat)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting recent publications: %w", err)
	}
	return n, nil
}

// scanner matches *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanPublication(sc scanner) (types.Publication, error) {
	var (
		pub       types.Publication
		tagsJSON  string
		createdAt string
	)
	err := sc.Scan(&pub.ID, &pub.Title, &pub.Summary, &tagsJSON, &pub.Year,
		&pub.Organization, &pub.Country, &pub.Language,
		&pub.PDFLink, &pub.Source, &createdAt)
	if err != nil {
		return types.Publication{}, fmt.Errorf("scanning publication: %w", err)
	}

	if err := json.Unmarshal([]byte(tagsJSON), &pub.Tags); err != nil {
		pub.Tags = []string{}
	}
	if t, parseErr := time.Parse(timeFormat, createdAt); parseErr == nil {
		pub.CreatedAt = t
	}
	return pub, nil
}
