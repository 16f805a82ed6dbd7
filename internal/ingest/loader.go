// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ingest runs the catalog enrichment loop: fetch candidates,
// deduplicate, download PDFs, extract metadata, and persist records.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/pdiddy/paper-catalog/internal/extract"
	"github.com/pdiddy/paper-catalog/internal/store"
	"github.com/pdiddy/paper-catalog/pkg/types"
)

const (
	defaultPageSize    = 25
	defaultMaxAttempts = 10
)

// Fetcher pages through a remote catalog. An empty page means the source
// has no more results.
type Fetcher interface {
	Fetch(ctx context.Context, category string, limit, start int) ([]types.Candidate, error)
}

// Extractor produces metadata from PDF bytes. Any error means "no usable
// metadata" for that candidate.
type Extractor interface {
	Extract(ctx context.Context, pdfBytes []byte) (extract.Metadata, error)
	Probe(ctx context.Context) error
}

// Publications is the store surface the loop needs.
type Publications interface {
	Create(ctx context.Context, pub types.Publication) (types.Publication, error)
	ExistsByLink(ctx context.Context, pdfLink string) (bool, error)
}

// Downloader fetches one PDF by URL.
type Downloader interface {
	Download(ctx context.Context, url string) ([]byte, error)
}

// Summary holds counts from one ingestion run.
type Summary struct {
	// Collected is how many new records were stored.
	Collected int
	// Duplicates is how many candidates were already in the store.
	Duplicates int
	// Skipped is how many candidates failed download, extraction, or
	// validation and were dropped.
	Skipped int
	// Pages is how many catalog pages were fetched.
	Pages int
}

// Total returns the number of candidates considered.
func (s Summary) Total() int {
	return s.Collected + s.Duplicates + s.Skipped
}

// Loader orchestrates one ingestion run. Per-candidate failures are logged
// and skipped; only an exhausted page budget, an empty result page, or a
// cancelled context ends the run early.
type Loader struct {
	fetcher    Fetcher
	extractor  Extractor
	pubs       Publications
	downloader Downloader

	pageSize    int
	maxAttempts int
}

// NewLoader wires a Loader from its collaborators and cfg, applying the
// default page size and attempt budget where unset.
func NewLoader(f Fetcher, e Extractor, p Publications, d Downloader, cfg types.IngestConfig) *Loader {
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	maxAttempts := cfg.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	return &Loader{
		fetcher:     f,
		extractor:   e,
		pubs:        p,
		downloader:  d,
		pageSize:    pageSize,
		maxAttempts: maxAttempts,
	}
}

// Run collects up to limit new publications from the given category,
// writing per-item progress to w. It fetches pages in submission order
// (newest first) until the target is reached, the source runs dry, or the
// attempt budget is spent.
func (l *Loader) Run(ctx context.Context, category string, limit int, w io.Writer) Summary {
	var summary Summary
	start := 0

	for attempts := l.maxAttempts; summary.Collected < limit && attempts > 0; attempts-- {
		if ctx.Err() != nil {
			break
		}

		page, err := l.fetcher.Fetch(ctx, category, l.pageSize, start)
		if err != nil {
			fmt.Fprintf(w, "fetch failed at offset %d: %v\n", start, err)
			start += l.pageSize
			continue
		}
		summary.Pages++

		if len(page) == 0 {
			fmt.Fprintf(w, "no more results from source\n")
			break
		}

		if done := l.processPage(ctx, page, limit, &summary, w); done {
			break
		}

		start += l.pageSize
	}

	fmt.Fprintf(w, "\nIngest summary: %d stored, %d duplicate, %d skipped (%d pages)\n",
		summary.Collected, summary.Duplicates, summary.Skipped, summary.Pages)
	return summary
}

// processPage handles one page of candidates in order. It returns true when
// the collection target was reached mid-page.
func (l *Loader) processPage(ctx context.Context, page []types.Candidate, limit int, summary *Summary, w io.Writer) bool {
	for _, cand := range page {
		select {
		case <-ctx.Done():
			return true
		default:
		}

		exists, err := l.pubs.ExistsByLink(ctx, cand.PDFLink)
		if err != nil {
			fmt.Fprintf(w, "skipped %s: dedup check: %v\n", cand.PDFLink, err)
			summary.Skipped++
			continue
		}
		if exists {
			summary.Duplicates++
			continue
		}

		pdfBytes, err := l.downloader.Download(ctx, cand.PDFLink)
		if err != nil {
			fmt.Fprintf(w, "skipped %s: download: %v\n", cand.PDFLink, err)
			summary.Skipped++
			continue
		}

		meta, err := l.extractor.Extract(ctx, pdfBytes)
		if err != nil {
			fmt.Fprintf(w, "skipped %s: extraction: %v\n", cand.PDFLink, err)
			summary.Skipped++
			continue
		}
		if meta.IsEmpty() {
			fmt.Fprintf(w, "skipped %s: extractor returned no metadata\n", cand.PDFLink)
			summary.Skipped++
			continue
		}

		pub := merge(cand, meta)
		if pub.Title == "" || pub.PDFLink == "" {
			fmt.Fprintf(w, "skipped %s: merged record missing required fields\n", cand.PDFLink)
			summary.Skipped++
			continue
		}

		stored, err := l.pubs.Create(ctx, pub)
		if errors.Is(err, store.ErrDuplicate) {
			// Lost a race with a concurrent producer; the unique index
			// kept the catalog consistent.
			summary.Duplicates++
			continue
		}
		if err != nil {
			fmt.Fprintf(w, "skipped %s: insert: %v\n", cand.PDFLink, err)
			summary.Skipped++
			continue
		}

		fmt.Fprintf(w, "stored  %s (%s)\n", stored.Title, stored.PDFLink)
		summary.Collected++
		if summary.Collected >= limit {
			return true
		}
	}
	return false
}

// merge combines a catalog candidate with extracted metadata. Extractor
// fields win whenever the model's JSON carried the key; tags, language,
// organization, and country come solely from the extractor and are
// normalized through the Field variant. Year stays with the candidate —
// the extractor does not produce one.
func merge(cand types.Candidate, meta extract.Metadata) types.Publication {
	pub := types.Publication{
		Title:   cand.Title,
		Summary: cand.Summary,
		Year:    cand.Year,
		PDFLink: cand.PDFLink,
		Source:  cand.Source,
	}
	if meta.Title.Present() {
		pub.Title = meta.Title.Joined()
	}
	if meta.Summary.Present() {
		pub.Summary = meta.Summary.Joined()
	}
	pub.Tags = meta.Tags.Tags()
	pub.Language = meta.Language.Joined()
	pub.Organization = meta.Organization.Joined()
	pub.Country = meta.Country.Joined()
	return pub
}
