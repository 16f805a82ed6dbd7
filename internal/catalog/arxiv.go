// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog queries remote paper repositories for publication candidates.
package catalog

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pdiddy/paper-catalog/internal/httputil"
	"github.com/pdiddy/paper-catalog/pkg/types"
)

// DefaultBaseURL is the arXiv search endpoint.
const DefaultBaseURL = "https://export.arxiv.org/api/query"

// SourceArxiv is the Source value stamped on candidates from this backend.
const SourceArxiv = "arXiv"

// ArxivClient fetches publication candidates from the arXiv API.
type ArxivClient struct {
	baseURL   string
	userAgent string
	client    *http.Client
}

// NewArxivClient builds a client from cfg. Requests are paced at
// cfg.RequestInterval to stay within arXiv's published limits.
func NewArxivClient(cfg types.CatalogConfig) *ArxivClient {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &ArxivClient{
		baseURL:   baseURL,
		userAgent: cfg.UserAgent,
		client:    httputil.NewRateLimitedClient(cfg.Timeout, cfg.RequestInterval),
	}
}

// Name returns the backend identifier.
func (c *ArxivClient) Name() string { return "arxiv" }

// Fetch requests one page of candidates for a category, newest first.
// start is a zero-based offset into the result set. An unknown category is
// not an error; arXiv returns an empty feed and Fetch an empty slice, which
// callers treat as "no more results". Entries without a PDF link are
// dropped.
func (c *ArxivClient) Fetch(ctx context.Context, category string, limit, start int) ([]types.Candidate, error) {
	q := url.Values{}
	q.Set("search_query", "cat:"+category)
	q.Set("start", strconv.Itoa(start))
	q.Set("max_results", strconv.Itoa(limit))
	q.Set("sortBy", "submittedDate")
	q.Set("sortOrder", "descending")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("arXiv API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("arXiv API returned HTTP %d", resp.StatusCode)
	}

	var feed arxivFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("parsing arXiv response: %w", err)
	}

	var candidates []types.Candidate
	for _, entry := range feed.Entries {
		pdfLink := entry.pdfLink()
		if pdfLink == "" {
			continue
		}
		candidates = append(candidates, types.Candidate{
			Title:   strings.TrimSpace(entry.Title),
			Summary: strings.TrimSpace(entry.Summary),
			Year:    yearOf(entry.Published),
			PDFLink: pdfLink,
			Source:  SourceArxiv,
		})
	}
	return candidates, nil
}

// arXiv Atom feed XML structures.
type arxivFeed struct {
	Entries []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	Title     string      `xml:"title"`
	Summary   string      `xml:"summary"`
	Published string      `xml:"published"`
	Links     []arxivLink `xml:"link"`
}

type arxivLink struct {
	Href  string `xml:"href,attr"`
	Rel   string `xml:"rel,attr"`
	Title string `xml:"title,attr"`
}

// pdfLink scans the entry's typed links for the one arXiv tags as the PDF.
func (e arxivEntry) pdfLink() string {
	for _, l := range e.Links {
		if l.Title == "pdf" {
			return l.Href
		}
	}
	return ""
}

// yearOf derives the publication year from the date prefix of an Atom
// published timestamp (e.g. "2024-03-18T17:59:59Z" → 2024).
func yearOf(published string) int {
	if len(published) < 4 {
		return 0
	}
	year, err := strconv.Atoi(published[:4])
	if err != nil {
		return 0
	}
	return year
}
