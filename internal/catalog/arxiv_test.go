// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pdiddy/paper-catalog/pkg/types"
)

const feedTemplate = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
%s
</feed>`

func entryXML(title, published, pdfHref string) string {
	links := `<link href="http://arxiv.org/abs/x" rel="alternate" type="text/html"/>`
	if pdfHref != "" {
		links += fmt.Sprintf(`<link title="pdf" href="%s" rel="related" type="application/pdf"/>`, pdfHref)
	}
	return fmt.Sprintf(`<entry>
  <title> %s </title>
  <summary> A summary. </summary>
  <published>%s</published>
  %s
</entry>`, title, published, links)
}

func testClient(t *testing.T, handler http.HandlerFunc) *ArxivClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewArxivClient(types.CatalogConfig{
		HTTPConfig: types.HTTPConfig{Timeout: 5 * time.Second, UserAgent: "test/0.1"},
		BaseURL:    srv.URL,
	})
}

func TestFetchMapsEntries(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if got := q.Get("search_query"); got != "cat:cs.AI" {
			t.Errorf("search_query = %q, want cat:cs.AI", got)
		}
		if got := q.Get("start"); got != "50" {
			t.Errorf("start = %q, want 50", got)
		}
		if got := q.Get("max_results"); got != "25" {
			t.Errorf("max_results = %q, want 25", got)
		}
		if got := q.Get("sortBy"); got != "submittedDate" {
			t.Errorf("sortBy = %q, want submittedDate", got)
		}
		fmt.Fprintf(w, feedTemplate,
			entryXML("Paper One", "2024-03-18T17:59:59Z", "http://arxiv.org/pdf/2403.1v1"))
	})

	candidates, err := client.Fetch(context.Background(), "cs.AI", 25, 50)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(candidates) != 1 {
		t.Fatalf("len(candidates) = %d, want 1", len(candidates))
	}

	c := candidates[0]
	if c.Title != "Paper One" {
		t.Errorf("Title = %q, want trimmed %q", c.Title, "Paper One")
	}
	if c.Summary != "A summary." {
		t.Errorf("Summary = %q, want trimmed", c.Summary)
	}
	if c.Year != 2024 {
		t.Errorf("Year = %d, want 2024", c.Year)
	}
	if c.PDFLink != "http://arxiv.org/pdf/2403.1v1" {
		t.Errorf("PDFLink = %q", c.PDFLink)
	}
	if c.Source != SourceArxiv {
		t.Errorf("Source = %q, want %q", c.Source, SourceArxiv)
	}
}

func TestFetchSkipsEntriesWithoutPDFLink(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, feedTemplate,
			entryXML("Has PDF", "2024-01-01T00:00:00Z", "http://arxiv.org/pdf/a")+
				entryXML("No PDF", "2024-01-01T00:00:00Z", ""))
	})

	candidates, err := client.Fetch(context.Background(), "cs.AI", 10, 0)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(candidates) != 1 {
		t.Fatalf("len(candidates) = %d, want 1", len(candidates))
	}
	if candidates[0].Title != "Has PDF" {
		t.Errorf("kept %q, want the entry with a PDF link", candidates[0].Title)
	}
}

func TestFetchEmptyFeed(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, feedTemplate, "")
	})

	candidates, err := client.Fetch(context.Background(), "nonsense.category", 10, 0)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(candidates) != 0 {
		t.Errorf("len(candidates) = %d, want 0", len(candidates))
	}
}

func TestFetchHTTPError(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	if _, err := client.Fetch(context.Background(), "cs.AI", 10, 0); err == nil {
		t.Fatal("expected error for HTTP 500")
	}
}

func TestFetchMalformedXML(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "not xml at all <<<")
	})

	if _, err := client.Fetch(context.Background(), "cs.AI", 10, 0); err == nil {
		t.Fatal("expected error for malformed feed")
	}
}

func TestYearOf(t *testing.T) {
	tests := []struct {
		published string
		want      int
	}{
		{"2024-03-18T17:59:59Z", 2024},
		{"1999-01-01", 1999},
		{"", 0},
		{"20x4-03-18", 0},
	}
	for _, tt := range tests {
		if got := yearOf(tt.published); got != tt.want {
			t.Errorf("yearOf(%q) = %d, want %d", tt.published, got, tt.want)
		}
	}
}
