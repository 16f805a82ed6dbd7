// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pdiddy/paper-catalog/internal/catalog"
	"github.com/pdiddy/paper-catalog/internal/extract"
	"github.com/pdiddy/paper-catalog/internal/ingest"
	"github.com/pdiddy/paper-catalog/internal/store"
	"github.com/pdiddy/paper-catalog/pkg/types"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// --- test doubles ---

// stubFetcher serves generated candidates in submission order.
type stubFetcher struct{}

func (stubFetcher) Fetch(_ context.Context, _ string, limit, start int) ([]types.Candidate, error) {
	page := make([]types.Candidate, limit)
	for i := range page {
		page[i] = types.Candidate{
			Title:   fmt.Sprintf("Paper %d", start+i),
			Summary: "abstract",
			Year:    2024,
			PDFLink: fmt.Sprintf("http://arxiv.test/pdf/%d", start+i),
			Source:  catalog.SourceArxiv,
		}
	}
	return page, nil
}

// stubExtractor answers every Extract with the same decoded metadata.
type stubExtractor struct {
	response string
	probeErr error
}

func (s *stubExtractor) Extract(context.Context, []byte) (extract.Metadata, error) {
	var m extract.Metadata
	if err := json.Unmarshal([]byte(s.response), &m); err != nil {
		return extract.Metadata{}, err
	}
	return m, nil
}

func (s *stubExtractor) Probe(context.Context) error { return s.probeErr }

type stubDownloader struct{}

func (stubDownloader) Download(context.Context, string) ([]byte, error) {
	return []byte("%PDF-1.4 stub"), nil
}

const stubMetadata = `{
	"title": "Extracted Title",
	"summary": "Extracted summary.",
	"tags": ["cs.AI"],
	"language": "English",
	"organization": ["MIT"],
	"country": "USA"
}`

// newTestServer wires a Server against a fresh sqlite store and stub
// ingestion collaborators. The returned cleanup closes the runner.
func newTestServer(t *testing.T, extractor ingest.Extractor) (*Server, *store.Store, func()) {
	t.Helper()

	st, err := store.Open(types.StoreConfig{Path: filepath.Join(t.TempDir(), "catalog.db")})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}

	loader := ingest.NewLoader(stubFetcher{}, extractor, st, stubDownloader{}, types.IngestConfig{
		PageSize:    5,
		MaxAttempts: 10,
	})
	runner := ingest.NewRunner(2)

	srv := New(st, loader, extractor, runner, types.ServerConfig{PageSize: 10, ListLimit: 20})
	cleanup := func() {
		runner.Close()
		st.Close()
	}
	return srv, st, cleanup
}

func seed(t *testing.T, st *store.Store, n int) []types.Publication {
	t.Helper()
	out := make([]types.Publication, 0, n)
	for i := 0; i < n; i++ {
		pub, err := st.Create(context.Background(), types.Publication{
			Title:   fmt.Sprintf("Seeded %d", i),
			Summary: "s",
			Tags:    []string{"cs.AI"},
			Year:    2023,
			PDFLink: fmt.Sprintf("http://arxiv.test/seed/%d", i),
			Source:  catalog.SourceArxiv,
		})
		if err != nil {
			t.Fatalf("seed create: %v", err)
		}
		out = append(out, pub)
	}
	return out
}

func doRequest(router *gin.Engine, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// --- tests ---

func TestHealthz(t *testing.T) {
	srv, _, cleanup := newTestServer(t, &stubExtractor{response: stubMetadata})
	defer cleanup()

	w := doRequest(srv.Router(), http.MethodGet, "/healthz")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
}

func TestIndexRendersPublications(t *testing.T) {
	srv, st, cleanup := newTestServer(t, &stubExtractor{response: stubMetadata})
	defer cleanup()
	seed(t, st, 3)

	w := doRequest(srv.Router(), http.MethodGet, "/")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "Seeded 0") || !strings.Contains(body, "Seeded 2") {
		t.Errorf("page missing seeded titles:\n%s", body)
	}
}

func TestListPublicationsJSON(t *testing.T) {
	srv, st, cleanup := newTestServer(t, &stubExtractor{response: stubMetadata})
	defer cleanup()
	seed(t, st, 5)
	router := srv.Router()

	w := doRequest(router, http.MethodGet, "/publications/")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var pubs []types.Publication
	if err := json.Unmarshal(w.Body.Bytes(), &pubs); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(pubs) != 5 {
		t.Fatalf("len = %d, want 5", len(pubs))
	}

	// skip/limit pass through to the store.
	w = doRequest(router, http.MethodGet, "/publications/?skip=2&limit=2")
	if err := json.Unmarshal(w.Body.Bytes(), &pubs); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(pubs) != 2 {
		t.Fatalf("len = %d, want 2", len(pubs))
	}
}

func TestListPublicationsEmptyIsArray(t *testing.T) {
	srv, _, cleanup := newTestServer(t, &stubExtractor{response: stubMetadata})
	defer cleanup()

	w := doRequest(srv.Router(), http.MethodGet, "/publications/")
	if got := strings.TrimSpace(w.Body.String()); got != "[]" {
		t.Fatalf("body = %q, want []", got)
	}
}

func TestBulkArxivUnavailableBackend(t *testing.T) {
	srv, _, cleanup := newTestServer(t, &stubExtractor{
		response: stubMetadata,
		probeErr: fmt.Errorf("401 unauthorized"),
	})
	defer cleanup()

	w := doRequest(srv.Router(), http.MethodPost, "/publications/bulk/arxiv/?limit=3")
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", w.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := "AI service unavailable. Please check your OpenAI connection."
	if body["error"] != want {
		t.Errorf("error = %q, want %q", body["error"], want)
	}
}

func TestBulkArxivStartsIngestion(t *testing.T) {
	srv, st, cleanup := newTestServer(t, &stubExtractor{response: stubMetadata})
	defer cleanup()

	w := doRequest(srv.Router(), http.MethodPost, "/publications/bulk/arxiv/?limit=3&category=cs.AI")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "started" {
		t.Errorf("status field = %q, want started", body["status"])
	}
	wantMsg := "Started loading 3 papers from arXiv [cs.AI]."
	if body["message"] != wantMsg {
		t.Errorf("message = %q, want %q", body["message"], wantMsg)
	}

	// The run happens in the background; wait for the records to land.
	deadline := time.Now().Add(5 * time.Second)
	for {
		n, err := st.Count(context.Background())
		if err != nil {
			t.Fatalf("count: %v", err)
		}
		if n >= 3 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("store has %d records after wait, want 3", n)
		}
		time.Sleep(10 * time.Millisecond)
	}

	pubs, err := st.List(context.Background(), 0, -1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(pubs) != 3 {
		t.Fatalf("len = %d, want 3", len(pubs))
	}
	for _, pub := range pubs {
		if pub.Source != catalog.SourceArxiv {
			t.Errorf("source = %q, want %q", pub.Source, catalog.SourceArxiv)
		}
		if pub.Title != "Extracted Title" {
			t.Errorf("title = %q, want extractor override", pub.Title)
		}
	}
}

func TestUpdatedSinceInvalidTimestamp(t *testing.T) {
	srv, _, cleanup := newTestServer(t, &stubExtractor{response: stubMetadata})
	defer cleanup()
	router := srv.Router()

	for _, after := range []string{"", "yesterday", "2024-13-40T99:00:00"} {
		w := doRequest(router, http.MethodGet, "/publications/updated-since?after="+after)
		if w.Code != http.StatusBadRequest {
			t.Errorf("after=%q: status = %d, want 400", after, w.Code)
			continue
		}
		var body map[string]string
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if body["error"] != "Invalid timestamp format" {
			t.Errorf("after=%q: error = %q", after, body["error"])
		}
	}
}

func TestUpdatedSinceCounts(t *testing.T) {
	srv, st, cleanup := newTestServer(t, &stubExtractor{response: stubMetadata})
	defer cleanup()
	seed(t, st, 2)
	router := srv.Router()

	type response struct {
		Updated  bool `json:"updated"`
		NewCount int  `json:"new_count"`
	}

	before := time.Now().UTC().Add(-time.Hour).Format(time.RFC3339)
	w := doRequest(router, http.MethodGet, "/publications/updated-since?after="+before)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var got response
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !got.Updated || got.NewCount != 2 {
		t.Errorf("got %+v, want updated=true new_count=2", got)
	}

	after := time.Now().UTC().Add(time.Hour).Format(time.RFC3339)
	w = doRequest(router, http.MethodGet, "/publications/updated-since?after="+after)
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Updated || got.NewCount != 0 {
		t.Errorf("got %+v, want updated=false new_count=0", got)
	}
}

func TestUpdatedSinceAcceptsZonelessTimestamp(t *testing.T) {
	srv, st, cleanup := newTestServer(t, &stubExtractor{response: stubMetadata})
	defer cleanup()
	seed(t, st, 1)

	// A zone-less ISO-8601 value is read as UTC.
	after := time.Now().UTC().Add(-time.Minute).Format("2006-01-02T15:04:05")
	w := doRequest(srv.Router(), http.MethodGet, "/publications/updated-since?after="+after)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	var got struct {
		Updated  bool `json:"updated"`
		NewCount int  `json:"new_count"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !got.Updated || got.NewCount != 1 {
		t.Errorf("got %+v, want updated=true new_count=1", got)
	}
}
