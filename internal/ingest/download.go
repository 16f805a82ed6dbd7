// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ingest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pdiddy/paper-catalog/internal/httputil"
)

// maxPDFBytes bounds how much of a PDF response is read into memory.
const maxPDFBytes = 50 << 20

const defaultDownloadTimeout = 20 * time.Second

// HTTPDownloader fetches PDFs with a bounded per-request timeout.
type HTTPDownloader struct {
	client    *http.Client
	userAgent string
}

// NewDownloader builds a downloader; a zero timeout uses the default 20s.
func NewDownloader(timeout time.Duration, userAgent string) *HTTPDownloader {
	if timeout <= 0 {
		timeout = defaultDownloadTimeout
	}
	return &HTTPDownloader{
		client:    httputil.NewClient(timeout),
		userAgent: userAgent,
	}
}

// Download fetches url and returns the body bytes. Each download is
// attempted exactly once; failures are the caller's signal to skip the
// candidate.
func (d *HTTPDownloader) Download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", d.userAgent)
	req.Header.Set("Accept", "application/pdf")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d from %s", resp.StatusCode, url)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxPDFBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading download: %w", err)
	}
	if len(data) > maxPDFBytes {
		return nil, fmt.Errorf("PDF from %s exceeds %d bytes", url, maxPDFBytes)
	}
	return data, nil
}
