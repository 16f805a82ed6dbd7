// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract turns PDF bytes into structured publication metadata by
// prompting a chat-completion model.
package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pdiddy/paper-catalog/pkg/types"
)

const (
	defaultMaxPages       = 5
	defaultMaxPromptChars = 8000
)

// AIBackend abstracts the chat-completion API so tests can supply a mock.
type AIBackend interface {
	// Complete sends one prompt and returns the raw model output.
	Complete(ctx context.Context, prompt string) (string, error)

	// Probe issues a minimal no-op request and reports reachability.
	Probe(ctx context.Context) error
}

// Extractor produces publication metadata from PDF bytes. Each PDF is
// attempted exactly once; there is no retry or backoff.
type Extractor struct {
	backend        AIBackend
	maxPages       int
	maxPromptChars int
}

// New builds an Extractor backed by the OpenAI-compatible API in cfg.
func New(cfg types.ExtractionConfig) *Extractor {
	return NewWithBackend(NewOpenAIBackend(cfg.AIConfig), cfg)
}

// NewWithBackend builds an Extractor around an explicit backend.
func NewWithBackend(backend AIBackend, cfg types.ExtractionConfig) *Extractor {
	maxPages := cfg.MaxPages
	if maxPages <= 0 {
		maxPages = defaultMaxPages
	}
	maxChars := cfg.MaxPromptChars
	if maxChars <= 0 {
		maxChars = defaultMaxPromptChars
	}
	return &Extractor{backend: backend, maxPages: maxPages, maxPromptChars: maxChars}
}

// Extract pulls text from the leading PDF pages, prompts the model, and
// decodes its response. Unreadable PDF text is tolerated and yields a
// truncated prompt. A transport failure or a response that does not parse
// as the expected JSON object is an error; callers treat any error as
// "no usable metadata" and skip the candidate rather than store partial
// data.
func (e *Extractor) Extract(ctx context.Context, pdfBytes []byte) (Metadata, error) {
	text, err := TextFromPDF(pdfBytes, e.maxPages)
	if err != nil {
		text = ""
	}
	if len(text) > e.maxPromptChars {
		text = text[:e.maxPromptChars]
	}

	prompt, err := renderPrompt(text)
	if err != nil {
		return Metadata{}, fmt.Errorf("rendering prompt: %w", err)
	}

	raw, err := e.backend.Complete(ctx, prompt)
	if err != nil {
		return Metadata{}, fmt.Errorf("completion request: %w", err)
	}

	var m Metadata
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &m); err != nil {
		return Metadata{}, fmt.Errorf("parsing metadata JSON: %w", err)
	}
	return m, nil
}

// Probe reports whether the model endpoint is reachable. Used as a
// pre-flight check before starting a bulk ingestion run.
func (e *Extractor) Probe(ctx context.Context) error {
	return e.backend.Probe(ctx)
}
