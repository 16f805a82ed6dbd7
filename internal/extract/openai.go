// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"text/template"

	"github.com/pdiddy/paper-catalog/pkg/types"
)

// extractionPromptTmpl instructs the model to return the six metadata
// fields as a bare JSON object.
var extractionPromptTmpl = template.Must(template.New("extraction").Parse(`You are an AI assistant for an academic library.
You are given the text of a scientific publication. Extract the following metadata and return it strictly as a valid JSON object with these fields:
- title: Title of the paper
- summary: Short summary (up to 5 sentences)
- tags: List of 5-10 keywords
- language: Language of the paper (e.g. en, ru, etc.)
- organization: Institution or organization that published the paper (if found)
- country: Country of the organization (if found)

Do not include any text outside the JSON object.

Here is the text:
{{.Excerpt}}
`))

// renderPrompt executes the extraction prompt template with the text excerpt.
func renderPrompt(excerpt string) (string, error) {
	var buf bytes.Buffer
	if err := extractionPromptTmpl.Execute(&buf, struct{ Excerpt string }{Excerpt: excerpt}); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// DefaultAPIBaseURL is the OpenAI API root.
const DefaultAPIBaseURL = "https://api.openai.com/v1"

// OpenAIBackend calls an OpenAI-compatible chat-completions endpoint.
type OpenAIBackend struct {
	BaseURL     string
	Model       string
	APIKey      string
	Temperature float64
	Client      *http.Client
}

// NewOpenAIBackend builds a backend from cfg, applying defaults for the
// endpoint and model.
func NewOpenAIBackend(cfg types.AIConfig) *OpenAIBackend {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultAPIBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = "gpt-4"
	}
	return &OpenAIBackend{
		BaseURL:     baseURL,
		Model:       model,
		APIKey:      cfg.APIKey,
		Temperature: cfg.Temperature,
	}
}

// chatRequest is the request body for the chat-completions API.
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

// chatMessage is a single message in the conversation.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse is the response body from the chat-completions API.
type chatResponse struct {
	Choices []chatChoice `json:"choices"`
}

type chatChoice struct {
	Message chatMessage `json:"message"`
}

// Complete sends one user message and returns the first choice's content.
func (b *OpenAIBackend) Complete(ctx context.Context, prompt string) (string, error) {
	return b.send(ctx, chatRequest{
		Model:       b.Model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: b.Temperature,
	})
}

// Probe issues a minimal chat request to verify connectivity and auth.
func (b *OpenAIBackend) Probe(ctx context.Context) error {
	_, err := b.send(ctx, chatRequest{
		Model:     b.Model,
		Messages:  []chatMessage{{Role: "user", Content: "ping"}},
		MaxTokens: 1,
	})
	return err
}

func (b *OpenAIBackend) send(ctx context.Context, reqBody chatRequest) (string, error) {
	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		b.BaseURL+"/chat/completions", bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+b.APIKey)

	client := b.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling chat API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("chat API returned %d: %s", resp.StatusCode, string(body))
	}

	var cResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cResp); err != nil {
		return "", fmt.Errorf("decoding chat response: %w", err)
	}
	if len(cResp.Choices) == 0 {
		return "", fmt.Errorf("chat API returned no choices")
	}
	return cResp.Choices[0].Message.Content, nil
}
