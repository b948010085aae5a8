// Package rag provides the embedding and vector search primitives.
package rag

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/mrinalFouzdar/BE-Email-Automation-sub001/core/agent/llm"
)

// Embedding backends.
const (
	BackendOpenAI   = "openai"
	BackendLocal    = "local"
	BackendDisabled = "disabled"
)

// Embedding is a vector tagged with the model that produced it. Vectors
// from different models must never be compared.
type Embedding struct {
	Vector []float32
	Model  string
}

// Embedder turns text into tagged vectors. With the disabled backend it
// returns (nil, nil) and callers skip all similarity behavior.
type Embedder struct {
	backend  string
	model    string
	client   *llm.Client
	localURL string
	httpc    *http.Client
}

type EmbedderConfig struct {
	Backend  string // openai, local, disabled
	Model    string
	LocalURL string
}

func NewEmbedder(cfg EmbedderConfig, client *llm.Client) *Embedder {
	return &Embedder{
		backend:  cfg.Backend,
		model:    cfg.Model,
		client:   client,
		localURL: cfg.LocalURL,
		httpc:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Enabled reports whether embeddings are produced at all.
func (e *Embedder) Enabled() bool {
	return e.backend != BackendDisabled && e.backend != ""
}

// Model returns the embedding model tag.
func (e *Embedder) Model() string {
	return e.model
}

// Embed produces a tagged embedding for the text. Returns (nil, nil) when
// the backend is disabled.
func (e *Embedder) Embed(ctx context.Context, text string) (*Embedding, error) {
	switch e.backend {
	case BackendOpenAI:
		vec, err := e.client.Embedding(ctx, e.model, text)
		if err != nil {
			return nil, fmt.Errorf("failed to create embedding: %w", err)
		}
		return &Embedding{Vector: vec, Model: e.model}, nil

	case BackendLocal:
		vec, err := e.embedLocal(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("failed to create local embedding: %w", err)
		}
		return &Embedding{Vector: vec, Model: e.model}, nil

	default:
		return nil, nil
	}
}

// embedLocal calls an Ollama-compatible embeddings endpoint.
func (e *Embedder) embedLocal(ctx context.Context, text string) ([]float32, error) {
	payload, err := json.Marshal(map[string]string{
		"model":  e.model,
		"prompt": text,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.localURL, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("embedding endpoint returned status %d", resp.StatusCode)
	}

	var body struct {
		Embedding []float32 `json:"embedding"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}
	if len(body.Embedding) == 0 {
		return nil, fmt.Errorf("embedding endpoint returned empty vector")
	}

	return body.Embedding, nil
}

// PrepareText builds the text fed to the embedding model.
func (e *Embedder) PrepareText(subject, body string, maxLen int) string {
	text := subject + "\n\n" + body
	if len(text) > maxLen {
		return text[:maxLen]
	}
	return text
}
