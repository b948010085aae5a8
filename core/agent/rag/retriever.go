package rag

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Source describes where a retrieved context item came from.
type Source struct {
	Kind       string  `json:"kind"` // email or document
	ID         int64   `json:"id"`
	Similarity float64 `json:"similarity"`
	Excerpt    string  `json:"excerpt"`
}

// Retriever assembles grounded context from emails and documents through
// the single similarity primitive.
type Retriever struct {
	embedder *Embedder
	store    *VectorStore

	limit     int
	threshold float64
}

func NewRetriever(embedder *Embedder, store *VectorStore, limit int, threshold float64) *Retriever {
	if limit <= 0 {
		limit = 5
	}
	return &Retriever{
		embedder:  embedder,
		store:     store,
		limit:     limit,
		threshold: threshold,
	}
}

// Retrieve embeds the query and searches both corpora. Returns the
// concatenated context text plus the sources used. With embeddings
// disabled it returns empty results and no error.
func (r *Retriever) Retrieve(ctx context.Context, ownerID uuid.UUID, query string) (string, []*Source, error) {
	emb, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return "", nil, fmt.Errorf("failed to embed query: %w", err)
	}
	if emb == nil {
		return "", nil, nil
	}

	var sources []*Source
	var parts []string

	emailMatches, err := r.store.Search(ctx, emb.Vector, emb.Model,
		Scope{Kind: ScopeEmails, OwnerID: ownerID.String()}, r.limit, r.threshold)
	if err != nil {
		return "", nil, err
	}
	for _, m := range emailMatches {
		sources = append(sources, &Source{Kind: "email", ID: m.ID, Similarity: m.Similarity, Excerpt: m.Content})
		parts = append(parts, fmt.Sprintf("[email %d] %s", m.ID, m.Content))
	}

	docMatches, err := r.store.Search(ctx, emb.Vector, emb.Model,
		Scope{Kind: ScopeDocuments, OwnerID: ownerID.String()}, r.limit, r.threshold)
	if err != nil {
		return "", nil, err
	}
	for _, m := range docMatches {
		sources = append(sources, &Source{Kind: "document", ID: m.ID, Similarity: m.Similarity, Excerpt: m.Content})
		parts = append(parts, fmt.Sprintf("[document %d] %s", m.ID, m.Content))
	}

	return strings.Join(parts, "\n\n"), sources, nil
}
