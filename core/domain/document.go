package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Document is an uploaded PDF with its extracted text. Extraction happens
// upstream; the backend stores cleaned text and a tagged embedding.
type Document struct {
	ID      int64     `json:"id"`
	OwnerID uuid.UUID `json:"owner_id"`

	Filename    string `json:"filename"`
	ContentText string `json:"content_text"`
	PageCount   int    `json:"page_count"`

	EmbeddingModel *string `json:"embedding_model,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

type DocumentRepository interface {
	GetByID(ctx context.Context, id int64) (*Document, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*Document, int, error)
	Create(ctx context.Context, doc *Document) error
	Delete(ctx context.Context, id int64) error

	// SetEmbedding stores the tagged vector for a document.
	SetEmbedding(ctx context.Context, id int64, vector []float32, model string) error
}
