package domain

import (
	"context"
	"time"
)

// EmailMeta holds the mutable classification state for an email.
// At most one row exists per email; re-classification updates in place.
type EmailMeta struct {
	ID      int64 `json:"id"`
	EmailID int64 `json:"email_id"`

	CategoryFlags

	SuggestedLabel *string        `json:"suggested_label,omitempty"`
	Reasoning      *string        `json:"reasoning,omitempty"`
	Method         ClassifyMethod `json:"method_used"`
	Confidence     float64        `json:"confidence"`

	// Classification is the raw result blob kept for debugging and replays.
	Classification []byte `json:"-"`

	// Embedding is tagged with the producing model; vectors from different
	// models are never compared.
	Embedding      []float32 `json:"-"`
	EmbeddingModel *string   `json:"embedding_model,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type EmailMetaRepository interface {
	GetByEmailID(ctx context.Context, emailID int64) (*EmailMeta, error)

	// Upsert inserts or, when a row for the email already exists, replaces
	// its classification fields. The email_id unique constraint is the
	// arbiter.
	Upsert(ctx context.Context, meta *EmailMeta) error

	// SetEmbedding stores the tagged vector for an email.
	SetEmbedding(ctx context.Context, emailID int64, vector []float32, model string) error
}
