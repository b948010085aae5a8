package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SuggestionStatus is the lifecycle state of a pending label suggestion.
// A suggestion moves from pending to approved or rejected exactly once.
type SuggestionStatus string

const (
	SuggestionPending  SuggestionStatus = "pending"
	SuggestionApproved SuggestionStatus = "approved"
	SuggestionRejected SuggestionStatus = "rejected"
)

// SuggestionOrigin identifies what produced a suggestion.
type SuggestionOrigin string

const (
	SuggestedByAI         SuggestionOrigin = "ai"
	SuggestedBySystem     SuggestionOrigin = "system"
	SuggestedBySimilarity SuggestionOrigin = "similarity"
	SuggestedByHybrid     SuggestionOrigin = "hybrid"
)

// PendingLabelSuggestion is a proposed label awaiting owner review.
type PendingLabelSuggestion struct {
	ID      int64     `json:"id"`
	EmailID int64     `json:"email_id"`
	OwnerID uuid.UUID `json:"owner_id"`

	LabelName   string           `json:"label_name"`
	SuggestedBy SuggestionOrigin `json:"suggested_by"`
	Confidence  float64          `json:"confidence"`
	Reasoning   *string          `json:"reasoning,omitempty"`

	Status      SuggestionStatus `json:"status"`
	ProcessedBy *uuid.UUID       `json:"processed_by,omitempty"`
	ProcessedAt *time.Time       `json:"processed_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

type SuggestionRepository interface {
	GetByID(ctx context.Context, id int64) (*PendingLabelSuggestion, error)
	Create(ctx context.Context, s *PendingLabelSuggestion) error
	ListPendingByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*PendingLabelSuggestion, int, error)

	// HasPendingForEmail reports whether a pending suggestion with the
	// same label name already exists for the email.
	HasPendingForEmail(ctx context.Context, emailID int64, labelName string) (bool, error)

	// MarkProcessed performs the atomic pending -> approved|rejected
	// transition without side effects. Returns false when the row was
	// not pending anymore, which callers surface as an
	// already-processed conflict.
	MarkProcessed(ctx context.Context, id int64, status SuggestionStatus, actorID uuid.UUID) (bool, error)

	// Approve transitions the suggestion to approved and attaches the
	// suggested label to its email in one transaction, creating the
	// label when absent. Returns the attached label, or false when the
	// row already left the pending state; a failed attach rolls the
	// transition back so the suggestion stays pending.
	Approve(ctx context.Context, s *PendingLabelSuggestion, actorID uuid.UUID) (*Label, bool, error)
}
