package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// AuditEntry records an administrative action performed on another user's
// resources, such as an admin deciding a suggestion on the owner's behalf.
type AuditEntry struct {
	ID         int64     `json:"id"`
	ActorID    uuid.UUID `json:"actor_id"`
	ActorRole  string    `json:"actor_role"`
	OnBehalfOf uuid.UUID `json:"on_behalf_of"`

	Action     string  `json:"action"`
	TargetType string  `json:"target_type"`
	TargetID   int64   `json:"target_id"`
	Note       *string `json:"note,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

type AuditRepository interface {
	Create(ctx context.Context, entry *AuditEntry) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*AuditEntry, error)
}
