package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Label is a named tag an owner attaches to emails. Names are unique per
// owner. System labels cannot be renamed or deleted.
type Label struct {
	ID      int64     `json:"id"`
	OwnerID uuid.UUID `json:"owner_id"`

	Name     string  `json:"name"`
	Color    *string `json:"color,omitempty"`
	IsSystem bool    `json:"is_system"`

	EmailCount int `json:"email_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LabelAssigner identifies what attached a label to an email.
type LabelAssigner string

const (
	AssignerAI     LabelAssigner = "ai"
	AssignerUser   LabelAssigner = "user"
	AssignerAdmin  LabelAssigner = "admin"
	AssignerSystem LabelAssigner = "system"
)

// EmailLabel is an email-to-label assignment. The (email_id, label_id)
// pair is unique.
type EmailLabel struct {
	EmailID    int64         `json:"email_id"`
	LabelID    int64         `json:"label_id"`
	AssignedBy LabelAssigner `json:"assigned_by"`
	Confidence float64       `json:"confidence"`
	CreatedAt  time.Time     `json:"created_at"`
}

type LabelRepository interface {
	GetByID(ctx context.Context, id int64) (*Label, error)
	GetByName(ctx context.Context, ownerID uuid.UUID, name string) (*Label, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*Label, error)
	Create(ctx context.Context, label *Label) error
	Update(ctx context.Context, label *Label) error
	Delete(ctx context.Context, id int64) error

	// GetOrCreate returns the owner's label with the given name, creating
	// it when absent.
	GetOrCreate(ctx context.Context, ownerID uuid.UUID, name string) (*Label, error)

	// Email-label associations
	Attach(ctx context.Context, assignment *EmailLabel) error
	Detach(ctx context.Context, emailID, labelID int64) error
	ListForEmail(ctx context.Context, emailID int64) ([]*Label, error)
	EmailHasLabel(ctx context.Context, emailID, labelID int64) (bool, error)

	// EmailHasLabelNamed reports whether the email already carries a label
	// with the given name (any assigner).
	EmailHasLabelNamed(ctx context.Context, emailID int64, name string) (bool, error)
}
