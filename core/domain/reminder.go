package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type ReminderStatus string

const (
	ReminderPending   ReminderStatus = "pending"
	ReminderSent      ReminderStatus = "sent"
	ReminderCancelled ReminderStatus = "cancelled"
)

// Reminder is a user-scheduled follow-up, optionally tied to an email.
type Reminder struct {
	ID      int64     `json:"id"`
	OwnerID uuid.UUID `json:"owner_id"`
	EmailID *int64    `json:"email_id,omitempty"`

	Title    string    `json:"title"`
	Message  *string   `json:"message,omitempty"`
	RemindAt time.Time `json:"remind_at"`

	Status ReminderStatus `json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ReminderRepository interface {
	GetByID(ctx context.Context, id int64) (*Reminder, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*Reminder, int, error)
	Create(ctx context.Context, reminder *Reminder) error
	Update(ctx context.Context, reminder *Reminder) error
	Delete(ctx context.Context, id int64) error

	// GetDue returns pending reminders whose remind_at has passed.
	GetDue(ctx context.Context, until time.Time, limit int) ([]*Reminder, error)
	MarkSent(ctx context.Context, id int64) error
	Cancel(ctx context.Context, id int64) error
}
