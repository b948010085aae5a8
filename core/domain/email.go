package domain

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Provider string

const (
	MailProviderGmail Provider = "google"
)

// Email is an ingested message header record. Rows are immutable once
// ingested; mutable classification state lives in EmailMeta.
type Email struct {
	ID         int64     `json:"id"`
	OwnerID    uuid.UUID `json:"owner_id"`
	Provider   Provider  `json:"provider"`
	ProviderID string    `json:"provider_id"`
	ThreadID   string    `json:"thread_id,omitempty"`

	Subject    string    `json:"subject"`
	FromEmail  string    `json:"from_email"`
	FromName   *string   `json:"from_name,omitempty"`
	ToEmails   []string  `json:"to_emails,omitempty"`
	Snippet    string    `json:"snippet"`
	HasAttach  bool      `json:"has_attachments"`
	PDFCount   int       `json:"pdf_count"`
	ReceivedAt time.Time `json:"received_at"`
	CreatedAt  time.Time `json:"created_at"`
}

// SenderDomain returns the lower-cased domain part of the sender address,
// or "" when the address has no domain.
func (e *Email) SenderDomain() string {
	idx := strings.LastIndex(e.FromEmail, "@")
	if idx < 0 || idx == len(e.FromEmail)-1 {
		return ""
	}
	return strings.ToLower(e.FromEmail[idx+1:])
}

// EmailBody holds the full message content, stored separately from headers.
type EmailBody struct {
	EmailID  int64  `json:"email_id"`
	TextBody string `json:"text_body"`
	HTMLBody string `json:"html_body"`
}

type EmailFilter struct {
	OwnerID   uuid.UUID
	FromEmail *string
	Search    *string
	Limit     int
	Offset    int
}

type EmailRepository interface {
	GetByID(ctx context.Context, id int64) (*Email, error)
	GetByProviderID(ctx context.Context, ownerID uuid.UUID, providerID string) (*Email, error)
	List(ctx context.Context, filter *EmailFilter) ([]*Email, int, error)
	Create(ctx context.Context, email *Email) error
	CreateBatch(ctx context.Context, emails []*Email) error

	// ListUnclassified returns emails that have no EmailMeta row yet,
	// oldest first, for the background sweep.
	ListUnclassified(ctx context.Context, limit int) ([]*Email, error)
}
