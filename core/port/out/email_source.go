package out

import (
	"context"
	"time"
)

// IncomingEmail is a provider-fetched message before persistence.
type IncomingEmail struct {
	ProviderID string
	ThreadID   string
	Subject    string
	FromEmail  string
	FromName   string
	ToEmails   []string
	Snippet    string
	TextBody   string
	HTMLBody   string
	HasAttach  bool
	PDFCount   int
	ReceivedAt time.Time
}

// EmailSource fetches new messages from a mail provider.
type EmailSource interface {
	// FetchSince lists messages received after the given time, newest
	// first, up to max.
	FetchSince(ctx context.Context, since time.Time, max int) ([]*IncomingEmail, error)
}
