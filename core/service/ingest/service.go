// Package ingest pulls new messages from the mail provider into storage.
package ingest

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mrinalFouzdar/BE-Email-Automation-sub001/core/domain"
	"github.com/mrinalFouzdar/BE-Email-Automation-sub001/core/port/out"
	"github.com/mrinalFouzdar/BE-Email-Automation-sub001/pkg/logger"
)

// Service fetches provider messages and stores headers in Postgres and
// bodies in the document store. Emails are immutable once ingested;
// re-fetching an already stored provider id is a no-op.
type Service struct {
	source domain.Provider
	fetch  out.EmailSource
	emails domain.EmailRepository
	bodies out.EmailBodyRepository
}

func NewService(provider domain.Provider, fetch out.EmailSource, emails domain.EmailRepository, bodies out.EmailBodyRepository) *Service {
	return &Service{
		source: provider,
		fetch:  fetch,
		emails: emails,
		bodies: bodies,
	}
}

// FetchAndStore ingests messages received after since for one owner.
// Returns how many new emails were stored. Per-message failures are
// logged and skipped.
func (s *Service) FetchAndStore(ctx context.Context, ownerID uuid.UUID, since time.Time, max int) (int, error) {
	if max <= 0 {
		max = 50
	}

	incoming, err := s.fetch.FetchSince(ctx, since, max)
	if err != nil {
		return 0, err
	}

	stored := 0
	for _, msg := range incoming {
		existing, err := s.emails.GetByProviderID(ctx, ownerID, msg.ProviderID)
		if err != nil {
			logger.WithError(err).WithField("provider_id", msg.ProviderID).
				Warn("failed to check for existing email")
			continue
		}
		if existing != nil {
			continue
		}

		email := &domain.Email{
			OwnerID:    ownerID,
			Provider:   s.source,
			ProviderID: msg.ProviderID,
			ThreadID:   msg.ThreadID,
			Subject:    msg.Subject,
			FromEmail:  msg.FromEmail,
			ToEmails:   msg.ToEmails,
			Snippet:    msg.Snippet,
			HasAttach:  msg.HasAttach,
			PDFCount:   msg.PDFCount,
			ReceivedAt: msg.ReceivedAt,
		}
		if msg.FromName != "" {
			name := msg.FromName
			email.FromName = &name
		}

		if err := s.emails.Create(ctx, email); err != nil {
			logger.WithError(err).WithField("provider_id", msg.ProviderID).
				Warn("failed to store email")
			continue
		}

		if msg.TextBody != "" || msg.HTMLBody != "" {
			err := s.bodies.SaveBody(ctx, &domain.EmailBody{
				EmailID:  email.ID,
				TextBody: msg.TextBody,
				HTMLBody: msg.HTMLBody,
			})
			if err != nil {
				// Header row stays; classification falls back to the snippet.
				logger.WithError(err).WithField("email_id", email.ID).
					Warn("failed to store email body")
			}
		}

		stored++
	}

	return stored, nil
}
