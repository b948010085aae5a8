// Package reminder manages user-scheduled follow-ups.
package reminder

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mrinalFouzdar/BE-Email-Automation-sub001/core/domain"
	"github.com/mrinalFouzdar/BE-Email-Automation-sub001/pkg/apperr"
	"github.com/mrinalFouzdar/BE-Email-Automation-sub001/pkg/logger"
)

type Service struct {
	reminders domain.ReminderRepository
	emails    domain.EmailRepository
}

func NewService(reminders domain.ReminderRepository, emails domain.EmailRepository) *Service {
	return &Service{reminders: reminders, emails: emails}
}

type CreateInput struct {
	EmailID  *int64
	Title    string
	Message  *string
	RemindAt time.Time
}

func (s *Service) Create(ctx context.Context, ownerID uuid.UUID, in CreateInput) (*domain.Reminder, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return nil, apperr.ValidationFailed("title is required")
	}
	if in.RemindAt.Before(time.Now()) {
		return nil, apperr.ValidationFailed("remind_at must be in the future")
	}

	if in.EmailID != nil {
		email, err := s.emails.GetByID(ctx, *in.EmailID)
		if err != nil {
			return nil, err
		}
		if email == nil || email.OwnerID != ownerID {
			return nil, apperr.NotFound("email")
		}
	}

	reminder := &domain.Reminder{
		OwnerID:  ownerID,
		EmailID:  in.EmailID,
		Title:    in.Title,
		Message:  in.Message,
		RemindAt: in.RemindAt.UTC(),
		Status:   domain.ReminderPending,
	}
	if err := s.reminders.Create(ctx, reminder); err != nil {
		return nil, err
	}
	return reminder, nil
}

func (s *Service) List(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*domain.Reminder, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.reminders.ListByOwner(ctx, ownerID, limit, offset)
}

func (s *Service) Cancel(ctx context.Context, ownerID uuid.UUID, id int64) error {
	reminder, err := s.reminders.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if reminder == nil || reminder.OwnerID != ownerID {
		return apperr.NotFound("reminder")
	}
	if reminder.Status != domain.ReminderPending {
		return apperr.AlreadyProcessed("reminder")
	}
	return s.reminders.Cancel(ctx, id)
}

// DispatchDue marks due reminders as sent. Delivery itself is out of
// scope; downstream notification happens off the sent status.
func (s *Service) DispatchDue(ctx context.Context, limit int) (int, error) {
	due, err := s.reminders.GetDue(ctx, time.Now().UTC(), limit)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, r := range due {
		if err := s.reminders.MarkSent(ctx, r.ID); err != nil {
			logger.WithError(err).WithField("reminder_id", r.ID).
				Warn("failed to mark reminder sent")
			continue
		}
		sent++
	}
	return sent, nil
}
