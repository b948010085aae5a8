package labels

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/mrinalFouzdar/BE-Email-Automation-sub001/core/domain"
	"github.com/mrinalFouzdar/BE-Email-Automation-sub001/pkg/apperr"
)

const maxLabelNameLen = 64

// LabelService handles direct label management by the owner.
type LabelService struct {
	labels domain.LabelRepository
	emails domain.EmailRepository
}

func NewLabelService(labels domain.LabelRepository, emails domain.EmailRepository) *LabelService {
	return &LabelService{labels: labels, emails: emails}
}

func (s *LabelService) List(ctx context.Context, ownerID uuid.UUID) ([]*domain.Label, error) {
	return s.labels.ListByOwner(ctx, ownerID)
}

func (s *LabelService) Create(ctx context.Context, ownerID uuid.UUID, name string, color *string) (*domain.Label, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.ValidationFailed("label name is required")
	}
	if len(name) > maxLabelNameLen {
		return nil, apperr.ValidationFailed("label name is too long")
	}

	existing, err := s.labels.GetByName(ctx, ownerID, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.AlreadyExists("label")
	}

	label := &domain.Label{
		OwnerID: ownerID,
		Name:    name,
		Color:   color,
	}
	if err := s.labels.Create(ctx, label); err != nil {
		return nil, err
	}
	return label, nil
}

func (s *LabelService) Update(ctx context.Context, ownerID uuid.UUID, id int64, name string, color *string) (*domain.Label, error) {
	label, err := s.authorize(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if label.IsSystem {
		return nil, apperr.Forbidden("system labels cannot be modified")
	}

	name = strings.TrimSpace(name)
	if name != "" {
		label.Name = name
	}
	if color != nil {
		label.Color = color
	}
	if err := s.labels.Update(ctx, label); err != nil {
		return nil, err
	}
	return label, nil
}

func (s *LabelService) Delete(ctx context.Context, ownerID uuid.UUID, id int64) error {
	label, err := s.authorize(ctx, ownerID, id)
	if err != nil {
		return err
	}
	if label.IsSystem {
		return apperr.Forbidden("system labels cannot be deleted")
	}
	return s.labels.Delete(ctx, id)
}

// AttachToEmail assigns a label by hand. Both the email and the label
// must belong to the caller.
func (s *LabelService) AttachToEmail(ctx context.Context, ownerID uuid.UUID, emailID, labelID int64) error {
	label, err := s.authorize(ctx, ownerID, labelID)
	if err != nil {
		return err
	}

	email, err := s.emails.GetByID(ctx, emailID)
	if err != nil {
		return err
	}
	if email == nil || email.OwnerID != ownerID {
		return apperr.NotFound("email")
	}

	return s.labels.Attach(ctx, &domain.EmailLabel{
		EmailID:    emailID,
		LabelID:    label.ID,
		AssignedBy: domain.AssignerUser,
		Confidence: 1.0,
	})
}

func (s *LabelService) DetachFromEmail(ctx context.Context, ownerID uuid.UUID, emailID, labelID int64) error {
	if _, err := s.authorize(ctx, ownerID, labelID); err != nil {
		return err
	}
	return s.labels.Detach(ctx, emailID, labelID)
}

func (s *LabelService) ListForEmail(ctx context.Context, ownerID uuid.UUID, emailID int64) ([]*domain.Label, error) {
	email, err := s.emails.GetByID(ctx, emailID)
	if err != nil {
		return nil, err
	}
	if email == nil || email.OwnerID != ownerID {
		return nil, apperr.NotFound("email")
	}
	return s.labels.ListForEmail(ctx, emailID)
}

func (s *LabelService) authorize(ctx context.Context, ownerID uuid.UUID, labelID int64) (*domain.Label, error) {
	label, err := s.labels.GetByID(ctx, labelID)
	if err != nil {
		return nil, err
	}
	if label == nil || label.OwnerID != ownerID {
		return nil, apperr.NotFound("label")
	}
	return label, nil
}
