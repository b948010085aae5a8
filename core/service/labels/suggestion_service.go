// Package labels implements label management and the suggestion
// approval workflow.
package labels

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mrinalFouzdar/BE-Email-Automation-sub001/core/domain"
	"github.com/mrinalFouzdar/BE-Email-Automation-sub001/pkg/apperr"
	"github.com/mrinalFouzdar/BE-Email-Automation-sub001/pkg/logger"
)

// Actor is the authenticated principal performing a suggestion decision.
type Actor struct {
	ID   uuid.UUID
	Role string
}

const RoleAdmin = "admin"

// IsAdmin reports whether the actor carries the admin role.
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// Decision is the owner's verdict on a pending suggestion.
type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

// SuggestionService drives the pending -> approved|rejected workflow.
type SuggestionService struct {
	suggestions domain.SuggestionRepository
	labels      domain.LabelRepository
	audits      domain.AuditRepository
	propagation *Propagation
}

func NewSuggestionService(
	suggestions domain.SuggestionRepository,
	labels domain.LabelRepository,
	audits domain.AuditRepository,
	propagation *Propagation,
) *SuggestionService {
	return &SuggestionService{
		suggestions: suggestions,
		labels:      labels,
		audits:      audits,
		propagation: propagation,
	}
}

// ListPending returns the owner's open suggestions.
func (s *SuggestionService) ListPending(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*domain.PendingLabelSuggestion, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.suggestions.ListPendingByOwner(ctx, ownerID, limit, offset)
}

// Suggest creates a pending suggestion directly, deduplicating against
// existing labels and open suggestions for the same name.
func (s *SuggestionService) Suggest(ctx context.Context, suggestion *domain.PendingLabelSuggestion) error {
	suggestion.LabelName = strings.TrimSpace(suggestion.LabelName)
	if suggestion.LabelName == "" {
		return apperr.ValidationFailed("label name is required")
	}
	if suggestion.Confidence < 0 || suggestion.Confidence > 1 {
		return apperr.ValidationFailed("confidence must be between 0 and 1")
	}

	hasLabel, err := s.labels.EmailHasLabelNamed(ctx, suggestion.EmailID, suggestion.LabelName)
	if err != nil {
		return err
	}
	if hasLabel {
		return apperr.Conflict("email already carries this label")
	}

	pending, err := s.suggestions.HasPendingForEmail(ctx, suggestion.EmailID, suggestion.LabelName)
	if err != nil {
		return err
	}
	if pending {
		return apperr.Conflict("a pending suggestion for this label already exists")
	}

	suggestion.Status = domain.SuggestionPending
	return s.suggestions.Create(ctx, suggestion)
}

// Process applies the actor's decision to a pending suggestion. Only the
// owner or an admin may decide; the pending -> processed transition
// happens at most once. Approval transitions the suggestion and attaches
// the label in one repository transaction, then best-effort propagates
// the label to similar unlabeled emails.
func (s *SuggestionService) Process(ctx context.Context, actor Actor, suggestionID int64, decision Decision) (*domain.PendingLabelSuggestion, error) {
	if decision != DecisionApprove && decision != DecisionReject {
		return nil, apperr.ValidationFailed("decision must be approve or reject")
	}

	suggestion, err := s.suggestions.GetByID(ctx, suggestionID)
	if err != nil {
		return nil, err
	}
	if suggestion == nil {
		return nil, apperr.NotFound("suggestion")
	}

	if suggestion.OwnerID != actor.ID && !actor.IsAdmin() {
		return nil, apperr.Forbidden("only the owner or an admin can decide this suggestion")
	}

	status := domain.SuggestionRejected
	var (
		label        *domain.Label
		transitioned bool
	)
	if decision == DecisionApprove {
		status = domain.SuggestionApproved
		label, transitioned, err = s.suggestions.Approve(ctx, suggestion, actor.ID)
	} else {
		transitioned, err = s.suggestions.MarkProcessed(ctx, suggestionID, status, actor.ID)
	}
	if err != nil {
		return nil, err
	}
	if !transitioned {
		return nil, apperr.AlreadyProcessed("suggestion")
	}

	if actor.IsAdmin() && suggestion.OwnerID != actor.ID {
		s.recordAdminDecision(ctx, actor, suggestion, decision)
	}

	if label != nil && s.propagation != nil {
		// Best effort: propagation failures never undo the approval.
		if _, err := s.propagation.AutoApplyToSimilarEmails(ctx, suggestion, label); err != nil {
			logger.WithError(err).WithField("suggestion_id", suggestion.ID).
				Warn("label propagation failed")
		}
	}

	now := time.Now().UTC()
	suggestion.Status = status
	suggestion.ProcessedBy = &actor.ID
	suggestion.ProcessedAt = &now

	return suggestion, nil
}

func (s *SuggestionService) recordAdminDecision(ctx context.Context, actor Actor, suggestion *domain.PendingLabelSuggestion, decision Decision) {
	note := "decided label suggestion on behalf of the owner"
	err := s.audits.Create(ctx, &domain.AuditEntry{
		ActorID:    actor.ID,
		ActorRole:  actor.Role,
		OnBehalfOf: suggestion.OwnerID,
		Action:     "suggestion." + string(decision),
		TargetType: "pending_label_suggestion",
		TargetID:   suggestion.ID,
		Note:       &note,
	})
	if err != nil {
		logger.WithError(err).WithField("suggestion_id", suggestion.ID).
			Error("failed to write audit entry for admin decision")
	}
}
