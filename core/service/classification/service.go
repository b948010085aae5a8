package classification

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/mrinalFouzdar/BE-Email-Automation-sub001/core/agent/rag"
	"github.com/mrinalFouzdar/BE-Email-Automation-sub001/core/domain"
	"github.com/mrinalFouzdar/BE-Email-Automation-sub001/core/port/out"
	"github.com/mrinalFouzdar/BE-Email-Automation-sub001/core/service/normalize"
	"github.com/mrinalFouzdar/BE-Email-Automation-sub001/pkg/apperr"
	"github.com/mrinalFouzdar/BE-Email-Automation-sub001/pkg/logger"
)

// ServiceConfig tunes the orchestration around the cascade.
type ServiceConfig struct {
	// SuggestMinConfidence gates creation of pending label suggestions.
	SuggestMinConfidence float64
	// EmbedMaxChars caps the text fed to the embedding model.
	EmbedMaxChars int
}

func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		SuggestMinConfidence: 0.6,
		EmbedMaxChars:        8000,
	}
}

// Service orchestrates a full classification pass: normalize, embed,
// cascade, persist, record usage, and raise a label suggestion.
type Service struct {
	cascade  *Cascade
	embedder *rag.Embedder

	emails      domain.EmailRepository
	bodies      out.EmailBodyRepository
	meta        domain.EmailMetaRepository
	usage       domain.UsageRepository
	suggestions domain.SuggestionRepository
	labels      domain.LabelRepository

	normOpts normalize.Options
	cfg      ServiceConfig
}

func NewService(
	cascade *Cascade,
	embedder *rag.Embedder,
	emails domain.EmailRepository,
	bodies out.EmailBodyRepository,
	meta domain.EmailMetaRepository,
	usage domain.UsageRepository,
	suggestions domain.SuggestionRepository,
	labels domain.LabelRepository,
	cfg ServiceConfig,
) *Service {
	return &Service{
		cascade:     cascade,
		embedder:    embedder,
		emails:      emails,
		bodies:      bodies,
		meta:        meta,
		usage:       usage,
		suggestions: suggestions,
		labels:      labels,
		normOpts:    normalize.DefaultOptions(),
		cfg:         cfg,
	}
}

// ClassifyEmailByID loads the email and its body, then runs a full pass.
// Safe to call again on an already classified email: the meta row is
// replaced, not duplicated.
func (s *Service) ClassifyEmailByID(ctx context.Context, emailID int64) (*domain.ClassificationResult, error) {
	email, err := s.emails.GetByID(ctx, emailID)
	if err != nil {
		return nil, err
	}
	if email == nil {
		return nil, apperr.NotFound("email")
	}

	body, err := s.bodies.GetBody(ctx, emailID)
	if err != nil {
		logger.WithError(err).WithField("email_id", emailID).
			Warn("failed to load email body, classifying from snippet")
	}

	return s.Classify(ctx, email, body)
}

// Classify runs the cascade on one email and persists the outcome.
// Classification itself never fails; returned errors are persistence
// failures.
func (s *Service) Classify(ctx context.Context, email *domain.Email, body *domain.EmailBody) (*domain.ClassificationResult, error) {
	rawBody := email.Snippet
	if body != nil {
		switch {
		case body.TextBody != "":
			rawBody = body.TextBody
		case body.HTMLBody != "":
			rawBody = body.HTMLBody
		}
	}

	subject, cleanBody := normalize.Normalize(email.Subject, rawBody, s.normOpts)

	in := &Input{
		EmailID:      email.ID,
		FromEmail:    email.FromEmail,
		SenderDomain: email.SenderDomain(),
		Subject:      subject,
		Body:         cleanBody,
		Fingerprint:  Fingerprint(email.SenderDomain(), subject, cleanBody),
	}

	result := s.cascade.Classify(ctx, in)

	if err := s.persist(ctx, email, subject, cleanBody, result); err != nil {
		return nil, err
	}

	s.recordUsage(ctx, email.ID, result)
	s.maybeSuggestLabel(ctx, email, result)

	return result, nil
}

func (s *Service) persist(ctx context.Context, email *domain.Email, subject, body string, result *domain.ClassificationResult) error {
	blob, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal classification result: %w", err)
	}

	meta := &domain.EmailMeta{
		EmailID:        email.ID,
		CategoryFlags:  result.CategoryFlags,
		Method:         result.Method,
		Confidence:     result.Confidence,
		Classification: blob,
	}
	if result.SuggestedLabel != "" {
		meta.SuggestedLabel = &result.SuggestedLabel
	}
	if result.Reasoning != "" {
		meta.Reasoning = &result.Reasoning
	}

	if s.embedder != nil && s.embedder.Enabled() {
		text := s.embedder.PrepareText(subject, body, s.cfg.EmbedMaxChars)
		emb, err := s.embedder.Embed(ctx, text)
		if err != nil {
			logger.WithError(err).WithField("email_id", email.ID).
				Warn("failed to embed email, classification saved without vector")
		} else if emb != nil {
			meta.Embedding = emb.Vector
			model := emb.Model
			meta.EmbeddingModel = &model
		}
	}

	if err := s.meta.Upsert(ctx, meta); err != nil {
		return fmt.Errorf("failed to save classification: %w", err)
	}

	return nil
}

func (s *Service) recordUsage(ctx context.Context, emailID int64, result *domain.ClassificationResult) {
	err := s.usage.Record(ctx, &domain.ClassificationEvent{
		EmailID:    emailID,
		Method:     result.Method,
		TokensUsed: result.TokensUsed,
		CreatedAt:  time.Now().UTC(),
	})
	if err != nil {
		logger.WithError(err).WithField("email_id", emailID).
			Warn("failed to record classification event")
	}
}

// maybeSuggestLabel raises a pending suggestion for the owner to review.
// Best effort: failures are logged, never returned.
func (s *Service) maybeSuggestLabel(ctx context.Context, email *domain.Email, result *domain.ClassificationResult) {
	if result.SuggestedLabel == "" || result.Confidence < s.cfg.SuggestMinConfidence {
		return
	}

	hasLabel, err := s.labels.EmailHasLabelNamed(ctx, email.ID, result.SuggestedLabel)
	if err != nil || hasLabel {
		return
	}

	pending, err := s.suggestions.HasPendingForEmail(ctx, email.ID, result.SuggestedLabel)
	if err != nil || pending {
		return
	}

	suggestion := &domain.PendingLabelSuggestion{
		EmailID:     email.ID,
		OwnerID:     email.OwnerID,
		LabelName:   result.SuggestedLabel,
		SuggestedBy: domain.SuggestedByAI,
		Confidence:  result.Confidence,
		Status:      domain.SuggestionPending,
	}
	if result.Reasoning != "" {
		reasoning := result.Reasoning
		suggestion.Reasoning = &reasoning
	}

	if err := s.suggestions.Create(ctx, suggestion); err != nil {
		logger.WithError(err).WithField("email_id", email.ID).
			Warn("failed to create label suggestion")
	}
}
