package labels

import (
	"context"
	"fmt"

	"github.com/mrinalFouzdar/BE-Email-Automation-sub001/core/agent/rag"
	"github.com/mrinalFouzdar/BE-Email-Automation-sub001/core/domain"
	"github.com/mrinalFouzdar/BE-Email-Automation-sub001/pkg/logger"
)

// PropagationConfig tunes automatic label spreading.
type PropagationConfig struct {
	// Threshold is the minimum cosine similarity for a candidate.
	Threshold float64
	// MaxEmails caps how many emails one approval can label.
	MaxEmails int
}

func DefaultPropagationConfig() PropagationConfig {
	return PropagationConfig{
		Threshold: 0.5,
		MaxEmails: 10,
	}
}

// Propagation spreads an approved label to similar unlabeled emails of
// the same owner using the stored embedding of the approved email.
type Propagation struct {
	store  *rag.VectorStore
	meta   domain.EmailMetaRepository
	labels domain.LabelRepository
	cfg    PropagationConfig
}

func NewPropagation(store *rag.VectorStore, meta domain.EmailMetaRepository, labels domain.LabelRepository, cfg PropagationConfig) *Propagation {
	return &Propagation{store: store, meta: meta, labels: labels, cfg: cfg}
}

// AutoApplyToSimilarEmails attaches the label to the owner's most similar
// emails that do not carry it yet and returns how many it labeled. Skips
// silently when the source email has no stored embedding.
func (p *Propagation) AutoApplyToSimilarEmails(ctx context.Context, suggestion *domain.PendingLabelSuggestion, label *domain.Label) (int, error) {
	meta, err := p.meta.GetByEmailID(ctx, suggestion.EmailID)
	if err != nil {
		return 0, fmt.Errorf("failed to load source embedding: %w", err)
	}
	if meta == nil || len(meta.Embedding) == 0 || meta.EmbeddingModel == nil {
		return 0, nil
	}

	matches, err := p.store.Search(ctx, meta.Embedding, *meta.EmbeddingModel, rag.Scope{
		Kind:           rag.ScopeEmailsWithoutLabel,
		OwnerID:        suggestion.OwnerID.String(),
		ExcludeLabelID: label.ID,
	}, p.cfg.MaxEmails, p.cfg.Threshold)
	if err != nil {
		return 0, fmt.Errorf("failed to search similar emails: %w", err)
	}

	applied := 0
	for _, m := range matches {
		if m.ID == suggestion.EmailID {
			continue
		}
		err := p.labels.Attach(ctx, &domain.EmailLabel{
			EmailID:    m.ID,
			LabelID:    label.ID,
			AssignedBy: domain.AssignerSystem,
			Confidence: m.Similarity,
		})
		if err != nil {
			logger.WithError(err).WithField("email_id", m.ID).
				Warn("failed to propagate label to similar email")
			continue
		}
		applied++
	}

	if applied > 0 {
		logger.WithField("label_id", label.ID).WithField("count", applied).
			Info("propagated label to similar emails")
	}

	return applied, nil
}
