package classification

import (
	"context"

	"github.com/mrinalFouzdar/BE-Email-Automation-sub001/core/agent/llm"
	"github.com/mrinalFouzdar/BE-Email-Automation-sub001/core/domain"
)

// FlagModel is the LLM surface the cascade depends on. *llm.Client
// satisfies it.
type FlagModel interface {
	ClassifyFlags(ctx context.Context, from, subject, body string) (*llm.FlagClassification, error)
}

// LLMClassifier is the final tier. It resolves every flag and proposes a
// label. Failures propagate to the cascade, which degrades instead of
// erroring per email.
type LLMClassifier struct {
	model FlagModel
}

func NewLLMClassifier(model FlagModel) *LLMClassifier {
	return &LLMClassifier{model: model}
}

func (c *LLMClassifier) Name() domain.ClassifyMethod {
	return domain.MethodLLM
}

func (c *LLMClassifier) Classify(ctx context.Context, in *Input) (*TierResult, error) {
	out, err := c.model.ClassifyFlags(ctx, in.FromEmail, in.Subject, in.Body)
	if err != nil {
		return nil, err
	}

	return &TierResult{
		Flags: domain.CategoryFlags{
			IsHierarchy:  out.IsHierarchy,
			IsClient:     out.IsClient,
			IsMeeting:    out.IsMeeting,
			IsEscalation: out.IsEscalation,
			IsUrgent:     out.IsUrgent,
		},
		Resolved: ResolvedSet{
			Hierarchy:  true,
			Client:     true,
			Meeting:    true,
			Escalation: true,
			Urgent:     true,
		},
		SuggestedLabel: out.SuggestedLabel,
		Reasoning:      out.Reasoning,
		Confidence:     out.Confidence,
		TokensUsed:     out.TokensUsed,
	}, nil
}
