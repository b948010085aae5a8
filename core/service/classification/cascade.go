package classification

import (
	"context"

	"github.com/mrinalFouzdar/BE-Email-Automation-sub001/core/domain"
	"github.com/mrinalFouzdar/BE-Email-Automation-sub001/pkg/logger"
)

// Cascade runs the tiers in cost order and composes their partial
// results. Classification never fails per email: the worst case is a
// low-confidence regex result.
type Cascade struct {
	cache  *CacheClassifier
	domain *DomainClassifier
	regex  *RegexClassifier
	llm    *LLMClassifier
}

func NewCascade(cache *CacheClassifier, dom *DomainClassifier, regex *RegexClassifier, llm *LLMClassifier) *Cascade {
	return &Cascade{cache: cache, domain: dom, regex: regex, llm: llm}
}

// Classify resolves the five flags through the tiers. Each flag takes
// its value from the first tier that resolves it; method_used names the
// first tier that contributed anything. A cache hit returns the stored
// result verbatim.
func (c *Cascade) Classify(ctx context.Context, in *Input) *domain.ClassificationResult {
	if c.cache != nil {
		if hit, _ := c.cache.Classify(ctx, in); hit != nil && hit.Complete {
			return hit.Cached
		}
	}

	acc := newAccumulator()

	if c.domain != nil {
		if res, _ := c.domain.Classify(ctx, in); res != nil {
			acc.merge(domain.MethodDomain, res)
		}
	}

	var rawRegex *TierResult
	if c.regex != nil {
		var total int
		rawRegex, total = c.regex.Accumulate(in)
		if total >= c.regex.minMatches {
			acc.merge(domain.MethodRegex, rawRegex)
		}
	}

	if !acc.resolved.All() && c.llm != nil {
		res, err := c.llm.Classify(ctx, in)
		switch {
		case err != nil:
			logger.WithError(err).WithField("email_id", in.EmailID).
				Warn("llm classification failed, using keyword fallback")
			if rawRegex != nil {
				acc.merge(domain.MethodRegex, rawRegex)
			}
		case res != nil:
			acc.merge(domain.MethodLLM, res)
		}
	}

	result := acc.result()

	if c.cache != nil {
		c.cache.Store(ctx, in.Fingerprint, result)
	}

	return result
}

// accumulator composes partial tier results first-resolver-wins.
type accumulator struct {
	flags    domain.CategoryFlags
	resolved ResolvedSet

	method         domain.ClassifyMethod
	confidence     float64
	suggestedLabel string
	reasoning      string
	tokensUsed     int
}

func newAccumulator() *accumulator {
	return &accumulator{}
}

func (a *accumulator) merge(method domain.ClassifyMethod, res *TierResult) {
	contributed := false

	if res.Resolved.Hierarchy && !a.resolved.Hierarchy {
		a.flags.IsHierarchy = res.Flags.IsHierarchy
		a.resolved.Hierarchy = true
		contributed = true
	}
	if res.Resolved.Client && !a.resolved.Client {
		a.flags.IsClient = res.Flags.IsClient
		a.resolved.Client = true
		contributed = true
	}
	if res.Resolved.Meeting && !a.resolved.Meeting {
		a.flags.IsMeeting = res.Flags.IsMeeting
		a.resolved.Meeting = true
		contributed = true
	}
	if res.Resolved.Escalation && !a.resolved.Escalation {
		a.flags.IsEscalation = res.Flags.IsEscalation
		a.resolved.Escalation = true
		contributed = true
	}
	if res.Resolved.Urgent && !a.resolved.Urgent {
		a.flags.IsUrgent = res.Flags.IsUrgent
		a.resolved.Urgent = true
		contributed = true
	}

	if !contributed {
		a.tokensUsed += res.TokensUsed
		return
	}

	if a.method == "" {
		a.method = method
		a.confidence = res.Confidence
	}
	if a.suggestedLabel == "" {
		a.suggestedLabel = res.SuggestedLabel
	}
	if a.reasoning == "" {
		a.reasoning = res.Reasoning
	}
	a.tokensUsed += res.TokensUsed
}

func (a *accumulator) result() *domain.ClassificationResult {
	method := a.method
	if method == "" {
		// No tier resolved anything, all flags default to false.
		method = domain.MethodRegex
	}
	return &domain.ClassificationResult{
		CategoryFlags:  a.flags,
		SuggestedLabel: a.suggestedLabel,
		Reasoning:      a.reasoning,
		Method:         method,
		Confidence:     a.confidence,
		TokensUsed:     a.tokensUsed,
	}
}
