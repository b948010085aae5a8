package classification

import (
	"context"
	"strings"

	"github.com/mrinalFouzdar/BE-Email-Automation-sub001/core/domain"
)

// DomainRules maps known senders to flags. Addresses take precedence over
// domains. All keys are matched case-insensitively.
type DomainRules struct {
	// LeadershipAddresses are exact sender addresses within the org
	// hierarchy (executives, management chain).
	LeadershipAddresses []string
	// LeadershipDomains mark every sender at the domain as hierarchy.
	LeadershipDomains []string
	// ClientDomains mark every sender at the domain as a client.
	ClientDomains []string
	// InternalDomains are the org's own domains. A sender here is known
	// to not be a client even when no other rule fires.
	InternalDomains []string
}

// DomainClassifier resolves is_hierarchy and is_client from configured
// sender rules. The other three flags always fall through.
type DomainClassifier struct {
	leadershipAddr map[string]bool
	leadership     map[string]bool
	clients        map[string]bool
	internal       map[string]bool
}

func NewDomainClassifier(rules DomainRules) *DomainClassifier {
	return &DomainClassifier{
		leadershipAddr: lowerSet(rules.LeadershipAddresses),
		leadership:     lowerSet(rules.LeadershipDomains),
		clients:        lowerSet(rules.ClientDomains),
		internal:       lowerSet(rules.InternalDomains),
	}
}

func lowerSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v != "" {
			set[v] = true
		}
	}
	return set
}

func (c *DomainClassifier) Name() domain.ClassifyMethod {
	return domain.MethodDomain
}

// Classify resolves only the flags its rules can speak to. An unknown
// sender declines entirely so later tiers decide everything.
func (c *DomainClassifier) Classify(ctx context.Context, in *Input) (*TierResult, error) {
	addr := strings.ToLower(strings.TrimSpace(in.FromEmail))
	dom := strings.ToLower(in.SenderDomain)

	res := &TierResult{Confidence: 0.95}

	switch {
	case c.leadershipAddr[addr], c.leadership[dom]:
		res.Flags.IsHierarchy = true
		res.Resolved.Hierarchy = true
		// Leadership is internal, so the sender is not a client.
		res.Resolved.Client = true
		res.Reasoning = "Sender matches a configured leadership rule."

	case c.clients[dom]:
		res.Flags.IsClient = true
		res.Resolved.Client = true
		res.Reasoning = "Sender domain matches a configured client domain."

	case c.internal[dom]:
		res.Resolved.Client = true
		res.Reasoning = "Sender is internal to the organization."

	default:
		return nil, nil
	}

	return res, nil
}
