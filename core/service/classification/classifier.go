// Package classification implements the tiered email classification
// cascade: cache, domain rules, regex scoring, then the LLM.
package classification

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/mrinalFouzdar/BE-Email-Automation-sub001/core/domain"
)

// Input is the normalized material a tier classifies from.
type Input struct {
	EmailID      int64
	FromEmail    string
	SenderDomain string
	Subject      string
	Body         string

	// Fingerprint identifies near-duplicate emails for the cache tier.
	Fingerprint string
}

// ResolvedSet records which of the five flags a tier claims to have
// resolved. Unresolved flags fall through to later tiers.
type ResolvedSet struct {
	Hierarchy  bool
	Client     bool
	Meeting    bool
	Escalation bool
	Urgent     bool
}

// All reports whether every flag is resolved.
func (r ResolvedSet) All() bool {
	return r.Hierarchy && r.Client && r.Meeting && r.Escalation && r.Urgent
}

// Any reports whether at least one flag is resolved.
func (r ResolvedSet) Any() bool {
	return r.Hierarchy || r.Client || r.Meeting || r.Escalation || r.Urgent
}

// TierResult is a partial classification from one tier. A nil TierResult
// from a tier means it declined the email entirely.
type TierResult struct {
	Flags    domain.CategoryFlags
	Resolved ResolvedSet

	SuggestedLabel string
	Reasoning      string
	Confidence     float64
	TokensUsed     int

	// Complete marks a verbatim result that short-circuits the cascade.
	// Only the cache tier sets it.
	Complete bool
	Cached   *domain.ClassificationResult
}

// Strategy is one tier of the cascade.
type Strategy interface {
	Name() domain.ClassifyMethod
	Classify(ctx context.Context, in *Input) (*TierResult, error)
}

// Fingerprint derives a stable identity for near-duplicate emails from
// the sender domain, the normalized subject, and a prefix of the body.
// Bodies matching on the first 256 bytes are treated as the same message.
func Fingerprint(senderDomain, subject, body string) string {
	prefix := body
	if len(prefix) > 256 {
		prefix = prefix[:256]
	}
	bodyHash := sha256.Sum256([]byte(prefix))

	h := sha256.New()
	h.Write([]byte(strings.ToLower(senderDomain)))
	h.Write([]byte{0})
	h.Write([]byte(strings.ToLower(strings.TrimSpace(subject))))
	h.Write([]byte{0})
	h.Write(bodyHash[:])

	return hex.EncodeToString(h.Sum(nil))
}
