package classification

import (
	"context"
	"regexp"

	"github.com/mrinalFouzdar/BE-Email-Automation-sub001/core/domain"
)

// Keyword patterns per category. Matching runs over subject and body.
var (
	hierarchyPatterns = compileAll(
		`(?i)\b(ceo|cfo|cto|coo|vp|vice president|director|board of directors)\b`,
		`(?i)\b(executive (team|committee)|leadership team|senior management)\b`,
		`(?i)\b(per (the )?(ceo|board|leadership)|directive from)\b`,
	)
	clientPatterns = compileAll(
		`(?i)\b(contract|proposal|invoice|statement of work|sow)\b`,
		`(?i)\b(deliverable|purchase order|quotation|renewal)\b`,
		`(?i)\b(our (engagement|account)|your (account|order))\b`,
	)
	meetingPatterns = compileAll(
		`(?i)\b(meeting|call|sync|standup|stand-up|1:1|one-on-one)\b`,
		`(?i)\b(schedule|reschedule|calendar invite|invite you to)\b`,
		`(?i)\b(agenda|zoom|google meet|teams meeting|conference room)\b`,
	)
	escalationPatterns = compileAll(
		`(?i)\b(escalat(e|ing|ion)|complaint|unacceptable|dissatisfied)\b`,
		`(?i)\b(still (broken|waiting|unresolved)|no (response|update) (yet|in))\b`,
		`(?i)\b(raise this (with|to)|loop in (your )?manager|formal complaint)\b`,
	)
	urgentPatterns = compileAll(
		`(?i)\b(urgent|asap|immediately|right away|time.sensitive)\b`,
		`(?i)\b(by (end of day|eod|cob|tomorrow)|deadline (is|today))\b`,
		`(?i)\b(outage|down|production issue|sev[- ]?[12]|critical)\b`,
	)
)

func compileAll(patterns ...string) []*regexp.Regexp {
	res := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		res = append(res, regexp.MustCompile(p))
	}
	return res
}

// RegexClassifier scores keyword matches per category. It resolves all
// five flags when the total match count reaches MinMatches, and declines
// otherwise. The raw accumulator stays available either way so the
// cascade can degrade to it when the LLM tier fails.
type RegexClassifier struct {
	minMatches int
}

func NewRegexClassifier(minMatches int) *RegexClassifier {
	if minMatches <= 0 {
		minMatches = 2
	}
	return &RegexClassifier{minMatches: minMatches}
}

func (c *RegexClassifier) Name() domain.ClassifyMethod {
	return domain.MethodRegex
}

func (c *RegexClassifier) Classify(ctx context.Context, in *Input) (*TierResult, error) {
	res, total := c.Accumulate(in)
	if total < c.minMatches {
		return nil, nil
	}
	return res, nil
}

// Accumulate always scores the email, regardless of the decline
// threshold. Returns the per-flag result and the total match count.
func (c *RegexClassifier) Accumulate(in *Input) (*TierResult, int) {
	text := in.Subject + "\n" + in.Body

	counts := map[string]int{
		"hierarchy":  countMatches(hierarchyPatterns, text),
		"client":     countMatches(clientPatterns, text),
		"meeting":    countMatches(meetingPatterns, text),
		"escalation": countMatches(escalationPatterns, text),
		"urgent":     countMatches(urgentPatterns, text),
	}

	total := 0
	for _, n := range counts {
		total += n
	}

	res := &TierResult{
		Flags: domain.CategoryFlags{
			IsHierarchy:  counts["hierarchy"] > 0,
			IsClient:     counts["client"] > 0,
			IsMeeting:    counts["meeting"] > 0,
			IsEscalation: counts["escalation"] > 0,
			IsUrgent:     counts["urgent"] > 0,
		},
		Resolved: ResolvedSet{
			Hierarchy:  true,
			Client:     true,
			Meeting:    true,
			Escalation: true,
			Urgent:     true,
		},
		Confidence: regexConfidence(total),
		Reasoning:  "Keyword patterns matched in the subject or body.",
	}

	return res, total
}

func countMatches(patterns []*regexp.Regexp, text string) int {
	n := 0
	for _, p := range patterns {
		n += len(p.FindAllStringIndex(text, -1))
	}
	return n
}

// regexConfidence grows with match count but never reaches LLM-grade
// certainty.
func regexConfidence(total int) float64 {
	conf := 0.5 + float64(total)*0.05
	if conf > 0.8 {
		conf = 0.8
	}
	return conf
}
