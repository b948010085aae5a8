package domain

// ClassifyMethod records which cascade tier produced a classification.
type ClassifyMethod string

const (
	MethodCache  ClassifyMethod = "cache"
	MethodDomain ClassifyMethod = "domain"
	MethodRegex  ClassifyMethod = "regex"
	MethodLLM    ClassifyMethod = "llm"
)

// CategoryFlags are the five boolean signals assigned to every email.
type CategoryFlags struct {
	IsHierarchy  bool `json:"is_hierarchy"`
	IsClient     bool `json:"is_client"`
	IsMeeting    bool `json:"is_meeting"`
	IsEscalation bool `json:"is_escalation"`
	IsUrgent     bool `json:"is_urgent"`
}

// Any reports whether at least one flag is set.
func (f CategoryFlags) Any() bool {
	return f.IsHierarchy || f.IsClient || f.IsMeeting || f.IsEscalation || f.IsUrgent
}

// ClassificationResult is the final outcome of the classification cascade.
type ClassificationResult struct {
	CategoryFlags

	SuggestedLabel string         `json:"suggested_label,omitempty"`
	Reasoning      string         `json:"reasoning,omitempty"`
	Method         ClassifyMethod `json:"method_used"`
	Confidence     float64        `json:"confidence"`
	TokensUsed     int            `json:"tokens_used,omitempty"`
}
