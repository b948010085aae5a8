package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
)

// FlagClassification is the strict JSON schema the model must return.
type FlagClassification struct {
	IsHierarchy    bool    `json:"is_hierarchy"`
	IsClient       bool    `json:"is_client"`
	IsMeeting      bool    `json:"is_meeting"`
	IsEscalation   bool    `json:"is_escalation"`
	IsUrgent       bool    `json:"is_urgent"`
	SuggestedLabel string  `json:"suggested_label"`
	Reasoning      string  `json:"reasoning"`
	Confidence     float64 `json:"confidence"`

	TokensUsed int `json:"-"`
}

const classifySystemPrompt = `You are an email classification AI for a corporate inbox. Analyze the email and respond with JSON only.

Categories (each is an independent boolean):
- is_hierarchy: sender is organizational leadership (executives, directors, management chain) or the email concerns a directive from leadership
- is_client: sender is an external client or the email concerns client business (contracts, deliverables, proposals, invoices)
- is_meeting: the email schedules, reschedules, cancels, or follows up on a meeting or call
- is_escalation: the email escalates a problem (complaints, blockers raised to management, dissatisfaction, demands for resolution)
- is_urgent: the email requires action within roughly one business day (deadlines, outages, explicit urgency)

Also propose a short label name (2-4 words, title case) the user could file this email under, and explain your decision in one or two sentences.

Respond with this exact JSON format and nothing else:
{
  "is_hierarchy": true|false,
  "is_client": true|false,
  "is_meeting": true|false,
  "is_escalation": true|false,
  "is_urgent": true|false,
  "suggested_label": "label name or empty string",
  "reasoning": "brief explanation",
  "confidence": 0.0-1.0
}`

// ClassifyFlags asks the model for the five boolean category flags.
// The response must parse as the strict schema; anything else is an error
// the caller degrades from.
func (c *Client) ClassifyFlags(ctx context.Context, from, subject, body string) (*FlagClassification, error) {
	userPrompt := fmt.Sprintf("From: %s\nSubject: %s\n\nBody:\n%s", from, subject, truncateBody(body, 3000))

	resp, err := c.CompleteWithSystem(ctx, classifySystemPrompt, userPrompt)
	if err != nil {
		return nil, err
	}

	result, err := parseFlagClassification(resp.Content)
	if err != nil {
		return nil, err
	}

	result.TokensUsed = resp.TokensUsed
	return result, nil
}

// parseFlagClassification validates the model output against the strict
// schema, tolerating markdown code fences around the JSON.
func parseFlagClassification(content string) (*FlagClassification, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	var result FlagClassification
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		return nil, fmt.Errorf("failed to parse classification response: %w", err)
	}

	if result.Confidence < 0 || result.Confidence > 1 {
		return nil, fmt.Errorf("classification confidence out of range: %f", result.Confidence)
	}

	return &result, nil
}
