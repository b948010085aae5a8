package domain

import (
	"context"
	"time"
)

// ClassificationEvent is one recorded classification outcome. Events are
// append-only so that usage analytics see every pass, including cache hits
// on re-classification.
type ClassificationEvent struct {
	ID         int64          `json:"id"`
	EmailID    int64          `json:"email_id"`
	Method     ClassifyMethod `json:"method_used"`
	TokensUsed int            `json:"tokens_used"`
	CreatedAt  time.Time      `json:"created_at"`
}

type UsageRepository interface {
	Record(ctx context.Context, event *ClassificationEvent) error

	// CountByMethod returns per-method classification counts since the
	// given time. Methods with zero events are absent from the map.
	CountByMethod(ctx context.Context, since time.Time) (map[ClassifyMethod]int64, error)

	// SumTokens returns total LLM tokens consumed since the given time.
	SumTokens(ctx context.Context, since time.Time) (int64, error)
}
