package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/mrinalFouzdar/BE-Email-Automation-sub001/core/domain"
)

// UsageAdapter implements domain.UsageRepository over the append-only
// classification_events table.
type UsageAdapter struct {
	db *sqlx.DB
}

// NewUsageAdapter creates a new UsageAdapter.
func NewUsageAdapter(db *sqlx.DB) *UsageAdapter {
	return &UsageAdapter{db: db}
}

// Record appends one classification event.
func (a *UsageAdapter) Record(ctx context.Context, event *domain.ClassificationEvent) error {
	query := `
		INSERT INTO classification_events (email_id, method_used, tokens_used, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	createdAt := event.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	err := a.db.QueryRowContext(ctx, query,
		event.EmailID, string(event.Method), event.TokensUsed, createdAt,
	).Scan(&event.ID)
	if err != nil {
		return fmt.Errorf("failed to record classification event: %w", err)
	}

	return nil
}

// CountByMethod returns per-method event counts since the given time.
func (a *UsageAdapter) CountByMethod(ctx context.Context, since time.Time) (map[domain.ClassifyMethod]int64, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT method_used, COUNT(*)
		FROM classification_events
		WHERE created_at >= $1
		GROUP BY method_used`, since)
	if err != nil {
		return nil, fmt.Errorf("failed to count events by method: %w", err)
	}
	defer rows.Close()

	counts := make(map[domain.ClassifyMethod]int64)
	for rows.Next() {
		var method string
		var n int64
		if err := rows.Scan(&method, &n); err != nil {
			return nil, fmt.Errorf("failed to scan event count: %w", err)
		}
		counts[domain.ClassifyMethod(method)] = n
	}

	return counts, rows.Err()
}

// SumTokens returns total LLM tokens consumed since the given time.
func (a *UsageAdapter) SumTokens(ctx context.Context, since time.Time) (int64, error) {
	var total int64
	query := `SELECT COALESCE(SUM(tokens_used), 0) FROM classification_events WHERE created_at >= $1`

	if err := a.db.GetContext(ctx, &total, query, since); err != nil {
		return 0, fmt.Errorf("failed to sum tokens: %w", err)
	}

	return total, nil
}
