package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/mrinalFouzdar/BE-Email-Automation-sub001/core/domain"
)

// SuggestionAdapter implements domain.SuggestionRepository using
// PostgreSQL.
type SuggestionAdapter struct {
	db *sqlx.DB
}

// NewSuggestionAdapter creates a new SuggestionAdapter.
func NewSuggestionAdapter(db *sqlx.DB) *SuggestionAdapter {
	return &SuggestionAdapter{db: db}
}

// suggestionRow represents the database row for pending_label_suggestions.
type suggestionRow struct {
	ID          int64          `db:"id"`
	EmailID     int64          `db:"email_id"`
	OwnerID     uuid.UUID      `db:"owner_id"`
	LabelName   string         `db:"label_name"`
	SuggestedBy string         `db:"suggested_by"`
	Confidence  float64        `db:"confidence"`
	Reasoning   sql.NullString `db:"reasoning"`
	Status      string         `db:"status"`
	ProcessedBy uuid.NullUUID  `db:"processed_by"`
	ProcessedAt sql.NullTime   `db:"processed_at"`
	CreatedAt   time.Time      `db:"created_at"`
}

func (r *suggestionRow) toEntity() *domain.PendingLabelSuggestion {
	s := &domain.PendingLabelSuggestion{
		ID:          r.ID,
		EmailID:     r.EmailID,
		OwnerID:     r.OwnerID,
		LabelName:   r.LabelName,
		SuggestedBy: domain.SuggestionOrigin(r.SuggestedBy),
		Confidence:  r.Confidence,
		Status:      domain.SuggestionStatus(r.Status),
		CreatedAt:   r.CreatedAt,
	}

	if r.Reasoning.Valid {
		reasoning := r.Reasoning.String
		s.Reasoning = &reasoning
	}
	if r.ProcessedBy.Valid {
		actor := r.ProcessedBy.UUID
		s.ProcessedBy = &actor
	}
	if r.ProcessedAt.Valid {
		at := r.ProcessedAt.Time
		s.ProcessedAt = &at
	}

	return s
}

// GetByID retrieves a suggestion. Returns nil when absent.
func (a *SuggestionAdapter) GetByID(ctx context.Context, id int64) (*domain.PendingLabelSuggestion, error) {
	var row suggestionRow
	query := `SELECT * FROM pending_label_suggestions WHERE id = $1`

	if err := a.db.GetContext(ctx, &row, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get suggestion: %w", err)
	}

	return row.toEntity(), nil
}

// Create inserts a pending suggestion and sets its generated id.
func (a *SuggestionAdapter) Create(ctx context.Context, s *domain.PendingLabelSuggestion) error {
	query := `
		INSERT INTO pending_label_suggestions (email_id, owner_id, label_name,
			suggested_by, confidence, reasoning, status)
		VALUES ($1, $2, $3, $4, $5, $6, 'pending')
		RETURNING id, created_at`

	err := a.db.QueryRowContext(ctx, query,
		s.EmailID, s.OwnerID, s.LabelName, string(s.SuggestedBy),
		s.Confidence, s.Reasoning,
	).Scan(&s.ID, &s.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create suggestion: %w", err)
	}

	s.Status = domain.SuggestionPending
	return nil
}

// ListPendingByOwner retrieves the owner's open suggestions, newest
// first, with the total pending count.
func (a *SuggestionAdapter) ListPendingByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*domain.PendingLabelSuggestion, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM pending_label_suggestions WHERE owner_id = $1 AND status = 'pending'`
	if err := a.db.GetContext(ctx, &total, countQuery, ownerID); err != nil {
		return nil, 0, fmt.Errorf("failed to count pending suggestions: %w", err)
	}

	var rows []suggestionRow
	query := `SELECT * FROM pending_label_suggestions
		WHERE owner_id = $1 AND status = 'pending'
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	if err := a.db.SelectContext(ctx, &rows, query, ownerID, limit, offset); err != nil {
		return nil, 0, fmt.Errorf("failed to list pending suggestions: %w", err)
	}

	suggestions := make([]*domain.PendingLabelSuggestion, len(rows))
	for i, row := range rows {
		suggestions[i] = row.toEntity()
	}

	return suggestions, total, nil
}

// HasPendingForEmail reports whether a pending suggestion with the same
// label name already exists for the email.
func (a *SuggestionAdapter) HasPendingForEmail(ctx context.Context, emailID int64, labelName string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (
		SELECT 1 FROM pending_label_suggestions
		WHERE email_id = $1 AND LOWER(label_name) = LOWER($2) AND status = 'pending')`

	if err := a.db.GetContext(ctx, &exists, query, emailID, labelName); err != nil {
		return false, fmt.Errorf("failed to check pending suggestions: %w", err)
	}

	return exists, nil
}

// MarkProcessed performs the atomic pending -> approved|rejected
// transition. The WHERE status='pending' clause is the arbiter under
// concurrency: zero affected rows means the suggestion already left the
// pending state.
func (a *SuggestionAdapter) MarkProcessed(ctx context.Context, id int64, status domain.SuggestionStatus, actorID uuid.UUID) (bool, error) {
	query := `UPDATE pending_label_suggestions
		SET status = $1, processed_by = $2, processed_at = NOW()
		WHERE id = $3 AND status = 'pending'`

	result, err := a.db.ExecContext(ctx, query, string(status), actorID, id)
	if err != nil {
		return false, fmt.Errorf("failed to mark suggestion processed: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}

	return affected == 1, nil
}

// Approve runs the pending -> approved transition, the label
// get-or-create, and the email attachment in a single transaction. Any
// failure past the transition rolls the whole approval back, so a
// suggestion is never left approved without its label.
func (a *SuggestionAdapter) Approve(ctx context.Context, s *domain.PendingLabelSuggestion, actorID uuid.UUID) (*domain.Label, bool, error) {
	tx, err := a.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		UPDATE pending_label_suggestions
		SET status = 'approved', processed_by = $1, processed_at = NOW()
		WHERE id = $2 AND status = 'pending'`, actorID, s.ID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to mark suggestion approved: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return nil, false, nil
	}

	var label labelRow
	err = tx.GetContext(ctx, &label, `
		INSERT INTO labels (owner_id, name)
		VALUES ($1, $2)
		ON CONFLICT (owner_id, name) DO UPDATE SET updated_at = labels.updated_at
		RETURNING *`, s.OwnerID, s.LabelName)
	if err != nil {
		return nil, false, fmt.Errorf("failed to get or create label: %w", err)
	}

	attach, err := tx.ExecContext(ctx, `
		INSERT INTO email_labels (email_id, label_id, assigned_by, confidence)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (email_id, label_id) DO NOTHING`,
		s.EmailID, label.ID, string(domain.AssignerAI), s.Confidence)
	if err != nil {
		return nil, false, fmt.Errorf("failed to attach label: %w", err)
	}
	if n, _ := attach.RowsAffected(); n == 1 {
		_, err = tx.ExecContext(ctx,
			`UPDATE labels SET email_count = email_count + 1, updated_at = NOW() WHERE id = $1`,
			label.ID)
		if err != nil {
			return nil, false, fmt.Errorf("failed to bump label count: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, false, fmt.Errorf("failed to commit approval: %w", err)
	}

	return label.toEntity(), true, nil
}
