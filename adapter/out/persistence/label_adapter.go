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

// LabelAdapter implements domain.LabelRepository using PostgreSQL.
type LabelAdapter struct {
	db *sqlx.DB
}

// NewLabelAdapter creates a new LabelAdapter.
func NewLabelAdapter(db *sqlx.DB) *LabelAdapter {
	return &LabelAdapter{db: db}
}

// labelRow represents the database row for labels.
type labelRow struct {
	ID         int64          `db:"id"`
	OwnerID    uuid.UUID      `db:"owner_id"`
	Name       string         `db:"name"`
	Color      sql.NullString `db:"color"`
	IsSystem   bool           `db:"is_system"`
	EmailCount int            `db:"email_count"`
	CreatedAt  time.Time      `db:"created_at"`
	UpdatedAt  time.Time      `db:"updated_at"`
}

func (r *labelRow) toEntity() *domain.Label {
	label := &domain.Label{
		ID:         r.ID,
		OwnerID:    r.OwnerID,
		Name:       r.Name,
		IsSystem:   r.IsSystem,
		EmailCount: r.EmailCount,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}

	if r.Color.Valid {
		color := r.Color.String
		label.Color = &color
	}

	return label
}

// GetByID retrieves a label. Returns nil when absent.
func (a *LabelAdapter) GetByID(ctx context.Context, id int64) (*domain.Label, error) {
	var row labelRow
	query := `SELECT * FROM labels WHERE id = $1`

	if err := a.db.GetContext(ctx, &row, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get label: %w", err)
	}

	return row.toEntity(), nil
}

// GetByName retrieves the owner's label with the given name,
// case-insensitively. Returns nil when absent.
func (a *LabelAdapter) GetByName(ctx context.Context, ownerID uuid.UUID, name string) (*domain.Label, error) {
	var row labelRow
	query := `SELECT * FROM labels WHERE owner_id = $1 AND LOWER(name) = LOWER($2)`

	if err := a.db.GetContext(ctx, &row, query, ownerID, name); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get label by name: %w", err)
	}

	return row.toEntity(), nil
}

// ListByOwner retrieves all of the owner's labels, system labels first.
func (a *LabelAdapter) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Label, error) {
	var rows []labelRow
	query := `SELECT * FROM labels WHERE owner_id = $1 ORDER BY is_system DESC, name ASC`

	if err := a.db.SelectContext(ctx, &rows, query, ownerID); err != nil {
		return nil, fmt.Errorf("failed to list labels: %w", err)
	}

	labels := make([]*domain.Label, len(rows))
	for i, row := range rows {
		labels[i] = row.toEntity()
	}

	return labels, nil
}

// Create inserts a label and sets its generated id.
func (a *LabelAdapter) Create(ctx context.Context, label *domain.Label) error {
	query := `
		INSERT INTO labels (owner_id, name, color, is_system)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`

	err := a.db.QueryRowContext(ctx, query,
		label.OwnerID, label.Name, label.Color, label.IsSystem,
	).Scan(&label.ID, &label.CreatedAt, &label.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create label: %w", err)
	}

	return nil
}

// Update modifies a label's name and color.
func (a *LabelAdapter) Update(ctx context.Context, label *domain.Label) error {
	query := `UPDATE labels SET name = $1, color = $2, updated_at = NOW() WHERE id = $3`

	if _, err := a.db.ExecContext(ctx, query, label.Name, label.Color, label.ID); err != nil {
		return fmt.Errorf("failed to update label: %w", err)
	}

	return nil
}

// Delete removes a label and its email assignments.
func (a *LabelAdapter) Delete(ctx context.Context, id int64) error {
	tx, err := a.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM email_labels WHERE label_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete label assignments: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM labels WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete label: %w", err)
	}

	return tx.Commit()
}

// GetOrCreate returns the owner's label with the given name, creating it
// when absent. Concurrent callers converge on the same row.
func (a *LabelAdapter) GetOrCreate(ctx context.Context, ownerID uuid.UUID, name string) (*domain.Label, error) {
	var row labelRow
	query := `
		INSERT INTO labels (owner_id, name)
		VALUES ($1, $2)
		ON CONFLICT (owner_id, name) DO UPDATE SET updated_at = labels.updated_at
		RETURNING *`

	if err := a.db.GetContext(ctx, &row, query, ownerID, name); err != nil {
		return nil, fmt.Errorf("failed to get or create label: %w", err)
	}

	return row.toEntity(), nil
}

// Attach assigns a label to an email. Re-attaching an existing pair is a
// no-op; email_count moves only on a real insert.
func (a *LabelAdapter) Attach(ctx context.Context, assignment *domain.EmailLabel) error {
	tx, err := a.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO email_labels (email_id, label_id, assigned_by, confidence)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (email_id, label_id) DO NOTHING`

	result, err := tx.ExecContext(ctx, query,
		assignment.EmailID, assignment.LabelID, string(assignment.AssignedBy), assignment.Confidence)
	if err != nil {
		return fmt.Errorf("failed to attach label: %w", err)
	}

	if n, _ := result.RowsAffected(); n == 1 {
		_, err = tx.ExecContext(ctx,
			`UPDATE labels SET email_count = email_count + 1, updated_at = NOW() WHERE id = $1`,
			assignment.LabelID)
		if err != nil {
			return fmt.Errorf("failed to bump label count: %w", err)
		}
	}

	return tx.Commit()
}

// Detach removes a label assignment.
func (a *LabelAdapter) Detach(ctx context.Context, emailID, labelID int64) error {
	tx, err := a.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`DELETE FROM email_labels WHERE email_id = $1 AND label_id = $2`, emailID, labelID)
	if err != nil {
		return fmt.Errorf("failed to detach label: %w", err)
	}

	if n, _ := result.RowsAffected(); n == 1 {
		_, err = tx.ExecContext(ctx,
			`UPDATE labels SET email_count = GREATEST(email_count - 1, 0), updated_at = NOW() WHERE id = $1`,
			labelID)
		if err != nil {
			return fmt.Errorf("failed to lower label count: %w", err)
		}
	}

	return tx.Commit()
}

// ListForEmail retrieves every label attached to an email.
func (a *LabelAdapter) ListForEmail(ctx context.Context, emailID int64) ([]*domain.Label, error) {
	var rows []labelRow
	query := `
		SELECT l.* FROM labels l
		JOIN email_labels el ON el.label_id = l.id
		WHERE el.email_id = $1
		ORDER BY l.name ASC`

	if err := a.db.SelectContext(ctx, &rows, query, emailID); err != nil {
		return nil, fmt.Errorf("failed to list labels for email: %w", err)
	}

	labels := make([]*domain.Label, len(rows))
	for i, row := range rows {
		labels[i] = row.toEntity()
	}

	return labels, nil
}

// EmailHasLabel reports whether the pair exists.
func (a *LabelAdapter) EmailHasLabel(ctx context.Context, emailID, labelID int64) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM email_labels WHERE email_id = $1 AND label_id = $2)`

	if err := a.db.GetContext(ctx, &exists, query, emailID, labelID); err != nil {
		return false, fmt.Errorf("failed to check email label: %w", err)
	}

	return exists, nil
}

// EmailHasLabelNamed reports whether the email carries a label with the
// given name, regardless of who assigned it.
func (a *LabelAdapter) EmailHasLabelNamed(ctx context.Context, emailID int64, name string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (
		SELECT 1 FROM email_labels el
		JOIN labels l ON l.id = el.label_id
		WHERE el.email_id = $1 AND LOWER(l.name) = LOWER($2))`

	if err := a.db.GetContext(ctx, &exists, query, emailID, name); err != nil {
		return false, fmt.Errorf("failed to check email label by name: %w", err)
	}

	return exists, nil
}
