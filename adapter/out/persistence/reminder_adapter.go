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

// ReminderAdapter implements domain.ReminderRepository using PostgreSQL.
type ReminderAdapter struct {
	db *sqlx.DB
}

// NewReminderAdapter creates a new ReminderAdapter.
func NewReminderAdapter(db *sqlx.DB) *ReminderAdapter {
	return &ReminderAdapter{db: db}
}

// reminderRow represents the database row for reminders.
type reminderRow struct {
	ID        int64          `db:"id"`
	OwnerID   uuid.UUID      `db:"owner_id"`
	EmailID   sql.NullInt64  `db:"email_id"`
	Title     string         `db:"title"`
	Message   sql.NullString `db:"message"`
	RemindAt  time.Time      `db:"remind_at"`
	Status    string         `db:"status"`
	CreatedAt time.Time      `db:"created_at"`
	UpdatedAt time.Time      `db:"updated_at"`
}

func (r *reminderRow) toEntity() *domain.Reminder {
	reminder := &domain.Reminder{
		ID:        r.ID,
		OwnerID:   r.OwnerID,
		Title:     r.Title,
		RemindAt:  r.RemindAt,
		Status:    domain.ReminderStatus(r.Status),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}

	if r.EmailID.Valid {
		emailID := r.EmailID.Int64
		reminder.EmailID = &emailID
	}
	if r.Message.Valid {
		message := r.Message.String
		reminder.Message = &message
	}

	return reminder
}

// GetByID retrieves a reminder. Returns nil when absent.
func (a *ReminderAdapter) GetByID(ctx context.Context, id int64) (*domain.Reminder, error) {
	var row reminderRow
	query := `SELECT * FROM reminders WHERE id = $1`

	if err := a.db.GetContext(ctx, &row, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get reminder: %w", err)
	}

	return row.toEntity(), nil
}

// ListByOwner retrieves the owner's reminders, soonest first, with the
// total count.
func (a *ReminderAdapter) ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*domain.Reminder, int, error) {
	var total int
	if err := a.db.GetContext(ctx, &total,
		`SELECT COUNT(*) FROM reminders WHERE owner_id = $1`, ownerID); err != nil {
		return nil, 0, fmt.Errorf("failed to count reminders: %w", err)
	}

	var rows []reminderRow
	query := `SELECT * FROM reminders WHERE owner_id = $1
		ORDER BY remind_at ASC LIMIT $2 OFFSET $3`

	if err := a.db.SelectContext(ctx, &rows, query, ownerID, limit, offset); err != nil {
		return nil, 0, fmt.Errorf("failed to list reminders: %w", err)
	}

	reminders := make([]*domain.Reminder, len(rows))
	for i, row := range rows {
		reminders[i] = row.toEntity()
	}

	return reminders, total, nil
}

// Create inserts a reminder and sets its generated id.
func (a *ReminderAdapter) Create(ctx context.Context, reminder *domain.Reminder) error {
	query := `
		INSERT INTO reminders (owner_id, email_id, title, message, remind_at, status)
		VALUES ($1, $2, $3, $4, $5, 'pending')
		RETURNING id, created_at, updated_at`

	err := a.db.QueryRowContext(ctx, query,
		reminder.OwnerID, reminder.EmailID, reminder.Title, reminder.Message, reminder.RemindAt,
	).Scan(&reminder.ID, &reminder.CreatedAt, &reminder.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create reminder: %w", err)
	}

	reminder.Status = domain.ReminderPending
	return nil
}

// Update modifies a reminder's content and schedule.
func (a *ReminderAdapter) Update(ctx context.Context, reminder *domain.Reminder) error {
	query := `UPDATE reminders SET title = $1, message = $2, remind_at = $3, updated_at = NOW()
		WHERE id = $4`

	if _, err := a.db.ExecContext(ctx, query,
		reminder.Title, reminder.Message, reminder.RemindAt, reminder.ID); err != nil {
		return fmt.Errorf("failed to update reminder: %w", err)
	}

	return nil
}

// Delete removes a reminder.
func (a *ReminderAdapter) Delete(ctx context.Context, id int64) error {
	if _, err := a.db.ExecContext(ctx, `DELETE FROM reminders WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete reminder: %w", err)
	}
	return nil
}

// GetDue returns pending reminders whose remind_at has passed.
func (a *ReminderAdapter) GetDue(ctx context.Context, until time.Time, limit int) ([]*domain.Reminder, error) {
	if limit <= 0 {
		limit = 50
	}

	var rows []reminderRow
	query := `SELECT * FROM reminders
		WHERE status = 'pending' AND remind_at <= $1
		ORDER BY remind_at ASC LIMIT $2`

	if err := a.db.SelectContext(ctx, &rows, query, until, limit); err != nil {
		return nil, fmt.Errorf("failed to list due reminders: %w", err)
	}

	reminders := make([]*domain.Reminder, len(rows))
	for i, row := range rows {
		reminders[i] = row.toEntity()
	}

	return reminders, nil
}

// MarkSent moves a pending reminder to sent.
func (a *ReminderAdapter) MarkSent(ctx context.Context, id int64) error {
	query := `UPDATE reminders SET status = 'sent', updated_at = NOW()
		WHERE id = $1 AND status = 'pending'`

	result, err := a.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to mark reminder sent: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("reminder %d is not pending", id)
	}

	return nil
}

// Cancel moves a pending reminder to cancelled.
func (a *ReminderAdapter) Cancel(ctx context.Context, id int64) error {
	query := `UPDATE reminders SET status = 'cancelled', updated_at = NOW()
		WHERE id = $1 AND status = 'pending'`

	result, err := a.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to cancel reminder: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("reminder %d is not pending", id)
	}

	return nil
}
