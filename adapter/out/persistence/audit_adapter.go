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

// AuditAdapter implements domain.AuditRepository using PostgreSQL.
type AuditAdapter struct {
	db *sqlx.DB
}

// NewAuditAdapter creates a new AuditAdapter.
func NewAuditAdapter(db *sqlx.DB) *AuditAdapter {
	return &AuditAdapter{db: db}
}

// auditRow represents the database row for audit_entries.
type auditRow struct {
	ID         int64          `db:"id"`
	ActorID    uuid.UUID      `db:"actor_id"`
	ActorRole  string         `db:"actor_role"`
	OnBehalfOf uuid.UUID      `db:"on_behalf_of"`
	Action     string         `db:"action"`
	TargetType string         `db:"target_type"`
	TargetID   int64          `db:"target_id"`
	Note       sql.NullString `db:"note"`
	CreatedAt  time.Time      `db:"created_at"`
}

func (r *auditRow) toEntity() *domain.AuditEntry {
	entry := &domain.AuditEntry{
		ID:         r.ID,
		ActorID:    r.ActorID,
		ActorRole:  r.ActorRole,
		OnBehalfOf: r.OnBehalfOf,
		Action:     r.Action,
		TargetType: r.TargetType,
		TargetID:   r.TargetID,
		CreatedAt:  r.CreatedAt,
	}

	if r.Note.Valid {
		note := r.Note.String
		entry.Note = &note
	}

	return entry
}

// Create inserts an audit entry.
func (a *AuditAdapter) Create(ctx context.Context, entry *domain.AuditEntry) error {
	query := `
		INSERT INTO audit_entries (actor_id, actor_role, on_behalf_of, action,
			target_type, target_id, note)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	err := a.db.QueryRowContext(ctx, query,
		entry.ActorID, entry.ActorRole, entry.OnBehalfOf, entry.Action,
		entry.TargetType, entry.TargetID, entry.Note,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create audit entry: %w", err)
	}

	return nil
}

// ListByUser retrieves entries where the user acted or was acted for,
// newest first.
func (a *AuditAdapter) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.AuditEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	var rows []auditRow
	query := `SELECT * FROM audit_entries
		WHERE actor_id = $1 OR on_behalf_of = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`

	if err := a.db.SelectContext(ctx, &rows, query, userID, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}

	entries := make([]*domain.AuditEntry, len(rows))
	for i, row := range rows {
		entries[i] = row.toEntity()
	}

	return entries, nil
}
