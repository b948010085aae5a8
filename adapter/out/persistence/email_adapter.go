// Package persistence provides PostgreSQL adapters implementing the
// domain repositories.
package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/mrinalFouzdar/BE-Email-Automation-sub001/core/domain"
)

// EmailAdapter implements domain.EmailRepository using PostgreSQL.
type EmailAdapter struct {
	db *sqlx.DB
}

// NewEmailAdapter creates a new EmailAdapter.
func NewEmailAdapter(db *sqlx.DB) *EmailAdapter {
	return &EmailAdapter{db: db}
}

// emailRow represents the database row for emails.
type emailRow struct {
	ID         int64          `db:"id"`
	OwnerID    uuid.UUID      `db:"owner_id"`
	Provider   string         `db:"provider"`
	ProviderID string         `db:"provider_id"`
	ThreadID   sql.NullString `db:"thread_id"`
	Subject    string         `db:"subject"`
	FromEmail  string         `db:"from_email"`
	FromName   sql.NullString `db:"from_name"`
	ToEmails   pq.StringArray `db:"to_emails"`
	Snippet    string         `db:"snippet"`
	HasAttach  bool           `db:"has_attachments"`
	PDFCount   int            `db:"pdf_count"`
	ReceivedAt time.Time      `db:"received_at"`
	CreatedAt  time.Time      `db:"created_at"`
}

func (r *emailRow) toEntity() *domain.Email {
	email := &domain.Email{
		ID:         r.ID,
		OwnerID:    r.OwnerID,
		Provider:   domain.Provider(r.Provider),
		ProviderID: r.ProviderID,
		Subject:    r.Subject,
		FromEmail:  r.FromEmail,
		ToEmails:   r.ToEmails,
		Snippet:    r.Snippet,
		HasAttach:  r.HasAttach,
		PDFCount:   r.PDFCount,
		ReceivedAt: r.ReceivedAt,
		CreatedAt:  r.CreatedAt,
	}

	if r.ThreadID.Valid {
		email.ThreadID = r.ThreadID.String
	}
	if r.FromName.Valid {
		name := r.FromName.String
		email.FromName = &name
	}

	return email
}

// GetByID retrieves an email by its ID. Returns nil when absent.
func (a *EmailAdapter) GetByID(ctx context.Context, id int64) (*domain.Email, error) {
	var row emailRow
	query := `SELECT * FROM emails WHERE id = $1`

	if err := a.db.GetContext(ctx, &row, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get email: %w", err)
	}

	return row.toEntity(), nil
}

// GetByProviderID retrieves an email by its provider message id.
func (a *EmailAdapter) GetByProviderID(ctx context.Context, ownerID uuid.UUID, providerID string) (*domain.Email, error) {
	var row emailRow
	query := `SELECT * FROM emails WHERE owner_id = $1 AND provider_id = $2`

	if err := a.db.GetContext(ctx, &row, query, ownerID, providerID); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get email by provider id: %w", err)
	}

	return row.toEntity(), nil
}

// List retrieves emails matching the filter, newest first, with the
// total match count.
func (a *EmailAdapter) List(ctx context.Context, filter *domain.EmailFilter) ([]*domain.Email, int, error) {
	where := `WHERE owner_id = $1`
	args := []any{filter.OwnerID}

	if filter.FromEmail != nil {
		args = append(args, *filter.FromEmail)
		where += fmt.Sprintf(" AND from_email = $%d", len(args))
	}
	if filter.Search != nil {
		args = append(args, "%"+*filter.Search+"%")
		where += fmt.Sprintf(" AND (subject ILIKE $%d OR snippet ILIKE $%d)", len(args), len(args))
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM emails ` + where
	if err := a.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count emails: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	args = append(args, limit, offset)
	query := fmt.Sprintf(`SELECT * FROM emails %s ORDER BY received_at DESC LIMIT $%d OFFSET $%d`,
		where, len(args)-1, len(args))

	var rows []emailRow
	if err := a.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list emails: %w", err)
	}

	emails := make([]*domain.Email, len(rows))
	for i, row := range rows {
		emails[i] = row.toEntity()
	}

	return emails, total, nil
}

// Create inserts an email and sets its generated id.
func (a *EmailAdapter) Create(ctx context.Context, email *domain.Email) error {
	query := `
		INSERT INTO emails (owner_id, provider, provider_id, thread_id, subject,
			from_email, from_name, to_emails, snippet, has_attachments, pdf_count, received_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at`

	err := a.db.QueryRowContext(ctx, query,
		email.OwnerID, string(email.Provider), email.ProviderID, email.ThreadID,
		email.Subject, email.FromEmail, email.FromName, pq.Array(email.ToEmails),
		email.Snippet, email.HasAttach, email.PDFCount, email.ReceivedAt,
	).Scan(&email.ID, &email.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create email: %w", err)
	}

	return nil
}

// CreateBatch inserts multiple emails in one transaction.
func (a *EmailAdapter) CreateBatch(ctx context.Context, emails []*domain.Email) error {
	if len(emails) == 0 {
		return nil
	}

	tx, err := a.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO emails (owner_id, provider, provider_id, thread_id, subject,
			from_email, from_name, to_emails, snippet, has_attachments, pdf_count, received_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (owner_id, provider_id) DO NOTHING
		RETURNING id, created_at`

	for _, email := range emails {
		err := tx.QueryRowContext(ctx, query,
			email.OwnerID, string(email.Provider), email.ProviderID, email.ThreadID,
			email.Subject, email.FromEmail, email.FromName, pq.Array(email.ToEmails),
			email.Snippet, email.HasAttach, email.PDFCount, email.ReceivedAt,
		).Scan(&email.ID, &email.CreatedAt)
		if err == sql.ErrNoRows {
			// Duplicate provider id, already ingested.
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to insert email batch: %w", err)
		}
	}

	return tx.Commit()
}

// ListUnclassified returns emails without a classification row, oldest
// first.
func (a *EmailAdapter) ListUnclassified(ctx context.Context, limit int) ([]*domain.Email, error) {
	if limit <= 0 {
		limit = 50
	}

	var rows []emailRow
	query := `
		SELECT e.* FROM emails e
		LEFT JOIN email_meta em ON em.email_id = e.id
		WHERE em.id IS NULL
		ORDER BY e.received_at ASC
		LIMIT $1`

	if err := a.db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list unclassified emails: %w", err)
	}

	emails := make([]*domain.Email, len(rows))
	for i, row := range rows {
		emails[i] = row.toEntity()
	}

	return emails, nil
}
