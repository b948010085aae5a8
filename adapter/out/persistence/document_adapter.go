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

// DocumentAdapter implements domain.DocumentRepository using PostgreSQL.
type DocumentAdapter struct {
	db *sqlx.DB
}

// NewDocumentAdapter creates a new DocumentAdapter.
func NewDocumentAdapter(db *sqlx.DB) *DocumentAdapter {
	return &DocumentAdapter{db: db}
}

// documentRow represents the database row for documents. The embedding
// column is never read back in full; similarity search happens in SQL.
type documentRow struct {
	ID             int64          `db:"id"`
	OwnerID        uuid.UUID      `db:"owner_id"`
	Filename       string         `db:"filename"`
	ContentText    string         `db:"content_text"`
	PageCount      int            `db:"page_count"`
	EmbeddingModel sql.NullString `db:"embedding_model"`
	CreatedAt      time.Time      `db:"created_at"`
}

func (r *documentRow) toEntity() *domain.Document {
	doc := &domain.Document{
		ID:          r.ID,
		OwnerID:     r.OwnerID,
		Filename:    r.Filename,
		ContentText: r.ContentText,
		PageCount:   r.PageCount,
		CreatedAt:   r.CreatedAt,
	}

	if r.EmbeddingModel.Valid {
		model := r.EmbeddingModel.String
		doc.EmbeddingModel = &model
	}

	return doc
}

const documentColumns = `id, owner_id, filename, content_text, page_count, embedding_model, created_at`

// GetByID retrieves a document. Returns nil when absent.
func (a *DocumentAdapter) GetByID(ctx context.Context, id int64) (*domain.Document, error) {
	var row documentRow
	query := `SELECT ` + documentColumns + ` FROM documents WHERE id = $1`

	if err := a.db.GetContext(ctx, &row, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get document: %w", err)
	}

	return row.toEntity(), nil
}

// ListByOwner retrieves the owner's documents, newest first, with the
// total count.
func (a *DocumentAdapter) ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*domain.Document, int, error) {
	var total int
	if err := a.db.GetContext(ctx, &total,
		`SELECT COUNT(*) FROM documents WHERE owner_id = $1`, ownerID); err != nil {
		return nil, 0, fmt.Errorf("failed to count documents: %w", err)
	}

	var rows []documentRow
	query := `SELECT ` + documentColumns + ` FROM documents
		WHERE owner_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`

	if err := a.db.SelectContext(ctx, &rows, query, ownerID, limit, offset); err != nil {
		return nil, 0, fmt.Errorf("failed to list documents: %w", err)
	}

	documents := make([]*domain.Document, len(rows))
	for i, row := range rows {
		documents[i] = row.toEntity()
	}

	return documents, total, nil
}

// Create inserts a document and sets its generated id.
func (a *DocumentAdapter) Create(ctx context.Context, doc *domain.Document) error {
	query := `
		INSERT INTO documents (owner_id, filename, content_text, page_count)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := a.db.QueryRowContext(ctx, query,
		doc.OwnerID, doc.Filename, doc.ContentText, doc.PageCount,
	).Scan(&doc.ID, &doc.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create document: %w", err)
	}

	return nil
}

// Delete removes a document.
func (a *DocumentAdapter) Delete(ctx context.Context, id int64) error {
	if _, err := a.db.ExecContext(ctx, `DELETE FROM documents WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return nil
}

// SetEmbedding stores the tagged vector for a document.
func (a *DocumentAdapter) SetEmbedding(ctx context.Context, id int64, vector []float32, model string) error {
	query := `UPDATE documents SET embedding = $1::vector, embedding_model = $2 WHERE id = $3`

	result, err := a.db.ExecContext(ctx, query, vectorLiteral(vector), model, id)
	if err != nil {
		return fmt.Errorf("failed to set document embedding: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("document not found: %d", id)
	}

	return nil
}
