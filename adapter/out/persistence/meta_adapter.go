package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/mrinalFouzdar/BE-Email-Automation-sub001/core/domain"
)

// MetaAdapter implements domain.EmailMetaRepository using PostgreSQL.
// Embeddings are stored in a pgvector column.
type MetaAdapter struct {
	db *sqlx.DB
}

// NewMetaAdapter creates a new MetaAdapter.
func NewMetaAdapter(db *sqlx.DB) *MetaAdapter {
	return &MetaAdapter{db: db}
}

// metaRow represents the database row for email_meta.
type metaRow struct {
	ID             int64          `db:"id"`
	EmailID        int64          `db:"email_id"`
	IsHierarchy    bool           `db:"is_hierarchy"`
	IsClient       bool           `db:"is_client"`
	IsMeeting      bool           `db:"is_meeting"`
	IsEscalation   bool           `db:"is_escalation"`
	IsUrgent       bool           `db:"is_urgent"`
	SuggestedLabel sql.NullString `db:"suggested_label"`
	Reasoning      sql.NullString `db:"reasoning"`
	Method         string         `db:"method_used"`
	Confidence     float64        `db:"confidence"`
	Classification []byte         `db:"classification"`
	Embedding      sql.NullString `db:"embedding"`
	EmbeddingModel sql.NullString `db:"embedding_model"`
	CreatedAt      time.Time      `db:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at"`
}

func (r *metaRow) toEntity() (*domain.EmailMeta, error) {
	meta := &domain.EmailMeta{
		ID:      r.ID,
		EmailID: r.EmailID,
		CategoryFlags: domain.CategoryFlags{
			IsHierarchy:  r.IsHierarchy,
			IsClient:     r.IsClient,
			IsMeeting:    r.IsMeeting,
			IsEscalation: r.IsEscalation,
			IsUrgent:     r.IsUrgent,
		},
		Method:         domain.ClassifyMethod(r.Method),
		Confidence:     r.Confidence,
		Classification: r.Classification,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}

	if r.SuggestedLabel.Valid {
		label := r.SuggestedLabel.String
		meta.SuggestedLabel = &label
	}
	if r.Reasoning.Valid {
		reasoning := r.Reasoning.String
		meta.Reasoning = &reasoning
	}
	if r.EmbeddingModel.Valid {
		model := r.EmbeddingModel.String
		meta.EmbeddingModel = &model
	}
	if r.Embedding.Valid {
		vector, err := parseVector(r.Embedding.String)
		if err != nil {
			return nil, fmt.Errorf("failed to parse stored embedding: %w", err)
		}
		meta.Embedding = vector
	}

	return meta, nil
}

// GetByEmailID retrieves the classification row for an email. Returns
// nil when the email has not been classified yet.
func (a *MetaAdapter) GetByEmailID(ctx context.Context, emailID int64) (*domain.EmailMeta, error) {
	var row metaRow
	query := `SELECT id, email_id, is_hierarchy, is_client, is_meeting, is_escalation,
		is_urgent, suggested_label, reasoning, method_used, confidence, classification,
		embedding::text AS embedding, embedding_model, created_at, updated_at
		FROM email_meta WHERE email_id = $1`

	if err := a.db.GetContext(ctx, &row, query, emailID); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get email meta: %w", err)
	}

	return row.toEntity()
}

// Upsert inserts or replaces the classification for an email. The
// email_id unique constraint arbitrates; re-classification updates the
// existing row in place. An absent embedding in the new result keeps the
// stored one.
func (a *MetaAdapter) Upsert(ctx context.Context, meta *domain.EmailMeta) error {
	query := `
		INSERT INTO email_meta (email_id, is_hierarchy, is_client, is_meeting,
			is_escalation, is_urgent, suggested_label, reasoning, method_used,
			confidence, classification, embedding, embedding_model)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12::vector, $13)
		ON CONFLICT (email_id) DO UPDATE SET
			is_hierarchy = EXCLUDED.is_hierarchy,
			is_client = EXCLUDED.is_client,
			is_meeting = EXCLUDED.is_meeting,
			is_escalation = EXCLUDED.is_escalation,
			is_urgent = EXCLUDED.is_urgent,
			suggested_label = EXCLUDED.suggested_label,
			reasoning = EXCLUDED.reasoning,
			method_used = EXCLUDED.method_used,
			confidence = EXCLUDED.confidence,
			classification = EXCLUDED.classification,
			embedding = COALESCE(EXCLUDED.embedding, email_meta.embedding),
			embedding_model = COALESCE(EXCLUDED.embedding_model, email_meta.embedding_model),
			updated_at = NOW()
		RETURNING id, created_at, updated_at`

	var embedding any
	if len(meta.Embedding) > 0 {
		embedding = vectorLiteral(meta.Embedding)
	}

	err := a.db.QueryRowContext(ctx, query,
		meta.EmailID, meta.IsHierarchy, meta.IsClient, meta.IsMeeting,
		meta.IsEscalation, meta.IsUrgent, meta.SuggestedLabel, meta.Reasoning,
		string(meta.Method), meta.Confidence, meta.Classification,
		embedding, meta.EmbeddingModel,
	).Scan(&meta.ID, &meta.CreatedAt, &meta.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert email meta: %w", err)
	}

	return nil
}

// SetEmbedding stores the tagged vector for an email.
func (a *MetaAdapter) SetEmbedding(ctx context.Context, emailID int64, vector []float32, model string) error {
	query := `UPDATE email_meta SET embedding = $1::vector, embedding_model = $2, updated_at = NOW()
		WHERE email_id = $3`

	result, err := a.db.ExecContext(ctx, query, vectorLiteral(vector), model, emailID)
	if err != nil {
		return fmt.Errorf("failed to set embedding: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("no classification row for email %d", emailID)
	}

	return nil
}

// vectorLiteral converts a float32 slice to the pgvector text format.
func vectorLiteral(v []float32) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, f := range v {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatFloat(float64(f), 'f', 6, 32))
	}
	b.WriteByte(']')
	return b.String()
}

// parseVector parses the pgvector text format back into a float32 slice.
func parseVector(s string) ([]float32, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "[")
	s = strings.TrimSuffix(s, "]")
	if s == "" {
		return nil, nil
	}

	parts := strings.Split(s, ",")
	vector := make([]float32, len(parts))
	for i, part := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(part), 32)
		if err != nil {
			return nil, err
		}
		vector[i] = float32(f)
	}

	return vector, nil
}
