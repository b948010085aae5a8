package rag

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ScopeKind selects which corpus a similarity search runs against.
type ScopeKind string

const (
	// ScopeEmails searches all of the owner's embedded emails.
	ScopeEmails ScopeKind = "emails"
	// ScopeEmailsWithoutLabel searches the owner's embedded emails that do
	// not carry a specific label. Used for label propagation.
	ScopeEmailsWithoutLabel ScopeKind = "emails_without_label"
	// ScopeDocuments searches the owner's embedded PDF documents.
	ScopeDocuments ScopeKind = "documents"
)

// Scope parameterizes the single search primitive.
type Scope struct {
	Kind           ScopeKind
	OwnerID        string
	ExcludeLabelID int64 // only for ScopeEmailsWithoutLabel
}

// Match is one similarity search hit, ordered by ascending cosine distance.
type Match struct {
	ID         int64
	Distance   float64
	Similarity float64
	Content    string
}

// VectorStore runs pgvector cosine similarity queries.
type VectorStore struct {
	db *pgxpool.Pool
}

func NewVectorStore(db *pgxpool.Pool) *VectorStore {
	return &VectorStore{db: db}
}

// Search finds the closest candidates to the query vector within the scope.
// Candidates are filtered to the query's embedding model tag and to
// cosine distance at most 1-threshold, so every hit has similarity at
// least the threshold.
func (s *VectorStore) Search(ctx context.Context, query []float32, model string, scope Scope, limit int, threshold float64) ([]*Match, error) {
	sql, args, err := buildSearchQuery(query, model, scope, limit, threshold)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to run similarity search: %w", err)
	}
	defer rows.Close()

	var matches []*Match
	for rows.Next() {
		var m Match
		if err := rows.Scan(&m.ID, &m.Distance, &m.Content); err != nil {
			return nil, fmt.Errorf("failed to scan similarity match: %w", err)
		}
		m.Similarity = 1.0 - m.Distance
		matches = append(matches, &m)
	}

	return matches, rows.Err()
}

// buildSearchQuery assembles the scope-specific SQL and its arguments.
// Every scope shares the same filter and ordering shape: model-tagged
// embeddings only, cosine distance at most 1-threshold, closest first.
func buildSearchQuery(query []float32, model string, scope Scope, limit int, threshold float64) (string, []any, error) {
	if len(query) == 0 {
		return "", nil, fmt.Errorf("empty query vector")
	}
	if model == "" {
		return "", nil, fmt.Errorf("embedding model tag is required")
	}
	if limit <= 0 {
		limit = 10
	}
	maxDistance := 1.0 - threshold

	args := []any{pgVector(query), scope.OwnerID, model, maxDistance, limit}

	switch scope.Kind {
	case ScopeEmails:
		return `
			SELECT e.id, em.embedding <=> $1 AS distance, e.subject || E'\n' || e.snippet AS content
			FROM email_meta em
			JOIN emails e ON e.id = em.email_id
			WHERE e.owner_id = $2
			  AND em.embedding IS NOT NULL
			  AND em.embedding_model = $3
			  AND em.embedding <=> $1 <= $4
			ORDER BY distance ASC
			LIMIT $5`, args, nil

	case ScopeEmailsWithoutLabel:
		args = append(args, scope.ExcludeLabelID)
		return `
			SELECT e.id, em.embedding <=> $1 AS distance, e.subject || E'\n' || e.snippet AS content
			FROM email_meta em
			JOIN emails e ON e.id = em.email_id
			WHERE e.owner_id = $2
			  AND em.embedding IS NOT NULL
			  AND em.embedding_model = $3
			  AND em.embedding <=> $1 <= $4
			  AND NOT EXISTS (
				SELECT 1 FROM email_labels el
				WHERE el.email_id = e.id AND el.label_id = $6
			  )
			ORDER BY distance ASC
			LIMIT $5`, args, nil

	case ScopeDocuments:
		return `
			SELECT d.id, d.embedding <=> $1 AS distance, d.filename || E'\n' || LEFT(d.content_text, 500) AS content
			FROM documents d
			WHERE d.owner_id = $2
			  AND d.embedding IS NOT NULL
			  AND d.embedding_model = $3
			  AND d.embedding <=> $1 <= $4
			ORDER BY distance ASC
			LIMIT $5`, args, nil

	default:
		return "", nil, fmt.Errorf("unknown search scope: %s", scope.Kind)
	}
}

// pgVector converts a float32 slice to the pgvector literal format.
func pgVector(v []float32) string {
	if len(v) == 0 {
		return "[0]"
	}

	buf := make([]byte, 0, len(v)*13+2)
	buf = append(buf, '[')

	for i, f := range v {
		if i > 0 {
			buf = append(buf, ',')
		}
		buf = strconv.AppendFloat(buf, float64(f), 'f', 6, 32)
	}

	buf = append(buf, ']')
	return string(buf)
}
