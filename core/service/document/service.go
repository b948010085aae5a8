// Package document stores extracted PDF text and serves similarity
// search over it. Text extraction happens upstream.
package document

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/mrinalFouzdar/BE-Email-Automation-sub001/core/agent/rag"
	"github.com/mrinalFouzdar/BE-Email-Automation-sub001/core/domain"
	"github.com/mrinalFouzdar/BE-Email-Automation-sub001/pkg/apperr"
	"github.com/mrinalFouzdar/BE-Email-Automation-sub001/pkg/logger"
)

const embedMaxChars = 8000

type Service struct {
	documents domain.DocumentRepository
	embedder  *rag.Embedder
	store     *rag.VectorStore

	searchLimit     int
	searchThreshold float64
}

func NewService(documents domain.DocumentRepository, embedder *rag.Embedder, store *rag.VectorStore) *Service {
	return &Service{
		documents:       documents,
		embedder:        embedder,
		store:           store,
		searchLimit:     5,
		searchThreshold: 0.3,
	}
}

type CreateInput struct {
	Filename    string
	ContentText string
	PageCount   int
}

// Create stores the document and, when embeddings are enabled, its
// tagged vector. Embedding failure does not fail the upload.
func (s *Service) Create(ctx context.Context, ownerID uuid.UUID, in CreateInput) (*domain.Document, error) {
	in.Filename = strings.TrimSpace(in.Filename)
	if in.Filename == "" {
		return nil, apperr.ValidationFailed("filename is required")
	}
	if strings.TrimSpace(in.ContentText) == "" {
		return nil, apperr.ValidationFailed("content text is required")
	}

	doc := &domain.Document{
		OwnerID:     ownerID,
		Filename:    in.Filename,
		ContentText: in.ContentText,
		PageCount:   in.PageCount,
	}
	if err := s.documents.Create(ctx, doc); err != nil {
		return nil, err
	}

	if s.embedder != nil && s.embedder.Enabled() {
		text := s.embedder.PrepareText(in.Filename, in.ContentText, embedMaxChars)
		emb, err := s.embedder.Embed(ctx, text)
		switch {
		case err != nil:
			logger.WithError(err).WithField("document_id", doc.ID).
				Warn("failed to embed document")
		case emb != nil:
			if err := s.documents.SetEmbedding(ctx, doc.ID, emb.Vector, emb.Model); err != nil {
				logger.WithError(err).WithField("document_id", doc.ID).
					Warn("failed to store document embedding")
			} else {
				model := emb.Model
				doc.EmbeddingModel = &model
			}
		}
	}

	return doc, nil
}

func (s *Service) List(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*domain.Document, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.documents.ListByOwner(ctx, ownerID, limit, offset)
}

func (s *Service) Delete(ctx context.Context, ownerID uuid.UUID, id int64) error {
	doc, err := s.documents.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if doc == nil || doc.OwnerID != ownerID {
		return apperr.NotFound("document")
	}
	return s.documents.Delete(ctx, id)
}

// FindSimilar searches the owner's documents by free-text query.
func (s *Service) FindSimilar(ctx context.Context, ownerID uuid.UUID, query string) ([]*rag.Match, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperr.ValidationFailed("query is required")
	}
	if s.embedder == nil || !s.embedder.Enabled() {
		return nil, apperr.ValidationFailed("similarity search requires embeddings to be enabled")
	}

	emb, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, apperr.Upstream("embeddings", err)
	}
	if emb == nil {
		return nil, nil
	}

	return s.store.Search(ctx, emb.Vector, emb.Model, rag.Scope{
		Kind:    rag.ScopeDocuments,
		OwnerID: ownerID.String(),
	}, s.searchLimit, s.searchThreshold)
}
