// Package chat answers user questions grounded in their emails and
// documents.
package chat

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/mrinalFouzdar/BE-Email-Automation-sub001/core/agent/llm"
	"github.com/mrinalFouzdar/BE-Email-Automation-sub001/core/agent/rag"
	"github.com/mrinalFouzdar/BE-Email-Automation-sub001/pkg/apperr"
)

const maxQuestionLen = 2000

// Answer is a grounded chat response with the context items it used.
type Answer struct {
	Text       string        `json:"answer"`
	Sources    []*rag.Source `json:"sources"`
	TokensUsed int           `json:"tokens_used"`
}

// Service runs retrieval-augmented question answering.
type Service struct {
	retriever *rag.Retriever
	client    *llm.Client
}

func NewService(retriever *rag.Retriever, client *llm.Client) *Service {
	return &Service{retriever: retriever, client: client}
}

// Ask retrieves relevant context for the owner and asks the model. With
// embeddings disabled the model answers without retrieved context.
func (s *Service) Ask(ctx context.Context, ownerID uuid.UUID, question string) (*Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, apperr.ValidationFailed("question is required")
	}
	if len(question) > maxQuestionLen {
		return nil, apperr.ValidationFailed("question is too long")
	}

	contextText, sources, err := s.retriever.Retrieve(ctx, ownerID, question)
	if err != nil {
		return nil, err
	}
	if contextText == "" {
		contextText = "(no relevant emails or documents found)"
	}

	completion, err := s.client.Answer(ctx, question, contextText)
	if err != nil {
		return nil, apperr.Upstream("llm", err)
	}

	return &Answer{
		Text:       completion.Content,
		Sources:    sources,
		TokensUsed: completion.TokensUsed,
	}, nil
}
