package llm

import (
	"context"
	"fmt"
)

const answerSystemPrompt = `You are an assistant answering questions about the user's email and documents.
Use only the provided context. If the context does not contain the answer, say so.
Keep answers concise and cite which context item supports each claim.`

// Answer generates a grounded answer to a question given retrieved context.
func (c *Client) Answer(ctx context.Context, question, contextText string) (*Completion, error) {
	userPrompt := fmt.Sprintf("Context:\n%s\n\nQuestion: %s", contextText, question)
	return c.CompleteWithSystem(ctx, answerSystemPrompt, userPrompt)
}
