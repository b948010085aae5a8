// Package llm wraps the OpenAI chat and embedding APIs behind a circuit
// breaker.
package llm

import (
	"context"

	"github.com/sony/gobreaker"

	"github.com/mrinalFouzdar/BE-Email-Automation-sub001/pkg/resilience"

	openai "github.com/sashabaranov/go-openai"
)

const DefaultModel = "gpt-4o-mini"

type Client struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float32
	breaker     *gobreaker.CircuitBreaker
}

type ClientConfig struct {
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float64
}

func NewClient(apiKey string) *Client {
	return NewClientWithConfig(ClientConfig{APIKey: apiKey})
}

func NewClientWithConfig(cfg ClientConfig) *Client {
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = 1024
	}
	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = 0.2
	}
	return &Client{
		client:      openai.NewClient(cfg.APIKey),
		model:       model,
		maxTokens:   maxTokens,
		temperature: float32(temperature),
		breaker:     resilience.NewBreaker(resilience.DefaultBreakerConfig("openai")),
	}
}

// Model returns the configured chat model identifier.
func (c *Client) Model() string {
	return c.model
}

// Completion holds a chat completion with its token accounting.
type Completion struct {
	Content      string
	TokensUsed   int
	PromptTokens int
}

// CompleteWithSystem sends a system+user prompt pair and returns the first
// choice with token usage.
func (c *Client) CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (*Completion, error) {
	var out *Completion
	err := resilience.Execute(c.breaker, func() error {
		resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:       c.model,
			MaxTokens:   c.maxTokens,
			Temperature: c.temperature,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
				{Role: openai.ChatMessageRoleUser, Content: userPrompt},
			},
		})
		if err != nil {
			return err
		}
		out = &Completion{
			TokensUsed:   resp.Usage.TotalTokens,
			PromptTokens: resp.Usage.PromptTokens,
		}
		if len(resp.Choices) > 0 {
			out.Content = resp.Choices[0].Message.Content
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Complete sends a single user prompt.
func (c *Client) Complete(ctx context.Context, prompt string) (*Completion, error) {
	var out *Completion
	err := resilience.Execute(c.breaker, func() error {
		resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:       c.model,
			MaxTokens:   c.maxTokens,
			Temperature: c.temperature,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleUser, Content: prompt},
			},
		})
		if err != nil {
			return err
		}
		out = &Completion{
			TokensUsed:   resp.Usage.TotalTokens,
			PromptTokens: resp.Usage.PromptTokens,
		}
		if len(resp.Choices) > 0 {
			out.Content = resp.Choices[0].Message.Content
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Embedding creates a single embedding with the hosted embedding model.
func (c *Client) Embedding(ctx context.Context, model, text string) ([]float32, error) {
	var vec []float32
	err := resilience.Execute(c.breaker, func() error {
		resp, err := c.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
			Model: openai.EmbeddingModel(model),
			Input: []string{text},
		})
		if err != nil {
			return err
		}
		if len(resp.Data) > 0 {
			vec = resp.Data[0].Embedding
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return vec, nil
}

func truncateBody(body string, maxLen int) string {
	if len(body) <= maxLen {
		return body
	}
	return body[:maxLen]
}
