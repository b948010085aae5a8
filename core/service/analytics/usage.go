// Package analytics reports classification volume and LLM cost savings.
package analytics

import (
	"context"
	"time"

	"github.com/mrinalFouzdar/BE-Email-Automation-sub001/core/domain"
)

// CostPerLLMCall is the fixed estimate used for savings math. Savings are
// an approximation; the point is the relative share of cheap tiers.
const CostPerLLMCall = 0.002

// UsageStats summarizes classification activity over a window.
type UsageStats struct {
	WindowDays int       `json:"window_days"`
	Since      time.Time `json:"since"`

	Total    int64                           `json:"total_classifications"`
	ByMethod map[domain.ClassifyMethod]int64 `json:"by_method"`

	TokensUsed int64 `json:"tokens_used"`

	LLMCalls        int64 `json:"llm_calls"`
	LLMCallsAvoided int64 `json:"llm_calls_avoided"`

	EstimatedCostUSD    float64 `json:"estimated_cost_usd"`
	EstimatedSavingsUSD float64 `json:"estimated_savings_usd"`
	SavingsPercent      float64 `json:"savings_percent"`
}

// Service computes usage statistics from the append-only event log.
type Service struct {
	usage domain.UsageRepository
}

func NewService(usage domain.UsageRepository) *Service {
	return &Service{usage: usage}
}

// GetUsageStats aggregates events over the trailing window. Returns nil
// when the window holds no events, which handlers render as an empty
// stats response.
func (s *Service) GetUsageStats(ctx context.Context, windowDays int) (*UsageStats, error) {
	if windowDays <= 0 {
		windowDays = 7
	}
	since := time.Now().UTC().AddDate(0, 0, -windowDays)

	byMethod, err := s.usage.CountByMethod(ctx, since)
	if err != nil {
		return nil, err
	}

	var total int64
	for _, n := range byMethod {
		total += n
	}
	if total == 0 {
		return nil, nil
	}

	tokens, err := s.usage.SumTokens(ctx, since)
	if err != nil {
		return nil, err
	}

	llmCalls := byMethod[domain.MethodLLM]
	avoided := total - llmCalls

	stats := &UsageStats{
		WindowDays:          windowDays,
		Since:               since,
		Total:               total,
		ByMethod:            byMethod,
		TokensUsed:          tokens,
		LLMCalls:            llmCalls,
		LLMCallsAvoided:     avoided,
		EstimatedCostUSD:    CalculateCost(llmCalls),
		EstimatedSavingsUSD: CalculateCostSavings(avoided),
	}
	if total > 0 {
		stats.SavingsPercent = float64(avoided) / float64(total) * 100
	}

	return stats, nil
}

// CalculateCost estimates the spend for the LLM calls made.
func CalculateCost(llmCalls int64) float64 {
	return float64(llmCalls) * CostPerLLMCall
}

// CalculateCostSavings estimates spend avoided by the cheaper tiers,
// assuming each avoided call would have cost the fixed per-call rate.
func CalculateCostSavings(avoidedCalls int64) float64 {
	return float64(avoidedCalls) * CostPerLLMCall
}
