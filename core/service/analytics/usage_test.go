package analytics

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/mrinalFouzdar/BE-Email-Automation-sub001/core/domain"
)

type fakeUsageRepo struct {
	counts map[domain.ClassifyMethod]int64
	tokens int64
}

func (f *fakeUsageRepo) Record(_ context.Context, _ *domain.ClassificationEvent) error {
	return nil
}

func (f *fakeUsageRepo) CountByMethod(_ context.Context, _ time.Time) (map[domain.ClassifyMethod]int64, error) {
	return f.counts, nil
}

func (f *fakeUsageRepo) SumTokens(_ context.Context, _ time.Time) (int64, error) {
	return f.tokens, nil
}

func TestGetUsageStatsEmptyWindow(t *testing.T) {
	svc := NewService(&fakeUsageRepo{counts: map[domain.ClassifyMethod]int64{}})

	stats, err := svc.GetUsageStats(context.Background(), 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats != nil {
		t.Errorf("stats = %+v, want nil for empty window", stats)
	}
}

func TestGetUsageStats(t *testing.T) {
	repo := &fakeUsageRepo{
		counts: map[domain.ClassifyMethod]int64{
			domain.MethodCache:  40,
			domain.MethodDomain: 25,
			domain.MethodRegex:  20,
			domain.MethodLLM:    15,
		},
		tokens: 6200,
	}
	svc := NewService(repo)

	stats, err := svc.GetUsageStats(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats == nil {
		t.Fatal("stats = nil, want aggregate")
	}

	if stats.Total != 100 {
		t.Errorf("total = %d, want 100", stats.Total)
	}

	var sum int64
	for _, n := range stats.ByMethod {
		sum += n
	}
	if sum != stats.Total {
		t.Errorf("by_method sums to %d, total is %d", sum, stats.Total)
	}

	if stats.LLMCalls != 15 || stats.LLMCallsAvoided != 85 {
		t.Errorf("llm calls/avoided = %d/%d, want 15/85", stats.LLMCalls, stats.LLMCallsAvoided)
	}
	if stats.TokensUsed != 6200 {
		t.Errorf("tokens = %d, want 6200", stats.TokensUsed)
	}

	wantSavings := 85 * CostPerLLMCall
	if math.Abs(stats.EstimatedSavingsUSD-wantSavings) > 1e-9 {
		t.Errorf("savings = %f, want %f", stats.EstimatedSavingsUSD, wantSavings)
	}
	if math.Abs(stats.SavingsPercent-85.0) > 1e-9 {
		t.Errorf("savings percent = %f, want 85", stats.SavingsPercent)
	}
}

func TestCalculateCostSavings(t *testing.T) {
	if got := CalculateCostSavings(0); got != 0 {
		t.Errorf("savings(0) = %f, want 0", got)
	}
	if got := CalculateCostSavings(1000); math.Abs(got-2.0) > 1e-9 {
		t.Errorf("savings(1000) = %f, want 2.0", got)
	}
}
