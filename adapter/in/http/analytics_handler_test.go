package http

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/mrinalFouzdar/BE-Email-Automation-sub001/core/domain"
	"github.com/mrinalFouzdar/BE-Email-Automation-sub001/core/service/analytics"
	"github.com/mrinalFouzdar/BE-Email-Automation-sub001/infra/middleware"
)

type stubUsageRepo struct {
	counts map[domain.ClassifyMethod]int64
}

func (f *stubUsageRepo) Record(_ context.Context, _ *domain.ClassificationEvent) error {
	return nil
}

func (f *stubUsageRepo) CountByMethod(_ context.Context, _ time.Time) (map[domain.ClassifyMethod]int64, error) {
	return f.counts, nil
}

func (f *stubUsageRepo) SumTokens(_ context.Context, _ time.Time) (int64, error) {
	return 0, nil
}

func newAnalyticsTestApp() *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user_id", uuid.New())
		return c.Next()
	})

	svc := analytics.NewService(&stubUsageRepo{
		counts: map[domain.ClassifyMethod]int64{domain.MethodCache: 3},
	})
	NewAnalyticsHandler(svc).Register(app.Group("/api/v1"))
	return app
}

func TestUsageRejectsNonPositiveDays(t *testing.T) {
	app := newAnalyticsTestApp()

	for _, q := range []string{"days=0", "days=-3"} {
		t.Run(q, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/v1/analytics/usage?"+q, nil)
			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != fiber.StatusBadRequest {
				t.Errorf("status = %d, want 400", resp.StatusCode)
			}
		})
	}
}

func TestUsageAcceptsValidWindow(t *testing.T) {
	app := newAnalyticsTestApp()

	for _, path := range []string{
		"/api/v1/analytics/usage",
		"/api/v1/analytics/usage?days=30",
	} {
		req := httptest.NewRequest("GET", path, nil)
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		resp.Body.Close()

		if resp.StatusCode != fiber.StatusOK {
			t.Errorf("%s: status = %d, want 200", path, resp.StatusCode)
		}
	}
}
