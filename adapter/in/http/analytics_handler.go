package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mrinalFouzdar/BE-Email-Automation-sub001/core/service/analytics"
	"github.com/mrinalFouzdar/BE-Email-Automation-sub001/pkg/apperr"
	"github.com/mrinalFouzdar/BE-Email-Automation-sub001/pkg/response"
)

// AnalyticsHandler serves classification usage statistics.
type AnalyticsHandler struct {
	analytics *analytics.Service
}

func NewAnalyticsHandler(svc *analytics.Service) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: svc}
}

// Register registers analytics routes.
func (h *AnalyticsHandler) Register(router fiber.Router) {
	group := router.Group("/analytics")

	group.Get("/usage", h.Usage)
}

// Usage returns classification counts, token spend, and cost savings
// over a trailing window.
// GET /api/v1/analytics/usage?days=7
func (h *AnalyticsHandler) Usage(c *fiber.Ctx) error {
	if _, err := GetUserID(c); err != nil {
		return err
	}

	days := c.QueryInt("days", 7)
	if days < 1 {
		return apperr.ValidationFailed("days must be a positive integer")
	}

	stats, err := h.analytics.GetUsageStats(c.Context(), days)
	if err != nil {
		return err
	}
	if stats == nil {
		return response.OKWithMessage(c, fiber.Map{}, "no classification activity in window")
	}

	return response.OK(c, stats)
}
