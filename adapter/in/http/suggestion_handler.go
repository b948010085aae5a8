package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mrinalFouzdar/BE-Email-Automation-sub001/core/domain"
	"github.com/mrinalFouzdar/BE-Email-Automation-sub001/core/service/labels"
	"github.com/mrinalFouzdar/BE-Email-Automation-sub001/pkg/apperr"
	"github.com/mrinalFouzdar/BE-Email-Automation-sub001/pkg/response"
)

// SuggestionHandler serves the label suggestion review workflow.
type SuggestionHandler struct {
	suggestions *labels.SuggestionService
}

func NewSuggestionHandler(suggestions *labels.SuggestionService) *SuggestionHandler {
	return &SuggestionHandler{suggestions: suggestions}
}

// Register registers suggestion routes.
func (h *SuggestionHandler) Register(router fiber.Router) {
	suggestions := router.Group("/suggestions")

	suggestions.Get("/", h.ListPending)
	suggestions.Post("/", h.Create)
	suggestions.Post("/:id/approve", h.Approve)
	suggestions.Post("/:id/reject", h.Reject)
}

// ListPending returns the caller's open suggestions.
// GET /api/v1/suggestions
func (h *SuggestionHandler) ListPending(c *fiber.Ctx) error {
	userID, err := GetUserID(c)
	if err != nil {
		return err
	}

	page := GetPaginationParams(c, 20)
	items, total, err := h.suggestions.ListPending(c.Context(), userID, page.Limit, page.Offset)
	if err != nil {
		return err
	}

	return response.OK(c, NewListResponse(items, total, page.Offset, page.Limit))
}

type createSuggestionRequest struct {
	EmailID    int64   `json:"email_id"`
	LabelName  string  `json:"label_name"`
	Confidence float64 `json:"confidence"`
	Reasoning  *string `json:"reasoning,omitempty"`
}

// Create raises a suggestion by hand, subject to the same dedup rules
// as machine-raised ones.
// POST /api/v1/suggestions
func (h *SuggestionHandler) Create(c *fiber.Ctx) error {
	userID, err := GetUserID(c)
	if err != nil {
		return err
	}

	var req createSuggestionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.BadRequest("invalid request body")
	}
	if req.EmailID <= 0 {
		return apperr.ValidationFailed("email_id is required")
	}
	if req.Confidence == 0 {
		req.Confidence = 1.0
	}

	suggestion := &domain.PendingLabelSuggestion{
		EmailID:     req.EmailID,
		OwnerID:     userID,
		LabelName:   req.LabelName,
		SuggestedBy: domain.SuggestedBySystem,
		Confidence:  req.Confidence,
		Reasoning:   req.Reasoning,
	}
	if err := h.suggestions.Suggest(c.Context(), suggestion); err != nil {
		return err
	}

	return response.Created(c, suggestion)
}

// Approve accepts a suggestion, creating and attaching the label.
// POST /api/v1/suggestions/:id/approve
func (h *SuggestionHandler) Approve(c *fiber.Ctx) error {
	return h.process(c, labels.DecisionApprove)
}

// Reject declines a suggestion.
// POST /api/v1/suggestions/:id/reject
func (h *SuggestionHandler) Reject(c *fiber.Ctx) error {
	return h.process(c, labels.DecisionReject)
}

func (h *SuggestionHandler) process(c *fiber.Ctx, decision labels.Decision) error {
	actor, err := GetActor(c)
	if err != nil {
		return err
	}

	suggestionID, err := ParamInt64(c, "id")
	if err != nil {
		return err
	}

	suggestion, err := h.suggestions.Process(c.Context(), actor, suggestionID, decision)
	if err != nil {
		return err
	}

	return response.OK(c, suggestion)
}
