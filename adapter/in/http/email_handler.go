package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/mrinalFouzdar/BE-Email-Automation-sub001/core/domain"
	"github.com/mrinalFouzdar/BE-Email-Automation-sub001/core/service/classification"
	"github.com/mrinalFouzdar/BE-Email-Automation-sub001/core/service/ingest"
	"github.com/mrinalFouzdar/BE-Email-Automation-sub001/pkg/apperr"
	"github.com/mrinalFouzdar/BE-Email-Automation-sub001/pkg/response"
)

// EmailHandler serves ingested emails and on-demand classification.
type EmailHandler struct {
	emails     domain.EmailRepository
	meta       domain.EmailMetaRepository
	labels     domain.LabelRepository
	classifier *classification.Service
	ingest     *ingest.Service
}

func NewEmailHandler(
	emails domain.EmailRepository,
	meta domain.EmailMetaRepository,
	labels domain.LabelRepository,
	classifier *classification.Service,
	ingestSvc *ingest.Service,
) *EmailHandler {
	return &EmailHandler{
		emails:     emails,
		meta:       meta,
		labels:     labels,
		classifier: classifier,
		ingest:     ingestSvc,
	}
}

// Register registers email routes.
func (h *EmailHandler) Register(router fiber.Router) {
	emails := router.Group("/emails")

	emails.Get("/", h.List)
	emails.Get("/:id", h.Get)
	emails.Post("/:id/classify", h.Classify)
	emails.Post("/sync", h.Sync)
}

// List returns the caller's emails, newest first.
// GET /api/v1/emails
func (h *EmailHandler) List(c *fiber.Ctx) error {
	userID, err := GetUserID(c)
	if err != nil {
		return err
	}

	page := GetPaginationParams(c, 20)
	filter := &domain.EmailFilter{
		OwnerID:   userID,
		FromEmail: QueryString(c, "from"),
		Search:    QueryString(c, "search"),
		Limit:     page.Limit,
		Offset:    page.Offset,
	}

	emails, total, err := h.emails.List(c.Context(), filter)
	if err != nil {
		return err
	}

	return response.OK(c, NewListResponse(emails, total, page.Offset, page.Limit))
}

// emailDetail is the single-email response shape.
type emailDetail struct {
	Email  *domain.Email     `json:"email"`
	Meta   *domain.EmailMeta `json:"classification,omitempty"`
	Labels []*domain.Label   `json:"labels"`
}

// Get returns one email with its classification state and labels.
// GET /api/v1/emails/:id
func (h *EmailHandler) Get(c *fiber.Ctx) error {
	userID, err := GetUserID(c)
	if err != nil {
		return err
	}

	emailID, err := ParamInt64(c, "id")
	if err != nil {
		return err
	}

	email, err := h.emails.GetByID(c.Context(), emailID)
	if err != nil {
		return err
	}
	if email == nil || email.OwnerID != userID {
		return apperr.NotFound("email")
	}

	meta, err := h.meta.GetByEmailID(c.Context(), emailID)
	if err != nil {
		return err
	}

	attached, err := h.labels.ListForEmail(c.Context(), emailID)
	if err != nil {
		return err
	}
	if attached == nil {
		attached = []*domain.Label{}
	}

	return response.OK(c, emailDetail{Email: email, Meta: meta, Labels: attached})
}

// Classify runs a classification pass on one email. Re-running replaces
// the previous classification.
// POST /api/v1/emails/:id/classify
func (h *EmailHandler) Classify(c *fiber.Ctx) error {
	userID, err := GetUserID(c)
	if err != nil {
		return err
	}

	emailID, err := ParamInt64(c, "id")
	if err != nil {
		return err
	}

	email, err := h.emails.GetByID(c.Context(), emailID)
	if err != nil {
		return err
	}
	if email == nil || email.OwnerID != userID {
		return apperr.NotFound("email")
	}

	result, err := h.classifier.ClassifyEmailByID(c.Context(), emailID)
	if err != nil {
		return err
	}

	return response.OK(c, result)
}

type syncRequest struct {
	SinceHours int `json:"since_hours"`
	Max        int `json:"max"`
}

// Sync pulls new messages from the mail provider.
// POST /api/v1/emails/sync
func (h *EmailHandler) Sync(c *fiber.Ctx) error {
	userID, err := GetUserID(c)
	if err != nil {
		return err
	}

	if h.ingest == nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, "mail provider not configured")
	}

	var req syncRequest
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return apperr.BadRequest("invalid request body")
	}
	if req.SinceHours <= 0 {
		req.SinceHours = 24
	}
	if req.Max <= 0 {
		req.Max = 50
	}

	since := time.Now().Add(-time.Duration(req.SinceHours) * time.Hour)
	stored, err := h.ingest.FetchAndStore(c.Context(), userID, since, req.Max)
	if err != nil {
		return apperr.Upstream("mail provider", err)
	}

	return response.OK(c, fiber.Map{"stored": stored})
}
