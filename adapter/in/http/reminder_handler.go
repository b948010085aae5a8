package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/mrinalFouzdar/BE-Email-Automation-sub001/core/service/reminder"
	"github.com/mrinalFouzdar/BE-Email-Automation-sub001/pkg/apperr"
	"github.com/mrinalFouzdar/BE-Email-Automation-sub001/pkg/response"
)

// ReminderHandler manages user-scheduled follow-ups.
type ReminderHandler struct {
	reminders *reminder.Service
}

func NewReminderHandler(svc *reminder.Service) *ReminderHandler {
	return &ReminderHandler{reminders: svc}
}

// Register registers reminder routes.
func (h *ReminderHandler) Register(router fiber.Router) {
	group := router.Group("/reminders")

	group.Get("/", h.List)
	group.Post("/", h.Create)
	group.Delete("/:id", h.Cancel)
}

type createReminderRequest struct {
	EmailID  *int64    `json:"email_id,omitempty"`
	Title    string    `json:"title"`
	Message  *string   `json:"message,omitempty"`
	RemindAt time.Time `json:"remind_at"`
}

// Create schedules a reminder, optionally tied to an email.
// POST /api/v1/reminders
func (h *ReminderHandler) Create(c *fiber.Ctx) error {
	userID, err := GetUserID(c)
	if err != nil {
		return err
	}

	var req createReminderRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.BadRequest("invalid request body")
	}

	created, err := h.reminders.Create(c.Context(), userID, reminder.CreateInput{
		EmailID:  req.EmailID,
		Title:    req.Title,
		Message:  req.Message,
		RemindAt: req.RemindAt,
	})
	if err != nil {
		return err
	}

	return response.Created(c, created)
}

// List returns the caller's reminders.
// GET /api/v1/reminders
func (h *ReminderHandler) List(c *fiber.Ctx) error {
	userID, err := GetUserID(c)
	if err != nil {
		return err
	}

	page := GetPaginationParams(c, 20)
	items, total, err := h.reminders.List(c.Context(), userID, page.Limit, page.Offset)
	if err != nil {
		return err
	}

	return response.OK(c, NewListResponse(items, total, page.Offset, page.Limit))
}

// Cancel cancels a pending reminder.
// DELETE /api/v1/reminders/:id
func (h *ReminderHandler) Cancel(c *fiber.Ctx) error {
	userID, err := GetUserID(c)
	if err != nil {
		return err
	}

	reminderID, err := ParamInt64(c, "id")
	if err != nil {
		return err
	}

	if err := h.reminders.Cancel(c.Context(), userID, reminderID); err != nil {
		return err
	}

	return response.NoContent(c)
}
