package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mrinalFouzdar/BE-Email-Automation-sub001/core/service/labels"
	"github.com/mrinalFouzdar/BE-Email-Automation-sub001/pkg/apperr"
	"github.com/mrinalFouzdar/BE-Email-Automation-sub001/pkg/response"
)

// LabelHandler handles label management requests.
type LabelHandler struct {
	labels *labels.LabelService
}

func NewLabelHandler(labelSvc *labels.LabelService) *LabelHandler {
	return &LabelHandler{labels: labelSvc}
}

// Register registers label routes.
func (h *LabelHandler) Register(router fiber.Router) {
	group := router.Group("/labels")

	group.Get("/", h.List)
	group.Post("/", h.Create)
	group.Put("/:id", h.Update)
	group.Delete("/:id", h.Delete)

	group.Post("/:id/emails/:emailId", h.Attach)
	group.Delete("/:id/emails/:emailId", h.Detach)
	group.Get("/emails/:emailId", h.ListForEmail)
}

// List returns all labels for the current user.
// GET /api/v1/labels
func (h *LabelHandler) List(c *fiber.Ctx) error {
	userID, err := GetUserID(c)
	if err != nil {
		return err
	}

	items, err := h.labels.List(c.Context(), userID)
	if err != nil {
		return err
	}

	return response.OK(c, fiber.Map{"labels": items, "total": len(items)})
}

type labelRequest struct {
	Name  string  `json:"name"`
	Color *string `json:"color,omitempty"`
}

// Create creates a new label.
// POST /api/v1/labels
func (h *LabelHandler) Create(c *fiber.Ctx) error {
	userID, err := GetUserID(c)
	if err != nil {
		return err
	}

	var req labelRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.BadRequest("invalid request body")
	}

	label, err := h.labels.Create(c.Context(), userID, req.Name, req.Color)
	if err != nil {
		return err
	}

	return response.Created(c, label)
}

// Update renames or recolors a label.
// PUT /api/v1/labels/:id
func (h *LabelHandler) Update(c *fiber.Ctx) error {
	userID, err := GetUserID(c)
	if err != nil {
		return err
	}

	labelID, err := ParamInt64(c, "id")
	if err != nil {
		return err
	}

	var req labelRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.BadRequest("invalid request body")
	}

	label, err := h.labels.Update(c.Context(), userID, labelID, req.Name, req.Color)
	if err != nil {
		return err
	}

	return response.OK(c, label)
}

// Delete removes a label and all its assignments.
// DELETE /api/v1/labels/:id
func (h *LabelHandler) Delete(c *fiber.Ctx) error {
	userID, err := GetUserID(c)
	if err != nil {
		return err
	}

	labelID, err := ParamInt64(c, "id")
	if err != nil {
		return err
	}

	if err := h.labels.Delete(c.Context(), userID, labelID); err != nil {
		return err
	}

	return response.NoContent(c)
}

// Attach assigns a label to an email by hand.
// POST /api/v1/labels/:id/emails/:emailId
func (h *LabelHandler) Attach(c *fiber.Ctx) error {
	userID, err := GetUserID(c)
	if err != nil {
		return err
	}

	labelID, err := ParamInt64(c, "id")
	if err != nil {
		return err
	}
	emailID, err := ParamInt64(c, "emailId")
	if err != nil {
		return err
	}

	if err := h.labels.AttachToEmail(c.Context(), userID, emailID, labelID); err != nil {
		return err
	}

	return response.OK(c, fiber.Map{"attached": true})
}

// Detach removes a label assignment from an email.
// DELETE /api/v1/labels/:id/emails/:emailId
func (h *LabelHandler) Detach(c *fiber.Ctx) error {
	userID, err := GetUserID(c)
	if err != nil {
		return err
	}

	labelID, err := ParamInt64(c, "id")
	if err != nil {
		return err
	}
	emailID, err := ParamInt64(c, "emailId")
	if err != nil {
		return err
	}

	if err := h.labels.DetachFromEmail(c.Context(), userID, emailID, labelID); err != nil {
		return err
	}

	return response.NoContent(c)
}

// ListForEmail returns the labels attached to one email.
// GET /api/v1/labels/emails/:emailId
func (h *LabelHandler) ListForEmail(c *fiber.Ctx) error {
	userID, err := GetUserID(c)
	if err != nil {
		return err
	}

	emailID, err := ParamInt64(c, "emailId")
	if err != nil {
		return err
	}

	items, err := h.labels.ListForEmail(c.Context(), userID, emailID)
	if err != nil {
		return err
	}

	return response.OK(c, fiber.Map{"labels": items, "total": len(items)})
}
