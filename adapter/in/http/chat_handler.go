package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mrinalFouzdar/BE-Email-Automation-sub001/core/service/chat"
	"github.com/mrinalFouzdar/BE-Email-Automation-sub001/pkg/apperr"
	"github.com/mrinalFouzdar/BE-Email-Automation-sub001/pkg/response"
)

// ChatHandler answers questions grounded in the caller's emails and
// documents.
type ChatHandler struct {
	chat *chat.Service
}

func NewChatHandler(svc *chat.Service) *ChatHandler {
	return &ChatHandler{chat: svc}
}

// Register registers chat routes.
func (h *ChatHandler) Register(router fiber.Router) {
	group := router.Group("/chat")

	group.Post("/", h.Ask)
}

type askRequest struct {
	Question string `json:"question"`
}

// Ask answers a free-text question with retrieved context.
// POST /api/v1/chat
func (h *ChatHandler) Ask(c *fiber.Ctx) error {
	userID, err := GetUserID(c)
	if err != nil {
		return err
	}

	var req askRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.BadRequest("invalid request body")
	}

	answer, err := h.chat.Ask(c.Context(), userID, req.Question)
	if err != nil {
		return err
	}

	return response.OK(c, answer)
}
