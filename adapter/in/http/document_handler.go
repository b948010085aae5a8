package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mrinalFouzdar/BE-Email-Automation-sub001/core/service/document"
	"github.com/mrinalFouzdar/BE-Email-Automation-sub001/pkg/apperr"
	"github.com/mrinalFouzdar/BE-Email-Automation-sub001/pkg/response"
)

// DocumentHandler manages extracted document text and similarity search.
type DocumentHandler struct {
	documents *document.Service
}

func NewDocumentHandler(svc *document.Service) *DocumentHandler {
	return &DocumentHandler{documents: svc}
}

// Register registers document routes.
func (h *DocumentHandler) Register(router fiber.Router) {
	group := router.Group("/documents")

	group.Get("/", h.List)
	group.Post("/", h.Create)
	group.Delete("/:id", h.Delete)
	group.Get("/search", h.Search)
}

type createDocumentRequest struct {
	Filename    string `json:"filename"`
	ContentText string `json:"content_text"`
	PageCount   int    `json:"page_count"`
}

// Create stores extracted document text.
// POST /api/v1/documents
func (h *DocumentHandler) Create(c *fiber.Ctx) error {
	userID, err := GetUserID(c)
	if err != nil {
		return err
	}

	var req createDocumentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.BadRequest("invalid request body")
	}

	doc, err := h.documents.Create(c.Context(), userID, document.CreateInput{
		Filename:    req.Filename,
		ContentText: req.ContentText,
		PageCount:   req.PageCount,
	})
	if err != nil {
		return err
	}

	return response.Created(c, doc)
}

// List returns the caller's documents.
// GET /api/v1/documents
func (h *DocumentHandler) List(c *fiber.Ctx) error {
	userID, err := GetUserID(c)
	if err != nil {
		return err
	}

	page := GetPaginationParams(c, 20)
	items, total, err := h.documents.List(c.Context(), userID, page.Limit, page.Offset)
	if err != nil {
		return err
	}

	return response.OK(c, NewListResponse(items, total, page.Offset, page.Limit))
}

// Delete removes a document.
// DELETE /api/v1/documents/:id
func (h *DocumentHandler) Delete(c *fiber.Ctx) error {
	userID, err := GetUserID(c)
	if err != nil {
		return err
	}

	documentID, err := ParamInt64(c, "id")
	if err != nil {
		return err
	}

	if err := h.documents.Delete(c.Context(), userID, documentID); err != nil {
		return err
	}

	return response.NoContent(c)
}

// Search finds documents similar to a free-text query.
// GET /api/v1/documents/search?q=...
func (h *DocumentHandler) Search(c *fiber.Ctx) error {
	userID, err := GetUserID(c)
	if err != nil {
		return err
	}

	matches, err := h.documents.FindSimilar(c.Context(), userID, c.Query("q"))
	if err != nil {
		return err
	}

	return response.OK(c, fiber.Map{"matches": matches, "total": len(matches)})
}
