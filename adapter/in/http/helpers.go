// Package http exposes the REST API.
package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/mrinalFouzdar/BE-Email-Automation-sub001/core/service/labels"
	"github.com/mrinalFouzdar/BE-Email-Automation-sub001/pkg/apperr"
)

// GetUserID safely extracts user_id from fiber context.
// Returns an error if not authenticated.
func GetUserID(c *fiber.Ctx) (uuid.UUID, error) {
	userIDVal := c.Locals("user_id")
	if userIDVal == nil {
		return uuid.Nil, apperr.Unauthorized("")
	}
	userID, ok := userIDVal.(uuid.UUID)
	if !ok {
		return uuid.Nil, apperr.Unauthorized("")
	}
	return userID, nil
}

// GetActor extracts the authenticated principal with its role.
func GetActor(c *fiber.Ctx) (labels.Actor, error) {
	userID, err := GetUserID(c)
	if err != nil {
		return labels.Actor{}, err
	}
	role, _ := c.Locals("user_role").(string)
	if role == "" {
		role = "user"
	}
	return labels.Actor{ID: userID, Role: role}, nil
}

// ParamInt64 parses a numeric path parameter.
func ParamInt64(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.BadRequest("invalid " + name)
	}
	return id, nil
}

// PaginationParams holds common pagination parameters.
type PaginationParams struct {
	Limit  int
	Offset int
}

// GetPaginationParams extracts pagination params from query.
func GetPaginationParams(c *fiber.Ctx, defaultLimit int) PaginationParams {
	limit := c.QueryInt("limit", defaultLimit)
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > 100 {
		limit = 100
	}

	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}

	return PaginationParams{Limit: limit, Offset: offset}
}

// ListResponse represents a paginated list response.
type ListResponse struct {
	Items    interface{} `json:"items"`
	Total    int         `json:"total"`
	HasMore  bool        `json:"has_more"`
	PageSize int         `json:"page_size"`
}

// NewListResponse creates a list response with has_more calculation.
func NewListResponse(items interface{}, total, offset, limit int) ListResponse {
	return ListResponse{
		Items:    items,
		Total:    total,
		HasMore:  offset+limit < total,
		PageSize: limit,
	}
}

// QueryString returns a pointer to a string query param (nil if empty).
func QueryString(c *fiber.Ctx, key string) *string {
	val := c.Query(key)
	if val == "" {
		return nil
	}
	return &val
}
