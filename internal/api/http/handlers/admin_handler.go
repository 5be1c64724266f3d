package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/goldennest/internal/api/dto"
	"github.com/spec-kit/goldennest/internal/service"
)

// AdminHandler exposes moderation endpoints. Access is limited to ADMIN by the route policy.
type AdminHandler struct {
	properties *service.PropertyService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(properties *service.PropertyService) *AdminHandler {
	return &AdminHandler{properties: properties}
}

// ListProperties handles GET /api/admin/properties.
func (h *AdminHandler) ListProperties(c *fiber.Ctx) error {
	page, err := pageRequest(c)
	if err != nil {
		return err
	}
	result, err := h.properties.ListByStatus(c.UserContext(), c.Query("status"), page)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewCardPage(result, true))
}

// Summary handles GET /api/admin/properties/summary.
func (h *AdminHandler) Summary(c *fiber.Ctx) error {
	summary, err := h.properties.Summary(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(summary)
}

// UpdateStatus handles PATCH /api/admin/properties/:id/status.
func (h *AdminHandler) UpdateStatus(c *fiber.Ctx) error {
	admin, err := caller(c)
	if err != nil {
		return err
	}
	var req dto.StatusUpdateRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	property, err := h.properties.UpdateStatus(c.UserContext(), admin, c.Params("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(dto.IDStatusResponse{ID: property.ID, Status: string(property.Status)})
}
