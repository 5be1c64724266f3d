package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/goldennest/internal/api/dto"
	"github.com/spec-kit/goldennest/internal/repository"
	"github.com/spec-kit/goldennest/internal/service"
	apperrors "github.com/spec-kit/goldennest/pkg/util/errorutil"
)

// PropertiesHandler exposes the public catalogue and owner listing endpoints.
type PropertiesHandler struct {
	properties *service.PropertyService
}

// NewPropertiesHandler constructs handler.
func NewPropertiesHandler(properties *service.PropertyService) *PropertiesHandler {
	return &PropertiesHandler{properties: properties}
}

// Create handles POST /api/properties.
func (h *PropertiesHandler) Create(c *fiber.Ctx) error {
	owner, err := caller(c)
	if err != nil {
		return err
	}
	var req dto.PropertyCreateRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	property, err := h.properties.Create(c.UserContext(), owner, req.ToInput())
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.IDStatusResponse{ID: property.ID, Status: string(property.Status)})
}

// Search handles GET /api/properties.
func (h *PropertiesHandler) Search(c *fiber.Ctx) error {
	page, err := pageRequest(c)
	if err != nil {
		return err
	}
	minPrice, err := floatQuery(c, "minPrice")
	if err != nil {
		return err
	}
	maxPrice, err := floatQuery(c, "maxPrice")
	if err != nil {
		return err
	}
	result, err := h.properties.Search(c.UserContext(), service.SearchQuery{
		City:        c.Query("city"),
		Query:       c.Query("q"),
		Type:        c.Query("type"),
		MinPrice:    minPrice,
		MaxPrice:    maxPrice,
		PageRequest: page,
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.NewCardPage(result, false))
}

// Mine handles GET /api/properties/mine.
func (h *PropertiesHandler) Mine(c *fiber.Ctx) error {
	owner, err := caller(c)
	if err != nil {
		return err
	}
	page, err := pageRequest(c)
	if err != nil {
		return err
	}
	result, err := h.properties.ListMine(c.UserContext(), owner, page)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewCardPage(result, false))
}

// Get handles GET /api/properties/:id.
func (h *PropertiesHandler) Get(c *fiber.Ctx) error {
	property, err := h.properties.Get(c.UserContext(), viewer(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewDetail(property))
}

// UpdateAdvanced handles PUT /api/properties/:id/advanced.
func (h *PropertiesHandler) UpdateAdvanced(c *fiber.Ctx) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	var req dto.PropertyAdvancedRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	start, err := parseDate(req.LeaseStartDate, "leaseStartDate")
	if err != nil {
		return err
	}
	expiry, err := parseDate(req.LeaseExpiryDate, "leaseExpiryDate")
	if err != nil {
		return err
	}
	property, err := h.properties.UpdateAdvanced(c.UserContext(), id, c.Params("id"), repository.AdvancedDetails{
		Tenure:          req.Tenure,
		LeaseStartDate:  start,
		LeaseTermYears:  req.LeaseTermYears,
		LeaseExpiryDate: expiry,
		FloorPlans:      req.FloorPlans,
		VirtualTours:    req.VirtualTours,
		Documents:       req.Documents,
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.NewDetail(property))
}

func parseDate(raw *string, field string) (*time.Time, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	t, err := time.Parse(dto.DateLayout, strings.TrimSpace(*raw))
	if err != nil {
		return nil, apperrors.NewValidationError(field+" must be YYYY-MM-DD", map[string]any{"field": field})
	}
	return &t, nil
}
