package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/goldennest/internal/api/dto"
	"github.com/spec-kit/goldennest/internal/service"
)

// LeadsHandler exposes inquiries and visit requests.
type LeadsHandler struct {
	inquiries *service.InquiryService
	visits    *service.VisitService
}

// NewLeadsHandler constructs handler.
func NewLeadsHandler(inquiries *service.InquiryService, visits *service.VisitService) *LeadsHandler {
	return &LeadsHandler{inquiries: inquiries, visits: visits}
}

// CreateInquiry handles POST /api/inquiries. Guests may inquire.
func (h *LeadsHandler) CreateInquiry(c *fiber.Ctx) error {
	var req dto.InquiryCreateRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	inquiry, err := h.inquiries.Create(c.UserContext(), viewer(c), service.InquiryInput{
		PropertyID: req.PropertyID,
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		Message:    req.Message,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.IDResponse{ID: inquiry.ID})
}

// PropertyInquiries handles GET /api/properties/:id/inquiries.
func (h *LeadsHandler) PropertyInquiries(c *fiber.Ctx) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	items, err := h.inquiries.ListByProperty(c.UserContext(), id, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewInquiryList(items))
}

// CreateVisit handles POST /api/visit-requests.
func (h *LeadsHandler) CreateVisit(c *fiber.Ctx) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	var req dto.VisitCreateRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	visit, err := h.visits.Create(c.UserContext(), id, service.VisitInput{
		PropertyID:     req.PropertyID,
		PreferredAtISO: req.PreferredAtISO,
		Note:           req.Note,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.IDStatusResponse{ID: visit.ID, Status: string(visit.Status)})
}

// MyVisits handles GET /api/visit-requests/mine.
func (h *LeadsHandler) MyVisits(c *fiber.Ctx) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	items, err := h.visits.ListMine(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewVisitList(items))
}

// PropertyVisits handles GET /api/properties/:id/visit-requests.
func (h *LeadsHandler) PropertyVisits(c *fiber.Ctx) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	items, err := h.visits.ListByProperty(c.UserContext(), id, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewVisitList(items))
}

// UpdateVisitStatus handles PATCH /api/visit-requests/:id/status.
func (h *LeadsHandler) UpdateVisitStatus(c *fiber.Ctx) error {
	id, err := caller(c)
	if err != nil {
		return err
	}
	var req dto.StatusUpdateRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	visit, err := h.visits.UpdateStatus(c.UserContext(), id, c.Params("id"), req.Status, req.ScheduledAt)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewVisit(visit))
}
