package service

import (
	"context"
	"strings"

	"github.com/spec-kit/goldennest/internal/domain"
	"github.com/spec-kit/goldennest/internal/events"
	"github.com/spec-kit/goldennest/internal/repository"
)

// InquiryInput is a buyer message about a listing.
type InquiryInput struct {
	PropertyID string
	Name       string
	Email      string
	Phone      string
	Message    string
}

// InquiryService records inquiries and exposes them to listing owners.
type InquiryService struct {
	properties *PropertyService
	inquiries  repository.InquiryRepository
	dispatcher events.Dispatcher
}

// NewInquiryService constructs the service.
func NewInquiryService(properties *PropertyService, inquiries repository.InquiryRepository, dispatcher events.Dispatcher) *InquiryService {
	return &InquiryService{properties: properties, inquiries: inquiries, dispatcher: dispatcher}
}

// Create stores an inquiry. sender is the zero Identity for guests.
func (s *InquiryService) Create(ctx context.Context, sender domain.Identity, input InquiryInput) (*domain.Inquiry, error) {
	switch {
	case strings.TrimSpace(input.PropertyID) == "":
		return nil, invalid("propertyId is required", "propertyId")
	case strings.TrimSpace(input.Name) == "":
		return nil, invalid("name is required", "name")
	case !strings.Contains(input.Email, "@"):
		return nil, invalid("a valid email is required", "email")
	case strings.TrimSpace(input.Message) == "":
		return nil, invalid("message is required", "message")
	}

	property, err := s.properties.Visible(ctx, sender, input.PropertyID)
	if err != nil {
		if isNotFound(err) {
			return nil, invalid("property not found", "propertyId")
		}
		return nil, err
	}

	inquiry := &domain.Inquiry{
		PropertyID: property.ID,
		Name:       strings.TrimSpace(input.Name),
		Email:      strings.TrimSpace(input.Email),
		Phone:      strings.TrimSpace(input.Phone),
		Message:    strings.TrimSpace(input.Message),
	}
	if sender.UserID != "" {
		userID := sender.UserID
		inquiry.UserID = &userID
	}
	if err := s.inquiries.Create(ctx, inquiry); err != nil {
		return nil, err
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.New(events.EventInquiryCreated, property.ID, inquiry.UserID, events.InquiryCreatedPayload{
			InquiryID: inquiry.ID,
			OwnerID:   property.OwnerID,
			Email:     inquiry.Email,
		}))
	}
	return inquiry, nil
}

// ListByProperty returns inquiries for a listing the caller manages.
func (s *InquiryService) ListByProperty(ctx context.Context, caller domain.Identity, propertyID string) ([]domain.Inquiry, error) {
	if _, err := s.properties.Manageable(ctx, caller, propertyID); err != nil {
		return nil, err
	}
	return s.inquiries.ListByProperty(ctx, propertyID)
}
