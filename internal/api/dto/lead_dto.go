package dto

import (
	"time"

	"github.com/spec-kit/goldennest/internal/domain"
)

// InquiryCreateRequest payload for buyer inquiries.
type InquiryCreateRequest struct {
	PropertyID string `json:"propertyId"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Message    string `json:"message"`
}

// IDResponse acknowledges a created resource.
type IDResponse struct {
	ID string `json:"id"`
}

// InquiryResponse is one inquiry as seen by the listing owner.
type InquiryResponse struct {
	ID         string    `json:"id"`
	PropertyID string    `json:"propertyId"`
	UserID     *string   `json:"userId"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	Message    string    `json:"message"`
	CreatedAt  time.Time `json:"createdAt"`
}

// NewInquiryList maps inquiries.
func NewInquiryList(items []domain.Inquiry) []InquiryResponse {
	out := make([]InquiryResponse, 0, len(items))
	for _, i := range items {
		out = append(out, InquiryResponse{
			ID:         i.ID,
			PropertyID: i.PropertyID,
			UserID:     i.UserID,
			Name:       i.Name,
			Email:      i.Email,
			Phone:      i.Phone,
			Message:    i.Message,
			CreatedAt:  i.CreatedAt,
		})
	}
	return out
}

// VisitCreateRequest payload for visit requests.
type VisitCreateRequest struct {
	PropertyID     string `json:"propertyId"`
	PreferredAtISO string `json:"preferredAtIso"`
	Note           string `json:"note"`
}

// VisitResponse is one visit request.
type VisitResponse struct {
	ID          string     `json:"id"`
	PropertyID  string     `json:"propertyId"`
	UserID      string     `json:"userId"`
	PreferredAt time.Time  `json:"preferredAt"`
	ScheduledAt *time.Time `json:"scheduledAt"`
	Status      string     `json:"status"`
	Note        string     `json:"note"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// NewVisit maps one visit request.
func NewVisit(v *domain.VisitRequest) VisitResponse {
	return VisitResponse{
		ID:          v.ID,
		PropertyID:  v.PropertyID,
		UserID:      v.UserID,
		PreferredAt: v.PreferredAt,
		ScheduledAt: v.ScheduledAt,
		Status:      string(v.Status),
		Note:        v.Note,
		CreatedAt:   v.CreatedAt,
	}
}

// NewVisitList maps visit requests.
func NewVisitList(items []domain.VisitRequest) []VisitResponse {
	out := make([]VisitResponse, 0, len(items))
	for i := range items {
		out = append(out, NewVisit(&items[i]))
	}
	return out
}
