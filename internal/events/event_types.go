package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/goldennest/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventPropertySubmitted     EventType = "property_submitted"
	EventPropertyStatusChanged EventType = "property_status_changed"
	EventInquiryCreated        EventType = "inquiry_created"
	EventVisitRequested        EventType = "visit_requested"
	EventVisitStatusChanged    EventType = "visit_status_changed"
)

// AllEventTypes lists every event the services emit.
func AllEventTypes() []EventType {
	return []EventType{
		EventPropertySubmitted,
		EventPropertyStatusChanged,
		EventInquiryCreated,
		EventVisitRequested,
		EventVisitStatusChanged,
	}
}

// Event represents a domain event emitted by services.
type Event struct {
	ID         string      `json:"id"`
	Type       EventType   `json:"type"`
	PropertyID string      `json:"property_id"`
	ActorID    *string     `json:"actor_id,omitempty"`
	Timestamp  time.Time   `json:"timestamp"`
	Payload    interface{} `json:"payload"`
}

// New stamps an event with a fresh id and the current time.
func New(eventType EventType, propertyID string, actorID *string, payload interface{}) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		PropertyID: propertyID,
		ActorID:    actorID,
		Timestamp:  time.Now().UTC(),
		Payload:    payload,
	}
}

// PropertySubmittedPayload payload.
type PropertySubmittedPayload struct {
	OwnerID string  `json:"owner_id"`
	Title   string  `json:"title"`
	City    string  `json:"city"`
	Price   float64 `json:"price"`
}

// PropertyStatusChangedPayload payload.
type PropertyStatusChangedPayload struct {
	OldStatus domain.PropertyStatus `json:"old_status"`
	NewStatus domain.PropertyStatus `json:"new_status"`
}

// InquiryCreatedPayload payload.
type InquiryCreatedPayload struct {
	InquiryID string `json:"inquiry_id"`
	OwnerID   string `json:"owner_id"`
	Email     string `json:"email"`
}

// VisitRequestedPayload payload.
type VisitRequestedPayload struct {
	VisitID     string    `json:"visit_id"`
	OwnerID     string    `json:"owner_id"`
	PreferredAt time.Time `json:"preferred_at"`
}

// VisitStatusChangedPayload payload.
type VisitStatusChangedPayload struct {
	VisitID     string             `json:"visit_id"`
	RequesterID string             `json:"requester_id"`
	OldStatus   domain.VisitStatus `json:"old_status"`
	NewStatus   domain.VisitStatus `json:"new_status"`
	ScheduledAt *time.Time         `json:"scheduled_at,omitempty"`
}
