package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/goldennest/internal/domain"
	"github.com/spec-kit/goldennest/internal/events"
	"github.com/spec-kit/goldennest/internal/repository"
	apperrors "github.com/spec-kit/goldennest/pkg/util/errorutil"
)

// VisitInput asks for a viewing slot.
type VisitInput struct {
	PropertyID     string
	PreferredAtISO string
	Note           string
}

// VisitService schedules property viewings.
type VisitService struct {
	properties *PropertyService
	visits     repository.VisitRequestRepository
	dispatcher events.Dispatcher
}

// NewVisitService constructs the service.
func NewVisitService(properties *PropertyService, visits repository.VisitRequestRepository, dispatcher events.Dispatcher) *VisitService {
	return &VisitService{properties: properties, visits: visits, dispatcher: dispatcher}
}

// Create files a PENDING visit request for the caller.
func (s *VisitService) Create(ctx context.Context, requester domain.Identity, input VisitInput) (*domain.VisitRequest, error) {
	if strings.TrimSpace(input.PropertyID) == "" {
		return nil, invalid("propertyId is required", "propertyId")
	}
	if strings.TrimSpace(input.PreferredAtISO) == "" {
		return nil, invalid("preferredAtIso is required", "preferredAtIso")
	}
	preferredAt, err := time.Parse(time.RFC3339, strings.TrimSpace(input.PreferredAtISO))
	if err != nil {
		return nil, invalid("preferredAtIso must be an RFC3339 timestamp", "preferredAtIso")
	}

	property, err := s.properties.Visible(ctx, requester, input.PropertyID)
	if err != nil {
		if isNotFound(err) {
			return nil, invalid("property not found", "propertyId")
		}
		return nil, err
	}

	visit := &domain.VisitRequest{
		PropertyID:  property.ID,
		UserID:      requester.UserID,
		PreferredAt: preferredAt.UTC(),
		Status:      domain.VisitStatusPending,
		Note:        strings.TrimSpace(input.Note),
	}
	if err := s.visits.Create(ctx, visit); err != nil {
		return nil, err
	}

	s.publish(ctx, events.New(events.EventVisitRequested, property.ID, &visit.UserID, events.VisitRequestedPayload{
		VisitID:     visit.ID,
		OwnerID:     property.OwnerID,
		PreferredAt: visit.PreferredAt,
	}))
	return visit, nil
}

// ListMine returns the caller's requests, newest first.
func (s *VisitService) ListMine(ctx context.Context, requester domain.Identity) ([]domain.VisitRequest, error) {
	return s.visits.ListByUser(ctx, requester.UserID)
}

// ListByProperty returns requests for a listing the caller manages.
func (s *VisitService) ListByProperty(ctx context.Context, caller domain.Identity, propertyID string) ([]domain.VisitRequest, error) {
	if _, err := s.properties.Manageable(ctx, caller, propertyID); err != nil {
		return nil, err
	}
	return s.visits.ListByProperty(ctx, propertyID)
}

// UpdateStatus confirms or declines a pending request. Confirmation without an
// explicit slot schedules the visit at the preferred time.
func (s *VisitService) UpdateStatus(ctx context.Context, caller domain.Identity, visitID, status string, scheduledAt *time.Time) (*domain.VisitRequest, error) {
	next, ok := domain.ParseVisitStatus(status)
	if !ok || next == domain.VisitStatusPending {
		return nil, invalid("status must be CONFIRMED or DECLINED", "status")
	}

	visit, err := s.visits.GetByID(ctx, visitID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, notFound("visit request")
	}
	if err != nil {
		return nil, err
	}
	if _, err := s.properties.Manageable(ctx, caller, visit.PropertyID); err != nil {
		return nil, err
	}
	if visit.Status != domain.VisitStatusPending {
		return nil, apperrors.NewConflict("visit request already "+strings.ToLower(string(visit.Status)), map[string]any{"status": visit.Status})
	}

	old := visit.Status
	visit.Status = next
	switch next {
	case domain.VisitStatusConfirmed:
		at := visit.PreferredAt
		if scheduledAt != nil {
			at = scheduledAt.UTC()
		}
		visit.ScheduledAt = &at
	case domain.VisitStatusDeclined:
		visit.ScheduledAt = nil
	}

	if err := s.visits.Transition(ctx, visit, old); err != nil {
		if errors.Is(err, repository.ErrStale) {
			return nil, apperrors.NewConflict("visit request was updated concurrently", nil)
		}
		return nil, err
	}

	s.publish(ctx, events.New(events.EventVisitStatusChanged, visit.PropertyID, &caller.UserID, events.VisitStatusChangedPayload{
		VisitID:     visit.ID,
		RequesterID: visit.UserID,
		OldStatus:   old,
		NewStatus:   next,
		ScheduledAt: visit.ScheduledAt,
	}))
	return visit, nil
}

func (s *VisitService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, event)
}
