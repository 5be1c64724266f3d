package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/goldennest/internal/domain"
	"github.com/spec-kit/goldennest/internal/events"
	"github.com/spec-kit/goldennest/internal/repository"
	apperrors "github.com/spec-kit/goldennest/pkg/util/errorutil"
)

// SummaryStore caches admin status counts.
type SummaryStore interface {
	Get(ctx context.Context) (domain.StatusSummary, bool, error)
	Set(ctx context.Context, summary domain.StatusSummary) error
	Invalidate(ctx context.Context) error
}

// PropertyInput describes a new listing.
type PropertyInput struct {
	Title        string
	Description  string
	Price        float64
	Bedrooms     int
	Bathrooms    int
	Address1     string
	City         string
	State        string
	Zip          string
	AreaSqft     *int
	Lat          *float64
	Lng          *float64
	PropertyType string
	ListingType  string
	LocationTag  string
	YearBuilt    *int
	Images       []string
}

// SearchQuery filters the public catalogue.
type SearchQuery struct {
	City     string
	Query    string
	Type     string
	MinPrice *float64
	MaxPrice *float64
	PageRequest
}

// PropertyService coordinates listing workflows.
type PropertyService struct {
	properties repository.PropertyRepository
	images     repository.PropertyImageRepository
	summary    SummaryStore
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// PropertyDependencies bundles collaborators for the property service.
type PropertyDependencies struct {
	PropertyRepo repository.PropertyRepository
	ImageRepo    repository.PropertyImageRepository
	Summary      SummaryStore
	Dispatcher   events.Dispatcher
	Logger       *zap.Logger
}

// NewPropertyService constructs the service.
func NewPropertyService(deps PropertyDependencies) *PropertyService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PropertyService{
		properties: deps.PropertyRepo,
		images:     deps.ImageRepo,
		summary:    deps.Summary,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// Create submits a listing for moderation. A gallery write failure removes
// the half-created listing before the error is returned.
func (s *PropertyService) Create(ctx context.Context, owner domain.Identity, input PropertyInput) (*domain.Property, error) {
	if err := validatePropertyInput(input); err != nil {
		return nil, err
	}

	property := &domain.Property{
		OwnerID:      owner.UserID,
		Title:        strings.TrimSpace(input.Title),
		Description:  input.Description,
		Price:        input.Price,
		Bedrooms:     input.Bedrooms,
		Bathrooms:    input.Bathrooms,
		Address1:     strings.TrimSpace(input.Address1),
		City:         strings.TrimSpace(input.City),
		State:        strings.TrimSpace(input.State),
		Zip:          strings.TrimSpace(input.Zip),
		AreaSqft:     input.AreaSqft,
		Lat:          input.Lat,
		Lng:          input.Lng,
		PropertyType: input.PropertyType,
		ListingType:  input.ListingType,
		LocationTag:  input.LocationTag,
		YearBuilt:    input.YearBuilt,
		Status:       domain.PropertyStatusPending,
	}
	if err := s.properties.Create(ctx, property); err != nil {
		return nil, err
	}

	for i, url := range input.Images {
		url = strings.TrimSpace(url)
		if url == "" {
			continue
		}
		image := domain.PropertyImage{PropertyID: property.ID, URL: url, Sort: i}
		if err := s.images.Create(ctx, &image); err != nil {
			s.discard(ctx, property.ID)
			return nil, err
		}
		property.Images = append(property.Images, image)
	}

	s.invalidateSummary(ctx)
	s.publish(ctx, events.New(events.EventPropertySubmitted, property.ID, &owner.UserID, events.PropertySubmittedPayload{
		OwnerID: property.OwnerID,
		Title:   property.Title,
		City:    property.City,
		Price:   property.Price,
	}))
	return property, nil
}

// Search lists approved listings matching q.
func (s *PropertyService) Search(ctx context.Context, q SearchQuery) (Page[domain.Property], error) {
	if q.MinPrice != nil && q.MaxPrice != nil && *q.MinPrice > *q.MaxPrice {
		return Page[domain.Property]{}, invalid("minPrice must not exceed maxPrice", "minPrice")
	}
	approved := domain.PropertyStatusApproved
	return s.list(ctx, repository.PropertyFilter{
		Status:   &approved,
		City:     q.City,
		Query:    q.Query,
		Type:     q.Type,
		MinPrice: q.MinPrice,
		MaxPrice: q.MaxPrice,
	}, q.PageRequest)
}

// ListMine lists the caller's listings in every status.
func (s *PropertyService) ListMine(ctx context.Context, owner domain.Identity, page PageRequest) (Page[domain.Property], error) {
	ownerID := owner.UserID
	return s.list(ctx, repository.PropertyFilter{OwnerID: &ownerID}, page)
}

// ListByStatus is the moderation queue. An empty status means PENDING.
func (s *PropertyService) ListByStatus(ctx context.Context, status string, page PageRequest) (Page[domain.Property], error) {
	if strings.TrimSpace(status) == "" {
		status = string(domain.PropertyStatusPending)
	}
	parsed, ok := domain.ParsePropertyStatus(status)
	if !ok {
		return Page[domain.Property]{}, invalid("invalid status: "+status, "status")
	}
	return s.list(ctx, repository.PropertyFilter{Status: &parsed}, page)
}

func (s *PropertyService) list(ctx context.Context, filter repository.PropertyFilter, page PageRequest) (Page[domain.Property], error) {
	page = page.Normalize()
	filter.Limit = page.Size
	filter.Offset = page.Offset()

	items, total, err := s.properties.List(ctx, filter)
	if err != nil {
		return Page[domain.Property]{}, err
	}
	return Page[domain.Property]{Items: items, Page: page.Page, Size: page.Size, TotalItems: total}, nil
}

// Get returns a listing with its gallery. Listings the caller may not see are reported as missing.
func (s *PropertyService) Get(ctx context.Context, viewer domain.Identity, id string) (*domain.Property, error) {
	property, err := s.Visible(ctx, viewer, id)
	if err != nil {
		return nil, err
	}
	images, err := s.images.ListByProperty(ctx, id)
	if err != nil {
		return nil, err
	}
	property.Images = images
	return property, nil
}

// Visible loads a listing without its gallery, reporting listings the viewer may not see as missing.
func (s *PropertyService) Visible(ctx context.Context, viewer domain.Identity, id string) (*domain.Property, error) {
	property, err := s.Lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	if !property.VisibleTo(viewer) {
		return nil, notFound("property")
	}
	return property, nil
}

// Manageable loads a listing and checks that the caller owns it or is an admin.
func (s *PropertyService) Manageable(ctx context.Context, caller domain.Identity, id string) (*domain.Property, error) {
	property, err := s.Lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	if !property.ManageableBy(caller) {
		return nil, apperrors.NewForbidden("only the owner or an admin may manage this listing")
	}
	return property, nil
}

// UpdateAdvanced replaces the tenure and media fields of a listing.
func (s *PropertyService) UpdateAdvanced(ctx context.Context, caller domain.Identity, id string, details repository.AdvancedDetails) (*domain.Property, error) {
	if details.LeaseTermYears != nil && *details.LeaseTermYears < 0 {
		return nil, invalid("leaseTermYears must be non-negative", "leaseTermYears")
	}
	if details.LeaseStartDate != nil && details.LeaseExpiryDate != nil && details.LeaseExpiryDate.Before(*details.LeaseStartDate) {
		return nil, invalid("leaseExpiryDate must not precede leaseStartDate", "leaseExpiryDate")
	}
	if _, err := s.Manageable(ctx, caller, id); err != nil {
		return nil, err
	}
	if err := s.properties.UpdateAdvanced(ctx, id, details); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound("property")
		}
		return nil, err
	}
	return s.Get(ctx, caller, id)
}

// UpdateStatus moves a listing between moderation states.
func (s *PropertyService) UpdateStatus(ctx context.Context, admin domain.Identity, id, status string) (*domain.Property, error) {
	if strings.TrimSpace(status) == "" {
		return nil, invalid("status is required", "status")
	}
	parsed, ok := domain.ParsePropertyStatus(status)
	if !ok {
		return nil, invalid("invalid status: "+status, "status")
	}
	property, err := s.Lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	old := property.Status
	if err := s.properties.UpdateStatus(ctx, id, parsed); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound("property")
		}
		return nil, err
	}
	property.Status = parsed

	s.invalidateSummary(ctx)
	if old != parsed {
		s.publish(ctx, events.New(events.EventPropertyStatusChanged, id, &admin.UserID, events.PropertyStatusChangedPayload{
			OldStatus: old,
			NewStatus: parsed,
		}))
	}
	return property, nil
}

// Summary returns status counts, served from cache when fresh.
func (s *PropertyService) Summary(ctx context.Context) (domain.StatusSummary, error) {
	if s.summary != nil {
		cached, ok, err := s.summary.Get(ctx)
		if err != nil {
			s.logger.Warn("summary cache read failed", zap.Error(err))
		} else if ok {
			return cached, nil
		}
	}

	summary, err := s.properties.Summary(ctx)
	if err != nil {
		return domain.StatusSummary{}, err
	}
	if s.summary != nil {
		if err := s.summary.Set(ctx, summary); err != nil {
			s.logger.Warn("summary cache write failed", zap.Error(err))
		}
	}
	return summary, nil
}

// Lookup loads a listing in any status.
func (s *PropertyService) Lookup(ctx context.Context, id string) (*domain.Property, error) {
	property, err := s.properties.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, notFound("property")
	}
	return property, err
}

// discard deletes a listing whose creation could not complete. The original
// request context may already be cancelled, so cleanup runs on its own.
func (s *PropertyService) discard(ctx context.Context, id string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := s.properties.Delete(ctx, id); err != nil {
		s.logger.Error("failed to discard incomplete listing", zap.String("property_id", id), zap.Error(err))
	}
}

func (s *PropertyService) invalidateSummary(ctx context.Context) {
	if s.summary == nil {
		return
	}
	if err := s.summary.Invalidate(ctx); err != nil {
		s.logger.Warn("summary cache invalidate failed", zap.Error(err))
	}
}

func (s *PropertyService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func validatePropertyInput(input PropertyInput) error {
	switch {
	case strings.TrimSpace(input.Title) == "":
		return invalid("title is required", "title")
	case strings.TrimSpace(input.Address1) == "":
		return invalid("address1 is required", "address1")
	case input.Price < 0:
		return invalid("price must be non-negative", "price")
	case input.Bedrooms < 0:
		return invalid("bedrooms must be non-negative", "bedrooms")
	case input.Bathrooms < 0:
		return invalid("bathrooms must be non-negative", "bathrooms")
	case input.AreaSqft != nil && *input.AreaSqft < 0:
		return invalid("areaSqft must be non-negative", "areaSqft")
	}
	return nil
}
