package service

import (
	"context"

	"github.com/spec-kit/goldennest/internal/domain"
	"github.com/spec-kit/goldennest/internal/repository"
)

// FavoriteService manages saved listings.
type FavoriteService struct {
	properties *PropertyService
	favorites  repository.FavoriteRepository
}

// NewFavoriteService constructs the service.
func NewFavoriteService(properties *PropertyService, favorites repository.FavoriteRepository) *FavoriteService {
	return &FavoriteService{properties: properties, favorites: favorites}
}

// Add saves a listing the user can see; saving it twice is a no-op.
func (s *FavoriteService) Add(ctx context.Context, user domain.Identity, propertyID string) error {
	if _, err := s.properties.Visible(ctx, user, propertyID); err != nil {
		return err
	}
	_, err := s.favorites.Add(ctx, user.UserID, propertyID)
	return err
}

// Remove unsaves a listing; removing an unsaved listing is a no-op.
func (s *FavoriteService) Remove(ctx context.Context, user domain.Identity, propertyID string) error {
	return s.favorites.Remove(ctx, user.UserID, propertyID)
}

// List returns saved listings, most recently saved first. Listings that left
// APPROVED are hidden unless the user owns them.
func (s *FavoriteService) List(ctx context.Context, user domain.Identity) ([]domain.Property, error) {
	return s.favorites.ListProperties(ctx, user.UserID)
}
