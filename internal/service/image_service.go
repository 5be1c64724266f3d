package service

import (
	"context"
	"errors"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/goldennest/internal/domain"
	"github.com/spec-kit/goldennest/internal/repository"
	"github.com/spec-kit/goldennest/internal/storage"
)

// UploadTicket is a presigned direct-to-bucket upload.
type UploadTicket struct {
	UploadURL  string
	StorageKey string
	PublicURL  string
	ExpiresAt  time.Time
}

// ImageInput registers an uploaded or external image.
type ImageInput struct {
	URL        string
	StorageKey string
	Sort       *int
}

// ImageService manages listing galleries.
type ImageService struct {
	properties *PropertyService
	images     repository.PropertyImageRepository
	storage    storage.Provider
	presignTTL time.Duration
	logger     *zap.Logger
}

// NewImageService constructs the service. provider may be nil when no bucket is configured.
func NewImageService(properties *PropertyService, images repository.PropertyImageRepository, provider storage.Provider, presignTTL time.Duration, logger *zap.Logger) *ImageService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if presignTTL <= 0 {
		presignTTL = 15 * time.Minute
	}
	return &ImageService{
		properties: properties,
		images:     images,
		storage:    provider,
		presignTTL: presignTTL,
		logger:     logger,
	}
}

// List returns the gallery of a visible listing ordered by sort.
func (s *ImageService) List(ctx context.Context, viewer domain.Identity, propertyID string) ([]domain.PropertyImage, error) {
	property, err := s.properties.Get(ctx, viewer, propertyID)
	if err != nil {
		return nil, err
	}
	return property.Images, nil
}

// PresignUpload reserves a storage key under the listing and signs a PUT for it.
func (s *ImageService) PresignUpload(ctx context.Context, caller domain.Identity, propertyID, fileName, contentType string) (*UploadTicket, error) {
	if s.storage == nil {
		return nil, ErrStorageUnavailable
	}
	contentType = strings.ToLower(strings.TrimSpace(contentType))
	if !strings.HasPrefix(contentType, "image/") {
		return nil, invalid("contentType must be an image type", "contentType")
	}
	if _, err := s.properties.Manageable(ctx, caller, propertyID); err != nil {
		return nil, err
	}

	key := "properties/" + propertyID + "/" + uuid.NewString() + strings.ToLower(path.Ext(strings.TrimSpace(fileName)))
	upload, err := s.storage.PresignPut(ctx, key, contentType, s.presignTTL)
	if err != nil {
		return nil, err
	}
	return &UploadTicket{
		UploadURL:  upload.URL,
		StorageKey: key,
		PublicURL:  s.storage.PublicURL(key),
		ExpiresAt:  upload.ExpiresAt,
	}, nil
}

// Register records an image in the gallery. A storage key must belong to the listing.
func (s *ImageService) Register(ctx context.Context, caller domain.Identity, propertyID string, input ImageInput) (*domain.PropertyImage, error) {
	url := strings.TrimSpace(input.URL)
	key := strings.TrimSpace(input.StorageKey)
	if url == "" && key == "" {
		return nil, invalid("url or storageKey is required", "url")
	}
	if key != "" && !strings.HasPrefix(key, "properties/"+propertyID+"/") {
		return nil, invalid("storageKey does not belong to this property", "storageKey")
	}
	if _, err := s.properties.Manageable(ctx, caller, propertyID); err != nil {
		return nil, err
	}

	image := &domain.PropertyImage{PropertyID: propertyID, URL: url}
	if key != "" {
		image.StorageKey = &key
		if url == "" {
			if s.storage == nil {
				return nil, ErrStorageUnavailable
			}
			image.URL = s.storage.PublicURL(key)
		}
	}

	if input.Sort != nil {
		image.Sort = *input.Sort
	} else {
		existing, err := s.images.ListByProperty(ctx, propertyID)
		if err != nil {
			return nil, err
		}
		for _, img := range existing {
			if img.Sort >= image.Sort {
				image.Sort = img.Sort + 1
			}
		}
	}

	if err := s.images.Create(ctx, image); err != nil {
		return nil, err
	}
	return image, nil
}

// Delete removes an image row and its stored object.
func (s *ImageService) Delete(ctx context.Context, caller domain.Identity, propertyID, imageID string) error {
	if _, err := s.properties.Manageable(ctx, caller, propertyID); err != nil {
		return err
	}
	image, err := s.images.GetByID(ctx, imageID)
	if errors.Is(err, pgx.ErrNoRows) || (err == nil && image.PropertyID != propertyID) {
		return notFound("image")
	}
	if err != nil {
		return err
	}
	if err := s.images.Delete(ctx, imageID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return notFound("image")
		}
		return err
	}

	if image.StorageKey != nil && s.storage != nil {
		if err := s.storage.Delete(ctx, *image.StorageKey); err != nil {
			s.logger.Warn("delete stored image failed",
				zap.String("image_id", imageID),
				zap.String("storage_key", *image.StorageKey),
				zap.Error(err))
		}
	}
	return nil
}
