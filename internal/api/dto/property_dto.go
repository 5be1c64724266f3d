package dto

import (
	"time"

	"github.com/spec-kit/goldennest/internal/domain"
	"github.com/spec-kit/goldennest/internal/service"
)

// DateLayout is the calendar date format used for lease fields.
const DateLayout = "2006-01-02"

// PropertyCreateRequest payload for new listings.
type PropertyCreateRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Bedrooms    int      `json:"bedrooms"`
	Bathrooms   int      `json:"bathrooms"`
	Address1    string   `json:"address1"`
	City        string   `json:"city"`
	State       string   `json:"state"`
	Zip         string   `json:"zip"`
	AreaSqft    *int     `json:"areaSqft"`
	Lat         *float64 `json:"lat"`
	Lng         *float64 `json:"lng"`
	Type        string   `json:"type"`
	ListingType string   `json:"listingType"`
	LocationTag string   `json:"locationTag"`
	YearBuilt   *int     `json:"yearBuilt"`
	Images      []string `json:"images"`
}

// ToInput converts the payload to the service input.
func (r PropertyCreateRequest) ToInput() service.PropertyInput {
	return service.PropertyInput{
		Title:        r.Title,
		Description:  r.Description,
		Price:        r.Price,
		Bedrooms:     r.Bedrooms,
		Bathrooms:    r.Bathrooms,
		Address1:     r.Address1,
		City:         r.City,
		State:        r.State,
		Zip:          r.Zip,
		AreaSqft:     r.AreaSqft,
		Lat:          r.Lat,
		Lng:          r.Lng,
		PropertyType: r.Type,
		ListingType:  r.ListingType,
		LocationTag:  r.LocationTag,
		YearBuilt:    r.YearBuilt,
		Images:       r.Images,
	}
}

// PropertyAdvancedRequest payload for tenure and media details.
type PropertyAdvancedRequest struct {
	Tenure          *string  `json:"tenure"`
	LeaseStartDate  *string  `json:"leaseStartDate"`
	LeaseTermYears  *int     `json:"leaseTermYears"`
	LeaseExpiryDate *string  `json:"leaseExpiryDate"`
	FloorPlans      []string `json:"floorPlans"`
	VirtualTours    []string `json:"virtualTours"`
	Documents       []string `json:"documents"`
}

// StatusUpdateRequest carries a new moderation or visit status.
type StatusUpdateRequest struct {
	Status      string     `json:"status"`
	ScheduledAt *time.Time `json:"scheduledAt"`
}

// IDStatusResponse acknowledges a created or updated resource.
type IDStatusResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// PropertyCard is the list representation of a listing.
type PropertyCard struct {
	ID            string  `json:"id"`
	Title         string  `json:"title"`
	City          string  `json:"city"`
	State         string  `json:"state"`
	Price         float64 `json:"price"`
	CoverImageURL *string `json:"coverImageUrl"`
	Bedrooms      int     `json:"bedrooms"`
	Bathrooms     int     `json:"bathrooms"`
	Type          string  `json:"type"`
	Description   string  `json:"description"`
	Status        string  `json:"status"`
	OwnerID       string  `json:"ownerId,omitempty"`
	OwnerEmail    string  `json:"ownerEmail,omitempty"`
	OwnerName     string  `json:"ownerName,omitempty"`
}

// PropertyDetail is the full representation of one listing.
type PropertyDetail struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	Address1        string   `json:"address1"`
	City            string   `json:"city"`
	State           string   `json:"state"`
	Zip             string   `json:"zip"`
	Price           float64  `json:"price"`
	Bedrooms        int      `json:"bedrooms"`
	Bathrooms       int      `json:"bathrooms"`
	AreaSqft        *int     `json:"areaSqft"`
	Type            string   `json:"type"`
	ListingType     string   `json:"listingType"`
	LocationTag     string   `json:"locationTag"`
	YearBuilt       *int     `json:"yearBuilt"`
	Status          string   `json:"status"`
	Images          []string `json:"images"`
	Lat             *float64 `json:"lat"`
	Lng             *float64 `json:"lng"`
	Tenure          *string  `json:"tenure"`
	LeaseStartDate  *string  `json:"leaseStartDate"`
	LeaseTermYears  *int     `json:"leaseTermYears"`
	LeaseExpiryDate *string  `json:"leaseExpiryDate"`
	FloorPlans      []string `json:"floorPlans"`
	VirtualTours    []string `json:"virtualTours"`
	Documents       []string `json:"documents"`
}

// PageResponse is a page of results.
type PageResponse[T any] struct {
	Content       []T   `json:"content"`
	Page          int   `json:"page"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
}

// NewCard maps a listing to its card. Owner fields are filled only when withOwner is set.
func NewCard(p domain.Property, withOwner bool) PropertyCard {
	card := PropertyCard{
		ID:            p.ID,
		Title:         p.Title,
		City:          p.City,
		State:         p.State,
		Price:         p.Price,
		CoverImageURL: p.CoverImageURL(),
		Bedrooms:      p.Bedrooms,
		Bathrooms:     p.Bathrooms,
		Type:          p.PropertyType,
		Description:   p.Description,
		Status:        string(p.Status),
	}
	if withOwner && p.Owner != nil {
		card.OwnerID = p.Owner.ID
		card.OwnerEmail = p.Owner.Email
		card.OwnerName = p.Owner.DisplayName()
	}
	return card
}

// NewCardList maps listings to cards.
func NewCardList(items []domain.Property, withOwner bool) []PropertyCard {
	cards := make([]PropertyCard, 0, len(items))
	for _, p := range items {
		cards = append(cards, NewCard(p, withOwner))
	}
	return cards
}

// NewCardPage maps a service page to the wire page.
func NewCardPage(page service.Page[domain.Property], withOwner bool) PageResponse[PropertyCard] {
	return PageResponse[PropertyCard]{
		Content:       NewCardList(page.Items, withOwner),
		Page:          page.Page,
		Size:          page.Size,
		TotalElements: page.TotalItems,
		TotalPages:    page.TotalPages(),
	}
}

// NewDetail maps a listing with its gallery.
func NewDetail(p *domain.Property) PropertyDetail {
	images := make([]string, 0, len(p.Images))
	for _, img := range p.Images {
		images = append(images, img.URL)
	}
	return PropertyDetail{
		ID:              p.ID,
		Title:           p.Title,
		Description:     p.Description,
		Address1:        p.Address1,
		City:            p.City,
		State:           p.State,
		Zip:             p.Zip,
		Price:           p.Price,
		Bedrooms:        p.Bedrooms,
		Bathrooms:       p.Bathrooms,
		AreaSqft:        p.AreaSqft,
		Type:            p.PropertyType,
		ListingType:     p.ListingType,
		LocationTag:     p.LocationTag,
		YearBuilt:       p.YearBuilt,
		Status:          string(p.Status),
		Images:          images,
		Lat:             p.Lat,
		Lng:             p.Lng,
		Tenure:          p.Tenure,
		LeaseStartDate:  formatDate(p.LeaseStartDate),
		LeaseTermYears:  p.LeaseTermYears,
		LeaseExpiryDate: formatDate(p.LeaseExpiryDate),
		FloorPlans:      nonNil(p.FloorPlans),
		VirtualTours:    nonNil(p.VirtualTours),
		Documents:       nonNil(p.Documents),
	}
}

// ImageResponse is one gallery entry.
type ImageResponse struct {
	ID         string  `json:"id"`
	URL        string  `json:"url"`
	StorageKey *string `json:"storageKey,omitempty"`
	Sort       int     `json:"sort"`
}

// NewImageList maps gallery entries.
func NewImageList(images []domain.PropertyImage) []ImageResponse {
	out := make([]ImageResponse, 0, len(images))
	for _, img := range images {
		out = append(out, ImageResponse{ID: img.ID, URL: img.URL, StorageKey: img.StorageKey, Sort: img.Sort})
	}
	return out
}

// UploadURLRequest asks for a presigned upload.
type UploadURLRequest struct {
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
}

// UploadURLResponse is a presigned upload.
type UploadURLResponse struct {
	UploadURL  string    `json:"uploadUrl"`
	StorageKey string    `json:"storageKey"`
	PublicURL  string    `json:"publicUrl"`
	ExpiresAt  time.Time `json:"expiresAt"`
}

// ImageRegisterRequest registers an uploaded or external image.
type ImageRegisterRequest struct {
	URL        string `json:"url"`
	StorageKey string `json:"storageKey"`
	Sort       *int   `json:"sort"`
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(DateLayout)
	return &s
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
