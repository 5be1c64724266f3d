package domain

import (
	"strings"
	"time"
)

// PropertyStatus is the moderation state of a listing.
type PropertyStatus string

const (
	PropertyStatusPending  PropertyStatus = "PENDING"
	PropertyStatusApproved PropertyStatus = "APPROVED"
	PropertyStatusRejected PropertyStatus = "REJECTED"
)

// ParsePropertyStatus normalizes s and reports whether it names a known status.
func ParsePropertyStatus(s string) (PropertyStatus, bool) {
	status := PropertyStatus(strings.ToUpper(strings.TrimSpace(s)))
	switch status {
	case PropertyStatusPending, PropertyStatusApproved, PropertyStatusRejected:
		return status, true
	}
	return "", false
}

// Property is a listing submitted by an owner.
type Property struct {
	ID           string
	OwnerID      string
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
	Status       PropertyStatus

	Tenure          *string
	LeaseStartDate  *time.Time
	LeaseTermYears  *int
	LeaseExpiryDate *time.Time
	FloorPlans      []string
	VirtualTours    []string
	Documents       []string

	CreatedAt time.Time
	UpdatedAt time.Time

	Images []PropertyImage
	Owner  *User
}

// CoverImageURL returns the first gallery image, if any.
func (p *Property) CoverImageURL() *string {
	if len(p.Images) == 0 {
		return nil
	}
	url := p.Images[0].URL
	return &url
}

// ManageableBy reports whether the caller may edit the listing or read its leads.
func (p *Property) ManageableBy(id Identity) bool {
	return id.IsAdmin() || (id.UserID != "" && id.UserID == p.OwnerID)
}

// VisibleTo reports whether the listing can be shown to the caller.
// Anonymous callers pass a zero Identity.
func (p *Property) VisibleTo(id Identity) bool {
	return p.Status == PropertyStatusApproved || p.ManageableBy(id)
}

// PropertyImage is one entry of a listing's gallery.
type PropertyImage struct {
	ID         string
	PropertyID string
	URL        string
	StorageKey *string
	Sort       int
	CreatedAt  time.Time
}

// StatusSummary counts listings per moderation state.
type StatusSummary struct {
	Pending  int64 `json:"pending"`
	Approved int64 `json:"approved"`
	Rejected int64 `json:"rejected"`
	Total    int64 `json:"total"`
}
