package domain

import "time"

// Inquiry is a buyer message about a listing. Guests may inquire, so UserID is optional.
type Inquiry struct {
	ID         string
	PropertyID string
	UserID     *string
	Name       string
	Email      string
	Phone      string
	Message    string
	CreatedAt  time.Time
}
