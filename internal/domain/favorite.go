package domain

import "time"

// Favorite marks a listing as saved by a user. (UserID, PropertyID) is unique.
type Favorite struct {
	UserID     string
	PropertyID string
	CreatedAt  time.Time
}
