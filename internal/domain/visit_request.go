package domain

import (
	"strings"
	"time"
)

// VisitStatus is the lifecycle of a viewing request.
type VisitStatus string

const (
	VisitStatusPending   VisitStatus = "PENDING"
	VisitStatusConfirmed VisitStatus = "CONFIRMED"
	VisitStatusDeclined  VisitStatus = "DECLINED"
)

// ParseVisitStatus normalizes s and reports whether it names a known status.
func ParseVisitStatus(s string) (VisitStatus, bool) {
	status := VisitStatus(strings.ToUpper(strings.TrimSpace(s)))
	switch status {
	case VisitStatusPending, VisitStatusConfirmed, VisitStatusDeclined:
		return status, true
	}
	return "", false
}

// VisitRequest asks the owner of a listing for a viewing slot.
type VisitRequest struct {
	ID          string
	PropertyID  string
	UserID      string
	PreferredAt time.Time
	ScheduledAt *time.Time
	Status      VisitStatus
	Note        string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
