package approval

import (
	"strings"

	"dorm-rental-backend/internal/apperr"
)

// Status is the admin review status of a dorm listing.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// PubliclyVisible reports whether customers may see a listing in this status.
func (s Status) PubliclyVisible() bool {
	return s == StatusApproved
}

// Decision is the outcome of an admin review.
type Decision struct {
	Status       Status
	RejectReason string
}

// Approve moves a pending listing to approved.
func Approve(current Status) (Decision, error) {
	if current != StatusPending {
		return Decision{Status: current}, apperr.State("dorm is %s; only pending dorms can be approved", current)
	}
	return Decision{Status: StatusApproved}, nil
}

// Reject moves a pending listing to rejected. A reason is required.
func Reject(current Status, reason string) (Decision, error) {
	if current != StatusPending {
		return Decision{Status: current}, apperr.State("dorm is %s; only pending dorms can be rejected", current)
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return Decision{Status: current}, apperr.Validation("reject reason is required")
	}
	return Decision{Status: StatusRejected, RejectReason: reason}, nil
}
