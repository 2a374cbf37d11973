package occupancy

import (
	"strings"
	"time"

	"dorm-rental-backend/internal/apperr"
)

// Status is the occupancy status of a room.
type Status string

const (
	StatusVacant   Status = "vacant"
	StatusOccupied Status = "occupied"
)

// Tenant identifies who lives in an occupied room.
type Tenant struct {
	Name       string
	Phone      string
	MoveInDate *time.Time
}

// State is either Vacant or Occupied(tenant). The zero value is Vacant.
type State struct {
	occupied bool
	tenant   Tenant
}

// Vacant returns the vacant state.
func Vacant() State {
	return State{}
}

// Occupied builds an occupied state, validating the tenant.
func Occupied(t Tenant) (State, error) {
	return Vacant().MoveIn(t)
}

// Restore rebuilds a state from persisted columns without re-validating the tenant.
func Restore(occupied bool, t Tenant) State {
	if !occupied {
		return Vacant()
	}
	return State{occupied: true, tenant: t}
}

// Status returns the state's status label.
func (s State) Status() Status {
	if s.occupied {
		return StatusOccupied
	}
	return StatusVacant
}

// IsOccupied reports whether a tenant is in the room.
func (s State) IsOccupied() bool { return s.occupied }

// Tenant returns the current tenant; the second result is false when vacant.
func (s State) Tenant() (Tenant, bool) {
	return s.tenant, s.occupied
}

// MoveIn transitions Vacant -> Occupied. A tenant name is required.
func (s State) MoveIn(t Tenant) (State, error) {
	if s.occupied {
		return s, apperr.State("room is already occupied by %s", s.tenant.Name)
	}
	t.Name = strings.TrimSpace(t.Name)
	t.Phone = strings.TrimSpace(t.Phone)
	if t.Name == "" {
		return s, apperr.Validation("tenant name is required")
	}
	return State{occupied: true, tenant: t}, nil
}

// MoveOut transitions to Vacant. It is legal from any state.
func (s State) MoveOut() State {
	return Vacant()
}

// RequireOccupied returns a StateError when the room has no tenant.
func (s State) RequireOccupied() error {
	if !s.occupied {
		return apperr.State("room is vacant; utility billing requires an occupied room")
	}
	return nil
}
