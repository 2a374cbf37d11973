package store

import (
	"dorm-rental-backend/internal/apperr"
	"dorm-rental-backend/internal/auth"
)

type columnSet map[string]struct{}

func columns(names ...string) columnSet {
	set := make(columnSet, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}

// Columns callers may change through the generic update methods.
var (
	dormColumns = columns(
		"name", "address", "province_id", "district_id", "subdistrict_id",
		"price_daily", "price_monthly", "price_term", "deposit",
		"water_cost", "electricity_cost", "contact_phone",
		"facilities", "near_places", "description", "latitude", "longitude",
	)
	roomColumns = columns(
		"room_number", "floor", "room_type",
		"price_daily", "price_monthly", "price_term", "notes",
	)
	accountColumns = columns("first_name", "last_name", "phone")
	ownerColumns   = columns("first_name", "last_name", "phone", "line_id")
)

// pick copies fields into a fresh map, rejecting any column outside allowed.
func pick(fields map[string]any, allowed columnSet) (map[string]any, error) {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		if _, ok := allowed[k]; !ok {
			return nil, apperr.Validation("field %q cannot be updated", k)
		}
		out[k] = v
	}
	if len(out) == 0 {
		return nil, apperr.Validation("no fields to update")
	}
	return out, nil
}

func profileColumns(role auth.Role) columnSet {
	if role == auth.RoleOwner {
		return ownerColumns
	}
	return accountColumns
}
