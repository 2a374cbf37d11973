package occupancy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dorm-rental-backend/internal/apperr"
)

func TestZeroValueIsVacant(t *testing.T) {
	var s State
	assert.Equal(t, StatusVacant, s.Status())
	assert.False(t, s.IsOccupied())
	assert.True(t, apperr.IsState(s.RequireOccupied()))
}

func TestMoveIn(t *testing.T) {
	moveIn := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	s, err := Vacant().MoveIn(Tenant{Name: "  Somchai ", Phone: "0812345678", MoveInDate: &moveIn})
	require.NoError(t, err)
	assert.Equal(t, StatusOccupied, s.Status())
	assert.NoError(t, s.RequireOccupied())

	tenant, ok := s.Tenant()
	assert.True(t, ok)
	assert.Equal(t, "Somchai", tenant.Name)
	assert.Equal(t, "0812345678", tenant.Phone)
	assert.Equal(t, moveIn, *tenant.MoveInDate)
}

func TestMoveIn_NameOnly(t *testing.T) {
	s, err := Occupied(Tenant{Name: "Malee"})
	require.NoError(t, err)
	assert.True(t, s.IsOccupied())
}

func TestMoveIn_RequiresName(t *testing.T) {
	s, err := Vacant().MoveIn(Tenant{Name: "   ", Phone: "0812345678"})
	assert.True(t, apperr.IsValidation(err))
	assert.False(t, s.IsOccupied())
}

func TestMoveIn_AlreadyOccupied(t *testing.T) {
	s, err := Occupied(Tenant{Name: "Malee"})
	require.NoError(t, err)

	_, err = s.MoveIn(Tenant{Name: "Anan"})
	assert.True(t, apperr.IsState(err))
}

func TestMoveOut_AlwaysLegal(t *testing.T) {
	s, err := Occupied(Tenant{Name: "Malee"})
	require.NoError(t, err)

	out := s.MoveOut()
	assert.Equal(t, StatusVacant, out.Status())
	_, ok := out.Tenant()
	assert.False(t, ok)

	assert.Equal(t, StatusVacant, Vacant().MoveOut().Status())
}

func TestRestore(t *testing.T) {
	s := Restore(true, Tenant{Name: ""})
	assert.True(t, s.IsOccupied(), "persisted rows are trusted as-is")

	s = Restore(false, Tenant{Name: "ghost"})
	_, ok := s.Tenant()
	assert.False(t, ok)
}
