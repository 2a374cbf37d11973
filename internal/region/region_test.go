package region

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dorm-rental-backend/internal/apperr"
)

func TestLookups(t *testing.T) {
	provinces := Provinces()
	require.Len(t, provinces, 77)
	for _, p := range provinces {
		assert.Nil(t, p.Districts, "listing is flat")
	}

	bkk, ok := ProvinceByID(10)
	require.True(t, ok)
	assert.Equal(t, "Bangkok", bkk.NameEN)

	districts := Districts(10)
	require.NotEmpty(t, districts)
	for _, d := range districts {
		assert.Equal(t, 10, d.ProvinceID)
	}

	subs := Subdistricts(1007)
	require.Len(t, subs, 4)
	assert.Equal(t, 1007, subs[0].DistrictID)
	assert.Equal(t, "10330", subs[0].Zip)

	phuket, ok := ProvinceByID(83)
	require.True(t, ok)
	assert.Equal(t, "Phuket", phuket.NameEN)
	patong, ok := SubdistrictByID(830202)
	require.True(t, ok)
	assert.Equal(t, 8302, patong.DistrictID)
	assert.Equal(t, "83150", patong.Zip)

	_, ok = DistrictByID(999999)
	assert.False(t, ok)
	assert.Empty(t, Districts(999))
}

func TestAccessorsReturnCopies(t *testing.T) {
	p := Provinces()
	p[0].NameEN = "changed"
	assert.NotEqual(t, "changed", Provinces()[0].NameEN)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate(0, 0, 0))
	assert.NoError(t, Validate(10, 0, 0))
	assert.NoError(t, Validate(10, 1007, 100704))
	assert.NoError(t, Validate(50, 5001, 0))
	assert.NoError(t, Validate(83, 0, 0))
	assert.NoError(t, Validate(20, 0, 0))
	assert.NoError(t, Validate(20, 2004, 0))
	assert.NoError(t, Validate(83, 8302, 830202))
	assert.NoError(t, Validate(96, 0, 0))

	// Codes outside the embedded districts still nest by prefix.
	assert.NoError(t, Validate(10, 1005, 100502))
	assert.NoError(t, Validate(20, 2007, 200701))

	for _, tc := range [][3]int{
		{0, 1007, 0},
		{99, 0, 0},
		{10, 5001, 0},
		{10, 1007, 500101},
		{10, 0, 100704},
		{28, 0, 0},
		{20, 8301, 0},
		{83, 8301, 830201},
		{20, 2000, 0},
		{10, 2101, 0},
		{20, 2007, 2007},
		{20, 2007, 200800},
	} {
		err := Validate(tc[0], tc[1], tc[2])
		assert.True(t, apperr.IsValidation(err), "%v", tc)
	}
}
