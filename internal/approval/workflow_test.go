package approval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dorm-rental-backend/internal/apperr"
)

func TestApprove(t *testing.T) {
	d, err := Approve(StatusPending)
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, d.Status)
	assert.Empty(t, d.RejectReason)
	assert.True(t, d.Status.PubliclyVisible())
}

func TestReject(t *testing.T) {
	d, err := Reject(StatusPending, "  photos missing ")
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, d.Status)
	assert.Equal(t, "photos missing", d.RejectReason)
	assert.False(t, d.Status.PubliclyVisible())
}

func TestReject_RequiresReason(t *testing.T) {
	d, err := Reject(StatusPending, " ")
	assert.True(t, apperr.IsValidation(err))
	assert.Equal(t, StatusPending, d.Status)
}

func TestTerminalStates(t *testing.T) {
	for _, s := range []Status{StatusApproved, StatusRejected} {
		t.Run(string(s), func(t *testing.T) {
			_, err := Approve(s)
			assert.True(t, apperr.IsState(err))

			_, err = Reject(s, "duplicate")
			assert.True(t, apperr.IsState(err))
		})
	}
}

func TestStatus_Valid(t *testing.T) {
	assert.True(t, StatusPending.Valid())
	assert.False(t, Status("archived").Valid())
	assert.False(t, StatusPending.PubliclyVisible())
}
