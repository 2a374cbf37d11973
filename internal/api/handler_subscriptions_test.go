package api

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPutSubscriptionRequiresKeys(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodPut, "/api/subscriptions", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(t, http.MethodPut, "/api/subscriptions", "", gin.H{"endpoint": "https://push.example/abc"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubscriptionLifecycle(t *testing.T) {
	ts := newTestServer(t)
	endpoint := "https://push.example/send/abc"
	query := "/api/subscriptions?endpoint=" + endpoint

	assert.Equal(t, http.StatusBadRequest, ts.do(t, http.MethodGet, "/api/subscriptions", "", nil).Code)
	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodGet, query, "", nil).Code)

	sub := gin.H{"endpoint": endpoint, "p256dh": "key-1", "auth": "secret-1"}
	require.Equal(t, http.StatusCreated, ts.do(t, http.MethodPut, "/api/subscriptions", "", sub).Code)

	sub["p256dh"] = "key-2"
	require.Equal(t, http.StatusCreated, ts.do(t, http.MethodPut, "/api/subscriptions", "", sub).Code)

	saved, err := ts.store.GetSubscription(t.Context(), endpoint)
	require.NoError(t, err)
	assert.Equal(t, "key-2", saved.P256DH)

	w := ts.do(t, http.MethodGet, query, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, endpoint, decode[map[string]any](t, w)["endpoint"])

	// Endpoints are matched as sent, without decoding.
	escaped := "/api/subscriptions?endpoint=" + url.QueryEscape(endpoint)
	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodGet, escaped, "", nil).Code)

	w = ts.do(t, http.MethodDelete, "/api/subscriptions", "", gin.H{"endpoint": endpoint})
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodGet, query, "", nil).Code)
}

func TestGetVAPIDPublicKeyUnconfigured(t *testing.T) {
	ts := newTestServer(t)
	w := ts.do(t, http.MethodGet, "/api/vapid_public_key", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
