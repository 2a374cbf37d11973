package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dorm-rental-backend/internal/region"
)

func TestRegions(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodGet, "/api/regions/provinces", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]region.Province](t, w), 77)

	w = ts.do(t, http.MethodGet, "/api/regions/provinces/10/districts", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	for _, d := range decode[[]region.District](t, w) {
		assert.Equal(t, 10, d.ProvinceID)
	}

	w = ts.do(t, http.MethodGet, "/api/regions/districts/1007/subdistricts", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]region.Subdistrict](t, w), 4)

	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodGet, "/api/regions/provinces/999/districts", "", nil).Code)
	assert.Equal(t, http.StatusBadRequest, ts.do(t, http.MethodGet, "/api/regions/provinces/x/districts", "", nil).Code)
}

func TestHealthAndMetrics(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodGet, "/api/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"UP","database":"ok"}`, w.Body.String())

	w = ts.do(t, http.MethodGet, "/api/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "dorm_http_requests_total")
}

func TestCORSPreflight(t *testing.T) {
	ts := newTestServer(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/owner/dorms", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "POST")
	req.Header.Set("Access-Control-Request-Headers", "authorization,content-type")
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "authorization,content-type", w.Header().Get("Access-Control-Allow-Headers"))
}

func TestCachedListingCORSFollowsCaller(t *testing.T) {
	ts := newTestServer(t, "https://a.example", "https://b.example")

	get := func(origin string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/dorms", nil)
		req.Header.Set("Origin", origin)
		w := httptest.NewRecorder()
		ts.router.ServeHTTP(w, req)
		return w
	}

	a := get("https://a.example")
	require.Equal(t, http.StatusOK, a.Code)
	assert.Equal(t, "MISS", a.Header().Get("X-Cache"))
	assert.Equal(t, "https://a.example", a.Header().Get("Access-Control-Allow-Origin"))

	b := get("https://b.example")
	require.Equal(t, http.StatusOK, b.Code)
	assert.Equal(t, "HIT", b.Header().Get("X-Cache"))
	assert.Equal(t, "https://b.example", b.Header().Get("Access-Control-Allow-Origin"))
}
