package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"dorm-rental-backend/config"
	"dorm-rental-backend/internal/auth"
	"dorm-rental-backend/internal/model"
	"dorm-rental-backend/internal/mw"
	"dorm-rental-backend/internal/notification"
	"dorm-rental-backend/internal/store"
	"dorm-rental-backend/internal/upload"
)

type testServer struct {
	router  *gin.Engine
	store   store.Store
	hub     *notification.Hub
	metrics *mw.Metrics
	hasher  *auth.Hasher
}

func newTestServer(t *testing.T, allowedOrigins ...string) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:5173"}
	}

	gormDB, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, gormDB.AutoMigrate(model.All()...))

	uploads, err := upload.NewStorage(t.TempDir(), "/uploads", 0)
	require.NoError(t, err)

	ts := &testServer{
		store:   store.NewGormStore(gormDB),
		hub:     notification.NewHub(4),
		metrics: mw.NewMetrics(),
		hasher:  auth.NewHasher(bcrypt.MinCost),
	}
	h := NewHandler(Deps{
		Store:   ts.store,
		Tokens:  auth.NewTokens("test-secret", time.Hour),
		Hasher:  ts.hasher,
		Uploads: uploads,
		Events:  ts.hub,
		Metrics: ts.metrics,
	})
	ts.router = NewRouter(h, RouterOptions{Server: config.ServerConfig{
		RateLimitPerSec: 1000,
		RateLimitBurst:  1000,
		CacheTTL:        time.Minute,
		AllowedOrigins:  allowedOrigins,
	}})
	return ts
}

func (ts *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func (ts *testServer) register(t *testing.T, email string, role auth.Role) string {
	t.Helper()
	w := ts.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"email":    email,
		"password": "correct-horse",
		"role":     role,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[tokenResponse](t, w).Token
}

func (ts *testServer) adminToken(t *testing.T) string {
	t.Helper()
	hash, err := ts.hasher.Hash("admin-password")
	require.NoError(t, err)
	_, err = ts.store.EnsureAdmin(context.Background(), "admin@example.com", hash)
	require.NoError(t, err)

	w := ts.do(t, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "admin@example.com",
		"password": "admin-password",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return decode[tokenResponse](t, w).Token
}

// createDorm submits a dorm as owner and returns its id.
func (ts *testServer) createDorm(t *testing.T, token string, body gin.H) int64 {
	t.Helper()
	w := ts.do(t, http.MethodPost, "/api/owner/dorms", token, body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[DormResponse](t, w).ID
}

func (ts *testServer) approve(t *testing.T, adminToken string, id int64) {
	t.Helper()
	w := ts.do(t, http.MethodPost, fmt.Sprintf("/api/admin/dorms/%d/approve", id), adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}
