package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/careassist/routetrack/internal/model"
	"github.com/careassist/routetrack/internal/parse"
	"github.com/careassist/routetrack/internal/store"
)

func newTestServeEnv(t *testing.T) *serveEnv {
	t.Helper()
	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "serve.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))

	return &serveEnv{
		parser:  parse.NewParser(),
		store:   st,
		limiter: rate.NewLimiter(rate.Limit(100), 100),
	}
}

func TestServeHealth(t *testing.T) {
	env := newTestServeEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	env.router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestServeUploadRequiresFile(t *testing.T) {
	env := newTestServeEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/upload", nil)
	rec := httptest.NewRecorder()
	env.router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "file")
}

func TestServeUploadThrottled(t *testing.T) {
	env := newTestServeEnv(t)
	env.limiter = rate.NewLimiter(rate.Limit(0), 0)

	req := httptest.NewRequest(http.MethodPost, "/upload", nil)
	rec := httptest.NewRecorder()
	env.router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestServeListVisits(t *testing.T) {
	env := newTestServeEnv(t)
	date := time.Date(2025, 3, 6, 0, 0, 0, 0, time.UTC)
	_, err := env.store.SaveVisits(context.Background(), []model.Visit{
		{StopNumber: 1, BusinessName: "Penrose Hospital", Location: "2222 N Nevada Ave", City: "Colorado Springs"},
	}, date)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/visits?city=Colorado+Springs", nil)
	rec := httptest.NewRecorder()
	env.router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Penrose Hospital")
	assert.Contains(t, rec.Body.String(), `"count":1`)
}

func TestServeListVisitsBadDate(t *testing.T) {
	env := newTestServeEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/visits?date=03-06-2025", nil)
	rec := httptest.NewRecorder()
	env.router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
