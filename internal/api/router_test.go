package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ruckwatch/ruckwatch/internal/api"
	mw "github.com/ruckwatch/ruckwatch/internal/api/middleware"
	"github.com/ruckwatch/ruckwatch/internal/cache"
	"github.com/ruckwatch/ruckwatch/internal/store"
	"github.com/ruckwatch/ruckwatch/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- stub store that returns no keys (all auth fails) ---

type stubStore struct{}

func (s *stubStore) Ping(_ context.Context) error { return nil }
func (s *stubStore) GetDefaultOwner(_ context.Context) (*models.Owner, error) {
	return nil, store.ErrNotFound
}
func (s *stubStore) GetAPIKeyByPrefix(_ context.Context, _ string) ([]*models.APIKey, error) {
	return nil, nil
}
func (s *stubStore) UpdateAPIKeyLastUsed(_ context.Context, _ uuid.UUID) error { return nil }
func (s *stubStore) CreateAPIKey(_ context.Context, _ *models.APIKey) error    { return nil }
func (s *stubStore) InsertJob(_ context.Context, _ *models.AnalysisJob) error  { return nil }
func (s *stubStore) ListJobs(_ context.Context, _ uuid.UUID) ([]*models.AnalysisJob, error) {
	return nil, nil
}
func (s *stubStore) GetJob(_ context.Context, _ uuid.UUID, _ uuid.UUID) (*models.AnalysisJob, error) {
	return nil, store.ErrNotFound
}
func (s *stubStore) UpdateJobStatus(_ context.Context, _ uuid.UUID, _ models.JobStatus, _ ...store.JobUpdateOption) error {
	return nil
}
func (s *stubStore) DeleteJob(_ context.Context, _ uuid.UUID, _ uuid.UUID) error { return nil }

// --- stub cache ---

type stubCache struct{}

func (c *stubCache) Set(_ context.Context, _ string, _ []byte, _ time.Duration) error { return nil }
func (c *stubCache) Get(_ context.Context, _ string) ([]byte, bool, error)            { return nil, false, nil }
func (c *stubCache) Delete(_ context.Context, _ string) error                         { return nil }
func (c *stubCache) Ping(_ context.Context) error                                     { return nil }
func (c *stubCache) SetJobStatus(_ context.Context, _, _ uuid.UUID, _ models.JobStatus, _ time.Duration) error {
	return nil
}
func (c *stubCache) GetJobStatus(_ context.Context, _, _ uuid.UUID) (models.JobStatus, bool, error) {
	return "", false, nil
}
func (c *stubCache) DeleteJobStatus(_ context.Context, _, _ uuid.UUID) error { return nil }
func (c *stubCache) IncrWithExpiry(_ context.Context, _ string, _ time.Duration) (int64, error) {
	return 1, nil
}

// --- router tests ---

func newTestRouter() http.Handler {
	return api.NewRouter(api.Dependencies{
		Auth:      mw.NewAuth(&stubStore{}),
		RateLimit: mw.NewRateLimit(&stubCache{}, 60),
		HealthHandler: func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"status":"ok"}`))
		},
	})
}

func TestRouter_HealthEndpoint_Public(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest("GET", "/api/v1/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_ProtectedEndpoints_RequireAuth(t *testing.T) {
	router := newTestRouter()

	jobID := uuid.New().String()
	endpoints := []struct {
		method string
		path   string
	}{
		{"POST", "/api/v1/videos"},
		{"POST", "/api/v1/jobs"},
		{"GET", "/api/v1/jobs"},
		{"GET", "/api/v1/jobs/" + jobID},
		{"GET", "/api/v1/jobs/" + jobID + "/status"},
		{"GET", "/api/v1/jobs/" + jobID + "/results"},
		{"GET", "/api/v1/jobs/watch"},
	}

	for _, ep := range endpoints {
		t.Run(ep.method+" "+ep.path, func(t *testing.T) {
			req := httptest.NewRequest(ep.method, ep.path, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)

			var body map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			errObj := body["error"].(map[string]any)
			assert.Equal(t, "INVALID_TOKEN", errObj["code"])
		})
	}
}

func TestRouter_NotFound(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest("GET", "/api/v1/nonexistent", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

// Verify the stubs satisfy the real interfaces
var _ store.Store = (*stubStore)(nil)
var _ cache.Cache = (*stubCache)(nil)
