package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ruckwatch/ruckwatch/internal/store"
	"github.com/ruckwatch/ruckwatch/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStatusCache struct {
	statuses map[string]models.JobStatus
	getErr   error
	sets     int
}

func newStubStatusCache() *stubStatusCache {
	return &stubStatusCache{statuses: make(map[string]models.JobStatus)}
}

func (c *stubStatusCache) key(ownerID, jobID uuid.UUID) string {
	return ownerID.String() + ":" + jobID.String()
}

func (c *stubStatusCache) GetJobStatus(_ context.Context, ownerID, jobID uuid.UUID) (models.JobStatus, bool, error) {
	if c.getErr != nil {
		return "", false, c.getErr
	}
	status, ok := c.statuses[c.key(ownerID, jobID)]
	return status, ok, nil
}

func (c *stubStatusCache) SetJobStatus(_ context.Context, ownerID, jobID uuid.UUID, status models.JobStatus, _ time.Duration) error {
	c.sets++
	c.statuses[c.key(ownerID, jobID)] = status
	return nil
}

type stubJobGetter struct {
	job  *models.AnalysisJob
	gets int
}

func (g *stubJobGetter) GetJob(_ context.Context, id uuid.UUID, ownerID uuid.UUID) (*models.AnalysisJob, error) {
	g.gets++
	if g.job != nil && g.job.ID == id && g.job.OwnerID == ownerID {
		return g.job, nil
	}
	return nil, store.ErrNotFound
}

func statusRequest(owner uuid.UUID, jobID string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/jobs/"+jobID+"/status", nil)
	return withJobID(withOwner(req, owner), jobID)
}

func TestJobStatus_ServedFromCache(t *testing.T) {
	owner := uuid.New()
	jobID := uuid.New()

	sc := newStubStatusCache()
	require.NoError(t, sc.SetJobStatus(context.Background(), owner, jobID, models.JobStatusProcessing, time.Hour))
	sc.sets = 0
	getter := &stubJobGetter{}

	h := NewJobStatusHandler(sc, getter)
	rec := httptest.NewRecorder()
	h(rec, statusRequest(owner, jobID.String()))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	data := decodeData(t, rec)
	assert.Equal(t, "processing", data["status"])
	info := data["status_info"].(map[string]any)
	assert.Equal(t, "Processing", info["label"])
	assert.Zero(t, getter.gets, "cache hit must not read the store")
}

func TestJobStatus_MissFallsBackAndBackfills(t *testing.T) {
	owner := uuid.New()
	job := &models.AnalysisJob{
		ID: uuid.New(), OwnerID: owner, DisplayName: "match.mp4",
		Status: models.JobStatusDone, CreatedAt: time.Now().UTC(),
	}

	sc := newStubStatusCache()
	getter := &stubJobGetter{job: job}

	h := NewJobStatusHandler(sc, getter)
	rec := httptest.NewRecorder()
	h(rec, statusRequest(owner, job.ID.String()))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	data := decodeData(t, rec)
	assert.Equal(t, "done", data["status"])
	assert.Equal(t, 1, getter.gets)
	assert.Equal(t, 1, sc.sets, "miss backfills the cache")

	status, found, err := sc.GetJobStatus(context.Background(), owner, job.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, models.JobStatusDone, status)
}

func TestJobStatus_CacheErrorDegradesToStore(t *testing.T) {
	owner := uuid.New()
	job := &models.AnalysisJob{
		ID: uuid.New(), OwnerID: owner, DisplayName: "match.mp4",
		Status: models.JobStatusQueued, CreatedAt: time.Now().UTC(),
	}

	sc := newStubStatusCache()
	sc.getErr = errors.New("connection refused")
	getter := &stubJobGetter{job: job}

	h := NewJobStatusHandler(sc, getter)
	rec := httptest.NewRecorder()
	h(rec, statusRequest(owner, job.ID.String()))

	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeData(t, rec)
	assert.Equal(t, "queued", data["status"])
	assert.Equal(t, 1, getter.gets)
}

func TestJobStatus_OwnerScoped(t *testing.T) {
	owner := uuid.New()
	jobID := uuid.New()

	// Another owner's cached entry must not answer for this owner.
	sc := newStubStatusCache()
	require.NoError(t, sc.SetJobStatus(context.Background(), uuid.New(), jobID, models.JobStatusDone, time.Hour))
	getter := &stubJobGetter{}

	h := NewJobStatusHandler(sc, getter)
	rec := httptest.NewRecorder()
	h(rec, statusRequest(owner, jobID.String()))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "RESOURCE_NOT_FOUND", decodeErrCode(t, rec))
}

func TestJobStatus_NotFound(t *testing.T) {
	h := NewJobStatusHandler(newStubStatusCache(), &stubJobGetter{})

	rec := httptest.NewRecorder()
	h(rec, statusRequest(uuid.New(), uuid.New().String()))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestJobStatus_InvalidID(t *testing.T) {
	h := NewJobStatusHandler(newStubStatusCache(), &stubJobGetter{})

	rec := httptest.NewRecorder()
	h(rec, statusRequest(uuid.New(), "not-a-uuid"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
