package handler

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ruckwatch/ruckwatch/internal/mirror"
	"github.com/ruckwatch/ruckwatch/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sseEvent is one parsed server-sent event.
type sseEvent struct {
	name string
	data string
}

func readEvent(t *testing.T, r *bufio.Reader) sseEvent {
	t.Helper()
	var ev sseEvent
	for {
		line, err := r.ReadString('\n')
		require.NoError(t, err)
		line = strings.TrimRight(line, "\n")
		switch {
		case line == "" && ev.name != "":
			return ev
		case strings.HasPrefix(line, "event: "):
			ev.name = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			ev.data = strings.TrimPrefix(line, "data: ")
		}
	}
}

func TestWatch_StreamsJobChanges(t *testing.T) {
	ms := newMockStore()
	owner := uuid.New()
	mgr := mirror.NewManager(ms)

	watch := NewWatchHandler(mgr)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		watch(w, withOwner(r, owner))
	}))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	// Wait for the stream's watcher to register before applying changes.
	sess, err := mgr.Session(context.Background(), owner)
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		return sess.Watchers() > 0
	}, time.Second, 10*time.Millisecond)

	job := models.AnalysisJob{
		ID: uuid.New(), OwnerID: owner, DisplayName: "match.mp4",
		Status: models.JobStatusQueued, CreatedAt: time.Now().UTC(),
	}
	mgr.Route(models.JobChange{Kind: models.ChangeInsert, Job: job})

	reader := bufio.NewReader(resp.Body)
	ev := readEvent(t, reader)
	assert.Equal(t, "insert", ev.name)

	var got models.AnalysisJob
	require.NoError(t, json.Unmarshal([]byte(ev.data), &got))
	assert.Equal(t, job.ID, got.ID)
	assert.Equal(t, models.JobStatusQueued, got.Status)

	job.Status = models.JobStatusProcessing
	mgr.Route(models.JobChange{Kind: models.ChangeUpdate, Job: job})

	ev = readEvent(t, reader)
	assert.Equal(t, "update", ev.name)
	require.NoError(t, json.Unmarshal([]byte(ev.data), &got))
	assert.Equal(t, models.JobStatusProcessing, got.Status)
}

func TestWatch_EndsWhenSessionReset(t *testing.T) {
	ms := newMockStore()
	owner := uuid.New()
	mgr := mirror.NewManager(ms)

	watch := NewWatchHandler(mgr)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		watch(w, withOwner(r, owner))
	}))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	sess, err := mgr.Session(context.Background(), owner)
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		return sess.Watchers() > 0
	}, time.Second, 10*time.Millisecond)

	mgr.Reset(owner)

	done := make(chan struct{})
	go func() {
		defer close(done)
		bufio.NewReader(resp.Body).ReadString(0)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("stream did not end after session reset")
	}
}

func TestWatch_MissingOwner(t *testing.T) {
	mgr := mirror.NewManager(newMockStore())
	h := NewWatchHandler(mgr)

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/api/v1/jobs/watch", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
