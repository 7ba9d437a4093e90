package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	mw "github.com/ruckwatch/ruckwatch/internal/api/middleware"
	"github.com/ruckwatch/ruckwatch/internal/api/response"
)

// heartbeatInterval keeps idle SSE connections alive through proxies.
const heartbeatInterval = 15 * time.Second

// NewWatchHandler returns an http.HandlerFunc for GET /api/v1/jobs/watch.
// It streams the owner's job changes as server-sent events, one event per
// reconciled change, until the client disconnects.
func NewWatchHandler(sessions SessionProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, ok := mw.GetOwnerID(r)
		if !ok {
			response.Error(w, http.StatusUnauthorized, "INVALID_TOKEN", "Missing owner", nil)
			return
		}

		flusher, ok := w.(http.Flusher)
		if !ok {
			response.Error(w, http.StatusInternalServerError,
				"STREAMING_UNSUPPORTED", "Response writer does not support streaming", nil)
			return
		}

		sess, err := sessions.Session(r.Context(), ownerID)
		if err != nil {
			response.Error(w, http.StatusInternalServerError,
				"INTERNAL_ERROR", "Failed to open session", nil)
			return
		}

		changes, cancel := sess.Watch()
		defer cancel()

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.WriteHeader(http.StatusOK)
		flusher.Flush()

		heartbeat := time.NewTicker(heartbeatInterval)
		defer heartbeat.Stop()

		for {
			select {
			case <-r.Context().Done():
				return
			case <-heartbeat.C:
				fmt.Fprint(w, ": heartbeat\n\n")
				flusher.Flush()
			case change, open := <-changes:
				if !open {
					// Session was reset; the client reconnects and reseeds.
					return
				}
				payload, err := json.Marshal(change.Job)
				if err != nil {
					continue
				}
				fmt.Fprintf(w, "event: %s\ndata: %s\n\n", change.Kind, payload)
				flusher.Flush()
			}
		}
	}
}
