package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/ruckwatch/ruckwatch/pkg/models"
)

// JobsChannel is the Postgres NOTIFY channel carrying analysis_jobs changes.
// A trigger installed by the migrations emits one {kind, job} JSON payload
// per committed insert, update, or delete.
const JobsChannel = "analysis_jobs_changes"

const reconnectDelay = time.Second

// Listener consumes the analysis_jobs change stream over a dedicated
// connection and delivers decoded notifications on a channel. Payloads that
// fail to decode are logged and dropped rather than stalling the stream.
type Listener struct {
	connString string
}

// NewListener creates a Listener. The connection is established lazily by Run.
func NewListener(connString string) *Listener {
	return &Listener{connString: connString}
}

// Run listens until ctx is cancelled, reconnecting after transient failures.
// Changes are delivered in notification order for a given job id.
func (l *Listener) Run(ctx context.Context, changes chan<- models.JobChange) {
	for {
		if err := l.listen(ctx, changes); err != nil {
			slog.Error("job change listener disconnected", "error", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(reconnectDelay):
		}
	}
}

func (l *Listener) listen(ctx context.Context, changes chan<- models.JobChange) error {
	conn, err := pgx.Connect(ctx, l.connString)
	if err != nil {
		return fmt.Errorf("connect listener: %w", err)
	}
	defer conn.Close(context.Background())

	if _, err := conn.Exec(ctx, "LISTEN "+JobsChannel); err != nil {
		return fmt.Errorf("listen %s: %w", JobsChannel, err)
	}

	for {
		notification, err := conn.WaitForNotification(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("wait for notification: %w", err)
		}

		var change models.JobChange
		if err := json.Unmarshal([]byte(notification.Payload), &change); err != nil {
			slog.Error("dropping malformed job change payload",
				"error", err, "payload_len", len(notification.Payload))
			continue
		}

		select {
		case changes <- change:
		case <-ctx.Done():
			return nil
		}
	}
}
