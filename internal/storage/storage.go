// Package storage wraps the object store holding uploaded videos and
// worker-produced result artifacts. Consumers only see the Signer and
// Uploader contracts; signing failures are expected and degrade to
// "artifact absent" at the call site.
package storage

import (
	"context"
	"io"
)

// Signer resolves a stored-object path to a time-limited, pre-authorized URL.
// The URL's validity window is bounded (about an hour); callers must not hold
// one past its window — re-resolve on demand instead.
type Signer interface {
	SignedURL(ctx context.Context, path string) (string, error)
}

// Uploader writes an object to the store.
type Uploader interface {
	Upload(ctx context.Context, path string, body io.Reader, contentType string) error
}
