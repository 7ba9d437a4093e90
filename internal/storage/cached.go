package storage

import (
	"context"
	"log/slog"
	"time"

	"github.com/ruckwatch/ruckwatch/internal/cache"
)

// cacheMargin is subtracted from the URL TTL when caching, so a cached URL
// always has usable life left when handed out.
const cacheMargin = 5 * time.Minute

// CachedSigner caches resolved signed URLs in Redis for slightly less than
// their validity window. A URL that outlives its cache entry is re-resolved
// rather than reused. Cache failures fall through to the inner signer.
type CachedSigner struct {
	inner    Signer
	cache    cache.Cache
	bucket   string
	cacheTTL time.Duration
}

// NewCachedSigner wraps inner with a cache. urlTTL is the validity window of
// URLs produced by inner; bucket namespaces the cache keys.
func NewCachedSigner(inner Signer, c cache.Cache, bucket string, urlTTL time.Duration) *CachedSigner {
	cacheTTL := urlTTL - cacheMargin
	if cacheTTL < time.Minute {
		cacheTTL = time.Minute
	}
	return &CachedSigner{inner: inner, cache: c, bucket: bucket, cacheTTL: cacheTTL}
}

func (s *CachedSigner) SignedURL(ctx context.Context, path string) (string, error) {
	key := cache.SignedURLKey(s.bucket, path)

	if val, found, err := s.cache.Get(ctx, key); err == nil && found {
		return string(val), nil
	} else if err != nil {
		slog.Warn("signed URL cache read failed", "error", err, "path", path)
	}

	url, err := s.inner.SignedURL(ctx, path)
	if err != nil {
		return "", err
	}

	if err := s.cache.Set(ctx, key, []byte(url), s.cacheTTL); err != nil {
		slog.Warn("signed URL cache write failed", "error", err, "path", path)
	}
	return url, nil
}

var _ Signer = (*CachedSigner)(nil)
