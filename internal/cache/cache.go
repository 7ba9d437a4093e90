package cache

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/ruckwatch/ruckwatch/pkg/models"
)

// JobStatusTTL bounds how long a cached job status may answer for the
// authoritative row before a miss forces a database read.
const JobStatusTTL = time.Hour

// Cache is the caching interface. All cache operations go through here.
// Implementations must be safe for concurrent use.
type Cache interface {
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	SetJobStatus(ctx context.Context, ownerID, jobID uuid.UUID, status models.JobStatus, ttl time.Duration) error
	GetJobStatus(ctx context.Context, ownerID, jobID uuid.UUID) (models.JobStatus, bool, error)
	DeleteJobStatus(ctx context.Context, ownerID, jobID uuid.UUID) error
	IncrWithExpiry(ctx context.Context, key string, expiry time.Duration) (int64, error)
}

// RedisCache implements the Cache interface using go-redis/v9.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache creates a new RedisCache from a Redis URL.
func NewRedisCache(redisURL string) (*RedisCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	return &RedisCache{client: redis.NewClient(opts)}, nil
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl).Err()
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}

func (c *RedisCache) SetJobStatus(ctx context.Context, ownerID, jobID uuid.UUID, status models.JobStatus, ttl time.Duration) error {
	return c.client.Set(ctx, JobStatusKey(ownerID, jobID), string(status), ttl).Err()
}

func (c *RedisCache) GetJobStatus(ctx context.Context, ownerID, jobID uuid.UUID) (models.JobStatus, bool, error) {
	val, err := c.client.Get(ctx, JobStatusKey(ownerID, jobID)).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return models.JobStatus(val), true, nil
}

func (c *RedisCache) DeleteJobStatus(ctx context.Context, ownerID, jobID uuid.UUID) error {
	return c.client.Del(ctx, JobStatusKey(ownerID, jobID)).Err()
}

func (c *RedisCache) IncrWithExpiry(ctx context.Context, key string, expiry time.Duration) (int64, error) {
	pipe := c.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, expiry)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

// Compile-time check that RedisCache implements Cache.
var _ Cache = (*RedisCache)(nil)
