package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ruckwatch/ruckwatch/internal/cache"
	"github.com/ruckwatch/ruckwatch/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupRedis spins up a Redis container and returns a connected RedisCache.
func setupRedis(t *testing.T) *cache.RedisCache {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
	}
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, container.Terminate(ctx)) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	redisURL := "redis://" + host + ":" + port.Port()
	rc, err := cache.NewRedisCache(redisURL)
	require.NoError(t, err)

	return rc
}

func TestPing(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	rc := setupRedis(t)
	assert.NoError(t, rc.Ping(context.Background()))
}

func TestSetGet_Roundtrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	rc := setupRedis(t)
	ctx := context.Background()

	key := cache.SignedURLKey("results", "u1/123/tackles.csv")
	require.NoError(t, rc.Set(ctx, key, []byte("https://signed.example/x"), 10*time.Second))

	val, found, err := rc.Get(ctx, key)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte("https://signed.example/x"), val)
}

func TestGet_NotFound(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	rc := setupRedis(t)

	val, found, err := rc.Get(context.Background(), "nonexistent:key")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, val)
}

func TestSet_Expiry(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	rc := setupRedis(t)
	ctx := context.Background()

	require.NoError(t, rc.Set(ctx, "expiring:key", []byte("v"), 500*time.Millisecond))
	time.Sleep(time.Second)

	_, found, err := rc.Get(ctx, "expiring:key")
	require.NoError(t, err)
	assert.False(t, found, "entry should have expired")
}

func TestJobStatus_Roundtrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	rc := setupRedis(t)
	ctx := context.Background()
	ownerID := uuid.New()
	jobID := uuid.New()

	status, found, err := rc.GetJobStatus(ctx, ownerID, jobID)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, status)

	require.NoError(t, rc.SetJobStatus(ctx, ownerID, jobID, models.JobStatusProcessing, time.Minute))

	status, found, err = rc.GetJobStatus(ctx, ownerID, jobID)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, models.JobStatusProcessing, status)

	// The entry is owner-scoped: another owner never sees it.
	_, found, err = rc.GetJobStatus(ctx, uuid.New(), jobID)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, rc.DeleteJobStatus(ctx, ownerID, jobID))
	_, found, err = rc.GetJobStatus(ctx, ownerID, jobID)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestIncrWithExpiry(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	rc := setupRedis(t)
	ctx := context.Background()
	key := cache.RateLimitKey("rw_abcde")

	n, err := rc.IncrWithExpiry(ctx, key, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = rc.IncrWithExpiry(ctx, key, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}
