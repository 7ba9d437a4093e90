package cache

import (
	"fmt"

	"github.com/google/uuid"
)

// SignedURLKey caches a resolved signed URL for one stored object. Entries
// expire before the URL's validity window closes, forcing a re-resolve
// instead of handing out a stale link.
func SignedURLKey(bucket, path string) string {
	return fmt.Sprintf("signedurl:%s:%s", bucket, path)
}

// JobStatusKey caches a job's last observed status. Scoping by owner keeps
// a cached entry from answering for another owner's job.
func JobStatusKey(ownerID, jobID uuid.UUID) string {
	return fmt.Sprintf("job:%s:%s", ownerID, jobID)
}

func RateLimitKey(keyPrefix string) string {
	return fmt.Sprintf("ratelimit:%s", keyPrefix)
}
