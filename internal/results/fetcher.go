// Package results fetches and assembles a completed job's result artifacts:
// summary.json and the tackles/rucks event tables. Each artifact is fetched
// independently; a failure degrades that artifact to empty and never aborts
// the siblings or surfaces to the caller.
package results

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/ruckwatch/ruckwatch/internal/ingest"
	"github.com/ruckwatch/ruckwatch/internal/storage"
	"github.com/ruckwatch/ruckwatch/pkg/models"
)

// Artifact names under a job's results location. This layout is the contract
// with the vision worker and must not change.
const (
	summaryArtifact = "summary.json"
	tacklesArtifact = "tackles.csv"
	rucksArtifact   = "rucks.csv"
)

// ResultSet is a job's combined results, ready for presentation. Absent
// artifacts yield a nil Summary and empty event slices.
type ResultSet struct {
	Summary *models.ResultSummary `json:"summary"`
	Tackles []models.TackleEvent  `json:"tackles"`
	Rucks   []models.RuckEvent    `json:"rucks"`
}

// Fetcher loads result artifacts through signed URLs. It is stateless: Load
// is idempotent and safe to invoke again while a previous call for the same
// job is still in flight.
type Fetcher struct {
	signer storage.Signer
	client *http.Client
}

// NewFetcher creates a Fetcher. timeout bounds each artifact fetch.
func NewFetcher(signer storage.Signer, timeout time.Duration) *Fetcher {
	return &Fetcher{
		signer: signer,
		client: &http.Client{Timeout: timeout},
	}
}

// Load fetches whatever artifacts are available for the job. The three
// fetches run concurrently with no ordering dependency. If the job carries a
// denormalized summary the summary.json fetch is skipped entirely. Load
// never fails: the worst case is an empty ResultSet.
func (f *Fetcher) Load(ctx context.Context, job *models.AnalysisJob) *ResultSet {
	rs := &ResultSet{
		Tackles: []models.TackleEvent{},
		Rucks:   []models.RuckEvent{},
	}
	if !job.ResultsReady() {
		return rs
	}
	base := *job.ResultsLocation

	var wg sync.WaitGroup

	if job.Summary != nil {
		rs.Summary = job.Summary
	} else {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var doc models.ResultSummary
			if f.fetchJSON(ctx, base+"/"+summaryArtifact, &doc) {
				rs.Summary = &doc
			}
		}()
	}

	// Each goroutine writes a distinct ResultSet field; wg.Wait orders the
	// writes before the return.
	wg.Add(2)
	go func() {
		defer wg.Done()
		if text, ok := f.fetchText(ctx, base+"/"+tacklesArtifact); ok {
			rs.Tackles = ingest.TackleEvents(ingest.Decode(text))
		}
	}()
	go func() {
		defer wg.Done()
		if text, ok := f.fetchText(ctx, base+"/"+rucksArtifact); ok {
			rs.Rucks = ingest.RuckEvents(ingest.Decode(text))
		}
	}()

	wg.Wait()
	return rs
}

func (f *Fetcher) fetchJSON(ctx context.Context, path string, dest any) bool {
	body, ok := f.fetch(ctx, path)
	if !ok {
		return false
	}
	if err := json.Unmarshal(body, dest); err != nil {
		slog.Warn("artifact parse failed", "path", path, "error", err)
		return false
	}
	return true
}

func (f *Fetcher) fetchText(ctx context.Context, path string) (string, bool) {
	body, ok := f.fetch(ctx, path)
	if !ok {
		return "", false
	}
	return string(body), true
}

// fetch resolves the path to a signed URL and retrieves it. All failures are
// logged and collapse to "artifact absent".
func (f *Fetcher) fetch(ctx context.Context, path string) ([]byte, bool) {
	url, err := f.signer.SignedURL(ctx, path)
	if err != nil {
		slog.Warn("artifact URL resolution failed", "path", path, "error", err)
		return nil, false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		slog.Warn("artifact request build failed", "path", path, "error", err)
		return nil, false
	}

	resp, err := f.client.Do(req)
	if err != nil {
		slog.Warn("artifact fetch failed", "path", path, "error", err)
		return nil, false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		slog.Warn("artifact fetch failed", "path", path,
			"error", fmt.Sprintf("status %d", resp.StatusCode))
		return nil, false
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		slog.Warn("artifact read failed", "path", path, "error", err)
		return nil, false
	}
	return body, true
}
