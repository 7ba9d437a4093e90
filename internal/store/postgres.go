package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ruckwatch/ruckwatch/pkg/models"
)

// PostgresStore implements the Store interface using pgx/v5.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgresStore.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Ping checks database connectivity.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// --- Owners ---

func (s *PostgresStore) GetDefaultOwner(ctx context.Context) (*models.Owner, error) {
	var o models.Owner
	err := s.pool.QueryRow(ctx,
		`SELECT id, email, created_at, updated_at FROM owners WHERE email = 'default@ruckwatch.local' LIMIT 1`,
	).Scan(&o.ID, &o.Email, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get default owner: %w", err)
	}
	return &o, nil
}

// --- API Keys ---

func (s *PostgresStore) GetAPIKeyByPrefix(ctx context.Context, prefix string) ([]*models.APIKey, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, owner_id, name, key_hash, key_prefix, last_used_at, revoked_at, created_at, updated_at
		 FROM api_keys WHERE key_prefix = $1 AND revoked_at IS NULL`, prefix)
	if err != nil {
		return nil, fmt.Errorf("get api key by prefix: %w", err)
	}
	defer rows.Close()

	var keys []*models.APIKey
	for rows.Next() {
		var k models.APIKey
		if err := rows.Scan(&k.ID, &k.OwnerID, &k.Name, &k.KeyHash, &k.KeyPrefix,
			&k.LastUsedAt, &k.RevokedAt, &k.CreatedAt, &k.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan api key: %w", err)
		}
		keys = append(keys, &k)
	}
	return keys, rows.Err()
}

func (s *PostgresStore) UpdateAPIKeyLastUsed(ctx context.Context, id uuid.UUID) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE api_keys SET last_used_at = NOW(), updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("update api key last used: %w", err)
	}
	return nil
}

func (s *PostgresStore) CreateAPIKey(ctx context.Context, key *models.APIKey) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO api_keys (id, owner_id, name, key_hash, key_prefix, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		key.ID, key.OwnerID, key.Name, key.KeyHash, key.KeyPrefix, key.CreatedAt, key.UpdatedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("create api key: %w", err)
	}
	return nil
}

// --- Analysis Jobs ---

const jobColumns = `id, owner_id, source_ref, display_name, status, created_at,
	started_at, finished_at, results_location, error_message, summary`

func (s *PostgresStore) InsertJob(ctx context.Context, job *models.AnalysisJob) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO analysis_jobs (id, owner_id, source_ref, display_name, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		job.ID, job.OwnerID, job.SourceRef, job.DisplayName, job.Status, job.CreatedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("insert job: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListJobs(ctx context.Context, ownerID uuid.UUID) ([]*models.AnalysisJob, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+jobColumns+` FROM analysis_jobs WHERE owner_id = $1 ORDER BY created_at DESC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*models.AnalysisJob
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

func (s *PostgresStore) GetJob(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) (*models.AnalysisJob, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+jobColumns+` FROM analysis_jobs WHERE id = $1 AND owner_id = $2`, id, ownerID)
	job, err := scanJob(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return job, nil
}

// UpdateJobStatus applies a worker-driven transition. Set clauses are built
// only for the options supplied, so untouched fields keep their values.
func (s *PostgresStore) UpdateJobStatus(ctx context.Context, id uuid.UUID, status models.JobStatus, opts ...JobUpdateOption) error {
	var params jobUpdateParams
	for _, opt := range opts {
		opt(&params)
	}

	sets := []string{"status = $2"}
	args := []any{id, status}

	addSet := func(col string, val any) {
		args = append(args, val)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if params.StartedAt != nil {
		addSet("started_at", *params.StartedAt)
	}
	if params.FinishedAt != nil {
		addSet("finished_at", *params.FinishedAt)
	}
	if params.ResultsLocation != nil {
		addSet("results_location", *params.ResultsLocation)
	}
	if params.ErrorMessage != nil {
		addSet("error_message", *params.ErrorMessage)
	}
	if params.Summary != nil {
		addSet("summary", params.Summary)
	}

	query := `UPDATE analysis_jobs SET ` + strings.Join(sets, ", ") + ` WHERE id = $1`
	tag, err := s.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update job status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) DeleteJob(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM analysis_jobs WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanJob(row pgx.Row) (*models.AnalysisJob, error) {
	var j models.AnalysisJob
	if err := row.Scan(&j.ID, &j.OwnerID, &j.SourceRef, &j.DisplayName, &j.Status, &j.CreatedAt,
		&j.StartedAt, &j.FinishedAt, &j.ResultsLocation, &j.ErrorMessage, &j.Summary); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan job: %w", err)
	}
	return &j, nil
}

// isDuplicateKeyError checks for Postgres unique violation (SQLSTATE 23505).
func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// Compile-time check that PostgresStore implements Store.
var _ Store = (*PostgresStore)(nil)
