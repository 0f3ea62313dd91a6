package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/amanah-profile-site/internal/database"
	"github.com/amanah-profile-site/internal/models"
	"github.com/lib/pq"
)

// jobRepo is the concrete implementation of JobRepository
type jobRepo struct {
	db *database.DB
}

// NewJobRepo creates a new job repository
func NewJobRepo(db *database.DB) JobRepository {
	return &jobRepo{db: db}
}

// Create inserts a new job
func (r *jobRepo) Create(ctx context.Context, job *models.Job) error {
	query := `
		INSERT INTO jobs (id, type, status, urls, attempts, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, query,
		job.ID, job.Type, job.Status, pq.Array(job.URLs), job.Attempts, job.CreatedAt,
	)
	return err
}

// Update stores status, attempts, remaining URLs and timestamps
func (r *jobRepo) Update(ctx context.Context, job *models.Job) error {
	query := `
		UPDATE jobs SET
			status = $1, urls = $2, attempts = $3, last_error = $4,
			started_at = $5, completed_at = $6, next_attempt_at = $7
		WHERE id = $8
	`
	_, err := r.db.ExecContext(ctx, query,
		job.Status, pq.Array(job.URLs), job.Attempts, nullString(job.LastError),
		job.StartedAt, job.CompletedAt, job.NextAttemptAt, job.ID,
	)
	return err
}

// GetByID retrieves a job by ID
func (r *jobRepo) GetByID(ctx context.Context, id string) (*models.Job, error) {
	query := `
		SELECT id, type, status, urls, attempts, last_error, created_at, started_at, completed_at, next_attempt_at
		FROM jobs WHERE id = $1
	`

	var job models.Job
	var lastError sql.NullString
	var startedAt, completedAt, nextAttemptAt sql.NullTime

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&job.ID, &job.Type, &job.Status, pq.Array(&job.URLs), &job.Attempts,
		&lastError, &job.CreatedAt, &startedAt, &completedAt, &nextAttemptAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	job.LastError = lastError.String
	if startedAt.Valid {
		job.StartedAt = &startedAt.Time
	}
	if completedAt.Valid {
		job.CompletedAt = &completedAt.Time
	}
	if nextAttemptAt.Valid {
		job.NextAttemptAt = &nextAttemptAt.Time
	}

	return &job, nil
}

// GetPendingJobs retrieves pending jobs whose retry delay has passed,
// oldest first
func (r *jobRepo) GetPendingJobs(ctx context.Context) ([]*models.Job, error) {
	query := `
		SELECT id, type, urls, attempts, created_at
		FROM jobs
		WHERE status = 'pending' AND (next_attempt_at IS NULL OR next_attempt_at <= NOW())
		ORDER BY created_at
		LIMIT 100
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []*models.Job
	for rows.Next() {
		var job models.Job
		if err := rows.Scan(&job.ID, &job.Type, pq.Array(&job.URLs), &job.Attempts, &job.CreatedAt); err != nil {
			return nil, err
		}
		job.Status = models.JobStatusPending
		jobs = append(jobs, &job)
	}

	return jobs, rows.Err()
}

// MarkJobAsProcessing atomically marks a pending job as processing
func (r *jobRepo) MarkJobAsProcessing(ctx context.Context, jobID string) (bool, error) {
	query := `
		UPDATE jobs SET status = 'processing', started_at = $1
		WHERE id = $2 AND status = 'pending'
	`
	result, err := r.db.ExecContext(ctx, query, time.Now(), jobID)
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

// RequeueStale returns processing jobs started before the cutoff to
// pending. A worker that died mid-job leaves its row in processing.
func (r *jobRepo) RequeueStale(ctx context.Context, startedBefore time.Time) (int, error) {
	query := `
		UPDATE jobs SET status = 'pending', next_attempt_at = NULL
		WHERE status = 'processing' AND started_at < $1
	`
	result, err := r.db.ExecContext(ctx, query, startedBefore)
	if err != nil {
		return 0, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(rows), nil
}

// CountByStatus returns the number of jobs per status
func (r *jobRepo) CountByStatus(ctx context.Context) (map[models.JobStatus]int, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT status, COUNT(*) FROM jobs GROUP BY status")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[models.JobStatus]int)
	for rows.Next() {
		var status models.JobStatus
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}
