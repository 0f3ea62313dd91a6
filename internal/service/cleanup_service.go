package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/amanah-profile-site/internal/config"
	"github.com/amanah-profile-site/internal/models"
	"github.com/amanah-profile-site/internal/repository"
	"github.com/amanah-profile-site/internal/storage"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// cleanupService removes stored objects that no row references anymore.
// Jobs are persisted so a restart does not leak objects.
type cleanupService struct {
	jobRepo     repository.JobRepository
	store       storage.Store
	interval    time.Duration
	maxAttempts int
	retryDelay  time.Duration
	maxDelay    time.Duration
	staleAfter  time.Duration
	log         zerolog.Logger
	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	running     bool
	mu          sync.Mutex
	// Semaphore: buffered channel limiting concurrent deletions
	sem chan struct{}
}

func newCleanupService(jobRepo repository.JobRepository, store storage.Store, cfg config.CleanupConfig, log zerolog.Logger) *cleanupService {
	maxWorkers := cfg.MaxWorkers
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	interval := cfg.PollInterval
	if interval <= 0 {
		interval = 2 * time.Second
	}
	maxAttempts := cfg.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	retryDelay := cfg.RetryDelay
	if retryDelay <= 0 {
		retryDelay = interval
	}
	maxDelay := cfg.MaxRetryDelay
	if maxDelay < retryDelay {
		maxDelay = retryDelay
	}
	staleAfter := cfg.StaleAfter
	if staleAfter <= 0 {
		staleAfter = 15 * time.Minute
	}

	return &cleanupService{
		jobRepo:     jobRepo,
		store:       store,
		interval:    interval,
		maxAttempts: maxAttempts,
		retryDelay:  retryDelay,
		maxDelay:    maxDelay,
		staleAfter:  staleAfter,
		log:         log.With().Str("service", "cleanup").Logger(),
		ctx:         context.Background(),
		sem:         make(chan struct{}, maxWorkers),
	}
}

// Enqueue records a cleanup job for the URLs the store owns. Foreign and
// duplicate URLs are dropped; nothing is queued when none remain.
func (s *cleanupService) Enqueue(ctx context.Context, urls []string) (*models.Job, error) {
	seen := make(map[string]bool, len(urls))
	var owned []string
	for _, u := range urls {
		if u == "" || seen[u] || s.store == nil || !s.store.Owns(u) {
			continue
		}
		seen[u] = true
		owned = append(owned, u)
	}
	if len(owned) == 0 {
		return nil, nil
	}

	job := &models.Job{
		ID:        uuid.New().String(),
		Type:      models.JobTypeStorageCleanup,
		Status:    models.JobStatusPending,
		URLs:      owned,
		CreatedAt: time.Now(),
	}
	if err := s.jobRepo.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to create cleanup job: %w", err)
	}

	s.log.Info().Str("job_id", job.ID).Int("urls", len(owned)).Msg("Cleanup job created")
	return job, nil
}

// StartProcessor polls for pending jobs until ctx is cancelled or
// StopProcessor is called. It blocks.
func (s *cleanupService) StartProcessor(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.ctx, s.cancel = context.WithCancel(ctx)
	runCtx := s.ctx
	s.mu.Unlock()

	s.log.Info().Dur("interval", s.interval).Int("max_workers", cap(s.sem)).Msg("Cleanup processor started")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-runCtx.Done():
			s.log.Info().Msg("Cleanup processor stopping")
			return
		case <-ticker.C:
			s.processPendingJobs(runCtx)
		}
	}
}

// StopProcessor cancels the poll loop and waits for running jobs
func (s *cleanupService) StopProcessor() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	s.cancel()
	s.wg.Wait()
	s.running = false
	s.log.Info().Msg("Cleanup processor stopped")
}

// processPendingJobs requeues stale jobs, then claims and runs every
// pending job that is due
func (s *cleanupService) processPendingJobs(ctx context.Context) {
	if n, err := s.jobRepo.RequeueStale(ctx, time.Now().Add(-s.staleAfter)); err != nil {
		s.log.Error().Err(err).Msg("Failed to requeue stale jobs")
	} else if n > 0 {
		s.log.Warn().Int("jobs", n).Dur("stale_after", s.staleAfter).Msg("Requeued stale cleanup jobs")
	}

	jobs, err := s.jobRepo.GetPendingJobs(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to get pending jobs")
		return
	}

	for _, job := range jobs {
		// Blocks while all workers are busy
		select {
		case s.sem <- struct{}{}:
		case <-ctx.Done():
			return
		}

		// Mark as processing atomically
		marked, err := s.jobRepo.MarkJobAsProcessing(ctx, job.ID)
		if err != nil || !marked {
			<-s.sem
			continue
		}

		s.wg.Add(1)
		go func(j *models.Job) {
			defer s.wg.Done()
			defer func() { <-s.sem }()

			defer func() {
				if r := recover(); r != nil {
					s.log.Error().
						Interface("panic", r).
						Str("job_id", j.ID).
						Msg("Cleanup job panicked - recovered")
					j.Status = models.JobStatusFailed
					j.LastError = fmt.Sprint(r)
					s.jobRepo.Update(context.Background(), j)
				}
			}()
			s.processJob(ctx, j)
		}(job)
	}
}

// processJob deletes the job's objects. A failed attempt goes back to
// pending behind a retry delay until maxAttempts is reached.
func (s *cleanupService) processJob(ctx context.Context, job *models.Job) {
	select {
	case <-ctx.Done():
		s.log.Warn().Str("job_id", job.ID).Msg("Cleanup cancelled due to shutdown")
		job.Status = models.JobStatusPending
		s.jobRepo.Update(context.Background(), job)
		return
	default:
	}

	now := time.Now()
	job.StartedAt = &now
	job.Attempts++

	s.log.Info().Str("job_id", job.ID).Int("urls", len(job.URLs)).Int("attempt", job.Attempts).Msg("Processing cleanup job")

	removed, err := s.store.Delete(ctx, job.URLs)
	if err != nil {
		job.LastError = err.Error()
		if job.Attempts >= s.maxAttempts {
			job.Status = models.JobStatusFailed
			completed := time.Now()
			job.CompletedAt = &completed
		} else {
			job.Status = models.JobStatusPending
			next := time.Now().Add(s.backoff(job.Attempts))
			job.NextAttemptAt = &next
		}
		s.log.Error().Err(err).Str("job_id", job.ID).Str("status", string(job.Status)).Msg("Cleanup attempt failed")
	} else {
		job.Status = models.JobStatusCompleted
		job.LastError = ""
		job.NextAttemptAt = nil
		completed := time.Now()
		job.CompletedAt = &completed
		s.log.Info().
			Str("job_id", job.ID).
			Int("removed", removed).
			Dur("duration", completed.Sub(now)).
			Msg("Cleanup job completed")
	}

	if err := s.jobRepo.Update(context.Background(), job); err != nil {
		s.log.Error().Err(err).Str("job_id", job.ID).Msg("Failed to save cleanup job")
	}
}

// backoff returns the wait before the attempt after the given one.
func (s *cleanupService) backoff(attempts int) time.Duration {
	d := s.retryDelay
	for i := 1; i < attempts && d < s.maxDelay; i++ {
		d *= 2
	}
	if d > s.maxDelay {
		d = s.maxDelay
	}
	return d
}

// GetJob retrieves a job by ID
func (s *cleanupService) GetJob(ctx context.Context, id string) (*models.Job, error) {
	job, err := s.jobRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, ErrNotFound
	}
	return job, nil
}

// Stats returns the number of jobs per status
func (s *cleanupService) Stats(ctx context.Context) (map[models.JobStatus]int, error) {
	return s.jobRepo.CountByStatus(ctx)
}
