package models

import (
	"time"
)

// JobStatus represents the status of a background job
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// JobType represents the type of job
type JobType string

const (
	// JobTypeStorageCleanup removes uploaded objects that no row references anymore.
	JobTypeStorageCleanup JobType = "storage_cleanup"
)

// Job is a queued background job.
type Job struct {
	ID          string     `json:"job_id" db:"id"`
	Type        JobType    `json:"type" db:"type"`
	Status      JobStatus  `json:"status" db:"status"`
	URLs        []string   `json:"urls" db:"urls"`
	Attempts    int        `json:"attempts" db:"attempts"`
	LastError   string     `json:"last_error,omitempty" db:"last_error"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	StartedAt   *time.Time `json:"started_at,omitempty" db:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty" db:"completed_at"`
	// NextAttemptAt holds a failed job back until the retry delay has passed.
	NextAttemptAt *time.Time `json:"next_attempt_at,omitempty" db:"next_attempt_at"`
}

// LineError is a validation error tied to an input line of an import.
type LineError struct {
	Line    int         `json:"line"`
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

// ImportReport summarises a finished import.
type ImportReport struct {
	Resource   string      `json:"resource"`
	Total      int         `json:"total"`
	Successful int         `json:"successful"`
	Failed     int         `json:"failed"`
	DurationMs int64       `json:"duration_ms"`
	Errors     []LineError `json:"errors,omitempty"`
}
