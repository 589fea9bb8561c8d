// Package store provides SQLite-backed persistence for generation jobs and
// strategy records.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/socialmize/strategy-engine/internal/model"
)

var (
	// ErrJobNotFound is returned when no job row exists for a job id.
	ErrJobNotFound = errors.New("generation job not found")

	// ErrJobTerminal is returned when updating a job that already reached
	// a terminal status. Terminal rows are immutable.
	ErrJobTerminal = errors.New("generation job already terminal")

	// ErrStrategyNotFound is returned when no strategy record matches.
	ErrStrategyNotFound = errors.New("strategy not found")

	// ErrNothingToConfirm is returned by Confirm when the user has no
	// active, unconfirmed strategy record.
	ErrNothingToConfirm = errors.New("no unconfirmed active strategy to confirm")
)

// JobStore tracks asynchronous generation attempts.
type JobStore interface {
	// CreateJob inserts a new job in pending status.
	CreateJob(ctx context.Context, jobID, userID string) error

	// Job returns the job row for the given id, or ErrJobNotFound.
	Job(ctx context.Context, jobID string) (*model.GenerationJob, error)

	// CompleteJob stores the generated text and marks the job completed.
	CompleteJob(ctx context.Context, jobID, resultText string) error

	// FailJob marks the job with a terminal failure status and message.
	FailJob(ctx context.Context, jobID, status, message string) error
}

// StrategyStore persists parsed strategy records.
type StrategyStore interface {
	// UpsertStrategy writes a record keyed by job id, activating it and
	// deactivating every other record for the user in one transaction.
	// Safe to repeat for the same job id.
	UpsertStrategy(ctx context.Context, rec *model.StrategyRecord) (*model.StrategyRecord, error)

	// FindActive returns the user's active record, or ErrStrategyNotFound.
	FindActive(ctx context.Context, userID string) (*model.StrategyRecord, error)

	// FindByJobID returns the record written for a job, or ErrStrategyNotFound.
	FindByJobID(ctx context.Context, jobID string) (*model.StrategyRecord, error)

	// Confirm promotes the user's active unconfirmed record, or returns
	// ErrNothingToConfirm without mutating anything.
	Confirm(ctx context.Context, userID string, now time.Time) (*model.StrategyRecord, error)
}

// Store is the combined persistence interface.
type Store interface {
	JobStore
	StrategyStore

	// Close closes the store.
	Close() error
}
