package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/socialmize/strategy-engine/internal/model"
)

// CreateJob inserts a new generation job in pending status.
func (s *SQLiteStore) CreateJob(ctx context.Context, jobID, userID string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO generation_jobs (job_id, user_id, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		jobID, userID, model.StatusPending, now, now)
	if err != nil {
		return fmt.Errorf("insert job: %w", err)
	}
	return nil
}

// Job returns the job row for the given id.
func (s *SQLiteStore) Job(ctx context.Context, jobID string) (*model.GenerationJob, error) {
	var (
		job                  model.GenerationJob
		errMsg, result       sql.NullString
		createdAt, updatedAt string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT job_id, user_id, status, error_message, result_text, created_at, updated_at
		 FROM generation_jobs WHERE job_id = ?`, jobID).
		Scan(&job.JobID, &job.UserID, &job.Status, &errMsg, &result, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrJobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query job: %w", err)
	}

	job.ErrorMessage = errMsg.String
	job.ResultText = result.String
	job.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	job.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &job, nil
}

// CompleteJob stores the generated text and marks the job completed.
// Only a pending job can complete; terminal rows are immutable.
func (s *SQLiteStore) CompleteJob(ctx context.Context, jobID, resultText string) error {
	return s.finishJob(ctx, jobID, model.StatusCompleted, "", resultText)
}

// FailJob marks the job with a terminal failure status and message.
func (s *SQLiteStore) FailJob(ctx context.Context, jobID, status, message string) error {
	if !model.TerminalStatus(status) || status == model.StatusCompleted {
		return fmt.Errorf("invalid failure status %q", status)
	}
	return s.finishJob(ctx, jobID, status, message, "")
}

func (s *SQLiteStore) finishJob(ctx context.Context, jobID, status, message, resultText string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.ExecContext(ctx,
		`UPDATE generation_jobs
		 SET status = ?, error_message = NULLIF(?, ''), result_text = NULLIF(?, ''), updated_at = ?
		 WHERE job_id = ? AND status = ?`,
		status, message, resultText, now, jobID, model.StatusPending)
	if err != nil {
		return fmt.Errorf("update job: %w", err)
	}

	n, _ := res.RowsAffected()
	if n == 0 {
		if _, jerr := s.Job(ctx, jobID); errors.Is(jerr, ErrJobNotFound) {
			return ErrJobNotFound
		}
		return ErrJobTerminal
	}
	return nil
}
