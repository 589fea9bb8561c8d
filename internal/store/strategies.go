package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/socialmize/strategy-engine/internal/model"
)

const strategyColumns = `id, job_id, user_id, summary, phases, content_types,
	weekly_calendar, example_scripts, raw_text, confirmed_at, is_active, created_at`

// UpsertStrategy writes a strategy record keyed by job id. The new record is
// activated and every other record for the user is deactivated in the same
// transaction, so at most one record per user is ever active. Re-running the
// upsert for the same job id is safe and preserves any prior confirmation.
func (s *SQLiteStore) UpsertStrategy(ctx context.Context, rec *model.StrategyRecord) (*model.StrategyRecord, error) {
	phases, err := json.Marshal(rec.Document.Phases)
	if err != nil {
		return nil, fmt.Errorf("marshal phases: %w", err)
	}
	contentTypes, _ := json.Marshal(rec.Views.ContentTypes)
	calendar, _ := json.Marshal(rec.Views.WeeklyCalendar)
	scripts, _ := json.Marshal(rec.Views.ExampleScripts)

	now := time.Now().UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`UPDATE strategies SET is_active = 0 WHERE user_id = ? AND job_id <> ?`,
		rec.UserID, rec.JobID)
	if err != nil {
		return nil, fmt.Errorf("deactivate strategies: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO strategies (id, job_id, user_id, summary, phases, content_types,
		                         weekly_calendar, example_scripts, raw_text, is_active, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, NULLIF(?, ''), 1, ?)
		 ON CONFLICT(job_id) DO UPDATE SET
		   summary = excluded.summary,
		   phases = excluded.phases,
		   content_types = excluded.content_types,
		   weekly_calendar = excluded.weekly_calendar,
		   example_scripts = excluded.example_scripts,
		   raw_text = excluded.raw_text,
		   is_active = 1`,
		s.NewID(), rec.JobID, rec.UserID, rec.Document.Summary, string(phases),
		string(contentTypes), string(calendar), string(scripts), rec.RawText,
		now.Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("upsert strategy: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return s.FindByJobID(ctx, rec.JobID)
}

// FindActive returns the user's active strategy record.
func (s *SQLiteStore) FindActive(ctx context.Context, userID string) (*model.StrategyRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+strategyColumns+` FROM strategies
		 WHERE user_id = ? AND is_active = 1
		 ORDER BY created_at DESC LIMIT 1`, userID)
	return scanStrategy(row)
}

// FindByJobID returns the record written for a generation job.
func (s *SQLiteStore) FindByJobID(ctx context.Context, jobID string) (*model.StrategyRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+strategyColumns+` FROM strategies WHERE job_id = ?`, jobID)
	return scanStrategy(row)
}

// Confirm promotes the user's active unconfirmed record, re-asserting the
// single-active invariant in the same transaction. Nothing is mutated when
// no confirmable record exists.
func (s *SQLiteStore) Confirm(ctx context.Context, userID string, now time.Time) (*model.StrategyRecord, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var recordID string
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM strategies
		 WHERE user_id = ? AND is_active = 1 AND confirmed_at IS NULL
		 ORDER BY created_at DESC LIMIT 1`, userID).Scan(&recordID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNothingToConfirm
	}
	if err != nil {
		return nil, fmt.Errorf("find confirmable strategy: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE strategies SET is_active = 0 WHERE user_id = ? AND id <> ?`,
		userID, recordID)
	if err != nil {
		return nil, fmt.Errorf("deactivate strategies: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE strategies SET confirmed_at = ?, is_active = 1 WHERE id = ?`,
		now.UTC().Format(time.RFC3339), recordID)
	if err != nil {
		return nil, fmt.Errorf("confirm strategy: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT `+strategyColumns+` FROM strategies WHERE id = ?`, recordID)
	return scanStrategy(row)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanStrategy(row rowScanner) (*model.StrategyRecord, error) {
	var (
		rec                             model.StrategyRecord
		phases                          string
		contentTypes, calendar, scripts sql.NullString
		rawText, confirmedAt            sql.NullString
		createdAt                       string
	)
	err := row.Scan(&rec.ID, &rec.JobID, &rec.UserID, &rec.Document.Summary,
		&phases, &contentTypes, &calendar, &scripts, &rawText, &confirmedAt,
		&rec.IsActive, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrStrategyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan strategy: %w", err)
	}

	if err := json.Unmarshal([]byte(phases), &rec.Document.Phases); err != nil {
		return nil, fmt.Errorf("unmarshal phases: %w", err)
	}
	if contentTypes.Valid {
		if err := json.Unmarshal([]byte(contentTypes.String), &rec.Views.ContentTypes); err != nil {
			return nil, fmt.Errorf("unmarshal content types: %w", err)
		}
	}
	if calendar.Valid {
		if err := json.Unmarshal([]byte(calendar.String), &rec.Views.WeeklyCalendar); err != nil {
			return nil, fmt.Errorf("unmarshal weekly calendar: %w", err)
		}
	}
	if scripts.Valid {
		if err := json.Unmarshal([]byte(scripts.String), &rec.Views.ExampleScripts); err != nil {
			return nil, fmt.Errorf("unmarshal example scripts: %w", err)
		}
	}
	rec.RawText = rawText.String
	if confirmedAt.Valid {
		if t, err := time.Parse(time.RFC3339, confirmedAt.String); err == nil {
			rec.ConfirmedAt = &t
		}
	}
	rec.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &rec, nil
}
