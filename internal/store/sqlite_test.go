package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/socialmize/strategy-engine/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testRecord(jobID, userID string) *model.StrategyRecord {
	return &model.StrategyRecord{
		JobID:  jobID,
		UserID: userID,
		Document: model.StrategyDocument{
			Summary: "A plan for " + userID,
			Phases: []model.Phase{
				{Title: "Getting Started", Goal: "Post daily", Tactics: []string{"Pick a niche"}},
			},
		},
		Views: model.DerivedViews{
			ContentTypes:   []string{"Video", "Post"},
			WeeklyCalendar: map[string][]string{"Monday": {"Tip of the week"}},
		},
		RawText: "PHASE 1: Getting Started",
	}
}

func TestJobLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	jobID := s.NewID()
	if err := s.CreateJob(ctx, jobID, "user-1"); err != nil {
		t.Fatalf("CreateJob: %v", err)
	}

	job, err := s.Job(ctx, jobID)
	if err != nil {
		t.Fatalf("Job: %v", err)
	}
	if job.Status != model.StatusPending {
		t.Errorf("new job status = %q, want %q", job.Status, model.StatusPending)
	}
	if job.UserID != "user-1" {
		t.Errorf("user id = %q, want user-1", job.UserID)
	}
	if job.CreatedAt.IsZero() {
		t.Error("created_at not set")
	}

	if err := s.CompleteJob(ctx, jobID, "PHASE 1: Done"); err != nil {
		t.Fatalf("CompleteJob: %v", err)
	}
	job, err = s.Job(ctx, jobID)
	if err != nil {
		t.Fatalf("Job after complete: %v", err)
	}
	if job.Status != model.StatusCompleted {
		t.Errorf("status = %q, want %q", job.Status, model.StatusCompleted)
	}
	if job.ResultText != "PHASE 1: Done" {
		t.Errorf("result_text = %q", job.ResultText)
	}
	if job.ErrorMessage != "" {
		t.Errorf("unexpected error message %q", job.ErrorMessage)
	}
}

func TestJobNotFound(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Job(context.Background(), "missing"); !errors.Is(err, ErrJobNotFound) {
		t.Errorf("Job: err = %v, want ErrJobNotFound", err)
	}
	if err := s.CompleteJob(context.Background(), "missing", "text"); !errors.Is(err, ErrJobNotFound) {
		t.Errorf("CompleteJob: err = %v, want ErrJobNotFound", err)
	}
}

func TestTerminalJobIsImmutable(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	jobID := s.NewID()
	if err := s.CreateJob(ctx, jobID, "user-1"); err != nil {
		t.Fatalf("CreateJob: %v", err)
	}
	if err := s.FailJob(ctx, jobID, model.StatusFailed, "model unavailable"); err != nil {
		t.Fatalf("FailJob: %v", err)
	}

	if err := s.CompleteJob(ctx, jobID, "late result"); !errors.Is(err, ErrJobTerminal) {
		t.Errorf("CompleteJob on failed job: err = %v, want ErrJobTerminal", err)
	}
	if err := s.FailJob(ctx, jobID, model.StatusCancelled, "again"); !errors.Is(err, ErrJobTerminal) {
		t.Errorf("FailJob on failed job: err = %v, want ErrJobTerminal", err)
	}

	job, err := s.Job(ctx, jobID)
	if err != nil {
		t.Fatalf("Job: %v", err)
	}
	if job.Status != model.StatusFailed {
		t.Errorf("status changed to %q after terminal update", job.Status)
	}
	if job.ErrorMessage != "model unavailable" {
		t.Errorf("error message = %q", job.ErrorMessage)
	}
}

func TestFailJobRejectsNonFailureStatus(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	jobID := s.NewID()
	if err := s.CreateJob(ctx, jobID, "user-1"); err != nil {
		t.Fatalf("CreateJob: %v", err)
	}
	if err := s.FailJob(ctx, jobID, model.StatusCompleted, ""); err == nil {
		t.Error("FailJob accepted completed status")
	}
	if err := s.FailJob(ctx, jobID, "pending", ""); err == nil {
		t.Error("FailJob accepted non-terminal status")
	}
}

func TestUpsertStrategyIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	rec := testRecord(s.NewID(), "user-1")
	first, err := s.UpsertStrategy(ctx, rec)
	if err != nil {
		t.Fatalf("UpsertStrategy: %v", err)
	}
	if !first.IsActive {
		t.Error("upserted record should be active")
	}

	rec.Document.Summary = "revised summary"
	second, err := s.UpsertStrategy(ctx, rec)
	if err != nil {
		t.Fatalf("repeat UpsertStrategy: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("repeat upsert created a new row: %s vs %s", second.ID, first.ID)
	}
	if second.Document.Summary != "revised summary" {
		t.Errorf("summary = %q, want revised", second.Document.Summary)
	}

	active, err := s.FindActive(ctx, "user-1")
	if err != nil {
		t.Fatalf("FindActive: %v", err)
	}
	if active.ID != first.ID {
		t.Errorf("active record id = %s, want %s", active.ID, first.ID)
	}
}

func TestUpsertDeactivatesOtherStrategies(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	old, err := s.UpsertStrategy(ctx, testRecord(s.NewID(), "user-1"))
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	replacement, err := s.UpsertStrategy(ctx, testRecord(s.NewID(), "user-1"))
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	active, err := s.FindActive(ctx, "user-1")
	if err != nil {
		t.Fatalf("FindActive: %v", err)
	}
	if active.ID != replacement.ID {
		t.Errorf("active = %s, want replacement %s", active.ID, replacement.ID)
	}

	prior, err := s.FindByJobID(ctx, old.JobID)
	if err != nil {
		t.Fatalf("FindByJobID: %v", err)
	}
	if prior.IsActive {
		t.Error("superseded record still active")
	}
}

func TestUpsertDoesNotTouchOtherUsers(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.UpsertStrategy(ctx, testRecord(s.NewID(), "user-a")); err != nil {
		t.Fatalf("upsert user-a: %v", err)
	}
	if _, err := s.UpsertStrategy(ctx, testRecord(s.NewID(), "user-b")); err != nil {
		t.Fatalf("upsert user-b: %v", err)
	}

	for _, user := range []string{"user-a", "user-b"} {
		if _, err := s.FindActive(ctx, user); err != nil {
			t.Errorf("FindActive(%s): %v", user, err)
		}
	}
}

func TestConfirm(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.UpsertStrategy(ctx, testRecord(s.NewID(), "user-1")); err != nil {
		t.Fatalf("UpsertStrategy: %v", err)
	}

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	rec, err := s.Confirm(ctx, "user-1", now)
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if !rec.Confirmed() {
		t.Fatal("record not confirmed")
	}
	if !rec.ConfirmedAt.Equal(now) {
		t.Errorf("confirmed_at = %v, want %v", rec.ConfirmedAt, now)
	}
	if !rec.IsActive {
		t.Error("confirmed record should stay active")
	}

	// Confirming again has nothing left to promote.
	if _, err := s.Confirm(ctx, "user-1", now); !errors.Is(err, ErrNothingToConfirm) {
		t.Errorf("second Confirm: err = %v, want ErrNothingToConfirm", err)
	}
}

func TestConfirmWithoutStrategy(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Confirm(context.Background(), "nobody", time.Now())
	if !errors.Is(err, ErrNothingToConfirm) {
		t.Errorf("err = %v, want ErrNothingToConfirm", err)
	}
}

func TestUpsertPreservesConfirmation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	rec := testRecord(s.NewID(), "user-1")
	if _, err := s.UpsertStrategy(ctx, rec); err != nil {
		t.Fatalf("UpsertStrategy: %v", err)
	}
	if _, err := s.Confirm(ctx, "user-1", time.Now()); err != nil {
		t.Fatalf("Confirm: %v", err)
	}

	// A retried persist for the same job must not wipe the confirmation.
	again, err := s.UpsertStrategy(ctx, rec)
	if err != nil {
		t.Fatalf("repeat UpsertStrategy: %v", err)
	}
	if !again.Confirmed() {
		t.Error("repeat upsert cleared confirmed_at")
	}
}

func TestScanRejectsCorruptViewColumns(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	rec := testRecord(s.NewID(), "user-1")
	for _, column := range []string{"content_types", "weekly_calendar", "example_scripts"} {
		// The repeated upsert restores every view column before the next
		// corruption.
		if _, err := s.UpsertStrategy(ctx, rec); err != nil {
			t.Fatalf("UpsertStrategy: %v", err)
		}
		if _, err := s.db.ExecContext(ctx,
			`UPDATE strategies SET `+column+` = 'not json' WHERE job_id = ?`, rec.JobID); err != nil {
			t.Fatalf("corrupt %s: %v", column, err)
		}
		if _, err := s.FindByJobID(ctx, rec.JobID); err == nil {
			t.Errorf("corrupt %s column read back without error", column)
		}
	}
}

func TestFindByJobIDNotFound(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.FindByJobID(context.Background(), "missing"); !errors.Is(err, ErrStrategyNotFound) {
		t.Errorf("err = %v, want ErrStrategyNotFound", err)
	}
	if _, err := s.FindActive(context.Background(), "missing"); !errors.Is(err, ErrStrategyNotFound) {
		t.Errorf("FindActive err = %v, want ErrStrategyNotFound", err)
	}
}

func TestStats(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	jobID := s.NewID()
	if err := s.CreateJob(ctx, jobID, "user-1"); err != nil {
		t.Fatalf("CreateJob: %v", err)
	}
	if err := s.CompleteJob(ctx, jobID, "text"); err != nil {
		t.Fatalf("CompleteJob: %v", err)
	}
	if _, err := s.UpsertStrategy(ctx, testRecord(jobID, "user-1")); err != nil {
		t.Fatalf("UpsertStrategy: %v", err)
	}

	stats, err := s.Stats(ctx, "")
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.TotalJobs != 1 {
		t.Errorf("total jobs = %d, want 1", stats.TotalJobs)
	}
	if stats.TotalStrategies != 1 || stats.ActiveStrategies != 1 {
		t.Errorf("strategies = %d active = %d, want 1/1", stats.TotalStrategies, stats.ActiveStrategies)
	}
	if stats.ConfirmedStrategies != 0 {
		t.Errorf("confirmed = %d, want 0", stats.ConfirmedStrategies)
	}
}
