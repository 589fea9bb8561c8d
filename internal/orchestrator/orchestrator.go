// Package orchestrator drives a generation request from submission through
// completion or failure and governs how a generated plan becomes the user's
// confirmed, active plan. The job row and strategy record are the durable
// source of truth; the poll loop is disposable and safe to cancel.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/socialmize/strategy-engine/internal/derive"
	"github.com/socialmize/strategy-engine/internal/llm"
	"github.com/socialmize/strategy-engine/internal/model"
	"github.com/socialmize/strategy-engine/internal/parser"
	"github.com/socialmize/strategy-engine/internal/store"
)

// State is the client-visible generation state for one attempt.
type State string

const (
	StateIdle    State = "idle"
	StatePending State = "pending"
	StateSuccess State = "success"
	StateError   State = "error"
)

// ErrTimeout is returned when the attempt cap is exhausted while the job is
// still pending. The generation may still complete later server-side; the
// caller should check again rather than resubmit immediately.
var ErrTimeout = errors.New("generation still pending after polling limit; try again later")

// JobFailedError reports a job that ended in a terminal failure status.
// Recovery requires a brand-new submit, never a retry of the same job.
type JobFailedError struct {
	Status string
}

func (e *JobFailedError) Error() string {
	return fmt.Sprintf("generation job ended with status %q", e.Status)
}

// Store is the persistence surface the orchestrator needs.
type Store interface {
	store.JobStore
	store.StrategyStore
}

// Config tunes the poll loop. Zero values fall back to defaults.
type Config struct {
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	MaxAttempts int

	Clock  Clock         // nil uses the real clock
	Logger *slog.Logger  // nil uses slog.Default()
	NewID  func() string // nil uses ULIDs
}

// DefaultConfig matches the original product's polling posture: one second
// base delay, thirty attempts.
func DefaultConfig() Config {
	return Config{
		BaseDelay:   time.Second,
		MaxDelay:    30 * time.Second,
		MaxAttempts: 30,
	}
}

// Backoff returns the delay before re-checking after the given attempt:
// min(base * 2^attempt, max). Delays are non-decreasing and bounded.
func (c Config) Backoff(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	d := c.BaseDelay
	for i := 0; i < attempt; i++ {
		d *= 2
		if d >= c.MaxDelay {
			return c.MaxDelay
		}
	}
	if d > c.MaxDelay {
		return c.MaxDelay
	}
	return d
}

// Orchestrator is the generation state machine.
type Orchestrator struct {
	store Store
	gen   llm.Generator
	cfg   Config
	clock Clock
	log   *slog.Logger
	newID func() string
	wg    sync.WaitGroup
}

// New creates an orchestrator over the given store and generator.
func New(st Store, gen llm.Generator, cfg Config) *Orchestrator {
	def := DefaultConfig()
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = def.BaseDelay
	}
	if cfg.MaxDelay <= 0 {
		cfg.MaxDelay = def.MaxDelay
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = def.MaxAttempts
	}

	o := &Orchestrator{store: st, gen: gen, cfg: cfg}
	o.clock = cfg.Clock
	if o.clock == nil {
		o.clock = realClock{}
	}
	o.log = cfg.Logger
	if o.log == nil {
		o.log = slog.Default()
	}
	o.newID = cfg.NewID
	if o.newID == nil {
		o.newID = func() string { return ulid.Make().String() }
	}
	return o
}

// Submit starts a new generation attempt: it creates a pending job row and
// kicks off the generation worker in the background, returning immediately
// with the new job id. A failed row creation surfaces as an error with no
// dangling job.
func (o *Orchestrator) Submit(ctx context.Context, userID string, pc llm.PromptContext) (string, error) {
	jobID := o.newID()
	if err := o.store.CreateJob(ctx, jobID, userID); err != nil {
		return "", fmt.Errorf("create job: %w", err)
	}

	prompt := llm.BuildPrompt(pc)
	o.wg.Add(1)
	// Detached from the caller's cancellation: a caller that goes away must
	// not leave the job stuck in pending.
	bg := context.WithoutCancel(ctx)
	go func() {
		defer o.wg.Done()
		o.runGeneration(bg, jobID, prompt)
	}()

	o.log.Info("generation submitted", "job_id", jobID, "user_id", userID)
	return jobID, nil
}

// Wait blocks until all in-flight generation workers have finished. Used for
// graceful shutdown and by tests.
func (o *Orchestrator) Wait() {
	o.wg.Wait()
}

func (o *Orchestrator) runGeneration(ctx context.Context, jobID, prompt string) {
	text, err := o.gen.Complete(ctx, prompt)
	if err != nil {
		o.log.Warn("generation failed", "job_id", jobID, "error", err)
		if ferr := o.store.FailJob(ctx, jobID, model.StatusFailed, err.Error()); ferr != nil {
			o.log.Error("mark job failed", "job_id", jobID, "error", ferr)
		}
		return
	}
	if err := o.store.CompleteJob(ctx, jobID, text); err != nil {
		o.log.Error("mark job completed", "job_id", jobID, "error", err)
		return
	}
	o.log.Info("generation completed", "job_id", jobID)
}

// CheckResult is the caller-facing view of one status check.
type CheckResult struct {
	State  State                 `json:"state"`
	Status string                `json:"status,omitempty"`
	Record *model.StrategyRecord `json:"record,omitempty"`
	Error  string                `json:"error,omitempty"`
}

// Check performs a single, non-sleeping status check.
func (o *Orchestrator) Check(ctx context.Context, jobID, userID string) (CheckResult, error) {
	return o.tick(ctx, jobID, userID)
}

// Poll drives the job to a terminal outcome, sleeping with exponential
// backoff between checks. It returns the persisted strategy record on
// success, a JobFailedError when the job ended in a terminal failure
// status, and ErrTimeout when the attempt cap is exhausted while the job is
// still pending. Cancelling the context stops future checks only; durable
// state is untouched.
func (o *Orchestrator) Poll(ctx context.Context, jobID, userID string) (*model.StrategyRecord, error) {
	for attempt := 0; attempt < o.cfg.MaxAttempts; attempt++ {
		res, err := o.tick(ctx, jobID, userID)
		if err != nil {
			return nil, err
		}
		switch res.State {
		case StateSuccess:
			return res.Record, nil
		case StateError:
			return nil, &JobFailedError{Status: res.Status}
		}

		if err := o.clock.Sleep(ctx, o.cfg.Backoff(attempt)); err != nil {
			return nil, err
		}
	}
	return nil, ErrTimeout
}

// tick is one step of the poll state machine.
func (o *Orchestrator) tick(ctx context.Context, jobID, userID string) (CheckResult, error) {
	job, err := o.store.Job(ctx, jobID)
	if err != nil {
		// The job row is unavailable. A strategy record already written for
		// this job means the attempt succeeded; anything else is treated as
		// transient and polled through.
		if rec, rerr := o.store.FindByJobID(ctx, jobID); rerr == nil {
			return CheckResult{State: StateSuccess, Status: model.StatusCompleted, Record: rec}, nil
		}
		if !errors.Is(err, store.ErrJobNotFound) {
			o.log.Warn("job status check failed", "job_id", jobID, "error", err)
		}
		return CheckResult{State: StatePending}, nil
	}

	switch job.Status {
	case model.StatusCompleted:
		rec, err := o.persistResult(ctx, job, userID)
		if err != nil {
			return CheckResult{}, err
		}
		return CheckResult{State: StateSuccess, Status: job.Status, Record: rec}, nil

	case model.StatusFailed, model.StatusCancelled, model.StatusExpired:
		msg := (&JobFailedError{Status: job.Status}).Error()
		if job.ErrorMessage != "" {
			msg += ": " + job.ErrorMessage
		}
		return CheckResult{State: StateError, Status: job.Status, Error: msg}, nil

	default:
		return CheckResult{State: StatePending, Status: job.Status}, nil
	}
}

// persistResult parses the generated text, derives the secondary views and
// upserts the strategy record, unconfirmed and active. The upsert is keyed
// by job id, so re-entering the success branch is safe.
func (o *Orchestrator) persistResult(ctx context.Context, job *model.GenerationJob, userID string) (*model.StrategyRecord, error) {
	if job.UserID != "" {
		userID = job.UserID
	}

	doc := parser.Parse(job.ResultText)
	views := derive.BuildViews(doc)

	rec, err := o.store.UpsertStrategy(ctx, &model.StrategyRecord{
		JobID:    job.JobID,
		UserID:   userID,
		Document: doc,
		Views:    views,
		RawText:  job.ResultText,
	})
	if err != nil {
		return nil, fmt.Errorf("persist strategy: %w", err)
	}
	o.log.Info("strategy persisted", "job_id", job.JobID, "user_id", userID, "phases", len(doc.Phases))
	return rec, nil
}

// Confirm promotes the user's active, unconfirmed strategy record. The store
// re-asserts the at-most-one-active invariant in the same transaction.
// Confirming when nothing is confirmable returns store.ErrNothingToConfirm
// with no state mutated.
func (o *Orchestrator) Confirm(ctx context.Context, userID string) (*model.StrategyRecord, error) {
	rec, err := o.store.Confirm(ctx, userID, o.clock.Now())
	if err != nil {
		return nil, err
	}
	o.log.Info("strategy confirmed", "user_id", userID, "record_id", rec.ID)
	return rec, nil
}
