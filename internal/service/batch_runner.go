// Package service coordinates long-running card generation on behalf of the
// HTTP API and the CLI. It owns the single-batch-at-a-time policy: one batch
// runs in the background while progress is polled, and its report stays
// available until the next batch starts.
package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/lexcraft/cardgen/internal/domain"
	"github.com/lexcraft/cardgen/internal/generation"
)

// ErrBatchRunning indicates a start request while a batch is in flight.
var ErrBatchRunning = errors.New("a generation batch is already running")

// ErrNoReport indicates a report request before any batch has finished.
var ErrNoReport = errors.New("no completed batch report available")

// ErrNoWords indicates a start request with an empty word list.
var ErrNoWords = errors.New("word list cannot be empty")

// Status describes the runner for progress polling.
type Status struct {
	Running   bool                        `json:"running"`
	Progress  generation.ProgressSnapshot `json:"progress"`
	StartedAt time.Time                   `json:"started_at,omitzero"`
}

// BatchRunner runs one generation batch at a time in the background.
type BatchRunner struct {
	batch  *generation.BatchGenerator
	logger *slog.Logger

	mu        sync.Mutex
	running   bool
	cancel    context.CancelFunc
	startedAt time.Time
	report    *domain.BatchReport
}

func NewBatchRunner(batch *generation.BatchGenerator, logger *slog.Logger) *BatchRunner {
	return &BatchRunner{batch: batch, logger: logger}
}

// Start launches generation for words in the background. It returns
// ErrBatchRunning while a previous batch is still in flight; the previous
// report is discarded once a new batch starts.
func (r *BatchRunner) Start(words []string, rules domain.GenerationRules) error {
	if len(words) == 0 {
		return ErrNoWords
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running {
		return ErrBatchRunning
	}

	ctx, cancel := context.WithCancel(context.Background())
	r.running = true
	r.cancel = cancel
	r.startedAt = time.Now().UTC()
	r.report = nil

	r.logger.Info("starting generation batch", "words", len(words))

	go func() {
		defer cancel()
		report := r.batch.GenerateBatch(ctx, words, rules)

		r.mu.Lock()
		r.report = report
		r.running = false
		r.cancel = nil
		r.mu.Unlock()

		r.logger.Info("generation batch finished",
			"total", report.TotalWords,
			"succeeded", report.SucceededCount,
			"failed", report.FailedCount)
	}()

	return nil
}

// Run generates cards for words synchronously, honoring ctx cancellation.
// Used by the CLI; the single-batch policy applies here too.
func (r *BatchRunner) Run(ctx context.Context, words []string, rules domain.GenerationRules) (*domain.BatchReport, error) {
	if len(words) == 0 {
		return nil, ErrNoWords
	}

	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return nil, ErrBatchRunning
	}
	runCtx, cancel := context.WithCancel(ctx)
	r.running = true
	r.cancel = cancel
	r.startedAt = time.Now().UTC()
	r.report = nil
	r.mu.Unlock()

	defer cancel()
	report := r.batch.GenerateBatch(runCtx, words, rules)

	r.mu.Lock()
	r.report = report
	r.running = false
	r.cancel = nil
	r.mu.Unlock()

	return report, nil
}

// Status reports whether a batch is running and how far it has come.
func (r *BatchRunner) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := Status{
		Running:  r.running,
		Progress: r.batch.Progress(),
	}
	if r.running {
		s.StartedAt = r.startedAt
	}
	return s
}

// Report returns the last completed batch report.
func (r *BatchRunner) Report() (*domain.BatchReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.report == nil {
		return nil, ErrNoReport
	}
	return r.report, nil
}

// Cancel stops the in-flight batch, if any, and reports whether one was
// running. In-flight words finish their current attempt; undispatched words
// are recorded as failed outcomes.
func (r *BatchRunner) Cancel() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.running || r.cancel == nil {
		return false
	}
	r.logger.Info("cancelling generation batch")
	r.cancel()
	return true
}
