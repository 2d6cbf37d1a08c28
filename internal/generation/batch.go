package generation

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lexcraft/cardgen/internal/domain"
)

// ProgressSnapshot is a point-in-time view of a running batch, cheap enough
// for slow front ends (CLI progress bars, web polling) to read repeatedly.
type ProgressSnapshot struct {
	Total     int64 `json:"total"`
	Completed int64 `json:"completed"`
	Succeeded int64 `json:"succeeded"`
	Failed    int64 `json:"failed"`
}

// progress holds the counters shared across workers. Updated after every
// individual outcome lands, not only at batch completion.
type progress struct {
	total     atomic.Int64
	completed atomic.Int64
	succeeded atomic.Int64
	failed    atomic.Int64
}

func (p *progress) reset(total int) {
	p.total.Store(int64(total))
	p.completed.Store(0)
	p.succeeded.Store(0)
	p.failed.Store(0)
}

func (p *progress) record(succeeded bool) {
	if succeeded {
		p.succeeded.Add(1)
	} else {
		p.failed.Add(1)
	}
	p.completed.Add(1)
}

func (p *progress) snapshot() ProgressSnapshot {
	return ProgressSnapshot{
		Total:     p.total.Load(),
		Completed: p.completed.Load(),
		Succeeded: p.succeeded.Load(),
		Failed:    p.failed.Load(),
	}
}

// BatchGenerator runs single-card generation over a word list with a bounded
// worker pool and per-worker rate limiting, aggregating the results into a
// BatchReport whose outcome order always matches the input word order.
type BatchGenerator struct {
	gen                *CardGenerator
	logger             *slog.Logger
	concurrency        int
	rateLimitPerMinute int
	progress           progress
}

// NewBatchGenerator wires a batch orchestrator around a single-card
// generator. concurrency must be at least 1; rateLimitPerMinute of 0 disables
// pacing.
func NewBatchGenerator(
	gen *CardGenerator,
	logger *slog.Logger,
	concurrency int,
	rateLimitPerMinute int,
) (*BatchGenerator, error) {
	if gen == nil {
		return nil, fmt.Errorf("%w: card generator cannot be nil", ErrInvalidConfig)
	}
	if logger == nil {
		return nil, fmt.Errorf("%w: logger cannot be nil", ErrInvalidConfig)
	}
	if concurrency < 1 {
		logger.Warn("invalid concurrency, using 1", "specified", concurrency)
		concurrency = 1
	}
	if rateLimitPerMinute < 0 {
		return nil, fmt.Errorf("%w: rate limit cannot be negative", ErrInvalidConfig)
	}

	return &BatchGenerator{
		gen:                gen,
		logger:             logger,
		concurrency:        concurrency,
		rateLimitPerMinute: rateLimitPerMinute,
	}, nil
}

// Progress returns a snapshot of the currently running (or last completed)
// batch's counters.
func (b *BatchGenerator) Progress() ProgressSnapshot {
	return b.progress.snapshot()
}

// GenerateBatch generates a card for every word and returns the aggregated
// report. It always returns a complete report: every word receives a terminal
// outcome, even when the context is cancelled mid-batch (words never
// dispatched are recorded as failed with a cancellation message; in-flight
// attempts are allowed to finish).
//
// With concurrency 1 the words are processed strictly sequentially. With
// higher concurrency, exactly that many workers drain a shared index queue;
// outcomes are written into an index-addressed slice so the report order is
// the input order regardless of completion order.
//
// Rate limiting is per worker slot: each worker measures the wall-clock
// duration of its request and sleeps up to the 60s/rateLimitPerMinute floor
// before taking the next word. Aggregate throughput is therefore bounded by
// roughly concurrency*rateLimitPerMinute requests per minute rather than by a
// single global limiter.
func (b *BatchGenerator) GenerateBatch(
	ctx context.Context,
	words []string,
	rules domain.GenerationRules,
) *domain.BatchReport {
	startedAt := time.Now().UTC()
	b.progress.reset(len(words))

	b.logger.InfoContext(ctx, "starting batch generation",
		"total_words", len(words),
		"concurrency", b.concurrency,
		"rate_limit_per_minute", b.rateLimitPerMinute)

	outcomes := make([]domain.GenerationOutcome, len(words))

	var floor time.Duration
	if b.rateLimitPerMinute > 0 {
		floor = time.Minute / time.Duration(b.rateLimitPerMinute)
	}

	jobs := make(chan int)
	var group errgroup.Group
	for w := 0; w < b.concurrency; w++ {
		group.Go(func() error {
			// The pacing gap is applied before taking the next word, not
			// after finishing one, so a worker's final job never ends with a
			// pointless sleep.
			var lastStart time.Time
			for idx := range jobs {
				if !lastStart.IsZero() {
					if remaining := floor - time.Since(lastStart); remaining > 0 {
						select {
						case <-time.After(remaining):
						case <-ctx.Done():
						}
					}
				}
				lastStart = time.Now()
				outcomes[idx] = b.gen.GenerateOne(ctx, words[idx], rules)
				b.progress.record(outcomes[idx].Succeeded)
			}
			return nil
		})
	}

dispatch:
	for i := range words {
		select {
		case jobs <- i:
		case <-ctx.Done():
			b.logger.WarnContext(ctx, "batch cancelled, no further words dispatched",
				"dispatched", i, "total", len(words))
			for j := i; j < len(words); j++ {
				outcomes[j] = domain.NewFailureOutcome(words[j], "generation cancelled before dispatch")
				b.progress.record(false)
			}
			break dispatch
		}
	}
	close(jobs)
	_ = group.Wait()

	report := domain.NewBatchReport(outcomes, startedAt, time.Now().UTC())

	b.logger.InfoContext(ctx, "batch generation completed",
		"total_words", report.TotalWords,
		"succeeded", report.SucceededCount,
		"failed", report.FailedCount,
		"duration", report.CompletedAt.Sub(report.StartedAt))

	return report
}
