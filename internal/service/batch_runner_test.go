package service

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexcraft/cardgen/internal/domain"
	"github.com/lexcraft/cardgen/internal/generation"
	"github.com/lexcraft/cardgen/internal/validation"
)

// blockingCompleter parks every completion until release is closed.
type blockingCompleter struct {
	release chan struct{}
}

func (c *blockingCompleter) Complete(ctx context.Context, word string, _ domain.GenerationRules) (map[string]any, error) {
	select {
	case <-c.release:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return map[string]any{
		"word":           word,
		"phonetic":       "/tɛst/",
		"part_of_speech": "n.",
		"meaning":        "a meaning produced for testing",
		"memory_tip": map[string]any{
			"kind":    "homophone",
			"content": "sounds like something memorable",
		},
		"examples":    []any{"This sentence demonstrates the word nicely."},
		"synonyms":    []any{},
		"confusables": []any{},
	}, nil
}

func (c *blockingCompleter) IsAvailable(context.Context) bool { return true }

func newTestRunner(t *testing.T, completer generation.Completer) *BatchRunner {
	t.Helper()
	v := validation.New(slog.Default(), domain.DefaultTipKinds())
	gen, err := generation.NewCardGenerator(completer, v, slog.Default(), validation.Strict, 1, 0)
	require.NoError(t, err)
	batch, err := generation.NewBatchGenerator(gen, slog.Default(), 2, 0)
	require.NoError(t, err)
	return NewBatchRunner(batch, slog.Default())
}

func waitUntilIdle(t *testing.T, r *BatchRunner) {
	t.Helper()
	require.Eventually(t, func() bool {
		return !r.Status().Running
	}, 2*time.Second, 5*time.Millisecond)
}

func TestStartRejectsConcurrentBatches(t *testing.T) {
	t.Parallel()

	completer := &blockingCompleter{release: make(chan struct{})}
	runner := newTestRunner(t, completer)

	require.NoError(t, runner.Start([]string{"apple", "banana"}, domain.DefaultRules()))
	assert.ErrorIs(t, runner.Start([]string{"cherry"}, domain.DefaultRules()), ErrBatchRunning)

	close(completer.release)
	waitUntilIdle(t, runner)

	// After completion a new batch is accepted again.
	completer.release = make(chan struct{})
	close(completer.release)
	require.NoError(t, runner.Start([]string{"cherry"}, domain.DefaultRules()))
	waitUntilIdle(t, runner)
}

func TestStartRejectsEmptyWordList(t *testing.T) {
	t.Parallel()

	runner := newTestRunner(t, &blockingCompleter{release: make(chan struct{})})
	assert.ErrorIs(t, runner.Start(nil, domain.DefaultRules()), ErrNoWords)
}

func TestReportLifecycle(t *testing.T) {
	t.Parallel()

	completer := &blockingCompleter{release: make(chan struct{})}
	runner := newTestRunner(t, completer)

	_, err := runner.Report()
	assert.ErrorIs(t, err, ErrNoReport)

	require.NoError(t, runner.Start([]string{"apple"}, domain.DefaultRules()))

	_, err = runner.Report()
	assert.ErrorIs(t, err, ErrNoReport, "no report while the batch is running")

	close(completer.release)
	waitUntilIdle(t, runner)

	report, err := runner.Report()
	require.NoError(t, err)
	assert.Equal(t, 1, report.TotalWords)
	assert.Equal(t, 1, report.SucceededCount)
}

func TestStatusTracksProgress(t *testing.T) {
	t.Parallel()

	completer := &blockingCompleter{release: make(chan struct{})}
	runner := newTestRunner(t, completer)

	assert.False(t, runner.Status().Running)

	require.NoError(t, runner.Start([]string{"apple", "banana", "cherry"}, domain.DefaultRules()))

	require.Eventually(t, func() bool {
		s := runner.Status()
		return s.Running && s.Progress.Total == 3
	}, time.Second, 5*time.Millisecond)
	assert.False(t, runner.Status().StartedAt.IsZero())

	close(completer.release)
	waitUntilIdle(t, runner)

	s := runner.Status()
	assert.EqualValues(t, 3, s.Progress.Completed)
	assert.True(t, s.StartedAt.IsZero(), "start time is cleared once the batch ends")
}

func TestCancelStopsRunningBatch(t *testing.T) {
	t.Parallel()

	completer := &blockingCompleter{release: make(chan struct{})}
	runner := newTestRunner(t, completer)

	assert.False(t, runner.Cancel(), "nothing to cancel initially")

	require.NoError(t, runner.Start([]string{"apple", "banana", "cherry", "damson"}, domain.DefaultRules()))
	require.Eventually(t, func() bool { return runner.Status().Running }, time.Second, 5*time.Millisecond)

	assert.True(t, runner.Cancel())
	waitUntilIdle(t, runner)

	report, err := runner.Report()
	require.NoError(t, err)
	assert.Equal(t, 4, report.TotalWords, "cancelled batches still account for every word")
	assert.NotZero(t, report.FailedCount)
}

func TestRunSynchronous(t *testing.T) {
	t.Parallel()

	completer := &blockingCompleter{release: make(chan struct{})}
	close(completer.release)
	runner := newTestRunner(t, completer)

	report, err := runner.Run(context.Background(), []string{"apple", "banana"}, domain.DefaultRules())
	require.NoError(t, err)
	assert.Equal(t, 2, report.SucceededCount)
	assert.False(t, runner.Status().Running)

	_, err = runner.Run(context.Background(), nil, domain.DefaultRules())
	assert.ErrorIs(t, err, ErrNoWords)
}
