package generation

import (
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexcraft/cardgen/internal/domain"
	"github.com/lexcraft/cardgen/internal/validation"
)

func newTestBatch(t *testing.T, completer Completer, concurrency, ratePerMinute int) *BatchGenerator {
	t.Helper()
	v := validation.New(slog.Default(), domain.DefaultTipKinds())
	gen, err := NewCardGenerator(completer, v, slog.Default(), validation.Strict, 2, 0)
	require.NoError(t, err)
	batch, err := NewBatchGenerator(gen, slog.Default(), concurrency, ratePerMinute)
	require.NoError(t, err)
	return batch
}

func distinctWords(n int) []string {
	words := make([]string, n)
	for i := range words {
		words[i] = fmt.Sprintf("word%c%c", 'a'+i/26, 'a'+i%26)
	}
	return words
}

func TestGenerateBatchPreservesInputOrder(t *testing.T) {
	t.Parallel()

	words := distinctWords(20)

	for _, concurrency := range []int{1, 4, 16} {
		concurrency := concurrency
		t.Run(fmt.Sprintf("concurrency_%d", concurrency), func(t *testing.T) {
			t.Parallel()

			stub := newStubCompleter(func(word string, _ int64) (map[string]any, error) {
				return wellFormedResponse(word), nil
			})
			batch := newTestBatch(t, stub, concurrency, 0)

			report := batch.GenerateBatch(context.Background(), words, domain.DefaultRules())

			require.NoError(t, report.Validate())
			require.Len(t, report.Outcomes, len(words))
			for i, outcome := range report.Outcomes {
				assert.Equal(t, words[i], outcome.Word, "outcome %d out of order", i)
				assert.True(t, outcome.Succeeded)
			}
		})
	}
}

func TestGenerateBatchAccounting(t *testing.T) {
	t.Parallel()

	stub := newStubCompleter(func(word string, _ int64) (map[string]any, error) {
		if word[len(word)-1]%2 == 0 {
			return nil, fmt.Errorf("%w: synthetic failure", ErrUpstream)
		}
		return wellFormedResponse(word), nil
	})
	batch := newTestBatch(t, stub, 4, 0)

	words := distinctWords(12)
	report := batch.GenerateBatch(context.Background(), words, domain.DefaultRules())

	require.NoError(t, report.Validate())
	assert.Equal(t, len(words), report.TotalWords)
	assert.Equal(t, report.TotalWords, report.SucceededCount+report.FailedCount)
	assert.Equal(t, len(words), len(report.Outcomes))
	for _, outcome := range report.Outcomes {
		assert.NoError(t, outcome.Validate())
	}
}

// One word generates, the other fails upstream on every attempt: the batch
// still completes, carries both outcomes in input order, and never surfaces
// an error to the caller.
func TestGenerateBatchMixedOutcomes(t *testing.T) {
	t.Parallel()

	stub := newStubCompleter(func(word string, _ int64) (map[string]any, error) {
		if word == "xyzzynonword" {
			return nil, fmt.Errorf("%w: quota exceeded", ErrUpstream)
		}
		return wellFormedResponse(word), nil
	})
	batch := newTestBatch(t, stub, 2, 0)

	report := batch.GenerateBatch(context.Background(), []string{"apple", "xyzzynonword"}, domain.DefaultRules())

	require.NoError(t, report.Validate())
	assert.Equal(t, 2, report.TotalWords)
	assert.Equal(t, 1, report.SucceededCount)
	assert.Equal(t, 1, report.FailedCount)

	require.Len(t, report.Outcomes, 2)
	assert.Equal(t, "apple", report.Outcomes[0].Word)
	assert.True(t, report.Outcomes[0].Succeeded)
	assert.NotNil(t, report.Outcomes[0].Card)

	assert.Equal(t, "xyzzynonword", report.Outcomes[1].Word)
	assert.False(t, report.Outcomes[1].Succeeded)
	assert.NotEmpty(t, report.Outcomes[1].ErrorMessage)
}

func TestGenerateBatchEnforcesRateFloor(t *testing.T) {
	t.Parallel()

	stub := newStubCompleter(func(word string, _ int64) (map[string]any, error) {
		return wellFormedResponse(word), nil
	})
	// 1200 requests/minute = a 50ms floor per request on the single worker.
	batch := newTestBatch(t, stub, 1, 1200)

	start := time.Now()
	report := batch.GenerateBatch(context.Background(), distinctWords(5), domain.DefaultRules())
	elapsed := time.Since(start)

	require.Equal(t, 5, report.SucceededCount)
	assert.GreaterOrEqual(t, elapsed, 200*time.Millisecond,
		"five instant requests must still be spaced by at least four 50ms gaps")
}

func TestGenerateBatchSkipsTrailingRateDelay(t *testing.T) {
	t.Parallel()

	stub := newStubCompleter(func(word string, _ int64) (map[string]any, error) {
		return wellFormedResponse(word), nil
	})
	// 60 requests/minute = a 1s floor, but a lone request needs no pacing.
	batch := newTestBatch(t, stub, 1, 60)

	start := time.Now()
	report := batch.GenerateBatch(context.Background(), []string{"apple"}, domain.DefaultRules())
	elapsed := time.Since(start)

	require.Equal(t, 1, report.SucceededCount)
	assert.Less(t, elapsed, 500*time.Millisecond,
		"the worker must not wait out the rate floor after its final word")
}

func TestGenerateBatchProgressAdvances(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	stub := newStubCompleter(func(word string, _ int64) (map[string]any, error) {
		<-release
		return wellFormedResponse(word), nil
	})
	batch := newTestBatch(t, stub, 2, 0)

	done := make(chan *domain.BatchReport, 1)
	go func() {
		done <- batch.GenerateBatch(context.Background(), distinctWords(6), domain.DefaultRules())
	}()

	require.Eventually(t, func() bool {
		return batch.Progress().Total == 6
	}, time.Second, 5*time.Millisecond)
	assert.EqualValues(t, 0, batch.Progress().Completed)

	close(release)
	report := <-done

	snap := batch.Progress()
	assert.EqualValues(t, 6, snap.Completed)
	assert.EqualValues(t, 6, snap.Succeeded)
	assert.Equal(t, 6, report.SucceededCount)
}

func TestGenerateBatchCancellationStopsDispatch(t *testing.T) {
	t.Parallel()

	started := make(chan struct{}, 1)
	release := make(chan struct{})
	stub := newStubCompleter(func(word string, _ int64) (map[string]any, error) {
		select {
		case started <- struct{}{}:
		default:
		}
		<-release
		return wellFormedResponse(word), nil
	})
	batch := newTestBatch(t, stub, 1, 0)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan *domain.BatchReport, 1)
	go func() {
		done <- batch.GenerateBatch(ctx, distinctWords(10), domain.DefaultRules())
	}()

	<-started // first word is in flight
	cancel()
	close(release) // let the in-flight attempt finish

	report := <-done

	require.NoError(t, report.Validate())
	assert.Equal(t, 10, report.TotalWords, "cancelled batches still account for every word")
	assert.Less(t, report.SucceededCount, 10)

	cancelled := 0
	for _, outcome := range report.Outcomes {
		if !outcome.Succeeded && outcome.ErrorMessage == "generation cancelled before dispatch" {
			cancelled++
		}
	}
	assert.Greater(t, cancelled, 0, "undispatched words carry a cancellation outcome")
}

func TestNewBatchGeneratorValidation(t *testing.T) {
	t.Parallel()

	stub := newStubCompleter(func(word string, _ int64) (map[string]any, error) {
		return wellFormedResponse(word), nil
	})
	v := validation.New(slog.Default(), nil)
	gen, err := NewCardGenerator(stub, v, slog.Default(), validation.Strict, 1, 0)
	require.NoError(t, err)

	_, err = NewBatchGenerator(nil, slog.Default(), 1, 0)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewBatchGenerator(gen, slog.Default(), 1, -1)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	// Zero concurrency is coerced to 1 rather than rejected.
	b, err := NewBatchGenerator(gen, slog.Default(), 0, 0)
	require.NoError(t, err)
	report := b.GenerateBatch(context.Background(), []string{"apple"}, domain.DefaultRules())
	assert.Equal(t, 1, report.TotalWords)
}
