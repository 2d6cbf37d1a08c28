package generation

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexcraft/cardgen/internal/domain"
	"github.com/lexcraft/cardgen/internal/validation"
)

// stubCompleter is a scriptable Completer for tests. completeFn receives the
// 1-based call count for the given word.
type stubCompleter struct {
	calls      atomic.Int64
	mu         sync.Mutex
	perWord    map[string]int64
	completeFn func(word string, call int64) (map[string]any, error)
	available  bool
}

func newStubCompleter(fn func(word string, call int64) (map[string]any, error)) *stubCompleter {
	return &stubCompleter{
		perWord:    make(map[string]int64),
		completeFn: fn,
		available:  true,
	}
}

func (s *stubCompleter) Complete(_ context.Context, word string, _ domain.GenerationRules) (map[string]any, error) {
	s.calls.Add(1)
	s.mu.Lock()
	s.perWord[word]++
	call := s.perWord[word]
	s.mu.Unlock()
	return s.completeFn(word, call)
}

func (s *stubCompleter) IsAvailable(context.Context) bool { return s.available }

func wellFormedResponse(word string) map[string]any {
	return map[string]any{
		"word":           word,
		"phonetic":       "/tɛst/",
		"part_of_speech": "n.",
		"meaning":        "a meaning produced for testing",
		"memory_tip": map[string]any{
			"kind":    "homophone",
			"content": "sounds like something memorable",
		},
		"examples":    []any{fmt.Sprintf("This sentence demonstrates the word %s nicely.", word)},
		"synonyms":    []any{"sample"},
		"confusables": []any{},
	}
}

func newTestGenerator(t *testing.T, completer Completer) *CardGenerator {
	t.Helper()
	v := validation.New(slog.Default(), domain.DefaultTipKinds())
	gen, err := NewCardGenerator(completer, v, slog.Default(), validation.Strict, 3, 0)
	require.NoError(t, err)
	return gen
}

func TestGenerateOneSucceedsFirstAttempt(t *testing.T) {
	t.Parallel()

	stub := newStubCompleter(func(word string, _ int64) (map[string]any, error) {
		return wellFormedResponse(word), nil
	})
	gen := newTestGenerator(t, stub)

	outcome := gen.GenerateOne(context.Background(), "apple", domain.DefaultRules())

	require.True(t, outcome.Succeeded)
	require.NoError(t, outcome.Validate())
	require.NotNil(t, outcome.Card)
	assert.Equal(t, "apple", outcome.Card.Word)
	assert.Empty(t, outcome.ErrorMessage)
	assert.EqualValues(t, 1, stub.calls.Load())
}

func TestGenerateOneExhaustsRetries(t *testing.T) {
	t.Parallel()

	stub := newStubCompleter(func(string, int64) (map[string]any, error) {
		return nil, fmt.Errorf("%w: connection refused", ErrUpstream)
	})
	gen := newTestGenerator(t, stub)

	outcome := gen.GenerateOne(context.Background(), "apple", domain.DefaultRules())

	require.False(t, outcome.Succeeded)
	require.NoError(t, outcome.Validate())
	assert.Nil(t, outcome.Card)
	assert.Contains(t, outcome.ErrorMessage, "connection refused")
	assert.EqualValues(t, 3, stub.calls.Load(), "maxAttempts=3 means exactly 3 calls")
}

func TestGenerateOneRecoversOnRetry(t *testing.T) {
	t.Parallel()

	stub := newStubCompleter(func(word string, call int64) (map[string]any, error) {
		if call < 3 {
			return nil, fmt.Errorf("%w: transient", ErrUpstream)
		}
		return wellFormedResponse(word), nil
	})
	gen := newTestGenerator(t, stub)

	outcome := gen.GenerateOne(context.Background(), "apple", domain.DefaultRules())

	assert.True(t, outcome.Succeeded)
	assert.EqualValues(t, 3, stub.calls.Load())
}

func TestGenerateOneRetriesValidationFailures(t *testing.T) {
	t.Parallel()

	stub := newStubCompleter(func(word string, call int64) (map[string]any, error) {
		if call == 1 {
			resp := wellFormedResponse(word)
			resp["meaning"] = "" // fails strict validation
			return resp, nil
		}
		return wellFormedResponse(word), nil
	})
	gen := newTestGenerator(t, stub)

	outcome := gen.GenerateOne(context.Background(), "apple", domain.DefaultRules())

	assert.True(t, outcome.Succeeded, "a compliant second reply should recover the word")
	assert.EqualValues(t, 2, stub.calls.Load())
}

func TestGenerateOneContainsPanics(t *testing.T) {
	t.Parallel()

	stub := newStubCompleter(func(string, int64) (map[string]any, error) {
		panic("backend bug")
	})
	gen := newTestGenerator(t, stub)

	outcome := gen.GenerateOne(context.Background(), "apple", domain.DefaultRules())

	require.False(t, outcome.Succeeded)
	require.NoError(t, outcome.Validate())
	assert.Contains(t, outcome.ErrorMessage, "backend bug")
}

func TestGenerateOneStopsOnCancelledContext(t *testing.T) {
	t.Parallel()

	stub := newStubCompleter(func(string, int64) (map[string]any, error) {
		return nil, fmt.Errorf("%w: slow upstream", ErrUpstream)
	})
	v := validation.New(slog.Default(), domain.DefaultTipKinds())
	gen, err := NewCardGenerator(stub, v, slog.Default(), validation.Strict, 5, time.Hour)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	outcome := gen.GenerateOne(ctx, "apple", domain.DefaultRules())

	require.False(t, outcome.Succeeded)
	assert.EqualValues(t, 1, stub.calls.Load(), "no further attempts after cancellation")
}

func TestNewCardGeneratorValidatesDependencies(t *testing.T) {
	t.Parallel()

	v := validation.New(slog.Default(), nil)
	stub := newStubCompleter(func(word string, _ int64) (map[string]any, error) {
		return wellFormedResponse(word), nil
	})

	_, err := NewCardGenerator(nil, v, slog.Default(), validation.Strict, 3, 0)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewCardGenerator(stub, nil, slog.Default(), validation.Strict, 3, 0)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewCardGenerator(stub, v, nil, validation.Strict, 3, 0)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestGenerateOneLenientModeRepairsOptionalFields(t *testing.T) {
	t.Parallel()

	stub := newStubCompleter(func(word string, _ int64) (map[string]any, error) {
		resp := wellFormedResponse(word)
		resp["word"] = "  Apple " // pre-clean lowercases and trims
		resp["phonetic"] = "not a transcription"
		return resp, nil
	})
	v := validation.New(slog.Default(), domain.DefaultTipKinds())
	gen, err := NewCardGenerator(stub, v, slog.Default(), validation.Lenient, 1, 0)
	require.NoError(t, err)

	outcome := gen.GenerateOne(context.Background(), "apple", domain.DefaultRules())

	require.True(t, outcome.Succeeded)
	assert.Equal(t, "apple", outcome.Card.Word)
	assert.Empty(t, outcome.Card.Phonetic, "bad phonetic is dropped, not fatal")
	assert.EqualValues(t, 1, stub.calls.Load())
}
