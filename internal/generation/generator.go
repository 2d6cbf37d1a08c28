package generation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lexcraft/cardgen/internal/domain"
	"github.com/lexcraft/cardgen/internal/validation"
)

// Default retry policy applied when the configured values are out of range.
const (
	defaultMaxAttempts = 3
	defaultRetryDelay  = time.Second
)

// CardGenerator turns one raw word into a validated card by calling the
// Completer, validating the repaired mapping in strict mode, and retrying on
// failure with a fixed delay.
//
// The retry delay is intentionally fixed rather than exponential, and retry
// accounting counts total attempts (maxAttempts=3 means three calls, not one
// call plus three retries).
type CardGenerator struct {
	completer   Completer
	validator   *validation.Validator
	logger      *slog.Logger
	mode        validation.Mode
	maxAttempts int
	retryDelay  time.Duration
}

// NewCardGenerator wires a single-card generator. maxAttempts below 1 and
// negative delays fall back to defaults with a warning.
func NewCardGenerator(
	completer Completer,
	validator *validation.Validator,
	logger *slog.Logger,
	mode validation.Mode,
	maxAttempts int,
	retryDelay time.Duration,
) (*CardGenerator, error) {
	if completer == nil {
		return nil, fmt.Errorf("%w: completer cannot be nil", ErrInvalidConfig)
	}
	if validator == nil {
		return nil, fmt.Errorf("%w: validator cannot be nil", ErrInvalidConfig)
	}
	if logger == nil {
		return nil, fmt.Errorf("%w: logger cannot be nil", ErrInvalidConfig)
	}

	if maxAttempts < 1 {
		logger.Warn("invalid max attempts, using default",
			"specified", maxAttempts,
			"default", defaultMaxAttempts)
		maxAttempts = defaultMaxAttempts
	}
	if retryDelay < 0 {
		logger.Warn("negative retry delay, using default",
			"specified", retryDelay,
			"default", defaultRetryDelay)
		retryDelay = defaultRetryDelay
	}

	return &CardGenerator{
		completer:   completer,
		validator:   validator,
		logger:      logger,
		mode:        mode,
		maxAttempts: maxAttempts,
		retryDelay:  retryDelay,
	}, nil
}

// GenerateOne runs the full attempt loop for one word and returns a terminal
// outcome. It never returns an error and never panics past its own boundary:
// upstream failures, malformed responses, and validation failures all become
// data on the returned outcome. The batch orchestrator depends on this
// containment.
func (g *CardGenerator) GenerateOne(
	ctx context.Context,
	word string,
	rules domain.GenerationRules,
) (outcome domain.GenerationOutcome) {
	defer func() {
		if r := recover(); r != nil {
			g.logger.ErrorContext(ctx, "panic during card generation",
				"word", word, "panic", r)
			outcome = domain.NewFailureOutcome(word, fmt.Sprintf("internal error: %v", r))
		}
	}()

	rules = rules.Normalized()

	var lastErr error
	for attempt := 1; attempt <= g.maxAttempts; attempt++ {
		card, err := g.attempt(ctx, word, rules)
		if err == nil {
			g.logger.InfoContext(ctx, "card generated",
				"word", word, "attempt", attempt)
			return domain.NewSuccessOutcome(word, card)
		}
		lastErr = err

		g.logger.WarnContext(ctx, "card generation attempt failed",
			"word", word,
			"attempt", attempt,
			"max_attempts", g.maxAttempts,
			"error", err)

		if attempt == g.maxAttempts {
			break
		}

		select {
		case <-time.After(g.retryDelay):
		case <-ctx.Done():
			g.logger.WarnContext(ctx, "generation cancelled during retry delay",
				"word", word, "attempt", attempt)
			lastErr = fmt.Errorf("%w: %v", ErrUpstream, ctx.Err())
			return domain.NewFailureOutcome(word, lastErr.Error())
		}
	}

	g.logger.ErrorContext(ctx, "card generation exhausted retries",
		"word", word, "attempts", g.maxAttempts, "error", lastErr)
	return domain.NewFailureOutcome(word, lastErr.Error())
}

func (g *CardGenerator) attempt(
	ctx context.Context,
	word string,
	rules domain.GenerationRules,
) (*domain.Card, error) {
	raw, err := g.completer.Complete(ctx, word, rules)
	if err != nil {
		return nil, err
	}

	if g.mode == validation.Lenient {
		raw = g.validator.CleanAndRepair(raw)
	}
	card, err := g.validator.Validate(raw, g.mode)
	if err != nil {
		var verr *validation.Error
		if errors.As(err, &verr) {
			return nil, fmt.Errorf("model output failed validation: %w", verr)
		}
		return nil, err
	}
	return card, nil
}
