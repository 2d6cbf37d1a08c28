package generation

import (
	"context"

	"github.com/lexcraft/cardgen/internal/domain"
)

// Completer is the capability interface over language-model backends. It is
// the boundary between the generation core and external AI services;
// implementations live under internal/platform/llm and are selected by a
// provider identifier at construction time.
//
// Implementations must be safe for concurrent use: the batch orchestrator
// shares one Completer across all workers.
type Completer interface {
	// Complete builds a prompt for the given word and rules, invokes the
	// backend, and returns the best-effort parsed mapping of card fields.
	//
	// Failures of the backend call wrap ErrUpstream; replies that cannot be
	// repaired into structured data wrap ErrMalformedResponse. Complete never
	// retries internally; retry policy belongs to the CardGenerator.
	Complete(ctx context.Context, word string, rules domain.GenerationRules) (map[string]any, error)

	// IsAvailable performs a lightweight reachability/credential check.
	// Intended for startup probes, never for the request hot path.
	IsAvailable(ctx context.Context) bool
}
