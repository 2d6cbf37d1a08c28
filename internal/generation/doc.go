// Package generation implements the batch card-generation pipeline: a
// pluggable language-model completion interface, tolerant repair of raw model
// output, per-word generation with retry, and a batch orchestrator with
// bounded concurrency, per-worker rate limiting, and progress reporting.
//
// All per-word failures are contained into GenerationOutcome values; a batch
// always completes and returns a full BatchReport, even when every word
// failed. Callers must inspect the report's FailedCount rather than rely on
// an error to signal partial failure.
package generation
