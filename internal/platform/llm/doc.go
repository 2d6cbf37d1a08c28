// Package llm provides generation.Completer implementations backed by the
// OpenAI, Anthropic, Gemini, and ZhipuAI APIs, selected by a provider
// identifier through New.
//
// Every backend shares the same prompt template and response-repair path; the
// provider-specific code is limited to issuing one chat completion and one
// availability probe. Returned completers are safe for concurrent use, so the
// batch orchestrator shares a single instance across workers.
package llm
