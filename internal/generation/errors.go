package generation

import "errors"

// Common errors returned by the generation package and its backends.
var (
	// ErrUpstream is returned when the language-model backend call itself
	// fails: network errors, rejected credentials, quota limits, timeouts.
	// The single-card generator retries these.
	ErrUpstream = errors.New("upstream language model call failed")

	// ErrMalformedResponse is returned when the backend replied but its
	// content could not be coerced into structured data even after every
	// repair attempt. Retried like ErrUpstream, since a later attempt may
	// produce well-formed output.
	ErrMalformedResponse = errors.New("malformed response from language model")

	// ErrInvalidConfig is returned when a generator or backend is constructed
	// with invalid configuration. Fatal at startup, never retried.
	ErrInvalidConfig = errors.New("invalid generation configuration")
)
