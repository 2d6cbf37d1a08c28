// Package api exposes card generation over HTTP: browsing the built-in word
// list, starting a background batch, polling its progress, fetching the
// final report and cancelling a run. Responses are JSON; errors use a
// uniform envelope that never leaks internal error strings.
package api
