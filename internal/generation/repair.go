package generation

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Parenthetical asides containing CJK characters, as models sometimes append
// translated commentary inside example sentences, e.g.
// `"...magazine." （《纽约客》杂志）`. Both fullwidth and ASCII parentheses
// occur in practice. Square brackets are deliberately not matched: they would
// collide with JSON arrays holding non-Latin values.
var (
	fullwidthAside = regexp.MustCompile(`,?\s*（[^（）]*\p{Han}[^（）]*）`)
	asciiAside     = regexp.MustCompile(`,?\s*\([^()]*\p{Han}[^()]*\)`)
)

// Repair coerces raw model output into a JSON object, tolerating the common
// formatting deviations of chat-style models. It is pure and deterministic;
// strategies are attempted in order and the first fully successful parse
// wins. No attempt partially commits.
//
// The ladder:
//  1. parse the text as-is
//  2. strip markdown code fences and surrounding whitespace
//  3. extract the first top-level {...} object with a nesting-aware scan
//  4. strip parenthesized non-Latin asides from the extracted object
//
// If no strategy yields a valid object, Repair fails with
// ErrMalformedResponse.
func Repair(raw string) (map[string]any, error) {
	if m, err := parseObject(raw); err == nil {
		return m, nil
	}

	stripped := stripFences(raw)
	if m, err := parseObject(stripped); err == nil {
		return m, nil
	}

	if obj, ok := extractObject(stripped); ok {
		if m, err := parseObject(obj); err == nil {
			return m, nil
		}
		if m, err := parseObject(stripAsides(obj)); err == nil {
			return m, nil
		}
	}

	return nil, fmt.Errorf("%w: no repair strategy produced a valid JSON object", ErrMalformedResponse)
}

func parseObject(s string) (map[string]any, error) {
	var m map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(s)), &m); err != nil {
		return nil, err
	}
	if m == nil {
		return nil, fmt.Errorf("JSON value is not an object")
	}
	return m, nil
}

// stripFences removes a leading ```json (or bare ```) marker and a trailing
// ``` marker, tolerating surrounding whitespace.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = s[len("```json"):]
	} else if strings.HasPrefix(s, "```") {
		s = s[len("```"):]
	}
	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, "```") {
		s = s[:len(s)-len("```")]
	}
	return strings.TrimSpace(s)
}

// extractObject returns the substring from the first top-level '{' to its
// matching '}'. The scan tracks brace nesting and JSON string state, so
// braces inside string values (or in trailing commentary after the object)
// do not confuse it.
func extractObject(s string) (string, bool) {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i, r := range s {
		if inString {
			switch {
			case escaped:
				escaped = false
			case r == '\\':
				escaped = true
			case r == '"':
				inString = false
			}
			continue
		}

		switch r {
		case '"':
			if start >= 0 {
				inString = true
			}
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth > 0 {
				depth--
				if depth == 0 {
					return s[start : i+1], true
				}
			}
		}
	}

	return "", false
}

func stripAsides(s string) string {
	s = fullwidthAside.ReplaceAllString(s, "")
	return asciiAside.ReplaceAllString(s, "")
}
