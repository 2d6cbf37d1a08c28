package validation

import "strings"

// Error reports every card-contract violation found in one record, not just
// the first. Violations are collected fully before the record is rejected.
type Error struct {
	Violations []string
}

func (e *Error) Error() string {
	if len(e.Violations) == 0 {
		return "validation failed"
	}
	return "validation failed: " + strings.Join(e.Violations, "; ")
}
