package domain

import "errors"

// Card-specific validation errors. These cover structural invariants only;
// the richer per-field normalization rules live in the validation package.
var (
	// ErrWordInvalid is returned when a card's word is empty, out of the
	// 2-50 character range, or contains non-alphabetic characters.
	ErrWordInvalid = errors.New("word must be 2-50 lowercase alphabetic characters")

	// ErrPhoneticInvalid is returned when a non-empty phonetic transcription
	// is not wrapped in slashes or square brackets.
	ErrPhoneticInvalid = errors.New("phonetic must be empty or wrapped in /.../ or [...]")

	// ErrMeaningInvalid is returned when a card's meaning is empty or longer
	// than 500 characters.
	ErrMeaningInvalid = errors.New("meaning must be a non-empty string of at most 500 characters")

	// ErrMemoryTipInvalid is returned when a memory tip has no content or its
	// content exceeds 200 characters.
	ErrMemoryTipInvalid = errors.New("memory tip content must be non-empty and at most 200 characters")

	// ErrExamplesInvalid is returned when a card has no examples, more than
	// five, or an example outside the 10-500 character range.
	ErrExamplesInvalid = errors.New("examples must contain 1-5 sentences of 10-500 characters")

	// ErrSynonymsInvalid is returned when the synonym list is malformed.
	ErrSynonymsInvalid = errors.New("synonyms must contain at most 10 alphabetic words of 2-30 characters")

	// ErrConfusablesInvalid is returned when the confusable list is malformed.
	ErrConfusablesInvalid = errors.New("confusables must contain at most 5 alphabetic words of 2-30 characters")

	// ErrOutcomeInconsistent is returned when a generation outcome carries
	// both (or neither) a card and an error message.
	ErrOutcomeInconsistent = errors.New("outcome must carry exactly one of card or error message")

	// ErrReportInconsistent is returned when a batch report's counters do not
	// add up to the number of outcomes.
	ErrReportInconsistent = errors.New("report counters must sum to the number of outcomes")
)
