package domain

import "time"

// GenerationOutcome is the terminal result of one word's generation attempt
// sequence. Exactly one of Card and ErrorMessage is set, gated by Succeeded.
type GenerationOutcome struct {
	Word         string    `json:"word"`
	Succeeded    bool      `json:"succeeded"`
	Card         *Card     `json:"card,omitempty"`
	ErrorMessage string    `json:"error_message,omitempty"`
	GeneratedAt  time.Time `json:"generated_at"`
}

// NewSuccessOutcome builds a successful outcome carrying the validated card.
func NewSuccessOutcome(word string, card *Card) GenerationOutcome {
	return GenerationOutcome{
		Word:        word,
		Succeeded:   true,
		Card:        card,
		GeneratedAt: time.Now().UTC(),
	}
}

// NewFailureOutcome builds a failed outcome carrying the last error's message.
func NewFailureOutcome(word, errorMessage string) GenerationOutcome {
	if errorMessage == "" {
		errorMessage = "generation failed"
	}
	return GenerationOutcome{
		Word:         word,
		Succeeded:    false,
		ErrorMessage: errorMessage,
		GeneratedAt:  time.Now().UTC(),
	}
}

// Validate checks the exactly-one-of-card-or-error invariant.
func (o GenerationOutcome) Validate() error {
	if o.Succeeded {
		if o.Card == nil || o.ErrorMessage != "" {
			return ErrOutcomeInconsistent
		}
		return nil
	}
	if o.Card != nil || o.ErrorMessage == "" {
		return ErrOutcomeInconsistent
	}
	return nil
}

// BatchReport aggregates the outcomes of one batch run. Outcomes is ordered
// by the input word list, independent of execution order.
type BatchReport struct {
	TotalWords     int                 `json:"total_words"`
	SucceededCount int                 `json:"succeeded_count"`
	FailedCount    int                 `json:"failed_count"`
	Outcomes       []GenerationOutcome `json:"outcomes"`
	StartedAt      time.Time           `json:"started_at"`
	CompletedAt    time.Time           `json:"completed_at"`
}

// NewBatchReport builds a report from a complete outcome list, deriving the
// counters with a single scan.
func NewBatchReport(outcomes []GenerationOutcome, startedAt, completedAt time.Time) *BatchReport {
	report := &BatchReport{
		TotalWords:  len(outcomes),
		Outcomes:    outcomes,
		StartedAt:   startedAt,
		CompletedAt: completedAt,
	}
	for _, o := range outcomes {
		if o.Succeeded {
			report.SucceededCount++
		} else {
			report.FailedCount++
		}
	}
	return report
}

// Validate checks the accounting invariant:
// SucceededCount + FailedCount == TotalWords == len(Outcomes).
func (r *BatchReport) Validate() error {
	if r.TotalWords != len(r.Outcomes) || r.SucceededCount+r.FailedCount != r.TotalWords {
		return ErrReportInconsistent
	}
	for _, o := range r.Outcomes {
		if err := o.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// SuccessfulCards returns the cards of all succeeded outcomes in input order.
// Export collaborators consume this view of the report.
func (r *BatchReport) SuccessfulCards() []*Card {
	cards := make([]*Card, 0, r.SucceededCount)
	for _, o := range r.Outcomes {
		if o.Succeeded && o.Card != nil {
			cards = append(cards, o.Card)
		}
	}
	return cards
}
