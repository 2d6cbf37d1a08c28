package domain

// Default generation rule values, applied when a field is absent.
const (
	DefaultExampleCount    = 3
	DefaultSynonymCount    = 3
	DefaultConfusableCount = 2
)

// DefaultTipKinds is the fixed default set of mnemonic strategies the model
// is asked to choose from.
func DefaultTipKinds() []string {
	return []string{"homophone", "word-split", "etymology"}
}

// GenerationRules carries the per-field target counts and the enumerated
// mnemonic-strategy set used to build the model prompt and to validate the
// returned memory tip.
type GenerationRules struct {
	ExampleCount    int      `json:"example_count"`
	SynonymCount    int      `json:"synonym_count"`
	ConfusableCount int      `json:"confusable_count"`
	TipKinds        []string `json:"tip_kinds"`
}

// DefaultRules returns rules with every field at its default value.
func DefaultRules() GenerationRules {
	return GenerationRules{
		ExampleCount:    DefaultExampleCount,
		SynonymCount:    DefaultSynonymCount,
		ConfusableCount: DefaultConfusableCount,
		TipKinds:        DefaultTipKinds(),
	}
}

// Normalized returns a copy with defaults substituted for absent fields and
// counts clamped to the card contract's upper bounds.
func (r GenerationRules) Normalized() GenerationRules {
	out := r
	if out.ExampleCount <= 0 {
		out.ExampleCount = DefaultExampleCount
	}
	if out.ExampleCount > MaxExamples {
		out.ExampleCount = MaxExamples
	}
	if out.SynonymCount <= 0 {
		out.SynonymCount = DefaultSynonymCount
	}
	if out.SynonymCount > MaxSynonyms {
		out.SynonymCount = MaxSynonyms
	}
	if out.ConfusableCount <= 0 {
		out.ConfusableCount = DefaultConfusableCount
	}
	if out.ConfusableCount > MaxConfusables {
		out.ConfusableCount = MaxConfusables
	}
	if len(out.TipKinds) == 0 {
		out.TipKinds = DefaultTipKinds()
	}
	return out
}
