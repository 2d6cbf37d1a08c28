// Package validation enforces the card data contract on untrusted model
// output. It is the only path from a raw field mapping to a domain.Card.
package validation

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/lexcraft/cardgen/internal/domain"
)

// Mode selects how shape violations on optional fields are treated.
type Mode int

const (
	// Strict rejects the record on any violation. All violations found are
	// collected before failing, so callers see the full picture rather than
	// only the first problem.
	Strict Mode = iota

	// Lenient still rejects records missing required fields (word, meaning,
	// memory tip, examples) but logs and defaults individually invalid
	// optional-shape fields instead of failing the whole record.
	Lenient
)

// ParseMode maps a configuration string to a Mode. Anything other than
// "strict" selects Lenient, matching the configuration default.
func ParseMode(s string) Mode {
	if strings.EqualFold(strings.TrimSpace(s), "strict") {
		return Strict
	}
	return Lenient
}

// Raw field keys expected in model output.
const (
	keyWord         = "word"
	keyPhonetic     = "phonetic"
	keyPartOfSpeech = "part_of_speech"
	keyMeaning      = "meaning"
	keyMemoryTip    = "memory_tip"
	keyExamples     = "examples"
	keySynonyms     = "synonyms"
	keyConfusables  = "confusables"
	keyTipKind      = "kind"
	keyTipContent   = "content"
)

var allKeys = []string{
	keyWord, keyPhonetic, keyPartOfSpeech, keyMeaning,
	keyMemoryTip, keyExamples, keySynonyms, keyConfusables,
}

var requiredKeys = map[string]bool{
	keyWord:      true,
	keyMeaning:   true,
	keyMemoryTip: true,
	keyExamples:  true,
}

// posCanonical maps recognized part-of-speech spellings to their canonical
// short tag. Matching is case-insensitive. Unrecognized tags are preserved
// as-is with a warning, never rejected; this asymmetry with the other fields
// is deliberate.
var posCanonical = []struct {
	pattern *regexp.Regexp
	tag     string
}{
	{regexp.MustCompile(`(?i)^(n\.?|noun)$`), "n."},
	{regexp.MustCompile(`(?i)^(v\.?|verb)$`), "v."},
	{regexp.MustCompile(`(?i)^(adj\.?|adjective)$`), "adj."},
	{regexp.MustCompile(`(?i)^(adv\.?|adverb)$`), "adv."},
	{regexp.MustCompile(`(?i)^(prep\.?|preposition)$`), "prep."},
	{regexp.MustCompile(`(?i)^(conj\.?|conjunction)$`), "conj."},
	{regexp.MustCompile(`(?i)^(interj\.?|interjection)$`), "interj."},
	{regexp.MustCompile(`(?i)^(pron\.?|pronoun)$`), "pron."},
	{regexp.MustCompile(`(?i)^(art\.?|article)$`), "art."},
}

var (
	stressMarks    = regexp.MustCompile(`[ˈˌ]`)
	latinRun       = regexp.MustCompile(`[a-zA-Z]`)
	repeatedSpaces = regexp.MustCompile(`\s+`)
)

// Validator applies the per-field card contract. It is stateless apart from
// its configured mnemonic-strategy set and is safe for concurrent use.
type Validator struct {
	logger   *slog.Logger
	tipKinds map[string]bool
}

// New builds a Validator accepting the given mnemonic strategy names for the
// memory tip's kind. An empty set falls back to the default strategies.
func New(logger *slog.Logger, tipKinds []string) *Validator {
	if logger == nil {
		logger = slog.Default()
	}
	if len(tipKinds) == 0 {
		tipKinds = domain.DefaultTipKinds()
	}
	kinds := make(map[string]bool, len(tipKinds))
	for _, k := range tipKinds {
		kinds[k] = true
	}
	return &Validator{logger: logger, tipKinds: kinds}
}

// Validate enforces the card contract on a raw field mapping and constructs
// the Card on success. In Strict mode every violation found is collected into
// the returned *Error; in Lenient mode only required-field violations fail,
// and optional-shape problems are logged and defaulted.
func (v *Validator) Validate(raw map[string]any, mode Mode) (*domain.Card, error) {
	var required, optional []string

	for _, key := range allKeys {
		if _, ok := raw[key]; ok {
			continue
		}
		if requiredKeys[key] {
			required = append(required, "missing required field: "+key)
		} else if mode == Strict {
			optional = append(optional, "missing field: "+key)
		}
	}

	word, ok := normalizeWord(asString(raw[keyWord]))
	if !ok {
		required = append(required, "invalid word: must be 2-50 alphabetic characters")
	}

	phonetic, ok := normalizePhonetic(asString(raw[keyPhonetic]))
	if !ok {
		optional = append(optional, "invalid phonetic: expected /.../ or [...] notation")
		phonetic = ""
	}

	pos := v.canonicalizePartOfSpeech(asString(raw[keyPartOfSpeech]))

	meaning := strings.TrimSpace(asString(raw[keyMeaning]))
	if meaning == "" || len([]rune(meaning)) > domain.MeaningMaxLen {
		required = append(required, "invalid meaning: must be non-empty and at most 500 characters")
	}

	tip, tipErrs := v.normalizeMemoryTip(raw[keyMemoryTip])
	for _, e := range tipErrs {
		if e.required {
			required = append(required, e.msg)
		} else {
			optional = append(optional, e.msg)
		}
	}

	examples := filterExamples(asStringSlice(raw[keyExamples]))
	if len(examples) == 0 {
		required = append(required, "invalid examples: need at least one sentence of 10-500 characters containing Latin letters")
	}

	synonyms := filterRelatedWords(asStringSlice(raw[keySynonyms]), domain.MaxSynonyms)
	confusables := filterRelatedWords(asStringSlice(raw[keyConfusables]), domain.MaxConfusables)

	violations := append(append([]string{}, required...), optional...)

	switch mode {
	case Strict:
		if len(violations) > 0 {
			return nil, &Error{Violations: violations}
		}
	case Lenient:
		if len(required) > 0 {
			return nil, &Error{Violations: required}
		}
		for _, msg := range optional {
			v.logger.Warn("lenient validation defaulted a field",
				"word", word, "violation", msg)
		}
	}

	card, err := domain.NewCard(word, phonetic, pos, meaning, tip, examples, synonyms, confusables)
	if err != nil {
		return nil, &Error{Violations: []string{err.Error()}}
	}
	return card, nil
}

// Failure records one rejected item of a batch validation.
type Failure struct {
	Index int
	Raw   map[string]any
	Err   error
}

// ValidateBatch applies Validate to every item, partitioning successes from
// failures. One item's failure never aborts the batch.
func (v *Validator) ValidateBatch(items []map[string]any, mode Mode) ([]*domain.Card, []Failure) {
	cards := make([]*domain.Card, 0, len(items))
	var failures []Failure

	for i, item := range items {
		card, err := v.Validate(item, mode)
		if err != nil {
			failures = append(failures, Failure{Index: i, Raw: item, Err: err})
			continue
		}
		cards = append(cards, card)
	}

	v.logger.Info("batch validation finished",
		"accepted", len(cards), "rejected", len(failures))
	return cards, failures
}

// CleanAndRepair applies best-effort pre-normalization to a raw mapping:
// trimming and lowercasing the word, collapsing repeated whitespace in the
// phonetic, canonicalizing common part-of-speech spellings, and dropping
// empty strings from list fields. It is an optional preprocessing step, not a
// substitute for Validate.
func (v *Validator) CleanAndRepair(raw map[string]any) map[string]any {
	cleaned := make(map[string]any, len(raw))
	for k, val := range raw {
		cleaned[k] = val
	}

	if s := asString(cleaned[keyWord]); s != "" {
		cleaned[keyWord] = strings.ToLower(strings.TrimSpace(s))
	}
	if s := asString(cleaned[keyPhonetic]); s != "" {
		cleaned[keyPhonetic] = repeatedSpaces.ReplaceAllString(strings.TrimSpace(s), " ")
	}
	if s := asString(cleaned[keyPartOfSpeech]); s != "" {
		cleaned[keyPartOfSpeech] = v.canonicalizePartOfSpeech(s)
	}
	for _, key := range []string{keyExamples, keySynonyms, keyConfusables} {
		if _, ok := cleaned[key]; !ok {
			continue
		}
		items := asStringSlice(cleaned[key])
		kept := make([]string, 0, len(items))
		for _, item := range items {
			if trimmed := strings.TrimSpace(item); trimmed != "" {
				kept = append(kept, trimmed)
			}
		}
		cleaned[key] = kept
	}

	return cleaned
}

func (v *Validator) canonicalizePartOfSpeech(pos string) string {
	pos = strings.TrimSpace(pos)
	if pos == "" {
		return ""
	}
	for _, entry := range posCanonical {
		if entry.pattern.MatchString(pos) {
			return entry.tag
		}
	}
	v.logger.Warn("unrecognized part-of-speech tag preserved as-is", "tag", pos)
	return pos
}

type tipViolation struct {
	msg      string
	required bool
}

func (v *Validator) normalizeMemoryTip(raw any) (domain.MemoryTip, []tipViolation) {
	m, ok := raw.(map[string]any)
	if !ok {
		if raw == nil {
			return domain.MemoryTip{}, []tipViolation{{msg: "missing required field: memory_tip", required: true}}
		}
		return domain.MemoryTip{}, []tipViolation{{msg: "invalid memory_tip: expected an object", required: true}}
	}

	kind := strings.TrimSpace(asString(m[keyTipKind]))
	content := strings.TrimSpace(asString(m[keyTipContent]))

	var violations []tipViolation
	if kind != "" && !v.tipKinds[kind] {
		violations = append(violations, tipViolation{
			msg: fmt.Sprintf("unknown memory tip kind: %q", kind),
		})
		kind = ""
	}
	if content == "" || len([]rune(content)) > domain.TipContentMaxLen {
		violations = append(violations, tipViolation{
			msg:      "invalid memory tip content: must be non-empty and at most 200 characters",
			required: true,
		})
	}

	return domain.MemoryTip{Kind: kind, Content: content}, violations
}

func normalizeWord(s string) (string, bool) {
	w := strings.ToLower(strings.TrimSpace(s))
	return w, domain.IsValidWord(w)
}

func normalizePhonetic(s string) (string, bool) {
	p := strings.TrimSpace(s)
	if p == "" {
		return "", true
	}
	if (strings.HasPrefix(p, "/") && strings.HasSuffix(p, "/") && len(p) > 1) ||
		(strings.HasPrefix(p, "[") && strings.HasSuffix(p, "]") && len(p) > 1) {
		return p, true
	}
	// Bare transcriptions carrying IPA stress marks are recoverable; wrap
	// them instead of discarding.
	if stressMarks.MatchString(p) {
		return "/" + p + "/", true
	}
	return p, false
}

func filterExamples(items []string) []string {
	kept := make([]string, 0, len(items))
	for _, item := range items {
		s := strings.TrimSpace(item)
		n := len([]rune(s))
		if n < domain.ExampleMinLen || n > domain.ExampleMaxLen {
			continue
		}
		if !latinRun.MatchString(s) {
			continue
		}
		kept = append(kept, s)
		if len(kept) == domain.MaxExamples {
			break
		}
	}
	return kept
}

func filterRelatedWords(items []string, limit int) []string {
	kept := make([]string, 0, len(items))
	for _, item := range items {
		w := strings.ToLower(strings.TrimSpace(item))
		if !isRelatedWord(w) {
			continue
		}
		kept = append(kept, w)
		if len(kept) == limit {
			break
		}
	}
	return kept
}

func isRelatedWord(w string) bool {
	if len(w) < domain.RelatedMinLen || len(w) > domain.RelatedMaxLen {
		return false
	}
	for _, r := range w {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asStringSlice(v any) []string {
	switch items := v.(type) {
	case []string:
		return items
	case []any:
		out := make([]string, 0, len(items))
		for _, item := range items {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
