package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Field limits enforced by NewCard and the validation package.
const (
	WordMinLen       = 2
	WordMaxLen       = 50
	MeaningMaxLen    = 500
	TipContentMaxLen = 200
	ExampleMinLen    = 10
	ExampleMaxLen    = 500
	MaxExamples      = 5
	RelatedMinLen    = 2
	RelatedMaxLen    = 30
	MaxSynonyms      = 10
	MaxConfusables   = 5
)

// MemoryTip is a named memory-aid technique attached to a card. Kind is
// optional; when set it should name one of the configured mnemonic
// strategies. Content is always required.
type MemoryTip struct {
	Kind    string `json:"kind,omitempty"`
	Content string `json:"content"`
}

// Card is the canonical validated representation of one word's generated
// study content. A Card is constructed exactly once, by NewCard, and is
// treated as immutable afterwards; the only sanctioned post-construction
// mutation is AttachAudio, which the export layer uses to enrich a card with
// pronunciation references.
type Card struct {
	ID           uuid.UUID `json:"id"`
	Word         string    `json:"word"`
	Phonetic     string    `json:"phonetic"`
	PartOfSpeech string    `json:"part_of_speech"`
	Meaning      string    `json:"meaning"`
	MemoryTip    MemoryTip `json:"memory_tip"`
	Examples     []string  `json:"examples"`
	Synonyms     []string  `json:"synonyms"`
	Confusables  []string  `json:"confusables"`

	// Pronunciation references, populated after construction by the audio
	// collaborator via AttachAudio. Never set by the generation core.
	WordAudioPath    string   `json:"word_audio,omitempty"`
	WordAudioURL     string   `json:"word_audio_url,omitempty"`
	WordAudioHTML    string   `json:"word_audio_html,omitempty"`
	ExampleAudioURLs []string `json:"example_audio_urls,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewCard creates a Card from already-normalized field values, generating a
// fresh ID and setting both timestamps. It enforces the structural field
// contract and returns the first violated invariant as an error.
//
// Callers holding untrusted model output should not call NewCard directly;
// the validation package is the only path from raw data to a Card.
func NewCard(
	word, phonetic, partOfSpeech, meaning string,
	tip MemoryTip,
	examples, synonyms, confusables []string,
) (*Card, error) {
	card := &Card{
		ID:           uuid.New(),
		Word:         word,
		Phonetic:     phonetic,
		PartOfSpeech: partOfSpeech,
		Meaning:      meaning,
		MemoryTip:    tip,
		Examples:     examples,
		Synonyms:     synonyms,
		Confusables:  confusables,
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}

	if err := card.Validate(); err != nil {
		return nil, err
	}

	return card, nil
}

// Validate checks the Card's structural invariants. It does not re-run the
// normalization rules (casing, canonical part-of-speech tags); those are the
// validation package's concern.
func (c *Card) Validate() error {
	if !IsValidWord(c.Word) {
		return ErrWordInvalid
	}

	if c.Phonetic != "" && !isBracketedPhonetic(c.Phonetic) {
		return ErrPhoneticInvalid
	}

	if c.Meaning == "" || len([]rune(c.Meaning)) > MeaningMaxLen {
		return ErrMeaningInvalid
	}

	if c.MemoryTip.Content == "" || len([]rune(c.MemoryTip.Content)) > TipContentMaxLen {
		return ErrMemoryTipInvalid
	}

	if len(c.Examples) < 1 || len(c.Examples) > MaxExamples {
		return ErrExamplesInvalid
	}
	for _, ex := range c.Examples {
		n := len([]rune(ex))
		if n < ExampleMinLen || n > ExampleMaxLen {
			return ErrExamplesInvalid
		}
	}

	if len(c.Synonyms) > MaxSynonyms {
		return ErrSynonymsInvalid
	}
	for _, s := range c.Synonyms {
		if !isValidRelatedWord(s) {
			return ErrSynonymsInvalid
		}
	}

	if len(c.Confusables) > MaxConfusables {
		return ErrConfusablesInvalid
	}
	for _, s := range c.Confusables {
		if !isValidRelatedWord(s) {
			return ErrConfusablesInvalid
		}
	}

	return nil
}

// AttachAudio records pronunciation references produced by the audio
// collaborator and bumps UpdatedAt. This is the single sanctioned mutation of
// a validated Card: enrichment happens through this method, never by aliasing
// the struct's fields from outside the package's contract.
func (c *Card) AttachAudio(path, url, html string, exampleURLs []string) {
	c.WordAudioPath = path
	c.WordAudioURL = url
	c.WordAudioHTML = html
	c.ExampleAudioURLs = exampleURLs
	c.UpdatedAt = time.Now().UTC()
}

// IsValidWord reports whether w satisfies the word contract: lowercase
// Latin letters only, 2-50 characters.
func IsValidWord(w string) bool {
	return isLowerAlpha(w, WordMinLen, WordMaxLen)
}

func isValidRelatedWord(w string) bool {
	return isLowerAlpha(w, RelatedMinLen, RelatedMaxLen)
}

func isLowerAlpha(w string, minLen, maxLen int) bool {
	if len(w) < minLen || len(w) > maxLen {
		return false
	}
	for _, r := range w {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}

func isBracketedPhonetic(p string) bool {
	return (strings.HasPrefix(p, "/") && strings.HasSuffix(p, "/") && len(p) > 1) ||
		(strings.HasPrefix(p, "[") && strings.HasSuffix(p, "]") && len(p) > 1)
}
