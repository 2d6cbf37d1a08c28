package llm

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/lexcraft/cardgen/internal/domain"
)

// PromptVersion identifies the current prompt template revision. Bump it when
// the output-shape contract below changes so stored raw responses can be
// traced back to the template that produced them.
const PromptVersion = "v1"

// systemPrompt frames every request. Kept short: the shape contract lives in
// the user prompt.
const systemPrompt = "You are a professional English-learning assistant that produces " +
	"high-quality vocabulary study cards. You respond with a single JSON object and nothing else."

// promptText is the versioned user-prompt template. The embedded JSON example
// is a format contract: backends must request exactly this shape, and the
// validation layer depends on these field names.
const promptText = `Create a study card for the English word "{{.Word}}" with:

- the IPA phonetic transcription, wrapped in slashes
- the part of speech as a short English tag (n., v., adj., adv., ...)
- a concise Chinese definition
- one memory tip, choosing its kind from: {{.TipKinds}}
- {{.ExampleCount}} example sentences drawn from realistic usage
- {{.SynonymCount}} synonyms (single lowercase English words)
- {{.ConfusableCount}} easily confused words: words with similar spelling,
  pronunciation, or form (like affect/effect, adapt/adopt, desert/dessert)

Reply with exactly this JSON structure and nothing else:

{
  "word": "{{.Word}}",
  "phonetic": "/.../",
  "part_of_speech": "n.",
  "meaning": "中文释义",
  "memory_tip": {
    "kind": "one of the listed kinds",
    "content": "a short, practical mnemonic"
  },
  "examples": ["sentence 1", "sentence 2"],
  "synonyms": ["synonym"],
  "confusables": ["confusable"]
}

Rules: the phonetic uses IPA; the meaning is accurate and concise; example
sentences show typical usage and contain no translations or annotations;
synonyms and confusables are plain lowercase words without commentary.`

var promptTmpl = template.Must(template.New("card-" + PromptVersion).Parse(promptText))

type promptData struct {
	Word            string
	ExampleCount    int
	SynonymCount    int
	ConfusableCount int
	TipKinds        string
}

// BuildPrompt renders the user prompt for one word. rules should already be
// normalized; BuildPrompt normalizes again defensively since the template is
// also used directly in tests.
func BuildPrompt(word string, rules domain.GenerationRules) (string, error) {
	if strings.TrimSpace(word) == "" {
		return "", ErrEmptyWord
	}
	rules = rules.Normalized()

	var sb strings.Builder
	err := promptTmpl.Execute(&sb, promptData{
		Word:            word,
		ExampleCount:    rules.ExampleCount,
		SynonymCount:    rules.SynonymCount,
		ConfusableCount: rules.ConfusableCount,
		TipKinds:        strings.Join(rules.TipKinds, ", "),
	})
	if err != nil {
		return "", fmt.Errorf("failed to execute prompt template: %w", err)
	}
	return sb.String(), nil
}
