package export

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"

	"github.com/lexcraft/cardgen/internal/domain"
)

// Pronunciation audio sources. Each maps a word to a directly playable mp3
// hosted by a public dictionary.
const (
	AudioSourceOxford    = "oxford"
	AudioSourceMerriam   = "merriam"
	AudioSourceCambridge = "cambridge"
)

// AudioLinker builds pronunciation links for cards. Words use dictionary
// recordings; full example sentences fall back to a TTS endpoint.
type AudioLinker struct {
	source string
}

// NewAudioLinker creates a linker for the given source, defaulting to Oxford
// for unknown names.
func NewAudioLinker(source string) *AudioLinker {
	switch source {
	case AudioSourceOxford, AudioSourceMerriam, AudioSourceCambridge:
		return &AudioLinker{source: source}
	default:
		return &AudioLinker{source: AudioSourceOxford}
	}
}

// WordURL returns the pronunciation mp3 URL for a word.
func (l *AudioLinker) WordURL(word string) string {
	switch l.source {
	case AudioSourceMerriam:
		return fmt.Sprintf("https://media.merriam-webster.com/audio/prons/en/us/mp3/%s.mp3", word)
	case AudioSourceCambridge:
		return fmt.Sprintf("https://dictionary.cambridge.org/media/english/uk_pron/%s.mp3", word)
	default:
		return fmt.Sprintf("https://ssl.gstatic.com/dictionary/static/sounds/oxford/%s--_gb_1.mp3", word)
	}
}

// SentenceURL returns a TTS URL for a full example sentence. Dictionary
// sources only carry single words, so all sources share this endpoint.
func (l *AudioLinker) SentenceURL(sentence string) string {
	return "https://translate.google.com/translate_tts?ie=UTF-8&client=tw-ob&tl=en&q=" +
		url.QueryEscape(sentence)
}

// LinkHTML returns an embeddable audio player for a word with a plain link
// fallback for clients without audio support.
func (l *AudioLinker) LinkHTML(word string) string {
	u := l.WordURL(word)
	return fmt.Sprintf(
		`<audio controls><source src="%s" type="audio/mpeg"><a href="%s">play</a></audio>`,
		u, u)
}

// Decorate attaches pronunciation links for the card's word and examples.
func (l *AudioLinker) Decorate(card *domain.Card) {
	exampleURLs := make([]string, len(card.Examples))
	for i, example := range card.Examples {
		exampleURLs[i] = l.SentenceURL(example)
	}
	card.AttachAudio(FileName(card.Word), l.WordURL(card.Word), l.LinkHTML(card.Word), exampleURLs)
}

// FileName returns a stable local media file name for the given spoken
// content. The truncated content hash keeps names unique across words and
// sentences without leaking full text into the filesystem.
func FileName(content string) string {
	sum := sha256.Sum256([]byte(content))
	return "cardgen_" + hex.EncodeToString(sum[:8]) + ".mp3"
}
