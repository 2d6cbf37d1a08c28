// Package export writes generated study cards to spreadsheet formats: a
// review-friendly CSV and a tab-separated file Anki imports directly.
package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lexcraft/cardgen/internal/domain"
)

// ErrNoCards indicates an export was requested with nothing to write.
var ErrNoCards = errors.New("no cards to export")

// utf8BOM makes Excel and Anki detect UTF-8; both otherwise assume a legacy
// encoding and garble non-ASCII meanings.
const utf8BOM = "\xEF\xBB\xBF"

// Formats accepted by config and the CLI.
const (
	FormatCSV  = "csv"
	FormatAnki = "anki"
)

// ensureOutputPath resolves the target file path, creating the output
// directory as needed. An empty path yields a timestamped name in dir.
func ensureOutputPath(dir, path, prefix, ext string) (string, error) {
	if path == "" {
		name := fmt.Sprintf("%s_%s%s", prefix, time.Now().Format("20060102_150405"), ext)
		path = filepath.Join(dir, name)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	return path, nil
}

// formatTip renders a memory tip as "kind: content", omitting the kind when
// lenient validation dropped it.
func formatTip(tip domain.MemoryTip) string {
	if tip.Kind == "" {
		return tip.Content
	}
	return tip.Kind + ": " + tip.Content
}

// formatBack builds the HTML answer side shared by both formats.
func formatBack(card *domain.Card) string {
	parts := []string{
		"<b>Part of speech:</b> " + card.PartOfSpeech,
		"<b>Meaning:</b> " + card.Meaning,
		"<b>Memory tip:</b> " + formatTip(card.MemoryTip),
	}

	if len(card.Examples) > 0 {
		parts = append(parts, "<b>Examples:</b>")
		for i, example := range card.Examples {
			parts = append(parts, fmt.Sprintf("%d. %s", i+1, example))
		}
	}
	if len(card.Synonyms) > 0 {
		parts = append(parts, "<b>Synonyms:</b> "+strings.Join(card.Synonyms, ", "))
	}
	if len(card.Confusables) > 0 {
		parts = append(parts, "<b>Confusables:</b> "+strings.Join(card.Confusables, ", "))
	}

	return strings.Join(parts, "<br>")
}

// formatTags derives Anki tags from the card's part of speech and tip kind.
func formatTags(card *domain.Card) string {
	tags := []string{strings.ReplaceAll(card.PartOfSpeech, ".", "")}
	if card.MemoryTip.Kind != "" {
		tags = append(tags, card.MemoryTip.Kind)
	}
	return strings.Join(tags, " ")
}
