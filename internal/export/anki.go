package export

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/lexcraft/cardgen/internal/domain"
)

// ankiColumns is the field order declared in the #columns directive.
var ankiColumns = []string{
	"Front",
	"Back",
	"Phonetic",
	"Part of Speech",
	"Meaning",
	"Memory Tip",
	"Examples",
	"Synonyms",
	"Confusables",
	"Tags",
}

// AnkiExporter writes cards as a tab-separated file with Anki's file-header
// directives, importable without any dialog tweaking.
type AnkiExporter struct {
	logger    *slog.Logger
	outputDir string
}

func NewAnkiExporter(logger *slog.Logger, outputDir string) *AnkiExporter {
	return &AnkiExporter{logger: logger, outputDir: outputDir}
}

// Export writes cards to path, or to a timestamped file in the output
// directory when path is empty, and returns the written path.
func (e *AnkiExporter) Export(cards []*domain.Card, path string) (string, error) {
	if len(cards) == 0 {
		return "", ErrNoCards
	}

	path, err := ensureOutputPath(e.outputDir, path, "anki_import", ".txt")
	if err != nil {
		return "", err
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create anki file: %w", err)
	}
	defer func() { _ = f.Close() }()

	w := bufio.NewWriter(f)

	// Anki reads these directives from the top of the file.
	fmt.Fprint(w, utf8BOM)
	fmt.Fprintln(w, "#separator:tab")
	fmt.Fprintln(w, "#html:true")
	fmt.Fprintf(w, "#columns:%s\n", strings.Join(ankiColumns, "\t"))

	for _, card := range cards {
		fields := []string{
			card.Word,
			formatBack(card),
			card.Phonetic,
			card.PartOfSpeech,
			card.Meaning,
			formatTip(card.MemoryTip),
			formatExamplesHTML(card.Examples),
			strings.Join(card.Synonyms, "<br>"),
			strings.Join(card.Confusables, "<br>"),
			formatTags(card),
		}
		for i := range fields {
			fields[i] = sanitizeTSV(fields[i])
		}
		fmt.Fprintln(w, strings.Join(fields, "\t"))
	}

	if err := w.Flush(); err != nil {
		return "", fmt.Errorf("failed to flush anki file: %w", err)
	}

	e.logger.Info("Anki export completed", "cards", len(cards), "path", path)
	return path, nil
}

// formatExamplesHTML renders the examples as an ordered list.
func formatExamplesHTML(examples []string) string {
	if len(examples) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("<ol>")
	for _, example := range examples {
		sb.WriteString("<li>")
		sb.WriteString(example)
		sb.WriteString("</li>")
	}
	sb.WriteString("</ol>")
	return sb.String()
}

// sanitizeTSV strips the two characters that would corrupt a record.
func sanitizeTSV(field string) string {
	field = strings.ReplaceAll(field, "\t", " ")
	field = strings.ReplaceAll(field, "\n", "<br>")
	return field
}
