package export

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/lexcraft/cardgen/internal/domain"
)

// csvColumns is the header row of the review CSV.
var csvColumns = []string{
	"Front",
	"Back",
	"Phonetic",
	"Part of Speech",
	"Meaning",
	"Memory Tip Type",
	"Memory Tip Content",
	"Examples",
	"Synonyms",
	"Confusables",
	"Tags",
}

// CSVExporter writes cards as a delimited spreadsheet with a UTF-8 BOM.
type CSVExporter struct {
	logger    *slog.Logger
	outputDir string
	delimiter rune
}

// NewCSVExporter creates a CSV exporter writing into outputDir. delimiter
// may be empty, defaulting to a comma.
func NewCSVExporter(logger *slog.Logger, outputDir, delimiter string) *CSVExporter {
	d := ','
	if delimiter != "" {
		d = []rune(delimiter)[0]
	}
	return &CSVExporter{
		logger:    logger,
		outputDir: outputDir,
		delimiter: d,
	}
}

// Export writes cards to path, or to a timestamped file in the output
// directory when path is empty, and returns the written path.
func (e *CSVExporter) Export(cards []*domain.Card, path string) (string, error) {
	if len(cards) == 0 {
		return "", ErrNoCards
	}

	path, err := ensureOutputPath(e.outputDir, path, "word_cards", ".csv")
	if err != nil {
		return "", err
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create csv file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if _, err := f.WriteString(utf8BOM); err != nil {
		return "", fmt.Errorf("failed to write BOM: %w", err)
	}

	w := csv.NewWriter(f)
	w.Comma = e.delimiter

	if err := w.Write(csvColumns); err != nil {
		return "", fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, card := range cards {
		row := []string{
			card.Word + "\n" + card.Phonetic,
			formatBack(card),
			card.Phonetic,
			card.PartOfSpeech,
			card.Meaning,
			card.MemoryTip.Kind,
			card.MemoryTip.Content,
			strings.Join(card.Examples, "; "),
			strings.Join(card.Synonyms, ", "),
			strings.Join(card.Confusables, ", "),
			formatTags(card),
		}
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("failed to write card %q: %w", card.Word, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("failed to flush csv: %w", err)
	}

	e.logger.Info("CSV export completed", "cards", len(cards), "path", path)
	return path, nil
}
