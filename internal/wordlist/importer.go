package wordlist

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// ErrUnsupportedFormat indicates a word file extension the importer does not
// understand.
var ErrUnsupportedFormat = errors.New("unsupported word file format")

// ErrNoWords indicates an input that yielded no usable words after cleaning.
var ErrNoWords = errors.New("no usable words found")

var wordPattern = regexp.MustCompile(`[a-zA-Z]+`)

// csvWordColumns are header names recognized as the word column, checked in
// order. Files without any of these fall back to the first column.
var csvWordColumns = []string{"word", "words", "词汇", "单词"}

// ImportFile reads a word list from path, detecting the format from the file
// extension (.txt, .csv or .json), and returns the cleaned, deduplicated
// words in file order.
func ImportFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open word file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var raw []string
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".txt":
		raw, err = importText(f)
	case ".csv":
		raw, err = importCSV(f)
	case ".json":
		raw, err = importJSON(f)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to import %s: %w", path, err)
	}

	cleaned := Clean(raw)
	if len(cleaned) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoWords, path)
	}
	return cleaned, nil
}

// importText reads one or more words per line, skipping blank lines and
// lines starting with #.
func importText(r io.Reader) ([]string, error) {
	var out []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, wordPattern.FindAllString(line, -1)...)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read text: %w", err)
	}
	return out, nil
}

// importCSV reads the word column of a headed CSV file.
func importCSV(r io.Reader) ([]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	column := 0
	for _, name := range csvWordColumns {
		if idx := indexOfFold(header, name); idx >= 0 {
			column = idx
			break
		}
	}

	var out []string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv record: %w", err)
		}
		if column >= len(record) {
			continue
		}
		out = append(out, wordPattern.FindAllString(record[column], -1)...)
	}
	return out, nil
}

// importJSON accepts three shapes: a plain string array, an array of objects
// with a "word" field, or an object with a "words" array.
func importJSON(r io.Reader) ([]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read json: %w", err)
	}

	var asStrings []string
	if err := json.Unmarshal(data, &asStrings); err == nil {
		return asStrings, nil
	}

	var asObjects []struct {
		Word string `json:"word"`
	}
	if err := json.Unmarshal(data, &asObjects); err == nil {
		out := make([]string, 0, len(asObjects))
		for _, o := range asObjects {
			if o.Word != "" {
				out = append(out, o.Word)
			}
		}
		return out, nil
	}

	var asDocument struct {
		Words []string `json:"words"`
	}
	if err := json.Unmarshal(data, &asDocument); err == nil && asDocument.Words != nil {
		return asDocument.Words, nil
	}

	return nil, fmt.Errorf("unrecognized json word list structure")
}

// Clean lowercases, strips non-letters, drops one-letter residues and
// deduplicates while preserving first-seen order.
func Clean(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, w := range raw {
		w = strings.ToLower(strings.TrimSpace(w))
		w = strings.Map(func(r rune) rune {
			if r < 'a' || r > 'z' {
				return -1
			}
			return r
		}, w)
		if len(w) < 2 {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	return out
}

func indexOfFold(fields []string, name string) int {
	for i, f := range fields {
		if strings.EqualFold(strings.TrimSpace(f), name) {
			return i
		}
	}
	return -1
}
