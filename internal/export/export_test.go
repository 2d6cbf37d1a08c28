package export

import (
	"encoding/csv"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexcraft/cardgen/internal/domain"
)

func testCards(t *testing.T) []*domain.Card {
	t.Helper()

	abandon, err := domain.NewCard(
		"abandon",
		"/əˈbændən/",
		"v.",
		"放弃，抛弃",
		domain.MemoryTip{Kind: "word-split", Content: "a + bandon: walking away from the band"},
		[]string{"He had to abandon the car in the snow.", "They abandoned the match because of rain."},
		[]string{"desert", "forsake"},
		[]string{"abundant"},
	)
	require.NoError(t, err)

	ability, err := domain.NewCard(
		"ability",
		"/əˈbɪləti/",
		"n.",
		"能力，才能",
		domain.MemoryTip{Kind: "etymology", Content: "from Latin habilitas, fitness"},
		[]string{"She has the ability to explain difficult ideas."},
		nil,
		nil,
	)
	require.NoError(t, err)

	return []*domain.Card{abandon, ability}
}

func TestCSVExport(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	exporter := NewCSVExporter(slog.Default(), dir, ",")

	path, err := exporter.Export(testCards(t), "")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(filepath.Base(path), "word_cards_"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(data), utf8BOM), "file must start with a UTF-8 BOM")

	reader := csv.NewReader(strings.NewReader(strings.TrimPrefix(string(data), utf8BOM)))
	records, err := reader.ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3, "header plus two cards")

	assert.Equal(t, csvColumns, records[0])

	row := records[1]
	assert.Equal(t, "abandon\n/əˈbændən/", row[0])
	assert.Contains(t, row[1], "<b>Meaning:</b> 放弃，抛弃")
	assert.Contains(t, row[1], "1. He had to abandon the car in the snow.")
	assert.Equal(t, "/əˈbændən/", row[2])
	assert.Equal(t, "v.", row[3])
	assert.Equal(t, "word-split", row[5])
	assert.Equal(t, "desert, forsake", row[8])
	assert.Equal(t, "v word-split", row[10])
}

func TestCSVExportCustomDelimiter(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	exporter := NewCSVExporter(slog.Default(), dir, ";")

	path, err := exporter.Export(testCards(t), filepath.Join(dir, "cards.csv"))
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Front;Back;Phonetic")
}

func TestCSVExportRejectsEmptyInput(t *testing.T) {
	t.Parallel()

	exporter := NewCSVExporter(slog.Default(), t.TempDir(), "")
	_, err := exporter.Export(nil, "")
	assert.ErrorIs(t, err, ErrNoCards)
}

func TestAnkiExport(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	exporter := NewAnkiExporter(slog.Default(), dir)

	path, err := exporter.Export(testCards(t), "")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := strings.TrimPrefix(string(data), utf8BOM)

	lines := strings.Split(strings.TrimRight(content, "\n"), "\n")
	require.Len(t, lines, 5, "three directives plus two cards")

	assert.Equal(t, "#separator:tab", lines[0])
	assert.Equal(t, "#html:true", lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "#columns:Front\tBack"))

	fields := strings.Split(lines[3], "\t")
	require.Len(t, fields, len(ankiColumns))
	assert.Equal(t, "abandon", fields[0])
	assert.Contains(t, fields[6], "<ol><li>He had to abandon the car in the snow.</li>")
	assert.Equal(t, "desert<br>forsake", fields[7])

	for _, line := range lines[3:] {
		assert.Equal(t, len(ankiColumns)-1, strings.Count(line, "\t"),
			"every record must keep the declared column count")
	}
}

func TestAnkiExportRejectsEmptyInput(t *testing.T) {
	t.Parallel()

	exporter := NewAnkiExporter(slog.Default(), t.TempDir())
	_, err := exporter.Export(nil, "")
	assert.ErrorIs(t, err, ErrNoCards)
}

func TestAudioLinker(t *testing.T) {
	t.Parallel()

	oxford := NewAudioLinker(AudioSourceOxford)
	assert.Equal(t,
		"https://ssl.gstatic.com/dictionary/static/sounds/oxford/abandon--_gb_1.mp3",
		oxford.WordURL("abandon"))

	merriam := NewAudioLinker(AudioSourceMerriam)
	assert.Contains(t, merriam.WordURL("abandon"), "merriam-webster.com")

	fallback := NewAudioLinker("unknown-source")
	assert.Equal(t, oxford.WordURL("abandon"), fallback.WordURL("abandon"))

	sentence := oxford.SentenceURL("He left early.")
	assert.Contains(t, sentence, "translate_tts")
	assert.Contains(t, sentence, "He+left+early")

	html := oxford.LinkHTML("abandon")
	assert.Contains(t, html, "<audio controls>")
	assert.Contains(t, html, oxford.WordURL("abandon"))
}

func TestAudioLinkerDecorate(t *testing.T) {
	t.Parallel()

	card := testCards(t)[0]
	NewAudioLinker(AudioSourceOxford).Decorate(card)

	assert.NotEmpty(t, card.WordAudioURL)
	assert.NotEmpty(t, card.WordAudioHTML)
	assert.Len(t, card.ExampleAudioURLs, len(card.Examples))
	assert.True(t, strings.HasSuffix(card.WordAudioPath, ".mp3"))
}

func TestFileNameIsStable(t *testing.T) {
	t.Parallel()

	first := FileName("abandon")
	assert.Equal(t, first, FileName("abandon"))
	assert.NotEqual(t, first, FileName("ability"))
	assert.True(t, strings.HasPrefix(first, "cardgen_"))
	assert.Len(t, first, len("cardgen_")+16+len(".mp3"))
}
