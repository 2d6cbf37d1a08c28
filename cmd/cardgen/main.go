// Package main implements the cardgen CLI, which generates study cards for
// a word list and exports them as CSV or an Anki import file.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/lexcraft/cardgen/internal/config"
	"github.com/lexcraft/cardgen/internal/export"
	"github.com/lexcraft/cardgen/internal/generation"
	"github.com/lexcraft/cardgen/internal/platform/llm"
	"github.com/lexcraft/cardgen/internal/platform/logger"
	"github.com/lexcraft/cardgen/internal/service"
	"github.com/lexcraft/cardgen/internal/validation"
	"github.com/lexcraft/cardgen/internal/wordlist"
)

type cliFlags struct {
	configPath  string
	words       string
	file        string
	builtin     bool
	difficulty  string
	category    string
	random      int
	format      string
	output      string
	concurrency int
	audio       bool
	audioSrc    string
}

func main() {
	flags := parseFlags()
	if err := run(flags); err != nil {
		log.Fatalf("cardgen failed: %v", err)
	}
}

func parseFlags() cliFlags {
	var f cliFlags
	flag.StringVar(&f.configPath, "config", "", "config file path (default: config.yaml in . or ./config)")
	flag.StringVar(&f.words, "words", "", "comma-separated words to generate cards for")
	flag.StringVar(&f.file, "file", "", "word list file (.txt, .csv or .json)")
	flag.BoolVar(&f.builtin, "builtin", false, "use the built-in word list")
	flag.StringVar(&f.difficulty, "difficulty", "", "restrict the built-in list to one difficulty (easy, medium, hard)")
	flag.StringVar(&f.category, "category", "", "restrict the built-in list to one category (e.g. action, emotion)")
	flag.IntVar(&f.random, "random", 0, "sample this many random words from the built-in list")
	flag.StringVar(&f.format, "format", "", "export format: csv or anki (defaults to configuration)")
	flag.StringVar(&f.output, "output", "", "output file path (defaults to a timestamped file)")
	flag.IntVar(&f.concurrency, "concurrency", 0, "worker count override (0 keeps the configured value)")
	flag.BoolVar(&f.audio, "audio", false, "attach pronunciation links to exported cards")
	flag.StringVar(&f.audioSrc, "audio-source", export.AudioSourceOxford, "pronunciation source: oxford, merriam or cambridge")
	flag.Parse()
	return f
}

func run(flags cliFlags) error {
	cfg, err := loadConfig(flags.configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if flags.concurrency > 0 {
		cfg.Batch.Concurrency = flags.concurrency
	}

	logg := logger.Setup(cfg.Server)

	words, err := collectWords(flags)
	if err != nil {
		return err
	}
	if len(words) == 0 {
		return fmt.Errorf("no words to generate; use -words, -file or -builtin")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	completer, err := llm.New(ctx, logg, cfg.LLM)
	if err != nil {
		return fmt.Errorf("failed to initialize LLM backend: %w", err)
	}
	if !completer.IsAvailable(ctx) {
		return fmt.Errorf("LLM backend %s is not reachable; check the API key and network", cfg.LLM.Provider)
	}

	validator := validation.New(logg, cfg.Generation.TipKinds)
	cardGen, err := generation.NewCardGenerator(
		completer, validator, logg,
		validation.ParseMode(cfg.Generation.ValidationMode),
		cfg.Generation.MaxRetries, cfg.Generation.RetryDelay())
	if err != nil {
		return fmt.Errorf("failed to build card generator: %w", err)
	}
	batchGen, err := generation.NewBatchGenerator(
		cardGen, logg, cfg.Batch.Concurrency, cfg.Batch.RateLimitPerMinute)
	if err != nil {
		return fmt.Errorf("failed to build batch generator: %w", err)
	}
	runner := service.NewBatchRunner(batchGen, logg)

	fmt.Fprintf(os.Stderr, "generating cards for %d words with %s (%s)\n",
		len(words), cfg.LLM.Provider, cfg.LLM.ModelName)

	stopProgress := startProgressTicker(ctx, runner)
	report, err := runner.Run(ctx, words, cfg.Generation.Rules())
	stopProgress()
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "done: %d succeeded, %d failed of %d words in %s\n",
		report.SucceededCount, report.FailedCount, report.TotalWords,
		report.CompletedAt.Sub(report.StartedAt).Round(time.Second))

	for _, outcome := range report.Outcomes {
		if !outcome.Succeeded {
			fmt.Fprintf(os.Stderr, "  failed: %s (%s)\n", outcome.Word, outcome.ErrorMessage)
		}
	}

	cards := report.SuccessfulCards()
	if len(cards) == 0 {
		return fmt.Errorf("no cards were generated")
	}

	if flags.audio {
		linker := export.NewAudioLinker(flags.audioSrc)
		for _, card := range cards {
			linker.Decorate(card)
		}
	}

	format := flags.format
	if format == "" {
		format = cfg.Export.Format
	}

	var path string
	switch format {
	case export.FormatAnki:
		path, err = export.NewAnkiExporter(logg, cfg.Export.OutputDir).Export(cards, flags.output)
	case export.FormatCSV:
		path, err = export.NewCSVExporter(logg, cfg.Export.OutputDir, cfg.Export.Delimiter).Export(cards, flags.output)
	default:
		return fmt.Errorf("unsupported export format %q (use csv or anki)", format)
	}
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	fmt.Printf("exported %d cards to %s\n", len(cards), path)
	return nil
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.Load()
}

// collectWords merges the word sources selected on the command line and
// cleans the result.
func collectWords(flags cliFlags) ([]string, error) {
	var words []string

	if flags.words != "" {
		words = append(words, strings.Split(flags.words, ",")...)
	}
	if flags.file != "" {
		imported, err := wordlist.ImportFile(flags.file)
		if err != nil {
			return nil, err
		}
		words = append(words, imported...)
	}
	if flags.builtin || flags.difficulty != "" || flags.category != "" || flags.random > 0 {
		switch {
		case flags.difficulty != "":
			words = append(words, wordlist.ByDifficulty(flags.difficulty)...)
		case flags.category != "":
			words = append(words, wordlist.ByCategory(flags.category)...)
		case flags.random > 0:
			words = append(words, wordlist.Random(flags.random)...)
		default:
			words = append(words, wordlist.BuiltinWords()...)
		}
	}

	return wordlist.Clean(words), nil
}

// startProgressTicker prints progress once a second until the returned stop
// function runs.
func startProgressTicker(ctx context.Context, runner *service.BatchRunner) func() {
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
				s := runner.Status()
				if s.Running {
					fmt.Fprintf(os.Stderr, "progress: %d/%d (%d ok, %d failed)\n",
						s.Progress.Completed, s.Progress.Total,
						s.Progress.Succeeded, s.Progress.Failed)
				}
			}
		}
	}()
	return func() { close(done) }
}
