package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/lexcraft/cardgen/internal/config"
	"github.com/lexcraft/cardgen/internal/domain"
	"github.com/lexcraft/cardgen/internal/export"
	"github.com/lexcraft/cardgen/internal/service"
	"github.com/lexcraft/cardgen/internal/wordlist"
)

// BatchService is the slice of the batch runner the handlers need.
type BatchService interface {
	Start(words []string, rules domain.GenerationRules) error
	Status() service.Status
	Report() (*domain.BatchReport, error)
	Cancel() bool
}

// AvailabilityChecker reports whether the model backend answers requests.
type AvailabilityChecker interface {
	IsAvailable(ctx context.Context) bool
}

// GenerateRequest is the body of POST /api/generate.
type GenerateRequest struct {
	Words []string `json:"words" validate:"required,min=1,max=500"`
}

// GenerateResponse acknowledges an accepted batch.
type GenerateResponse struct {
	Accepted int `json:"accepted"`
	Skipped  int `json:"skipped"`
}

// ExportRequest is the body of POST /api/export. Every field is optional;
// the format defaults to the configured one.
type ExportRequest struct {
	Format      string `json:"format" validate:"omitempty,oneof=csv anki"`
	Audio       bool   `json:"audio"`
	AudioSource string `json:"audio_source"`
}

// ExportResponse reports where an export landed.
type ExportResponse struct {
	Path  string `json:"path"`
	Cards int    `json:"cards"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status    string `json:"status"`
	LLMOnline bool   `json:"llm_online"`
}

// GenerationHandler serves the card generation endpoints.
type GenerationHandler struct {
	batches   BatchService
	completer AvailabilityChecker
	rules     domain.GenerationRules
	exportCfg config.ExportConfig
	logger    *slog.Logger
	validator *validator.Validate
}

func NewGenerationHandler(
	batches BatchService,
	completer AvailabilityChecker,
	rules domain.GenerationRules,
	exportCfg config.ExportConfig,
	logger *slog.Logger,
) *GenerationHandler {
	return &GenerationHandler{
		batches:   batches,
		completer: completer,
		rules:     rules.Normalized(),
		exportCfg: exportCfg,
		logger:    logger,
		validator: validator.New(),
	}
}

// Health handles GET /health. The backend probe is bounded so a hung
// upstream cannot stall monitoring.
func (h *GenerationHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	respondWithJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		LLMOnline: h.completer.IsAvailable(ctx),
	})
}

// BuiltinWords handles GET /api/words/builtin. The difficulty and category
// query parameters filter the list; random samples the requested number of
// words. Without parameters the full annotated list is returned.
func (h *GenerationHandler) BuiltinWords(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	if difficulty := query.Get("difficulty"); difficulty != "" {
		words := wordlist.ByDifficulty(difficulty)
		if len(words) == 0 {
			respondWithError(w, http.StatusNotFound, "unknown difficulty level")
			return
		}
		respondWithJSON(w, http.StatusOK, words)
		return
	}

	if category := query.Get("category"); category != "" {
		words := wordlist.ByCategory(category)
		if len(words) == 0 {
			respondWithError(w, http.StatusNotFound, "unknown category")
			return
		}
		respondWithJSON(w, http.StatusOK, words)
		return
	}

	if raw := query.Get("random"); raw != "" {
		count, err := strconv.Atoi(raw)
		if err != nil || count < 1 {
			respondWithError(w, http.StatusBadRequest, "random must be a positive integer")
			return
		}
		respondWithJSON(w, http.StatusOK, wordlist.Random(count))
		return
	}

	respondWithJSON(w, http.StatusOK, wordlist.Builtin())
}

// Generate handles POST /api/generate. Generation continues in the
// background; the response only acknowledges the batch.
func (h *GenerationHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		respondWithError(w, http.StatusBadRequest, "words must contain between 1 and 500 entries")
		return
	}

	words := wordlist.Clean(req.Words)
	skipped := len(req.Words) - len(words)
	if len(words) == 0 {
		respondWithError(w, http.StatusBadRequest, "no usable words after cleaning")
		return
	}

	if err := h.batches.Start(words, h.rules); err != nil {
		if errors.Is(err, service.ErrBatchRunning) {
			respondWithError(w, http.StatusConflict, "a generation batch is already running")
			return
		}
		h.logger.Error("failed to start batch", "error", err)
		respondWithError(w, http.StatusInternalServerError, "failed to start generation")
		return
	}

	respondWithJSON(w, http.StatusAccepted, GenerateResponse{
		Accepted: len(words),
		Skipped:  skipped,
	})
}

// Progress handles GET /api/progress.
func (h *GenerationHandler) Progress(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.batches.Status())
}

// Report handles GET /api/report.
func (h *GenerationHandler) Report(w http.ResponseWriter, r *http.Request) {
	report, err := h.batches.Report()
	if err != nil {
		if h.batches.Status().Running {
			respondWithError(w, http.StatusConflict, "batch still running")
			return
		}
		respondWithError(w, http.StatusNotFound, "no completed batch report available")
		return
	}
	respondWithJSON(w, http.StatusOK, report)
}

// Export handles POST /api/export. It writes the successful cards of the
// last completed batch to a file on the server and returns the path.
func (h *GenerationHandler) Export(w http.ResponseWriter, r *http.Request) {
	var req ExportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		respondWithError(w, http.StatusBadRequest, "invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		respondWithError(w, http.StatusBadRequest, "format must be csv or anki")
		return
	}

	report, err := h.batches.Report()
	if err != nil {
		if h.batches.Status().Running {
			respondWithError(w, http.StatusConflict, "batch still running")
			return
		}
		respondWithError(w, http.StatusNotFound, "no completed batch report available")
		return
	}

	cards := report.SuccessfulCards()
	if len(cards) == 0 {
		respondWithError(w, http.StatusConflict, "the last batch produced no cards")
		return
	}

	if req.Audio {
		linker := export.NewAudioLinker(req.AudioSource)
		for _, card := range cards {
			linker.Decorate(card)
		}
	}

	format := req.Format
	if format == "" {
		format = h.exportCfg.Format
	}

	var path string
	switch format {
	case export.FormatAnki:
		path, err = export.NewAnkiExporter(h.logger, h.exportCfg.OutputDir).Export(cards, "")
	default:
		path, err = export.NewCSVExporter(h.logger, h.exportCfg.OutputDir, h.exportCfg.Delimiter).Export(cards, "")
	}
	if err != nil {
		h.logger.Error("export failed", "format", format, "error", err)
		respondWithError(w, http.StatusInternalServerError, "export failed")
		return
	}

	respondWithJSON(w, http.StatusOK, ExportResponse{Path: path, Cards: len(cards)})
}

// Cancel handles POST /api/cancel.
func (h *GenerationHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	if !h.batches.Cancel() {
		respondWithError(w, http.StatusConflict, "no generation batch is running")
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "cancelling"})
}
