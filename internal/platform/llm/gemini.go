package llm

import (
	"context"
	"fmt"
	"net/http"

	"google.golang.org/genai"

	"github.com/lexcraft/cardgen/internal/config"
	"github.com/lexcraft/cardgen/internal/generation"
)

type geminiBackend struct {
	client      *genai.Client
	model       string
	maxTokens   int32
	temperature float32
}

func newGeminiBackend(ctx context.Context, cfg config.LLMConfig, httpClient *http.Client) (*geminiBackend, error) {
	clientConfig := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v",
			generation.ErrInvalidConfig, err)
	}

	return &geminiBackend{
		client:      client,
		model:       cfg.ModelName,
		maxTokens:   int32(cfg.MaxTokens),
		temperature: float32(cfg.Temperature),
	}, nil
}

func (b *geminiBackend) generate(ctx context.Context, prompt string) (string, error) {
	genConfig := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
		MaxOutputTokens:   b.maxTokens,
		Temperature:       genai.Ptr(b.temperature),
	}

	resp, err := b.client.Models.GenerateContent(ctx, b.model, genai.Text(prompt), genConfig)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}
	if resp.Candidates[0].FinishReason == genai.FinishReasonSafety {
		return "", fmt.Errorf("content blocked by safety filters")
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("empty text in response")
	}
	return text, nil
}

func (b *geminiBackend) ping(ctx context.Context) error {
	_, err := b.client.Models.Get(ctx, b.model, nil)
	if err != nil {
		return fmt.Errorf("get model: %w", err)
	}
	return nil
}

func (b *geminiBackend) name() string { return ProviderGemini }
