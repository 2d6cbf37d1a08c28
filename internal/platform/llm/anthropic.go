package llm

import (
	"context"
	"fmt"
	"net/http"

	"github.com/anthropics/anthropic-sdk-go"
	aoption "github.com/anthropics/anthropic-sdk-go/option"

	"github.com/lexcraft/cardgen/internal/config"
)

type anthropicBackend struct {
	client      anthropic.Client
	model       string
	maxTokens   int64
	temperature float64
}

func newAnthropicBackend(cfg config.LLMConfig, httpClient *http.Client) *anthropicBackend {
	reqOpts := []aoption.RequestOption{
		aoption.WithAPIKey(cfg.APIKey),
		aoption.WithHTTPClient(httpClient),
	}
	if cfg.BaseURL != "" {
		reqOpts = append(reqOpts, aoption.WithBaseURL(cfg.BaseURL))
	}

	return &anthropicBackend{
		client:      anthropic.NewClient(reqOpts...),
		model:       cfg.ModelName,
		maxTokens:   int64(cfg.MaxTokens),
		temperature: cfg.Temperature,
	}
}

func (b *anthropicBackend) generate(ctx context.Context, prompt string) (string, error) {
	message, err := b.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(b.model),
		MaxTokens:   b.maxTokens,
		Temperature: anthropic.Float(b.temperature),
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("message creation: %w", err)
	}

	for _, block := range message.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", fmt.Errorf("no text content in response")
}

func (b *anthropicBackend) ping(ctx context.Context) error {
	// A one-token request verifies both the key and the model name, which
	// a model-list call would not.
	_, err := b.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(b.model),
		MaxTokens: 1,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock("ping")),
		},
	})
	if err != nil {
		return fmt.Errorf("probe message: %w", err)
	}
	return nil
}

func (b *anthropicBackend) name() string { return ProviderAnthropic }
