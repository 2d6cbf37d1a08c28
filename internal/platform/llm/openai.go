package llm

import (
	"context"
	"fmt"
	"net/http"

	oai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
	"github.com/openai/openai-go/shared"

	"github.com/lexcraft/cardgen/internal/config"
)

// zhipuBaseURL is ZhipuAI's OpenAI-compatible endpoint.
const zhipuBaseURL = "https://open.bigmodel.cn/api/paas/v4/"

// openaiBackend talks to any OpenAI-compatible chat-completions endpoint.
// It serves both the openai and zhipu providers, differing only in base URL
// and reported name.
type openaiBackend struct {
	client      oai.Client
	model       string
	provider    string
	maxTokens   int64
	temperature float64
}

func newOpenAIBackend(cfg config.LLMConfig, httpClient *http.Client, provider, baseURL string) *openaiBackend {
	reqOpts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(httpClient),
	}
	if baseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(baseURL))
	}

	return &openaiBackend{
		client:      oai.NewClient(reqOpts...),
		model:       cfg.ModelName,
		provider:    provider,
		maxTokens:   int64(cfg.MaxTokens),
		temperature: cfg.Temperature,
	}
}

func (b *openaiBackend) generate(ctx context.Context, prompt string) (string, error) {
	params := oai.ChatCompletionNewParams{
		Model: shared.ChatModel(b.model),
		Messages: []oai.ChatCompletionMessageParamUnion{
			oai.SystemMessage(systemPrompt),
			oai.UserMessage(prompt),
		},
		MaxTokens:   param.NewOpt(b.maxTokens),
		Temperature: param.NewOpt(b.temperature),
	}

	resp, err := b.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty choices in response")
	}
	return resp.Choices[0].Message.Content, nil
}

func (b *openaiBackend) ping(ctx context.Context) error {
	// Listing models is the cheapest authenticated request the dialect
	// offers.
	_, err := b.client.Models.List(ctx)
	if err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

func (b *openaiBackend) name() string { return b.provider }
