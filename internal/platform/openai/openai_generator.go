// Package openai implements the generation.Generator interface on top of
// the OpenAI chat-completions API. The same implementation serves both the
// hosted OpenAI service and self-hosted OpenAI-compatible endpoints (Ollama,
// llama.cpp, vLLM) selected through a custom base URL.
package openai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/ankigen/ankigen/internal/config"
	"github.com/ankigen/ankigen/internal/generation"
)

// placeholderAPIKey is sent to self-hosted endpoints that ignore
// authentication but whose client SDK still wants a key.
const placeholderAPIKey = "dummy-key"

// Generator implements generation.Generator using the official openai-go
// SDK (chat completions).
type Generator struct {
	logger *slog.Logger
	client openai.Client
	model  string
}

// NewGenerator creates a chat-completion-backed Generator from the LLM
// configuration. Provider "openai" requires an API key and optionally honors
// a base URL override; provider "custom" targets the configured
// OpenAI-compatible endpoint and treats the API key as optional.
func NewGenerator(logger *slog.Logger, cfg config.LLMConfig) (*Generator, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	var opts []option.RequestOption

	switch cfg.Provider {
	case config.ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("%w: openai API key cannot be empty", generation.ErrInvalidConfig)
		}
		opts = append(opts, option.WithAPIKey(cfg.OpenAIAPIKey))
		if cfg.OpenAIBaseURL != "" {
			opts = append(opts, option.WithBaseURL(cfg.OpenAIBaseURL))
		}

	case config.ProviderCustom:
		if cfg.CustomEndpoint == "" {
			return nil, fmt.Errorf("%w: custom endpoint cannot be empty", generation.ErrInvalidConfig)
		}
		key := cfg.CustomAPIKey
		if key == "" {
			key = placeholderAPIKey
		}
		opts = append(opts, option.WithAPIKey(key), option.WithBaseURL(cfg.CustomEndpoint))

	default:
		return nil, fmt.Errorf("%w: unsupported provider %q", generation.ErrInvalidConfig, cfg.Provider)
	}

	return &Generator{
		logger: logger.With(slog.String("component", "openai_generator")),
		client: openai.NewClient(opts...),
		model:  cfg.ActiveModel(),
	}, nil
}

// GenerateFields produces a value for every requested field by prompting the
// configured chat model and normalizing its JSON reply.
func (g *Generator) GenerateFields(ctx context.Context, req generation.Request) (map[string]string, error) {
	prompt, err := generation.BuildPrompt(req)
	if err != nil {
		return nil, err
	}

	g.logger.DebugContext(ctx, "calling chat completions API",
		slog.String("model", g.model),
		slog.String("word", req.Word),
		slog.Int("prompt_length", len(prompt)))

	resp, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(g.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(generation.SystemPrompt),
			openai.UserMessage(prompt),
		},
		Temperature: openai.Float(0.7),
		MaxTokens:   openai.Int(500),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", generation.ErrGenerationFailed, err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: empty choices", generation.ErrInvalidResponse)
	}

	fields, err := generation.ParseFields(req, resp.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}

	g.logger.DebugContext(ctx, "chat completions call successful",
		slog.String("word", req.Word),
		slog.Int("field_count", len(fields)))

	return fields, nil
}
