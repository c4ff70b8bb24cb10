package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"google.golang.org/genai"

	"github.com/ankigen/ankigen/internal/config"
	"github.com/ankigen/ankigen/internal/generation"
)

// Generator implements the generation.Generator interface using Google's
// Gemini API to synthesize note fields from a word or phrase.
type Generator struct {
	// logger is used for structured logging
	logger *slog.Logger

	// client is the Gemini API client for making requests
	client *genai.Client

	// model is the name of the Gemini model to use
	model string
}

// NewGenerator creates a new Gemini-backed Generator with the provided
// dependencies. The configuration must carry a Gemini API key; the model
// name falls back to the provider default when unset.
func NewGenerator(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (*Generator, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v", generation.ErrInvalidConfig, err)
	}

	return &Generator{
		logger: logger.With(slog.String("component", "gemini_generator")),
		client: client,
		model:  cfg.ActiveModel(),
	}, nil
}

// GenerateFields produces a value for every requested field by prompting the
// configured Gemini model and normalizing its JSON reply.
func (g *Generator) GenerateFields(ctx context.Context, req generation.Request) (map[string]string, error) {
	prompt, err := generation.BuildPrompt(req)
	if err != nil {
		return nil, err
	}

	g.logger.DebugContext(ctx, "calling Gemini API",
		slog.String("model", g.model),
		slog.String("word", req.Word),
		slog.Int("prompt_length", len(prompt)))

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", generation.ErrGenerationFailed, err)
	}

	if resp == nil || len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("%w: no content generated", generation.ErrInvalidResponse)
	}

	if resp.Candidates[0].FinishReason == genai.FinishReasonSafety {
		return nil, fmt.Errorf("%w: finish reason safety", generation.ErrContentBlocked)
	}

	text := resp.Text()
	if text == "" {
		return nil, fmt.Errorf("%w: empty content in response", generation.ErrInvalidResponse)
	}

	fields, err := generation.ParseFields(req, text)
	if err != nil {
		return nil, err
	}

	g.logger.DebugContext(ctx, "Gemini API call successful",
		slog.String("word", req.Word),
		slog.Int("field_count", len(fields)))

	return fields, nil
}
