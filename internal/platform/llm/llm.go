// Package llm selects the concrete generation.Generator implementation for
// the configured provider tag.
package llm

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ankigen/ankigen/internal/config"
	"github.com/ankigen/ankigen/internal/generation"
	"github.com/ankigen/ankigen/internal/platform/gemini"
	"github.com/ankigen/ankigen/internal/platform/openai"
)

// NewGenerator builds the Generator for the provider named in the LLM
// configuration: "gemini", "openai", or "custom" (an OpenAI-compatible
// self-hosted endpoint).
func NewGenerator(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (generation.Generator, error) {
	switch cfg.Provider {
	case config.ProviderGemini:
		return gemini.NewGenerator(ctx, logger, cfg)
	case config.ProviderOpenAI, config.ProviderCustom:
		return openai.NewGenerator(logger, cfg)
	default:
		return nil, fmt.Errorf("%w: unknown provider %q", generation.ErrInvalidConfig, cfg.Provider)
	}
}

// Configured reports whether the active provider has the credentials it
// needs. The console tool uses this to hide LLM-dependent menu entries
// instead of failing on first use.
func Configured(cfg config.LLMConfig) bool {
	switch cfg.Provider {
	case config.ProviderGemini:
		return cfg.GeminiAPIKey != ""
	case config.ProviderOpenAI:
		return cfg.OpenAIAPIKey != ""
	case config.ProviderCustom:
		return cfg.CustomEndpoint != ""
	default:
		return false
	}
}
