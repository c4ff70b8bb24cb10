package gemini

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/ankigen/ankigen/internal/config"
	"github.com/ankigen/ankigen/internal/generation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewGenerator_RequiresLogger(t *testing.T) {
	t.Parallel()

	_, err := NewGenerator(context.Background(), nil, config.LLMConfig{GeminiAPIKey: "key"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "logger")
}

func TestNewGenerator_RequiresAPIKey(t *testing.T) {
	t.Parallel()

	_, err := NewGenerator(context.Background(), testLogger(), config.LLMConfig{})
	require.Error(t, err)
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)
}

func TestNewGenerator_DefaultsModel(t *testing.T) {
	t.Parallel()

	gen, err := NewGenerator(context.Background(), testLogger(), config.LLMConfig{
		Provider:     config.ProviderGemini,
		GeminiAPIKey: "test-key",
	})
	require.NoError(t, err)
	assert.Equal(t, config.DefaultGeminiModel, gen.model)
}

func TestNewGenerator_ExplicitModel(t *testing.T) {
	t.Parallel()

	gen, err := NewGenerator(context.Background(), testLogger(), config.LLMConfig{
		Provider:     config.ProviderGemini,
		GeminiAPIKey: "test-key",
		Model:        "gemini-2.0-pro",
	})
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.0-pro", gen.model)
}

func TestGenerateFields_EmptyWord(t *testing.T) {
	t.Parallel()

	gen, err := NewGenerator(context.Background(), testLogger(), config.LLMConfig{
		Provider:     config.ProviderGemini,
		GeminiAPIKey: "test-key",
	})
	require.NoError(t, err)

	_, err = gen.GenerateFields(context.Background(), generation.Request{
		ModelName: "Basic",
		Fields:    []string{"Front", "Back"},
		Language:  "English",
	})
	assert.ErrorIs(t, err, generation.ErrEmptyWord)
}
