package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ankigen/ankigen/internal/api"
	"github.com/ankigen/ankigen/internal/config"
)

func newSettingsRouter(cfg *config.Config, envPath string) http.Handler {
	h := api.NewSettingsHandler(cfg, envPath, testLogger())
	r := chi.NewRouter()
	r.Get("/api/settings", h.GetSettings)
	r.Put("/api/settings", h.UpdateSettings)
	return r
}

func baseConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Port: 8080, LogLevel: "info"},
		Anki:   config.AnkiConfig{Host: "127.0.0.1", Port: 8765},
		LLM: config.LLMConfig{
			Provider:         config.ProviderGemini,
			GeminiAPIKey:     "secret-key",
			CustomEndpoint:   "http://localhost:11434/v1",
			InstructionsFile: "model_instructions.json",
		},
	}
}

func TestSettingsHandler_Get(t *testing.T) {
	t.Parallel()

	cfg := baseConfig()
	rec := httptest.NewRecorder()
	envPath := filepath.Join(t.TempDir(), ".env")
	newSettingsRouter(cfg, envPath).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/settings", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp api.SettingsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "gemini", resp.Provider)
	assert.Equal(t, config.DefaultGeminiModel, resp.Model)
	assert.Equal(t, "127.0.0.1", resp.AnkiHost)
	assert.True(t, resp.GeminiKeySet)
	assert.False(t, resp.OpenAIKeySet)

	// The raw key never appears in the response body.
	assert.NotContains(t, rec.Body.String(), "secret-key")
}

func TestSettingsHandler_Update(t *testing.T) {
	t.Parallel()

	t.Run("persists changes", func(t *testing.T) {
		t.Parallel()

		cfg := baseConfig()
		envPath := filepath.Join(t.TempDir(), ".env")
		router := newSettingsRouter(cfg, envPath)

		body := bytes.NewBufferString(`{
			"provider": "openai",
			"model": "gpt-4o-mini",
			"openai_api_key": "sk-test",
			"default_tags": ["exam"]
		}`)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/settings", body))

		require.Equal(t, http.StatusOK, rec.Code)

		var resp api.SettingsResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "openai", resp.Provider)
		assert.Equal(t, "gpt-4o-mini", resp.Model)
		assert.True(t, resp.OpenAIKeySet)
		assert.NotContains(t, rec.Body.String(), "sk-test")

		saved, err := godotenv.Read(envPath)
		require.NoError(t, err)
		assert.Equal(t, "openai", saved["ANKIGEN_LLM_PROVIDER"])
		assert.Equal(t, "gpt-4o-mini", saved["ANKIGEN_LLM_MODEL"])
		assert.Equal(t, "sk-test", saved["ANKIGEN_LLM_OPENAI_API_KEY"])
		assert.Equal(t, "exam", saved["ANKIGEN_ANKI_DEFAULT_TAGS"])
	})

	t.Run("invalid provider", func(t *testing.T) {
		t.Parallel()

		cfg := baseConfig()
		envPath := filepath.Join(t.TempDir(), ".env")
		body := bytes.NewBufferString(`{"provider": "anthropic"}`)
		rec := httptest.NewRecorder()
		newSettingsRouter(cfg, envPath).ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/settings", body))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "gemini", cfg.LLM.Provider)
	})

	t.Run("partial update keeps other fields", func(t *testing.T) {
		t.Parallel()

		cfg := baseConfig()
		envPath := filepath.Join(t.TempDir(), ".env")
		body := bytes.NewBufferString(`{"anki_port": 9000}`)
		rec := httptest.NewRecorder()
		newSettingsRouter(cfg, envPath).ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/settings", body))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 9000, cfg.Anki.Port)
		assert.Equal(t, "gemini", cfg.LLM.Provider)
		assert.Equal(t, "secret-key", cfg.LLM.GeminiAPIKey)
	})
}
