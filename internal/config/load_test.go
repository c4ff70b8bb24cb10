package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := LoadWithFile("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, "127.0.0.1", cfg.Anki.Host)
	assert.Equal(t, 8765, cfg.Anki.Port)
	assert.Equal(t, ProviderGemini, cfg.LLM.Provider)
	assert.Equal(t, "http://localhost:11434/v1", cfg.LLM.CustomEndpoint)
	assert.Equal(t, "model_instructions.json", cfg.LLM.InstructionsFile)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("ANKIGEN_SERVER_PORT", "9090")
	t.Setenv("ANKIGEN_LLM_PROVIDER", "openai")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("ANKIGEN_ANKI_HOST", "192.168.1.20")
	t.Setenv("ANKIGEN_ANKI_DEFAULT_TAGS", "vocab,exam")

	cfg, err := LoadWithFile("")
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, ProviderOpenAI, cfg.LLM.Provider)
	assert.Equal(t, "sk-test", cfg.LLM.OpenAIAPIKey)
	assert.Equal(t, "192.168.1.20", cfg.Anki.Host)
	assert.Equal(t, []string{"vocab", "exam"}, cfg.Anki.DefaultTags)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ankigen.yaml")
	content := `
server:
  port: 7000
  log_level: debug
llm:
  provider: custom
  model: mistral
  custom_endpoint: http://10.0.0.5:11434/v1
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadWithFile(path)
	require.NoError(t, err)

	assert.Equal(t, 7000, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.Equal(t, ProviderCustom, cfg.LLM.Provider)
	assert.Equal(t, "mistral", cfg.LLM.Model)
	assert.Equal(t, "http://10.0.0.5:11434/v1", cfg.LLM.CustomEndpoint)
}

func TestLoad_InvalidProvider(t *testing.T) {
	t.Setenv("ANKIGEN_LLM_PROVIDER", "claude")

	_, err := LoadWithFile("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestLoad_EnvBeatsConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ankigen.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 7000\n"), 0o600))

	t.Setenv("ANKIGEN_SERVER_PORT", "7500")

	cfg, err := LoadWithFile(path)
	require.NoError(t, err)
	assert.Equal(t, 7500, cfg.Server.Port)
}

func TestLLMConfig_ActiveModel(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		cfg      LLMConfig
		expected string
	}{
		{"explicit model wins", LLMConfig{Provider: ProviderGemini, Model: "gemini-2.0-pro"}, "gemini-2.0-pro"},
		{"gemini default", LLMConfig{Provider: ProviderGemini}, DefaultGeminiModel},
		{"openai default", LLMConfig{Provider: ProviderOpenAI}, DefaultOpenAIModel},
		{"custom default", LLMConfig{Provider: ProviderCustom}, DefaultCustomModel},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, tc.cfg.ActiveModel())
		})
	}
}

func TestSaveEnv_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")

	cfg := &Config{
		Server: ServerConfig{Port: 8080, LogLevel: "info"},
		Anki:   AnkiConfig{Host: "127.0.0.1", Port: 8765, DefaultTags: []string{"vocab", "exam"}},
		LLM: LLMConfig{
			Provider:     ProviderGemini,
			Model:        "gemini-2.5-flash-lite",
			GeminiAPIKey: "test-key",
		},
	}

	require.NoError(t, SaveEnv(path, cfg))

	env, err := godotenv.Read(path)
	require.NoError(t, err)

	assert.Equal(t, "gemini", env["ANKIGEN_LLM_PROVIDER"])
	assert.Equal(t, "gemini-2.5-flash-lite", env["ANKIGEN_LLM_MODEL"])
	assert.Equal(t, "8765", env["ANKIGEN_ANKI_PORT"])
	assert.Equal(t, "vocab,exam", env["ANKIGEN_ANKI_DEFAULT_TAGS"])
	assert.Equal(t, "test-key", env["ANKIGEN_LLM_GEMINI_API_KEY"])
}

func TestSaveEnv_PreservesForeignKeysAndCredentials(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")

	require.NoError(t, godotenv.Write(map[string]string{
		"SOME_OTHER_TOOL":            "keep-me",
		"ANKIGEN_LLM_GEMINI_API_KEY": "stored-key",
	}, path))

	cfg := &Config{
		Server: ServerConfig{Port: 8080, LogLevel: "info"},
		Anki:   AnkiConfig{Host: "127.0.0.1", Port: 8765},
		LLM:    LLMConfig{Provider: ProviderGemini},
	}
	require.NoError(t, SaveEnv(path, cfg))

	env, err := godotenv.Read(path)
	require.NoError(t, err)

	assert.Equal(t, "keep-me", env["SOME_OTHER_TOOL"], "unrelated keys should survive")
	assert.Equal(t, "stored-key", env["ANKIGEN_LLM_GEMINI_API_KEY"],
		"an update without an API key should not wipe the stored one")
}
