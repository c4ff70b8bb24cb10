package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// DefaultEnvFile is where settings updates are persisted.
const DefaultEnvFile = ".env"

// SaveEnv persists the mutable settings from cfg into the env file at path,
// using the same ANKIGEN_-prefixed names Load reads back. Keys already in
// the file that this application does not own are preserved. API keys are
// only written when set, so a settings update that omits them does not wipe
// stored credentials.
func SaveEnv(path string, cfg *Config) error {
	if path == "" {
		path = DefaultEnvFile
	}

	// Carry over whatever else lives in the file.
	env, err := godotenv.Read(path)
	if err != nil {
		env = map[string]string{}
	}

	env["ANKIGEN_LLM_PROVIDER"] = cfg.LLM.Provider
	env["ANKIGEN_LLM_MODEL"] = cfg.LLM.Model
	env["ANKIGEN_ANKI_HOST"] = cfg.Anki.Host
	env["ANKIGEN_ANKI_PORT"] = strconv.Itoa(cfg.Anki.Port)
	env["ANKIGEN_ANKI_DEFAULT_TAGS"] = strings.Join(cfg.Anki.DefaultTags, ",")
	env["ANKIGEN_SERVER_PORT"] = strconv.Itoa(cfg.Server.Port)
	env["ANKIGEN_SERVER_LOG_LEVEL"] = cfg.Server.LogLevel

	if cfg.LLM.GeminiAPIKey != "" {
		env["ANKIGEN_LLM_GEMINI_API_KEY"] = cfg.LLM.GeminiAPIKey
	}
	if cfg.LLM.OpenAIAPIKey != "" {
		env["ANKIGEN_LLM_OPENAI_API_KEY"] = cfg.LLM.OpenAIAPIKey
	}
	if cfg.LLM.OpenAIBaseURL != "" {
		env["ANKIGEN_LLM_OPENAI_BASE_URL"] = cfg.LLM.OpenAIBaseURL
	}
	if cfg.LLM.CustomAPIKey != "" {
		env["ANKIGEN_LLM_CUSTOM_API_KEY"] = cfg.LLM.CustomAPIKey
	}
	if cfg.LLM.CustomEndpoint != "" {
		env["ANKIGEN_LLM_CUSTOM_ENDPOINT"] = cfg.LLM.CustomEndpoint
	}

	if err := godotenv.Write(env, path); err != nil {
		return fmt.Errorf("failed to write env file %s: %w", path, err)
	}
	return nil
}
