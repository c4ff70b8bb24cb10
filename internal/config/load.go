package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load reads configuration from a .env file, an optional YAML config file,
// and environment variables, in increasing order of precedence. Environment
// variables use the ANKIGEN_ prefix with dots replaced by underscores
// (llm.provider maps to ANKIGEN_LLM_PROVIDER); the provider API keys additionally
// honor their conventional bare names (GEMINI_API_KEY, OPENAI_API_KEY).
// Returns a populated Config or an error if loading or validation fails.
func Load() (*Config, error) {
	return LoadWithFile("")
}

// LoadWithFile is Load with an explicit config file path, primarily for
// tests. An empty path searches for ankigen.yaml in the working directory.
func LoadWithFile(configPath string) (*Config, error) {
	// Populate the process environment from a .env file when one exists.
	// Real environment variables are never overridden.
	_ = godotenv.Load()

	v := viper.New()

	// Set default values
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("anki.host", "127.0.0.1")
	v.SetDefault("anki.port", 8765)
	v.SetDefault("anki.default_tags", []string{})
	v.SetDefault("llm.provider", ProviderGemini)
	v.SetDefault("llm.custom_endpoint", "http://localhost:11434/v1")
	v.SetDefault("llm.instructions_file", "model_instructions.json")

	// Configure the optional config file
	v.SetConfigType("yaml")
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("ankigen")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; everything has defaults or envs.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Configure environment variables
	v.SetEnvPrefix("ANKIGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Explicitly bind environment variables, including the conventional
	// unprefixed key names the LLM SDK ecosystems use.
	bindEnvs := [][]string{
		{"server.port", "ANKIGEN_SERVER_PORT"},
		{"server.log_level", "ANKIGEN_SERVER_LOG_LEVEL"},
		{"anki.host", "ANKIGEN_ANKI_HOST", "ANKI_HOST"},
		{"anki.port", "ANKIGEN_ANKI_PORT", "ANKI_PORT"},
		{"anki.default_tags", "ANKIGEN_ANKI_DEFAULT_TAGS"},
		{"llm.provider", "ANKIGEN_LLM_PROVIDER", "LLM_PROVIDER"},
		{"llm.model", "ANKIGEN_LLM_MODEL", "LLM_MODEL"},
		{"llm.gemini_api_key", "ANKIGEN_LLM_GEMINI_API_KEY", "GEMINI_API_KEY"},
		{"llm.openai_api_key", "ANKIGEN_LLM_OPENAI_API_KEY", "OPENAI_API_KEY"},
		{"llm.openai_base_url", "ANKIGEN_LLM_OPENAI_BASE_URL", "OPENAI_BASE_URL"},
		{"llm.custom_api_key", "ANKIGEN_LLM_CUSTOM_API_KEY", "CUSTOM_API_KEY"},
		{"llm.custom_endpoint", "ANKIGEN_LLM_CUSTOM_ENDPOINT", "CUSTOM_ENDPOINT"},
	}
	for _, env := range bindEnvs {
		if err := v.BindEnv(env...); err != nil {
			return nil, fmt.Errorf("error binding environment variable %s: %w", env[0], err)
		}
	}

	// Unmarshal and validate
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}
