package config

// Default model names used when the configuration leaves llm.model empty.
const (
	DefaultGeminiModel = "gemini-2.5-flash-lite"
	DefaultOpenAIModel = "gpt-3.5-turbo"
	DefaultCustomModel = "llama2"
)

// Provider tags accepted in llm.provider.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
	ProviderCustom = "custom"
)

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server ServerConfig `mapstructure:"server" validate:"required"`
	Anki   AnkiConfig   `mapstructure:"anki" validate:"required"`
	LLM    LLMConfig    `mapstructure:"llm" validate:"required"`
}

// ServerConfig contains all web-server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// AnkiConfig contains the AnkiConnect endpoint settings and note defaults.
type AnkiConfig struct {
	Host        string   `mapstructure:"host" validate:"required"`
	Port        int      `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	DefaultTags []string `mapstructure:"default_tags"`
}

// LLMConfig contains all LLM integration related settings. Exactly one
// provider is active at a time; key and endpoint fields for the other
// providers may stay empty.
type LLMConfig struct {
	Provider         string `mapstructure:"provider" validate:"required,oneof=gemini openai custom"`
	Model            string `mapstructure:"model"`
	GeminiAPIKey     string `mapstructure:"gemini_api_key"`
	OpenAIAPIKey     string `mapstructure:"openai_api_key"`
	OpenAIBaseURL    string `mapstructure:"openai_base_url"`
	CustomAPIKey     string `mapstructure:"custom_api_key"`
	CustomEndpoint   string `mapstructure:"custom_endpoint"`
	InstructionsFile string `mapstructure:"instructions_file" validate:"required"`
}

// ActiveModel returns the configured model name, falling back to the active
// provider's default when llm.model is unset.
func (c LLMConfig) ActiveModel() string {
	if c.Model != "" {
		return c.Model
	}
	switch c.Provider {
	case ProviderOpenAI:
		return DefaultOpenAIModel
	case ProviderCustom:
		return DefaultCustomModel
	default:
		return DefaultGeminiModel
	}
}
