package api

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/ankigen/ankigen/internal/api/shared"
	"github.com/ankigen/ankigen/internal/config"
)

// SettingsHandler serves the runtime settings endpoints. Secrets are
// write-only: API keys can be stored but are never echoed back.
type SettingsHandler struct {
	mu      sync.Mutex
	cfg     *config.Config
	envPath string
	logger  *slog.Logger
}

// NewSettingsHandler creates a new SettingsHandler persisting changes to
// the env file at envPath.
func NewSettingsHandler(cfg *config.Config, envPath string, logger *slog.Logger) *SettingsHandler {
	if logger == nil {
		panic("logger cannot be nil for SettingsHandler") // ALLOW-PANIC: constructor enforcing required dependency
	}
	if envPath == "" {
		envPath = config.DefaultEnvFile
	}
	return &SettingsHandler{
		cfg:     cfg,
		envPath: envPath,
		logger:  logger.With(slog.String("component", "settings_handler")),
	}
}

// SettingsResponse reports the current settings without secrets.
type SettingsResponse struct {
	Provider       string   `json:"provider"`
	Model          string   `json:"model"`
	AnkiHost       string   `json:"anki_host"`
	AnkiPort       int      `json:"anki_port"`
	DefaultTags    []string `json:"default_tags"`
	CustomEndpoint string   `json:"custom_endpoint,omitempty"`
	LogLevel       string   `json:"log_level"`
	GeminiKeySet   bool     `json:"gemini_key_set"`
	OpenAIKeySet   bool     `json:"openai_key_set"`
	CustomKeySet   bool     `json:"custom_key_set"`
}

// GetSettings handles GET /api/settings.
func (h *SettingsHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	shared.RespondWithJSON(w, r, http.StatusOK, h.settingsResponse())
}

func (h *SettingsHandler) settingsResponse() SettingsResponse {
	return SettingsResponse{
		Provider:       h.cfg.LLM.Provider,
		Model:          h.cfg.LLM.ActiveModel(),
		AnkiHost:       h.cfg.Anki.Host,
		AnkiPort:       h.cfg.Anki.Port,
		DefaultTags:    h.cfg.Anki.DefaultTags,
		CustomEndpoint: h.cfg.LLM.CustomEndpoint,
		LogLevel:       h.cfg.Server.LogLevel,
		GeminiKeySet:   h.cfg.LLM.GeminiAPIKey != "",
		OpenAIKeySet:   h.cfg.LLM.OpenAIAPIKey != "",
		CustomKeySet:   h.cfg.LLM.CustomAPIKey != "",
	}
}

// UpdateSettingsRequest is the request body for updating settings. All
// fields are optional; absent fields keep their current values.
type UpdateSettingsRequest struct {
	Provider       *string   `json:"provider,omitempty" validate:"omitempty,oneof=gemini openai custom"`
	Model          *string   `json:"model,omitempty"`
	AnkiHost       *string   `json:"anki_host,omitempty"`
	AnkiPort       *int      `json:"anki_port,omitempty" validate:"omitempty,min=1,max=65535"`
	DefaultTags    *[]string `json:"default_tags,omitempty"`
	CustomEndpoint *string   `json:"custom_endpoint,omitempty" validate:"omitempty,url"`
	LogLevel       *string   `json:"log_level,omitempty" validate:"omitempty,oneof=debug info warn error"`
	GeminiAPIKey   *string   `json:"gemini_api_key,omitempty"`
	OpenAIAPIKey   *string   `json:"openai_api_key,omitempty"`
	CustomAPIKey   *string   `json:"custom_api_key,omitempty"`
}

// UpdateSettings handles PUT /api/settings. Changes are applied to the
// running configuration and persisted to the env file. Provider and
// connection changes take effect on the next process start.
func (h *SettingsHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := h.logger.With(slog.String("trace_id", shared.GetTraceID(ctx)))

	var req UpdateSettingsRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.Validate.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if req.Provider != nil {
		h.cfg.LLM.Provider = *req.Provider
	}
	if req.Model != nil {
		h.cfg.LLM.Model = *req.Model
	}
	if req.AnkiHost != nil {
		h.cfg.Anki.Host = *req.AnkiHost
	}
	if req.AnkiPort != nil {
		h.cfg.Anki.Port = *req.AnkiPort
	}
	if req.DefaultTags != nil {
		h.cfg.Anki.DefaultTags = *req.DefaultTags
	}
	if req.CustomEndpoint != nil {
		h.cfg.LLM.CustomEndpoint = *req.CustomEndpoint
	}
	if req.LogLevel != nil {
		h.cfg.Server.LogLevel = *req.LogLevel
	}
	if req.GeminiAPIKey != nil {
		h.cfg.LLM.GeminiAPIKey = *req.GeminiAPIKey
	}
	if req.OpenAIAPIKey != nil {
		h.cfg.LLM.OpenAIAPIKey = *req.OpenAIAPIKey
	}
	if req.CustomAPIKey != nil {
		h.cfg.LLM.CustomAPIKey = *req.CustomAPIKey
	}

	if err := config.SaveEnv(h.envPath, h.cfg); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to persist settings", err, log)
		return
	}

	log.Info("settings updated", slog.String("provider", h.cfg.LLM.Provider))
	shared.RespondWithJSON(w, r, http.StatusOK, h.settingsResponse())
}
