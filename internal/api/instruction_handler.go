package api

import (
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/ankigen/ankigen/internal/api/shared"
)

// InstructionStore defines the per-model instruction operations the
// HTTP handlers depend on.
type InstructionStore interface {
	All() (map[string]string, error)
	Set(modelName, instruction string) error
	Delete(modelName string) error
}

// InstructionHandler serves per-model instruction endpoints.
type InstructionHandler struct {
	store  InstructionStore
	logger *slog.Logger
}

// NewInstructionHandler creates a new InstructionHandler.
func NewInstructionHandler(store InstructionStore, logger *slog.Logger) *InstructionHandler {
	if logger == nil {
		panic("logger cannot be nil for InstructionHandler") // ALLOW-PANIC: constructor enforcing required dependency
	}
	return &InstructionHandler{
		store:  store,
		logger: logger.With(slog.String("component", "instruction_handler")),
	}
}

// InstructionListResponse carries all stored instructions keyed by model name.
type InstructionListResponse struct {
	Instructions map[string]string `json:"instructions"`
}

// ListInstructions handles GET /api/instructions.
func (h *InstructionHandler) ListInstructions(w http.ResponseWriter, r *http.Request) {
	log := h.logger.With(slog.String("trace_id", shared.GetTraceID(r.Context())))

	instructions, err := h.store.All()
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to read instructions", err, log)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, InstructionListResponse{Instructions: instructions})
}

// PutInstructionRequest is the request body for storing an instruction.
type PutInstructionRequest struct {
	Instruction string `json:"instruction" validate:"required"`
}

// PutInstruction handles PUT /api/instructions/{model}.
func (h *InstructionHandler) PutInstruction(w http.ResponseWriter, r *http.Request) {
	log := h.logger.With(slog.String("trace_id", shared.GetTraceID(r.Context())))

	modelName := chi.URLParam(r, "model")
	if decoded, err := url.PathUnescape(modelName); err == nil {
		modelName = decoded
	}
	if modelName == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Model name is required")
		return
	}

	var req PutInstructionRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.Validate.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	if err := h.store.Set(modelName, req.Instruction); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to store instruction", err, log)
		return
	}

	log.Info("instruction stored", slog.String("model_name", modelName))
	w.WriteHeader(http.StatusNoContent)
}

// DeleteInstruction handles DELETE /api/instructions/{model}.
func (h *InstructionHandler) DeleteInstruction(w http.ResponseWriter, r *http.Request) {
	log := h.logger.With(slog.String("trace_id", shared.GetTraceID(r.Context())))

	modelName := chi.URLParam(r, "model")
	if decoded, err := url.PathUnescape(modelName); err == nil {
		modelName = decoded
	}
	if modelName == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Model name is required")
		return
	}

	if err := h.store.Delete(modelName); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err, log)
		return
	}

	log.Info("instruction deleted", slog.String("model_name", modelName))
	w.WriteHeader(http.StatusNoContent)
}
