package api

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/ankigen/ankigen/internal/anki"
	"github.com/ankigen/ankigen/internal/api/shared"
	"github.com/ankigen/ankigen/internal/service"
)

// CardService defines the card operations the HTTP handlers depend on.
type CardService interface {
	TestConnection(ctx context.Context) error
	DeckNames(ctx context.Context) ([]string, error)
	CreateDeck(ctx context.Context, name string) (int64, error)
	ModelNames(ctx context.Context) ([]string, error)
	ModelFieldNames(ctx context.Context, modelName string) ([]string, error)
	GenerateCard(ctx context.Context, params service.GenerateParams) (*service.Preview, error)
	AddNote(ctx context.Context, note anki.Note) (int64, error)
	BatchGenerate(ctx context.Context, words []string, deckName, modelName, language string, tags []string) (*service.BatchResult, error)
	SearchNotes(ctx context.Context, query string) ([]anki.NoteInfo, error)
	UpdateNoteFields(ctx context.Context, noteID int64, fields map[string]string) error
	DeleteNotes(ctx context.Context, noteIDs []int64) error
}

// DeckHandler serves deck and model endpoints.
type DeckHandler struct {
	cardService CardService
	logger      *slog.Logger
}

// NewDeckHandler creates a new DeckHandler.
func NewDeckHandler(cardService CardService, logger *slog.Logger) *DeckHandler {
	if logger == nil {
		panic("logger cannot be nil for DeckHandler") // ALLOW-PANIC: constructor enforcing required dependency
	}
	return &DeckHandler{
		cardService: cardService,
		logger:      logger.With(slog.String("component", "deck_handler")),
	}
}

// ConnectionResponse reports the result of an AnkiConnect probe.
type ConnectionResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// TestConnection handles GET /api/connection.
func (h *DeckHandler) TestConnection(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := h.logger.With(slog.String("trace_id", shared.GetTraceID(ctx)))

	if err := h.cardService.TestConnection(ctx); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err, log)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, ConnectionResponse{
		Status:  "connected",
		Message: "AnkiConnect is reachable",
	})
}

// DeckListResponse carries the available deck names.
type DeckListResponse struct {
	Decks []string `json:"decks"`
}

// ListDecks handles GET /api/decks.
func (h *DeckHandler) ListDecks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := h.logger.With(slog.String("trace_id", shared.GetTraceID(ctx)))

	decks, err := h.cardService.DeckNames(ctx)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err, log)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, DeckListResponse{Decks: decks})
}

// CreateDeckRequest is the request body for creating a deck.
type CreateDeckRequest struct {
	Name string `json:"name" validate:"required"`
}

// CreateDeckResponse carries the identifier of a newly created deck.
type CreateDeckResponse struct {
	DeckID int64  `json:"deck_id"`
	Name   string `json:"name"`
}

// CreateDeck handles POST /api/decks.
func (h *DeckHandler) CreateDeck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := h.logger.With(slog.String("trace_id", shared.GetTraceID(ctx)))

	var req CreateDeckRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.Validate.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	deckID, err := h.cardService.CreateDeck(ctx, req.Name)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err, log)
		return
	}

	log.Info("deck created", slog.String("deck_name", req.Name), slog.Int64("deck_id", deckID))
	shared.RespondWithJSON(w, r, http.StatusCreated, CreateDeckResponse{DeckID: deckID, Name: req.Name})
}

// ModelListResponse carries the available note type names.
type ModelListResponse struct {
	Models []string `json:"models"`
}

// ListModels handles GET /api/models.
func (h *DeckHandler) ListModels(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := h.logger.With(slog.String("trace_id", shared.GetTraceID(ctx)))

	models, err := h.cardService.ModelNames(ctx)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err, log)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, ModelListResponse{Models: models})
}

// ModelFieldsResponse carries the field names of a note type.
type ModelFieldsResponse struct {
	Model  string   `json:"model"`
	Fields []string `json:"fields"`
}

// GetModelFields handles GET /api/models/{name}/fields.
func (h *DeckHandler) GetModelFields(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := h.logger.With(slog.String("trace_id", shared.GetTraceID(ctx)))

	name := chi.URLParam(r, "name")
	if decoded, err := url.PathUnescape(name); err == nil {
		name = decoded
	}
	if name == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Model name is required")
		return
	}

	fields, err := h.cardService.ModelFieldNames(ctx, name)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err, log)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, ModelFieldsResponse{Model: name, Fields: fields})
}
