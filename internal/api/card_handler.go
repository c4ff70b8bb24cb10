package api

import (
	"log/slog"
	"net/http"

	"github.com/ankigen/ankigen/internal/anki"
	"github.com/ankigen/ankigen/internal/api/shared"
	"github.com/ankigen/ankigen/internal/service"
)

// CardHandler serves card generation and insertion endpoints.
type CardHandler struct {
	cardService CardService
	logger      *slog.Logger
}

// NewCardHandler creates a new CardHandler.
func NewCardHandler(cardService CardService, logger *slog.Logger) *CardHandler {
	if logger == nil {
		panic("logger cannot be nil for CardHandler") // ALLOW-PANIC: constructor enforcing required dependency
	}
	return &CardHandler{
		cardService: cardService,
		logger:      logger.With(slog.String("component", "card_handler")),
	}
}

// GenerateCardRequest is the request body for generating a card preview.
type GenerateCardRequest struct {
	Word           string   `json:"word" validate:"required"`
	DeckName       string   `json:"deck_name" validate:"required"`
	ModelName      string   `json:"model_name" validate:"required"`
	Language       string   `json:"language" validate:"required"`
	Context        string   `json:"context,omitempty"`
	Tags           []string `json:"tags,omitempty"`
	AllowDuplicate bool     `json:"allow_duplicate,omitempty"`
}

// GenerateCardResponse carries a generated note preview.
type GenerateCardResponse struct {
	Fields map[string]string `json:"fields"`
	Note   anki.Note         `json:"note"`
	CanAdd bool              `json:"can_add"`
}

// GenerateCard handles POST /api/cards/generate.
func (h *CardHandler) GenerateCard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := h.logger.With(slog.String("trace_id", shared.GetTraceID(ctx)))

	var req GenerateCardRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.Validate.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	preview, err := h.cardService.GenerateCard(ctx, service.GenerateParams{
		Word:           req.Word,
		DeckName:       req.DeckName,
		ModelName:      req.ModelName,
		Language:       req.Language,
		Context:        req.Context,
		Tags:           req.Tags,
		AllowDuplicate: req.AllowDuplicate,
	})
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err, log)
		return
	}

	log.Info("card generated",
		slog.String("word", req.Word),
		slog.String("model_name", req.ModelName),
		slog.Bool("can_add", preview.CanAdd))

	shared.RespondWithJSON(w, r, http.StatusOK, GenerateCardResponse{
		Fields: preview.Fields,
		Note:   preview.Note,
		CanAdd: preview.CanAdd,
	})
}

// AddCardRequest is the request body for inserting a note.
type AddCardRequest struct {
	Note anki.Note `json:"note" validate:"required"`
}

// AddCardResponse carries the identifier of a newly inserted note.
type AddCardResponse struct {
	NoteID int64 `json:"note_id"`
}

// AddCard handles POST /api/cards.
func (h *CardHandler) AddCard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := h.logger.With(slog.String("trace_id", shared.GetTraceID(ctx)))

	var req AddCardRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if req.Note.DeckName == "" || req.Note.ModelName == "" || len(req.Note.Fields) == 0 {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Note requires deckName, modelName and fields")
		return
	}

	noteID, err := h.cardService.AddNote(ctx, req.Note)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err, log)
		return
	}

	log.Info("note added",
		slog.Int64("note_id", noteID),
		slog.String("deck_name", req.Note.DeckName),
		slog.String("model_name", req.Note.ModelName))

	shared.RespondWithJSON(w, r, http.StatusCreated, AddCardResponse{NoteID: noteID})
}

// BatchGenerateRequest is the request body for batch generation.
type BatchGenerateRequest struct {
	Words     []string `json:"words" validate:"required,min=1,dive,required"`
	DeckName  string   `json:"deck_name" validate:"required"`
	ModelName string   `json:"model_name" validate:"required"`
	Language  string   `json:"language" validate:"required"`
	Tags      []string `json:"tags,omitempty"`
}

// BatchItemResponse reports the outcome for a single word in a batch.
type BatchItemResponse struct {
	Word    string            `json:"word"`
	Success bool              `json:"success"`
	NoteID  *int64            `json:"note_id,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
	Error   string            `json:"error,omitempty"`
}

// BatchSummaryResponse aggregates the outcome counts of a batch run.
type BatchSummaryResponse struct {
	BatchID    string `json:"batch_id"`
	Total      int    `json:"total"`
	Successful int    `json:"successful"`
	Failed     int    `json:"failed"`
}

// BatchGenerateResponse carries the per-word results and the run summary.
type BatchGenerateResponse struct {
	Results []BatchItemResponse  `json:"results"`
	Summary BatchSummaryResponse `json:"summary"`
}

// BatchGenerate handles POST /api/cards/batch.
func (h *CardHandler) BatchGenerate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := h.logger.With(slog.String("trace_id", shared.GetTraceID(ctx)))

	var req BatchGenerateRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.Validate.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	result, err := h.cardService.BatchGenerate(ctx, req.Words, req.DeckName, req.ModelName, req.Language, req.Tags)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err, log)
		return
	}

	items := make([]BatchItemResponse, 0, len(result.Items))
	for _, item := range result.Items {
		items = append(items, BatchItemResponse{
			Word:    item.Word,
			Success: item.Success,
			NoteID:  item.NoteID,
			Fields:  item.Fields,
			Error:   item.Error,
		})
	}

	log.Info("batch generation finished",
		slog.String("batch_id", result.Summary.BatchID),
		slog.Int("total", result.Summary.Total),
		slog.Int("successful", result.Summary.Successful),
		slog.Int("failed", result.Summary.Failed))

	shared.RespondWithJSON(w, r, http.StatusOK, BatchGenerateResponse{
		Results: items,
		Summary: BatchSummaryResponse{
			BatchID:    result.Summary.BatchID,
			Total:      result.Summary.Total,
			Successful: result.Summary.Successful,
			Failed:     result.Summary.Failed,
		},
	})
}
