package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ankigen/ankigen/internal/anki"
	"github.com/ankigen/ankigen/internal/api/shared"
)

// NoteHandler serves note search and maintenance endpoints.
type NoteHandler struct {
	cardService CardService
	logger      *slog.Logger
}

// NewNoteHandler creates a new NoteHandler.
func NewNoteHandler(cardService CardService, logger *slog.Logger) *NoteHandler {
	if logger == nil {
		panic("logger cannot be nil for NoteHandler") // ALLOW-PANIC: constructor enforcing required dependency
	}
	return &NoteHandler{
		cardService: cardService,
		logger:      logger.With(slog.String("component", "note_handler")),
	}
}

// SearchNotesResponse carries the notes matching a search query.
type SearchNotesResponse struct {
	Notes []anki.NoteInfo `json:"notes"`
	Count int             `json:"count"`
}

// SearchNotes handles GET /api/notes.
func (h *NoteHandler) SearchNotes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := h.logger.With(slog.String("trace_id", shared.GetTraceID(ctx)))

	query := r.URL.Query().Get("query")
	if query == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Query parameter 'query' is required")
		return
	}

	notes, err := h.cardService.SearchNotes(ctx, query)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err, log)
		return
	}

	if notes == nil {
		notes = []anki.NoteInfo{}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, SearchNotesResponse{Notes: notes, Count: len(notes)})
}

// UpdateNoteRequest is the request body for updating note fields.
type UpdateNoteRequest struct {
	Fields map[string]string `json:"fields" validate:"required,min=1"`
}

// UpdateNote handles PUT /api/notes/{id}.
func (h *NoteHandler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := h.logger.With(slog.String("trace_id", shared.GetTraceID(ctx)))

	noteID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid note ID")
		return
	}

	var req UpdateNoteRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.Validate.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	if err := h.cardService.UpdateNoteFields(ctx, noteID, req.Fields); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err, log)
		return
	}

	log.Info("note updated", slog.Int64("note_id", noteID), slog.Int("field_count", len(req.Fields)))
	w.WriteHeader(http.StatusNoContent)
}

// DeleteNotesRequest is the request body for deleting notes.
type DeleteNotesRequest struct {
	NoteIDs []int64 `json:"note_ids" validate:"required,min=1"`
}

// DeleteNotes handles DELETE /api/notes.
func (h *NoteHandler) DeleteNotes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := h.logger.With(slog.String("trace_id", shared.GetTraceID(ctx)))

	var req DeleteNotesRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.Validate.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	if err := h.cardService.DeleteNotes(ctx, req.NoteIDs); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err, log)
		return
	}

	log.Info("notes deleted", slog.Int("note_count", len(req.NoteIDs)))
	w.WriteHeader(http.StatusNoContent)
}
