package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ankigen/ankigen/internal/anki"
	"github.com/ankigen/ankigen/internal/api"
	"github.com/ankigen/ankigen/internal/generation"
	"github.com/ankigen/ankigen/internal/service"
)

func newCardRouter(svc *mockCardService) http.Handler {
	h := api.NewCardHandler(svc, testLogger())
	r := chi.NewRouter()
	r.Post("/api/cards/generate", h.GenerateCard)
	r.Post("/api/cards", h.AddCard)
	r.Post("/api/cards/batch", h.BatchGenerate)
	return r
}

func TestCardHandler_GenerateCard(t *testing.T) {
	t.Parallel()

	t.Run("returns preview", func(t *testing.T) {
		t.Parallel()

		var gotParams service.GenerateParams
		svc := &mockCardService{
			GenerateCardFn: func(ctx context.Context, params service.GenerateParams) (*service.Preview, error) {
				gotParams = params
				return &service.Preview{
					Fields: map[string]string{"Front": "hola", "Back": "hello"},
					Note: anki.Note{
						DeckName:  params.DeckName,
						ModelName: params.ModelName,
						Fields:    map[string]string{"Front": "hola", "Back": "hello"},
						Tags:      []string{"spanish", "llm-generated"},
					},
					CanAdd: true,
				}, nil
			},
		}

		body := bytes.NewBufferString(`{
			"word": "hola",
			"deck_name": "Spanish",
			"model_name": "Basic",
			"language": "Spanish",
			"context": "greetings",
			"tags": ["unit-1"]
		}`)
		rec := httptest.NewRecorder()
		newCardRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/cards/generate", body))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "hola", gotParams.Word)
		assert.Equal(t, "Spanish", gotParams.DeckName)
		assert.Equal(t, "Basic", gotParams.ModelName)
		assert.Equal(t, "greetings", gotParams.Context)
		assert.Equal(t, []string{"unit-1"}, gotParams.Tags)

		var resp api.GenerateCardResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.CanAdd)
		assert.Equal(t, "hola", resp.Fields["Front"])
		assert.Equal(t, []string{"spanish", "llm-generated"}, resp.Note.Tags)
	})

	t.Run("missing word", func(t *testing.T) {
		t.Parallel()

		svc := &mockCardService{}
		body := bytes.NewBufferString(`{"deck_name": "Spanish", "model_name": "Basic", "language": "Spanish"}`)
		rec := httptest.NewRecorder()
		newCardRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/cards/generate", body))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("provider not configured", func(t *testing.T) {
		t.Parallel()

		svc := &mockCardService{
			GenerateCardFn: func(ctx context.Context, params service.GenerateParams) (*service.Preview, error) {
				return nil, generation.ErrInvalidConfig
			},
		}
		body := bytes.NewBufferString(`{"word": "hola", "deck_name": "Spanish", "model_name": "Basic", "language": "Spanish"}`)
		rec := httptest.NewRecorder()
		newCardRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/cards/generate", body))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("generation failure maps to bad gateway", func(t *testing.T) {
		t.Parallel()

		svc := &mockCardService{
			GenerateCardFn: func(ctx context.Context, params service.GenerateParams) (*service.Preview, error) {
				return nil, generation.ErrInvalidResponse
			},
		}
		body := bytes.NewBufferString(`{"word": "hola", "deck_name": "Spanish", "model_name": "Basic", "language": "Spanish"}`)
		rec := httptest.NewRecorder()
		newCardRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/cards/generate", body))

		assert.Equal(t, http.StatusBadGateway, rec.Code)
	})
}

func TestCardHandler_AddCard(t *testing.T) {
	t.Parallel()

	t.Run("adds note", func(t *testing.T) {
		t.Parallel()

		var gotNote anki.Note
		svc := &mockCardService{
			AddNoteFn: func(ctx context.Context, note anki.Note) (int64, error) {
				gotNote = note
				return 42, nil
			},
		}
		body := bytes.NewBufferString(`{
			"note": {
				"deckName": "Spanish",
				"modelName": "Basic",
				"fields": {"Front": "hola", "Back": "hello"},
				"tags": ["spanish", "llm-generated"]
			}
		}`)
		rec := httptest.NewRecorder()
		newCardRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/cards", body))

		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, "Spanish", gotNote.DeckName)
		assert.Equal(t, "hola", gotNote.Fields["Front"])

		var resp api.AddCardResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, int64(42), resp.NoteID)
	})

	t.Run("rejected duplicate maps to conflict", func(t *testing.T) {
		t.Parallel()

		svc := &mockCardService{
			AddNoteFn: func(ctx context.Context, note anki.Note) (int64, error) {
				return 0, service.ErrNoteRejected
			},
		}
		body := bytes.NewBufferString(`{
			"note": {"deckName": "Spanish", "modelName": "Basic", "fields": {"Front": "hola"}}
		}`)
		rec := httptest.NewRecorder()
		newCardRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/cards", body))

		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("incomplete note", func(t *testing.T) {
		t.Parallel()

		svc := &mockCardService{}
		body := bytes.NewBufferString(`{"note": {"deckName": "Spanish"}}`)
		rec := httptest.NewRecorder()
		newCardRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/cards", body))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestCardHandler_BatchGenerate(t *testing.T) {
	t.Parallel()

	t.Run("reports per-word outcomes", func(t *testing.T) {
		t.Parallel()

		noteID := int64(101)
		svc := &mockCardService{
			BatchGenerateFn: func(
				ctx context.Context,
				words []string,
				deckName, modelName, language string,
				tags []string,
			) (*service.BatchResult, error) {
				require.Equal(t, []string{"uno", "dos"}, words)
				require.Equal(t, "Spanish", deckName)
				return &service.BatchResult{
					Items: []service.BatchItem{
						{Word: "uno", Success: true, NoteID: &noteID, Fields: map[string]string{"Front": "uno"}},
						{Word: "dos", Success: false, Error: "generation failed"},
					},
					Summary: service.BatchSummary{
						BatchID:    "b-1",
						Total:      2,
						Successful: 1,
						Failed:     1,
					},
				}, nil
			},
		}

		body := bytes.NewBufferString(`{
			"words": ["uno", "dos"],
			"deck_name": "Spanish",
			"model_name": "Basic",
			"language": "Spanish"
		}`)
		rec := httptest.NewRecorder()
		newCardRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/cards/batch", body))

		require.Equal(t, http.StatusOK, rec.Code)

		var resp api.BatchGenerateResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp.Results, 2)
		assert.True(t, resp.Results[0].Success)
		require.NotNil(t, resp.Results[0].NoteID)
		assert.Equal(t, int64(101), *resp.Results[0].NoteID)
		assert.False(t, resp.Results[1].Success)
		assert.Equal(t, "generation failed", resp.Results[1].Error)
		assert.Equal(t, resp.Summary.Total, resp.Summary.Successful+resp.Summary.Failed)
	})

	t.Run("empty word list", func(t *testing.T) {
		t.Parallel()

		svc := &mockCardService{}
		body := bytes.NewBufferString(`{
			"words": [],
			"deck_name": "Spanish",
			"model_name": "Basic",
			"language": "Spanish"
		}`)
		rec := httptest.NewRecorder()
		newCardRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/cards/batch", body))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
