package main

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ankigen/ankigen/internal/config"
)

// newAnkiStub serves a minimal AnkiConnect endpoint answering every action
// with a canned result.
func newAnkiStub(t *testing.T) (host string, port int) {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Action string `json:"action"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		var result interface{}
		switch req.Action {
		case "deckNames":
			result = []string{"Default", "Vocabulary"}
		case "modelNames":
			result = []string{"Basic", "Cloze"}
		default:
			result = nil
		}
		require.NoError(t, json.NewEncoder(w).Encode(map[string]interface{}{
			"result": result,
			"error":  nil,
		}))
	}))
	t.Cleanup(srv.Close)

	u, err := url.Parse(srv.URL)
	require.NoError(t, err)
	h, p, err := net.SplitHostPort(u.Host)
	require.NoError(t, err)
	portNum, err := strconv.Atoi(p)
	require.NoError(t, err)
	return h, portNum
}

func testApplication(t *testing.T) *application {
	t.Helper()

	host, port := newAnkiStub(t)
	cfg := &config.Config{
		Server: config.ServerConfig{Port: 0, LogLevel: "info"},
		Anki:   config.AnkiConfig{Host: host, Port: port},
		LLM: config.LLMConfig{
			// No credentials: the generator stays disabled and the plain
			// connector endpoints must still work.
			Provider:         config.ProviderGemini,
			InstructionsFile: filepath.Join(t.TempDir(), "model_instructions.json"),
		},
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	app, err := newApplication(context.Background(), cfg, logger)
	require.NoError(t, err)
	return app
}

func TestNewApplication_WithoutLLMCredentials(t *testing.T) {
	app := testApplication(t)

	assert.NotNil(t, app.ankiClient)
	assert.NotNil(t, app.cardService)
	assert.NotNil(t, app.instructions)
	assert.Nil(t, app.generator)
}

func TestRouter_Health(t *testing.T) {
	app := testApplication(t)

	rec := httptest.NewRecorder()
	app.setupRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestRouter_ListDecks(t *testing.T) {
	app := testApplication(t)

	rec := httptest.NewRecorder()
	app.setupRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/decks", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Decks []string `json:"decks"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []string{"Default", "Vocabulary"}, resp.Decks)
}

func TestRouter_GenerateWithoutProvider(t *testing.T) {
	app := testApplication(t)

	body := strings.NewReader(`{"word": "hola", "deck_name": "Default", "model_name": "Basic", "language": "Spanish"}`)
	rec := httptest.NewRecorder()
	app.setupRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/cards/generate", body))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
