// Package anki provides a client for the AnkiConnect add-on's local HTTP
// API. AnkiConnect speaks a JSON-RPC-style protocol: every call is a POST of
// {action, version, params} and every reply is {result, error}. The protocol
// itself is treated as an opaque external service; this package only maps
// requests and responses.
package anki

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// Version is the AnkiConnect protocol version this client speaks.
const Version = 6

// defaultTimeout bounds a single AnkiConnect round trip.
const defaultTimeout = 15 * time.Second

// Error is an error reported by AnkiConnect itself, as opposed to a
// transport failure reaching it.
type Error struct {
	Action  string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("anki-connect %s: %s", e.Action, e.Message)
}

// Client talks to a single AnkiConnect endpoint. All methods are synchronous
// blocking HTTP calls; the client holds no mutable state and is safe to share.
type Client struct {
	url        string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a Client for the AnkiConnect add-on listening on the
// given host and port.
func NewClient(host string, port int, logger *slog.Logger) *Client {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for anki.Client")
	}

	return &Client{
		url:        fmt.Sprintf("http://%s:%d", host, port),
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     logger.With(slog.String("component", "anki_client")),
	}
}

// request is the JSON-RPC-style envelope AnkiConnect expects.
type request struct {
	Action  string      `json:"action"`
	Version int         `json:"version"`
	Params  interface{} `json:"params,omitempty"`
}

// response is the envelope AnkiConnect replies with. Error is a string
// message or null; Result is action-specific.
type response struct {
	Result json.RawMessage `json:"result"`
	Error  *string         `json:"error"`
}

// invoke performs one AnkiConnect action and unmarshals the result into out.
// Pass a nil out to discard the result.
func (c *Client) invoke(ctx context.Context, action string, params interface{}, out interface{}) error {
	body, err := json.Marshal(request{Action: action, Version: Version, Params: params})
	if err != nil {
		return fmt.Errorf("failed to encode %s request: %w", action, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", action, err)
	}
	req.Header.Set("Content-Type", "application/json")

	c.logger.DebugContext(ctx, "invoking anki-connect action", slog.String("action", action))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("anki-connect %s call failed: %w", action, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.WarnContext(ctx, "failed to close response body", slog.String("error", err.Error()))
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("anki-connect %s returned status %d", action, resp.StatusCode)
	}

	var envelope response
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", action, err)
	}

	if envelope.Error != nil {
		return &Error{Action: action, Message: *envelope.Error}
	}

	if out != nil && len(envelope.Result) > 0 {
		if err := json.Unmarshal(envelope.Result, out); err != nil {
			return fmt.Errorf("failed to decode %s result: %w", action, err)
		}
	}

	return nil
}

// Ping checks that AnkiConnect is reachable by listing deck names and
// discarding the result.
func (c *Client) Ping(ctx context.Context) error {
	return c.invoke(ctx, "deckNames", nil, nil)
}

// DeckNames returns the names of all decks.
func (c *Client) DeckNames(ctx context.Context) ([]string, error) {
	var decks []string
	if err := c.invoke(ctx, "deckNames", nil, &decks); err != nil {
		return nil, err
	}
	return decks, nil
}

// CreateDeck creates a new deck and returns its ID. Creating a deck that
// already exists is not an error.
func (c *Client) CreateDeck(ctx context.Context, deck string) (int64, error) {
	var id int64
	if err := c.invoke(ctx, "createDeck", map[string]string{"deck": deck}, &id); err != nil {
		return 0, err
	}
	return id, nil
}

// ModelNames returns the names of all note models (templates).
func (c *Client) ModelNames(ctx context.Context) ([]string, error) {
	var models []string
	if err := c.invoke(ctx, "modelNames", nil, &models); err != nil {
		return nil, err
	}
	return models, nil
}

// ModelFieldNames returns the declared field names of the given model, in
// template order.
func (c *Client) ModelFieldNames(ctx context.Context, modelName string) ([]string, error) {
	var fields []string
	if err := c.invoke(ctx, "modelFieldNames", map[string]string{"modelName": modelName}, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

// CanAddNotes reports, per note, whether the note could be added (false
// usually means a duplicate).
func (c *Client) CanAddNotes(ctx context.Context, notes []Note) ([]bool, error) {
	var results []bool
	if err := c.invoke(ctx, "canAddNotes", map[string]interface{}{"notes": notes}, &results); err != nil {
		return nil, err
	}
	return results, nil
}

// AddNotes adds the given notes and returns one entry per note: the new note
// ID, or nil when that note could not be added.
func (c *Client) AddNotes(ctx context.Context, notes []Note) ([]*int64, error) {
	var ids []*int64
	if err := c.invoke(ctx, "addNotes", map[string]interface{}{"notes": notes}, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// FindNotes returns the IDs of notes matching an Anki search query such as
// "deck:Default" or "tag:japanese".
func (c *Client) FindNotes(ctx context.Context, query string) ([]int64, error) {
	var ids []int64
	if err := c.invoke(ctx, "findNotes", map[string]string{"query": query}, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// NotesInfo returns the full field/tag data for the given note IDs.
func (c *Client) NotesInfo(ctx context.Context, noteIDs []int64) ([]NoteInfo, error) {
	var infos []NoteInfo
	if err := c.invoke(ctx, "notesInfo", map[string]interface{}{"notes": noteIDs}, &infos); err != nil {
		return nil, err
	}
	return infos, nil
}

// UpdateNoteFields replaces field values on an existing note. Fields not
// present in the map are left untouched.
func (c *Client) UpdateNoteFields(ctx context.Context, noteID int64, fields map[string]string) error {
	params := map[string]interface{}{
		"note": map[string]interface{}{
			"id":     noteID,
			"fields": fields,
		},
	}
	return c.invoke(ctx, "updateNoteFields", params, nil)
}

// DeleteNotes removes the given notes and all of their cards.
func (c *Client) DeleteNotes(ctx context.Context, noteIDs []int64) error {
	return c.invoke(ctx, "deleteNotes", map[string]interface{}{"notes": noteIDs}, nil)
}
