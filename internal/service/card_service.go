package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/ankigen/ankigen/internal/anki"
	"github.com/ankigen/ankigen/internal/generation"
)

// Connector is the subset of the AnkiConnect client the card service uses.
// It exists so tests can substitute a fake without a live Anki instance.
type Connector interface {
	Ping(ctx context.Context) error
	DeckNames(ctx context.Context) ([]string, error)
	CreateDeck(ctx context.Context, deck string) (int64, error)
	ModelNames(ctx context.Context) ([]string, error)
	ModelFieldNames(ctx context.Context, modelName string) ([]string, error)
	CanAddNotes(ctx context.Context, notes []anki.Note) ([]bool, error)
	AddNotes(ctx context.Context, notes []anki.Note) ([]*int64, error)
	FindNotes(ctx context.Context, query string) ([]int64, error)
	NotesInfo(ctx context.Context, noteIDs []int64) ([]anki.NoteInfo, error)
	UpdateNoteFields(ctx context.Context, noteID int64, fields map[string]string) error
	DeleteNotes(ctx context.Context, noteIDs []int64) error
}

// InstructionSource provides the stored generation instructions for a model.
type InstructionSource interface {
	Lookup(modelName string) (string, error)
}

// GenerateParams carries one preview/insert request through the service.
type GenerateParams struct {
	Word           string
	DeckName       string
	ModelName      string
	Language       string
	Context        string
	Tags           []string
	AllowDuplicate bool
}

// Preview is the result of generating a note without inserting it: the
// generated fields, the fully assembled note, and whether Anki would accept
// it as-is.
type Preview struct {
	Fields map[string]string
	Note   anki.Note
	CanAdd bool
}

// BatchItem records the outcome for one word of a batch run.
type BatchItem struct {
	Word    string
	Success bool
	NoteID  *int64
	Fields  map[string]string
	Error   string
}

// BatchSummary totals a batch run. Successful+Failed always equals Total.
type BatchSummary struct {
	BatchID    string
	Total      int
	Successful int
	Failed     int
}

// BatchResult is the full outcome of a batch generate-and-insert run.
type BatchResult struct {
	Items   []BatchItem
	Summary BatchSummary
}

// CardService composes the AnkiConnect connector with the LLM generator.
type CardService struct {
	connector    Connector
	generator    generation.Generator
	instructions InstructionSource
	defaultTags  []string
	logger       *slog.Logger
}

// NewCardService creates a CardService. The generator may be nil when no
// LLM provider is configured; generation operations then fail, but the plain
// connector operations keep working.
func NewCardService(
	connector Connector,
	generator generation.Generator,
	instructions InstructionSource,
	defaultTags []string,
	logger *slog.Logger,
) *CardService {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for CardService")
	}

	return &CardService{
		connector:    connector,
		generator:    generator,
		instructions: instructions,
		defaultTags:  defaultTags,
		logger:       logger.With(slog.String("component", "card_service")),
	}
}

// TestConnection checks that AnkiConnect is reachable.
func (s *CardService) TestConnection(ctx context.Context) error {
	return s.connector.Ping(ctx)
}

// DeckNames returns all deck names, sorted.
func (s *CardService) DeckNames(ctx context.Context) ([]string, error) {
	decks, err := s.connector.DeckNames(ctx)
	if err != nil {
		return nil, err
	}
	sort.Strings(decks)
	return decks, nil
}

// CreateDeck creates a deck and returns its ID.
func (s *CardService) CreateDeck(ctx context.Context, deck string) (int64, error) {
	return s.connector.CreateDeck(ctx, deck)
}

// ModelNames returns all model names, sorted.
func (s *CardService) ModelNames(ctx context.Context) ([]string, error) {
	models, err := s.connector.ModelNames(ctx)
	if err != nil {
		return nil, err
	}
	sort.Strings(models)
	return models, nil
}

// ModelFieldNames returns the declared field names of a model, in template
// order.
func (s *CardService) ModelFieldNames(ctx context.Context, modelName string) ([]string, error) {
	return s.connector.ModelFieldNames(ctx, modelName)
}

// GenerateCard generates the fields for one note and assembles it without
// inserting anything. The returned preview says whether Anki would accept
// the note as-is.
func (s *CardService) GenerateCard(ctx context.Context, p GenerateParams) (*Preview, error) {
	if s.generator == nil {
		return nil, fmt.Errorf("%w: no LLM provider configured", generation.ErrInvalidConfig)
	}

	fieldNames, err := s.connector.ModelFieldNames(ctx, p.ModelName)
	if err != nil {
		return nil, err
	}

	instructions, err := s.instructions.Lookup(p.ModelName)
	if err != nil {
		return nil, err
	}

	fields, err := s.generator.GenerateFields(ctx, generation.Request{
		Word:         p.Word,
		ModelName:    p.ModelName,
		Fields:       fieldNames,
		Language:     p.Language,
		Instructions: instructions,
		Context:      p.Context,
	})
	if err != nil {
		return nil, err
	}

	note := s.buildNote(p, fields)

	canAdd := false
	results, err := s.connector.CanAddNotes(ctx, []anki.Note{note})
	if err != nil {
		return nil, err
	}
	if len(results) > 0 {
		canAdd = results[0]
	}

	s.logger.InfoContext(ctx, "generated note preview",
		slog.String("word", p.Word),
		slog.String("model", p.ModelName),
		slog.Bool("can_add", canAdd))

	return &Preview{Fields: fields, Note: note, CanAdd: canAdd}, nil
}

// AddNote submits one note and returns the new note ID. A note AnkiConnect
// declines (null ID) maps to ErrNoteRejected.
func (s *CardService) AddNote(ctx context.Context, note anki.Note) (int64, error) {
	ids, err := s.connector.AddNotes(ctx, []anki.Note{note})
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 || ids[0] == nil {
		return 0, ErrNoteRejected
	}

	s.logger.InfoContext(ctx, "note added",
		slog.Int64("note_id", *ids[0]),
		slog.String("deck", note.DeckName),
		slog.String("model", note.ModelName))

	return *ids[0], nil
}

// BatchGenerate generates and inserts one note per word, continuing past
// per-item failures. Every run gets a batch ID that appears in logs and in
// the returned summary.
func (s *CardService) BatchGenerate(
	ctx context.Context,
	words []string,
	deckName, modelName, language string,
	tags []string,
) (*BatchResult, error) {
	if len(words) == 0 {
		return nil, ErrNoWords
	}
	if s.generator == nil {
		return nil, fmt.Errorf("%w: no LLM provider configured", generation.ErrInvalidConfig)
	}

	batchID := uuid.New().String()
	log := s.logger.With(slog.String("batch_id", batchID))

	fieldNames, err := s.connector.ModelFieldNames(ctx, modelName)
	if err != nil {
		return nil, err
	}

	instructions, err := s.instructions.Lookup(modelName)
	if err != nil {
		return nil, err
	}

	log.InfoContext(ctx, "starting batch generation",
		slog.Int("word_count", len(words)),
		slog.String("deck", deckName),
		slog.String("model", modelName))

	batchTags := append([]string{"batch-import"}, tags...)
	items := make([]BatchItem, 0, len(words))
	for _, word := range words {
		item := BatchItem{Word: word}

		fields, err := s.generator.GenerateFields(ctx, generation.Request{
			Word:         word,
			ModelName:    modelName,
			Fields:       fieldNames,
			Language:     language,
			Instructions: instructions,
		})
		if err != nil {
			item.Error = err.Error()
			items = append(items, item)
			log.WarnContext(ctx, "batch item generation failed",
				slog.String("word", word),
				slog.String("error", err.Error()))
			continue
		}
		item.Fields = fields

		note := s.buildNote(GenerateParams{
			Word:      word,
			DeckName:  deckName,
			ModelName: modelName,
			Language:  language,
			Tags:      batchTags,
		}, fields)

		id, err := s.AddNote(ctx, note)
		if err != nil {
			item.Error = err.Error()
			items = append(items, item)
			log.WarnContext(ctx, "batch item insert failed",
				slog.String("word", word),
				slog.String("error", err.Error()))
			continue
		}

		item.Success = true
		item.NoteID = &id
		items = append(items, item)
	}

	successful := lo.CountBy(items, func(it BatchItem) bool { return it.Success })
	result := &BatchResult{
		Items: items,
		Summary: BatchSummary{
			BatchID:    batchID,
			Total:      len(items),
			Successful: successful,
			Failed:     len(items) - successful,
		},
	}

	log.InfoContext(ctx, "batch generation finished",
		slog.Int("total", result.Summary.Total),
		slog.Int("successful", result.Summary.Successful),
		slog.Int("failed", result.Summary.Failed))

	return result, nil
}

// SearchNotes runs an Anki search query and returns the matching notes'
// full data.
func (s *CardService) SearchNotes(ctx context.Context, query string) ([]anki.NoteInfo, error) {
	ids, err := s.connector.FindNotes(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []anki.NoteInfo{}, nil
	}
	return s.connector.NotesInfo(ctx, ids)
}

// UpdateNoteFields replaces field values on an existing note.
func (s *CardService) UpdateNoteFields(ctx context.Context, noteID int64, fields map[string]string) error {
	return s.connector.UpdateNoteFields(ctx, noteID, fields)
}

// DeleteNotes removes the given notes.
func (s *CardService) DeleteNotes(ctx context.Context, noteIDs []int64) error {
	return s.connector.DeleteNotes(ctx, noteIDs)
}

// buildNote assembles the final note: generated fields plus the normalized
// tag set. Tags are a flat set of lowercase strings: the target language,
// the llm-generated marker, the configured defaults, and any per-request
// extras, lowercased and deduplicated.
func (s *CardService) buildNote(p GenerateParams, fields map[string]string) anki.Note {
	raw := make([]string, 0, len(s.defaultTags)+len(p.Tags)+2)
	if p.Language != "" {
		raw = append(raw, p.Language)
	}
	raw = append(raw, "llm-generated")
	raw = append(raw, s.defaultTags...)
	raw = append(raw, p.Tags...)

	tags := lo.Uniq(lo.FilterMap(raw, func(tag string, _ int) (string, bool) {
		tag = strings.ToLower(strings.TrimSpace(tag))
		return tag, tag != ""
	}))

	note := anki.Note{
		DeckName:  p.DeckName,
		ModelName: p.ModelName,
		Fields:    fields,
		Tags:      tags,
	}
	if p.AllowDuplicate {
		note.Options = &anki.NoteOptions{AllowDuplicate: true}
	}
	return note
}
