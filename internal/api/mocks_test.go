package api_test

import (
	"context"
	"io"
	"log/slog"

	"github.com/ankigen/ankigen/internal/anki"
	"github.com/ankigen/ankigen/internal/service"
)

// mockCardService implements api.CardService with function fields so each
// test overrides only what it needs.
type mockCardService struct {
	TestConnectionFn   func(ctx context.Context) error
	DeckNamesFn        func(ctx context.Context) ([]string, error)
	CreateDeckFn       func(ctx context.Context, name string) (int64, error)
	ModelNamesFn       func(ctx context.Context) ([]string, error)
	ModelFieldNamesFn  func(ctx context.Context, modelName string) ([]string, error)
	GenerateCardFn     func(ctx context.Context, params service.GenerateParams) (*service.Preview, error)
	AddNoteFn          func(ctx context.Context, note anki.Note) (int64, error)
	BatchGenerateFn    func(ctx context.Context, words []string, deckName, modelName, language string, tags []string) (*service.BatchResult, error)
	SearchNotesFn      func(ctx context.Context, query string) ([]anki.NoteInfo, error)
	UpdateNoteFieldsFn func(ctx context.Context, noteID int64, fields map[string]string) error
	DeleteNotesFn      func(ctx context.Context, noteIDs []int64) error
}

func (m *mockCardService) TestConnection(ctx context.Context) error {
	return m.TestConnectionFn(ctx)
}

func (m *mockCardService) DeckNames(ctx context.Context) ([]string, error) {
	return m.DeckNamesFn(ctx)
}

func (m *mockCardService) CreateDeck(ctx context.Context, name string) (int64, error) {
	return m.CreateDeckFn(ctx, name)
}

func (m *mockCardService) ModelNames(ctx context.Context) ([]string, error) {
	return m.ModelNamesFn(ctx)
}

func (m *mockCardService) ModelFieldNames(ctx context.Context, modelName string) ([]string, error) {
	return m.ModelFieldNamesFn(ctx, modelName)
}

func (m *mockCardService) GenerateCard(ctx context.Context, params service.GenerateParams) (*service.Preview, error) {
	return m.GenerateCardFn(ctx, params)
}

func (m *mockCardService) AddNote(ctx context.Context, note anki.Note) (int64, error) {
	return m.AddNoteFn(ctx, note)
}

func (m *mockCardService) BatchGenerate(
	ctx context.Context,
	words []string,
	deckName, modelName, language string,
	tags []string,
) (*service.BatchResult, error) {
	return m.BatchGenerateFn(ctx, words, deckName, modelName, language, tags)
}

func (m *mockCardService) SearchNotes(ctx context.Context, query string) ([]anki.NoteInfo, error) {
	return m.SearchNotesFn(ctx, query)
}

func (m *mockCardService) UpdateNoteFields(ctx context.Context, noteID int64, fields map[string]string) error {
	return m.UpdateNoteFieldsFn(ctx, noteID, fields)
}

func (m *mockCardService) DeleteNotes(ctx context.Context, noteIDs []int64) error {
	return m.DeleteNotesFn(ctx, noteIDs)
}

// mockInstructionStore implements api.InstructionStore.
type mockInstructionStore struct {
	AllFn    func() (map[string]string, error)
	SetFn    func(modelName, instruction string) error
	DeleteFn func(modelName string) error
}

func (m *mockInstructionStore) All() (map[string]string, error) {
	return m.AllFn()
}

func (m *mockInstructionStore) Set(modelName, instruction string) error {
	return m.SetFn(modelName, instruction)
}

func (m *mockInstructionStore) Delete(modelName string) error {
	return m.DeleteFn(modelName)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
