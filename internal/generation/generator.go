package generation

import (
	"context"
)

// Request carries everything a provider needs to synthesize the fields of
// one note.
type Request struct {
	// Word is the word or phrase the flashcard teaches.
	Word string

	// ModelName is the Anki model (template) whose fields are being filled.
	ModelName string

	// Fields are the declared field names of the model, in template order.
	Fields []string

	// Language is the target language all generated content must be in.
	Language string

	// Instructions are optional model-specific generation instructions.
	Instructions string

	// Context is optional free-text context (difficulty level, topic).
	Context string
}

// Generator defines the interface for generating note field content from a
// word or phrase. This interface serves as a boundary between the
// application core and external AI/LLM services.
type Generator interface {
	// GenerateFields produces a value for every requested field. The result
	// maps field names to generated text. Implementations must honor
	// context cancellation and return one of the package sentinel errors
	// (wrapped) on failure.
	GenerateFields(ctx context.Context, req Request) (map[string]string, error)
}
