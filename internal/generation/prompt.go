package generation

import (
	"fmt"
	"strings"
)

// SystemPrompt is the role instruction sent to chat-completion providers.
const SystemPrompt = "You are a helpful assistant that creates educational flashcards. Return only valid JSON."

// BuildPrompt assembles the natural-language prompt for one note. The prompt
// names the word, target language, model, and required fields, then layers on
// model-specific instructions, extra context, and field-shape guidance for
// the common Basic and Cloze templates. It ends with a strict
// return-only-JSON directive so responses stay machine-parseable.
func BuildPrompt(req Request) (string, error) {
	if req.Word == "" {
		return "", ErrEmptyWord
	}

	var b strings.Builder

	fmt.Fprintf(&b, "Generate flashcard content for the word/phrase: %q\n", req.Word)
	fmt.Fprintf(&b, "Target language: %s\n", req.Language)
	fmt.Fprintf(&b, "Anki Model: %s\n", req.ModelName)
	fmt.Fprintf(&b, "Required fields: %s\n\n", strings.Join(req.Fields, ", "))

	fmt.Fprintf(&b,
		"CRITICAL: ALL content (meanings, definitions, examples, explanations) MUST be written in %s.\n",
		strings.ToUpper(req.Language))
	b.WriteString("Do NOT mix languages. If the word is in English but target language is Vietnamese, write meanings in Vietnamese.\n\n")

	if req.Instructions != "" {
		fmt.Fprintf(&b, "Model-specific instructions: %s\n\n", req.Instructions)
	}

	if req.Context != "" {
		fmt.Fprintf(&b, "Additional context: %s\n\n", req.Context)
	}

	if hasField(req.Fields, "Front") && hasField(req.Fields, "Back") {
		b.WriteString("For Basic cards, Front should contain the question/prompt, Back should contain the answer.\n")
	} else if hasField(req.Fields, "Text") {
		b.WriteString("For Cloze cards, use {{c1::text}} format to mark deletions. You can use multiple cloze deletions like {{c1::first}}, {{c2::second}}.\n")
	}

	b.WriteString("\nReturn ONLY a JSON object with the field names as keys and content as values. No additional text or markdown formatting.")

	return b.String(), nil
}

func hasField(fields []string, name string) bool {
	for _, f := range fields {
		if f == name {
			return true
		}
	}
	return false
}
