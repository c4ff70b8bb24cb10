package generation

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// suggestModelName is the one template with a validated placeholder field.
const suggestModelName = "THPTQG form"

// ParseFields turns a raw LLM reply into the final field map for a note.
// It strips markdown fences, decodes the JSON object, coerces every value to
// a string, and applies the placeholder repair for the one template that
// needs it.
func ParseFields(req Request, raw string) (map[string]string, error) {
	fields, err := DecodeFields(raw)
	if err != nil {
		return nil, err
	}
	RepairSuggestPattern(req.ModelName, req.Word, fields)
	return fields, nil
}

// DecodeFields parses an LLM reply into a field-name to text map. Models
// routinely wrap JSON in markdown code fences and occasionally emit numbers
// or booleans for text fields, so the reply is unfenced first and values are
// coerced to strings afterwards.
func DecodeFields(raw string) (map[string]string, error) {
	cleaned := StripCodeFences(raw)

	var loose map[string]interface{}
	if err := json.Unmarshal([]byte(cleaned), &loose); err != nil {
		return nil, fmt.Errorf("%w: failed to parse JSON object: %v", ErrInvalidResponse, err)
	}

	fields := make(map[string]string, len(loose))
	for name, value := range loose {
		fields[name] = coerceString(value)
	}
	return fields, nil
}

// StripCodeFences removes a surrounding markdown code fence, with or without
// a "json" language tag, and trims whitespace. Content without fences is
// returned trimmed.
func StripCodeFences(s string) string {
	s = strings.TrimSpace(s)

	fenced := strings.HasPrefix(s, "```")
	if fenced {
		// Take everything after the opening fence line.
		if idx := strings.Index(s, "\n"); idx >= 0 {
			s = s[idx+1:]
		} else {
			s = strings.TrimPrefix(s, "```")
			s = strings.TrimPrefix(s, "json")
		}
	}

	// Only strip a trailing fence that closes an opening one or ends the
	// reply. A backtick run inside unfenced field text is content.
	if fenced || strings.HasSuffix(s, "```") {
		if idx := strings.LastIndex(s, "```"); idx >= 0 {
			s = s[:idx]
		}
	}

	return strings.TrimSpace(s)
}

// coerceString renders a decoded JSON value as field text. Strings pass
// through; numbers and booleans are formatted; anything nested is
// re-marshaled so no content is silently dropped.
func coerceString(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case nil:
		return ""
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(raw)
	}
}

// RepairSuggestPattern validates the "suggest" placeholder on the THPTQG
// form template. The suggest field is expected to be a letter pattern whose
// non-space length equals the word's length (e.g. "a_____e" for "archive").
// When the model gets that wrong, the pattern is rebuilt from the word's
// first and last characters joined by interior underscores; words of one or
// two characters become the word itself. The Word field is also pinned back
// to the input, since models occasionally rewrite it.
//
// Fields for other templates, and replies without a suggest field, are left
// untouched.
func RepairSuggestPattern(modelName, word string, fields map[string]string) {
	if modelName != suggestModelName {
		return
	}

	pattern, ok := fields["suggest"]
	if !ok {
		return
	}

	if existing, ok := fields["Word"]; ok && existing != word {
		fields["Word"] = word
	}

	wordRunes := []rune(word)
	patternLen := len([]rune(strings.ReplaceAll(pattern, " ", "")))
	if patternLen == len(wordRunes) {
		return
	}

	if len(wordRunes) > 2 {
		fields["suggest"] = string(wordRunes[0]) +
			strings.Repeat("_", len(wordRunes)-2) +
			string(wordRunes[len(wordRunes)-1])
	} else {
		fields["suggest"] = word
	}
}
