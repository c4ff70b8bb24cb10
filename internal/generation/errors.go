package generation

import "errors"

// Common errors returned by the generation package
var (
	// ErrGenerationFailed is returned when field generation fails for any general reason
	ErrGenerationFailed = errors.New("failed to generate note fields")

	// ErrInvalidResponse is returned when the LLM response cannot be parsed or is malformed
	ErrInvalidResponse = errors.New("invalid response from language model")

	// ErrContentBlocked is returned when the LLM blocks the content due to safety filters
	ErrContentBlocked = errors.New("content blocked by language model safety filters")

	// ErrInvalidConfig is returned when the generator configuration is invalid
	ErrInvalidConfig = errors.New("invalid generator configuration")

	// ErrEmptyWord is returned when the input word or phrase is empty
	ErrEmptyWord = errors.New("word or phrase cannot be empty")
)
