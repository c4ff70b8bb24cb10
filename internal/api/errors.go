package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/ankigen/ankigen/internal/anki"
	"github.com/ankigen/ankigen/internal/generation"
	"github.com/ankigen/ankigen/internal/service"
	"github.com/ankigen/ankigen/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	var ankiErr *anki.Error

	switch {
	// Bad request errors
	case errors.Is(err, generation.ErrEmptyWord),
		errors.Is(err, service.ErrNoWords):
		return http.StatusBadRequest

	// Not found errors
	case errors.Is(err, store.ErrInstructionNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, service.ErrNoteRejected):
		return http.StatusConflict

	// Misconfiguration: the request was fine, the deployment is not
	case errors.Is(err, generation.ErrInvalidConfig):
		return http.StatusServiceUnavailable

	// Upstream failures: AnkiConnect or the LLM provider
	case errors.As(err, &ankiErr),
		errors.Is(err, generation.ErrGenerationFailed),
		errors.Is(err, generation.ErrInvalidResponse),
		errors.Is(err, generation.ErrContentBlocked):
		return http.StatusBadGateway

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. AnkiConnect's own error strings pass through,
// since they are the user's own local application talking back.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	var ankiErr *anki.Error

	switch {
	case errors.As(err, &ankiErr):
		return fmt.Sprintf("Anki reported an error: %s", ankiErr.Message)

	case errors.Is(err, service.ErrNoteRejected):
		return "Note was rejected by Anki (duplicate?)"

	case errors.Is(err, store.ErrInstructionNotFound):
		return "No instructions stored for this model"

	case errors.Is(err, generation.ErrEmptyWord):
		return "Word or phrase is required"

	case errors.Is(err, service.ErrNoWords):
		return "Word list is empty"

	case errors.Is(err, generation.ErrInvalidConfig):
		return "LLM provider is not configured"

	case errors.Is(err, generation.ErrContentBlocked):
		return "Generation was blocked by the provider's safety filters"

	case errors.Is(err, generation.ErrInvalidResponse):
		return "Language model returned an unusable response"

	case errors.Is(err, generation.ErrGenerationFailed):
		return "Failed to generate note fields"

	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError removes sensitive details from validation errors
// and returns a user-friendly message.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()

	// Example format: "Key: 'GenerateCardRequest.Word' Error:Field
	// validation for 'Word' failed on the 'required' tag"
	if strings.Contains(errMsg, "Field validation") {
		parts := strings.Split(errMsg, "Error:")
		if len(parts) >= 2 {
			fieldParts := strings.Split(parts[1], "'")
			if len(fieldParts) >= 3 {
				field := fieldParts[1]
				var tag string
				if len(fieldParts) >= 5 {
					tag = fieldParts[3]
				}
				if tag != "" {
					return fmt.Sprintf("Invalid %s: %s", field, getValidationTagMessage(tag))
				}
				return fmt.Sprintf("Invalid %s", field)
			}
		}
	}

	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	case "gt", "lt":
		return "out of range"
	default:
		return "validation failed"
	}
}
