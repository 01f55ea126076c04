package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/tenxcards/tenx-cards-api/internal/api/shared"
	"github.com/tenxcards/tenx-cards-api/internal/domain"
	"github.com/tenxcards/tenx-cards-api/internal/platform/openrouter"
	"github.com/tenxcards/tenx-cards-api/internal/service"
	"github.com/tenxcards/tenx-cards-api/internal/service/auth"
	"github.com/tenxcards/tenx-cards-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, domain.ErrUnauthorized),
		openrouter.IsCode(err, openrouter.CodeAuthentication):
		return http.StatusUnauthorized

	// Authorization errors
	case errors.Is(err, service.ErrNotOwned):
		return http.StatusForbidden

	// Not found errors
	case errors.Is(err, service.ErrGenerationNotFound),
		errors.Is(err, service.ErrFlashcardNotFound),
		errors.Is(err, store.ErrGenerationNotFound),
		errors.Is(err, store.ErrFlashcardNotFound):
		return http.StatusNotFound

	// Rate limiting
	case openrouter.IsCode(err, openrouter.CodeRateLimit):
		return http.StatusTooManyRequests

	// Bad request errors
	case errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		openrouter.IsCode(err, openrouter.CodeValidation):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken):
		return "Invalid token"

	case errors.Is(err, domain.ErrUnauthorized):
		return "Unauthorized"

	case openrouter.IsCode(err, openrouter.CodeAuthentication):
		return "AI provider rejected the request credentials"

	// Authorization errors
	case errors.Is(err, service.ErrNotOwned):
		return "You do not own this resource"

	// Not found errors
	case errors.Is(err, service.ErrGenerationNotFound),
		errors.Is(err, store.ErrGenerationNotFound):
		return "Generation not found"

	case errors.Is(err, service.ErrFlashcardNotFound),
		errors.Is(err, store.ErrFlashcardNotFound):
		return "Flashcard not found"

	// Rate limiting
	case openrouter.IsCode(err, openrouter.CodeRateLimit):
		return "Too many generation requests, please try again later"

	// Bad request errors
	case openrouter.IsCode(err, openrouter.CodeValidation):
		var orErr *openrouter.Error
		if errors.As(err, &orErr) {
			return orErr.Message
		}
		return "Invalid generation request"

	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrInvalidID):
		var valErr *domain.ValidationError
		if errors.As(err, &valErr) {
			return "Invalid " + valErr.Field
		}
		return "Validation error"

	// Timeouts and malformed AI responses stay generic
	case openrouter.IsCode(err, openrouter.CodeTimeout):
		return "Generation timed out"

	// Default case for unknown errors
	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError maps an error to a status code and safe message, then
// writes the sanitized error response while logging the real error.
// An empty userMessage falls back to the safe message for the error type.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, userMessage string) {
	status := MapErrorToStatusCode(err)
	if userMessage == "" {
		userMessage = GetSafeErrorMessage(err)
	}
	shared.RespondWithErrorAndLog(w, r, status, userMessage, err)
}

// SanitizeValidationError removes sensitive details from validation errors
// and returns a user-friendly message.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()

	if strings.Contains(errMsg, "Field validation") {
		// Example format: "Key: 'CreateGenerationRequest.SourceText'
		// Error:Field validation for 'SourceText' failed on the 'min' tag"
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
	case "uuid":
		return "invalid identifier"
	default:
		return "validation failed"
	}
}
