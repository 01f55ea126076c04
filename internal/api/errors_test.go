package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tenxcards/tenx-cards-api/internal/domain"
	"github.com/tenxcards/tenx-cards-api/internal/platform/openrouter"
	"github.com/tenxcards/tenx-cards-api/internal/service"
	"github.com/tenxcards/tenx-cards-api/internal/service/auth"
	"github.com/tenxcards/tenx-cards-api/internal/store"
)

func TestMapErrorToStatusCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid token", auth.ErrInvalidToken, http.StatusUnauthorized},
		{"expired token", auth.ErrExpiredToken, http.StatusUnauthorized},
		{"missing token", auth.ErrMissingToken, http.StatusUnauthorized},
		{"unauthorized", domain.ErrUnauthorized, http.StatusUnauthorized},
		{"upstream auth failure", openrouter.NewError(openrouter.CodeAuthentication, "bad key", nil), http.StatusUnauthorized},
		{"not owned", service.ErrNotOwned, http.StatusForbidden},
		{"generation not found", service.ErrGenerationNotFound, http.StatusNotFound},
		{"flashcard not found", service.ErrFlashcardNotFound, http.StatusNotFound},
		{"store not found", store.ErrGenerationNotFound, http.StatusNotFound},
		{"rate limited", openrouter.NewError(openrouter.CodeRateLimit, "slow down", nil), http.StatusTooManyRequests},
		{"invalid entity", store.ErrInvalidEntity, http.StatusBadRequest},
		{"validation error", domain.ErrValidation, http.StatusBadRequest},
		{"upstream validation", openrouter.NewError(openrouter.CodeValidation, "too short", nil), http.StatusBadRequest},
		{"wrapped sentinel", fmt.Errorf("context: %w", service.ErrNotOwned), http.StatusForbidden},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
		{"upstream timeout", openrouter.NewError(openrouter.CodeTimeout, "deadline", nil), http.StatusInternalServerError},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, MapErrorToStatusCode(tc.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, "An unexpected error occurred"},
		{"invalid token", auth.ErrInvalidToken, "Invalid token"},
		{"not owned", service.ErrNotOwned, "You do not own this resource"},
		{"generation not found", service.ErrGenerationNotFound, "Generation not found"},
		{"flashcard not found", service.ErrFlashcardNotFound, "Flashcard not found"},
		{"rate limited", openrouter.NewError(openrouter.CodeRateLimit, "slow down", nil),
			"Too many generation requests, please try again later"},
		{"upstream validation surfaces message",
			openrouter.NewError(openrouter.CodeValidation, "source text must be at least 1000 characters", nil),
			"source text must be at least 1000 characters"},
		{"timeout", openrouter.NewError(openrouter.CodeTimeout, "deadline", nil), "Generation timed out"},
		{"field validation", domain.NewValidationError("id", "must be a valid UUID", domain.ErrInvalidID), "Invalid id"},
		{"internal details hidden", errors.New("pq: connection refused"), "An unexpected error occurred"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, GetSafeErrorMessage(tc.err))
		})
	}
}

func TestSanitizeValidationError(t *testing.T) {
	t.Parallel()

	err := errors.New("Key: 'CreateGenerationRequest.SourceText' " +
		"Error:Field validation for 'SourceText' failed on the 'min' tag")
	assert.Equal(t, "Invalid SourceText: too short", SanitizeValidationError(err))

	assert.Equal(t, "Validation error", SanitizeValidationError(errors.New("random failure")))
}
