package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tenxcards/tenx-cards-api/internal/mocks"
	"github.com/tenxcards/tenx-cards-api/internal/service/auth"
)

// okHandler records the user ID it saw in the request context.
func okHandler(sawUserID *uuid.UUID) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if userID, ok := GetUserID(r); ok {
			*sawUserID = userID
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticateSetsUserID(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	mw := NewAuthMiddleware(mocks.NewMockJWTServiceForUser(userID))

	var sawUserID uuid.UUID
	req := httptest.NewRequest(http.MethodGet, "/api/flashcards", nil)
	req.Header.Set("Authorization", "Bearer any-token")
	rec := httptest.NewRecorder()

	mw.Authenticate(okHandler(&sawUserID)).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, userID, sawUserID)
}

func TestAuthenticateMissingHeader(t *testing.T) {
	t.Parallel()

	mw := NewAuthMiddleware(mocks.NewMockJWTServiceForUser(uuid.New()))

	var sawUserID uuid.UUID
	req := httptest.NewRequest(http.MethodGet, "/api/flashcards", nil)
	rec := httptest.NewRecorder()

	mw.Authenticate(okHandler(&sawUserID)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, uuid.Nil, sawUserID)
}

func TestAuthenticateBadHeaderFormat(t *testing.T) {
	t.Parallel()

	mw := NewAuthMiddleware(mocks.NewMockJWTServiceForUser(uuid.New()))

	for _, header := range []string{"token-without-scheme", "Basic dXNlcjpwYXNz", "Bearer"} {
		req := httptest.NewRequest(http.MethodGet, "/api/flashcards", nil)
		req.Header.Set("Authorization", header)
		rec := httptest.NewRecorder()

		var sawUserID uuid.UUID
		mw.Authenticate(okHandler(&sawUserID)).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code, "header %q", header)
	}
}

func TestAuthenticateExpiredToken(t *testing.T) {
	t.Parallel()

	mw := NewAuthMiddleware(&mocks.MockJWTService{Err: auth.ErrExpiredToken})

	req := httptest.NewRequest(http.MethodGet, "/api/flashcards", nil)
	req.Header.Set("Authorization", "Bearer stale-token")
	rec := httptest.NewRecorder()

	var sawUserID uuid.UUID
	mw.Authenticate(okHandler(&sawUserID)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Token expired")
}

func TestAuthenticateInvalidToken(t *testing.T) {
	t.Parallel()

	mw := NewAuthMiddleware(&mocks.MockJWTService{Err: auth.ErrInvalidToken})

	req := httptest.NewRequest(http.MethodGet, "/api/flashcards", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec := httptest.NewRecorder()

	var sawUserID uuid.UUID
	mw.Authenticate(okHandler(&sawUserID)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid token")
}

func TestAuthenticateUnexpectedValidationFailure(t *testing.T) {
	t.Parallel()

	mw := NewAuthMiddleware(&mocks.MockJWTService{
		ValidateTokenFn: func(ctx context.Context, tokenString string) (*auth.Claims, error) {
			return nil, errors.New("keystore unavailable")
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/flashcards", nil)
	req.Header.Set("Authorization", "Bearer any-token")
	rec := httptest.NewRecorder()

	var sawUserID uuid.UUID
	mw.Authenticate(okHandler(&sawUserID)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	// Internal failure details never reach the client
	assert.NotContains(t, rec.Body.String(), "keystore")
}
