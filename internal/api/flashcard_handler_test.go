package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tenxcards/tenx-cards-api/internal/domain"
	"github.com/tenxcards/tenx-cards-api/internal/service"
	"github.com/tenxcards/tenx-cards-api/internal/store"
)

// mockFlashcardService implements service.FlashcardService with
// overridable function fields.
type mockFlashcardService struct {
	CreateFlashcardsFn func(ctx context.Context, userID uuid.UUID, inputs []service.CreateFlashcardInput) ([]*domain.Flashcard, error)
	GetFlashcardFn     func(ctx context.Context, userID, flashcardID uuid.UUID) (*domain.Flashcard, error)
	ListFlashcardsFn   func(ctx context.Context, userID uuid.UUID, opts store.FlashcardListOptions) ([]*domain.Flashcard, int, error)
	UpdateFlashcardFn  func(ctx context.Context, userID, flashcardID uuid.UUID, front, back string) (*domain.Flashcard, error)
	DeleteFlashcardFn  func(ctx context.Context, userID, flashcardID uuid.UUID) error
}

var _ service.FlashcardService = (*mockFlashcardService)(nil)

func (m *mockFlashcardService) CreateFlashcards(
	ctx context.Context, userID uuid.UUID, inputs []service.CreateFlashcardInput,
) ([]*domain.Flashcard, error) {
	return m.CreateFlashcardsFn(ctx, userID, inputs)
}

func (m *mockFlashcardService) GetFlashcard(
	ctx context.Context, userID, flashcardID uuid.UUID,
) (*domain.Flashcard, error) {
	return m.GetFlashcardFn(ctx, userID, flashcardID)
}

func (m *mockFlashcardService) ListFlashcards(
	ctx context.Context, userID uuid.UUID, opts store.FlashcardListOptions,
) ([]*domain.Flashcard, int, error) {
	return m.ListFlashcardsFn(ctx, userID, opts)
}

func (m *mockFlashcardService) UpdateFlashcard(
	ctx context.Context, userID, flashcardID uuid.UUID, front, back string,
) (*domain.Flashcard, error) {
	return m.UpdateFlashcardFn(ctx, userID, flashcardID, front, back)
}

func (m *mockFlashcardService) DeleteFlashcard(
	ctx context.Context, userID, flashcardID uuid.UUID,
) error {
	return m.DeleteFlashcardFn(ctx, userID, flashcardID)
}

func newFlashcardRouter(svc service.FlashcardService) chi.Router {
	handler := NewFlashcardHandler(svc)
	r := chi.NewRouter()
	r.Post("/api/flashcards", handler.CreateFlashcards)
	r.Get("/api/flashcards", handler.ListFlashcards)
	r.Get("/api/flashcards/{id}", handler.GetFlashcard)
	r.Put("/api/flashcards/{id}", handler.UpdateFlashcard)
	r.Delete("/api/flashcards/{id}", handler.DeleteFlashcard)
	return r
}

func TestCreateFlashcardsHandlerSuccess(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	generationID := uuid.New()
	card, err := domain.NewFlashcard(userID, "Q1", "A1", domain.FlashcardSourceAIFull, &generationID)
	require.NoError(t, err)

	svc := &mockFlashcardService{
		CreateFlashcardsFn: func(ctx context.Context, gotUser uuid.UUID, inputs []service.CreateFlashcardInput) ([]*domain.Flashcard, error) {
			assert.Equal(t, userID, gotUser)
			require.Len(t, inputs, 1)
			assert.Equal(t, "Q1", inputs[0].Front)
			assert.Equal(t, domain.FlashcardSourceAIFull, inputs[0].Source)
			require.NotNil(t, inputs[0].GenerationID)
			assert.Equal(t, generationID, *inputs[0].GenerationID)
			return []*domain.Flashcard{card}, nil
		},
	}

	genID := generationID.String()
	req := authedRequest(t, http.MethodPost, "/api/flashcards", CreateFlashcardsRequest{
		Flashcards: []FlashcardInput{
			{Front: "Q1", Back: "A1", Source: "ai-full", GenerationID: &genID},
		},
	}, userID)
	rec := httptest.NewRecorder()
	newFlashcardRouter(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp CreateFlashcardsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Flashcards, 1)
	assert.Equal(t, card.ID.String(), resp.Flashcards[0].ID)
	require.NotNil(t, resp.Flashcards[0].GenerationID)
	assert.Equal(t, generationID.String(), *resp.Flashcards[0].GenerationID)
}

func TestCreateFlashcardsHandlerRejectsEmptyBatch(t *testing.T) {
	t.Parallel()

	req := authedRequest(t, http.MethodPost, "/api/flashcards",
		CreateFlashcardsRequest{Flashcards: []FlashcardInput{}}, uuid.New())
	rec := httptest.NewRecorder()
	newFlashcardRouter(&mockFlashcardService{}).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateFlashcardsHandlerRejectsUnknownSource(t *testing.T) {
	t.Parallel()

	req := authedRequest(t, http.MethodPost, "/api/flashcards", CreateFlashcardsRequest{
		Flashcards: []FlashcardInput{
			{Front: "Q1", Back: "A1", Source: "imported"},
		},
	}, uuid.New())
	rec := httptest.NewRecorder()
	newFlashcardRouter(&mockFlashcardService{}).ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Source")
}

func TestGetFlashcardHandler(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	card, err := domain.NewFlashcard(userID, "front", "back", domain.FlashcardSourceManual, nil)
	require.NoError(t, err)

	svc := &mockFlashcardService{
		GetFlashcardFn: func(ctx context.Context, gotUser, flashcardID uuid.UUID) (*domain.Flashcard, error) {
			assert.Equal(t, userID, gotUser)
			assert.Equal(t, card.ID, flashcardID)
			return card, nil
		},
	}

	req := authedRequest(t, http.MethodGet, "/api/flashcards/"+card.ID.String(), nil, userID)
	rec := httptest.NewRecorder()
	newFlashcardRouter(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp FlashcardResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, card.ID.String(), resp.ID)
	assert.Equal(t, "manual", resp.Source)
	assert.Nil(t, resp.GenerationID)
}

func TestGetFlashcardHandlerMapsNotFound(t *testing.T) {
	t.Parallel()

	svc := &mockFlashcardService{
		GetFlashcardFn: func(ctx context.Context, userID, flashcardID uuid.UUID) (*domain.Flashcard, error) {
			return nil, service.ErrFlashcardNotFound
		},
	}

	req := authedRequest(t, http.MethodGet, "/api/flashcards/"+uuid.NewString(), nil, uuid.New())
	rec := httptest.NewRecorder()
	newFlashcardRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListFlashcardsHandlerPassesOptions(t *testing.T) {
	t.Parallel()

	var gotOpts store.FlashcardListOptions
	svc := &mockFlashcardService{
		ListFlashcardsFn: func(ctx context.Context, userID uuid.UUID, opts store.FlashcardListOptions) ([]*domain.Flashcard, int, error) {
			gotOpts = opts
			return nil, 0, nil
		},
	}

	req := authedRequest(t, http.MethodGet,
		"/api/flashcards?limit=30&offset=60&sort_by=front&order=asc", nil, uuid.New())
	rec := httptest.NewRecorder()
	newFlashcardRouter(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, store.FlashcardListOptions{
		Limit:     30,
		Offset:    60,
		SortBy:    store.FlashcardSortFront,
		Ascending: true,
	}, gotOpts)
}

func TestUpdateFlashcardHandler(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	card, err := domain.NewFlashcard(userID, "new front", "new back", domain.FlashcardSourceAIEdited, nil)
	require.NoError(t, err)

	svc := &mockFlashcardService{
		UpdateFlashcardFn: func(ctx context.Context, gotUser, flashcardID uuid.UUID, front, back string) (*domain.Flashcard, error) {
			assert.Equal(t, "new front", front)
			assert.Equal(t, "new back", back)
			return card, nil
		},
	}

	req := authedRequest(t, http.MethodPut, "/api/flashcards/"+card.ID.String(),
		UpdateFlashcardRequest{Front: "new front", Back: "new back"}, userID)
	rec := httptest.NewRecorder()
	newFlashcardRouter(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp FlashcardResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ai-edited", resp.Source)
}

func TestUpdateFlashcardHandlerValidatesBody(t *testing.T) {
	t.Parallel()

	req := authedRequest(t, http.MethodPut, "/api/flashcards/"+uuid.NewString(),
		UpdateFlashcardRequest{Front: "", Back: "back"}, uuid.New())
	rec := httptest.NewRecorder()
	newFlashcardRouter(&mockFlashcardService{}).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteFlashcardHandler(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	cardID := uuid.New()
	var deleted uuid.UUID
	svc := &mockFlashcardService{
		DeleteFlashcardFn: func(ctx context.Context, gotUser, flashcardID uuid.UUID) error {
			deleted = flashcardID
			return nil
		},
	}

	req := authedRequest(t, http.MethodDelete, "/api/flashcards/"+cardID.String(), nil, userID)
	rec := httptest.NewRecorder()
	newFlashcardRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, cardID, deleted)
}

func TestDeleteFlashcardHandlerMapsOwnership(t *testing.T) {
	t.Parallel()

	svc := &mockFlashcardService{
		DeleteFlashcardFn: func(ctx context.Context, userID, flashcardID uuid.UUID) error {
			return service.ErrNotOwned
		},
	}

	req := authedRequest(t, http.MethodDelete, "/api/flashcards/"+uuid.NewString(), nil, uuid.New())
	rec := httptest.NewRecorder()
	newFlashcardRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}
