package api

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/tenxcards/tenx-cards-api/internal/api/shared"
	"github.com/tenxcards/tenx-cards-api/internal/domain"
	"github.com/tenxcards/tenx-cards-api/internal/service"
	"github.com/tenxcards/tenx-cards-api/internal/store"
)

// FlashcardInput represents one flashcard in a bulk create request
type FlashcardInput struct {
	Front        string  `json:"front"         validate:"required,max=200"`
	Back         string  `json:"back"          validate:"required,max=500"`
	Source       string  `json:"source"        validate:"required,oneof=manual ai-full ai-edited"`
	GenerationID *string `json:"generation_id" validate:"omitempty,uuid"`
}

// CreateFlashcardsRequest represents the request body for bulk flashcard creation
type CreateFlashcardsRequest struct {
	Flashcards []FlashcardInput `json:"flashcards" validate:"required,min=1,max=100,dive"`
}

// UpdateFlashcardRequest represents the request body for editing a flashcard
type UpdateFlashcardRequest struct {
	Front string `json:"front" validate:"required,max=200"`
	Back  string `json:"back"  validate:"required,max=500"`
}

// FlashcardResponse represents the response data for a flashcard
type FlashcardResponse struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	GenerationID *string   `json:"generation_id,omitempty"`
	Front        string    `json:"front"`
	Back         string    `json:"back"`
	Source       string    `json:"source"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CreateFlashcardsResponse is the bulk create result
type CreateFlashcardsResponse struct {
	Flashcards []FlashcardResponse `json:"flashcards"`
}

// ListFlashcardsResponse is a paginated page of flashcards
type ListFlashcardsResponse struct {
	Flashcards []FlashcardResponse `json:"flashcards"`
	Total      int                 `json:"total"`
	Limit      int                 `json:"limit"`
	Offset     int                 `json:"offset"`
}

// FlashcardHandler handles flashcard-related HTTP requests
type FlashcardHandler struct {
	flashcardService service.FlashcardService
	validator        *validator.Validate
}

// NewFlashcardHandler creates a new FlashcardHandler
func NewFlashcardHandler(flashcardService service.FlashcardService) *FlashcardHandler {
	return &FlashcardHandler{
		flashcardService: flashcardService,
		validator:        validator.New(),
	}
}

// CreateFlashcards handles POST /api/flashcards requests
func (h *FlashcardHandler) CreateFlashcards(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		HandleAPIError(w, r, domain.ErrUnauthorized, "User ID not found or invalid")
		return
	}

	var req CreateFlashcardsRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	inputs := make([]service.CreateFlashcardInput, 0, len(req.Flashcards))
	for _, item := range req.Flashcards {
		input := service.CreateFlashcardInput{
			Front:  item.Front,
			Back:   item.Back,
			Source: domain.FlashcardSource(item.Source),
		}
		if item.GenerationID != nil {
			genID, err := uuid.Parse(*item.GenerationID)
			if err != nil {
				shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid generation_id")
				return
			}
			input.GenerationID = &genID
		}
		inputs = append(inputs, input)
	}

	cards, err := h.flashcardService.CreateFlashcards(r.Context(), userID, inputs)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	items := make([]FlashcardResponse, 0, len(cards))
	for _, card := range cards {
		items = append(items, flashcardToResponse(card))
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, CreateFlashcardsResponse{
		Flashcards: items,
	})
}

// GetFlashcard handles GET /api/flashcards/{id} requests
func (h *FlashcardHandler) GetFlashcard(w http.ResponseWriter, r *http.Request) {
	userID, flashcardID, ok := handleUserIDAndPathUUID(w, r, "id", nil)
	if !ok {
		return
	}

	card, err := h.flashcardService.GetFlashcard(r.Context(), userID, flashcardID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, flashcardToResponse(card))
}

// ListFlashcards handles GET /api/flashcards requests
func (h *FlashcardHandler) ListFlashcards(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		HandleAPIError(w, r, domain.ErrUnauthorized, "User ID not found or invalid")
		return
	}

	limit, offset := getPaginationParams(r)
	opts := store.FlashcardListOptions{
		Limit:     limit,
		Offset:    offset,
		SortBy:    store.FlashcardSortField(r.URL.Query().Get("sort_by")),
		Ascending: r.URL.Query().Get("order") == "asc",
	}

	cards, total, err := h.flashcardService.ListFlashcards(r.Context(), userID, opts)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	items := make([]FlashcardResponse, 0, len(cards))
	for _, card := range cards {
		items = append(items, flashcardToResponse(card))
	}

	shared.RespondWithJSON(w, r, http.StatusOK, ListFlashcardsResponse{
		Flashcards: items,
		Total:      total,
		Limit:      limit,
		Offset:     offset,
	})
}

// UpdateFlashcard handles PUT /api/flashcards/{id} requests
func (h *FlashcardHandler) UpdateFlashcard(w http.ResponseWriter, r *http.Request) {
	userID, flashcardID, ok := handleUserIDAndPathUUID(w, r, "id", nil)
	if !ok {
		return
	}

	var req UpdateFlashcardRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	card, err := h.flashcardService.UpdateFlashcard(r.Context(), userID, flashcardID, req.Front, req.Back)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, flashcardToResponse(card))
}

// DeleteFlashcard handles DELETE /api/flashcards/{id} requests
func (h *FlashcardHandler) DeleteFlashcard(w http.ResponseWriter, r *http.Request) {
	userID, flashcardID, ok := handleUserIDAndPathUUID(w, r, "id", nil)
	if !ok {
		return
	}

	if err := h.flashcardService.DeleteFlashcard(r.Context(), userID, flashcardID); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// flashcardToResponse converts a domain.Flashcard to a FlashcardResponse
func flashcardToResponse(card *domain.Flashcard) FlashcardResponse {
	resp := FlashcardResponse{
		ID:        card.ID.String(),
		UserID:    card.UserID.String(),
		Front:     card.Front,
		Back:      card.Back,
		Source:    string(card.Source),
		CreatedAt: card.CreatedAt,
		UpdatedAt: card.UpdatedAt,
	}
	if card.GenerationID != nil {
		id := card.GenerationID.String()
		resp.GenerationID = &id
	}
	return resp
}
