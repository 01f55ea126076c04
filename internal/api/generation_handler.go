package api

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/tenxcards/tenx-cards-api/internal/api/shared"
	"github.com/tenxcards/tenx-cards-api/internal/domain"
	"github.com/tenxcards/tenx-cards-api/internal/platform/logger"
	"github.com/tenxcards/tenx-cards-api/internal/service"
)

// CreateGenerationRequest represents the request body for starting a new
// flashcard generation.
type CreateGenerationRequest struct {
	SourceText string `json:"source_text" validate:"required,min=1000,max=10000"`
}

// GenerationResponse represents the response data for a generation record
type GenerationResponse struct {
	ID               string    `json:"id"`
	UserID           string    `json:"user_id"`
	SourceTextLength int       `json:"source_text_length"`
	SourceTextHash   string    `json:"source_text_hash"`
	Model            string    `json:"model"`
	GeneratedCount   int       `json:"generated_count"`
	DurationMs       int64     `json:"generation_duration"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// ProposalResponse represents one AI-proposed flashcard awaiting review
type ProposalResponse struct {
	Front        string  `json:"front"`
	Back         string  `json:"back"`
	Source       string  `json:"source"`
	GenerationID *string `json:"generation_id,omitempty"`
}

// CreateGenerationResponse bundles the generation record with its proposals
type CreateGenerationResponse struct {
	Generation GenerationResponse `json:"generation"`
	Proposals  []ProposalResponse `json:"proposals"`
}

// GenerationErrorLogResponse represents one recorded generation failure
type GenerationErrorLogResponse struct {
	ID           string    `json:"id"`
	GenerationID string    `json:"generation_id"`
	ErrorCode    string    `json:"error_code"`
	ErrorMessage string    `json:"error_message"`
	CreatedAt    time.Time `json:"created_at"`
}

// GenerationDetailsResponse combines a generation with its accepted
// flashcards and error logs
type GenerationDetailsResponse struct {
	Generation GenerationResponse           `json:"generation"`
	Flashcards []FlashcardResponse          `json:"flashcards"`
	ErrorLogs  []GenerationErrorLogResponse `json:"error_logs"`
}

// ListGenerationsResponse is a paginated page of generation records
type ListGenerationsResponse struct {
	Generations []GenerationResponse `json:"generations"`
	Total       int                  `json:"total"`
	Limit       int                  `json:"limit"`
	Offset      int                  `json:"offset"`
}

// GenerationHandler handles generation-related HTTP requests
type GenerationHandler struct {
	generationService service.GenerationService
	validator         *validator.Validate
}

// NewGenerationHandler creates a new GenerationHandler
func NewGenerationHandler(generationService service.GenerationService) *GenerationHandler {
	return &GenerationHandler{
		generationService: generationService,
		validator:         validator.New(),
	}
}

// CreateGeneration handles POST /api/generations requests
func (h *GenerationHandler) CreateGeneration(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), nil)

	userID, ok := getUserIDFromContext(r)
	if !ok {
		HandleAPIError(w, r, domain.ErrUnauthorized, "User ID not found or invalid")
		return
	}

	var req CreateGenerationRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	result, err := h.generationService.CreateGeneration(r.Context(), userID, req.SourceText)
	if err != nil {
		log.Warn("generation request failed",
			"error", err,
			"user_id", userID)
		HandleAPIError(w, r, err, "")
		return
	}

	proposals := make([]ProposalResponse, 0, len(result.Proposals))
	for _, p := range result.Proposals {
		proposals = append(proposals, proposalToResponse(p))
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, CreateGenerationResponse{
		Generation: generationToResponse(result.Generation),
		Proposals:  proposals,
	})
}

// GetGeneration handles GET /api/generations/{id} requests
func (h *GenerationHandler) GetGeneration(w http.ResponseWriter, r *http.Request) {
	userID, generationID, ok := handleUserIDAndPathUUID(w, r, "id", nil)
	if !ok {
		return
	}

	details, err := h.generationService.GetGeneration(r.Context(), userID, generationID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	flashcards := make([]FlashcardResponse, 0, len(details.Flashcards))
	for _, card := range details.Flashcards {
		flashcards = append(flashcards, flashcardToResponse(card))
	}

	errorLogs := make([]GenerationErrorLogResponse, 0, len(details.ErrorLogs))
	for _, entry := range details.ErrorLogs {
		errorLogs = append(errorLogs, GenerationErrorLogResponse{
			ID:           entry.ID.String(),
			GenerationID: entry.GenerationID.String(),
			ErrorCode:    entry.ErrorCode,
			ErrorMessage: entry.ErrorMessage,
			CreatedAt:    entry.CreatedAt,
		})
	}

	shared.RespondWithJSON(w, r, http.StatusOK, GenerationDetailsResponse{
		Generation: generationToResponse(details.Generation),
		Flashcards: flashcards,
		ErrorLogs:  errorLogs,
	})
}

// ListGenerations handles GET /api/generations requests
func (h *GenerationHandler) ListGenerations(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		HandleAPIError(w, r, domain.ErrUnauthorized, "User ID not found or invalid")
		return
	}

	limit, offset := getPaginationParams(r)

	generations, total, err := h.generationService.ListGenerations(r.Context(), userID, limit, offset)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	items := make([]GenerationResponse, 0, len(generations))
	for _, gen := range generations {
		items = append(items, generationToResponse(gen))
	}

	shared.RespondWithJSON(w, r, http.StatusOK, ListGenerationsResponse{
		Generations: items,
		Total:       total,
		Limit:       limit,
		Offset:      offset,
	})
}

// generationToResponse converts a domain.Generation to a GenerationResponse
func generationToResponse(gen *domain.Generation) GenerationResponse {
	return GenerationResponse{
		ID:               gen.ID.String(),
		UserID:           gen.UserID.String(),
		SourceTextLength: gen.SourceTextLength,
		SourceTextHash:   gen.SourceTextHash,
		Model:            gen.Model,
		GeneratedCount:   gen.GeneratedCount,
		DurationMs:       gen.DurationMs,
		Status:           string(gen.Status),
		CreatedAt:        gen.CreatedAt,
		UpdatedAt:        gen.UpdatedAt,
	}
}

// proposalToResponse converts a domain.FlashcardProposal to a ProposalResponse
func proposalToResponse(p domain.FlashcardProposal) ProposalResponse {
	resp := ProposalResponse{
		Front:  p.Front,
		Back:   p.Back,
		Source: string(p.Source),
	}
	if p.GenerationID != nil {
		id := p.GenerationID.String()
		resp.GenerationID = &id
	}
	return resp
}
