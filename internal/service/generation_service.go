package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/tenxcards/tenx-cards-api/internal/domain"
	"github.com/tenxcards/tenx-cards-api/internal/generation"
	"github.com/tenxcards/tenx-cards-api/internal/platform/logger"
	"github.com/tenxcards/tenx-cards-api/internal/store"
)

// GenerationResult bundles the outcome of a successful generation run:
// the persisted generation record and the unpersisted flashcard proposals
// awaiting user review.
type GenerationResult struct {
	Generation *domain.Generation
	Proposals  []domain.FlashcardProposal
}

// GenerationDetails combines a generation record with the flashcards
// accepted from it and any error logs recorded for it.
type GenerationDetails struct {
	Generation *domain.Generation
	Flashcards []*domain.Flashcard
	ErrorLogs  []*domain.GenerationErrorLog
}

// GenerationService orchestrates AI flashcard generation: it records
// provenance for every attempt, invokes the generator, and resolves the
// record to completed or failed.
type GenerationService interface {
	// CreateGeneration runs one full generation cycle for the given user
	// and source text. A generation record is persisted before the AI
	// call, so every attempt leaves a trace even when generation fails.
	CreateGeneration(
		ctx context.Context,
		userID uuid.UUID,
		sourceText string,
	) (*GenerationResult, error)

	// GetGeneration retrieves a generation owned by the given user,
	// including its accepted flashcards and error logs.
	GetGeneration(
		ctx context.Context,
		userID uuid.UUID,
		generationID uuid.UUID,
	) (*GenerationDetails, error)

	// ListGenerations returns a page of the user's generations, newest
	// first, along with the total count.
	ListGenerations(
		ctx context.Context,
		userID uuid.UUID,
		limit, offset int,
	) ([]*domain.Generation, int, error)
}

// GenerationServiceError wraps errors from the generation service with context.
type GenerationServiceError struct {
	// Operation is the operation that failed (e.g., "create_generation")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for GenerationServiceError.
func (e *GenerationServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("generation service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("generation service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *GenerationServiceError) Unwrap() error {
	return e.Err
}

// NewGenerationServiceError creates a new GenerationServiceError.
// It returns known sentinel errors directly without wrapping.
func NewGenerationServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, ErrGenerationNotFound) || errors.Is(err, ErrNotOwned) {
		return err
	}

	if errors.Is(err, store.ErrGenerationNotFound) {
		return ErrGenerationNotFound
	}

	return &GenerationServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// generationServiceImpl implements the GenerationService interface
type generationServiceImpl struct {
	generationStore store.GenerationStore
	errorLogStore   store.GenerationErrorLogStore
	flashcardStore  store.FlashcardStore
	generator       generation.Generator
	model           string
	logger          *slog.Logger
	now             func() time.Time
}

// NewGenerationService creates a new GenerationService.
// It returns an error if any of the required dependencies are nil.
func NewGenerationService(
	generationStore store.GenerationStore,
	errorLogStore store.GenerationErrorLogStore,
	flashcardStore store.FlashcardStore,
	generator generation.Generator,
	model string,
	logger *slog.Logger,
) (GenerationService, error) {
	if generationStore == nil {
		return nil, &GenerationServiceError{
			Operation: "create_service",
			Message:   "generationStore cannot be nil",
		}
	}
	if errorLogStore == nil {
		return nil, &GenerationServiceError{
			Operation: "create_service",
			Message:   "errorLogStore cannot be nil",
		}
	}
	if flashcardStore == nil {
		return nil, &GenerationServiceError{
			Operation: "create_service",
			Message:   "flashcardStore cannot be nil",
		}
	}
	if generator == nil {
		return nil, &GenerationServiceError{
			Operation: "create_service",
			Message:   "generator cannot be nil",
		}
	}
	if model == "" {
		return nil, &GenerationServiceError{
			Operation: "create_service",
			Message:   "model cannot be empty",
		}
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &generationServiceImpl{
		generationStore: generationStore,
		errorLogStore:   errorLogStore,
		flashcardStore:  flashcardStore,
		generator:       generator,
		model:           model,
		logger:          logger.With("component", "generation_service"),
		now:             time.Now,
	}, nil
}

// CreateGeneration runs one full generation cycle.
//
// The record is inserted with pending status before the AI call so that
// failed attempts remain visible. If the insert itself fails, the cycle
// aborts and the AI is never called. After the AI call the record is
// resolved to completed or failed; on failure an error log row is written
// as well, and a failure to write that log is logged but never masks the
// generation error.
func (s *generationServiceImpl) CreateGeneration(
	ctx context.Context,
	userID uuid.UUID,
	sourceText string,
) (*GenerationResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	gen, err := domain.NewGeneration(userID, sourceText, s.model)
	if err != nil {
		log.Error("failed to create generation object",
			"error", err,
			"user_id", userID)
		return nil, NewGenerationServiceError(
			"create_generation", "failed to create generation object", err)
	}

	if err := s.generationStore.Create(ctx, gen); err != nil {
		log.Error("failed to persist pending generation",
			"error", err,
			"user_id", userID,
			"generation_id", gen.ID)
		return nil, NewGenerationServiceError(
			"create_generation", "failed to save generation record", err)
	}

	log.Info("generation started",
		"generation_id", gen.ID,
		"user_id", userID,
		"source_text_length", gen.SourceTextLength,
		"model", s.model)

	started := s.now()
	proposals, genErr := s.generator.GenerateProposals(ctx, sourceText)
	elapsed := s.now().Sub(started)

	if genErr != nil {
		s.recordFailure(ctx, gen, elapsed, genErr)
		return nil, NewGenerationServiceError(
			"create_generation", "flashcard generation failed", genErr)
	}

	for i := range proposals {
		proposals[i].GenerationID = &gen.ID
	}

	if err := gen.MarkCompleted(len(proposals), elapsed); err != nil {
		log.Error("failed to mark generation completed",
			"error", err,
			"generation_id", gen.ID)
		return nil, NewGenerationServiceError(
			"create_generation", "failed to resolve generation", err)
	}

	if err := s.generationStore.Update(ctx, gen); err != nil {
		log.Error("failed to save completed generation",
			"error", err,
			"generation_id", gen.ID)
		return nil, NewGenerationServiceError(
			"create_generation", "failed to save generation result", err)
	}

	log.Info("generation completed",
		"generation_id", gen.ID,
		"user_id", userID,
		"generated_count", len(proposals),
		"duration_ms", elapsed.Milliseconds())

	return &GenerationResult{
		Generation: gen,
		Proposals:  proposals,
	}, nil
}

// recordFailure resolves the generation to failed and writes an error log
// row. Persistence errors here are logged and swallowed; the caller
// reports the original generation error.
func (s *generationServiceImpl) recordFailure(
	ctx context.Context,
	gen *domain.Generation,
	elapsed time.Duration,
	genErr error,
) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	log.Warn("flashcard generation failed",
		"error", genErr,
		"generation_id", gen.ID,
		"user_id", gen.UserID,
		"duration_ms", elapsed.Milliseconds())

	if err := gen.MarkFailed(elapsed); err != nil {
		log.Error("failed to mark generation failed",
			"error", err,
			"generation_id", gen.ID)
		return
	}

	if err := s.generationStore.Update(ctx, gen); err != nil {
		log.Error("failed to save failed generation",
			"error", err,
			"generation_id", gen.ID)
	}

	errorLog, err := domain.NewGenerationErrorLog(
		gen.ID,
		domain.ErrorCodeAIGenerationFailed,
		genErr.Error(),
	)
	if err != nil {
		log.Error("failed to create generation error log object",
			"error", err,
			"generation_id", gen.ID)
		return
	}

	if err := s.errorLogStore.Create(ctx, errorLog); err != nil {
		log.Error("failed to save generation error log",
			"error", err,
			"generation_id", gen.ID)
	}
}

// GetGeneration retrieves a generation owned by the given user, including
// the flashcards accepted from it and its error logs.
func (s *generationServiceImpl) GetGeneration(
	ctx context.Context,
	userID uuid.UUID,
	generationID uuid.UUID,
) (*GenerationDetails, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	gen, err := s.generationStore.GetByID(ctx, generationID)
	if err != nil {
		if errors.Is(err, store.ErrGenerationNotFound) {
			return nil, ErrGenerationNotFound
		}
		log.Error("failed to retrieve generation",
			"error", err,
			"generation_id", generationID)
		return nil, NewGenerationServiceError(
			"get_generation", "failed to retrieve generation", err)
	}

	if gen.UserID != userID {
		log.Warn("generation ownership check failed",
			"generation_id", generationID,
			"owner_id", gen.UserID,
			"requester_id", userID)
		return nil, ErrNotOwned
	}

	flashcards, err := s.flashcardStore.ListByGeneration(ctx, generationID)
	if err != nil {
		log.Error("failed to retrieve accepted flashcards",
			"error", err,
			"generation_id", generationID)
		return nil, NewGenerationServiceError(
			"get_generation", "failed to retrieve flashcards", err)
	}

	errorLogs, err := s.errorLogStore.ListByGeneration(ctx, generationID)
	if err != nil {
		log.Error("failed to retrieve generation error logs",
			"error", err,
			"generation_id", generationID)
		return nil, NewGenerationServiceError(
			"get_generation", "failed to retrieve error logs", err)
	}

	return &GenerationDetails{
		Generation: gen,
		Flashcards: flashcards,
		ErrorLogs:  errorLogs,
	}, nil
}

// ListGenerations returns a page of the user's generations, newest first.
func (s *generationServiceImpl) ListGenerations(
	ctx context.Context,
	userID uuid.UUID,
	limit, offset int,
) ([]*domain.Generation, int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	generations, total, err := s.generationStore.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		log.Error("failed to list generations",
			"error", err,
			"user_id", userID)
		return nil, 0, NewGenerationServiceError(
			"list_generations", "failed to list generations", err)
	}

	return generations, total, nil
}
