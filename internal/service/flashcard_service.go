package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/tenxcards/tenx-cards-api/internal/domain"
	"github.com/tenxcards/tenx-cards-api/internal/platform/logger"
	"github.com/tenxcards/tenx-cards-api/internal/store"
)

// CreateFlashcardInput carries the user-supplied fields for one flashcard
// in a bulk create request. AI-sourced cards must reference the generation
// that proposed them.
type CreateFlashcardInput struct {
	Front        string
	Back         string
	Source       domain.FlashcardSource
	GenerationID *uuid.UUID
}

// FlashcardService provides flashcard CRUD operations with ownership
// enforcement.
type FlashcardService interface {
	// CreateFlashcards persists a batch of flashcards for the given user
	// in a single transaction. Either every card is saved or none are.
	CreateFlashcards(
		ctx context.Context,
		userID uuid.UUID,
		inputs []CreateFlashcardInput,
	) ([]*domain.Flashcard, error)

	// GetFlashcard retrieves a flashcard owned by the given user.
	GetFlashcard(
		ctx context.Context,
		userID uuid.UUID,
		flashcardID uuid.UUID,
	) (*domain.Flashcard, error)

	// ListFlashcards returns a page of the user's flashcards along with
	// the total count.
	ListFlashcards(
		ctx context.Context,
		userID uuid.UUID,
		opts store.FlashcardListOptions,
	) ([]*domain.Flashcard, int, error)

	// UpdateFlashcard replaces the content of a flashcard owned by the
	// given user. Editing a card accepted verbatim from an AI proposal
	// reclassifies it as AI-edited.
	UpdateFlashcard(
		ctx context.Context,
		userID uuid.UUID,
		flashcardID uuid.UUID,
		front, back string,
	) (*domain.Flashcard, error)

	// DeleteFlashcard removes a flashcard owned by the given user.
	DeleteFlashcard(
		ctx context.Context,
		userID uuid.UUID,
		flashcardID uuid.UUID,
	) error
}

// FlashcardServiceError wraps errors from the flashcard service with context.
type FlashcardServiceError struct {
	// Operation is the operation that failed (e.g., "create_flashcards")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for FlashcardServiceError.
func (e *FlashcardServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("flashcard service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("flashcard service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *FlashcardServiceError) Unwrap() error {
	return e.Err
}

// NewFlashcardServiceError creates a new FlashcardServiceError.
// It returns known sentinel errors directly without wrapping.
func NewFlashcardServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, ErrFlashcardNotFound) || errors.Is(err, ErrNotOwned) {
		return err
	}

	if errors.Is(err, store.ErrFlashcardNotFound) {
		return ErrFlashcardNotFound
	}

	return &FlashcardServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// flashcardServiceImpl implements the FlashcardService interface
type flashcardServiceImpl struct {
	db             *sql.DB
	flashcardStore store.FlashcardStore
	logger         *slog.Logger
}

// NewFlashcardService creates a new FlashcardService.
// It returns an error if any of the required dependencies are nil.
func NewFlashcardService(
	db *sql.DB,
	flashcardStore store.FlashcardStore,
	logger *slog.Logger,
) (FlashcardService, error) {
	if db == nil {
		return nil, &FlashcardServiceError{
			Operation: "create_service",
			Message:   "db cannot be nil",
		}
	}
	if flashcardStore == nil {
		return nil, &FlashcardServiceError{
			Operation: "create_service",
			Message:   "flashcardStore cannot be nil",
		}
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &flashcardServiceImpl{
		db:             db,
		flashcardStore: flashcardStore,
		logger:         logger.With("component", "flashcard_service"),
	}, nil
}

// CreateFlashcards persists a batch of flashcards in a single transaction.
func (s *flashcardServiceImpl) CreateFlashcards(
	ctx context.Context,
	userID uuid.UUID,
	inputs []CreateFlashcardInput,
) ([]*domain.Flashcard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(inputs) == 0 {
		return nil, NewFlashcardServiceError(
			"create_flashcards", "no flashcards provided", domain.ErrValidation)
	}

	cards := make([]*domain.Flashcard, 0, len(inputs))
	for _, input := range inputs {
		card, err := domain.NewFlashcard(
			userID,
			input.Front,
			input.Back,
			input.Source,
			input.GenerationID,
		)
		if err != nil {
			log.Warn("flashcard input rejected",
				"error", err,
				"user_id", userID)
			return nil, NewFlashcardServiceError(
				"create_flashcards", "invalid flashcard data", err)
		}
		cards = append(cards, card)
	}

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.flashcardStore.WithTx(tx)
		if err := txStore.CreateMultiple(ctx, cards); err != nil {
			return NewFlashcardServiceError(
				"create_flashcards", "failed to save flashcards", err)
		}
		return nil
	})
	if err != nil {
		log.Error("failed to create flashcards",
			"error", err,
			"user_id", userID,
			"count", len(cards))
		return nil, err
	}

	log.Info("flashcards created",
		"user_id", userID,
		"count", len(cards))

	return cards, nil
}

// GetFlashcard retrieves a flashcard owned by the given user.
func (s *flashcardServiceImpl) GetFlashcard(
	ctx context.Context,
	userID uuid.UUID,
	flashcardID uuid.UUID,
) (*domain.Flashcard, error) {
	card, err := s.getOwnedFlashcard(ctx, userID, flashcardID, "get_flashcard")
	if err != nil {
		return nil, err
	}
	return card, nil
}

// ListFlashcards returns a page of the user's flashcards.
func (s *flashcardServiceImpl) ListFlashcards(
	ctx context.Context,
	userID uuid.UUID,
	opts store.FlashcardListOptions,
) ([]*domain.Flashcard, int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	cards, total, err := s.flashcardStore.ListByUser(ctx, userID, opts)
	if err != nil {
		log.Error("failed to list flashcards",
			"error", err,
			"user_id", userID)
		return nil, 0, NewFlashcardServiceError(
			"list_flashcards", "failed to list flashcards", err)
	}

	return cards, total, nil
}

// UpdateFlashcard replaces a flashcard's content, reclassifying AI-accepted
// cards as AI-edited.
func (s *flashcardServiceImpl) UpdateFlashcard(
	ctx context.Context,
	userID uuid.UUID,
	flashcardID uuid.UUID,
	front, back string,
) (*domain.Flashcard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	card, err := s.getOwnedFlashcard(ctx, userID, flashcardID, "update_flashcard")
	if err != nil {
		return nil, err
	}

	source := card.Source
	if source == domain.FlashcardSourceAIFull {
		source = domain.FlashcardSourceAIEdited
	}

	if err := card.UpdateContent(front, back, source); err != nil {
		log.Warn("flashcard update rejected",
			"error", err,
			"flashcard_id", flashcardID)
		return nil, NewFlashcardServiceError(
			"update_flashcard", "invalid flashcard data", err)
	}

	if err := s.flashcardStore.Update(ctx, card); err != nil {
		log.Error("failed to save updated flashcard",
			"error", err,
			"flashcard_id", flashcardID)
		return nil, NewFlashcardServiceError(
			"update_flashcard", "failed to save flashcard", err)
	}

	log.Info("flashcard updated",
		"flashcard_id", flashcardID,
		"user_id", userID,
		"source", card.Source)

	return card, nil
}

// DeleteFlashcard removes a flashcard owned by the given user.
func (s *flashcardServiceImpl) DeleteFlashcard(
	ctx context.Context,
	userID uuid.UUID,
	flashcardID uuid.UUID,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if _, err := s.getOwnedFlashcard(ctx, userID, flashcardID, "delete_flashcard"); err != nil {
		return err
	}

	if err := s.flashcardStore.Delete(ctx, flashcardID); err != nil {
		log.Error("failed to delete flashcard",
			"error", err,
			"flashcard_id", flashcardID)
		return NewFlashcardServiceError(
			"delete_flashcard", "failed to delete flashcard", err)
	}

	log.Info("flashcard deleted",
		"flashcard_id", flashcardID,
		"user_id", userID)

	return nil
}

// getOwnedFlashcard fetches a flashcard and verifies the requester owns it.
func (s *flashcardServiceImpl) getOwnedFlashcard(
	ctx context.Context,
	userID uuid.UUID,
	flashcardID uuid.UUID,
	operation string,
) (*domain.Flashcard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	card, err := s.flashcardStore.GetByID(ctx, flashcardID)
	if err != nil {
		if errors.Is(err, store.ErrFlashcardNotFound) {
			return nil, ErrFlashcardNotFound
		}
		log.Error("failed to retrieve flashcard",
			"error", err,
			"flashcard_id", flashcardID)
		return nil, NewFlashcardServiceError(
			operation, "failed to retrieve flashcard", err)
	}

	if card.UserID != userID {
		log.Warn("flashcard ownership check failed",
			"flashcard_id", flashcardID,
			"owner_id", card.UserID,
			"requester_id", userID)
		return nil, ErrNotOwned
	}

	return card, nil
}
