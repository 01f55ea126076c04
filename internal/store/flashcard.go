package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/tenxcards/tenx-cards-api/internal/domain"
)

// FlashcardSortField is a whitelisted column for flashcard list ordering.
type FlashcardSortField string

// Allowed sort fields for ListByUser.
const (
	FlashcardSortCreatedAt FlashcardSortField = "created_at"
	FlashcardSortFront     FlashcardSortField = "front"
	FlashcardSortBack      FlashcardSortField = "back"
)

// FlashcardListOptions controls pagination and ordering of flashcard lists.
type FlashcardListOptions struct {
	Limit     int
	Offset    int
	SortBy    FlashcardSortField
	Ascending bool
}

// FlashcardStore defines the interface for flashcard data persistence.
type FlashcardStore interface {
	// CreateMultiple saves multiple flashcards to the store.
	// This method MUST be run within a transaction for atomicity: use
	// WithTx together with store.RunInTransaction so a batch is inserted
	// all-or-nothing.
	//
	// All cards must be valid according to domain validation rules.
	// Returns validation errors if any card data is invalid.
	CreateMultiple(ctx context.Context, cards []*domain.Flashcard) error

	// GetByID retrieves a flashcard by its unique ID.
	// Returns ErrFlashcardNotFound if the flashcard does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Flashcard, error)

	// ListByUser retrieves a page of the user's flashcards plus the total
	// count for pagination. Ordering is controlled by opts; the sort field
	// is restricted to the FlashcardSortField whitelist.
	ListByUser(ctx context.Context, userID uuid.UUID, opts FlashcardListOptions) ([]*domain.Flashcard, int, error)

	// ListByGeneration retrieves the accepted flashcards that reference
	// the given generation, oldest first.
	ListByGeneration(ctx context.Context, generationID uuid.UUID) ([]*domain.Flashcard, error)

	// Update saves changes to an existing flashcard's content fields.
	// Returns ErrFlashcardNotFound if the flashcard does not exist.
	Update(ctx context.Context, card *domain.Flashcard) error

	// Delete removes a flashcard from the store by its ID.
	// Returns ErrFlashcardNotFound if the flashcard does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new FlashcardStore instance that uses the provided
	// transaction. The transaction should be created and managed by the
	// caller (typically a service).
	WithTx(tx *sql.Tx) FlashcardStore
}
