package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/tenxcards/tenx-cards-api/internal/domain"
)

// GenerationStore defines the interface for generation provenance
// persistence. A generation row is created before the AI call and updated
// exactly once afterwards; it is never deleted by the application.
type GenerationStore interface {
	// Create saves a new pending generation to the store.
	// It handles domain validation internally.
	// Returns validation errors from the domain Generation if data is invalid.
	Create(ctx context.Context, generation *domain.Generation) error

	// GetByID retrieves a generation by its unique ID.
	// Returns ErrGenerationNotFound if the generation does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Generation, error)

	// Update saves the terminal outcome of an existing generation
	// (status, generated count, duration).
	// Returns ErrGenerationNotFound if the generation does not exist.
	Update(ctx context.Context, generation *domain.Generation) error

	// ListByUser retrieves a page of the user's generations ordered by
	// creation time descending, along with the total count for pagination.
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Generation, int, error)

	// WithTx returns a new GenerationStore instance that uses the provided
	// transaction. The transaction should be created and managed by the
	// caller (typically a service).
	WithTx(tx *sql.Tx) GenerationStore
}

// GenerationErrorLogStore defines the interface for the append-only
// generation error log. Entries are created on the failure path and never
// updated.
type GenerationErrorLogStore interface {
	// Create appends a new error log entry.
	// Returns validation errors from the domain entry if data is invalid.
	Create(ctx context.Context, entry *domain.GenerationErrorLog) error

	// ListByGeneration retrieves all error log entries for a generation,
	// oldest first.
	ListByGeneration(ctx context.Context, generationID uuid.UUID) ([]*domain.GenerationErrorLog, error)

	// WithTx returns a new GenerationErrorLogStore instance that uses the
	// provided transaction.
	WithTx(tx *sql.Tx) GenerationErrorLogStore
}
