package mocks

import (
	"context"
	"database/sql"
	"sync"

	"github.com/google/uuid"
	"github.com/tenxcards/tenx-cards-api/internal/domain"
	"github.com/tenxcards/tenx-cards-api/internal/store"
)

// MockFlashcardStore implements store.FlashcardStore for testing
type MockFlashcardStore struct {
	// Function fields for overriding behavior per test
	CreateMultipleFn   func(ctx context.Context, cards []*domain.Flashcard) error
	GetByIDFn          func(ctx context.Context, id uuid.UUID) (*domain.Flashcard, error)
	ListByUserFn       func(ctx context.Context, userID uuid.UUID, opts store.FlashcardListOptions) ([]*domain.Flashcard, int, error)
	ListByGenerationFn func(ctx context.Context, generationID uuid.UUID) ([]*domain.Flashcard, error)
	UpdateFn           func(ctx context.Context, card *domain.Flashcard) error
	DeleteFn           func(ctx context.Context, id uuid.UUID) error

	// Default response values
	Flashcard  *domain.Flashcard
	Flashcards []*domain.Flashcard
	Total      int
	Err        error

	// Call tracking for verification
	mu                  sync.Mutex
	CreateMultipleCalls [][]*domain.Flashcard
	UpdateCalls         []*domain.Flashcard
	DeleteCalls         []uuid.UUID
}

// Ensure MockFlashcardStore implements store.FlashcardStore
var _ store.FlashcardStore = (*MockFlashcardStore)(nil)

// CreateMultiple implements store.FlashcardStore.CreateMultiple
func (m *MockFlashcardStore) CreateMultiple(ctx context.Context, cards []*domain.Flashcard) error {
	m.mu.Lock()
	m.CreateMultipleCalls = append(m.CreateMultipleCalls, cards)
	m.mu.Unlock()

	if m.CreateMultipleFn != nil {
		return m.CreateMultipleFn(ctx, cards)
	}
	return m.Err
}

// GetByID implements store.FlashcardStore.GetByID
func (m *MockFlashcardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Flashcard, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Flashcard == nil {
		return nil, store.ErrFlashcardNotFound
	}
	return m.Flashcard, nil
}

// ListByUser implements store.FlashcardStore.ListByUser
func (m *MockFlashcardStore) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
	opts store.FlashcardListOptions,
) ([]*domain.Flashcard, int, error) {
	if m.ListByUserFn != nil {
		return m.ListByUserFn(ctx, userID, opts)
	}
	if m.Err != nil {
		return nil, 0, m.Err
	}
	return m.Flashcards, m.Total, nil
}

// ListByGeneration implements store.FlashcardStore.ListByGeneration
func (m *MockFlashcardStore) ListByGeneration(
	ctx context.Context,
	generationID uuid.UUID,
) ([]*domain.Flashcard, error) {
	if m.ListByGenerationFn != nil {
		return m.ListByGenerationFn(ctx, generationID)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Flashcards, nil
}

// Update implements store.FlashcardStore.Update
func (m *MockFlashcardStore) Update(ctx context.Context, card *domain.Flashcard) error {
	m.mu.Lock()
	m.UpdateCalls = append(m.UpdateCalls, card)
	m.mu.Unlock()

	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, card)
	}
	return m.Err
}

// Delete implements store.FlashcardStore.Delete
func (m *MockFlashcardStore) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	m.DeleteCalls = append(m.DeleteCalls, id)
	m.mu.Unlock()

	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return m.Err
}

// WithTx implements store.FlashcardStore.WithTx
func (m *MockFlashcardStore) WithTx(tx *sql.Tx) store.FlashcardStore {
	return m
}
