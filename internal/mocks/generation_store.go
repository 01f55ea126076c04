package mocks

import (
	"context"
	"database/sql"
	"sync"

	"github.com/google/uuid"
	"github.com/tenxcards/tenx-cards-api/internal/domain"
	"github.com/tenxcards/tenx-cards-api/internal/store"
)

// MockGenerationStore implements store.GenerationStore for testing
type MockGenerationStore struct {
	// Function fields for overriding behavior per test
	CreateFn     func(ctx context.Context, generation *domain.Generation) error
	GetByIDFn    func(ctx context.Context, id uuid.UUID) (*domain.Generation, error)
	UpdateFn     func(ctx context.Context, generation *domain.Generation) error
	ListByUserFn func(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Generation, int, error)

	// Default response values
	Generation  *domain.Generation
	Generations []*domain.Generation
	Total       int
	Err         error

	// Call tracking for verification
	mu          sync.Mutex
	CreateCalls []*domain.Generation
	UpdateCalls []*domain.Generation
}

// Ensure MockGenerationStore implements store.GenerationStore
var _ store.GenerationStore = (*MockGenerationStore)(nil)

// Create implements store.GenerationStore.Create
func (m *MockGenerationStore) Create(ctx context.Context, generation *domain.Generation) error {
	m.mu.Lock()
	m.CreateCalls = append(m.CreateCalls, generation)
	m.mu.Unlock()

	if m.CreateFn != nil {
		return m.CreateFn(ctx, generation)
	}
	return m.Err
}

// GetByID implements store.GenerationStore.GetByID
func (m *MockGenerationStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Generation, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Generation == nil {
		return nil, store.ErrGenerationNotFound
	}
	return m.Generation, nil
}

// Update implements store.GenerationStore.Update
func (m *MockGenerationStore) Update(ctx context.Context, generation *domain.Generation) error {
	m.mu.Lock()
	m.UpdateCalls = append(m.UpdateCalls, generation)
	m.mu.Unlock()

	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, generation)
	}
	return m.Err
}

// ListByUser implements store.GenerationStore.ListByUser
func (m *MockGenerationStore) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
	limit, offset int,
) ([]*domain.Generation, int, error) {
	if m.ListByUserFn != nil {
		return m.ListByUserFn(ctx, userID, limit, offset)
	}
	if m.Err != nil {
		return nil, 0, m.Err
	}
	return m.Generations, m.Total, nil
}

// WithTx implements store.GenerationStore.WithTx
func (m *MockGenerationStore) WithTx(tx *sql.Tx) store.GenerationStore {
	return m
}

// MockGenerationErrorLogStore implements store.GenerationErrorLogStore for testing
type MockGenerationErrorLogStore struct {
	// Function fields for overriding behavior per test
	CreateFn           func(ctx context.Context, entry *domain.GenerationErrorLog) error
	ListByGenerationFn func(ctx context.Context, generationID uuid.UUID) ([]*domain.GenerationErrorLog, error)

	// Default response values
	Entries []*domain.GenerationErrorLog
	Err     error

	// Call tracking for verification
	mu          sync.Mutex
	CreateCalls []*domain.GenerationErrorLog
}

// Ensure MockGenerationErrorLogStore implements store.GenerationErrorLogStore
var _ store.GenerationErrorLogStore = (*MockGenerationErrorLogStore)(nil)

// Create implements store.GenerationErrorLogStore.Create
func (m *MockGenerationErrorLogStore) Create(ctx context.Context, entry *domain.GenerationErrorLog) error {
	m.mu.Lock()
	m.CreateCalls = append(m.CreateCalls, entry)
	m.mu.Unlock()

	if m.CreateFn != nil {
		return m.CreateFn(ctx, entry)
	}
	return m.Err
}

// ListByGeneration implements store.GenerationErrorLogStore.ListByGeneration
func (m *MockGenerationErrorLogStore) ListByGeneration(
	ctx context.Context,
	generationID uuid.UUID,
) ([]*domain.GenerationErrorLog, error) {
	if m.ListByGenerationFn != nil {
		return m.ListByGenerationFn(ctx, generationID)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Entries, nil
}

// WithTx implements store.GenerationErrorLogStore.WithTx
func (m *MockGenerationErrorLogStore) WithTx(tx *sql.Tx) store.GenerationErrorLogStore {
	return m
}
