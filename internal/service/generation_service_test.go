package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tenxcards/tenx-cards-api/internal/domain"
	"github.com/tenxcards/tenx-cards-api/internal/generation"
	"github.com/tenxcards/tenx-cards-api/internal/mocks"
	"github.com/tenxcards/tenx-cards-api/internal/store"
)

func newGenerationService(
	t *testing.T,
	genStore *mocks.MockGenerationStore,
	logStore *mocks.MockGenerationErrorLogStore,
	generator generation.Generator,
) GenerationService {
	t.Helper()
	svc, err := NewGenerationService(genStore, logStore, &mocks.MockFlashcardStore{},
		generator, "openai/gpt-4o-mini", slog.Default())
	require.NoError(t, err)
	return svc
}

func sourceText() string {
	return strings.Repeat("All happy families are alike. ", 60)
}

func TestNewGenerationServiceValidatesDependencies(t *testing.T) {
	t.Parallel()

	genStore := &mocks.MockGenerationStore{}
	logStore := &mocks.MockGenerationErrorLogStore{}
	cardStore := &mocks.MockFlashcardStore{}
	generator := mocks.NewMockGeneratorWithDefaultProposals(1)

	_, err := NewGenerationService(nil, logStore, cardStore, generator, "m", nil)
	assert.Error(t, err)

	_, err = NewGenerationService(genStore, nil, cardStore, generator, "m", nil)
	assert.Error(t, err)

	_, err = NewGenerationService(genStore, logStore, nil, generator, "m", nil)
	assert.Error(t, err)

	_, err = NewGenerationService(genStore, logStore, cardStore, nil, "m", nil)
	assert.Error(t, err)

	_, err = NewGenerationService(genStore, logStore, cardStore, generator, "", nil)
	assert.Error(t, err)

	_, err = NewGenerationService(genStore, logStore, cardStore, generator, "m", nil)
	assert.NoError(t, err)
}

func TestCreateGenerationSuccess(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	genStore := &mocks.MockGenerationStore{}
	logStore := &mocks.MockGenerationErrorLogStore{}
	generator := mocks.NewMockGeneratorWithDefaultProposals(3)

	svc := newGenerationService(t, genStore, logStore, generator)

	result, err := svc.CreateGeneration(context.Background(), userID, sourceText())
	require.NoError(t, err)
	require.NotNil(t, result)

	// The record was inserted before the AI call, then resolved
	require.Len(t, genStore.CreateCalls, 1)
	require.Len(t, genStore.UpdateCalls, 1)
	assert.Equal(t, 1, generator.GenerateProposalsCalls.Count)

	gen := result.Generation
	assert.Equal(t, userID, gen.UserID)
	assert.Equal(t, domain.GenerationStatusCompleted, gen.Status)
	assert.Equal(t, 3, gen.GeneratedCount)
	assert.Equal(t, "openai/gpt-4o-mini", gen.Model)
	assert.Equal(t, domain.HashSourceText(sourceText()), gen.SourceTextHash)

	// Every proposal carries the persisted generation's ID
	require.Len(t, result.Proposals, 3)
	for _, p := range result.Proposals {
		require.NotNil(t, p.GenerationID)
		assert.Equal(t, gen.ID, *p.GenerationID)
		assert.Equal(t, domain.FlashcardSourceAIFull, p.Source)
	}

	// No error log on the success path
	assert.Empty(t, logStore.CreateCalls)
}

func TestCreateGenerationInsertFailureAbortsAICall(t *testing.T) {
	t.Parallel()

	insertErr := errors.New("connection refused")
	genStore := &mocks.MockGenerationStore{
		CreateFn: func(ctx context.Context, gen *domain.Generation) error {
			return insertErr
		},
	}
	logStore := &mocks.MockGenerationErrorLogStore{}
	generator := mocks.NewMockGeneratorWithDefaultProposals(1)

	svc := newGenerationService(t, genStore, logStore, generator)

	_, err := svc.CreateGeneration(context.Background(), uuid.New(), sourceText())
	require.Error(t, err)
	assert.ErrorIs(t, err, insertErr)

	// The AI is never called when provenance cannot be recorded
	assert.Equal(t, 0, generator.GenerateProposalsCalls.Count)
	assert.Empty(t, genStore.UpdateCalls)
	assert.Empty(t, logStore.CreateCalls)
}

func TestCreateGenerationFailureRecordsErrorLog(t *testing.T) {
	t.Parallel()

	genErr := errors.New("model returned garbage")
	genStore := &mocks.MockGenerationStore{}
	logStore := &mocks.MockGenerationErrorLogStore{}
	generator := mocks.NewMockGeneratorWithError(genErr)

	svc := newGenerationService(t, genStore, logStore, generator)

	_, err := svc.CreateGeneration(context.Background(), uuid.New(), sourceText())
	require.Error(t, err)
	assert.ErrorIs(t, err, genErr)

	// The pending record was resolved to failed
	require.Len(t, genStore.UpdateCalls, 1)
	failed := genStore.UpdateCalls[0]
	assert.Equal(t, domain.GenerationStatusFailed, failed.Status)
	assert.Equal(t, 0, failed.GeneratedCount)

	// An error log entry ties the failure to the generation
	require.Len(t, logStore.CreateCalls, 1)
	entry := logStore.CreateCalls[0]
	assert.Equal(t, failed.ID, entry.GenerationID)
	assert.Equal(t, domain.ErrorCodeAIGenerationFailed, entry.ErrorCode)
	assert.Contains(t, entry.ErrorMessage, "model returned garbage")
}

func TestCreateGenerationErrorLogFailureDoesNotMaskGenerationError(t *testing.T) {
	t.Parallel()

	genErr := errors.New("upstream timeout")
	genStore := &mocks.MockGenerationStore{}
	logStore := &mocks.MockGenerationErrorLogStore{
		CreateFn: func(ctx context.Context, entry *domain.GenerationErrorLog) error {
			return errors.New("error log table unavailable")
		},
	}
	generator := mocks.NewMockGeneratorWithError(genErr)

	svc := newGenerationService(t, genStore, logStore, generator)

	_, err := svc.CreateGeneration(context.Background(), uuid.New(), sourceText())
	require.Error(t, err)
	assert.ErrorIs(t, err, genErr)
	assert.NotContains(t, err.Error(), "error log table unavailable")
}

func TestCreateGenerationUpdateFailurePropagates(t *testing.T) {
	t.Parallel()

	updateErr := errors.New("row vanished")
	genStore := &mocks.MockGenerationStore{
		UpdateFn: func(ctx context.Context, gen *domain.Generation) error {
			return updateErr
		},
	}
	logStore := &mocks.MockGenerationErrorLogStore{}
	generator := mocks.NewMockGeneratorWithDefaultProposals(2)

	svc := newGenerationService(t, genStore, logStore, generator)

	_, err := svc.CreateGeneration(context.Background(), uuid.New(), sourceText())
	require.Error(t, err)
	assert.ErrorIs(t, err, updateErr)
}

func TestGetGeneration(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	gen, err := domain.NewGeneration(userID, sourceText(), "openai/gpt-4o-mini")
	require.NoError(t, err)

	entry, err := domain.NewGenerationErrorLog(gen.ID, domain.ErrorCodeAIGenerationFailed, "boom")
	require.NoError(t, err)

	accepted, err := domain.NewFlashcard(userID, "front", "back", domain.FlashcardSourceAIFull, &gen.ID)
	require.NoError(t, err)

	genStore := &mocks.MockGenerationStore{Generation: gen}
	logStore := &mocks.MockGenerationErrorLogStore{
		Entries: []*domain.GenerationErrorLog{entry},
	}
	cardStore := &mocks.MockFlashcardStore{
		Flashcards: []*domain.Flashcard{accepted},
	}

	svc, err := NewGenerationService(genStore, logStore, cardStore,
		mocks.NewMockGeneratorWithDefaultProposals(1), "openai/gpt-4o-mini", slog.Default())
	require.NoError(t, err)

	details, err := svc.GetGeneration(context.Background(), userID, gen.ID)
	require.NoError(t, err)
	assert.Equal(t, gen, details.Generation)
	require.Len(t, details.Flashcards, 1)
	assert.Equal(t, accepted.ID, details.Flashcards[0].ID)
	require.Len(t, details.ErrorLogs, 1)
	assert.Equal(t, "boom", details.ErrorLogs[0].ErrorMessage)
}

func TestGetGenerationOwnershipEnforced(t *testing.T) {
	t.Parallel()

	owner := uuid.New()
	gen, err := domain.NewGeneration(owner, sourceText(), "openai/gpt-4o-mini")
	require.NoError(t, err)

	genStore := &mocks.MockGenerationStore{Generation: gen}
	svc := newGenerationService(t, genStore, &mocks.MockGenerationErrorLogStore{},
		mocks.NewMockGeneratorWithDefaultProposals(1))

	_, err = svc.GetGeneration(context.Background(), uuid.New(), gen.ID)
	assert.ErrorIs(t, err, ErrNotOwned)
}

func TestGetGenerationNotFound(t *testing.T) {
	t.Parallel()

	genStore := &mocks.MockGenerationStore{Err: store.ErrGenerationNotFound}
	svc := newGenerationService(t, genStore, &mocks.MockGenerationErrorLogStore{},
		mocks.NewMockGeneratorWithDefaultProposals(1))

	_, err := svc.GetGeneration(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, ErrGenerationNotFound)
}

func TestListGenerations(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	gen, err := domain.NewGeneration(userID, sourceText(), "openai/gpt-4o-mini")
	require.NoError(t, err)

	genStore := &mocks.MockGenerationStore{
		Generations: []*domain.Generation{gen},
		Total:       12,
	}
	svc := newGenerationService(t, genStore, &mocks.MockGenerationErrorLogStore{},
		mocks.NewMockGeneratorWithDefaultProposals(1))

	generations, total, err := svc.ListGenerations(context.Background(), userID, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 12, total)
	require.Len(t, generations, 1)
	assert.Equal(t, gen.ID, generations[0].ID)
}
