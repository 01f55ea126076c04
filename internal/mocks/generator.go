package mocks

import (
	"context"
	"sync"

	"github.com/tenxcards/tenx-cards-api/internal/domain"
	"github.com/tenxcards/tenx-cards-api/internal/generation"
)

// MockGenerator implements generation.Generator for testing
type MockGenerator struct {
	// GenerateProposalsFn allows test cases to mock the GenerateProposals behavior
	GenerateProposalsFn func(ctx context.Context, sourceText string) ([]domain.FlashcardProposal, error)

	// Default response values
	Proposals []domain.FlashcardProposal
	Err       error

	// Call tracking for verification
	GenerateProposalsCalls struct {
		// mu protects the call tracking state for concurrent test cases
		mu sync.Mutex

		// Count tracks how many times GenerateProposals was called
		Count int

		// SourceTexts contains all source texts passed to GenerateProposals calls
		SourceTexts []string
	}
}

// Ensure MockGenerator implements generation.Generator
var _ generation.Generator = (*MockGenerator)(nil)

// GenerateProposals implements the generation.Generator interface
func (m *MockGenerator) GenerateProposals(
	ctx context.Context,
	sourceText string,
) ([]domain.FlashcardProposal, error) {
	m.GenerateProposalsCalls.mu.Lock()
	m.GenerateProposalsCalls.Count++
	m.GenerateProposalsCalls.SourceTexts = append(m.GenerateProposalsCalls.SourceTexts, sourceText)
	m.GenerateProposalsCalls.mu.Unlock()

	if m.GenerateProposalsFn != nil {
		return m.GenerateProposalsFn(ctx, sourceText)
	}

	return m.Proposals, m.Err
}

// NewMockGeneratorWithProposals creates a MockGenerator that returns the
// specified proposals
func NewMockGeneratorWithProposals(proposals []domain.FlashcardProposal) *MockGenerator {
	return &MockGenerator{
		Proposals: proposals,
	}
}

// NewMockGeneratorWithError creates a MockGenerator that returns the
// specified error
func NewMockGeneratorWithError(err error) *MockGenerator {
	return &MockGenerator{
		Err: err,
	}
}

// NewMockGeneratorWithDefaultProposals creates a MockGenerator with sample
// AI-sourced proposals
func NewMockGeneratorWithDefaultProposals(count int) *MockGenerator {
	proposals := make([]domain.FlashcardProposal, 0, count)
	for i := 0; i < count; i++ {
		proposals = append(proposals, domain.FlashcardProposal{
			Front:  "What is a goroutine?",
			Back:   "A lightweight thread managed by the Go runtime.",
			Source: domain.FlashcardSourceAIFull,
		})
	}
	return NewMockGeneratorWithProposals(proposals)
}
