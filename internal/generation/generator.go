package generation

import (
	"context"

	"github.com/tenxcards/tenx-cards-api/internal/domain"
)

// Generator defines the interface for generating flashcard proposals from
// source text. This interface serves as a boundary between the application
// core and external AI/LLM services, so the generation workflow never
// couples to a specific provider.
type Generator interface {
	// GenerateProposals creates flashcard proposals based on the provided
	// source text. Proposals are ephemeral candidates tagged with the
	// "ai-full" source; the caller annotates them with the owning
	// generation's ID.
	//
	// Returns an error if the generation fails for any reason (see
	// errors.go for the sentinel types).
	GenerateProposals(ctx context.Context, sourceText string) ([]domain.FlashcardProposal, error)
}
