package openrouter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/tenxcards/tenx-cards-api/internal/domain"
	"github.com/tenxcards/tenx-cards-api/internal/generation"
)

// flashcardSystemMessage instructs the model to act as a flashcard author
// and answer with JSON only. The response format schema below enforces
// the shape; the prose keeps weaker models honest.
const flashcardSystemMessage = `You are a flashcard creation assistant. ` +
	`Given a block of source text, produce concise question/answer flashcards ` +
	`covering its key facts and concepts. Front texts are questions of at most ` +
	`200 characters; back texts are answers of at most 500 characters. ` +
	`Respond with a JSON object of the form {"flashcards": [{"front": "...", "back": "..."}]} ` +
	`and nothing else.`

// flashcardResponseSchema is the strict structured-output contract sent as
// response_format.json_schema.schema.
var flashcardResponseSchema = json.RawMessage(`{
	"type": "object",
	"properties": {
		"flashcards": {
			"type": "array",
			"items": {
				"type": "object",
				"properties": {
					"front": {"type": "string"},
					"back": {"type": "string"}
				},
				"required": ["front", "back"],
				"additionalProperties": false
			}
		}
	},
	"required": ["flashcards"],
	"additionalProperties": false
}`)

// Generator implements the generation.Generator interface using the
// OpenRouter chat-completion client.
type Generator struct {
	client *Client
	logger *slog.Logger
}

// Ensure Generator implements generation.Generator
var _ generation.Generator = (*Generator)(nil)

// NewGenerator wires a Client for flashcard generation: it installs the
// flashcard system message and the strict response schema, both of which
// apply to every subsequent call.
func NewGenerator(client *Client, logger *slog.Logger) (*Generator, error) {
	if client == nil {
		return nil, fmt.Errorf("%w: client cannot be nil", generation.ErrInvalidConfig)
	}
	if logger == nil {
		logger = slog.Default()
	}

	client.SetSystemMessage(flashcardSystemMessage)
	client.SetResponseFormat("flashcards", flashcardResponseSchema)

	return &Generator{
		client: client,
		logger: logger.With(slog.String("component", "flashcard_generator")),
	}, nil
}

// flashcardPayload mirrors the JSON shape the model is asked to return.
type flashcardPayload struct {
	Flashcards []struct {
		Front string `json:"front"`
		Back  string `json:"back"`
	} `json:"flashcards"`
}

// GenerateProposals sends the source text to the model and parses the
// completion into flashcard proposals tagged with the "ai-full" source.
// Client errors pass through unchanged so the caller can inspect their
// codes; parse failures are wrapped in generation.ErrInvalidResponse.
func (g *Generator) GenerateProposals(
	ctx context.Context,
	sourceText string,
) ([]domain.FlashcardProposal, error) {
	content, err := g.client.SendChatMessage(ctx, sourceText)
	if err != nil {
		return nil, err
	}

	var payload flashcardPayload
	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		g.logger.ErrorContext(ctx, "failed to parse completion content",
			slog.String("error", err.Error()),
			slog.Int("content_length", len(content)))
		return nil, fmt.Errorf("%w: failed to parse JSON response: %v",
			generation.ErrInvalidResponse, err)
	}

	if len(payload.Flashcards) == 0 {
		return nil, fmt.Errorf("%w: no flashcards in response", generation.ErrInvalidResponse)
	}

	proposals := make([]domain.FlashcardProposal, 0, len(payload.Flashcards))
	for i, card := range payload.Flashcards {
		if card.Front == "" {
			return nil, fmt.Errorf("%w: flashcard %d missing front side",
				generation.ErrInvalidResponse, i)
		}
		if card.Back == "" {
			return nil, fmt.Errorf("%w: flashcard %d missing back side",
				generation.ErrInvalidResponse, i)
		}

		proposals = append(proposals, domain.FlashcardProposal{
			Front:  card.Front,
			Back:   card.Back,
			Source: domain.FlashcardSourceAIFull,
		})
	}

	g.logger.InfoContext(ctx, "parsed flashcard proposals",
		slog.Int("proposal_count", len(proposals)))

	return proposals, nil
}
