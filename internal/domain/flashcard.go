package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// FlashcardSource identifies how a flashcard came to exist.
type FlashcardSource string

// Allowed flashcard source values
const (
	// FlashcardSourceManual marks a card the user wrote by hand.
	FlashcardSourceManual FlashcardSource = "manual"

	// FlashcardSourceAIFull marks a card accepted from an AI proposal
	// without edits.
	FlashcardSourceAIFull FlashcardSource = "ai-full"

	// FlashcardSourceAIEdited marks a card accepted from an AI proposal
	// after the user edited it.
	FlashcardSourceAIEdited FlashcardSource = "ai-edited"
)

// Content length limits for flashcards.
const (
	MaxFlashcardFrontLength = 200
	MaxFlashcardBackLength  = 500
)

// Common validation errors for Flashcard
var (
	ErrEmptyFlashcardID       = errors.New("flashcard ID cannot be empty")
	ErrEmptyFlashcardUserID   = errors.New("flashcard user ID cannot be empty")
	ErrEmptyFlashcardFront    = errors.New("flashcard front cannot be empty")
	ErrEmptyFlashcardBack     = errors.New("flashcard back cannot be empty")
	ErrFlashcardFrontTooLong  = errors.New("flashcard front exceeds 200 characters")
	ErrFlashcardBackTooLong   = errors.New("flashcard back exceeds 500 characters")
	ErrInvalidFlashcardSource = errors.New("invalid flashcard source")
)

// Flashcard represents a persisted front/back pair owned by a user.
// AI-sourced cards keep a back-reference to the generation that proposed
// them; manual cards have no generation.
type Flashcard struct {
	ID           uuid.UUID       `json:"id"`
	UserID       uuid.UUID       `json:"user_id"`
	GenerationID *uuid.UUID      `json:"generation_id,omitempty"`
	Front        string          `json:"front"`
	Back         string          `json:"back"`
	Source       FlashcardSource `json:"source"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// NewFlashcard creates a new Flashcard with the given owner, content,
// source, and optional generation back-reference.
// Returns an error if validation fails.
func NewFlashcard(
	userID uuid.UUID,
	front, back string,
	source FlashcardSource,
	generationID *uuid.UUID,
) (*Flashcard, error) {
	now := time.Now().UTC()
	card := &Flashcard{
		ID:           uuid.New(),
		UserID:       userID,
		GenerationID: generationID,
		Front:        front,
		Back:         back,
		Source:       source,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := card.Validate(); err != nil {
		return nil, err
	}

	return card, nil
}

// Validate checks if the Flashcard has valid data.
// Returns an error if any field fails validation.
func (f *Flashcard) Validate() error {
	if f.ID == uuid.Nil {
		return ErrEmptyFlashcardID
	}

	if f.UserID == uuid.Nil {
		return ErrEmptyFlashcardUserID
	}

	if f.Front == "" {
		return ErrEmptyFlashcardFront
	}

	if len(f.Front) > MaxFlashcardFrontLength {
		return ErrFlashcardFrontTooLong
	}

	if f.Back == "" {
		return ErrEmptyFlashcardBack
	}

	if len(f.Back) > MaxFlashcardBackLength {
		return ErrFlashcardBackTooLong
	}

	if !IsValidFlashcardSource(f.Source) {
		return ErrInvalidFlashcardSource
	}

	return nil
}

// UpdateContent replaces the card's front, back, and source, refreshing
// the update timestamp. Returns an error if the new data is invalid.
func (f *Flashcard) UpdateContent(front, back string, source FlashcardSource) error {
	prevFront, prevBack, prevSource := f.Front, f.Back, f.Source

	f.Front = front
	f.Back = back
	f.Source = source

	if err := f.Validate(); err != nil {
		f.Front, f.Back, f.Source = prevFront, prevBack, prevSource
		return err
	}

	f.UpdatedAt = time.Now().UTC()
	return nil
}

// IsValidFlashcardSource checks if the given source is an allowed
// FlashcardSource value.
func IsValidFlashcardSource(source FlashcardSource) bool {
	switch source {
	case FlashcardSourceManual, FlashcardSourceAIFull, FlashcardSourceAIEdited:
		return true
	default:
		return false
	}
}

// FlashcardProposal is an ephemeral, unpersisted candidate flashcard
// produced by one generation call. Proposals only become Flashcards after
// the user reviews and accepts them.
type FlashcardProposal struct {
	Front        string          `json:"front"`
	Back         string          `json:"back"`
	Source       FlashcardSource `json:"source"`
	GenerationID *uuid.UUID      `json:"generation_id,omitempty"`
}
