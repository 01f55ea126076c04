package domain

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestNewFlashcard(t *testing.T) {
	t.Parallel()
	userID := uuid.New()
	generationID := uuid.New()

	card, err := NewFlashcard(userID, "What is Go?", "A programming language.",
		FlashcardSourceAIFull, &generationID)

	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if card.ID == uuid.Nil {
		t.Error("Expected non-nil UUID, got nil UUID")
	}

	if card.UserID != userID {
		t.Errorf("Expected user ID %s, got %s", userID, card.UserID)
	}

	if card.GenerationID == nil || *card.GenerationID != generationID {
		t.Errorf("Expected generation ID %s, got %v", generationID, card.GenerationID)
	}

	if card.Source != FlashcardSourceAIFull {
		t.Errorf("Expected source %s, got %s", FlashcardSourceAIFull, card.Source)
	}

	// Manual cards carry no generation reference
	manual, err := NewFlashcard(userID, "front", "back", FlashcardSourceManual, nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if manual.GenerationID != nil {
		t.Error("Expected nil generation ID for manual card")
	}

	// Invalid inputs
	_, err = NewFlashcard(uuid.Nil, "front", "back", FlashcardSourceManual, nil)
	if !errors.Is(err, ErrEmptyFlashcardUserID) {
		t.Errorf("Expected error %v, got %v", ErrEmptyFlashcardUserID, err)
	}

	_, err = NewFlashcard(userID, "", "back", FlashcardSourceManual, nil)
	if !errors.Is(err, ErrEmptyFlashcardFront) {
		t.Errorf("Expected error %v, got %v", ErrEmptyFlashcardFront, err)
	}

	_, err = NewFlashcard(userID, "front", "", FlashcardSourceManual, nil)
	if !errors.Is(err, ErrEmptyFlashcardBack) {
		t.Errorf("Expected error %v, got %v", ErrEmptyFlashcardBack, err)
	}

	_, err = NewFlashcard(userID, strings.Repeat("f", MaxFlashcardFrontLength+1), "back",
		FlashcardSourceManual, nil)
	if !errors.Is(err, ErrFlashcardFrontTooLong) {
		t.Errorf("Expected error %v, got %v", ErrFlashcardFrontTooLong, err)
	}

	_, err = NewFlashcard(userID, "front", strings.Repeat("b", MaxFlashcardBackLength+1),
		FlashcardSourceManual, nil)
	if !errors.Is(err, ErrFlashcardBackTooLong) {
		t.Errorf("Expected error %v, got %v", ErrFlashcardBackTooLong, err)
	}

	_, err = NewFlashcard(userID, "front", "back", "ai-something", nil)
	if !errors.Is(err, ErrInvalidFlashcardSource) {
		t.Errorf("Expected error %v, got %v", ErrInvalidFlashcardSource, err)
	}
}

func TestFlashcardUpdateContent(t *testing.T) {
	t.Parallel()
	card, err := NewFlashcard(uuid.New(), "old front", "old back", FlashcardSourceAIFull, nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	originalUpdatedAt := card.UpdatedAt

	if err := card.UpdateContent("new front", "new back", FlashcardSourceAIEdited); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if card.Front != "new front" || card.Back != "new back" {
		t.Errorf("Expected updated content, got front=%q back=%q", card.Front, card.Back)
	}

	if card.Source != FlashcardSourceAIEdited {
		t.Errorf("Expected source %s, got %s", FlashcardSourceAIEdited, card.Source)
	}

	if card.UpdatedAt.Before(originalUpdatedAt) {
		t.Error("Expected UpdatedAt to advance")
	}

	// A rejected update restores the previous content
	err = card.UpdateContent("", "newer back", FlashcardSourceAIEdited)
	if !errors.Is(err, ErrEmptyFlashcardFront) {
		t.Errorf("Expected error %v, got %v", ErrEmptyFlashcardFront, err)
	}

	if card.Front != "new front" || card.Back != "new back" {
		t.Errorf("Expected content restored after failed update, got front=%q back=%q",
			card.Front, card.Back)
	}
}

func TestIsValidFlashcardSource(t *testing.T) {
	t.Parallel()
	valid := []FlashcardSource{FlashcardSourceManual, FlashcardSourceAIFull, FlashcardSourceAIEdited}
	for _, source := range valid {
		if !IsValidFlashcardSource(source) {
			t.Errorf("Expected %s to be valid", source)
		}
	}

	if IsValidFlashcardSource("ai") {
		t.Error("Expected 'ai' to be invalid")
	}

	if IsValidFlashcardSource("") {
		t.Error("Expected empty source to be invalid")
	}
}
