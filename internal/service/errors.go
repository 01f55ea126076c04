// Package service provides application-level services for managing
// flashcards and AI-powered generations.
package service

import "errors"

// Common service errors - sentinel errors used across service implementations.
// Callers check for these with errors.Is(); the API layer maps them to
// HTTP status codes.
var (
	// ErrNotOwned indicates a resource is owned by a different user than
	// the one making the request. API layer maps this to HTTP 403.
	ErrNotOwned = errors.New("resource is owned by another user")

	// ErrGenerationNotFound indicates that the requested generation does
	// not exist. API layer maps this to HTTP 404.
	ErrGenerationNotFound = errors.New("generation not found")

	// ErrFlashcardNotFound indicates that the requested flashcard does
	// not exist. API layer maps this to HTTP 404.
	ErrFlashcardNotFound = errors.New("flashcard not found")
)
