// Package generation provides the interface for interacting with external
// AI/LLM services to derive flashcard proposals from user-submitted text.
// It abstracts the details of the LLM API integration (OpenRouter),
// allowing the application to generate flashcards without coupling to a
// specific external service.
package generation
