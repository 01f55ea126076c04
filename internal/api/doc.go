// Package api contains the HTTP handlers, request validation, and
// response formatting for the generation and flashcard endpoints. It
// adapts HTTP concerns onto the service layer and maps service errors to
// sanitized client responses.
package api
