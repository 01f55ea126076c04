package generation

import "errors"

// Common errors returned by the generation package
var (
	// ErrGenerationFailed is returned when proposal generation fails for any general reason
	ErrGenerationFailed = errors.New("failed to generate flashcards from text")

	// ErrInvalidResponse is returned when the LLM response cannot be parsed or is malformed
	ErrInvalidResponse = errors.New("invalid response from language model")

	// ErrInvalidConfig is returned when the generator configuration is invalid
	ErrInvalidConfig = errors.New("invalid generator configuration")
)
