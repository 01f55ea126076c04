package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrorCodeAIGenerationFailed is the fixed error code recorded when the
// AI call behind a generation fails for any reason.
const ErrorCodeAIGenerationFailed = "AI_GENERATION_FAILED"

// Common validation errors for GenerationErrorLog
var (
	ErrEmptyErrorLogID           = errors.New("error log ID cannot be empty")
	ErrEmptyErrorLogGenerationID = errors.New("error log generation ID cannot be empty")
	ErrEmptyErrorLogCode         = errors.New("error log code cannot be empty")
	ErrEmptyErrorLogMessage      = errors.New("error log message cannot be empty")
)

// GenerationErrorLog records one AI-call failure tied to a Generation.
// Entries are append-only: created on the failure path and never updated.
type GenerationErrorLog struct {
	ID           uuid.UUID `json:"id"`
	GenerationID uuid.UUID `json:"generation_id"`
	ErrorCode    string    `json:"error_code"`
	ErrorMessage string    `json:"error_message"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewGenerationErrorLog creates a new error log entry for the given
// generation. Returns an error if validation fails.
func NewGenerationErrorLog(generationID uuid.UUID, code, message string) (*GenerationErrorLog, error) {
	entry := &GenerationErrorLog{
		ID:           uuid.New(),
		GenerationID: generationID,
		ErrorCode:    code,
		ErrorMessage: message,
		CreatedAt:    time.Now().UTC(),
	}

	if err := entry.Validate(); err != nil {
		return nil, err
	}

	return entry, nil
}

// Validate checks if the GenerationErrorLog has valid data.
func (e *GenerationErrorLog) Validate() error {
	if e.ID == uuid.Nil {
		return ErrEmptyErrorLogID
	}

	if e.GenerationID == uuid.Nil {
		return ErrEmptyErrorLogGenerationID
	}

	if e.ErrorCode == "" {
		return ErrEmptyErrorLogCode
	}

	if e.ErrorMessage == "" {
		return ErrEmptyErrorLogMessage
	}

	return nil
}
