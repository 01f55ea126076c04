package domain

import (
	"crypto/md5" // #nosec G501 -- content fingerprint for dedup/audit, not security
	"encoding/hex"
	"errors"
	"time"

	"github.com/google/uuid"
)

// GenerationStatus represents the lifecycle state of a generation attempt.
type GenerationStatus string

// Possible generation status values
const (
	GenerationStatusPending   GenerationStatus = "pending"
	GenerationStatusCompleted GenerationStatus = "completed"
	GenerationStatusFailed    GenerationStatus = "failed"
)

// Common validation errors for Generation
var (
	ErrEmptyGenerationID       = errors.New("generation ID cannot be empty")
	ErrEmptyGenerationUserID   = errors.New("generation user ID cannot be empty")
	ErrEmptyGenerationModel    = errors.New("generation model cannot be empty")
	ErrInvalidGenerationStatus = errors.New("invalid generation status")

	// ErrGenerationAlreadyResolved is returned when a generation that has
	// already reached a terminal status is asked to transition again.
	// A generation moves from pending to completed or failed exactly once.
	ErrGenerationAlreadyResolved = errors.New("generation already resolved")
)

// Generation represents one attempt to derive flashcards from a block of
// source text. It tracks provenance of the AI call: which model was used,
// how long the call took, how many cards came back, and whether the
// attempt succeeded.
type Generation struct {
	ID               uuid.UUID        `json:"id"`
	UserID           uuid.UUID        `json:"user_id"`
	SourceTextLength int              `json:"source_text_length"`
	SourceTextHash   string           `json:"source_text_hash"`
	Model            string           `json:"model"`
	GeneratedCount   int              `json:"generated_count"`
	DurationMs       int64            `json:"generation_duration"`
	Status           GenerationStatus `json:"status"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// NewGeneration creates a pending Generation for the given user, source
// text, and model. GeneratedCount and DurationMs start at zero and are
// only meaningful once the generation leaves the pending status.
func NewGeneration(userID uuid.UUID, sourceText, model string) (*Generation, error) {
	now := time.Now().UTC()
	gen := &Generation{
		ID:               uuid.New(),
		UserID:           userID,
		SourceTextLength: len(sourceText),
		SourceTextHash:   HashSourceText(sourceText),
		Model:            model,
		GeneratedCount:   0,
		DurationMs:       0,
		Status:           GenerationStatusPending,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := gen.Validate(); err != nil {
		return nil, err
	}

	return gen, nil
}

// HashSourceText returns the MD5 hex digest of the source text. The hash
// is a content fingerprint for deduplication and auditing, not a security
// measure.
func HashSourceText(text string) string {
	sum := md5.Sum([]byte(text)) // #nosec G401
	return hex.EncodeToString(sum[:])
}

// Validate checks if the Generation has valid data.
// Returns an error if any field fails validation.
func (g *Generation) Validate() error {
	if g.ID == uuid.Nil {
		return ErrEmptyGenerationID
	}

	if g.UserID == uuid.Nil {
		return ErrEmptyGenerationUserID
	}

	if g.Model == "" {
		return ErrEmptyGenerationModel
	}

	if !isValidGenerationStatus(g.Status) {
		return ErrInvalidGenerationStatus
	}

	return nil
}

// MarkCompleted transitions the generation from pending to completed,
// recording the generated card count and elapsed duration.
// Returns ErrGenerationAlreadyResolved if the generation has already
// reached a terminal status.
func (g *Generation) MarkCompleted(generatedCount int, duration time.Duration) error {
	if g.Status != GenerationStatusPending {
		return ErrGenerationAlreadyResolved
	}

	g.Status = GenerationStatusCompleted
	g.GeneratedCount = generatedCount
	g.DurationMs = duration.Milliseconds()
	g.UpdatedAt = time.Now().UTC()
	return nil
}

// MarkFailed transitions the generation from pending to failed, recording
// the elapsed duration. The generated count stays at zero.
// Returns ErrGenerationAlreadyResolved if the generation has already
// reached a terminal status.
func (g *Generation) MarkFailed(duration time.Duration) error {
	if g.Status != GenerationStatusPending {
		return ErrGenerationAlreadyResolved
	}

	g.Status = GenerationStatusFailed
	g.DurationMs = duration.Milliseconds()
	g.UpdatedAt = time.Now().UTC()
	return nil
}

// IsResolved reports whether the generation has reached a terminal status.
func (g *Generation) IsResolved() bool {
	return g.Status == GenerationStatusCompleted || g.Status == GenerationStatusFailed
}

// isValidGenerationStatus checks if the given status is a valid GenerationStatus.
func isValidGenerationStatus(status GenerationStatus) bool {
	switch status {
	case GenerationStatusPending, GenerationStatusCompleted, GenerationStatusFailed:
		return true
	default:
		return false
	}
}
