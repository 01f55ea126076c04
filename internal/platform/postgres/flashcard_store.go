package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/tenxcards/tenx-cards-api/internal/domain"
	"github.com/tenxcards/tenx-cards-api/internal/platform/logger"
	"github.com/tenxcards/tenx-cards-api/internal/store"
)

// PostgresFlashcardStore implements the store.FlashcardStore interface
// using a PostgreSQL database as the storage backend.
type PostgresFlashcardStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresFlashcardStore creates a new PostgreSQL implementation of the
// FlashcardStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
func NewPostgresFlashcardStore(db store.DBTX, logger *slog.Logger) *PostgresFlashcardStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresFlashcardStore{
		db:     db,
		logger: logger.With(slog.String("component", "flashcard_store")),
	}
}

// Ensure PostgresFlashcardStore implements store.FlashcardStore interface
var _ store.FlashcardStore = (*PostgresFlashcardStore)(nil)

const flashcardColumns = `id, user_id, generation_id, front, back, source, created_at, updated_at`

// CreateMultiple implements store.FlashcardStore.CreateMultiple
// It inserts the batch row by row; run it inside a transaction via WithTx
// and store.RunInTransaction for all-or-nothing semantics.
// Returns store.ErrInvalidEntity on foreign key violations (unknown user
// or generation).
func (s *PostgresFlashcardStore) CreateMultiple(ctx context.Context, cards []*domain.Flashcard) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	for _, card := range cards {
		if err := card.Validate(); err != nil {
			log.Warn("flashcard validation failed during create",
				slog.String("error", err.Error()),
				slog.String("flashcard_id", card.ID.String()))
			return err
		}
	}

	query := `
		INSERT INTO flashcards (id, user_id, generation_id, front, back, source, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	for _, card := range cards {
		_, err := s.db.ExecContext(
			ctx,
			query,
			card.ID,
			card.UserID,
			card.GenerationID,
			card.Front,
			card.Back,
			card.Source,
			card.CreatedAt,
			card.UpdatedAt,
		)

		if err != nil {
			if isForeignKeyViolation(err) {
				log.Warn("foreign key violation during flashcard creation",
					slog.String("error", err.Error()),
					slog.String("flashcard_id", card.ID.String()))
				return fmt.Errorf("%w: referenced user or generation not found",
					store.ErrInvalidEntity)
			}

			log.Error("failed to create flashcard",
				slog.String("error", err.Error()),
				slog.String("flashcard_id", card.ID.String()))
			return err
		}
	}

	log.Info("flashcards created successfully",
		slog.Int("count", len(cards)))
	return nil
}

// GetByID implements store.FlashcardStore.GetByID
// Returns store.ErrFlashcardNotFound if the flashcard does not exist.
func (s *PostgresFlashcardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Flashcard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + flashcardColumns + ` FROM flashcards WHERE id = $1`

	card, err := scanFlashcard(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("flashcard not found", slog.String("flashcard_id", id.String()))
			return nil, store.ErrFlashcardNotFound
		}
		log.Error("failed to get flashcard by ID",
			slog.String("error", err.Error()),
			slog.String("flashcard_id", id.String()))
		return nil, err
	}

	return card, nil
}

// ListByUser implements store.FlashcardStore.ListByUser
// The sort field is restricted to the store.FlashcardSortField whitelist;
// anything else falls back to created_at.
func (s *PostgresFlashcardStore) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
	opts store.FlashcardListOptions,
) ([]*domain.Flashcard, int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if opts.Limit <= 0 {
		opts.Limit = 10
	}
	if opts.Offset < 0 {
		opts.Offset = 0
	}

	// Sort column comes from a fixed whitelist, never from user input
	// directly, so string concatenation is safe here.
	sortBy := string(opts.SortBy)
	switch opts.SortBy {
	case store.FlashcardSortCreatedAt, store.FlashcardSortFront, store.FlashcardSortBack:
	default:
		sortBy = string(store.FlashcardSortCreatedAt)
	}
	direction := "DESC"
	if opts.Ascending {
		direction = "ASC"
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM flashcards WHERE user_id = $1`
	if err := s.db.QueryRowContext(ctx, countQuery, userID).Scan(&total); err != nil {
		log.Error("failed to count flashcards",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, 0, err
	}

	query := `SELECT ` + flashcardColumns + `
		FROM flashcards
		WHERE user_id = $1
		ORDER BY ` + sortBy + ` ` + direction + `
		LIMIT $2 OFFSET $3`

	rows, err := s.db.QueryContext(ctx, query, userID, opts.Limit, opts.Offset)
	if err != nil {
		log.Error("failed to query flashcards by user",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, 0, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	cards, err := collectFlashcards(rows)
	if err != nil {
		log.Error("failed to scan flashcard rows",
			slog.String("error", err.Error()))
		return nil, 0, err
	}

	return cards, total, nil
}

// ListByGeneration implements store.FlashcardStore.ListByGeneration
func (s *PostgresFlashcardStore) ListByGeneration(
	ctx context.Context,
	generationID uuid.UUID,
) ([]*domain.Flashcard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + flashcardColumns + `
		FROM flashcards
		WHERE generation_id = $1
		ORDER BY created_at ASC`

	rows, err := s.db.QueryContext(ctx, query, generationID)
	if err != nil {
		log.Error("failed to query flashcards by generation",
			slog.String("error", err.Error()),
			slog.String("generation_id", generationID.String()))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	cards, err := collectFlashcards(rows)
	if err != nil {
		log.Error("failed to scan flashcard rows",
			slog.String("error", err.Error()))
		return nil, err
	}

	return cards, nil
}

// Update implements store.FlashcardStore.Update
// Returns store.ErrFlashcardNotFound if the flashcard does not exist.
func (s *PostgresFlashcardStore) Update(ctx context.Context, card *domain.Flashcard) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := card.Validate(); err != nil {
		log.Warn("flashcard validation failed during update",
			slog.String("error", err.Error()),
			slog.String("flashcard_id", card.ID.String()))
		return err
	}

	query := `
		UPDATE flashcards
		SET front = $1, back = $2, source = $3, updated_at = $4
		WHERE id = $5
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		card.Front,
		card.Back,
		card.Source,
		card.UpdatedAt,
		card.ID,
	)

	if err != nil {
		log.Error("failed to update flashcard",
			slog.String("error", err.Error()),
			slog.String("flashcard_id", card.ID.String()))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()),
			slog.String("flashcard_id", card.ID.String()))
		return err
	}

	if rowsAffected == 0 {
		log.Debug("flashcard not found for update",
			slog.String("flashcard_id", card.ID.String()))
		return store.ErrFlashcardNotFound
	}

	log.Info("flashcard updated successfully",
		slog.String("flashcard_id", card.ID.String()))
	return nil
}

// Delete implements store.FlashcardStore.Delete
// Returns store.ErrFlashcardNotFound if the flashcard does not exist.
func (s *PostgresFlashcardStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `DELETE FROM flashcards WHERE id = $1`

	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		log.Error("failed to delete flashcard",
			slog.String("error", err.Error()),
			slog.String("flashcard_id", id.String()))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()),
			slog.String("flashcard_id", id.String()))
		return err
	}

	if rowsAffected == 0 {
		log.Debug("flashcard not found for delete",
			slog.String("flashcard_id", id.String()))
		return store.ErrFlashcardNotFound
	}

	log.Info("flashcard deleted successfully",
		slog.String("flashcard_id", id.String()))
	return nil
}

// WithTx implements store.FlashcardStore.WithTx
func (s *PostgresFlashcardStore) WithTx(tx *sql.Tx) store.FlashcardStore {
	return &PostgresFlashcardStore{
		db:     tx,
		logger: s.logger,
	}
}

// rowScanner abstracts *sql.Row and *sql.Rows for shared scanning.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanFlashcard reads one flashcard row, handling the nullable
// generation_id column.
func scanFlashcard(row rowScanner) (*domain.Flashcard, error) {
	var card domain.Flashcard
	var generationID uuid.NullUUID
	var source string

	err := row.Scan(
		&card.ID,
		&card.UserID,
		&generationID,
		&card.Front,
		&card.Back,
		&source,
		&card.CreatedAt,
		&card.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if generationID.Valid {
		card.GenerationID = &generationID.UUID
	}
	card.Source = domain.FlashcardSource(source)

	return &card, nil
}

// collectFlashcards scans all rows into a slice, returning an empty slice
// rather than nil when no rows match.
func collectFlashcards(rows *sql.Rows) ([]*domain.Flashcard, error) {
	var cards []*domain.Flashcard
	for rows.Next() {
		card, err := scanFlashcard(rows)
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if cards == nil {
		cards = []*domain.Flashcard{}
	}
	return cards, nil
}
