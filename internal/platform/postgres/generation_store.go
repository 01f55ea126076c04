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

// PostgresGenerationStore implements the store.GenerationStore interface
// using a PostgreSQL database as the storage backend.
type PostgresGenerationStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresGenerationStore creates a new PostgreSQL implementation of the
// GenerationStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresGenerationStore(db store.DBTX, logger *slog.Logger) *PostgresGenerationStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresGenerationStore{
		db:     db,
		logger: logger.With(slog.String("component", "generation_store")),
	}
}

// Ensure PostgresGenerationStore implements store.GenerationStore interface
var _ store.GenerationStore = (*PostgresGenerationStore)(nil)

// Create implements store.GenerationStore.Create
// It saves a new generation to the database, handling domain validation.
// Returns store.ErrInvalidEntity if the user ID doesn't exist (foreign key violation).
func (s *PostgresGenerationStore) Create(ctx context.Context, generation *domain.Generation) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := generation.Validate(); err != nil {
		log.Warn("generation validation failed during create",
			slog.String("error", err.Error()),
			slog.String("generation_id", generation.ID.String()))
		return err
	}

	query := `
		INSERT INTO generations
			(id, user_id, source_text_length, source_text_hash, model,
			 generated_count, generation_duration, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		generation.ID,
		generation.UserID,
		generation.SourceTextLength,
		generation.SourceTextHash,
		generation.Model,
		generation.GeneratedCount,
		generation.DurationMs,
		generation.Status,
		generation.CreatedAt,
		generation.UpdatedAt,
	)

	if err != nil {
		if isForeignKeyViolation(err) {
			log.Warn("foreign key violation during generation creation",
				slog.String("error", err.Error()),
				slog.String("generation_id", generation.ID.String()),
				slog.String("user_id", generation.UserID.String()))
			return fmt.Errorf("%w: user with ID %s not found",
				store.ErrInvalidEntity, generation.UserID)
		}

		log.Error("failed to create generation",
			slog.String("error", err.Error()),
			slog.String("generation_id", generation.ID.String()),
			slog.String("user_id", generation.UserID.String()))
		return err
	}

	log.Info("generation created successfully",
		slog.String("generation_id", generation.ID.String()),
		slog.String("user_id", generation.UserID.String()),
		slog.String("status", string(generation.Status)))
	return nil
}

// GetByID implements store.GenerationStore.GetByID
// Returns store.ErrGenerationNotFound if the generation does not exist.
func (s *PostgresGenerationStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Generation, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	log.Debug("retrieving generation by ID", slog.String("generation_id", id.String()))

	query := `
		SELECT id, user_id, source_text_length, source_text_hash, model,
		       generated_count, generation_duration, status, created_at, updated_at
		FROM generations
		WHERE id = $1
	`

	var generation domain.Generation
	var status string

	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&generation.ID,
		&generation.UserID,
		&generation.SourceTextLength,
		&generation.SourceTextHash,
		&generation.Model,
		&generation.GeneratedCount,
		&generation.DurationMs,
		&status,
		&generation.CreatedAt,
		&generation.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("generation not found", slog.String("generation_id", id.String()))
			return nil, store.ErrGenerationNotFound
		}
		log.Error("failed to get generation by ID",
			slog.String("error", err.Error()),
			slog.String("generation_id", id.String()))
		return nil, err
	}

	generation.Status = domain.GenerationStatus(status)

	return &generation, nil
}

// Update implements store.GenerationStore.Update
// It saves the outcome fields of an existing generation.
// Returns store.ErrGenerationNotFound if the generation does not exist.
func (s *PostgresGenerationStore) Update(ctx context.Context, generation *domain.Generation) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := generation.Validate(); err != nil {
		log.Warn("generation validation failed during update",
			slog.String("error", err.Error()),
			slog.String("generation_id", generation.ID.String()))
		return err
	}

	query := `
		UPDATE generations
		SET generated_count = $1, generation_duration = $2, status = $3, updated_at = $4
		WHERE id = $5
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		generation.GeneratedCount,
		generation.DurationMs,
		generation.Status,
		generation.UpdatedAt,
		generation.ID,
	)

	if err != nil {
		log.Error("failed to update generation",
			slog.String("error", err.Error()),
			slog.String("generation_id", generation.ID.String()),
			slog.String("status", string(generation.Status)))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()),
			slog.String("generation_id", generation.ID.String()))
		return err
	}

	if rowsAffected == 0 {
		log.Debug("generation not found for update",
			slog.String("generation_id", generation.ID.String()))
		return store.ErrGenerationNotFound
	}

	log.Info("generation updated successfully",
		slog.String("generation_id", generation.ID.String()),
		slog.String("status", string(generation.Status)))
	return nil
}

// ListByUser implements store.GenerationStore.ListByUser
// It retrieves a page of the user's generations ordered by creation time
// descending, plus the total count for pagination.
func (s *PostgresGenerationStore) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
	limit, offset int,
) ([]*domain.Generation, int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM generations WHERE user_id = $1`
	if err := s.db.QueryRowContext(ctx, countQuery, userID).Scan(&total); err != nil {
		log.Error("failed to count generations",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, 0, err
	}

	query := `
		SELECT id, user_id, source_text_length, source_text_hash, model,
		       generated_count, generation_duration, status, created_at, updated_at
		FROM generations
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := s.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		log.Error("failed to query generations by user",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, 0, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	var generations []*domain.Generation
	for rows.Next() {
		var generation domain.Generation
		var status string

		err := rows.Scan(
			&generation.ID,
			&generation.UserID,
			&generation.SourceTextLength,
			&generation.SourceTextHash,
			&generation.Model,
			&generation.GeneratedCount,
			&generation.DurationMs,
			&status,
			&generation.CreatedAt,
			&generation.UpdatedAt,
		)
		if err != nil {
			log.Error("failed to scan generation row",
				slog.String("error", err.Error()))
			return nil, 0, err
		}

		generation.Status = domain.GenerationStatus(status)
		generations = append(generations, &generation)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows",
			slog.String("error", err.Error()))
		return nil, 0, err
	}

	if generations == nil {
		generations = []*domain.Generation{}
	}

	return generations, total, nil
}

// WithTx implements store.GenerationStore.WithTx
// It returns a new GenerationStore that uses the provided transaction.
func (s *PostgresGenerationStore) WithTx(tx *sql.Tx) store.GenerationStore {
	return &PostgresGenerationStore{
		db:     tx,
		logger: s.logger,
	}
}
