package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/tenxcards/tenx-cards-api/internal/domain"
	"github.com/tenxcards/tenx-cards-api/internal/platform/logger"
	"github.com/tenxcards/tenx-cards-api/internal/store"
)

// PostgresGenerationErrorLogStore implements the
// store.GenerationErrorLogStore interface using a PostgreSQL database.
type PostgresGenerationErrorLogStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresGenerationErrorLogStore creates a new PostgreSQL
// implementation of the GenerationErrorLogStore interface.
func NewPostgresGenerationErrorLogStore(db store.DBTX, logger *slog.Logger) *PostgresGenerationErrorLogStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresGenerationErrorLogStore{
		db:     db,
		logger: logger.With(slog.String("component", "generation_error_log_store")),
	}
}

// Ensure PostgresGenerationErrorLogStore implements store.GenerationErrorLogStore
var _ store.GenerationErrorLogStore = (*PostgresGenerationErrorLogStore)(nil)

// Create implements store.GenerationErrorLogStore.Create
// It appends a new error log entry referencing an existing generation.
// Returns store.ErrInvalidEntity if the generation ID doesn't exist.
func (s *PostgresGenerationErrorLogStore) Create(ctx context.Context, entry *domain.GenerationErrorLog) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := entry.Validate(); err != nil {
		log.Warn("error log validation failed during create",
			slog.String("error", err.Error()),
			slog.String("generation_id", entry.GenerationID.String()))
		return err
	}

	query := `
		INSERT INTO generation_error_logs (id, generation_id, error_code, error_message, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		entry.ID,
		entry.GenerationID,
		entry.ErrorCode,
		entry.ErrorMessage,
		entry.CreatedAt,
	)

	if err != nil {
		if isForeignKeyViolation(err) {
			log.Warn("foreign key violation during error log creation",
				slog.String("error", err.Error()),
				slog.String("generation_id", entry.GenerationID.String()))
			return fmt.Errorf("%w: generation with ID %s not found",
				store.ErrInvalidEntity, entry.GenerationID)
		}

		log.Error("failed to create error log entry",
			slog.String("error", err.Error()),
			slog.String("generation_id", entry.GenerationID.String()))
		return err
	}

	log.Info("generation error logged",
		slog.String("generation_id", entry.GenerationID.String()),
		slog.String("error_code", entry.ErrorCode))
	return nil
}

// ListByGeneration implements store.GenerationErrorLogStore.ListByGeneration
// It retrieves all error log entries for a generation, oldest first.
func (s *PostgresGenerationErrorLogStore) ListByGeneration(
	ctx context.Context,
	generationID uuid.UUID,
) ([]*domain.GenerationErrorLog, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, generation_id, error_code, error_message, created_at
		FROM generation_error_logs
		WHERE generation_id = $1
		ORDER BY created_at ASC
	`

	rows, err := s.db.QueryContext(ctx, query, generationID)
	if err != nil {
		log.Error("failed to query error logs",
			slog.String("error", err.Error()),
			slog.String("generation_id", generationID.String()))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	var entries []*domain.GenerationErrorLog
	for rows.Next() {
		var entry domain.GenerationErrorLog

		err := rows.Scan(
			&entry.ID,
			&entry.GenerationID,
			&entry.ErrorCode,
			&entry.ErrorMessage,
			&entry.CreatedAt,
		)
		if err != nil {
			log.Error("failed to scan error log row",
				slog.String("error", err.Error()))
			return nil, err
		}

		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows",
			slog.String("error", err.Error()))
		return nil, err
	}

	if entries == nil {
		entries = []*domain.GenerationErrorLog{}
	}

	return entries, nil
}

// WithTx implements store.GenerationErrorLogStore.WithTx
func (s *PostgresGenerationErrorLogStore) WithTx(tx *sql.Tx) store.GenerationErrorLogStore {
	return &PostgresGenerationErrorLogStore{
		db:     tx,
		logger: s.logger,
	}
}
