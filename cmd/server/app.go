package main

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/tenxcards/tenx-cards-api/internal/config"
	"github.com/tenxcards/tenx-cards-api/internal/platform/logger"
	"github.com/tenxcards/tenx-cards-api/internal/platform/openrouter"
	"github.com/tenxcards/tenx-cards-api/internal/platform/postgres"
	"github.com/tenxcards/tenx-cards-api/internal/service"
	"github.com/tenxcards/tenx-cards-api/internal/service/auth"
)

// application holds the fully wired dependencies of the running server.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	jwtService        auth.JWTService
	generationService service.GenerationService
	flashcardService  service.FlashcardService
}

// initializeApp loads configuration and wires up all application components.
func initializeApp() (*application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger := logger.Setup(cfg.Server)

	db, err := setupAppDatabase(cfg, appLogger)
	if err != nil {
		return nil, err
	}

	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT service: %w", err)
	}

	generationStore := postgres.NewPostgresGenerationStore(db, appLogger)
	errorLogStore := postgres.NewPostgresGenerationErrorLogStore(db, appLogger)
	flashcardStore := postgres.NewPostgresFlashcardStore(db, appLogger)

	orClient, err := openrouter.NewClient(openrouter.Config{
		APIKey:               cfg.LLM.OpenRouterAPIKey,
		BaseURL:              cfg.LLM.BaseURL,
		DefaultModel:         cfg.LLM.DefaultModel,
		MaxRequestsPerMinute: cfg.LLM.MaxRequestsPerMinute,
		SiteURL:              cfg.LLM.SiteURL,
	}, appLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenRouter client: %w", err)
	}

	generator, err := openrouter.NewGenerator(orClient, appLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to create flashcard generator: %w", err)
	}

	generationService, err := service.NewGenerationService(
		generationStore,
		errorLogStore,
		flashcardStore,
		generator,
		cfg.LLM.DefaultModel,
		appLogger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create generation service: %w", err)
	}

	flashcardService, err := service.NewFlashcardService(db, flashcardStore, appLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to create flashcard service: %w", err)
	}

	return &application{
		config:            cfg,
		logger:            appLogger,
		db:                db,
		jwtService:        jwtService,
		generationService: generationService,
		flashcardService:  flashcardService,
	}, nil
}

// cleanup releases resources held by the application.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("failed to close database connection", "error", err)
		}
	}
}
