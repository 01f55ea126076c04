package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/tenxcards/tenx-cards-api/internal/api"
	apiMiddleware "github.com/tenxcards/tenx-cards-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes
// and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)
	generationHandler := api.NewGenerationHandler(app.generationService)
	flashcardHandler := api.NewFlashcardHandler(app.flashcardService)

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			// Generation endpoints
			r.Post("/generations", generationHandler.CreateGeneration)
			r.Get("/generations", generationHandler.ListGenerations)
			r.Get("/generations/{id}", generationHandler.GetGeneration)

			// Flashcard endpoints
			r.Post("/flashcards", flashcardHandler.CreateFlashcards)
			r.Get("/flashcards", flashcardHandler.ListFlashcards)
			r.Get("/flashcards/{id}", flashcardHandler.GetFlashcard)
			r.Put("/flashcards/{id}", flashcardHandler.UpdateFlashcard)
			r.Delete("/flashcards/{id}", flashcardHandler.DeleteFlashcard)
		})
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
