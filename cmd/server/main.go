// Package main implements the entry point for the tenx-cards API server,
// which manages users' flashcards and provides LLM integration for
// AI-assisted card generation.
package main

import (
	"context"
	"log"
)

// main is the entry point for the tenx-cards-api server.
// It initializes configuration, logging, the database connection, and all
// application dependencies, then starts the HTTP server.
func main() {
	app, err := initializeApp()
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}
	defer app.cleanup()

	if err := app.startHTTPServer(context.Background(), app.setupRouter()); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
