package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ankigen/ankigen/internal/api"
	apiMiddleware "github.com/ankigen/ankigen/internal/api/middleware"
	"github.com/ankigen/ankigen/internal/config"
)

// setupRouter creates the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	deckHandler := api.NewDeckHandler(app.cardService, app.logger)
	cardHandler := api.NewCardHandler(app.cardService, app.logger)
	noteHandler := api.NewNoteHandler(app.cardService, app.logger)
	instructionHandler := api.NewInstructionHandler(app.instructions, app.logger)
	settingsHandler := api.NewSettingsHandler(app.config, config.DefaultEnvFile, app.logger)

	r.Route("/api", func(r chi.Router) {
		r.Get("/connection", deckHandler.TestConnection)

		r.Get("/decks", deckHandler.ListDecks)
		r.Post("/decks", deckHandler.CreateDeck)
		r.Get("/models", deckHandler.ListModels)
		r.Get("/models/{name}/fields", deckHandler.GetModelFields)

		r.Post("/cards/generate", cardHandler.GenerateCard)
		r.Post("/cards", cardHandler.AddCard)
		r.Post("/cards/batch", cardHandler.BatchGenerate)

		r.Get("/notes", noteHandler.SearchNotes)
		r.Put("/notes/{id}", noteHandler.UpdateNote)
		r.Delete("/notes", noteHandler.DeleteNotes)

		r.Get("/instructions", instructionHandler.ListInstructions)
		r.Put("/instructions/{model}", instructionHandler.PutInstruction)
		r.Delete("/instructions/{model}", instructionHandler.DeleteInstruction)

		r.Get("/settings", settingsHandler.GetSettings)
		r.Put("/settings", settingsHandler.UpdateSettings)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
