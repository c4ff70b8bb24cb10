package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ankigen/ankigen/internal/anki"
	"github.com/ankigen/ankigen/internal/config"
	"github.com/ankigen/ankigen/internal/generation"
	"github.com/ankigen/ankigen/internal/platform/llm"
	"github.com/ankigen/ankigen/internal/service"
	"github.com/ankigen/ankigen/internal/store"
)

// application holds the shared application dependencies so they are built
// once and wired consistently into the router.
type application struct {
	config *config.Config
	logger *slog.Logger

	ankiClient   *anki.Client
	generator    generation.Generator
	instructions *store.InstructionStore
	cardService  *service.CardService
}

// newApplication creates an application instance with all dependencies
// initialized. A missing or invalid LLM configuration is not fatal: the
// server still serves the connector endpoints and reports the generator
// as unavailable.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
	}

	app.ankiClient = anki.NewClient(cfg.Anki.Host, cfg.Anki.Port, logger)

	if err := app.ankiClient.Ping(ctx); err != nil {
		// Anki may simply not be running yet. Endpoints will report the
		// failure per request.
		logger.Warn("AnkiConnect is not reachable at startup",
			slog.String("anki_host", cfg.Anki.Host),
			slog.Int("anki_port", cfg.Anki.Port),
			slog.String("error", err.Error()))
	} else {
		logger.Info("AnkiConnect is reachable",
			slog.String("anki_host", cfg.Anki.Host),
			slog.Int("anki_port", cfg.Anki.Port))
	}

	generator, err := llm.NewGenerator(ctx, logger, cfg.LLM)
	if err != nil {
		if !errors.Is(err, generation.ErrInvalidConfig) {
			return nil, fmt.Errorf("failed to initialize LLM generator: %w", err)
		}
		logger.Warn("LLM generator not configured, generation endpoints disabled",
			slog.String("provider", cfg.LLM.Provider))
	} else {
		app.generator = generator
		logger.Info("LLM generator initialized",
			slog.String("provider", cfg.LLM.Provider),
			slog.String("model", cfg.LLM.ActiveModel()))
	}

	app.instructions = store.NewInstructionStore(cfg.LLM.InstructionsFile)
	app.cardService = service.NewCardService(
		app.ankiClient,
		app.generator,
		app.instructions,
		cfg.Anki.DefaultTags,
		logger,
	)

	return app, nil
}
