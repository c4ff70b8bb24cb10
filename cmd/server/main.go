// Package main implements the entry point for the ankigen API server,
// which bridges a local Anki instance with LLM providers for flashcard
// generation.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"

	"github.com/ankigen/ankigen/internal/config"
	"github.com/ankigen/ankigen/internal/platform/logger"
)

func main() {
	ctx := context.Background()

	cfg, appLogger, err := initializeApp()
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	app, err := newApplication(ctx, cfg, appLogger)
	if err != nil {
		log.Fatalf("Failed to build application: %v", err)
	}

	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// initializeApp loads configuration and sets up structured logging.
func initializeApp() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	appLogger.Info("Server configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.String("llm_provider", cfg.LLM.Provider),
		slog.String("anki_host", cfg.Anki.Host),
		slog.Int("anki_port", cfg.Anki.Port))

	return cfg, appLogger, nil
}
