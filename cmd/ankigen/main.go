// Package main implements the interactive console tool for creating Anki
// flashcards, by hand or with LLM assistance.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"

	"github.com/ankigen/ankigen/internal/anki"
	"github.com/ankigen/ankigen/internal/config"
	"github.com/ankigen/ankigen/internal/generation"
	"github.com/ankigen/ankigen/internal/platform/llm"
	"github.com/ankigen/ankigen/internal/service"
	"github.com/ankigen/ankigen/internal/store"
)

const logFile = "ankigen.log"

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// The terminal belongs to the menu. Structured logs go to a file so
	// they stay available without breaking the forms.
	logger := newFileLogger(logFile)

	c, err := newConsole(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}

	if err := c.run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render(err.Error()))
		os.Exit(1)
	}
}

func newFileLogger(path string) *slog.Logger {
	var out io.Writer = io.Discard
	if f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644); err == nil {
		out = f
	}
	return slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: slog.LevelInfo}))
}

// console bundles the dependencies the menu actions share.
type console struct {
	cfg       *config.Config
	logger    *slog.Logger
	svc       *service.CardService
	store     *store.InstructionStore
	generator generation.Generator

	// lastLanguage is remembered across prompts within a session.
	lastLanguage string
}

func newConsole(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*console, error) {
	client := anki.NewClient(cfg.Anki.Host, cfg.Anki.Port, logger)
	if err := client.Ping(ctx); err != nil {
		return nil, fmt.Errorf(
			"cannot reach AnkiConnect at %s:%d (is Anki running with the AnkiConnect add-on?): %w",
			cfg.Anki.Host, cfg.Anki.Port, err)
	}

	c := &console{
		cfg:    cfg,
		logger: logger,
		store:  store.NewInstructionStore(cfg.LLM.InstructionsFile),
	}

	if llm.Configured(cfg.LLM) {
		generator, err := llm.NewGenerator(ctx, logger, cfg.LLM)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize LLM generator: %w", err)
		}
		c.generator = generator
	}

	c.svc = service.NewCardService(client, c.generator, c.store, cfg.Anki.DefaultTags, logger)
	return c, nil
}
