package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
)

const (
	actionTestConnection = "connection"
	actionListDecks      = "decks"
	actionCreateDeck     = "create-deck"
	actionListModels     = "models"
	actionModelFields    = "model-fields"
	actionSearchNotes    = "search"
	actionCheckDuplicate = "duplicate"
	actionManualNote     = "manual"
	actionGenerateCard   = "generate"
	actionBatchImport    = "batch"
	actionInstructions   = "instructions"
	actionSettings       = "settings"
	actionQuit           = "quit"
)

// run shows the main menu until the user quits.
func (c *console) run(ctx context.Context) error {
	fmt.Println(titleStyle.Render("ankigen"))
	if c.generator == nil {
		fmt.Println(dimStyle.Render("No LLM provider configured. Generation entries are hidden; see Settings."))
	}

	for {
		options := []huh.Option[string]{
			huh.NewOption("Test AnkiConnect connection", actionTestConnection),
			huh.NewOption("List decks", actionListDecks),
			huh.NewOption("Create deck", actionCreateDeck),
			huh.NewOption("List note types", actionListModels),
			huh.NewOption("Show note type fields", actionModelFields),
			huh.NewOption("Search notes", actionSearchNotes),
			huh.NewOption("Check for duplicate", actionCheckDuplicate),
			huh.NewOption("Add note manually", actionManualNote),
		}
		if c.generator != nil {
			options = append(options,
				huh.NewOption("Generate card with LLM", actionGenerateCard),
				huh.NewOption("Batch import from file", actionBatchImport),
			)
		}
		options = append(options,
			huh.NewOption("Edit model instructions", actionInstructions),
			huh.NewOption("Settings", actionSettings),
			huh.NewOption("Quit", actionQuit),
		)

		var choice string
		form := huh.NewForm(huh.NewGroup(
			huh.NewSelect[string]().
				Title("What would you like to do?").
				Options(options...).
				Value(&choice),
		))
		if err := form.Run(); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return nil
			}
			return err
		}

		if choice == actionQuit {
			return nil
		}

		if err := c.dispatch(ctx, choice); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				continue
			}
			fmt.Println(errorStyle.Render("Error: " + err.Error()))
		}
	}
}

func (c *console) dispatch(ctx context.Context, choice string) error {
	switch choice {
	case actionTestConnection:
		return c.testConnection(ctx)
	case actionListDecks:
		return c.listDecks(ctx)
	case actionCreateDeck:
		return c.createDeck(ctx)
	case actionListModels:
		return c.listModels(ctx)
	case actionModelFields:
		return c.showModelFields(ctx)
	case actionSearchNotes:
		return c.searchNotes(ctx)
	case actionCheckDuplicate:
		return c.checkDuplicate(ctx)
	case actionManualNote:
		return c.addManualNote(ctx)
	case actionGenerateCard:
		return c.generateCard(ctx)
	case actionBatchImport:
		return c.batchImport(ctx)
	case actionInstructions:
		return c.editInstructions(ctx)
	case actionSettings:
		return c.editSettings(ctx)
	default:
		return fmt.Errorf("unknown menu choice %q", choice)
	}
}
