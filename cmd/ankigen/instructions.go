package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/ankigen/ankigen/internal/store"
)

// editInstructions manages the per-model generation instructions that get
// appended to every prompt for that note type.
func (c *console) editInstructions(ctx context.Context) error {
	model, err := c.pickModel(ctx)
	if err != nil {
		return err
	}

	current, err := c.store.Get(model)
	if err != nil && !errors.Is(err, store.ErrInstructionNotFound) {
		return err
	}
	if current == "" {
		fmt.Println(dimStyle.Render(fmt.Sprintf("No instructions stored for %q yet.", model)))
	} else {
		fmt.Println(fieldStyle.Render("Current:") + " " + current)
	}

	var choice string
	options := []huh.Option[string]{huh.NewOption("Edit", "edit")}
	if current != "" {
		options = append(options, huh.NewOption("Delete", "delete"))
	}
	options = append(options, huh.NewOption("Back", "back"))
	form := huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().
			Title(fmt.Sprintf("Instructions for %q", model)).
			Options(options...).
			Value(&choice),
	))
	if err := form.Run(); err != nil {
		return err
	}

	switch choice {
	case "edit":
		text := current
		edit := huh.NewForm(huh.NewGroup(
			huh.NewText().
				Title("Instructions").
				Description("Appended to every generation prompt for this note type.").
				Lines(5).
				Value(&text).
				Validate(required("instructions")),
		))
		if err := edit.Run(); err != nil {
			return err
		}
		if err := c.store.Set(model, text); err != nil {
			return err
		}
		fmt.Println(successStyle.Render(fmt.Sprintf("Saved instructions for %q.", model)))

	case "delete":
		if err := c.store.Delete(model); err != nil {
			return err
		}
		fmt.Println(successStyle.Render(fmt.Sprintf("Deleted instructions for %q.", model)))
	}
	return nil
}
