package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/ankigen/ankigen/internal/anki"
	"github.com/ankigen/ankigen/internal/service"
)

// generateCard drives the LLM-assisted flow for a single word: generate,
// preview, then let the user accept, edit, or regenerate before anything
// reaches Anki.
func (c *console) generateCard(ctx context.Context) error {
	deck, err := c.pickDeck(ctx)
	if err != nil {
		return err
	}
	model, err := c.pickModel(ctx)
	if err != nil {
		return err
	}

	var word, wordContext string
	var autoAdd bool
	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().Title("Word or phrase").Value(&word).Validate(required("word")),
		huh.NewInput().Title("Target language").Value(&c.lastLanguage).Validate(required("language")),
		huh.NewInput().Title("Context (optional)").Value(&wordContext),
		huh.NewConfirm().
			Title("Add without review?").
			Description("Skips the preview step when Anki accepts the note.").
			Value(&autoAdd),
	))
	if err := form.Run(); err != nil {
		return err
	}

	params := service.GenerateParams{
		Word:      word,
		DeckName:  deck,
		ModelName: model,
		Language:  c.lastLanguage,
		Context:   wordContext,
	}

	for {
		fmt.Println(dimStyle.Render("Generating..."))
		preview, err := c.svc.GenerateCard(ctx, params)
		if err != nil {
			return err
		}

		if autoAdd && preview.CanAdd {
			noteID, err := c.svc.AddNote(ctx, preview.Note)
			if err != nil {
				return err
			}
			fmt.Println(successStyle.Render(fmt.Sprintf("Added note %d to %q.", noteID, deck)))
			return nil
		}

		fmt.Println(renderPreview(preview))

		choice, err := c.previewChoice(preview.CanAdd)
		if err != nil {
			return err
		}

		switch choice {
		case "add":
			noteID, err := c.svc.AddNote(ctx, insertableNote(preview))
			if err != nil {
				return err
			}
			fmt.Println(successStyle.Render(fmt.Sprintf("Added note %d to %q.", noteID, deck)))
			return nil

		case "edit":
			note := insertableNote(preview)
			if err := c.editFields(note.Fields); err != nil {
				return err
			}
			noteID, err := c.svc.AddNote(ctx, note)
			if err != nil {
				return err
			}
			fmt.Println(successStyle.Render(fmt.Sprintf("Added note %d to %q.", noteID, deck)))
			return nil

		case "regenerate":
			continue

		default:
			fmt.Println(dimStyle.Render("Discarded."))
			return nil
		}
	}
}

// insertableNote returns the exact note the user reviewed, adding only the
// duplicate override when Anki flagged the note. The fields are never
// regenerated between preview and insert.
func insertableNote(preview *service.Preview) anki.Note {
	note := preview.Note
	if !preview.CanAdd {
		note.Options = &anki.NoteOptions{AllowDuplicate: true}
	}
	return note
}

func (c *console) previewChoice(canAdd bool) (string, error) {
	addLabel := "Add to Anki"
	if !canAdd {
		addLabel = "Add anyway (duplicate)"
	}
	var choice string
	form := huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().
			Title("Keep this card?").
			Options(
				huh.NewOption(addLabel, "add"),
				huh.NewOption("Edit fields first", "edit"),
				huh.NewOption("Regenerate", "regenerate"),
				huh.NewOption("Discard", "discard"),
			).
			Value(&choice),
	))
	if err := form.Run(); err != nil {
		return "", err
	}
	return choice, nil
}

func (c *console) editFields(fields map[string]string) error {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}

	values := make([]string, len(names))
	inputs := make([]huh.Field, 0, len(names))
	for i, name := range names {
		values[i] = fields[name]
		inputs = append(inputs, huh.NewText().Title(name).Lines(3).Value(&values[i]))
	}
	if err := huh.NewForm(huh.NewGroup(inputs...)).Run(); err != nil {
		return err
	}
	for i, name := range names {
		fields[name] = values[i]
	}
	return nil
}

// batchImport reads one word per line from a text file and generates a note
// for each. Failures are reported per word; the run keeps going.
func (c *console) batchImport(ctx context.Context) error {
	var path string
	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Word list file").
			Description("One word or phrase per line. Lines starting with # are skipped.").
			Value(&path).
			Validate(required("file path")),
	))
	if err := form.Run(); err != nil {
		return err
	}

	words, err := readWordFile(path)
	if err != nil {
		return err
	}
	if len(words) == 0 {
		return fmt.Errorf("no words found in %s", path)
	}

	deck, err := c.pickDeck(ctx)
	if err != nil {
		return err
	}
	model, err := c.pickModel(ctx)
	if err != nil {
		return err
	}

	var confirmed bool
	confirm := huh.NewForm(huh.NewGroup(
		huh.NewInput().Title("Target language").Value(&c.lastLanguage).Validate(required("language")),
		huh.NewConfirm().
			Title(fmt.Sprintf("Generate and add %d note(s) to %q?", len(words), deck)).
			Value(&confirmed),
	))
	if err := confirm.Run(); err != nil {
		return err
	}
	if !confirmed {
		return nil
	}

	fmt.Println(dimStyle.Render(fmt.Sprintf("Processing %d word(s)...", len(words))))
	result, err := c.svc.BatchGenerate(ctx, words, deck, model, c.lastLanguage, nil)
	if err != nil {
		return err
	}

	for _, item := range result.Items {
		if item.Success {
			fmt.Println(successStyle.Render(fmt.Sprintf("  ok   %s (note %d)", item.Word, *item.NoteID)))
		} else {
			fmt.Println(errorStyle.Render(fmt.Sprintf("  fail %s: %s", item.Word, item.Error)))
		}
	}
	fmt.Println(titleStyle.Render(fmt.Sprintf(
		"Batch %s: %d succeeded, %d failed (of %d)",
		result.Summary.BatchID, result.Summary.Successful, result.Summary.Failed, result.Summary.Total)))

	c.logger.Info("batch import finished",
		slog.String("batch_id", result.Summary.BatchID),
		slog.Int("successful", result.Summary.Successful),
		slog.Int("failed", result.Summary.Failed))
	return nil
}

func readWordFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open word list: %w", err)
	}
	defer func() { _ = f.Close() }()

	var words []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read word list: %w", err)
	}
	return words, nil
}
