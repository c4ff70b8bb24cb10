package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/ankigen/ankigen/internal/anki"
	"github.com/ankigen/ankigen/internal/service"
)

func (c *console) testConnection(ctx context.Context) error {
	if err := c.svc.TestConnection(ctx); err != nil {
		return err
	}
	fmt.Println(successStyle.Render(
		fmt.Sprintf("Connected to AnkiConnect at %s:%d", c.cfg.Anki.Host, c.cfg.Anki.Port)))
	return nil
}

func (c *console) listDecks(ctx context.Context) error {
	decks, err := c.svc.DeckNames(ctx)
	if err != nil {
		return err
	}
	fmt.Println(titleStyle.Render(fmt.Sprintf("Decks (%d)", len(decks))))
	for _, deck := range decks {
		fmt.Println("  " + deck)
	}
	return nil
}

func (c *console) createDeck(ctx context.Context) error {
	var name string
	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Deck name (use :: for subdecks)").
			Value(&name).
			Validate(required("deck name")),
	))
	if err := form.Run(); err != nil {
		return err
	}

	deckID, err := c.svc.CreateDeck(ctx, name)
	if err != nil {
		return err
	}
	fmt.Println(successStyle.Render(fmt.Sprintf("Created deck %q (id %d)", name, deckID)))
	return nil
}

func (c *console) listModels(ctx context.Context) error {
	models, err := c.svc.ModelNames(ctx)
	if err != nil {
		return err
	}
	fmt.Println(titleStyle.Render(fmt.Sprintf("Note types (%d)", len(models))))
	for _, model := range models {
		fmt.Println("  " + model)
	}
	return nil
}

func (c *console) showModelFields(ctx context.Context) error {
	model, err := c.pickModel(ctx)
	if err != nil {
		return err
	}
	fields, err := c.svc.ModelFieldNames(ctx, model)
	if err != nil {
		return err
	}
	fmt.Println(titleStyle.Render(model))
	for i, field := range fields {
		fmt.Printf("  %d. %s\n", i+1, field)
	}
	return nil
}

func (c *console) searchNotes(ctx context.Context) error {
	var query string
	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Anki search query").
			Description(`e.g. deck:"Vocabulary" hello  or  tag:llm-generated`).
			Value(&query).
			Validate(required("query")),
	))
	if err := form.Run(); err != nil {
		return err
	}

	notes, err := c.svc.SearchNotes(ctx, query)
	if err != nil {
		return err
	}
	if len(notes) == 0 {
		fmt.Println(dimStyle.Render("No notes found."))
		return nil
	}

	fmt.Println(titleStyle.Render(fmt.Sprintf("Found %d note(s)", len(notes))))
	for _, note := range notes {
		fmt.Println(renderNoteInfo(note))
	}
	return nil
}

func (c *console) checkDuplicate(ctx context.Context) error {
	deck, err := c.pickDeck(ctx)
	if err != nil {
		return err
	}

	var word string
	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().Title("Word or phrase").Value(&word).Validate(required("word")),
	))
	if err := form.Run(); err != nil {
		return err
	}

	query := fmt.Sprintf("deck:%q %q", deck, word)
	notes, err := c.svc.SearchNotes(ctx, query)
	if err != nil {
		return err
	}
	if len(notes) == 0 {
		fmt.Println(successStyle.Render(fmt.Sprintf("No existing note for %q in %q.", word, deck)))
		return nil
	}

	fmt.Println(errorStyle.Render(fmt.Sprintf("Found %d matching note(s):", len(notes))))
	for _, note := range notes {
		fmt.Println(renderNoteInfo(note))
	}
	return nil
}

func (c *console) addManualNote(ctx context.Context) error {
	deck, err := c.pickDeck(ctx)
	if err != nil {
		return err
	}
	model, err := c.pickModel(ctx)
	if err != nil {
		return err
	}
	fieldNames, err := c.svc.ModelFieldNames(ctx, model)
	if err != nil {
		return err
	}

	values := make([]string, len(fieldNames))
	inputs := make([]huh.Field, 0, len(fieldNames)+1)
	for i, name := range fieldNames {
		inputs = append(inputs, huh.NewText().Title(name).Lines(2).Value(&values[i]))
	}
	var tagLine string
	inputs = append(inputs, huh.NewInput().
		Title("Tags (comma separated, optional)").
		Value(&tagLine))

	if err := huh.NewForm(huh.NewGroup(inputs...)).Run(); err != nil {
		return err
	}

	fields := make(map[string]string, len(fieldNames))
	for i, name := range fieldNames {
		fields[name] = values[i]
	}

	note := anki.Note{
		DeckName:  deck,
		ModelName: model,
		Fields:    fields,
		Tags:      splitTags(tagLine),
	}

	noteID, err := c.svc.AddNote(ctx, note)
	if err != nil {
		return err
	}
	fmt.Println(successStyle.Render(fmt.Sprintf("Added note %d to %q.", noteID, deck)))
	return nil
}

func (c *console) pickDeck(ctx context.Context) (string, error) {
	decks, err := c.svc.DeckNames(ctx)
	if err != nil {
		return "", err
	}
	var deck string
	form := huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().
			Title("Deck").
			Options(huh.NewOptions(decks...)...).
			Value(&deck),
	))
	if err := form.Run(); err != nil {
		return "", err
	}
	return deck, nil
}

func (c *console) pickModel(ctx context.Context) (string, error) {
	models, err := c.svc.ModelNames(ctx)
	if err != nil {
		return "", err
	}
	var model string
	form := huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().
			Title("Note type").
			Options(huh.NewOptions(models...)...).
			Value(&model),
	))
	if err := form.Run(); err != nil {
		return "", err
	}
	return model, nil
}

func renderNoteInfo(note anki.NoteInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %d (%s)", fieldStyle.Render("note"), note.NoteID, note.ModelName)
	if len(note.Tags) > 0 {
		fmt.Fprintf(&b, "  [%s]", strings.Join(note.Tags, ", "))
	}
	for name, value := range note.Fields {
		text := value.Value
		if len(text) > 80 {
			text = text[:77] + "..."
		}
		fmt.Fprintf(&b, "\n    %s: %s", name, text)
	}
	return b.String()
}

func renderPreview(preview *service.Preview) string {
	var b strings.Builder
	for name, value := range preview.Fields {
		fmt.Fprintf(&b, "%s: %s\n", fieldStyle.Render(name), value)
	}
	fmt.Fprintf(&b, "%s: %s", fieldStyle.Render("tags"), strings.Join(preview.Note.Tags, ", "))
	if !preview.CanAdd {
		b.WriteString("\n" + errorStyle.Render("Anki would reject this note (duplicate?)"))
	}
	return previewStyle.Render(b.String())
}

func required(what string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", what)
		}
		return nil
	}
}

func splitTags(line string) []string {
	parts := strings.Split(line, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if tag := strings.TrimSpace(p); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}
