package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/ankigen/ankigen/internal/config"
)

// editSettings updates the provider and connection settings and persists
// them to the env file. Provider changes take effect on the next start.
func (c *console) editSettings(ctx context.Context) error {
	provider := c.cfg.LLM.Provider
	model := c.cfg.LLM.Model
	ankiHost := c.cfg.Anki.Host
	ankiPort := strconv.Itoa(c.cfg.Anki.Port)
	tags := strings.Join(c.cfg.Anki.DefaultTags, ",")
	customEndpoint := c.cfg.LLM.CustomEndpoint
	var geminiKey, openaiKey, customKey string

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("LLM provider").
				Options(
					huh.NewOption("Gemini", config.ProviderGemini),
					huh.NewOption("OpenAI", config.ProviderOpenAI),
					huh.NewOption("Custom (OpenAI-compatible)", config.ProviderCustom),
				).
				Value(&provider),
			huh.NewInput().
				Title("Model (empty = provider default)").
				Value(&model),
		),
		huh.NewGroup(
			huh.NewInput().Title("AnkiConnect host").Value(&ankiHost).Validate(required("host")),
			huh.NewInput().Title("AnkiConnect port").Value(&ankiPort).Validate(validatePort),
			huh.NewInput().Title("Default tags (comma separated)").Value(&tags),
		),
		huh.NewGroup(
			huh.NewInput().Title("Gemini API key (empty = keep current)").EchoMode(huh.EchoModePassword).Value(&geminiKey),
			huh.NewInput().Title("OpenAI API key (empty = keep current)").EchoMode(huh.EchoModePassword).Value(&openaiKey),
			huh.NewInput().Title("Custom API key (empty = keep current)").EchoMode(huh.EchoModePassword).Value(&customKey),
			huh.NewInput().Title("Custom endpoint").Value(&customEndpoint),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}

	c.cfg.LLM.Provider = provider
	c.cfg.LLM.Model = model
	c.cfg.Anki.Host = ankiHost
	c.cfg.Anki.Port, _ = strconv.Atoi(ankiPort)
	c.cfg.Anki.DefaultTags = splitTags(tags)
	c.cfg.LLM.CustomEndpoint = customEndpoint
	if geminiKey != "" {
		c.cfg.LLM.GeminiAPIKey = geminiKey
	}
	if openaiKey != "" {
		c.cfg.LLM.OpenAIAPIKey = openaiKey
	}
	if customKey != "" {
		c.cfg.LLM.CustomAPIKey = customKey
	}

	if err := config.SaveEnv(config.DefaultEnvFile, c.cfg); err != nil {
		return err
	}

	fmt.Println(successStyle.Render("Settings saved to " + config.DefaultEnvFile))
	fmt.Println(dimStyle.Render("Provider and connection changes apply on the next start."))
	return nil
}

func validatePort(s string) error {
	port, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("port must be a number between 1 and 65535")
	}
	return nil
}
