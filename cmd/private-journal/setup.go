// ABOUTME: Cobra command for interactive journal setup.
// ABOUTME: Launches a bubbletea TUI wizard to choose the journal path and embedding backend.
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/2389-research/private-journal/internal/config"
	"github.com/2389-research/private-journal/internal/tui"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Configure the journal",
	Long:  "Interactive wizard to choose the journal directory and the embedding backend used for search.",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	if err := config.LoadDotEnv(".env"); err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	apiKey := cfg.Embedding.APIKey
	if env := os.Getenv(config.EnvOpenAIKey); env != "" {
		apiKey = env
	}

	model := tui.NewSetupModel(
		cfg.Journal.Path,
		cfg.Embedding.BaseURL,
		cfg.Embedding.Model,
		tui.NewValidator(apiKey),
	)

	p := tea.NewProgram(model)
	result, err := p.Run()
	if err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	final := result.(tui.SetupModel)
	if !final.ShouldSave() {
		fmt.Println("Setup cancelled.")
		return nil
	}

	journalPath, baseURL, embeddingModel := final.Result()
	cfg.Journal.Path = journalPath
	cfg.Embedding.Provider = ""
	cfg.Embedding.BaseURL = baseURL
	cfg.Embedding.Model = embeddingModel

	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	configPath, err := config.GetConfigPath()
	if err != nil {
		fmt.Println("Config saved successfully.")
	} else {
		fmt.Printf("Config saved to %s\n", configPath)
	}
	return nil
}
