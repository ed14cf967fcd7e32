// ABOUTME: Validation of wizard settings before they are saved.
// ABOUTME: Checks the journal directory is writable and the embedding endpoint answers.
package tui

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/2389-research/private-journal/internal/config"
	"github.com/2389-research/private-journal/internal/embeddings"
)

const validateTimeout = 10 * time.Second

// NewValidator returns a ValidateFn that authenticates remote embedding
// requests with apiKey.
func NewValidator(apiKey string) ValidateFn {
	return func(ctx context.Context, journalPath, baseURL, model string) error {
		return ValidateSetup(ctx, journalPath, baseURL, model, apiKey)
	}
}

// ValidateSetup creates the journal directory, checks it accepts files, and,
// when baseURL is set, requests one embedding from it. The context allows
// cancellation when the user quits during validation.
func ValidateSetup(ctx context.Context, journalPath, baseURL, model, apiKey string) error {
	path, err := config.ExpandPath(journalPath)
	if err != nil {
		return err
	}
	if path == "" {
		return fmt.Errorf("journal path is required")
	}
	if err := os.MkdirAll(path, 0o750); err != nil {
		return fmt.Errorf("cannot create journal directory: %w", err)
	}
	probe, err := os.CreateTemp(path, ".write-check-*")
	if err != nil {
		return fmt.Errorf("journal directory is not writable: %w", err)
	}
	_ = probe.Close()
	_ = os.Remove(probe.Name())

	if baseURL == "" {
		return nil
	}

	embedder, err := embeddings.NewOpenAIEmbedder(embeddings.OpenAIConfig{
		APIKey:     apiKey,
		BaseURL:    baseURL,
		Model:      model,
		HTTPClient: &http.Client{Timeout: validateTimeout},
	})
	if err != nil {
		return err
	}
	vec, err := embedder.Embed(ctx, "connection check")
	if err != nil {
		return fmt.Errorf("embedding request failed: %w", err)
	}
	if len(vec) == 0 {
		return fmt.Errorf("embedding endpoint returned an empty vector")
	}
	return nil
}
