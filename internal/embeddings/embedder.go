// ABOUTME: Embedding interface and backend selection for journal indexing.
// ABOUTME: Provides a local hashing backend and an OpenAI-compatible remote backend.
package embeddings

import (
	"context"
	"fmt"
)

// Embedder generates vector embeddings from text.
type Embedder interface {
	// Embed returns a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Dimension returns the dimensionality of the output vectors,
	// or 0 if it is not known until the first call.
	Dimension() int
}

// Backend provider names.
const (
	ProviderHash   = "hash"
	ProviderOpenAI = "openai"
)

// BackendConfig selects and configures an embedding backend.
type BackendConfig struct {
	Provider   string
	BaseURL    string
	Model      string
	APIKey     string
	Dimensions int
}

// Factory builds an embedding backend. The Service calls it at most once.
type Factory func() (Embedder, error)

// Static returns a Factory that always yields e.
func Static(e Embedder) Factory {
	return func() (Embedder, error) { return e, nil }
}

// NewFactory returns a Factory for the configured backend. Nothing is
// loaded until the factory runs.
func NewFactory(cfg BackendConfig) (Factory, error) {
	switch cfg.Provider {
	case "", ProviderHash:
		dim := cfg.Dimensions
		return func() (Embedder, error) {
			return NewHashEmbedder(dim), nil
		}, nil
	case ProviderOpenAI:
		oc := OpenAIConfig{
			APIKey:     cfg.APIKey,
			BaseURL:    cfg.BaseURL,
			Model:      cfg.Model,
			Dimensions: cfg.Dimensions,
		}
		return func() (Embedder, error) {
			return NewOpenAIEmbedder(oc)
		}, nil
	default:
		return nil, fmt.Errorf("unknown embedding provider %q (valid: %s, %s)", cfg.Provider, ProviderHash, ProviderOpenAI)
	}
}
