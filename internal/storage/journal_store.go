// ABOUTME: Interface definition for journal entry storage.
// ABOUTME: Defines the write contract shared by the MCP, HTTP, and CLI surfaces.
package storage

import (
	"context"

	"github.com/2389-research/private-journal/internal/models"
)

// JournalStore defines operations for journal entry persistence.
type JournalStore interface {
	// WriteEntry persists freeform content as a new journal entry.
	WriteEntry(ctx context.Context, content string) (*WriteResult, error)

	// WriteThoughts renders keyed sections into a new journal entry.
	WriteThoughts(ctx context.Context, thoughts models.Thoughts) (*WriteResult, error)

	// Root returns the storage root directory.
	Root() string
}

// WriteResult reports both outcomes of a write: the markdown entry, which
// always exists when the write returns without error, and the embedding
// sidecar, which is best-effort.
type WriteResult struct {
	Path          string
	EmbeddingPath string
	Indexed       bool
	IndexErr      error
}
