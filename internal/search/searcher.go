// ABOUTME: Interface definition for journal retrieval.
// ABOUTME: Implemented by Service and consumed by the MCP, HTTP, and CLI surfaces.
package search

import (
	"context"
	"time"

	"github.com/2389-research/private-journal/internal/models"
)

// Searcher defines read operations over a journal root.
type Searcher interface {
	// Search ranks entries by similarity to query.
	Search(ctx context.Context, query string, opts Options) ([]models.SearchResult, error)

	// ListRecent returns entries newest first.
	ListRecent(ctx context.Context, opts Options) ([]models.SearchResult, error)

	// ReadEntry returns the raw markdown of one entry.
	ReadEntry(path string) (string, error)
}

var _ Searcher = (*Service)(nil)

// LastDays returns a range covering the days before now, or nil when days <= 0.
func LastDays(now time.Time, days int) *DateRange {
	if days <= 0 {
		return nil
	}
	return &DateRange{Start: now.AddDate(0, 0, -days)}
}
