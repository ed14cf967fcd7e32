// ABOUTME: Tests for MCP server creation and validation.
// ABOUTME: Verifies server requires both a journal store and a search service.
package mcp

import (
	"path/filepath"
	"testing"

	"github.com/2389-research/private-journal/internal/embeddings"
	"github.com/2389-research/private-journal/internal/search"
	"github.com/2389-research/private-journal/internal/storage"
)

func newStores(t *testing.T, backend embeddings.Embedder) (*storage.JournalManager, *search.Service) {
	t.Helper()
	root := filepath.Join(t.TempDir(), "journal")
	svc := embeddings.NewService(embeddings.Static(backend))
	journal, err := storage.NewJournalManager(root, svc)
	if err != nil {
		t.Fatalf("NewJournalManager error: %v", err)
	}
	searcher, err := search.NewService(root, svc)
	if err != nil {
		t.Fatalf("search.NewService error: %v", err)
	}
	return journal, searcher
}

func TestNewServerRequiresJournalStore(t *testing.T) {
	_, searcher := newStores(t, embeddings.NewHashEmbedder(0))

	_, err := NewServer(nil, searcher)
	if err == nil {
		t.Error("expected error when journal store is nil")
	}
}

func TestNewServerRequiresSearcher(t *testing.T) {
	journal, _ := newStores(t, embeddings.NewHashEmbedder(0))

	_, err := NewServer(journal, nil)
	if err == nil {
		t.Error("expected error when search service is nil")
	}
}

func TestNewServerSuccess(t *testing.T) {
	journal, searcher := newStores(t, embeddings.NewHashEmbedder(0))

	server, err := NewServer(journal, searcher, WithLogger(nil), WithClock(nil))
	if err != nil {
		t.Fatalf("NewServer error: %v", err)
	}
	if server == nil {
		t.Fatal("expected non-nil server")
	}
	if server.logger == nil || server.now == nil {
		t.Error("expected nil options to keep defaults")
	}
}
