// ABOUTME: MCP server initialization and configuration for private-journal.
// ABOUTME: Sets up the stdio server with the journal tools for AI agent access.
package mcp

import (
	"context"
	"fmt"
	"time"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/2389-research/private-journal/internal/search"
	"github.com/2389-research/private-journal/internal/storage"
)

// Version is reported to MCP clients during initialization.
var Version = "1.0.0"

// Server wraps the MCP server with journal storage and retrieval.
type Server struct {
	mcp     *gomcp.Server
	journal storage.JournalStore
	search  search.Searcher
	logger  *zap.Logger
	now     func() time.Time
}

// ServerOption configures optional Server dependencies.
type ServerOption func(*Server)

// WithLogger sets the logger used for tool failures.
func WithLogger(logger *zap.Logger) ServerOption {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the clock used to turn "days" arguments into date ranges.
func WithClock(now func() time.Time) ServerOption {
	return func(s *Server) {
		if now != nil {
			s.now = now
		}
	}
}

// NewServer creates an MCP server exposing the journal tools.
func NewServer(journal storage.JournalStore, searcher search.Searcher, opts ...ServerOption) (*Server, error) {
	if journal == nil {
		return nil, fmt.Errorf("journal store is required")
	}
	if searcher == nil {
		return nil, fmt.Errorf("search service is required")
	}

	mcpServer := gomcp.NewServer(
		&gomcp.Implementation{
			Name:    "private-journal",
			Version: Version,
		},
		nil,
	)

	s := &Server{
		mcp:     mcpServer,
		journal: journal,
		search:  searcher,
		logger:  zap.NewNop(),
		now:     time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.registerJournalTools()

	return s, nil
}

// Serve starts the MCP server in stdio mode.
func (s *Server) Serve(ctx context.Context) error {
	s.logger.Info("MCP server listening on stdio")
	return s.mcp.Run(ctx, &gomcp.StdioTransport{})
}
