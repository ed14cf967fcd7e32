// ABOUTME: MCP tool implementations for journal operations.
// ABOUTME: Registers process_thoughts, search_journal, read_journal_entry, list_recent_entries.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/2389-research/private-journal/internal/embeddings"
	"github.com/2389-research/private-journal/internal/models"
	"github.com/2389-research/private-journal/internal/search"
	"github.com/2389-research/private-journal/internal/storage"
)

const (
	defaultRecentDays = 30
	timeLayout        = "2006-01-02 15:04:05"
)

var validKeys = strings.Join(append([]string{models.ContentKey}, models.ValidSections...), ", ")

func (s *Server) registerJournalTools() {
	s.mcp.AddTool(&gomcp.Tool{
		Name:        "process_thoughts",
		Description: "Write to your private journal. At least one section is required. Sections: feelings, project_notes, user_context, technical_insights, world_knowledge. Use content for freeform text without a heading. Entries are indexed for semantic search.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"feelings": {"type": "string", "description": "Your private space to be completely honest about what you're feeling and thinking."},
				"project_notes": {"type": "string", "description": "Private technical laboratory for capturing insights about the current project."},
				"user_context": {"type": "string", "description": "Private field notes about working with your human collaborator."},
				"technical_insights": {"type": "string", "description": "Private software engineering notebook for broader learnings."},
				"world_knowledge": {"type": "string", "description": "Private learning journal for everything else interesting or useful."},
				"content": {"type": "string", "description": "Freeform text written without a section heading."}
			}
		}`),
	}, s.handleProcessThoughts)

	s.mcp.AddTool(&gomcp.Tool{
		Name:        "search_journal",
		Description: "Search through your private journal entries by meaning. Returns entries ranked by semantic similarity with excerpts.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"query": {"type": "string", "description": "Natural language search query"},
				"limit": {"type": "number", "description": "Maximum number of results (default 10)"},
				"min_score": {"type": "number", "description": "Minimum similarity score between -1 and 1 (default 0.1)"},
				"sections": {"type": "array", "items": {"type": "string"}, "description": "Only return entries with a matching section heading"},
				"days": {"type": "number", "description": "Only search entries from the last N days"}
			},
			"required": ["query"]
		}`),
	}, s.handleSearchJournal)

	s.mcp.AddTool(&gomcp.Tool{
		Name:        "read_journal_entry",
		Description: "Read the full content of a specific journal entry by file path.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"path": {"type": "string", "description": "File path to the journal entry, as returned by search_journal"}
			},
			"required": ["path"]
		}`),
	}, s.handleReadJournalEntry)

	s.mcp.AddTool(&gomcp.Tool{
		Name:        "list_recent_entries",
		Description: "Get recent journal entries, newest first.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"days": {"type": "number", "description": "Number of days back to list (default: 30)"},
				"limit": {"type": "number", "description": "Maximum number of entries to return (default: 10)"}
			}
		}`),
	}, s.handleListRecentEntries)
}

func (s *Server) handleProcessThoughts(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	var thoughts models.Thoughts
	if err := decodeArgs(req.Params.Arguments, &thoughts); err != nil {
		return toolError("invalid arguments: %v", err), nil
	}

	var unknownKeys []string
	for _, th := range thoughts {
		if th.Key != models.ContentKey && !models.IsValidSection(th.Key) {
			unknownKeys = append(unknownKeys, th.Key)
		}
	}
	if len(unknownKeys) > 0 {
		return toolError("unknown section(s): %s. Valid sections: %s", strings.Join(unknownKeys, ", "), validKeys), nil
	}

	res, err := s.journal.WriteThoughts(ctx, thoughts)
	if errors.Is(err, storage.ErrNoThoughts) {
		return toolError("at least one section is required (%s)", validKeys), nil
	}
	if err != nil {
		s.logger.Error("Failed to write journal entry", zap.Error(err))
		return toolError("failed to write entry: %v", err), nil
	}

	var written []string
	for _, th := range thoughts {
		if strings.TrimSpace(th.Text) != "" {
			written = append(written, th.Key)
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Journal entry written: %s\nPath: %s", strings.Join(written, ", "), res.Path)
	if res.IndexErr != nil {
		fmt.Fprintf(&sb, "\nWarning: entry saved but not indexed for search: %v", res.IndexErr)
	}

	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: sb.String()}},
	}, nil
}

func (s *Server) handleSearchJournal(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	var args struct {
		Query    string   `json:"query"`
		Limit    float64  `json:"limit"`
		MinScore *float64 `json:"min_score"`
		Sections []string `json:"sections"`
		Days     float64  `json:"days"`
	}
	if err := decodeArgs(req.Params.Arguments, &args); err != nil {
		return toolError("invalid arguments: %v", err), nil
	}

	if strings.TrimSpace(args.Query) == "" {
		return toolError("query is required"), nil
	}

	results, err := s.search.Search(ctx, args.Query, search.Options{
		Limit:     int(args.Limit),
		MinScore:  args.MinScore,
		Sections:  args.Sections,
		DateRange: search.LastDays(s.now(), int(args.Days)),
	})
	if err != nil {
		if errors.Is(err, embeddings.ErrModel) {
			s.logger.Warn("Search unavailable", zap.Error(err))
			return toolError("search is unavailable: %v", err), nil
		}
		return toolError("search failed: %v", err), nil
	}

	if len(results) == 0 {
		return &gomcp.CallToolResult{
			Content: []gomcp.Content{&gomcp.TextContent{Text: "No matching entries found."}},
		}, nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d matching entries:\n", len(results))
	for i, r := range results {
		sb.WriteString("\n")
		fmt.Fprintf(&sb, "%d. [score %.3f] %s", i+1, r.Score, r.Time().Format(timeLayout))
		if len(r.Sections) > 0 {
			fmt.Fprintf(&sb, " (%s)", strings.Join(r.Sections, ", "))
		}
		fmt.Fprintf(&sb, "\n   Path: %s\n   %s\n", r.Path, r.Excerpt)
	}

	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: sb.String()}},
	}, nil
}

func (s *Server) handleReadJournalEntry(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	var args struct {
		Path string `json:"path"`
	}
	if err := decodeArgs(req.Params.Arguments, &args); err != nil {
		return toolError("invalid arguments: %v", err), nil
	}

	if args.Path == "" {
		return toolError("path is required"), nil
	}

	content, err := s.search.ReadEntry(args.Path)
	switch {
	case errors.Is(err, search.ErrNotFound):
		return toolError("entry not found: %s", args.Path), nil
	case errors.Is(err, search.ErrOutsideRoot):
		return toolError("path is outside the journal: %s", args.Path), nil
	case err != nil:
		return toolError("failed to read entry: %v", err), nil
	}

	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: content}},
	}, nil
}

func (s *Server) handleListRecentEntries(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	var args struct {
		Days  float64 `json:"days"`
		Limit float64 `json:"limit"`
	}
	if err := decodeArgs(req.Params.Arguments, &args); err != nil {
		return toolError("invalid arguments: %v", err), nil
	}

	// Schema numbers may be fractional; counts are truncated.
	days, limit := int(args.Days), int(args.Limit)
	if days <= 0 {
		days = defaultRecentDays
	}

	results, err := s.search.ListRecent(ctx, search.Options{
		Limit:     limit,
		DateRange: search.LastDays(s.now(), days),
	})
	if err != nil {
		return toolError("failed to list entries: %v", err), nil
	}

	if len(results) == 0 {
		return &gomcp.CallToolResult{
			Content: []gomcp.Content{&gomcp.TextContent{Text: fmt.Sprintf("No entries found in the last %d days.", days)}},
		}, nil
	}

	var sb strings.Builder
	for i, r := range results {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "- %s", r.Time().Format(timeLayout))
		if len(r.Sections) > 0 {
			fmt.Fprintf(&sb, " (%s)", strings.Join(r.Sections, ", "))
		}
		fmt.Fprintf(&sb, " %s\n  %s\n", r.Path, r.Excerpt)
	}

	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: sb.String()}},
	}, nil
}

// toolError creates an error result for MCP tool responses.
func toolError(format string, args ...interface{}) *gomcp.CallToolResult {
	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: fmt.Sprintf(format, args...)}},
		IsError: true,
	}
}

// decodeArgs unmarshals tool arguments. Clients may omit arguments entirely.
func decodeArgs(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, v)
}
