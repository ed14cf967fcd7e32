// ABOUTME: CLI commands for journal operations.
// ABOUTME: Provides write, thoughts, search, list, read, and reindex subcommands.
package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/2389-research/private-journal/internal/models"
	"github.com/2389-research/private-journal/internal/search"
	"github.com/2389-research/private-journal/internal/storage"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Manage journal entries",
	Long:  "Write, search, list, and read private journal entries.",
}

var journalWriteCmd = &cobra.Command{
	Use:   "write <content>",
	Short: "Write a freeform journal entry",
	Long:  "Create a journal entry from the given text. Multiple arguments are joined with spaces.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runJournalWrite,
}

var journalThoughtsCmd = &cobra.Command{
	Use:   "thoughts",
	Short: "Write a journal entry with sections",
	Long:  "Create a journal entry with one or more titled sections.",
	RunE:  runJournalThoughts,
}

var journalSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search journal entries",
	Long:  "Search journal entries by semantic similarity to the query.",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalSearch,
}

var journalListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent journal entries",
	Long:  "List indexed journal entries, newest first.",
	RunE:  runJournalList,
}

var journalReadCmd = &cobra.Command{
	Use:   "read <path>",
	Short: "Read a journal entry",
	Long:  "Read a journal entry by file path. Relative paths are resolved against the journal root.",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalRead,
}

var journalReindexCmd = &cobra.Command{
	Use:   "reindex",
	Short: "Index entries that have no embedding",
	Long:  "Write embedding sidecars for entries saved while the embedding backend was unavailable.",
	RunE:  runJournalReindex,
}

// Section flags, keyed by thoughts key.
var thoughtFlags = map[string]*string{
	models.ContentKey:    new(string),
	"feelings":           new(string),
	"project_notes":      new(string),
	"user_context":       new(string),
	"technical_insights": new(string),
	"world_knowledge":    new(string),
}

var (
	searchLimit    int
	searchMinScore float64
	searchSections []string
	searchDays     int

	listLimit int
	listDays  int
)

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.AddCommand(journalWriteCmd)
	journalCmd.AddCommand(journalThoughtsCmd)
	journalCmd.AddCommand(journalSearchCmd)
	journalCmd.AddCommand(journalListCmd)
	journalCmd.AddCommand(journalReadCmd)
	journalCmd.AddCommand(journalReindexCmd)

	journalThoughtsCmd.Flags().StringVar(thoughtFlags[models.ContentKey], "content", "", "Freeform text written before any section")
	for _, key := range models.ValidSections {
		name := strings.ReplaceAll(key, "_", "-")
		journalThoughtsCmd.Flags().StringVar(thoughtFlags[key], name, "", models.SectionTitle(key)+" section content")
	}

	journalSearchCmd.Flags().IntVar(&searchLimit, "limit", search.DefaultLimit, "Maximum number of results")
	journalSearchCmd.Flags().Float64Var(&searchMinScore, "min-score", search.DefaultMinScore, "Minimum similarity score")
	journalSearchCmd.Flags().StringSliceVar(&searchSections, "sections", nil, "Only match entries with one of these sections")
	journalSearchCmd.Flags().IntVar(&searchDays, "days", 0, "Only match entries from the last N days (0 for all)")

	journalListCmd.Flags().IntVar(&listLimit, "limit", search.DefaultLimit, "Maximum number of entries to show")
	journalListCmd.Flags().IntVar(&listDays, "days", 30, "Number of days back to list")
}

func runJournalWrite(cmd *cobra.Command, args []string) error {
	result, err := globalJournal.WriteEntry(cmd.Context(), strings.Join(args, " "))
	if err != nil {
		return fmt.Errorf("failed to write entry: %w", err)
	}
	printWriteResult(cmd.OutOrStdout(), cmd.ErrOrStderr(), result)
	return nil
}

func runJournalThoughts(cmd *cobra.Command, args []string) error {
	supplied := make(map[string]string)
	for key, value := range thoughtFlags {
		if *value != "" {
			supplied[key] = *value
		}
	}
	thoughts := models.ThoughtsFromMap(supplied)

	result, err := globalJournal.WriteThoughts(cmd.Context(), thoughts)
	if errors.Is(err, storage.ErrNoThoughts) {
		return fmt.Errorf("at least one section is required (--content, --feelings, --project-notes, --user-context, --technical-insights, --world-knowledge)")
	}
	if err != nil {
		return fmt.Errorf("failed to write entry: %w", err)
	}

	keys := make([]string, 0, len(thoughts))
	for _, th := range thoughts {
		keys = append(keys, th.Key)
	}
	printWriteResult(cmd.OutOrStdout(), cmd.ErrOrStderr(), result)
	fmt.Fprintf(cmd.OutOrStdout(), "Sections: %s\n", strings.Join(keys, ", "))
	return nil
}

func printWriteResult(out, errOut io.Writer, result *storage.WriteResult) {
	fmt.Fprintf(out, "Journal entry written: %s\n", result.Path)
	if !result.Indexed && result.IndexErr != nil {
		fmt.Fprintf(errOut, "Warning: entry saved but not indexed for search: %v\n", result.IndexErr)
	}
}

func runJournalSearch(cmd *cobra.Command, args []string) error {
	opts := search.Options{
		Limit:     searchLimit,
		MinScore:  search.MinScore(searchMinScore),
		Sections:  searchSections,
		DateRange: search.LastDays(time.Now(), searchDays),
	}

	results, err := globalSearch.Search(cmd.Context(), args[0], opts)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(results) == 0 {
		fmt.Fprintln(out, "No matching entries found.")
		return nil
	}
	for _, r := range results {
		fmt.Fprintf(out, "--- %s (%.3f) %s\n", r.Time().Format("2006-01-02 15:04:05"), r.Score, r.Path)
		if len(r.Sections) > 0 {
			fmt.Fprintf(out, "  Sections: %s\n", strings.Join(r.Sections, ", "))
		}
		fmt.Fprintf(out, "  %s\n\n", r.Excerpt)
	}
	return nil
}

func runJournalList(cmd *cobra.Command, args []string) error {
	opts := search.Options{
		Limit:     listLimit,
		DateRange: search.LastDays(time.Now(), listDays),
	}

	results, err := globalSearch.ListRecent(cmd.Context(), opts)
	if err != nil {
		return fmt.Errorf("failed to list entries: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(results) == 0 {
		fmt.Fprintln(out, "No entries found.")
		return nil
	}
	for _, r := range results {
		fmt.Fprintf(out, "%s (%s) %s\n",
			r.Time().Format("2006-01-02 15:04:05"),
			strings.Join(r.Sections, ", "),
			r.Path,
		)
	}
	return nil
}

func runJournalRead(cmd *cobra.Command, args []string) error {
	content, err := globalSearch.ReadEntry(args[0])
	if err != nil {
		return fmt.Errorf("failed to read entry: %w", err)
	}

	out := cmd.OutOrStdout()
	entry, err := storage.ParseEntry(args[0], content)
	if err != nil {
		// Not one of ours; show it as-is.
		fmt.Fprint(out, content)
		return nil
	}

	fmt.Fprintf(out, "%s\n", entry.Title)
	fmt.Fprintf(out, "Date: %s\n\n", entry.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintln(out, entry.Body)
	return nil
}

func runJournalReindex(cmd *cobra.Command, args []string) error {
	stats, err := globalJournal.Reindex(cmd.Context())
	if err != nil {
		return fmt.Errorf("reindex failed: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Scanned %d entries: %d indexed, %d skipped, %d failed\n",
		stats.Scanned, stats.Indexed, stats.Skipped, stats.Failed)
	return nil
}
