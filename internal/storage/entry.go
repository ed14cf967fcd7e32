// ABOUTME: Rendering and parsing of journal entry markdown with frontmatter.
// ABOUTME: Also renders keyed thoughts into "## Section" blocks in fixed order.
package storage

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/2389-research/private-journal/internal/models"
)

const (
	titleLayout = "3:04 PM - January 2, 2006"
	dateLayout  = "2006-01-02T15:04:05.000Z"
)

var (
	// ErrUnknownSection is returned for thought keys that are neither a
	// recognized section nor content.
	ErrUnknownSection = errors.New("unknown section")

	// ErrNoThoughts is returned when every supplied thought is empty.
	ErrNoThoughts = errors.New("at least one non-empty section is required")
)

// entryFrontmatter is the YAML frontmatter for journal entry files.
// Date is kept as a node so the raw ISO-8601 text survives decoding.
type entryFrontmatter struct {
	Title     string    `yaml:"title"`
	Date      yaml.Node `yaml:"date"`
	Timestamp int64     `yaml:"timestamp"`
}

// newEntry fills in the frontmatter fields for an entry created at t.
func newEntry(path string, t time.Time, body string) *models.JournalEntry {
	return &models.JournalEntry{
		Path:      path,
		Title:     t.Format(titleLayout),
		Date:      t.UTC().Format(dateLayout),
		Timestamp: t.UnixMilli(),
		Body:      body,
		CreatedAt: t,
	}
}

// renderEntry produces the on-disk markdown for an entry.
func renderEntry(e *models.JournalEntry) string {
	var sb strings.Builder
	sb.WriteString("---\n")
	sb.WriteString("title: " + strconv.Quote(e.Title) + "\n")
	sb.WriteString("date: " + e.Date + "\n")
	sb.WriteString("timestamp: " + strconv.FormatInt(e.Timestamp, 10) + "\n")
	sb.WriteString("---\n\n")
	sb.WriteString(e.Body)
	sb.WriteString("\n")
	return sb.String()
}

// ParseEntry parses a journal markdown file into a JournalEntry.
func ParseEntry(path string, content string) (*models.JournalEntry, error) {
	yamlStr, body, ok := splitFrontmatter(content)
	if !ok {
		return nil, fmt.Errorf("no frontmatter found in %s", path)
	}

	var fm entryFrontmatter
	if err := yaml.Unmarshal([]byte(yamlStr), &fm); err != nil {
		return nil, fmt.Errorf("failed to parse frontmatter: %w", err)
	}

	ts := fm.Timestamp
	if ts == 0 && fm.Date.Value != "" {
		parsed, err := time.Parse(time.RFC3339Nano, fm.Date.Value)
		if err != nil {
			return nil, fmt.Errorf("invalid date in frontmatter: %w", err)
		}
		ts = parsed.UnixMilli()
	}
	if ts == 0 {
		return nil, fmt.Errorf("no timestamp in frontmatter of %s", path)
	}

	return &models.JournalEntry{
		Path:      path,
		Title:     fm.Title,
		Date:      fm.Date.Value,
		Timestamp: ts,
		Body:      strings.TrimSpace(body),
		CreatedAt: time.UnixMilli(ts),
	}, nil
}

// splitFrontmatter separates a leading "---" block from the body.
func splitFrontmatter(content string) (yamlStr, body string, ok bool) {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	if !strings.HasPrefix(content, "---\n") {
		return "", content, false
	}
	rest := content[len("---\n"):]
	end := strings.Index(rest, "\n---\n")
	if end < 0 {
		if strings.HasSuffix(rest, "\n---") {
			return rest[:len(rest)-len("\n---")], "", true
		}
		return "", content, false
	}
	return rest[:end], rest[end+len("\n---\n"):], true
}

// RenderThoughts converts keyed thoughts to a markdown body. Recognized
// sections are emitted in models.ValidSections order; content is emitted
// without a header, ahead of the recognized section that followed it in
// the supplied order. Empty thoughts are omitted.
func RenderThoughts(thoughts models.Thoughts) (string, error) {
	var present []models.Thought
	for _, th := range thoughts {
		if th.Key != models.ContentKey && !models.IsValidSection(th.Key) {
			return "", fmt.Errorf("%w: %q", ErrUnknownSection, th.Key)
		}
		if strings.TrimSpace(th.Text) == "" {
			continue
		}
		present = append(present, th)
	}
	if len(present) == 0 {
		return "", ErrNoThoughts
	}

	// Recognized sections sort on odd ranks; content takes the even rank
	// just below the next recognized section.
	ranks := make([]int, len(present))
	next := len(models.ValidSections)
	for i := len(present) - 1; i >= 0; i-- {
		if r := models.SectionRank(present[i].Key); r >= 0 {
			ranks[i] = 2*r + 1
			next = r
		} else {
			ranks[i] = 2 * next
		}
	}

	order := make([]int, len(present))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return ranks[order[a]] < ranks[order[b]]
	})

	blocks := make([]string, 0, len(present))
	for _, i := range order {
		th := present[i]
		if th.Key == models.ContentKey {
			blocks = append(blocks, th.Text)
			continue
		}
		blocks = append(blocks, fmt.Sprintf("## %s\n\n%s", models.SectionTitle(th.Key), th.Text))
	}
	return strings.Join(blocks, "\n\n"), nil
}
