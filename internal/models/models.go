// ABOUTME: Core data models for journal entries, embedding sidecars, and search results.
// ABOUTME: Also holds the recognized thought sections and their rendering titles.
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Layout formats for the on-disk journal tree.
const (
	DayLayout      = "2006-01-02"
	FileTimeLayout = "15-04-05"

	EntryExt     = ".md"
	EmbeddingExt = ".embedding"
)

var (
	dayDirPattern    = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	entryFilePattern = regexp.MustCompile(`^\d{2}-\d{2}-\d{2}-\d{6}\.md$`)
	sidecarPattern   = regexp.MustCompile(`^\d{2}-\d{2}-\d{2}-\d{6}\.embedding$`)
)

// IsDayDir reports whether name looks like a YYYY-MM-DD day directory.
func IsDayDir(name string) bool {
	return dayDirPattern.MatchString(name)
}

// IsEntryFile reports whether name looks like an HH-MM-SS-ffffff.md entry file.
func IsEntryFile(name string) bool {
	return entryFilePattern.MatchString(name)
}

// IsEmbeddingFile reports whether name looks like an HH-MM-SS-ffffff.embedding sidecar.
func IsEmbeddingFile(name string) bool {
	return sidecarPattern.MatchString(name)
}

// EmbeddingPath returns the sidecar path for a journal entry path.
func EmbeddingPath(entryPath string) string {
	return strings.TrimSuffix(entryPath, EntryExt) + EmbeddingExt
}

// JournalEntry is a single markdown note as written to disk.
type JournalEntry struct {
	Path      string
	Title     string
	Date      string // ISO-8601, UTC
	Timestamp int64  // epoch milliseconds
	Body      string
	CreatedAt time.Time
}

// EmbeddingRecord is the JSON sidecar stored next to a journal entry.
type EmbeddingRecord struct {
	Path      string    `json:"path"`
	Embedding []float32 `json:"embedding"`
	Text      string    `json:"text"`
	Sections  []string  `json:"sections"`
	Timestamp int64     `json:"timestamp"`
}

// SearchResult is a ranked hit returned by search and recency listings.
type SearchResult struct {
	Path      string   `json:"path"`
	Score     float64  `json:"score"`
	Text      string   `json:"text"`
	Sections  []string `json:"sections"`
	Timestamp int64    `json:"timestamp"`
	Excerpt   string   `json:"excerpt"`
}

// Time returns the result timestamp as a time.Time.
func (r SearchResult) Time() time.Time {
	return time.UnixMilli(r.Timestamp)
}

// ContentKey is the thoughts key for freeform text written without a header.
const ContentKey = "content"

// ValidSections lists the recognized thought sections in emission order.
var ValidSections = []string{
	"feelings",
	"project_notes",
	"user_context",
	"technical_insights",
	"world_knowledge",
}

// IsValidSection returns true if the given section name is valid.
func IsValidSection(name string) bool {
	return SectionRank(name) >= 0
}

// SectionRank returns the emission index of a recognized section, or -1.
func SectionRank(name string) int {
	for i, s := range ValidSections {
		if s == name {
			return i
		}
	}
	return -1
}

// SectionTitle converts a snake_case section name to a Title Case heading.
func SectionTitle(name string) string {
	parts := strings.Split(name, "_")
	for i, part := range parts {
		if len(part) > 0 {
			parts[i] = strings.ToUpper(part[:1]) + part[1:]
		}
	}
	return strings.Join(parts, " ")
}

// SectionKey converts a Title Case heading to a snake_case key.
func SectionKey(heading string) string {
	parts := strings.Fields(strings.ToLower(heading))
	return strings.Join(parts, "_")
}

// Thought is one keyed piece of text handed to the journal.
type Thought struct {
	Key  string
	Text string
}

// Thoughts keeps the order in which keys were supplied.
type Thoughts []Thought

// Get returns the text for key and whether it was supplied.
func (t Thoughts) Get(key string) (string, bool) {
	if i := t.index(key); i >= 0 {
		return t[i].Text, true
	}
	return "", false
}

// ThoughtsFromMap builds Thoughts from a map in the fixed section order,
// with any content first.
func ThoughtsFromMap(m map[string]string) Thoughts {
	var out Thoughts
	if text, ok := m[ContentKey]; ok {
		out = append(out, Thought{Key: ContentKey, Text: text})
	}
	for _, name := range ValidSections {
		if text, ok := m[name]; ok {
			out = append(out, Thought{Key: name, Text: text})
		}
	}
	return out
}

// UnmarshalJSON decodes a JSON object of string values, keeping key order.
// A repeated key keeps its first position and its last value. Null values are
// skipped.
func (t *Thoughts) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("thoughts must be a JSON object")
	}

	var out Thoughts
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key := tok.(string)

		var text *string
		if err := dec.Decode(&text); err != nil {
			return fmt.Errorf("thought %q must be a string", key)
		}
		if text == nil {
			continue
		}
		if i := out.index(key); i >= 0 {
			out[i].Text = *text
			continue
		}
		out = append(out, Thought{Key: key, Text: *text})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*t = out
	return nil
}

func (t Thoughts) index(key string) int {
	for i, th := range t {
		if th.Key == key {
			return i
		}
	}
	return -1
}
