// ABOUTME: Semantic search and recency listing over journal embedding sidecars.
// ABOUTME: Every call walks the journal root; nothing is cached between calls.
package search

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/2389-research/private-journal/internal/embeddings"
	"github.com/2389-research/private-journal/internal/metrics"
	"github.com/2389-research/private-journal/internal/models"
)

// Defaults applied when Options leaves a field unset.
const (
	DefaultLimit    = 10
	DefaultMinScore = 0.1

	// RecentScore is the fixed score given to recency listings.
	RecentScore = 1.0
)

var (
	// ErrNotFound is returned by ReadEntry for a path that does not exist.
	ErrNotFound = errors.New("journal entry not found")

	// ErrOutsideRoot is returned by ReadEntry for paths outside the journal root.
	ErrOutsideRoot = errors.New("path is outside the journal root")

	// ErrCorruptEntry marks an embedding sidecar that cannot be used.
	ErrCorruptEntry = errors.New("corrupt index entry")

	// ErrEmptyQuery is returned by Search for a blank query.
	ErrEmptyQuery = errors.New("query is required")
)

// DateRange bounds entry timestamps. A zero Start or End leaves that side open.
// Both bounds are inclusive.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether the epoch-millisecond timestamp falls within the range.
func (r *DateRange) Contains(ts int64) bool {
	if r == nil {
		return true
	}
	if !r.Start.IsZero() && ts < r.Start.UnixMilli() {
		return false
	}
	if !r.End.IsZero() && ts > r.End.UnixMilli() {
		return false
	}
	return true
}

// Options configures Search and ListRecent.
type Options struct {
	Limit     int      // <= 0 means DefaultLimit
	MinScore  *float64 // nil means DefaultMinScore; ignored by ListRecent
	Sections  []string // case-insensitive substrings of section names
	DateRange *DateRange
}

// MinScore returns a pointer for Options.MinScore.
func MinScore(v float64) *float64 {
	return &v
}

func (o Options) limit() int {
	if o.Limit <= 0 {
		return DefaultLimit
	}
	return o.Limit
}

func (o Options) minScore() float64 {
	if o.MinScore == nil {
		return DefaultMinScore
	}
	return *o.MinScore
}

// Service searches the embeddings stored under a journal root.
type Service struct {
	root       string
	embeddings *embeddings.Service
	logger     *zap.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger used to report skipped index entries.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService creates a search service over root, sharing the embedding service
// used by the journal manager.
func NewService(root string, svc *embeddings.Service, opts ...Option) (*Service, error) {
	if root == "" {
		return nil, fmt.Errorf("journal root is required")
	}
	if svc == nil {
		return nil, fmt.Errorf("embedding service is required")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve journal root %s: %w", root, err)
	}
	s := &Service{
		root:       abs,
		embeddings: svc,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Root returns the journal root directory.
func (s *Service) Root() string {
	return s.root
}

// Search ranks stored entries by cosine similarity to query. Results are
// ordered by score, then by newest timestamp, then by path.
func (s *Service) Search(ctx context.Context, query string, opts Options) ([]models.SearchResult, error) {
	defer observe("search", time.Now())

	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}

	queryVec, err := s.embeddings.GenerateEmbedding(ctx, query)
	if err != nil {
		return nil, err
	}

	records, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	minScore := opts.minScore()
	results := make([]models.SearchResult, 0, len(records))
	for _, rec := range records {
		if !matches(rec.EmbeddingRecord, opts) {
			continue
		}
		if len(rec.Embedding) != len(queryVec) {
			s.skip(rec.source, fmt.Errorf("%w: %d dimensions, query has %d", ErrCorruptEntry, len(rec.Embedding), len(queryVec)))
			continue
		}

		score := embeddings.CosineSimilarity(queryVec, rec.Embedding)
		if score < minScore {
			continue
		}
		results = append(results, toResult(rec.EmbeddingRecord, score))
	}

	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Timestamp != b.Timestamp {
			return a.Timestamp > b.Timestamp
		}
		return a.Path < b.Path
	})
	results = truncate(results, opts.limit())

	for i := range results {
		results[i].Excerpt = GenerateExcerpt(results[i].Text, query, DefaultExcerptLength)
	}
	return results, nil
}

// ListRecent returns stored entries newest first without computing similarity.
// Every result carries RecentScore.
func (s *Service) ListRecent(ctx context.Context, opts Options) ([]models.SearchResult, error) {
	defer observe("list_recent", time.Now())

	records, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]models.SearchResult, 0, len(records))
	for _, rec := range records {
		if !matches(rec.EmbeddingRecord, opts) {
			continue
		}
		results = append(results, toResult(rec.EmbeddingRecord, RecentScore))
	}

	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.Timestamp != b.Timestamp {
			return a.Timestamp > b.Timestamp
		}
		return a.Path < b.Path
	})
	results = truncate(results, opts.limit())

	for i := range results {
		results[i].Excerpt = GenerateExcerpt(results[i].Text, "", RecentExcerptLength)
	}
	return results, nil
}

// ReadEntry returns the raw markdown of an entry. Relative paths resolve
// against the journal root. A missing file yields ErrNotFound.
func (s *Service) ReadEntry(path string) (string, error) {
	resolved, err := s.resolve(path)
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(resolved)
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read entry: %w", err)
	}
	return string(data), nil
}

func (s *Service) resolve(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("path is required")
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(s.root, path)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("invalid path: %w", err)
	}
	if !strings.HasPrefix(absPath, s.root+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrOutsideRoot, path)
	}
	return absPath, nil
}

func matches(rec models.EmbeddingRecord, opts Options) bool {
	if !opts.DateRange.Contains(rec.Timestamp) {
		return false
	}
	if len(opts.Sections) == 0 {
		return true
	}
	for _, want := range opts.Sections {
		want = strings.ToLower(want)
		for _, have := range rec.Sections {
			if strings.Contains(strings.ToLower(have), want) {
				return true
			}
		}
	}
	return false
}

func toResult(rec models.EmbeddingRecord, score float64) models.SearchResult {
	sections := rec.Sections
	if sections == nil {
		sections = []string{}
	}
	return models.SearchResult{
		Path:      rec.Path,
		Score:     score,
		Text:      rec.Text,
		Sections:  sections,
		Timestamp: rec.Timestamp,
	}
}

func truncate(results []models.SearchResult, limit int) []models.SearchResult {
	if len(results) > limit {
		return results[:limit]
	}
	return results
}

func observe(op string, start time.Time) {
	metrics.SearchRequestsTotal.WithLabelValues(op).Inc()
	metrics.SearchDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}
