// ABOUTME: Markdown journal manager writing entries into date-based directories.
// ABOUTME: Indexes each entry with a best-effort embedding sidecar after the primary write.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/renameio/v2"
	"go.uber.org/zap"

	"github.com/2389-research/private-journal/internal/embeddings"
	"github.com/2389-research/private-journal/internal/metrics"
	"github.com/2389-research/private-journal/internal/models"
)

// ErrStorage marks a failure of the primary markdown write.
var ErrStorage = errors.New("journal storage error")

// JournalManager stores journal entries as markdown files under a single root.
type JournalManager struct {
	root       string
	embeddings *embeddings.Service
	logger     *zap.Logger
	now        func() time.Time
}

var _ JournalStore = (*JournalManager)(nil)

// ManagerOption configures a JournalManager.
type ManagerOption func(*JournalManager)

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) ManagerOption {
	return func(m *JournalManager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithClock replaces time.Now for entry timestamps.
func WithClock(now func() time.Time) ManagerOption {
	return func(m *JournalManager) {
		m.now = now
	}
}

// NewJournalManager creates a manager rooted at root, made absolute so that
// returned paths stay valid regardless of the working directory. The embedding
// service is shared with the search service.
func NewJournalManager(root string, svc *embeddings.Service, opts ...ManagerOption) (*JournalManager, error) {
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
	m := &JournalManager{
		root:       abs,
		embeddings: svc,
		logger:     zap.NewNop(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Root returns the storage root directory.
func (m *JournalManager) Root() string {
	return m.root
}

// WriteEntry persists content as a new entry, then indexes it.
func (m *JournalManager) WriteEntry(ctx context.Context, content string) (*WriteResult, error) {
	return m.write(ctx, content)
}

// WriteThoughts renders thoughts into sections and persists them as a new entry.
func (m *JournalManager) WriteThoughts(ctx context.Context, thoughts models.Thoughts) (*WriteResult, error) {
	body, err := RenderThoughts(thoughts)
	if err != nil {
		return nil, err
	}
	return m.write(ctx, body)
}

func (m *JournalManager) write(ctx context.Context, body string) (*WriteResult, error) {
	path, createdAt, err := m.reservePath(m.now())
	if err != nil {
		metrics.EntriesWrittenTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	entry := newEntry(path, createdAt, body)
	document := renderEntry(entry)

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		metrics.EntriesWrittenTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("%w: create day directory: %w", ErrStorage, err)
	}
	if err := renameio.WriteFile(path, []byte(document), 0o600); err != nil {
		metrics.EntriesWrittenTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("%w: write entry %s: %w", ErrStorage, path, err)
	}
	metrics.EntriesWrittenTotal.WithLabelValues("success").Inc()

	result := &WriteResult{Path: path}
	result.EmbeddingPath, result.IndexErr = m.index(ctx, path, document, entry.Timestamp)
	result.Indexed = result.EmbeddingPath != ""
	if result.IndexErr != nil {
		m.logger.Warn("Journal entry written without embedding",
			zap.String("path", path),
			zap.Error(result.IndexErr),
		)
	} else {
		m.logger.Debug("Journal entry written",
			zap.String("path", path),
			zap.Bool("indexed", result.Indexed),
		)
	}
	return result, nil
}

// reservePath picks <root>/<YYYY-MM-DD>/<HH-MM-SS-ffffff>.md for t,
// stepping forward a microsecond at a time past names already on disk.
func (m *JournalManager) reservePath(t time.Time) (string, time.Time, error) {
	t = t.Truncate(time.Microsecond)
	for {
		path := filepath.Join(m.root, t.Format(models.DayLayout), entryFilename(t))
		_, err := os.Stat(path)
		if errors.Is(err, fs.ErrNotExist) {
			return path, t, nil
		}
		if err != nil {
			return "", t, fmt.Errorf("%w: stat %s: %w", ErrStorage, path, err)
		}
		t = t.Add(time.Microsecond)
	}
}

func entryFilename(t time.Time) string {
	return fmt.Sprintf("%s-%06d%s", t.Format(models.FileTimeLayout), t.Nanosecond()/1000, models.EntryExt)
}

// index extracts searchable text from document and writes its embedding
// sidecar. It returns "" with a nil error when there is nothing to index.
func (m *JournalManager) index(ctx context.Context, path, document string, timestamp int64) (string, error) {
	text, sections := m.embeddings.ExtractSearchableText(document)
	if text == "" {
		metrics.IndexWritesTotal.WithLabelValues("skipped").Inc()
		return "", nil
	}

	vec, err := m.embeddings.GenerateEmbedding(ctx, text)
	if err != nil {
		metrics.IndexWritesTotal.WithLabelValues("failed").Inc()
		return "", fmt.Errorf("generate embedding: %w", err)
	}

	embPath, err := WriteEmbedding(models.EmbeddingRecord{
		Path:      path,
		Embedding: vec,
		Text:      text,
		Sections:  sections,
		Timestamp: timestamp,
	})
	if err != nil {
		metrics.IndexWritesTotal.WithLabelValues("failed").Inc()
		return "", err
	}
	metrics.IndexWritesTotal.WithLabelValues("indexed").Inc()
	return embPath, nil
}

// WriteEmbedding writes an embedding sidecar file alongside its journal entry.
func WriteEmbedding(rec models.EmbeddingRecord) (string, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("encode embedding: %w", err)
	}

	embPath := models.EmbeddingPath(rec.Path)
	if err := renameio.WriteFile(embPath, data, 0o600); err != nil {
		return "", fmt.Errorf("write embedding %s: %w", embPath, err)
	}
	return embPath, nil
}

// ReindexStats summarizes a Reindex pass.
type ReindexStats struct {
	Scanned int // entry files seen
	Indexed int // sidecars written
	Skipped int // already indexed, or nothing to index
	Failed  int
}

// Reindex writes sidecars for entries that have none, such as entries
// written while the embedding backend was unavailable. Existing sidecars
// are left untouched.
func (m *JournalManager) Reindex(ctx context.Context) (ReindexStats, error) {
	var stats ReindexStats

	dayDirs, err := os.ReadDir(m.root)
	if errors.Is(err, fs.ErrNotExist) {
		return stats, nil
	}
	if err != nil {
		return stats, fmt.Errorf("%w: read root: %w", ErrStorage, err)
	}

	for _, dayDir := range dayDirs {
		if !dayDir.IsDir() || !models.IsDayDir(dayDir.Name()) {
			continue
		}
		dirPath := filepath.Join(m.root, dayDir.Name())
		files, err := os.ReadDir(dirPath)
		if err != nil {
			m.logger.Warn("Failed to read day directory", zap.String("dir", dirPath), zap.Error(err))
			continue
		}

		for _, file := range files {
			if file.IsDir() || !models.IsEntryFile(file.Name()) {
				continue
			}
			if err := ctx.Err(); err != nil {
				return stats, err
			}
			stats.Scanned++

			path := filepath.Join(dirPath, file.Name())
			if _, err := os.Stat(models.EmbeddingPath(path)); err == nil {
				stats.Skipped++
				continue
			}

			embPath, err := m.reindexFile(ctx, path)
			switch {
			case err != nil:
				stats.Failed++
				m.logger.Warn("Failed to reindex entry", zap.String("path", path), zap.Error(err))
			case embPath == "":
				stats.Skipped++
			default:
				stats.Indexed++
			}
		}
	}

	m.logger.Info("Reindex complete",
		zap.Int("scanned", stats.Scanned),
		zap.Int("indexed", stats.Indexed),
		zap.Int("skipped", stats.Skipped),
		zap.Int("failed", stats.Failed),
	)
	return stats, nil
}

func (m *JournalManager) reindexFile(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	entry, err := ParseEntry(path, string(data))
	if err != nil {
		return "", err
	}
	return m.index(ctx, path, string(data), entry.Timestamp)
}
