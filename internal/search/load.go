// ABOUTME: Loading of embedding sidecars from the day directories of a journal root.
// ABOUTME: Unreadable or malformed sidecars are logged and skipped, never fatal.
package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/2389-research/private-journal/internal/metrics"
	"github.com/2389-research/private-journal/internal/models"
)

// loadedRecord remembers which sidecar a record came from for logging.
type loadedRecord struct {
	models.EmbeddingRecord
	source string
}

// load reads every sidecar under <root>/<YYYY-MM-DD>/. A missing root is empty.
func (s *Service) load(ctx context.Context) ([]loadedRecord, error) {
	dayDirs, err := os.ReadDir(s.root)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn("Failed to read journal root", zap.String("root", s.root), zap.Error(err))
		}
		return nil, nil
	}

	var records []loadedRecord
	for _, dayDir := range dayDirs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !models.IsDayDir(dayDir.Name()) {
			continue
		}
		dayPath := filepath.Join(s.root, dayDir.Name())
		info, err := os.Stat(dayPath)
		if err != nil || !info.IsDir() {
			continue
		}

		files, err := os.ReadDir(dayPath)
		if err != nil {
			s.logger.Warn("Failed to read day directory", zap.String("dir", dayPath), zap.Error(err))
			continue
		}

		for _, file := range files {
			if file.IsDir() || !models.IsEmbeddingFile(file.Name()) {
				continue
			}
			path := filepath.Join(dayPath, file.Name())
			rec, err := readRecord(path)
			if err != nil {
				s.skip(path, err)
				continue
			}
			records = append(records, loadedRecord{EmbeddingRecord: rec, source: path})
		}
	}
	return records, nil
}

func readRecord(path string) (models.EmbeddingRecord, error) {
	var rec models.EmbeddingRecord

	data, err := os.ReadFile(path)
	if err != nil {
		return rec, fmt.Errorf("%w: %w", ErrCorruptEntry, err)
	}
	if err := json.Unmarshal(data, &rec); err != nil {
		return rec, fmt.Errorf("%w: %w", ErrCorruptEntry, err)
	}
	if rec.Path == "" {
		return rec, fmt.Errorf("%w: missing path", ErrCorruptEntry)
	}
	if len(rec.Embedding) == 0 {
		return rec, fmt.Errorf("%w: missing embedding", ErrCorruptEntry)
	}
	return rec, nil
}

func (s *Service) skip(path string, err error) {
	metrics.CorruptEntriesTotal.Inc()
	s.logger.Warn("Skipping index entry", zap.String("path", path), zap.Error(err))
}
