// ABOUTME: Shared embedding service with one-time backend initialization.
// ABOUTME: Wraps backend failures as ModelErrors and enforces a fixed dimensionality.
package embeddings

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/2389-research/private-journal/internal/metrics"
)

// ErrModel marks a failure of the embedding backend itself.
var ErrModel = errors.New("embedding model error")

// Service is the process-wide embedding service shared by the journal
// manager and the search service. It is safe for concurrent use.
type Service struct {
	factory Factory
	name    string
	logger  *zap.Logger

	once    sync.Once
	backend Embedder
	initErr error

	mu  sync.Mutex
	dim int
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger used for backend lifecycle messages.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithBackendName sets the backend label used in logs and metrics.
func WithBackendName(name string) Option {
	return func(s *Service) {
		s.name = name
	}
}

// NewService creates a Service. The factory is not invoked until the
// first embedding is requested.
func NewService(factory Factory, opts ...Option) *Service {
	s := &Service{
		factory: factory,
		name:    ProviderHash,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) load() (Embedder, error) {
	s.once.Do(func() {
		start := time.Now()
		if s.factory == nil {
			s.initErr = errors.New("no embedding backend configured")
		} else {
			s.backend, s.initErr = s.factory()
		}
		if s.initErr != nil {
			s.logger.Error("Failed to load embedding backend",
				zap.String("backend", s.name),
				zap.Error(s.initErr),
			)
			return
		}
		s.logger.Info("Embedding backend loaded",
			zap.String("backend", s.name),
			zap.Int("dimension", s.backend.Dimension()),
			zap.Duration("took", time.Since(start)),
		)
	})
	if s.initErr != nil {
		return nil, fmt.Errorf("%w: load %s backend: %w", ErrModel, s.name, s.initErr)
	}
	return s.backend, nil
}

// GenerateEmbedding returns the embedding for text. Callers must not pass
// empty or whitespace-only text.
func (s *Service) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	backend, err := s.load()
	if err != nil {
		return nil, err
	}

	start := time.Now()
	vec, err := backend.Embed(ctx, text)
	metrics.EmbeddingRequestDuration.WithLabelValues(s.name).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.EmbeddingRequestsTotal.WithLabelValues(s.name, "error").Inc()
		return nil, fmt.Errorf("%w: %w", ErrModel, err)
	}
	if len(vec) == 0 {
		metrics.EmbeddingRequestsTotal.WithLabelValues(s.name, "error").Inc()
		return nil, fmt.Errorf("%w: backend returned an empty vector", ErrModel)
	}
	if err := s.checkDimension(len(vec)); err != nil {
		metrics.EmbeddingRequestsTotal.WithLabelValues(s.name, "error").Inc()
		return nil, err
	}

	metrics.EmbeddingRequestsTotal.WithLabelValues(s.name, "success").Inc()
	return vec, nil
}

// checkDimension pins the dimensionality to the first vector produced.
func (s *Service) checkDimension(n int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dim == 0 {
		s.dim = n
		return nil
	}
	if s.dim != n {
		return fmt.Errorf("%w: backend returned %d dimensions, expected %d", ErrModel, n, s.dim)
	}
	return nil
}

// Dimension returns the vector length produced by the backend, loading it if needed.
func (s *Service) Dimension() (int, error) {
	s.mu.Lock()
	dim := s.dim
	s.mu.Unlock()
	if dim > 0 {
		return dim, nil
	}
	backend, err := s.load()
	if err != nil {
		return 0, err
	}
	return backend.Dimension(), nil
}

// Name returns the backend label.
func (s *Service) Name() string {
	return s.name
}

// ExtractSearchableText strips frontmatter and headers from a journal document.
func (s *Service) ExtractSearchableText(markdown string) (text string, sections []string) {
	return ExtractSearchableText(markdown)
}

// CosineSimilarity compares two vectors of equal length.
func (s *Service) CosineSimilarity(a, b []float32) float64 {
	return CosineSimilarity(a, b)
}
