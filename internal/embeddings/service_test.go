// ABOUTME: Tests for the shared embedding service.
// ABOUTME: Covers single initialization, model error wrapping, and dimension checks.
package embeddings

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEmbedder returns a scripted vector or error.
type fakeEmbedder struct {
	vec []float32
	err error
}

func (f *fakeEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	return f.vec, f.err
}

func (f *fakeEmbedder) Dimension() int { return len(f.vec) }

func TestServiceLoadsBackendOnce(t *testing.T) {
	var calls atomic.Int32
	svc := NewService(func() (Embedder, error) {
		calls.Add(1)
		return NewHashEmbedder(16), nil
	})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.GenerateEmbedding(context.Background(), "concurrent first use")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
}

func TestServiceFactoryIsLazy(t *testing.T) {
	called := false
	_ = NewService(func() (Embedder, error) {
		called = true
		return NewHashEmbedder(8), nil
	})
	assert.False(t, called, "factory must not run at construction")
}

func TestServiceFactoryFailureIsModelError(t *testing.T) {
	var calls atomic.Int32
	svc := NewService(func() (Embedder, error) {
		calls.Add(1)
		return nil, errors.New("model file missing")
	})

	_, err := svc.GenerateEmbedding(context.Background(), "hello")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrModel)
	assert.Contains(t, err.Error(), "model file missing")

	_, err = svc.GenerateEmbedding(context.Background(), "hello again")
	assert.ErrorIs(t, err, ErrModel)
	assert.Equal(t, int32(1), calls.Load(), "failed load is not retried")
}

func TestServiceNilFactory(t *testing.T) {
	svc := NewService(nil)
	_, err := svc.GenerateEmbedding(context.Background(), "hello")
	assert.ErrorIs(t, err, ErrModel)
}

func TestServiceBackendErrorIsModelError(t *testing.T) {
	svc := NewService(Static(&fakeEmbedder{err: errors.New("inference failed")}))

	_, err := svc.GenerateEmbedding(context.Background(), "hello")
	assert.ErrorIs(t, err, ErrModel)
}

func TestServiceRejectsEmptyVector(t *testing.T) {
	svc := NewService(Static(&fakeEmbedder{vec: []float32{}}))

	_, err := svc.GenerateEmbedding(context.Background(), "hello")
	assert.ErrorIs(t, err, ErrModel)
}

func TestServicePinsDimension(t *testing.T) {
	fake := &fakeEmbedder{vec: []float32{1, 2, 3}}
	svc := NewService(Static(fake))

	_, err := svc.GenerateEmbedding(context.Background(), "first")
	require.NoError(t, err)

	fake.vec = []float32{1, 2}
	_, err = svc.GenerateEmbedding(context.Background(), "second")
	assert.ErrorIs(t, err, ErrModel)

	dim, err := svc.Dimension()
	require.NoError(t, err)
	assert.Equal(t, 3, dim)
}

func TestServiceFixedLengthAcrossCalls(t *testing.T) {
	svc := NewService(Static(NewHashEmbedder(0)))

	texts := []string{
		"This is a test journal entry about TypeScript programming.",
		"short",
		"Another entry with quite a few more words than the others in this list",
	}
	for _, text := range texts {
		vec, err := svc.GenerateEmbedding(context.Background(), text)
		require.NoError(t, err)
		assert.Len(t, vec, DefaultHashDimension)
	}
}

func TestNewFactory(t *testing.T) {
	f, err := NewFactory(BackendConfig{})
	require.NoError(t, err)
	e, err := f()
	require.NoError(t, err)
	assert.Equal(t, DefaultHashDimension, e.Dimension())

	f, err = NewFactory(BackendConfig{Provider: ProviderOpenAI, Model: "nomic-embed-text", Dimensions: 768})
	require.NoError(t, err)
	e, err = f()
	require.NoError(t, err)
	assert.Equal(t, 768, e.Dimension())

	_, err = NewFactory(BackendConfig{Provider: "onnx"})
	assert.Error(t, err)
}
