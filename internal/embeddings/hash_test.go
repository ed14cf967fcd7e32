// ABOUTME: Tests for the offline feature-hashing embedder.
// ABOUTME: Checks determinism, normalization, and that related texts score higher.
package embeddings

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func embed(t *testing.T, e Embedder, text string) []float32 {
	t.Helper()
	vec, err := e.Embed(context.Background(), text)
	require.NoError(t, err)
	return vec
}

func TestHashEmbedderDeterministic(t *testing.T) {
	e := NewHashEmbedder(0)
	a := embed(t, e, "Vector embeddings provide semantic understanding of text")
	b := embed(t, NewHashEmbedder(0), "Vector embeddings provide semantic understanding of text")
	assert.Equal(t, a, b)
	assert.Len(t, a, DefaultHashDimension)
}

func TestHashEmbedderNormalized(t *testing.T) {
	vec := embed(t, NewHashEmbedder(64), "normalized vectors have unit length")
	assert.InDelta(t, 1.0, CosineSimilarity(vec, vec), 1e-6)

	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, sum, 1e-5)
}

func TestHashEmbedderStopWordsOnly(t *testing.T) {
	vec := embed(t, NewHashEmbedder(32), "the and of")
	assert.Len(t, vec, 32)
	for _, v := range vec {
		assert.Zero(t, v)
	}
}

func TestHashEmbedderHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewHashEmbedder(8).Embed(ctx, "cancelled")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTokenize(t *testing.T) {
	assert.Equal(t,
		[]string{"feel", "upset", "typescript", "problem"},
		Tokenize("feeling upset about TypeScript problems"),
	)
	assert.Equal(t,
		[]string{"feel", "frustrat", "debugg", "typescript", "error"},
		Tokenize("I feel frustrated with debugging TypeScript errors"),
	)
	assert.Equal(t, []string{"class", "go", "1", "24"}, Tokenize("class Go-1.24"))
}

func TestHashEmbedderRanksRelatedText(t *testing.T) {
	e := NewHashEmbedder(0)
	query := embed(t, e, "feeling upset about TypeScript problems")

	related := CosineSimilarity(query, embed(t, e, "I feel frustrated with debugging TypeScript errors"))
	unrelated := CosineSimilarity(query, embed(t, e, "JavaScript async patterns can be tricky to understand"))
	other := CosineSimilarity(query, embed(t, e, "The React component architecture is working well"))

	assert.Greater(t, related, 0.1)
	assert.Greater(t, related, unrelated)
	assert.Greater(t, related, other)
}
