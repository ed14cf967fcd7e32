// ABOUTME: Cosine similarity between embedding vectors.
// ABOUTME: Zero-magnitude inputs score 0; mismatched lengths are a programming error.
package embeddings

import (
	"fmt"
	"math"
)

// CosineSimilarity computes the cosine similarity between two vectors.
// It panics if the vectors differ in length.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		panic(fmt.Sprintf("embeddings: cosine similarity of vectors with lengths %d and %d", len(a), len(b)))
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}
