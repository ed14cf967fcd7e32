// ABOUTME: Local feature-hashing embedder that runs without a model download.
// ABOUTME: Tokenizes, drops stop words, stems lightly, and hashes tokens into a fixed vector.
package embeddings

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
	"unicode"
)

// DefaultHashDimension matches the width of common small sentence models.
const DefaultHashDimension = 384

var stopWords = map[string]bool{}

func init() {
	for _, w := range strings.Fields(`a an and are as at be been but by can could did do does for from
		had has have i in into is it its me my of on or our so that the their them they this to too
		was we were what when which with you your about just very`) {
		stopWords[w] = true
	}
}

// HashEmbedder maps text to a signed bag-of-words vector using FNV-1a.
// Identical token sets give identical vectors in every process.
type HashEmbedder struct {
	dim int
}

// NewHashEmbedder creates a hashing embedder. dim <= 0 selects DefaultHashDimension.
func NewHashEmbedder(dim int) *HashEmbedder {
	if dim <= 0 {
		dim = DefaultHashDimension
	}
	return &HashEmbedder{dim: dim}
}

// Embed implements Embedder.
func (e *HashEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	vec := make([]float32, e.dim)
	for _, tok := range Tokenize(text) {
		h := fnv.New64a()
		_, _ = h.Write([]byte(tok))
		sum := h.Sum64()
		idx := sum % uint64(e.dim)
		if sum>>63 == 1 {
			vec[idx]--
		} else {
			vec[idx]++
		}
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for i := range vec {
			vec[i] = float32(float64(vec[i]) / norm)
		}
	}
	return vec, nil
}

// Dimension implements Embedder.
func (e *HashEmbedder) Dimension() int {
	return e.dim
}

// Tokenize splits text into lower-cased, stemmed content words.
func Tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if stopWords[f] {
			continue
		}
		tokens = append(tokens, stem(f))
	}
	return tokens
}

// stem strips one common English suffix so "feeling" and "feel" share a token.
func stem(t string) string {
	switch {
	case len(t) > 5 && strings.HasSuffix(t, "ing"):
		return t[:len(t)-3]
	case len(t) > 4 && strings.HasSuffix(t, "ed"):
		return t[:len(t)-2]
	case len(t) > 3 && strings.HasSuffix(t, "s") && !strings.HasSuffix(t, "ss"):
		return t[:len(t)-1]
	}
	return t
}
