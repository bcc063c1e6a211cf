package services

import (
	"context"

	"github.com/casefile-labs/casefile/internal/core/ports/driven"
	"github.com/casefile-labs/casefile/internal/logger"
)

// DefaultMaxInputChars bounds a single embedding input. Provider APIs cap
// request sizes; anything longer is truncated before the call.
const DefaultMaxInputChars = 8000

// Embedder wraps an EmbeddingService with the degradation policy the rest
// of the pipeline relies on: inputs are truncated to the provider limit,
// every request is a single batch, and a failed batch yields zero vectors
// of the expected dimensionality instead of an error. An all-zero vector
// means "unembeddable"; it scores zero in cosine similarity and so ranks
// last, it never crashes retrieval.
type Embedder struct {
	svc      driven.EmbeddingService
	maxChars int
}

// EmbedderOption configures the embedder.
type EmbedderOption func(*Embedder)

// WithMaxInputChars overrides the per-input truncation limit.
func WithMaxInputChars(n int) EmbedderOption {
	return func(e *Embedder) {
		if n > 0 {
			e.maxChars = n
		}
	}
}

// NewEmbedder creates an embedder over the given service.
func NewEmbedder(svc driven.EmbeddingService, opts ...EmbedderOption) *Embedder {
	e := &Embedder{
		svc:      svc,
		maxChars: DefaultMaxInputChars,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Dimensions returns the vector size produced by the underlying service.
func (e *Embedder) Dimensions() int {
	return e.svc.Dimensions()
}

// EmbedBatch embeds all texts in one provider call and returns one vector
// per input, in order. On provider failure it returns zero vectors rather
// than an error.
func (e *Embedder) EmbedBatch(ctx context.Context, texts []string) [][]float32 {
	if len(texts) == 0 {
		return nil
	}

	truncated := make([]string, len(texts))
	for i, t := range texts {
		if len(t) > e.maxChars {
			t = t[:e.maxChars]
		}
		truncated[i] = t
	}

	vectors, err := e.svc.EmbedBatch(ctx, truncated)
	if err != nil || len(vectors) != len(texts) {
		if err != nil {
			logger.Warn("embedding batch of %d failed, falling back to zero vectors: %v", len(texts), err)
		} else {
			logger.Warn("embedding batch returned %d vectors for %d inputs, falling back to zero vectors", len(vectors), len(texts))
		}
		return e.zeroVectors(len(texts))
	}

	// A provider may omit individual vectors; keep positions aligned.
	dims := e.svc.Dimensions()
	for i, v := range vectors {
		if len(v) == 0 {
			vectors[i] = make([]float32, dims)
		}
	}
	return vectors
}

// EmbedQuery embeds a single query string.
func (e *Embedder) EmbedQuery(ctx context.Context, text string) []float32 {
	return e.EmbedBatch(ctx, []string{text})[0]
}

func (e *Embedder) zeroVectors(n int) [][]float32 {
	dims := e.svc.Dimensions()
	vectors := make([][]float32, n)
	for i := range vectors {
		vectors[i] = make([]float32, dims)
	}
	return vectors
}

// IsZeroVector reports whether every component of v is zero.
func IsZeroVector(v []float32) bool {
	for _, x := range v {
		if x != 0 {
			return false
		}
	}
	return true
}
