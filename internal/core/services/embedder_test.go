package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbedBatch_Success(t *testing.T) {
	svc := newMockEmbedding(4)
	e := NewEmbedder(svc)

	vectors := e.EmbedBatch(context.Background(), []string{"first", "second"})

	require.Len(t, vectors, 2)
	for _, v := range vectors {
		assert.Len(t, v, 4)
		assert.False(t, IsZeroVector(v))
	}
}

func TestEmbedBatch_EmptyInput(t *testing.T) {
	e := NewEmbedder(newMockEmbedding(4))
	assert.Nil(t, e.EmbedBatch(context.Background(), nil))
}

func TestEmbedBatch_TruncatesLongInputs(t *testing.T) {
	svc := newMockEmbedding(4)
	e := NewEmbedder(svc, WithMaxInputChars(5))

	e.EmbedBatch(context.Background(), []string{"short", "far too long"})

	batches := svc.receivedBatches()
	require.Len(t, batches, 1)
	assert.Equal(t, []string{"short", "far t"}, batches[0])
}

func TestEmbedBatch_ProviderFailureYieldsZeroVectors(t *testing.T) {
	svc := newMockEmbedding(8)
	svc.err = errors.New("connection refused")
	e := NewEmbedder(svc)

	vectors := e.EmbedBatch(context.Background(), []string{"a", "b", "c"})

	require.Len(t, vectors, 3)
	for _, v := range vectors {
		assert.Len(t, v, 8)
		assert.True(t, IsZeroVector(v))
	}
}

func TestEmbedBatch_CountMismatchYieldsZeroVectors(t *testing.T) {
	svc := newMockEmbedding(4)
	svc.vectors = [][]float32{{1, 2, 3, 4}} // one vector for two inputs
	e := NewEmbedder(svc)

	vectors := e.EmbedBatch(context.Background(), []string{"a", "b"})

	require.Len(t, vectors, 2)
	assert.True(t, IsZeroVector(vectors[0]))
	assert.True(t, IsZeroVector(vectors[1]))
}

func TestEmbedBatch_FillsMissingVectors(t *testing.T) {
	svc := newMockEmbedding(4)
	svc.vectors = [][]float32{{1, 2, 3, 4}, nil}
	e := NewEmbedder(svc)

	vectors := e.EmbedBatch(context.Background(), []string{"a", "b"})

	require.Len(t, vectors, 2)
	assert.Equal(t, []float32{1, 2, 3, 4}, vectors[0])
	require.Len(t, vectors[1], 4)
	assert.True(t, IsZeroVector(vectors[1]))
}

func TestEmbedQuery(t *testing.T) {
	e := NewEmbedder(newMockEmbedding(4))

	v := e.EmbedQuery(context.Background(), "where is the indemnity clause")

	assert.Len(t, v, 4)
	assert.False(t, IsZeroVector(v))
}

func TestIsZeroVector(t *testing.T) {
	assert.True(t, IsZeroVector(nil))
	assert.True(t, IsZeroVector([]float32{0, 0, 0}))
	assert.False(t, IsZeroVector([]float32{0, 0.001, 0}))
}
