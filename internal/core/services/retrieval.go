package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/casefile-labs/casefile/internal/core/domain"
	"github.com/casefile-labs/casefile/internal/core/ports/driven"
	"github.com/casefile-labs/casefile/internal/core/ports/driving"
	"github.com/casefile-labs/casefile/internal/logger"
)

// Ensure Retriever implements the interface.
var _ driving.RetrieveService = (*Retriever)(nil)

// Retriever performs similarity search within one tenant's partition.
// The query is embedded exactly once per call.
type Retriever struct {
	embedder *Embedder
	vectors  driven.VectorStore
}

// NewRetriever creates a retriever.
func NewRetriever(embedder *Embedder, vectors driven.VectorStore) *Retriever {
	return &Retriever{
		embedder: embedder,
		vectors:  vectors,
	}
}

// Retrieve embeds the query and returns the most relevant chunks.
// Scores below opts.MinScore (default 0.1) are discarded as noise before
// truncation to opts.TopK. Ties in score keep the store's insertion
// order. An empty query yields no results. An unembeddable query (zero
// vector) scores zero everywhere and therefore yields no results either.
func (r *Retriever) Retrieve(
	ctx context.Context,
	tenant domain.TenantID,
	query string,
	opts domain.RetrievalOptions,
) ([]domain.RetrievedChunk, error) {
	if err := tenant.Validate(); err != nil {
		return nil, err
	}

	query = strings.TrimSpace(query)
	if query == "" {
		logger.Debug("empty query for tenant %s, returning no results", tenant)
		return []domain.RetrievedChunk{}, nil
	}

	if opts.SourceFilter != "" && !opts.SourceFilter.Valid() {
		return nil, fmt.Errorf("%w: source filter %q", domain.ErrInvalidInput, opts.SourceFilter)
	}

	topK := opts.TopK
	if topK <= 0 {
		topK = domain.DefaultTopK
	}
	minScore := opts.MinScore
	if minScore == 0 {
		minScore = domain.DefaultMinScore
	}

	logger.Section("Retrieval")
	logger.Debug("tenant=%s query=%q k=%d filter=%q", tenant, query, topK, opts.SourceFilter)

	vector := r.embedder.EmbedQuery(ctx, query)
	if IsZeroVector(vector) {
		logger.Warn("query embedding unavailable for tenant %s, returning no results", tenant)
		return []domain.RetrievedChunk{}, nil
	}

	hits, err := r.vectors.Query(ctx, tenant, vector, topK, opts.SourceFilter)
	if err != nil {
		return nil, fmt.Errorf("querying partition for tenant %s: %w", tenant, err)
	}

	results := make([]domain.RetrievedChunk, 0, len(hits))
	for _, hit := range hits {
		if hit.Score < minScore {
			continue
		}
		results = append(results, hit)
	}

	logger.Debug("retrieved %d chunks (%d above threshold %.2f)", len(hits), len(results), minScore)
	return results, nil
}
