package driving

import (
	"context"

	"github.com/casefile-labs/casefile/internal/core/domain"
)

// RetrieveService provides similarity search within one tenant.
type RetrieveService interface {
	// Retrieve embeds the query and returns the most relevant chunks,
	// ranked by similarity, filtered and truncated per opts.
	Retrieve(ctx context.Context, tenant domain.TenantID, query string,
		opts domain.RetrievalOptions) ([]domain.RetrievedChunk, error)
}
