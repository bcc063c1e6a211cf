package domain

// RetrievalOptions configures a similarity search within one tenant.
type RetrievalOptions struct {
	// TopK is the maximum number of results. Defaults to 5 when <= 0.
	TopK int

	// SourceFilter restricts results to one source kind.
	// Empty searches both documents and emails.
	SourceFilter SourceKind

	// MinScore discards results scoring below it before truncation to
	// TopK. Defaults to 0.1 when zero; set negative to disable.
	MinScore float64
}

// DefaultTopK is the number of chunks retrieved when the caller does not say.
const DefaultTopK = 5

// DefaultMinScore is the similarity floor below which results are treated
// as noise.
const DefaultMinScore = 0.1

// RetrievedChunk is one similarity hit: a chunk and its score.
// Results are ephemeral and never persisted.
type RetrievedChunk struct {
	// Chunk is the matched chunk.
	Chunk Chunk

	// Score is cosine similarity mapped to [0,1] via 1 - distance.
	// Higher is more relevant. Ties preserve the store's insertion order.
	Score float64
}
