package domain

// SourceKind tags where a chunk's text came from.
type SourceKind string

const (
	// SourceDocument marks chunks produced from an uploaded document.
	SourceDocument SourceKind = "document"

	// SourceEmail marks chunks produced from an ingested email.
	SourceEmail SourceKind = "email"
)

// Valid reports whether the kind is one of the known source kinds.
func (k SourceKind) Valid() bool {
	return k == SourceDocument || k == SourceEmail
}

// ChunkDraft is a chunker output: a span of text with its counts but no
// identity yet. The vector store assigns ids when drafts are upserted.
type ChunkDraft struct {
	// Text is the chunk body, including any leading overlap words.
	Text string

	// Position is the ordinal position within the source, starting at 0.
	Position int

	// WordCount is the number of whitespace-separated words in Text.
	WordCount int

	// CharCount is len(Text).
	CharCount int
}

// Chunk is a retrievable span of source text owned by exactly one tenant.
// The tenant id is immutable once the chunk is written; it always matches
// the partition holding the chunk.
type Chunk struct {
	// ID is the store-generated identifier, globally unique across tenants.
	ID string

	// TenantID is the owning tenant.
	TenantID TenantID

	// SourceKind is document or email.
	SourceKind SourceKind

	// SourceID identifies the ingested item the chunk came from
	// (a document id or an email's external message id).
	SourceID string

	// Position is the ordinal position within the source.
	Position int

	// Text is the chunk body.
	Text string

	// WordCount is the number of words in Text.
	WordCount int

	// CharCount is len(Text).
	CharCount int

	// Metadata carries source-specific fields: filename for documents,
	// subject/sender/date for emails.
	Metadata map[string]string

	// Embedding is the vector representation, set when the chunk is
	// written and regenerated whenever the text changes. Never shown
	// to users.
	Embedding []float32
}

// Filename returns the document filename from metadata, if present.
func (c *Chunk) Filename() string {
	return c.Metadata["filename"]
}

// Subject returns the email subject from metadata, if present.
func (c *Chunk) Subject() string {
	return c.Metadata["subject"]
}

// Sender returns the email sender from metadata, if present.
func (c *Chunk) Sender() string {
	return c.Metadata["sender"]
}
