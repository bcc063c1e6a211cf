// Package sqlite provides a SQLite-backed vector store with one database
// file per tenant.
//
// Partitioning model:
//
// Each tenant's chunks live in their own database file named
// tenant_<id>.db under the data directory. The partition identity is
// derived from the tenant id, so a query can only ever touch the file
// belonging to the tenant it was given. Cross-tenant reads cannot be
// expressed, not even by a bug that forgets a WHERE clause.
//
// Embeddings are stored as little-endian float32 blobs. Similarity
// search loads the tenant's candidate chunks and ranks them by cosine
// similarity in process, which is well within budget for per-client
// corpus sizes of documents and email.
//
// Schema changes are managed through numbered migrations in the
// migrations/ directory. Each migration is a pair of .up.sql and
// .down.sql files.
package sqlite
