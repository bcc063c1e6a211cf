package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/casefile-labs/casefile/internal/adapters/driven/vectorstore/sqlite/migrations"
	"github.com/casefile-labs/casefile/internal/core/domain"
	"github.com/casefile-labs/casefile/internal/core/ports/driven"
)

var _ driven.VectorStore = (*Store)(nil)

// Store is a SQLite-backed vector store. Every tenant gets its own
// database file, opened lazily on first write and cached for the life
// of the store.
type Store struct {
	dataDir string

	mu  sync.Mutex
	dbs map[domain.TenantID]*sql.DB
}

// NewStore creates a vector store rooted at the given data directory.
// If dataDir is empty, defaults to ~/.casefile/data/partitions.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".casefile", "data", "partitions")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &Store{
		dataDir: dataDir,
		dbs:     make(map[domain.TenantID]*sql.DB),
	}, nil
}

// Close closes every open partition.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var firstErr error
	for tenant, db := range s.dbs {
		if err := db.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(s.dbs, tenant)
	}
	return firstErr
}

// partitionPath returns the database file path for a tenant.
func (s *Store) partitionPath(tenant domain.TenantID) string {
	return filepath.Join(s.dataDir, "tenant_"+string(tenant)+".db")
}

// open returns the tenant's partition, creating the database file and
// schema when create is true. When create is false and the file does not
// exist, it returns (nil, nil) so readers can treat the tenant as empty.
func (s *Store) open(tenant domain.TenantID, create bool) (*sql.DB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if db, ok := s.dbs[tenant]; ok {
		return db, nil
	}

	path := s.partitionPath(tenant)
	if !create {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return nil, nil
		}
	}

	// WAL mode for better concurrency between pollers and queries.
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening partition for tenant %s: %w", tenant, err)
	}

	if err := migrate(db, migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating partition for tenant %s: %w", tenant, err)
	}

	s.dbs[tenant] = db
	return db, nil
}

// Upsert writes the whole batch in one transaction so readers never see
// a half-written source.
func (s *Store) Upsert(ctx context.Context, tenant domain.TenantID, kind domain.SourceKind, sourceID string,
	drafts []domain.ChunkDraft, embeddings [][]float32, meta map[string]string) ([]string, error) {
	if err := tenant.Validate(); err != nil {
		return nil, err
	}
	if len(drafts) != len(embeddings) {
		return nil, fmt.Errorf("%w: %d drafts but %d embeddings", domain.ErrInvalidInput, len(drafts), len(embeddings))
	}
	if len(drafts) == 0 {
		return []string{}, nil
	}

	db, err := s.open(tenant, true)
	if err != nil {
		return nil, err
	}

	metadataJSON, err := json.Marshal(orEmptyMeta(meta))
	if err != nil {
		return nil, fmt.Errorf("marshalling metadata: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (id, source_kind, source_id, position, content, word_count, char_count, metadata, embedding)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return nil, fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	ids := make([]string, len(drafts))
	for i, draft := range drafts {
		id := uuid.NewString()
		if _, err := stmt.ExecContext(ctx, id, string(kind), sourceID, draft.Position,
			draft.Text, draft.WordCount, draft.CharCount, string(metadataJSON),
			float32SliceToBytes(embeddings[i])); err != nil {
			return nil, fmt.Errorf("inserting chunk %d of %s/%s: %w", i, kind, sourceID, err)
		}
		ids[i] = id
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}
	return ids, nil
}

// Query ranks the tenant's chunks by cosine similarity to the query
// vector. Ties keep insertion order via the rowid secondary sort.
func (s *Store) Query(ctx context.Context, tenant domain.TenantID, vector []float32, k int,
	filter domain.SourceKind) ([]domain.RetrievedChunk, error) {
	if err := tenant.Validate(); err != nil {
		return nil, err
	}
	if k <= 0 {
		return []domain.RetrievedChunk{}, nil
	}

	db, err := s.open(tenant, false)
	if err != nil {
		return nil, err
	}
	if db == nil {
		return []domain.RetrievedChunk{}, nil
	}

	query := `
		SELECT id, source_kind, source_id, position, content, word_count, char_count, metadata, embedding
		FROM chunks
	`
	args := []any{}
	if filter != "" {
		query += " WHERE source_kind = ?"
		args = append(args, string(filter))
	}
	query += " ORDER BY rowid"

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	var hits []domain.RetrievedChunk
	for rows.Next() {
		chunk, err := scanChunk(rows, tenant)
		if err != nil {
			return nil, err
		}
		hits = append(hits, domain.RetrievedChunk{
			Chunk: *chunk,
			Score: cosineSimilarity(vector, chunk.Embedding),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}

	// Stable sort keeps insertion order among equal scores.
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})
	if len(hits) > k {
		hits = hits[:k]
	}
	if hits == nil {
		hits = []domain.RetrievedChunk{}
	}
	return hits, nil
}

// DeleteBySource removes all chunks of one ingested item.
func (s *Store) DeleteBySource(ctx context.Context, tenant domain.TenantID, kind domain.SourceKind, sourceID string) error {
	if err := tenant.Validate(); err != nil {
		return err
	}

	db, err := s.open(tenant, false)
	if err != nil {
		return err
	}
	if db == nil {
		return nil
	}

	_, err = db.ExecContext(ctx, "DELETE FROM chunks WHERE source_kind = ? AND source_id = ?",
		string(kind), sourceID)
	if err != nil {
		return fmt.Errorf("deleting chunks of %s/%s: %w", kind, sourceID, err)
	}
	return nil
}

// DeleteTenant closes and removes the tenant's partition file.
func (s *Store) DeleteTenant(_ context.Context, tenant domain.TenantID) error {
	if err := tenant.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	if db, ok := s.dbs[tenant]; ok {
		db.Close()
		delete(s.dbs, tenant)
	}
	s.mu.Unlock()

	path := s.partitionPath(tenant)
	for _, p := range []string{path, path + "-wal", path + "-shm"} {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("removing partition file %s: %w", p, err)
		}
	}
	return nil
}

// Stats reports what the tenant's partition currently holds.
func (s *Store) Stats(ctx context.Context, tenant domain.TenantID) (domain.TenantStats, error) {
	if err := tenant.Validate(); err != nil {
		return domain.TenantStats{}, err
	}

	db, err := s.open(tenant, false)
	if err != nil {
		return domain.TenantStats{}, err
	}
	if db == nil {
		return domain.TenantStats{}, nil
	}

	var stats domain.TenantStats
	err = db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COUNT(DISTINCT CASE WHEN source_kind = 'document' THEN source_id END),
			COUNT(DISTINCT CASE WHEN source_kind = 'email' THEN source_id END),
			COALESCE(SUM(CASE WHEN source_kind = 'document' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN source_kind = 'email' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(word_count), 0),
			COALESCE(SUM(char_count), 0)
		FROM chunks
	`).Scan(&stats.TotalChunks, &stats.Documents, &stats.Emails,
		&stats.DocumentChunks, &stats.EmailChunks, &stats.TotalWords, &stats.TotalChars)
	if err != nil {
		return domain.TenantStats{}, fmt.Errorf("querying stats: %w", err)
	}
	return stats, nil
}

// migrate runs all pending migrations on one partition.
func migrate(db *sql.DB, fsys embed.FS) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// scanChunk scans one chunk row.
func scanChunk(rows *sql.Rows, tenant domain.TenantID) (*domain.Chunk, error) {
	var chunk domain.Chunk
	var kind, metadataJSON string
	var embeddingBlob []byte

	if err := rows.Scan(&chunk.ID, &kind, &chunk.SourceID, &chunk.Position,
		&chunk.Text, &chunk.WordCount, &chunk.CharCount, &metadataJSON, &embeddingBlob); err != nil {
		return nil, fmt.Errorf("scanning chunk: %w", err)
	}

	chunk.TenantID = tenant
	chunk.SourceKind = domain.SourceKind(kind)
	chunk.Embedding = bytesToFloat32Slice(embeddingBlob)

	if metadataJSON != "" {
		if err := json.Unmarshal([]byte(metadataJSON), &chunk.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshaling chunk metadata: %w", err)
		}
	}

	return &chunk, nil
}

// cosineSimilarity maps the angle between two vectors to [0,1]-ish
// relevance; a zero vector on either side scores zero.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}

func orEmptyMeta(meta map[string]string) map[string]string {
	if meta == nil {
		return map[string]string{}
	}
	return meta
}
