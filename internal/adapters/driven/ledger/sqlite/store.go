// Package sqlite provides the SQLite-backed metadata store: tenant
// registrations, the ingestion ledger and conversation history. All
// three live in one metadata.db file; chunk content and embeddings live
// in the per-tenant partition files of the vector store.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/casefile-labs/casefile/internal/adapters/driven/ledger/sqlite/migrations"
	"github.com/casefile-labs/casefile/internal/core/domain"
	"github.com/casefile-labs/casefile/internal/core/ports/driven"
)

// Store is a unified SQLite-based metadata store that provides access to
// the tenant, ledger and turn store interfaces through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.casefile/data/metadata.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".casefile", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "metadata.db")

	// WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// TenantStore returns a TenantStore interface backed by this store.
func (s *Store) TenantStore() driven.TenantStore {
	return &tenantStore{store: s}
}

// ItemLedger returns an ItemLedger interface backed by this store.
func (s *Store) ItemLedger() driven.ItemLedger {
	return &itemLedger{store: s}
}

// TurnStore returns a TurnStore interface backed by this store.
func (s *Store) TurnStore() driven.TurnStore {
	return &turnStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
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
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Tenant Store ====================

// tenantStore implements driven.TenantStore.
type tenantStore struct {
	store *Store
}

var _ driven.TenantStore = (*tenantStore)(nil)

// Create registers a tenant. Creating an existing tenant updates its name.
func (s *tenantStore) Create(ctx context.Context, tenant domain.Tenant) error {
	if err := tenant.ID.Validate(); err != nil {
		return err
	}

	if tenant.CreatedAt.IsZero() {
		tenant.CreatedAt = time.Now().UTC()
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO tenants (id, name, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name
	`, string(tenant.ID), tenant.Name, tenant.CreatedAt)
	if err != nil {
		return fmt.Errorf("saving tenant: %w", err)
	}
	return nil
}

// Exists reports whether the tenant is registered.
func (s *tenantStore) Exists(ctx context.Context, id domain.TenantID) (bool, error) {
	var count int
	err := s.store.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM tenants WHERE id = ?", string(id)).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking tenant: %w", err)
	}
	return count > 0, nil
}

// List returns all registered tenants.
func (s *tenantStore) List(ctx context.Context) ([]domain.Tenant, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, name, created_at FROM tenants ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying tenants: %w", err)
	}
	defer rows.Close()

	var tenants []domain.Tenant //nolint:prealloc // size unknown from query
	for rows.Next() {
		var tenant domain.Tenant
		var id string
		var createdAt sql.NullTime
		if err := rows.Scan(&id, &tenant.Name, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning tenant: %w", err)
		}
		tenant.ID = domain.TenantID(id)
		if createdAt.Valid {
			tenant.CreatedAt = createdAt.Time
		}
		tenants = append(tenants, tenant)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tenants: %w", err)
	}
	return tenants, nil
}

// Delete removes a tenant registration. Idempotent.
func (s *tenantStore) Delete(ctx context.Context, id domain.TenantID) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM tenants WHERE id = ?", string(id))
	if err != nil {
		return fmt.Errorf("deleting tenant: %w", err)
	}
	return nil
}

// ==================== Item Ledger ====================

// itemLedger implements driven.ItemLedger.
type itemLedger struct {
	store *Store
}

var _ driven.ItemLedger = (*itemLedger)(nil)

// IsKnown reports whether the external id was already ingested.
func (s *itemLedger) IsKnown(ctx context.Context, tenant domain.TenantID, kind domain.SourceKind, externalID string) (bool, error) {
	var count int
	err := s.store.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM ingested_items
		WHERE tenant_id = ? AND source_kind = ? AND external_id = ?
	`, string(tenant), string(kind), externalID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking ledger: %w", err)
	}
	return count > 0, nil
}

// Record marks an external id as ingested. Recording a known id is a no-op.
func (s *itemLedger) Record(ctx context.Context, tenant domain.TenantID, kind domain.SourceKind, externalID string, ingestedAt time.Time) error {
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO ingested_items (tenant_id, source_kind, external_id, ingested_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(tenant_id, source_kind, external_id) DO NOTHING
	`, string(tenant), string(kind), externalID, ingestedAt.UTC())
	if err != nil {
		return fmt.Errorf("recording ledger entry: %w", err)
	}
	return nil
}

// ForgetSource removes the record for one item. No-op if absent.
func (s *itemLedger) ForgetSource(ctx context.Context, tenant domain.TenantID, kind domain.SourceKind, externalID string) error {
	_, err := s.store.db.ExecContext(ctx, `
		DELETE FROM ingested_items
		WHERE tenant_id = ? AND source_kind = ? AND external_id = ?
	`, string(tenant), string(kind), externalID)
	if err != nil {
		return fmt.Errorf("forgetting ledger entry: %w", err)
	}
	return nil
}

// ForgetTenant removes all records for a tenant. Idempotent.
func (s *itemLedger) ForgetTenant(ctx context.Context, tenant domain.TenantID) error {
	_, err := s.store.db.ExecContext(ctx,
		"DELETE FROM ingested_items WHERE tenant_id = ?", string(tenant))
	if err != nil {
		return fmt.Errorf("clearing ledger: %w", err)
	}
	return nil
}

// ==================== Turn Store ====================

// turnStore implements driven.TurnStore.
type turnStore struct {
	store *Store
}

var _ driven.TurnStore = (*turnStore)(nil)

// Append stores a completed turn.
func (s *turnStore) Append(ctx context.Context, turn domain.ConversationTurn) error {
	if err := turn.TenantID.Validate(); err != nil {
		return err
	}

	sourcesJSON, err := json.Marshal(turn.Sources)
	if err != nil {
		return fmt.Errorf("marshalling sources: %w", err)
	}

	if turn.CreatedAt.IsZero() {
		turn.CreatedAt = time.Now().UTC()
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO conversation_turns (tenant_id, question, answer, sources, tokens_used, response_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, string(turn.TenantID), turn.Question, turn.Answer, string(sourcesJSON),
		turn.TokensUsed, turn.ResponseTime.Milliseconds(), turn.CreatedAt)
	if err != nil {
		return fmt.Errorf("saving turn: %w", err)
	}
	return nil
}

// Recent returns the most recent n turns for a tenant, oldest first.
func (s *turnStore) Recent(ctx context.Context, tenant domain.TenantID, n int) ([]domain.ConversationTurn, error) {
	if n <= 0 {
		return []domain.ConversationTurn{}, nil
	}

	rows, err := s.store.db.QueryContext(ctx, `
		SELECT tenant_id, question, answer, sources, tokens_used, response_ms, created_at
		FROM conversation_turns
		WHERE tenant_id = ?
		ORDER BY id DESC
		LIMIT ?
	`, string(tenant), n)
	if err != nil {
		return nil, fmt.Errorf("querying turns: %w", err)
	}
	defer rows.Close()

	var turns []domain.ConversationTurn //nolint:prealloc // size unknown from query
	for rows.Next() {
		var turn domain.ConversationTurn
		var tenantID, sourcesJSON string
		var responseMs int64
		var createdAt sql.NullTime
		if err := rows.Scan(&tenantID, &turn.Question, &turn.Answer, &sourcesJSON,
			&turn.TokensUsed, &responseMs, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning turn: %w", err)
		}

		turn.TenantID = domain.TenantID(tenantID)
		turn.ResponseTime = time.Duration(responseMs) * time.Millisecond
		if createdAt.Valid {
			turn.CreatedAt = createdAt.Time
		}
		if err := json.Unmarshal([]byte(sourcesJSON), &turn.Sources); err != nil {
			return nil, fmt.Errorf("unmarshaling sources: %w", err)
		}
		turns = append(turns, turn)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating turns: %w", err)
	}

	// Query is newest-first for the LIMIT; reverse to oldest-first.
	for i, j := 0, len(turns)-1; i < j; i, j = i+1, j-1 {
		turns[i], turns[j] = turns[j], turns[i]
	}
	return turns, nil
}

// DeleteTenant removes all turns for a tenant. Idempotent.
func (s *turnStore) DeleteTenant(ctx context.Context, tenant domain.TenantID) error {
	_, err := s.store.db.ExecContext(ctx,
		"DELETE FROM conversation_turns WHERE tenant_id = ?", string(tenant))
	if err != nil {
		return fmt.Errorf("clearing turns: %w", err)
	}
	return nil
}
