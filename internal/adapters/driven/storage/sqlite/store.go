package sqlite

import (
	"context"
	"database/sql"
	"encoding/binary"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/recall/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/recall/internal/core/domain"
	"github.com/custodia-labs/recall/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.ItemStore = (*Store)(nil)

// DatabaseFile is the database file name inside the data directory.
const DatabaseFile = "recall.db"

// Store is a SQLite-backed item store.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.recall/data/recall.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".recall", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, DatabaseFile)

	// Pragmas in the DSN apply to every pooled connection.
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	db, err := sql.Open("sqlite", dsn)
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

// migrate runs all pending migrations, each in its own transaction.
func (s *Store) migrate(fsys fs.FS) error {
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
		if name := entry.Name(); strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_initial.up.sql" -> 1
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
		if err := s.apply(version, string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

func (s *Store) apply(version int, script string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.Exec(script); err != nil {
		return err
	}
	if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
		return err
	}
	return tx.Commit()
}

// CreateItem inserts the item and all of its chunks in one transaction.
func (s *Store) CreateItem(ctx context.Context, item *domain.Item, chunks []domain.Chunk) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storageError("beginning transaction", err)
	}
	defer tx.Rollback() //nolint:errcheck

	_, err = tx.ExecContext(ctx, `
		INSERT INTO items (id, content, source, origin, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, item.ID, item.Content, string(item.Source), item.Origin, item.CreatedAt.UnixNano())
	if err != nil {
		return storageError("inserting item", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (id, item_id, position, chunk_text, embedding)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return storageError("preparing chunk insert", err)
	}
	defer stmt.Close()

	for _, c := range chunks {
		if c.ItemID != item.ID {
			return fmt.Errorf("%w: chunk %s belongs to item %s, not %s", domain.ErrStorage, c.ID, c.ItemID, item.ID)
		}
		if _, err := stmt.ExecContext(ctx, c.ID, c.ItemID, c.Position, c.Text, float32SliceToBytes(c.Embedding)); err != nil {
			return storageError("inserting chunk", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return storageError("committing item", err)
	}
	return nil
}

// GetItem retrieves an item by ID with its chunk count.
func (s *Store) GetItem(ctx context.Context, id string) (*domain.ItemSummary, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT i.id, i.content, i.source, i.origin, i.created_at,
		       (SELECT COUNT(*) FROM chunks c WHERE c.item_id = i.id)
		FROM items i
		WHERE i.id = ?
	`, id)

	summary, err := scanSummary(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, storageError("querying item", err)
	}
	return summary, nil
}

// ListItems returns all items, newest first.
func (s *Store) ListItems(ctx context.Context) ([]domain.ItemSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT i.id, i.content, i.source, i.origin, i.created_at,
		       (SELECT COUNT(*) FROM chunks c WHERE c.item_id = i.id)
		FROM items i
		ORDER BY i.created_at DESC, i.rowid DESC
	`)
	if err != nil {
		return nil, storageError("querying items", err)
	}
	defer rows.Close()

	items := make([]domain.ItemSummary, 0)
	for rows.Next() {
		summary, err := scanSummary(rows)
		if err != nil {
			return nil, storageError("scanning item", err)
		}
		items = append(items, *summary)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("iterating items", err)
	}
	return items, nil
}

// LoadCorpus returns every chunk in insertion order.
func (s *Store) LoadCorpus(ctx context.Context) ([]domain.CorpusEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, item_id, chunk_text, embedding FROM chunks ORDER BY rowid
	`)
	if err != nil {
		return nil, storageError("querying chunks", err)
	}
	defer rows.Close()

	corpus := make([]domain.CorpusEntry, 0)
	for rows.Next() {
		var entry domain.CorpusEntry
		var blob []byte
		if err := rows.Scan(&entry.ChunkID, &entry.ItemID, &entry.Text, &blob); err != nil {
			return nil, storageError("scanning chunk", err)
		}
		if len(blob)%4 != 0 {
			return nil, fmt.Errorf("%w: chunk %s has a %d-byte embedding", domain.ErrStorage, entry.ChunkID, len(blob))
		}
		entry.Vector = bytesToFloat32Slice(blob)
		corpus = append(corpus, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("iterating chunks", err)
	}
	return corpus, nil
}

// CountChunks returns the number of stored chunks.
func (s *Store) CountChunks(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM chunks").Scan(&n); err != nil {
		return 0, storageError("counting chunks", err)
	}
	return n, nil
}

// Reset deletes every item and chunk.
func (s *Store) Reset(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storageError("beginning transaction", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, "DELETE FROM chunks"); err != nil {
		return storageError("deleting chunks", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM items"); err != nil {
		return storageError("deleting items", err)
	}
	if err := tx.Commit(); err != nil {
		return storageError("committing reset", err)
	}
	return nil
}

// ==================== Helper Functions ====================

type scanner interface {
	Scan(dest ...any) error
}

func scanSummary(row scanner) (*domain.ItemSummary, error) {
	var summary domain.ItemSummary
	var source string
	var createdAt int64
	if err := row.Scan(&summary.ID, &summary.Content, &source, &summary.Origin, &createdAt, &summary.Chunks); err != nil {
		return nil, err
	}
	summary.Source = domain.SourceKind(source)
	summary.CreatedAt = time.Unix(0, createdAt).UTC()
	return &summary, nil
}

func storageError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", domain.ErrStorage, op, err)
}

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
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
