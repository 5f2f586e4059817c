// Package sqlitevec implements the preferred persistent tier: vectors
// and their filterable attributes are stored durably in SQLite while a
// pure-Go in-memory index answers kNN queries.
//
// Writes go to disk first, then to memory; a write failure is surfaced
// to the caller because data safety takes priority over availability on
// the ingest path. Reads are served entirely from memory, so search
// keeps working even if the disk becomes read-only.
package sqlitevec

import (
	"context"
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/localrag/internal/adapters/driven/vector/bruteforce"
	"github.com/custodia-labs/localrag/internal/core/domain"
	"github.com/custodia-labs/localrag/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorBackend = (*Index)(nil)

// Index persists vectors in SQLite and searches them in memory.
type Index struct {
	db   *sql.DB
	mem  *bruteforce.Index
	path string
}

// New opens or creates the vector index under the given data directory
// and loads all persisted vectors into memory.
func New(dataDir string, dimension int) (*Index, error) {
	if dataDir == "" {
		return nil, fmt.Errorf("sqlitevec: %w: data directory required", domain.ErrInvalidInput)
	}
	if dimension <= 0 {
		return nil, fmt.Errorf("sqlitevec: %w: dimension must be positive", domain.ErrInvalidInput)
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "vectors.db")
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening vector database: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS vectors (
			id         TEXT PRIMARY KEY,
			embedding  BLOB NOT NULL,
			doc_type   TEXT NOT NULL DEFAULT '',
			metadata   TEXT NOT NULL DEFAULT '{}',
			created_at DATETIME NOT NULL
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating vectors table: %w", err)
	}

	idx := &Index{
		db:   db,
		mem:  bruteforce.New(dimension),
		path: dbPath,
	}

	if err := idx.load(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("loading vectors: %w", err)
	}

	return idx, nil
}

// Tier identifies this implementation.
func (idx *Index) Tier() domain.Tier {
	return domain.TierSQLiteVec
}

// Ping validates both the database handle and the in-memory index.
func (idx *Index) Ping(ctx context.Context) error {
	if err := idx.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrVectorIndexUnavailable, err)
	}
	return idx.mem.Ping(ctx)
}

// Path returns the vector database file path.
func (idx *Index) Path() string {
	return idx.path
}

// Add persists the vector, then mirrors it into memory.
func (idx *Index) Add(
	ctx context.Context, id string, embedding []float32, attrs driven.IndexAttributes,
) error {
	metadataJSON, err := json.Marshal(attrs.Metadata)
	if err != nil {
		return fmt.Errorf("marshalling metadata: %w", err)
	}

	if attrs.CreatedAt.IsZero() {
		attrs.CreatedAt = time.Now().UTC()
	}

	_, err = idx.db.ExecContext(ctx, `
		INSERT INTO vectors (id, embedding, doc_type, metadata, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			embedding = excluded.embedding,
			doc_type = excluded.doc_type,
			metadata = excluded.metadata,
			created_at = excluded.created_at
	`, id, float32SliceToBytes(embedding), attrs.DocType, string(metadataJSON), attrs.CreatedAt)
	if err != nil {
		return fmt.Errorf("persisting vector: %w", err)
	}

	return idx.mem.Add(ctx, id, embedding, attrs)
}

// Remove deletes a vector from disk and memory.
func (idx *Index) Remove(ctx context.Context, id string) error {
	if _, err := idx.db.ExecContext(ctx, "DELETE FROM vectors WHERE id = ?", id); err != nil {
		return fmt.Errorf("deleting vector: %w", err)
	}
	return idx.mem.Remove(ctx, id)
}

// Search delegates to the in-memory index.
func (idx *Index) Search(
	ctx context.Context, query []float32, k int, filter *domain.Filter,
) ([]driven.VectorHit, error) {
	return idx.mem.Search(ctx, query, k, filter)
}

// Clear removes every vector from disk and memory.
func (idx *Index) Clear(ctx context.Context) error {
	if _, err := idx.db.ExecContext(ctx, "DELETE FROM vectors"); err != nil {
		return fmt.Errorf("clearing vectors: %w", err)
	}
	return idx.mem.Clear(ctx)
}

// Close releases the database handle and the in-memory index.
func (idx *Index) Close() error {
	if err := idx.mem.Close(); err != nil {
		return err
	}
	return idx.db.Close()
}

// load reads all persisted vectors into the in-memory index.
func (idx *Index) load(ctx context.Context) error {
	rows, err := idx.db.QueryContext(ctx, `
		SELECT id, embedding, doc_type, metadata, created_at FROM vectors
	`)
	if err != nil {
		return fmt.Errorf("querying vectors: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id, docType, metadataJSON string
		var blob []byte
		var createdAt time.Time
		if err := rows.Scan(&id, &blob, &docType, &metadataJSON, &createdAt); err != nil {
			return fmt.Errorf("scanning vector: %w", err)
		}

		var metadata map[string]string
		if metadataJSON != "" {
			if err := json.Unmarshal([]byte(metadataJSON), &metadata); err != nil {
				return fmt.Errorf("unmarshaling metadata: %w", err)
			}
		}

		attrs := driven.IndexAttributes{
			DocType:   docType,
			Metadata:  metadata,
			CreatedAt: createdAt,
		}
		if err := idx.mem.Add(ctx, id, bytesToFloat32Slice(blob), attrs); err != nil {
			return err
		}
	}

	return rows.Err()
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
