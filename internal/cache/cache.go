// Package cache persists successful bibliographic lookup results in a
// SQLite database so repeated batch runs do not re-query the service.
package cache

import (
	"context"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/crypto/blake2b"
	_ "modernc.org/sqlite"

	"github.com/jgkarlin/renamepdf/internal/citation"
)

// Cache wraps a SQLite database of lookup results keyed by query digest.
type Cache struct {
	db *sql.DB
}

// Open opens or creates the cache database at the given path, creating
// parent directories as needed.
func Open(path string) (*Cache, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating cache directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}

	// SQLite doesn't support concurrent writes
	db.SetMaxOpenConns(1)

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating cache schema: %w", err)
	}

	return &Cache{db: db}, nil
}

// Close closes the database connection.
func (c *Cache) Close() error {
	return c.db.Close()
}

func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS lookups (
			key TEXT PRIMARY KEY,
			query TEXT NOT NULL,
			result_json TEXT NOT NULL,
			created_at TEXT NOT NULL
		);
	`
	_, err := db.Exec(schema)
	return err
}

// Key returns the cache key for a query: the hex BLAKE2b-256 digest.
func Key(query string) string {
	sum := blake2b.Sum256([]byte(query))
	return hex.EncodeToString(sum[:])
}

// Get returns the cached result for a query, with found=false on a miss.
func (c *Cache) Get(query string) (*citation.LookupResult, bool, error) {
	var payload string
	err := c.db.QueryRow(`SELECT result_json FROM lookups WHERE key = ?`, Key(query)).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("querying cache: %w", err)
	}

	var result citation.LookupResult
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		return nil, false, fmt.Errorf("decoding cached result: %w", err)
	}
	return &result, true, nil
}

// Put stores a lookup result for a query, replacing any prior entry.
func (c *Cache) Put(query string, result *citation.LookupResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}

	_, err = c.db.Exec(
		`INSERT OR REPLACE INTO lookups (key, query, result_json, created_at) VALUES (?, ?, ?, ?)`,
		Key(query), query, string(payload), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("storing result: %w", err)
	}
	return nil
}

// Lookup wraps an inner citation.Lookup with the cache. Only successful
// matches are stored; no-match results and failures pass through
// uncached. Cache read/write errors degrade to the inner lookup rather
// than failing the search.
type Lookup struct {
	cache *Cache
	inner citation.Lookup
}

// NewLookup creates a caching wrapper around inner.
func NewLookup(cache *Cache, inner citation.Lookup) *Lookup {
	return &Lookup{cache: cache, inner: inner}
}

// Search implements citation.Lookup.
func (l *Lookup) Search(ctx context.Context, query string) (*citation.LookupResult, error) {
	if result, found, err := l.cache.Get(query); err == nil && found {
		return result, nil
	}

	result, err := l.inner.Search(ctx, query)
	if err != nil || result == nil {
		return result, err
	}

	_ = l.cache.Put(query, result)
	return result, nil
}
