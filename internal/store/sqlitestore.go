package store

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/go-while/go-postboard/internal/models"
	"github.com/goccy/go-json"
	_ "github.com/mattn/go-sqlite3" // SQLite3 driver
)

var _ Store = (*SQLiteStore)(nil)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS records (
	seq        INTEGER PRIMARY KEY AUTOINCREMENT,
	id         TEXT NOT NULL UNIQUE,
	collection TEXT NOT NULL,
	data       TEXT NOT NULL,
	created    TEXT NOT NULL,
	updated    TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_records_collection ON records(collection, seq);
`

// SQLiteStore is a schema-flexible collection store in a single sqlite file.
// Field values are kept as a JSON document per record; insertion order is the enumeration order.
type SQLiteStore struct {
	db    *sql.DB
	path  string
	rules Rules
}

// OpenSQLite opens (and creates if needed) the store at path
func OpenSQLite(path string, rules Rules) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, unavailable("open", path, err)
		}
	}
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_timeout=5000")
	if err != nil {
		return nil, unavailable("open", path, err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, unavailable("open", path, fmt.Errorf("apply schema: %w", err))
	}
	log.Printf("[STORE]: sqlite store opened at %s", path)
	return &SQLiteStore{db: db, path: path, rules: rules}, nil
}

// Close closes the underlying database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// List returns the records of the collection ordered by insertion
func (s *SQLiteStore) List(ctx context.Context, collection string) ([]*models.Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, data, created, updated FROM records WHERE collection = ? ORDER BY seq`, collection)
	if err != nil {
		return nil, unavailable("list", collection, err)
	}
	defer rows.Close()

	out := []*models.Record{}
	for rows.Next() {
		var (
			id, data, created, updated string
		)
		if err := rows.Scan(&id, &data, &created, &updated); err != nil {
			return nil, unavailable("list", collection, err)
		}
		fields := map[string]any{}
		if err := json.Unmarshal([]byte(data), &fields); err != nil {
			return nil, unavailable("list", collection, fmt.Errorf("record %s: %w", id, err))
		}
		out = append(out, &models.Record{
			ID:             id,
			CollectionName: collection,
			Created:        created,
			Updated:        updated,
			Fields:         fields,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("list", collection, err)
	}
	return out, nil
}

// Create validates the payload against the rules and inserts it
func (s *SQLiteStore) Create(ctx context.Context, collection string, payload map[string]any) (*models.Record, error) {
	if err := s.rules.Check(collection, payload); err != nil {
		return nil, err
	}
	fields := copyPayload(payload)
	data, err := json.Marshal(fields)
	if err != nil {
		return nil, writeFailed("create", collection, err)
	}
	rec := &models.Record{
		ID:             NewRecordID(),
		CollectionName: collection,
		Fields:         fields,
	}
	rec.Created = now()
	rec.Updated = rec.Created

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO records (id, collection, data, created, updated) VALUES (?, ?, ?, ?, ?)`,
		rec.ID, collection, string(data), rec.Created, rec.Updated)
	if err != nil {
		return nil, writeFailed("create", collection, err)
	}
	return rec, nil
}
