package eventlog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	_ "github.com/lib/pq"           // postgres driver
	_ "github.com/mattn/go-sqlite3" // sqlite3 driver
)

// Defaults for stores.
const (
	DefaultCollection = "log"
	DefaultDatabase   = "datalog"
)

var (
	// ErrBadCollection is returned for collection names that are not plain
	// SQL identifiers.
	ErrBadCollection = errors.New("invalid collection name")

	// ErrUnknownDriver is returned by OpenStore for drivers other than
	// postgres and sqlite3.
	ErrUnknownDriver = errors.New("unknown store driver")

	// ErrNoRecord is returned by Get when no record has the ID.
	ErrNoRecord = errors.New("no such record")
)

var collectionName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,62}$`)

// SQLStore keeps records as JSON documents in a SQL table.
type SQLStore struct {
	db     *sql.DB
	table  string
	insert string
	get    string
}

func checkCollection(collection string) (string, error) {
	if collection == "" {
		collection = DefaultCollection
	}
	if !collectionName.MatchString(collection) {
		return "", fmt.Errorf("%w: %q", ErrBadCollection, collection)
	}
	return collection, nil
}

// NewPostgresStore connects to Postgres and creates the collection table with
// a JSONB document column if needed.
func NewPostgresStore(ctx context.Context, dsn, collection string) (*SQLStore, error) {
	table, err := checkCollection(collection)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	s := &SQLStore{
		db:     db,
		table:  table,
		insert: fmt.Sprintf("INSERT INTO %s (id, doc) VALUES ($1, $2::jsonb)", table),
		get:    fmt.Sprintf("SELECT doc FROM %s WHERE id = $1", table),
	}

	schema := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		id TEXT PRIMARY KEY,
		doc JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`, table)
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create postgres schema: %w", err)
	}

	return s, nil
}

// NewSQLiteStore opens the SQLite database at path, creating its directory and
// the collection table if needed.
func NewSQLiteStore(ctx context.Context, path, collection string) (*SQLStore, error) {
	table, err := checkCollection(collection)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create sqlite directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	s := &SQLStore{
		db:     db,
		table:  table,
		insert: fmt.Sprintf("INSERT INTO %s (id, doc) VALUES (?, ?)", table),
		get:    fmt.Sprintf("SELECT doc FROM %s WHERE id = ?", table),
	}

	schema := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		id TEXT PRIMARY KEY,
		doc TEXT NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`, table)
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create sqlite schema: %w", err)
	}

	return s, nil
}

// OpenStore opens a store for the driver, which is postgres or sqlite3. For
// sqlite3 the dsn is a file path, defaulting to DefaultDatabase.db.
func OpenStore(ctx context.Context, driver, dsn, collection string) (*SQLStore, error) {
	switch driver {
	case "postgres":
		return NewPostgresStore(ctx, dsn, collection)
	case "sqlite3", "sqlite":
		if dsn == "" {
			dsn = DefaultDatabase + ".db"
		}
		return NewSQLiteStore(ctx, dsn, collection)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
}

// Insert stores the record as a JSON document.
func (s *SQLStore) Insert(ctx context.Context, rec *Record) error {
	doc, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, s.insert, rec.ID, string(doc)); err != nil {
		return fmt.Errorf("insert into %s: %w", s.table, err)
	}
	return nil
}

// Get returns the record with the given ID.
func (s *SQLStore) Get(ctx context.Context, id string) (*Record, error) {
	var doc string
	err := s.db.QueryRowContext(ctx, s.get, id).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNoRecord, id)
	} else if err != nil {
		return nil, fmt.Errorf("select from %s: %w", s.table, err)
	}

	rec := &Record{}
	if err := json.Unmarshal([]byte(doc), rec); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	return rec, nil
}

// Count returns the number of records in the collection.
func (s *SQLStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+s.table).Scan(&n)
	return n, err
}

// Close closes the database.
func (s *SQLStore) Close() error {
	return s.db.Close()
}
