package store

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/amishk599/jobwatch/internal/model"
)

// SQLiteStore keeps seen posting ids in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

var _ model.SeenStore = (*SQLiteStore)(nil)

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and ensures the
// seen_postings table exists.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Verify the connection is alive.
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}

	createTable := `CREATE TABLE IF NOT EXISTS seen_postings (
		posting_id TEXT PRIMARY KEY,
		first_seen DATETIME DEFAULT CURRENT_TIMESTAMP
	)`
	if _, err := db.Exec(createTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating seen_postings table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Load returns every recorded posting id.
func (s *SQLiteStore) Load() (model.SeenSet, error) {
	rows, err := s.db.Query("SELECT posting_id FROM seen_postings")
	if err != nil {
		return nil, fmt.Errorf("loading seen postings: %w", err)
	}
	defer rows.Close()

	seen := model.NewSeenSet()
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning seen posting: %w", err)
		}
		seen.Add(id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("loading seen postings: %w", err)
	}
	return seen, nil
}

// Save records every id in seen inside a single transaction. Rows are never
// deleted: the seen set only grows, so inserting is a full overwrite.
func (s *SQLiteStore) Save(seen model.SeenSet) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("saving seen postings: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare("INSERT OR IGNORE INTO seen_postings (posting_id) VALUES (?)")
	if err != nil {
		return fmt.Errorf("saving seen postings: %w", err)
	}
	defer stmt.Close()

	for _, id := range seen.Sorted() {
		if _, err := stmt.Exec(id); err != nil {
			return fmt.Errorf("marking %s as seen: %w", id, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing seen postings: %w", err)
	}
	return nil
}

// Count returns the number of recorded ids.
func (s *SQLiteStore) Count() (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM seen_postings").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting seen postings: %w", err)
	}
	return count, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
