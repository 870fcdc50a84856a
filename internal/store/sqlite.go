package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"

	"github.com/andrada/kijobs/internal/model"
)

// Ensure SQLiteStore implements model.SeenStore.
var _ model.SeenStore = (*SQLiteStore)(nil)

// SQLiteStore keeps the seen-jobs database in a SQLite file. It follows the
// same lifecycle as the JSON store: all rows are loaded at open, mutated in
// memory, and written back in one transaction by Save.
type SQLiteStore struct {
	db     *sql.DB
	state  Database
	now    func() time.Time
	logger *slog.Logger
}

// OpenSQLite opens (or creates) the SQLite database at dbPath and loads all
// seen-job rows into memory. Unlike the JSON store, an unusable database file
// is an error: silently starting empty would re-notify every posting.
func OpenSQLite(dbPath string, logger *slog.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}

	createTables := `CREATE TABLE IF NOT EXISTS seen_jobs (
		job_id           TEXT PRIMARY KEY,
		first_seen       DATETIME NOT NULL,
		title            TEXT NOT NULL,
		url              TEXT NOT NULL,
		source           TEXT NOT NULL,
		deadline         TEXT,
		matched_keywords TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS meta (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`
	if _, err := db.Exec(createTables); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating tables: %w", err)
	}

	s := &SQLiteStore{
		db:     db,
		state:  emptyDatabase(),
		now:    time.Now,
		logger: logger,
	}
	if err := s.load(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) load() error {
	rows, err := s.db.Query(
		"SELECT job_id, first_seen, title, url, source, deadline, matched_keywords FROM seen_jobs")
	if err != nil {
		return fmt.Errorf("loading seen jobs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id, title, url, source, keywordsJSON string
			deadline                             sql.NullString
			firstSeen                            time.Time
		)
		if err := rows.Scan(&id, &firstSeen, &title, &url, &source, &deadline, &keywordsJSON); err != nil {
			return fmt.Errorf("scanning seen job: %w", err)
		}

		var keywords []string
		if err := json.Unmarshal([]byte(keywordsJSON), &keywords); err != nil {
			return fmt.Errorf("decoding keywords for %s: %w", id, err)
		}

		s.state.Jobs[id] = SeenRecord{
			FirstSeen:       firstSeen,
			Title:           title,
			URL:             url,
			Source:          model.Source(source),
			Deadline:        deadline.String,
			MatchedKeywords: keywords,
		}
	}
	return rows.Err()
}

// IsNew reports whether the ID is absent from the database.
func (s *SQLiteStore) IsNew(id string) bool {
	_, ok := s.state.Jobs[id]
	return !ok
}

// Record inserts a first-seen record for the posting.
func (s *SQLiteStore) Record(p model.Posting, keywords []string) {
	s.state.record(p, keywords, s.now())
}

// Prune removes records whose IDs are no longer listed and returns the count removed.
func (s *SQLiteStore) Prune(current map[string]struct{}) int {
	return s.state.prune(current)
}

// Save replaces the table contents with the in-memory state in one transaction.
func (s *SQLiteStore) Save() error {
	now := s.now()
	s.state.LastUpdated = &now

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM seen_jobs"); err != nil {
		return fmt.Errorf("clearing seen jobs: %w", err)
	}

	stmt, err := tx.Prepare(
		"INSERT INTO seen_jobs (job_id, first_seen, title, url, source, deadline, matched_keywords) VALUES (?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for id, rec := range s.state.Jobs {
		keywordsJSON, err := json.Marshal(rec.MatchedKeywords)
		if err != nil {
			return fmt.Errorf("encoding keywords for %s: %w", id, err)
		}
		if _, err := stmt.Exec(id, rec.FirstSeen, rec.Title, rec.URL, string(rec.Source), rec.Deadline, string(keywordsJSON)); err != nil {
			return fmt.Errorf("inserting %s: %w", id, err)
		}
	}

	if _, err := tx.Exec(
		"INSERT OR REPLACE INTO meta (key, value) VALUES ('last_updated', ?)",
		now.Format(time.RFC3339)); err != nil {
		return fmt.Errorf("updating last_updated: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}

	s.logger.Info("saved seen-jobs database", "backend", "sqlite", "jobs", len(s.state.Jobs))
	return nil
}

// Len returns the number of records currently in the database.
func (s *SQLiteStore) Len() int {
	return len(s.state.Jobs)
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
