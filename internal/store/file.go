package store

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/andrada/kijobs/internal/model"
)

// Ensure FileStore implements model.SeenStore.
var _ model.SeenStore = (*FileStore)(nil)

// FileStore keeps the seen-jobs database in a single JSON file.
type FileStore struct {
	path   string
	db     Database
	now    func() time.Time
	logger *slog.Logger
}

// OpenFile loads the database at path. A missing or unparseable file is
// treated as empty state and never fails the run.
func OpenFile(path string, logger *slog.Logger) *FileStore {
	s := &FileStore{
		path:   path,
		db:     emptyDatabase(),
		now:    time.Now,
		logger: logger,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Error("failed to read seen-jobs database, starting empty", "path", path, "error", err)
		}
		return s
	}

	var db Database
	if err := json.Unmarshal(data, &db); err != nil {
		logger.Error("failed to parse seen-jobs database, starting empty", "path", path, "error", err)
		return s
	}
	if db.Jobs == nil {
		db.Jobs = make(map[string]SeenRecord)
	}
	s.db = db
	return s
}

// IsNew reports whether the ID is absent from the database.
func (s *FileStore) IsNew(id string) bool {
	_, ok := s.db.Jobs[id]
	return !ok
}

// Record inserts a first-seen record for the posting.
func (s *FileStore) Record(p model.Posting, keywords []string) {
	s.db.record(p, keywords, s.now())
}

// Prune removes records whose IDs are no longer listed and returns the count removed.
func (s *FileStore) Prune(current map[string]struct{}) int {
	return s.db.prune(current)
}

// Save stamps last_updated and writes the database atomically (temp file +
// rename), so a crash mid-write never truncates existing state.
func (s *FileStore) Save() error {
	now := s.now()
	s.db.LastUpdated = &now

	data, err := json.MarshalIndent(&s.db, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal seen-jobs database: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".seen_jobs-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write seen-jobs database: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace seen-jobs database: %w", err)
	}

	s.logger.Info("saved seen-jobs database", "path", s.path, "jobs", len(s.db.Jobs))
	return nil
}

// Len returns the number of records currently in the database.
func (s *FileStore) Len() int {
	return len(s.db.Jobs)
}
