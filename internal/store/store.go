// Package store persists the seen-jobs database that drives deduplication.
// The database is loaded once at process start, mutated in memory during the
// run, and written back wholesale at the end. A single run owns it exclusively.
package store

import (
	"time"

	"github.com/andrada/kijobs/internal/model"
)

// SeenRecord is the persisted first-seen metadata for one matching posting.
// Records are never updated after creation, only deleted by pruning.
type SeenRecord struct {
	FirstSeen       time.Time    `json:"first_seen"`
	Title           string       `json:"title"`
	URL             string       `json:"url"`
	Source          model.Source `json:"source"`
	Deadline        string       `json:"deadline,omitempty"`
	MatchedKeywords []string     `json:"matched_keywords"`
}

// Database is the full seen-jobs state.
type Database struct {
	Jobs        map[string]SeenRecord `json:"jobs"`
	LastUpdated *time.Time            `json:"last_updated"`
}

func emptyDatabase() Database {
	return Database{Jobs: make(map[string]SeenRecord)}
}

// record inserts a SeenRecord for the posting. Call sites only invoke this for
// IDs already confirmed new, so nothing is overwritten.
func (db *Database) record(p model.Posting, keywords []string, now time.Time) {
	db.Jobs[p.ID] = SeenRecord{
		FirstSeen:       now,
		Title:           p.Title,
		URL:             p.URL,
		Source:          p.Source,
		Deadline:        p.Deadline,
		MatchedKeywords: keywords,
	}
}

// prune removes every record whose ID is not in current and returns the count
// removed. "Still listed" is the only liveness signal; there is no TTL.
func (db *Database) prune(current map[string]struct{}) int {
	removed := 0
	for id := range db.Jobs {
		if _, ok := current[id]; !ok {
			delete(db.Jobs, id)
			removed++
		}
	}
	return removed
}
