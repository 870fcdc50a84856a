package store

import (
	"path/filepath"
	"testing"
)

func TestSQLiteStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seen_jobs.db")

	s, err := OpenSQLite(path, discardLogger())
	if err != nil {
		t.Fatalf("OpenSQLite() failed: %v", err)
	}

	s.Record(testPosting("ki_doktorand_123"), []string{"organoid", "ipsc"})
	s.Record(testPosting("academic_positions_456"), []string{"crispr"})
	if err := s.Save(); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}

	reloaded, err := OpenSQLite(path, discardLogger())
	if err != nil {
		t.Fatalf("reopening store failed: %v", err)
	}
	defer reloaded.Close()

	if reloaded.Len() != 2 {
		t.Fatalf("expected 2 records after reload, got %d", reloaded.Len())
	}
	if reloaded.IsNew("ki_doktorand_123") {
		t.Error("expected recorded ID to not be new after reload")
	}
	if !reloaded.IsNew("ki_doktorand_999") {
		t.Error("expected unrecorded ID to be new")
	}

	rec := reloaded.state.Jobs["ki_doktorand_123"]
	if rec.Title != "PhD position in organoid biology" {
		t.Errorf("unexpected title: %q", rec.Title)
	}
	if rec.Deadline != "2026-04-01" {
		t.Errorf("unexpected deadline: %q", rec.Deadline)
	}
	if len(rec.MatchedKeywords) != 2 || rec.MatchedKeywords[1] != "ipsc" {
		t.Errorf("unexpected keywords: %v", rec.MatchedKeywords)
	}
}

func TestSQLiteStore_PruneThenSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seen_jobs.db")

	s, err := OpenSQLite(path, discardLogger())
	if err != nil {
		t.Fatalf("OpenSQLite() failed: %v", err)
	}
	s.Record(testPosting("a"), []string{"organoid"})
	s.Record(testPosting("b"), []string{"organoid"})
	if err := s.Save(); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	removed := s.Prune(map[string]struct{}{"b": {}})
	if removed != 1 {
		t.Errorf("Prune() removed %d, want 1", removed)
	}
	if err := s.Save(); err != nil {
		t.Fatalf("second Save() failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}

	reloaded, err := OpenSQLite(path, discardLogger())
	if err != nil {
		t.Fatalf("reopening store failed: %v", err)
	}
	defer reloaded.Close()

	if reloaded.Len() != 1 {
		t.Fatalf("expected 1 record after prune and reload, got %d", reloaded.Len())
	}
	if !reloaded.IsNew("a") {
		t.Error("expected pruned ID to be new again")
	}
	if reloaded.IsNew("b") {
		t.Error("expected surviving ID to stay recorded")
	}
}
