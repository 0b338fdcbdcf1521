package checkpoint

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "progress.chk")

	runID, err := Touch(path, 1000, 9999)
	if err != nil {
		t.Fatalf("Touch: %v", err)
	}

	st := State{RunID: runID, Min: 1000, Max: 9999, ResumeAt: 5000, Count: 42}
	if err := Save(path, st); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.RunID != runID || got.Min != 1000 || got.Max != 9999 || got.ResumeAt != 5000 || got.Count != 42 {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	if !got.Matches(1000, 9999) {
		t.Fatal("expected Matches to hold for identical range")
	}
	if got.Matches(1000, 99999) {
		t.Fatal("expected Matches to reject a different range")
	}
}

func TestLoadRejectsTruncatedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "progress.chk")
	st := State{RunID: uuid.New(), Min: 1, Max: 2, ResumeAt: 1}
	if err := Save(path, st); err != nil {
		t.Fatalf("Save: %v", err)
	}

	// Simulate a partially written (non-atomic) file from some other
	// process; Load should reject it rather than silently zero-filling.
	if err := os.Truncate(path, 3); err != nil {
		t.Fatalf("Truncate: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected Load to reject a truncated checkpoint")
	}
}

func TestSaveIsAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "progress.chk")
	st := State{RunID: uuid.New(), Min: 1, Max: 2, ResumeAt: 1}
	if err := Save(path, st); err != nil {
		t.Fatalf("Save: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected exactly the final checkpoint file to remain, got %v", entries)
	}
}
