package session

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")

	s := NewFileStore(path)
	if err := s.Set("a", "1"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if v, ok := s.Get("a"); !ok || v != "1" {
		t.Fatalf("Get = (%q, %v)", v, ok)
	}

	// Reload from disk.
	s2 := NewFileStore(path)
	if v, ok := s2.Get("a"); !ok || v != "1" {
		t.Fatalf("reloaded Get = (%q, %v)", v, ok)
	}

	if err := s2.Delete("a"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	s3 := NewFileStore(path)
	if _, ok := s3.Get("a"); ok {
		t.Fatal("deleted key survived reload")
	}
}

func TestFileStoreCorruptFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}

	s := NewFileStore(path)
	if _, ok := s.Get("anything"); ok {
		t.Fatal("corrupt file yielded a value")
	}

	// The store remains writable afterwards.
	if err := s.Set("k", "v"); err != nil {
		t.Fatalf("Set after corrupt load failed: %v", err)
	}
}

func TestFileStoreMissingFileStartsEmpty(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "does-not-exist.json"))
	if _, ok := s.Get("k"); ok {
		t.Fatal("missing file yielded a value")
	}
}
