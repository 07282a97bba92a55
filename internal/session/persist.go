package session

import (
	"encoding/json"
	"log"
	"os"
	"sync"
)

// Keys under which the session is persisted.
const (
	KeyToken    = "console.token"
	KeyIdentity = "console.identity"
	KeyPasscode = "console.passcode"
)

// Persister is a durable string key-value store available synchronously at
// startup. A missing or corrupt entry is "no value", never a fatal error.
type Persister interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Delete(key string) error
}

// FileStore persists key-value pairs as a JSON file on disk. Every write
// rewrites the whole file, matching the read-many/write-rare session profile.
type FileStore struct {
	mu   sync.Mutex
	path string
	data map[string]string
}

// NewFileStore loads (or initializes) the store at path. A corrupt file is
// logged and treated as empty rather than failing startup.
func NewFileStore(path string) *FileStore {
	s := &FileStore{path: path, data: make(map[string]string)}

	raw, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("⚠️  Failed to read state file %s: %v (starting empty)", path, err)
		}
		return s
	}
	if err := json.Unmarshal(raw, &s.data); err != nil {
		log.Printf("⚠️  Corrupt state file %s: %v (starting empty)", path, err)
		s.data = make(map[string]string)
	}
	return s
}

func (s *FileStore) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	return v, ok
}

func (s *FileStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return s.flushLocked()
}

func (s *FileStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return s.flushLocked()
}

func (s *FileStore) flushLocked() error {
	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, raw, 0600)
}

// MemStore is an in-memory Persister for tests and ephemeral runs.
type MemStore struct {
	mu   sync.Mutex
	data map[string]string
}

func NewMemStore() *MemStore {
	return &MemStore{data: make(map[string]string)}
}

func (s *MemStore) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	return v, ok
}

func (s *MemStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

func (s *MemStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}
