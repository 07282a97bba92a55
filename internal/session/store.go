// Package session holds the operator's authenticated session: the upstream
// bearer token, the cached identity, and their persisted copies. One Store
// serves one console process.
package session

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"console-backend/internal/api"
	"console-backend/internal/models"
)

// Store is the single source of truth for the current session. Every
// successful mutation rewrites the persisted copy wholesale, so a process
// restart resumes the same session.
type Store struct {
	mu       sync.RWMutex
	token    string
	identity *models.Identity

	client  *api.Client
	persist Persister
	subs    []func(token string)
}

// NewStore creates a store over the given upstream client and persister,
// seeding token and identity from whatever the persister holds. Corrupt
// persisted values load as "no session".
func NewStore(client *api.Client, persist Persister) *Store {
	s := &Store{client: client, persist: persist}

	if tok, ok := persist.Get(KeyToken); ok && tok != "" {
		s.token = tok
	}
	if raw, ok := persist.Get(KeyIdentity); ok && raw != "" {
		var id models.Identity
		if err := json.Unmarshal([]byte(raw), &id); err != nil {
			log.Printf("⚠️  Corrupt persisted identity, ignoring: %v", err)
		} else {
			s.identity = &id
		}
	}
	return s
}

// Token returns the current bearer token, or "" when logged out.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Identity returns the cached identity, which may lag the token on first
// load. Callers must treat nil as "no identity yet".
func (s *Store) Identity() *models.Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity
}

// Subscribe registers a callback fired (synchronously) after every token
// change, i.e. on login and logout. Used by the settings cache.
func (s *Store) Subscribe(fn func(token string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

// Login validates credentials upstream. On success the token and identity
// are cached and persisted; on failure (*api.AuthError or a transport error)
// the session is left untouched.
func (s *Store) Login(ctx context.Context, creds models.Credentials) (*models.Identity, error) {
	token, identity, err := s.client.Login(ctx, creds)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.token = token
	s.identity = identity
	s.persistLocked()
	subs := append([]func(string){}, s.subs...)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(token)
	}
	return identity, nil
}

// Logout clears the in-memory and persisted session. It is idempotent and
// never fails; persister errors are logged and swallowed.
func (s *Store) Logout(ctx context.Context) {
	s.mu.Lock()
	s.token = ""
	s.identity = nil
	if err := s.persist.Delete(KeyToken); err != nil {
		log.Printf("⚠️  Failed to clear persisted token: %v", err)
	}
	if err := s.persist.Delete(KeyIdentity); err != nil {
		log.Printf("⚠️  Failed to clear persisted identity: %v", err)
	}
	subs := append([]func(string){}, s.subs...)
	s.mu.Unlock()

	for _, fn := range subs {
		fn("")
	}
}

// RefreshIdentity re-fetches the identity for the current token. Without a
// token it is a no-op. Any fetch failure is swallowed and the last-known
// identity retained, so a flaky network never logs the operator out.
func (s *Store) RefreshIdentity(ctx context.Context) {
	token := s.Token()
	if token == "" {
		return
	}

	identity, err := s.client.Me(ctx, token)
	if err != nil {
		log.Printf("⚠️  Identity refresh failed, keeping last-known identity: %v", err)
		return
	}

	s.mu.Lock()
	s.identity = identity
	s.persistLocked()
	s.mu.Unlock()
}

// UpdateIdentity sends a partial profile update upstream. The server's
// returned representation replaces the cached identity; on error
// (*api.HTTPError) the cache is untouched and the error propagates.
func (s *Store) UpdateIdentity(ctx context.Context, fields map[string]interface{}) (*models.Identity, error) {
	token := s.Token()
	identity, err := s.client.UpdateProfile(ctx, token, fields)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.identity = identity
	s.persistLocked()
	s.mu.Unlock()

	return identity, nil
}

// SetPasscode stores a bcrypt hash of the console-lock passcode.
func (s *Store) SetPasscode(passcode string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(passcode), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.persist.Set(KeyPasscode, string(hash))
}

// VerifyPasscode checks a passcode against the stored hash. With no passcode
// set, the console is considered unlocked and any input passes.
func (s *Store) VerifyPasscode(passcode string) bool {
	hash, ok := s.persist.Get(KeyPasscode)
	if !ok || hash == "" {
		return true
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(passcode)) == nil
}

// ClearPasscode removes the console-lock passcode.
func (s *Store) ClearPasscode() error {
	return s.persist.Delete(KeyPasscode)
}

// persistLocked rewrites both persisted keys from current state. Callers
// hold s.mu. Persister failures are logged, not propagated: the in-memory
// session stays authoritative.
func (s *Store) persistLocked() {
	if err := s.persist.Set(KeyToken, s.token); err != nil {
		log.Printf("⚠️  Failed to persist token: %v", err)
	}
	var encoded string
	if s.identity != nil {
		raw, err := json.Marshal(s.identity)
		if err != nil {
			log.Printf("⚠️  Failed to encode identity: %v", err)
			return
		}
		encoded = string(raw)
	}
	if err := s.persist.Set(KeyIdentity, encoded); err != nil {
		log.Printf("⚠️  Failed to persist identity: %v", err)
	}
}
