// Package settings is a read-through cache of the site-wide configuration
// record consumed by layout chrome. It refreshes whenever the session token
// changes and otherwise serves the last-known-good copy.
package settings

import (
	"context"
	"log"
	"sync"

	"console-backend/internal/api"
	"console-backend/internal/models"
	"console-backend/internal/session"
)

// Cache holds at most one SiteSettings record, replaced wholesale on every
// successful refresh. Background refresh failures never clear it.
type Cache struct {
	mu      sync.RWMutex
	current *models.SiteSettings

	client   *api.Client
	sessions *session.Store
}

// NewCache creates the cache and subscribes it to session token changes:
// each login triggers a refresh, each logout clears the record.
func NewCache(client *api.Client, sessions *session.Store) *Cache {
	c := &Cache{client: client, sessions: sessions}
	sessions.Subscribe(func(token string) {
		if token == "" {
			c.mu.Lock()
			c.current = nil
			c.mu.Unlock()
			return
		}
		c.Refresh(context.Background())
	})
	return c
}

// Get returns the cached record, or nil when none has been loaded.
func (c *Cache) Get() *models.SiteSettings {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

// Refresh re-fetches the record with the current token. Failures of any kind
// are swallowed and the last-known-good copy retained.
func (c *Cache) Refresh(ctx context.Context) {
	token := c.sessions.Token()
	if token == "" {
		return
	}

	s, err := c.client.Settings(ctx, token)
	if err != nil {
		log.Printf("⚠️  Settings refresh failed, keeping cached copy: %v", err)
		return
	}

	c.mu.Lock()
	c.current = s
	c.mu.Unlock()
}

// Update writes new settings upstream and, once the server confirms,
// optimistically replaces the cached record with the server's representation.
// On error the cache is untouched and the error propagates to the caller.
func (c *Cache) Update(ctx context.Context, s models.SiteSettings) (*models.SiteSettings, error) {
	token := c.sessions.Token()
	out, err := c.client.UpdateSettings(ctx, token, s)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.current = out
	c.mu.Unlock()

	return out, nil
}
