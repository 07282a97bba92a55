package database

import (
	"database/sql"
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// Connect opens and verifies a Postgres connection.
func Connect(dbURL string) (*sqlx.DB, error) {
	log.Println("🔌 Connecting to Postgres...")

	db, err := sqlx.Connect("postgres", dbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("✅ Database connection established")
	return db, nil
}

// Migrate creates the console state schema.
func Migrate(db *sqlx.DB) error {
	migrations := []string{
		// Console key-value state (session token, identity, passcode hash)
		`CREATE TABLE IF NOT EXISTS console_kv (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT
		)`,

		// Registered push device tokens for broadcast relay
		`CREATE TABLE IF NOT EXISTS push_devices (
			token TEXT PRIMARY KEY,
			registered_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT
		)`,
	}

	for i, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}

// PGStore is a session.Persister backed by the console_kv table, for
// deployments where the daemon's state must outlive the host filesystem.
type PGStore struct {
	db *sqlx.DB
}

// NewPGStore wraps an open connection. Migrate must have been run.
func NewPGStore(db *sqlx.DB) *PGStore {
	return &PGStore{db: db}
}

func (s *PGStore) Get(key string) (string, bool) {
	var value string
	err := s.db.Get(&value, "SELECT value FROM console_kv WHERE key = $1", key)
	if err != nil {
		if err != sql.ErrNoRows {
			log.Printf("⚠️  console_kv read failed for %s: %v", key, err)
		}
		return "", false
	}
	return value, true
}

func (s *PGStore) Set(key, value string) error {
	query := `
		INSERT INTO console_kv (key, value, updated_at)
		VALUES ($1, $2, EXTRACT(EPOCH FROM NOW())::BIGINT)
		ON CONFLICT (key)
		DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
	`
	_, err := s.db.Exec(query, key, value)
	return err
}

func (s *PGStore) Delete(key string) error {
	_, err := s.db.Exec("DELETE FROM console_kv WHERE key = $1", key)
	return err
}

// SavePushDevice registers an FCM device token for broadcast relay.
func SavePushDevice(db *sqlx.DB, token string) error {
	query := `
		INSERT INTO push_devices (token) VALUES ($1)
		ON CONFLICT (token) DO NOTHING
	`
	_, err := db.Exec(query, token)
	return err
}

// PushDeviceTokens returns all registered push device tokens.
func PushDeviceTokens(db *sqlx.DB) ([]string, error) {
	var tokens []string
	if err := db.Select(&tokens, "SELECT token FROM push_devices"); err != nil {
		return nil, err
	}
	return tokens, nil
}
