package storage

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Database interface defines the contract for local client-side storage.
// Nothing stored here is authoritative; it backs advisory UI behavior
// (request throttling, remembered settings) and can be cleared freely.
type Database interface {
	// Cooldown operations
	SaveCooldown(token string, last time.Time) error
	GetCooldown(token string) (time.Time, error)
	ClearCooldown(token string) error

	// Configuration operations
	SaveConfig(key, value string) error
	GetConfig(key string) (string, error)

	// Database lifecycle
	Close() error
}

// SQLiteDatabase implements Database using SQLite
type SQLiteDatabase struct {
	db *sql.DB
}

// NewSQLiteDatabase opens (or creates) the local database at dbPath
func NewSQLiteDatabase(dbPath string) (*SQLiteDatabase, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &SQLiteDatabase{db: db}
	if err := s.createTables(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteDatabase) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS cooldowns (
		token TEXT PRIMARY KEY,
		last_request INTEGER NOT NULL
	);
	CREATE TABLE IF NOT EXISTS config (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	return nil
}

// SaveCooldown records the time of the last throttled action for a token
func (s *SQLiteDatabase) SaveCooldown(token string, last time.Time) error {
	if token == "" {
		return fmt.Errorf("token cannot be empty")
	}

	_, err := s.db.Exec(
		`INSERT INTO cooldowns (token, last_request) VALUES (?, ?)
		 ON CONFLICT(token) DO UPDATE SET last_request = excluded.last_request`,
		token, last.Unix())
	if err != nil {
		return fmt.Errorf("failed to save cooldown: %w", err)
	}
	return nil
}

// GetCooldown returns the recorded time for a token, or the zero time when
// no record exists.
func (s *SQLiteDatabase) GetCooldown(token string) (time.Time, error) {
	var unix int64
	err := s.db.QueryRow(`SELECT last_request FROM cooldowns WHERE token = ?`, token).Scan(&unix)
	if err == sql.ErrNoRows {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to read cooldown: %w", err)
	}
	return time.Unix(unix, 0), nil
}

// ClearCooldown removes the record for a token
func (s *SQLiteDatabase) ClearCooldown(token string) error {
	if _, err := s.db.Exec(`DELETE FROM cooldowns WHERE token = ?`, token); err != nil {
		return fmt.Errorf("failed to clear cooldown: %w", err)
	}
	return nil
}

// SaveConfig stores a configuration value
func (s *SQLiteDatabase) SaveConfig(key, value string) error {
	if key == "" {
		return fmt.Errorf("config key cannot be empty")
	}

	_, err := s.db.Exec(
		`INSERT INTO config (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value)
	if err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	return nil
}

// GetConfig reads a configuration value; missing keys yield an empty string
func (s *SQLiteDatabase) GetConfig(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM config WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read config: %w", err)
	}
	return value, nil
}

// Close releases the database handle
func (s *SQLiteDatabase) Close() error {
	return s.db.Close()
}
