package store

import (
	"database/sql"
	"errors"
	"fmt"
)

// Option returns the stored configuration override for key, if present.
// Implements settings.OverrideStore.
func (db *DB) Option(key string) (string, bool, error) {
	var value string
	err := db.conn.QueryRow(`SELECT value FROM configuration_options WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("store: read option %s: %w", key, err)
	}
	return value, true, nil
}

// SetOption upserts the stored configuration override for key.
func (db *DB) SetOption(key, value string) error {
	_, err := db.conn.Exec(`
		INSERT INTO configuration_options (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("store: write option %s: %w", key, err)
	}
	return nil
}
