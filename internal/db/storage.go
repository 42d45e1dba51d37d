package db

import (
	"database/sql"
	"errors"
	"time"
)

// GetItem returns the value stored under key. The boolean is false when the
// key has never been written.
func (db *DB) GetItem(key string) (string, bool, error) {
	var value string
	err := db.QueryRow(`SELECT value FROM local_storage WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// SetItem overwrites the value stored under key
func (db *DB) SetItem(key, value string) error {
	now := time.Now()
	_, err := db.Exec(`
		INSERT INTO local_storage (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value, now)
	return err
}
