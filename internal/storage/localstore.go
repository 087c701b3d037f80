package storage

import (
	"database/sql"
	"errors"
	"time"
)

// The local store is a flat key/value table with browser localStorage
// semantics: values are opaque strings (JSON documents in practice) and
// writes replace.

func (s *Store) SetItem(key, value string) error {
	_, err := s.db.Exec(`INSERT INTO local_store (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC().Format(time.RFC3339))
	return err
}

// GetItem returns ErrNotFound for a key that was never set or was removed.
func (s *Store) GetItem(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM local_store WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	return value, err
}

// RemoveItem is a no-op for unknown keys.
func (s *Store) RemoveItem(key string) error {
	_, err := s.db.Exec(`DELETE FROM local_store WHERE key = ?`, key)
	return err
}

// Keys lists all keys in lexical order.
func (s *Store) Keys() ([]string, error) {
	rows, err := s.db.Query(`SELECT key FROM local_store ORDER BY key`)
	return collect(rows, err, func(r rowScanner) (k string, err error) {
		err = r.Scan(&k)
		return k, err
	})
}
