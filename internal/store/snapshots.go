package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Load returns the snapshot stored under key. The boolean is false when
// nothing has been saved under that key yet.
func (s *Store) Load(key string) ([]byte, bool, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM snapshots WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load snapshot %q: %w", key, err)
	}
	return []byte(value), true, nil
}

// Save replaces the snapshot under key. It returns only after the write is committed.
func (s *Store) Save(key string, data []byte) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(
		`INSERT INTO snapshots (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, string(data), now,
	)
	if err != nil {
		return fmt.Errorf("save snapshot %q: %w", key, err)
	}
	return nil
}

// GetSnapshot returns the snapshot under key along with when it was last
// saved. The boolean is false when nothing has been saved under that key yet.
func (s *Store) GetSnapshot(key string) (Snapshot, bool, error) {
	var value, updatedAt string
	err := s.db.QueryRow(`SELECT value, updated_at FROM snapshots WHERE key = ?`, key).Scan(&value, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Snapshot{}, false, nil
	}
	if err != nil {
		return Snapshot{}, false, fmt.Errorf("get snapshot %q: %w", key, err)
	}
	ts, err := time.Parse(time.RFC3339, updatedAt)
	if err != nil {
		return Snapshot{}, false, fmt.Errorf("parse updated_at of snapshot %q: %w", key, err)
	}
	return Snapshot{Key: key, Value: []byte(value), UpdatedAt: ts}, true, nil
}
