package sqlstore

import (
	"database/sql"
	"fmt"
)

// KVRepo implements repository.KeyValueStore on the kv_store table.
// The statements are valid for both PostgreSQL and SQLite.
type KVRepo struct {
	db *sql.DB
}

// NewKVRepo creates a new key-value repository
func NewKVRepo(db *sql.DB) *KVRepo {
	return &KVRepo{db: db}
}

// Get returns the value stored under key
func (r *KVRepo) Get(key string) (string, bool, error) {
	var value string
	query := `SELECT value FROM kv_store WHERE key = $1`
	err := r.db.QueryRow(query, key).Scan(&value)

	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get %s: %w", key, err)
	}

	return value, true, nil
}

// Set inserts or replaces the value stored under key
func (r *KVRepo) Set(key, value string) error {
	query := `
		INSERT INTO kv_store (key, value, updated_at)
		VALUES ($1, $2, CURRENT_TIMESTAMP)
		ON CONFLICT (key)
		DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`
	if _, err := r.db.Exec(query, key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

// Delete removes key, a missing key is not an error
func (r *KVRepo) Delete(key string) error {
	query := `DELETE FROM kv_store WHERE key = $1`
	if _, err := r.db.Exec(query, key); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}
