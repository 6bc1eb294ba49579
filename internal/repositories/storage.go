package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/waslerr/internal/shared"
)

// StorageRepository persists string values by key.
type StorageRepository struct {
	db shared.DBTX
}

// NewStorageRepository creates a new [StorageRepository] on the given handle.
func NewStorageRepository(db shared.DBTX) *StorageRepository {
	return &StorageRepository{db: db}
}

// Get returns the value stored under key. ok is false when the key is absent.
func (r *StorageRepository) Get(ctx context.Context, key string) (value string, ok bool, err error) {
	err = r.db.QueryRowContext(ctx, `SELECT value FROM storage WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get storage[%s]: %w", key, err)
	}
	return value, true, nil
}

// Set upserts the value under key and bumps the storage version.
func (r *StorageRepository) Set(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO storage (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to set storage[%s]: %w", key, err)
	}
	return r.bump(ctx)
}

// Delete removes key and bumps the storage version. Deleting an absent key is not an error.
func (r *StorageRepository) Delete(ctx context.Context, key string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM storage WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete storage[%s]: %w", key, err)
	}
	return r.bump(ctx)
}

// List returns all stored key/value pairs.
func (r *StorageRepository) List(ctx context.Context) (map[string]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT key, value FROM storage`)
	if err != nil {
		return nil, fmt.Errorf("failed to list storage: %w", err)
	}
	defer rows.Close()

	result := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan storage row: %w", err)
		}
		result[key] = value
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate storage rows: %w", err)
	}

	return result, nil
}

// Version returns the storage version counter.
func (r *StorageRepository) Version(ctx context.Context) (int64, error) {
	var v int64
	if err := r.db.QueryRowContext(ctx, `SELECT value FROM storage_version WHERE id = 1`).Scan(&v); err != nil {
		return 0, fmt.Errorf("failed to read storage version: %w", err)
	}
	return v, nil
}

func (r *StorageRepository) bump(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE storage_version SET value = value + 1 WHERE id = 1`); err != nil {
		return fmt.Errorf("failed to bump storage version: %w", err)
	}
	return nil
}
