package repository

import (
	"context"
	"database/sql"
	"errors"
)

// CollectionRepo stores whole JSON collection documents in the
// `collections` table, one row per collection key.  It satisfies
// storage.Store.
type CollectionRepo struct{ db *sql.DB }

func NewCollectionRepo(db *sql.DB) *CollectionRepo { return &CollectionRepo{db: db} }

// Read returns the payload stored under name.  ok is false when the row
// does not exist.
func (r *CollectionRepo) Read(ctx context.Context, name string) ([]byte, bool, error) {
	var payload []byte
	err := r.db.QueryRowContext(ctx,
		"SELECT payload FROM collections WHERE name=? LIMIT 1", name).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return payload, true, nil
}

// Write upserts the payload for name.
func (r *CollectionRepo) Write(ctx context.Context, name string, payload []byte) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO collections (name, payload) VALUES (?, ?)
		 ON DUPLICATE KEY UPDATE payload = VALUES(payload), updated_at = UTC_TIMESTAMP()`,
		name, string(payload))
	return err
}
