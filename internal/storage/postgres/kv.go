package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	pq "github.com/lib/pq"

	"github.com/julianstephens/dailyfocus/internal/storage"
)

func (s *Store) Get(ctx context.Context, keys []string) (map[string]json.RawMessage, error) {
	if s.db == nil {
		return nil, storage.ErrNotLoaded
	}

	out := make(map[string]json.RawMessage)
	if keys != nil && len(keys) == 0 {
		return out, nil
	}

	query := "SELECT key, value FROM kv"
	var args []any
	if keys != nil {
		query += " WHERE key = ANY($1)"
		args = append(args, pq.Array(keys))
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query kv: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var value []byte
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan kv row: %w", err)
		}
		out[key] = json.RawMessage(value)
	}
	return out, rows.Err()
}

func (s *Store) Set(ctx context.Context, entries map[string]json.RawMessage) error {
	if s.db == nil {
		return storage.ErrNotLoaded
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO kv (key, value, updated_at) VALUES ($1, $2::jsonb, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for key, value := range entries {
		if !json.Valid(value) {
			return fmt.Errorf("value for %q is not valid JSON", key)
		}
		if _, err := stmt.ExecContext(ctx, key, string(value)); err != nil {
			return fmt.Errorf("failed to write %s: %w", key, err)
		}
	}

	return tx.Commit()
}
