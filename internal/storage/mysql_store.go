package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// MySQLStore keeps records in the kv_records table.
type MySQLStore struct {
	db *sqlx.DB
}

func NewMySQLStore(db *sqlx.DB) *MySQLStore {
	return &MySQLStore{db: db}
}

func (s *MySQLStore) Load(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.GetContext(ctx, &value, "SELECT record_value FROM kv_records WHERE record_key = ?", key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("db.GetContext(kv_records %s) > %w", key, err)
	}
	return value, nil
}

func (s *MySQLStore) Save(ctx context.Context, key string, value []byte) error {
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO kv_records (record_key, record_value) VALUES (?, ?)
		ON DUPLICATE KEY UPDATE record_value = VALUES(record_value)`,
		key, value); err != nil {
		return fmt.Errorf("db.ExecContext(upsert kv_records %s) > %w", key, err)
	}
	return nil
}

func (s *MySQLStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	query, args, err := sqlx.In("DELETE FROM kv_records WHERE record_key IN (?)", keys)
	if err != nil {
		return fmt.Errorf("sqlx.In() > %w", err)
	}
	if _, err := s.db.ExecContext(ctx, s.db.Rebind(query), args...); err != nil {
		return fmt.Errorf("db.ExecContext(delete kv_records) > %w", err)
	}
	return nil
}
