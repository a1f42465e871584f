package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// RecordStore persists whole JSON document lists under string keys.
// A write replaces the entire value of the key.
type RecordStore interface {
	Read(ctx context.Context, key string) (json.RawMessage, bool, error)
	Write(ctx context.Context, key string, value json.RawMessage) error
}

type SQLRecordStore struct {
	db *sqlx.DB
}

const (
	readRecordQuery  = "SELECT value FROM records WHERE record_key = ?"
	writeRecordQuery = `
		INSERT INTO records (record_key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (record_key) DO UPDATE SET
		value = excluded.value,
		updated_at = CURRENT_TIMESTAMP
	`
)

func NewSQLRecordStore(db *sqlx.DB) *SQLRecordStore {
	return &SQLRecordStore{db: db}
}

func (s *SQLRecordStore) Read(ctx context.Context, key string) (json.RawMessage, bool, error) {
	var value string
	err := s.db.GetContext(ctx, &value, s.db.Rebind(readRecordQuery), key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read %q: %w", key, err)
	}
	return json.RawMessage(value), true, nil
}

func (s *SQLRecordStore) Write(ctx context.Context, key string, value json.RawMessage) error {
	if _, err := s.db.ExecContext(ctx, s.db.Rebind(writeRecordQuery), key, string(value)); err != nil {
		return fmt.Errorf("failed to write %q: %w", key, err)
	}
	return nil
}
