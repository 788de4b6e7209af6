package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"chorechampions/internal/database"
)

// SQLStore keeps blobs in the app_state table of any supported SQL dialect
type SQLStore struct {
	db *database.DB
}

func NewSQLStore(db *database.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) Load(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM app_state WHERE state_key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", key, err)
	}
	return value, nil
}

func (s *SQLStore) Save(ctx context.Context, key string, value []byte) error {
	return save(ctx, s.db, key, value)
}

func (s *SQLStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM app_state WHERE state_key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// Replace deletes and rewrites key in one transaction
func (s *SQLStore) Replace(ctx context.Context, key string, value []byte) error {
	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM app_state WHERE state_key = ?`, key); err != nil {
		return fmt.Errorf("failed to clear %s: %w", key, err)
	}
	if err := save(ctx, tx, key, value); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SQLStore) Kind() string {
	return s.db.Dialect.MigrationsSubdir()
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

func save(ctx context.Context, q database.DBTX, key string, value []byte) error {
	if _, err := q.ExecContext(ctx, q.GetDialect().UpsertStateQuery(), key, value); err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}
