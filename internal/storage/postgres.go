package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"interiorai/internal/infra"
	"interiorai/internal/sqlinline"
)

// PostgresStore keeps entries in the kv_entries table of a shared database.
type PostgresStore struct {
	sql infra.SQLExecutor
}

func NewPostgresStore(sql infra.SQLExecutor) *PostgresStore {
	return &PostgresStore{sql: sql}
}

// MigratePostgres applies the embedded kv schema through the pool.
func MigratePostgres(ctx context.Context, pool *pgxpool.Pool) error {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()
	return runMigrations(ctx, db, goose.DialectPostgres)
}

func (s *PostgresStore) Get(ctx context.Context, key string) (string, bool, error) {
	key, err := sanitizeKey(key)
	if err != nil {
		return "", false, err
	}
	var value string
	if err := s.sql.QueryRow(ctx, sqlinline.QSelectKVEntry, key).Scan(&value); err != nil {
		if infra.IsNoRows(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("storage: select entry: %w", err)
	}
	return value, true, nil
}

func (s *PostgresStore) Set(ctx context.Context, key, value string) error {
	key, err := sanitizeKey(key)
	if err != nil {
		return err
	}
	if _, err := s.sql.Exec(ctx, sqlinline.QUpsertKVEntry, key, value); err != nil {
		return fmt.Errorf("storage: upsert entry: %w", err)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, keys ...string) error {
	cleaned := make([]string, 0, len(keys))
	for _, key := range keys {
		key, err := sanitizeKey(key)
		if err != nil {
			return err
		}
		cleaned = append(cleaned, key)
	}
	if len(cleaned) == 0 {
		return nil
	}
	if _, err := s.sql.Exec(ctx, sqlinline.QDeleteKVEntries, cleaned); err != nil {
		return fmt.Errorf("storage: delete entries: %w", err)
	}
	return nil
}

func (s *PostgresStore) Keys(ctx context.Context) ([]string, error) {
	rows, err := s.sql.Query(ctx, sqlinline.QListKVKeys)
	if err != nil {
		return nil, fmt.Errorf("storage: list keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("storage: scan key: %w", err)
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

var _ KV = (*PostgresStore)(nil)
