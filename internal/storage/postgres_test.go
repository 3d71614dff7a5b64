package storage

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

type stubExecutor struct {
	values map[string]string
	err    error
	execs  []string
}

func newStubExecutor() *stubExecutor {
	return &stubExecutor{values: map[string]string{}}
}

func (s *stubExecutor) Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	if s.err != nil {
		return pgconn.CommandTag{}, s.err
	}
	s.execs = append(s.execs, query)
	switch {
	case strings.Contains(query, "insert into kv_entries"):
		s.values[args[0].(string)] = args[1].(string)
	case strings.Contains(query, "delete from kv_entries"):
		for _, k := range args[0].([]string) {
			delete(s.values, k)
		}
	}
	return pgconn.CommandTag{}, nil
}

func (s *stubExecutor) QueryRow(ctx context.Context, query string, args ...any) pgx.Row {
	if s.err != nil {
		return stubRow{err: s.err}
	}
	v, ok := s.values[args[0].(string)]
	if !ok {
		return stubRow{err: pgx.ErrNoRows}
	}
	return stubRow{value: v}
}

func (s *stubExecutor) Query(ctx context.Context, query string, args ...any) (pgx.Rows, error) {
	return nil, errors.New("not implemented")
}

type stubRow struct {
	value string
	err   error
}

func (r stubRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	ptr, ok := dest[0].(*string)
	if !ok {
		return errors.New("invalid dest")
	}
	*ptr = r.value
	return nil
}

func TestPostgresStoreGetSetDelete(t *testing.T) {
	ctx := context.Background()
	exec := newStubExecutor()
	store := NewPostgresStore(exec)

	_, ok, err := store.Get(ctx, "interior_app_user")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, store.Set(ctx, "interior_app_user", `{"id":"guest_1"}`))
	v, ok, err := store.Get(ctx, "interior_app_user")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, `{"id":"guest_1"}`, v)

	require.NoError(t, store.Delete(ctx, "interior_app_user"))
	_, ok, err = store.Get(ctx, "interior_app_user")
	require.NoError(t, err)
	require.False(t, ok)

	for _, q := range exec.execs {
		require.True(t, strings.HasPrefix(strings.TrimSpace(q), "--sql "), q)
	}
}

func TestPostgresStoreDeleteWithoutKeysSkipsQuery(t *testing.T) {
	exec := newStubExecutor()
	require.NoError(t, NewPostgresStore(exec).Delete(context.Background()))
	require.Empty(t, exec.execs)
}

func TestPostgresStorePropagatesErrors(t *testing.T) {
	exec := newStubExecutor()
	exec.err = errors.New("connection reset")
	store := NewPostgresStore(exec)

	_, _, err := store.Get(context.Background(), "interior_app_user")
	require.ErrorContains(t, err, "connection reset")
	require.Error(t, store.Set(context.Background(), "interior_app_user", "{}"))
}
