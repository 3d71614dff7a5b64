package storage

import (
	"context"
	"embed"
	"errors"
	"path"
	"strings"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// ErrInvalidKey is returned for empty keys or keys escaping the store root.
var ErrInvalidKey = errors.New("storage: invalid key")

// KV is a durable string key-value store. Get reports a missing key through
// its boolean result rather than an error.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
	Keys(ctx context.Context) ([]string, error)
}

const tempSuffix = ".tmp"

// sanitizeKey normalizes a key and prevents escaping the storage root.
func sanitizeKey(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", ErrInvalidKey
	}
	key = strings.ReplaceAll(key, "\\", "/")
	key = strings.TrimPrefix(key, "./")
	key = strings.TrimLeft(key, "/")
	cleaned := path.Clean(key)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") || strings.HasSuffix(cleaned, tempSuffix) {
		return "", ErrInvalidKey
	}
	return cleaned, nil
}
