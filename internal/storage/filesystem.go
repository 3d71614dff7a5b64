package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
)

// FileStore persists each key as one file below basePath. Writes go through a
// temporary file and a rename so a crash never leaves a half-written record.
type FileStore struct {
	fs       afero.Fs
	basePath string
}

// NewFileStore initializes a FileStore rooted at basePath on the OS filesystem.
func NewFileStore(basePath string) (*FileStore, error) {
	return NewFileStoreFs(afero.NewOsFs(), basePath)
}

// NewFileStoreFs initializes a FileStore on an arbitrary afero filesystem.
func NewFileStoreFs(fsys afero.Fs, basePath string) (*FileStore, error) {
	basePath = strings.TrimSpace(basePath)
	if basePath == "" {
		return nil, errors.New("storage: base path is required")
	}
	if err := fsys.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("storage: ensure base path: %w", err)
	}
	return &FileStore{fs: fsys, basePath: basePath}, nil
}

// BasePath returns the configured root directory.
func (s *FileStore) BasePath() string {
	return s.basePath
}

func (s *FileStore) path(key string) (string, error) {
	cleanKey, err := sanitizeKey(key)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.basePath, filepath.FromSlash(cleanKey)), nil
}

func (s *FileStore) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	full, err := s.path(key)
	if err != nil {
		return "", false, err
	}
	data, err := afero.ReadFile(s.fs, full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("storage: read file: %w", err)
	}
	return string(data), true, nil
}

func (s *FileStore) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	full, err := s.path(key)
	if err != nil {
		return err
	}
	if err := s.fs.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("storage: ensure directory: %w", err)
	}
	tmp := full + tempSuffix
	if err := afero.WriteFile(s.fs, tmp, []byte(value), 0o600); err != nil {
		return fmt.Errorf("storage: write file: %w", err)
	}
	if err := s.fs.Rename(tmp, full); err != nil {
		_ = s.fs.Remove(tmp)
		return fmt.Errorf("storage: commit file: %w", err)
	}
	return nil
}

func (s *FileStore) Delete(ctx context.Context, keys ...string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	for _, key := range keys {
		full, err := s.path(key)
		if err != nil {
			return err
		}
		if err := s.fs.Remove(full); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("storage: remove file: %w", err)
		}
	}
	return nil
}

func (s *FileStore) Keys(ctx context.Context) ([]string, error) {
	var keys []string
	err := afero.Walk(s.fs, s.basePath, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if info.IsDir() || strings.HasSuffix(p, tempSuffix) {
			return nil
		}
		rel, err := filepath.Rel(s.basePath, p)
		if err != nil {
			return err
		}
		keys = append(keys, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("storage: list keys: %w", err)
	}
	sort.Strings(keys)
	return keys, nil
}

var _ KV = (*FileStore)(nil)
