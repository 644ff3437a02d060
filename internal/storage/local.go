package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"feedback_backend/internal/logger"
)

// LocalStorage keeps each collection in <basePath>/<key>.json.
type LocalStorage struct {
	basePath string
}

// NewLocalStorage creates a new local storage instance
func NewLocalStorage(cfg Config) (*LocalStorage, error) {
	if cfg.BasePath == "" {
		cfg.BasePath = "./data"
	}

	if err := os.MkdirAll(cfg.BasePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	return &LocalStorage{basePath: cfg.BasePath}, nil
}

func (s *LocalStorage) Name() string { return "local" }

func (s *LocalStorage) path(key string) string {
	return filepath.Join(s.basePath, key+".json")
}

// Get reads the collection file. A missing file is ErrNotFound.
func (s *LocalStorage) Get(ctx context.Context, key string) (body []byte, err error) {
	start := time.Now()
	defer func() { logger.StoreLog(s.Name(), "get", key, time.Since(start), ignoreNotFound(err)) }()

	if err := ctx.Err(); err != nil {
		return nil, unavailable(s.Name(), key, err)
	}

	body, err = os.ReadFile(s.path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, unavailable(s.Name(), key, err)
	}
	return body, nil
}

// Put writes to a temporary file in the same directory and renames it over
// the collection file, so readers never observe a partial document.
func (s *LocalStorage) Put(ctx context.Context, key string, body []byte) (err error) {
	start := time.Now()
	defer func() { logger.StoreLog(s.Name(), "put", key, time.Since(start), err) }()

	if err := ctx.Err(); err != nil {
		return writeFailed(s.Name(), key, err)
	}

	tmp, err := os.CreateTemp(s.basePath, "."+key+".*.tmp")
	if err != nil {
		return writeFailed(s.Name(), key, err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(body); err != nil {
		tmp.Close()
		return writeFailed(s.Name(), key, err)
	}
	if err = tmp.Sync(); err != nil {
		tmp.Close()
		return writeFailed(s.Name(), key, err)
	}
	if err = tmp.Close(); err != nil {
		return writeFailed(s.Name(), key, err)
	}
	if err = os.Rename(tmpName, s.path(key)); err != nil {
		return writeFailed(s.Name(), key, err)
	}
	return nil
}

// Ping checks that the base directory is still there.
func (s *LocalStorage) Ping(ctx context.Context) error {
	info, err := os.Stat(s.basePath)
	if err != nil {
		return fmt.Errorf("local: %w: %w", ErrUnavailable, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("local: %w: %s is not a directory", ErrUnavailable, s.basePath)
	}
	return nil
}

func ignoreNotFound(err error) error {
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	return err
}
