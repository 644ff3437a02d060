package storage

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNotFound means the collection has never been written.
	ErrNotFound = errors.New("document not found")
	// ErrUnavailable means the medium could not be read.
	ErrUnavailable = errors.New("store unavailable")
	// ErrWriteFailed means a write did not complete.
	ErrWriteFailed = errors.New("store write failed")
)

// Storage keeps whole JSON documents addressed by a collection key. Every
// backend reads and writes the full document; there are no partial updates.
type Storage interface {
	// Get returns the stored document. It returns ErrNotFound when the key
	// was never written and wraps ErrUnavailable on any other failure.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put replaces the document. Failures wrap ErrWriteFailed.
	Put(ctx context.Context, key string, body []byte) error

	// Ping checks that the medium is reachable.
	Ping(ctx context.Context) error

	// Name identifies the backend in logs and health output.
	Name() string
}

// Config holds storage configuration
type Config struct {
	Type      string // local, bin, s3, cloudflare_r2, database
	BasePath  string // local directory
	BaseURL   string // bin service root
	APIKey    string // bin bearer credential
	Bucket    string // S3/R2
	Region    string // S3
	AccessKey string // S3/R2
	SecretKey string // S3/R2
	Endpoint  string // R2 or custom S3
	Driver    string // database: postgres, mysql, sqlite
	DSN       string // database
	Timeout   time.Duration
}

// NewStorage creates a new storage instance based on configuration
func NewStorage(cfg Config) (Storage, error) {
	switch cfg.Type {
	case "local":
		return NewLocalStorage(cfg)
	case "bin":
		return NewBinStorage(cfg)
	case "s3":
		return NewS3Storage(cfg)
	case "cloudflare_r2":
		return NewCloudflareR2Storage(cfg)
	case "database":
		return NewDatabaseStorage(cfg)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}

func unavailable(backend, key string, err error) error {
	return fmt.Errorf("%s: read %s: %w: %w", backend, key, ErrUnavailable, err)
}

func writeFailed(backend, key string, err error) error {
	return fmt.Errorf("%s: write %s: %w: %w", backend, key, ErrWriteFailed, err)
}
