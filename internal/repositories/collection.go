package repositories

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"feedback_backend/internal/storage"
)

// collection is the cached view of one JSON array document. The snapshot is
// advisory: writers always reload first, and no lock is held during store I/O.
// Read-modify-write cycles go through a single writer goroutine, so updates
// made through one collection never overwrite each other.
type collection[T any] struct {
	store storage.Storage
	key   string

	mu    sync.RWMutex
	items []T

	writes    chan writeRequest[T]
	startOnce sync.Once
}

// writeRequest is one queued update. apply gets the freshly reloaded items
// and returns the items to persist.
type writeRequest[T any] struct {
	ctx    context.Context
	apply  func([]T) ([]T, error)
	result chan error
}

func newCollection[T any](store storage.Storage, key string) *collection[T] {
	return &collection[T]{
		store:  store,
		key:    key,
		writes: make(chan writeRequest[T]),
	}
}

// reload reads the document and replaces the snapshot. A document that was
// never written is an empty collection. The returned slice is a copy.
func (c *collection[T]) reload(ctx context.Context) ([]T, error) {
	body, err := c.store.Get(ctx, c.key)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}

	items, err := decodeArray[T](body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", c.key, storage.ErrUnavailable, err)
	}

	c.mu.Lock()
	c.items = items
	c.mu.Unlock()

	return append([]T(nil), items...), nil
}

// write persists items as the whole document and updates the snapshot on
// success only.
func (c *collection[T]) write(ctx context.Context, items []T) error {
	if items == nil {
		items = []T{}
	}
	body, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("%s: %w: encode: %w", c.key, storage.ErrWriteFailed, err)
	}
	if err := c.store.Put(ctx, c.key, body); err != nil {
		return err
	}

	c.mu.Lock()
	c.items = items
	c.mu.Unlock()
	return nil
}

// size is the length of the last snapshot. It never touches the store.
func (c *collection[T]) size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// appendOne reloads, appends item and writes the result back.
func (c *collection[T]) appendOne(ctx context.Context, item T) error {
	return c.update(ctx, func(items []T) ([]T, error) {
		return append(items, item), nil
	})
}

// update queues apply on the writer and waits for its own result. An error
// from apply aborts the cycle without writing.
func (c *collection[T]) update(ctx context.Context, apply func([]T) ([]T, error)) error {
	c.startOnce.Do(func() { go c.runWriter() })

	req := writeRequest[T]{ctx: ctx, apply: apply, result: make(chan error, 1)}
	select {
	case c.writes <- req:
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-req.result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *collection[T]) runWriter() {
	for req := range c.writes {
		req.result <- c.readModifyWrite(req.ctx, req.apply)
	}
}

func (c *collection[T]) readModifyWrite(ctx context.Context, apply func([]T) ([]T, error)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	items, err := c.reload(ctx)
	if err != nil {
		return err
	}
	items, err = apply(items)
	if err != nil {
		return err
	}
	return c.write(ctx, items)
}

func decodeArray[T any](body []byte) ([]T, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return []T{}, nil
	}
	var items []T
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("malformed document: %w", err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}
