package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// ErrStoreIO is matched by every read or write failure of a collection file
var ErrStoreIO = errors.New("store i/o failure")

// StoreError describes a failed collection read or write
type StoreError struct {
	Collection string
	Op         string
	Err        error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("failed to %s %s: %v", e.Op, e.Collection, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrStoreIO) hold for any StoreError
func (e *StoreError) Is(target error) bool { return target == ErrStoreIO }

// Collection is a named list of records persisted as a single JSON document.
// All access goes through one mutex, so an Update's load, mutate and save run
// without interleaving with any other operation on the same collection.
type Collection[T any] struct {
	name string
	path string
	mu   sync.Mutex
}

// NewCollection creates a collection stored at dir/name.json
func NewCollection[T any](dir, name string) *Collection[T] {
	return &Collection[T]{
		name: name,
		path: filepath.Join(dir, name+".json"),
	}
}

// Name returns the collection name
func (c *Collection[T]) Name() string { return c.name }

// Path returns the backing file path
func (c *Collection[T]) Path() string { return c.path }

// Load returns all records. A missing file is initialized with def, which is then returned.
func (c *Collection[T]) Load(ctx context.Context, def []T) ([]T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.load(ctx, def)
}

// Save replaces the whole collection with records
func (c *Collection[T]) Save(ctx context.Context, records []T) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.save(ctx, records)
}

// Update loads the collection, passes it to fn and saves what fn returns.
// Nothing is written when fn returns an error; that error is returned as is.
func (c *Collection[T]) Update(ctx context.Context, fn func(records []T) ([]T, error)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	records, err := c.load(ctx, nil)
	if err != nil {
		return err
	}
	next, err := fn(records)
	if err != nil {
		return err
	}
	return c.save(ctx, next)
}

func (c *Collection[T]) load(ctx context.Context, def []T) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(c.path)
	if errors.Is(err, fs.ErrNotExist) {
		if def == nil {
			def = []T{}
		}
		if err := c.save(ctx, def); err != nil {
			return nil, err
		}
		return def, nil
	}
	if err != nil {
		return nil, &StoreError{Collection: c.name, Op: "read", Err: err}
	}

	var records []T
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, &StoreError{Collection: c.name, Op: "decode", Err: err}
	}
	if records == nil {
		records = []T{}
	}
	return records, nil
}

// save writes to a temp file in the same directory and renames it over the
// target, so readers never observe a partially written document.
func (c *Collection[T]) save(ctx context.Context, records []T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if records == nil {
		records = []T{}
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return &StoreError{Collection: c.name, Op: "encode", Err: err}
	}

	tmp, err := os.CreateTemp(filepath.Dir(c.path), "."+c.name+".*.tmp")
	if err != nil {
		return &StoreError{Collection: c.name, Op: "write", Err: err}
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return &StoreError{Collection: c.name, Op: "write", Err: err}
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return &StoreError{Collection: c.name, Op: "write", Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return &StoreError{Collection: c.name, Op: "write", Err: err}
	}
	if err := os.Rename(tmpName, c.path); err != nil {
		os.Remove(tmpName)
		return &StoreError{Collection: c.name, Op: "write", Err: err}
	}
	return nil
}
