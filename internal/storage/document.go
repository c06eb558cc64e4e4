package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Document is a single durable record. Load reports false when nothing has
// been stored yet.
type Document[T any] interface {
	Load(ctx context.Context) (T, bool, error)
	Store(ctx context.Context, v T) error
}

// FileDocument keeps a Document as one JSON file.
type FileDocument[T any] struct {
	path string
}

func NewFileDocument[T any](path string) *FileDocument[T] {
	return &FileDocument[T]{path: path}
}

func (d *FileDocument[T]) Load(_ context.Context) (T, bool, error) {
	var v T

	data, err := os.ReadFile(d.path)
	if errors.Is(err, fs.ErrNotExist) {
		return v, false, nil
	}
	if err != nil {
		return v, false, fmt.Errorf("reading %s: %w", d.path, err)
	}

	if err := json.Unmarshal(data, &v); err != nil {
		return v, false, fmt.Errorf("unmarshalling %s: %w", d.path, err)
	}
	return v, true, nil
}

func (d *FileDocument[T]) Store(_ context.Context, v T) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling document: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(d.path), 0755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(d.path), err)
	}

	return atomicWrite(d.path, data, 0644)
}
