package world

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrIO marks a failure to read or write the world file. Only these failures
// are retried.
var ErrIO = errors.New("world file I/O failed")

// Store loads and saves the world document.
type Store interface {
	Load(ctx context.Context) (*Document, error)
	Save(ctx context.Context, doc *Document) error
}

// FileStore keeps the document in a single local file. Files ending in .yaml
// or .yml are YAML, everything else is JSON.
type FileStore struct {
	path   string
	format Format
}

var _ Store = (*FileStore)(nil)

// NewFileStore returns a store for path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path, format: FormatFor(path)}
}

// FormatFor picks the encoding from the file extension.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Path returns the file the store reads and writes.
func (s *FileStore) Path() string {
	return s.path
}

// Load implements Store.
func (s *FileStore) Load(ctx context.Context) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	doc, err := Decode(data, s.format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.path, err)
	}
	return doc, nil
}

// defaultFileMode is used when saving a world file that does not exist yet.
const defaultFileMode os.FileMode = 0o644

// Save implements Store. The document is written to a temporary file in the
// same directory and renamed over the target, keeping the target's
// permission bits.
func (s *FileStore) Save(ctx context.Context, doc *Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := Encode(doc, s.format)
	if err != nil {
		return fmt.Errorf("failed to encode world document: %w", err)
	}

	mode := defaultFileMode
	if info, err := os.Stat(s.path); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), "."+filepath.Base(s.path)+".*")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := tmp.Chmod(mode); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: %w", ErrIO, err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	return nil
}
