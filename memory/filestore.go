package memory

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
)

type fsStore struct {
	fsys fs.FS
}

// NewFileStore creates a Store over the directory tree at root. Keys are
// /-separated paths relative to root.
func NewFileStore(root string) Store {
	return NewFSStore(os.DirFS(root))
}

// NewFSStore creates a Store over fsys. Only regular files are entries;
// names starting with a dot are skipped along with everything beneath them.
func NewFSStore(fsys fs.FS) Store {
	return &fsStore{fsys: fsys}
}

func (s *fsStore) List(ctx context.Context) ([]string, error) {
	var keys []string

	err := fs.WalkDir(s.fsys, ".", func(key string, d fs.DirEntry, err error) error {
		if err != nil {
			if key == "." && errors.Is(err, fs.ErrNotExist) {
				return fs.SkipAll
			}
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		if key != "." && hidden(d.Name()) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() {
			keys = append(keys, key)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}

	return keys, nil
}

func (s *fsStore) Load(ctx context.Context, keys ...string) ([]Entry, error) {
	entries := make([]Entry, 0, len(keys))

	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadFailed, err)
		}
		if !fs.ValidPath(key) || key == "." {
			return nil, fmt.Errorf("%w: %q", ErrInvalidKey, key)
		}

		data, err := fs.ReadFile(s.fsys, key)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, key)
		case err != nil:
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadFailed, key, err)
		}
		entries = append(entries, Entry{Key: key, Value: data})
	}

	return entries, nil
}

func hidden(name string) bool {
	return strings.HasPrefix(name, ".")
}
