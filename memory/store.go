// Package memory loads context files that extend the session's system
// instruction. Files are read once at startup; the resulting instruction is
// fixed for the lifetime of the session.
package memory

import (
	"context"
	"fmt"
	"strings"
)

// Entry is a context file: its /-separated key relative to the store root
// and its raw contents.
type Entry struct {
	Key   string
	Value []byte
}

// Store lists and loads context entries. Implementations are stateless and
// perform I/O on each call.
type Store interface {
	// List returns all available keys in lexical order.
	List(ctx context.Context) ([]string, error)
	// Load retrieves entries for the specified keys, in the order given.
	Load(ctx context.Context, keys ...string) ([]Entry, error)
}

// Compose appends every entry of store to base, separated by blank lines,
// in key order. Entries that are empty after trimming are skipped. A nil
// store returns base unchanged.
func Compose(ctx context.Context, store Store, base string) (string, error) {
	if store == nil {
		return base, nil
	}

	keys, err := store.List(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to list context files: %w", err)
	}
	if len(keys) == 0 {
		return base, nil
	}

	entries, err := store.Load(ctx, keys...)
	if err != nil {
		return "", fmt.Errorf("failed to load context files: %w", err)
	}

	var b strings.Builder
	b.WriteString(base)
	for _, entry := range entries {
		value := strings.TrimSpace(string(entry.Value))
		if value == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(value)
	}
	return b.String(), nil
}
