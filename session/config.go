package session

import (
	"errors"
	"fmt"
)

// BackendMemory is the in-process history backend. It is the only backend;
// history never outlives the process.
const BackendMemory = "memory"

// ErrUnknownBackend is returned by New for an unsupported Config.Backend.
var ErrUnknownBackend = errors.New("unknown session backend")

// Config holds session initialization parameters.
type Config struct {
	Backend string `json:"backend,omitempty"`
}

// DefaultConfig returns the default session configuration.
func DefaultConfig() Config {
	return Config{Backend: BackendMemory}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	if source.Backend != "" {
		c.Backend = source.Backend
	}
}

// New creates a Session from configuration.
func New(cfg *Config) (Session, error) {
	switch cfg.Backend {
	case "", BackendMemory:
		return NewMemorySession(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownBackend, cfg.Backend)
	}
}
