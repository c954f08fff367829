package memory

// Config holds context-file initialization parameters.
type Config struct {
	Path string `json:"path,omitempty"` // FileStore root directory; empty disables context files.
}

// DefaultConfig returns the default configuration (disabled).
func DefaultConfig() Config {
	return Config{}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	if source.Path != "" {
		c.Path = source.Path
	}
}

// NewStore creates a Store from configuration. Returns a nil Store when Path
// is empty, meaning no context files are loaded.
func NewStore(cfg *Config) (Store, error) {
	if cfg.Path == "" {
		return nil, nil
	}
	return NewFileStore(cfg.Path), nil
}
