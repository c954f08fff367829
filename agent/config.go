package agent

import (
	"fmt"
	"math"
	"time"
)

// Temperature bounds and defaults.
const (
	MinTemperature     = 0.0
	MaxTemperature     = 2.0
	DefaultTemperature = 1.0
	DefaultTimeout     = 2 * time.Minute
)

// Config holds backend parameters for a chat session. APIKey is resolved
// from the environment at startup and never read from config files.
type Config struct {
	Model       string        `json:"model,omitempty"`
	Temperature *float64      `json:"temperature,omitempty"`
	BaseURL     string        `json:"base_url,omitempty"`
	Timeout     *time.Duration `json:"timeout,omitempty"`
	APIKey      string        `json:"-"`
}

// DefaultConfig returns the default agent configuration.
func DefaultConfig() Config {
	t := DefaultTemperature
	timeout := DefaultTimeout
	return Config{
		Model:       DefaultModel,
		Temperature: &t,
		Timeout:     &timeout,
	}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	if source.Model != "" {
		c.Model = source.Model
	}
	if source.Temperature != nil {
		t := *source.Temperature
		c.Temperature = &t
	}
	if source.BaseURL != "" {
		c.BaseURL = source.BaseURL
	}
	if source.Timeout != nil {
		timeout := *source.Timeout
		c.Timeout = &timeout
	}
	if source.APIKey != "" {
		c.APIKey = source.APIKey
	}
}

// TemperatureValue returns the configured temperature or the default.
func (c *Config) TemperatureValue() float64 {
	if c.Temperature == nil {
		return DefaultTemperature
	}
	return *c.Temperature
}

// TimeoutValue returns the configured timeout or the default. Zero
// disables the timeout.
func (c *Config) TimeoutValue() time.Duration {
	if c.Timeout == nil {
		return DefaultTimeout
	}
	return *c.Timeout
}

// Validate checks the model against Catalog and the temperature bounds.
// It does not check the credential; see ResolveCredential.
func (c *Config) Validate() error {
	if _, err := Catalog.Get(c.Model); err != nil {
		return err
	}

	t := c.TemperatureValue()
	if math.IsNaN(t) || t < MinTemperature || t > MaxTemperature {
		return fmt.Errorf("%w: %v (must be between %.1f and %.1f)",
			ErrInvalidTemperature, t, MinTemperature, MaxTemperature)
	}

	if timeout := c.TimeoutValue(); timeout < 0 {
		return fmt.Errorf("timeout must not be negative: %s", timeout)
	}
	return nil
}
