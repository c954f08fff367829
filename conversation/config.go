package conversation

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/tailored-agentic-units/chat/agent"
	"github.com/tailored-agentic-units/chat/memory"
	"github.com/tailored-agentic-units/chat/session"
)

// DefaultSystemPrompt is the system instruction used when none is configured.
const DefaultSystemPrompt = "You are a helpful assistant. Answer user questions concisely."

// Config holds initialization parameters for every subsystem of a chat
// session. Once the engine is built the resolved values never change.
type Config struct {
	Agent        agent.Config   `json:"agent"`
	Session      session.Config `json:"session"`
	Memory       memory.Config  `json:"memory"`
	SystemPrompt string         `json:"system_prompt,omitempty"`
}

// DefaultConfig returns a Config with defaults for all subsystems.
func DefaultConfig() Config {
	return Config{
		Agent:        agent.DefaultConfig(),
		Session:      session.DefaultConfig(),
		Memory:       memory.DefaultConfig(),
		SystemPrompt: DefaultSystemPrompt,
	}
}

// Merge applies non-zero values from source into c, delegating to each
// subsystem's Merge method.
func (c *Config) Merge(source *Config) {
	c.Agent.Merge(&source.Agent)
	c.Session.Merge(&source.Session)
	c.Memory.Merge(&source.Memory)

	if source.SystemPrompt != "" {
		c.SystemPrompt = source.SystemPrompt
	}
}

// Validate reports invalid values as ErrConfiguration.
func (c *Config) Validate() error {
	if err := c.Agent.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	return nil
}

// LoadConfig reads a config file in any format viper understands (JSON,
// YAML, TOML, ...), merges it over the defaults, and returns the result.
// Keys follow the json tags of Config.
func LoadConfig(filename string) (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigFile(filename)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("%w: failed to read config file: %w", ErrConfiguration, err)
	}

	var loaded Config
	err := v.Unmarshal(&loaded, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "json"
		dc.ErrorUnused = true
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse config file: %w", ErrConfiguration, err)
	}

	cfg.Merge(&loaded)
	return &cfg, nil
}
