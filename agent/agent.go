// Package agent is the backend gateway of the chat client. An Agent is a
// single-use handle that performs exactly one chat request; callers obtain a
// fresh handle for every exchange through a Factory, so no conversational
// state can live inside a backend client.
package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/tailored-agentic-units/chat/agent/providers"
	"github.com/tailored-agentic-units/chat/core/protocol"
	"github.com/tailored-agentic-units/chat/core/response"
)

// ErrAgentUsed is returned when Chat is called a second time on the same
// handle.
var ErrAgentUsed = errors.New("agent handle already used")

// Agent performs one chat request against a backend.
type Agent interface {
	// Model returns the catalog name of the model this agent talks to.
	Model() string
	// Chat sends the messages and returns the backend's reply.
	Chat(ctx context.Context, messages []protocol.Message) (*response.ChatResponse, error)
}

// Factory creates a new Agent for each exchange.
type Factory func(ctx context.Context) (Agent, error)

type chatAgent struct {
	provider    providers.Provider
	model       Model
	temperature float64
	timeout     time.Duration
	used        atomic.Bool
}

// New creates a single-use Agent for the configured model.
func New(ctx context.Context, cfg *Config) (Agent, error) {
	model, err := Catalog.Get(cfg.Model)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(cfg.APIKey) == "" {
		env, _ := providers.CredentialEnv(model.Provider)
		return nil, fmt.Errorf("%w: %s is not set", ErrMissingCredential, env)
	}

	p, err := providers.New(ctx, model.Provider, providers.Config{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create provider: %w", err)
	}

	return &chatAgent{
		provider:    p,
		model:       model,
		temperature: cfg.TemperatureValue(),
		timeout:     cfg.TimeoutValue(),
	}, nil
}

// NewFactory validates cfg and returns a Factory that builds a new Agent
// from a private copy of it on every call.
func NewFactory(cfg Config) (Factory, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Temperature != nil {
		t := *cfg.Temperature
		cfg.Temperature = &t
	}
	if cfg.Timeout != nil {
		timeout := *cfg.Timeout
		cfg.Timeout = &timeout
	}

	return func(ctx context.Context) (Agent, error) {
		return New(ctx, &cfg)
	}, nil
}

// CredentialEnv returns the environment variable holding the API key for
// the named catalog model.
func CredentialEnv(modelName string) (string, error) {
	model, err := Catalog.Get(modelName)
	if err != nil {
		return "", err
	}
	return providers.CredentialEnv(model.Provider)
}

// ResolveCredential sets cfg.APIKey from lookup(name) where name is the
// credential variable of the configured model's provider. A blank value is
// an ErrMissingCredential.
func ResolveCredential(cfg *Config, lookup func(name string) string) error {
	env, err := CredentialEnv(cfg.Model)
	if err != nil {
		return err
	}

	key := strings.TrimSpace(lookup(env))
	if key == "" {
		return fmt.Errorf("%w: %s is not set", ErrMissingCredential, env)
	}

	cfg.APIKey = key
	return nil
}

func (a *chatAgent) Model() string {
	return a.model.Name
}

func (a *chatAgent) Chat(ctx context.Context, messages []protocol.Message) (*response.ChatResponse, error) {
	if !a.used.CompareAndSwap(false, true) {
		return nil, ErrAgentUsed
	}

	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	resp, err := a.provider.Chat(ctx, &providers.ChatData{
		Model:    a.model.ID,
		Messages: messages,
		Options: map[string]any{
			providers.OptionTemperature: a.temperature,
		},
	})
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, providers.ErrEmptyResponse
	}
	return resp, nil
}
