// Package providers implements the remote model backends. Each provider
// translates a ChatData request into its wire format and normalizes the
// reply into a response.ChatResponse.
package providers

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/tailored-agentic-units/chat/core/response"
)

// Provider names.
const (
	OpenRouter = "openrouter"
	OpenAI     = "openai"
	Gemini     = "gemini"
)

// Sentinel errors for provider construction and calls.
var (
	ErrUnknownProvider = errors.New("unknown provider")
	ErrEmptyResponse   = errors.New("backend returned no content")
)

// Provider performs a single chat request against a remote backend.
type Provider interface {
	Name() string
	Chat(ctx context.Context, data *ChatData) (*response.ChatResponse, error)
}

// Config holds the connection parameters for a provider.
type Config struct {
	APIKey  string
	BaseURL string // empty selects the provider default
}

type entry struct {
	credentialEnv string
	build         func(ctx context.Context, cfg Config) (Provider, error)
}

var registry = map[string]entry{
	OpenRouter: {
		credentialEnv: "OPENROUTER_API_KEY",
		build: func(_ context.Context, cfg Config) (Provider, error) {
			if cfg.BaseURL == "" {
				cfg.BaseURL = OpenRouterBaseURL
			}
			return NewOpenAI(OpenRouter, cfg), nil
		},
	},
	OpenAI: {
		credentialEnv: "OPENAI_API_KEY",
		build: func(_ context.Context, cfg Config) (Provider, error) {
			return NewOpenAI(OpenAI, cfg), nil
		},
	},
	Gemini: {
		credentialEnv: "GEMINI_API_KEY",
		build: func(ctx context.Context, cfg Config) (Provider, error) {
			return NewGemini(ctx, cfg)
		},
	},
}

// New creates a provider by name. Every call returns a new client; providers
// are never shared between requests.
func New(ctx context.Context, name string, cfg Config) (Provider, error) {
	s, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, name)
	}
	return s.build(ctx, cfg)
}

// CredentialEnv returns the environment variable that holds the API key for
// the named provider.
func CredentialEnv(name string) (string, error) {
	s, ok := registry[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownProvider, name)
	}
	return s.credentialEnv, nil
}

// Names returns the supported provider names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
