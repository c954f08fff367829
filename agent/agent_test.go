package agent_test

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tailored-agentic-units/chat/agent"
	"github.com/tailored-agentic-units/chat/agent/providers"
	"github.com/tailored-agentic-units/chat/core/protocol"
)

func floatPtr(f float64) *float64 { return &f }

func durationPtr(d time.Duration) *time.Duration { return &d }

func TestDefaultConfig(t *testing.T) {
	cfg := agent.DefaultConfig()

	assert.Equal(t, agent.DefaultModel, cfg.Model)
	assert.InDelta(t, agent.DefaultTemperature, cfg.TemperatureValue(), 1e-9)
	assert.Equal(t, agent.DefaultTimeout, cfg.TimeoutValue())
	assert.NoError(t, cfg.Validate())
}

func TestConfig_Merge(t *testing.T) {
	cfg := agent.DefaultConfig()
	cfg.Merge(&agent.Config{
		Model:       "gpt-4o",
		Temperature: floatPtr(0),
		BaseURL:     "http://localhost:9999",
		Timeout:     durationPtr(time.Second),
	})

	assert.Equal(t, "gpt-4o", cfg.Model)
	assert.Zero(t, cfg.TemperatureValue())
	assert.Equal(t, "http://localhost:9999", cfg.BaseURL)
	assert.Equal(t, time.Second, cfg.TimeoutValue())

	// Empty source changes nothing.
	before := cfg
	cfg.Merge(&agent.Config{})
	assert.Equal(t, before.Model, cfg.Model)
	assert.Equal(t, before.TemperatureValue(), cfg.TemperatureValue())
}

func TestConfig_Merge_ZeroTimeout(t *testing.T) {
	cfg := agent.DefaultConfig()
	src := agent.Config{Timeout: durationPtr(0)}

	cfg.Merge(&src)
	assert.Zero(t, cfg.TimeoutValue())

	*src.Timeout = time.Hour
	assert.Zero(t, cfg.TimeoutValue(), "Merge must copy the timeout")
}

func TestConfig_Merge_CopiesTemperature(t *testing.T) {
	src := agent.Config{Temperature: floatPtr(0.3)}
	cfg := agent.DefaultConfig()
	cfg.Merge(&src)

	*src.Temperature = 1.9
	assert.InDelta(t, 0.3, cfg.TemperatureValue(), 1e-9)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		model       string
		temperature *float64
		wantErr     error
	}{
		{"defaults", agent.DefaultModel, nil, nil},
		{"lower bound", agent.DefaultModel, floatPtr(0), nil},
		{"upper bound", agent.DefaultModel, floatPtr(2), nil},
		{"below range", agent.DefaultModel, floatPtr(-0.1), agent.ErrInvalidTemperature},
		{"above range", agent.DefaultModel, floatPtr(2.01), agent.ErrInvalidTemperature},
		{"not a number", agent.DefaultModel, floatPtr(math.NaN()), agent.ErrInvalidTemperature},
		{"unknown model", "gpt-99", nil, agent.ErrUnknownModel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := agent.Config{Model: tt.model, Temperature: tt.temperature}
			err := cfg.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCatalog(t *testing.T) {
	names := agent.Catalog.Names()

	assert.Contains(t, names, agent.DefaultModel)
	assert.Contains(t, names, "gemini-2.0-flash")

	m, err := agent.Catalog.Get(agent.DefaultModel)
	require.NoError(t, err)
	assert.Equal(t, providers.OpenRouter, m.Provider)
	assert.Equal(t, "openai/gpt-4o-mini", m.ID)

	_, err = agent.Catalog.Get("bogus")
	assert.ErrorIs(t, err, agent.ErrUnknownModel)
	assert.Contains(t, err.Error(), agent.DefaultModel, "error should list valid names")
}

func TestRegistry(t *testing.T) {
	r := agent.NewRegistry()

	assert.ErrorIs(t, r.Register(agent.Model{}), agent.ErrEmptyModelName)
	assert.ErrorIs(t, r.Register(agent.Model{Name: "x", Provider: "ollama"}), providers.ErrUnknownProvider)

	require.NoError(t, r.Register(agent.Model{Name: "b", Provider: providers.OpenAI, ID: "b-id"}))
	require.NoError(t, r.Register(agent.Model{Name: "a", Provider: providers.Gemini, ID: "a-id"}))
	assert.ErrorIs(t, r.Register(agent.Model{Name: "a", Provider: providers.Gemini}), agent.ErrModelExists)

	list := r.List()
	require.Len(t, list, 2)
	assert.Equal(t, "a", list[0].Name)
	assert.Equal(t, []string{"a", "b"}, r.Names())
}

func TestCredentialEnv(t *testing.T) {
	env, err := agent.CredentialEnv(agent.DefaultModel)
	require.NoError(t, err)
	assert.Equal(t, "OPENROUTER_API_KEY", env)

	env, err = agent.CredentialEnv("gemini-2.0-flash")
	require.NoError(t, err)
	assert.Equal(t, "GEMINI_API_KEY", env)
}

func TestResolveCredential(t *testing.T) {
	cfg := agent.DefaultConfig()

	err := agent.ResolveCredential(&cfg, func(string) string { return "   " })
	assert.ErrorIs(t, err, agent.ErrMissingCredential)
	assert.Contains(t, err.Error(), "OPENROUTER_API_KEY")

	err = agent.ResolveCredential(&cfg, func(name string) string {
		if name == "OPENROUTER_API_KEY" {
			return "sk-test"
		}
		return ""
	})
	require.NoError(t, err)
	assert.Equal(t, "sk-test", cfg.APIKey)
}

func TestNew_MissingCredential(t *testing.T) {
	cfg := agent.DefaultConfig()

	_, err := agent.New(context.Background(), &cfg)
	assert.ErrorIs(t, err, agent.ErrMissingCredential)
}

func TestNewFactory_InvalidConfig(t *testing.T) {
	cfg := agent.DefaultConfig()
	cfg.Temperature = floatPtr(5)

	_, err := agent.NewFactory(cfg)
	assert.ErrorIs(t, err, agent.ErrInvalidTemperature)
}

// completionServer counts requests and answers with a fixed completion.
func completionServer(t *testing.T, delay time.Duration, calls *atomic.Int32) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)

		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err == nil {
			assert.Equal(t, "openai/gpt-4o-mini", body["model"])
		}

		if delay > 0 {
			select {
			case <-time.After(delay):
			case <-r.Context().Done():
				return
			}
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"1","model":"openai/gpt-4o-mini","choices":[{"index":0,"message":{"role":"assistant","content":"Hello"},"finish_reason":"stop"}]}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFactory_FreshAgentPerCall(t *testing.T) {
	var calls atomic.Int32
	srv := completionServer(t, 0, &calls)

	cfg := agent.DefaultConfig()
	cfg.APIKey = "sk-test"
	cfg.BaseURL = srv.URL

	factory, err := agent.NewFactory(cfg)
	require.NoError(t, err)

	for range 2 {
		a, err := factory(context.Background())
		require.NoError(t, err)
		assert.Equal(t, agent.DefaultModel, a.Model())

		resp, err := a.Chat(context.Background(), protocol.InitMessages("sys", "Hi"))
		require.NoError(t, err)
		assert.Equal(t, "Hello", resp.Content)
	}

	assert.EqualValues(t, 2, calls.Load())
}

func TestAgent_SingleUse(t *testing.T) {
	var calls atomic.Int32
	srv := completionServer(t, 0, &calls)

	cfg := agent.DefaultConfig()
	cfg.APIKey = "sk-test"
	cfg.BaseURL = srv.URL

	a, err := agent.New(context.Background(), &cfg)
	require.NoError(t, err)

	_, err = a.Chat(context.Background(), protocol.InitMessages("", "Hi"))
	require.NoError(t, err)

	_, err = a.Chat(context.Background(), protocol.InitMessages("", "again"))
	assert.ErrorIs(t, err, agent.ErrAgentUsed)
	assert.EqualValues(t, 1, calls.Load())
}

func TestAgent_Timeout(t *testing.T) {
	var calls atomic.Int32
	srv := completionServer(t, 2*time.Second, &calls)

	cfg := agent.DefaultConfig()
	cfg.APIKey = "sk-test"
	cfg.BaseURL = srv.URL
	cfg.Timeout = durationPtr(50 * time.Millisecond)

	a, err := agent.New(context.Background(), &cfg)
	require.NoError(t, err)

	_, err = a.Chat(context.Background(), protocol.InitMessages("", "Hi"))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
