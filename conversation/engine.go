// Package conversation implements the session engine of the chat client.
// The engine owns the conversation history, turns each chat message into a
// backend request through a fresh agent, and records a turn only when the
// backend answered.
//
// The engine initializes from configuration via New. Functional options
// override any subsystem for tests.
//
//	e, err := conversation.New(ctx, &cfg)
//	outcome, err := e.Exchange(ctx, "What's the capital of Peru?")
package conversation

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/tailored-agentic-units/chat/agent"
	"github.com/tailored-agentic-units/chat/core/protocol"
	"github.com/tailored-agentic-units/chat/core/response"
	"github.com/tailored-agentic-units/chat/memory"
	"github.com/tailored-agentic-units/chat/observability"
	"github.com/tailored-agentic-units/chat/session"
)

// Outcome is the transient result of a successful exchange. Only the
// message and Response are kept, as a session.Turn.
type Outcome struct {
	Response string
	Model    string
	Duration time.Duration
	Usage    *response.TokenUsage // nil when the backend does not report usage
}

// Option configures an Engine after config-driven initialization.
type Option func(*Engine)

// WithAgentFactory overrides the config-created agent factory.
func WithAgentFactory(f agent.Factory) Option {
	return func(e *Engine) { e.factory = f }
}

// WithSession overrides the config-created session.
func WithSession(s session.Session) Option {
	return func(e *Engine) { e.session = s }
}

// WithMemoryStore overrides the config-created context store.
func WithMemoryStore(s memory.Store) Option {
	return func(e *Engine) { e.store = s }
}

// WithObserver overrides the default NoOpObserver.
func WithObserver(o observability.Observer) Option {
	return func(e *Engine) { e.observer = o }
}

// WithClock overrides the time source used to measure exchanges.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// Engine is the conversation engine. It is driven from a single goroutine;
// at most one exchange is in flight at a time.
type Engine struct {
	factory     agent.Factory
	session     session.Session
	store       memory.Store
	observer    observability.Observer
	now         func() time.Time
	model       string
	instruction string
}

// New creates an Engine from configuration. The system instruction is
// composed once, from cfg.SystemPrompt plus any context files, and is fixed
// for the engine's lifetime.
func New(ctx context.Context, cfg *Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	factory, err := agent.NewFactory(cfg.Agent)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}

	sesh, err := session.New(&cfg.Session)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create session: %w", ErrConfiguration, err)
	}

	store, err := memory.NewStore(&cfg.Memory)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create context store: %w", ErrConfiguration, err)
	}

	e := &Engine{
		factory:  factory,
		session:  sesh,
		store:    store,
		observer: observability.NoOpObserver{},
		now:      time.Now,
		model:    cfg.Agent.Model,
	}

	for _, opt := range opts {
		opt(e)
	}

	e.instruction, err = memory.Compose(ctx, e.store, cfg.SystemPrompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}

	e.observer.OnEvent(ctx, observability.Event{
		Type:      EventSessionStart,
		Level:     observability.LevelInfo,
		Timestamp: e.now(),
		Source:    "conversation.New",
		Data: map[string]any{
			"session_id":         e.session.ID(),
			"model":              e.model,
			"instruction_length": len(e.instruction),
		},
	})

	return e, nil
}

// SessionID returns the identifier of the underlying session.
func (e *Engine) SessionID() string {
	return e.session.ID()
}

// SystemInstruction returns the composed system instruction.
func (e *Engine) SystemInstruction() string {
	return e.instruction
}

// Model returns the configured catalog model name.
func (e *Engine) Model() string {
	return e.model
}

// Exchange sends message with the system instruction to a freshly created
// agent. On success the (message, response) turn is appended to history.
// On failure history is left untouched and the returned error wraps
// agent.ErrBackend.
func (e *Engine) Exchange(ctx context.Context, message string) (*Outcome, error) {
	if strings.TrimSpace(message) == "" {
		return nil, ErrEmptyMessage
	}

	e.observer.OnEvent(ctx, observability.Event{
		Type:      EventExchangeStart,
		Level:     observability.LevelVerbose,
		Timestamp: e.now(),
		Source:    "conversation.Exchange",
		Data: map[string]any{
			"session_id":     e.session.ID(),
			"message_length": len(message),
			"turn":           e.session.Len() + 1,
		},
	})

	start := e.now()

	a, err := e.factory(ctx)
	if err != nil {
		return nil, e.fail(ctx, start, fmt.Errorf("%w: failed to create agent: %w", agent.ErrBackend, err))
	}

	resp, err := a.Chat(ctx, protocol.InitMessages(e.instruction, message))
	if err != nil {
		return nil, e.fail(ctx, start, fmt.Errorf("%w: %w", agent.ErrBackend, err))
	}

	elapsed := e.now().Sub(start)

	e.session.AddTurn(session.Turn{User: message, Assistant: resp.Content})

	outcome := &Outcome{
		Response: resp.Content,
		Model:    a.Model(),
		Duration: elapsed,
		Usage:    resp.Usage,
	}

	data := map[string]any{
		"session_id":      e.session.ID(),
		"model":           outcome.Model,
		"duration_ms":     elapsed.Milliseconds(),
		"response_length": len(resp.Content),
		"turns":           e.session.Len(),
	}
	if resp.Usage != nil {
		data["prompt_tokens"] = resp.Usage.PromptTokens
		data["completion_tokens"] = resp.Usage.CompletionTokens
		data["total_tokens"] = resp.Usage.TotalTokens
	}

	e.observer.OnEvent(ctx, observability.Event{
		Type:      EventExchangeComplete,
		Level:     observability.LevelInfo,
		Timestamp: e.now(),
		Source:    "conversation.Exchange",
		Data:      data,
	})

	return outcome, nil
}

func (e *Engine) fail(ctx context.Context, start time.Time, err error) error {
	e.observer.OnEvent(ctx, observability.Event{
		Type:      EventExchangeError,
		Level:     observability.LevelWarning,
		Timestamp: e.now(),
		Source:    "conversation.Exchange",
		Data: map[string]any{
			"session_id":  e.session.ID(),
			"duration_ms": e.now().Sub(start).Milliseconds(),
			"error":       err,
		},
	})
	return err
}

// ClearHistory empties the conversation history. Clearing an empty history
// is a no-op.
func (e *Engine) ClearHistory() {
	cleared := e.session.Len()
	e.session.Clear()

	e.observer.OnEvent(context.Background(), observability.Event{
		Type:      EventHistoryClear,
		Level:     observability.LevelInfo,
		Timestamp: e.now(),
		Source:    "conversation.ClearHistory",
		Data: map[string]any{
			"session_id": e.session.ID(),
			"cleared":    cleared,
		},
	})
}

// History returns a snapshot of the recorded turns in insertion order.
func (e *Engine) History() []session.Turn {
	return e.session.Turns()
}

// Render headings.
const (
	NoHistoryNotice = "No conversation history yet."
	historyHeader   = "=== Conversation History ==="
	historyFooter   = "==========================="
)

// RenderHistory writes the history to w: a single notice line when it is
// empty, otherwise every turn with its 1-based index between a header and a
// footer.
func (e *Engine) RenderHistory(w io.Writer) error {
	turns := e.session.Turns()

	var b strings.Builder
	if len(turns) == 0 {
		b.WriteString(NoHistoryNotice + "\n")
	} else {
		b.WriteString("\n" + historyHeader + "\n")
		for i, turn := range turns {
			fmt.Fprintf(&b, "\n[%d] You: %s\n", i+1, indent(turn.User, "    "))
			fmt.Fprintf(&b, "    Assistant: %s\n", indent(turn.Assistant, "    "))
		}
		b.WriteString(historyFooter + "\n\n")
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("failed to render history: %w", err)
	}
	return nil
}

// indent prefixes every line after the first with prefix so multi-line
// messages stay inside their entry.
func indent(s, prefix string) string {
	if !strings.Contains(s, "\n") {
		return s
	}
	return strings.ReplaceAll(s, "\n", "\n"+prefix)
}
