// Package mock provides scripted agents for tests. A Script hands out a
// fresh single-use MockAgent per Factory call and replays its replies in
// order, recording every request it receives.
package mock

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/tailored-agentic-units/chat/agent"
	"github.com/tailored-agentic-units/chat/core/protocol"
	"github.com/tailored-agentic-units/chat/core/response"
)

// ErrScriptExhausted is returned when an agent is asked for more replies
// than the script holds.
var ErrScriptExhausted = errors.New("mock script exhausted")

// Reply is one scripted backend outcome. A non-nil Err makes the call fail.
type Reply struct {
	Content string
	Err     error
	Usage   *response.TokenUsage
}

// Text returns a successful Reply.
func Text(content string) Reply {
	return Reply{Content: content}
}

// Fail returns a failing Reply.
func Fail(err error) Reply {
	return Reply{Err: err}
}

// Script is a shared, ordered sequence of replies.
type Script struct {
	mu       sync.Mutex
	replies  []Reply
	next     int
	created  int
	requests [][]protocol.Message
	model    string
	buildErr error
}

// Option configures a Script.
type Option func(*Script)

// WithModel sets the model name reported by agents.
func WithModel(name string) Option {
	return func(s *Script) { s.model = name }
}

// WithFactoryError makes every Factory call fail with err.
func WithFactoryError(err error) Option {
	return func(s *Script) { s.buildErr = err }
}

// NewScript creates a Script that replays replies in order.
func NewScript(replies []Reply, opts ...Option) *Script {
	s := &Script{
		replies: slices.Clone(replies),
		model:   "mock",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Factory returns an agent.Factory that creates a new MockAgent per call.
func (s *Script) Factory() agent.Factory {
	return func(ctx context.Context) (agent.Agent, error) {
		s.mu.Lock()
		defer s.mu.Unlock()

		if s.buildErr != nil {
			return nil, s.buildErr
		}
		s.created++
		return &MockAgent{script: s}, nil
	}
}

// Created returns the number of agents the factory has built.
func (s *Script) Created() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.created
}

// Requests returns a copy of every message list sent to the script's agents.
func (s *Script) Requests() [][]protocol.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([][]protocol.Message, len(s.requests))
	for i, r := range s.requests {
		out[i] = slices.Clone(r)
	}
	return out
}

func (s *Script) take(messages []protocol.Message) (Reply, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.requests = append(s.requests, slices.Clone(messages))
	if s.next >= len(s.replies) {
		return Reply{}, ErrScriptExhausted
	}
	r := s.replies[s.next]
	s.next++
	return r, nil
}

// MockAgent is a single-use agent backed by a Script.
type MockAgent struct {
	script *Script
	used   bool
}

func (a *MockAgent) Model() string {
	return a.script.model
}

func (a *MockAgent) Chat(ctx context.Context, messages []protocol.Message) (*response.ChatResponse, error) {
	if a.used {
		return nil, agent.ErrAgentUsed
	}
	a.used = true

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reply, err := a.script.take(messages)
	if err != nil {
		return nil, err
	}
	if reply.Err != nil {
		return nil, reply.Err
	}

	return &response.ChatResponse{
		Model:   a.script.model,
		Content: reply.Content,
		Usage:   reply.Usage,
	}, nil
}
