package session

import (
	"slices"
	"sync"

	"github.com/google/uuid"
)

type memorySession struct {
	id    string
	turns []Turn
	mu    sync.RWMutex
}

// NewMemorySession creates a Session backed by an in-memory slice.
// The session is assigned a unique UUIDv7 identifier.
func NewMemorySession() Session {
	return &memorySession{
		id: uuid.Must(uuid.NewV7()).String(),
	}
}

func (s *memorySession) ID() string {
	return s.id
}

func (s *memorySession) AddTurn(turn Turn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = append(s.turns, turn)
}

func (s *memorySession) Turns() []Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.turns) == 0 {
		return []Turn{}
	}
	return slices.Clone(s.turns)
}

func (s *memorySession) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.turns)
}

func (s *memorySession) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = nil
}
