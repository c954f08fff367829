package agent

import (
	"fmt"
	"sort"
	"sync"

	"github.com/tailored-agentic-units/chat/agent/providers"
)

// Model describes a selectable model: the name accepted by --model, the
// provider that serves it and the identifier sent on the wire.
type Model struct {
	Name        string
	Provider    string
	ID          string
	Description string
}

// Registry holds the enumerated set of selectable models.
// Thread-safe for concurrent access.
type Registry struct {
	mu     sync.RWMutex
	models map[string]Model
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{models: make(map[string]Model)}
}

// Get returns the model registered under name.
func (r *Registry) Get(name string) (Model, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, exists := r.models[name]
	if !exists {
		return Model{}, fmt.Errorf("%w: %s (valid: %v)", ErrUnknownModel, name, r.namesLocked())
	}
	return m, nil
}

// List returns all registered models, sorted by name.
func (r *Registry) List() []Model {
	r.mu.RLock()
	defer r.mu.RUnlock()

	models := make([]Model, 0, len(r.models))
	for _, m := range r.models {
		models = append(models, m)
	}

	sort.Slice(models, func(i, j int) bool {
		return models[i].Name < models[j].Name
	})

	return models
}

// Names returns the registered model names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.namesLocked()
}

func (r *Registry) namesLocked() []string {
	names := make([]string, 0, len(r.models))
	for name := range r.models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Register adds a model. The provider must be one of providers.Names.
func (r *Registry) Register(m Model) error {
	if m.Name == "" {
		return ErrEmptyModelName
	}
	if _, err := providers.CredentialEnv(m.Provider); err != nil {
		return fmt.Errorf("model %q: %w", m.Name, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.models[m.Name]; exists {
		return fmt.Errorf("%w: %s", ErrModelExists, m.Name)
	}

	r.models[m.Name] = m
	return nil
}
