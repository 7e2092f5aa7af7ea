package templates

import (
	"fmt"
	"sort"
	"sync"
)

// Registry holds the starters available to `blueprint new`.
type Registry struct {
	starters map[string]*Starter
	mutex    sync.RWMutex
}

// NewRegistry creates an empty starter registry.
func NewRegistry() *Registry {
	return &Registry{
		starters: make(map[string]*Starter),
	}
}

// Register validates a starter and adds it to the registry.
func (r *Registry) Register(s *Starter) error {
	if err := s.Validate(); err != nil {
		return fmt.Errorf("invalid starter: %w", err)
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.starters[s.Name]; exists {
		return fmt.Errorf("starter %s already registered", s.Name)
	}

	r.starters[s.Name] = s
	return nil
}

// Get retrieves a starter by name.
func (r *Registry) Get(name string) (*Starter, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	s, exists := r.starters[name]
	if !exists {
		return nil, fmt.Errorf("starter %s not found", name)
	}

	return s, nil
}

// List returns all registered starters sorted by name.
func (r *Registry) List() []*Starter {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	starters := make([]*Starter, 0, len(r.starters))
	for _, s := range r.starters {
		starters = append(starters, s)
	}
	sort.Slice(starters, func(i, j int) bool { return starters[i].Name < starters[j].Name })

	return starters
}

// Names returns the registered starter names sorted alphabetically.
func (r *Registry) Names() []string {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	names := make([]string, 0, len(r.starters))
	for name := range r.starters {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// Exists checks if a starter is registered.
func (r *Registry) Exists(name string) bool {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	_, exists := r.starters[name]
	return exists
}

// defaultRegistry holds the built-in starters.
var defaultRegistry = NewRegistry()

func init() {
	for _, s := range []*Starter{
		NewMinimalStarter(),
		NewBlogStarter(),
		NewShopStarter(),
	} {
		if err := defaultRegistry.Register(s); err != nil {
			panic(fmt.Sprintf("built-in starter %s: %v", s.Name, err))
		}
	}
}

// DefaultRegistry returns the registry of built-in starters.
func DefaultRegistry() *Registry {
	return defaultRegistry
}
