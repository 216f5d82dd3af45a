package passage

import (
	"sync"

	"go.inout.gg/foundations/debug"

	"go.inout.gg/passage/passagestrategy"
)

// Registry holds named authentication strategies.
//
// Construct one at application startup, register every strategy with
// Use, and hand it to New. Lookups happen on the request path and are
// safe for concurrent use; registration is expected to be finished
// before the first request is served.
type Registry struct {
	mu         sync.RWMutex
	strategies map[string]passagestrategy.Strategy
}

// NewRegistry creates an empty strategy registry.
func NewRegistry() *Registry {
	return &Registry{strategies: make(map[string]passagestrategy.Strategy)}
}

// Use registers strategy under name, replacing any strategy previously
// registered under the same name.
func (reg *Registry) Use(name string, strategy passagestrategy.Strategy) {
	debug.Assert(name != "", "name must be set")
	debug.Assert(strategy != nil, "strategy must be set")

	reg.mu.Lock()
	defer reg.mu.Unlock()

	reg.strategies[name] = strategy
}

// Unuse removes the strategy registered under name, if any.
func (reg *Registry) Unuse(name string) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	delete(reg.strategies, name)
}

// Lookup returns the strategy registered under name.
func (reg *Registry) Lookup(name string) (passagestrategy.Strategy, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	strategy, ok := reg.strategies[name]

	return strategy, ok
}
