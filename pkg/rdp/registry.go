package rdp

import "sync"

// Registry is the default actor registry for Conn implementations. All
// lookups and the get-or-create path hold the same lock, so creation stays
// idempotent even when the transport is poked from several goroutines.
type Registry struct {
	mu     sync.Mutex
	actors map[string]Actor
}

func NewRegistry() *Registry {
	return &Registry{actors: make(map[string]Actor)}
}

func (r *Registry) Register(a Actor) {
	r.mu.Lock()
	r.actors[a.Name()] = a
	r.mu.Unlock()
}

func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	delete(r.actors, name)
	r.mu.Unlock()
}

func (r *Registry) Get(name string) (Actor, bool) {
	r.mu.Lock()
	a, ok := r.actors[name]
	r.mu.Unlock()
	return a, ok
}

// GetOrCreate returns the actor registered under name, building it with
// factory when absent. The factory runs under the registry lock so two
// notifications for the same name cannot race a duplicate into existence.
func (r *Registry) GetOrCreate(name string, factory func(name string) Actor) Actor {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a, ok := r.actors[name]; ok {
		return a
	}
	a := factory(name)
	r.actors[name] = a
	return a
}

// Names returns the names of all registered actors.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.actors))
	for name := range r.actors {
		names = append(names, name)
	}
	return names
}
