package musculo

import (
	"fmt"
	"sync"
)

// Registry is a name-indexed System implementation hosts can embed.
type Registry struct {
	mu     sync.RWMutex
	bodies map[string]Body
	forces map[string]ForceSubsystem
}

func NewRegistry() *Registry {
	return &Registry{
		bodies: make(map[string]Body),
		forces: make(map[string]ForceSubsystem),
	}
}

func (r *Registry) AddBody(b Body) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b.Name() == "" {
		return fmt.Errorf("%w: body", ErrEmptyName)
	}
	if _, exists := r.bodies[b.Name()]; exists {
		return fmt.Errorf("%w: body %q", ErrDuplicate, b.Name())
	}
	r.bodies[b.Name()] = b
	return nil
}

func (r *Registry) AddForceSubsystem(fs ForceSubsystem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if fs.Name() == "" {
		return fmt.Errorf("%w: force subsystem", ErrEmptyName)
	}
	if _, exists := r.forces[fs.Name()]; exists {
		return fmt.Errorf("%w: force subsystem %q", ErrDuplicate, fs.Name())
	}
	r.forces[fs.Name()] = fs
	return nil
}

func (r *Registry) Body(name string) (Body, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.bodies[name]
	return b, ok
}

func (r *Registry) ForceSubsystem(name string) (ForceSubsystem, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fs, ok := r.forces[name]
	return fs, ok
}
