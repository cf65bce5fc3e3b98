package actor

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Registry tracks the actors currently in the world. The recovery cycle walks
// it every few ticks.
type Registry struct {
	mu     sync.RWMutex
	actors map[uuid.UUID]Actor
	logger *zap.Logger
}

// NewRegistry creates an empty Registry.
func NewRegistry(logger *zap.Logger) *Registry {
	return &Registry{
		actors: make(map[uuid.UUID]Actor),
		logger: logger,
	}
}

// Add registers a. Adding the same actor twice is a no-op.
func (r *Registry) Add(a Actor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.actors[a.ID()]; ok {
		return
	}
	r.actors[a.ID()] = a
	r.logger.Debug("actor registered",
		zap.String("actor_id", a.ID().String()),
		zap.String("name", a.Name()),
		zap.Bool("mobile", a.IsMobile()))
}

// Remove drops the actor with the given id.
func (r *Registry) Remove(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.actors[id]; !ok {
		return
	}
	delete(r.actors, id)
	r.logger.Debug("actor removed", zap.String("actor_id", id.String()))
}

// Get returns the actor with the given id, or nil.
func (r *Registry) Get(id uuid.UUID) Actor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.actors[id]
}

// Snapshot returns the registered actors in no particular order.
func (r *Registry) Snapshot() []Actor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Actor, 0, len(r.actors))
	for _, a := range r.actors {
		out = append(out, a)
	}
	return out
}

// Count returns the number of registered actors.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.actors)
}
