// Package passive holds the named passives actors can be granted. A passive
// is an effect that stays attached for as long as the actor has it.
package passive

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/rsandor/Solace-sub001/game/actor"
	"github.com/rsandor/Solace-sub001/game/effect"
)

// ErrNotFound is returned for a passive name nobody registered.
var ErrNotFound = errors.New("passive: not found")

// Registry maps passive names to their effects. The same effect value is
// shared by every actor granted the passive, so registered effects must not
// be modified afterwards.
type Registry struct {
	mu       sync.RWMutex
	passives map[string]*effect.Effect
	logger   *zap.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(logger *zap.Logger) *Registry {
	return &Registry{
		passives: make(map[string]*effect.Effect),
		logger:   logger,
	}
}

// Add registers e under its name. The first registration of a name wins;
// later ones are logged and skipped.
func (r *Registry) Add(e *effect.Effect) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.passives[e.Name()]; ok {
		r.logger.Warn("duplicate passive skipped", zap.String("passive", e.Name()))
		return false
	}
	r.passives[e.Name()] = e
	r.logger.Debug("passive added",
		zap.String("passive", e.Name()),
		zap.String("label", e.Label()))
	return true
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.passives[name]
	return ok
}

// Get returns the effect registered under name.
func (r *Registry) Get(name string) (*effect.Effect, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.passives[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return e, nil
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.passives))
	for n := range r.passives {
		names = append(names, n)
	}
	r.mu.RUnlock()
	sort.Strings(names)
	return names
}

// Len returns the number of registered passives.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.passives)
}

// Clear drops every passive, as before a script reload.
func (r *Registry) Clear() {
	r.mu.Lock()
	r.passives = make(map[string]*effect.Effect)
	r.mu.Unlock()
}

// Grant attaches and activates the named passive on a.
func (r *Registry) Grant(a actor.Actor, name string) error {
	e, err := r.Get(name)
	if err != nil {
		return err
	}
	return a.Effects().Apply(e)
}

// Revoke detaches the named passive from a.
func (r *Registry) Revoke(a actor.Actor, name string) error {
	return a.Effects().Detach(name)
}
