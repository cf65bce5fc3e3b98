package effect

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rsandor/Solace-sub001/game/stats"
)

var (
	// ErrAlreadyAttached is returned when an effect with the same name is
	// already on the chain.
	ErrAlreadyAttached = errors.New("effect: already attached")
	// ErrNotAttached is returned when no effect with the given name is on the
	// chain.
	ErrNotAttached = errors.New("effect: not attached")
)

// State is the lifecycle position of an effect on a chain.
type State int

const (
	Detached State = iota
	Attached
	Active
)

func (s State) String() string {
	switch s {
	case Attached:
		return "attached"
	case Active:
		return "active"
	}
	return "detached"
}

type attachment struct {
	effect *Effect
	active bool
}

// Chain is the ordered list of effects attached to one actor. Only active
// effects take part in evaluation.
type Chain struct {
	mu      sync.RWMutex
	entries []*attachment
}

// NewChain creates an empty chain.
func NewChain() *Chain {
	return &Chain{}
}

func (c *Chain) find(name string) (int, *attachment) {
	for i, a := range c.entries {
		if a.effect.name == name {
			return i, a
		}
	}
	return -1, nil
}

// Attach appends e to the chain without activating it.
func (c *Chain) Attach(e *Effect) error {
	return c.attach(e, false)
}

// Apply attaches e and activates it in one step.
func (c *Chain) Apply(e *Effect) error {
	return c.attach(e, true)
}

func (c *Chain) attach(e *Effect, active bool) error {
	if e == nil {
		return fmt.Errorf("%w: nil effect", stats.ErrInvalidArgument)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, a := c.find(e.name); a != nil {
		return fmt.Errorf("%w: %s", ErrAlreadyAttached, e.name)
	}
	c.entries = append(c.entries, &attachment{effect: e, active: active})
	return nil
}

// Activate marks an attached effect active. Its position in the chain is the
// position it was attached at.
func (c *Chain) Activate(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, a := c.find(name)
	if a == nil {
		return fmt.Errorf("%w: %s", ErrNotAttached, name)
	}
	a.active = true
	return nil
}

// Detach removes the named effect from the chain.
func (c *Chain) Detach(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	i, _ := c.find(name)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotAttached, name)
	}
	c.entries = append(c.entries[:i], c.entries[i+1:]...)
	return nil
}

// State reports where the named effect is in its lifecycle.
func (c *Chain) State(name string) State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, a := c.find(name)
	switch {
	case a == nil:
		return Detached
	case a.active:
		return Active
	default:
		return Attached
	}
}

// Active returns the active effects in attachment order.
func (c *Chain) Active() []*Effect {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*Effect, 0, len(c.entries))
	for _, a := range c.entries {
		if a.active {
			out = append(out, a.effect)
		}
	}
	return out
}

// Len returns the number of attached effects, active or not.
func (c *Chain) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Evaluate pipes base through the channel modifier of every active effect:
// each stage receives the previous stage's output. Modifiers run outside the
// chain lock on a snapshot, so they may attach or detach effects, which
// only affects later evaluations.
func (c *Chain) Evaluate(ch Channel, s Subject, base float64) float64 {
	if !ch.Valid() {
		return base
	}
	value := base
	for _, e := range c.Active() {
		value = e.Modifier(ch)(s, value)
	}
	return value
}
